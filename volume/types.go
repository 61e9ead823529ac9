package volume

import "fmt"

// Mode represents the vehicle driving mode affecting volume calculation.
type Mode uint8

const (
	// ModeEco lowers the computed volume for relaxed driving
	ModeEco Mode = iota
	// ModeComfort applies the standard volume calculation unchanged
	ModeComfort
	// ModeSports raises the computed volume for spirited driving
	ModeSports
)

// String returns a human-readable name for the driving mode.
func (m Mode) String() string {
	switch m {
	case ModeEco:
		return "eco"
	case ModeComfort:
		return "comfort"
	case ModeSports:
		return "sports"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name into a Mode value.
//
// Accepted names are "eco", "comfort" and "sports" as produced by
// Mode.String. Used by the scenario and telemetry packages which carry
// modes as text.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "eco":
		return ModeEco, nil
	case "comfort":
		return ModeComfort, nil
	case "sports":
		return ModeSports, nil
	default:
		return ModeComfort, fmt.Errorf("unknown driving mode: %q", name)
	}
}

// ControlType selects between condition-driven and user-fixed volume.
type ControlType uint8

const (
	// ControlAdaptive computes the target volume from driving conditions
	ControlAdaptive ControlType = iota
	// ControlManual fixes the target volume to the user's value
	ControlManual
)

// String returns a human-readable name for the control type.
func (c ControlType) String() string {
	switch c {
	case ControlAdaptive:
		return "adaptive"
	case ControlManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseControlType converts a control-type name into a ControlType value.
func ParseControlType(name string) (ControlType, error) {
	switch name {
	case "adaptive":
		return ControlAdaptive, nil
	case "manual":
		return ControlManual, nil
	default:
		return ControlAdaptive, fmt.Errorf("unknown control type: %q", name)
	}
}

// InputSnapshot is one telemetry reading supplied to Engine.Update.
//
// Speed is in km/h and CabinNoise in dB-like units; both may be negative
// in test inputs even though the vehicle domain implies otherwise. The
// engine normalizes out-of-range results by clamping rather than
// rejecting the snapshot. ManualVolume is only meaningful when Control
// is ControlManual.
type InputSnapshot struct {
	Speed        int
	CabinNoise   int
	ReverseGear  bool
	HornActive   bool
	NavSpeaking  bool
	Mode         Mode
	Control      ControlType
	ManualVolume int
}

// Volume calculation tuning. These are fixed constants: the rule set is
// part of the product behavior, not a deployment concern.
const (
	// DefaultVolume is the initial target and displayed volume.
	DefaultVolume = 25.0
	// MaxVolume caps the target in manual control.
	MaxVolume = 100.0
	// MaxAdaptiveVolume caps the target in adaptive control.
	MaxAdaptiveVolume = 80.0
	// MinVolume floors the target in adaptive control.
	MinVolume = 0.0

	// SmoothFactor is the per-step fraction of the remaining distance the
	// default animator curve covers.
	SmoothFactor = 0.3
	// ConvergenceTolerance is the distance below which Settle snaps the
	// displayed volume to the target.
	ConvergenceTolerance = 0.5
)

// Speed tier bonuses, evaluated first-match (not cumulative). Speeds at
// or below zero receive no bonus.
const (
	highSpeedThreshold = 70
	midSpeedThreshold  = 30
	highSpeedBonus     = 15.0
	midSpeedBonus      = 10.0
	lowSpeedBonus      = 5.0
)

// noiseGain converts cabin noise units into volume units.
const noiseGain = 0.2

// Driving mode multipliers.
const (
	ecoMultiplier    = 0.8
	sportsMultiplier = 1.2
)

// Event-driven volume multipliers and the braking detection threshold.
const (
	hornDuckMultiplier      = 0.6
	navDuckMultiplier       = 0.5
	reverseDuckMultiplier   = 0.25
	suddenBrakeMultiplier   = 0.5
	speedDecreaseMultiplier = 0.9

	// suddenBrakeThreshold is the speed drop between consecutive updates
	// that counts as a sudden brake.
	suddenBrakeThreshold = 10
)
