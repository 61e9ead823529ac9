package volume

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// HornDuckDuration is how long ducking persists after the horn's release
// edge. While the horn is held the window is re-armed on every update.
const HornDuckDuration = 500 * time.Millisecond

// Engine is the volume decision engine. It owns the retained history the
// rule set depends on (previous speed for braking detection, the
// horn-duck timer) and recomputes the target volume on every Update.
//
// The Engine never returns errors: all inputs are range-normalized by
// clamping. It is not safe for concurrent use on its own; callers embed
// it behind a mutex (see autovolume.VolumeControl).
type Engine struct {
	// Latest accepted snapshot fields
	speed        int
	cabinNoise   int
	reverseGear  bool
	hornActive   bool
	navSpeaking  bool
	mode         Mode
	controlType  ControlType
	manualVolume int

	// Retained history
	previousSpeed     int
	hornDuckActive    bool
	hornDuckStartTime time.Time

	// Last computed output
	targetVolume float64

	// Time provider for deterministic testing.
	// If nil, DefaultTimeProvider is used.
	timeProvider TimeProvider

	eventCallback EventCallback
}

// NewEngine creates a volume decision engine in its start-of-drive state:
// standstill, moderate cabin noise, comfort mode, adaptive control, and
// the default target volume.
func NewEngine() *Engine {
	e := &Engine{
		cabinNoise:   30,
		mode:         ModeComfort,
		controlType:  ControlAdaptive,
		manualVolume: int(DefaultVolume),
		targetVolume: DefaultVolume,
	}
	e.hornDuckStartTime = e.clock().Now()

	logrus.WithFields(logrus.Fields{
		"function":      "NewEngine",
		"target_volume": e.targetVolume,
		"mode":          e.mode.String(),
		"control":       e.controlType.String(),
	}).Info("Volume decision engine created")

	return e
}

// SetTimeProvider injects the time source used by the horn-duck timer.
// Passing nil restores the system clock.
func (e *Engine) SetTimeProvider(tp TimeProvider) {
	e.timeProvider = tp
}

// SetEventCallback registers the callback receiving engine events.
// Passing nil disables event delivery.
func (e *Engine) SetEventCallback(cb EventCallback) {
	e.eventCallback = cb
}

// clock returns the injected TimeProvider or the system default.
func (e *Engine) clock() TimeProvider {
	if e.timeProvider != nil {
		return e.timeProvider
	}
	return defaultTimeProvider
}

var defaultTimeProvider TimeProvider = NewDefaultTimeProvider()

// Update accepts a new telemetry snapshot, advances the horn-duck timer
// and recomputes the target volume.
//
// The previous speed is recorded before the snapshot overwrites the
// speed field, so this call's braking detection compares against the
// PRIOR call's speed, never against itself. Horn press/release edges are
// detected against the prior horn flag for the same reason.
func (e *Engine) Update(in InputSnapshot) {
	logrus.WithFields(logrus.Fields{
		"function": "Engine.Update",
		"speed":    in.Speed,
		"noise":    in.CabinNoise,
		"reverse":  in.ReverseGear,
		"horn":     in.HornActive,
		"nav":      in.NavSpeaking,
		"mode":     in.Mode.String(),
		"control":  in.Control.String(),
	}).Debug("Processing telemetry snapshot")

	e.previousSpeed = e.speed
	e.speed = in.Speed
	e.cabinNoise = in.CabinNoise
	e.reverseGear = in.ReverseGear

	priorHorn := e.hornActive
	if in.HornActive && !priorHorn {
		e.emit(EventHornPressed)
	}
	if !in.HornActive && priorHorn {
		e.emit(EventHornReleased)
	}
	e.hornActive = in.HornActive
	e.navSpeaking = in.NavSpeaking
	e.mode = in.Mode

	e.controlType = in.Control
	if e.controlType == ControlManual {
		e.manualVolume = in.ManualVolume
	}

	e.updateHornDuck(in.HornActive, priorHorn)
	e.calculateTargetVolume()

	logrus.WithFields(logrus.Fields{
		"function":       "Engine.Update",
		"target_volume":  e.targetVolume,
		"previous_speed": e.previousSpeed,
		"horn_duck":      e.hornDuckActive,
	}).Debug("Target volume recomputed")
}

// updateHornDuck advances the horn-duck timer state machine.
//
// Transitions, evaluated with the new horn flag and the prior horn flag:
//   - horn held: ducking active, window re-armed
//   - release edge: ducking active, grace window starts at release
//   - horn idle with ducking active: expire once the window has elapsed
func (e *Engine) updateHornDuck(newHorn, priorHorn bool) {
	now := e.clock().Now()

	switch {
	case newHorn:
		e.hornDuckActive = true
		e.hornDuckStartTime = now
	case priorHorn:
		e.hornDuckActive = true
		e.hornDuckStartTime = now
	case e.hornDuckActive:
		elapsed := e.clock().Since(e.hornDuckStartTime)
		if elapsed >= HornDuckDuration {
			e.hornDuckActive = false
			logrus.WithFields(logrus.Fields{
				"function": "Engine.updateHornDuck",
				"elapsed":  elapsed,
			}).Debug("Horn duck window expired")
		}
	}
}

// calculateTargetVolume recomputes the target from the current state.
//
// Manual control bypasses the rule set entirely: the target is the
// user's value capped at MaxVolume. A negative manual value passes
// through uncapped below; the original rule set never floors manual
// volume and consumers depend on the published target matching it.
func (e *Engine) calculateTargetVolume() {
	if e.controlType == ControlManual {
		e.targetVolume = math.Min(float64(e.manualVolume), MaxVolume)
		if e.targetVolume < MinVolume {
			logrus.WithFields(logrus.Fields{
				"function":      "Engine.calculateTargetVolume",
				"manual_volume": e.manualVolume,
			}).Warn("Negative manual volume passed through as target")
		}
		return
	}

	base := DefaultVolume
	base += e.speedTierBonus()
	base += float64(e.cabinNoise) * noiseGain

	switch e.mode {
	case ModeEco:
		base *= ecoMultiplier
	case ModeSports:
		base *= sportsMultiplier
	}

	e.targetVolume = e.applyEventModifiers(base)
}

// speedTierBonus returns the bonus for the current speed tier. Tiers are
// first-match, not cumulative; standstill and negative speeds get none.
func (e *Engine) speedTierBonus() float64 {
	switch {
	case e.speed > highSpeedThreshold:
		return highSpeedBonus
	case e.speed > midSpeedThreshold:
		return midSpeedBonus
	case e.speed > 0:
		return lowSpeedBonus
	default:
		return 0
	}
}

// applyEventModifiers multiplies the running volume by each active event
// modifier and clamps the result to the adaptive range.
//
// Horn ducking and navigation prompts are independent and stack with
// everything else. Reverse gear and braking are mutually exclusive: the
// braking check is skipped entirely while reversing.
func (e *Engine) applyEventModifiers(base float64) float64 {
	if e.hornDuckActive {
		e.emit(EventHornDuckActive)
		base *= hornDuckMultiplier
	}

	if e.navSpeaking {
		e.emit(EventNavigationSpeaking)
		base *= navDuckMultiplier
	}

	if e.reverseGear {
		e.emit(EventReverseActive)
		base *= reverseDuckMultiplier
	} else {
		speedDiff := e.previousSpeed - e.speed
		if speedDiff > suddenBrakeThreshold {
			e.emit(EventSuddenBrake)
			base *= suddenBrakeMultiplier
		} else if e.speed < e.previousSpeed {
			e.emit(EventSpeedDecrease)
			base *= speedDecreaseMultiplier
		}
	}

	if base < MinVolume {
		base = MinVolume
	}
	if base > MaxAdaptiveVolume {
		base = MaxAdaptiveVolume
	}

	return base
}

// emit delivers an event to the registered callback, if any.
func (e *Engine) emit(t EventType) {
	if e.eventCallback != nil {
		e.eventCallback(Event{Type: t})
	}
}

// TargetVolume returns the engine's last computed target volume.
func (e *Engine) TargetVolume() float64 {
	return e.targetVolume
}

// Speed returns the speed from the latest accepted snapshot.
func (e *Engine) Speed() int {
	return e.speed
}

// PreviousSpeed returns the speed retained from the prior snapshot.
func (e *Engine) PreviousSpeed() int {
	return e.previousSpeed
}

// CabinNoise returns the cabin noise from the latest accepted snapshot.
func (e *Engine) CabinNoise() int {
	return e.cabinNoise
}

// ReverseGear reports whether the latest snapshot has reverse engaged.
func (e *Engine) ReverseGear() bool {
	return e.reverseGear
}

// HornActive reports whether the latest snapshot has the horn held.
func (e *Engine) HornActive() bool {
	return e.hornActive
}

// HornDuckActive reports whether the horn-duck window is currently open.
func (e *Engine) HornDuckActive() bool {
	return e.hornDuckActive
}

// NavSpeaking reports whether the latest snapshot has a navigation
// prompt playing.
func (e *Engine) NavSpeaking() bool {
	return e.navSpeaking
}

// Mode returns the driving mode from the latest accepted snapshot.
func (e *Engine) Mode() Mode {
	return e.mode
}

// ControlType returns the control type from the latest accepted snapshot.
func (e *Engine) ControlType() ControlType {
	return e.controlType
}

// ManualVolume returns the last manual volume accepted while in manual
// control. Switching to adaptive and back without supplying a new value
// retains the previous one.
func (e *Engine) ManualVolume() int {
	return e.manualVolume
}
