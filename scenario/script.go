package scenario

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/autovolume"
	"github.com/opd-ai/autovolume/volume"
)

// Step is one scripted telemetry reading. Mode and Control carry the
// names accepted by volume.ParseMode and volume.ParseControlType.
type Step struct {
	Name         string `yaml:"name"`
	Speed        int    `yaml:"speed"`
	Noise        int    `yaml:"noise"`
	Reverse      bool   `yaml:"reverse,omitempty"`
	Horn         bool   `yaml:"horn,omitempty"`
	Nav          bool   `yaml:"nav,omitempty"`
	Mode         string `yaml:"mode"`
	Control      string `yaml:"control"`
	ManualVolume int    `yaml:"manual_volume,omitempty"`
}

// Snapshot converts the step into an engine snapshot.
func (s Step) Snapshot() (volume.InputSnapshot, error) {
	mode, err := volume.ParseMode(s.Mode)
	if err != nil {
		return volume.InputSnapshot{}, fmt.Errorf("step %q: %w", s.Name, err)
	}
	control, err := volume.ParseControlType(s.Control)
	if err != nil {
		return volume.InputSnapshot{}, fmt.Errorf("step %q: %w", s.Name, err)
	}
	return volume.InputSnapshot{
		Speed:        s.Speed,
		CabinNoise:   s.Noise,
		ReverseGear:  s.Reverse,
		HornActive:   s.Horn,
		NavSpeaking:  s.Nav,
		Mode:         mode,
		Control:      control,
		ManualVolume: s.ManualVolume,
	}, nil
}

// Script is a named drive sequence.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Parse decodes a YAML script and validates every step.
func Parse(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", script.Name)
	}
	for _, step := range script.Steps {
		if _, err := step.Snapshot(); err != nil {
			return nil, err
		}
	}
	return &script, nil
}

// Load reads and parses a YAML script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	script, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario file %s: %w", path, err)
	}
	return script, nil
}

// DefaultScript returns the built-in city drive demo sequence.
func DefaultScript() *Script {
	return &Script{
		Name: "city-drive",
		Steps: []Step{
			{Name: "Engine Started", Speed: 0, Noise: 30, Mode: "eco", Control: "adaptive"},
			{Name: "Acceleration to 50 km/h", Speed: 50, Noise: 55, Mode: "comfort", Control: "adaptive"},
			{Name: "Horn Pressed", Speed: 50, Noise: 55, Horn: true, Mode: "comfort", Control: "adaptive"},
			{Name: "Horn Released", Speed: 50, Noise: 55, Mode: "comfort", Control: "adaptive"},
			{Name: "Navigation Speaking Started", Speed: 50, Noise: 60, Nav: true, Mode: "sports", Control: "adaptive"},
			{Name: "Navigation Speaking Ended", Speed: 50, Noise: 60, Mode: "sports", Control: "adaptive"},
			{Name: "User sets Manual Volume 90", Speed: 50, Noise: 60, Mode: "comfort", Control: "manual", ManualVolume: 90},
			{Name: "Switch back to Adaptive", Speed: 50, Noise: 60, Mode: "comfort", Control: "adaptive"},
			{Name: "Reverse Gear Engaged", Speed: 0, Noise: 40, Reverse: true, Mode: "sports", Control: "adaptive"},
			{Name: "Reverse to Drive", Speed: 30, Noise: 40, Mode: "sports", Control: "adaptive"},
			{Name: "Speed Decreased", Speed: 20, Noise: 35, Mode: "eco", Control: "adaptive"},
			{Name: "Sudden Brake", Speed: 5, Noise: 30, Mode: "eco", Control: "adaptive"},
		},
	}
}

// StepResult reports the controller outcome of one replayed step.
type StepResult struct {
	Step          Step
	TargetVolume  float64
	CurrentVolume float64
}

// Runner replays scripts into a volume controller, settling the
// displayed volume after every step.
type Runner struct {
	control *autovolume.VolumeControl

	// OnStep, when set, observes each settled step. It runs after the
	// controller has converged, so both volumes in the result are final
	// for that step.
	OnStep func(result StepResult)
}

// NewRunner creates a runner driving the given controller.
func NewRunner(control *autovolume.VolumeControl) *Runner {
	return &Runner{control: control}
}

// Run replays every step of the script in order.
func (r *Runner) Run(script *Script) error {
	logrus.WithFields(logrus.Fields{
		"function": "Runner.Run",
		"scenario": script.Name,
		"steps":    len(script.Steps),
	}).Info("Replaying drive scenario")

	for _, step := range script.Steps {
		in, err := step.Snapshot()
		if err != nil {
			return err
		}

		r.control.Update(in)
		current := r.control.Settle()

		logrus.WithFields(logrus.Fields{
			"function": "Runner.Run",
			"step":     step.Name,
			"target":   r.control.TargetVolume(),
			"current":  current,
		}).Debug("Scenario step settled")

		if r.OnStep != nil {
			r.OnStep(StepResult{
				Step:          step,
				TargetVolume:  r.control.TargetVolume(),
				CurrentVolume: current,
			})
		}
	}

	return nil
}
