package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/autovolume"
	"github.com/opd-ai/autovolume/volume"
)

const sampleScript = `
name: commute
steps:
  - name: pull away
    speed: 20
    noise: 40
    mode: comfort
    control: adaptive
  - name: radio override
    speed: 20
    noise: 40
    mode: comfort
    control: manual
    manual_volume: 60
`

func TestParse(t *testing.T) {
	script, err := Parse([]byte(sampleScript))
	require.NoError(t, err)

	assert.Equal(t, "commute", script.Name)
	require.Len(t, script.Steps, 2)
	assert.Equal(t, "pull away", script.Steps[0].Name)
	assert.Equal(t, 60, script.Steps[1].ManualVolume)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "steps: ["},
		{"no steps", "name: empty\nsteps: []"},
		{
			"unknown mode",
			"name: bad\nsteps:\n  - name: x\n    speed: 10\n    noise: 10\n    mode: ludicrous\n    control: adaptive",
		},
		{
			"unknown control",
			"name: bad\nsteps:\n  - name: x\n    speed: 10\n    noise: 10\n    mode: eco\n    control: voice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commute.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0o644))

	script, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "commute", script.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStepSnapshot(t *testing.T) {
	step := Step{Name: "x", Speed: 50, Noise: 40, Horn: true, Mode: "sports", Control: "adaptive"}

	in, err := step.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 50, in.Speed)
	assert.True(t, in.HornActive)
	assert.Equal(t, volume.ModeSports, in.Mode)
	assert.Equal(t, volume.ControlAdaptive, in.Control)
}

func TestDefaultScriptReplay(t *testing.T) {
	control := autovolume.New()
	mock := volume.NewMockTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	control.SetTimeProvider(mock)

	var results []StepResult
	runner := NewRunner(control)
	runner.OnStep = func(result StepResult) {
		results = append(results, result)
		// The original demo paced one second between events; mimic that
		// so the horn-duck window expires where the drive expects it to.
		mock.Advance(time.Second)
	}

	script := DefaultScript()
	require.NoError(t, runner.Run(script))
	require.Len(t, results, len(script.Steps))

	wantTargets := map[string]float64{
		"Engine Started":              24.8,  // (25+0+6)*0.8
		"Acceleration to 50 km/h":     46,    // 25 + 10 + 11
		"Horn Pressed":                27.6,  // 46 * 0.6
		"Horn Released":               27.6,  // grace window re-armed at release
		"Navigation Speaking Started": 28.2,  // duck expired, (25+10+12)*1.2*0.5
		"Navigation Speaking Ended":   56.4,  // (25+10+12)*1.2
		"User sets Manual Volume 90":  90,    // manual override
		"Switch back to Adaptive":     47,    // 25 + 10 + 12
		"Reverse Gear Engaged":        9.9,   // (25+0+8)*1.2*0.25
		"Reverse to Drive":            45.6,  // (25+5+8)*1.2
		"Speed Decreased":             26.64, // (25+5+7)*0.8*0.9
		"Sudden Brake":                14.4,  // (25+5+6)*0.8*0.5
	}

	for _, result := range results {
		if want, ok := wantTargets[result.Step.Name]; ok {
			assert.InDelta(t, want, result.TargetVolume, 1e-9, "step %q", result.Step.Name)
		}
		assert.Equal(t, result.TargetVolume, result.CurrentVolume, "step %q must settle", result.Step.Name)
	}
}

func TestRunnerRejectsBadStep(t *testing.T) {
	runner := NewRunner(autovolume.New())
	err := runner.Run(&Script{
		Name:  "bad",
		Steps: []Step{{Name: "x", Mode: "ludicrous", Control: "adaptive"}},
	})
	assert.Error(t, err)
}
