package autovolume

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/autovolume/volume"
)

// State is a read-only view of the controller for renderers and other
// external consumers. It captures the latest accepted snapshot fields
// together with both volume values.
type State struct {
	Speed         int
	CabinNoise    int
	ReverseGear   bool
	HornActive    bool
	NavSpeaking   bool
	Mode          volume.Mode
	Control       volume.ControlType
	ManualVolume  int
	TargetVolume  float64
	CurrentVolume float64
}

// VolumeControl is the facade combining the volume decision engine with
// the volume animator. It owns both components behind a single mutex;
// every telemetry update is one atomic decision, so no finer-grained
// locking is meaningful.
type VolumeControl struct {
	mu       sync.Mutex
	engine   *volume.Engine
	animator *volume.Animator
}

// New creates a volume controller with the default start state: target
// and displayed volume both at volume.DefaultVolume.
func New() *VolumeControl {
	vc := &VolumeControl{
		engine:   volume.NewEngine(),
		animator: volume.NewAnimator(volume.DefaultVolume),
	}

	logrus.WithFields(logrus.Fields{
		"function": "New",
		"volume":   volume.DefaultVolume,
	}).Info("Volume controller created")

	return vc
}

// OnEvent registers the callback receiving every event from the engine
// (horn edges, ducking, braking notices) and the animator (intermediate
// volume, target reached). Passing nil disables event delivery.
//
// The callback runs synchronously while the controller's mutex is held
// and must not call back into the VolumeControl.
func (vc *VolumeControl) OnEvent(cb volume.EventCallback) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.engine.SetEventCallback(cb)
	vc.animator.SetEventCallback(cb)
}

// SetTimeProvider injects the time source used by the horn-duck timer.
// Passing nil restores the system clock.
func (vc *VolumeControl) SetTimeProvider(tp volume.TimeProvider) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.engine.SetTimeProvider(tp)
}

// SetSmoothing replaces the animation curve used by Step and Settle.
//
// Returns:
//   - error: if fn is nil
func (vc *VolumeControl) SetSmoothing(fn volume.SmoothingFunc) error {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.animator.SetSmoothing(fn)
}

// Update pushes a new telemetry snapshot into the decision engine and
// recomputes the target volume. The displayed volume is untouched;
// callers advance it with Step or Settle afterwards.
func (vc *VolumeControl) Update(in volume.InputSnapshot) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.engine.Update(in)
}

// Step advances the displayed volume one increment toward the target
// and returns the new displayed volume.
func (vc *VolumeControl) Step() float64 {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.animator.Step(vc.engine.TargetVolume())
}

// Settle advances the displayed volume until it converges on the target,
// snaps it to the target exactly, and returns it.
func (vc *VolumeControl) Settle() float64 {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.animator.Settle(vc.engine.TargetVolume())
}

// CurrentVolume returns the displayed volume.
func (vc *VolumeControl) CurrentVolume() float64 {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.animator.CurrentVolume()
}

// TargetVolume returns the engine's last computed target volume.
func (vc *VolumeControl) TargetVolume() float64 {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.engine.TargetVolume()
}

// State returns a consistent read-only view of the controller.
func (vc *VolumeControl) State() State {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return State{
		Speed:         vc.engine.Speed(),
		CabinNoise:    vc.engine.CabinNoise(),
		ReverseGear:   vc.engine.ReverseGear(),
		HornActive:    vc.engine.HornActive(),
		NavSpeaking:   vc.engine.NavSpeaking(),
		Mode:          vc.engine.Mode(),
		Control:       vc.engine.ControlType(),
		ManualVolume:  vc.engine.ManualVolume(),
		TargetVolume:  vc.engine.TargetVolume(),
		CurrentVolume: vc.animator.CurrentVolume(),
	}
}
