package volume

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// SmoothingFunc advances a displayed volume one step toward a target and
// returns the new displayed volume. Implementations must move current
// strictly toward target without overshooting whenever the two differ.
type SmoothingFunc func(current, target float64) float64

// Exponential returns the exponential-approach smoothing curve: each
// step covers the given fraction of the remaining distance.
//
// Parameters:
//   - factor: per-step fraction, must be in (0.0, 1.0]
//
// Returns:
//   - SmoothingFunc: the smoothing strategy
//   - error: validation error if factor is out of range
func Exponential(factor float64) (SmoothingFunc, error) {
	if factor <= 0.0 || factor > 1.0 {
		logrus.WithFields(logrus.Fields{
			"function": "Exponential",
			"factor":   factor,
		}).Error("Smoothing factor validation failed")
		return nil, fmt.Errorf("smoothing factor must be in (0.0, 1.0]: %f", factor)
	}
	return func(current, target float64) float64 {
		return current + (target-current)*factor
	}, nil
}

// Animator advances a displayed volume toward a target volume supplied
// by the caller on each step. The animator owns only the displayed
// volume; the target always comes from the decision engine.
//
// The animator never sleeps. Real-time pacing between steps is the
// display loop's concern, not the animator's.
type Animator struct {
	current       float64
	smooth        SmoothingFunc
	eventCallback EventCallback
}

// NewAnimator creates an animator with the default exponential smoothing
// curve, starting at the given displayed volume.
func NewAnimator(initial float64) *Animator {
	smooth, _ := Exponential(SmoothFactor)

	logrus.WithFields(logrus.Fields{
		"function": "NewAnimator",
		"initial":  initial,
		"factor":   SmoothFactor,
	}).Info("Volume animator created")

	return &Animator{
		current: initial,
		smooth:  smooth,
	}
}

// SetSmoothing replaces the smoothing strategy.
//
// Returns:
//   - error: if fn is nil
func (a *Animator) SetSmoothing(fn SmoothingFunc) error {
	if fn == nil {
		logrus.WithFields(logrus.Fields{
			"function": "Animator.SetSmoothing",
		}).Error("Smoothing strategy validation failed")
		return fmt.Errorf("smoothing strategy must not be nil")
	}
	a.smooth = fn
	return nil
}

// SetEventCallback registers the callback receiving animation events.
// Passing nil disables event delivery.
func (a *Animator) SetEventCallback(cb EventCallback) {
	a.eventCallback = cb
}

// Step advances the displayed volume one increment toward target and
// returns the new displayed volume. A volume-step event carries the
// intermediate value to the registered callback.
func (a *Animator) Step(target float64) float64 {
	a.current = a.smooth(a.current, target)

	logrus.WithFields(logrus.Fields{
		"function": "Animator.Step",
		"current":  a.current,
		"target":   target,
	}).Debug("Volume animation step")

	a.emit(EventVolumeStep, a.current)
	return a.current
}

// Settle repeatedly steps the displayed volume until it is within the
// convergence tolerance of target, then snaps it to target exactly and
// emits a target-reached event. Returns the settled volume.
//
// The loop is unbounded if target is NaN; the decision engine's clamping
// guarantees a finite target for every input.
func (a *Animator) Settle(target float64) float64 {
	steps := 0
	for math.Abs(a.current-target) > ConvergenceTolerance {
		a.Step(target)
		steps++
	}
	a.current = target
	a.emit(EventTargetReached, a.current)

	logrus.WithFields(logrus.Fields{
		"function": "Animator.Settle",
		"target":   target,
		"steps":    steps,
	}).Debug("Displayed volume reached target")

	return a.current
}

// emit delivers an event to the registered callback, if any.
func (a *Animator) emit(t EventType, vol float64) {
	if a.eventCallback != nil {
		a.eventCallback(Event{Type: t, Volume: vol})
	}
}

// CurrentVolume returns the displayed volume.
func (a *Animator) CurrentVolume() float64 {
	return a.current
}
