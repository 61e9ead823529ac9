// Package autovolume implements adaptive audio volume control for an
// automotive cabin.
//
// The package derives a target audio volume from vehicle telemetry
// (speed, cabin noise, gear, horn, navigation prompt) and a driving
// mode, supports a manual override, and smoothly animates the audible
// volume toward the target. This package provides the main API facade
// that integrates the two core components of the implementation: the
// volume decision engine and the volume animator (see the volume
// subpackage).
//
// # Getting Started
//
// Create a VolumeControl, register an event callback, and feed it
// telemetry snapshots:
//
//	vc := autovolume.New()
//
//	vc.OnEvent(func(ev volume.Event) {
//	    fmt.Printf("[%s]\n", ev.Type)
//	})
//
//	vc.Update(volume.InputSnapshot{
//	    Speed:      50,
//	    CabinNoise: 55,
//	    Mode:       volume.ModeComfort,
//	    Control:    volume.ControlAdaptive,
//	})
//	vc.Settle()
//
//	fmt.Printf("volume: %.1f\n", vc.CurrentVolume())
//
// Update is synchronous and non-blocking; Settle steps the displayed
// volume until it converges on the target. A display loop that wants to
// pace the animation itself calls Step between its own ticks instead.
//
// All methods on VolumeControl are safe for concurrent use: engine and
// animator state are guarded by a single mutex per instance, since every
// field participates in one atomic decision per update.
package autovolume
