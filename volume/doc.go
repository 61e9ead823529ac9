// Package volume implements the adaptive cabin volume decision engine
// for autovolume.
//
// The package contains two cooperating components:
//
//   - Engine maps a telemetry snapshot (speed, cabin noise, gear, horn,
//     navigation prompt, driving mode) plus retained history (previous
//     speed, horn-duck timer) to a clamped target volume. In adaptive
//     control the target is bounded to [0, 80]; in manual control the
//     target is the user's value capped at 100.
//
//   - Animator advances a displayed volume toward the target one
//     fractional step at a time, using a pluggable smoothing strategy.
//     The animator never sleeps; pacing between steps belongs to the
//     caller's display loop.
//
// The design follows established patterns from the codebase:
//   - Interface-based time source (TimeProvider) so the horn-duck window
//     is deterministically testable without real sleeps
//   - Callback-based event notification for consumers/renderers
//   - No error returns on the update path: inputs are range-normalized
//     by clamping, never rejected
//
// Neither component is safe for concurrent use on its own; the
// autovolume.VolumeControl facade guards both behind a single mutex.
package volume
