// Package scenario replays scripted drive sequences through a volume
// controller.
//
// A script is a named list of telemetry steps, loadable from YAML, so
// demo drives are data rather than code. DefaultScript returns the
// built-in city drive covering every rule in the decision engine:
// acceleration, horn press and release, a navigation prompt, a manual
// override, reverse gear, and a sudden brake.
package scenario
