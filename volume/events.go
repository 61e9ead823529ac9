package volume

// EventType identifies a discrete notice emitted by the engine or the
// animator. Events exist for renderers and external consumers; they have
// no effect on the volume calculation itself.
type EventType uint8

const (
	// EventHornPressed fires on the horn's press edge
	EventHornPressed EventType = iota
	// EventHornReleased fires on the horn's release edge
	EventHornReleased
	// EventHornDuckActive fires each update the horn-duck window reduces
	// the target volume
	EventHornDuckActive
	// EventNavigationSpeaking fires each update a navigation prompt
	// reduces the target volume
	EventNavigationSpeaking
	// EventReverseActive fires each update reverse gear reduces the
	// target volume
	EventReverseActive
	// EventSuddenBrake fires when the speed dropped by more than the
	// braking threshold since the previous update
	EventSuddenBrake
	// EventSpeedDecrease fires on a speed drop too small to count as a
	// sudden brake
	EventSpeedDecrease
	// EventVolumeStep carries the displayed volume after one animation
	// step
	EventVolumeStep
	// EventTargetReached carries the displayed volume after it snapped to
	// the target
	EventTargetReached
)

// String returns a human-readable name for the event type.
func (t EventType) String() string {
	switch t {
	case EventHornPressed:
		return "horn-pressed"
	case EventHornReleased:
		return "horn-released"
	case EventHornDuckActive:
		return "horn-duck-active"
	case EventNavigationSpeaking:
		return "navigation-speaking"
	case EventReverseActive:
		return "reverse-active"
	case EventSuddenBrake:
		return "sudden-brake"
	case EventSpeedDecrease:
		return "speed-decrease"
	case EventVolumeStep:
		return "volume-step"
	case EventTargetReached:
		return "target-reached"
	default:
		return "unknown"
	}
}

// Event is a single notice delivered to a registered EventCallback.
// Volume is only meaningful for EventVolumeStep and EventTargetReached.
type Event struct {
	Type   EventType
	Volume float64
}

// EventCallback receives events synchronously from the emitting
// operation. Callbacks must not call back into the emitting component.
type EventCallback func(event Event)
