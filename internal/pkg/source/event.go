package source

import "fmt"

type EventType int

const (
	Detected EventType = iota
	Updated
	Pressed
	Released
	Lost
)

func (t EventType) String() string {
	switch t {
	case Detected:
		return "Detected"
	case Updated:
		return "Updated"
	case Pressed:
		return "Pressed"
	case Released:
		return "Released"
	case Lost:
		return "Lost"
	default:
		return "Unknown"
	}
}

// Event is a single transition reported by a poller.
// State is complete for Detected and Updated, only State.ID is meaningful for the rest.
type Event struct {
	Type  EventType
	State State
	Press PressKind // Pressed and Released only
}

func (e Event) String() string {
	switch e.Type {
	case Pressed, Released:
		return fmt.Sprintf("%s %s (source %d)", e.Press, e.Type, e.State.ID)
	default:
		return fmt.Sprintf("%s (source %d)", e.Type, e.State.ID)
	}
}

// Poller delivers raw source events, the channel is closed when the poller stops
type Poller interface {
	Events() <-chan Event
}
