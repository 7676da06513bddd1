package midi

import (
	"bytes"
	"math"

	"github.com/gethiox/sourcetracker/internal/pkg/notify"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/go-gl/mathgl/mgl32"
)

// Mapping describes how source notifications are expressed as midi messages
type Mapping struct {
	Channel  uint8 // channel of the first source, 0-15
	Velocity uint8

	Notes        map[source.PressKind]uint8
	ThumbstickCC [2]uint8 // x, y
	TouchpadCC   [2]uint8 // x, y
	TouchCC      uint8    // 127 when touched, 0 otherwise
	SelectCC     uint8
	PitchBend    bool // device tilt as pitch bend
}

func DefaultMapping() Mapping {
	return Mapping{
		Channel:  0,
		Velocity: 64,
		Notes: map[source.PressKind]uint8{
			source.PressSelect:     60, // C3
			source.PressGrasp:      62,
			source.PressMenu:       64,
			source.PressTouchpad:   65,
			source.PressThumbstick: 67,
		},
		ThumbstickCC: [2]uint8{16, 17},
		TouchpadCC:   [2]uint8{18, 19},
		TouchCC:      80,
		SelectCC:     2, // breath controller
		PitchBend:    true,
	}
}

type channelState struct {
	channel uint8
	cc      map[uint8]uint8 // last sent value per controller
	notes   map[uint8]bool
	bend    float64
}

// Translator converts notifications into midi messages.
// Every detected source gets its own channel, starting from Mapping.Channel.
// It is not safe for concurrent use.
type Translator struct {
	mapping Mapping
	sources map[source.ID]*channelState
}

func NewTranslator(mapping Mapping) *Translator {
	return &Translator{
		mapping: mapping,
		sources: make(map[source.ID]*channelState),
	}
}

// Channel returns channel assigned to a source
func (t *Translator) Channel(id source.ID) (uint8, bool) {
	s, ok := t.sources[id]
	if !ok {
		return 0, false
	}
	return s.channel, true
}

func (t *Translator) freeChannel() uint8 {
	for i := uint8(0); i < 16; i++ {
		channel := (t.mapping.Channel + i) % 16
		used := false
		for _, s := range t.sources {
			if s.channel == channel {
				used = true
				break
			}
		}
		if !used {
			return channel
		}
	}
	return t.mapping.Channel % 16 // all busy, shared
}

// state returns channel state of a source, sources not seen as detected are added on the fly
func (t *Translator) state(id source.ID) *channelState {
	s, ok := t.sources[id]
	if !ok {
		s = &channelState{
			channel: t.freeChannel(),
			cc:      make(map[uint8]uint8),
			notes:   make(map[uint8]bool),
		}
		t.sources[id] = s
	}
	return s
}

// axisValue converts -1.0 - 1.0 into 0 - 127
func axisValue(v float32) uint8 {
	return amountValue((float64(v) + 1) / 2)
}

// amountValue converts 0.0 - 1.0 into 0 - 127
func amountValue(v float64) uint8 {
	return uint8(math.Round(clamp(v, 0, 1) * 127))
}

func (s *channelState) controlChange(events []Event, cc, value uint8) []Event {
	prev, ok := s.cc[cc]
	if ok && prev == value {
		return events
	}
	s.cc[cc] = value
	return append(events, ControlChangeEvent(s.channel, cc, value))
}

// tilt returns sideways tilt of the device, -1.0 - 1.0
func tilt(rotation mgl32.Quat) float64 {
	up := rotation.Inverse().Rotate(mgl32.Vec3{0, 1, 0})
	return clamp(float64(up.X()), -1, 1)
}

// Translate returns midi messages for a single notification, possibly none
func (t *Translator) Translate(n notify.Notification) []Event {
	var events []Event
	m := t.mapping

	switch n.Type {
	case notify.SourceDetected:
		t.state(n.Source)

	case notify.SourceLost:
		s, ok := t.sources[n.Source]
		if !ok {
			return nil
		}
		delete(t.sources, n.Source)
		events = append(events, ControlChangeEvent(s.channel, AllNotesOff, 0))
		if s.bend != 0 {
			events = append(events, PitchBendEvent(s.channel, 0))
		}

	case notify.InputPositionChanged:
		s := t.state(n.Source)
		var ccs [2]uint8
		switch n.Press {
		case source.PressThumbstick:
			ccs = m.ThumbstickCC
		case source.PressTouchpad:
			ccs = m.TouchpadCC
		default:
			return nil
		}
		events = s.controlChange(events, ccs[0], axisValue(n.Position.X()))
		events = s.controlChange(events, ccs[1], axisValue(n.Position.Y()))

	case notify.TouchpadTouched:
		events = t.state(n.Source).controlChange(events, m.TouchCC, 127)

	case notify.TouchpadReleased:
		events = t.state(n.Source).controlChange(events, m.TouchCC, 0)

	case notify.SelectAmountChanged:
		events = t.state(n.Source).controlChange(events, m.SelectCC, amountValue(n.Amount))

	case notify.RotationChanged:
		if !m.PitchBend {
			return nil
		}
		s := t.state(n.Source)
		bend := tilt(n.GripRotation)
		ev := PitchBendEvent(s.channel, bend)
		if bytes.Equal(ev, PitchBendEvent(s.channel, s.bend)) {
			return nil
		}
		s.bend = bend
		events = append(events, ev)

	case notify.SourceDown:
		note, ok := m.Notes[n.Press]
		if !ok {
			return nil
		}
		s := t.state(n.Source)
		s.notes[note] = true
		events = append(events, NoteEvent(NoteOn, s.channel, note, m.Velocity))

	case notify.SourceUp:
		note, ok := m.Notes[n.Press]
		if !ok {
			return nil
		}
		s := t.state(n.Source)
		if !s.notes[note] {
			return nil
		}
		delete(s.notes, note)
		events = append(events, NoteEvent(NoteOff, s.channel, note, 0))
	}

	return events
}
