package midi

import (
	"fmt"
	"strings"
)

// status nibbles, lower nibble carries the channel
const (
	NoteOff               uint8 = 0x80
	NoteOn                uint8 = 0x90
	PolyphonicKeyPressure uint8 = 0xa0
	ControlChange         uint8 = 0xb0
	ProgramChange         uint8 = 0xc0
	ChannelPressure       uint8 = 0xd0
	PitchWheelChange      uint8 = 0xe0
)

// AllNotesOff is a channel mode control number
const AllNotesOff uint8 = 123

// pitchCenter is the 14-bit pitch wheel value without any bend
const pitchCenter = 1 << 13

// Event is a raw channel message, status byte first
type Event []byte

func (e Event) status() uint8 {
	return e[0] & 0xf0
}

// channel returns 1-based channel number
func (e Event) channel() int {
	return int(e[0]&0x0f) + 1
}

// data returns n-th data byte, ok is false when the event is too short
func (e Event) data(n int) (uint8, bool) {
	if len(e) <= n+1 {
		return 0, false
	}
	return e[n+1], true
}

func (e Event) raw() string {
	var b strings.Builder
	b.WriteString("Unexpected event format: ")
	for _, v := range e {
		fmt.Fprintf(&b, "0x%02x ", v)
	}
	return b.String()
}

func (e Event) String() string {
	if len(e) == 0 {
		return "Warning: empty Midi event, it should be not emitted"
	}
	first, ok1 := e.data(0)
	second, ok2 := e.data(1)

	switch e.status() {
	case NoteOff, NoteOn:
		if !ok2 {
			break
		}
		label := "Note Off"
		if e.status() == NoteOn {
			label = "Note On "
		}
		return fmt.Sprintf("%s: %s (channel: %2d, velocity: %3d)", label, noteToString(first), e.channel(), second)
	case PolyphonicKeyPressure:
		if !ok2 {
			break
		}
		return fmt.Sprintf("Polyphonic Key Pressure: %s (channel: %2d, pressure: %3d)", noteToString(first), e.channel(), second)
	case ControlChange:
		if !ok1 {
			break
		}
		value := "---"
		if ok2 {
			value = fmt.Sprintf("%3d", second)
		}
		return fmt.Sprintf("Control Change: %3d, value: %s (channel: %2d)", first, value, e.channel())
	case ProgramChange:
		if !ok1 {
			break
		}
		return fmt.Sprintf("Program Change: %3d (channel: %2d)", first, e.channel())
	case ChannelPressure:
		if !ok1 {
			break
		}
		return fmt.Sprintf("Channel Pressure: %3d (channel: %2d)", first, e.channel())
	case PitchWheelChange:
		if !ok2 {
			break
		}
		bend := float64((int(second)<<7|int(first))-pitchCenter) / pitchCenter
		return fmt.Sprintf("Pitch Bend: %4.0f%% (channel: %2d)", bend*100, e.channel())
	}
	return e.raw()
}

func NoteEvent(messageType, channel, note, velocity uint8) Event {
	return Event{messageType | channel, note, velocity}
}

func ControlChangeEvent(channel, function, value uint8) Event {
	return Event{ControlChange | channel, function, value}
}

// PitchBendEvent accepts a value in range -1.0 to 1.0, the 14-bit value is sent lsb first
func PitchBendEvent(channel uint8, val float64) Event {
	const max = 1<<14 - 1
	target := int(max * (clamp(val, -1, 1) + 1) / 2)
	return Event{PitchWheelChange | channel, uint8(target & 0x7f), uint8(target >> 7 & 0x7f)}
}

func clamp(v, min, max float64) float64 {
	switch {
	case v < min:
		return min
	case v > max:
		return max
	}
	return v
}
