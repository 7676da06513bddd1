package input

// Related things to separate handlers that comes from /proc/bus/input/devices

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holoplot/go-evdev"
)

type PhysicalID string
type HandlerType int

const (
	DI_TYPE_UNKNOWN    = HandlerType(iota)
	DI_TYPE_STD_KBD    // standard keyboard 6KRO mode
	DI_TYPE_NKRO_KBD   // N-Key Rollover mode
	DI_TYPE_MULTIMEDIA // Multimedia events, e.g. next track, volume up
	DI_TYPE_SYSTEM     // System events, e.g. sleep, power
	DI_TYPE_MOUSE
	DI_TYPE_JOYSTICK
	DI_TYPE_MOTION // accelerometer/gyroscope handler of a controller
	DI_TYPE_TOUCHPAD
)

func (ht HandlerType) String() string {
	switch ht {
	case DI_TYPE_STD_KBD:
		return "STD_KBD"
	case DI_TYPE_NKRO_KBD:
		return "NKRO_KBD"
	case DI_TYPE_MULTIMEDIA:
		return "MULTIMEDIA"
	case DI_TYPE_SYSTEM:
		return "SYSTEM"
	case DI_TYPE_MOUSE:
		return "MOUSE"
	case DI_TYPE_JOYSTICK:
		return "JOYSTICK"
	case DI_TYPE_MOTION:
		return "MOTION"
	case DI_TYPE_TOUCHPAD:
		return "TOUCHPAD"
	default:
		return "UNKNOWN"
	}
}

// DeviceInfo contains information of every reported event device
// it is supposed to be created by unmarshal function only
type DeviceInfo struct {
	ID       InputID  // ID of the device
	Name     string   // name of the device
	Phys     string   // physical path to the device in the system hierarchy
	Sysfs    string   // sysfs path
	Uniq     string   // unique identification code for the device (if device has it)
	Handlers []string // list of input handles associated with the device
	Bitmaps  Bitmaps
}

type InputID struct {
	Bus     uint16 `yaml:"bus"`
	Vendor  uint16 `yaml:"vendor"`
	Product uint16 `yaml:"product"`
	Version uint16 `yaml:"version"`
}

func (i InputID) String() string {
	return fmt.Sprintf("%s 0x%04x 0x%04x 0x%04x", BusName(i.Bus), i.Vendor, i.Product, i.Version)
}

func hex16(v uint16) string {
	return fmt.Sprintf("0x%04x", v)
}

// Bitmap keeps kernel bitmap words, the lowest word first.
// Words have the size of the kernel "long" which is assumed to match the platform int size.
type Bitmap []uint64

func (b Bitmap) Has(bit uint) bool {
	word := bit / strconv.IntSize
	if int(word) >= len(b) {
		return false
	}
	return b[word]&(1<<(bit%strconv.IntSize)) != 0
}

type Bitmaps struct {
	PROP Bitmap // device properties and quirks
	EV   Bitmap // types of events supported by the device
	KEY  Bitmap // keys/buttons this device has
	REL  Bitmap
	ABS  Bitmap
	MSC  Bitmap // miscellaneous events supported by the device
	LED  Bitmap // leds present on the device
	SND  Bitmap
	FF   Bitmap // force feedback effects
	SW   Bitmap
}

// Event returns event name, like "event0" for /dev/input/event0
func (d *DeviceInfo) Event() string {
	for _, handler := range d.Handlers {
		if strings.HasPrefix(handler, "event") {
			return handler
		}
	}
	return ""
}

// EventPath returns a /dev/input/event filepath for button presses
func (d *DeviceInfo) EventPath() string {
	event := d.Event()
	if event == "" {
		return ""
	}
	return fmt.Sprintf("/dev/input/%s", event)
}

// Supports tells whether the handler reports given event type
func (d *DeviceInfo) Supports(t evdev.EvType) bool {
	return d.Bitmaps.EV.Has(uint(t))
}

// HasForceFeedback tells whether the handler accepts rumble effects
func (d *DeviceInfo) HasForceFeedback() bool {
	return d.Supports(evdev.EV_FF) && d.Bitmaps.FF.Has(FF_RUMBLE)
}

func (d *DeviceInfo) HandlerType() HandlerType {
	if len(d.Bitmaps.EV) > 0 {
		switch d.Bitmaps.EV[0] {
		case 0x120013:
			return DI_TYPE_STD_KBD
		case 0x100013:
			return DI_TYPE_NKRO_KBD
		case 0x17, 0x12001f: // std, mouse
			return DI_TYPE_MOUSE
		case 0x13:
			return DI_TYPE_SYSTEM
		case 0x1f:
			return DI_TYPE_MULTIMEDIA
		}
	}

	for _, h := range d.Handlers {
		switch {
		case strings.HasPrefix(h, "js"):
			return DI_TYPE_JOYSTICK
		case strings.HasPrefix(h, "mouse"):
			if d.Bitmaps.PROP.Has(uint(evdev.INPUT_PROP_BUTTONPAD)) || d.Bitmaps.PROP.Has(uint(evdev.INPUT_PROP_POINTER)) {
				return DI_TYPE_TOUCHPAD
			}
			return DI_TYPE_MOUSE
		}
	}

	if d.Bitmaps.PROP.Has(uint(evdev.INPUT_PROP_ACCELEROMETER)) {
		return DI_TYPE_MOTION
	}

	return DI_TYPE_UNKNOWN
}

// PhysicalUUID returns unique UUID based on connection of given USB port
// The main usage is to identify groups of handlers that represent one physical device
func (d *DeviceInfo) PhysicalUUID() PhysicalID {
	phys := strings.Split(d.Phys, "/")
	return PhysicalID(phys[0])
}
