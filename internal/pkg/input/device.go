package input

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Collects all separate device-info handlers together for building one logical handler

type DeviceType int
type DeviceID string

// Generic device types
const (
	UnknownDevice  DeviceType = iota
	KeyboardDevice            // keyboard, including keyboard with integrated mouse
	MouseDevice               // mouse device only
	JoystickDevice            // joystick device, may contain keyboard, mouse, sensors events
)

type InputEvent struct {
	Source DeviceInfo
	Event  evdev.InputEvent
}

func (e DeviceType) String() string {
	switch e {
	case KeyboardDevice:
		return "Keyboard"
	case MouseDevice:
		return "Mouse"
	case JoystickDevice:
		return "Joystick"
	default:
		return "Unknown"
	}
}

func containsOnly(in map[HandlerType]DeviceInfo, handlerTypes ...HandlerType) bool {
	if len(in) != len(handlerTypes) {
		return false
	}
	return contains(in, handlerTypes...)
}

func contains(in map[HandlerType]DeviceInfo, handlerTypes ...HandlerType) bool {
	for _, ht := range handlerTypes {
		_, ok := in[ht]
		if !ok {
			return false
		}
	}
	return true
}

func DetermineDeviceType(handlers map[HandlerType]DeviceInfo) DeviceType {
	switch {
	case contains(handlers, DI_TYPE_JOYSTICK):
		return JoystickDevice
	case contains(handlers, DI_TYPE_STD_KBD, DI_TYPE_MULTIMEDIA, DI_TYPE_SYSTEM):
		return KeyboardDevice
	case containsOnly(handlers, DI_TYPE_MOUSE):
		return MouseDevice
	default:
		return UnknownDevice
	}
}

// Normalize processes all DeviceInfo list and returns generic devices with its underlying DeviceInfo handlers.
// Devices are ordered by their physical path.
func Normalize(deviceInfos []DeviceInfo) []Device {
	var collection = make(map[PhysicalID][]DeviceInfo, 0)

	for _, di := range deviceInfos {
		key := di.PhysicalUUID()
		collection[key] = append(collection[key], di)
	}

	var devices = make([]Device, 0, len(collection))

	for devPhys, dis := range collection {
		var dev = Device{
			ID:       dis[0].ID,
			Handlers: make(map[HandlerType]DeviceInfo),
			AbsInfos: make(map[HandlerType]map[evdev.EvCode]evdev.AbsInfo),
		}

		var name = ""
		var uniq = ""

		for _, di := range dis {
			switch {
			case name == "":
				name = di.Name
			case len(di.Name) < len(name):
				name = di.Name
			}

			if di.Uniq != "" && uniq == "" {
				uniq = di.Uniq
			}

			v, ok := dev.Handlers[di.HandlerType()]
			if ok {
				log.Info(fmt.Sprintf("handler already exist: %s (overwritten by %s)", v.Event(), di.Event()),
					zap.String("device_name", name), logger.Debug)
			}

			dev.Handlers[di.HandlerType()] = di
		}

		dev.DeviceType = DetermineDeviceType(dev.Handlers)
		dev.Name = name
		dev.Uniq = uniq
		dev.Phys = string(devPhys)
		devices = append(devices, dev)
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Phys < devices[j].Phys })
	return devices
}

// Device is a representation of singular hardware device, it keeps all underlying DeviceInfo handlers
type Device struct {
	ID   InputID
	Name string
	Uniq string
	// Phys is a common part of Handlers Phys
	// for example "usb-20980000.usb-1.4/input0" will be used as "usb-20980000.usb-1.4"
	Phys string

	DeviceType DeviceType
	Handlers   map[HandlerType]DeviceInfo

	// filled when device is opened
	AbsInfos map[HandlerType]map[evdev.EvCode]evdev.AbsInfo
}

func (d *Device) String() string {
	return fmt.Sprintf(
		"[%s], \"%s\", %d handlers (0x%04x, 0x%04x, 0x%04x, 0x%04x, \"%s\")",
		d.DeviceType, d.Name, len(d.Handlers), d.ID.Bus, d.ID.Vendor, d.ID.Product, d.ID.Version, d.Uniq,
	)
}

// DeviceID returns unique UUID for every device as much as possible, regardless of its connection source.
// Vast amount of devices doesn't provide unique identifiers, so often it is
// impossible to distinguish between two the very same types of devices.
// Sometimes (eg. dualshock 4, steam controller) device provide such information, so handling of separate configurations
// for those should be possible
func (d *Device) DeviceID() DeviceID {
	s := fmt.Sprintf("%04x%04x%04x%04x%s", d.ID.Bus, d.ID.Vendor, d.ID.Product, d.ID.Version, d.Uniq)
	return DeviceID(s)
}

func (d *Device) PhysicalUUID() PhysicalID {
	return PhysicalID(d.Phys)
}

// ForceFeedbackPath returns event path of the first handler accepting rumble effects
func (d *Device) ForceFeedbackPath() (string, bool) {
	for _, ht := range []HandlerType{DI_TYPE_JOYSTICK, DI_TYPE_UNKNOWN, DI_TYPE_MOTION} {
		h, ok := d.Handlers[ht]
		if ok && h.HasForceFeedback() {
			return h.EventPath(), true
		}
	}
	return "", false
}

// ProcessEvents opens all device handlers and merges their events into one channel.
// The channel is closed when all handlers are done, either due to context cancellation or disconnection.
func (d *Device) ProcessEvents(ctx context.Context, grab bool) (<-chan *InputEvent, error) {
	var events = make(chan *InputEvent, 64)
	var opened = make(map[HandlerType]*evdev.InputDevice)

	for ht, h := range d.Handlers {
		if h.EventPath() == "" {
			continue
		}
		dev, err := evdev.Open(h.EventPath())
		if err != nil {
			for _, o := range opened {
				_ = o.Close()
			}
			return nil, fmt.Errorf("opening handler failed: %w", err)
		}
		opened[ht] = dev

		absInfos, err := dev.AbsInfos()
		if err == nil {
			d.AbsInfos[ht] = absInfos
		}
	}

	wg := sync.WaitGroup{}
	for ht, dev := range opened {
		go func(dev *evdev.InputDevice) {
			<-ctx.Done()
			err := dev.Close()
			if err != nil {
				log.Info(fmt.Sprintf("device close failed: %v", err), zap.String("handler_path", dev.Path()), logger.Debug)
			}
		}(dev)

		wg.Add(1)
		go func(dev *evdev.InputDevice, info DeviceInfo) {
			defer wg.Done()
			event := info.Event()
			name, _ := dev.Name()
			name = strings.Trim(name, "\x00")

			if grab {
				_ = dev.Grab()
				log.Info("Grabbing device for exclusive usage", zap.String("handler_event", event), zap.String("handler_name", name), logger.Debug)
			}
			log.Info("Reading input events", zap.String("handler_event", event), zap.String("handler_name", name), logger.Debug)

			err := dev.NonBlock()
			if err != nil {
				log.Info(fmt.Sprintf("enabling non-blocking event reading mode failed: %v", err),
					zap.String("handler_event", event), zap.String("handler_name", name),
					logger.Warning,
				)
			}
			for {
				ev, err := dev.ReadOne()
				if err != nil {
					break
				}

				if ev.Type == evdev.EV_KEY && ev.Value == 2 { // repeat
					continue
				}

				events <- &InputEvent{
					Source: info,
					Event:  *ev,
				}
			}
			if grab {
				_ = dev.Ungrab()
			}
			log.Info("Reading input events finished", zap.String("handler_event", event), zap.String("handler_name", name), logger.Debug)
		}(dev, d.Handlers[ht])
	}

	go func() {
		wg.Wait()
		log.Info("All handlers done, closing events channel", zap.String("device_name", d.Name), logger.Debug)
		close(events)
	}()

	return events, nil
}
