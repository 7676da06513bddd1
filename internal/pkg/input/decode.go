package input

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

const procDevices = "/proc/bus/input/devices"

// GetHandlers returns a list of available input handlers in the system.
// Note: there is non-zero probability that returned list may be incomplete,
// no matter where they come from, either /proc/bus/input/devices or /dev/input listing has the same behavior.
// This is needed to be handled when user wants to have a complete group of handlers for given hardware device.
func GetHandlers() ([]DeviceInfo, error) {
	data, err := os.ReadFile(procDevices)
	if err != nil {
		return nil, err
	}

	di, err := unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s failed: %w", procDevices, err)
	}

	return di, nil
}

// unmarshal parses /proc/bus/input/devices file, handlers are separated by an empty line
func unmarshal(data []byte) ([]DeviceInfo, error) {
	var devices = make([]DeviceInfo, 0)

	var device DeviceInfo
	var pending bool

	for n, line := range strings.Split(string(data), "\n") {
		if line == "" {
			if pending {
				devices = append(devices, device)
				device = DeviceInfo{}
				pending = false
			}
			continue
		}
		if len(line) < 3 || line[1] != ':' {
			return devices, fmt.Errorf("line %d: malformed entry: \"%s\"", n+1, line)
		}
		pending = true

		label := line[:1]
		info := line[3:]

		var err error
		switch label {
		case "I":
			err = parseID(&device.ID, info)
		case "N":
			device.Name = strings.Trim(strings.TrimPrefix(info, "Name="), "\"")
		case "P":
			device.Phys = strings.TrimPrefix(info, "Phys=")
		case "S":
			device.Sysfs = strings.TrimPrefix(info, "Sysfs=")
		case "U":
			device.Uniq = strings.TrimPrefix(info, "Uniq=")
		case "H":
			// If there is at least one handler, there is additional space at the end of the line
			handlersChain := strings.TrimPrefix(info, "Handlers=")
			device.Handlers = strings.Fields(handlersChain)
		case "B":
			err = parseBitmap(&device.Bitmaps, info)
		}
		if err != nil {
			return devices, fmt.Errorf("line %d: %w", n+1, err)
		}
	}

	if pending {
		devices = append(devices, device)
	}

	return devices, nil
}

// parseID parses "Bus=0003 Vendor=054c Product=09cc Version=8111"
func parseID(id *InputID, info string) error {
	s := reflect.ValueOf(id).Elem()

	for _, param := range strings.Fields(info) {
		l, v, ok := strings.Cut(param, "=")
		if !ok {
			return fmt.Errorf("malformed id parameter: \"%s\"", param)
		}
		f := s.FieldByName(l)
		if !f.IsValid() {
			continue
		}

		uv, err := strconv.ParseUint(v, 16, 16)
		if err != nil {
			return fmt.Errorf("hex decoding failed: %w", err)
		}
		f.SetUint(uv)
	}
	return nil
}

// parseBitmap parses "KEY=7fdb000000000000 0 0 0 0", words are printed starting with the most significant one
func parseBitmap(bitmaps *Bitmaps, info string) error {
	l, vs, ok := strings.Cut(info, "=")
	if !ok {
		return fmt.Errorf("malformed bitmap: \"%s\"", info)
	}
	f := reflect.ValueOf(bitmaps).Elem().FieldByName(l)
	if !f.IsValid() {
		return nil
	}

	words := strings.Fields(vs)
	var bitmap = make(Bitmap, len(words))
	for i, v := range words {
		uv, err := strconv.ParseUint(v, 16, 64)
		if err != nil {
			return fmt.Errorf("hex decoding failed: %w", err)
		}
		bitmap[len(words)-1-i] = uv
	}
	f.Set(reflect.ValueOf(bitmap))
	return nil
}
