package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gethiox/sourcetracker/internal/pkg/input"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/holoplot/go-evdev"
	"gopkg.in/yaml.v3"
)

type yamlAxis2D struct {
	Handler string `yaml:"handler"`
	X       string `yaml:"x"`
	Y       string `yaml:"y"`
	FlipX   bool   `yaml:"flip_x"`
	FlipY   bool   `yaml:"flip_y"`
	Button  string `yaml:"button"`
	Touch   string `yaml:"touch"`
}

type yamlTrigger struct {
	Handler string `yaml:"handler"`
	Axis    string `yaml:"axis"`
	Button  string `yaml:"button"`
}

type yamlOrientation struct {
	Handler string `yaml:"handler"`
	X       string `yaml:"x"`
	Y       string `yaml:"y"`
	Z       string `yaml:"z"`
	FlipX   bool   `yaml:"flip_x"`
	FlipY   bool   `yaml:"flip_y"`
	FlipZ   bool   `yaml:"flip_z"`
}

type YamlDeviceConfig struct {
	Identifier input.InputID `yaml:"identifier"`

	Kind       string `yaml:"kind"`
	Handedness string `yaml:"handedness"`
	Haptics    bool   `yaml:"haptics"`

	Deadzone struct {
		Default float64            `yaml:"default"`
		Axes    map[string]float64 `yaml:"axes"`
	} `yaml:"deadzone"`

	Thumbstick  *yamlAxis2D      `yaml:"thumbstick"`
	Touchpad    *yamlAxis2D      `yaml:"touchpad"`
	Select      *yamlTrigger     `yaml:"select"`
	Grasp       string           `yaml:"grasp"`
	Menu        string           `yaml:"menu"`
	Orientation *yamlOrientation `yaml:"orientation"`
}

// Code identifies a single control of a device across all of its handlers
type Code struct {
	Handler input.HandlerType
	Type    evdev.EvType
	Code    evdev.EvCode
}

func (c Code) String() string {
	var name string
	switch c.Type {
	case evdev.EV_KEY:
		name = evdev.KEYToString[c.Code]
	case evdev.EV_ABS:
		name = evdev.ABSToString[c.Code]
	}
	if name == "" {
		name = fmt.Sprintf("x%x", c.Code)
	}
	return fmt.Sprintf("%s:%s", c.Handler, name)
}

type Axis struct {
	Code
	Flip bool
}

type Stick struct {
	X, Y   Axis
	Button *Code
}

type Touchpad struct {
	X, Y   Axis
	Touch  *Code
	Button *Code
}

type Trigger struct {
	Axis   *Axis
	Button *Code
}

// Orientation maps accelerometer axes, rotation of the device is derived from the gravity direction
type Orientation struct {
	X, Y, Z Axis
}

type Config struct {
	ID         input.InputID
	Kind       source.Kind
	Handedness source.Handedness
	Haptics    bool

	DefaultDeadzone float64
	Deadzones       map[Code]float64

	Thumbstick  *Stick
	Touchpad    *Touchpad
	Select      *Trigger
	Grasp       *Code
	Menu        *Code
	Orientation *Orientation
}

// Deadzone returns deadzone configured for a given axis, default one otherwise
func (c Config) Deadzone(code Code) float64 {
	d, ok := c.Deadzones[code]
	if !ok {
		return c.DefaultDeadzone
	}
	return d
}

// Presses returns buttons that are reported as source presses
func (c Config) Presses() map[Code]source.PressKind {
	var presses = make(map[Code]source.PressKind)
	if c.Thumbstick != nil && c.Thumbstick.Button != nil {
		presses[*c.Thumbstick.Button] = source.PressThumbstick
	}
	if c.Touchpad != nil && c.Touchpad.Button != nil {
		presses[*c.Touchpad.Button] = source.PressTouchpad
	}
	if c.Select != nil && c.Select.Button != nil {
		presses[*c.Select.Button] = source.PressSelect
	}
	if c.Grasp != nil {
		presses[*c.Grasp] = source.PressGrasp
	}
	if c.Menu != nil {
		presses[*c.Menu] = source.PressMenu
	}
	return presses
}

type DeviceConfig struct {
	ConfigFile string
	ConfigType string // factory or user
	Config     Config
}

func parseHandler(name string) (input.HandlerType, error) {
	switch strings.ToLower(name) {
	case "", "joystick":
		return input.DI_TYPE_JOYSTICK, nil
	case "touchpad":
		return input.DI_TYPE_TOUCHPAD, nil
	case "motion":
		return input.DI_TYPE_MOTION, nil
	}
	return input.DI_TYPE_UNKNOWN, fmt.Errorf("unsupported handler: \"%s\"", name)
}

// KeyToEvCode converts evdev code name like "BTN_SOUTH" or a hex value like "x130"
func KeyToEvCode(key string, lookupTable map[string]evdev.EvCode) (evdev.EvCode, error) {
	if strings.HasPrefix(key, "x") {
		keyTrimmed := strings.TrimPrefix(key, "x")
		evcode, err := strconv.ParseUint(keyTrimmed, 16, 16)
		if err != nil {
			return evdev.EvCode(0), fmt.Errorf("convertion hex value \"%s\" failed: %w", keyTrimmed, err)
		}
		return evdev.EvCode(evcode), nil
	}

	evcode, ok := lookupTable[key]
	if !ok {
		return evdev.EvCode(0), fmt.Errorf("EvCode name \"%s\" not found / not supported", key)
	}
	return evcode, nil
}

func parseCode(handler input.HandlerType, evType evdev.EvType, raw string) (Code, error) {
	var table = evdev.KEYFromString
	if evType == evdev.EV_ABS {
		table = evdev.ABSFromString
	}
	code, err := KeyToEvCode(raw, table)
	if err != nil {
		return Code{}, err
	}
	return Code{Handler: handler, Type: evType, Code: code}, nil
}

// parseOptionalButton returns nil for an empty name
func parseOptionalButton(handler input.HandlerType, raw string) (*Code, error) {
	if raw == "" {
		return nil, nil
	}
	code, err := parseCode(handler, evdev.EV_KEY, raw)
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func parseAxis(handler input.HandlerType, raw string, flip bool) (Axis, error) {
	code, err := parseCode(handler, evdev.EV_ABS, raw)
	if err != nil {
		return Axis{}, err
	}
	return Axis{Code: code, Flip: flip}, nil
}

func parseAxis2D(raw yamlAxis2D) (Axis, Axis, *Code, *Code, error) {
	handler, err := parseHandler(raw.Handler)
	if err != nil {
		return Axis{}, Axis{}, nil, nil, err
	}
	x, err := parseAxis(handler, raw.X, raw.FlipX)
	if err != nil {
		return Axis{}, Axis{}, nil, nil, fmt.Errorf("x axis: %w", err)
	}
	y, err := parseAxis(handler, raw.Y, raw.FlipY)
	if err != nil {
		return Axis{}, Axis{}, nil, nil, fmt.Errorf("y axis: %w", err)
	}
	button, err := parseOptionalButton(handler, raw.Button)
	if err != nil {
		return Axis{}, Axis{}, nil, nil, fmt.Errorf("button: %w", err)
	}
	touch, err := parseOptionalButton(handler, raw.Touch)
	if err != nil {
		return Axis{}, Axis{}, nil, nil, fmt.Errorf("touch: %w", err)
	}
	return x, y, button, touch, nil
}

// parseDeadzoneKey accepts "ABS_X" for joystick handler or "<handler>:ABS_X" for the others
func parseDeadzoneKey(raw string) (Code, error) {
	handlerRaw, axisRaw, ok := strings.Cut(raw, ":")
	if !ok {
		handlerRaw, axisRaw = "", raw
	}
	handler, err := parseHandler(handlerRaw)
	if err != nil {
		return Code{}, err
	}
	return parseCode(handler, evdev.EV_ABS, axisRaw)
}

// ParseData parses yaml mapping config
func ParseData(data []byte) (Config, error) {
	var cfg YamlDeviceConfig
	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)

	err := d.Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing yaml failed: %w", err)
	}

	var c = Config{
		ID:              cfg.Identifier,
		Haptics:         cfg.Haptics,
		DefaultDeadzone: cfg.Deadzone.Default,
		Deadzones:       make(map[Code]float64),
	}

	c.Kind, err = source.KindFromString(cfg.Kind)
	if err != nil {
		return Config{}, err
	}
	c.Handedness, err = source.HandednessFromString(cfg.Handedness)
	if err != nil {
		return Config{}, err
	}

	for raw, deadzone := range cfg.Deadzone.Axes {
		code, err := parseDeadzoneKey(raw)
		if err != nil {
			return Config{}, fmt.Errorf("deadzone %s: %w", raw, err)
		}
		if deadzone < 0 || deadzone >= 1 {
			return Config{}, fmt.Errorf("deadzone %s: value %.2f out of range [0, 1)", raw, deadzone)
		}
		c.Deadzones[code] = deadzone
	}
	if c.DefaultDeadzone < 0 || c.DefaultDeadzone >= 1 {
		return Config{}, fmt.Errorf("default deadzone: value %.2f out of range [0, 1)", c.DefaultDeadzone)
	}

	if cfg.Thumbstick != nil {
		x, y, button, _, err := parseAxis2D(*cfg.Thumbstick)
		if err != nil {
			return Config{}, fmt.Errorf("thumbstick: %w", err)
		}
		c.Thumbstick = &Stick{X: x, Y: y, Button: button}
	}

	if cfg.Touchpad != nil {
		x, y, button, touch, err := parseAxis2D(*cfg.Touchpad)
		if err != nil {
			return Config{}, fmt.Errorf("touchpad: %w", err)
		}
		c.Touchpad = &Touchpad{X: x, Y: y, Button: button, Touch: touch}
	}

	if cfg.Select != nil {
		handler, err := parseHandler(cfg.Select.Handler)
		if err != nil {
			return Config{}, fmt.Errorf("select: %w", err)
		}
		var trigger Trigger
		if cfg.Select.Axis != "" {
			axis, err := parseAxis(handler, cfg.Select.Axis, false)
			if err != nil {
				return Config{}, fmt.Errorf("select axis: %w", err)
			}
			trigger.Axis = &axis
		}
		trigger.Button, err = parseOptionalButton(handler, cfg.Select.Button)
		if err != nil {
			return Config{}, fmt.Errorf("select button: %w", err)
		}
		if trigger.Axis == nil && trigger.Button == nil {
			return Config{}, fmt.Errorf("select: axis or button is required")
		}
		c.Select = &trigger
	}

	c.Grasp, err = parseOptionalButton(input.DI_TYPE_JOYSTICK, cfg.Grasp)
	if err != nil {
		return Config{}, fmt.Errorf("grasp: %w", err)
	}
	c.Menu, err = parseOptionalButton(input.DI_TYPE_JOYSTICK, cfg.Menu)
	if err != nil {
		return Config{}, fmt.Errorf("menu: %w", err)
	}

	if cfg.Orientation != nil {
		o := cfg.Orientation
		handler, err := parseHandler(o.Handler)
		if err != nil {
			return Config{}, fmt.Errorf("orientation: %w", err)
		}
		var orientation Orientation
		for _, a := range []struct {
			dst  *Axis
			raw  string
			flip bool
		}{
			{&orientation.X, o.X, o.FlipX},
			{&orientation.Y, o.Y, o.FlipY},
			{&orientation.Z, o.Z, o.FlipZ},
		} {
			*a.dst, err = parseAxis(handler, a.raw, a.flip)
			if err != nil {
				return Config{}, fmt.Errorf("orientation: %w", err)
			}
		}
		c.Orientation = &orientation
	}

	return c, nil
}

// readDeviceConfig parses yaml file and provide ready to use DeviceConfig
func readDeviceConfig(path, configType string) (DeviceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DeviceConfig{}, fmt.Errorf("reading file data failed: %w", err)
	}

	c, err := ParseData(data)
	if err != nil {
		return DeviceConfig{}, err
	}

	return DeviceConfig{
		ConfigFile: path,
		ConfigType: configType,
		Config:     c,
	}, nil
}
