package config

import (
	"fmt"
	"os"
	"testing"

	"github.com/gethiox/sourcetracker/internal/pkg/input"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const factoryDir = "../../../../cmd/sourcetracker/sourcetracker-config/factory/controller/"

func key(handler input.HandlerType, code evdev.EvCode) *Code {
	return &Code{Handler: handler, Type: evdev.EV_KEY, Code: code}
}

func abs(handler input.HandlerType, code evdev.EvCode, flip bool) Axis {
	return Axis{Code: Code{Handler: handler, Type: evdev.EV_ABS, Code: code}, Flip: flip}
}

func TestParseDefault(t *testing.T) {
	data, err := os.ReadFile(factoryDir + "0_default.yaml")
	require.Equal(t, nil, err)

	c, err := ParseData(data)
	require.Equal(t, nil, err)

	js := input.DI_TYPE_JOYSTICK
	rz := abs(js, evdev.ABS_RZ, false)
	expected := Config{
		ID:              input.InputID{},
		Kind:            source.KindController,
		Handedness:      source.HandednessUnknown,
		Haptics:         true,
		DefaultDeadzone: 0.1,
		Deadzones: map[Code]float64{
			{Handler: js, Type: evdev.EV_ABS, Code: evdev.ABS_Z}:  0.02,
			{Handler: js, Type: evdev.EV_ABS, Code: evdev.ABS_RZ}: 0.02,
		},
		Thumbstick: &Stick{
			X:      abs(js, evdev.ABS_X, false),
			Y:      abs(js, evdev.ABS_Y, true),
			Button: key(js, evdev.BTN_THUMBL),
		},
		Select: &Trigger{Axis: &rz, Button: key(js, evdev.BTN_TR2)},
		Grasp:  key(js, evdev.BTN_TL),
		Menu:   key(js, evdev.BTN_START),
	}
	assert.Equal(t, expected, c)

	assert.Equal(t, map[Code]source.PressKind{
		*key(js, evdev.BTN_THUMBL): source.PressThumbstick,
		*key(js, evdev.BTN_TR2):    source.PressSelect,
		*key(js, evdev.BTN_TL):     source.PressGrasp,
		*key(js, evdev.BTN_START):  source.PressMenu,
	}, c.Presses())
	assert.Equal(t, 0.02, c.Deadzone(rz.Code))
	assert.Equal(t, 0.1, c.Deadzone(abs(js, evdev.ABS_X, false).Code))
}

func TestParseDualshock(t *testing.T) {
	data, err := os.ReadFile(factoryDir + "sony_dualshock4.yaml")
	require.Equal(t, nil, err)

	c, err := ParseData(data)
	require.Equal(t, nil, err)

	assert.Equal(t, input.InputID{Bus: 0x3, Vendor: 0x54c, Product: 0x9cc, Version: 0x8111}, c.ID)
	require.NotNil(t, c.Touchpad)
	assert.Equal(t, abs(input.DI_TYPE_TOUCHPAD, evdev.ABS_Y, true), c.Touchpad.Y)
	assert.Equal(t, key(input.DI_TYPE_TOUCHPAD, evdev.BTN_TOUCH), c.Touchpad.Touch)
	assert.Equal(t, 0.0, c.Deadzone(c.Touchpad.X.Code))
	require.NotNil(t, c.Orientation)
	assert.Equal(t, abs(input.DI_TYPE_MOTION, evdev.ABS_Z, false), c.Orientation.Z)
	assert.Equal(t, source.PressTouchpad, c.Presses()[*key(input.DI_TYPE_TOUCHPAD, evdev.BTN_LEFT)])
}

func TestParseErrors(t *testing.T) {
	for i, tc := range []string{
		"kind: spaceship",
		"handedness: both",
		"thumbstick: {x: ABS_X, y: ABS_NOPE}",
		"thumbstick: {handler: wheel, x: ABS_X, y: ABS_Y}",
		"select: {}",
		"grasp: KEY_NOPE",
		"deadzone: {default: 1.5}",
		"deadzone: {axes: {ABS_X: -0.1}}",
		"unknown_field: true",
		"menu: xzz",
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := ParseData([]byte(tc))
			assert.NotEqual(t, nil, err)
		})
	}
}

func TestKeyToEvCode(t *testing.T) {
	code, err := KeyToEvCode("x130", evdev.KEYFromString)
	assert.Equal(t, nil, err)
	assert.Equal(t, evdev.EvCode(0x130), code)

	code, err = KeyToEvCode("BTN_SOUTH", evdev.KEYFromString)
	assert.Equal(t, nil, err)
	assert.Equal(t, evdev.EvCode(evdev.BTN_SOUTH), code)
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "JOYSTICK:ABS_X", abs(input.DI_TYPE_JOYSTICK, evdev.ABS_X, false).String())
	assert.Equal(t, "TOUCHPAD:x2fe", Code{Handler: input.DI_TYPE_TOUCHPAD, Type: evdev.EV_KEY, Code: 0x2fe}.String())
}
