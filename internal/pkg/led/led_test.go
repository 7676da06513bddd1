package led

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/notify"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/realbucksavage/openrgb-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLights(t *testing.T) {
	l := NewLights(0.2)
	l.Apply(notify.Notification{Type: notify.SourceDown, Source: 1, Press: source.PressSelect})
	_, ok := l.Color(1)
	assert.False(t, ok, "unknown sources are ignored")

	l.Apply(notify.Notification{Type: notify.SourceDetected, Source: 1})
	l.Apply(notify.Notification{Type: notify.SourceDetected, Source: 2})
	assert.Equal(t, []source.ID{1, 2}, l.Dirty())
	assert.Len(t, l.Dirty(), 0)

	assert.InDelta(t, 0.2, l.Brightness(1), 1e-9)
	c1, _ := l.Color(1)
	c2, _ := l.Color(2)
	assert.NotEqual(t, c1, c2)

	l.Apply(notify.Notification{Type: notify.SelectAmountChanged, Source: 1, Amount: 0.5})
	assert.InDelta(t, 0.6, l.Brightness(1), 1e-9)
	l.Apply(notify.Notification{Type: notify.SelectAmountChanged, Source: 1, Amount: 0})

	l.Apply(notify.Notification{Type: notify.TouchpadTouched, Source: 1})
	assert.InDelta(t, 0.6, l.Brightness(1), 1e-9)
	l.Apply(notify.Notification{Type: notify.TouchpadReleased, Source: 1})

	l.Apply(notify.Notification{Type: notify.SourceDown, Source: 1, Press: source.PressGrasp})
	l.Apply(notify.Notification{Type: notify.SourceDown, Source: 1, Press: source.PressMenu})
	l.Apply(notify.Notification{Type: notify.SourceUp, Source: 1, Press: source.PressGrasp})
	assert.Equal(t, 1.0, l.Brightness(1))
	c, _ := l.Color(1)
	assert.Equal(t, openrgb.Color{Red: 255, Green: 128, Blue: 0}, c)

	l.Apply(notify.Notification{Type: notify.SourceUp, Source: 1, Press: source.PressMenu})
	assert.InDelta(t, 0.2, l.Brightness(1), 1e-9)
	assert.Equal(t, []source.ID{1}, l.Dirty())

	// freed slot is reused
	l.Apply(notify.Notification{Type: notify.SourceLost, Source: 1})
	l.Apply(notify.Notification{Type: notify.SourceDetected, Source: 3})
	c3, _ := l.Color(3)
	assert.Equal(t, c1, c3)
}

func TestHueSlots(t *testing.T) {
	seen := make(map[float64]int, slots)
	for slot := 0; slot < slots; slot++ {
		h := hue(slot)
		assert.True(t, h >= 0 && h < 360, "slot %d: hue %.1f", slot, h)
		prev, ok := seen[h]
		assert.False(t, ok, "slot %d and slot %d share hue %.1f", prev, slot, h)
		seen[h] = slot
	}
	assert.Equal(t, 30.0, hue(0))
	assert.Equal(t, 187.5, hue(1))

	l := NewLights(1)
	for id := source.ID(1); id <= slots; id++ {
		l.Apply(notify.Notification{Type: notify.SourceDetected, Source: id})
	}
	c1, _ := l.Color(1)
	c9, _ := l.Color(9)
	assert.NotEqual(t, c1, c9)
}

// fakeSysfs creates hidraw to event links the way sysfs exposes them
func fakeSysfs(t *testing.T, hidraw map[string]string) {
	root := t.TempDir()
	for raw, event := range hidraw {
		dir := filepath.Join(root, "hidraw", raw, "device", "input", "input7", event)
		require.Equal(t, nil, os.MkdirAll(dir, 0o777))
	}
	prev := sysClass
	sysClass = root
	t.Cleanup(func() { sysClass = prev })
}

func TestResolveHidraw(t *testing.T) {
	fakeSysfs(t, map[string]string{"hidraw3": "event12"})

	event, err := resolveHidraw("HID: /dev/hidraw3")
	require.Equal(t, nil, err)
	assert.Equal(t, "event12", event)

	_, err = resolveHidraw("/dev/hidraw4")
	assert.NotEqual(t, nil, err)
	_, err = resolveHidraw("I2C: /dev/i2c-1")
	assert.NotEqual(t, nil, err)
}

type update struct {
	index  int
	colors []openrgb.Color
}

type fakeServer struct {
	devices []openrgb.Device
	updates []update
}

func (f *fakeServer) GetControllerCount() (int, error) {
	return len(f.devices), nil
}

func (f *fakeServer) GetDeviceController(i int) (openrgb.Device, error) {
	if i >= len(f.devices) {
		return openrgb.Device{}, fmt.Errorf("no device")
	}
	return f.devices[i], nil
}

func (f *fakeServer) UpdateLEDs(i int, colors []openrgb.Color) error {
	f.updates = append(f.updates, update{index: i, colors: colors})
	return nil
}

func TestLightbar(t *testing.T) {
	fakeSysfs(t, map[string]string{"hidraw0": "event3", "hidraw1": "event9"})
	server := &fakeServer{devices: []openrgb.Device{
		{Name: "Keyboard", Location: "HID: /dev/hidraw0"},
		{Name: "Wireless Controller", Location: "HID: /dev/hidraw1", Colors: make([]openrgb.Color, 1)},
	}}

	handlers := map[source.ID][]string{5: {"event8", "event9"}}
	b := NewLightbar(server, 0.2, func(id source.ID) []string { return handlers[id] })

	now := time.Now()
	b.Apply(notify.Notification{Type: notify.SourceDetected, Source: 5})
	b.Apply(notify.Notification{Type: notify.SourceDetected, Source: 6})
	b.Update(now)

	require.Len(t, server.updates, 1)
	assert.Equal(t, 1, server.updates[0].index)
	c, _ := b.lights.Color(5)
	assert.Equal(t, []openrgb.Color{c}, server.updates[0].colors)

	// nothing changed, source without controller is retried later
	b.Update(now.Add(time.Millisecond * 10))
	assert.Len(t, server.updates, 1)
	assert.Len(t, b.lookup, 1)

	b.Apply(notify.Notification{Type: notify.SourceDown, Source: 5, Press: source.PressSelect})
	b.Update(now.Add(time.Millisecond * 20))
	require.Len(t, server.updates, 2)
	assert.NotEqual(t, server.updates[0].colors, server.updates[1].colors)

	b.Off()
	require.Len(t, server.updates, 3)
	assert.Equal(t, []openrgb.Color{{}}, server.updates[2].colors)

	b.Apply(notify.Notification{Type: notify.SourceLost, Source: 6})
	assert.Len(t, b.lookup, 0)
}
