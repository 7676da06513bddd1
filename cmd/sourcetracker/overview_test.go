package main

import (
	"testing"

	"github.com/gethiox/sourcetracker/internal/pkg/controller"
	"github.com/gethiox/sourcetracker/internal/pkg/input"
	"github.com/gethiox/sourcetracker/internal/pkg/notify"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverview(t *testing.T) {
	tracker := source.NewTracker(nil, source.WithoutLogs())
	tracker.SourceDetected(source.State{
		ID: 1, Kind: source.KindController, Handedness: source.HandednessLeft,
		SupportsThumbstick: true, Thumbstick: source.AxisButton2D{Position: mgl32.Vec2{0.25, -1}, Pressed: true},
		SupportsGrasp: true, Grasped: true,
	})
	tracker.SourceDetected(source.State{ID: 2, Kind: source.KindVoice})

	o := &overview{}
	o.Publish(tracker.Snapshots(), []controller.Connected{
		{ID: 1, Device: input.Device{Name: "Gamepad"}, ConfigFile: "pad.yaml", ConfigType: "user"},
		{ID: 5, Device: input.Device{Name: "Other"}},
	})

	sources := o.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, "Gamepad", sources[0].Device)
	assert.Equal(t, "", sources[1].Device)

	au := aurora.NewAurora(false)
	assert.Equal(t, []string{
		"[1] Controller (Left): Gamepad, config: pad.yaml (user)",
		"├ supports: Thumbstick|Grasp",
		"└ stick: +0.25 -1.00 pressed, grasp",
	}, renderSource(au, sources[0]))
	assert.Equal(t, []string{
		"[2] Voice (Unknown)",
		"├ supports: None",
		"└ ",
	}, renderSource(au, sources[1]))
}

func TestNotificationLog(t *testing.T) {
	notes := newNotificationLog(aurora.NewAurora(false), 8)
	assert.Len(t, notes.Lines(10), 0)

	var all []string
	for i := 1; i <= 100; i++ {
		n := notify.Notification{Type: notify.SourceLost, Source: source.ID(i)}
		notes.Add(n)
		all = append(all, n.String())
	}

	assert.Equal(t, all[92:], notes.Lines(20), "only latest notifications are kept")
	assert.Equal(t, all[97:], notes.Lines(3))
	assert.Len(t, notes.buf.messages, 8)
}
