package notify

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func controller(id source.ID) source.State {
	return source.State{
		ID: id, Kind: source.KindController,
		SupportsThumbstick: true, SupportsGrasp: true, SupportsMenu: true,
	}
}

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(16)
	tracker := source.NewTracker(sink, source.WithoutLogs())

	tracker.SourceDetected(controller(1))
	st := controller(1)
	st.Thumbstick.Position = mgl32.Vec2{0.5, -0.5}
	tracker.SourceUpdated(st)
	tracker.SourcePressed(1, source.PressGrasp)
	tracker.SourceLost(1)
	sink.Close()

	var got []Notification
	for n := range sink.Notifications() {
		got = append(got, n)
	}

	assert.Equal(t, []Notification{
		{Type: SourceDetected, Source: 1, Kind: source.KindController},
		{Type: InputPositionChanged, Source: 1, Press: source.PressThumbstick, Position: mgl32.Vec2{0.5, -0.5}},
		{Type: SourceDown, Source: 1, Press: source.PressGrasp},
		{Type: SourceLost, Source: 1},
	}, got)
	assert.Equal(t, uint64(0), sink.Dropped())
}

func TestChannelSinkDrops(t *testing.T) {
	sink := NewChannelSink(1)
	tracker := source.NewTracker(sink, source.WithoutLogs())

	tracker.SourcePressed(1, source.PressMenu)
	tracker.SourceReleased(1, source.PressMenu)
	tracker.SourcePressed(1, source.PressMenu)

	assert.Equal(t, uint64(2), sink.Dropped())
	n := <-sink.Notifications()
	assert.Equal(t, SourceDown, n.Type)
}

type hapticsCall struct {
	id        source.ID
	action    string
	intensity float32
	duration  time.Duration
}

type fakeController struct {
	source.InputSource
	calls []hapticsCall
}

func (f *fakeController) StartHaptics(id source.ID, intensity float32) {
	f.calls = append(f.calls, hapticsCall{id: id, action: "start", intensity: intensity})
}

func (f *fakeController) StartHapticsFor(id source.ID, intensity float32, duration time.Duration) {
	f.calls = append(f.calls, hapticsCall{id: id, action: "start", intensity: intensity, duration: duration})
}

func (f *fakeController) StopHaptics(id source.ID) {
	f.calls = append(f.calls, hapticsCall{id: id, action: "stop"})
}

func TestHapticFeedback(t *testing.T) {
	h := HapticFeedback{Intensity: 1, Pulse: time.Second}
	c := &fakeController{}

	h.SourceDown(c, 3, source.PressGrasp)
	h.SourceUp(c, 3, source.PressGrasp)
	h.SourceDown(c, 3, source.PressMenu)
	h.SourceUp(c, 3, source.PressMenu)
	h.SourceDown(c, 3, source.PressSelect)

	assert.Equal(t, []hapticsCall{
		{id: 3, action: "start", intensity: 1},
		{id: 3, action: "stop"},
		{id: 3, action: "start", intensity: 1, duration: time.Second},
	}, c.calls)
}

func TestHapticFeedbackTrackerIsController(t *testing.T) {
	var _ HapticsController = source.NewTracker(nil)
}

func TestLogSink(t *testing.T) {
	messages := make(chan []byte, 16)
	sink := NewLogSink(logger.GetTestLogger(messages))
	tracker := source.NewTracker(sink, source.WithoutLogs())

	tracker.SourceDetected(controller(2))
	st := controller(2)
	st.Thumbstick.Position = mgl32.Vec2{0.25, 0}
	tracker.SourceUpdated(st)
	tracker.SourceReleased(2, source.PressGrasp)
	close(messages)

	type entry struct {
		Msg   string `json:"msg"`
		Level int    `json:"level"`
		Type  string `json:"type"`
	}
	var entries []entry
	for msg := range messages {
		var e entry
		require.Equal(t, nil, json.Unmarshal(msg, &e))
		entries = append(entries, e)
	}

	require.Len(t, entries, 4)
	assert.Equal(t, entry{Msg: "[2] SourceDetected Controller", Level: logger.NotifyLvl, Type: "SourceDetected"}, entries[0])
	assert.Equal(t, logger.DebugLvl, entries[1].Level)
	assert.Equal(t, entry{Msg: "[2] InputPositionChanged Thumbstick:  0.25  0.00", Level: logger.ChangesLvl, Type: "InputPositionChanged"}, entries[2])
	assert.Equal(t, entry{Msg: "[2] SourceUp Grasp", Level: logger.NotifyLvl, Type: "SourceUp"}, entries[3])
}

func TestNotificationString(t *testing.T) {
	for i, tc := range []struct {
		n        Notification
		expected string
	}{
		{n: Notification{Type: SourceLost, Source: 4}, expected: "[4] SourceLost"},
		{n: Notification{Type: SelectAmountChanged, Source: 4, Amount: 0.5}, expected: "[4] SelectAmountChanged 0.50"},
		{n: Notification{Type: PositionChanged, Source: 4, Pointer: mgl32.Vec3{1, 0, 0}}, expected: "[4] PositionChanged pointer: (1.000, 0.000, 0.000), grip: (0.000, 0.000, 0.000)"},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.n.String())
		})
	}
}
