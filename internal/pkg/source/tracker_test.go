package source

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func controller(id ID) State {
	return State{ID: id, Kind: KindController, Handedness: HandednessRight}
}

func TestTrackerScenario(t *testing.T) {
	rec := &recorder{}
	tracker := NewTracker(rec, WithoutLogs())

	tracker.SourceDetected(controller(7))
	assert.Equal(t, CapabilityFlag(0), tracker.SupportedCapabilities(7))

	st := controller(7)
	st.SupportsThumbstick = true
	st.Thumbstick = AxisButton2D{Pressed: true, Position: mgl32.Vec2{0.5, 0.2}}
	tracker.SourceUpdated(st)

	assert.True(t, tracker.SupportedCapabilities(7).Has(Thumbstick))
	v, ok := tracker.Query(7, Thumbstick)
	require.True(t, ok)
	assert.Equal(t, AxisButton2D{Pressed: true, Position: mgl32.Vec2{0.5, 0.2}}, v)

	tracker.SourceLost(7)
	_, ok = tracker.Query(7, Thumbstick)
	assert.False(t, ok)
	_, ok = tracker.Thumbstick(7)
	assert.False(t, ok)

	assert.Equal(t, []string{
		"detected 7",
		fmt.Sprintf("input 7 Thumbstick %v", mgl32.Vec2{0.5, 0.2}),
		"lost 7",
	}, rec.calls)
}

func TestTrackerLifecycle(t *testing.T) {
	tracker := NewTracker(nil, WithoutLogs())

	_, ok := tracker.Snapshot(1)
	assert.False(t, ok)

	tracker.SourceDetected(controller(1))
	for i := 0; i < 3; i++ {
		st := controller(1)
		st.Pose = poseAt(mgl32.Vec3{float32(i), 0, 0})
		tracker.SourceUpdated(st)

		_, ok = tracker.Snapshot(1)
		assert.True(t, ok)
	}

	tracker.SourceLost(1)
	_, ok = tracker.Snapshot(1)
	assert.False(t, ok)
	_, ok = tracker.SourceKind(1)
	assert.False(t, ok)
	assert.Equal(t, CapabilityFlag(0), tracker.SupportedCapabilities(1))

	// losing an unknown source is fine
	tracker.SourceLost(1)
	assert.Empty(t, tracker.Sources())
}

func TestTrackerDetectIdempotent(t *testing.T) {
	rec := &recorder{}
	tracker := NewTracker(rec, WithoutLogs())

	st := controller(2)
	st.SupportsGrasp = true
	st.Pose = Pose{GripPosition: mgl32.Vec3{0, 1, 0}, GripPositionOk: true}
	tracker.SourceDetected(st)
	tracker.SourceDetected(controller(2))

	assert.Equal(t, []ID{2}, tracker.Sources())
	assert.Equal(t, GripPosition|Grasp, tracker.SupportedCapabilities(2))
	assert.Equal(t, []string{"detected 2", "detected 2"}, rec.calls)
}

func TestTrackerMonotonicSupport(t *testing.T) {
	tracker := NewTracker(nil, WithoutLogs())

	full := controller(3)
	full.SupportsPointing = true
	full.SupportsThumbstick = true
	full.SupportsTouchpad = true
	full.SupportsSelect = true
	full.SupportsGrasp = true
	full.SupportsMenu = true
	full.Pose = Pose{
		PointerPosition: mgl32.Vec3{1, 0, 0}, PointerPositionOk: true,
		PointerRotation: mgl32.QuatIdent(), PointerRotationOk: true,
		PointerForward: mgl32.Vec3{0, 0, 1}, PointerForwardOk: true,
		GripPosition: mgl32.Vec3{1, 0, 0}, GripPositionOk: true,
		GripRotation: mgl32.QuatIdent(), GripRotationOk: true,
	}
	all := PointerPosition | PointerRotation | GripPosition | GripRotation | Pointing |
		Thumbstick | Touchpad | Select | Grasp | Menu

	tracker.SourceUpdated(full)
	assert.Equal(t, all, tracker.SupportedCapabilities(3))

	for i := 0; i < 3; i++ {
		tracker.SourceUpdated(controller(3))
		assert.Equal(t, all, tracker.SupportedCapabilities(3))

		r, ok := tracker.Snapshot(3)
		require.True(t, ok)
		assert.Equal(t, CapabilityFlag(0), r.AvailableCapabilities())
	}
}

func TestTrackerPositionNotification(t *testing.T) {
	rec := &recorder{}
	tracker := NewTracker(rec, WithoutLogs())
	p0 := mgl32.Vec3{0, 0, 0.5}
	p1 := mgl32.Vec3{0, 0.1, 0.5}

	st := controller(4)
	st.Pose = poseAt(p0)
	tracker.SourceUpdated(st)
	rec.reset()

	tracker.SourceUpdated(st)
	assert.Empty(t, rec.calls)

	st.Pose = poseAt(p1)
	tracker.SourceUpdated(st)
	assert.Equal(t, []string{fmt.Sprintf("position 4 %v %v", p1, mgl32.Vec3{})}, rec.calls)
}

func TestTrackerEmissionOrder(t *testing.T) {
	rec := &recorder{}
	tracker := NewTracker(rec, WithoutLogs())

	st := controller(5)
	st.SupportsThumbstick = true
	st.SupportsTouchpad = true
	st.SupportsSelect = true
	tracker.SourceDetected(st)
	rec.reset()

	pos := mgl32.Vec3{1, 2, 3}
	rot := mgl32.QuatRotate(0.5, mgl32.Vec3{1, 0, 0})
	st.Pose = Pose{
		PointerPosition: pos, PointerPositionOk: true,
		PointerRotation: rot, PointerRotationOk: true,
	}
	st.Thumbstick.Position = mgl32.Vec2{0.1, 0.2}
	st.Touchpad.Position = mgl32.Vec2{0.3, 0.4}
	st.Touchpad.Touched = true
	st.Select.PressedAmount = 0.5
	tracker.SourceUpdated(st)

	assert.Equal(t, []string{
		fmt.Sprintf("position 5 %v %v", pos, mgl32.Vec3{}),
		fmt.Sprintf("rotation 5 %v %v", rot, mgl32.Quat{}),
		fmt.Sprintf("input 5 Thumbstick %v", mgl32.Vec2{0.1, 0.2}),
		fmt.Sprintf("input 5 Touchpad %v", mgl32.Vec2{0.3, 0.4}),
		"touched 5",
		"select 5 0.50",
	}, rec.calls)

	rec.reset()
	st.Touchpad.Touched = false
	tracker.SourceUpdated(st)
	assert.Equal(t, []string{"untouched 5"}, rec.calls)

	r, ok := tracker.Snapshot(5)
	require.True(t, ok)
	assert.Equal(t, TouchpadTouchChanged, r.Changes)
}

func TestTrackerQueryGating(t *testing.T) {
	tracker := NewTracker(nil, WithoutLogs())

	st := controller(6)
	st.SupportsSelect = true
	st.SupportsMenu = true
	st.MenuPressed = true
	st.Select = AxisButton1D{Pressed: true, PressedAmount: 1}
	st.Pose = Pose{GripPosition: mgl32.Vec3{0, 1, 0}, GripPositionOk: true}
	tracker.SourceUpdated(st)

	v, ok := tracker.Select(6)
	assert.True(t, ok)
	assert.Equal(t, AxisButton1D{Pressed: true, PressedAmount: 1}, v)
	menu, ok := tracker.Menu(6)
	assert.True(t, ok)
	assert.True(t, menu)
	grip, ok := tracker.GripPosition(6)
	assert.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, grip)

	_, ok = tracker.PointerPosition(6)
	assert.False(t, ok)
	_, ok = tracker.Query(6, Touchpad)
	assert.False(t, ok)
	_, ok = tracker.Query(6, Select|Menu)
	assert.False(t, ok)

	tracker.SourceUpdated(controller(6))
	for _, c := range (Select | Menu | GripPosition).List() {
		_, ok = tracker.Query(6, c)
		assert.False(t, ok, c.String())
	}
	_, ok = tracker.Grasp(6)
	assert.False(t, ok)
}

func TestTrackerPressRelay(t *testing.T) {
	rec := &recorder{}
	tracker := NewTracker(rec, WithoutLogs())

	tracker.SourcePressed(9, PressGrasp)
	tracker.SourceReleased(9, PressGrasp)
	assert.Equal(t, []string{"down 9 Grasp", "up 9 Grasp"}, rec.calls)
	assert.Empty(t, tracker.Sources())
}

func TestTrackerHaptics(t *testing.T) {
	h := &fakeHaptics{}
	tracker := NewTracker(nil, WithoutLogs())

	// unknown source
	tracker.StartHaptics(10, 1)
	tracker.StopHaptics(10)

	tracker.SourceDetected(controller(11))
	tracker.StartHaptics(11, 1)

	st := controller(10)
	st.Haptics = h
	tracker.SourceDetected(st)
	tracker.StartHaptics(10, 1)
	tracker.StartHapticsFor(10, 0.5, time.Second)
	tracker.StopHaptics(10)

	h.err = fmt.Errorf("device gone")
	tracker.StopHaptics(10)

	assert.Equal(t, []string{"start 1.0", "start 0.5 1s", "stop", "stop"}, h.calls)
}

type chanPoller chan Event

func (p chanPoller) Events() <-chan Event {
	return p
}

func TestTrackerRun(t *testing.T) {
	rec := &recorder{}
	var handled []EventType
	tracker := NewTracker(rec, WithoutLogs(), WithHook(func(ev Event) {
		handled = append(handled, ev.Type)
	}))

	poller := make(chanPoller, 8)
	st := controller(12)
	st.SupportsMenu = true
	poller <- Event{Type: Detected, State: st}
	poller <- Event{Type: Pressed, State: State{ID: 12}, Press: PressMenu}
	poller <- Event{Type: Released, State: State{ID: 12}, Press: PressMenu}
	poller <- Event{Type: Updated, State: st}
	poller <- Event{Type: Lost, State: State{ID: 12}}
	close(poller)

	tracker.Run(context.Background(), poller)

	assert.Equal(t, []EventType{Detected, Pressed, Released, Updated, Lost}, handled)
	assert.Equal(t, []string{"detected 12", "down 12 Menu", "up 12 Menu", "lost 12"}, rec.calls)
}

func TestTrackerRunCancel(t *testing.T) {
	tracker := NewTracker(nil, WithoutLogs())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		tracker.Run(ctx, make(chanPoller))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop")
	}
}

func TestTrackerSnapshots(t *testing.T) {
	tracker := NewTracker(nil, WithoutLogs())
	for _, id := range []ID{30, 10, 20} {
		tracker.SourceDetected(controller(id))
	}

	assert.Equal(t, []ID{10, 20, 30}, tracker.Sources())
	snapshots := tracker.Snapshots()
	require.Len(t, snapshots, 3)
	assert.Equal(t, ID(10), snapshots[0].ID)

	// snapshots are copies
	snapshots[0].Handedness = HandednessLeft
	r, _ := tracker.Snapshot(10)
	assert.Equal(t, HandednessRight, r.Handedness)
}
