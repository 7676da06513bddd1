package source

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// recorder keeps every notification as a short text line
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, a ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, a...))
}

func (r *recorder) reset() {
	r.calls = nil
}

func (r *recorder) SourceDetected(_ InputSource, id ID) {
	r.add("detected %d", id)
}

func (r *recorder) SourceLost(_ InputSource, id ID) {
	r.add("lost %d", id)
}

func (r *recorder) SourcePositionChanged(_ InputSource, id ID, pointer, grip mgl32.Vec3) {
	r.add("position %d %v %v", id, pointer, grip)
}

func (r *recorder) SourceRotationChanged(_ InputSource, id ID, pointer, grip mgl32.Quat) {
	r.add("rotation %d %v %v", id, pointer, grip)
}

func (r *recorder) InputPositionChanged(_ InputSource, id ID, press PressKind, position mgl32.Vec2) {
	r.add("input %d %s %v", id, press, position)
}

func (r *recorder) TouchpadTouched(_ InputSource, id ID) {
	r.add("touched %d", id)
}

func (r *recorder) TouchpadReleased(_ InputSource, id ID) {
	r.add("untouched %d", id)
}

func (r *recorder) SelectPressedAmountChanged(_ InputSource, id ID, amount float64) {
	r.add("select %d %.2f", id, amount)
}

func (r *recorder) SourceDown(_ InputSource, id ID, press PressKind) {
	r.add("down %d %s", id, press)
}

func (r *recorder) SourceUp(_ InputSource, id ID, press PressKind) {
	r.add("up %d %s", id, press)
}

type fakeHaptics struct {
	calls []string
	err   error
}

func (h *fakeHaptics) StartHaptics(intensity float32) error {
	h.calls = append(h.calls, fmt.Sprintf("start %.1f", intensity))
	return h.err
}

func (h *fakeHaptics) StartHapticsFor(intensity float32, duration time.Duration) error {
	h.calls = append(h.calls, fmt.Sprintf("start %.1f %s", intensity, duration))
	return h.err
}

func (h *fakeHaptics) StopHaptics() error {
	h.calls = append(h.calls, "stop")
	return h.err
}
