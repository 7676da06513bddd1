package source

import (
	"github.com/go-gl/mathgl/mgl32"
)

// InputSource is a read-only view of the tracker passed along with every notification,
// so receivers can query additional state of the source.
type InputSource interface {
	SupportedCapabilities(id ID) CapabilityFlag
	SourceKind(id ID) (Kind, bool)
	Query(id ID, capability CapabilityFlag) (interface{}, bool)
}

// Sink receives normalized notifications. Methods are invoked synchronously from the tracker
// and must not call back into mutating tracker operations.
type Sink interface {
	SourceDetected(src InputSource, id ID)
	SourceLost(src InputSource, id ID)
	SourcePositionChanged(src InputSource, id ID, pointer, grip mgl32.Vec3)
	SourceRotationChanged(src InputSource, id ID, pointer, grip mgl32.Quat)
	InputPositionChanged(src InputSource, id ID, press PressKind, position mgl32.Vec2)
	TouchpadTouched(src InputSource, id ID)
	TouchpadReleased(src InputSource, id ID)
	SelectPressedAmountChanged(src InputSource, id ID, amount float64)
	SourceDown(src InputSource, id ID, press PressKind)
	SourceUp(src InputSource, id ID, press PressKind)
}

// NopSink ignores everything, embed it to implement only a subset of Sink methods
type NopSink struct{}

func (NopSink) SourceDetected(InputSource, ID)                                {}
func (NopSink) SourceLost(InputSource, ID)                                    {}
func (NopSink) SourcePositionChanged(InputSource, ID, mgl32.Vec3, mgl32.Vec3) {}
func (NopSink) SourceRotationChanged(InputSource, ID, mgl32.Quat, mgl32.Quat) {}
func (NopSink) InputPositionChanged(InputSource, ID, PressKind, mgl32.Vec2)   {}
func (NopSink) TouchpadTouched(InputSource, ID)                               {}
func (NopSink) TouchpadReleased(InputSource, ID)                              {}
func (NopSink) SelectPressedAmountChanged(InputSource, ID, float64)           {}
func (NopSink) SourceDown(InputSource, ID, PressKind)                         {}
func (NopSink) SourceUp(InputSource, ID, PressKind)                           {}

// MultiSink forwards every notification to all sinks in order
type MultiSink []Sink

func (m MultiSink) SourceDetected(src InputSource, id ID) {
	for _, s := range m {
		s.SourceDetected(src, id)
	}
}

func (m MultiSink) SourceLost(src InputSource, id ID) {
	for _, s := range m {
		s.SourceLost(src, id)
	}
}

func (m MultiSink) SourcePositionChanged(src InputSource, id ID, pointer, grip mgl32.Vec3) {
	for _, s := range m {
		s.SourcePositionChanged(src, id, pointer, grip)
	}
}

func (m MultiSink) SourceRotationChanged(src InputSource, id ID, pointer, grip mgl32.Quat) {
	for _, s := range m {
		s.SourceRotationChanged(src, id, pointer, grip)
	}
}

func (m MultiSink) InputPositionChanged(src InputSource, id ID, press PressKind, position mgl32.Vec2) {
	for _, s := range m {
		s.InputPositionChanged(src, id, press, position)
	}
}

func (m MultiSink) TouchpadTouched(src InputSource, id ID) {
	for _, s := range m {
		s.TouchpadTouched(src, id)
	}
}

func (m MultiSink) TouchpadReleased(src InputSource, id ID) {
	for _, s := range m {
		s.TouchpadReleased(src, id)
	}
}

func (m MultiSink) SelectPressedAmountChanged(src InputSource, id ID, amount float64) {
	for _, s := range m {
		s.SelectPressedAmountChanged(src, id, amount)
	}
}

func (m MultiSink) SourceDown(src InputSource, id ID, press PressKind) {
	for _, s := range m {
		s.SourceDown(src, id, press)
	}
}

func (m MultiSink) SourceUp(src InputSource, id ID, press PressKind) {
	for _, s := range m {
		s.SourceUp(src, id, press)
	}
}
