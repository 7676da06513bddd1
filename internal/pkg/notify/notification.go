package notify

import (
	"fmt"

	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/go-gl/mathgl/mgl32"
)

type Type int

const (
	SourceDetected Type = iota
	SourceLost
	PositionChanged
	RotationChanged
	InputPositionChanged
	TouchpadTouched
	TouchpadReleased
	SelectAmountChanged
	SourceDown
	SourceUp
)

func (t Type) String() string {
	switch t {
	case SourceDetected:
		return "SourceDetected"
	case SourceLost:
		return "SourceLost"
	case PositionChanged:
		return "PositionChanged"
	case RotationChanged:
		return "RotationChanged"
	case InputPositionChanged:
		return "InputPositionChanged"
	case TouchpadTouched:
		return "TouchpadTouched"
	case TouchpadReleased:
		return "TouchpadReleased"
	case SelectAmountChanged:
		return "SelectAmountChanged"
	case SourceDown:
		return "SourceDown"
	case SourceUp:
		return "SourceUp"
	default:
		return "Unknown"
	}
}

// Notification is a value copy of a single Sink call.
// Only fields related to Type are set.
type Notification struct {
	Type   Type
	Source source.ID
	Kind   source.Kind

	Press source.PressKind // InputPositionChanged, SourceDown, SourceUp

	Pointer, Grip                 mgl32.Vec3
	PointerRotation, GripRotation mgl32.Quat
	Position                      mgl32.Vec2
	Amount                        float64
}

func (n Notification) String() string {
	prefix := fmt.Sprintf("[%d] %s", n.Source, n.Type)

	switch n.Type {
	case PositionChanged:
		return fmt.Sprintf("%s pointer: %s, grip: %s", prefix, vec3(n.Pointer), vec3(n.Grip))
	case RotationChanged:
		return fmt.Sprintf("%s pointer: %s, grip: %s", prefix, quat(n.PointerRotation), quat(n.GripRotation))
	case InputPositionChanged:
		return fmt.Sprintf("%s %s: %5.2f %5.2f", prefix, n.Press, n.Position.X(), n.Position.Y())
	case SelectAmountChanged:
		return fmt.Sprintf("%s %.2f", prefix, n.Amount)
	case SourceDown, SourceUp:
		return fmt.Sprintf("%s %s", prefix, n.Press)
	case SourceDetected:
		return fmt.Sprintf("%s %s", prefix, n.Kind)
	default:
		return prefix
	}
}

func vec3(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X(), v.Y(), v.Z())
}

func quat(q mgl32.Quat) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", q.W, q.X(), q.Y(), q.Z())
}
