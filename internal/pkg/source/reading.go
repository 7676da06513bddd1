package source

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

type AxisButton2D struct {
	Pressed  bool
	Position mgl32.Vec2 // -1.0 - 1.0 on both axes
}

type TouchpadReading struct {
	AxisButton2D
	Touched bool
}

type AxisButton1D struct {
	Pressed       bool
	PressedAmount float64 // 0.0 - 1.0
}

// Pose is a set of one-shot pose reads, every Ok field tells whether the related read succeeded.
type Pose struct {
	PointerPosition   mgl32.Vec3
	PointerPositionOk bool
	PointerRotation   mgl32.Quat
	PointerRotationOk bool
	PointerForward    mgl32.Vec3
	PointerForwardOk  bool

	GripPosition   mgl32.Vec3
	GripPositionOk bool
	GripRotation   mgl32.Quat
	GripRotationOk bool
}

// State is a raw reading of a single source delivered by a poller.
// Support flags describe what the source claims to have at the time of reading,
// pose support is never declared and has to be inferred from successful reads.
type State struct {
	ID         ID
	Kind       Kind
	Handedness Handedness
	Haptics    Haptics // may be nil

	SupportsPointing   bool
	SupportsThumbstick bool
	SupportsTouchpad   bool
	SupportsSelect     bool
	SupportsGrasp      bool
	SupportsMenu       bool

	Pose Pose

	Thumbstick  AxisButton2D
	Touchpad    TouchpadReading
	Select      AxisButton1D
	Grasped     bool
	MenuPressed bool
}

func (s State) String() string {
	return fmt.Sprintf("[%d] %s (%s)", s.ID, s.Kind, s.Handedness)
}
