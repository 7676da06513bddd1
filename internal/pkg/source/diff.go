package source

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Diff computes a new record out of the cached one and a fresh raw reading.
// It does not modify old, changes are returned and stored in the new record as well.
//
// Every capability goes through the same steps: availability and support are read first,
// then the new value is compared with the cached one and finally the cached one is overwritten.
// Pose capabilities are never declared by the poller, a successful read is the only proof of support.
// Support is accumulated, a capability proven once stays supported for the record lifetime.
func Diff(old Record, st State) (Record, Changes) {
	var changes Changes
	r := old
	r.Handedness = st.Handedness
	if st.Haptics != nil {
		r.Haptics = st.Haptics
	}

	pose := st.Pose

	// position
	newPointerPosition := pose.PointerPosition
	if !pose.PointerPositionOk {
		newPointerPosition = mgl32.Vec3{}
	}
	r.PointerPosition.IsAvailable = pose.PointerPositionOk
	r.PointerPosition.IsSupported = r.PointerPosition.IsSupported || r.PointerPosition.IsAvailable

	newGripPosition := pose.GripPosition
	if !pose.GripPositionOk {
		newGripPosition = mgl32.Vec3{}
	}
	r.GripPosition.IsAvailable = pose.GripPositionOk
	r.GripPosition.IsSupported = r.GripPosition.IsSupported || r.GripPosition.IsAvailable

	if r.PointerPosition.IsAvailable || r.GripPosition.IsAvailable {
		if old.PointerPosition.CurrentReading != newPointerPosition || old.GripPosition.CurrentReading != newGripPosition {
			changes |= PositionChanged
		}
	}
	r.PointerPosition.CurrentReading = newPointerPosition
	r.GripPosition.CurrentReading = newGripPosition

	// rotation
	newPointerRotation := pose.PointerRotation
	if !pose.PointerRotationOk {
		newPointerRotation = mgl32.Quat{}
	}
	r.PointerRotation.IsAvailable = pose.PointerRotationOk
	r.PointerRotation.IsSupported = r.PointerRotation.IsSupported || r.PointerRotation.IsAvailable

	newGripRotation := pose.GripRotation
	if !pose.GripRotationOk {
		newGripRotation = mgl32.Quat{}
	}
	r.GripRotation.IsAvailable = pose.GripRotationOk
	r.GripRotation.IsSupported = r.GripRotation.IsSupported || r.GripRotation.IsAvailable

	if r.PointerRotation.IsAvailable || r.GripRotation.IsAvailable {
		if old.PointerRotation.CurrentReading != newPointerRotation || old.GripRotation.CurrentReading != newGripRotation {
			changes |= RotationChanged
		}
	}
	r.PointerRotation.CurrentReading = newPointerRotation
	r.GripRotation.CurrentReading = newGripRotation

	// pointing ray, needs pointer position of the same update
	r.PointingRay.IsAvailable = r.PointerPosition.IsAvailable && pose.PointerForwardOk
	r.PointingRay.IsSupported = r.PointingRay.IsSupported || st.SupportsPointing || r.PointingRay.IsAvailable
	if r.PointingRay.IsAvailable {
		r.PointingRay.CurrentReading = Ray{Origin: newPointerPosition, Direction: pose.PointerForward}
	} else {
		r.PointingRay.CurrentReading = Ray{}
	}

	// thumbstick
	r.Thumbstick.IsSupported = r.Thumbstick.IsSupported || st.SupportsThumbstick
	r.Thumbstick.IsAvailable = st.SupportsThumbstick
	if r.Thumbstick.IsAvailable {
		if old.Thumbstick.CurrentReading.Position != st.Thumbstick.Position {
			changes |= ThumbstickChanged
		}
		r.Thumbstick.CurrentReading = st.Thumbstick
	} else {
		r.Thumbstick.CurrentReading = AxisButton2D{}
	}

	// touchpad
	r.Touchpad.IsSupported = r.Touchpad.IsSupported || st.SupportsTouchpad
	r.Touchpad.IsAvailable = st.SupportsTouchpad
	if r.Touchpad.IsAvailable {
		if old.Touchpad.CurrentReading.Position != st.Touchpad.Position {
			changes |= TouchpadPositionChanged
		}
		if old.Touchpad.CurrentReading.Touched != st.Touchpad.Touched {
			changes |= TouchpadTouchChanged
		}
		r.Touchpad.CurrentReading = st.Touchpad
	} else {
		r.Touchpad.CurrentReading = TouchpadReading{}
	}

	// select
	r.Select.IsSupported = r.Select.IsSupported || st.SupportsSelect
	r.Select.IsAvailable = st.SupportsSelect
	if r.Select.IsAvailable {
		if old.Select.CurrentReading.PressedAmount != st.Select.PressedAmount {
			changes |= SelectAmountChanged
		}
		r.Select.CurrentReading = st.Select
	} else {
		r.Select.CurrentReading = AxisButton1D{}
	}

	// grasp
	r.Grasp.IsSupported = r.Grasp.IsSupported || st.SupportsGrasp
	r.Grasp.IsAvailable = st.SupportsGrasp
	r.Grasp.CurrentReading = r.Grasp.IsAvailable && st.Grasped

	// menu
	r.Menu.IsSupported = r.Menu.IsSupported || st.SupportsMenu
	r.Menu.IsAvailable = st.SupportsMenu
	r.Menu.CurrentReading = r.Menu.IsAvailable && st.MenuPressed

	r.Changes = changes
	return r, changes
}
