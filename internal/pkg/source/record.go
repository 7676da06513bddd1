package source

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Changes tells which readings differ from the cached ones after the last update
type Changes uint8

const (
	PositionChanged Changes = 1 << iota
	RotationChanged
	ThumbstickChanged
	TouchpadPositionChanged
	TouchpadTouchChanged
	SelectAmountChanged
)

var changesNames = []struct {
	change Changes
	name   string
}{
	{PositionChanged, "Position"},
	{RotationChanged, "Rotation"},
	{ThumbstickChanged, "Thumbstick"},
	{TouchpadPositionChanged, "TouchpadPosition"},
	{TouchpadTouchChanged, "TouchpadTouch"},
	{SelectAmountChanged, "SelectAmount"},
}

func (c Changes) Has(change Changes) bool {
	return c&change == change
}

func (c Changes) String() string {
	if c == 0 {
		return "None"
	}
	var names []string
	for _, n := range changesNames {
		if c&n.change != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Record is the cached state of one source
type Record struct {
	ID         ID
	Kind       Kind
	Handedness Handedness
	Haptics    Haptics

	PointerPosition Capability[mgl32.Vec3]
	PointerRotation Capability[mgl32.Quat]
	PointingRay     Capability[Ray]
	GripPosition    Capability[mgl32.Vec3]
	GripRotation    Capability[mgl32.Quat]
	Thumbstick      Capability[AxisButton2D]
	Touchpad        Capability[TouchpadReading]
	Select          Capability[AxisButton1D]
	Grasp           Capability[bool]
	Menu            Capability[bool]

	// reset on every update
	Changes Changes
}

func newRecord(id ID, kind Kind) Record {
	return Record{ID: id, Kind: kind}
}

// SupportedCapabilities returns all capabilities proven supported so far
func (r *Record) SupportedCapabilities() CapabilityFlag {
	var f CapabilityFlag
	f |= r.PointerPosition.flag(PointerPosition)
	f |= r.PointerRotation.flag(PointerRotation)
	f |= r.GripPosition.flag(GripPosition)
	f |= r.GripRotation.flag(GripRotation)
	f |= r.PointingRay.flag(Pointing)
	f |= r.Thumbstick.flag(Thumbstick)
	f |= r.Touchpad.flag(Touchpad)
	f |= r.Select.flag(Select)
	f |= r.Grasp.flag(Grasp)
	f |= r.Menu.flag(Menu)
	return f
}

// AvailableCapabilities returns capabilities that produced a reading on the last update
func (r *Record) AvailableCapabilities() CapabilityFlag {
	var f CapabilityFlag
	for _, c := range []struct {
		available bool
		flag      CapabilityFlag
	}{
		{r.PointerPosition.IsAvailable, PointerPosition},
		{r.PointerRotation.IsAvailable, PointerRotation},
		{r.GripPosition.IsAvailable, GripPosition},
		{r.GripRotation.IsAvailable, GripRotation},
		{r.PointingRay.IsAvailable, Pointing},
		{r.Thumbstick.IsAvailable, Thumbstick},
		{r.Touchpad.IsAvailable, Touchpad},
		{r.Select.IsAvailable, Select},
		{r.Grasp.IsAvailable, Grasp},
		{r.Menu.IsAvailable, Menu},
	} {
		if c.available {
			f |= c.flag
		}
	}
	return f
}

func (r *Record) String() string {
	return fmt.Sprintf("[%d] %s (%s), supports: %s", r.ID, r.Kind, r.Handedness, r.SupportedCapabilities())
}
