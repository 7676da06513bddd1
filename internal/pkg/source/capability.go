package source

import (
	"strings"
)

// Capability keeps what is known about one kind of reading of a source.
// IsSupported is learned over time and never cleared, IsAvailable reflects the latest update only.
type Capability[T any] struct {
	IsSupported    bool
	IsAvailable    bool
	CurrentReading T
}

func (c Capability[T]) reading() (T, bool) {
	if c.IsAvailable {
		contract(c.IsSupported, "capability available without being supported")
		return c.CurrentReading, true
	}
	var zero T
	return zero, false
}

func (c Capability[T]) flag(f CapabilityFlag) CapabilityFlag {
	if c.IsSupported {
		return f
	}
	return 0
}

type CapabilityFlag uint16

const (
	PointerPosition CapabilityFlag = 1 << iota
	PointerRotation
	GripPosition
	GripRotation
	Pointing
	Thumbstick
	Touchpad
	Select
	Grasp
	Menu
)

var capabilityNames = []struct {
	flag CapabilityFlag
	name string
}{
	{PointerPosition, "PointerPosition"},
	{PointerRotation, "PointerRotation"},
	{GripPosition, "GripPosition"},
	{GripRotation, "GripRotation"},
	{Pointing, "Pointing"},
	{Thumbstick, "Thumbstick"},
	{Touchpad, "Touchpad"},
	{Select, "Select"},
	{Grasp, "Grasp"},
	{Menu, "Menu"},
}

// Has reports whether all given flags are set
func (f CapabilityFlag) Has(flags CapabilityFlag) bool {
	return f&flags == flags
}

// List returns single flags in declaration order
func (f CapabilityFlag) List() []CapabilityFlag {
	var list []CapabilityFlag
	for _, c := range capabilityNames {
		if f&c.flag != 0 {
			list = append(list, c.flag)
		}
	}
	return list
}

func (f CapabilityFlag) String() string {
	if f == 0 {
		return "None"
	}
	var names []string
	for _, c := range capabilityNames {
		if f&c.flag != 0 {
			names = append(names, c.name)
		}
	}
	return strings.Join(names, "|")
}
