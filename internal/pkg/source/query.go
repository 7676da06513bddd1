package source

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Query returns the current reading of a single capability.
// The reading is returned only if the capability produced it on the last update,
// the dynamic type matches the related typed getter.
func (t *Tracker) Query(id ID, capability CapabilityFlag) (interface{}, bool) {
	r, ok := t.records[id]
	if !ok {
		return nil, false
	}

	switch capability {
	case PointerPosition:
		return unwrap(r.PointerPosition.reading())
	case PointerRotation:
		return unwrap(r.PointerRotation.reading())
	case GripPosition:
		return unwrap(r.GripPosition.reading())
	case GripRotation:
		return unwrap(r.GripRotation.reading())
	case Pointing:
		return unwrap(r.PointingRay.reading())
	case Thumbstick:
		return unwrap(r.Thumbstick.reading())
	case Touchpad:
		return unwrap(r.Touchpad.reading())
	case Select:
		return unwrap(r.Select.reading())
	case Grasp:
		return unwrap(r.Grasp.reading())
	case Menu:
		return unwrap(r.Menu.reading())
	default:
		return nil, false
	}
}

func unwrap[T any](v T, ok bool) (interface{}, bool) {
	if !ok {
		return nil, false
	}
	return v, true
}

func query[T any](t *Tracker, id ID, get func(r *Record) Capability[T]) (T, bool) {
	r, ok := t.records[id]
	if !ok {
		var zero T
		return zero, false
	}
	return get(r).reading()
}

func (t *Tracker) PointerPosition(id ID) (mgl32.Vec3, bool) {
	return query(t, id, func(r *Record) Capability[mgl32.Vec3] { return r.PointerPosition })
}

func (t *Tracker) PointerRotation(id ID) (mgl32.Quat, bool) {
	return query(t, id, func(r *Record) Capability[mgl32.Quat] { return r.PointerRotation })
}

func (t *Tracker) GripPosition(id ID) (mgl32.Vec3, bool) {
	return query(t, id, func(r *Record) Capability[mgl32.Vec3] { return r.GripPosition })
}

func (t *Tracker) GripRotation(id ID) (mgl32.Quat, bool) {
	return query(t, id, func(r *Record) Capability[mgl32.Quat] { return r.GripRotation })
}

// PointingRay returns the ray of the pointer, its origin is the pointer position
func (t *Tracker) PointingRay(id ID) (Ray, bool) {
	return query(t, id, func(r *Record) Capability[Ray] { return r.PointingRay })
}

func (t *Tracker) Thumbstick(id ID) (AxisButton2D, bool) {
	return query(t, id, func(r *Record) Capability[AxisButton2D] { return r.Thumbstick })
}

func (t *Tracker) Touchpad(id ID) (TouchpadReading, bool) {
	return query(t, id, func(r *Record) Capability[TouchpadReading] { return r.Touchpad })
}

func (t *Tracker) Select(id ID) (AxisButton1D, bool) {
	return query(t, id, func(r *Record) Capability[AxisButton1D] { return r.Select })
}

func (t *Tracker) Grasp(id ID) (bool, bool) {
	return query(t, id, func(r *Record) Capability[bool] { return r.Grasp })
}

func (t *Tracker) Menu(id ID) (bool, bool) {
	return query(t, id, func(r *Record) Capability[bool] { return r.Menu })
}
