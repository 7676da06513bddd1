package controller

import (
	"math"

	"github.com/gethiox/sourcetracker/internal/pkg/controller/config"
	"github.com/gethiox/sourcetracker/internal/pkg/input"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/holoplot/go-evdev"
)

// range used for axes without reported absinfo
var defaultAbsInfo = evdev.AbsInfo{Minimum: math.MinInt16, Maximum: math.MaxInt16}

// Frame keeps the latest raw value of every control of a device
type Frame map[config.Code]int32

// Mapper converts frames into source states according to the mapping config
type Mapper struct {
	cfg     config.Config
	ranges  map[config.Code]evdev.AbsInfo
	presses map[config.Code]source.PressKind
}

func NewMapper(cfg config.Config, absInfos map[input.HandlerType]map[evdev.EvCode]evdev.AbsInfo) *Mapper {
	var ranges = make(map[config.Code]evdev.AbsInfo)
	for ht, infos := range absInfos {
		for code, info := range infos {
			ranges[config.Code{Handler: ht, Type: evdev.EV_ABS, Code: code}] = info
		}
	}
	return &Mapper{
		cfg:     cfg,
		ranges:  ranges,
		presses: cfg.Presses(),
	}
}

// InitialFrame returns frame filled with axis values reported at device opening
func (m *Mapper) InitialFrame() Frame {
	var f = make(Frame, len(m.ranges))
	for code, info := range m.ranges {
		f[code] = info.Value
	}
	return f
}

// Press tells whether given control is reported as a source press
func (m *Mapper) Press(code config.Code) (source.PressKind, bool) {
	p, ok := m.presses[code]
	return p, ok
}

func (m *Mapper) absInfo(code config.Code) evdev.AbsInfo {
	info, ok := m.ranges[code]
	if !ok || info.Maximum <= info.Minimum {
		return defaultAbsInfo
	}
	return info
}

// centered normalizes an axis to -1.0 - 1.0 and applies the deadzone
func (m *Mapper) centered(f Frame, axis config.Axis) float32 {
	info := m.absInfo(axis.Code)
	center := (float64(info.Minimum) + float64(info.Maximum)) / 2
	half := (float64(info.Maximum) - float64(info.Minimum)) / 2

	v := clamp((float64(f[axis.Code])-center)/half, -1, 1)
	if axis.Flip {
		v = -v
	}

	dz := m.cfg.Deadzone(axis.Code)
	if math.Abs(v) <= dz {
		return 0
	}
	return float32(math.Copysign((math.Abs(v)-dz)/(1-dz), v))
}

// positive normalizes an axis to 0.0 - 1.0 and applies the deadzone
func (m *Mapper) positive(f Frame, axis config.Axis) float64 {
	info := m.absInfo(axis.Code)
	v := clamp(float64(f[axis.Code]-info.Minimum)/(float64(info.Maximum)-float64(info.Minimum)), 0, 1)
	if axis.Flip {
		v = 1 - v
	}

	dz := m.cfg.Deadzone(axis.Code)
	if v <= dz {
		return 0
	}
	return (v - dz) / (1 - dz)
}

func clamp(v, min, max float64) float64 {
	switch {
	case v < min:
		return min
	case v > max:
		return max
	}
	return v
}

func pressed(f Frame, code *config.Code) bool {
	if code == nil {
		return false
	}
	return f[*code] != 0
}

// orientation derives device rotation from the gravity vector, yaw is unknown and left neutral
func (m *Mapper) orientation(f Frame) (mgl32.Quat, bool) {
	o := m.cfg.Orientation
	gravity := mgl32.Vec3{
		m.centered(f, o.X),
		m.centered(f, o.Y),
		m.centered(f, o.Z),
	}
	if gravity.Len() < 1e-3 {
		return mgl32.Quat{}, false
	}
	return mgl32.QuatBetweenVectors(gravity.Normalize(), mgl32.Vec3{0, -1, 0}), true
}

// State converts a frame into a raw source reading
func (m *Mapper) State(id source.ID, f Frame, haptics source.Haptics) source.State {
	cfg := m.cfg
	st := source.State{
		ID:         id,
		Kind:       cfg.Kind,
		Handedness: cfg.Handedness,
		Haptics:    haptics,

		SupportsThumbstick: cfg.Thumbstick != nil,
		SupportsTouchpad:   cfg.Touchpad != nil,
		SupportsSelect:     cfg.Select != nil,
		SupportsGrasp:      cfg.Grasp != nil,
		SupportsMenu:       cfg.Menu != nil,
	}

	if s := cfg.Thumbstick; s != nil {
		st.Thumbstick.Position = mgl32.Vec2{m.centered(f, s.X), m.centered(f, s.Y)}
		st.Thumbstick.Pressed = pressed(f, s.Button)
	}

	if t := cfg.Touchpad; t != nil {
		// without touch sensing the position is always taken
		st.Touchpad.Touched = pressed(f, t.Touch)
		if st.Touchpad.Touched || t.Touch == nil {
			st.Touchpad.Position = mgl32.Vec2{m.centered(f, t.X), m.centered(f, t.Y)}
		}
		st.Touchpad.Pressed = pressed(f, t.Button)
	}

	if s := cfg.Select; s != nil {
		switch {
		case s.Axis != nil:
			st.Select.PressedAmount = m.positive(f, *s.Axis)
		case pressed(f, s.Button):
			st.Select.PressedAmount = 1
		}
		if s.Button != nil {
			st.Select.Pressed = pressed(f, s.Button)
		} else {
			st.Select.Pressed = st.Select.PressedAmount >= 1
		}
	}

	st.Grasped = pressed(f, cfg.Grasp)
	st.MenuPressed = pressed(f, cfg.Menu)

	if cfg.Orientation != nil {
		rotation, ok := m.orientation(f)
		st.Pose.GripRotation, st.Pose.GripRotationOk = rotation, ok
		st.Pose.PointerRotation, st.Pose.PointerRotationOk = rotation, ok
		if ok {
			st.Pose.PointerForward = rotation.Rotate(mgl32.Vec3{0, 0, -1})
			st.Pose.PointerForwardOk = true
		}
	}

	return st
}
