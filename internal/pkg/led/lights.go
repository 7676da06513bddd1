package led

import (
	"math"
	"sort"

	"github.com/gethiox/sourcetracker/internal/pkg/notify"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/realbucksavage/openrgb-go"
)

const slots = 16

type light struct {
	slot    int
	pressed map[source.PressKind]bool
	amount  float64
	touched bool
	dirty   bool
}

// Lights keeps lighting state of every source built from notifications.
// Every source gets its own hue, brightness follows its inputs.
type Lights struct {
	idle    float64
	sources map[source.ID]*light
}

func NewLights(idle float64) *Lights {
	return &Lights{
		idle:    idle,
		sources: make(map[source.ID]*light),
	}
}

func (l *Lights) freeSlot() int {
	var used [slots]bool
	for _, s := range l.sources {
		used[s.slot] = true
	}
	for i, u := range used {
		if !u {
			return i
		}
	}
	return len(l.sources) % slots
}

func (l *Lights) Apply(n notify.Notification) {
	if n.Type == notify.SourceDetected {
		if _, ok := l.sources[n.Source]; !ok {
			l.sources[n.Source] = &light{slot: l.freeSlot(), pressed: make(map[source.PressKind]bool), dirty: true}
		}
		return
	}

	s, ok := l.sources[n.Source]
	if !ok {
		return
	}

	switch n.Type {
	case notify.SourceLost:
		delete(l.sources, n.Source)
		return
	case notify.SourceDown:
		s.pressed[n.Press] = true
	case notify.SourceUp:
		delete(s.pressed, n.Press)
	case notify.SelectAmountChanged:
		s.amount = n.Amount
	case notify.TouchpadTouched:
		s.touched = true
	case notify.TouchpadReleased:
		s.touched = false
	default:
		return
	}
	s.dirty = true
}

// Brightness returns value of a source color in range 0-1
func (l *Lights) Brightness(id source.ID) float64 {
	s, ok := l.sources[id]
	if !ok {
		return 0
	}
	if len(s.pressed) > 0 {
		return 1
	}
	v := l.idle + (1-l.idle)*s.amount
	if touched := (1 + l.idle) / 2; s.touched && touched > v {
		v = touched
	}
	return v
}

// hue spreads neighbouring slots far from each other, stride 7 is coprime to slots
func hue(slot int) float64 {
	step := (slot * 7) % slots
	return math.Mod(360.0/slots*float64(step)+30, 360)
}

func (l *Lights) Color(id source.ID) (openrgb.Color, bool) {
	s, ok := l.sources[id]
	if !ok {
		return openrgb.Color{}, false
	}
	c := colorful.Hsv(hue(s.slot), 1, l.Brightness(id))
	r, g, b := c.RGB255()
	return openrgb.Color{Red: r, Green: g, Blue: b}, true
}

// Touch marks source as changed
func (l *Lights) Touch(id source.ID) {
	if s, ok := l.sources[id]; ok {
		s.dirty = true
	}
}

// Dirty returns sources changed since the previous call in ascending order
func (l *Lights) Dirty() []source.ID {
	var ids []source.ID
	for id, s := range l.sources {
		if s.dirty {
			ids = append(ids, id)
			s.dirty = false
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
