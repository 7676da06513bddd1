package controller

import (
	"context"
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/controller/config"
	"github.com/gethiox/sourcetracker/internal/pkg/input"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/holoplot/go-evdev"
)

// Reader turns raw input events of a single device into source events
type Reader struct {
	id       source.ID
	mapper   *Mapper
	haptics  source.Haptics
	throttle time.Duration

	frame    Frame
	handlers map[string]input.HandlerType // event name -> handler type
}

func NewReader(id source.ID, mapper *Mapper, haptics source.Haptics, throttle time.Duration) *Reader {
	return &Reader{
		id:       id,
		mapper:   mapper,
		haptics:  haptics,
		throttle: throttle,
		frame:    mapper.InitialFrame(),
		handlers: make(map[string]input.HandlerType),
	}
}

// State returns a reading out of the current frame
func (r *Reader) State() source.State {
	return r.mapper.State(r.id, r.frame, r.haptics)
}

func (r *Reader) handlerType(info *input.DeviceInfo) input.HandlerType {
	event := info.Event()
	ht, ok := r.handlers[event]
	if !ok {
		ht = info.HandlerType()
		r.handlers[event] = ht
	}
	return ht
}

// apply updates the frame with a single event, press transitions are returned as events
// and report tells whether the frame is complete
func (r *Reader) apply(ie *input.InputEvent) (press *source.Event, report bool) {
	ev := ie.Event
	switch ev.Type {
	case evdev.EV_SYN:
		return nil, ev.Code == evdev.SYN_REPORT
	case evdev.EV_ABS, evdev.EV_KEY:
	default:
		return nil, false
	}

	code := config.Code{Handler: r.handlerType(&ie.Source), Type: ev.Type, Code: ev.Code}
	prev := r.frame[code]
	r.frame[code] = ev.Value

	if ev.Type != evdev.EV_KEY {
		return nil, false
	}
	kind, ok := r.mapper.Press(code)
	if !ok || (prev != 0) == (ev.Value != 0) {
		return nil, false
	}

	var t = source.Released
	if ev.Value != 0 {
		t = source.Pressed
	}
	return &source.Event{Type: t, State: source.State{ID: r.id}, Press: kind}, false
}

// Run reads input events until the channel is closed or ctx is done.
// Complete frames are sent as Updated events not more often than the throttle period,
// the latest frame is always delivered eventually.
func (r *Reader) Run(ctx context.Context, events <-chan *input.InputEvent, out chan<- source.Event) {
	var lastSent time.Time
	var dirty bool
	var timer = time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	var timerArmed bool

	send := func(ev source.Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	flush := func() bool {
		dirty = false
		lastSent = time.Now()
		return send(source.Event{Type: source.Updated, State: r.State()})
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			timerArmed = false
			if dirty && !flush() {
				return
			}
		case ie, ok := <-events:
			if !ok {
				if dirty {
					flush()
				}
				return
			}

			press, report := r.apply(ie)
			if press != nil {
				// state of the pressed control goes first
				if !flush() || !send(*press) {
					return
				}
				continue
			}
			if !report {
				continue
			}

			dirty = true
			wait := r.throttle - time.Since(lastSent)
			if wait <= 0 {
				if !flush() {
					return
				}
				continue
			}
			if !timerArmed {
				timer.Reset(wait)
				timerArmed = true
			}
		}
	}
}
