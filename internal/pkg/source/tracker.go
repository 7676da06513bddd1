package source

import (
	"context"
	"fmt"
	"sort"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Tracker keeps the last known state of every connected source and notifies the sink about changes.
//
// Tracker is not safe for concurrent use, all calls are expected to come from a single goroutine,
// Run is the usual way of providing that.
type Tracker struct {
	records map[ID]*Record
	sink    Sink
	log     *zap.Logger
	noLogs  bool // skips per-event log entries
	hook    func(Event)
}

type Option func(*Tracker)

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		t.log = l
	}
}

// WithoutLogs disables logging of every handled event, errors and contract violations are still logged
func WithoutLogs() Option {
	return func(t *Tracker) {
		t.noLogs = true
	}
}

// WithHook registers a function called by Run after every handled event
func WithHook(hook func(Event)) Option {
	return func(t *Tracker) {
		t.hook = hook
	}
}

func NewTracker(sink Sink, opts ...Option) *Tracker {
	if sink == nil {
		sink = NopSink{}
	}
	t := &Tracker{
		records: make(map[ID]*Record, 4),
		sink:    sink,
		log:     log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) logFields(id ID, fields ...zap.Field) []zap.Field {
	return append(fields, zap.Uint32("source_id", uint32(id)))
}

// getOrAdd returns the record for a given source, the record is created when the source was not seen yet
func (t *Tracker) getOrAdd(st State) *Record {
	r, ok := t.records[st.ID]
	if !ok {
		rec := newRecord(st.ID, st.Kind)
		r = &rec
		t.records[st.ID] = r
		if !t.noLogs {
			t.log.Info(fmt.Sprintf("record created for %s", st), t.logFields(st.ID, logger.Debug)...)
		}
	}
	return r
}

func (t *Tracker) update(r *Record, st State) Changes {
	if r.ID != st.ID || r.Kind != st.Kind {
		msg := fmt.Sprintf("update mismatch: record [%d] %s, update [%d] %s", r.ID, r.Kind, st.ID, st.Kind)
		contract(false, msg)
		t.log.Info(msg, t.logFields(r.ID, logger.Warning)...)
	}

	var changes Changes
	*r, changes = Diff(*r, st)
	return changes
}

// SourceDetected creates or refreshes the source record and emits SourceDetected.
// Calling it again for a known source only refreshes the record, learned support is kept.
func (t *Tracker) SourceDetected(st State) {
	r := t.getOrAdd(st)
	t.update(r, st)
	if !t.noLogs {
		t.log.Info(fmt.Sprintf("source detected: %s", r), t.logFields(st.ID, logger.Notify)...)
	}
	t.sink.SourceDetected(t, st.ID)
}

// SourceUpdated applies a new reading and emits one notification per changed reading.
// Sources missed by detection are added on the fly.
func (t *Tracker) SourceUpdated(st State) {
	r := t.getOrAdd(st)
	r.Changes = 0
	changes := t.update(r, st)
	if changes == 0 {
		return
	}
	if !t.noLogs {
		t.log.Info(fmt.Sprintf("source updated: %s", changes), t.logFields(st.ID, logger.Debug)...)
	}

	if changes.Has(PositionChanged) {
		t.sink.SourcePositionChanged(t, r.ID, r.PointerPosition.CurrentReading, r.GripPosition.CurrentReading)
	}
	if changes.Has(RotationChanged) {
		t.sink.SourceRotationChanged(t, r.ID, r.PointerRotation.CurrentReading, r.GripRotation.CurrentReading)
	}
	if changes.Has(ThumbstickChanged) {
		t.sink.InputPositionChanged(t, r.ID, PressThumbstick, r.Thumbstick.CurrentReading.Position)
	}
	if changes.Has(TouchpadPositionChanged) {
		t.sink.InputPositionChanged(t, r.ID, PressTouchpad, r.Touchpad.CurrentReading.Position)
	}
	if changes.Has(TouchpadTouchChanged) {
		if r.Touchpad.CurrentReading.Touched {
			t.sink.TouchpadTouched(t, r.ID)
		} else {
			t.sink.TouchpadReleased(t, r.ID)
		}
	}
	if changes.Has(SelectAmountChanged) {
		t.sink.SelectPressedAmountChanged(t, r.ID, r.Select.CurrentReading.PressedAmount)
	}
}

// SourcePressed relays a button press, the record is not touched
func (t *Tracker) SourcePressed(id ID, press PressKind) {
	if !t.noLogs {
		t.log.Info(fmt.Sprintf("%s pressed", press), t.logFields(id, logger.Notify)...)
	}
	t.sink.SourceDown(t, id, press)
}

// SourceReleased relays a button release, the record is not touched
func (t *Tracker) SourceReleased(id ID, press PressKind) {
	if !t.noLogs {
		t.log.Info(fmt.Sprintf("%s released", press), t.logFields(id, logger.Notify)...)
	}
	t.sink.SourceUp(t, id, press)
}

// SourceLost removes the source record, unknown sources are not an error
func (t *Tracker) SourceLost(id ID) {
	delete(t.records, id)
	if !t.noLogs {
		t.log.Info("source lost", t.logFields(id, logger.Notify)...)
	}
	t.sink.SourceLost(t, id)
}

// Handle dispatches a single poller event
func (t *Tracker) Handle(ev Event) {
	switch ev.Type {
	case Detected:
		t.SourceDetected(ev.State)
	case Updated:
		t.SourceUpdated(ev.State)
	case Pressed:
		t.SourcePressed(ev.State.ID, ev.Press)
	case Released:
		t.SourceReleased(ev.State.ID, ev.Press)
	case Lost:
		t.SourceLost(ev.State.ID)
	default:
		t.log.Info(fmt.Sprintf("unexpected event type: %d", ev.Type), logger.Warning)
	}
}

// Run handles poller events on the calling goroutine until ctx is done or the poller closes its channel
func (t *Tracker) Run(ctx context.Context, p Poller) {
	events := p.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			t.Handle(ev)
			if t.hook != nil {
				t.hook(ev)
			}
		}
	}
}

// SupportedCapabilities returns capabilities ever proven supported, none for unknown sources
func (t *Tracker) SupportedCapabilities(id ID) CapabilityFlag {
	r, ok := t.records[id]
	if !ok {
		return 0
	}
	return r.SupportedCapabilities()
}

func (t *Tracker) SourceKind(id ID) (Kind, bool) {
	r, ok := t.records[id]
	if !ok {
		return KindOther, false
	}
	return r.Kind, true
}

// Sources returns IDs of all tracked sources in ascending order
func (t *Tracker) Sources() []ID {
	ids := make([]ID, 0, len(t.records))
	for id := range t.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Snapshot returns a copy of the source record
func (t *Tracker) Snapshot(id ID) (Record, bool) {
	r, ok := t.records[id]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Snapshots returns copies of all records ordered by ID
func (t *Tracker) Snapshots() []Record {
	var records = make([]Record, 0, len(t.records))
	for _, id := range t.Sources() {
		records = append(records, *t.records[id])
	}
	return records
}
