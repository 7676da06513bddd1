package source

import (
	"fmt"
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"go.uber.org/zap"
)

// Haptics is a handle to a haptic actuator of a source.
// Intensity is in range 0.0 - 1.0.
type Haptics interface {
	StartHaptics(intensity float32) error
	StartHapticsFor(intensity float32, duration time.Duration) error
	StopHaptics() error
}

func (t *Tracker) haptics(id ID) Haptics {
	r, ok := t.records[id]
	if !ok {
		return nil
	}
	return r.Haptics
}

// StartHaptics starts haptic feedback until stopped, unknown sources and sources without haptics are ignored
func (t *Tracker) StartHaptics(id ID, intensity float32) {
	h := t.haptics(id)
	if h == nil {
		return
	}
	if err := h.StartHaptics(intensity); err != nil {
		t.log.Info(fmt.Sprintf("starting haptics failed: %v", err), logger.Debug, zap.Uint32("source_id", uint32(id)))
	}
}

// StartHapticsFor starts haptic feedback for a given duration
func (t *Tracker) StartHapticsFor(id ID, intensity float32, duration time.Duration) {
	h := t.haptics(id)
	if h == nil {
		return
	}
	if err := h.StartHapticsFor(intensity, duration); err != nil {
		t.log.Info(fmt.Sprintf("starting haptics failed: %v", err), logger.Debug, zap.Uint32("source_id", uint32(id)))
	}
}

func (t *Tracker) StopHaptics(id ID) {
	h := t.haptics(id)
	if h == nil {
		return
	}
	if err := h.StopHaptics(); err != nil {
		t.log.Info(fmt.Sprintf("stopping haptics failed: %v", err), logger.Debug, zap.Uint32("source_id", uint32(id)))
	}
}
