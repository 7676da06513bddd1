package notify

import (
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/source"
)

// HapticsController is implemented by the tracker
type HapticsController interface {
	StartHaptics(id source.ID, intensity float32)
	StartHapticsFor(id source.ID, intensity float32, duration time.Duration)
	StopHaptics(id source.ID)
}

// HapticFeedback vibrates the source while grasp is held and pulses once on menu press.
// Haptics are started through the notifying source, sources without haptics are skipped.
type HapticFeedback struct {
	source.NopSink

	Intensity float32
	Pulse     time.Duration
}

func (h HapticFeedback) SourceDown(src source.InputSource, id source.ID, press source.PressKind) {
	c, ok := src.(HapticsController)
	if !ok {
		return
	}
	switch press {
	case source.PressGrasp:
		c.StartHaptics(id, h.Intensity)
	case source.PressMenu:
		c.StartHapticsFor(id, h.Intensity, h.Pulse)
	}
}

func (h HapticFeedback) SourceUp(src source.InputSource, id source.ID, press source.PressKind) {
	c, ok := src.(HapticsController)
	if !ok {
		return
	}
	if press == source.PressGrasp {
		c.StopHaptics(id)
	}
}
