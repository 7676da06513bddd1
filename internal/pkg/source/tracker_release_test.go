//go:build !debug

package source

import (
	"strings"
	"testing"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestTrackerMismatchIgnored(t *testing.T) {
	messages := make(chan []byte, 16)
	tracker := NewTracker(nil, WithoutLogs(), WithLogger(logger.GetTestLogger(messages)))

	tracker.SourceDetected(controller(1))
	tracker.SourceUpdated(State{ID: 1, Kind: KindHand})

	kind, ok := tracker.SourceKind(1)
	assert.True(t, ok)
	assert.Equal(t, KindController, kind)

	close(messages)
	var found bool
	for msg := range messages {
		if strings.Contains(string(msg), "update mismatch") && strings.Contains(string(msg), `"level":1`) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestContractIgnored(t *testing.T) {
	assert.NotPanics(t, func() { contract(false, "broken") })
}
