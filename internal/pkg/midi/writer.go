package midi

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/gethiox/sourcetracker/internal/pkg/notify"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

type Stats struct {
	Notifications     uint64
	MidiEventsEmitted uint64
	Errors            uint64
}

// ProcessNotifications translates notifications and writes resulting messages until ctx is done
// or the notifications channel is closed.
func ProcessNotifications(ctx context.Context, out io.Writer, notifications <-chan notify.Notification,
	t *Translator, stats *Stats) {

	log.Info("Processing midi output started", logger.Debug)
	defer log.Info("Processing midi output stopped", logger.Debug)

root:
	for {
		select {
		case <-ctx.Done():
			break root
		case n, ok := <-notifications:
			if !ok {
				break root
			}
			atomic.AddUint64(&stats.Notifications, 1)

			for _, ev := range t.Translate(n) {
				_, err := out.Write(ev)
				if err != nil {
					atomic.AddUint64(&stats.Errors, 1)
					log.Info(fmt.Sprintf("writing midi event failed: %v", err), logger.Warning)
					continue
				}
				atomic.AddUint64(&stats.MidiEventsEmitted, 1)
				log.Info(ev.String(), zap.Uint32("source_id", uint32(n.Source)), logger.Debug)
			}
		}
	}
}
