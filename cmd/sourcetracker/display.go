package main

import (
	"context"
	"sync"
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/display"
	"github.com/gethiox/sourcetracker/internal/pkg/notify"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
)

func sourceStats(sources []sourceInfo) display.Stats {
	var st = display.Stats{Sources: len(sources)}
	for _, s := range sources {
		if s.Record.Kind == source.KindController {
			st.Controllers++
		}
	}
	return st
}

// GenerateDisplayData samples tracker activity for the screen.
// Notifications have to be drained until the channel is closed, the exit message is sent afterwards.
func GenerateDisplayData(
	ctx context.Context, wg *sync.WaitGroup, cfg display.ScreenConfig,
	o *overview, notifications <-chan notify.Notification,
) <-chan display.Frame {
	data := make(chan display.Frame)

	go func() {
		defer wg.Done()
		defer close(data)

		width, rows := cfg.Size()
		graph := display.NewGraph(width)
		ticker := time.NewTicker(cfg.UpdateRate)
		defer ticker.Stop()

		var counter, seen uint64

	root:
		for {
			select {
			case n, ok := <-notifications:
				if !ok {
					break root
				}
				counter++
				if n.Type == notify.SourceDetected {
					seen++
				}
			case <-ticker.C:
				st := sourceStats(o.Sources())
				st.Notifications = counter
				graph.Add(counter)
				counter = 0

				select {
				case data <- display.Frame{Lines: display.StatusLines(width, rows, st, graph)}:
				case <-ctx.Done():
				}
			}
		}

		data <- display.Frame{Lines: display.ExitLines(cfg, seen), Last: true}
	}()

	return data
}
