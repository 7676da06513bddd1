package input

import (
	"context"
	"fmt"
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
)

type DeviceEventType int

const (
	Appeared DeviceEventType = iota
	Disappeared
)

func (t DeviceEventType) String() string {
	if t == Appeared {
		return "Appeared"
	}
	return "Disappeared"
}

type DeviceEvent struct {
	Type   DeviceEventType
	Device Device
}

func fetchDevices() ([]Device, error) {
	infos, err := GetHandlers()
	if err != nil {
		return nil, err
	}
	return Normalize(infos), nil
}

// MonitorDevices periodically scans for connected devices.
// New device is reported after it was visible for the whole stabilization period, so all its handlers are in place.
// Channel is closed when ctx is done.
func MonitorDevices(ctx context.Context, stabilization, rate time.Duration) <-chan DeviceEvent {
	return monitor(ctx, fetchDevices, stabilization, rate)
}

func monitor(ctx context.Context, scan func() ([]Device, error), stabilization, rate time.Duration) <-chan DeviceEvent {
	var devChan = make(chan DeviceEvent)

	var trackedDevs = make(map[PhysicalID]Device)
	var candidates = make(map[PhysicalID]time.Time)

	go func() {
		defer close(devChan)
		log.Info("Monitor devices engaged", logger.Debug)
		defer log.Info("Monitor devices disengaged", logger.Debug)

		ticker := time.NewTicker(rate)
		defer ticker.Stop()

		for {
			current, err := scan()
			if err != nil {
				log.Info(fmt.Sprintf("device scan failed: %v", err), logger.Warning)
			}

			var events []DeviceEvent
			var seen = make(map[PhysicalID]bool, len(current))
			now := time.Now()

			for _, d := range current {
				id := d.PhysicalUUID()
				seen[id] = true
				if _, ok := trackedDevs[id]; ok {
					continue
				}
				since, ok := candidates[id]
				if !ok {
					candidates[id] = now
					since = now
				}
				if now.Sub(since) < stabilization {
					continue
				}
				delete(candidates, id)
				trackedDevs[id] = d
				events = append(events, DeviceEvent{Type: Appeared, Device: d})
			}

			for id := range candidates {
				if !seen[id] {
					delete(candidates, id)
				}
			}

			if err == nil {
				for id, d := range trackedDevs {
					if seen[id] {
						continue
					}
					delete(trackedDevs, id)
					events = append(events, DeviceEvent{Type: Disappeared, Device: d})
				}
			}

			for _, ev := range events {
				log.Info(fmt.Sprintf("Device %s: %s", ev.Type, ev.Device.String()), logger.Debug)
				select {
				case devChan <- ev:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return devChan
}
