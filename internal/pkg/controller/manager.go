package controller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/controller/config"
	"github.com/gethiox/sourcetracker/internal/pkg/input"
	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Connected describes a device currently reported as a source
type Connected struct {
	ID         source.ID
	Device     input.Device
	ConfigFile string
	ConfigType string
	Haptics    bool
}

// Manager opens controllers reported by device monitor and reports them as sources.
// It implements source.Poller.
type Manager struct {
	events   chan source.Event
	nextID   uint32
	grab     bool
	throttle time.Duration

	mutex     sync.Mutex
	connected map[input.PhysicalID]Connected
}

func NewManager(grab bool, throttle time.Duration) *Manager {
	return &Manager{
		events:    make(chan source.Event, 64),
		grab:      grab,
		throttle:  throttle,
		connected: make(map[input.PhysicalID]Connected),
	}
}

func (m *Manager) Events() <-chan source.Event {
	return m.events
}

// Close closes the events channel, it must be called after all Run calls returned
func (m *Manager) Close() {
	close(m.events)
}

// Connected returns currently connected devices ordered by source ID
func (m *Manager) Connected() []Connected {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var list = make([]Connected, 0, len(m.connected))
	for _, c := range m.connected {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Handlers returns event handler names of a connected source, eg. "event5"
func (m *Manager) Handlers(id source.ID) []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, c := range m.connected {
		if c.ID != id {
			continue
		}
		var events = make([]string, 0, len(c.Device.Handlers))
		for _, h := range c.Device.Handlers {
			if e := h.Event(); e != "" {
				events = append(events, e)
			}
		}
		sort.Strings(events)
		return events
	}
	return nil
}

// newID returns a source identifier, every connection gets a new one
func (m *Manager) newID() source.ID {
	return source.ID(atomic.AddUint32(&m.nextID, 1))
}

func (m *Manager) send(ctx context.Context, ev source.Event) bool {
	select {
	case m.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run handles device events until the devices channel is closed, then waits for all device readers to finish.
// Every opened device is reported as lost before Run returns.
func (m *Manager) Run(ctx context.Context, devices <-chan input.DeviceEvent, configs config.DeviceConfigs) {
	wg := sync.WaitGroup{}
	var cancels = make(map[input.PhysicalID]context.CancelFunc)

	log.Info("Run manager", logger.Debug)
	for ev := range devices {
		d := ev.Device
		if ev.Type == input.Disappeared {
			cancel, ok := cancels[d.PhysicalUUID()]
			if ok {
				cancel()
				delete(cancels, d.PhysicalUUID())
			}
			continue
		}

		log.Info("Loading config for device...", zap.String("device_name", d.Name), logger.Debug)
		conf, err := configs.FindConfig(d.ID, d.DeviceType)
		if err != nil {
			if errors.Is(err, config.ErrUnsupportedDevice) {
				log.Info(fmt.Sprintf("device skipped: %v", err), zap.String("device_name", d.Name), logger.Debug)
				continue
			}
			log.Info(fmt.Sprintf("failed to load config for device: %v", err), zap.String("device_name", d.Name), logger.Warning)
			continue
		}
		log.Info(fmt.Sprintf("config loaded: %s", conf.ConfigFile), zap.String("device_name", d.Name), logger.Debug)

		ctxDevice, cancel := context.WithCancel(ctx)
		inputEvents, err := m.open(ctxDevice, &d)
		if err != nil {
			cancel()
			log.Info(fmt.Sprintf("failed to open device: %v", err), zap.String("device_name", d.Name), logger.Warning)
			continue
		}
		if prev, ok := cancels[d.PhysicalUUID()]; ok {
			prev()
		}
		cancels[d.PhysicalUUID()] = cancel

		wg.Add(1)
		go func(d input.Device, conf config.DeviceConfig) {
			defer wg.Done()
			defer cancel()
			m.serve(ctxDevice, d, conf, inputEvents)
		}(d, conf)
	}

	for _, cancel := range cancels {
		cancel()
	}
	wg.Wait()
	log.Info("Exit manager", logger.Debug)
}

// open retries opening the device for a while, handlers may not be accessible right after appearing
func (m *Manager) open(ctx context.Context, d *input.Device) (<-chan *input.InputEvent, error) {
	appearedAt := time.Now()
	for {
		inputEvents, err := d.ProcessEvents(ctx, m.grab)
		if err == nil {
			return inputEvents, nil
		}
		if time.Since(appearedAt) > time.Second*5 {
			return nil, fmt.Errorf("giving up: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond * 100):
		}
	}
}

func (m *Manager) serve(ctx context.Context, d input.Device, conf config.DeviceConfig, inputEvents <-chan *input.InputEvent) {
	id := m.newID()

	var haptics source.Haptics
	var rumble *Rumble
	if conf.Config.Haptics {
		path, ok := d.ForceFeedbackPath()
		if ok {
			r, err := OpenRumble(path)
			if err != nil {
				log.Info(fmt.Sprintf("haptics unavailable: %v", err), zap.String("device_name", d.Name), logger.Warning)
			} else {
				rumble = r
				haptics = r
			}
		}
	}

	m.mutex.Lock()
	m.connected[d.PhysicalUUID()] = Connected{
		ID:         id,
		Device:     d,
		ConfigFile: conf.ConfigFile,
		ConfigType: conf.ConfigType,
		Haptics:    haptics != nil,
	}
	m.mutex.Unlock()

	log.Info("Device connected", zap.String("device_name", d.Name),
		zap.Uint32("source_id", uint32(id)),
		zap.String("config", fmt.Sprintf("%s (%s)", conf.ConfigFile, conf.ConfigType)),
		logger.Info,
	)

	reader := NewReader(id, NewMapper(conf.Config, d.AbsInfos), haptics, m.throttle)
	if m.send(ctx, source.Event{Type: source.Detected, State: reader.State()}) {
		reader.Run(ctx, inputEvents, m.events)
	}

	// lost has to be delivered even after cancellation, tracker keeps reading until the channel is closed
	m.events <- source.Event{Type: source.Lost, State: source.State{ID: id}}

	// drain remaining events, so handler goroutines can finish
	for range inputEvents {
	}

	if rumble != nil {
		err := rumble.Close()
		if err != nil {
			log.Info(fmt.Sprintf("closing haptics failed: %v", err), zap.String("device_name", d.Name), logger.Debug)
		}
	}

	m.mutex.Lock()
	if c, ok := m.connected[d.PhysicalUUID()]; ok && c.ID == id {
		delete(m.connected, d.PhysicalUUID())
	}
	m.mutex.Unlock()

	log.Info("Device disconnected", zap.String("device_name", d.Name), zap.Uint32("source_id", uint32(id)), logger.Info)
}
