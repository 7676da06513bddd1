package led

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/fs"
	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/gethiox/sourcetracker/internal/pkg/notify"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/realbucksavage/openrgb-go"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var sysClass = "/sys/class"

var (
	hidrawRegex   = regexp.MustCompile(`/dev/(hidraw\d+)`)
	eventRegex    = regexp.MustCompile(`^event\d+$`)
	inputDirRegex = regexp.MustCompile(`^input\d+$`)
)

type Config struct {
	Enabled    bool
	Host       string
	Port       int
	Idle       float64 // brightness of sources without any input, 0-1
	UpdateRate time.Duration
}

// controllers is a subset of OpenRGB client used for lighting
type controllers interface {
	GetControllerCount() (int, error)
	GetDeviceController(int) (openrgb.Device, error)
	UpdateLEDs(int, []openrgb.Color) error
}

// resolveHidraw returns event name that relates to given hidraw device
// "/dev/hidraw0" > "event0"
func resolveHidraw(dev string) (string, error) {
	out := hidrawRegex.FindStringSubmatch(dev)
	if len(out) != 2 {
		return "", fmt.Errorf("unexpected dev format: %s", dev)
	}

	rootEntry := fs.NewEntry(filepath.Join(sysClass, "hidraw", out[1], "device", "input"))
	inputs, err := rootEntry.Match(inputDirRegex)
	if err != nil {
		return "", fmt.Errorf("failed to list root entry: %w", err)
	}
	if len(inputs) == 0 {
		return "", fmt.Errorf("no input directory for %s", out[1])
	}

	for _, input := range inputs {
		entry := fs.NewEntry(filepath.Join(rootEntry.Path(), input))
		events, err := entry.Match(eventRegex)
		if err != nil {
			return "", fmt.Errorf("failed to list \"%s\": %w", entry.Path(), err)
		}
		if len(events) > 0 {
			return events[0], nil
		}
	}
	return "", fmt.Errorf("event not found")
}

// findController returns index of the OpenRGB controller located at one of the event handlers
func findController(c controllers, events []string) (openrgb.Device, int, error) {
	count, err := c.GetControllerCount()
	if err != nil {
		return openrgb.Device{}, 0, fmt.Errorf("failed to get controller count: %w", err)
	}
	if count == 0 {
		return openrgb.Device{}, 0, fmt.Errorf("no supported controllers available")
	}

	var wanted = make(map[string]bool, len(events))
	for _, e := range events {
		wanted[e] = true
	}

	for i := 0; i < count; i++ {
		dev, err := c.GetDeviceController(i)
		if err != nil {
			return openrgb.Device{}, 0, fmt.Errorf("getting controller information failed (%d/%d): %w", i, count, err)
		}

		event, err := resolveHidraw(dev.Location)
		if err != nil {
			continue
		}
		if wanted[event] {
			return dev, i, nil
		}
	}
	return openrgb.Device{}, 0, fmt.Errorf("controller not found")
}

func connect(ctx context.Context, cfg Config) (*openrgb.Client, error) {
	timeout := time.Now().Add(time.Second * 5)
	for {
		c, err := openrgb.Connect(cfg.Host, cfg.Port)
		if err == nil {
			return c, nil
		}
		if time.Now().After(timeout) {
			return nil, fmt.Errorf("giving up: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond * 250):
		}
	}
}

type lit struct {
	index int
	leds  int
}

// Lightbar sends colors of tracked sources to their RGB controllers
type Lightbar struct {
	client   controllers
	lights   *Lights
	handlers func(source.ID) []string

	found  map[source.ID]lit
	lookup map[source.ID]time.Time // next controller lookup
	failed int
}

func NewLightbar(client controllers, idle float64, handlers func(source.ID) []string) *Lightbar {
	return &Lightbar{
		client:   client,
		lights:   NewLights(idle),
		handlers: handlers,
		found:    make(map[source.ID]lit),
		lookup:   make(map[source.ID]time.Time),
	}
}

func (b *Lightbar) Apply(n notify.Notification) {
	b.lights.Apply(n)
	switch n.Type {
	case notify.SourceDetected:
		b.lookup[n.Source] = time.Time{}
	case notify.SourceLost:
		delete(b.found, n.Source)
		delete(b.lookup, n.Source)
	}
}

func (b *Lightbar) resolve(now time.Time) {
	for id, next := range b.lookup {
		if now.Before(next) {
			continue
		}
		dev, index, err := findController(b.client, b.handlers(id))
		if err != nil {
			log.Info(fmt.Sprintf("[OpenRGB] controller lookup failed: %v", err), zap.Uint32("source_id", uint32(id)), logger.Debug)
			b.lookup[id] = now.Add(time.Second)
			continue
		}
		log.Info(fmt.Sprintf("[OpenRGB] Controller found: %s, index: %d", dev.Name, index), zap.Uint32("source_id", uint32(id)), logger.Debug)
		delete(b.lookup, id)
		b.found[id] = lit{index: index, leds: len(dev.Colors)}
		b.lights.Touch(id)
	}
}

func fill(leds int, color openrgb.Color) []openrgb.Color {
	var colors = make([]openrgb.Color, leds)
	for i := range colors {
		colors[i] = color
	}
	return colors
}

// Update pushes colors of changed sources
func (b *Lightbar) Update(now time.Time) {
	b.resolve(now)
	for _, id := range b.lights.Dirty() {
		l, ok := b.found[id]
		if !ok {
			continue
		}
		color, _ := b.lights.Color(id)
		err := b.client.UpdateLEDs(l.index, fill(l.leds, color))
		if err != nil {
			b.failed++
		}
	}
}

// Off turns off all found controllers
func (b *Lightbar) Off() {
	for _, l := range b.found {
		_ = b.client.UpdateLEDs(l.index, fill(l.leds, openrgb.Color{}))
	}
}

// Run lights up sources until notifications channel is closed.
// handlers returns event handler names of a source, eg. "event5".
func Run(ctx context.Context, cfg Config, handlers func(source.ID) []string, notifications <-chan notify.Notification) {
	log.Info(fmt.Sprintf("[OpenRGB] Connecting: %s:%d...", cfg.Host, cfg.Port), logger.Debug)
	c, err := connect(ctx, cfg)
	if err != nil {
		log.Info(fmt.Sprintf("[OpenRGB] Cannot connect to server: %v", err), logger.Warning)
		for range notifications {
		}
		return
	}
	defer c.Close()
	log.Info("[OpenRGB] Connected", logger.Info)

	b := NewLightbar(c, cfg.Idle, handlers)
	ticker := time.NewTicker(cfg.UpdateRate)
	defer ticker.Stop()

	nextFailedLedUpdateReport := time.Now()
	for {
		select {
		case n, ok := <-notifications:
			if !ok {
				b.Off()
				return
			}
			b.Apply(n)
		case now := <-ticker.C:
			b.Update(now)
			if b.failed > 0 && now.After(nextFailedLedUpdateReport) {
				log.Info(fmt.Sprintf("[OpenRGB] LED update failed %d times", b.failed), logger.Warning)
				b.failed = 0
				nextFailedLedUpdateReport = now.Add(time.Second * 5)
			}
		}
	}
}
