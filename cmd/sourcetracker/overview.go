package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/awesome-gocui/gocui"
	"github.com/gethiox/sourcetracker/internal/pkg/controller"
	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/gethiox/sourcetracker/internal/pkg/notify"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/logrusorgru/aurora"
)

type sourceInfo struct {
	Record     source.Record
	Device     string
	ConfigFile string
	ConfigType string
}

// overview keeps copies of tracked sources for the ui, the tracker itself is never touched from ui goroutines
type overview struct {
	mutex   sync.Mutex
	sources []sourceInfo
}

// Publish replaces the current view of sources, records are expected in ID order
func (o *overview) Publish(records []source.Record, connected []controller.Connected) {
	var devices = make(map[source.ID]controller.Connected, len(connected))
	for _, c := range connected {
		devices[c.ID] = c
	}

	var sources = make([]sourceInfo, 0, len(records))
	for _, r := range records {
		info := sourceInfo{Record: r}
		if c, ok := devices[r.ID]; ok {
			info.Device = c.Device.Name
			info.ConfigFile = c.ConfigFile
			info.ConfigType = c.ConfigType
		}
		sources = append(sources, info)
	}

	o.mutex.Lock()
	o.sources = sources
	o.mutex.Unlock()
}

func (o *overview) Sources() []sourceInfo {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.sources
}

func indicator(au aurora.Aurora, name string, on bool) string {
	if on {
		return au.Bold(name).String()
	}
	return au.Gray(10, name).String()
}

func axes(v mgl32.Vec2) string {
	return fmt.Sprintf("%+.2f %+.2f", v[0], v[1])
}

// renderSource returns overview lines of a single source
func renderSource(au aurora.Aurora, s sourceInfo) []string {
	r := s.Record

	header := fmt.Sprintf("[%d] %s (%s)", r.ID, colorForString(au, r.Kind.String()), r.Handedness)
	if s.Device != "" {
		header += fmt.Sprintf(": %s", colorForString(au, s.Device))
	}
	if s.ConfigFile != "" {
		header += fmt.Sprintf(", config: %s (%s)", colorForString(au, s.ConfigFile), s.ConfigType)
	}
	if r.Haptics != nil {
		header += ", haptics"
	}

	lines := []string{
		header,
		fmt.Sprintf("├ supports: %s", r.SupportedCapabilities()),
	}

	var readings []string
	if stick, ok := r.Thumbstick.CurrentReading, r.Thumbstick.IsAvailable; ok {
		readings = append(readings, fmt.Sprintf("stick: %s %s", axes(stick.Position), indicator(au, "pressed", stick.Pressed)))
	}
	if pad, ok := r.Touchpad.CurrentReading, r.Touchpad.IsAvailable; ok {
		readings = append(readings, fmt.Sprintf("touchpad: %s %s %s",
			axes(pad.Position), indicator(au, "touched", pad.Touched), indicator(au, "pressed", pad.Pressed)))
	}
	if sel, ok := r.Select.CurrentReading, r.Select.IsAvailable; ok {
		readings = append(readings, fmt.Sprintf("select: %.2f %s", sel.PressedAmount, indicator(au, "pressed", sel.Pressed)))
	}
	if r.Grasp.IsAvailable {
		readings = append(readings, indicator(au, "grasp", r.Grasp.CurrentReading))
	}
	if r.Menu.IsAvailable {
		readings = append(readings, indicator(au, "menu", r.Menu.CurrentReading))
	}
	if r.GripRotation.IsAvailable {
		q := r.GripRotation.CurrentReading
		readings = append(readings, fmt.Sprintf("rotation: %+.2f %+.2f %+.2f %+.2f", q.W, q.X(), q.Y(), q.Z()))
	}
	lines = append(lines, fmt.Sprintf("└ %s", strings.Join(readings, ", ")))
	return lines
}

// writeLines rewrites the whole view, remaining space is cleared
func writeLines(view *gocui.View, lines []string) {
	x, y := view.Size()
	view.Rewind()
	for i := 0; i < y; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		freeSpace := x - rawStringLen(line)
		if freeSpace < 0 {
			freeSpace = 0
		}
		view.Write([]byte(line + strings.Repeat(" ", freeSpace)))
		view.Write([]byte{'\n'})
	}
}

func overviewView(g *gocui.Gui, colors bool, o *overview, rate time.Duration) {
	view, err := g.View(ViewOverview)
	if err != nil {
		panic(err)
	}
	au := aurora.NewAurora(colors)

	for {
		var viewData []string
		for _, s := range o.Sources() {
			viewData = append(viewData, renderSource(au, s)...)
		}
		writeLines(view, viewData)
		time.Sleep(rate)
	}
}

// notificationLog keeps only the latest rendered notifications
type notificationLog struct {
	au  aurora.Aurora
	buf *logBuffer
}

func newNotificationLog(au aurora.Aurora, size int) *notificationLog {
	return &notificationLog{au: au, buf: newLogBuffer(size)}
}

func (l *notificationLog) Add(n notify.Notification) {
	line := l.au.Reset(n.String()).Colorize(levelColor(logger.NotifyLvl)).String()
	l.buf.WriteMessage([]byte(line))
}

// Lines returns up to n latest notifications, the oldest one first
func (l *notificationLog) Lines(n int) []string {
	messages := l.buf.ReadLastMessages(n)
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, string(msg))
	}
	return lines
}

func notificationsView(g *gocui.Gui, colors bool, notifications <-chan notify.Notification, bufSize int) {
	view, err := g.View(ViewNotifications)
	if err != nil {
		panic(err)
	}
	notes := newNotificationLog(aurora.NewAurora(colors), bufSize)

	for n := range notifications {
		notes.Add(n)
		_, y := view.Size()
		writeLines(view, notes.Lines(y))
	}
}

func logView(g *gocui.Gui, color bool, logLevel, bufSize int) {
	feeder, err := NewFeeder(g, ViewLogs, logLevel, aurora.NewAurora(color))
	if err != nil {
		panic(err)
	}

	buf := newLogBuffer(bufSize)

	var newMessage = make(chan bool, 1)
	var done = make(chan struct{})

	go func() {
		var lastX, lastY int
		ticker := time.NewTicker(time.Millisecond * 100)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
			}
			x, y := feeder.view.Size()
			if x != lastX || y != lastY {
				lastX, lastY = x, y
				select {
				case newMessage <- true:
				default:
				}
			}
		}
	}()

	go func() {
		defer close(done)
		for msg := range logger.Messages {
			buf.WriteMessage(msg)
			select {
			case newMessage <- true:
			default:
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-newMessage:
		}
		feeder.view.Rewind()
		_, y := feeder.view.Size()
		for _, msg := range buf.ReadLastMessages(y) {
			feeder.Write(msg)
		}
	}
}
