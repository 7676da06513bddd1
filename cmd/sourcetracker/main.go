package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/awesome-gocui/gocui"
	"github.com/gethiox/sourcetracker/internal/pkg/controller"
	"github.com/gethiox/sourcetracker/internal/pkg/display"
	"github.com/gethiox/sourcetracker/internal/pkg/led"
	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/gethiox/sourcetracker/internal/pkg/midi"
	"github.com/gethiox/sourcetracker/internal/pkg/notify"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/gethiox/sourcetracker/internal/pkg/utils"
	"github.com/logrusorgru/aurora"
)

var log = logger.GetLogger()

func handleSigs(wg *sync.WaitGroup, sigs <-chan os.Signal, cancel func(), server *http.Server, g *gocui.Gui) {
	defer wg.Done()
	var counter int
	for sig := range sigs {
		if counter > 0 {
			fmt.Println("Dirty exit")
			os.Exit(1)
		}
		log.Info(fmt.Sprintf("signal received: %v", sig), logger.Debug)
		cancel()
		if server != nil {
			err := server.Close()
			if err != nil {
				log.Info(fmt.Sprintf("failed to close server: %v", err), logger.Warning)
			}
		}
		if g != nil {
			g.Close()
		}
		counter++
	}
}

func runUI(ctx context.Context, cfg Config, ui bool, sigs chan<- os.Signal) *gocui.Gui {
	if !ui {
		return nil
	}
	g, err := GetCli()
	if err != nil {
		panic(err)
	}

	go func() {
		err := g.MainLoop()
		if err != nil && err != gocui.ErrQuit {
			panic(err)
		}
		select {
		case <-ctx.Done():
		default:
			sigs <- syscall.SIGINT // pretend that we received signal when exited from gui
		}
	}()

	go func() {
		for ctx.Err() == nil {
			g.Update(Layout)
			time.Sleep(cfg.App.LogViewRate)
		}
	}()

	// views are created by the first layout call
	for {
		_, err := g.View(ViewLogs)
		if err == nil {
			break
		}
		time.Sleep(time.Millisecond * 10)
	}
	return g
}

func runProfileServer(wg *sync.WaitGroup) *http.Server {
	if !*profile {
		return nil
	}
	addr := "0.0.0.0:8080"
	log.Info(fmt.Sprintf("profiling enabled and hosted on %s", addr), logger.Info)
	server := &http.Server{Addr: addr, Handler: nil}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info(fmt.Sprintf("profiling server exited: %v", server.ListenAndServe()), logger.Info)
	}()
	return server
}

// openMidi opens selected midi device, nil is returned when midi output is not possible
func openMidi() *os.File {
	ioDevices, err := midi.DetectDevices()
	if err != nil {
		log.Info(fmt.Sprintf("midi devices detection failed: %v", err), logger.Warning)
		return nil
	}
	if len(ioDevices) == 0 {
		log.Info("There is no midi devices available, midi output disabled", logger.Warning)
		return nil
	}
	if len(ioDevices) < *midiDevice+1 {
		log.Info(fmt.Sprintf(
			"MIDI device with \"%d\" ID does not exist. There is %d MIDI devices available in total",
			*midiDevice, len(ioDevices),
		), logger.Warning)
		return nil
	}

	ioDevice, err := ioDevices[*midiDevice].Open()
	if err != nil {
		log.Info(fmt.Sprintf("Failed to open MIDI device: %v", err), logger.Warning)
		return nil
	}
	log.Info(fmt.Sprintf("midi output: %s", ioDevices[*midiDevice].Path()), logger.Info)
	return ioDevice
}

func printLogs(colors bool, logLevel int) {
	au := aurora.NewAurora(colors)
	for data := range logger.Messages {
		msg, err := unpack(data)
		if err != nil {
			fmt.Printf("%s\n", string(data))
			continue
		}
		m := prepareString(msg, au, -1, logLevel)
		if m != "" {
			fmt.Printf("%s\n", m)
		}
	}
}

var (
	profile  = flag.Bool("profile", false, "runs web server for performance profiling (go tool pprof)")
	grab     = flag.Bool("grab", false, "grab input devices for exclusive usage")
	ui       = flag.Bool("ui", false, "engage debug ui")
	force256 = flag.Bool("256", false, "force 256 color mode")
	nocolor  = flag.Bool("nocolor", false, "disable color")
	logLevel = flag.Int("loglevel", 1,
		"logging level, each level enables additional information class (0-2, default: 1)\n"+
			"\navailable options:\n"+
			"0: general info (eg. device appearance status)\n"+
			"1: source detection, loss and button down/up notifications\n"+
			"2: position, rotation, axis and touch changes\n"+
			"376: debug messages",
	)
	midiDevice = flag.Int("mididevice", 0, "select N-th midi device, default: 0 (first)")
	silent     = flag.Bool("silent", false, "no output logging, best performance")
)

func main() {
	flag.Parse()
	*logLevel += logger.InfoLvl

	if *force256 {
		os.Setenv("TERM", "xterm-256color")
	}

	err := syncConfigDirectory(templateConfig, ".")
	if err != nil {
		panic(err)
	}
	var cfg = LoadConfig(filepath.Join(configDir, "sourcetracker.config"))
	log.Info(fmt.Sprintf("config: %+v", cfg), logger.Debug)

	var sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())

	g := runUI(ctx, cfg, *ui && !*silent, sigs)

	// this wait-group has to be propagated everywhere where usual logging appear
	wg := sync.WaitGroup{}

	switch {
	case *silent:
		go func() {
			for range logger.Messages {
			}
		}()
	case g != nil:
		go logView(g, !*nocolor, *logLevel, cfg.App.LogBufferSize)
	default:
		fmt.Printf("for nicer output use -ui flag\n")
		go printLogs(!*nocolor, *logLevel)
	}

	server := runProfileServer(&wg)

	wg.Add(1)
	go handleSigs(&wg, sigs, cancel, server, g)

	channelSink := notify.NewChannelSink(256)
	sinks := source.MultiSink{notify.NewLogSink(log)}
	if cfg.Haptics.Enabled {
		sinks = append(sinks, notify.HapticFeedback{Intensity: cfg.Haptics.Intensity, Pulse: cfg.Haptics.Pulse})
	}
	sinks = append(sinks, channelSink)

	fan := utils.NewDynamicFanOut[notify.Notification](channelSink.Notifications())

	var midiStats midi.Stats
	if cfg.Midi.Enabled {
		if out := openMidi(); out != nil {
			_, notifications, err := fan.SpawnOutput("midi")
			if err != nil {
				panic(err)
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer out.Close()
				midi.ProcessNotifications(context.Background(), out, notifications, midi.NewTranslator(cfg.Midi.Mapping), &midiStats)
			}()
		}
	}

	manager := controller.NewManager(*grab, cfg.App.EVThrottling)
	o := &overview{}

	if cfg.OpenRGB.Enabled {
		_, notifications, err := fan.SpawnOutput("openrgb")
		if err != nil {
			panic(err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			led.Run(ctx, cfg.OpenRGB, manager.Handlers, notifications)
		}()
	}

	if cfg.Screen.Enabled {
		_, notifications, err := fan.SpawnOutput("display")
		if err != nil {
			panic(err)
		}
		wg.Add(2)
		go display.HandleDisplay(&wg, cfg.Screen, GenerateDisplayData(ctx, &wg, cfg.Screen, o, notifications))
	}

	var opts []source.Option
	if *silent {
		opts = append(opts, source.WithoutLogs())
	}
	var tracker *source.Tracker
	if g != nil {
		_, notifications, err := fan.SpawnOutput("ui")
		if err != nil {
			panic(err)
		}
		go notificationsView(g, !*nocolor, notifications, cfg.App.LogBufferSize)
		go overviewView(g, !*nocolor, o, cfg.App.LogViewRate)
	}
	if g != nil || cfg.Screen.Enabled {
		opts = append(opts, source.WithHook(func(source.Event) {
			o.Publish(tracker.Snapshots(), manager.Connected())
		}))
	}
	tracker = source.NewTracker(sinks, opts...)

	// tracker keeps running until the manager closes its events, so every source is reported as lost
	trackerDone := make(chan struct{})
	go func() {
		defer close(trackerDone)
		tracker.Run(context.Background(), manager)
	}()

	runManager(ctx, cfg, manager)

	manager.Close()
	<-trackerDone
	outputs := fan.Outputs()
	channelSink.Close()

	log.Info(fmt.Sprintf(
		"waiting for %s... (notifications dropped: %d, midi events emitted: %d)",
		strings.Join(outputs, ", "), channelSink.Dropped(), atomic.LoadUint64(&midiStats.MidiEventsEmitted),
	), logger.Debug)
	signal.Stop(sigs)
	close(sigs)

	// closing logger can be safely invoked only when all internally running goroutines (that may emit logs) are done
	wg.Wait()
	<-fan.Done()
	close(logger.Messages)
}
