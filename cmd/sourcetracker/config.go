package main

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/display"
	"github.com/gethiox/sourcetracker/internal/pkg/led"
	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/gethiox/sourcetracker/internal/pkg/midi"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/go-ini/ini"
	"go.uber.org/multierr"
)

type App struct {
	EVThrottling        time.Duration
	DiscoveryRate       time.Duration
	StabilizationPeriod time.Duration
	LogViewRate         time.Duration
	LogBufferSize       int
}

type Haptics struct {
	Enabled   bool
	Intensity float32
	Pulse     time.Duration
}

type Midi struct {
	Enabled bool
	Mapping midi.Mapping
}

type Config struct {
	App     App
	Haptics Haptics
	Midi    Midi
	Screen  display.ScreenConfig
	OpenRGB led.Config
}

// LoadConfig reads application config, any error is fatal
func LoadConfig(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		panic(fmt.Errorf("%s: %w", path, err))
	}
	return cfg
}

// maxRate keeps the period at least a microsecond long
const maxRate = 1_000_000

// perSecond converts a rate key into a period
func perSecond(key *ini.Key) (time.Duration, error) {
	i, err := key.Int()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key.Name(), err)
	}
	if i <= 0 || i > maxRate {
		return 0, fmt.Errorf("%s: rate has to be in range 1-%d, got %d", key.Name(), maxRate, i)
	}
	return time.Second / time.Duration(i), nil
}

func milliseconds(key *ini.Key) (time.Duration, error) {
	i, err := key.Int()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key.Name(), err)
	}
	return time.Millisecond * time.Duration(i), nil
}

func midiValue(key *ini.Key, max int) (uint8, error) {
	i, err := key.Int()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key.Name(), err)
	}
	if i < 0 || i > max {
		return 0, fmt.Errorf("%s: value %d out of range 0-%d", key.Name(), i, max)
	}
	return uint8(i), nil
}

func ccPair(key *ini.Key) ([2]uint8, error) {
	values := key.Ints(",")
	if len(values) != 2 {
		return [2]uint8{}, fmt.Errorf("%s: two controller numbers expected, got \"%s\"", key.Name(), key.String())
	}
	var pair [2]uint8
	for i, v := range values {
		if v < 0 || v > 127 {
			return [2]uint8{}, fmt.Errorf("%s: controller number %d out of range 0-127", key.Name(), v)
		}
		pair[i] = uint8(v)
	}
	return pair, nil
}

func parseConfig(data []byte) (Config, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return Config{}, err
	}

	var c Config
	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	// [app]
	app := cfg.Section("app")
	c.App.EVThrottling, err = perSecond(app.Key("poll_rate"))
	check(err)
	c.App.DiscoveryRate, err = perSecond(app.Key("discovery_rate"))
	check(err)
	c.App.StabilizationPeriod, err = milliseconds(app.Key("stabilization_period"))
	check(err)
	c.App.LogViewRate, err = perSecond(app.Key("log_view_rate"))
	check(err)
	c.App.LogBufferSize, err = app.Key("log_buffer_size").Int()
	check(err)

	// [haptics]
	haptics := cfg.Section("haptics")
	c.Haptics.Enabled, err = haptics.Key("enabled").Bool()
	check(err)
	intensity, err := haptics.Key("intensity").Float64()
	check(err)
	if intensity < 0 || intensity > 1 {
		check(fmt.Errorf("intensity: value %.2f out of range 0.0-1.0", intensity))
	}
	c.Haptics.Intensity = float32(intensity)
	c.Haptics.Pulse, err = milliseconds(haptics.Key("pulse"))
	check(err)

	// [midi]
	m := cfg.Section("midi")
	c.Midi.Enabled, err = m.Key("enabled").Bool()
	check(err)

	mapping := midi.DefaultMapping()
	channel, err := midiValue(m.Key("channel"), 16)
	check(err)
	if channel == 0 {
		check(fmt.Errorf("channel: value has to be in range 1-16"))
	} else {
		mapping.Channel = channel - 1
	}
	mapping.Velocity, err = midiValue(m.Key("velocity"), 127)
	check(err)

	for _, n := range []struct {
		key   string
		press source.PressKind
	}{
		{"note_select", source.PressSelect},
		{"note_grasp", source.PressGrasp},
		{"note_menu", source.PressMenu},
		{"note_touchpad", source.PressTouchpad},
		{"note_thumbstick", source.PressThumbstick},
	} {
		raw := m.Key(n.key).String()
		if raw == "" {
			delete(mapping.Notes, n.press)
			continue
		}
		note, err := midi.StringToNote(raw)
		if err != nil {
			check(fmt.Errorf("%s: %w", n.key, err))
			continue
		}
		mapping.Notes[n.press] = note
	}

	mapping.ThumbstickCC, err = ccPair(m.Key("thumbstick_cc"))
	check(err)
	mapping.TouchpadCC, err = ccPair(m.Key("touchpad_cc"))
	check(err)
	mapping.TouchCC, err = midiValue(m.Key("touch_cc"), 127)
	check(err)
	mapping.SelectCC, err = midiValue(m.Key("select_cc"), 127)
	check(err)
	mapping.PitchBend, err = m.Key("pitch_bend").Bool()
	check(err)
	c.Midi.Mapping = mapping

	// [screen]
	screen := cfg.Section("screen")
	c.Screen.Enabled, err = screen.Key("enabled").Bool()
	check(err)
	c.Screen.LcdType, err = display.ParseLcdType(screen.Key("type").String())
	check(err)
	c.Screen.Bus, err = screen.Key("bus").Int()
	check(err)
	address, err := screen.Key("address").Int()
	check(err)
	if address < 0 || address > 0x7f {
		check(fmt.Errorf("address: value %d out of range 0-127", address))
	}
	c.Screen.Address = uint8(address)
	c.Screen.UpdateRate, err = perSecond(screen.Key("update_rate"))
	check(err)
	for i := range c.Screen.ExitMessage {
		c.Screen.ExitMessage[i] = screen.Key(fmt.Sprintf("exit_message%d", i+1)).String()
	}

	// [openrgb]
	orgb := cfg.Section("openrgb")
	c.OpenRGB.Enabled, err = orgb.Key("enabled").Bool()
	check(err)
	c.OpenRGB.Host = orgb.Key("host").String()
	c.OpenRGB.Port, err = orgb.Key("port").Int()
	check(err)
	c.OpenRGB.Idle, err = orgb.Key("idle_brightness").Float64()
	check(err)
	if c.OpenRGB.Idle < 0 || c.OpenRGB.Idle > 1 {
		check(fmt.Errorf("idle_brightness: value %.2f out of range 0.0-1.0", c.OpenRGB.Idle))
	}
	c.OpenRGB.UpdateRate, err = perSecond(orgb.Key("update_rate"))
	check(err)

	if len(errs) > 0 {
		return Config{}, multierr.Combine(errs...)
	}
	return c, nil
}

//go:embed sourcetracker-config/sourcetracker.config
//go:embed sourcetracker-config/*/*/*
var templateConfig embed.FS

const configDir = "sourcetracker-config"

func copyTemplate(templates fs.FS, path, dst string) error {
	data, err := fs.ReadFile(templates, path)
	if err != nil {
		return fmt.Errorf("cannot read \"%s\" template file: %w", path, err)
	}
	err = os.WriteFile(dst, data, 0o666)
	if err != nil {
		return fmt.Errorf("cannot write data into \"%s\" file: %w", dst, err)
	}
	return nil
}

// syncConfigDirectory creates config directory under base if necessary.
// Factory device configs are updated on every call, the rest stays intact.
func syncConfigDirectory(templates fs.FS, base string) error {
	root := filepath.Join(base, configDir)

	_, err := os.Stat(root)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cannot open config directory: %w", err)
		}
		log.Info("config not exist, generating tree...", logger.Info)

		err = fs.WalkDir(templates, configDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			dst := filepath.Join(base, path)
			if d.IsDir() {
				err := os.Mkdir(dst, 0o777)
				if err != nil {
					return fmt.Errorf("cannot create \"%s\" directory: %w", dst, err)
				}
				return nil
			}
			log.Info(fmt.Sprintf("Created \"%s\" file", dst), logger.Debug)
			return copyTemplate(templates, path, dst)
		})
		if err != nil {
			return fmt.Errorf("config generation failed: %w", err)
		}
		log.Info("config generation done", logger.Info)
		return nil
	}

	// update factory configs
	err = fs.WalkDir(templates, configDir+"/factory", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dst := filepath.Join(base, path)
		if entry.IsDir() {
			err := os.MkdirAll(dst, 0o777)
			if err != nil {
				return fmt.Errorf("cannot create \"%s\" directory: %w", dst, err)
			}
			return nil
		}

		src, err := os.Open(dst)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("cannot open \"%s\" file: %w", dst, err)
			}
			log.Info(fmt.Sprintf("Creating new factory configuration: \"%s\"", dst), logger.Debug)
			return copyTemplate(templates, path, dst)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return fmt.Errorf("cannot read \"%s\" file: %w", dst, err)
		}

		newData, err := fs.ReadFile(templates, path)
		if err != nil {
			return fmt.Errorf("cannot open \"%s\" file template: %w", path, err)
		}
		if bytes.Equal(data, newData) {
			log.Info(fmt.Sprintf("File \"%s\" not changed", dst), logger.Debug)
			return nil
		}
		log.Info(fmt.Sprintf("File \"%s\" changed, replacing data...", dst), logger.Debug)
		return copyTemplate(templates, path, dst)
	})
	if err != nil {
		return fmt.Errorf("update factory configs failed: %w", err)
	}
	return nil
}
