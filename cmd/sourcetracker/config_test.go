package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/d2r2/go-hd44780"
	"github.com/gethiox/sourcetracker/internal/pkg/controller/config"
	"github.com/gethiox/sourcetracker/internal/pkg/display"
	"github.com/gethiox/sourcetracker/internal/pkg/led"
	"github.com/gethiox/sourcetracker/internal/pkg/midi"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/go-ini/ini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateConfig(t *testing.T) {
	data, err := templateConfig.ReadFile("sourcetracker-config/sourcetracker.config")
	require.Equal(t, nil, err)

	cfg, err := parseConfig(data)
	require.Equal(t, nil, err)

	assert.Equal(t, Config{
		App: App{
			EVThrottling:        time.Second / 120,
			DiscoveryRate:       time.Millisecond * 250,
			StabilizationPeriod: time.Millisecond * 200,
			LogViewRate:         time.Second / 30,
			LogBufferSize:       2000,
		},
		Haptics: Haptics{Enabled: true, Intensity: 0.6, Pulse: time.Millisecond * 80},
		Midi:    Midi{Enabled: false, Mapping: midi.DefaultMapping()},
		Screen: display.ScreenConfig{
			Enabled: false, LcdType: hd44780.LCD_20x4, Bus: 1, Address: 0x27, UpdateRate: time.Second,
		},
		OpenRGB: led.Config{
			Enabled: false, Host: "localhost", Port: 6742, Idle: 0.2, UpdateRate: time.Second / 30,
		},
	}, cfg)
}

func TestParseConfigErrors(t *testing.T) {
	data := []byte(`
[app]
poll_rate = 0
discovery_rate = 4
stabilization_period = 200
log_view_rate = 30
log_buffer_size = 100

[haptics]
enabled = maybe
intensity = 1.5
pulse = 80

[midi]
enabled = true
channel = 0
velocity = 64
note_select = X9
thumbstick_cc = 16
touchpad_cc = 18, 19
touch_cc = 80
select_cc = 200
pitch_bend = false
`)
	_, err := parseConfig(data)
	require.NotEqual(t, nil, err)

	for _, part := range []string{
		"poll_rate", "intensity", "channel", "note_select", "thumbstick_cc", "select_cc", "unsupported screen type",
	} {
		assert.Contains(t, err.Error(), part)
	}
}

func TestPerSecond(t *testing.T) {
	f := ini.Empty()
	section := f.Section("app")

	for _, tc := range []struct {
		value    string
		expected time.Duration
		fails    bool
	}{
		{value: "1", expected: time.Second},
		{value: "120", expected: time.Second / 120},
		{value: "1000000", expected: time.Microsecond},
		{value: "0", fails: true},
		{value: "-5", fails: true},
		{value: "1000000001", fails: true},
		{value: "2000000000", fails: true},
		{value: "fast", fails: true},
	} {
		t.Run(tc.value, func(t *testing.T) {
			key, err := section.NewKey("poll_rate", tc.value)
			require.Equal(t, nil, err)
			period, err := perSecond(key)
			if tc.fails {
				assert.NotEqual(t, nil, err)
				return
			}
			require.Equal(t, nil, err)
			assert.Equal(t, tc.expected, period)
			assert.Greater(t, period, time.Duration(0))
		})
	}
}

func TestParseConfigNotes(t *testing.T) {
	data, err := templateConfig.ReadFile("sourcetracker-config/sourcetracker.config")
	require.Equal(t, nil, err)

	raw := strings.Replace(string(data), "note_menu = E3", "note_menu =", 1)
	raw = strings.Replace(raw, "note_grasp = D3", "note_grasp = C-1", 1)

	cfg, err := parseConfig([]byte(raw))
	require.Equal(t, nil, err)

	_, ok := cfg.Midi.Mapping.Notes[source.PressMenu]
	assert.False(t, ok, "empty note disables the press")
	assert.Equal(t, uint8(12), cfg.Midi.Mapping.Notes[source.PressGrasp])
	assert.Len(t, cfg.Midi.Mapping.Notes, 4)
}

func TestSyncConfigDirectory(t *testing.T) {
	dir := t.TempDir()
	templates := fstest.MapFS{
		"sourcetracker-config/sourcetracker.config":       {Data: []byte("[app]\n")},
		"sourcetracker-config/factory/controller/a.yaml":  {Data: []byte("v1")},
		"sourcetracker-config/user/controller/README.txt": {Data: []byte("readme")},
	}

	require.Equal(t, nil, syncConfigDirectory(templates, dir))

	read := func(path string) string {
		data, err := os.ReadFile(filepath.Join(dir, configDir, path))
		require.Equal(t, nil, err)
		return string(data)
	}
	assert.Equal(t, "[app]\n", read("sourcetracker.config"))
	assert.Equal(t, "v1", read("factory/controller/a.yaml"))
	assert.Equal(t, "readme", read("user/controller/README.txt"))

	require.Equal(t, nil, os.WriteFile(filepath.Join(dir, configDir, "sourcetracker.config"), []byte("custom"), 0o666))
	require.Equal(t, nil, os.WriteFile(filepath.Join(dir, configDir, "user/controller/README.txt"), []byte("mine"), 0o666))
	templates["sourcetracker-config/factory/controller/a.yaml"] = &fstest.MapFile{Data: []byte("v2")}
	templates["sourcetracker-config/factory/controller/b.yaml"] = &fstest.MapFile{Data: []byte("new")}

	require.Equal(t, nil, syncConfigDirectory(templates, dir))
	assert.Equal(t, "custom", read("sourcetracker.config"))
	assert.Equal(t, "mine", read("user/controller/README.txt"))
	assert.Equal(t, "v2", read("factory/controller/a.yaml"))
	assert.Equal(t, "new", read("factory/controller/b.yaml"))
}

func TestEmbeddedMappingConfigs(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, nil, syncConfigDirectory(templateConfig, dir))

	configs, err := config.LoadDeviceConfigs(filepath.Join(dir, configDir))
	require.Equal(t, nil, err)
	assert.Len(t, configs.Factory, 2)
	assert.Len(t, configs.User, 0)
}
