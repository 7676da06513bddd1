package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gethiox/sourcetracker/internal/pkg/input"
	"github.com/gethiox/sourcetracker/internal/pkg/logger"
)

var log = logger.GetLogger()

var (
	ErrUnsupportedDevice = errors.New("unsupported device type")
	ErrNoConfig          = errors.New("no config found")
)

type ConfigMap map[input.InputID]DeviceConfig

type DeviceConfigs struct {
	Factory ConfigMap
	User    ConfigMap
}

// Dirs returns factory and user mapping directories of a given config root
func Dirs(root string) (factory, user string) {
	return filepath.Join(root, "factory", "controller"), filepath.Join(root, "user", "controller")
}

// FindConfig looks for a config in order: user exact, user default, factory exact, factory default.
// Default config has zero identifier.
func (c *DeviceConfigs) FindConfig(id input.InputID, devType input.DeviceType) (DeviceConfig, error) {
	if devType != input.JoystickDevice {
		return DeviceConfig{}, fmt.Errorf("%w: %s", ErrUnsupportedDevice, devType)
	}

	for _, candidate := range []struct {
		configs ConfigMap
		id      input.InputID
	}{
		{c.User, id},
		{c.User, input.InputID{}}, // picking user default if exist
		{c.Factory, id},
		{c.Factory, input.InputID{}}, // picking default config
	} {
		cfg, ok := candidate.configs[candidate.id]
		if ok {
			return cfg, nil
		}
	}

	return DeviceConfig{}, fmt.Errorf("%w: %s", ErrNoConfig, id.String())
}

func LoadDeviceConfigs(root string) (DeviceConfigs, error) {
	cfg := DeviceConfigs{
		Factory: make(ConfigMap),
		User:    make(ConfigMap),
	}
	factory, user := Dirs(root)

	for _, pair := range []struct {
		root       string
		configMap  ConfigMap
		identifier string
	}{
		{factory, cfg.Factory, "factory"},
		{user, cfg.User, "user"},
	} {
		err := loadDirectory(pair.root, pair.identifier, pair.configMap)
		if err != nil {
			return cfg, fmt.Errorf("loading \"%s\" directory failed: %w", pair.root, err)
		}
	}
	return cfg, nil
}

// loadDirectory loads all yaml files of a directory, broken files are skipped with a warning
func loadDirectory(root, configType string, configMap ConfigMap) error {
	_, err := os.Stat(root)
	if errors.Is(err, os.ErrNotExist) {
		log.Info(fmt.Sprintf("config directory \"%s\" does not exist", root), logger.Debug)
		return nil
	}

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		name := strings.ToLower(entry.Name())
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			return nil
		}

		devCfg, err := readDeviceConfig(path, configType)
		if err != nil {
			log.Info(fmt.Sprintf("device config %s (%s) load failed: %s", name, configType, err), logger.Warning)
			return nil
		}
		if prev, ok := configMap[devCfg.Config.ID]; ok {
			log.Info(fmt.Sprintf("device config %s overrides %s", path, prev.ConfigFile), logger.Warning)
		}
		configMap[devCfg.Config.ID] = devCfg
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk failed: %w", err)
	}
	return nil
}
