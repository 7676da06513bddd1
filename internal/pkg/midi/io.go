package midi

import (
	"fmt"
	"os"
	"strings"
)

const devicesDir = "/dev/snd"

// DetectDevices lists raw midi devices provided by ALSA
func DetectDevices() ([]IODevice, error) {
	return detectDevices(devicesDir)
}

func detectDevices(dir string) ([]IODevice, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s failed: %w", dir, err)
	}

	var devices = make([]IODevice, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), "midi") {
			devices = append(devices, IODevice{path: fmt.Sprintf("%s/%s", dir, entry.Name())})
		}
	}
	return devices, nil
}

type IODevice struct {
	path string
}

func NewIODevice(path string) IODevice {
	return IODevice{path: path}
}

func (d *IODevice) Path() string {
	return d.path
}

func (d *IODevice) Open() (*os.File, error) {
	return os.OpenFile(d.path, os.O_WRONLY|os.O_SYNC, 0)
}
