package controller

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"
	"unsafe"

	"github.com/gethiox/sourcetracker/internal/pkg/input"
	"github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"
)

// struct ff_effect union has the size of ff_periodic_effect: 32 bytes with 64-bit pointers, 28 bytes otherwise
const ffUnionWords = 4 + 3*(1-unsafe.Sizeof(uintptr(0))/8)

// ffEffect mirrors struct ff_effect from linux/input.h
type ffEffect struct {
	Type      uint16
	ID        int16
	Direction uint16
	Trigger   struct{ Button, Interval uint16 }
	Replay    struct{ Length, Delay uint16 }
	U         [ffUnionWords]uintptr
}

// setRumble fills the union as struct ff_rumble_effect
func (e *ffEffect) setRumble(strong, weak uint16) {
	magnitudes := (*[2]uint16)(unsafe.Pointer(&e.U[0]))
	magnitudes[0] = strong
	magnitudes[1] = weak
}

func iow(typ, nr, size uintptr) uintptr {
	return 1<<30 | size<<16 | typ<<8 | nr
}

var (
	eviocsff  = iow('E', 0x80, unsafe.Sizeof(ffEffect{}))
	eviocrmff = iow('E', 0x81, unsafe.Sizeof(int32(0)))
)

// Rumble plays force feedback rumble effect on a device handler
type Rumble struct {
	mutex sync.Mutex

	dev    io.WriteCloser
	upload func(effect *ffEffect) error
	erase  func(id int16) error

	effect ffEffect
	closed bool
}

// OpenRumble opens event handler for writing force feedback effects
func OpenRumble(path string) (*Rumble, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening force feedback handler failed: %w", err)
	}
	fd := f.Fd()

	return newRumble(f,
		func(effect *ffEffect) error {
			_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, eviocsff, uintptr(unsafe.Pointer(effect)))
			if errno != 0 {
				return errno
			}
			return nil
		},
		func(id int16) error {
			return unix.IoctlSetInt(int(fd), uint(eviocrmff), int(id))
		},
	), nil
}

func newRumble(dev io.WriteCloser, upload func(*ffEffect) error, erase func(int16) error) *Rumble {
	r := &Rumble{dev: dev, upload: upload, erase: erase}
	r.effect.Type = input.FF_RUMBLE
	r.effect.ID = -1
	return r
}

func magnitude(intensity float32) uint16 {
	switch {
	case intensity <= 0:
		return 0
	case intensity >= 1:
		return math.MaxUint16
	}
	return uint16(intensity * math.MaxUint16)
}

// replayLength converts duration to milliseconds, zero means infinite playback
func replayLength(duration time.Duration) uint16 {
	ms := duration.Milliseconds()
	switch {
	case ms <= 0:
		return 0
	case ms > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(ms)
}

func (r *Rumble) play(value int32) error {
	return binary.Write(r.dev, binary.LittleEndian, &evdev.InputEvent{
		Type:  evdev.EV_FF,
		Code:  evdev.EvCode(r.effect.ID),
		Value: value,
	})
}

func (r *Rumble) start(intensity float32, duration time.Duration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.closed {
		return fmt.Errorf("rumble closed")
	}

	// strong motor takes the whole intensity, weak one is kept lower for a softer feel
	m := magnitude(intensity)
	r.effect.setRumble(m, m/2)
	r.effect.Replay.Length = replayLength(duration)

	err := r.upload(&r.effect)
	if err != nil {
		return fmt.Errorf("uploading effect failed: %w", err)
	}
	err = r.play(1)
	if err != nil {
		return fmt.Errorf("playing effect failed: %w", err)
	}
	return nil
}

func (r *Rumble) StartHaptics(intensity float32) error {
	return r.start(intensity, 0)
}

func (r *Rumble) StartHapticsFor(intensity float32, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	return r.start(intensity, duration)
}

func (r *Rumble) StopHaptics() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.closed || r.effect.ID < 0 {
		return nil
	}
	err := r.play(0)
	if err != nil {
		return fmt.Errorf("stopping effect failed: %w", err)
	}
	return nil
}

// Close removes uploaded effect and closes the handler
func (r *Rumble) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	if r.effect.ID >= 0 {
		_ = r.erase(r.effect.ID)
	}
	return r.dev.Close()
}
