package utils

import (
	"fmt"
	"math"
	"sync"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

type output[T any] struct {
	id   int64
	name string
	c    chan T
}

// DynamicFanOut copies every input value to all currently spawned outputs in spawn order.
// Slow output consumer blocks the rest of them. Outputs are closed when the input channel is closed.
type DynamicFanOut[T any] struct {
	input    <-chan T
	inputCap int

	mutex   sync.Mutex
	closed  bool
	outputs []output[T]
	done    chan struct{}
}

func NewDynamicFanOut[T any](input <-chan T) *DynamicFanOut[T] {
	f := &DynamicFanOut[T]{
		input:    input,
		inputCap: cap(input),
		done:     make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *DynamicFanOut[T]) deliver(v T) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for _, o := range f.outputs {
		select {
		case o.c <- v:
		default:
			log.Info("fan-out output is full, waiting for consumer", zap.String("output", o.name), logger.Debug)
			o.c <- v
		}
	}
}

func (f *DynamicFanOut[T]) run() {
	defer close(f.done)
	for v := range f.input {
		f.deliver(v)
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.closed = true
	for _, o := range f.outputs {
		close(o.c)
	}
	f.outputs = nil
}

// Done is closed when all outputs are closed after the input channel was closed
func (f *DynamicFanOut[T]) Done() <-chan struct{} {
	return f.done
}

// SpawnOutput creates new named output channel and its ID for later despawning.
// Output has size of input channel, at least 1. IDs of despawned outputs are reused.
func (f *DynamicFanOut[T]) SpawnOutput(name string) (int64, <-chan T, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.closed {
		return 0, nil, fmt.Errorf("input channel is closed")
	}

	ocap := f.inputCap
	if ocap == 0 {
		ocap = 1
	}

	used := make(map[int64]bool, len(f.outputs))
	for _, o := range f.outputs {
		used[o.id] = true
	}
	var id int64
	for used[id] {
		if id == math.MaxInt64 {
			return 0, nil, fmt.Errorf("no space available")
		}
		id++
	}

	o := output[T]{id: id, name: name, c: make(chan T, ocap)}
	f.outputs = append(f.outputs, o)
	return id, o.c, nil
}

// DespawnOutput removes output channel with given ID
func (f *DynamicFanOut[T]) DespawnOutput(id int64) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for i, o := range f.outputs {
		if o.id != id {
			continue
		}
		close(o.c)
		f.outputs = append(f.outputs[:i], f.outputs[i+1:]...)
		return nil
	}
	return fmt.Errorf("output id %d not found", id)
}

// Outputs returns names of active outputs in spawn order
func (f *DynamicFanOut[T]) Outputs() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	var names = make([]string, 0, len(f.outputs))
	for _, o := range f.outputs {
		names = append(names, o.name)
	}
	return names
}
