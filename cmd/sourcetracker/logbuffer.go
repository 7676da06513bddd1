package main

import "sync"

// logBuffer keeps the most recent log messages for redrawing the log view
type logBuffer struct {
	mutex    sync.Mutex
	messages [][]byte
	next     int
	full     bool
}

func newLogBuffer(size int) *logBuffer {
	if size < 1 {
		size = 1
	}
	return &logBuffer{messages: make([][]byte, size)}
}

func (b *logBuffer) WriteMessage(msg []byte) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.messages[b.next] = msg
	b.next = (b.next + 1) % len(b.messages)
	if b.next == 0 {
		b.full = true
	}
}

// ReadLastMessages returns up to n latest messages, the oldest one first
func (b *logBuffer) ReadLastMessages(n int) [][]byte {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	count := b.next
	if b.full {
		count = len(b.messages)
	}
	if n > count {
		n = count
	}
	if n <= 0 {
		return nil
	}

	var out = make([][]byte, 0, n)
	start := b.next - n
	if start < 0 {
		start += len(b.messages)
	}
	for i := 0; i < n; i++ {
		out = append(out, b.messages[(start+i)%len(b.messages)])
	}
	return out
}
