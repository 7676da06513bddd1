package display

import (
	"fmt"
	"strings"
)

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
var heart, target = '❤', '◎'

// Stats is a single sample of tracker activity
type Stats struct {
	Sources       int
	Controllers   int
	Notifications uint64 // since previous sample
}

// Graph keeps history of notification rate, oldest sample first
type Graph struct {
	samples []uint64
	pointer int
}

func NewGraph(width int) *Graph {
	return &Graph{samples: make([]uint64, width)}
}

func (g *Graph) Add(v uint64) {
	g.samples[g.pointer] = v
	g.pointer = (g.pointer + 1) % len(g.samples)
}

func (g *Graph) String() string {
	var max uint64 = 8
	for _, v := range g.samples {
		if v > max {
			max = v
		}
	}

	var sb strings.Builder
	for i := range g.samples {
		v := g.samples[(g.pointer+i)%len(g.samples)]
		if v == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(blocks[int(float64(v)/(float64(max)+1)*float64(len(blocks)))])
	}
	return sb.String()
}

// line aligns value to the right edge of the screen
func line(width int, label string, value interface{}) string {
	s := fmt.Sprintf("%s%*v", label, width-len(label), value)
	if len(s) > width {
		return s[:width]
	}
	return s
}

// StatusLines renders tracker status, rows beyond the screen size are left empty
func StatusLines(width, rows int, st Stats, graph *Graph) [4]string {
	lines := [4]string{
		line(width, "sources:", st.Sources),
		line(width, "controllers:", st.Controllers),
		line(width, "events:", st.Notifications),
		graph.String(),
	}
	if rows == 2 {
		lines[1] = line(width, "events:", st.Notifications)
		lines[2], lines[3] = "", ""
	}
	return lines
}

func center(width int, s string) string {
	n := len([]rune(s))
	if n >= width {
		return string([]rune(s)[:width])
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// ExitLines returns configured exit message or the default one
func ExitLines(cfg ScreenConfig, seen uint64) [4]string {
	width, _ := cfg.Size()
	var lines [4]string
	if cfg.HaveExitMessage() {
		for i, msg := range cfg.ExitMessage {
			lines[i] = center(width, msg)
		}
		return lines
	}
	lines[0] = center(width, "")
	lines[1] = center(width, "tracking finished")
	lines[2] = center(width, fmt.Sprintf("%c sources: %d %c", target, seen, heart))
	lines[3] = center(width, "")
	return lines
}
