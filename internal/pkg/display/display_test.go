package display

import (
	"testing"

	"github.com/d2r2/go-hd44780"
	"github.com/stretchr/testify/assert"
)

func TestGraph(t *testing.T) {
	g := NewGraph(4)
	assert.Equal(t, "    ", g.String())

	g.Add(8)
	g.Add(0)
	g.Add(4)
	assert.Equal(t, " █ ▄", g.String())

	g.Add(1)
	g.Add(2)
	assert.Equal(t, " ▄▁▂", g.String())
}

func TestStatusLines(t *testing.T) {
	g := NewGraph(20)
	lines := StatusLines(20, 4, Stats{Sources: 3, Controllers: 2, Notifications: 120}, g)
	assert.Equal(t, [4]string{
		"sources:           3",
		"controllers:       2",
		"events:          120",
		"                    ",
	}, lines)

	lines = StatusLines(16, 2, Stats{Sources: 1, Notifications: 5}, NewGraph(16))
	assert.Equal(t, [4]string{
		"sources:       1",
		"events:        5",
	}, lines)
}

func TestExitLines(t *testing.T) {
	cfg := ScreenConfig{LcdType: hd44780.LCD_16x2}
	lines := ExitLines(cfg, 2)
	assert.Equal(t, "tracking finished"[:16], lines[1])
	assert.Equal(t, " ◎ sources: 2 ❤ ", lines[2])

	cfg.ExitMessage = [4]string{"bye"}
	lines = ExitLines(cfg, 2)
	assert.Equal(t, "      bye       ", lines[0])
	assert.Equal(t, "                ", lines[1])
}

func TestReplaceCharsForDisplay(t *testing.T) {
	assert.Equal(t, "a\x00\x07?", replaceCharsForDisplay("a▁█é", conversionMap))
	assert.Equal(t, "\x00 \x01", replaceCharsForDisplay("❤ ◎", exitConversionMap))
}

func TestParseLcdType(t *testing.T) {
	lcdType, err := ParseLcdType("16x2")
	assert.Equal(t, nil, err)
	assert.Equal(t, hd44780.LCD_16x2, lcdType)

	_, err = ParseLcdType("8x1")
	assert.NotEqual(t, nil, err)
}
