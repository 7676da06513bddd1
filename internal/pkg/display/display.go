package display

import (
	"fmt"
	"sync"

	device "github.com/d2r2/go-hd44780"
	"github.com/d2r2/go-i2c"
	shittyLogger "github.com/d2r2/go-logger"
	"github.com/gethiox/sourcetracker/internal/pkg/logger"
)

var log = logger.GetLogger()

func getDisplay(addr uint8, bus int, lcdType device.LcdType) (*device.Lcd, *i2c.I2C, error) {
	shittyLogger.ChangePackageLogLevel("i2c", shittyLogger.InfoLevel)

	lcdRaw, err := i2c.NewI2C(addr, bus)
	if err != nil {
		return nil, nil, err
	}

	lcd, err := device.NewLcd(lcdRaw, lcdType)
	if err != nil {
		return nil, lcdRaw, err
	}

	return lcd, lcdRaw, nil
}

func loadCustomCharacters(lcd *device.Lcd, characters [][]byte) {
	for i, char := range characters {
		var location = uint8(i) & 0x7

		lcd.Command(device.CMD_CGRAM_Set | (location << 3))
		lcd.Write(char)
	}
}

var barChars = [][]byte{
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1F}, // "▁"
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1F, 0x1F}, // "▂"
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x1F, 0x1F, 0x1F}, // "▃"
	{0x00, 0x00, 0x00, 0x00, 0x1F, 0x1F, 0x1F, 0x1F}, // "▄"
	{0x00, 0x00, 0x00, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F}, // "▅"
	{0x00, 0x00, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F}, // "▆"
	{0x00, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F}, // "▇"
	{0x1F, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F}, // "█"
}

// exitChars replace bar characters for the exit screen
var exitChars = [][]byte{
	{0x00, 0x00, 0x0A, 0x1F, 0x1F, 0x0E, 0x04, 0x00}, // "❤"
	{0x00, 0x0E, 0x11, 0x15, 0x11, 0x0E, 0x00, 0x00}, // "◎"
}

var conversionMap = map[rune]byte{
	'▁': 0,
	'▂': 1,
	'▃': 2,
	'▄': 3,
	'▅': 4,
	'▆': 5,
	'▇': 6,
	'█': 7,
}

var exitConversionMap = map[rune]byte{
	'❤': 0,
	'◎': 1,
}

// replaceCharsForDisplay swaps characters present in the custom character set with their CGRAM locations
func replaceCharsForDisplay(s string, conversion map[rune]byte) string {
	var b = make([]byte, 0, len(s))
	for _, r := range s {
		n, ok := conversion[r]
		switch {
		case ok:
			b = append(b, n)
		case r < 0x80:
			b = append(b, byte(r))
		default:
			b = append(b, '?')
		}
	}
	return string(b)
}

type Frame struct {
	Lines [4]string
	Last  bool // exit message, loads different custom character set
}

// HandleDisplay writes frames to the screen until the channel is closed
func HandleDisplay(wg *sync.WaitGroup, cfg ScreenConfig, frames <-chan Frame) {
	defer wg.Done()
	lcd, bus, err := getDisplay(cfg.Address, cfg.Bus, cfg.LcdType)
	if err != nil {
		log.Info(fmt.Sprintf("display initialization failed: %v", err), logger.Warning)
		if bus != nil {
			bus.Close()
		}
		for range frames {
		}
		return
	}
	defer bus.Close()

	_, rows := cfg.Size()

	loadCustomCharacters(lcd, barChars)
	lcd.BacklightOn()
	lcd.Clear()

	for frame := range frames {
		conversion := conversionMap
		if frame.Last {
			loadCustomCharacters(lcd, exitChars)
			lcd.Clear()
			conversion = exitConversionMap
		}
		for i := 0; i < rows; i++ {
			lcd.SetPosition(i, 0)
			lcd.Write([]byte(replaceCharsForDisplay(frame.Lines[i], conversion)))
		}
	}
	log.Info("display closed", logger.Debug)
}
