package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Messages receives every encoded log entry, one JSON object per message.
// It has to be drained by the application, otherwise logging blocks.
var Messages = make(chan []byte, 128)

const (
	ErrorLvl   = 0
	WarningLvl = 1
	InfoLvl    = 2
	NotifyLvl  = 3 // source appearance, button down/up
	ChangesLvl = 4 // position, rotation, axis and touch changes

	DebugLvl = 378
)

var (
	Error   = zap.Int("level", ErrorLvl)
	Warning = zap.Int("level", WarningLvl)
	Info    = zap.Int("level", InfoLvl)
	Notify  = zap.Int("level", NotifyLvl)
	Changes = zap.Int("level", ChangesLvl)

	Debug = zap.Int("level", DebugLvl)
)

type chanWriter struct {
	sync.Mutex
	messages chan<- []byte
}

func (w *chanWriter) Write(p []byte) (n int, err error) {
	w.Lock()
	var newSlice = make([]byte, len(p))
	copy(newSlice, p)
	w.messages <- newSlice
	w.Unlock()
	return len(p), nil
}

func (w *chanWriter) Sync() error {
	return nil
}

func newLogger(messages chan<- []byte) *zap.Logger {
	writer := &chanWriter{messages: messages}
	cfg := zap.NewProductionEncoderConfig()
	cfg.SkipLineEnding = true
	cfg.EncodeTime = zapcore.EpochNanosTimeEncoder
	cfg.LevelKey = ""
	encoder := zapcore.NewJSONEncoder(cfg)

	return zap.New(
		zapcore.NewCore(encoder, zapcore.Lock(writer), zap.DebugLevel),
		zap.AddCaller(),
	)
}

// GetLogger returns a logger writing into Messages.
// Severity is not taken from zap levels, every entry carries one of the level fields instead.
func GetLogger() *zap.Logger {
	return newLogger(Messages)
}

// GetTestLogger returns a logger writing into the given channel, handy for asserting log output.
func GetTestLogger(messages chan<- []byte) *zap.Logger {
	return newLogger(messages)
}
