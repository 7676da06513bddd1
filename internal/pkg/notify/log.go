package notify

import (
	"fmt"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// LogSink writes every notification into the log.
// Appearance and button changes go with logger.Notify, continuous readings with logger.Changes.
type LogSink struct {
	log *zap.Logger
}

// NewLogSink returns a sink logging with a given logger, package logger is used for nil
func NewLogSink(l *zap.Logger) *LogSink {
	if l == nil {
		l = log
	}
	return &LogSink{log: l}
}

func (s *LogSink) write(n Notification, level zap.Field) {
	s.log.Info(n.String(), level, zap.Uint32("source_id", uint32(n.Source)), zap.String("type", n.Type.String()))
}

func (s *LogSink) SourceDetected(src source.InputSource, id source.ID) {
	kind, _ := src.SourceKind(id)
	s.write(Notification{Type: SourceDetected, Source: id, Kind: kind}, logger.Notify)
	s.log.Info(fmt.Sprintf("[%d] supports: %s", id, src.SupportedCapabilities(id)), logger.Debug)
}

func (s *LogSink) SourceLost(_ source.InputSource, id source.ID) {
	s.write(Notification{Type: SourceLost, Source: id}, logger.Notify)
}

func (s *LogSink) SourcePositionChanged(_ source.InputSource, id source.ID, pointer, grip mgl32.Vec3) {
	s.write(Notification{Type: PositionChanged, Source: id, Pointer: pointer, Grip: grip}, logger.Changes)
}

func (s *LogSink) SourceRotationChanged(_ source.InputSource, id source.ID, pointer, grip mgl32.Quat) {
	s.write(Notification{Type: RotationChanged, Source: id, PointerRotation: pointer, GripRotation: grip}, logger.Changes)
}

func (s *LogSink) InputPositionChanged(_ source.InputSource, id source.ID, press source.PressKind, position mgl32.Vec2) {
	s.write(Notification{Type: InputPositionChanged, Source: id, Press: press, Position: position}, logger.Changes)
}

func (s *LogSink) TouchpadTouched(_ source.InputSource, id source.ID) {
	s.write(Notification{Type: TouchpadTouched, Source: id}, logger.Notify)
}

func (s *LogSink) TouchpadReleased(_ source.InputSource, id source.ID) {
	s.write(Notification{Type: TouchpadReleased, Source: id}, logger.Notify)
}

func (s *LogSink) SelectPressedAmountChanged(_ source.InputSource, id source.ID, amount float64) {
	s.write(Notification{Type: SelectAmountChanged, Source: id, Amount: amount}, logger.Changes)
}

func (s *LogSink) SourceDown(_ source.InputSource, id source.ID, press source.PressKind) {
	s.write(Notification{Type: SourceDown, Source: id, Press: press}, logger.Notify)
}

func (s *LogSink) SourceUp(_ source.InputSource, id source.ID, press source.PressKind) {
	s.write(Notification{Type: SourceUp, Source: id, Press: press}, logger.Notify)
}
