package notify

import (
	"sync/atomic"

	"github.com/gethiox/sourcetracker/internal/pkg/source"
	"github.com/go-gl/mathgl/mgl32"
)

// ChannelSink turns sink calls into Notification values.
// Sending never blocks the tracker, notifications are dropped when the channel is full.
type ChannelSink struct {
	notifications chan Notification
	dropped       uint64
}

func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{notifications: make(chan Notification, size)}
}

func (c *ChannelSink) Notifications() <-chan Notification {
	return c.notifications
}

// Dropped returns the number of notifications lost due to a full channel
func (c *ChannelSink) Dropped() uint64 {
	return atomic.LoadUint64(&c.dropped)
}

// Close closes the notification channel, the sink must not be used afterwards
func (c *ChannelSink) Close() {
	close(c.notifications)
}

func (c *ChannelSink) send(n Notification) {
	select {
	case c.notifications <- n:
	default:
		atomic.AddUint64(&c.dropped, 1)
	}
}

func (c *ChannelSink) SourceDetected(src source.InputSource, id source.ID) {
	kind, _ := src.SourceKind(id)
	c.send(Notification{Type: SourceDetected, Source: id, Kind: kind})
}

func (c *ChannelSink) SourceLost(_ source.InputSource, id source.ID) {
	c.send(Notification{Type: SourceLost, Source: id})
}

func (c *ChannelSink) SourcePositionChanged(_ source.InputSource, id source.ID, pointer, grip mgl32.Vec3) {
	c.send(Notification{Type: PositionChanged, Source: id, Pointer: pointer, Grip: grip})
}

func (c *ChannelSink) SourceRotationChanged(_ source.InputSource, id source.ID, pointer, grip mgl32.Quat) {
	c.send(Notification{Type: RotationChanged, Source: id, PointerRotation: pointer, GripRotation: grip})
}

func (c *ChannelSink) InputPositionChanged(_ source.InputSource, id source.ID, press source.PressKind, position mgl32.Vec2) {
	c.send(Notification{Type: InputPositionChanged, Source: id, Press: press, Position: position})
}

func (c *ChannelSink) TouchpadTouched(_ source.InputSource, id source.ID) {
	c.send(Notification{Type: TouchpadTouched, Source: id})
}

func (c *ChannelSink) TouchpadReleased(_ source.InputSource, id source.ID) {
	c.send(Notification{Type: TouchpadReleased, Source: id})
}

func (c *ChannelSink) SelectPressedAmountChanged(_ source.InputSource, id source.ID, amount float64) {
	c.send(Notification{Type: SelectAmountChanged, Source: id, Amount: amount})
}

func (c *ChannelSink) SourceDown(_ source.InputSource, id source.ID, press source.PressKind) {
	c.send(Notification{Type: SourceDown, Source: id, Press: press})
}

func (c *ChannelSink) SourceUp(_ source.InputSource, id source.ID, press source.PressKind) {
	c.send(Notification{Type: SourceUp, Source: id, Press: press})
}
