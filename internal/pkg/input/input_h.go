package input

// Bus types and force feedback constants from linux/input.h

const (
	BUS_PCI       = 0x01
	BUS_ISAPNP    = 0x02
	BUS_USB       = 0x03
	BUS_HIL       = 0x04
	BUS_BLUETOOTH = 0x05
	BUS_VIRTUAL   = 0x06

	BUS_ISA         = 0x10
	BUS_I8042       = 0x11
	BUS_XTKBD       = 0x12
	BUS_RS232       = 0x13
	BUS_GAMEPORT    = 0x14
	BUS_PARPORT     = 0x15
	BUS_AMIGA       = 0x16
	BUS_ADB         = 0x17
	BUS_I2C         = 0x18
	BUS_HOST        = 0x19
	BUS_GSC         = 0x1A
	BUS_ATARI       = 0x1B
	BUS_SPI         = 0x1C
	BUS_RMI         = 0x1D
	BUS_CEC         = 0x1E
	BUS_INTEL_ISHTP = 0x1F

	// Values describing the status of a force-feedback effect

	FF_STATUS_STOPPED = 0x00
	FF_STATUS_PLAYING = 0x01

	// Force feedback effect types

	FF_RUMBLE   = 0x50
	FF_PERIODIC = 0x51
	FF_CONSTANT = 0x52

	// Set ff device properties

	FF_GAIN       = 0x60
	FF_AUTOCENTER = 0x61
)

var busNames = map[uint16]string{
	BUS_PCI:       "PCI",
	BUS_USB:       "USB",
	BUS_BLUETOOTH: "Bluetooth",
	BUS_VIRTUAL:   "Virtual",
	BUS_I8042:     "i8042",
	BUS_RS232:     "RS232",
	BUS_GAMEPORT:  "Gameport",
	BUS_I2C:       "I2C",
	BUS_HOST:      "Host",
	BUS_SPI:       "SPI",
}

// BusName returns a human friendly name of the bus type, hex value for the less common ones
func BusName(bus uint16) string {
	name, ok := busNames[bus]
	if !ok {
		return hex16(bus)
	}
	return name
}
