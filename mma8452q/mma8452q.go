// Package mma8452q drives the MMA8452Q triaxial accelerometer over I2C.
// It reads 12-bit acceleration triples and decodes the chip's tap and
// portrait/landscape detection engines.
package mma8452q

import (
	"errors"
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

var (
	// ErrNotDevice throws an error when the device identity register does
	// not match an MMA8452Q signature (0x2A).
	ErrNotDevice error = errors.New("mma8452q: WHO_AM_I does not match (0x2A)")
)

// Device defines an MMA8452Q device.
type Device struct {
	dev *i2c.Dev
	bus i2c.BusCloser

	// closeBus is false when the bus is borrowed through NewWithBus and
	// its owner is responsible for closing it.
	closeBus bool

	// scale is the configured full-scale range in g.
	scale int
}

// New returns a new MMA8452Q device. By default, this configures the
// accelerometer for a full-scale range of 2g at 800 samples/s, with
// portrait/landscape detection and z-axis tap detection at 0.5g.
//
// Argument "busName" can be used to specify the exact bus to use ("/dev/i2c-2", "I2C2", "2").
// Argument "addr" can be used to specify alternative address if default (0x1C) is unavailable and changed.
// If "busName" argument is specified as an empty string "" the first available bus will be used.
func New(busName string, addr uint16, opts ...Option) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("mma8452q: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("mma8452q: could not open I2C bus: %w", err)
	}

	d, err := NewWithBus(bus, addr, opts...)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.closeBus = true

	return d, nil
}

// NewWithBus returns a new MMA8452Q device on an already opened bus. The
// bus stays open on failure and is not closed by Close, so a single bus
// can be shared between devices.
func NewWithBus(bus i2c.BusCloser, addr uint16, opts ...Option) (*Device, error) {
	if addr == 0 {
		addr = Addr
	}

	d := &Device{
		dev:   &i2c.Dev{Addr: addr, Bus: bus},
		bus:   bus,
		scale: 2,
	}

	id, err := d.Read(WhoAmI)
	if err != nil {
		return nil, fmt.Errorf("mma8452q: could not get device ID: %w", err)
	}
	if id != DevID {
		return nil, ErrNotDevice
	}

	if _, err := d.Options(
		Scale(2),
		DataRate(ODR800),
		OrientationDetect(),
		TapDetect(tapDisabled, tapDisabled, 0x08),
	); err != nil {
		return nil, fmt.Errorf("mma8452q: could not initialize device: %w", err)
	}
	if _, err := d.Options(opts...); err != nil {
		return nil, fmt.Errorf("mma8452q: could not configure device: %w", err)
	}

	return d, nil
}

// Close puts the device into standby and cleans after itself.
func (d *Device) Close() {
	d.standby()
	if d.closeBus {
		d.bus.Close()
	}
}

// Read reads a single byte from a register.
func (d *Device) Read(reg byte) (byte, error) {
	b := make([]byte, 1)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return 0, fmt.Errorf("mma8452q: could not read byte: %w", err)
	}

	return b[0], nil
}

// ReadBytes reads n bytes starting at a register. The register address
// auto-increments on the chip.
func (d *Device) ReadBytes(reg byte, n int) ([]byte, error) {
	b := make([]byte, n)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return nil, fmt.Errorf("mma8452q: could not read %d bytes: %w", n, err)
	}

	return b, nil
}

// Write writes a byte to a register.
func (d *Device) Write(reg, data byte) error {
	n, err := d.dev.Write([]byte{reg, data})
	if err != nil {
		return err
	}
	n-- // remove register write
	if n != 1 {
		return fmt.Errorf("write: wrong number of bytes written: want %d, got %d", 1, n)
	}

	return nil
}

// Available reports whether a new acceleration triple is ready to read.
func (d *Device) Available() (bool, error) {
	status, err := d.Read(Status)
	if err != nil {
		return false, fmt.Errorf("mma8452q: could not read status: %w", err)
	}

	return status&dataReady != 0, nil
}

// Raw returns the signed 12-bit acceleration counts of the three axes.
func (d *Device) Raw() (x, y, z int16, err error) {
	b, err := d.ReadBytes(OutXMSB, 6)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("mma8452q: could not read acceleration: %w", err)
	}

	x = int16(uint16(b[0])<<8|uint16(b[1])) >> 4
	y = int16(uint16(b[2])<<8|uint16(b[3])) >> 4
	z = int16(uint16(b[4])<<8|uint16(b[5])) >> 4

	return x, y, z, nil
}

// Acceleration returns the acceleration of the three axes in g, scaled
// to the configured full-scale range.
func (d *Device) Acceleration() (cx, cy, cz float64, err error) {
	x, y, z, err := d.Raw()
	if err != nil {
		return 0, 0, 0, err
	}

	f := float64(d.scale) / 2048
	return float64(x) * f, float64(y) * f, float64(z) * f, nil
}

// Tap returns the low bits of the pulse source register when a tap was
// detected since the last read, or zero. Bit 3 distinguishes a double
// tap from a single one.
func (d *Device) Tap() (byte, error) {
	src, err := d.Read(PulseSrc)
	if err != nil {
		return 0, fmt.Errorf("mma8452q: could not read tap source: %w", err)
	}
	if src&pulseActive == 0 {
		return 0, nil
	}

	return src &^ pulseActive, nil
}

// An Orientation is a decoded portrait/landscape state.
type Orientation byte

// Possible orientations. Lockout means the board is too flat to call.
const (
	PortraitUp Orientation = iota
	PortraitDown
	LandscapeRight
	LandscapeLeft
	Lockout Orientation = 0x40
)

func (o Orientation) String() string {
	switch o {
	case PortraitUp:
		return "portrait up"
	case PortraitDown:
		return "portrait down"
	case LandscapeRight:
		return "landscape right"
	case LandscapeLeft:
		return "landscape left"
	case Lockout:
		return "flat"
	}
	return "unknown"
}

// Orientation returns the portrait/landscape state of the board.
func (d *Device) Orientation() (Orientation, error) {
	pl, err := d.Read(PLStatus)
	if err != nil {
		return 0, fmt.Errorf("mma8452q: could not read orientation: %w", err)
	}
	if pl&lockoutBit != 0 {
		return Lockout, nil
	}

	return Orientation((pl & plMask) >> 1), nil
}

// standby stops the detection engines. The chip only accepts
// configuration writes in standby.
func (d *Device) standby() error {
	_, err := d.config(CtrlReg1, activeMask, 0)

	return err
}

// active starts data acquisition and the detection engines.
func (d *Device) active() error {
	_, err := d.config(CtrlReg1, activeMask, activeCtl)

	return err
}

func (d *Device) isActive() (bool, error) {
	mode, err := d.Read(SysMod)
	if err != nil {
		return false, err
	}

	// Wake and sleep both count as active.
	return mode&sysModMask != 0, nil
}
