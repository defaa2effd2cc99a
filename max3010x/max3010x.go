package max3010x

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

var (
	// ErrNotDevice throws an error when the device part ID does not match a
	// MAX3010x signature (0x15).
	ErrNotDevice error = errors.New("max3010x: part ID does not match (0x15)")
	// ErrNoData throws an error when the sensor does not produce a new
	// sample within the configured wait window.
	ErrNoData error = errors.New("max3010x: no new data")
)

// Device defines a MAX3010x device.
type Device struct {
	rd  *i2c.Dev
	wr  *i2c.Dev
	bus i2c.BusCloser

	// closeBus is false when the bus is borrowed through NewWithBus and
	// its owner is responsible for closing it.
	closeBus bool

	channels int
	transfer int
	wait     time.Duration

	sense *sense
	ready readyLatch
	pin   gpio.PinIn
	done  chan struct{}
}

// New returns a new MAX3010x device. By default, this configures the sensor
// for red and IR acquisition with 4-sample averaging, FIFO rollover, a
// sample rate of 100 samples/s, a pulse width of 411us and an LED pulse
// amplitude of 6.2mA.
//
// Argument "busName" can be used to specify the exact bus to use ("/dev/i2c-2", "I2C2", "2").
// Argument "addr" can be used to specify alternative address if default (0x57) is unavailable and changed.
// If "busName" argument is specified as an empty string "" the first available bus will be used.
func New(busName string, addr uint16, opts ...Option) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("max3010x: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("max3010x: could not open I2C bus: %w", err)
	}

	d, err := NewWithBus(bus, addr, opts...)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.closeBus = true

	return d, nil
}

// NewWithBus returns a new MAX3010x device on an already opened bus. The
// bus stays open on failure and is not closed by Close, so a single bus
// can be shared between devices.
func NewWithBus(bus i2c.BusCloser, addr uint16, opts ...Option) (*Device, error) {
	if addr == 0 {
		addr = Addr
	}

	d := &Device{
		rd:       &i2c.Dev{Addr: addr, Bus: bus},
		wr:       &i2c.Dev{Addr: addr, Bus: bus},
		bus:      bus,
		channels: 2,
		transfer: defaultTransfer,
		wait:     250 * time.Millisecond,
		sense:    newSense(defaultStorage),
	}

	part, err := d.Read(RegPartID)
	if err != nil {
		return nil, fmt.Errorf("max3010x: could not get part ID: %w", err)
	}
	if part != PartID {
		return nil, ErrNotDevice
	}

	if err := d.Reset(); err != nil {
		return nil, fmt.Errorf("max3010x: could not reset device: %w", err)
	}
	if _, err := d.Options(
		SampleAveraging(Avg4),
		FIFORollover(true),
		LEDMode(2),
		ADCRange(ADC4096),
		SampleRate(SR100),
		PulseWidth(PW411),
		RedPulseAmp(6.2),
		IRPulseAmp(6.2),
		ProxPulseAmp(6.2),
		InterruptEnable(NewFIFOData),
		AlmostFullValue(0),
	); err != nil {
		return nil, fmt.Errorf("max3010x: could not initialize device: %w", err)
	}
	if _, err := d.Options(opts...); err != nil {
		return nil, fmt.Errorf("max3010x: could not configure device: %w", err)
	}
	if err := d.ClearFIFO(); err != nil {
		return nil, fmt.Errorf("max3010x: could not initialize device: %w", err)
	}

	return d, nil
}

// Close closes the device and cleans after itself.
func (d *Device) Close() {
	if d.done != nil {
		close(d.done)
		d.done = nil
	}
	d.Shutdown()
	if d.closeBus {
		d.bus.Close()
	}
}

// RevID returns the revision ID of the device.
func (d *Device) RevID() (byte, error) {
	rev, err := d.Read(RegRevID)
	if err != nil {
		return 0, fmt.Errorf("max3010x: could not get revision ID: %w", err)
	}
	return rev, nil
}

// waitUntil polls a register until the masked flag reads as the wanted bit.
// The poll gives up silently after the configured wait window, matching the
// bounded best-effort waits of the chip's reset and temperature cycles.
func (d *Device) waitUntil(reg, flag byte, bit byte) error {
	if bit != 0 && bit != 1 {
		return fmt.Errorf("invalid bit %v, it should be 1 or 0", bit)
	}

	deadline := time.Now().Add(d.wait)
	for {
		state, err := d.Read(reg)
		if err != nil {
			return fmt.Errorf("could not wait for %v in %v to be %v: %w", flag, reg, bit, err)
		}
		switch bit {
		case 1:
			if state&flag != 0 {
				return nil
			}
		case 0:
			if state&flag == 0 {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
}

func (d *Device) tempEnable() error {
	if err := d.Write(TempCfg, TempEna); err != nil {
		return fmt.Errorf("max3010x: could not enable temperature: %w", err)
	}
	return nil
}

// Temperature returns the die temperature of the device in degrees Celsius.
func (d *Device) Temperature() (float64, error) {
	if err := d.tempEnable(); err != nil {
		return 0, err
	}
	if err := d.waitUntil(TempCfg, TempEna, 0); err != nil {
		return 0, err
	}

	i, err := d.Read(TempInt)
	if err != nil {
		return 0, fmt.Errorf("max3010x: could not read integer part of temperature: %w", err)
	}

	f, err := d.Read(TempFrac)
	if err != nil {
		return 0, fmt.Errorf("max3010x: could not read fractional part of temperature: %w", err)
	}

	return float64(int8(i)) + (float64(f) * 0.0625), nil
}

// InterruptStatus reads both interrupt status registers. Reading the
// registers clears the flags and releases the INT line.
func (d *Device) InterruptStatus() (s1, s2 byte, err error) {
	if s1, err = d.Read(IntStat1); err != nil {
		return 0, 0, fmt.Errorf("max3010x: could not read interrupt status 1: %w", err)
	}
	if s2, err = d.Read(IntStat2); err != nil {
		return 0, 0, fmt.Errorf("max3010x: could not read interrupt status 2: %w", err)
	}
	return s1, s2, nil
}

// Read reads a single byte from a register.
func (d *Device) Read(reg byte) (byte, error) {
	b := make([]byte, 1)
	if err := d.rd.Tx([]byte{reg}, b); err != nil {
		return 0, fmt.Errorf("max3010x: could not read byte: %w", err)
	}

	return b[0], nil
}

// ReadBytes reads n bytes from a register.
func (d *Device) ReadBytes(reg byte, n int) ([]byte, error) {
	b := make([]byte, n)
	if err := d.rd.Tx([]byte{reg}, b); err != nil {
		return nil, fmt.Errorf("max3010x: could not read %d bytes: %w", n, err)
	}

	return b, nil
}

// Write writes a byte to a register.
func (d *Device) Write(reg, data byte) error {
	n, err := d.wr.Write([]byte{reg, data})
	if err != nil {
		return err
	}
	n-- // remove register write
	if n != 1 {
		return fmt.Errorf("write: wrong number of bytes written: want %d, got %d", 1, n)
	}

	return nil
}

// Reset resets the device. All configurations, thresholds, and data registers
// are reset to their power-on state.
func (d *Device) Reset() error {
	if err := d.Write(ModeCfg, ResetControl); err != nil {
		return fmt.Errorf("max3010x: could not reset: %w", err)
	}
	if err := d.waitUntil(ModeCfg, ResetControl, 0); err != nil {
		return fmt.Errorf("max3010x: could not reset: %w", err)
	}

	return nil
}

// ClearFIFO zeroes the FIFO pointers and the overflow counter. The local
// store is left untouched.
func (d *Device) ClearFIFO() error {
	if err := d.Write(FIFOWrPtr, 0); err != nil {
		return fmt.Errorf("max3010x: could not clear FIFO: %w", err)
	}
	if err := d.Write(OvfCount, 0); err != nil {
		return fmt.Errorf("max3010x: could not clear FIFO: %w", err)
	}
	if err := d.Write(FIFORdPtr, 0); err != nil {
		return fmt.Errorf("max3010x: could not clear FIFO: %w", err)
	}

	return nil
}

// Shutdown sets the device into power-save mode.
func (d *Device) Shutdown() error {
	_, err := d.config(ModeCfg, shdnMask, modeSHDN)

	return err
}

// Startup wakes the device from power-save mode.
func (d *Device) Startup() error {
	_, err := d.config(ModeCfg, shdnMask, 0)

	return err
}
