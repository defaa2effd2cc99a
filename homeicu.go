// Package homeicu glues together the vital sign sensors of a remote
// patient monitor: a MAX3010x pulse oximeter streaming PPG samples and
// an optional MMA8452Q accelerometer for motion and tap detection. Both
// sensors share one I2C bus; the monitor polls them, packs the PPG
// stream into fixed-size frames and hands completed frames to the
// caller.
package homeicu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/5l1v3r1/homeicu/max3010x"
	"github.com/5l1v3r1/homeicu/mma8452q"
)

var (
	// ErrWrongDevice is thrown when trying to convert a sensor interface
	// to the underlying device struct and the device does not match.
	ErrWrongDevice = errors.New("wrong device")
)

// Monitor owns the sensors of one patient monitor.
type Monitor struct {
	oximeter oximeter
	motion   motion
	bus      i2c.BusCloser

	frame    *frame
	interval time.Duration
	hasInt   bool

	onFrame func([]byte)
	onTap   func(byte)
	onError func(error)

	busName   string
	addr      uint16
	motAddr   uint16
	intName   string
	powerName string
	frameSize int
}

type oximeter interface {
	Drain() (int, error)
	Available() int
	OldestIR() uint32
	NextSample()
	DataReady() bool
	ClearDataReady()
	InterruptStatus() (byte, byte, error)
	Temperature() (float64, error)
	Shutdown() error
	Startup() error
	Close()
}

type motion interface {
	Available() (bool, error)
	Tap() (byte, error)
	Close()
}

// New returns a new Monitor with both sensors configured on a shared
// bus. A missing accelerometer is tolerated: the monitor degrades to
// oximeter-only acquisition and HasMotion reports false.
func New(opts ...Option) (*Monitor, error) {
	m := &Monitor{
		interval:  20 * time.Millisecond,
		frameSize: defaultFrameSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.frameSize < 1 {
		return nil, fmt.Errorf("homeicu: invalid frame size %d: want at least 1", m.frameSize)
	}
	if m.interval <= 0 {
		return nil, fmt.Errorf("homeicu: invalid poll interval %v", m.interval)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("homeicu: could not initialize host: %w", err)
	}

	if m.powerName != "" {
		if err := powerCycle(m.powerName); err != nil {
			return nil, err
		}
	}

	bus, err := i2creg.Open(m.busName)
	if err != nil {
		return nil, fmt.Errorf("homeicu: could not open I2C bus: %w", err)
	}
	m.bus = bus

	var oxOpts []max3010x.Option
	if m.intName != "" {
		pin := gpioreg.ByName(m.intName)
		if pin == nil {
			bus.Close()
			return nil, fmt.Errorf("homeicu: could not find interrupt pin %q", m.intName)
		}
		oxOpts = append(oxOpts, max3010x.InterruptPin(pin))
		m.hasInt = true
	}

	ox, err := max3010x.NewWithBus(bus, m.addr, oxOpts...)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("homeicu: could not set up oximeter: %w", err)
	}
	m.oximeter = ox

	// The accelerometer is optional hardware. Board revisions without
	// one still monitor PPG.
	if mot, err := mma8452q.NewWithBus(bus, m.motAddr); err == nil {
		m.motion = mot
	} else if m.onError != nil {
		m.onError(fmt.Errorf("homeicu: could not set up accelerometer: %w", err))
	}

	m.frame = newFrame(m.frameSize)

	return m, nil
}

// powerCycle bounces the sensor power enable line to start the analog
// front end from a known state.
func powerCycle(name string) error {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return fmt.Errorf("homeicu: could not find power pin %q", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("homeicu: could not drive power pin: %w", err)
	}
	time.Sleep(500 * time.Millisecond)
	if err := pin.Out(gpio.High); err != nil {
		return fmt.Errorf("homeicu: could not drive power pin: %w", err)
	}
	time.Sleep(500 * time.Millisecond)

	return nil
}

// Close shuts down the sensors and releases the bus.
func (m *Monitor) Close() {
	m.oximeter.Close()
	if m.motion != nil {
		m.motion.Close()
	}
	m.bus.Close()
}

// HasMotion reports whether the accelerometer answered at setup.
func (m *Monitor) HasMotion() bool {
	return m.motion != nil
}

// Run polls the sensors until the context is canceled.
func (m *Monitor) Run(ctx context.Context) error {
	t := time.NewTicker(m.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			m.cycle()
		}
	}
}

// cycle is one poll pass: observe and clear the oximeter's data ready
// latch, drain the FIFO, move the backlog into the PPG frame and check
// the accelerometer for taps. Drain faults are reported and left for
// the next pass, which re-derives the backlog from the FIFO pointers.
func (m *Monitor) cycle() {
	if m.hasInt {
		if !m.oximeter.DataReady() {
			m.pollMotion()
			return
		}
		m.oximeter.ClearDataReady()
		// Reading the status registers releases the INT line.
		if _, _, err := m.oximeter.InterruptStatus(); err != nil {
			m.fail(err)
		}
	}

	if _, err := m.oximeter.Drain(); err != nil {
		m.fail(err)
	}
	for m.oximeter.Available() > 0 {
		b := ppgByte(m.oximeter.OldestIR())
		m.oximeter.NextSample()
		if full := m.frame.push(b); full != nil && m.onFrame != nil {
			m.onFrame(full)
		}
	}

	m.pollMotion()
}

func (m *Monitor) pollMotion() {
	if m.motion == nil || m.onTap == nil {
		return
	}
	ready, err := m.motion.Available()
	if err != nil {
		m.fail(err)
		return
	}
	if !ready {
		return
	}
	tap, err := m.motion.Tap()
	if err != nil {
		m.fail(err)
		return
	}
	if tap != 0 {
		m.onTap(tap)
	}
}

func (m *Monitor) fail(err error) {
	if m.onError != nil {
		m.onError(err)
	}
}

// Oximeter converts the monitor's oximeter to a *max3010x.Device to
// access low level functions. Check the package max3010x for detailed
// behavior.
func (m *Monitor) Oximeter() (*max3010x.Device, error) {
	device, ok := m.oximeter.(*max3010x.Device)
	if !ok {
		return nil, ErrWrongDevice
	}

	return device, nil
}

// Motion converts the monitor's accelerometer to a *mma8452q.Device to
// access low level functions. Check the package mma8452q for detailed
// behavior.
func (m *Monitor) Motion() (*mma8452q.Device, error) {
	device, ok := m.motion.(*mma8452q.Device)
	if !ok {
		return nil, ErrWrongDevice
	}

	return device, nil
}

// Shutdown sets the oximeter into power-save mode.
func (m *Monitor) Shutdown() error {
	return m.oximeter.Shutdown()
}

// Startup wakes the oximeter from power-save mode.
func (m *Monitor) Startup() error {
	return m.oximeter.Startup()
}

// Temperature returns the oximeter die temperature in degrees Celsius.
func (m *Monitor) Temperature() (float64, error) {
	return m.oximeter.Temperature()
}
