package homeicu

import "time"

// An Option configures a monitor.
type Option func(m *Monitor) Option

// OnBus can be used to specify I²C bus name
// ("/dev/i2c-2", "I2C2", "2"). By default, the bus name is "", which selects
// the first available bus.
func OnBus(name string) Option {
	return func(m *Monitor) Option {
		old := m.busName
		m.busName = name
		return OnBus(old)
	}
}

// OnAddr can be used to specify an alternative I²C address for the
// oximeter. By default, the address is 0x57.
func OnAddr(addr uint16) Option {
	return func(m *Monitor) Option {
		old := m.addr
		m.addr = addr
		return OnAddr(old)
	}
}

// OnMotionAddr can be used to specify an alternative I²C address for the
// accelerometer. By default, the address is 0x1C.
func OnMotionAddr(addr uint16) Option {
	return func(m *Monitor) Option {
		old := m.motAddr
		m.motAddr = addr
		return OnMotionAddr(old)
	}
}

// OnInterrupt names the GPIO pin wired to the oximeter's INT line. When
// set, poll passes drain the FIFO only after the pin latched a falling
// edge. By default the monitor polls blind.
func OnInterrupt(pinName string) Option {
	return func(m *Monitor) Option {
		old := m.intName
		m.intName = pinName
		return OnInterrupt(old)
	}
}

// OnPowerPin names the GPIO pin that gates sensor power. When set, the
// line is bounced low and back high before the sensors are dialed.
func OnPowerPin(pinName string) Option {
	return func(m *Monitor) Option {
		old := m.powerName
		m.powerName = pinName
		return OnPowerPin(old)
	}
}

// FrameSize sets the number of PPG bytes per completed frame.
func FrameSize(n int) Option {
	return func(m *Monitor) Option {
		old := m.frameSize
		m.frameSize = n
		return FrameSize(old)
	}
}

// PollEvery sets the sensor poll interval.
func PollEvery(d time.Duration) Option {
	return func(m *Monitor) Option {
		old := m.interval
		m.interval = d
		return PollEvery(old)
	}
}

// OnFrame registers the handler that receives each completed PPG frame.
// The slice is the handler's to keep.
func OnFrame(fn func([]byte)) Option {
	return func(m *Monitor) Option {
		old := m.onFrame
		m.onFrame = fn
		return OnFrame(old)
	}
}

// OnTap registers the handler that receives accelerometer tap events.
// The byte carries the pulse source bits; bit 3 marks a double tap.
func OnTap(fn func(byte)) Option {
	return func(m *Monitor) Option {
		old := m.onTap
		m.onTap = fn
		return OnTap(old)
	}
}

// OnError registers the handler that receives transient sensor faults.
// The monitor keeps polling after reporting one.
func OnError(fn func(error)) Option {
	return func(m *Monitor) Option {
		old := m.onError
		m.onError = fn
		return OnError(old)
	}
}
