package max3010x

import (
	"fmt"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/i2c"
)

// Option defines a functional option for the device.
type Option func(d *Device) (Option, error)

// Options set different configuration options and returns the previous value
// of the last option passed.
func (d *Device) Options(options ...Option) (Option, error) {
	var old Option
	var err error
	for _, opt := range options {
		old, err = opt(d)
		if err != nil {
			return nil, err
		}
	}

	return old, nil
}

func (d *Device) config(reg, mask, flag byte) (byte, error) {
	cfg, err := d.Read(reg)
	if err != nil {
		return 0, fmt.Errorf("could not get %v from %v: %w", mask, reg, err)
	}
	old := cfg &^ mask
	cfg &= mask
	cfg |= flag
	if err := d.Write(reg, cfg); err != nil {
		return 0, fmt.Errorf("could not set %v in %v: %w", flag, reg, err)
	}

	return old, nil
}

// LEDMode sets the number of active LED channels: 1 enables red only, 2
// red and IR, and 3 adds green through the multi-LED slots. The channel
// count controls how many bytes each FIFO sample occupies. The FIFO
// pointers are cleared on a mode change.
func LEDMode(channels int) Option {
	return func(d *Device) (Option, error) {
		var mode byte
		switch channels {
		case 1:
			mode = ModeHR
		case 2:
			mode = ModeSpO2
		case 3:
			mode = ModeMultiLed
		default:
			return nil, fmt.Errorf("max3010x: invalid LED mode %d: want 1, 2 or 3", channels)
		}
		old := d.channels

		if _, err := d.config(ModeCfg, modeMask, mode); err != nil {
			return nil, fmt.Errorf("max3010x: could not configure mode: %w", err)
		}
		if _, err := d.config(MultiLedModeS2S1, slotLowMask, SlotRed); err != nil {
			return nil, fmt.Errorf("max3010x: could not configure slot 1: %w", err)
		}
		if channels > 1 {
			if _, err := d.config(MultiLedModeS2S1, slotHighMask, SlotIR<<4); err != nil {
				return nil, fmt.Errorf("max3010x: could not configure slot 2: %w", err)
			}
		}
		if channels > 2 {
			if _, err := d.config(MultiLedModeS4S3, slotLowMask, SlotGreen); err != nil {
				return nil, fmt.Errorf("max3010x: could not configure slot 3: %w", err)
			}
		}
		d.channels = channels

		if err := d.ClearFIFO(); err != nil {
			return nil, fmt.Errorf("max3010x: could not configure mode: %w", err)
		}

		return LEDMode(old), nil
	}
}

// SampleAveraging sets how many consecutive samples the chip averages
// into one FIFO record (Avg1 to Avg32).
func SampleAveraging(avg byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(FIFOCfg, avgMask, avg)
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure sample averaging: %w", err)
		}

		return SampleAveraging(old), nil
	}
}

// FIFORollover sets whether the FIFO wraps around and overwrites old
// samples when full.
func FIFORollover(on bool) Option {
	return func(d *Device) (Option, error) {
		var flag byte
		if on {
			flag = rolloverEna
		}
		old, err := d.config(FIFOCfg, rolloverMask, flag)
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure FIFO rollover: %w", err)
		}

		return FIFORollover(old != 0), nil
	}
}

// AlmostFullValue sets when the AlmostFull interrupt should be triggered. It
// can take values from 0 to 15.
func AlmostFullValue(left byte) Option {
	return func(d *Device) (Option, error) {
		left &= ^fifoFullMask
		old, err := d.config(FIFOCfg, fifoFullMask, left)
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure almost full value to %d: %w", left, err)
		}

		return AlmostFullValue(old), nil
	}
}

// ADCRange sets the SpO2 ADC full-scale range (ADC2048 to ADC16384).
func ADCRange(r byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(SpO2Cfg, adcMask, r)
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure ADC range: %w", err)
		}

		return ADCRange(old), nil
	}
}

// SampleRate sets the SpO2 sample rate control of the device.
func SampleRate(sr byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(SpO2Cfg, srMask, sr)
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure sample rate: %w", err)
		}

		return SampleRate(old), nil
	}
}

// PulseWidth sets the pulse width of the device.
func PulseWidth(pw byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(SpO2Cfg, pwMask, pw)
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure pulse width: %w", err)
		}

		return PulseWidth(old), nil
	}
}

// RedPulseAmp sets the pulse amplitude of the red LED. It accepts values
// from 0.0 to 51.0 mA and the value is rounded down to the nearest multiple of 0.2.
func RedPulseAmp(current float64) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(Led1PA, 0, amps(current))
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure red LED pulse amplitude: %w", err)
		}

		return RedPulseAmp(float64(old) / 5), nil
	}
}

// IRPulseAmp sets the pulse amplitude of the IR LED. It accepts values
// from 0.0 to 51.0 mA and the value is rounded down to the nearest multiple of 0.2.
func IRPulseAmp(current float64) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(Led2PA, 0, amps(current))
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure IR LED pulse amplitude: %w", err)
		}

		return IRPulseAmp(float64(old) / 5), nil
	}
}

// GreenPulseAmp sets the pulse amplitude of the green LED on parts that
// have one. It accepts values from 0.0 to 51.0 mA and the value is rounded
// down to the nearest multiple of 0.2.
func GreenPulseAmp(current float64) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(Led3PA, 0, amps(current))
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure green LED pulse amplitude: %w", err)
		}

		return GreenPulseAmp(float64(old) / 5), nil
	}
}

// ProxPulseAmp sets the pulse amplitude of the proximity pilot. It accepts
// values from 0.0 to 51.0 mA and the value is rounded down to the nearest
// multiple of 0.2.
func ProxPulseAmp(current float64) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(ProxLedPA, 0, amps(current))
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure proximity pulse amplitude: %w", err)
		}

		return ProxPulseAmp(float64(old) / 5), nil
	}
}

func amps(current float64) byte {
	if current > 51 {
		current = 51
	}
	if current < 0 {
		current = 0
	}
	return byte(current * 5)
}

// ProxThreshold sets the proximity mode interrupt threshold.
func ProxThreshold(val byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(ProxIntThresh, 0, val)
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure proximity threshold: %w", err)
		}

		return ProxThreshold(old), nil
	}
}

// InterruptEnable enables interrupts.
func InterruptEnable(i byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(IntEna1, ^i, i)
		if err != nil {
			return nil, fmt.Errorf("max3010x: could not configure interrupt flags: %w", err)
		}

		return InterruptEnable(old), nil
	}
}

// TransferSize sets the upper bound in bytes for a single FIFO burst read.
// The bound depends on the I2C controller, so drains trim each burst to
// whole samples below it.
func TransferSize(n int) Option {
	return func(d *Device) (Option, error) {
		if n < chanBytes {
			return nil, fmt.Errorf("max3010x: invalid transfer size %d: want at least %d", n, chanBytes)
		}
		old := d.transfer
		d.transfer = n

		return TransferSize(old), nil
	}
}

// Storage sets the capacity of the local sample store. Old samples are
// overwritten in silence once the store wraps around.
func Storage(n int) Option {
	return func(d *Device) (Option, error) {
		if n < 2 {
			return nil, fmt.Errorf("max3010x: invalid storage size %d: want at least 2", n)
		}
		old := d.sense.size()
		d.sense = newSense(n)

		return Storage(old), nil
	}
}

// WaitTimeout sets the window that Latest reads and bounded register polls
// wait for the device.
func WaitTimeout(t time.Duration) Option {
	return func(d *Device) (Option, error) {
		old := d.wait
		d.wait = t

		return WaitTimeout(old), nil
	}
}

// WriteAddr points register writes at a separate device address on parts
// that split their read and write addresses. It takes effect for writes
// issued after the option is applied.
func WriteAddr(addr uint16) Option {
	return func(d *Device) (Option, error) {
		if addr == 0 {
			addr = Addr
		}
		old := d.wr.Addr
		d.wr = &i2c.Dev{Addr: addr, Bus: d.bus}

		return WriteAddr(old), nil
	}
}

// InterruptPin watches a GPIO pin wired to the sensor's INT line and
// latches a data ready flag on every falling edge. Passing nil stops the
// watcher.
func InterruptPin(pin gpio.PinIn) Option {
	return func(d *Device) (Option, error) {
		old := d.pin
		if d.done != nil {
			close(d.done)
			d.done = nil
		}
		d.pin = pin
		if pin == nil {
			return InterruptPin(old), nil
		}

		if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return nil, fmt.Errorf("max3010x: could not configure interrupt pin: %w", err)
		}
		d.done = make(chan struct{})
		go d.watch(pin, d.done)

		return InterruptPin(old), nil
	}
}
