package mma8452q

import "fmt"

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

// guarded drops the device into standby, applies fn and starts it up
// again. Configuration registers reject writes while active.
func (d *Device) guarded(fn func() error) error {
	active, err := d.isActive()
	if err != nil {
		return err
	}
	if active {
		if err := d.standby(); err != nil {
			return err
		}
	}
	if err := fn(); err != nil {
		return err
	}

	return d.active()
}

// Scale sets and returns the full-scale range of the three axes. It
// accepts 2, 4 or 8 g.
func Scale(g int) Option {
	return func(d *Device) (Option, error) {
		var bits byte
		switch g {
		case 2:
			bits = 0b00
		case 4:
			bits = 0b01
		case 8:
			bits = 0b10
		default:
			return nil, fmt.Errorf("mma8452q: invalid scale %dg: want 2, 4 or 8", g)
		}
		old := d.scale

		err := d.guarded(func() error {
			_, err := d.config(XYZDataCfg, scaleMask, bits)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("mma8452q: could not configure scale: %w", err)
		}
		d.scale = g

		return Scale(old), nil
	}
}

// DataRate sets the output data rate of the device (ODR800 to ODR1).
func DataRate(odr byte) Option {
	return func(d *Device) (Option, error) {
		var old byte
		err := d.guarded(func() error {
			prev, err := d.config(CtrlReg1, odrMask, odr<<3)
			old = prev >> 3
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("mma8452q: could not configure data rate: %w", err)
		}

		return DataRate(old), nil
	}
}

// OrientationDetect enables the portrait/landscape detection engine with
// a 100ms debounce.
func OrientationDetect() Option {
	return func(d *Device) (Option, error) {
		err := d.guarded(func() error {
			if _, err := d.config(PLCfg, ^plEnable, plEnable); err != nil {
				return err
			}
			return d.Write(PLCount, plDebounce)
		})
		if err != nil {
			return nil, fmt.Errorf("mma8452q: could not configure orientation detection: %w", err)
		}

		return OrientationDetect(), nil
	}
}

// TapDetect enables single and double tap detection per axis. Each
// threshold is in steps of 0.0625g; setting the top bit disables the
// axis.
func TapDetect(xThs, yThs, zThs byte) Option {
	return func(d *Device) (Option, error) {
		err := d.guarded(func() error {
			var axes byte
			if xThs&tapDisabled == 0 {
				axes |= tapXEnable
				if err := d.Write(PulseThsX, xThs); err != nil {
					return err
				}
			}
			if yThs&tapDisabled == 0 {
				axes |= tapYEnable
				if err := d.Write(PulseThsY, yThs); err != nil {
					return err
				}
			}
			if zThs&tapDisabled == 0 {
				axes |= tapZEnable
				if err := d.Write(PulseThsZ, zThs); err != nil {
					return err
				}
			}
			if err := d.Write(PulseCfg, axes|pulseLatch); err != nil {
				return err
			}
			if err := d.Write(PulseTmlt, tapTimeLimit); err != nil {
				return err
			}
			if err := d.Write(PulseLtcy, tapLatency); err != nil {
				return err
			}
			return d.Write(PulseWind, tapWindow)
		})
		if err != nil {
			return nil, fmt.Errorf("mma8452q: could not configure tap detection: %w", err)
		}

		return TapDetect(xThs, yThs, zThs), nil
	}
}
