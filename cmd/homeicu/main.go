package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/l0nax/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/5l1v3r1/homeicu"
	"github.com/5l1v3r1/homeicu/max3010x"
	"github.com/5l1v3r1/homeicu/mma8452q"
	"github.com/5l1v3r1/homeicu/serial"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

var pprint = spew.ConfigState{
	Indent:                  "\t",
	MaxDepth:                0,
	DisableMethods:          false,
	DisablePointerMethods:   false,
	DisablePointerAddresses: false,
	DisableCapacities:       false,
	ContinueOnMethod:        true,
	SortKeys:                true,
	SpewKeys:                true,
	HighlightValues:         true,
	HighlightHex:            true,
}

type options struct {
	bus     string
	addr    uint
	motAddr uint
	intPin  string
	pwrPin  string
	port    string
	baud    int
	frame   int
	every   time.Duration
	temp    bool
	dump    bool
	debug   bool
}

func flags() options {
	var o options
	flag.StringVar(&o.bus, "bus", "", "I2C bus name (empty for the first available)")
	flag.UintVar(&o.addr, "addr", 0x57, "oximeter I2C address")
	flag.UintVar(&o.motAddr, "motion-addr", 0x1C, "accelerometer I2C address")
	flag.StringVar(&o.intPin, "int", "", "GPIO pin wired to the oximeter INT line")
	flag.StringVar(&o.pwrPin, "power", "", "GPIO pin gating sensor power")
	flag.StringVar(&o.port, "serial", "", "serial device to forward PPG frames to")
	flag.IntVar(&o.baud, "baud", 115200, "serial baud rate")
	flag.IntVar(&o.frame, "frame", 125, "PPG bytes per frame")
	flag.DurationVar(&o.every, "every", 20*time.Millisecond, "sensor poll interval")
	flag.BoolVar(&o.temp, "temp", false, "log the oximeter die temperature at startup")
	flag.BoolVar(&o.dump, "dump", false, "dump the oximeter configuration registers at startup")
	flag.BoolVar(&o.debug, "debug", false, "log per-frame details")
	flag.Parse()
	return o
}

func main() {
	o := flags()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if o.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var port serial.Port
	if o.port != "" {
		cfg := serial.DefaultConfig(o.port)
		cfg.Baud = o.baud

		var err error
		if port, err = serial.Open(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to open serial port")
		}
		defer port.Close()
		log.Info().Str("device", cfg.Device).Int("baud", cfg.Baud).Msg("forwarding frames over serial")
	}

	mon, err := homeicu.New(
		homeicu.OnBus(o.bus),
		homeicu.OnAddr(uint16(o.addr)),
		homeicu.OnMotionAddr(uint16(o.motAddr)),
		homeicu.OnInterrupt(o.intPin),
		homeicu.OnPowerPin(o.pwrPin),
		homeicu.FrameSize(o.frame),
		homeicu.PollEvery(o.every),
		homeicu.OnFrame(func(b []byte) {
			if port != nil {
				if _, err := port.Write(b); err != nil {
					log.Warn().Err(err).Msg("failed to forward frame")
					return
				}
			}
			log.Debug().Int("bytes", len(b)).Msg("PPG frame complete")
		}),
		homeicu.OnTap(func(tap byte) {
			log.Info().
				Uint8("source", tap).
				Bool("double", tap&mma8452q.TapDouble != 0).
				Msg("tap detected")
		}),
		homeicu.OnError(func(err error) {
			log.Warn().Err(err).Msg("sensor fault")
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up monitor")
	}
	defer mon.Close()

	log.Info().Bool("motion", mon.HasMotion()).Msg("sensors up")

	if o.temp {
		t, err := mon.Temperature()
		if err != nil {
			log.Warn().Err(err).Msg("failed to read die temperature")
		} else {
			log.Info().Float64("celsius", t).Msg("die temperature")
		}
	}

	if o.dump {
		if err := dump(mon); err != nil {
			log.Warn().Err(err).Msg("failed to dump registers")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("monitoring")
	if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("monitor stopped")
		return
	}
	log.Info().Msg("stopped")
}

// dump pretty-prints the oximeter configuration registers.
func dump(mon *homeicu.Monitor) error {
	ox, err := mon.Oximeter()
	if err != nil {
		return err
	}

	var regs struct {
		RevID     byte
		IntEnable byte
		FIFOCfg   byte
		ModeCfg   byte
		SpO2Cfg   byte
		RedAmp    byte
		IRAmp     byte
	}
	if regs.RevID, err = ox.RevID(); err != nil {
		return err
	}
	for _, r := range []struct {
		reg byte
		dst *byte
	}{
		{max3010x.IntEna1, &regs.IntEnable},
		{max3010x.FIFOCfg, &regs.FIFOCfg},
		{max3010x.ModeCfg, &regs.ModeCfg},
		{max3010x.SpO2Cfg, &regs.SpO2Cfg},
		{max3010x.Led1PA, &regs.RedAmp},
		{max3010x.Led2PA, &regs.IRAmp},
	} {
		if *r.dst, err = ox.Read(r.reg); err != nil {
			return err
		}
	}

	pprint.Dump(regs)
	return nil
}
