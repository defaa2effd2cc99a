package max3010x

import (
	"testing"

	"periph.io/x/periph/conn/i2c/i2ctest"
)

func TestPending(t *testing.T) {
	cases := []struct {
		name   string
		wr, rd byte
		want   int
	}{
		{"Plain", 12, 4, 8},
		{"Wrapped", 5, 29, 8},
		{"Empty", 0, 0, 0},
		{"EmptyMidway", 7, 7, 0},
		{"Straddling", 2, 30, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := &i2ctest.Playback{Ops: []i2ctest.IO{
				{Addr: Addr, W: []byte{FIFOWrPtr}, R: []byte{c.wr}},
				{Addr: Addr, W: []byte{FIFORdPtr}, R: []byte{c.rd}},
			}}
			d := testDevice(p)

			got, err := d.pending()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Errorf("expected %d pending, got %d", c.want, got)
			}
			if err := p.Close(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("BusFault", func(t *testing.T) {
		d := testDevice(&i2ctest.Playback{DontPanic: true})
		if _, err := d.pending(); err == nil {
			t.Error("expected error")
		}
	})
}

func TestDecodeSample(t *testing.T) {
	t.Run("SingleChannel", func(t *testing.T) {
		red, ir, green := decodeSample([]byte{0x02, 0x34, 0x56}, 1)
		if red != 0x23456 {
			t.Errorf("expected red 0x23456, got %#x", red)
		}
		if ir != 0 || green != 0 {
			t.Errorf("expected zero IR and green, got %#x and %#x", ir, green)
		}
	})

	t.Run("TwoChannels", func(t *testing.T) {
		red, ir, _ := decodeSample([]byte{0x02, 0x34, 0x56, 0xFF, 0xFF, 0xFF}, 2)
		if red != 0x23456 {
			t.Errorf("expected red 0x23456, got %#x", red)
		}
		if ir != 0x3FFFF {
			t.Errorf("expected IR clipped to 0x3FFFF, got %#x", ir)
		}
	})

	t.Run("ThreeChannels", func(t *testing.T) {
		b := []byte{
			0x00, 0x00, 0x01,
			0x00, 0x00, 0x02,
			0x04, 0x00, 0x03,
		}
		red, ir, green := decodeSample(b, 3)
		if red != 1 || ir != 2 {
			t.Errorf("expected red 1 and IR 2, got %d and %d", red, ir)
		}
		if green != 3 {
			t.Errorf("expected bit 18 masked off green, got %#x", green)
		}
	})
}

func TestDrain(t *testing.T) {
	t.Run("Chunked", func(t *testing.T) {
		// Six 6-byte samples split into a 30-byte and a 6-byte burst;
		// the playback lengths pin the burst sizes.
		p := &i2ctest.Playback{Ops: []i2ctest.IO{
			{Addr: Addr, W: []byte{FIFOWrPtr}, R: []byte{0x06}},
			{Addr: Addr, W: []byte{FIFORdPtr}, R: []byte{0x00}},
			{Addr: Addr, W: []byte{FIFOData}, R: make([]byte, 30)},
			{Addr: Addr, W: []byte{FIFOData}, R: make([]byte, 6)},
		}}
		d := testDevice(p)
		d.sense = newSense(8)

		n, err := d.Drain()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 6 {
			t.Errorf("expected 6 samples, got %d", n)
		}
		if d.Available() != 6 {
			t.Errorf("expected 6 available, got %d", d.Available())
		}
		if err := p.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("ThreeChannels", func(t *testing.T) {
		// 9-byte samples fit the 32-byte ceiling three at a time.
		p := &i2ctest.Playback{Ops: []i2ctest.IO{
			{Addr: Addr, W: []byte{FIFOWrPtr}, R: []byte{0x04}},
			{Addr: Addr, W: []byte{FIFORdPtr}, R: []byte{0x00}},
			{Addr: Addr, W: []byte{FIFOData}, R: make([]byte, 27)},
			{Addr: Addr, W: []byte{FIFOData}, R: make([]byte, 9)},
		}}
		d := testDevice(p)
		d.channels = 3
		d.sense = newSense(8)

		n, err := d.Drain()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 4 {
			t.Errorf("expected 4 samples, got %d", n)
		}
		if err := p.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		p := &i2ctest.Playback{Ops: []i2ctest.IO{
			{Addr: Addr, W: []byte{FIFOWrPtr}, R: []byte{0x12}},
			{Addr: Addr, W: []byte{FIFORdPtr}, R: []byte{0x12}},
		}}
		d := testDevice(p)

		n, err := d.Drain()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 samples, got %d", n)
		}
		if err := p.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("ShortRead", func(t *testing.T) {
		// The second burst fails; the drain keeps the first sample and
		// reports the fault without retrying.
		p := &i2ctest.Playback{
			Ops: []i2ctest.IO{
				{Addr: Addr, W: []byte{FIFOWrPtr}, R: []byte{0x03}},
				{Addr: Addr, W: []byte{FIFORdPtr}, R: []byte{0x00}},
				{Addr: Addr, W: []byte{FIFOData}, R: []byte{0x00, 0x00, 0x09, 0x00, 0x00, 0x08}},
			},
			DontPanic: true,
		}
		d := testDevice(p)
		d.transfer = 6

		n, err := d.Drain()
		if err == nil {
			t.Fatal("expected error")
		}
		if n != 1 {
			t.Errorf("expected 1 sample, got %d", n)
		}
		if d.Available() != 1 {
			t.Errorf("expected 1 available, got %d", d.Available())
		}
		if red := d.OldestRed(); red != 9 {
			t.Errorf("expected red 9, got %d", red)
		}
		if err := p.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("TransferBelowSample", func(t *testing.T) {
		p := &i2ctest.Playback{Ops: []i2ctest.IO{
			{Addr: Addr, W: []byte{FIFOWrPtr}, R: []byte{0x01}},
			{Addr: Addr, W: []byte{FIFORdPtr}, R: []byte{0x00}},
		}}
		d := testDevice(p)
		d.transfer = 4

		if _, err := d.Drain(); err == nil {
			t.Error("expected error")
		}
		if err := p.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
