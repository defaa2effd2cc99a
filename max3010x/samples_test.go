package max3010x

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/periph/conn/i2c/i2ctest"
)

func TestWaitForData(t *testing.T) {
	t.Run("AlreadyPending", func(t *testing.T) {
		// A zero timeout still drains samples already sitting in the
		// FIFO.
		p := &i2ctest.Playback{Ops: []i2ctest.IO{
			{Addr: Addr, W: []byte{FIFOWrPtr}, R: []byte{0x01}},
			{Addr: Addr, W: []byte{FIFORdPtr}, R: []byte{0x00}},
			{Addr: Addr, W: []byte{FIFOData}, R: []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x02}},
		}}
		d := testDevice(p)

		if !d.WaitForData(0) {
			t.Error("expected data")
		}
		if d.Available() != 1 {
			t.Errorf("expected 1 available, got %d", d.Available())
		}
		if err := p.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		d := testDevice(&i2ctest.Playback{DontPanic: true})

		start := time.Now()
		if d.WaitForData(5 * time.Millisecond) {
			t.Error("expected no data")
		}
		if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
			t.Errorf("gave up after %v, before the window closed", elapsed)
		}
	})
}

func TestLatest(t *testing.T) {
	t.Run("IR", func(t *testing.T) {
		p := &i2ctest.Playback{Ops: []i2ctest.IO{
			{Addr: Addr, W: []byte{FIFOWrPtr}, R: []byte{0x01}},
			{Addr: Addr, W: []byte{FIFORdPtr}, R: []byte{0x00}},
			{Addr: Addr, W: []byte{FIFOData}, R: []byte{0x00, 0x00, 0x05, 0x00, 0x00, 0x06}},
		}}
		d := testDevice(p)

		got, err := d.LatestIR()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 6 {
			t.Errorf("expected 6, got %d", got)
		}
		if err := p.Close(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("NoData", func(t *testing.T) {
		d := testDevice(&i2ctest.Playback{DontPanic: true})

		if _, err := d.LatestRed(); !errors.Is(err, ErrNoData) {
			t.Errorf("expected ErrNoData, got %v", err)
		}
	})
}

func TestOldestFresh(t *testing.T) {
	d := testDevice(&i2ctest.Playback{})
	if d.Available() != 0 {
		t.Errorf("expected an empty store, got %d available", d.Available())
	}
	if got := d.OldestRed(); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := d.OldestGreen(); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
