package max3010x

import (
	"fmt"
	"time"
)

// WaitForData polls the FIFO until at least one new sample arrives or the
// timeout expires. The FIFO is checked at least once, so a zero timeout
// still catches samples that are already pending. Bus faults during the
// window count as no data.
func (d *Device) WaitForData(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if n, _ := d.Drain(); n > 0 {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

// Available returns the number of unread samples in the local store.
func (d *Device) Available() int {
	return d.sense.available()
}

// LatestRed returns the most recent red LED sample. It waits for the
// sensor to produce new data up to the configured wait window and returns
// ErrNoData on expiry.
func (d *Device) LatestRed() (uint32, error) {
	if !d.WaitForData(d.wait) {
		return 0, fmt.Errorf("max3010x: could not get red sample: %w", ErrNoData)
	}
	return d.sense.red[d.sense.head], nil
}

// LatestIR returns the most recent IR LED sample. It waits for the sensor
// to produce new data up to the configured wait window and returns
// ErrNoData on expiry.
func (d *Device) LatestIR() (uint32, error) {
	if !d.WaitForData(d.wait) {
		return 0, fmt.Errorf("max3010x: could not get IR sample: %w", ErrNoData)
	}
	return d.sense.ir[d.sense.head], nil
}

// LatestGreen returns the most recent green LED sample. It waits for the
// sensor to produce new data up to the configured wait window and returns
// ErrNoData on expiry.
func (d *Device) LatestGreen() (uint32, error) {
	if !d.WaitForData(d.wait) {
		return 0, fmt.Errorf("max3010x: could not get green sample: %w", ErrNoData)
	}
	return d.sense.green[d.sense.head], nil
}

// OldestRed returns the oldest unread red LED sample without touching the
// device. Callers should check Available first: on an empty store the
// value is stale.
func (d *Device) OldestRed() uint32 {
	return d.sense.red[d.sense.peek()]
}

// OldestIR returns the oldest unread IR LED sample without touching the
// device. Callers should check Available first: on an empty store the
// value is stale.
func (d *Device) OldestIR() uint32 {
	return d.sense.ir[d.sense.peek()]
}

// OldestGreen returns the oldest unread green LED sample without touching
// the device. Callers should check Available first: on an empty store the
// value is stale.
func (d *Device) OldestGreen() uint32 {
	return d.sense.green[d.sense.peek()]
}

// NextSample consumes the oldest unread sample. It does nothing when the
// store is empty.
func (d *Device) NextSample() {
	d.sense.advance()
}
