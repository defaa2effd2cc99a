package max3010x

import (
	"sync"
	"time"

	"periph.io/x/periph/conn/gpio"
)

// readyLatch carries the data ready signal from the interrupt watcher
// into the polling context. Both sides go through the mutex.
type readyLatch struct {
	mu  sync.Mutex
	set bool
}

func (l *readyLatch) raise() {
	l.mu.Lock()
	l.set = true
	l.mu.Unlock()
}

func (l *readyLatch) clear() {
	l.mu.Lock()
	l.set = false
	l.mu.Unlock()
}

func (l *readyLatch) raised() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set
}

// watch latches the data ready flag on every falling edge of the INT
// line until done is closed. The edge wait wakes up periodically so the
// goroutine notices the close without an edge.
func (d *Device) watch(pin gpio.PinIn, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}
		if pin.WaitForEdge(500 * time.Millisecond) {
			d.ready.raise()
		}
	}
}

// DataReady reports whether the INT line signaled since the last clear.
// The flag is only a hint: drains derive the real backlog from the FIFO
// pointers.
func (d *Device) DataReady() bool {
	return d.ready.raised()
}

// ClearDataReady rearms the data ready flag.
func (d *Device) ClearDataReady() {
	d.ready.clear()
}
