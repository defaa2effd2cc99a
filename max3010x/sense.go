package max3010x

// sense is a circular store of decoded samples, one slot per channel
// array. head points at the most recently written slot and tail at the
// most recently consumed one, so the oldest unread sample sits one slot
// past tail. Writes advance head and overwrite in silence, wrapping the
// unread count along with it.
type sense struct {
	red   []uint32
	ir    []uint32
	green []uint32

	head int
	tail int
}

func newSense(size int) *sense {
	return &sense{
		red:   make([]uint32, size),
		ir:    make([]uint32, size),
		green: make([]uint32, size),
	}
}

func (s *sense) size() int {
	return len(s.red)
}

func (s *sense) push(red, ir, green uint32) {
	s.head++
	s.head %= len(s.red)

	s.red[s.head] = red
	s.ir[s.head] = ir
	s.green[s.head] = green
}

// available returns the number of unread samples, (head - tail) modulo
// the store size.
func (s *sense) available() int {
	n := s.head - s.tail
	if n < 0 {
		n += len(s.red)
	}
	return n
}

// peek returns the index of the oldest unread sample.
func (s *sense) peek() int {
	return (s.tail + 1) % len(s.red)
}

// advance consumes the oldest unread sample. It does nothing on an
// empty store.
func (s *sense) advance() {
	if s.available() == 0 {
		return
	}
	s.tail++
	s.tail %= len(s.red)
}
