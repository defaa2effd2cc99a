package homeicu

// defaultFrameSize is the number of PPG bytes per transport frame.
const defaultFrameSize = 125

// ppgByte downscales an 18-bit PPG sample to the single transport byte
// the frame carries, keeping the top 8 bits.
func ppgByte(sample uint32) byte {
	return byte(sample >> 10)
}

// A frame accumulates PPG bytes until it fills up.
type frame struct {
	buf []byte
	n   int
}

func newFrame(size int) *frame {
	return &frame{buf: make([]byte, size)}
}

// push appends one byte. When the frame fills up it returns a copy of
// the whole frame and starts over; otherwise it returns nil.
func (f *frame) push(b byte) []byte {
	f.buf[f.n] = b
	f.n++
	if f.n < len(f.buf) {
		return nil
	}

	f.n = 0
	out := make([]byte, len(f.buf))
	copy(out, f.buf)

	return out
}
