package homeicu

import (
	"bytes"
	"testing"
)

func TestFramePush(t *testing.T) {
	f := newFrame(3)
	if out := f.push(1); out != nil {
		t.Errorf("expected nil, got %v", out)
	}
	if out := f.push(2); out != nil {
		t.Errorf("expected nil, got %v", out)
	}

	out := f.push(3)
	if !bytes.Equal(out, []byte{1, 2, 3}) {
		t.Fatalf("expected [1 2 3], got %v", out)
	}

	// The returned frame must not alias the staging buffer.
	out[0] = 99
	if f.buf[0] == 99 {
		t.Error("returned frame aliases the staging buffer")
	}

	if out := f.push(4); out != nil {
		t.Errorf("expected nil after a restart, got %v", out)
	}
	f.push(5)
	if out := f.push(6); !bytes.Equal(out, []byte{4, 5, 6}) {
		t.Errorf("expected [4 5 6], got %v", out)
	}
}

func TestPPGByte(t *testing.T) {
	cases := []struct {
		in   uint32
		want byte
	}{
		{0, 0x00},
		{0x3FFFF, 0xFF},
		{0x23456, 0x8D},
		{1 << 10, 0x01},
	}
	for _, c := range cases {
		if got := ppgByte(c.in); got != c.want {
			t.Errorf("ppgByte(%#x): expected %#x, got %#x", c.in, c.want, got)
		}
	}
}
