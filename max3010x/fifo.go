package max3010x

import "fmt"

// pending returns the number of unread samples in the hardware FIFO,
// derived from the distance between the write and the read pointer.
// Equal pointers read as empty, which cannot be told apart from a FIFO
// that rolled over a full 32 samples.
func (d *Device) pending() (int, error) {
	wr, err := d.Read(FIFOWrPtr)
	if err != nil {
		return 0, fmt.Errorf("max3010x: could not read FIFO write pointer: %w", err)
	}
	rd, err := d.Read(FIFORdPtr)
	if err != nil {
		return 0, fmt.Errorf("max3010x: could not read FIFO read pointer: %w", err)
	}

	return (int(wr) + fifoSize - int(rd)) % fifoSize, nil
}

// Drain moves every unread sample from the hardware FIFO into the local
// store and returns how many samples it read. Samples are fetched in
// bursts no larger than the transfer size, trimmed down to whole
// samples. A failed burst aborts the drain and keeps the samples
// decoded so far; the next call re-derives the backlog from the FIFO
// pointers.
func (d *Device) Drain() (int, error) {
	n, err := d.pending()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	sampleBytes := d.channels * chanBytes
	if d.transfer < sampleBytes {
		return 0, fmt.Errorf("max3010x: transfer size %d below one sample of %d bytes", d.transfer, sampleBytes)
	}

	read := 0
	left := n * sampleBytes
	for left > 0 {
		chunk := left
		if chunk > d.transfer {
			chunk = d.transfer - d.transfer%sampleBytes
		}

		buf, err := d.ReadBytes(FIFOData, chunk)
		if err != nil {
			return read, fmt.Errorf("max3010x: could not drain FIFO: %w", err)
		}
		for off := 0; off < chunk; off += sampleBytes {
			d.sense.push(decodeSample(buf[off:off+sampleBytes], d.channels))
			read++
		}

		left -= chunk
	}

	return read, nil
}

// decodeSample unpacks one FIFO record of three big-endian bytes per
// active channel, in red, IR, green order. Only the low 18 bits of each
// channel carry ADC counts. Missing channels decode to zero.
func decodeSample(b []byte, channels int) (red, ir, green uint32) {
	red = (uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])) & sampleMask
	if channels > 1 {
		ir = (uint32(b[3])<<16 | uint32(b[4])<<8 | uint32(b[5])) & sampleMask
	}
	if channels > 2 {
		green = (uint32(b[6])<<16 | uint32(b[7])<<8 | uint32(b[8])) & sampleMask
	}

	return red, ir, green
}
