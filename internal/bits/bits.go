// Package bits packs and unpacks unsigned integer fields of arbitrary
// width into byte buffers, most-significant-bit first, crossing byte
// boundaries as needed.
package bits

import "fmt"

// MaxFieldWidth is the widest single field a Writer or Reader handles.
const MaxFieldWidth = 32

// ShortBufferError reports a buffer with fewer bits than the declared
// layout requires.
type ShortBufferError struct {
	NeededBits    int
	AvailableBits int
}

func (e *ShortBufferError) Error() string {
	return fmt.Sprintf("short buffer: need %d bits, have %d", e.NeededBits, e.AvailableBits)
}

// Writer appends bit fields to a growing byte buffer at a running bit
// cursor. The zero value is ready to use.
type Writer struct {
	buf   []byte
	nbits int
}

// WriteBits appends the low width bits of value, MSB first. Width must be
// in 1..MaxFieldWidth; bits of value above width are ignored, so the
// caller is responsible for range-checking values against their declared
// field widths.
func (w *Writer) WriteBits(value uint32, width int) {
	if width < 1 || width > MaxFieldWidth {
		panic(fmt.Sprintf("bits: invalid field width %d", width))
	}

	for i := width - 1; i >= 0; i-- {
		if w.nbits%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if value>>uint(i)&1 == 1 {
			w.buf[w.nbits/8] |= 1 << uint(7-w.nbits%8)
		}
		w.nbits++
	}
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return w.nbits
}

// Bytes returns the packed buffer. Any unused bits in the final byte are
// zero, so equal write sequences always produce byte-identical buffers.
func (w *Writer) Bytes() []byte {
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out
}

// Reader consumes bit fields from a byte buffer at a running bit cursor.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a Reader over buf. The Reader does not copy or mutate
// the buffer.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// ReadBits consumes the next width bits, MSB first. It returns a
// ShortBufferError when the buffer runs out before the field is complete;
// the cursor is not advanced on failure.
func (r *Reader) ReadBits(width int) (uint32, error) {
	if width < 1 || width > MaxFieldWidth {
		panic(fmt.Sprintf("bits: invalid field width %d", width))
	}

	if r.pos+width > len(r.buf)*8 {
		return 0, &ShortBufferError{
			NeededBits:    r.pos + width,
			AvailableBits: len(r.buf) * 8,
		}
	}

	var value uint32
	for i := 0; i < width; i++ {
		value <<= 1
		if r.buf[r.pos/8]>>uint(7-r.pos%8)&1 == 1 {
			value |= 1
		}
		r.pos++
	}
	return value, nil
}

// Remaining returns the number of unread bits, including any padding bits
// beyond the caller's declared layout.
func (r *Reader) Remaining() int {
	return len(r.buf)*8 - r.pos
}
