package pio

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrOutOfBounds is returned by every Cursor read that would run past the end of its buffer.
var ErrOutOfBounds = errors.New("pio: read out of bounds")

// BoundsError describes a failed Cursor read. It unwraps to ErrOutOfBounds.
type BoundsError struct {
	Offset int // absolute offset of the failed read
	Need   int
	Have   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("pio: read of %d bytes at offset %d, %d remaining", e.Need, e.Offset, e.Have)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// Fixed is a signed fixed-point number. Raw keeps the wire value so re-encoding is lossless.
type Fixed struct {
	Raw      int32
	IntBits  uint8
	FracBits uint8
}

// NewFixed builds a Fixed from a raw wire value.
func NewFixed(raw int32, intBits, fracBits uint8) Fixed {
	return Fixed{Raw: raw, IntBits: intBits, FracBits: fracBits}
}

func (f Fixed) Float64() float64 {
	return float64(f.Raw) / float64(uint64(1)<<f.FracBits)
}

// Bytes returns the big-endian wire encoding, 2 or 4 bytes wide.
func (f Fixed) Bytes() []byte {
	if f.IntBits+f.FracBits == 16 {
		b := make([]byte, 2)
		PutU16BE(b, uint16(f.Raw))
		return b
	}
	b := make([]byte, 4)
	PutI32BE(b, f.Raw)
	return b
}

func (f Fixed) String() string {
	return fmt.Sprintf("%g", f.Float64())
}

// Cursor is a sequential big-endian reader over an immutable byte slice.
// Reads never panic: a short buffer yields a *BoundsError and leaves the position unchanged.
type Cursor struct {
	buf  []byte
	pos  int
	base int
}

// NewCursor wraps buf. base is the absolute offset of buf[0], used only for error reporting.
func NewCursor(buf []byte, base int) *Cursor {
	return &Cursor{buf: buf, base: base}
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int {
	return c.pos
}

// Offset returns the absolute offset of the next byte.
func (c *Cursor) Offset() int {
	return c.base + c.pos
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Rest returns a view of the unread bytes without consuming them.
func (c *Cursor) Rest() []byte {
	return c.buf[c.pos:]
}

func (c *Cursor) need(n int) error {
	if n < 0 || n > len(c.buf)-c.pos {
		return &BoundsError{Offset: c.base + c.pos, Need: n, Have: len(c.buf) - c.pos}
	}
	return nil
}

// Fits reports whether count items of size bytes each can still be read.
// Callers check it before allocating tables sized from untrusted counts.
func (c *Cursor) Fits(count uint64, size int) bool {
	if size <= 0 {
		return true
	}
	return count <= uint64(c.Remaining()/size)
}

// CheckTable is Fits reported as a *BoundsError.
func (c *Cursor) CheckTable(count uint64, size int) error {
	if c.Fits(count, size) {
		return nil
	}
	return &BoundsError{Offset: c.base + c.pos, Need: int(count) * size, Have: len(c.buf) - c.pos}
}

func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// Bytes returns a view of the next n bytes. The view aliases the input buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// CopyBytes returns an owned copy of the next n bytes.
func (c *Cursor) CopyBytes(n int) ([]byte, error) {
	b, err := c.Bytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (c *Cursor) U8() (uint8, error) {
	b, err := c.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) U16() (uint16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return U16BE(b), nil
}

func (c *Cursor) U24() (uint32, error) {
	b, err := c.Bytes(3)
	if err != nil {
		return 0, err
	}
	return U24BE(b), nil
}

func (c *Cursor) U32() (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return U32BE(b), nil
}

func (c *Cursor) U64() (uint64, error) {
	b, err := c.Bytes(8)
	if err != nil {
		return 0, err
	}
	return U64BE(b), nil
}

func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}

func (c *Cursor) I64() (int64, error) {
	v, err := c.U64()
	return int64(v), err
}

func (c *Cursor) U16LE() (uint16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return U16LE(b), nil
}

func (c *Cursor) I16LE() (int16, error) {
	v, err := c.U16LE()
	return int16(v), err
}

func (c *Cursor) U32LE() (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return U32LE(b), nil
}

// Fixed reads a signed intBits.fracBits fixed-point value. intBits+fracBits must be 16 or 32.
func (c *Cursor) Fixed(intBits, fracBits uint8) (Fixed, error) {
	switch intBits + fracBits {
	case 16:
		v, err := c.I16()
		if err != nil {
			return Fixed{}, err
		}
		return NewFixed(int32(v), intBits, fracBits), nil
	case 32:
		v, err := c.I32()
		if err != nil {
			return Fixed{}, err
		}
		return NewFixed(v, intBits, fracBits), nil
	default:
		return Fixed{}, errors.Newf("pio: unsupported fixed-point width %d.%d", intBits, fracBits)
	}
}
