// Package mp4io decodes ISO Base Media File Format boxes (MP4, fragmented MP4, CMAF) into a tree.
package mp4io

import (
	"time"

	"github.com/ugparu/bmff/utils/bits/pio"
)

const (
	HeaderSize         = 8
	LargeHeaderSize    = 16
	FullBoxPrefixSize  = 4
	userTypeSize       = 16
	MacEpochOffset     = 2082844800
	languageLetterBits = 5
	languageMask       = 0x1f
	languageBase       = 0x60
)

// Tag is a four-character box type code.
type Tag uint32

func (t Tag) String() string {
	var b [4]byte
	pio.PutU32BE(b[:], uint32(t))
	for i := 0; i < 4; i++ {
		if b[i] == 0 {
			b[i] = ' '
		}
	}
	return string(b[:])
}

func StringToTag(tag string) Tag {
	var b [4]byte
	copy(b[:], tag)
	return Tag(pio.U32BE(b[:]))
}

// FullBox is the version and flags prefix shared by full boxes.
type FullBox struct {
	Version uint8
	Flags   uint32
}

func (f FullBox) HasFlag(flag uint32) bool {
	return f.Flags&flag != 0
}

func readFullBox(c *pio.Cursor) (fb FullBox, err error) {
	var vf uint32
	if vf, err = c.U32(); err != nil {
		return
	}
	fb.Version = uint8(vf >> 24)
	fb.Flags = vf & 0x00ffffff
	return
}

// FixedPoint is a signed fixed-point field with its wire value preserved.
type FixedPoint = pio.Fixed

// Matrix is a transformation matrix in wire order {a b u, c d v, x y w}.
// All nine entries are decoded as 16.16; see UVW for the 2.30 reading of column 2.
type Matrix [3][3]FixedPoint

func readMatrix(c *pio.Cursor) (m Matrix, err error) {
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var v int32
			if v, err = c.I32(); err != nil {
				return
			}
			m[row][col] = pio.NewFixed(v, 16, 16)
		}
	}
	return
}

// UVW reinterprets column 2 as 2.30 fixed point, the ISO reading of u, v and w.
func (m Matrix) UVW() [3]FixedPoint {
	return [3]FixedPoint{
		pio.NewFixed(m[0][2].Raw, 2, 30),
		pio.NewFixed(m[1][2].Raw, 2, 30),
		pio.NewFixed(m[2][2].Raw, 2, 30),
	}
}

// Raw returns the nine wire values in order.
func (m Matrix) Raw() (r [9]int32) {
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = m[row][col].Raw
		}
	}
	return
}

// MacTime converts seconds since 1904-01-01 UTC to a time.Time.
func MacTime(raw uint64) time.Time {
	return time.Unix(int64(raw)-MacEpochOffset, 0).UTC()
}

// ToMacTime converts t to seconds since 1904-01-01 UTC.
func ToMacTime(t time.Time) uint64 {
	return uint64(t.Unix() + MacEpochOffset)
}

// UnpackLanguage expands a packed ISO-639-2/T code: three 5-bit letters offset from 0x60.
func UnpackLanguage(v uint16) string {
	var b [3]byte
	for i := 0; i < 3; i++ {
		b[2-i] = byte((v>>(i*languageLetterBits))&languageMask) + languageBase
	}
	return string(b[:])
}

// PackLanguage is the inverse of UnpackLanguage for three lowercase ASCII letters.
func PackLanguage(lang string) (uint16, error) {
	if len(lang) != 3 {
		return 0, ErrInvalidLanguage
	}
	var v uint16
	for i := 0; i < 3; i++ {
		ch := lang[i]
		if ch < 'a' || ch > 'z' {
			return 0, ErrInvalidLanguage
		}
		v = v<<languageLetterBits | uint16(ch-languageBase)
	}
	return v, nil
}

func readTag(c *pio.Cursor) (Tag, error) {
	v, err := c.U32()
	return Tag(v), err
}
