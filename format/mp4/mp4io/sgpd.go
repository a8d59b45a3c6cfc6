package mp4io

import (
	"github.com/google/uuid"

	"github.com/ugparu/bmff/utils/bits/pio"
)

const (
	seigFixedSize = 20
	kidSize       = 16
)

// CencGroupEntry is a seig sample group entry: per-group encryption parameters overriding tenc.
type CencGroupEntry struct {
	CryptByteBlock  uint8
	SkipByteBlock   uint8
	IsProtected     bool
	PerSampleIVSize uint8
	KID             uuid.UUID
	ConstantIV      []byte
}

// SampleGroupEntry is one sgpd entry. Raw always holds the entry bytes; Seig is set for seig groups.
type SampleGroupEntry struct {
	Raw  []byte
	Seig *CencGroupEntry
}

// SampleGroupDescription is the payload of sgpd. Tail keeps the undecoded entries of a box without entry lengths
// whose grouping type has no known entry layout.
type SampleGroupDescription struct {
	GroupingType                  Tag
	DefaultLength                 uint32 // version 1
	DefaultSampleDescriptionIndex uint32 // version 2 and later
	EntryCount                    uint32
	Entries                       []SampleGroupEntry
	Tail                          []byte
}

func (*SampleGroupDescription) isFields() {}

func decodeSampleGroupDescription(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	s := &SampleGroupDescription{}
	var err error
	if s.GroupingType, err = readTag(c); err != nil {
		return nil, parseErr("GroupingType", c.Offset(), err)
	}
	if box.Version == 1 {
		if s.DefaultLength, err = c.U32(); err != nil {
			return nil, parseErr("DefaultLength", c.Offset(), err)
		}
	}
	if box.Version >= 2 {
		if s.DefaultSampleDescriptionIndex, err = c.U32(); err != nil {
			return nil, parseErr("DefaultSampleDescriptionIndex", c.Offset(), err)
		}
	}
	if s.EntryCount, err = c.U32(); err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}

	// only version 1 carries entry lengths, other versions need a known entry layout
	if box.Version != 1 && s.GroupingType != SEIG {
		s.Tail, _ = c.CopyBytes(c.Remaining())
		return s, parseErr("Entries", c.Offset(), ErrUnsupportedBoxLayout)
	}
	minSize := seigFixedSize
	if box.Version == 1 {
		minSize = 4
		if s.DefaultLength != 0 {
			minSize = int(s.DefaultLength)
		}
	}
	if err = c.CheckTable(uint64(s.EntryCount), minSize); err != nil {
		return nil, parseErr("Entries", c.Offset(), err)
	}
	s.Entries = make([]SampleGroupEntry, s.EntryCount)
	for i := range s.Entries {
		e := &s.Entries[i]
		if box.Version != 1 {
			start := *c
			if e.Seig, err = readCencGroupEntry(c); err != nil {
				return nil, parseErr("Seig", c.Offset(), err)
			}
			e.Raw, _ = start.CopyBytes(start.Remaining() - c.Remaining())
			continue
		}
		length := s.DefaultLength
		if length == 0 {
			if length, err = c.U32(); err != nil {
				return nil, parseErr("DescriptionLength", c.Offset(), err)
			}
		}
		at := c.Offset()
		if e.Raw, err = c.CopyBytes(int(length)); err != nil {
			return nil, parseErr("Entry", at, err)
		}
		if s.GroupingType == SEIG {
			if e.Seig, err = readCencGroupEntry(pio.NewCursor(e.Raw, at)); err != nil {
				return nil, parseErr("Seig", at, err)
			}
		}
	}
	return s, nil
}

func readCencGroupEntry(c *pio.Cursor) (*CencGroupEntry, error) {
	e := &CencGroupEntry{}
	b, err := c.Bytes(seigFixedSize)
	if err != nil {
		return nil, err
	}
	pattern := b[1]
	e.CryptByteBlock = pattern >> 4
	e.SkipByteBlock = pattern & 0x0f
	e.IsProtected = b[2] == 1
	e.PerSampleIVSize = b[3]
	copy(e.KID[:], b[4:4+kidSize])
	if e.IsProtected && e.PerSampleIVSize == 0 {
		var n uint8
		if n, err = c.U8(); err != nil {
			return nil, err
		}
		if e.ConstantIV, err = c.CopyBytes(int(n)); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func init() {
	register(SGPD, boxDef{full: true, decode: decodeSampleGroupDescription})
}
