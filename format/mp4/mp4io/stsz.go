package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const STSZ = Tag(0x7374737a)

// SampleSize is the payload of stsz. Entries is only present when SampleSize is 0.
type SampleSize struct {
	SampleSize  uint32
	SampleCount uint32
	Entries     []uint32
}

func (*SampleSize) isFields() {}

// Size returns the size of sample i (0-based).
func (s *SampleSize) Size(i int) uint32 {
	if s.SampleSize != 0 {
		return s.SampleSize
	}
	if i < 0 || i >= len(s.Entries) {
		return 0
	}
	return s.Entries[i]
}

func decodeSampleSize(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	s := &SampleSize{}
	var err error
	if s.SampleSize, err = c.U32(); err != nil {
		return nil, parseErr("SampleSize", c.Offset(), err)
	}
	if s.SampleCount, err = c.U32(); err != nil {
		return nil, parseErr("SampleCount", c.Offset(), err)
	}
	if s.SampleSize != 0 {
		return s, nil
	}
	if err = c.CheckTable(uint64(s.SampleCount), 4); err != nil {
		return nil, parseErr("uint32", c.Offset(), err)
	}
	s.Entries = make([]uint32, s.SampleCount)
	for i := range s.Entries {
		s.Entries[i], _ = c.U32()
	}
	return s, nil
}

func init() {
	register(STSZ, boxDef{full: true, decode: decodeSampleSize})
}
