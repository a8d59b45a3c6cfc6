package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const (
	SENCUseSubsamples = uint32(0x02)

	subsampleSize = 6
)

// Subsample is one clear/protected pair of a subsample-encrypted sample.
type Subsample struct {
	ClearBytes     uint16
	ProtectedBytes uint32
}

type SampleEncryptionEntry struct {
	IV         []byte
	Subsamples []Subsample
}

// SampleEncryption is the payload of senc. IVSize is the width the entries were decoded with.
type SampleEncryption struct {
	SampleCount uint32
	IVSize      int
	Samples     []SampleEncryptionEntry
}

func (*SampleEncryption) isFields() {}

// autoIVSizes is the order widths are tried in when the IV size is inferred.
var autoIVSizes = []int{8, 16, 0}

func decodeSampleEncryption(p *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	count, err := c.U32()
	if err != nil {
		return nil, parseErr("SampleCount", c.Offset(), err)
	}
	subsamples := box.HasFlag(SENCUseSubsamples)

	if p.ivSize == IVSizeAuto {
		for _, ivSize := range autoIVSizes {
			try := *c
			samples, err := readSencSamples(&try, count, ivSize, subsamples)
			if err == nil && try.Remaining() == 0 {
				*c = try
				return &SampleEncryption{SampleCount: count, IVSize: ivSize, Samples: samples}, nil
			}
		}
		return &SampleEncryption{SampleCount: count, IVSize: IVSizeAuto}, parseErr("IVSize", c.Offset(), ErrUnsupportedBoxLayout)
	}
	if p.ivSize < 0 {
		return nil, parseErr("IVSize", c.Offset(), ErrUnsupportedBoxLayout)
	}

	s := &SampleEncryption{SampleCount: count, IVSize: p.ivSize}
	if s.Samples, err = readSencSamples(c, count, p.ivSize, subsamples); err != nil {
		return nil, err
	}
	if c.Remaining() > 0 {
		return s, parseErr("Samples", c.Offset(), ErrUnsupportedBoxLayout)
	}
	return s, nil
}

func readSencSamples(c *pio.Cursor, count uint32, ivSize int, subsamples bool) ([]SampleEncryptionEntry, error) {
	minSize := ivSize
	if subsamples {
		minSize += 2
	}
	if minSize == 0 {
		return nil, nil
	}
	if err := c.CheckTable(uint64(count), minSize); err != nil {
		return nil, parseErr("Samples", c.Offset(), err)
	}
	samples := make([]SampleEncryptionEntry, count)
	for i := range samples {
		s := &samples[i]
		var err error
		if ivSize > 0 {
			if s.IV, err = c.CopyBytes(ivSize); err != nil {
				return nil, parseErr("IV", c.Offset(), err)
			}
		}
		if !subsamples {
			continue
		}
		var n uint16
		if n, err = c.U16(); err != nil {
			return nil, parseErr("SubsampleCount", c.Offset(), err)
		}
		if err = c.CheckTable(uint64(n), subsampleSize); err != nil {
			return nil, parseErr("Subsamples", c.Offset(), err)
		}
		s.Subsamples = make([]Subsample, n)
		for j := range s.Subsamples {
			s.Subsamples[j].ClearBytes, _ = c.U16()
			s.Subsamples[j].ProtectedBytes, _ = c.U32()
		}
	}
	return samples, nil
}

func init() {
	register(SENC, boxDef{full: true, decode: decodeSampleEncryption})
}
