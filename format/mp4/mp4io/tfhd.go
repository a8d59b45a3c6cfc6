package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const (
	TFHDBaseDataOffset    = uint32(0x01)
	TFHDStsdID            = uint32(0x02)
	TFHDDefaultDuration   = uint32(0x08)
	TFHDDefaultSize       = uint32(0x10)
	TFHDDefaultFlags      = uint32(0x20)
	TFHDDurationIsEmpty   = uint32(0x10000)
	TFHDDefaultBaseIsMOOF = uint32(0x20000)
)

// TrackFragHeader is the payload of tfhd. Optional fields are nil when their flag is clear.
type TrackFragHeader struct {
	TrackID                uint32
	BaseDataOffset         *uint64
	SampleDescriptionIndex *uint32
	DefaultSampleDuration  *uint32
	DefaultSampleSize      *uint32
	DefaultSampleFlags     *uint32
	DurationIsEmpty        bool
	DefaultBaseIsMoof      bool
}

func (*TrackFragHeader) isFields() {}

func decodeTrackFragHeader(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	t := &TrackFragHeader{
		DurationIsEmpty:   box.HasFlag(TFHDDurationIsEmpty),
		DefaultBaseIsMoof: box.HasFlag(TFHDDefaultBaseIsMOOF),
	}
	var err error
	if t.TrackID, err = c.U32(); err != nil {
		return nil, parseErr("TrackID", c.Offset(), err)
	}
	if box.HasFlag(TFHDBaseDataOffset) {
		var v uint64
		if v, err = c.U64(); err != nil {
			return nil, parseErr("BaseDataOffset", c.Offset(), err)
		}
		t.BaseDataOffset = &v
	}
	optional := []struct {
		flag  uint32
		name  string
		field **uint32
	}{
		{TFHDStsdID, "SampleDescriptionIndex", &t.SampleDescriptionIndex},
		{TFHDDefaultDuration, "DefaultSampleDuration", &t.DefaultSampleDuration},
		{TFHDDefaultSize, "DefaultSampleSize", &t.DefaultSampleSize},
		{TFHDDefaultFlags, "DefaultSampleFlags", &t.DefaultSampleFlags},
	}
	for _, o := range optional {
		if !box.HasFlag(o.flag) {
			continue
		}
		var v uint32
		if v, err = c.U32(); err != nil {
			return nil, parseErr(o.name, c.Offset(), err)
		}
		*o.field = &v
	}
	return t, nil
}

func init() {
	register(TFHD, boxDef{full: true, decode: decodeTrackFragHeader})
}
