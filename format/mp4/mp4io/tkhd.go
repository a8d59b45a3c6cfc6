package mp4io

import (
	"time"

	"github.com/ugparu/bmff/utils/bits/pio"
)

const (
	TKHDEnabled   = uint32(0x01)
	TKHDInMovie   = uint32(0x02)
	TKHDInPreview = uint32(0x04)

	tkhdReserved1 = 4
	tkhdReserved2 = 8
	tkhdReserved3 = 2
)

// TrackHeader is the payload of tkhd. Width and Height are 16.16 presentation sizes.
type TrackHeader struct {
	CreationTime     uint64
	ModificationTime uint64
	TrackID          uint32
	Duration         uint64 // in movie timescale units
	Layer            int16
	AlternateGroup   int16
	Volume           FixedPoint
	Matrix           Matrix
	Width            FixedPoint
	Height           FixedPoint
}

func (*TrackHeader) isFields() {}

func (t *TrackHeader) Created() time.Time {
	return MacTime(t.CreationTime)
}

func (t *TrackHeader) Modified() time.Time {
	return MacTime(t.ModificationTime)
}

func decodeTrackHeader(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	if err := checkVersion(box, maxHeaderVersion); err != nil {
		return nil, err
	}
	t := &TrackHeader{}
	var err error
	if t.CreationTime, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("CreationTime", c.Offset(), err)
	}
	if t.ModificationTime, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("ModificationTime", c.Offset(), err)
	}
	if t.TrackID, err = c.U32(); err != nil {
		return nil, parseErr("TrackID", c.Offset(), err)
	}
	if err = c.Skip(tkhdReserved1); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	if t.Duration, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("Duration", c.Offset(), err)
	}
	if err = c.Skip(tkhdReserved2); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	if t.Layer, err = c.I16(); err != nil {
		return nil, parseErr("Layer", c.Offset(), err)
	}
	if t.AlternateGroup, err = c.I16(); err != nil {
		return nil, parseErr("AlternateGroup", c.Offset(), err)
	}
	if t.Volume, err = c.Fixed(fixed8Int, fixed8Frac); err != nil {
		return nil, parseErr("Volume", c.Offset(), err)
	}
	if err = c.Skip(tkhdReserved3); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	if t.Matrix, err = readMatrix(c); err != nil {
		return nil, parseErr("Matrix", c.Offset(), err)
	}
	if t.Width, err = c.Fixed(fixed16Int, fixed16Frac); err != nil {
		return nil, parseErr("Width", c.Offset(), err)
	}
	if t.Height, err = c.Fixed(fixed16Int, fixed16Frac); err != nil {
		return nil, parseErr("Height", c.Offset(), err)
	}
	return t, nil
}

func init() {
	register(TKHD, boxDef{full: true, decode: decodeTrackHeader})
}
