package mp4io

import (
	"time"

	"github.com/ugparu/bmff/utils/bits/pio"
)

const (
	mvhdReserved     = 10
	mvhdPreDefined   = 24
	fixed16Int       = 16
	fixed16Frac      = 16
	fixed8Int        = 8
	fixed8Frac       = 8
	maxHeaderVersion = 1
)

// MovieHeader is the payload of mvhd. Times are seconds since 1904-01-01 UTC, durations are in Timescale units.
type MovieHeader struct {
	CreationTime     uint64
	ModificationTime uint64
	Timescale        uint32
	Duration         uint64
	Rate             FixedPoint // 16.16, 1.0 is normal speed
	Volume           FixedPoint // 8.8, 1.0 is full volume
	Matrix           Matrix
	NextTrackID      uint32
}

func (*MovieHeader) isFields() {}

func (m *MovieHeader) Created() time.Time {
	return MacTime(m.CreationTime)
}

func (m *MovieHeader) Modified() time.Time {
	return MacTime(m.ModificationTime)
}

// DurationTime converts Duration to a time.Duration. Zero Timescale yields zero.
func (m *MovieHeader) DurationTime() time.Duration {
	return scaleDuration(m.Duration, m.Timescale)
}

func scaleDuration(d uint64, timescale uint32) time.Duration {
	if timescale == 0 {
		return 0
	}
	sec := d / uint64(timescale)
	rem := d % uint64(timescale)
	return time.Duration(sec)*time.Second + time.Duration(rem)*time.Second/time.Duration(timescale)
}

// checkVersion fails with ErrUnsupportedBoxLayout when the full box version is newer than maxVersion.
func checkVersion(box *Box, maxVersion uint8) error {
	if box.Version > maxVersion {
		return parseErr("Version", box.Offset+box.HeaderLen, ErrUnsupportedBoxLayout)
	}
	return nil
}

// readVersioned reads a field that is 32 bits wide in version 0 boxes and 64 bits wide otherwise.
func readVersioned(c *pio.Cursor, version uint8) (uint64, error) {
	if version == 1 {
		return c.U64()
	}
	v, err := c.U32()
	return uint64(v), err
}

func decodeMovieHeader(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	if err := checkVersion(box, maxHeaderVersion); err != nil {
		return nil, err
	}
	m := &MovieHeader{}
	var err error
	if m.CreationTime, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("CreationTime", c.Offset(), err)
	}
	if m.ModificationTime, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("ModificationTime", c.Offset(), err)
	}
	if m.Timescale, err = c.U32(); err != nil {
		return nil, parseErr("Timescale", c.Offset(), err)
	}
	if m.Duration, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("Duration", c.Offset(), err)
	}
	if m.Rate, err = c.Fixed(fixed16Int, fixed16Frac); err != nil {
		return nil, parseErr("Rate", c.Offset(), err)
	}
	if m.Volume, err = c.Fixed(fixed8Int, fixed8Frac); err != nil {
		return nil, parseErr("Volume", c.Offset(), err)
	}
	if err = c.Skip(mvhdReserved); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	if m.Matrix, err = readMatrix(c); err != nil {
		return nil, parseErr("Matrix", c.Offset(), err)
	}
	if err = c.Skip(mvhdPreDefined); err != nil {
		return nil, parseErr("PreDefined", c.Offset(), err)
	}
	if m.NextTrackID, err = c.U32(); err != nil {
		return nil, parseErr("NextTrackID", c.Offset(), err)
	}
	return m, nil
}

func init() {
	register(MVHD, boxDef{full: true, decode: decodeMovieHeader})
}
