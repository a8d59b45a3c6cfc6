package mp4io

import (
	"math/bits"

	"github.com/ugparu/bmff/utils/bits/pio"
)

const (
	TRUNDataOffset       = uint32(0x01)
	TRUNFirstSampleFlags = uint32(0x04)
	TRUNSampleDuration   = uint32(0x100)
	TRUNSampleSize       = uint32(0x200)
	TRUNSampleFlags      = uint32(0x400)
	TRUNSampleCTS        = uint32(0x800)

	trunSampleFieldMask = TRUNSampleDuration | TRUNSampleSize | TRUNSampleFlags | TRUNSampleCTS
)

// TrackFragRunEntry holds the per-sample fields of a trun. Fields whose flag is clear are zero.
type TrackFragRunEntry struct {
	Duration              uint32
	Size                  uint32
	Flags                 uint32
	CompositionTimeOffset int64 // unsigned in version 0, signed in version 1
}

// TrackFragRun is the payload of trun. Entries is nil when no per-sample field is present.
type TrackFragRun struct {
	SampleCount      uint32
	DataOffset       *int32
	FirstSampleFlags *uint32
	Entries          []TrackFragRunEntry

	perSampleFlags bool
}

func (*TrackFragRun) isFields() {}

// SampleFlags returns the flags of sample i given the fragment default,
// applying FirstSampleFlags to the first sample only.
func (t *TrackFragRun) SampleFlags(i int, def uint32) uint32 {
	if i == 0 && t.FirstSampleFlags != nil {
		return *t.FirstSampleFlags
	}
	if t.perSampleFlags && i < len(t.Entries) {
		return t.Entries[i].Flags
	}
	return def
}

func decodeTrackFragRun(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	t := &TrackFragRun{perSampleFlags: box.HasFlag(TRUNSampleFlags)}
	var err error
	if t.SampleCount, err = c.U32(); err != nil {
		return nil, parseErr("SampleCount", c.Offset(), err)
	}
	if box.HasFlag(TRUNDataOffset) {
		var v int32
		if v, err = c.I32(); err != nil {
			return nil, parseErr("DataOffset", c.Offset(), err)
		}
		t.DataOffset = &v
	}
	if box.HasFlag(TRUNFirstSampleFlags) {
		var v uint32
		if v, err = c.U32(); err != nil {
			return nil, parseErr("FirstSampleFlags", c.Offset(), err)
		}
		t.FirstSampleFlags = &v
	}

	entrySize := 4 * bits.OnesCount32(box.Flags&trunSampleFieldMask)
	if entrySize == 0 {
		return t, nil
	}
	if err = c.CheckTable(uint64(t.SampleCount), entrySize); err != nil {
		return nil, parseErr("Entries", c.Offset(), err)
	}
	t.Entries = make([]TrackFragRunEntry, t.SampleCount)
	for i := range t.Entries {
		e := &t.Entries[i]
		if box.HasFlag(TRUNSampleDuration) {
			e.Duration, _ = c.U32()
		}
		if box.HasFlag(TRUNSampleSize) {
			e.Size, _ = c.U32()
		}
		if box.HasFlag(TRUNSampleFlags) {
			e.Flags, _ = c.U32()
		}
		if box.HasFlag(TRUNSampleCTS) {
			v, _ := c.U32()
			if box.Version == 0 {
				e.CompositionTimeOffset = int64(v)
			} else {
				e.CompositionTimeOffset = int64(int32(v))
			}
		}
	}
	return t, nil
}

func init() {
	register(TRUN, boxDef{full: true, decode: decodeTrackFragRun})
}
