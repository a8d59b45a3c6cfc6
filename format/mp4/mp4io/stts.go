package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const STTS = Tag(0x73747473)

const LenTimeToSampleEntry = 8

type TimeToSampleEntry struct {
	Count    uint32
	Duration uint32
}

// TimeToSample is the payload of stts: run-length coded sample durations.
type TimeToSample struct {
	Entries []TimeToSampleEntry
}

func (*TimeToSample) isFields() {}

// SampleCount sums the runs.
func (t *TimeToSample) SampleCount() (n uint64) {
	for _, e := range t.Entries {
		n += uint64(e.Count)
	}
	return
}

func decodeTimeToSample(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	count, err := c.U32()
	if err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}
	if err = c.CheckTable(uint64(count), LenTimeToSampleEntry); err != nil {
		return nil, parseErr("TimeToSampleEntry", c.Offset(), err)
	}
	t := &TimeToSample{Entries: make([]TimeToSampleEntry, count)}
	for i := range t.Entries {
		t.Entries[i].Count, _ = c.U32()
		t.Entries[i].Duration, _ = c.U32()
	}
	return t, nil
}

func init() {
	register(STTS, boxDef{full: true, decode: decodeTimeToSample})
}
