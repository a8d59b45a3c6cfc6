package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const ELST = Tag(0x656c7374)

type EditListEntry struct {
	SegmentDuration uint64 // movie timescale
	MediaTime       int64  // media timescale, -1 is an empty edit
	MediaRate       FixedPoint
}

// EditList is the payload of elst.
type EditList struct {
	Entries []EditListEntry
}

func (*EditList) isFields() {}

func decodeEditList(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	if err := checkVersion(box, maxHeaderVersion); err != nil {
		return nil, err
	}
	entrySize := 12
	if box.Version == 1 {
		entrySize = 20
	}
	count, err := c.U32()
	if err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}
	if err = c.CheckTable(uint64(count), entrySize); err != nil {
		return nil, parseErr("Entries", c.Offset(), err)
	}
	e := &EditList{Entries: make([]EditListEntry, count)}
	for i := range e.Entries {
		entry := &e.Entries[i]
		entry.SegmentDuration, _ = readVersioned(c, box.Version)
		if box.Version == 1 {
			entry.MediaTime, _ = c.I64()
		} else {
			t, _ := c.I32()
			entry.MediaTime = int64(t)
		}
		entry.MediaRate, _ = c.Fixed(fixed16Int, fixed16Frac)
	}
	return e, nil
}

func init() {
	register(ELST, boxDef{full: true, decode: decodeEditList})
}
