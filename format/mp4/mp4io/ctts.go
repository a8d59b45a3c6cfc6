package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const CTTS = Tag(0x63747473)

const LenCompositionOffsetEntry = 8

type CompositionOffsetEntry struct {
	Count  uint32
	Offset int64 // unsigned in version 0, signed in version 1
}

// CompositionOffset is the payload of ctts.
type CompositionOffset struct {
	Entries []CompositionOffsetEntry
}

func (*CompositionOffset) isFields() {}

func decodeCompositionOffset(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	if err := checkVersion(box, 1); err != nil {
		return nil, err
	}
	count, err := c.U32()
	if err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}
	if err = c.CheckTable(uint64(count), LenCompositionOffsetEntry); err != nil {
		return nil, parseErr("CompositionOffsetEntry", c.Offset(), err)
	}
	t := &CompositionOffset{Entries: make([]CompositionOffsetEntry, count)}
	for i := range t.Entries {
		t.Entries[i].Count, _ = c.U32()
		v, _ := c.U32()
		if box.Version == 1 {
			t.Entries[i].Offset = int64(int32(v))
		} else {
			t.Entries[i].Offset = int64(v)
		}
	}
	return t, nil
}

func init() {
	register(CTTS, boxDef{full: true, decode: decodeCompositionOffset})
}
