package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const sbgpEntrySize = 8

type SampleToGroupEntry struct {
	SampleCount           uint32
	GroupDescriptionIndex uint32 // 1-based into the matching sgpd, 0 means no group
}

// SampleToGroup is the payload of sbgp.
type SampleToGroup struct {
	GroupingType          Tag
	GroupingTypeParameter uint32 // version 1 only
	Entries               []SampleToGroupEntry
}

func (*SampleToGroup) isFields() {}

func decodeSampleToGroup(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	s := &SampleToGroup{}
	var err error
	if s.GroupingType, err = readTag(c); err != nil {
		return nil, parseErr("GroupingType", c.Offset(), err)
	}
	if box.Version == 1 {
		if s.GroupingTypeParameter, err = c.U32(); err != nil {
			return nil, parseErr("GroupingTypeParameter", c.Offset(), err)
		}
	}
	var count uint32
	if count, err = c.U32(); err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}
	if err = c.CheckTable(uint64(count), sbgpEntrySize); err != nil {
		return nil, parseErr("Entries", c.Offset(), err)
	}
	s.Entries = make([]SampleToGroupEntry, count)
	for i := range s.Entries {
		s.Entries[i].SampleCount, _ = c.U32()
		s.Entries[i].GroupDescriptionIndex, _ = c.U32()
	}
	return s, nil
}

func init() {
	register(SBGP, boxDef{full: true, decode: decodeSampleToGroup})
}
