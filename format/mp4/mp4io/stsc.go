package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const (
	STSC = Tag(0x73747363)
	STCO = Tag(0x7374636f)
	CO64 = Tag(0x636f3634)
	STSS = Tag(0x73747373)
)

const LenSampleToChunkEntry = 12

type SampleToChunkEntry struct {
	FirstChunk      uint32
	SamplesPerChunk uint32
	SampleDescID    uint32
}

// SampleToChunk is the payload of stsc.
type SampleToChunk struct {
	Entries []SampleToChunkEntry
}

func (*SampleToChunk) isFields() {}

func decodeSampleToChunk(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	count, err := c.U32()
	if err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}
	if err = c.CheckTable(uint64(count), LenSampleToChunkEntry); err != nil {
		return nil, parseErr("SampleToChunkEntry", c.Offset(), err)
	}
	t := &SampleToChunk{Entries: make([]SampleToChunkEntry, count)}
	for i := range t.Entries {
		t.Entries[i].FirstChunk, _ = c.U32()
		t.Entries[i].SamplesPerChunk, _ = c.U32()
		t.Entries[i].SampleDescID, _ = c.U32()
	}
	return t, nil
}

// ChunkOffset is the payload of stco and co64. Offsets are absolute file positions.
type ChunkOffset struct {
	Entries []uint64
}

func (*ChunkOffset) isFields() {}

func decodeChunkOffset(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	width := 4
	if box.Type == CO64 {
		width = 8
	}
	count, err := c.U32()
	if err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}
	if err = c.CheckTable(uint64(count), width); err != nil {
		return nil, parseErr("Entries", c.Offset(), err)
	}
	t := &ChunkOffset{Entries: make([]uint64, count)}
	for i := range t.Entries {
		if width == 8 {
			t.Entries[i], _ = c.U64()
		} else {
			v, _ := c.U32()
			t.Entries[i] = uint64(v)
		}
	}
	return t, nil
}

// SyncSample is the payload of stss: 1-based numbers of the random access samples.
type SyncSample struct {
	Entries []uint32
}

func (*SyncSample) isFields() {}

func decodeSyncSample(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	count, err := c.U32()
	if err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}
	if err = c.CheckTable(uint64(count), 4); err != nil {
		return nil, parseErr("Entries", c.Offset(), err)
	}
	t := &SyncSample{Entries: make([]uint32, count)}
	for i := range t.Entries {
		t.Entries[i], _ = c.U32()
	}
	return t, nil
}

func init() {
	register(STSC, boxDef{full: true, decode: decodeSampleToChunk})
	register(STCO, boxDef{full: true, decode: decodeChunkOffset})
	register(CO64, boxDef{full: true, decode: decodeChunkOffset})
	register(STSS, boxDef{full: true, decode: decodeSyncSample})
}
