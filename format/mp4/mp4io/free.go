package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

// MediaData locates the payload of an mdat box. The sample bytes are never copied.
type MediaData struct {
	DataOffset int // absolute offset of the first payload byte
	DataSize   uint64
}

func (*MediaData) isFields() {}

// Padding is the payload of free and skip. The content is ignored.
type Padding struct {
	Len int
}

func (*Padding) isFields() {}

func decodeMediaData(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	m := &MediaData{DataOffset: c.Offset(), DataSize: uint64(c.Remaining())}
	_ = c.Skip(c.Remaining())
	return m, nil
}

func decodePadding(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	p := &Padding{Len: c.Remaining()}
	_ = c.Skip(p.Len)
	return p, nil
}

// Bytes returns the mdat payload as a view of buf, the buffer the tree was decoded from.
func (m *MediaData) Bytes(buf []byte) ([]byte, error) {
	c := pio.NewCursor(buf, 0)
	if err := c.Skip(m.DataOffset); err != nil {
		return nil, err
	}
	return c.Bytes(int(m.DataSize))
}

func init() {
	register(MDAT, boxDef{decode: decodeMediaData})
	register(FREE, boxDef{decode: decodePadding})
	register(SKIP, boxDef{decode: decodePadding})
}
