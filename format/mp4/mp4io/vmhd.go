package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const VMHD = Tag(0x766d6864)

// VideoMediaInfo is the payload of vmhd.
type VideoMediaInfo struct {
	GraphicsMode uint16
	Opcolor      [3]uint16
}

func (*VideoMediaInfo) isFields() {}

func decodeVideoMediaInfo(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	v := &VideoMediaInfo{}
	var err error
	if v.GraphicsMode, err = c.U16(); err != nil {
		return nil, parseErr("GraphicsMode", c.Offset(), err)
	}
	if err = c.CheckTable(uint64(len(v.Opcolor)), 2); err != nil {
		return nil, parseErr("Opcolor", c.Offset(), err)
	}
	for i := range v.Opcolor {
		v.Opcolor[i], _ = c.U16()
	}
	return v, nil
}

func init() {
	register(VMHD, boxDef{full: true, decode: decodeVideoMediaInfo})
}
