package mp4io

import (
	"bytes"

	"github.com/ugparu/bmff/utils/bits/pio"
)

const hdlrReserved = 12

// HandlerRef is the payload of hdlr.
type HandlerRef struct {
	PreDefined  uint32 // QuickTime component type, 0 in ISO files
	HandlerType Tag    // vide, soun, hint, meta...
	Name        string
}

func (*HandlerRef) isFields() {}

func decodeHandlerRef(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	h := &HandlerRef{}
	var err error
	if h.PreDefined, err = c.U32(); err != nil {
		return nil, parseErr("PreDefined", c.Offset(), err)
	}
	if h.HandlerType, err = readTag(c); err != nil {
		return nil, parseErr("HandlerType", c.Offset(), err)
	}
	if err = c.Skip(hdlrReserved); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	name, _ := c.Bytes(c.Remaining())
	// QuickTime writes a counted string.
	if h.PreDefined != 0 && len(name) > 0 && int(name[0]) == len(name)-1 {
		name = name[1:]
	}
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	h.Name = string(name)
	return h, nil
}

func init() {
	register(HDLR, boxDef{full: true, decode: decodeHandlerRef})
}
