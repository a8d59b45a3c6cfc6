package mp4io

import (
	"bytes"

	"github.com/ugparu/bmff/utils/bits/pio"
)

const (
	DREF = Tag(0x64726566)
	URL  = Tag(0x75726c20)
	URN  = Tag(0x75726e20)
)

// DataRefSelfContained marks a data entry whose media lives in the same file.
const DataRefSelfContained = 0x01

// DataRefer is the payload of dref. The entries follow as child boxes.
type DataRefer struct {
	EntryCount uint32
}

func (*DataRefer) isFields() {}

func decodeDataRefer(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	count, err := c.U32()
	if err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}
	return &DataRefer{EntryCount: count}, nil
}

// DataReferUrl is the payload of url and urn entries.
type DataReferUrl struct {
	Name     string // urn only
	Location string
}

func (*DataReferUrl) isFields() {}

func decodeDataReferUrl(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	u := &DataReferUrl{}
	if box.HasFlag(DataRefSelfContained) {
		return u, nil
	}
	rest, _ := c.Bytes(c.Remaining())
	if box.Type == URN {
		var name []byte
		name, rest = cutString(rest)
		u.Name = string(name)
	}
	location, _ := cutString(rest)
	u.Location = string(location)
	return u, nil
}

// cutString splits a NUL-terminated string off b. An unterminated string takes all of b.
func cutString(b []byte) (s, rest []byte) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i], b[i+1:]
	}
	return b, nil
}

func init() {
	register(DREF, boxDef{full: true, container: true, decode: decodeDataRefer})
	register(URL, boxDef{full: true, decode: decodeDataReferUrl})
	register(URN, boxDef{full: true, decode: decodeDataReferUrl})
}
