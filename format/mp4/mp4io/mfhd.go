package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

type MovieFragHeader struct {
	SequenceNumber uint32
}

func (*MovieFragHeader) isFields() {}

func decodeMovieFragHeader(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	seq, err := c.U32()
	if err != nil {
		return nil, parseErr("SequenceNumber", c.Offset(), err)
	}
	return &MovieFragHeader{SequenceNumber: seq}, nil
}

func init() {
	register(MFHD, boxDef{full: true, decode: decodeMovieFragHeader})
}
