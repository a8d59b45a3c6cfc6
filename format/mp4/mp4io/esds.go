package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const (
	MP4ESDescrTag          = 3
	MP4DecConfigDescrTag   = 4
	MP4DecSpecificDescrTag = 5
	MP4SLConfigDescrTag    = 6
)

const ESDS = Tag(0x65736473)

const (
	esStreamDependenceFlag = 0x80
	esURLFlag              = 0x40
	esOCRStreamFlag        = 0x20
	maxDescrLengthBytes    = 4
	decConfigFixedSize     = 13
	maxDescrDepth          = 8 // ES > DecoderConfig > DecoderSpecific is 3 deep
)

// ElemStreamDesc is the payload of esds, the MPEG-4 ES descriptor chain.
type ElemStreamDesc struct {
	TrackId              uint16
	ObjectTypeIndication uint8 // 0x40 is AAC
	StreamType           uint8
	BufferSizeDB         uint32
	MaxBitrate           uint32
	AvgBitrate           uint32
	DecConfig            []byte // DecoderSpecificInfo, e.g. AudioSpecificConfig, copied
}

func (*ElemStreamDesc) isFields() {}

func decodeElemStreamDesc(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	esds := &ElemStreamDesc{}
	if err := esds.parseDesc(c, 1); err != nil {
		return nil, err
	}
	return esds, nil
}

// parseDesc reads one descriptor and recurses into the ones it nests.
func (esds *ElemStreamDesc) parseDesc(c *pio.Cursor, depth int) error {
	if depth > maxDescrDepth {
		return parseErr("Descriptor", c.Offset(), ErrNestingTooDeep)
	}
	tag, err := c.U8()
	if err != nil {
		return parseErr("tag", c.Offset(), err)
	}
	datalen, err := parseDescLength(c)
	if err != nil {
		return err
	}
	body, err := c.Bytes(datalen)
	if err != nil {
		return parseErr("datalen", c.Offset(), err)
	}
	d := pio.NewCursor(body, c.Offset()-datalen)

	switch tag {
	case MP4ESDescrTag:
		if esds.TrackId, err = d.U16(); err != nil {
			return parseErr("MP4ESDescrTag", d.Offset(), err)
		}
		flags, err := d.U8()
		if err != nil {
			return parseErr("MP4ESDescrTag", d.Offset(), err)
		}
		if flags&esStreamDependenceFlag != 0 {
			if err = d.Skip(2); err != nil {
				return parseErr("DependsOnESID", d.Offset(), err)
			}
		}
		if flags&esURLFlag != 0 {
			n, err := d.U8()
			if err != nil {
				return parseErr("URLLength", d.Offset(), err)
			}
			if err = d.Skip(int(n)); err != nil {
				return parseErr("URL", d.Offset(), err)
			}
		}
		if flags&esOCRStreamFlag != 0 {
			if err = d.Skip(2); err != nil {
				return parseErr("OCRESID", d.Offset(), err)
			}
		}
	case MP4DecConfigDescrTag:
		b, err := d.Bytes(decConfigFixedSize)
		if err != nil {
			return parseErr("MP4DecConfigDescrTag", d.Offset(), err)
		}
		esds.ObjectTypeIndication = b[0]
		esds.StreamType = b[1] >> 2
		esds.BufferSizeDB = pio.U24BE(b[2:])
		esds.MaxBitrate = pio.U32BE(b[5:])
		esds.AvgBitrate = pio.U32BE(b[9:])
	case MP4DecSpecificDescrTag:
		esds.DecConfig = clone(body)
		return nil
	default:
		return nil
	}

	for d.Remaining() > 0 {
		if err = esds.parseDesc(d, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// parseDescLength reads the expandable size field: up to four bytes of seven bits each.
func parseDescLength(c *pio.Cursor) (int, error) {
	length := 0
	for range maxDescrLengthBytes {
		b, err := c.U8()
		if err != nil {
			return 0, parseErr("len", c.Offset(), err)
		}
		length = length<<7 | int(b&0x7f)
		if b&0x80 == 0 {
			break
		}
	}
	return length, nil
}

func init() {
	register(ESDS, boxDef{full: true, decode: decodeElemStreamDesc})
}
