package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const (
	sidxReserved      = 2
	sidxReferenceSize = 12
	sidxTopBit        = uint32(1) << 31
	sidxSizeMask      = sidxTopBit - 1
	sidxSAPTypeShift  = 28
	sidxSAPTypeMask   = 0x7
	sidxSAPDeltaMask  = uint32(1)<<sidxSAPTypeShift - 1
)

// SegmentReference is one entry of a sidx reference table.
type SegmentReference struct {
	ReferenceType      bool // true: references another sidx, false: media
	ReferencedSize     uint32
	SubsegmentDuration uint32
	StartsWithSAP      bool
	SAPType            uint8
	SAPDeltaTime       uint32
}

// SegmentIndex is the payload of sidx.
type SegmentIndex struct {
	ReferenceID              uint32
	Timescale                uint32
	EarliestPresentationTime uint64
	FirstOffset              uint64
	References               []SegmentReference
}

func (*SegmentIndex) isFields() {}

func decodeSegmentIndex(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	if err := checkVersion(box, maxHeaderVersion); err != nil {
		return nil, err
	}
	s := &SegmentIndex{}
	var err error
	if s.ReferenceID, err = c.U32(); err != nil {
		return nil, parseErr("ReferenceID", c.Offset(), err)
	}
	if s.Timescale, err = c.U32(); err != nil {
		return nil, parseErr("Timescale", c.Offset(), err)
	}
	if s.EarliestPresentationTime, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("EarliestPresentationTime", c.Offset(), err)
	}
	if s.FirstOffset, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("FirstOffset", c.Offset(), err)
	}
	if err = c.Skip(sidxReserved); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	var count uint16
	if count, err = c.U16(); err != nil {
		return nil, parseErr("ReferenceCount", c.Offset(), err)
	}
	if err = c.CheckTable(uint64(count), sidxReferenceSize); err != nil {
		return nil, parseErr("References", c.Offset(), err)
	}
	s.References = make([]SegmentReference, count)
	for i := range s.References {
		ref := &s.References[i]
		v, _ := c.U32()
		ref.ReferenceType = v&sidxTopBit != 0
		ref.ReferencedSize = v & sidxSizeMask
		ref.SubsegmentDuration, _ = c.U32()
		v, _ = c.U32()
		ref.StartsWithSAP = v&sidxTopBit != 0
		ref.SAPType = uint8(v >> sidxSAPTypeShift & sidxSAPTypeMask)
		ref.SAPDeltaTime = v & sidxSAPDeltaMask
	}
	return s, nil
}

func init() {
	register(SIDX, boxDef{full: true, decode: decodeSegmentIndex})
}
