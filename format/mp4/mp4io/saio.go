package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

// SAIOAuxInfoType marks the presence of aux_info_type and aux_info_type_parameter in saio and saiz.
const SAIOAuxInfoType = uint32(0x01)

// AuxInfoType is the optional prefix shared by saio and saiz.
type AuxInfoType struct {
	AuxInfoType          Tag
	AuxInfoTypeParameter uint32
}

// AuxInfoOffsets is the payload of saio.
type AuxInfoOffsets struct {
	*AuxInfoType
	Offsets []uint64
}

func (*AuxInfoOffsets) isFields() {}

// AuxInfoSizes is the payload of saiz. SampleInfoSizes is nil when every sample uses DefaultSampleInfoSize.
type AuxInfoSizes struct {
	*AuxInfoType
	DefaultSampleInfoSize uint8
	SampleCount           uint32
	SampleInfoSizes       []uint8
}

func (*AuxInfoSizes) isFields() {}

// Size returns the aux info size of sample i.
func (a *AuxInfoSizes) Size(i int) uint8 {
	if a.DefaultSampleInfoSize != 0 || i >= len(a.SampleInfoSizes) {
		return a.DefaultSampleInfoSize
	}
	return a.SampleInfoSizes[i]
}

func readAuxInfoType(c *pio.Cursor, box *Box) (*AuxInfoType, error) {
	if !box.HasFlag(SAIOAuxInfoType) {
		return nil, nil
	}
	a := &AuxInfoType{}
	var err error
	if a.AuxInfoType, err = readTag(c); err != nil {
		return nil, parseErr("AuxInfoType", c.Offset(), err)
	}
	if a.AuxInfoTypeParameter, err = c.U32(); err != nil {
		return nil, parseErr("AuxInfoTypeParameter", c.Offset(), err)
	}
	return a, nil
}

func decodeAuxInfoOffsets(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	var err error
	a := &AuxInfoOffsets{}
	if a.AuxInfoType, err = readAuxInfoType(c, box); err != nil {
		return nil, err
	}
	var count uint32
	if count, err = c.U32(); err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}
	width := 4
	if box.Version != 0 {
		width = 8
	}
	if err = c.CheckTable(uint64(count), width); err != nil {
		return nil, parseErr("Offsets", c.Offset(), err)
	}
	a.Offsets = make([]uint64, count)
	for i := range a.Offsets {
		a.Offsets[i], _ = readVersioned(c, min(box.Version, 1))
	}
	return a, nil
}

func decodeAuxInfoSizes(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	var err error
	a := &AuxInfoSizes{}
	if a.AuxInfoType, err = readAuxInfoType(c, box); err != nil {
		return nil, err
	}
	if a.DefaultSampleInfoSize, err = c.U8(); err != nil {
		return nil, parseErr("DefaultSampleInfoSize", c.Offset(), err)
	}
	if a.SampleCount, err = c.U32(); err != nil {
		return nil, parseErr("SampleCount", c.Offset(), err)
	}
	if a.DefaultSampleInfoSize == 0 {
		if err = c.CheckTable(uint64(a.SampleCount), 1); err != nil {
			return nil, parseErr("SampleInfoSizes", c.Offset(), err)
		}
		a.SampleInfoSizes, _ = c.CopyBytes(int(a.SampleCount))
	}
	return a, nil
}

func init() {
	register(SAIO, boxDef{full: true, decode: decodeAuxInfoOffsets})
	register(SAIZ, boxDef{full: true, decode: decodeAuxInfoSizes})
}
