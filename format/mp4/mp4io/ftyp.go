package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const bytesPerBrand = 4

// FileType is the payload of ftyp and styp.
type FileType struct {
	MajorBrand       Tag
	MinorVersion     uint32
	CompatibleBrands []Tag
}

func (*FileType) isFields() {}

// HasBrand reports whether brand is the major brand or one of the compatible brands.
func (f *FileType) HasBrand(brand Tag) bool {
	if f.MajorBrand == brand {
		return true
	}
	for _, b := range f.CompatibleBrands {
		if b == brand {
			return true
		}
	}
	return false
}

func decodeFileType(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	f := &FileType{}
	var err error
	if f.MajorBrand, err = readTag(c); err != nil {
		return nil, parseErr("MajorBrand", c.Offset(), err)
	}
	if f.MinorVersion, err = c.U32(); err != nil {
		return nil, parseErr("MinorVersion", c.Offset(), err)
	}
	f.CompatibleBrands = make([]Tag, 0, c.Remaining()/bytesPerBrand)
	for c.Remaining() >= bytesPerBrand {
		brand, _ := readTag(c)
		f.CompatibleBrands = append(f.CompatibleBrands, brand)
	}
	if c.Remaining() > 0 {
		return f, parseErr("CompatibleBrands", c.Offset(), ErrUnsupportedBoxLayout)
	}
	return f, nil
}

func init() {
	register(FTYP, boxDef{decode: decodeFileType})
	register(STYP, boxDef{decode: decodeFileType})
}
