package mp4io

import (
	"github.com/google/uuid"

	"github.com/ugparu/bmff/utils/bits/pio"
)

// SCHMSchemeURI marks the presence of scheme_uri in schm.
const SCHMSchemeURI = uint32(0x01)

// OriginalFormat is the payload of frma: the sample entry type before encryption.
type OriginalFormat struct {
	DataFormat Tag
}

func (*OriginalFormat) isFields() {}

// SchemeType is the payload of schm.
type SchemeType struct {
	SchemeType    Tag // cenc, cbc1, cens or cbcs
	SchemeVersion uint32
	SchemeURI     string
}

func (*SchemeType) isFields() {}

// TrackEncryption is the payload of tenc. Pattern fields are zero in version 0.
type TrackEncryption struct {
	DefaultCryptByteBlock  uint8
	DefaultSkipByteBlock   uint8
	DefaultIsProtected     bool
	DefaultPerSampleIVSize uint8
	DefaultKID             uuid.UUID
	DefaultConstantIV      []byte
}

func (*TrackEncryption) isFields() {}

// IVSizeOption returns the parser option matching this track's senc boxes.
// Tracks using a constant IV carry no per-sample IVs.
func (t *TrackEncryption) IVSizeOption() Option {
	return WithIVSize(int(t.DefaultPerSampleIVSize))
}

func decodeOriginalFormat(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	tag, err := readTag(c)
	if err != nil {
		return nil, parseErr("DataFormat", c.Offset(), err)
	}
	return &OriginalFormat{DataFormat: tag}, nil
}

func decodeSchemeType(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	s := &SchemeType{}
	var err error
	if s.SchemeType, err = readTag(c); err != nil {
		return nil, parseErr("SchemeType", c.Offset(), err)
	}
	if s.SchemeVersion, err = c.U32(); err != nil {
		return nil, parseErr("SchemeVersion", c.Offset(), err)
	}
	if box.HasFlag(SCHMSchemeURI) {
		rest, _ := c.Bytes(c.Remaining())
		uri, _ := cutString(rest)
		s.SchemeURI = string(uri)
	}
	return s, nil
}

func decodeTrackEncryption(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	t := &TrackEncryption{}
	b, err := c.Bytes(4 + kidSize)
	if err != nil {
		return nil, parseErr("TrackEncryption", c.Offset(), err)
	}
	if box.Version >= 1 {
		t.DefaultCryptByteBlock = b[1] >> 4
		t.DefaultSkipByteBlock = b[1] & 0x0f
	}
	t.DefaultIsProtected = b[2] == 1
	t.DefaultPerSampleIVSize = b[3]
	copy(t.DefaultKID[:], b[4:])
	if t.DefaultIsProtected && t.DefaultPerSampleIVSize == 0 {
		var n uint8
		if n, err = c.U8(); err != nil {
			return nil, parseErr("DefaultConstantIVSize", c.Offset(), err)
		}
		if t.DefaultConstantIV, err = c.CopyBytes(int(n)); err != nil {
			return nil, parseErr("DefaultConstantIV", c.Offset(), err)
		}
	}
	return t, nil
}

func init() {
	register(FRMA, boxDef{decode: decodeOriginalFormat})
	register(SCHM, boxDef{full: true, decode: decodeSchemeType})
	register(TENC, boxDef{full: true, decode: decodeTrackEncryption})
}
