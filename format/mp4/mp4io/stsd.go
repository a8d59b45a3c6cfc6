package mp4io

import (
	"bytes"

	"github.com/ugparu/bmff/utils/bits/pio"
)

const (
	sampleEntryReserved    = 6
	visualPreDefined       = 16
	visualReserved         = 4
	compressorNameLen      = 32
	audioReserved          = 6
	audioVendorLen         = 4
	audioQuickTimeV1Extras = 16
	audioQuickTimeV2Extras = 36
)

// SampleDescription is the payload prefix of stsd. The sample entries follow as children.
type SampleDescription struct {
	EntryCount uint32
}

func (*SampleDescription) isFields() {}

// VisualSampleEntry is the fixed prefix of video sample entries (avc1, hvc1, encv...).
// Codec configuration boxes such as avcC and sinf follow as children.
type VisualSampleEntry struct {
	DataReferenceIndex uint16
	Width              uint16
	Height             uint16
	HorizResolution    FixedPoint
	VertResolution     FixedPoint
	FrameCount         uint16
	CompressorName     string
	Depth              uint16
}

func (*VisualSampleEntry) isFields() {}

// AudioSampleEntry is the fixed prefix of audio sample entries (mp4a, enca).
type AudioSampleEntry struct {
	DataReferenceIndex uint16
	SoundVersion       uint16 // QuickTime sound description version, 0 in ISO files
	ChannelCount       uint16
	SampleSize         uint16
	SampleRate         uint32 // unsigned 16.16
}

func (*AudioSampleEntry) isFields() {}

func (a *AudioSampleEntry) SampleRateHz() uint32 {
	return a.SampleRate >> 16
}

func decodeSampleDescription(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	n, err := c.U32()
	if err != nil {
		return nil, parseErr("EntryCount", c.Offset(), err)
	}
	return &SampleDescription{EntryCount: n}, nil
}

func decodeVisualSampleEntry(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	v := &VisualSampleEntry{}
	var err error
	if err = c.Skip(sampleEntryReserved); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	if v.DataReferenceIndex, err = c.U16(); err != nil {
		return nil, parseErr("DataReferenceIndex", c.Offset(), err)
	}
	if err = c.Skip(visualPreDefined); err != nil {
		return nil, parseErr("PreDefined", c.Offset(), err)
	}
	if v.Width, err = c.U16(); err != nil {
		return nil, parseErr("Width", c.Offset(), err)
	}
	if v.Height, err = c.U16(); err != nil {
		return nil, parseErr("Height", c.Offset(), err)
	}
	if v.HorizResolution, err = c.Fixed(fixed16Int, fixed16Frac); err != nil {
		return nil, parseErr("HorizResolution", c.Offset(), err)
	}
	if v.VertResolution, err = c.Fixed(fixed16Int, fixed16Frac); err != nil {
		return nil, parseErr("VertResolution", c.Offset(), err)
	}
	if err = c.Skip(visualReserved); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	if v.FrameCount, err = c.U16(); err != nil {
		return nil, parseErr("FrameCount", c.Offset(), err)
	}
	var name []byte
	if name, err = c.Bytes(compressorNameLen); err != nil {
		return nil, parseErr("CompressorName", c.Offset(), err)
	}
	v.CompressorName = compressorName(name)
	if v.Depth, err = c.U16(); err != nil {
		return nil, parseErr("Depth", c.Offset(), err)
	}
	if _, err = c.I16(); err != nil {
		return nil, parseErr("PreDefined", c.Offset(), err)
	}
	return v, nil
}

// compressorName decodes the counted 32-byte name field, falling back to a NUL-terminated read.
func compressorName(b []byte) string {
	if n := int(b[0]); n > 0 && n < len(b) {
		return string(b[1 : 1+n])
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func decodeAudioSampleEntry(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	a := &AudioSampleEntry{}
	var err error
	if err = c.Skip(audioReserved); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	if a.DataReferenceIndex, err = c.U16(); err != nil {
		return nil, parseErr("DataReferenceIndex", c.Offset(), err)
	}
	if a.SoundVersion, err = c.U16(); err != nil {
		return nil, parseErr("SoundVersion", c.Offset(), err)
	}
	// revision level and vendor
	if err = c.Skip(2 + audioVendorLen); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	if a.ChannelCount, err = c.U16(); err != nil {
		return nil, parseErr("ChannelCount", c.Offset(), err)
	}
	if a.SampleSize, err = c.U16(); err != nil {
		return nil, parseErr("SampleSize", c.Offset(), err)
	}
	if err = c.Skip(4); err != nil {
		return nil, parseErr("PreDefined", c.Offset(), err)
	}
	if a.SampleRate, err = c.U32(); err != nil {
		return nil, parseErr("SampleRate", c.Offset(), err)
	}
	switch a.SoundVersion {
	case 0:
	case 1:
		err = c.Skip(audioQuickTimeV1Extras)
	case 2:
		err = c.Skip(audioQuickTimeV2Extras)
	default:
		return a, parseErr("SoundVersion", c.Offset(), ErrUnsupportedBoxLayout)
	}
	if err != nil {
		return nil, parseErr("SoundDescription", c.Offset(), err)
	}
	return a, nil
}

func init() {
	register(STSD, boxDef{full: true, container: true, decode: decodeSampleDescription})
	for _, tag := range []Tag{AVC1, AVC3, HVC1, HEV1, MP4V, MJPG, ENCV} {
		register(tag, boxDef{container: true, decode: decodeVisualSampleEntry})
	}
	for _, tag := range []Tag{MP4A, ENCA} {
		register(tag, boxDef{container: true, decode: decodeAudioSampleEntry})
	}
}
