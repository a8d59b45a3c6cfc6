package mp4io

import (
	"bytes"
	"testing"

	mp4 "github.com/abema/go-mp4"
	"github.com/stretchr/testify/require"

	"github.com/ugparu/bmff/utils/bits/pio"
)

func u8(v uint8) []byte {
	return []byte{v}
}

func u16(v uint16) []byte {
	b := make([]byte, 2)
	pio.PutU16BE(b, v)
	return b
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	pio.PutU32BE(b, v)
	return b
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	pio.PutU64BE(b, v)
	return b
}

func cat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// mkBox builds a box with a compact header around the concatenated payload parts.
func mkBox(typ string, payload ...[]byte) []byte {
	p := cat(payload...)
	return cat(u32(uint32(HeaderSize+len(p))), []byte(typ), p)
}

func mkFullBox(typ string, version uint8, flags uint32, payload ...[]byte) []byte {
	return mkBox(typ, append([][]byte{u32(uint32(version)<<24 | flags)}, payload...)...)
}

// marshalBox encodes src with github.com/abema/go-mp4 and adds a compact header.
func marshalBox(t *testing.T, src mp4.IImmutableBox) []byte {
	t.Helper()
	var payload bytes.Buffer
	_, err := mp4.Marshal(&payload, src, mp4.Context{})
	require.NoError(t, err)
	return mkBox(src.GetType().String(), payload.Bytes())
}

func fullBox(version uint8, flags uint32) mp4.FullBox {
	return mp4.FullBox{
		Version: version,
		Flags:   [3]byte{byte(flags >> 16), byte(flags >> 8), byte(flags)},
	}
}

// decodeOne parses buf, which must hold exactly one top-level box, and returns that box.
func decodeOne(t *testing.T, p *Parser, buf []byte) *Box {
	t.Helper()
	root := p.Parse(buf)
	require.Len(t, root.Children, 1)
	return root.Children[0]
}

func fieldsOf[T Fields](t *testing.T, b *Box) T {
	t.Helper()
	require.NoError(t, b.Err)
	f, ok := FieldsAs[T](b)
	require.True(t, ok, "unexpected fields %T", b.Fields)
	return f
}

var identityMatrix = [9]int32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000}

// visualPrefix returns the 78-byte fixed part of a visual sample entry.
func visualPrefix(width, height uint16) []byte {
	name := make([]byte, compressorNameLen)
	name[0] = 4
	copy(name[1:], "test")
	return cat(
		make([]byte, sampleEntryReserved), u16(1),
		make([]byte, visualPreDefined),
		u16(width), u16(height),
		u32(0x00480000), u32(0x00480000),
		u32(0), u16(1),
		name,
		u16(0x18), u16(0xffff),
	)
}

var (
	testSPS   = []byte{0x67, 0x64, 0x00, 0x28}
	testPPS   = []byte{0x68, 0xee}
	avcRecord = cat([]byte{1, 0x64, 0, 0x28, 0xff, 0xe1}, u16(4), testSPS, []byte{1}, u16(2), testPPS)
)

// esdsPayload builds an ES descriptor chain for AAC-LC, 2 channels at 48 kHz.
func esdsPayload() []byte {
	decSpecific := []byte{MP4DecSpecificDescrTag, 2, 0x11, 0x90}
	decConfig := cat([]byte{MP4DecConfigDescrTag, byte(13 + len(decSpecific)), 0x40, 0x15}, []byte{0, 0x18, 0},
		u32(128000), u32(96000), decSpecific)
	slConfig := []byte{MP4SLConfigDescrTag, 1, 2}
	return cat([]byte{MP4ESDescrTag, byte(3 + len(decConfig) + len(slConfig))}, u16(1), []byte{0}, decConfig, slConfig)
}

// sampleInit builds an init segment: ftyp followed by a single-track fragmented moov.
func sampleInit(t *testing.T) []byte {
	t.Helper()
	lang, err := PackLanguage("und")
	require.NoError(t, err)

	ftyp := marshalBox(t, &mp4.Ftyp{
		MajorBrand:   [4]byte{'i', 's', 'o', '6'},
		MinorVersion: 0x200,
		CompatibleBrands: []mp4.CompatibleBrandElem{
			{CompatibleBrand: [4]byte{'c', 'm', 'f', 'c'}},
			{CompatibleBrand: [4]byte{'d', 'a', 's', 'h'}},
		},
	})
	mvhd := marshalBox(t, &mp4.Mvhd{
		FullBox:     fullBox(0, 0),
		Timescale:   1000,
		DurationV0:  5000,
		Rate:        0x00010000,
		Volume:      0x0100,
		Matrix:      identityMatrix,
		NextTrackID: 2,
	})
	tkhd := marshalBox(t, &mp4.Tkhd{
		FullBox: fullBox(0, TKHDEnabled|TKHDInMovie),
		TrackID: 1,
		Matrix:  identityMatrix,
		Width:   1920 << 16,
		Height:  1080 << 16,
	})
	mdhd := mkFullBox("mdhd", 0, 0, u32(0), u32(0), u32(90000), u32(0), u16(lang), u16(0))
	hdlr := marshalBox(t, &mp4.Hdlr{
		FullBox:     fullBox(0, 0),
		HandlerType: [4]byte{'v', 'i', 'd', 'e'},
		Name:        "VideoHandler",
	})
	avc1 := mkBox("avc1", visualPrefix(1920, 1080), mkBox("avcC", avcRecord))
	stbl := mkBox("stbl", mkFullBox("stsd", 0, 0, u32(1), avc1))
	mdia := mkBox("mdia", mdhd, hdlr, mkBox("minf", stbl))
	trak := mkBox("trak", tkhd, mdia)
	mvex := mkBox("mvex", marshalBox(t, &mp4.Trex{
		FullBox:                       fullBox(0, 0),
		TrackID:                       1,
		DefaultSampleDescriptionIndex: 1,
	}))
	return cat(ftyp, mkBox("moov", mvhd, trak, mvex))
}

// sampleFragment builds a media segment: moof with one traf followed by mdat.
func sampleFragment(t *testing.T) []byte {
	t.Helper()
	mfhd := marshalBox(t, &mp4.Mfhd{FullBox: fullBox(0, 0), SequenceNumber: 7})
	tfhd := marshalBox(t, &mp4.Tfhd{
		FullBox:               fullBox(0, TFHDDefaultDuration|TFHDDefaultBaseIsMOOF),
		TrackID:               1,
		DefaultSampleDuration: 3000,
	})
	tfdt := marshalBox(t, &mp4.Tfdt{FullBox: fullBox(1, 0), BaseMediaDecodeTimeV1: 1 << 33})
	trun := marshalBox(t, &mp4.Trun{
		FullBox:     fullBox(0, TRUNDataOffset|TRUNSampleSize),
		SampleCount: 3,
		DataOffset:  100,
		Entries: []mp4.TrunEntry{
			{SampleSize: 10},
			{SampleSize: 20},
			{SampleSize: 30},
		},
	})
	moof := mkBox("moof", mfhd, mkBox("traf", tfhd, tfdt, trun))
	return cat(moof, mkBox("mdat", make([]byte, 60)))
}
