package mp4io

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParse_InitSegment(t *testing.T) {
	t.Parallel()

	buf := sampleInit(t)
	root := Parse(buf)
	require.Empty(t, root.Errors())
	require.Equal(t, KindContainer, root.Kind)
	require.Equal(t, uint64(len(buf)), root.Size)
	require.Len(t, root.Children, 2)

	ftyp := fieldsOf[*FileType](t, root.Children[0])
	require.Equal(t, StringToTag("iso6"), ftyp.MajorBrand)
	require.Equal(t, uint32(0x200), ftyp.MinorVersion)
	require.Equal(t, []Tag{StringToTag("cmfc"), StringToTag("dash")}, ftyp.CompatibleBrands)
	require.True(t, ftyp.HasBrand(StringToTag("dash")))
	require.False(t, ftyp.HasBrand(StringToTag("mp42")))

	moov := root.Children[1]
	require.Equal(t, MOOV, moov.Type)
	require.Equal(t, KindContainer, moov.Kind)
	require.Nil(t, moov.Fields)
	require.Nil(t, moov.FullBox)

	stsd := FindChildrenByName(root, "stsd")
	require.NotNil(t, stsd)
	require.Equal(t, uint32(1), fieldsOf[*SampleDescription](t, stsd).EntryCount)
	require.Len(t, stsd.Children, 1)

	avc1 := stsd.Children[0]
	entry := fieldsOf[*VisualSampleEntry](t, avc1)
	require.Equal(t, uint16(1), entry.DataReferenceIndex)
	require.Equal(t, uint16(1920), entry.Width)
	require.Equal(t, uint16(1080), entry.Height)
	require.Equal(t, 72.0, entry.HorizResolution.Float64())
	require.Equal(t, "test", entry.CompressorName)
	require.Equal(t, uint16(0x18), entry.Depth)
	require.Len(t, avc1.Children, 1)
	avcc := fieldsOf[*AVC1Conf](t, avc1.Children[0])
	require.Equal(t, uint8(0x64), avcc.Profile)
	require.Equal(t, uint8(0x28), avcc.Level)
	require.Equal(t, 4, avcc.LengthSize)
	require.Equal(t, [][]byte{testSPS}, avcc.SPS)
	require.Equal(t, [][]byte{testPPS}, avcc.PPS)
	require.Equal(t, avcRecord, avcc.Data)

	hdlr := fieldsOf[*HandlerRef](t, FindChildren(root, HDLR))
	require.Equal(t, StringToTag("vide"), hdlr.HandlerType)
	require.Equal(t, "VideoHandler", hdlr.Name)

	trex := fieldsOf[*TrackExtends](t, FindChildren(root, TREX))
	require.Equal(t, uint32(1), trex.TrackID)
	require.Equal(t, uint32(1), trex.DefaultSampleDescriptionIndex)
}

func TestParse_MediaSegment(t *testing.T) {
	t.Parallel()

	buf := sampleFragment(t)
	root := Parse(buf)
	require.Empty(t, root.Errors())
	require.Len(t, root.Children, 2)

	mfhd := fieldsOf[*MovieFragHeader](t, FindChildren(root, MFHD))
	require.Equal(t, uint32(7), mfhd.SequenceNumber)

	tfdt := fieldsOf[*TrackFragDecodeTime](t, FindChildren(root, TFDT))
	require.Equal(t, uint64(1)<<33, tfdt.BaseMediaDecodeTime)

	mdat := root.Children[1]
	data := fieldsOf[*MediaData](t, mdat)
	require.Nil(t, mdat.Raw)
	require.Equal(t, mdat.Offset+HeaderSize, data.DataOffset)
	require.Equal(t, uint64(60), data.DataSize)
	payload, err := data.Bytes(buf)
	require.NoError(t, err)
	require.Len(t, payload, 60)
}

func TestParse_Scenarios(t *testing.T) {
	t.Parallel()

	t.Run("minimal_ftyp", func(t *testing.T) {
		t.Parallel()
		box := decodeOne(t, NewParser(), mkBox("ftyp", []byte("isom"), u32(0)))
		ftyp := fieldsOf[*FileType](t, box)
		require.Equal(t, "isom", ftyp.MajorBrand.String())
		require.Empty(t, ftyp.CompatibleBrands)
	})

	t.Run("container_smaller_than_header", func(t *testing.T) {
		t.Parallel()
		buf := cat(u32(4), []byte("moov"), make([]byte, 16))
		root := Parse(buf)
		require.Len(t, root.Children, 1)
		require.ErrorIs(t, root.Children[0].Err, ErrInvalidBoxSize)
		require.True(t, errors.Is(root.Children[0].Err, ErrInvalidBoxSize))
		require.Equal(t, MOOV, root.Children[0].Type)
	})

	t.Run("corrupt_box_after_ftyp", func(t *testing.T) {
		t.Parallel()
		ftyp := mkBox("ftyp", []byte("isom"), u32(0), []byte("iso2"))
		buf := cat(ftyp, u32(1000), []byte("moov"), make([]byte, 8))
		root := Parse(buf)
		require.Len(t, root.Children, 2)
		require.NoError(t, root.Children[0].Err)
		require.Equal(t, FTYP, root.Children[0].Type)
		require.ErrorIs(t, root.Children[1].Err, ErrInvalidBoxSize)
		require.Equal(t, len(ftyp), root.Children[1].Offset)
		require.Len(t, root.Errors(), 1)
	})
}

func TestParse_Headers(t *testing.T) {
	t.Parallel()

	userType := uuid.MustParse("a2394f52-5a9b-4f14-a244-6c427c648df4")

	tests := []struct {
		name       string
		buf        []byte
		typ        Tag
		size       uint64
		headerLen  int
		kind       Kind
		raw        []byte
		errKind    error
		hasUUID    bool
		childCount int
	}{
		{
			name:      "compact",
			buf:       mkBox("abcd", []byte{1, 2, 3}),
			typ:       StringToTag("abcd"),
			size:      11,
			headerLen: HeaderSize,
			kind:      KindOpaque,
			raw:       []byte{1, 2, 3},
		},
		{
			name:      "largesize",
			buf:       cat(u32(1), []byte("abcd"), u64(LargeHeaderSize+2), []byte{9, 8}),
			typ:       StringToTag("abcd"),
			size:      LargeHeaderSize + 2,
			headerLen: LargeHeaderSize,
			kind:      KindOpaque,
			raw:       []byte{9, 8},
		},
		{
			name:      "uuid",
			buf:       cat(u32(HeaderSize+userTypeSize+1), []byte("uuid"), userType[:], []byte{7}),
			typ:       UUID,
			size:      HeaderSize + userTypeSize + 1,
			headerLen: HeaderSize + userTypeSize,
			kind:      KindOpaque,
			raw:       []byte{7},
			hasUUID:   true,
		},
		{
			name:      "largesize_uuid",
			buf:       cat(u32(1), []byte("uuid"), u64(LargeHeaderSize+userTypeSize), userType[:]),
			typ:       UUID,
			size:      LargeHeaderSize + userTypeSize,
			headerLen: LargeHeaderSize + userTypeSize,
			kind:      KindOpaque,
			raw:       []byte{},
			hasUUID:   true,
		},
		{
			name:      "size_zero_runs_to_end",
			buf:       cat(u32(0), []byte("abcd"), []byte{1, 2, 3, 4, 5}),
			typ:       StringToTag("abcd"),
			size:      13,
			headerLen: HeaderSize,
			kind:      KindOpaque,
			raw:       []byte{1, 2, 3, 4, 5},
		},
		{
			name:       "size_zero_container",
			buf:        cat(u32(0), []byte("moov"), mkBox("free", []byte{0, 0})),
			typ:        MOOV,
			size:       18,
			headerLen:  HeaderSize,
			kind:       KindContainer,
			childCount: 1,
		},
		{
			name:      "truncated_largesize",
			buf:       cat(u32(1), []byte("abcd"), []byte{0, 0, 0, 0}),
			typ:       StringToTag("abcd"),
			headerLen: 0,
			errKind:   ErrTruncatedInput,
			size:      1,
		},
		{
			name:    "truncated_usertype",
			buf:     cat(u32(40), []byte("uuid"), []byte{1, 2, 3, 4}),
			typ:     UUID,
			errKind: ErrTruncatedInput,
			size:    40,
		},
		{
			name:      "largesize_smaller_than_header",
			buf:       cat(u32(1), []byte("abcd"), u64(12)),
			typ:       StringToTag("abcd"),
			size:      12,
			headerLen: LargeHeaderSize,
			errKind:   ErrInvalidBoxSize,
		},
		{
			name:      "size_past_end",
			buf:       cat(u32(100), []byte("abcd"), []byte{1}),
			typ:       StringToTag("abcd"),
			size:      100,
			headerLen: HeaderSize,
			errKind:   ErrInvalidBoxSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			box := decodeOne(t, NewParser(), tt.buf)
			require.Equal(t, tt.typ, box.Type)
			require.Equal(t, tt.size, box.Size)
			require.Equal(t, tt.headerLen, box.HeaderLen)
			require.Equal(t, tt.hasUUID, box.HasUserType)
			if tt.hasUUID {
				require.Equal(t, userType, box.UserType)
			}
			if tt.errKind != nil {
				require.ErrorIs(t, box.Err, tt.errKind)
				return
			}
			require.NoError(t, box.Err)
			require.Equal(t, tt.kind, box.Kind)
			if tt.kind == KindOpaque {
				require.Equal(t, tt.raw, box.Raw)
			}
			require.Len(t, box.Children, tt.childCount)
		})
	}
}

func TestParse_TrailingBytes(t *testing.T) {
	t.Parallel()

	for n := 1; n < HeaderSize; n++ {
		buf := cat(mkBox("free"), make([]byte, n))
		root := Parse(buf)
		require.Len(t, root.Children, 2)
		tail := root.Children[1]
		require.ErrorIs(t, tail.Err, ErrTruncatedInput)
		require.Equal(t, HeaderSize, tail.Offset)
		require.Equal(t, uint64(n), tail.Size)
		require.Len(t, tail.Raw, n)
	}
}

func TestParse_FailedLeafKeepsSiblings(t *testing.T) {
	t.Parallel()

	mfhd := mkFullBox("mfhd", 0, 0, []byte{0, 1})
	tfdt := mkFullBox("tfdt", 0, 0, u32(42))
	root := Parse(mkBox("moof", mkBox("traf", mfhd, tfdt)))

	traf := FindChildren(root, TRAF)
	require.NotNil(t, traf)
	require.NoError(t, traf.Err)
	require.Len(t, traf.Children, 2)

	bad := traf.Children[0]
	require.ErrorIs(t, bad.Err, ErrOutOfBounds)
	require.Nil(t, bad.Fields)
	require.Equal(t, mfhd[HeaderSize:], bad.Raw)
	require.Contains(t, bad.Err.Error(), "mfhd:16")
	require.Contains(t, bad.Err.Error(), "SequenceNumber")

	var pe *ParseError
	require.ErrorAs(t, bad.Err, &pe)
	require.Equal(t, "mfhd", pe.Debug)
	require.Equal(t, 16, pe.Offset)

	require.Equal(t, uint64(42), fieldsOf[*TrackFragDecodeTime](t, traf.Children[1]).BaseMediaDecodeTime)
	require.Len(t, root.Errors(), 1)
}

func TestParse_FullBoxPrefixMissing(t *testing.T) {
	t.Parallel()

	box := decodeOne(t, NewParser(), mkBox("mvhd", []byte{1, 0}))
	require.ErrorIs(t, box.Err, ErrOutOfBounds)
	require.Nil(t, box.FullBox)
	require.Equal(t, KindLeaf, box.Kind)
	require.Equal(t, []byte{1, 0}, box.Raw)
}

func TestParse_MaxDepth(t *testing.T) {
	t.Parallel()

	nested := mkBox("moov", mkBox("trak", mkBox("mdia", mkBox("minf", mkBox("free")))))

	root := NewParser(WithMaxDepth(3)).Parse(nested)
	mdia := FindChildren(root, MDIA)
	require.NotNil(t, mdia)
	require.ErrorIs(t, mdia.Err, ErrNestingTooDeep)
	require.Empty(t, mdia.Children)
	require.NotEmpty(t, mdia.Raw)
	require.NoError(t, FindChildren(root, TRAK).Err)

	root = NewParser().Parse(nested)
	require.Empty(t, root.Errors())
	require.NotNil(t, FindChildren(root, FREE))

	// a hostile chain of empty-headed containers must stop at the limit
	deep := mkBox("free")
	for i := 0; i < DefaultMaxDepth+10; i++ {
		deep = mkBox("moov", deep)
	}
	root = Parse(deep)
	errs := root.Errors()
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrNestingTooDeep)
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	buf := cat(sampleInit(t), sampleFragment(t), []byte{1, 2, 3})
	orig := append([]byte(nil), buf...)
	p := NewParser()
	first := p.Parse(buf)
	second := p.Parse(buf)
	require.Equal(t, first, second)
	require.Equal(t, orig, buf)
}

func TestParse_HeaderAndSiblingAccounting(t *testing.T) {
	t.Parallel()

	buf := cat(sampleInit(t), sampleFragment(t))
	root := Parse(buf)
	require.Empty(t, root.Errors())

	Walk(root, func(b *Box, depth int) bool {
		if depth > 0 {
			require.Contains(t, []int{HeaderSize, LargeHeaderSize, HeaderSize + userTypeSize, LargeHeaderSize + userTypeSize}, b.HeaderLen)
			require.GreaterOrEqual(t, b.Size, uint64(b.HeaderLen))
		}
		if b.Kind != KindContainer || len(b.Children) == 0 {
			return true
		}
		var sum uint64
		for _, child := range b.Children {
			sum += child.Size
		}
		last := b.Children[len(b.Children)-1]
		end := uint64(b.Offset) + b.Size
		require.Equal(t, end, uint64(last.Offset)+last.Size, "children of %s must end with their parent", b.Type)
		if def, ok := lookup(b.Type); depth == 0 || (ok && def.decode == nil && !def.full) {
			require.Equal(t, b.PayloadLen(), sum, "payload of %s", b.Type)
		}
		return true
	})
}

func TestParse_Concurrent(t *testing.T) {
	t.Parallel()

	buf := cat(sampleInit(t), sampleFragment(t))
	p := NewParser(WithIVSize(16))
	want := p.Parse(buf)

	done := make(chan *Box)
	for i := 0; i < 8; i++ {
		go func() {
			done <- p.Parse(buf)
		}()
	}
	for i := 0; i < 8; i++ {
		require.Equal(t, want, <-done)
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	for _, tag := range []Tag{MOOV, TRAK, MDIA, MINF, STBL, DINF, EDTS, UDTA, MVEX, MOOF, TRAF, MFRA, SINF, SCHI, STSD, DREF, ENCV, MJPG, MP4A} {
		require.True(t, IsContainer(tag), tag.String())
	}
	for _, tag := range []Tag{FTYP, STYP, MVHD, TKHD, MDHD, HDLR, TREX, MFHD, TFHD, TRUN, TFDT, SIDX, MDAT, SENC, SAIO, SAIZ, SBGP, SGPD, PSSH, FRMA, SCHM, TENC,
		STTS, CTTS, STSC, STSZ, STCO, CO64, STSS, VMHD, SMHD, URL, URN, AVCC, HVCC, ESDS, ELST, MEHD} {
		require.True(t, IsRegistered(tag), tag.String())
		require.False(t, IsContainer(tag), tag.String())
	}
	require.False(t, IsRegistered(StringToTag("zzzz")))
	require.Panics(t, func() {
		register(FTYP, boxDef{})
	})
}
