package mp4io

import (
	"github.com/google/uuid"
)

const (
	FTYP = Tag(0x66747970)
	STYP = Tag(0x73747970)
	MOOV = Tag(0x6d6f6f76)
	MVHD = Tag(0x6d766864)
	TRAK = Tag(0x7472616b)
	TKHD = Tag(0x746b6864)
	MDIA = Tag(0x6d646961)
	MDHD = Tag(0x6d646864)
	HDLR = Tag(0x68646c72)
	MINF = Tag(0x6d696e66)
	STBL = Tag(0x7374626c)
	STSD = Tag(0x73747364)
	DINF = Tag(0x64696e66)
	EDTS = Tag(0x65647473)
	UDTA = Tag(0x75647461)
	MVEX = Tag(0x6d766578)
	TREX = Tag(0x74726578)
	MOOF = Tag(0x6d6f6f66)
	MFHD = Tag(0x6d666864)
	TRAF = Tag(0x74726166)
	TFHD = Tag(0x74666864)
	TRUN = Tag(0x7472756e)
	TFDT = Tag(0x74666474)
	SIDX = Tag(0x73696478)
	MDAT = Tag(0x6d646174)
	FREE = Tag(0x66726565)
	SKIP = Tag(0x736b6970)
	MFRA = Tag(0x6d667261)
	UUID = Tag(0x75756964)

	SENC = Tag(0x73656e63)
	SAIO = Tag(0x7361696f)
	SAIZ = Tag(0x7361697a)
	SBGP = Tag(0x73626770)
	SGPD = Tag(0x73677064)
	PSSH = Tag(0x70737368)
	SINF = Tag(0x73696e66)
	FRMA = Tag(0x66726d61)
	SCHM = Tag(0x7363686d)
	SCHI = Tag(0x73636869)
	TENC = Tag(0x74656e63)

	AVC1 = Tag(0x61766331)
	AVC3 = Tag(0x61766333)
	HVC1 = Tag(0x68766331)
	HEV1 = Tag(0x68657631)
	MJPG = Tag(0x6d6a7067)
	MP4V = Tag(0x6d703476)
	ENCV = Tag(0x656e6376)
	MP4A = Tag(0x6d703461)
	ENCA = Tag(0x656e6361)

	SEIG = Tag(0x73656967)
	CENC = Tag(0x63656e63)
	CBCS = Tag(0x63626373)
)

// Kind discriminates the three node shapes.
type Kind uint8

const (
	KindOpaque Kind = iota
	KindLeaf
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindContainer:
		return "container"
	default:
		return "opaque"
	}
}

// Fields is implemented by every decoded box payload type in this package.
type Fields interface {
	isFields()
}

// Box is one node of the decoded tree. The tree is owned top-down; nodes carry no parent link.
type Box struct {
	Type        Tag
	UserType    uuid.UUID // set for 'uuid' boxes
	HasUserType bool
	Offset      int    // absolute offset of the box header
	Size        uint64 // total size, header included; a size-0 box is resolved to its real extent
	HeaderLen   int
	Kind        Kind

	// FullBox is nil unless the box is a full box.
	*FullBox

	// Fields is nil for containers without own fields, opaque boxes and failed decodes.
	// A box failing with ErrUnsupportedBoxLayout keeps the fields decoded so far.
	Fields   Fields
	Children []*Box
	// Raw is an owned payload copy kept for opaque boxes and failed decodes.
	Raw []byte
	Err error
}

func (b *Box) Tag() Tag {
	return b.Type
}

// Pos returns the absolute offset and the total size of the box.
func (b *Box) Pos() (int, uint64) {
	return b.Offset, b.Size
}

// PayloadLen is the number of bytes following the header.
func (b *Box) PayloadLen() uint64 {
	if b.Size < uint64(b.HeaderLen) {
		return 0
	}
	return b.Size - uint64(b.HeaderLen)
}

// Errors returns the errors of b and all its descendants in tree order.
func (b *Box) Errors() (errs []error) {
	Walk(b, func(box *Box, _ int) bool {
		if box.Err != nil {
			errs = append(errs, box.Err)
		}
		return true
	})
	return
}

// FieldsAs returns the decoded fields of b if they have type T.
func FieldsAs[T Fields](b *Box) (T, bool) {
	var zero T
	if b == nil || b.Fields == nil {
		return zero, false
	}
	f, ok := b.Fields.(T)
	return f, ok
}

// Walk visits root and its descendants depth first. Returning false from fn skips the children of that box.
func Walk(root *Box, fn func(box *Box, depth int) bool) {
	walk(root, 0, fn)
}

func walk(b *Box, depth int, fn func(*Box, int) bool) {
	if !fn(b, depth) {
		return
	}
	for _, child := range b.Children {
		walk(child, depth+1, fn)
	}
}

func FindChildrenByName(root *Box, tag string) *Box {
	return FindChildren(root, StringToTag(tag))
}

// FindChildren returns the first box of type tag in depth-first order, root included.
func FindChildren(root *Box, tag Tag) *Box {
	if root.Type == tag {
		return root
	}
	for _, child := range root.Children {
		if r := FindChildren(child, tag); r != nil {
			return r
		}
	}
	return nil
}

// FindAll returns every box of type tag in depth-first order.
func FindAll(root *Box, tag Tag) (boxes []*Box) {
	Walk(root, func(b *Box, _ int) bool {
		if b.Type == tag {
			boxes = append(boxes, b)
		}
		return true
	})
	return
}
