package mp4io

import (
	"github.com/google/uuid"

	"github.com/ugparu/bmff/utils/bits/pio"
)

// BoxHeader is the size/type prefix of every box.
type BoxHeader struct {
	Size        uint64 // declared size, or the resolved extent when ToEnd is set
	Type        Tag
	UserType    uuid.UUID
	HasUserType bool
	HeaderLen   int
	ToEnd       bool // declared size was 0: the box runs to the end of its parent
}

func (h BoxHeader) PayloadLen() int {
	return int(h.Size) - h.HeaderLen
}

// ReadHeader decodes a box header at the cursor position. The bytes remaining in c are the
// parent's payload: they bound the declared size and give the extent of a size-0 box.
func ReadHeader(c *pio.Cursor) (h BoxHeader, err error) {
	start := c.Offset()
	avail := c.Remaining()
	if avail < HeaderSize {
		err = parseErr("BoxHeader", start, ErrTruncatedInput)
		return
	}
	size, _ := c.U32()
	typ, _ := c.U32()
	h.Type = Tag(typ)
	h.Size = uint64(size)

	if size == 1 {
		var large uint64
		if large, err = c.U64(); err != nil {
			err = parseErr("LargeSize", c.Offset(), ErrTruncatedInput)
			return
		}
		h.Size = large
	}
	if h.Type == UUID {
		var b []byte
		if b, err = c.Bytes(userTypeSize); err != nil {
			err = parseErr("UserType", c.Offset(), ErrTruncatedInput)
			return
		}
		copy(h.UserType[:], b)
		h.HasUserType = true
	}
	h.HeaderLen = c.Offset() - start

	switch {
	case size == 0:
		h.Size = uint64(avail)
		h.ToEnd = true
	case h.Size < uint64(h.HeaderLen):
		err = parseErr("Size", start, ErrInvalidBoxSize)
	case h.Size > uint64(avail):
		err = parseErr("Size", start, ErrInvalidBoxSize)
	}
	return
}
