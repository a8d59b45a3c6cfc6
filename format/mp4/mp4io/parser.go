package mp4io

import (
	"github.com/cockroachdb/errors"

	"github.com/ugparu/bmff/utils/bits/pio"
	"github.com/ugparu/bmff/utils/logger"
)

const (
	DefaultIVSize   = 8
	DefaultMaxDepth = 64
	// IVSizeAuto makes senc infer the IV width from the payload length.
	IVSizeAuto = -1
)

// Parser decodes a byte buffer into a box tree. It is immutable after NewParser and safe for concurrent use.
type Parser struct {
	ivSize   int
	maxDepth int
}

type Option func(*Parser)

// WithIVSize sets the per-sample IV width used by senc: 0, 8, 16 or IVSizeAuto.
// The value usually comes from tenc.DefaultPerSampleIVSize of the matching track.
func WithIVSize(n int) Option {
	return func(p *Parser) {
		p.ivSize = n
	}
}

// WithMaxDepth limits container nesting. Top-level boxes are at depth 1.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		ivSize:   DefaultIVSize,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) String() string {
	return "mp4io.Parser"
}

func (p *Parser) IVSize() int {
	return p.ivSize
}

// Parse decodes every top-level box of buf. The root is a synthetic container spanning buf.
// Parse never fails as a whole: problems are recorded on the nodes, see Box.Errors.
func (p *Parser) Parse(buf []byte) *Box {
	root := &Box{
		Kind: KindContainer,
		Size: uint64(len(buf)),
	}
	root.Children = p.decodeChildren(buf, 0, 1)
	return root
}

// Parse decodes buf with default options.
func Parse(buf []byte) *Box {
	return NewParser().Parse(buf)
}

// decodeChildren decodes the sibling boxes packed in buf. base is the absolute offset of buf[0].
func (p *Parser) decodeChildren(buf []byte, base int, depth int) (boxes []*Box) {
	c := pio.NewCursor(buf, base)
	for c.Remaining() >= HeaderSize {
		start := c.Offset()
		h, err := ReadHeader(c)
		if err != nil {
			box := &Box{
				Type:      h.Type,
				Offset:    start,
				Size:      h.Size,
				HeaderLen: h.HeaderLen,
				Err:       err,
			}
			logger.Debugf(p, "stop at %s: %v", h.Type, err)
			return append(boxes, box)
		}
		payload, _ := c.Bytes(h.PayloadLen())
		boxes = append(boxes, p.decodeBox(h, start, payload, depth))
	}
	if n := c.Remaining(); n > 0 {
		box := &Box{
			Offset: c.Offset(),
			Size:   uint64(n),
			Err:    parseErr("Trailing", c.Offset(), ErrTruncatedInput),
		}
		box.Raw, _ = c.CopyBytes(n)
		logger.Debugf(p, "%d trailing bytes at %d", n, box.Offset)
		boxes = append(boxes, box)
	}
	return
}

func (p *Parser) decodeBox(h BoxHeader, offset int, payload []byte, depth int) *Box {
	box := &Box{
		Type:        h.Type,
		UserType:    h.UserType,
		HasUserType: h.HasUserType,
		Offset:      offset,
		Size:        h.Size,
		HeaderLen:   h.HeaderLen,
	}

	def, ok := lookup(h.Type)
	if !ok {
		box.Kind = KindOpaque
		box.Raw = clone(payload)
		logger.Tracef(p, "opaque %s at %d, %d bytes", h.Type, offset, len(payload))
		return box
	}
	box.Kind = KindLeaf
	if def.container {
		box.Kind = KindContainer
	}

	c := pio.NewCursor(payload, offset+h.HeaderLen)
	err := p.decodeFields(def, c, box)
	if err == nil && def.container {
		if depth >= p.maxDepth {
			err = parseErr("Children", c.Offset(), ErrNestingTooDeep)
		} else {
			box.Children = p.decodeChildren(c.Rest(), c.Offset(), depth+1)
		}
	}
	if err != nil {
		box.Err = parseErr(h.Type.String(), offset, err)
		box.Raw = clone(payload)
		logger.Debugf(p, "%v", box.Err)
	}
	return box
}

func (p *Parser) decodeFields(def boxDef, c *pio.Cursor, box *Box) error {
	if def.full {
		fb, err := readFullBox(c)
		if err != nil {
			return parseErr("FullBox", c.Offset(), err)
		}
		box.FullBox = &fb
	}
	if def.decode == nil {
		return nil
	}
	fields, err := def.decode(p, c, box)
	if err != nil && !errors.Is(err, ErrUnsupportedBoxLayout) {
		return err
	}
	box.Fields = fields
	return err
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
