// Package bmff decodes ISO Base Media File Format buffers (MP4, fragmented MP4, CMAF segments)
// into a tree of typed boxes, including the common encryption metadata.
package bmff

import (
	"github.com/cockroachdb/errors"

	"github.com/ugparu/bmff/format/mp4/mp4io"
)

// Decoder defines the interface for turning an in-memory buffer into a box tree.
type Decoder interface {
	Decode(data []byte) (*mp4io.Box, error) // Decodes every box of data; the tree is returned even on error.
}

type decoder struct {
	parser *mp4io.Parser
}

// NewDecoder returns a Decoder configured with opts. It is safe for concurrent use.
func NewDecoder(opts ...mp4io.Option) Decoder {
	return &decoder{parser: mp4io.NewParser(opts...)}
}

func (d *decoder) Decode(data []byte) (*mp4io.Box, error) {
	root := d.parser.Parse(data)
	errs := root.Errors()
	if len(errs) == 0 {
		return root, nil
	}
	return root, errors.Wrapf(errors.Join(errs...), "bmff: %d boxes failed to decode", len(errs))
}

// Parse decodes data and returns the tree with an error joining every node failure.
// The returned tree is never nil.
func Parse(data []byte, opts ...mp4io.Option) (*mp4io.Box, error) {
	return NewDecoder(opts...).Decode(data)
}
