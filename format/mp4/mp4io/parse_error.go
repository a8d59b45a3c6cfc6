package mp4io

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ugparu/bmff/utils/bits/pio"
)

// Error kinds carried by node errors. Use errors.Is to classify a Box.Err.
var (
	ErrOutOfBounds          = pio.ErrOutOfBounds
	ErrInvalidBoxSize       = errors.New("mp4io: invalid box size")
	ErrUnsupportedBoxLayout = errors.New("mp4io: unsupported box layout")
	ErrTruncatedInput       = errors.New("mp4io: truncated input")
	ErrNestingTooDeep       = errors.New("mp4io: box nesting too deep")
	ErrInvalidLanguage      = errors.New("mp4io: invalid language code")
)

// ParseError records where decoding stopped. Links run from the outermost box to the failing field.
type ParseError struct {
	Kind   error
	Debug  string
	Offset int
	prev   *ParseError
}

func (p *ParseError) Error() string {
	s := []string{}
	var kind error
	for err := p; err != nil; err = err.prev {
		s = append(s, fmt.Sprintf("%s:%d", err.Debug, err.Offset))
		kind = err.Kind
	}
	return fmt.Sprintf("mp4io: parse error: %s: %v", strings.Join(s, ","), kind)
}

func (p *ParseError) Unwrap() error {
	return p.Kind
}

func parseErr(debug string, offset int, prev error) error {
	var pe *ParseError
	if errors.As(prev, &pe) {
		return &ParseError{Kind: pe.Kind, Debug: debug, Offset: offset, prev: pe}
	}
	return &ParseError{Kind: prev, Debug: debug, Offset: offset}
}
