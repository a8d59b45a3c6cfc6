package mp4io

import (
	"github.com/ugparu/bmff/utils/bits/pio"
)

// decodeFunc reads the fields of one box. box carries the header and, for full boxes, the prefix.
// A decoder returning partial fields together with ErrUnsupportedBoxLayout keeps both on the node.
type decodeFunc func(p *Parser, c *pio.Cursor, box *Box) (Fields, error)

type boxDef struct {
	full      bool // payload starts with version and flags
	container bool // child boxes follow whatever decode consumed
	decode    decodeFunc
}

// registry is filled by init functions and read-only afterwards.
var registry = map[Tag]boxDef{}

func register(tag Tag, def boxDef) {
	if _, dup := registry[tag]; dup {
		panic("mp4io: box registered twice: " + tag.String())
	}
	registry[tag] = def
}

func registerContainer(tags ...Tag) {
	for _, tag := range tags {
		register(tag, boxDef{container: true})
	}
}

// lookup returns the definition for tag. Unknown tags get the zero definition, decoded as opaque.
func lookup(tag Tag) (boxDef, bool) {
	def, ok := registry[tag]
	return def, ok
}

// IsRegistered reports whether boxes of type tag are decoded rather than kept opaque.
func IsRegistered(tag Tag) bool {
	_, ok := registry[tag]
	return ok
}

// IsContainer reports whether boxes of type tag carry child boxes.
func IsContainer(tag Tag) bool {
	return registry[tag].container
}

func init() {
	registerContainer(MOOV, TRAK, MDIA, MINF, STBL, DINF, EDTS, UDTA, MVEX, MOOF, TRAF, MFRA, SINF, SCHI)
}
