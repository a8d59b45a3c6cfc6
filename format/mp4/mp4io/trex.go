package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const MEHD = Tag(0x6d656864)

// MovieExtendsHeader is the payload of mehd: the duration of the whole fragmented movie.
type MovieExtendsHeader struct {
	FragmentDuration uint64
}

func (*MovieExtendsHeader) isFields() {}

func decodeMovieExtendsHeader(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	if err := checkVersion(box, maxHeaderVersion); err != nil {
		return nil, err
	}
	d, err := readVersioned(c, box.Version)
	if err != nil {
		return nil, parseErr("FragmentDuration", c.Offset(), err)
	}
	return &MovieExtendsHeader{FragmentDuration: d}, nil
}

// TrackExtends is the payload of trex: per-track defaults for movie fragments.
type TrackExtends struct {
	TrackID                       uint32
	DefaultSampleDescriptionIndex uint32
	DefaultSampleDuration         uint32
	DefaultSampleSize             uint32
	DefaultSampleFlags            uint32
}

func (*TrackExtends) isFields() {}

func decodeTrackExtends(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	t := &TrackExtends{}
	var err error
	if t.TrackID, err = c.U32(); err != nil {
		return nil, parseErr("TrackID", c.Offset(), err)
	}
	if t.DefaultSampleDescriptionIndex, err = c.U32(); err != nil {
		return nil, parseErr("DefaultSampleDescriptionIndex", c.Offset(), err)
	}
	if t.DefaultSampleDuration, err = c.U32(); err != nil {
		return nil, parseErr("DefaultSampleDuration", c.Offset(), err)
	}
	if t.DefaultSampleSize, err = c.U32(); err != nil {
		return nil, parseErr("DefaultSampleSize", c.Offset(), err)
	}
	if t.DefaultSampleFlags, err = c.U32(); err != nil {
		return nil, parseErr("DefaultSampleFlags", c.Offset(), err)
	}
	return t, nil
}

func init() {
	register(TREX, boxDef{full: true, decode: decodeTrackExtends})
	register(MEHD, boxDef{full: true, decode: decodeMovieExtendsHeader})
}
