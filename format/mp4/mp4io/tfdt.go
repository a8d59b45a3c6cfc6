package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

// TrackFragDecodeTime is the payload of tfdt, in media timescale units.
type TrackFragDecodeTime struct {
	BaseMediaDecodeTime uint64
}

func (*TrackFragDecodeTime) isFields() {}

func decodeTrackFragDecodeTime(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	if err := checkVersion(box, maxHeaderVersion); err != nil {
		return nil, err
	}
	t, err := readVersioned(c, box.Version)
	if err != nil {
		return nil, parseErr("BaseMediaDecodeTime", c.Offset(), err)
	}
	return &TrackFragDecodeTime{BaseMediaDecodeTime: t}, nil
}

func init() {
	register(TFDT, boxDef{full: true, decode: decodeTrackFragDecodeTime})
}
