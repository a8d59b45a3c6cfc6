package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const SMHD = Tag(0x736d6864)

// SoundMediaInfo is the payload of smhd. Balance is 8.8, 0 is centre.
type SoundMediaInfo struct {
	Balance FixedPoint
}

func (*SoundMediaInfo) isFields() {}

func decodeSoundMediaInfo(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	balance, err := c.Fixed(fixed8Int, fixed8Frac)
	if err != nil {
		return nil, parseErr("Balance", c.Offset(), err)
	}
	if err = c.Skip(2); err != nil {
		return nil, parseErr("Reserved", c.Offset(), err)
	}
	return &SoundMediaInfo{Balance: balance}, nil
}

func init() {
	register(SMHD, boxDef{full: true, decode: decodeSoundMediaInfo})
}
