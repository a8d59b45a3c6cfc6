package mp4io

import (
	"time"

	"github.com/ugparu/bmff/utils/bits/pio"
)

const languagePadBit = 0x8000

// MediaHeader is the payload of mdhd.
type MediaHeader struct {
	CreationTime     uint64
	ModificationTime uint64
	Timescale        uint32
	Duration         uint64
	LanguageCode     uint16 // packed form, pad bit cleared
	Language         string // ISO-639-2/T, e.g. "und"
	Quality          uint16
}

func (*MediaHeader) isFields() {}

func (m *MediaHeader) Created() time.Time {
	return MacTime(m.CreationTime)
}

func (m *MediaHeader) Modified() time.Time {
	return MacTime(m.ModificationTime)
}

func (m *MediaHeader) DurationTime() time.Duration {
	return scaleDuration(m.Duration, m.Timescale)
}

func decodeMediaHeader(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	if err := checkVersion(box, maxHeaderVersion); err != nil {
		return nil, err
	}
	m := &MediaHeader{}
	var err error
	if m.CreationTime, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("CreationTime", c.Offset(), err)
	}
	if m.ModificationTime, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("ModificationTime", c.Offset(), err)
	}
	if m.Timescale, err = c.U32(); err != nil {
		return nil, parseErr("Timescale", c.Offset(), err)
	}
	if m.Duration, err = readVersioned(c, box.Version); err != nil {
		return nil, parseErr("Duration", c.Offset(), err)
	}
	var lang uint16
	if lang, err = c.U16(); err != nil {
		return nil, parseErr("Language", c.Offset(), err)
	}
	m.LanguageCode = lang &^ languagePadBit
	m.Language = UnpackLanguage(m.LanguageCode)
	if m.Quality, err = c.U16(); err != nil {
		return nil, parseErr("Quality", c.Offset(), err)
	}
	return m, nil
}

func init() {
	register(MDHD, boxDef{full: true, decode: decodeMediaHeader})
}
