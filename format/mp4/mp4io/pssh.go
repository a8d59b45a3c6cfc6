package mp4io

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/ugparu/bmff/format/mp4/drm"
	"github.com/ugparu/bmff/utils/bits/pio"
)

// PlayReadyObject is the little-endian record header that trails a PlayReady pssh payload.
// Records stay opaque.
type PlayReadyObject struct {
	RecordCount uint16
	Records     []byte
}

// ProtectionSystemHeader is the payload of pssh.
// For known systems KIDs and Data are decoded; for unknown systems the whole remainder is kept in Opaque.
type ProtectionSystemHeader struct {
	SystemID  uuid.UUID
	System    drm.System
	KIDs      []uuid.UUID // version 1 and later
	Data      []byte
	PlayReady *PlayReadyObject
	Opaque    []byte
}

func (*ProtectionSystemHeader) isFields() {}

// Widevine decodes Data as a Widevine PSSH message.
func (p *ProtectionSystemHeader) Widevine() (*drm.WidevineData, error) {
	if p.System != drm.Widevine {
		return nil, errors.Newf("mp4io: pssh system is %s, not %s", p.System, drm.Widevine)
	}
	return drm.ParseWidevineData(p.Data)
}

func decodeProtectionSystemHeader(_ *Parser, c *pio.Cursor, box *Box) (Fields, error) {
	p := &ProtectionSystemHeader{}
	b, err := c.Bytes(kidSize)
	if err != nil {
		return nil, parseErr("SystemID", c.Offset(), err)
	}
	copy(p.SystemID[:], b)
	p.System = drm.Lookup(p.SystemID)

	if p.System == drm.Unknown {
		p.Opaque, _ = c.CopyBytes(c.Remaining())
		return p, nil
	}

	if p.System == drm.PlayReady {
		return decodePlayReady(c, p)
	}

	if box.Version >= 1 {
		var count uint32
		if count, err = c.U32(); err != nil {
			return nil, parseErr("KIDCount", c.Offset(), err)
		}
		if err = c.CheckTable(uint64(count), kidSize); err != nil {
			return nil, parseErr("KIDs", c.Offset(), err)
		}
		p.KIDs = make([]uuid.UUID, count)
		for i := range p.KIDs {
			b, _ = c.Bytes(kidSize)
			copy(p.KIDs[i][:], b)
		}
	}
	var size uint32
	if size, err = c.U32(); err != nil {
		return nil, parseErr("DataSize", c.Offset(), err)
	}
	if p.Data, err = c.CopyBytes(int(size)); err != nil {
		return nil, parseErr("Data", c.Offset(), err)
	}
	return p, nil
}

// PlayReady payloads carry no KID table and use little-endian sizes:
// data_size u32, data, record count u16, opaque records.
func decodePlayReady(c *pio.Cursor, p *ProtectionSystemHeader) (Fields, error) {
	size, err := c.U32LE()
	if err != nil {
		return nil, parseErr("DataSize", c.Offset(), err)
	}
	if p.Data, err = c.CopyBytes(int(size)); err != nil {
		return nil, parseErr("Data", c.Offset(), err)
	}
	pro := &PlayReadyObject{}
	if pro.RecordCount, err = c.U16LE(); err != nil {
		return nil, parseErr("RecordCount", c.Offset(), err)
	}
	pro.Records, _ = c.CopyBytes(c.Remaining())
	p.PlayReady = pro
	return p, nil
}

func init() {
	register(PSSH, boxDef{full: true, decode: decodeProtectionSystemHeader})
}
