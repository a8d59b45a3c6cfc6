package drm

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	wvAlgorithm         protowire.Number = 1
	wvKeyID             protowire.Number = 2
	wvProvider          protowire.Number = 3
	wvContentID         protowire.Number = 4
	wvPolicy            protowire.Number = 6
	wvCryptoPeriodIndex protowire.Number = 7
	wvProtectionScheme  protowire.Number = 9
)

// WidevineData is the decoded form of the data carried by a Widevine pssh box.
type WidevineData struct {
	Algorithm         uint32
	KeyIDs            []uuid.UUID
	Provider          string
	ContentID         []byte
	Policy            string
	CryptoPeriodIndex uint32
	ProtectionScheme  uint32 // four-cc, e.g. 'cenc' or 'cbcs'
}

// ParseWidevineData decodes the protobuf message found in Widevine pssh data.
// Unknown fields are skipped; key ids that are not 16 bytes long are rejected.
func ParseWidevineData(b []byte) (*WidevineData, error) {
	d := &WidevineData{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "widevine pssh data: tag")
		}
		b = b[n:]

		switch {
		case typ == protowire.VarintType && (num == wvAlgorithm || num == wvCryptoPeriodIndex || num == wvProtectionScheme):
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, errors.Wrapf(protowire.ParseError(m), "widevine pssh data: field %d", num)
			}
			switch num {
			case wvAlgorithm:
				d.Algorithm = uint32(v)
			case wvCryptoPeriodIndex:
				d.CryptoPeriodIndex = uint32(v)
			default:
				d.ProtectionScheme = uint32(v)
			}
			n = m
		case typ == protowire.BytesType && (num == wvKeyID || num == wvProvider || num == wvContentID || num == wvPolicy):
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, errors.Wrapf(protowire.ParseError(m), "widevine pssh data: field %d", num)
			}
			switch num {
			case wvKeyID:
				kid, err := uuid.FromBytes(v)
				if err != nil {
					return nil, errors.Wrap(err, "widevine pssh data: key id")
				}
				d.KeyIDs = append(d.KeyIDs, kid)
			case wvProvider:
				d.Provider = string(v)
			case wvContentID:
				d.ContentID = append([]byte(nil), v...)
			default:
				d.Policy = string(v)
			}
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errors.Wrapf(protowire.ParseError(n), "widevine pssh data: field %d", num)
			}
		}
		b = b[n:]
	}
	return d, nil
}
