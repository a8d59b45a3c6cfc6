package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const AVCC = Tag(0x61766343)

const (
	avccLengthSizeMask = 0x03
	avccNumSPSMask     = 0x1f
)

// AVC1Conf is the payload of avcC, the AVCDecoderConfigurationRecord.
// Parameter sets are copied out of the input.
type AVC1Conf struct {
	ConfigurationVersion uint8
	Profile              uint8
	ProfileCompatibility uint8
	Level                uint8
	LengthSize           int // NAL unit length prefix in bytes
	SPS                  [][]byte
	PPS                  [][]byte
	Data                 []byte // whole record, copied
}

func (*AVC1Conf) isFields() {}

func readParameterSets(c *pio.Cursor, count int, name string) ([][]byte, error) {
	if err := c.CheckTable(uint64(count), 2); err != nil {
		return nil, parseErr(name, c.Offset(), err)
	}
	sets := make([][]byte, 0, count)
	for range count {
		n, err := c.U16()
		if err != nil {
			return nil, parseErr(name, c.Offset(), err)
		}
		b, err := c.CopyBytes(int(n))
		if err != nil {
			return nil, parseErr(name, c.Offset(), err)
		}
		sets = append(sets, b)
	}
	return sets, nil
}

func decodeAVC1Conf(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	a := &AVC1Conf{Data: clone(c.Rest())}
	hdr, err := c.Bytes(6)
	if err != nil {
		return nil, parseErr("AVCDecoderConfigurationRecord", c.Offset(), err)
	}
	a.ConfigurationVersion = hdr[0]
	a.Profile = hdr[1]
	a.ProfileCompatibility = hdr[2]
	a.Level = hdr[3]
	a.LengthSize = int(hdr[4]&avccLengthSizeMask) + 1
	if a.SPS, err = readParameterSets(c, int(hdr[5]&avccNumSPSMask), "SPS"); err != nil {
		return nil, err
	}
	numPPS, err := c.U8()
	if err != nil {
		return nil, parseErr("NumPPS", c.Offset(), err)
	}
	if a.PPS, err = readParameterSets(c, int(numPPS), "PPS"); err != nil {
		return nil, err
	}
	return a, nil
}

func init() {
	register(AVCC, boxDef{decode: decodeAVC1Conf})
}
