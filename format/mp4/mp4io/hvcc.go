package mp4io

import "github.com/ugparu/bmff/utils/bits/pio"

const HVCC = Tag(0x68766343)

const hvccFixedSize = 22

// HEVC NAL unit types found in hvcC arrays.
const (
	HEVCNaluVPS = 32
	HEVCNaluSPS = 33
	HEVCNaluPPS = 34
)

type HV1NaluArray struct {
	Completeness bool
	NaluType     uint8
	Nalus        [][]byte
}

// HV1Conf is the payload of hvcC, the HEVCDecoderConfigurationRecord.
type HV1Conf struct {
	ConfigurationVersion uint8
	ProfileSpace         uint8
	TierFlag             bool
	ProfileIDC           uint8
	ProfileCompatibility uint32
	ConstraintIndicator  uint64 // 48 bits
	LevelIDC             uint8
	ChromaFormat         uint8
	BitDepthLuma         uint8
	BitDepthChroma       uint8
	AvgFrameRate         uint16
	NumTemporalLayers    uint8
	LengthSize           int
	Arrays               []HV1NaluArray
	Data                 []byte // whole record, copied
}

func (*HV1Conf) isFields() {}

// Nalus returns every parameter set of the given NAL unit type.
func (h *HV1Conf) Nalus(naluType uint8) (nalus [][]byte) {
	for _, a := range h.Arrays {
		if a.NaluType == naluType {
			nalus = append(nalus, a.Nalus...)
		}
	}
	return
}

func decodeHV1Conf(_ *Parser, c *pio.Cursor, _ *Box) (Fields, error) {
	h := &HV1Conf{Data: clone(c.Rest())}
	b, err := c.Bytes(hvccFixedSize)
	if err != nil {
		return nil, parseErr("HEVCDecoderConfigurationRecord", c.Offset(), err)
	}
	h.ConfigurationVersion = b[0]
	h.ProfileSpace = b[1] >> 6
	h.TierFlag = b[1]&0x20 != 0
	h.ProfileIDC = b[1] & 0x1f
	h.ProfileCompatibility = pio.U32BE(b[2:])
	h.ConstraintIndicator = uint64(pio.U16BE(b[6:]))<<32 | uint64(pio.U32BE(b[8:]))
	h.LevelIDC = b[12]
	h.ChromaFormat = b[16] & 0x03
	h.BitDepthLuma = b[17]&0x07 + 8
	h.BitDepthChroma = b[18]&0x07 + 8
	h.AvgFrameRate = pio.U16BE(b[19:])
	h.NumTemporalLayers = b[21] >> 3 & 0x07
	h.LengthSize = int(b[21]&0x03) + 1

	numArrays, err := c.U8()
	if err != nil {
		return nil, parseErr("NumOfArrays", c.Offset(), err)
	}
	for range numArrays {
		kind, err := c.U8()
		if err != nil {
			return nil, parseErr("NaluType", c.Offset(), err)
		}
		count, err := c.U16()
		if err != nil {
			return nil, parseErr("NumNalus", c.Offset(), err)
		}
		nalus, err := readParameterSets(c, int(count), "Nalu")
		if err != nil {
			return nil, err
		}
		h.Arrays = append(h.Arrays, HV1NaluArray{
			Completeness: kind&0x80 != 0,
			NaluType:     kind & 0x3f,
			Nalus:        nalus,
		})
	}
	return h, nil
}

func init() {
	register(HVCC, boxDef{decode: decodeHV1Conf})
}
