package profiles

import (
	"github.com/bluenviron/mediacommon/pkg/codecs/h265"
	"github.com/flavioribeiro/nalsplit/internal/entities"
	"go.uber.org/fx"
)

// Rec. ITU-T H.265 (08/2021) Table 7-1, VCL types are 0..23
const h265MaxVCLType = 23

type ResultH265 struct {
	fx.Out
	H265Profile *entities.CodecProfile `group:"profiles"`
}

// NewH265 registers the H.265 profile
func NewH265() ResultH265 {
	return ResultH265{H265Profile: H265()}
}

// H265 describes Rec. ITU-T H.265 Annex B streams: two header bytes, the
// type in bits 1..6 of the first one. first_slice_segment_in_pic_flag is the
// high bit of the first byte after the header.
func H265() *entities.CodecProfile {
	return &entities.CodecProfile{
		Codec:            entities.H265,
		HeaderLength:     2,
		ProbeLength:      1,
		DefaultExtension: "265",
		Classify:         classifyH265,
		TypeName: func(typ uint8) string {
			return h265.NALUType(typ).String()
		},
	}
}

func classifyH265(header []byte) entities.NalClass {
	typ := h265.NALUType((header[0] & 0x7e) >> 1)
	c := entities.NalClass{Kind: entities.NalKindNonVCL, Type: uint8(typ)}

	switch {
	case typ <= h265MaxVCLType:
		c.Kind = entities.NalKindVCL
		c.Probe = true
		c.Refresh = typ == h265.NALUType_IDR_W_RADL || typ == h265.NALUType_IDR_N_LP
	case typ == h265.NALUType_SUFFIX_SEI_NUT:
		c.Kind = entities.NalKindSuffixNonVCL
	case typ == h265.NALUType_VPS_NUT, typ == h265.NALUType_SPS_NUT, typ == h265.NALUType_PPS_NUT:
		c.ParameterSet = true
	}

	return c
}
