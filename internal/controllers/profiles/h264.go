package profiles

import (
	"github.com/bluenviron/mediacommon/pkg/codecs/h264"
	"github.com/flavioribeiro/nalsplit/internal/entities"
	"go.uber.org/fx"
)

type ResultH264 struct {
	fx.Out
	H264Profile *entities.CodecProfile `group:"profiles"`
}

// NewH264 registers the H.264 profile
func NewH264() ResultH264 {
	return ResultH264{H264Profile: H264()}
}

// H264 describes Rec. ITU-T H.264 Annex B streams: one header byte, the type
// in its low 5 bits.
func H264() *entities.CodecProfile {
	return &entities.CodecProfile{
		Codec:            entities.H264,
		HeaderLength:     1,
		ProbeLength:      1,
		DefaultExtension: "264",
		Classify:         classifyH264,
		TypeName: func(typ uint8) string {
			return h264.NALUType(typ).String()
		},
	}
}

func classifyH264(header []byte) entities.NalClass {
	typ := h264.NALUType(header[0] & 0x1f)
	c := entities.NalClass{Kind: entities.NalKindNonVCL, Type: uint8(typ)}

	switch typ {
	case h264.NALUTypeNonIDR, h264.NALUTypeDataPartitionA, h264.NALUTypeIDR:
		c.Kind = entities.NalKindVCL
		c.Probe = true
		c.Refresh = typ == h264.NALUTypeIDR
	case h264.NALUTypeDataPartitionB, h264.NALUTypeDataPartitionC:
		// partitions B and C always continue the current picture
		c.Kind = entities.NalKindVCL
	case h264.NALUTypeSPS, h264.NALUTypePPS:
		c.ParameterSet = true
	}

	return c
}
