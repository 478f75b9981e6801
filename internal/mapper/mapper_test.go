package mapper_test

import (
	"testing"

	"github.com/flavioribeiro/nalsplit/internal/entities"
	"github.com/flavioribeiro/nalsplit/internal/mapper"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMapper_FromStringToCodec(t *testing.T) {
	t.Parallel()
	m := mapper.NewMapper(zap.NewNop().Sugar())

	assert.Equal(t, entities.H264, m.FromStringToCodec("h264"))
	assert.Equal(t, entities.H264, m.FromStringToCodec("AVC"))
	assert.Equal(t, entities.H265, m.FromStringToCodec(" H265 "))
	assert.Equal(t, entities.H265, m.FromStringToCodec("hevc"))
	assert.Equal(t, entities.VP8, m.FromStringToCodec("vp8"))
	assert.Equal(t, entities.VP9, m.FromStringToCodec("VP9"))
	assert.Equal(t, entities.UnknownCodec, m.FromStringToCodec("mpeg2"))
}

func TestMapper_FromSplitParamsToSegmentTarget(t *testing.T) {
	t.Parallel()
	m := mapper.NewMapper(zap.NewNop().Sugar())

	target := m.FromSplitParamsToSegmentTarget(&entities.SplitParams{Input: "in/stream.bin", Output: "out/seg"}, "264")
	assert.Equal(t, entities.SegmentTarget{Prefix: "out/seg", Extension: "bin"}, target)
	assert.Equal(t, "out/seg_0003_0012.bin", target.PathFor(3, 12))

	target = m.FromSplitParamsToSegmentTarget(&entities.SplitParams{Input: "stream", Output: "seg"}, "265")
	assert.Equal(t, "265", target.Extension)

	target = m.FromSplitParamsToSegmentTarget(&entities.SplitParams{Input: "stream.h264", Output: "seg", Extension: ".264"}, "264")
	assert.Equal(t, "264", target.Extension)
}
