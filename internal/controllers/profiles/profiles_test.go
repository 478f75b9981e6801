package profiles_test

import (
	"testing"

	"github.com/flavioribeiro/nalsplit/internal/controllers/profiles"
	"github.com/flavioribeiro/nalsplit/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestH264_Classify(t *testing.T) {
	t.Parallel()
	p := profiles.H264()

	cases := []struct {
		header  byte
		kind    entities.NalKind
		typ     uint8
		refresh bool
		probe   bool
		ps      bool
	}{
		{0x41, entities.NalKindVCL, 1, false, true, false},
		{0x22, entities.NalKindVCL, 2, false, true, false},
		{0x23, entities.NalKindVCL, 3, false, false, false},
		{0x24, entities.NalKindVCL, 4, false, false, false},
		{0x65, entities.NalKindVCL, 5, true, true, false},
		{0x06, entities.NalKindNonVCL, 6, false, false, false},
		{0x67, entities.NalKindNonVCL, 7, false, false, true},
		{0x68, entities.NalKindNonVCL, 8, false, false, true},
		{0x09, entities.NalKindNonVCL, 9, false, false, false},
		{0x00, entities.NalKindNonVCL, 0, false, false, false},
	}

	for _, c := range cases {
		class := p.Classify([]byte{c.header})
		assert.Equal(t, c.kind, class.Kind, "header %#x", c.header)
		assert.Equal(t, c.typ, class.Type, "header %#x", c.header)
		assert.Equal(t, c.refresh, class.Refresh, "header %#x", c.header)
		assert.Equal(t, c.probe, class.Probe, "header %#x", c.header)
		assert.Equal(t, c.ps, class.ParameterSet, "header %#x", c.header)
	}
}

func TestH265_Classify(t *testing.T) {
	t.Parallel()
	p := profiles.H265()

	for typ := uint8(0); typ <= 23; typ++ {
		class := p.Classify([]byte{typ << 1, 0x01})
		assert.Equal(t, entities.NalKindVCL, class.Kind, "type %d", typ)
		assert.True(t, class.Probe, "type %d", typ)
		assert.Equal(t, typ == 19 || typ == 20, class.Refresh, "type %d", typ)
	}

	suffix := p.Classify([]byte{0x50, 0x01})
	assert.Equal(t, entities.NalKindSuffixNonVCL, suffix.Kind)
	assert.Equal(t, uint8(40), suffix.Type)

	prefix := p.Classify([]byte{0x4e, 0x01})
	assert.Equal(t, entities.NalKindNonVCL, prefix.Kind)

	for _, header := range []byte{0x40, 0x42, 0x44} {
		class := p.Classify([]byte{header, 0x01})
		assert.Equal(t, entities.NalKindNonVCL, class.Kind)
		assert.True(t, class.ParameterSet, "header %#x", header)
	}

	// the forbidden bit and the layer id bits are not part of the type
	assert.Equal(t, uint8(19), p.Classify([]byte{0xa7, 0x01}).Type)
}

func TestProfile_FirstSliceInPicture(t *testing.T) {
	t.Parallel()

	h264 := profiles.H264()
	assert.True(t, h264.FirstSliceInPicture([]byte{0x88}))
	assert.False(t, h264.FirstSliceInPicture([]byte{0x40}))
	assert.False(t, h264.FirstSliceInPicture(nil))

	h265 := profiles.H265()
	assert.True(t, h265.FirstSliceInPicture([]byte{0xaf}))
	assert.False(t, h265.FirstSliceInPicture([]byte{0x7f}))
}

func TestSelect(t *testing.T) {
	t.Parallel()
	all := []*entities.CodecProfile{profiles.NewH264().H264Profile, profiles.NewH265().H265Profile}

	assert.Equal(t, entities.H264, profiles.Select(all, entities.H264).Codec)
	assert.Equal(t, entities.H265, profiles.Select(all, entities.H265).Codec)
	assert.Nil(t, profiles.Select(all, entities.VP8))
	assert.Nil(t, profiles.Select(nil, entities.H264))
}
