package entities_test

import (
	"testing"

	"github.com/flavioribeiro/nalsplit/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestSplitParams_Valid(t *testing.T) {
	t.Parallel()
	valid := entities.SplitParams{Input: "in.264", Output: "out", MinFrames: 0, Codec: entities.H264}
	assert.NoError(t, valid.Valid())

	missingInput := valid
	missingInput.Input = ""
	assert.ErrorIs(t, missingInput.Valid(), entities.ErrMissingInput)

	missingOutput := valid
	missingOutput.Output = ""
	assert.ErrorIs(t, missingOutput.Valid(), entities.ErrMissingOutput)

	negative := valid
	negative.MinFrames = -3
	assert.ErrorIs(t, negative.Valid(), entities.ErrConfig)

	var nilParams *entities.SplitParams
	assert.ErrorIs(t, nilParams.Valid(), entities.ErrConfig)
	assert.Empty(t, nilParams.String())
}

func TestAccessUnit_ParameterSets(t *testing.T) {
	t.Parallel()
	au := &entities.AccessUnit{
		Data: []byte{
			0x00, 0x00, 0x00, 0x01, 0x67, 0xaa,
			0x00, 0x00, 0x01, 0x06, 0xbb,
			0x00, 0x00, 0x01, 0x68, 0xcc,
			0x00, 0x00, 0x01, 0x65, 0x88, 0xdd,
		},
		NalUnits: []entities.NalUnit{
			{NalClass: entities.NalClass{Type: 7, ParameterSet: true}, Offset: 0, HeaderOffset: 4},
			{NalClass: entities.NalClass{Type: 6}, Offset: 6, HeaderOffset: 9},
			{NalClass: entities.NalClass{Type: 8, ParameterSet: true}, Offset: 11, HeaderOffset: 14},
			{NalClass: entities.NalClass{Kind: entities.NalKindVCL, Type: 5}, Offset: 16, HeaderOffset: 19},
		},
	}

	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x06, 0xbb}, au.UnitBytes(1))
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x65, 0x88, 0xdd}, au.UnitBytes(3))
	assert.Equal(t, []byte{
		0x00, 0x00, 0x00, 0x01, 0x67, 0xaa,
		0x00, 0x00, 0x01, 0x68, 0xcc,
	}, au.ParameterSets())
	assert.Equal(t, 22, au.Size())
}

func TestSegmentTarget_PathFor(t *testing.T) {
	t.Parallel()
	target := entities.SegmentTarget{Prefix: "out", Extension: "bin"}
	assert.Equal(t, "out_0000_0029.bin", target.PathFor(0, 29))
	assert.Equal(t, "out_12345_12346.bin", target.PathFor(12345, 12346))
}
