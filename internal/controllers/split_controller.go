package controllers

import (
	"fmt"
	"os"

	"github.com/asticode/go-astikit"
	"github.com/flavioribeiro/nalsplit/internal/controllers/profiles"
	"github.com/flavioribeiro/nalsplit/internal/entities"
	"github.com/flavioribeiro/nalsplit/internal/mapper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const ivfExtension = "ivf"

type SplitControllerParams struct {
	fx.In
	C         *entities.Config
	L         *zap.SugaredLogger
	Mapper    *mapper.Mapper
	Segmenter *SegmenterController
	Profiles  []*entities.CodecProfile `group:"profiles"`
}

// SplitController runs one split: it opens the input, picks the reader for
// the codec and hands it to the segmenter.
type SplitController struct {
	p SplitControllerParams
}

func NewSplitController(p SplitControllerParams) *SplitController {
	return &SplitController{p}
}

func (c *SplitController) Run(params *entities.SplitParams) ([]entities.Segment, error) {
	if err := params.Valid(); err != nil {
		return nil, err
	}

	closer := astikit.NewCloser()
	defer closer.Close()

	f, err := os.Open(params.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrOpen, err)
	}
	closer.Add(func() {
		if err := f.Close(); err != nil {
			c.p.L.Errorw("failed to close input",
				"input", params.Input,
				"error", err,
			)
		}
	})

	reader, ext, err := c.readerFor(params, f)
	if err != nil {
		return nil, err
	}
	target := c.p.Mapper.FromSplitParamsToSegmentTarget(params, ext)

	c.p.L.Infow("splitting has started",
		"params", params.String(),
		"extension", target.Extension,
	)

	segments, err := c.p.Segmenter.Segment(reader, target, params.MinFrames)
	if err != nil {
		return segments, fmt.Errorf("request %v: %w", params, err)
	}

	c.p.L.Infow("splitting has finished",
		"segments", len(segments),
	)
	return segments, nil
}

func (c *SplitController) readerFor(params *entities.SplitParams, f *os.File) (AccessUnitReader, string, error) {
	if !params.Codec.AnnexB() {
		return NewIVFReader(f, params.Codec, c.p.C.ReadBufferSizeBytes, c.p.L), ivfExtension, nil
	}

	profile := profiles.Select(c.p.Profiles, params.Codec)
	if profile == nil {
		return nil, "", fmt.Errorf("codec %s: %w", params.Codec, entities.ErrMissingProfile)
	}
	return NewAnnexBScanner(f, profile, c.p.C.ReadBufferSizeBytes, c.p.L), profile.DefaultExtension, nil
}
