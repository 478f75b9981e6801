package mapper

import (
	"path/filepath"
	"strings"

	"github.com/flavioribeiro/nalsplit/internal/entities"
	"go.uber.org/zap"
)

type Mapper struct {
	l *zap.SugaredLogger
}

func NewMapper(l *zap.SugaredLogger) *Mapper {
	return &Mapper{l: l}
}

func (m *Mapper) FromStringToCodec(s string) entities.Codec {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h264", "avc":
		return entities.H264
	case "h265", "hevc":
		return entities.H265
	case "vp8":
		return entities.VP8
	case "vp9":
		return entities.VP9
	}
	m.l.Infow("unknown codec selector", "codec", s)
	return entities.UnknownCodec
}

// FromSplitParamsToSegmentTarget keeps the input's extension unless one was
// asked for, and falls back to defaultExtension when the input has none.
func (m *Mapper) FromSplitParamsToSegmentTarget(p *entities.SplitParams, defaultExtension string) entities.SegmentTarget {
	ext := p.Extension
	if ext == "" {
		ext = filepath.Ext(p.Input)
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = defaultExtension
	}

	return entities.SegmentTarget{
		Prefix:    p.Output,
		Extension: ext,
	}
}
