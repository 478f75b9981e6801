package controllers

import (
	"errors"
	"fmt"
	"io"

	"github.com/flavioribeiro/nalsplit/internal/entities"
	"go.uber.org/zap"
)

// AccessUnitReader delivers one picture per call. The bool is true when the
// returned access unit is the last one in the stream.
type AccessUnitReader interface {
	NextAccessUnit() (*entities.AccessUnit, bool, error)
}

// AnnexBScanner groups the nal units of a start-code delimited stream into
// access units. Annex B carries no unit lengths, so a picture only ends once
// the first slice of the next one has been read; the scanner then moves its
// cursor back so those bytes start the next call.
type AnnexBScanner struct {
	cursor  *Cursor
	profile *entities.CodecProfile
	l       *zap.SugaredLogger

	lastRollback int64
}

func NewAnnexBScanner(r io.ReadSeeker, profile *entities.CodecProfile, windowSize int, l *zap.SugaredLogger) *AnnexBScanner {
	return &AnnexBScanner{
		cursor:  NewCursor(r, windowSize),
		profile: profile,
		l:       l,
	}
}

// LastRollback is how many bytes the previous NextAccessUnit call moved the
// cursor back. It is zero when that call ended at the end of the stream.
func (s *AnnexBScanner) LastRollback() int64 {
	return s.lastRollback
}

func (s *AnnexBScanner) NextAccessUnit() (*entities.AccessUnit, bool, error) {
	au := &entities.AccessUnit{}
	s.lastRollback = 0

	var (
		zeros       int
		pictureOpen bool
		// nal units seen since the last VCL unit that would lead the next
		// picture: where they start in au.Data and how many there are
		trailingStart = -1
		trailingUnits int
		lookahead     = make([]byte, 0, s.profile.HeaderLength+s.profile.ProbeLength)
		complete      bool
	)

	for {
		b, err := s.cursor.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return au, true, nil
			}
			return nil, false, fmt.Errorf("%w at offset %d: %w", entities.ErrRead, s.cursor.Position(), err)
		}
		au.Data = append(au.Data, b)

		if b == 0x00 {
			zeros++
			continue
		}
		if b != 0x01 || zeros < 2 {
			zeros = 0
			continue
		}

		start := len(au.Data) - zeros - 1
		zeros = 0

		lookahead, complete, err = s.readAhead(lookahead[:0], s.profile.HeaderLength)
		if err != nil {
			return nil, false, err
		}
		if !complete {
			// the stream ends inside this header, the main loop keeps the bytes
			if err := s.cursor.Rewind(int64(len(lookahead))); err != nil {
				return nil, false, fmt.Errorf("%w: %w", entities.ErrRead, err)
			}
			continue
		}

		class := s.profile.Classify(lookahead)
		unit := entities.NalUnit{NalClass: class, Offset: start, HeaderOffset: len(au.Data)}

		firstSlice := false
		if class.Probe {
			lookahead, complete, err = s.readAhead(lookahead, s.profile.ProbeLength)
			if err != nil {
				return nil, false, err
			}
			firstSlice = complete && s.profile.FirstSliceInPicture(lookahead[s.profile.HeaderLength:])
		}

		if class.VCL() && firstSlice && pictureOpen {
			cut := start
			if trailingStart >= 0 {
				cut = trailingStart
			}
			rollback := int64(len(au.Data)-cut) + int64(len(lookahead))
			if err := s.cursor.Rewind(rollback); err != nil {
				return nil, false, fmt.Errorf("%w: rollback of %d bytes: %w", entities.ErrRead, rollback, err)
			}
			s.lastRollback = rollback

			au.NalUnits = au.NalUnits[:len(au.NalUnits)-trailingUnits]
			au.Data = au.Data[:cut]

			s.l.Debugw("access unit boundary",
				"next", s.profile.TypeName(class.Type),
				"rollback", rollback,
				"trailing", trailingUnits,
				"size", len(au.Data),
			)
			return au, false, nil
		}

		// header and probe bytes are scanned again by the main loop
		if err := s.cursor.Rewind(int64(len(lookahead))); err != nil {
			return nil, false, fmt.Errorf("%w: %w", entities.ErrRead, err)
		}

		switch class.Kind {
		case entities.NalKindVCL:
			if firstSlice {
				pictureOpen = true
			}
			au.IsRefresh = au.IsRefresh || class.Refresh
			trailingStart, trailingUnits = -1, 0
		case entities.NalKindSuffixNonVCL:
			trailingStart, trailingUnits = -1, 0
		default:
			if trailingStart < 0 {
				trailingStart = start
			}
			trailingUnits++
		}
		au.NalUnits = append(au.NalUnits, unit)
	}
}

// readAhead appends up to n bytes to dst. complete is false when the stream
// ended first.
func (s *AnnexBScanner) readAhead(dst []byte, n int) ([]byte, bool, error) {
	for i := 0; i < n; i++ {
		b, err := s.cursor.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return dst, false, nil
			}
			return dst, false, fmt.Errorf("%w at offset %d: %w", entities.ErrRead, s.cursor.Position(), err)
		}
		dst = append(dst, b)
	}
	return dst, true, nil
}
