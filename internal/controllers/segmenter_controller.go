package controllers

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/flavioribeiro/nalsplit/internal/entities"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type SegmenterControllerParams struct {
	fx.In
	C        *entities.Config
	L        *zap.SugaredLogger
	Progress io.Writer    `name:"progress"`
	Files    SegmentFiles `optional:"true"`
}

// SegmentFiles creates the files segments are written to.
type SegmentFiles interface {
	Create(path string, mode fs.FileMode) (io.WriteCloser, error)
}

type osSegmentFiles struct{}

func (osSegmentFiles) Create(path string, mode fs.FileMode) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
}

// SegmenterController cuts a stream of access units into independently
// decodable files, each starting at a refresh picture.
type SegmenterController struct {
	c        *entities.Config
	l        *zap.SugaredLogger
	progress io.Writer
	files    SegmentFiles
}

func NewSegmenterController(p SegmenterControllerParams) *SegmenterController {
	files := p.Files
	if files == nil {
		files = osSegmentFiles{}
	}
	return &SegmenterController{
		c:        p.C,
		l:        p.L,
		progress: p.Progress,
		files:    files,
	}
}

type segmentRun struct {
	pending []*entities.AccessUnit
	// first is the picture index of pending[0], next the index the next
	// picture will get
	first int
	next  int

	// every parameter set seen so far, and how much of it existed when the
	// pending run started
	cache        []byte
	cacheAtStart int

	segments []entities.Segment
}

// Segment pulls access units from r until the end of the stream. A run is
// cut before a refresh picture once it holds at least minFrames pictures;
// whatever is left at the end is written regardless of its length. The
// segments already written are returned even when an error aborts the run.
func (c *SegmenterController) Segment(r AccessUnitReader, t entities.SegmentTarget, minFrames int) ([]entities.Segment, error) {
	prefixer, _ := r.(SegmentPrefixer)
	run := &segmentRun{}

	for {
		au, eos, err := r.NextAccessUnit()
		if err != nil {
			c.l.Errorw("segmenting has stopped due errors",
				"error", err,
				"picture", run.next,
			)
			return run.segments, err
		}

		if au.Size() > 0 {
			c.mark(au)

			// a refresh picture ending the stream closes the last run instead
			// of opening a new one
			if au.IsRefresh && !eos && len(run.pending) > 0 && len(run.pending) >= minFrames {
				if err := c.flush(run, t, prefixer); err != nil {
					return run.segments, err
				}
			}

			run.cache = append(run.cache, au.ParameterSets()...)
			run.pending = append(run.pending, au)
			run.next++
		}

		if eos {
			break
		}
	}

	if len(run.pending) > 0 {
		if err := c.flush(run, t, prefixer); err != nil {
			return run.segments, err
		}
	}

	return run.segments, nil
}

func (c *SegmenterController) mark(au *entities.AccessUnit) {
	if !c.c.ProgressMarkers {
		return
	}
	if au.IsRefresh {
		fmt.Fprint(c.progress, "IDR")
	} else {
		fmt.Fprint(c.progress, ".")
	}
}

func (c *SegmenterController) flush(run *segmentRun, t entities.SegmentTarget, prefixer SegmentPrefixer) error {
	last := run.next - 1
	path := t.PathFor(run.first, last)

	prefix := run.cache[:run.cacheAtStart]
	if prefixer != nil {
		prefix = prefixer.SegmentPrefix(len(run.pending))
	}

	if c.c.ProgressMarkers {
		fmt.Fprintf(c.progress, "\nFrames[%04d-%04d] => %s\n\n", run.first, last, path)
	}

	size, err := c.write(path, prefix, run.pending)
	if err != nil {
		c.l.Errorw("failed to write segment",
			"path", path,
			"error", err,
		)
		return err
	}

	run.segments = append(run.segments, entities.Segment{
		First:      run.first,
		Last:       last,
		Path:       path,
		PrefixSize: len(prefix),
		Size:       size,
	})
	c.l.Infow("segment flushed",
		"first", run.first,
		"last", last,
		"path", path,
		"size", humanize.Bytes(uint64(size)),
	)

	run.pending = nil
	run.first = run.next
	run.cacheAtStart = len(run.cache)
	return nil
}

func (c *SegmenterController) write(path string, prefix []byte, aus []*entities.AccessUnit) (int, error) {
	mode := c.c.FileMode
	if mode == 0 {
		mode = 0o644
	}
	f, err := c.files.Create(path, mode)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", entities.ErrWrite, path, err)
	}

	size := 0
	write := func(b []byte) error {
		n, err := f.Write(b)
		size += n
		if err != nil {
			return fmt.Errorf("%w: %s: %w", entities.ErrWrite, path, err)
		}
		if n != len(b) {
			return fmt.Errorf("%s: %w: %d of %d", path, entities.ErrShortWrite, n, len(b))
		}
		return nil
	}

	if err := write(prefix); err != nil {
		f.Close()
		return size, err
	}
	for _, au := range aus {
		if err := write(au.Data); err != nil {
			f.Close()
			return size, err
		}
	}

	if err := f.Close(); err != nil {
		return size, fmt.Errorf("%w: %s: %w", entities.ErrWrite, path, err)
	}
	return size, nil
}
