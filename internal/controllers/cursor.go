package controllers

import (
	"io"
)

const defaultCursorWindow = 64 * 1024

// Cursor reads a seekable source one byte at a time and can be moved back to
// any earlier position. The tail of the previous window is kept across
// refills, so the short rollbacks the scanner does are served from memory;
// older positions go through the source's Seek.
type Cursor struct {
	r      io.ReadSeeker
	window []byte
	off    int
	// base is the stream position of window[0]
	base int64
}

func NewCursor(r io.ReadSeeker, size int) *Cursor {
	if size <= 0 {
		size = defaultCursorWindow
	}
	if size < 2 {
		size = 2
	}
	return &Cursor{
		r:      r,
		window: make([]byte, 0, size),
	}
}

// Position returns the stream offset of the next byte ReadByte will return.
func (c *Cursor) Position() int64 {
	return c.base + int64(c.off)
}

// ReadByte returns io.EOF only at a clean end of the source.
func (c *Cursor) ReadByte() (byte, error) {
	if c.off >= len(c.window) {
		if err := c.fill(); err != nil {
			return 0, err
		}
	}
	b := c.window[c.off]
	c.off++
	return b, nil
}

// SeekTo moves the cursor to the absolute stream position pos.
func (c *Cursor) SeekTo(pos int64) error {
	if pos >= c.base && pos <= c.base+int64(len(c.window)) {
		c.off = int(pos - c.base)
		return nil
	}

	if _, err := c.r.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	c.base = pos
	c.window = c.window[:0]
	c.off = 0
	return nil
}

// Rewind moves the cursor n bytes back.
func (c *Cursor) Rewind(n int64) error {
	return c.SeekTo(c.Position() - n)
}

func (c *Cursor) fill() error {
	keep := cap(c.window) / 2
	if len(c.window) > keep {
		drop := len(c.window) - keep
		copy(c.window, c.window[drop:])
		c.window = c.window[:keep]
		c.base += int64(drop)
		c.off -= drop
	}

	for retries := 0; retries < 100; retries++ {
		n, err := c.r.Read(c.window[len(c.window):cap(c.window)])
		c.window = c.window[:len(c.window)+n]
		if n > 0 {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return io.ErrNoProgress
}
