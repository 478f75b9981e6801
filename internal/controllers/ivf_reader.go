package controllers

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/flavioribeiro/nalsplit/internal/entities"
	"go.uber.org/zap"
)

const (
	ivfFileHeaderSize  = 32
	ivfFrameHeaderSize = 12
	// bytes 24-27 of the file header hold the frame count
	ivfFrameCountOffset = 24
)

var ivfSignature = []byte("DKIF")

// SegmentPrefixer is implemented by readers whose segments need a container
// header of their own instead of the parameter-set cache.
type SegmentPrefixer interface {
	SegmentPrefix(pictures int) []byte
}

// IVFReader delivers one IVF frame, frame header included, per call. The
// frame size is declared, so no boundary search is needed.
type IVFReader struct {
	r      *bufio.Reader
	codec  entities.Codec
	l      *zap.SugaredLogger
	header []byte
}

func NewIVFReader(r io.Reader, codec entities.Codec, bufferSize int, l *zap.SugaredLogger) *IVFReader {
	return &IVFReader{
		r:     bufio.NewReaderSize(r, bufferSize),
		codec: codec,
		l:     l,
	}
}

func (v *IVFReader) readHeader() error {
	header := make([]byte, ivfFileHeaderSize)
	if _, err := io.ReadFull(v.r, header); err != nil {
		return fmt.Errorf("%w: %w", entities.ErrInvalidIVFHeader, err)
	}
	if !bytes.Equal(header[:len(ivfSignature)], ivfSignature) {
		return fmt.Errorf("signature %q: %w", header[:len(ivfSignature)], entities.ErrInvalidIVFHeader)
	}
	v.header = header

	v.l.Infow("ivf header",
		"codec", v.codec,
		"fourcc", string(header[8:12]),
		"frames", binary.LittleEndian.Uint32(header[ivfFrameCountOffset:]),
	)
	return nil
}

func (v *IVFReader) NextAccessUnit() (*entities.AccessUnit, bool, error) {
	if v.header == nil {
		if err := v.readHeader(); err != nil {
			return nil, false, err
		}
	}

	frameHeader := make([]byte, ivfFrameHeaderSize)
	if _, err := io.ReadFull(v.r, frameHeader); err != nil {
		if errors.Is(err, io.EOF) {
			return &entities.AccessUnit{}, true, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, false, entities.ErrTruncatedFrame
		}
		return nil, false, fmt.Errorf("%w: %w", entities.ErrRead, err)
	}

	// bytes 0-3 are the frame size, not including the 12-byte header. The
	// buffer grows with what is actually read so a corrupt size can't force
	// a large allocation.
	size := binary.LittleEndian.Uint32(frameHeader)
	var frame bytes.Buffer
	frame.Write(frameHeader)
	n, err := io.CopyN(&frame, v.r, int64(size))
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, false, fmt.Errorf("%w: want %d bytes, got %d", entities.ErrTruncatedFrame, size, n)
		}
		return nil, false, fmt.Errorf("%w: %w", entities.ErrRead, err)
	}
	data := frame.Bytes()

	au := &entities.AccessUnit{
		Data:      data,
		IsRefresh: v.keyFrame(data[ivfFrameHeaderSize:]),
	}

	if _, err := v.r.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return au, true, nil
		}
		return nil, false, fmt.Errorf("%w: %w", entities.ErrRead, err)
	}
	return au, false, nil
}

// keyFrame looks at the first byte of the uncompressed header only. For VP9
// a zero frame_type bit is read as a key frame, which ignores the profile
// bits that precede it.
func (v *IVFReader) keyFrame(frame []byte) bool {
	if len(frame) == 0 {
		return false
	}
	if v.codec == entities.VP9 {
		showExistingFrame := frame[0] & 0x08
		frameType := frame[0] & 0x04
		return frameType == 0 && showExistingFrame == 0
	}
	return frame[0]&0x01 == 0
}

// SegmentPrefix is the file header with the frame count set to pictures.
func (v *IVFReader) SegmentPrefix(pictures int) []byte {
	header := make([]byte, ivfFileHeaderSize)
	copy(header, v.header)
	binary.LittleEndian.PutUint32(header[ivfFrameCountOffset:], uint32(pictures))
	return header
}
