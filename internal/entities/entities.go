package entities

import (
	"fmt"
	"io/fs"
)

type Codec string

const (
	UnknownCodec Codec = "unknownCodec"
	H264         Codec = "h264"
	H265         Codec = "h265"
	VP8          Codec = "vp8"
	VP9          Codec = "vp9"
)

// AnnexB reports whether the codec is carried as a start-code delimited
// elementary stream. The VP family is carried in IVF.
func (c Codec) AnnexB() bool {
	return c == H264 || c == H265
}

// SplitParams is what a single invocation has been asked to do.
type SplitParams struct {
	Input  string
	Output string
	// A segment is only cut at a refresh picture once the pending run holds
	// at least MinFrames pictures.
	MinFrames int
	Codec     Codec
	// Extension overrides the output extension when not empty.
	Extension string
}

func (p *SplitParams) Valid() error {
	if p == nil {
		return ErrConfig
	}

	if p.Input == "" {
		return ErrMissingInput
	}

	if p.Output == "" {
		return ErrMissingOutput
	}

	if p.MinFrames < 0 {
		return ErrInvalidMinFrames
	}

	switch p.Codec {
	case H264, H265, VP8, VP9:
	default:
		return fmt.Errorf("codec %q: %w", p.Codec, ErrUnsupportedCodec)
	}

	return nil
}

func (p *SplitParams) String() string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("SplitParams %s %v => %v (min frames %d)", p.Codec, p.Input, p.Output, p.MinFrames)
}

type Config struct {
	ReadBufferSizeBytes int         `required:"true" default:"65536"`
	ProgressMarkers     bool        `default:"true"`
	Debug               bool        `default:"false"`
	FileMode            fs.FileMode `default:"420"`
}

type NalKind int

const (
	NalKindNonVCL NalKind = iota
	NalKindVCL
	// NalKindSuffixNonVCL trails the picture it follows instead of leading
	// the next one.
	NalKindSuffixNonVCL
)

func (k NalKind) String() string {
	switch k {
	case NalKindVCL:
		return "vcl"
	case NalKindSuffixNonVCL:
		return "suffix"
	}
	return "non-vcl"
}

type NalClass struct {
	Kind NalKind
	// Type is the raw nal_unit_type, already shifted out of the header.
	Type uint8
	// Refresh is set for VCL types that mark an IDR-class picture.
	Refresh bool
	// Probe is set for VCL types whose first-slice bit can be read from the
	// bytes right after the header.
	Probe        bool
	ParameterSet bool
}

func (c NalClass) VCL() bool {
	return c.Kind == NalKindVCL
}

// CodecProfile holds everything codec specific the scanner needs. It never
// touches the stream.
type CodecProfile struct {
	Codec        Codec
	HeaderLength int
	// ProbeLength is the number of bytes following the header whose last byte
	// carries first_slice_in_pic in its high bit.
	ProbeLength      int
	DefaultExtension string
	Classify         func(header []byte) NalClass
	TypeName         func(typ uint8) string
}

// FirstSliceInPicture reads the high bit of the last probe byte. This is a
// zero-valued first_mb_in_slice / first_slice_segment_in_pic_flag stand-in:
// it only holds when the slice address encodes to zero in one byte.
func (p *CodecProfile) FirstSliceInPicture(probe []byte) bool {
	if len(probe) < p.ProbeLength || p.ProbeLength == 0 {
		return false
	}
	return probe[p.ProbeLength-1]&0x80 != 0
}

type NalUnit struct {
	NalClass
	// Offset is where the start code, leading zeros included, begins inside
	// the access unit buffer.
	Offset int
	// HeaderOffset is the first byte after the start code.
	HeaderOffset int
}

// AccessUnit is one coded picture: every byte from its first start code up
// to the byte preceding the next access unit.
type AccessUnit struct {
	NalUnits  []NalUnit
	Data      []byte
	IsRefresh bool
}

func (a *AccessUnit) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// UnitBytes returns the raw bytes of the i-th nal unit, start code included.
func (a *AccessUnit) UnitBytes(i int) []byte {
	end := len(a.Data)
	if i+1 < len(a.NalUnits) {
		end = a.NalUnits[i+1].Offset
	}
	return a.Data[a.NalUnits[i].Offset:end]
}

// ParameterSets returns the concatenated bytes of every parameter-set unit
// in stream order.
func (a *AccessUnit) ParameterSets() []byte {
	var result []byte
	for i, n := range a.NalUnits {
		if n.ParameterSet {
			result = append(result, a.UnitBytes(i)...)
		}
	}
	return result
}

func (a *AccessUnit) String() string {
	if a == nil {
		return ""
	}
	return fmt.Sprintf("AccessUnit refresh=%v nalus=%d size=%d", a.IsRefresh, len(a.NalUnits), len(a.Data))
}

// Segment describes one flushed output file.
type Segment struct {
	First      int
	Last       int
	Path       string
	PrefixSize int
	Size       int
}

func (s Segment) Pictures() int {
	return s.Last - s.First + 1
}

// SegmentTarget names output files as <Prefix>_<first:04>_<last:04>.<Extension>.
type SegmentTarget struct {
	Prefix    string
	Extension string
}

func (t SegmentTarget) PathFor(first, last int) string {
	return fmt.Sprintf("%s_%04d_%04d.%s", t.Prefix, first, last, t.Extension)
}
