package teststreaming

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/flavioribeiro/nalsplit/internal/entities"
)

// Picture is one access unit exactly as the scanner is expected to return it.
type Picture struct {
	Refresh       bool
	Bytes         []byte
	ParameterSets []byte
}

// Fixture is a synthetic elementary stream with known picture boundaries.
type Fixture struct {
	Name     string
	Codec    entities.Codec
	Header   []byte
	Pictures []Picture
}

func (f Fixture) Bytes() []byte {
	result := append([]byte{}, f.Header...)
	for _, p := range f.Pictures {
		result = append(result, p.Bytes...)
	}
	return result
}

func (f Fixture) ExpectedRefresh() []bool {
	result := make([]bool, 0, len(f.Pictures))
	for _, p := range f.Pictures {
		result = append(result, p.Refresh)
	}
	return result
}

// ParameterSetsBefore returns the parameter sets carried by pictures [0, i).
func (f Fixture) ParameterSetsBefore(i int) []byte {
	var result []byte
	for _, p := range f.Pictures[:i] {
		result = append(result, p.ParameterSets...)
	}
	return result
}

// Range concatenates the bytes of pictures [first, last].
func (f Fixture) Range(first, last int) []byte {
	var result []byte
	for _, p := range f.Pictures[first : last+1] {
		result = append(result, p.Bytes...)
	}
	return result
}

// WriteFile stores the stream in a temporary directory owned by t.
func (f Fixture) WriteFile(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, f.Bytes(), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", f.Name, err)
	}
	return path
}

var (
	startCode4 = []byte{0x00, 0x00, 0x00, 0x01}
	startCode3 = []byte{0x00, 0x00, 0x01}
)

func unit(startCode []byte, parts ...[]byte) []byte {
	result := append([]byte{}, startCode...)
	for _, p := range parts {
		result = append(result, p...)
	}
	return result
}

func payload(seed byte, n int) []byte {
	// a lone 0x00 0x01 pair must never be taken for a start code
	result := []byte{seed, 0x00, 0x01}
	return append(result, bytes.Repeat([]byte{seed | 0x80}, n)...)
}

// Rec. ITU-T H.264 units, nal_ref_idc set where it is mandatory
var (
	H264AUD = unit(startCode4, []byte{0x09, 0xf0})
	H264SPS = unit(startCode4, []byte{0x67, 0x42, 0xc0, 0x1e, 0xd9, 0x00, 0xa0, 0x47, 0xfe, 0xc8})
	H264PPS = unit(startCode4, []byte{0x68, 0xce, 0x3c, 0x80})
	H264SEI = unit(startCode3, []byte{0x06, 0x05, 0x02, 0xaa, 0xbb, 0x80})
)

// H264Slice returns a coded slice whose first_mb_in_slice is zero when first is set.
func H264Slice(idr, first bool, size int) []byte {
	header := byte(0x41)
	if idr {
		header = 0x65
	}
	probe := byte(0x40)
	if first {
		probe = 0x88
	}
	return unit(startCode3, []byte{header, probe}, payload(0x25, size))
}

// H264Stream builds one picture per pattern rune: 'R' is an IDR picture
// with its parameter sets, 'N' a two-slice P picture. Every picture leads
// with an access unit delimiter and an SEI.
func H264Stream(pattern string) Fixture {
	f := Fixture{Name: "h264 " + pattern, Codec: entities.H264}
	for i, r := range pattern {
		var p Picture
		if r == 'R' {
			p.Refresh = true
			p.ParameterSets = concat(H264SPS, H264PPS)
			p.Bytes = concat(H264AUD, H264SPS, H264PPS, H264SEI, H264Slice(true, true, 24+i))
		} else {
			p.Bytes = concat(H264AUD, H264SEI, H264Slice(false, true, 12+i), H264Slice(false, false, 8))
		}
		f.Pictures = append(f.Pictures, p)
	}
	return f
}

// Rec. ITU-T H.265 units, two byte headers with nuh_temporal_id_plus1 = 1
var (
	H265AUD       = unit(startCode4, []byte{0x46, 0x01, 0x50})
	H265VPS       = unit(startCode4, []byte{0x40, 0x01, 0x0c, 0x01, 0xff, 0xff})
	H265SPS       = unit(startCode3, []byte{0x42, 0x01, 0x01, 0x01, 0x60})
	H265PPS       = unit(startCode3, []byte{0x44, 0x01, 0xc1, 0x72, 0xb4})
	H265PrefixSEI = unit(startCode3, []byte{0x4e, 0x01, 0x05, 0xff, 0xee})
	H265SuffixSEI = unit(startCode3, []byte{0x50, 0x01, 0x84, 0x12, 0x34, 0x80})
)

// H265Slice returns an IDR_W_RADL or TRAIL_R slice segment.
func H265Slice(idr, first bool, size int) []byte {
	header := []byte{0x02, 0x01}
	if idr {
		header = []byte{0x26, 0x01}
	}
	probe := byte(0x60)
	if first {
		probe = 0xaf
	}
	return unit(startCode3, header, []byte{probe}, payload(0x31, size))
}

// H265Stream mirrors H264Stream and closes every picture with a suffix SEI.
func H265Stream(pattern string) Fixture {
	f := Fixture{Name: "h265 " + pattern, Codec: entities.H265}
	for i, r := range pattern {
		var p Picture
		if r == 'R' {
			p.Refresh = true
			p.ParameterSets = concat(H265VPS, H265SPS, H265PPS)
			p.Bytes = concat(H265AUD, H265VPS, H265SPS, H265PPS, H265PrefixSEI, H265Slice(true, true, 30+i), H265SuffixSEI)
		} else {
			p.Bytes = concat(H265AUD, H265PrefixSEI, H265Slice(false, true, 10+i), H265Slice(false, false, 6), H265SuffixSEI)
		}
		f.Pictures = append(f.Pictures, p)
	}
	return f
}

// IVFStream builds a VP8 or VP9 IVF file, 'R' being a key frame.
func IVFStream(codec entities.Codec, pattern string) Fixture {
	fourcc, key, inter := "VP80", byte(0x10), byte(0x11)
	if codec == entities.VP9 {
		fourcc, key, inter = "VP90", 0x82, 0x86
	}

	header := make([]byte, 32)
	copy(header, "DKIF")
	binary.LittleEndian.PutUint16(header[6:], 32)
	copy(header[8:], fourcc)
	binary.LittleEndian.PutUint16(header[12:], 320)
	binary.LittleEndian.PutUint16(header[14:], 240)
	binary.LittleEndian.PutUint32(header[16:], 30)
	binary.LittleEndian.PutUint32(header[20:], 1)
	binary.LittleEndian.PutUint32(header[24:], uint32(len(pattern)))

	f := Fixture{Name: "ivf " + pattern, Codec: codec, Header: header}
	for i, r := range pattern {
		first := inter
		if r == 'R' {
			first = key
		}
		frame := append([]byte{first}, bytes.Repeat([]byte{0x5a}, 16+i)...)
		frameHeader := make([]byte, 12)
		binary.LittleEndian.PutUint32(frameHeader, uint32(len(frame)))
		binary.LittleEndian.PutUint64(frameHeader[4:], uint64(i))
		f.Pictures = append(f.Pictures, Picture{
			Refresh: r == 'R',
			Bytes:   concat(frameHeader, frame),
		})
	}
	return f
}

func concat(parts ...[]byte) []byte {
	var result []byte
	for _, p := range parts {
		result = append(result, p...)
	}
	return result
}
