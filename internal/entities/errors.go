package entities

import (
	"errors"
	"fmt"
)

var ErrConfig = errors.New("invalid configuration")
var ErrMissingInput = fmt.Errorf("%w input must not be empty", ErrConfig)
var ErrMissingOutput = fmt.Errorf("%w output must not be empty", ErrConfig)
var ErrInvalidMinFrames = fmt.Errorf("%w min frames must not be negative", ErrConfig)
var ErrUnsupportedCodec = fmt.Errorf("%w only h264, h265, vp8 and vp9 are supported", ErrConfig)
var ErrMissingProfile = errors.New("there is no codec profile")

var ErrOpen = errors.New("failed to open input")
var ErrRead = errors.New("failed to read input")
var ErrInvalidIVFHeader = fmt.Errorf("%w not a supported ivf stream", ErrRead)
var ErrTruncatedFrame = fmt.Errorf("%w truncated frame", ErrRead)

var ErrWrite = errors.New("failed to write segment")
var ErrShortWrite = fmt.Errorf("%w bytes written is not expected", ErrWrite)
