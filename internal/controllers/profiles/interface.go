package profiles

import (
	"github.com/flavioribeiro/nalsplit/internal/entities"
)

// Select returns the profile registered for codec, or nil.
func Select(profiles []*entities.CodecProfile, codec entities.Codec) *entities.CodecProfile {
	for _, p := range profiles {
		if p != nil && p.Codec == codec {
			return p
		}
	}
	return nil
}
