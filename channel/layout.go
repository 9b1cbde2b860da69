package channel

// Family distinguishes the codec families that prescribe their own fixed
// channel order rather than deriving it from a Waveform-style bitmask.
type Family int

const (
	// FamilyVorbis covers both Ogg Vorbis and Opus, which share the same
	// fixed per-channel-count ordering (spec-mandated Vorbis mapping).
	FamilyVorbis Family = iota
)

// vorbisOrder maps channel count to the fixed Vorbis/Opus channel order,
// per the Vorbis I specification's channel mapping table.
var vorbisOrder = map[int][]Placement{
	1: {FrontCenter},
	2: {FrontLeft, FrontRight},
	3: {FrontLeft, FrontCenter, FrontRight},
	4: {FrontLeft, FrontRight, BackLeft, BackRight},
	5: {FrontLeft, FrontCenter, FrontRight, BackLeft, BackRight},
	6: {FrontLeft, FrontCenter, FrontRight, BackLeft, BackRight, LowFrequency},
	7: {
		FrontLeft, FrontCenter, FrontRight, SideLeft, SideRight, BackCenter, LowFrequency,
	},
	8: {
		FrontLeft, FrontCenter, FrontRight, SideLeft, SideRight,
		BackLeft, BackRight, LowFrequency,
	},
}

// LayoutForCodecChannelCount returns the fixed channel order a codec
// family prescribes for a given channel count. The second return value
// is false when the family/count combination has no prescribed order
// (the caller should fall back to Unknown placements).
func LayoutForCodecChannelCount(family Family, channelCount int) ([]Placement, bool) {
	switch family {
	case FamilyVorbis:
		order, ok := vorbisOrder[channelCount]
		if !ok {
			return nil, false
		}
		out := make([]Placement, len(order))
		copy(out, order)
		return out, true
	default:
		return nil, false
	}
}

// GuessWaveformLayout reproduces the channel-count guessing table
// Waveform/WavPack readers use when a file carries no explicit channel
// mask (PCM/IEEE-float format tags 1 and 3).
func GuessWaveformLayout(channelCount int) []Placement {
	switch channelCount {
	case 1:
		return []Placement{FrontCenter}
	case 2:
		return []Placement{FrontLeft, FrontRight}
	case 3:
		return []Placement{FrontLeft, FrontRight, LowFrequency}
	case 4:
		return []Placement{FrontLeft, FrontRight, BackLeft, BackRight}
	case 5:
		return []Placement{FrontLeft, FrontRight, BackLeft, BackRight, LowFrequency}
	case 6:
		return []Placement{FrontLeft, FrontRight, FrontCenter, LowFrequency, BackLeft, BackRight}
	case 8:
		return []Placement{
			FrontLeft, FrontRight, FrontCenter, LowFrequency,
			SideLeft, SideRight, BackLeft, BackRight,
		}
	default:
		layout := make([]Placement, channelCount)
		for i := range layout {
			layout[i] = Unknown
		}
		return layout
	}
}

// Known standalone layout masks, grounded on KnownChannelLayouts.h.
const (
	Stereo               = FrontLeft | FrontRight
	FiveDotOneSurround   = FrontLeft | FrontRight | FrontCenter | LowFrequency | BackLeft | BackRight
	FiveDotOneSide       = FrontLeft | FrontRight | FrontCenter | LowFrequency | SideLeft | SideRight
	SevenDotOneSurround  = FrontLeft | FrontRight | FrontCenter | LowFrequency | BackLeft | BackRight | SideLeft | SideRight
)
