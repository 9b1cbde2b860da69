// Package channel models speaker placements as a bitmask compatible with
// the Microsoft WAVEFORMATEXTENSIBLE channel mask, along with the
// layout projections used by the Waveform/WavPack and Vorbis/Opus
// families respectively.
package channel

import (
	"math/bits"
	"strings"

	"github.com/nuclex-go/audio/audioerr"
)

// Placement is a bitmask over the 18 known speaker positions. Bit values
// match Microsoft's SPEAKER_* constants so a mask round-trips directly
// through Waveform and WavPack files.
type Placement uint32

const (
	Unknown          Placement = 0
	FrontLeft        Placement = 1 << 0
	FrontRight       Placement = 1 << 1
	FrontCenter      Placement = 1 << 2
	LowFrequency     Placement = 1 << 3
	BackLeft         Placement = 1 << 4
	BackRight        Placement = 1 << 5
	FrontCenterLeft  Placement = 1 << 6
	FrontCenterRight Placement = 1 << 7
	BackCenter       Placement = 1 << 8
	SideLeft         Placement = 1 << 9
	SideRight        Placement = 1 << 10
	TopCenter        Placement = 1 << 11
	TopFrontLeft     Placement = 1 << 12
	TopFrontCenter   Placement = 1 << 13
	TopFrontRight    Placement = 1 << 14
	TopBackLeft      Placement = 1 << 15
	TopBackCenter    Placement = 1 << 16
	TopBackRight     Placement = 1 << 17

	// allKnownBits masks every bit this package assigns meaning to; used
	// when counting channels for string building, matching the original
	// 0x3FFFF mask over the 18 defined positions.
	allKnownBits Placement = 1<<18 - 1
)

// channelNames are ordered by bit index, lowest first, matching the
// Waveform channel-mask bit order.
var channelNames = [18]string{
	"front left",
	"front right",
	"front center",
	"low frequency effects",
	"back left",
	"back right",
	"front center left",
	"front center right",
	"back center",
	"side left",
	"side right",
	"top center",
	"top front left",
	"top front center",
	"top front right",
	"top back left",
	"top back center",
	"top back right",
}

// String renders the comma-separated, lowercase label list for a
// (possibly multi-bit) placement mask, e.g. "front left, low frequency
// effects". An empty mask renders as "none".
func (p Placement) String() string {
	var b strings.Builder
	b.Grow(bits.OnesCount32(uint32(p&allKnownBits)) * 12)
	for i := 0; i < len(channelNames); i++ {
		if p&(1<<uint(i)) != 0 {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			b.WriteString(channelNames[i])
		}
	}
	if b.Len() == 0 {
		return "none"
	}
	return b.String()
}

// Single reports whether p is exactly zero or one known speaker bit.
func (p Placement) Single() bool {
	return bits.OnesCount32(uint32(p)) <= 1
}

// ParsePlacement parses a comma-separated channel placement string back
// into a mask, the inverse of String. Each comma-separated segment names
// exactly one placement; contradictory word combinations within a
// segment (left+right, front+back, low-frequency+any directional) fail
// with an InvalidArgument error. Unrecognized words within an otherwise
// valid segment are ignored, for forward compatibility.
func ParsePlacement(text string) (Placement, error) {
	var result Placement
	for _, segment := range strings.Split(text, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		placement, err := identifySegment(segment)
		if err != nil {
			return 0, err
		}
		result |= placement
	}
	return result, nil
}

func identifySegment(segment string) (Placement, error) {
	var isNone, isLeft, isRight, isCenter bool
	var isFront, isBack bool
	var isTop, isBottom bool
	var isBass, isLfe, isLow, isFrequency, isEffects bool

	for _, word := range strings.Fields(strings.ToLower(segment)) {
		switch word {
		case "none":
			isNone = true
		case "left":
			isLeft = true
		case "right":
			isRight = true
		case "center":
			isCenter = true
		case "front":
			isFront = true
		case "back", "rear":
			isBack = true
		case "top":
			isTop = true
		case "bottom":
			isBottom = true
		case "bass":
			isBass = true
		case "lfe":
			isLfe = true
		case "low":
			isLow = true
		case "frequency":
			isFrequency = true
		case "effects":
			isEffects = true
		}
	}

	invalid := (isLeft && isRight) || (isFront && isBack) || (isBottom && isTop)
	invalid = invalid || ((isLeft || isCenter || isRight || isFront || isBack || isBottom || isTop) &&
		(isBass || isLfe || isLow || isFrequency || isEffects))
	invalid = invalid || (isNone &&
		(isLeft || isCenter || isRight || isFront || isBack || isBottom || isTop ||
			isBass || isLfe || isLow || isFrequency || isEffects))

	if !invalid {
		switch {
		case isNone:
			return Unknown, nil
		case isTop:
			switch {
			case isFront && isLeft:
				return TopFrontLeft, nil
			case isFront && isRight:
				return TopFrontRight, nil
			case isFront:
				return TopFrontCenter, nil
			case isBack && isLeft:
				return TopBackLeft, nil
			case isBack && isRight:
				return TopBackRight, nil
			case isBack:
				return TopBackCenter, nil
			case !isLeft && !isRight:
				return TopCenter, nil
			}
		case isBottom:
			// reserved word, no placement uses it; falls through to invalid below
		case !isBass && !isLfe && !isLow && !isFrequency && !isEffects:
			switch {
			case isFront && isLeft && isCenter:
				return FrontCenterLeft, nil
			case isFront && isLeft:
				return FrontLeft, nil
			case isFront && isRight && isCenter:
				return FrontCenterRight, nil
			case isFront && isRight:
				return FrontRight, nil
			case isFront:
				return FrontCenter, nil
			case isBack && isLeft && !isCenter:
				return BackLeft, nil
			case isBack && isRight && !isCenter:
				return BackRight, nil
			case isBack && !isLeft && !isRight:
				return BackCenter, nil
			case !isFront && !isBack && isLeft && !isCenter:
				return SideLeft, nil
			case !isFront && !isBack && isRight && !isCenter:
				return SideRight, nil
			}
		default:
			switch {
			case isBass && !isLfe && !isLow && !isFrequency && !isEffects:
				return LowFrequency, nil
			case isLfe && !isLow && !isFrequency && !isEffects:
				return LowFrequency, nil
			case isLow && isFrequency:
				return LowFrequency, nil
			}
		}
	}

	return 0, audioerr.Newf(audioerr.InvalidArgument, "invalid channel tag combination: %q", segment)
}

// LayoutFromMask projects a channel mask into an ordered layout: one
// placement per set bit, lowest bit first. If channelCount exceeds the
// number of set bits, the extra channels are emitted as Unknown. Used by
// the Waveform and WavPack readers.
func LayoutFromMask(mask Placement, channelCount int) []Placement {
	layout := make([]Placement, 0, channelCount)
	for i := 0; i < 32 && len(layout) < channelCount; i++ {
		bit := Placement(1) << uint(i)
		if mask&bit != 0 {
			layout = append(layout, bit)
		}
	}
	for len(layout) < channelCount {
		layout = append(layout, Unknown)
	}
	return layout
}

// Mask ORs together a layout's placements into a single mask.
func Mask(layout []Placement) Placement {
	var mask Placement
	for _, p := range layout {
		mask |= p
	}
	return mask
}
