// Package audio holds the sample-format and track/container metadata
// types shared across every codec reader, plus the TrackDecoder
// dispatch interface codec readers implement and loader.Registry
// returns.
package audio

import (
	"time"

	"github.com/nuclex-go/audio/channel"
)

// SampleFormat identifies the native on-disk/in-memory representation
// of a track's samples, before any conversion a caller requests.
type SampleFormat int

const (
	SampleFormatUnknown SampleFormat = iota
	SampleFormatUnsignedInt8
	SampleFormatSignedInt16
	SampleFormatSignedInt24In32
	SampleFormatSignedInt32
	SampleFormatFloat32
	SampleFormatFloat64
)

func (f SampleFormat) String() string {
	switch f {
	case SampleFormatUnsignedInt8:
		return "uint8"
	case SampleFormatSignedInt16:
		return "int16"
	case SampleFormatSignedInt24In32:
		return "int24-in-32"
	case SampleFormatSignedInt32:
		return "int32"
	case SampleFormatFloat32:
		return "float32"
	case SampleFormatFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// BitsPerSample returns the number of meaningful bits the format packs
// per sample. SampleFormatSignedInt24In32 reports 24: its storage is
// 32 bits wide but only the low 24 are meaningful, matching what every
// reader's BitsPerSample metadata field reports for it.
func (f SampleFormat) BitsPerSample() int {
	switch f {
	case SampleFormatUnsignedInt8:
		return 8
	case SampleFormatSignedInt16:
		return 16
	case SampleFormatSignedInt24In32:
		return 24
	case SampleFormatSignedInt32, SampleFormatFloat32:
		return 32
	case SampleFormatFloat64:
		return 64
	default:
		return 0
	}
}

// IsFloat reports whether the format stores floating-point samples.
func (f SampleFormat) IsFloat() bool {
	return f == SampleFormatFloat32 || f == SampleFormatFloat64
}

// TrackInfo describes one audio track's format and layout, independent
// of which container or codec produced it.
type TrackInfo struct {
	ChannelCount  int
	ChannelOrder  []channel.Placement
	SampleRate    int
	BitsPerSample int
	SampleFormat  SampleFormat
	Duration      time.Duration
	CodecName     string
	Language      string // optional, "" if absent
}

// DurationFromFrames computes the duration a track of frameCount frames
// at sampleRate would report, truncating to microsecond precision the
// same way every container reader in this module computes Duration:
// frames * 1,000,000 / sampleRate microseconds, integer division.
func DurationFromFrames(frameCount uint64, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(frameCount*1000000/uint64(sampleRate)) * time.Microsecond
}

// ContainerInfo describes every track a container holds and which one a
// caller should decode if it doesn't care to choose.
type ContainerInfo struct {
	DefaultTrackIndex int
	Tracks            []TrackInfo
}
