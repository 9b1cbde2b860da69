// Package encoder holds the Builder contract every codec's encoder
// would implement, grounded on
// original_source/Include/Nuclex/Audio/Storage/AudioTrackEncoderBuilder.h.
// No codec in this module builds an encoder yet — the interface is
// sketched so a future codec package has a contract to satisfy.
package encoder

import (
	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/channel"
)

// TrackEncoder accepts samples and writes them to a storage.VirtualFile
// in a codec's wire format. No package in this module implements it
// yet; Builder.Build returns one once a codec backs it.
type TrackEncoder interface {
	// WriteInterleaved accepts the next block of interleaved samples
	// (one slice per call, channel-major within each frame).
	WriteInterleaved(sampleType audio.SampleType, in any) error

	// WriteSeparated accepts the next block of samples, one slice per
	// channel.
	WriteSeparated(sampleType audio.SampleType, in []any) error

	// Close finalizes the encoded file (writing any trailing metadata
	// the format requires, e.g. WAVE's data chunk size or FLAC's seek
	// table) and releases the encoder's library context.
	Close() error
}

// Builder configures and constructs a TrackEncoder for one codec.
// Implementations report which formats, sample rates, and channel
// orders they support so a caller can pick sensible settings before
// calling Build, which is a hard error if an unsupported combination
// was configured.
type Builder interface {
	// SupportedSampleFormats lists the formats the codec can store
	// encoded samples in. Lossy codecs typically report only
	// audio.SampleFormatFloat32, since they consume and internally
	// process floating-point samples regardless of the caller's input
	// format.
	SupportedSampleFormats() []audio.SampleFormat

	// SupportedSampleRates lists the sample rates the codec accepts, or
	// nil if it accepts any rate.
	SupportedSampleRates() []int

	// PreferredSampleRates lists the sample rates the codec performs
	// best at, or nil if it has no preference. A caller ignoring this
	// risks the codec silently resampling (as Opus always does, to
	// 48000Hz) or delivering reduced quality.
	PreferredSampleRates() []int

	// PreferredChannelOrder returns the channel ordering the codec
	// natively stores channels in, given the channels present in mask.
	// Feeding the encoder channels already in this order avoids an
	// internal re-weave before encoding.
	PreferredChannelOrder(mask channel.Placement) []channel.Placement

	// IsLossless reports whether the codec preserves the input signal
	// bit-exact (true) or discards information for size (false).
	IsLossless() bool

	// SetSampleFormat selects the format samples are stored in once
	// encoded. Build returns an error if format is not present in
	// SupportedSampleFormats.
	SetSampleFormat(format audio.SampleFormat) Builder

	// SetSampleRate tells the encoder the input sample rate. Mandatory:
	// Build fails without a prior call to this method.
	SetSampleRate(samplesPerSecond int) Builder

	// SetChannels sets the number, placement, and input ordering of
	// channels the encoder should expect.
	SetChannels(orderedChannels []channel.Placement) Builder

	// SetTargetBitrate selects the bitrate a lossy codec should aim
	// for; disregarded by lossless codecs.
	SetTargetBitrate(kilobitsPerSecond int) Builder

	// SetCompressionEffort requests how hard the codec should work to
	// shrink the encoded output, from 0.0 (fastest) to 1.0 (smallest).
	SetCompressionEffort(effort float64) Builder

	// SetTitle sets the human-readable title stored in the encoded
	// track's metadata, where the codec supports one.
	SetTitle(title string) Builder

	// Build constructs the TrackEncoder with the configured settings,
	// or returns an error (audioerr.InvalidArgument) if a mandatory
	// setting is missing or an unsupported combination was configured.
	Build() (TrackEncoder, error)
}
