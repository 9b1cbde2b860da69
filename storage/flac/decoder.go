package flac

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	flaclib "github.com/mewkiz/flac"
	flacmeta "github.com/mewkiz/flac/meta"

	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/channel"
	"github.com/nuclex-go/audio/processing"
	"github.com/nuclex-go/audio/storage"
)

// channelMaskTag is the de facto Vorbis comment tag (written by
// foobar2000, dBpoweramp and similar tools) that carries a
// WAVEFORMATEXTENSIBLE-style channel mask for FLAC files whose layout
// isn't implied by the plain channel count, such as files built for
// exotic/non-standard channel order testing.
const channelMaskTag = "WAVEFORMATEXTENSIBLE_CHANNEL_MASK"

// channelOrderFromStream prefers an explicit channel mask carried in a
// VORBIS_COMMENT metadata block over the plain channel-count guess,
// since FLAC's own channel assignment (independent/left-side/right-side/
// mid-side) only describes stereo decorrelation, not speaker placement.
func channelOrderFromStream(stream *flaclib.Stream, channelCount int) []channel.Placement {
	for _, block := range stream.Blocks {
		vc, ok := block.Body.(*flacmeta.VorbisComment)
		if !ok {
			continue
		}
		for _, entry := range vc.Entries {
			if !strings.EqualFold(entry.Name, channelMaskTag) {
				continue
			}
			mask, err := strconv.ParseUint(strings.TrimSpace(entry.Value), 0, 32)
			if err != nil {
				continue
			}
			return channel.LayoutFromMask(channel.Placement(mask), channelCount)
		}
	}
	return channel.GuessWaveformLayout(channelCount)
}

func trackInfoFromStream(stream *flaclib.Stream, codecName string) audio.TrackInfo {
	channelCount := int(stream.Info.ChannelCount)
	bits := int(stream.Info.BitsPerSample)

	var format audio.SampleFormat
	switch {
	case bits > 24:
		format = audio.SampleFormatSignedInt32
	case bits > 16:
		format = audio.SampleFormatSignedInt24In32
	case bits > 8:
		format = audio.SampleFormatSignedInt16
	default:
		format = audio.SampleFormatUnsignedInt8
	}

	return audio.TrackInfo{
		ChannelCount:  channelCount,
		ChannelOrder:  channelOrderFromStream(stream, channelCount),
		SampleRate:    int(stream.Info.SampleRate),
		BitsPerSample: bits,
		SampleFormat:  format,
		Duration:      audio.DurationFromFrames(stream.Info.SampleCount, int(stream.Info.SampleRate)),
		CodecName:     codecName,
	}
}

// decoder implements audio.TrackDecoder over a github.com/mewkiz/flac
// stream, converting the library's per-channel int32 planar samples
// into the caller's requested interleaved or separated output type.
type decoder struct {
	mu sync.Mutex

	file   storage.VirtualFile
	stream *flaclib.Stream
	info   audio.TrackInfo

	totalFrames uint64
	cursor      uint64

	pending     [][]int32
	pendingOff  int
}

func newDecoder(file storage.VirtualFile, codecName string) (*decoder, error) {
	stream, err := flaclib.NewSeek(storage.AsReadSeeker(file))
	if err != nil {
		return nil, audioerr.Newf(audioerr.CorruptedFile, "flac stream is invalid: %v", err)
	}

	info := trackInfoFromStream(stream, codecName)
	return &decoder{
		file:        file,
		stream:      stream,
		info:        info,
		totalFrames: stream.Info.SampleCount,
	}, nil
}

func (d *decoder) Info() audio.TrackInfo                 { return d.info }
func (d *decoder) TotalFrames() uint64                   { return d.totalFrames }
func (d *decoder) FrameCursorPosition() uint64            { return d.cursor }
func (d *decoder) NativeSampleFormat() audio.SampleFormat { return d.info.SampleFormat }

// NativeTopologyIsInterleaved is false: mewkiz/flac hands back one
// Subframe (with its own Samples slice) per channel, a separated
// layout, not interleaved.
func (d *decoder) NativeTopologyIsInterleaved() bool { return false }

func (d *decoder) Seek(frame uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if frame > d.totalFrames {
		return audioerr.New(audioerr.InvalidArgument, "seek target is beyond the track's total frame count")
	}
	actual, err := d.stream.Seek(frame)
	if err != nil {
		return audioerr.Newf(audioerr.FileAccess, "flac seek failed: %v", err)
	}
	d.cursor = actual
	d.pending = nil
	d.pendingOff = 0
	return nil
}

func (d *decoder) Close() error { return d.stream.Close() }

func (d *decoder) Clone() (audio.TrackDecoder, error) {
	return newDecoder(d.file, d.info.CodecName)
}

// fillPending parses the next FLAC frame into d.pending if the current
// one is exhausted, returning false at end of stream.
func (d *decoder) fillPending() (bool, error) {
	if d.pendingOff < len(d.pending) {
		return true, nil
	}
	f, err := d.stream.ParseNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, audioerr.Newf(audioerr.CorruptedFile, "flac frame decode failed: %v", err)
	}
	samples := make([][]int32, len(f.Subframes))
	for ch, sub := range f.Subframes {
		samples[ch] = sub.Samples
	}
	d.pending = samples
	d.pendingOff = 0
	return true, nil
}

func (d *decoder) nextFrameSample(ch int) int32 {
	native := d.pending[ch][d.pendingOff]
	return processing.ExtendLeftAlignedBits(native<<uint(32-d.info.BitsPerSample), d.info.BitsPerSample)
}

// decode pulls FLAC frame blocks and feeds one float64 sample at a time
// to consume, parsing as many blocks as it takes to deliver maxFrames
// frames; it returns fewer only at end of stream. Samples of a block
// left over once maxFrames is reached stay pending for the next call.
func (d *decoder) decode(maxFrames int, consume func(ch int, value float64)) (int, error) {
	frames := 0
	for frames < maxFrames {
		ok, err := d.fillPending()
		if err != nil {
			return frames, err
		}
		if !ok {
			break
		}
		framesInBlock := len(d.pending[0])
		for d.pendingOff < framesInBlock && frames < maxFrames {
			for ch := 0; ch < d.info.ChannelCount; ch++ {
				extended := d.nextFrameSample(ch)
				value := processing.DivideInt32ToFloat64(extended, processing.QuantizeFactor(32))
				consume(ch, value)
			}
			d.pendingOff++
			d.cursor++
			frames++
		}
	}
	return frames, nil
}

func (d *decoder) DecodeInterleaved(sampleType audio.SampleType, out any) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	channelCount := d.info.ChannelCount
	maxFrames := sampleSliceLen(sampleType, out) / channelCount
	index := 0
	frames, err := d.decode(maxFrames, func(ch int, value float64) {
		convertTo(sampleType, value, out, index)
		index++
	})
	return frames, err
}

func (d *decoder) DecodeSeparated(sampleType audio.SampleType, out []any) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(out) != d.info.ChannelCount {
		return 0, audioerr.New(audioerr.InvalidArgument, "out must have one slice per channel")
	}

	maxFrames := sampleSliceLen(sampleType, out[0])
	for _, channelOut := range out[1:] {
		if n := sampleSliceLen(sampleType, channelOut); n < maxFrames {
			maxFrames = n
		}
	}

	indices := make([]int, d.info.ChannelCount)
	frames, err := d.decode(maxFrames, func(ch int, value float64) {
		convertTo(sampleType, value, out[ch], indices[ch])
		indices[ch]++
	})
	return frames, err
}

// sampleSliceLen returns the length of out, which must be a slice of
// the Go type sampleType names.
func sampleSliceLen(sampleType audio.SampleType, out any) int {
	switch sampleType {
	case audio.SampleTypeUint8:
		return len(out.([]uint8))
	case audio.SampleTypeInt16:
		return len(out.([]int16))
	case audio.SampleTypeInt32:
		return len(out.([]int32))
	case audio.SampleTypeFloat32:
		return len(out.([]float32))
	case audio.SampleTypeFloat64:
		return len(out.([]float64))
	default:
		return 0
	}
}

// convertTo writes the converted form of one channel's normalized
// float64 sample into out at position index, per sampleType.
func convertTo(sampleType audio.SampleType, value float64, out any, index int) {
	switch sampleType {
	case audio.SampleTypeUint8:
		out.([]uint8)[index] = processing.QuantizeUint8(value)
	case audio.SampleTypeInt16:
		out.([]int16)[index] = int16(processing.Quantize(value, 16))
	case audio.SampleTypeInt32:
		out.([]int32)[index] = processing.Quantize(value, 32)
	case audio.SampleTypeFloat32:
		out.([]float32)[index] = float32(value)
	case audio.SampleTypeFloat64:
		out.([]float64)[index] = value
	}
}
