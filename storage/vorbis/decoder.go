package vorbis

import (
	"errors"
	"io"
	"sync"

	"github.com/jfreymuth/oggvorbis"

	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/channel"
	"github.com/nuclex-go/audio/processing"
	"github.com/nuclex-go/audio/storage"
)

func trackInfoFromReader(reader *oggvorbis.Reader, codecName string) audio.TrackInfo {
	channelCount := reader.Channels()
	order, ok := channel.LayoutForCodecChannelCount(channel.FamilyVorbis, channelCount)
	if !ok {
		order = make([]channel.Placement, channelCount)
		for i := range order {
			order[i] = channel.Unknown
		}
	}
	return audio.TrackInfo{
		ChannelCount:  channelCount,
		ChannelOrder:  order,
		SampleRate:    reader.SampleRate(),
		BitsPerSample: 32, // Vorbis decodes to float32 internally; no fixed native integer width.
		SampleFormat:  audio.SampleFormatFloat32,
		Duration:      audio.DurationFromFrames(uint64(reader.Length()), reader.SampleRate()),
		CodecName:     codecName,
	}
}

// decoder implements audio.TrackDecoder over a github.com/jfreymuth/oggvorbis
// reader, grounded on the teacher's oggDecoder in internal/player/decoder.go
// (reader.Read produces interleaved float32 samples directly, already the
// format this module normalizes every codec's output through).
type decoder struct {
	mu sync.Mutex

	file   storage.VirtualFile
	reader *oggvorbis.Reader
	info   audio.TrackInfo

	totalFrames uint64
	cursor      uint64

	scratch []float32
}

func newDecoder(file storage.VirtualFile, codecName string) (*decoder, error) {
	reader, err := oggvorbis.NewReader(storage.AsReadSeeker(file))
	if err != nil {
		return nil, audioerr.Newf(audioerr.CorruptedFile, "ogg vorbis stream is invalid: %v", err)
	}
	info := trackInfoFromReader(reader, codecName)
	return &decoder{
		file:        file,
		reader:      reader,
		info:        info,
		totalFrames: uint64(reader.Length()),
	}, nil
}

func (d *decoder) Info() audio.TrackInfo                 { return d.info }
func (d *decoder) TotalFrames() uint64                   { return d.totalFrames }
func (d *decoder) FrameCursorPosition() uint64            { return d.cursor }
func (d *decoder) NativeSampleFormat() audio.SampleFormat { return d.info.SampleFormat }

// NativeTopologyIsInterleaved is true: oggvorbis.Reader.Read already
// produces interleaved float32 samples.
func (d *decoder) NativeTopologyIsInterleaved() bool { return true }

func (d *decoder) Seek(frame uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if frame > d.totalFrames {
		return audioerr.New(audioerr.InvalidArgument, "seek target is beyond the track's total frame count")
	}
	d.reader.SetPosition(int64(frame))
	d.cursor = frame
	return nil
}

func (d *decoder) Close() error { return nil }

func (d *decoder) Clone() (audio.TrackDecoder, error) {
	return newDecoder(d.file, d.info.CodecName)
}

func (d *decoder) readFloats(maxFrames int) (int, error) {
	remaining := d.totalFrames - d.cursor
	if remaining == 0 || maxFrames <= 0 {
		return 0, nil
	}
	want := uint64(maxFrames)
	if want > remaining {
		want = remaining
	}
	needed := int(want) * d.info.ChannelCount
	if cap(d.scratch) < needed {
		d.scratch = make([]float32, needed)
	}
	buf := d.scratch[:needed]

	read := 0
	for read < needed {
		n, err := d.reader.Read(buf[read:])
		read += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, audioerr.Newf(audioerr.CorruptedFile, "ogg vorbis decode failed: %v", err)
		}
		if n == 0 {
			break
		}
	}
	frames := read / d.info.ChannelCount
	d.cursor += uint64(frames)
	return frames, nil
}

func (d *decoder) DecodeInterleaved(sampleType audio.SampleType, out any) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	channelCount := d.info.ChannelCount
	maxFrames := sampleSliceLen(sampleType, out) / channelCount
	frames, err := d.readFloats(maxFrames)
	if err != nil || frames == 0 {
		return frames, err
	}
	for i := 0; i < frames*channelCount; i++ {
		convertTo(sampleType, float64(d.scratch[i]), out, i)
	}
	return frames, nil
}

func (d *decoder) DecodeSeparated(sampleType audio.SampleType, out []any) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	channelCount := d.info.ChannelCount
	if len(out) != channelCount {
		return 0, audioerr.New(audioerr.InvalidArgument, "out must have one slice per channel")
	}

	maxFrames := sampleSliceLen(sampleType, out[0])
	for _, channelOut := range out[1:] {
		if n := sampleSliceLen(sampleType, channelOut); n < maxFrames {
			maxFrames = n
		}
	}

	frames, err := d.readFloats(maxFrames)
	if err != nil || frames == 0 {
		return frames, err
	}
	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < channelCount; ch++ {
			convertTo(sampleType, float64(d.scratch[frame*channelCount+ch]), out[ch], frame)
		}
	}
	return frames, nil
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
