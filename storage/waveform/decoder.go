package waveform

import (
	"math"
	"sync"

	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/processing"
	"github.com/nuclex-go/audio/storage"
	"github.com/nuclex-go/audio/storage/endian"
)

// decodeBlockFrames is the number of frames pulled off the file per
// internal read, batching sample conversion the way every reader in
// this module does at its decode block boundary.
const decodeBlockFrames = 8192

// decoder implements audio.TrackDecoder for Waveform audio files,
// grounded on WaveformReader.{h,cpp}, reading raw sample bytes
// directly off storage.VirtualFile (no external library — Waveform PCM
// is a trivial enough format to decode natively).
type decoder struct {
	mu sync.Mutex

	file storage.VirtualFile
	r    endian.Reader
	info audio.TrackInfo

	firstSampleOffset uint64
	bytesPerFrame     int
	totalFrames       uint64
	cursor            uint64
}

func newDecoder(file storage.VirtualFile, codecName string) (*decoder, error) {
	size, err := file.Size()
	if err != nil {
		return nil, err
	}
	if size < smallestPossibleSize {
		return nil, audioerr.New(audioerr.UnsupportedFormat, "file too small to be a Waveform audio file")
	}

	initialRead := uint64(optimisticInitialReadSize)
	if size < initialRead {
		initialRead = size
	}
	header := make([]byte, initialRead)
	if err := file.ReadAt(0, header); err != nil {
		return nil, err
	}

	code := checkFourCC(header[:4])
	r, recognized := readerFor(code)
	if !recognized {
		return nil, audioerr.New(audioerr.UnsupportedFormat, "file is not a Waveform audio file")
	}

	state := newParseState()
	state.info.CodecName = codecName
	if err := scanChunks(r, file, size, state); err != nil {
		return nil, err
	}
	if !state.isComplete() {
		return nil, audioerr.New(audioerr.CorruptedFile, "waveform audio file is missing mandatory chunks")
	}

	return &decoder{
		file:              file,
		r:                 r,
		info:              state.info,
		firstSampleOffset: state.firstSampleOffset,
		bytesPerFrame:     state.bytesPerFrame(),
		totalFrames:       (state.afterLastSampleOffset - state.firstSampleOffset) / uint64(state.bytesPerFrame()),
	}, nil
}

func (d *decoder) Info() audio.TrackInfo                  { return d.info }
func (d *decoder) TotalFrames() uint64                    { return d.totalFrames }
func (d *decoder) FrameCursorPosition() uint64             { return d.cursor }
func (d *decoder) NativeSampleFormat() audio.SampleFormat  { return d.info.SampleFormat }

// NativeTopologyIsInterleaved is always true: Waveform audio data is
// always interleaved sample-by-sample, channel-by-channel.
func (d *decoder) NativeTopologyIsInterleaved() bool { return true }

func (d *decoder) Seek(frame uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if frame > d.totalFrames {
		return audioerr.New(audioerr.InvalidArgument, "seek target is beyond the track's total frame count")
	}
	d.cursor = frame
	return nil
}

func (d *decoder) Close() error { return nil }

func (d *decoder) Clone() (audio.TrackDecoder, error) {
	clone := *d
	clone.mu = sync.Mutex{}
	clone.cursor = 0
	return &clone, nil
}

// readBlock reads the next up-to-decodeBlockFrames frames of raw bytes,
// never more than maxFrames (the caller-supplied output buffer's
// capacity), and advances the cursor; returns the frame count actually
// available.
func (d *decoder) readBlock(maxFrames int) ([]byte, int, error) {
	remaining := d.totalFrames - d.cursor
	if remaining == 0 {
		return nil, 0, nil
	}
	frames := uint64(decodeBlockFrames)
	if frames > remaining {
		frames = remaining
	}
	if maxFrames >= 0 && frames > uint64(maxFrames) {
		frames = uint64(maxFrames)
	}
	if frames == 0 {
		return nil, 0, nil
	}
	offset := d.firstSampleOffset + d.cursor*uint64(d.bytesPerFrame)
	raw := make([]byte, frames*uint64(d.bytesPerFrame))
	if err := d.file.ReadAt(offset, raw); err != nil {
		return nil, 0, err
	}
	d.cursor += frames
	return raw, int(frames), nil
}

// nativeSampleToFloat64 decodes one sample's raw bytes (exactly
// d.bytesPerFrame/d.info.ChannelCount bytes, the per-channel sample
// width) into a normalized float64 in roughly [-1, 1], routing integer
// formats through bit-extension-to-32-bits followed by
// processing.DivideInt32ToFloat64, and float formats through a direct
// reinterpretation.
func (d *decoder) nativeSampleToFloat64(raw []byte) float64 {
	switch d.info.SampleFormat {
	case audio.SampleFormatFloat32:
		bits := d.r.Uint32(raw, 0)
		return float64(math.Float32frombits(bits))
	case audio.SampleFormatFloat64:
		bits := d.r.Uint64(raw, 0)
		return math.Float64frombits(bits)
	default:
		extended := d.nativeSampleToInt32(raw)
		return processing.DivideInt32ToFloat64(extended, processing.QuantizeFactor(32))
	}
}

// nativeSampleToInt32 widens an integer-format sample to a full-range
// int32 via bit extension, the common intermediate every other output
// conversion routes through.
func (d *decoder) nativeSampleToInt32(raw []byte) int32 {
	bits := d.info.BitsPerSample
	storageWidth := (bits + 7) / 8

	var unsigned uint32
	switch storageWidth {
	case 1:
		unsigned = uint32(raw[0])
	case 2:
		unsigned = uint32(d.r.Uint16(raw, 0))
	case 3:
		if d.r == endian.Little {
			unsigned = uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16
		} else {
			unsigned = uint32(raw[2]) | uint32(raw[1])<<8 | uint32(raw[0])<<16
		}
	default:
		unsigned = d.r.Uint32(raw, 0)
	}

	if d.info.SampleFormat == audio.SampleFormatUnsignedInt8 {
		signed8 := int32(uint8(unsigned - 128))
		if signed8 >= 0x80 {
			signed8 -= 0x100
		}
		return processing.ExtendLeftAlignedBits(signed8<<24, 8)
	}

	topAligned := int32(unsigned << uint(32-bits))
	return processing.ExtendLeftAlignedBits(topAligned, bits)
}

func (d *decoder) sampleWidth() int {
	return d.bytesPerFrame / d.info.ChannelCount
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

func (d *decoder) DecodeInterleaved(sampleType audio.SampleType, out any) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	channelCount := d.info.ChannelCount
	maxFrames := sampleSliceLen(sampleType, out) / channelCount
	raw, frames, err := d.readBlock(maxFrames)
	if err != nil {
		return 0, err
	}
	if frames == 0 {
		return 0, nil
	}

	sampleWidth := d.sampleWidth()
	for frame := 0; frame < frames; frame++ {
		frameOffset := frame * d.bytesPerFrame
		for ch := 0; ch < channelCount; ch++ {
			sampleBytes := raw[frameOffset+ch*sampleWidth : frameOffset+(ch+1)*sampleWidth]
			value := d.nativeSampleToFloat64(sampleBytes)
			convertTo(sampleType, value, out, frame*channelCount+ch)
		}
	}
	return frames, nil
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

	raw, frames, err := d.readBlock(maxFrames)
	if err != nil {
		return 0, err
	}
	if frames == 0 {
		return 0, nil
	}

	sampleWidth := d.sampleWidth()
	channelCount := d.info.ChannelCount
	for frame := 0; frame < frames; frame++ {
		frameOffset := frame * d.bytesPerFrame
		for ch := 0; ch < channelCount; ch++ {
			sampleBytes := raw[frameOffset+ch*sampleWidth : frameOffset+(ch+1)*sampleWidth]
			value := d.nativeSampleToFloat64(sampleBytes)
			convertTo(sampleType, value, out[ch], frame)
		}
	}
	return frames, nil
}
