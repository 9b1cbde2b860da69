package opus

import (
	"encoding/binary"
	"sync"

	"github.com/thesyncim/gopus"

	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/channel"
	"github.com/nuclex-go/audio/processing"
	"github.com/nuclex-go/audio/storage"
)

// decodedSampleRate is the rate github.com/thesyncim/gopus always
// decodes Opus at; RFC 7845 §5.1 treats the identification header's
// input sample rate as informational only, not the rate decoding
// happens at.
const decodedSampleRate = 48000

func trackInfoFromHead(head opusHead, codecName string) audio.TrackInfo {
	order, ok := channel.LayoutForCodecChannelCount(channel.FamilyVorbis, head.channels)
	if !ok {
		order = make([]channel.Placement, head.channels)
		for i := range order {
			order[i] = channel.Unknown
		}
	}
	return audio.TrackInfo{
		ChannelCount:  head.channels,
		ChannelOrder:  order,
		SampleRate:    decodedSampleRate,
		BitsPerSample: 32,
		SampleFormat:  audio.SampleFormatFloat32,
		CodecName:     codecName,
	}
}

// lastPageGranule scans backward from the end of file for the final
// Ogg page's granule position, the stream's total PCM sample count at
// decodedSampleRate (minus pre-skip) per RFC 3533 §6's "the last page
// of the logical bitstream carries the final sample count" convention.
func lastPageGranule(file storage.VirtualFile, size uint64) (uint64, error) {
	window := uint64(65536)
	if window > size {
		window = size
	}
	start := size - window
	buf := make([]byte, window)
	if err := file.ReadAt(start, buf); err != nil {
		return 0, err
	}

	bestOffset := -1
	for i := 0; i+oggPageHeaderSize <= len(buf); i++ {
		if buf[i] == 'O' && buf[i+1] == 'g' && buf[i+2] == 'g' && buf[i+3] == 'S' {
			bestOffset = i
		}
	}
	if bestOffset < 0 {
		return 0, audioerr.New(audioerr.CorruptedFile, "ogg opus file has no trailing page to read total length from")
	}
	return binary.LittleEndian.Uint64(buf[bestOffset+6 : bestOffset+14]), nil
}

// decoder implements audio.TrackDecoder over a hand-rolled Ogg packet
// reader feeding github.com/thesyncim/gopus's streaming decoder.
type decoder struct {
	mu sync.Mutex

	file storage.VirtualFile
	size uint64

	head   opusHead
	packets *oggPacketReader
	dec    *gopus.Decoder
	info   audio.TrackInfo

	totalFrames uint64
	cursor      uint64

	pending    []float32
	pendingOff int
}

func newDecoder(file storage.VirtualFile, codecName string) (*decoder, error) {
	size, err := file.Size()
	if err != nil {
		return nil, err
	}
	head, packets, err := readOpusHead(file, size)
	if err != nil {
		return nil, err
	}
	// Second packet is the OpusTags comment header; discard it before
	// audio packets begin.
	if _, ok, err := packets.Next(); err != nil {
		return nil, err
	} else if !ok {
		return nil, audioerr.New(audioerr.CorruptedFile, "ogg opus file has no comment header packet")
	}

	dec, err := gopus.NewDecoder(decodedSampleRate, head.channels)
	if err != nil {
		return nil, audioerr.Newf(audioerr.UnsupportedFormat, "opus decoder rejected channel layout: %v", err)
	}

	granule, err := lastPageGranule(file, size)
	if err != nil {
		return nil, err
	}
	totalFrames := uint64(0)
	if granule > uint64(head.preSkip) {
		totalFrames = granule - uint64(head.preSkip)
	}

	info := trackInfoFromHead(head, codecName)
	info.Duration = audio.DurationFromFrames(totalFrames, decodedSampleRate)

	d := &decoder{
		file:        file,
		size:        size,
		head:        head,
		packets:     packets,
		dec:         dec,
		info:        info,
		totalFrames: totalFrames,
	}
	if err := d.discardPreSkip(); err != nil {
		return nil, err
	}
	return d, nil
}

// discardPreSkip decodes and throws away head.preSkip samples, the
// pre-roll every Opus encoder pads the stream with per RFC 7845 §4.1.
func (d *decoder) discardPreSkip() error {
	remaining := d.head.preSkip
	for remaining > 0 {
		if err := d.fillPending(); err != nil {
			return err
		}
		available := len(d.pending)/d.head.channels - d.pendingOff
		if available <= 0 {
			break
		}
		skip := available
		if skip > remaining {
			skip = remaining
		}
		d.pendingOff += skip
		remaining -= skip
	}
	return nil
}

func (d *decoder) Info() audio.TrackInfo                  { return d.info }
func (d *decoder) TotalFrames() uint64                     { return d.totalFrames }
func (d *decoder) FrameCursorPosition() uint64             { return d.cursor }
func (d *decoder) NativeSampleFormat() audio.SampleFormat  { return d.info.SampleFormat }
func (d *decoder) NativeTopologyIsInterleaved() bool       { return true }

// Seek is unsupported: granule-accurate seeking needs a bisection
// search over the Ogg page stream this module's demuxer does not
// implement; only forward sequential decoding is supported.
func (d *decoder) Seek(frame uint64) error {
	return audioerr.New(audioerr.InvalidArgument, "opus decoder does not support seeking")
}

func (d *decoder) Close() error { return nil }

func (d *decoder) Clone() (audio.TrackDecoder, error) {
	return newDecoder(d.file, d.info.CodecName)
}

// fillPending decodes the next Opus packet into d.pending if the
// current one is exhausted.
func (d *decoder) fillPending() error {
	if d.pendingOff < len(d.pending)/d.head.channels {
		return nil
	}
	packet, ok, err := d.packets.Next()
	if err != nil {
		return err
	}
	if !ok {
		d.pending = nil
		d.pendingOff = 0
		return nil
	}
	samples, err := d.dec.DecodeFloat32(packet)
	if err != nil {
		return audioerr.Newf(audioerr.CorruptedFile, "opus packet decode failed: %v", err)
	}
	d.pending = samples
	d.pendingOff = 0
	return nil
}

func (d *decoder) decode(maxFrames int, consume func(ch int, value float64)) (int, error) {
	channelCount := d.head.channels
	frames := 0
	for frames < maxFrames {
		if err := d.fillPending(); err != nil {
			return frames, err
		}
		framesInBlock := len(d.pending) / channelCount
		if framesInBlock == 0 {
			break
		}
		for d.pendingOff < framesInBlock && frames < maxFrames {
			base := d.pendingOff * channelCount
			for ch := 0; ch < channelCount; ch++ {
				consume(ch, float64(d.pending[base+ch]))
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

	channelCount := d.head.channels
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

	if len(out) != d.head.channels {
		return 0, audioerr.New(audioerr.InvalidArgument, "out must have one slice per channel")
	}

	maxFrames := sampleSliceLen(sampleType, out[0])
	for _, channelOut := range out[1:] {
		if n := sampleSliceLen(sampleType, channelOut); n < maxFrames {
			maxFrames = n
		}
	}

	indices := make([]int, d.head.channels)
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
