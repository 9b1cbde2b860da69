package flac

import (
	"encoding/binary"
	"testing"

	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/channel"
	"github.com/nuclex-go/audio/storage"
)

// buildMinimalFlacFile assembles a "fLaC" signature followed by a
// single, last, STREAMINFO metadata block (34 bytes) describing
// channelCount/sampleRate/bitsPerSample/totalSamples, with no audio
// frames — enough for mewkiz/flac to parse container metadata, not
// enough to decode any samples from.
func buildMinimalFlacFile(channelCount, sampleRate, bitsPerSample int, totalSamples uint64) []byte {
	buf := make([]byte, 0, 4+4+34)
	buf = append(buf, 'f', 'L', 'a', 'C')

	// Metadata block header: last-block flag (bit 7) set, type 0
	// (STREAMINFO), 24-bit length of 34.
	buf = append(buf, 0x80, 0x00, 0x00, 34)

	buf = append(buf, 0x10, 0x00) // min block size 4096
	buf = append(buf, 0x10, 0x00) // max block size 4096
	buf = append(buf, 0x00, 0x00, 0x00) // min frame size
	buf = append(buf, 0x00, 0x00, 0x00) // max frame size

	packed := (uint64(sampleRate) << 44) |
		(uint64(channelCount-1) << 41) |
		(uint64(bitsPerSample-1) << 36) |
		(totalSamples & 0xfffffffff)
	var packedBytes [8]byte
	for i := 0; i < 8; i++ {
		packedBytes[i] = byte(packed >> (56 - 8*i))
	}
	buf = append(buf, packedBytes[:]...)

	buf = append(buf, make([]byte, 16)...) // MD5 signature, left zero
	return buf
}

// appendVorbisCommentBlock appends a VORBIS_COMMENT metadata block
// (marked last) carrying a single "NAME=value" tag, after clearing the
// preceding block's last-block flag so this one terminates the chain.
func appendVorbisCommentBlock(buf []byte, precedingBlockHeaderOffset int, name, value string) []byte {
	buf[precedingBlockHeaderOffset] &^= 0x80

	vendor := "test"
	comment := name + "=" + value

	body := make([]byte, 0, 4+len(vendor)+4+4+len(comment))
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(vendor)))
	body = append(body, length[:]...)
	body = append(body, vendor...)
	binary.LittleEndian.PutUint32(length[:], 1) // comment count
	body = append(body, length[:]...)
	binary.LittleEndian.PutUint32(length[:], uint32(len(comment)))
	body = append(body, length[:]...)
	body = append(body, comment...)

	header := []byte{
		0x80 | 4, // last-block flag set, type 4 (VORBIS_COMMENT)
		byte(len(body) >> 16), byte(len(body) >> 8), byte(len(body)),
	}
	buf = append(buf, header...)
	buf = append(buf, body...)
	return buf
}

func TestDetectAcceptsFlacSignature(t *testing.T) {
	data := buildMinimalFlacFile(2, 44100, 16, 1000)
	file := storage.NewMemoryFile(data)

	var c Codec
	ok, err := c.Detect(file)
	if err != nil || !ok {
		t.Fatalf("Detect: ok=%v err=%v", ok, err)
	}
}

func TestDetectRejectsNonFlacFile(t *testing.T) {
	file := storage.NewMemoryFile([]byte("RIFF????WAVE"))
	var c Codec
	ok, err := c.Detect(file)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a non-FLAC file")
	}
}

func TestTryReadInfoReportsStreamInfoMetadata(t *testing.T) {
	data := buildMinimalFlacFile(2, 48000, 24, 96000)
	file := storage.NewMemoryFile(data)

	var c Codec
	info, ok, err := c.TryReadInfo(file)
	if err != nil || !ok {
		t.Fatalf("TryReadInfo: ok=%v err=%v", ok, err)
	}
	if len(info.Tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(info.Tracks))
	}
	track := info.Tracks[0]
	if track.ChannelCount != 2 {
		t.Fatalf("ChannelCount = %d, want 2", track.ChannelCount)
	}
	if track.SampleRate != 48000 {
		t.Fatalf("SampleRate = %d, want 48000", track.SampleRate)
	}
	if track.BitsPerSample != 24 {
		t.Fatalf("BitsPerSample = %d, want 24", track.BitsPerSample)
	}
	if track.SampleFormat != audio.SampleFormatSignedInt24In32 {
		t.Fatalf("SampleFormat = %v, want SignedInt24In32", track.SampleFormat)
	}
	if track.CodecName != "flac" {
		t.Fatalf("CodecName = %q, want flac", track.CodecName)
	}
}

func TestTryReadInfoReportsExoticChannelOrderFromMaskTag(t *testing.T) {
	data := buildMinimalFlacFile(2, 44100, 16, 1000)
	// The STREAMINFO block header starts right after the 4-byte "fLaC"
	// signature.
	data = appendVorbisCommentBlock(data, 4, "WAVEFORMATEXTENSIBLE_CHANNEL_MASK", "0x220")
	file := storage.NewMemoryFile(data)

	var c Codec
	info, ok, err := c.TryReadInfo(file)
	if err != nil || !ok {
		t.Fatalf("TryReadInfo: ok=%v err=%v", ok, err)
	}
	order := info.Tracks[0].ChannelOrder
	if len(order) != 2 {
		t.Fatalf("got %d channel placements, want 2", len(order))
	}
	if order[0] != channel.BackRight || order[1] != channel.SideLeft {
		t.Fatalf("got order %v, want [BackRight SideLeft]", order)
	}
}

func TestTryReadInfoTooSmallIsNotFlac(t *testing.T) {
	file := storage.NewMemoryFile([]byte("fLa"))
	var c Codec
	_, ok, err := c.TryReadInfo(file)
	if err != nil {
		t.Fatalf("expected no error for a too-small file, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a too-small file")
	}
}

func TestSampleSliceLenAndConvertTo(t *testing.T) {
	out := make([]int16, 4)
	if got := sampleSliceLen(audio.SampleTypeInt16, out); got != 4 {
		t.Fatalf("sampleSliceLen = %d, want 4", got)
	}
	convertTo(audio.SampleTypeInt16, 1.0, out, 0)
	if out[0] == 0 {
		t.Fatal("convertTo did not write a nonzero sample for full-scale input")
	}
}
