package wavpack

import (
	"encoding/binary"
	"testing"

	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/storage"
)

// buildBlockHeader assembles a 32-byte WavPack block header with the
// given flags and sample counts, padded to smallestPossibleSize so
// TryReadInfo's minimum-size check passes.
func buildBlockHeader(flags uint32, totalSamples, blockSamples uint32) []byte {
	buf := make([]byte, smallestPossibleSize)
	copy(buf[0:4], "wvpk")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(smallestPossibleSize-8))
	binary.LittleEndian.PutUint16(buf[8:10], 0x410)
	binary.LittleEndian.PutUint32(buf[12:16], totalSamples)
	binary.LittleEndian.PutUint32(buf[20:24], blockSamples)
	binary.LittleEndian.PutUint32(buf[24:28], flags)
	return buf
}

func TestDetectAcceptsWvpkSignature(t *testing.T) {
	data := buildBlockHeader(0, 2, 2)
	file := storage.NewMemoryFile(data)

	var c Codec
	ok, err := c.Detect(file)
	if err != nil || !ok {
		t.Fatalf("Detect: ok=%v err=%v", ok, err)
	}
}

func TestDetectRejectsWrongSignature(t *testing.T) {
	data := buildBlockHeader(0, 2, 2)
	data[0] = 'x'
	file := storage.NewMemoryFile(data)

	var c Codec
	ok, err := c.Detect(file)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a file with the wrong signature")
	}
}

func TestTryReadInfoStereo16Bit44100(t *testing.T) {
	// bits 0-1 = 1 (2 bytes per sample -> 16-bit), no mono flag (stereo),
	// sample rate index 9 -> 44100 (bits 23-26).
	flags := uint32(1) | (uint32(9) << 23)
	data := buildBlockHeader(flags, 2, 2)
	file := storage.NewMemoryFile(data)

	var c Codec
	info, ok, err := c.TryReadInfo(file)
	if err != nil || !ok {
		t.Fatalf("TryReadInfo: ok=%v err=%v", ok, err)
	}
	track := info.Tracks[0]
	if track.ChannelCount != 2 {
		t.Fatalf("ChannelCount = %d, want 2", track.ChannelCount)
	}
	if track.SampleRate != 44100 {
		t.Fatalf("SampleRate = %d, want 44100", track.SampleRate)
	}
	if track.SampleFormat != audio.SampleFormatSignedInt16 {
		t.Fatalf("SampleFormat = %v, want SignedInt16", track.SampleFormat)
	}
}

func TestTryReadInfoMono(t *testing.T) {
	flags := uint32(1) | flagMono | (uint32(10) << 23)
	data := buildBlockHeader(flags, 100, 100)
	file := storage.NewMemoryFile(data)

	var c Codec
	info, ok, err := c.TryReadInfo(file)
	if err != nil || !ok {
		t.Fatalf("TryReadInfo: ok=%v err=%v", ok, err)
	}
	if info.Tracks[0].ChannelCount != 1 {
		t.Fatalf("ChannelCount = %d, want 1", info.Tracks[0].ChannelCount)
	}
	if info.Tracks[0].SampleRate != 48000 {
		t.Fatalf("SampleRate = %d, want 48000", info.Tracks[0].SampleRate)
	}
}

func TestOpenDecoderReportsUnsupported(t *testing.T) {
	data := buildBlockHeader(1, 2, 2)
	file := storage.NewMemoryFile(data)

	var c Codec
	_, err := c.OpenDecoder(file)
	if err == nil {
		t.Fatal("expected OpenDecoder to report an error")
	}
	if !audioerr.Is(err, audioerr.UnsupportedFormat) {
		t.Fatalf("expected UnsupportedFormat, got %v", err)
	}
}

func TestTryReadInfoTooSmallIsCorrupted(t *testing.T) {
	data := buildBlockHeader(0, 2, 2)[:blockHeaderSize]
	file := storage.NewMemoryFile(data)

	var c Codec
	_, ok, err := c.TryReadInfo(file)
	if !ok {
		t.Fatal("expected ok=true: the WavPack signature was recognized")
	}
	if !audioerr.Is(err, audioerr.CorruptedFile) {
		t.Fatalf("expected CorruptedFile, got %v", err)
	}
}
