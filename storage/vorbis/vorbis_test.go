package vorbis

import (
	"testing"

	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/storage"
)

// buildOggVorbisIdentificationPageHeader assembles just enough of a
// single-page Ogg "OggS" header plus a Vorbis identification packet's
// leading bytes for Codec.Detect's byte-offset check — it is not a
// decodable Vorbis stream (the setup/codebook packets a real decoder
// needs are absent), so it only exercises Detect, not TryReadInfo or
// OpenDecoder.
func buildOggVorbisIdentificationPageHeader() []byte {
	buf := make([]byte, 35)
	copy(buf[0:4], "OggS")
	buf[28] = 1 // Vorbis identification packet type
	copy(buf[29:35], "vorbis")
	return buf
}

func TestDetectAcceptsVorbisIdentificationHeader(t *testing.T) {
	file := storage.NewMemoryFile(buildOggVorbisIdentificationPageHeader())
	var c Codec
	ok, err := c.Detect(file)
	if err != nil || !ok {
		t.Fatalf("Detect: ok=%v err=%v", ok, err)
	}
}

func TestDetectRejectsNonOggSignature(t *testing.T) {
	file := storage.NewMemoryFile([]byte("RIFF??????????????????????????????"))
	var c Codec
	ok, err := c.Detect(file)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a non-Ogg file")
	}
}

func TestDetectRejectsOpusIdentificationHeader(t *testing.T) {
	// Opus streams share the "OggS" page signature but carry "OpusHead"
	// at the identification-packet offset instead of a type byte + "vorbis".
	buf := make([]byte, 35)
	copy(buf[0:4], "OggS")
	copy(buf[27:35], "OpusHead")
	file := storage.NewMemoryFile(buf)

	var c Codec
	ok, err := c.Detect(file)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if ok {
		t.Fatal("expected the Vorbis codec to decline an Opus identification header")
	}
}

func TestDetectRejectsTooSmallFile(t *testing.T) {
	file := storage.NewMemoryFile([]byte("OggS"))
	var c Codec
	ok, err := c.Detect(file)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a file too small to hold an identification packet")
	}
}

func TestSampleSliceLenAndConvertTo(t *testing.T) {
	out := make([]float32, 3)
	if got := sampleSliceLen(audio.SampleTypeFloat32, out); got != 3 {
		t.Fatalf("sampleSliceLen = %d, want 3", got)
	}
	convertTo(audio.SampleTypeFloat32, -1.0, out, 1)
	if out[1] != -1.0 {
		t.Fatalf("out[1] = %v, want -1.0", out[1])
	}
}
