package storage

// Signature is a fixed-offset byte pattern used to recognize a
// container format from its header, grounded on the detection tables
// in spec.md §6 and the original source's per-format *Detection.cpp
// files. Every byte in Bytes must match; there are no wildcard
// positions.
type Signature struct {
	Offset int
	Bytes  []byte
}

// Matches reports whether header (read from the start of a file)
// satisfies every fixed byte in the signature. header must be at least
// Offset+len(Bytes) long for a signature entry to be checked; shorter
// headers simply fail to match rather than panicking.
func (s Signature) Matches(header []byte) bool {
	end := s.Offset + len(s.Bytes)
	if end > len(header) {
		return false
	}
	for i, b := range s.Bytes {
		if header[s.Offset+i] != b {
			return false
		}
	}
	return true
}

// DetectCodec reports the file extension (without a leading dot) the
// registered detectors below recognize file as, without needing a
// loader.Registry. loader.Registry.OpenDecoder/TryReadInfo use the full
// Codec.Detect method on each registered codec instead; this is a
// convenience for callers that just want to know what a file looks
// like.
func DetectCodec(file VirtualFile) (extension string, ok bool) {
	size, err := file.Size()
	if err != nil || size < 12 {
		return "", false
	}
	header := make([]byte, 12)
	if err := file.ReadAt(0, header); err != nil {
		return "", false
	}

	switch {
	case waveformSignatureRIFF.Matches(header),
		waveformSignatureRIFX.Matches(header),
		waveformSignatureFFIR.Matches(header),
		waveformSignatureXFIR.Matches(header):
		return "wav", true
	case flacSignature.Matches(header):
		return "flac", true
	case oggSignature.Matches(header):
		// Vorbis and Opus share the Ogg container signature; the caller
		// needs to inspect the first page's codec-identification packet
		// to distinguish them, which is what storage/vorbis and
		// storage/opus's own Detect methods do.
		return "ogg", true
	case wavpackSignature.Matches(header):
		return "wv", true
	}
	return "", false
}

var (
	// RIFF/RIFX/FFIR/XFIR are the four byte-order/endianness variants of
	// the Waveform container's outer chunk FourCC, per spec.md §6.
	waveformSignatureRIFF = Signature{Offset: 0, Bytes: []byte("RIFF")}
	waveformSignatureRIFX = Signature{Offset: 0, Bytes: []byte("RIFX")}
	waveformSignatureFFIR = Signature{Offset: 0, Bytes: []byte("FFIR")}
	waveformSignatureXFIR = Signature{Offset: 0, Bytes: []byte("XFIR")}
	flacSignature         = Signature{Offset: 0, Bytes: []byte("fLaC")}
	oggSignature          = Signature{Offset: 0, Bytes: []byte("OggS")}
	wavpackSignature      = Signature{Offset: 0, Bytes: []byte("wvpk")}
)
