package audio

// SampleType identifies the Go type a caller wants DecodeInterleaved or
// DecodeSeparated to produce, independent of the track's native
// SampleFormat. Conversion between the two is the concrete reader's
// job; dispatch here performs none (a type switch to the matching
// typed method, nothing more).
type SampleType int

const (
	SampleTypeUint8 SampleType = iota
	SampleTypeInt16
	SampleTypeInt32
	SampleTypeFloat32
	SampleTypeFloat64
)

// TrackDecoder decodes one audio track. Implementations serialize
// DecodeInterleaved/DecodeSeparated/Seek internally (a shared mutex)
// since the wrapped codec libraries are not reentrant; Clone gives a
// caller an independent decode cursor over the same underlying file
// for parallel decoding.
type TrackDecoder interface {
	// Info returns the track's format and layout metadata.
	Info() TrackInfo

	// TotalFrames returns the track's total frame count, or a sentinel
	// the concrete reader documents if the container doesn't carry an
	// exact count up front (e.g. a corrupted or streamed length).
	TotalFrames() uint64

	// FrameCursorPosition returns the next frame index Decode* will read.
	FrameCursorPosition() uint64

	// Seek repositions the decode cursor to the given frame index.
	Seek(frame uint64) error

	// NativeSampleFormat reports the track's on-disk sample format,
	// prior to any conversion DecodeInterleaved/DecodeSeparated performs.
	NativeSampleFormat() SampleFormat

	// NativeTopologyIsInterleaved reports whether the underlying codec
	// library naturally produces interleaved channel data. Callers that
	// request the opposite topology still get correct results — the
	// reader transposes — but requesting the native topology avoids
	// that extra pass.
	NativeTopologyIsInterleaved() bool

	// DecodeInterleaved decodes the next block of frames into out, an
	// interleaved buffer (out must be a slice of the Go type sampleType
	// names: []uint8, []int16, []int32, []float32, or []float64).
	// Returns the number of frames decoded; 0 with a nil error at end
	// of track.
	DecodeInterleaved(sampleType SampleType, out any) (frames int, err error)

	// DecodeSeparated decodes the next block of frames into out, one
	// slice per channel (len(out) must equal Info().ChannelCount, each
	// element a slice of the Go type sampleType names).
	DecodeSeparated(sampleType SampleType, out []any) (frames int, err error)

	// Clone returns an independent TrackDecoder sharing the same
	// underlying file, with its own decode cursor and library context,
	// for decoding the same track from multiple goroutines concurrently.
	Clone() (TrackDecoder, error)

	// Close releases the library context this decoder holds. It does
	// not close the underlying storage.VirtualFile, which the caller
	// that opened it still owns.
	Close() error
}
