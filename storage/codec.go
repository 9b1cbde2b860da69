package storage

import "github.com/nuclex-go/audio/audio"

// Codec is the plugin contract a container/codec format implements to
// participate in loader.Registry dispatch. Grounded on
// MatusOllah/resona's codec.RegisterFormat magic-sniff pattern, adapted
// from a package-init global registry to explicit registration plus
// MRU-ordered extension-hint dispatch, since this module's loader needs
// the most-recently-used reordering spec.md's dispatch model requires.
type Codec interface {
	// Name returns the codec's identifying name (e.g. "waveform", "flac").
	Name() string

	// Extensions returns the file extensions (without the leading dot,
	// lowercase) this codec is commonly associated with, used to order
	// dispatch attempts when an extension hint is available.
	Extensions() []string

	// Detect reports whether file's header matches this codec's
	// detection signature. It must not read more of the file than its
	// signature requires and must return false, not an error, for any
	// file that simply isn't this format; an error return is reserved
	// for failures reading the file itself.
	Detect(file VirtualFile) (bool, error)

	// TryReadInfo reads container/track metadata without constructing a
	// full decoder. ok is false if Detect would also have returned
	// false; a detected-but-malformed file returns ok=true and a
	// CorruptedFile error.
	TryReadInfo(file VirtualFile) (info audio.ContainerInfo, ok bool, err error)

	// OpenDecoder constructs a decoder for file's default track.
	OpenDecoder(file VirtualFile) (audio.TrackDecoder, error)
}
