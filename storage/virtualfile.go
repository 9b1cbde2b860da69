// Package storage provides the random-access file contract every codec
// reader is built against, and the Codec plugin interface the loader
// dispatches through. Grounded on Nuclex.Audio.Native's
// Storage/VirtualFile.h, adapted from the "open a file, get back a
// stream" shape climp's internal/player/decoder.go uses into a random-
// access one: codec libraries in this pack (mewkiz/flac,
// jfreymuth/oggvorbis) want an io.ReadSeeker, and a
// random-access file trivially provides one via an offset-tracking
// wrapper, but the reverse is not true for formats that need to jump
// around a chunk table before committing to a decode strategy.
package storage

import (
	"fmt"

	"github.com/nuclex-go/audio/audioerr"
)

// VirtualFile allows reading and writing data at arbitrary offsets,
// whether the file lives on disk or is backed by something else
// entirely (an in-memory buffer, a network range-request source). All
// codec readers in this module are built against this interface rather
// than *os.File directly, so callers can supply any backing store.
type VirtualFile interface {
	// Size returns the current size of the file in bytes.
	Size() (uint64, error)

	// ReadAt reads len(buffer) bytes starting at offset. Reading past
	// the end of the file is an error (audioerr.FileAccess), not a
	// short read: every codec reader in this module expects to get
	// exactly the bytes it asked for or an explicit failure.
	ReadAt(offset uint64, buffer []byte) error

	// WriteAt writes buffer at offset. offset may equal the file's
	// current size, which appends and grows the file; any other
	// offset beyond the current size is an error.
	WriteAt(offset uint64, buffer []byte) error
}

// errShortRead wraps a short read/write into the FileAccess error kind,
// preserving the underlying cause.
func errShortRead(cause error, wanted, got int) error {
	wrapped := audioerr.Wrap(cause, 0, fmt.Sprintf(
		"short read/write: wanted %d bytes, transferred %d", wanted, got,
	))
	return wrapped
}
