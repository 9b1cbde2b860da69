package storage

import (
	"io"
	"os"

	"github.com/nuclex-go/audio/audioerr"
)

// RealFile adapts an *os.File to VirtualFile, the most direct/efficient
// way of accessing on-disk files. A RealFile is not safe for concurrent
// use from multiple goroutines: callers that want to decode the same
// file from multiple goroutines should call OpenRealFileForReading
// again to get an independent *os.File and offset.
type RealFile struct {
	file *os.File
}

// OpenRealFileForReading opens path in the OS' native file API in
// read-only mode. promiseSequentialAccess is a hint some platforms use
// to prefetch more aggressively; this implementation accepts it for
// interface parity but does not currently act on it.
func OpenRealFileForReading(path string, promiseSequentialAccess bool) (*RealFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, audioerr.Wrap(err, 0, "could not open file for reading")
	}
	return &RealFile{file: f}, nil
}

// OpenRealFileForWriting opens path for writing, truncating it to zero
// bytes if it already exists, creating it with 0644 permissions if it
// doesn't.
func OpenRealFileForWriting(path string, promiseSequentialAccess bool) (*RealFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, audioerr.Wrap(err, 0, "could not open file for writing")
	}
	return &RealFile{file: f}, nil
}

// Close releases the underlying OS file handle.
func (r *RealFile) Close() error {
	return r.file.Close()
}

// Size returns the current size of the file in bytes.
func (r *RealFile) Size() (uint64, error) {
	info, err := r.file.Stat()
	if err != nil {
		return 0, audioerr.Wrap(err, 0, "could not determine file size")
	}
	return uint64(info.Size()), nil
}

// ReadAt reads len(buffer) bytes starting at offset. Reading beyond the
// end of the file fails rather than silently short-reading, matching
// spec: every codec reader expects exactly the bytes it asked for.
func (r *RealFile) ReadAt(offset uint64, buffer []byte) error {
	if len(buffer) == 0 {
		return nil
	}
	n, err := r.file.ReadAt(buffer, int64(offset))
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errShortRead(err, len(buffer), n)
		}
		return audioerr.Wrap(err, 0, "read failed")
	}
	return nil
}

// WriteAt writes buffer at offset. offset may equal the file's current
// size, which appends and grows the file; any offset further out is
// rejected rather than leaving a sparse hole in the file.
func (r *RealFile) WriteAt(offset uint64, buffer []byte) error {
	size, err := r.Size()
	if err != nil {
		return err
	}
	if offset > size {
		return audioerr.Newf(
			audioerr.InvalidArgument,
			"write offset %d is beyond current file size %d", offset, size,
		)
	}
	if len(buffer) == 0 {
		return nil
	}
	n, err := r.file.WriteAt(buffer, int64(offset))
	if err != nil {
		return audioerr.Wrap(err, 0, "write failed")
	}
	if n != len(buffer) {
		return errShortRead(nil, len(buffer), n)
	}
	return nil
}

// AsReadSeeker returns an io.ReadSeeker view onto the file's current
// offset-tracking stream position, for handing to stream-based codec
// libraries (mewkiz/flac, jfreymuth/oggvorbis) that want sequential
// access rather than explicit offsets.
func (r *RealFile) AsReadSeeker() io.ReadSeeker {
	return r.file
}
