package storage

import (
	"io"

	"github.com/nuclex-go/audio/audioerr"
)

// AsReadSeeker adapts any VirtualFile into an io.ReadSeeker by tracking
// a cursor position and translating Read/Seek into ReadAt calls. This
// is what lets the stream-oriented codec libraries this module wraps
// (mewkiz/flac, jfreymuth/oggvorbis) run against any VirtualFile, not
// just a *RealFile backed by an *os.File.
func AsReadSeeker(file VirtualFile) io.ReadSeeker {
	return &offsetReadSeeker{file: file}
}

type offsetReadSeeker struct {
	file   VirtualFile
	offset uint64
}

func (s *offsetReadSeeker) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	size, err := s.file.Size()
	if err != nil {
		return 0, err
	}
	if s.offset >= size {
		return 0, io.EOF
	}
	remaining := size - s.offset
	toRead := uint64(len(p))
	atEOF := false
	if toRead > remaining {
		toRead = remaining
		atEOF = true
	}
	if err := s.file.ReadAt(s.offset, p[:toRead]); err != nil {
		return 0, err
	}
	s.offset += toRead
	if atEOF {
		return int(toRead), io.EOF
	}
	return int(toRead), nil
}

func (s *offsetReadSeeker) Seek(offset int64, whence int) (int64, error) {
	size, err := s.file.Size()
	if err != nil {
		return 0, err
	}
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = int64(s.offset) + offset
	case io.SeekEnd:
		target = int64(size) + offset
	default:
		return 0, audioerr.New(audioerr.InvalidArgument, "invalid seek whence")
	}
	if target < 0 {
		return 0, audioerr.New(audioerr.InvalidArgument, "seek before start of file")
	}
	s.offset = uint64(target)
	return target, nil
}
