package storage

import "github.com/nuclex-go/audio/audioerr"

// MemoryFile is an in-memory VirtualFile, used by test fixtures across
// this module's codec packages that need a random-access file without
// touching disk.
type MemoryFile struct {
	data []byte
}

// NewMemoryFile wraps data (not copied) as a read/write VirtualFile.
func NewMemoryFile(data []byte) *MemoryFile {
	return &MemoryFile{data: data}
}

func (m *MemoryFile) Size() (uint64, error) {
	return uint64(len(m.data)), nil
}

func (m *MemoryFile) ReadAt(offset uint64, buffer []byte) error {
	if offset > uint64(len(m.data)) || offset+uint64(len(buffer)) > uint64(len(m.data)) {
		return audioerr.New(audioerr.FileAccess, "read beyond end of memory file")
	}
	copy(buffer, m.data[offset:offset+uint64(len(buffer))])
	return nil
}

func (m *MemoryFile) WriteAt(offset uint64, buffer []byte) error {
	if offset > uint64(len(m.data)) {
		return audioerr.New(audioerr.InvalidArgument, "write offset beyond end of memory file")
	}
	if offset == uint64(len(m.data)) {
		m.data = append(m.data, buffer...)
		return nil
	}
	end := offset + uint64(len(buffer))
	if end > uint64(len(m.data)) {
		m.data = append(m.data, make([]byte, end-uint64(len(m.data)))...)
	}
	copy(m.data[offset:end], buffer)
	return nil
}

// Bytes returns the current backing slice.
func (m *MemoryFile) Bytes() []byte {
	return m.data
}

// FailingFile wraps another VirtualFile and fails every read or write
// that touches an offset beyond limit, to exercise error-propagation
// paths the same way the original source's FailingVirtualFile test
// fixture does (there, every access past byte 32 fails).
type FailingFile struct {
	wrapped VirtualFile
	limit   uint64
}

// NewFailingFile wraps file so any ReadAt/WriteAt touching an offset at
// or past limit fails with a simulated audioerr.FileAccess error.
func NewFailingFile(file VirtualFile, limit uint64) *FailingFile {
	return &FailingFile{wrapped: file, limit: limit}
}

func (f *FailingFile) Size() (uint64, error) {
	return f.wrapped.Size()
}

func (f *FailingFile) ReadAt(offset uint64, buffer []byte) error {
	if offset > f.limit || offset+uint64(len(buffer)) > f.limit {
		return audioerr.New(audioerr.FileAccess, "simulated error from FailingFile")
	}
	return f.wrapped.ReadAt(offset, buffer)
}

func (f *FailingFile) WriteAt(offset uint64, buffer []byte) error {
	if offset > f.limit || offset+uint64(len(buffer)) > f.limit {
		return audioerr.New(audioerr.FileAccess, "simulated error from FailingFile")
	}
	return f.wrapped.WriteAt(offset, buffer)
}
