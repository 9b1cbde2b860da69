package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nuclex-go/audio/audioerr"
)

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.bin")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("could not write fixture: %v", err)
	}
	return path
}

func TestRealFileSizeAndReadAt(t *testing.T) {
	path := writeTempFile(t, []byte("hello world"))
	f, err := OpenRealFileForReading(path, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	size, err := f.Size()
	if err != nil || size != 11 {
		t.Fatalf("size = %d, %v, want 11, nil", size, err)
	}

	buf := make([]byte, 5)
	if err := f.ReadAt(6, buf); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "world" {
		t.Fatalf("got %q, want world", buf)
	}
}

func TestRealFileReadAtPastEndFails(t *testing.T) {
	path := writeTempFile(t, []byte("short"))
	f, err := OpenRealFileForReading(path, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	buf := make([]byte, 100)
	err = f.ReadAt(0, buf)
	if err == nil {
		t.Fatal("expected an error reading past end of file")
	}
	if !audioerr.Is(err, audioerr.FileAccess) {
		t.Fatalf("expected FileAccess kind, got %v", err)
	}
}

func TestRealFileWriteAtAppendExtends(t *testing.T) {
	path := writeTempFile(t, []byte("abc"))
	f, err := func() (*RealFile, error) {
		file, err := os.OpenFile(path, os.O_RDWR, 0o644)
		if err != nil {
			return nil, err
		}
		return &RealFile{file: file}, nil
	}()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if err := f.WriteAt(3, []byte("def")); err != nil {
		t.Fatalf("WriteAt append: %v", err)
	}
	size, _ := f.Size()
	if size != 6 {
		t.Fatalf("size after append = %d, want 6", size)
	}
}

func TestRealFileWriteAtBeyondEndRejected(t *testing.T) {
	path := writeTempFile(t, []byte("abc"))
	f, err := func() (*RealFile, error) {
		file, err := os.OpenFile(path, os.O_RDWR, 0o644)
		if err != nil {
			return nil, err
		}
		return &RealFile{file: file}, nil
	}()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if err := f.WriteAt(10, []byte("x")); err == nil {
		t.Fatal("expected an error writing beyond current file size")
	}
}

func TestAsReadSeekerReadsSequentially(t *testing.T) {
	path := writeTempFile(t, []byte("0123456789"))
	f, err := OpenRealFileForReading(path, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rs := AsReadSeeker(f)
	buf := make([]byte, 4)
	n, err := rs.Read(buf)
	if err != nil || n != 4 || string(buf) != "0123" {
		t.Fatalf("first read = %d %q %v", n, buf, err)
	}
	n, err = rs.Read(buf)
	if err != nil || n != 4 || string(buf) != "4567" {
		t.Fatalf("second read = %d %q %v", n, buf, err)
	}

	pos, err := rs.Seek(0, 0)
	if err != nil || pos != 0 {
		t.Fatalf("seek to start: %d, %v", pos, err)
	}
	n, err = rs.Read(buf)
	if err != nil || string(buf[:n]) != "0123" {
		t.Fatalf("read after seek = %q, %v", buf[:n], err)
	}
}

func TestDetectCodecWaveform(t *testing.T) {
	content := append([]byte("RIFF"), make([]byte, 8)...)
	path := writeTempFile(t, content)
	f, err := OpenRealFileForReading(path, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	ext, ok := DetectCodec(f)
	if !ok || ext != "wav" {
		t.Fatalf("got %q, %v, want wav, true", ext, ok)
	}
}

func TestDetectCodecUnrecognized(t *testing.T) {
	path := writeTempFile(t, []byte("not an audio file at all"))
	f, err := OpenRealFileForReading(path, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	_, ok := DetectCodec(f)
	if ok {
		t.Fatal("expected detection to fail for unrecognized content")
	}
}
