package loader

import (
	"math/rand"
	"testing"

	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/storage"
)

// fakeCodec is a storage.Codec stub whose Detect/TryReadInfo/OpenDecoder
// behavior is driven entirely by the fields below, used to exercise
// Registry dispatch order without needing a real container format.
type fakeCodec struct {
	name       string
	extensions []string
	accepts    func(storage.VirtualFile) bool
	openErr    error
}

func (f *fakeCodec) Name() string            { return f.name }
func (f *fakeCodec) Extensions() []string    { return f.extensions }
func (f *fakeCodec) Detect(file storage.VirtualFile) (bool, error) {
	return f.accepts(file), nil
}
func (f *fakeCodec) TryReadInfo(file storage.VirtualFile) (audio.ContainerInfo, bool, error) {
	if !f.accepts(file) {
		return audio.ContainerInfo{}, false, nil
	}
	return audio.ContainerInfo{Tracks: []audio.TrackInfo{{CodecName: f.name}}}, true, nil
}
func (f *fakeCodec) OpenDecoder(file storage.VirtualFile) (audio.TrackDecoder, error) {
	if !f.accepts(file) {
		return nil, audioerr.New(audioerr.UnsupportedFormat, "not recognized")
	}
	if f.openErr != nil {
		return nil, f.openErr
	}
	return nil, nil
}

func acceptAll(storage.VirtualFile) bool  { return true }
func acceptNone(storage.VirtualFile) bool { return false }

// Scenario 4: a random 100KiB fixture that no registered codec recognizes.
func TestTryReadInfoRandomFixtureUnrecognized(t *testing.T) {
	data := make([]byte, 100*1024)
	rand.New(rand.NewSource(1)).Read(data)
	file := storage.NewMemoryFile(data)

	r := NewRegistry(nil)
	r.Register(&fakeCodec{name: "a", extensions: []string{"wav"}, accepts: acceptNone})
	r.Register(&fakeCodec{name: "b", extensions: []string{"flac"}, accepts: acceptNone})

	_, ok, err := r.TryReadInfo(file, "")
	if ok || err != nil {
		t.Fatalf("got ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

// Scenario 5: a failing VirtualFile whose ReadAt returns a file-access
// error must propagate, not be swallowed as a declined probe.
func TestTryReadInfoFileAccessErrorPropagates(t *testing.T) {
	inner := storage.NewMemoryFile(make([]byte, 64))
	failing := storage.NewFailingFile(inner, 0)

	r := NewRegistry(nil)
	r.Register(&erroringProbeCodec{})

	_, _, err := r.TryReadInfo(failing, "")
	if err == nil || !audioerr.Is(err, audioerr.FileAccess) {
		t.Fatalf("expected FileAccess error, got %v", err)
	}
}

// erroringProbeCodec's TryReadInfo always performs a real ReadAt against
// the file, surfacing whatever error the file produces instead of
// translating it into a decline.
type erroringProbeCodec struct{}

func (c *erroringProbeCodec) Name() string         { return "erroring-probe" }
func (c *erroringProbeCodec) Extensions() []string  { return nil }
func (c *erroringProbeCodec) Detect(file storage.VirtualFile) (bool, error) {
	var buf [1]byte
	if err := file.ReadAt(0, buf[:]); err != nil {
		return false, err
	}
	return true, nil
}
func (c *erroringProbeCodec) TryReadInfo(file storage.VirtualFile) (audio.ContainerInfo, bool, error) {
	var buf [1]byte
	if err := file.ReadAt(0, buf[:]); err != nil {
		return audio.ContainerInfo{}, false, err
	}
	return audio.ContainerInfo{}, true, nil
}
func (c *erroringProbeCodec) OpenDecoder(file storage.VirtualFile) (audio.TrackDecoder, error) {
	var buf [1]byte
	if err := file.ReadAt(0, buf[:]); err != nil {
		return nil, err
	}
	return nil, nil
}

// Scenario 6: two codecs registered for ".ogg"; extension-hint dispatch
// tries the first-registered one first, and on success updates the MRU
// to whichever codec actually accepted.
func TestExtensionHintDispatchAndMRU(t *testing.T) {
	file := storage.NewMemoryFile([]byte("irrelevant content"))

	codecA := &fakeCodec{name: "A", extensions: []string{"ogg"}, accepts: acceptNone}
	codecB := &fakeCodec{name: "B", extensions: []string{"ogg"}, accepts: acceptAll}

	r := NewRegistry(nil)
	r.Register(codecA)
	r.Register(codecB)

	info, ok, err := r.TryReadInfo(file, ".ogg")
	if err != nil || !ok {
		t.Fatalf("got ok=%v err=%v, want ok=true err=nil", ok, err)
	}
	if info.Tracks[0].CodecName != "B" {
		t.Fatalf("got codec %q, want B", info.Tracks[0].CodecName)
	}

	if r.mruFirst.Load() != 1 {
		t.Fatalf("MRU first = %d, want 1 (codec B's index)", r.mruFirst.Load())
	}
}

// corruptedCodec recognizes every file (ok=true) but always reports it
// as corrupted, exercising the ok=true+error propagation path.
type corruptedCodec struct{}

func (c *corruptedCodec) Name() string         { return "corrupted" }
func (c *corruptedCodec) Extensions() []string { return nil }
func (c *corruptedCodec) Detect(file storage.VirtualFile) (bool, error) { return true, nil }
func (c *corruptedCodec) TryReadInfo(file storage.VirtualFile) (audio.ContainerInfo, bool, error) {
	return audio.ContainerInfo{}, true, audioerr.New(audioerr.CorruptedFile, "fixture is deliberately corrupted")
}
func (c *corruptedCodec) OpenDecoder(file storage.VirtualFile) (audio.TrackDecoder, error) {
	return nil, audioerr.New(audioerr.CorruptedFile, "fixture is deliberately corrupted")
}

// Scenario 7: a codec that positively recognizes a file but finds it
// corrupted must have that error propagate, not be treated as a decline
// that falls through to the next registered codec.
func TestTryReadInfoCorruptedFilePropagatesInsteadOfFallingThrough(t *testing.T) {
	file := storage.NewMemoryFile([]byte("irrelevant content"))

	r := NewRegistry(nil)
	r.Register(&corruptedCodec{})
	r.Register(&fakeCodec{name: "fallback", extensions: nil, accepts: acceptAll})

	_, ok, err := r.TryReadInfo(file, "")
	if !ok {
		t.Fatal("expected ok=true: the corrupted codec recognized the file")
	}
	if !audioerr.Is(err, audioerr.CorruptedFile) {
		t.Fatalf("expected CorruptedFile error, got %v", err)
	}
}

func TestRegisterFirstClaimWinsExtensionMapping(t *testing.T) {
	r := NewRegistry(nil)
	first := &fakeCodec{name: "first", extensions: []string{"wav"}, accepts: acceptAll}
	second := &fakeCodec{name: "second", extensions: []string{"wav"}, accepts: acceptAll}
	r.Register(first)
	r.Register(second)

	order := r.dispatchOrder(".wav")
	if len(order) == 0 || order[0] != 0 {
		t.Fatalf("got dispatch order %v, want first entry to be codec index 0", order)
	}
}
