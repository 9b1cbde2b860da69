// Package loader holds the Registry that routes a VirtualFile to the
// first registered storage.Codec willing to recognize it, with
// extension-hint and most-recently-used ordering grounded on
// Nuclex.Audio.Native's Storage/AudioLoader.h chain-of-responsibility
// design and MatusOllah/resona's codec.RegisterFormat pattern.
package loader

import (
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/storage"
)

// noneIndex is the sentinel atomic.Int64 value meaning "no MRU codec
// set yet".
const noneIndex = -1

// Registry holds a set of registered codecs and dispatches
// TryReadInfo/OpenDecoder to the first one that recognizes a file.
// Registration is not safe for concurrent use with dispatch: register
// every codec before the first TryReadInfo/OpenDecoder call, matching
// spec's "registration must complete before dispatch begins".
type Registry struct {
	codecs []storage.Codec
	byExt  map[string]int // extension (lowercase, no dot) -> codec index

	mruFirst  atomic.Int64
	mruSecond atomic.Int64

	logger *log.Logger
}

// NewRegistry constructs an empty Registry. logger may be nil, in which
// case a default charmbracelet/log logger writing to the package
// default output is used — matching the ambient logging stance of not
// requiring callers to thread a logger through a library they may not
// otherwise configure.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	r := &Registry{
		byExt:  make(map[string]int),
		logger: logger,
	}
	r.mruFirst.Store(noneIndex)
	r.mruSecond.Store(noneIndex)
	return r
}

// Register appends codec to the registry. For each extension codec
// claims, the first codec registered for that extension wins the
// mapping; later registrations for the same extension are only reached
// via the in-registration-order fallback pass.
func (r *Registry) Register(codec storage.Codec) {
	index := len(r.codecs)
	r.codecs = append(r.codecs, codec)
	for _, ext := range codec.Extensions() {
		normalized := strings.ToLower(ext)
		if _, exists := r.byExt[normalized]; !exists {
			r.byExt[normalized] = index
		}
	}
	r.logger.Debug("registered codec", "name", codec.Name(), "extensions", codec.Extensions())
}

// dispatchOrder builds the codec index visiting order per spec.md
// §4.7: extension hint first (if mapped), then MRU, then 2nd-MRU (if
// distinct), then every remaining codec in registration order, each
// index appearing exactly once.
func (r *Registry) dispatchOrder(extensionHint string) []int {
	tried := make(map[int]bool, len(r.codecs))
	order := make([]int, 0, len(r.codecs))

	add := func(index int) {
		if index < 0 || index >= len(r.codecs) || tried[index] {
			return
		}
		tried[index] = true
		order = append(order, index)
	}

	if extensionHint != "" {
		normalized := strings.ToLower(strings.TrimPrefix(extensionHint, "."))
		if index, ok := r.byExt[normalized]; ok {
			add(index)
		}
	}
	add(int(r.mruFirst.Load()))
	add(int(r.mruSecond.Load()))
	for i := range r.codecs {
		add(i)
	}
	return order
}

// markUsed shifts the previous MRU into 2nd-MRU and sets index as the
// new MRU. Not serialized by a lock: a slightly stale MRU under
// concurrent dispatch is acceptable (it is purely an optimization),
// but each store is individually atomic so no reader ever observes a
// torn value.
func (r *Registry) markUsed(index int) {
	previous := r.mruFirst.Swap(int64(index))
	if previous != int64(index) {
		r.mruSecond.Store(previous)
	}
}

// TryReadInfo returns the container metadata for file, probing
// registered codecs in dispatch order until one recognizes it. ok is
// false if no codec recognized the file; a recognized-but-malformed
// file returns ok=true with a non-nil CorruptedFile error.
func (r *Registry) TryReadInfo(file storage.VirtualFile, extensionHint string) (audio.ContainerInfo, bool, error) {
	for _, index := range r.dispatchOrder(extensionHint) {
		codec := r.codecs[index]
		info, ok, err := codec.TryReadInfo(file)
		if err != nil {
			if ok || audioerr.Is(err, audioerr.FileAccess) {
				return info, ok, err
			}
			r.logger.Debug("codec declined with error", "codec", codec.Name(), "err", err)
			continue
		}
		if ok {
			r.markUsed(index)
			return info, true, nil
		}
	}
	return audio.ContainerInfo{}, false, nil
}

// OpenDecoder constructs a decoder for file's default track, probing
// registered codecs in dispatch order until one recognizes it. Returns
// an UnsupportedFormat error if no codec recognizes the file.
func (r *Registry) OpenDecoder(file storage.VirtualFile, extensionHint string) (audio.TrackDecoder, error) {
	for _, index := range r.dispatchOrder(extensionHint) {
		codec := r.codecs[index]
		detected, err := codec.Detect(file)
		if err != nil {
			if audioerr.Is(err, audioerr.FileAccess) {
				return nil, err
			}
			r.logger.Debug("codec detection failed", "codec", codec.Name(), "err", err)
			continue
		}
		if !detected {
			continue
		}
		decoder, err := codec.OpenDecoder(file)
		if err != nil {
			// Detected but failed to open: this is the recognized-codec's
			// own failure (corrupted file, unsupported feature within an
			// otherwise-recognized format), not a decline to try another
			// codec, so it propagates rather than falling through.
			return nil, err
		}
		r.markUsed(index)
		return decoder, nil
	}
	return nil, audioerr.New(audioerr.UnsupportedFormat, "no registered codec recognized the file")
}
