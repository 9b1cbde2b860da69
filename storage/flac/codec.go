// Package flac adapts github.com/mewkiz/flac onto storage.Codec and
// audio.TrackDecoder, the way storage/waveform adapts the hand-rolled
// chunk walker: a thin random-access VirtualFile wrapper feeds an
// io.Reader to the library, which does the actual frame decoding and
// inter-channel decorrelation.
package flac

import (
	"github.com/mewkiz/flac"

	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/storage"
)

var signature = [4]byte{'f', 'L', 'a', 'C'}

// Codec implements storage.Codec for native FLAC streams.
type Codec struct{}

var _ storage.Codec = Codec{}

func (Codec) Name() string         { return "flac" }
func (Codec) Extensions() []string { return []string{"flac"} }

func (Codec) Detect(file storage.VirtualFile) (bool, error) {
	size, err := file.Size()
	if err != nil {
		return false, err
	}
	if size < 4 {
		return false, nil
	}
	var header [4]byte
	if err := file.ReadAt(0, header[:]); err != nil {
		return false, err
	}
	return header == signature, nil
}

func (c Codec) TryReadInfo(file storage.VirtualFile) (audio.ContainerInfo, bool, error) {
	detected, err := c.Detect(file)
	if err != nil {
		return audio.ContainerInfo{}, false, err
	}
	if !detected {
		return audio.ContainerInfo{}, false, nil
	}

	stream, err := flac.Parse(storage.AsReadSeeker(file))
	if err != nil {
		return audio.ContainerInfo{}, true, audioerr.Newf(audioerr.CorruptedFile, "flac stream header is invalid: %v", err)
	}
	defer stream.Close()

	track := trackInfoFromStream(stream, c.Name())
	return audio.ContainerInfo{DefaultTrackIndex: 0, Tracks: []audio.TrackInfo{track}}, true, nil
}

func (c Codec) OpenDecoder(file storage.VirtualFile) (audio.TrackDecoder, error) {
	return newDecoder(file, c.Name())
}
