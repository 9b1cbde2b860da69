package waveform

import (
	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/storage"
)

// Codec implements storage.Codec for the Waveform (RIFF/RIFX/FFIR/XFIR)
// container.
type Codec struct{}

var _ storage.Codec = Codec{}

func (Codec) Name() string         { return "waveform" }
func (Codec) Extensions() []string { return []string{"wav", "wave"} }

func (Codec) Detect(file storage.VirtualFile) (bool, error) {
	size, err := file.Size()
	if err != nil {
		return false, err
	}
	if size < smallestPossibleSize {
		return false, nil
	}
	var header [12]byte
	if err := file.ReadAt(0, header[:]); err != nil {
		return false, err
	}
	code := checkFourCC(header[:4])
	_, recognized := readerFor(code)
	if !recognized {
		return false, nil
	}
	return header[8] == 'W' && header[9] == 'A' && header[10] == 'V' && header[11] == 'E', nil
}

func (c Codec) TryReadInfo(file storage.VirtualFile) (audio.ContainerInfo, bool, error) {
	size, err := file.Size()
	if err != nil {
		return audio.ContainerInfo{}, false, err
	}
	if size < smallestPossibleSize {
		return audio.ContainerInfo{}, false, nil
	}

	initialRead := uint64(optimisticInitialReadSize)
	if size < initialRead {
		initialRead = size
	}
	header := make([]byte, initialRead)
	if err := file.ReadAt(0, header); err != nil {
		return audio.ContainerInfo{}, false, err
	}

	code := checkFourCC(header[:4])
	r, recognized := readerFor(code)
	if !recognized || string(header[8:12]) != "WAVE" {
		// Not RIFF-family, or RIFF but not WAVE: not our format, not an error.
		return audio.ContainerInfo{}, false, nil
	}

	state := newParseState()
	state.info.CodecName = c.Name()
	if err := scanChunks(r, file, size, state); err != nil {
		return audio.ContainerInfo{}, true, err
	}

	if !state.isComplete() {
		return audio.ContainerInfo{}, true, audioerr.New(
			audioerr.CorruptedFile,
			"waveform audio file is missing one or more mandatory chunks",
		)
	}

	return audio.ContainerInfo{
		DefaultTrackIndex: 0,
		Tracks:            []audio.TrackInfo{state.info},
	}, true, nil
}

func (c Codec) OpenDecoder(file storage.VirtualFile) (audio.TrackDecoder, error) {
	return newDecoder(file, c.Name())
}
