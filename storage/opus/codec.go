// Package opus adapts github.com/thesyncim/gopus, paired with a
// hand-rolled Ogg page demuxer grounded on RFC 3533/7845, onto
// storage.Codec and audio.TrackDecoder.
package opus

import (
	"github.com/nuclex-go/audio/audio"
	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/storage"
)

var signature = [4]byte{'O', 'g', 'g', 'S'}

// Codec implements storage.Codec for Ogg Opus streams. It shares the
// "OggS" page signature with storage/vorbis but keys off the
// "OpusHead" identification packet rather than "vorbis", so the two
// codecs never both claim the same file.
type Codec struct{}

var _ storage.Codec = Codec{}

func (Codec) Name() string         { return "opus" }
func (Codec) Extensions() []string { return []string{"opus"} }

func (Codec) Detect(file storage.VirtualFile) (bool, error) {
	size, err := file.Size()
	if err != nil {
		return false, err
	}
	if size < oggPageHeaderSize+8 {
		return false, nil
	}
	var header [oggPageHeaderSize + 8]byte
	if err := file.ReadAt(0, header[:]); err != nil {
		return false, err
	}
	if [4]byte{header[0], header[1], header[2], header[3]} != signature {
		return false, nil
	}
	segmentCount := int(header[26])
	packetOffset := uint64(oggPageHeaderSize) + uint64(segmentCount)
	if packetOffset+8 > size {
		return false, nil
	}
	var magic [8]byte
	if err := file.ReadAt(packetOffset, magic[:]); err != nil {
		return false, err
	}
	return string(magic[:]) == opusHeadMagic, nil
}

func (c Codec) TryReadInfo(file storage.VirtualFile) (audio.ContainerInfo, bool, error) {
	detected, err := c.Detect(file)
	if err != nil {
		return audio.ContainerInfo{}, false, err
	}
	if !detected {
		return audio.ContainerInfo{}, false, nil
	}

	size, err := file.Size()
	if err != nil {
		return audio.ContainerInfo{}, true, err
	}
	head, _, err := readOpusHead(file, size)
	if err != nil {
		return audio.ContainerInfo{}, true, err
	}

	track := trackInfoFromHead(head, c.Name())
	return audio.ContainerInfo{DefaultTrackIndex: 0, Tracks: []audio.TrackInfo{track}}, true, nil
}

func (c Codec) OpenDecoder(file storage.VirtualFile) (audio.TrackDecoder, error) {
	return newDecoder(file, c.Name())
}

// readOpusHead reads the first Ogg page of file and parses its single
// packet as the Opus identification header RFC 7845 §5.1 mandates.
func readOpusHead(file storage.VirtualFile, size uint64) (opusHead, *oggPacketReader, error) {
	reader := newOggPacketReader(file, size)
	packet, ok, err := reader.Next()
	if err != nil {
		return opusHead{}, nil, err
	}
	if !ok {
		return opusHead{}, nil, audioerr.New(audioerr.CorruptedFile, "ogg opus file has no identification packet")
	}
	head, ok := parseOpusHead(packet)
	if !ok {
		return opusHead{}, nil, audioerr.New(audioerr.CorruptedFile, "ogg opus identification packet is malformed")
	}
	return head, reader, nil
}
