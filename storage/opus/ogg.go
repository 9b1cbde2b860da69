package opus

import (
	"encoding/binary"

	"github.com/nuclex-go/audio/audioerr"
	"github.com/nuclex-go/audio/storage"
)

// oggPageHeaderSize is the fixed portion of an Ogg page header before
// its segment table, per RFC 3533 §6: "OggS" + version + flags +
// granule position (8) + serial (4) + sequence (4) + CRC (4) + segment
// count.
const oggPageHeaderSize = 27

const (
	headerFlagContinuation = 0x01
	headerFlagBOS          = 0x02
	headerFlagEOS          = 0x04
)

// opusHeadMagic identifies the Opus identification packet, the first
// packet of the first page ("OggS" page with the BOS flag set) of an
// Ogg Opus logical stream.
const opusHeadMagic = "OpusHead"

// opusHead holds the fields of RFC 7845 §5.1's identification header
// this package needs to configure the decoder and discard pre-roll.
type opusHead struct {
	channels   int
	preSkip    int
	sampleRate uint32
}

func parseOpusHead(packet []byte) (opusHead, bool) {
	if len(packet) < 19 || string(packet[:8]) != opusHeadMagic {
		return opusHead{}, false
	}
	return opusHead{
		channels:   int(packet[9]),
		preSkip:    int(binary.LittleEndian.Uint16(packet[10:12])),
		sampleRate: binary.LittleEndian.Uint32(packet[12:16]),
	}, true
}

// oggPacketReader walks the Ogg pages of a single-logical-stream Opus
// file (the common case this module supports; chained/multiplexed
// streams are out of scope, see DESIGN.md) and yields Opus packets in
// order, reassembling packets split across a page's 255-byte segment
// boundaries the way RFC 3533 §6 describes.
type oggPacketReader struct {
	file   storage.VirtualFile
	size   uint64
	offset uint64

	pending []byte   // bytes of a packet begun on a previous page, awaiting continuation
	queued  [][]byte // complete packets from the last page read, not yet returned
	eof     bool
}

func newOggPacketReader(file storage.VirtualFile, size uint64) *oggPacketReader {
	return &oggPacketReader{file: file, size: size}
}

// nextPage reads one Ogg page at the reader's current offset, returning
// its payload split into packets (the last one incomplete if the page's
// final segment value is 255, meaning it continues on the next page).
func (r *oggPacketReader) nextPage() (packets [][]byte, lastContinues bool, err error) {
	if r.offset+oggPageHeaderSize > r.size {
		return nil, false, nil
	}
	header := make([]byte, oggPageHeaderSize)
	if err := r.file.ReadAt(r.offset, header); err != nil {
		return nil, false, err
	}
	if string(header[:4]) != "OggS" {
		return nil, false, audioerr.New(audioerr.CorruptedFile, "ogg opus file has a malformed page header")
	}
	segmentCount := int(header[26])
	segmentTableOffset := r.offset + oggPageHeaderSize
	if segmentTableOffset+uint64(segmentCount) > r.size {
		return nil, false, audioerr.New(audioerr.CorruptedFile, "ogg opus page segment table runs past end of file")
	}
	segmentTable := make([]byte, segmentCount)
	if err := r.file.ReadAt(segmentTableOffset, segmentTable); err != nil {
		return nil, false, err
	}

	payloadOffset := segmentTableOffset + uint64(segmentCount)
	totalPayload := 0
	for _, s := range segmentTable {
		totalPayload += int(s)
	}
	if payloadOffset+uint64(totalPayload) > r.size {
		return nil, false, audioerr.New(audioerr.CorruptedFile, "ogg opus page payload runs past end of file")
	}
	payload := make([]byte, totalPayload)
	if totalPayload > 0 {
		if err := r.file.ReadAt(payloadOffset, payload); err != nil {
			return nil, false, err
		}
	}

	packetStart := 0
	runLength := 0
	for i, s := range segmentTable {
		runLength += int(s)
		if s < 255 {
			packets = append(packets, payload[packetStart:packetStart+runLength])
			packetStart += runLength
			runLength = 0
		}
		if i == len(segmentTable)-1 && s == 255 {
			lastContinues = true
		}
	}
	if runLength > 0 {
		packets = append(packets, payload[packetStart:packetStart+runLength])
	}

	r.offset = payloadOffset + uint64(totalPayload)
	return packets, lastContinues, nil
}

// Next returns the next complete Opus packet, or ok=false at end of
// stream.
func (r *oggPacketReader) Next() (packet []byte, ok bool, err error) {
	for {
		if len(r.queued) > 0 {
			packet, r.queued = r.queued[0], r.queued[1:]
			return packet, true, nil
		}
		if r.eof {
			return nil, false, nil
		}
		packets, lastContinues, err := r.nextPage()
		if err != nil {
			return nil, false, err
		}
		if packets == nil {
			r.eof = true
			if len(r.pending) > 0 {
				packet, r.pending = r.pending, nil
				return packet, true, nil
			}
			return nil, false, nil
		}

		for i, p := range packets {
			isLast := i == len(packets)-1
			if len(r.pending) > 0 {
				r.pending = append(r.pending, p...)
			} else {
				r.pending = append([]byte{}, p...)
			}
			if isLast && lastContinues {
				// Packet continues on the next page; keep buffering.
				continue
			}
			r.queued = append(r.queued, r.pending)
			r.pending = nil
		}
	}
}
