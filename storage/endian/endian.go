// Package endian provides the little/big-endian field readers the
// Waveform container needs (RIFF is little-endian, RIFX/FFIR/XFIR carry
// the same structure in big-endian), grounded on
// Nuclex.Audio.Native's WaveformHelpers.h TReader template parameter
// and realized with the teacher's own encoding/binary usage
// (olivier-w-climp's internal/player/decoder.go and player.go both
// parse WAV/AAC headers directly off encoding/binary.LittleEndian).
package endian

import "encoding/binary"

// Reader reads fixed-width integers from a byte slice at a given
// offset, in whichever byte order a Waveform file declares via its
// FourCC (RIFF/XFIR little-endian, RIFX/FFIR big-endian).
type Reader interface {
	Uint16(buffer []byte, offset int) uint16
	Uint32(buffer []byte, offset int) uint32
	Uint64(buffer []byte, offset int) uint64
}

// Little reads little-endian fields, used for RIFF and XFIR files.
var Little Reader = littleEndianReader{}

// Big reads big-endian fields, used for RIFX and FFIR files.
var Big Reader = bigEndianReader{}

type littleEndianReader struct{}

func (littleEndianReader) Uint16(buffer []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(buffer[offset:])
}

func (littleEndianReader) Uint32(buffer []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(buffer[offset:])
}

func (littleEndianReader) Uint64(buffer []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(buffer[offset:])
}

type bigEndianReader struct{}

func (bigEndianReader) Uint16(buffer []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(buffer[offset:])
}

func (bigEndianReader) Uint32(buffer []byte, offset int) uint32 {
	return binary.BigEndian.Uint32(buffer[offset:])
}

func (bigEndianReader) Uint64(buffer []byte, offset int) uint64 {
	return binary.BigEndian.Uint64(buffer[offset:])
}
