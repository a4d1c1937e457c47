// Package buf contains endian-safe decode/encode helpers shared by the
// heap's array-buffer views, covering the unsigned, signed, and
// floating-point element types the typed views need.
package buf

import (
	"encoding/binary"
	"math"
)

// U8 reads a single byte from b. Returns 0 when b is too short.
func U8(b []byte) uint8 {
	if len(b) < 1 {
		return 0
	}
	return b[0]
}

// I8 reads a single signed byte from b. Returns 0 when b is too short.
func I8(b []byte) int8 {
	return int8(U8(b))
}

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// I16LE reads a little-endian int16 from b. Returns 0 when b is too short.
func I16LE(b []byte) int16 {
	return int16(U16LE(b))
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// I32LE reads a little-endian int32 from b. Returns 0 when b is too short.
func I32LE(b []byte) int32 {
	return int32(U32LE(b))
}

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// F32LE decodes a little-endian IEEE-754 single-precision float from b.
func F32LE(b []byte) float32 {
	return math.Float32frombits(U32LE(b))
}

// F64LE decodes a little-endian IEEE-754 double-precision float from b.
func F64LE(b []byte) float64 {
	return math.Float64frombits(U64LE(b))
}

// PutU8 writes v into b[0].
func PutU8(b []byte, v uint8) {
	if len(b) >= 1 {
		b[0] = v
	}
}

// PutU16LE writes v into b as little-endian.
func PutU16LE(b []byte, v uint16) {
	if len(b) >= 2 {
		binary.LittleEndian.PutUint16(b, v)
	}
}

// PutU32LE writes v into b as little-endian.
func PutU32LE(b []byte, v uint32) {
	if len(b) >= 4 {
		binary.LittleEndian.PutUint32(b, v)
	}
}

// PutU64LE writes v into b as little-endian.
func PutU64LE(b []byte, v uint64) {
	if len(b) >= 8 {
		binary.LittleEndian.PutUint64(b, v)
	}
}

// PutF32LE writes v into b as a little-endian IEEE-754 single-precision float.
func PutF32LE(b []byte, v float32) {
	PutU32LE(b, math.Float32bits(v))
}

// PutF64LE writes v into b as a little-endian IEEE-754 double-precision float.
func PutF64LE(b []byte, v float64) {
	PutU64LE(b, math.Float64bits(v))
}
