package utils

import (
	"encoding/binary"
	"math"
)

// Every integer and float in the BSON wire format is little-endian
// (spec §3.1, §6.1). These helpers centralize that so appenders and the
// iterator never call encoding/binary directly.

// PutInt32 writes a little-endian int32 into buf starting at 0.
func PutInt32(buf []byte, v int32) {
	binary.LittleEndian.PutUint32(buf, uint32(v))
}

// Int32 reads a little-endian int32 from the start of buf.
func Int32(buf []byte) int32 {
	return int32(binary.LittleEndian.Uint32(buf))
}

// PutUint32 writes a little-endian uint32 into buf starting at 0.
func PutUint32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

// Uint32 reads a little-endian uint32 from the start of buf.
func Uint32(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

// PutInt64 writes a little-endian int64 into buf starting at 0.
func PutInt64(buf []byte, v int64) {
	binary.LittleEndian.PutUint64(buf, uint64(v))
}

// Int64 reads a little-endian int64 from the start of buf.
func Int64(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf))
}

// PutUint64 writes a little-endian uint64 into buf starting at 0.
func PutUint64(buf []byte, v uint64) {
	binary.LittleEndian.PutUint64(buf, v)
}

// Uint64 reads a little-endian uint64 from the start of buf.
func Uint64(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf)
}

// PutFloat64 writes a little-endian IEEE-754 double into buf starting at 0.
func PutFloat64(buf []byte, v float64) {
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
}

// Float64 reads a little-endian IEEE-754 double from the start of buf.
func Float64(buf []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf))
}
