// stand for bytes helper
package bx

import (
	"encoding/binary"
	"math"
)

var LE = binary.LittleEndian

// --- LE: read ---
func U16(b []byte) uint16  { return LE.Uint16(b) }
func U32(b []byte) uint32  { return LE.Uint32(b) }
func U64(b []byte) uint64  { return LE.Uint64(b) }
func I64(b []byte) int64   { return int64(U64(b)) }
func F64(b []byte) float64 { return math.Float64frombits(U64(b)) }

// --- LE: append (grow-on-write encoders) ---
func AppendU16(b []byte, v uint16) []byte  { return LE.AppendUint16(b, v) }
func AppendU32(b []byte, v uint32) []byte  { return LE.AppendUint32(b, v) }
func AppendU64(b []byte, v uint64) []byte  { return LE.AppendUint64(b, v) }
func AppendI64(b []byte, v int64) []byte   { return AppendU64(b, uint64(v)) }
func AppendF64(b []byte, v float64) []byte { return AppendU64(b, math.Float64bits(v)) }

// AppendBytes writes a u32 length prefix followed by p.
func AppendBytes(b []byte, p []byte) []byte {
	b = AppendU32(b, uint32(len(p)))
	return append(b, p...)
}
