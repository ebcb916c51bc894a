package bx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLittleEndianAppendRead verifies that Append* and U16/U32/U64
// round-trip values using little-endian encoding.
func TestLittleEndianAppendRead(t *testing.T) {
	// ---- U16 ----
	{
		b := AppendU16(nil, 0x1234)
		// in LE, least-significant byte goes first
		assert.Equal(t, []byte{0x34, 0x12}, b)
		assert.Equal(t, uint16(0x1234), U16(b))
	}

	// ---- U32 ----
	{
		b := AppendU32(nil, 0x01020304)
		assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b)
		assert.Equal(t, uint32(0x01020304), U32(b))
	}

	// ---- U64 ----
	{
		b := AppendU64([]byte{0xff}, 0x0102030405060708)
		assert.Equal(t, []byte{0xff, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, b)
		assert.Equal(t, uint64(0x0102030405060708), U64(b[1:]))
	}
}

func TestSignedAndFloat(t *testing.T) {
	b := AppendI64(nil, -1234567890)
	assert.Equal(t, int64(-1234567890), I64(b))

	b = AppendF64(nil, math.Pi)
	assert.Equal(t, math.Pi, F64(b))

	b = AppendF64(nil, math.Inf(-1))
	assert.True(t, math.IsInf(F64(b), -1))
}

func TestAppendBytes(t *testing.T) {
	b := AppendBytes(nil, []byte("abc"))
	assert.Equal(t, []byte{0x03, 0x00, 0x00, 0x00, 'a', 'b', 'c'}, b)
	assert.Equal(t, uint32(3), U32(b))

	b = AppendBytes(nil, nil)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)
}
