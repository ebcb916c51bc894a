package variant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/tuannm99/novaresult/internal/alias/bx"
)

var (
	ErrBadBuffer   = errors.New("variant: buffer underflow")
	ErrUnknownKind = errors.New("variant: unknown kind")
)

// ---- JSON ----
// absent => null, otherwise {"kind":"bigint","value":42}.
// Non-finite doubles are written as the strings "NaN", "+Inf" and "-Inf".

type jsonVariant struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func (v Variant) MarshalJSON() ([]byte, error) {
	if v.kind == KindAbsent {
		return []byte("null"), nil
	}
	var payload any
	switch v.kind {
	case KindDouble:
		switch {
		case math.IsNaN(v.f):
			payload = "NaN"
		case math.IsInf(v.f, 1):
			payload = "+Inf"
		case math.IsInf(v.f, -1):
			payload = "-Inf"
		default:
			payload = v.f
		}
	case KindBool, KindInt, KindUInt, KindBigInt, KindUBigInt, KindString:
		payload = v.Any()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, v.kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonVariant{Kind: v.kind.String(), Value: raw})
}

func (v *Variant) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Absent()
		return nil
	}
	var jv jsonVariant
	if err := json.Unmarshal(data, &jv); err != nil {
		return fmt.Errorf("variant: bad json: %w", err)
	}
	kind, err := ParseKind(jv.Kind)
	if err != nil {
		return err
	}

	switch kind {
	case KindAbsent:
		*v = Absent()
	case KindBool:
		var b bool
		err = json.Unmarshal(jv.Value, &b)
		*v = Bool(b)
	case KindInt:
		var n int
		err = json.Unmarshal(jv.Value, &n)
		*v = Int(n)
	case KindUInt:
		var n uint32
		err = json.Unmarshal(jv.Value, &n)
		*v = UInt(n)
	case KindBigInt:
		var n int64
		err = json.Unmarshal(jv.Value, &n)
		*v = BigInt(n)
	case KindUBigInt:
		var n uint64
		err = json.Unmarshal(jv.Value, &n)
		*v = UBigInt(n)
	case KindDouble:
		var f float64
		var s string
		if json.Unmarshal(jv.Value, &s) == nil {
			switch s {
			case "NaN":
				f = math.NaN()
			case "+Inf":
				f = math.Inf(1)
			case "-Inf":
				f = math.Inf(-1)
			default:
				err = fmt.Errorf("variant: bad double %q", s)
			}
		} else {
			err = json.Unmarshal(jv.Value, &f)
		}
		*v = Double(f)
	case KindString:
		var s string
		err = json.Unmarshal(jv.Value, &s)
		*v = String(s)
	}
	if err != nil {
		return fmt.Errorf("variant: bad %s value: %w", kind, err)
	}
	return nil
}

// ---- Binary ----
// Row format:
// [u16 ncols] [nullmap: ceil(N/8) bytes, bit=1 => absent] | per present slot: [kind u8] [payload]
// Payloads: bool u8, int/bigint i64, uint u32, ubigint u64, double f64, string u32 length + data.
// Matrix format: [u32 nrows] row...

// EncodeRow appends the binary form of row to dst.
func EncodeRow(dst []byte, row Row) ([]byte, error) {
	nc := len(row)
	if nc > math.MaxUint16 {
		return nil, fmt.Errorf("variant: row too wide: %d columns", nc)
	}
	dst = bx.AppendU16(dst, uint16(nc))

	nullmap := len(dst)
	dst = append(dst, make([]byte, (nc+7)/8)...)

	for i, v := range row {
		if v.kind == KindAbsent {
			dst[nullmap+i/8] |= 1 << (uint(i) & 7)
			continue
		}
		dst = append(dst, byte(v.kind))
		switch v.kind {
		case KindBool:
			if v.b {
				dst = append(dst, 1)
			} else {
				dst = append(dst, 0)
			}
		case KindInt, KindBigInt:
			dst = bx.AppendI64(dst, v.i)
		case KindUInt:
			dst = bx.AppendU32(dst, uint32(v.u))
		case KindUBigInt:
			dst = bx.AppendU64(dst, v.u)
		case KindDouble:
			dst = bx.AppendF64(dst, v.f)
		case KindString:
			if uint64(len(v.s)) > math.MaxUint32 {
				return nil, fmt.Errorf("variant: string too long: %d bytes", len(v.s))
			}
			dst = bx.AppendBytes(dst, []byte(v.s))
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownKind, v.kind)
		}
	}
	return dst, nil
}

// DecodeRow reads one row from buf and returns it with the number of bytes used.
func DecodeRow(buf []byte) (Row, int, error) {
	if len(buf) < 2 {
		return nil, 0, ErrBadBuffer
	}
	nc := int(bx.U16(buf))
	i := 2
	nbBytes := (nc + 7) / 8
	if len(buf) < i+nbBytes {
		return nil, 0, ErrBadBuffer
	}
	nullmap := buf[i : i+nbBytes]
	i += nbBytes

	need := func(n int) bool { return i+n <= len(buf) }

	row := make(Row, nc)
	for col := 0; col < nc; col++ {
		if (nullmap[col/8]>>(uint(col)&7))&1 == 1 {
			row[col] = Absent()
			continue
		}
		if !need(1) {
			return nil, 0, ErrBadBuffer
		}
		kind := Kind(buf[i])
		i++

		switch kind {
		case KindBool:
			if !need(1) {
				return nil, 0, ErrBadBuffer
			}
			row[col] = Bool(buf[i] != 0)
			i++
		case KindInt, KindBigInt:
			if !need(8) {
				return nil, 0, ErrBadBuffer
			}
			n := bx.I64(buf[i:])
			if kind == KindInt {
				row[col] = Int(int(n))
			} else {
				row[col] = BigInt(n)
			}
			i += 8
		case KindUInt:
			if !need(4) {
				return nil, 0, ErrBadBuffer
			}
			row[col] = UInt(bx.U32(buf[i:]))
			i += 4
		case KindUBigInt:
			if !need(8) {
				return nil, 0, ErrBadBuffer
			}
			row[col] = UBigInt(bx.U64(buf[i:]))
			i += 8
		case KindDouble:
			if !need(8) {
				return nil, 0, ErrBadBuffer
			}
			row[col] = Double(bx.F64(buf[i:]))
			i += 8
		case KindString:
			if !need(4) {
				return nil, 0, ErrBadBuffer
			}
			l := int(bx.U32(buf[i:]))
			i += 4
			if l < 0 || !need(l) {
				return nil, 0, ErrBadBuffer
			}
			row[col] = String(string(buf[i : i+l]))
			i += l
		default:
			return nil, 0, fmt.Errorf("%w: %d at column %d", ErrUnknownKind, kind, col)
		}
	}
	return row, i, nil
}

func EncodeMatrix(m Matrix) ([]byte, error) {
	if uint64(len(m)) > math.MaxUint32 {
		return nil, fmt.Errorf("variant: too many rows: %d", len(m))
	}
	out := bx.AppendU32(nil, uint32(len(m)))
	var err error
	for _, row := range m {
		if out, err = EncodeRow(out, row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func DecodeMatrix(buf []byte) (Matrix, error) {
	if len(buf) < 4 {
		return nil, ErrBadBuffer
	}
	n := int(bx.U32(buf))
	off := 4
	// every row needs at least its u16 column count
	if n > (len(buf)-off)/2 {
		return nil, ErrBadBuffer
	}
	m := NewMatrix(n)
	for r := 0; r < n; r++ {
		row, used, err := DecodeRow(buf[off:])
		if err != nil {
			return nil, fmt.Errorf("variant: row %d: %w", r, err)
		}
		m = append(m, row)
		off += used
	}
	if off != len(buf) {
		return nil, fmt.Errorf("variant: %d trailing bytes", len(buf)-off)
	}
	return m, nil
}
