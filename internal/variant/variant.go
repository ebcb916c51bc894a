// Package variant defines the closed set of primitive values a result is
// exported as, independent of the engine's own value type.
package variant

import (
	"fmt"
	"strconv"
)

// Kind discriminates a Variant.
type Kind uint8

const (
	// KindAbsent marks a slot whose source cell was NULL.
	KindAbsent Kind = iota
	KindBool
	KindInt
	KindUInt
	KindBigInt
	KindUBigInt
	KindDouble
	KindString
)

var kindNames = [...]string{
	KindAbsent:  "absent",
	KindBool:    "bool",
	KindInt:     "int",
	KindUInt:    "uint",
	KindBigInt:  "bigint",
	KindUBigInt: "ubigint",
	KindDouble:  "double",
	KindString:  "string",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return KindAbsent, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Variant holds exactly one value of its Kind. The zero Variant is absent.
type Variant struct {
	kind Kind
	b    bool
	i    int64 // KindInt, KindBigInt
	u    uint64
	f    float64
	s    string
}

func Absent() Variant          { return Variant{} }
func Bool(v bool) Variant      { return Variant{kind: KindBool, b: v} }
func Int(v int) Variant        { return Variant{kind: KindInt, i: int64(v)} }
func UInt(v uint32) Variant    { return Variant{kind: KindUInt, u: uint64(v)} }
func BigInt(v int64) Variant   { return Variant{kind: KindBigInt, i: v} }
func UBigInt(v uint64) Variant { return Variant{kind: KindUBigInt, u: v} }
func Double(v float64) Variant { return Variant{kind: KindDouble, f: v} }
func String(v string) Variant  { return Variant{kind: KindString, s: v} }

func (v Variant) Kind() Kind     { return v.kind }
func (v Variant) IsAbsent() bool { return v.kind == KindAbsent }

func (v Variant) AsBool() (bool, bool)      { return v.b, v.kind == KindBool }
func (v Variant) AsInt() (int, bool)        { return int(v.i), v.kind == KindInt }
func (v Variant) AsUInt() (uint32, bool)    { return uint32(v.u), v.kind == KindUInt }
func (v Variant) AsBigInt() (int64, bool)   { return v.i, v.kind == KindBigInt }
func (v Variant) AsUBigInt() (uint64, bool) { return v.u, v.kind == KindUBigInt }
func (v Variant) AsDouble() (float64, bool) { return v.f, v.kind == KindDouble }
func (v Variant) AsString() (string, bool)  { return v.s, v.kind == KindString }

// Any returns the payload as a native Go value, nil when absent.
func (v Variant) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return int(v.i)
	case KindUInt:
		return uint32(v.u)
	case KindBigInt:
		return v.i
	case KindUBigInt:
		return v.u
	case KindDouble:
		return v.f
	case KindString:
		return v.s
	}
	return nil
}

func (v Variant) String() string {
	switch v.kind {
	case KindAbsent:
		return "NULL"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt, KindBigInt:
		return strconv.FormatInt(v.i, 10)
	case KindUInt, KindUBigInt:
		return strconv.FormatUint(v.u, 10)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	}
	return v.kind.String()
}

// Row is one exported row, aligned to the result's column order.
type Row []Variant

// Matrix is a snapshot of a whole result.
type Matrix []Row

// NewMatrix reserves room for rows rows without adding any.
func NewMatrix(rows int) Matrix { return make(Matrix, 0, rows) }

// NewRow reserves room for cols slots without adding any.
func NewRow(cols int) Row { return make(Row, 0, cols) }

func (m Matrix) Len() int { return len(m) }
