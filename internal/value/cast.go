package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/tuannm99/novaresult/internal/record"
)

var (
	ErrNullValue = errors.New("value: cannot narrow NULL")
	ErrCast      = errors.New("value: conversion not possible")
)

func (v Value) castErr(target string) error {
	return fmt.Errorf("%w: %s %q to %s", ErrCast, v.typ, v.String(), target)
}

// GetBool narrows v to a boolean. Numbers are true when non-zero; text is
// parsed.
func (v Value) GetBool() (bool, error) {
	if v.IsNull() {
		return false, ErrNullValue
	}
	switch id := v.typ.ID; {
	case id == record.TypeBoolean:
		return v.b, nil
	case id.IsUnsigned():
		return v.u != 0, nil
	case id.IsInteger():
		return v.i != 0, nil
	case id == record.TypeFloat || id == record.TypeDouble:
		return v.f != 0, nil
	case id == record.TypeDecimal:
		return !v.dec.IsZero(), nil
	case id == record.TypeVarchar:
		b, err := cast.ToBoolE(strings.TrimSpace(v.s))
		if err != nil {
			return false, v.castErr("BOOLEAN")
		}
		return b, nil
	}
	return false, v.castErr("BOOLEAN")
}

// GetInt64 narrows v to a signed 64-bit integer. Floating point and decimal
// values are rounded to the nearest integer.
func (v Value) GetInt64() (int64, error) {
	if v.IsNull() {
		return 0, ErrNullValue
	}
	switch id := v.typ.ID; {
	case id == record.TypeBoolean:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case id.IsUnsigned():
		if v.u > math.MaxInt64 {
			return 0, v.castErr("BIGINT")
		}
		return int64(v.u), nil
	case id.IsInteger():
		return v.i, nil
	case id == record.TypeFloat || id == record.TypeDouble:
		r := math.Round(v.f)
		if math.IsNaN(r) || r < math.MinInt64 || r >= math.MaxInt64 {
			return 0, v.castErr("BIGINT")
		}
		return int64(r), nil
	case id == record.TypeDecimal:
		bi := v.dec.Round(0).BigInt()
		if !bi.IsInt64() {
			return 0, v.castErr("BIGINT")
		}
		return bi.Int64(), nil
	case id == record.TypeVarchar:
		x, err := ParseInt64(v.s)
		if err != nil {
			return 0, v.castErr("BIGINT")
		}
		return x, nil
	}
	return 0, v.castErr("BIGINT")
}

// ParseInt64 reads decimal integer text. Leading zeros are not an octal
// prefix and hex is rejected, so "010" is 10.
func ParseInt64(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// ParseUint64 is ParseInt64 for unsigned text.
func ParseUint64(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
}

// GetUint64 narrows v to an unsigned 64-bit integer; negative values fail.
func (v Value) GetUint64() (uint64, error) {
	if v.IsNull() {
		return 0, ErrNullValue
	}
	switch id := v.typ.ID; {
	case id.IsUnsigned():
		return v.u, nil
	case id == record.TypeFloat || id == record.TypeDouble:
		r := math.Round(v.f)
		if math.IsNaN(r) || r < 0 || r >= math.MaxUint64 {
			return 0, v.castErr("UBIGINT")
		}
		return uint64(r), nil
	case id == record.TypeDecimal:
		bi := v.dec.Round(0).BigInt()
		if bi.Sign() < 0 || !bi.IsUint64() {
			return 0, v.castErr("UBIGINT")
		}
		return bi.Uint64(), nil
	case id == record.TypeVarchar:
		x, err := ParseUint64(v.s)
		if err != nil {
			return 0, v.castErr("UBIGINT")
		}
		return x, nil
	}
	x, err := v.GetInt64()
	if err != nil {
		return 0, v.castErr("UBIGINT")
	}
	if x < 0 {
		return 0, v.castErr("UBIGINT")
	}
	return uint64(x), nil
}

// GetInt narrows v to the native int.
func (v Value) GetInt() (int, error) {
	x, err := v.GetInt64()
	if err != nil {
		return 0, err
	}
	if x < math.MinInt || x > math.MaxInt {
		return 0, v.castErr("INTEGER")
	}
	return int(x), nil
}

func (v Value) GetUint32() (uint32, error) {
	x, err := v.GetUint64()
	if err != nil {
		return 0, err
	}
	if x > math.MaxUint32 {
		return 0, v.castErr("UINTEGER")
	}
	return uint32(x), nil
}

// GetFloat64 narrows v to a double. DECIMAL conversion is best-effort and may
// lose precision.
func (v Value) GetFloat64() (float64, error) {
	if v.IsNull() {
		return 0, ErrNullValue
	}
	switch id := v.typ.ID; {
	case id == record.TypeBoolean:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case id.IsUnsigned():
		return float64(v.u), nil
	case id.IsInteger():
		return float64(v.i), nil
	case id == record.TypeFloat || id == record.TypeDouble:
		return v.f, nil
	case id == record.TypeDecimal:
		return v.dec.InexactFloat64(), nil
	case id == record.TypeVarchar:
		f, err := cast.ToFloat64E(strings.TrimSpace(v.s))
		if err != nil {
			return 0, v.castErr("DOUBLE")
		}
		return f, nil
	}
	return 0, v.castErr("DOUBLE")
}

// GetString returns VARCHAR payloads as-is and the rendering of every other
// type.
func (v Value) GetString() (string, error) {
	if v.IsNull() {
		return "", ErrNullValue
	}
	if v.typ.ID == record.TypeVarchar {
		return strings.Clone(v.s), nil
	}
	return v.String(), nil
}
