// Package value implements the dynamic, type-tagged scalar that cells of a
// materialized result are read as.
package value

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuannm99/novaresult/internal/record"
)

// Interval is a calendar interval: months and days are kept apart from the
// sub-day part because their length varies.
type Interval struct {
	Months int32
	Days   int32
	Micros int64
}

// Value is an immutable scalar tagged with its logical type. The zero Value is
// a NULL of type INVALID.
type Value struct {
	typ    record.LogicalType
	isNull bool

	b    bool
	i    int64 // signed integers, DATE (days), TIME (micros), TIMESTAMP (micros)
	u    uint64
	f    float64
	s    string // VARCHAR, UUID
	blob []byte
	dec  decimal.Decimal
	iv   Interval
}

var epoch = time.Unix(0, 0).UTC()

const secondsPerDay = 24 * 60 * 60

func Null(t record.LogicalType) Value { return Value{typ: t, isNull: true} }

func Boolean(v bool) Value { return Value{typ: record.NewType(record.TypeBoolean), b: v} }

func TinyInt(v int8) Value { return Value{typ: record.NewType(record.TypeTinyInt), i: int64(v)} }

func SmallInt(v int16) Value { return Value{typ: record.NewType(record.TypeSmallInt), i: int64(v)} }

func Integer(v int32) Value { return Value{typ: record.NewType(record.TypeInteger), i: int64(v)} }

func BigInt(v int64) Value { return Value{typ: record.NewType(record.TypeBigInt), i: v} }

func UTinyInt(v uint8) Value { return Value{typ: record.NewType(record.TypeUTinyInt), u: uint64(v)} }

func USmallInt(v uint16) Value {
	return Value{typ: record.NewType(record.TypeUSmallInt), u: uint64(v)}
}

func UInteger(v uint32) Value { return Value{typ: record.NewType(record.TypeUInteger), u: uint64(v)} }

func UBigInt(v uint64) Value { return Value{typ: record.NewType(record.TypeUBigInt), u: v} }

func Float(v float32) Value { return Value{typ: record.NewType(record.TypeFloat), f: float64(v)} }

func Double(v float64) Value { return Value{typ: record.NewType(record.TypeDouble), f: v} }

// Decimal rounds d to the type's scale.
func Decimal(d decimal.Decimal, width, scale uint8) Value {
	return Value{typ: record.Decimal(width, scale), dec: d.Round(int32(scale))}
}

func Varchar(s string) Value { return Value{typ: record.NewType(record.TypeVarchar), s: s} }

// Blob copies b.
func Blob(b []byte) Value {
	return Value{typ: record.NewType(record.TypeBlob), blob: bytes.Clone(b)}
}

// Date keeps only the calendar day of t (UTC).
func Date(t time.Time) Value {
	secs := t.Unix()
	days := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		days--
	}
	return Value{typ: record.NewType(record.TypeDate), i: days}
}

// Time is a time of day given as the offset since midnight.
func Time(sinceMidnight time.Duration) Value {
	return Value{typ: record.NewType(record.TypeTime), i: sinceMidnight.Microseconds()}
}

// Timestamp keeps microsecond precision.
func Timestamp(t time.Time) Value {
	return Value{typ: record.NewType(record.TypeTimestamp), i: t.UTC().UnixMicro()}
}

func IntervalValue(iv Interval) Value {
	return Value{typ: record.NewType(record.TypeInterval), iv: iv}
}

func UUID(s string) Value { return Value{typ: record.NewType(record.TypeUUID), s: s} }

func (v Value) Type() record.LogicalType { return v.typ }

func (v Value) IsNull() bool { return v.isNull || v.typ.ID == record.TypeInvalid }

// Bytes returns a copy of a BLOB payload, nil otherwise.
func (v Value) Bytes() []byte {
	if v.IsNull() || v.typ.ID != record.TypeBlob {
		return nil
	}
	return bytes.Clone(v.blob)
}

// DecimalValue returns the exact DECIMAL payload.
func (v Value) DecimalValue() (decimal.Decimal, bool) {
	if v.IsNull() || v.typ.ID != record.TypeDecimal {
		return decimal.Zero, false
	}
	return v.dec, true
}

// TimeValue returns DATE and TIMESTAMP payloads as UTC times.
func (v Value) TimeValue() (time.Time, bool) {
	if v.IsNull() {
		return time.Time{}, false
	}
	switch v.typ.ID {
	case record.TypeDate:
		return epoch.AddDate(0, 0, int(v.i)), true
	case record.TypeTimestamp:
		return time.UnixMicro(v.i).UTC(), true
	}
	return time.Time{}, false
}

func (v Value) IntervalValue() (Interval, bool) {
	if v.IsNull() || v.typ.ID != record.TypeInterval {
		return Interval{}, false
	}
	return v.iv, true
}

// Copy returns a Value that shares no memory with v.
func (v Value) Copy() Value {
	if v.blob != nil {
		v.blob = bytes.Clone(v.blob)
	}
	return v
}

// Equal compares type and payload; two NULLs of the same type are equal.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ || v.IsNull() != o.IsNull() {
		return false
	}
	if v.IsNull() {
		return true
	}
	switch v.typ.ID {
	case record.TypeBoolean:
		return v.b == o.b
	case record.TypeTinyInt, record.TypeSmallInt, record.TypeInteger, record.TypeBigInt,
		record.TypeDate, record.TypeTime, record.TypeTimestamp:
		return v.i == o.i
	case record.TypeUTinyInt, record.TypeUSmallInt, record.TypeUInteger, record.TypeUBigInt:
		return v.u == o.u
	case record.TypeFloat, record.TypeDouble:
		return v.f == o.f || (v.f != v.f && o.f != o.f)
	case record.TypeDecimal:
		return v.dec.Equal(o.dec)
	case record.TypeVarchar, record.TypeUUID:
		return v.s == o.s
	case record.TypeBlob:
		return bytes.Equal(v.blob, o.blob)
	case record.TypeInterval:
		return v.iv == o.iv
	}
	return false
}
