package loader

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/value"
)

var (
	ErrBadHeader = errors.New("loader: bad header")
	ErrBadCell   = errors.New("loader: bad cell")
)

// ParseCell converts the text of one cell into a value of type t.
func ParseCell(text string, t record.LogicalType) (value.Value, error) {
	s := strings.TrimSpace(text)
	bad := func(err error) (value.Value, error) {
		return value.Value{}, fmt.Errorf("%w: %q as %s: %v", ErrBadCell, text, t, err)
	}

	switch t.ID {
	case record.TypeBoolean:
		b, err := cast.ToBoolE(s)
		if err != nil {
			return bad(err)
		}
		return value.Boolean(b), nil
	case record.TypeTinyInt, record.TypeSmallInt, record.TypeInteger, record.TypeBigInt:
		n, err := value.ParseInt64(s)
		if err != nil {
			return bad(err)
		}
		return signed(n, t)
	case record.TypeUTinyInt, record.TypeUSmallInt, record.TypeUInteger, record.TypeUBigInt:
		if strings.HasPrefix(s, "-") {
			return bad(errors.New("negative unsigned"))
		}
		n, err := value.ParseUint64(s)
		if err != nil {
			return bad(err)
		}
		return unsigned(n, t)
	case record.TypeFloat:
		f, err := cast.ToFloat32E(s)
		if err != nil {
			return bad(err)
		}
		return value.Float(f), nil
	case record.TypeDouble:
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return bad(err)
		}
		return value.Double(f), nil
	case record.TypeDecimal:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return bad(err)
		}
		return value.Decimal(d, t.Width, t.Scale), nil
	case record.TypeVarchar:
		return value.Varchar(text), nil
	case record.TypeBlob:
		return value.Blob([]byte(text)), nil
	case record.TypeUUID:
		return value.UUID(strings.ToLower(s)), nil
	case record.TypeDate:
		tm, err := cast.ToTimeE(s)
		if err != nil {
			return bad(err)
		}
		return value.Date(tm), nil
	case record.TypeTimestamp:
		tm, err := cast.ToTimeE(s)
		if err != nil {
			return bad(err)
		}
		return value.Timestamp(tm), nil
	case record.TypeTime:
		tm, err := time.Parse("15:04:05", s)
		if err != nil {
			return bad(err)
		}
		since := time.Duration(tm.Hour())*time.Hour +
			time.Duration(tm.Minute())*time.Minute +
			time.Duration(tm.Second())*time.Second +
			time.Duration(tm.Nanosecond())
		return value.Time(since), nil
	}
	return bad(errors.New("type not loadable"))
}

func signed(n int64, t record.LogicalType) (value.Value, error) {
	lo, hi := int64(0), int64(0)
	switch t.ID {
	case record.TypeTinyInt:
		lo, hi = -1<<7, 1<<7-1
	case record.TypeSmallInt:
		lo, hi = -1<<15, 1<<15-1
	case record.TypeInteger:
		lo, hi = -1<<31, 1<<31-1
	default:
		return value.BigInt(n), nil
	}
	if n < lo || n > hi {
		return value.Value{}, fmt.Errorf("%w: %d out of range for %s", ErrBadCell, n, t)
	}
	switch t.ID {
	case record.TypeTinyInt:
		return value.TinyInt(int8(n)), nil
	case record.TypeSmallInt:
		return value.SmallInt(int16(n)), nil
	}
	return value.Integer(int32(n)), nil
}

func unsigned(n uint64, t record.LogicalType) (value.Value, error) {
	var hi uint64
	switch t.ID {
	case record.TypeUTinyInt:
		hi = 1<<8 - 1
	case record.TypeUSmallInt:
		hi = 1<<16 - 1
	case record.TypeUInteger:
		hi = 1<<32 - 1
	default:
		return value.UBigInt(n), nil
	}
	if n > hi {
		return value.Value{}, fmt.Errorf("%w: %d out of range for %s", ErrBadCell, n, t)
	}
	switch t.ID {
	case record.TypeUTinyInt:
		return value.UTinyInt(uint8(n)), nil
	case record.TypeUSmallInt:
		return value.USmallInt(uint16(n)), nil
	}
	return value.UInteger(uint32(n)), nil
}

// inferType picks the narrowest of BIGINT, DOUBLE, BOOLEAN, VARCHAR that
// parses every non-null cell.
func inferType(cells []string) record.LogicalType {
	candidates := []record.TypeID{record.TypeBigInt, record.TypeDouble, record.TypeBoolean}
	for _, id := range candidates {
		ok, seen := true, false
		for _, c := range cells {
			s := strings.TrimSpace(c)
			if s == "" {
				continue
			}
			seen = true
			var err error
			switch id {
			case record.TypeBigInt:
				_, err = value.ParseInt64(s)
			case record.TypeDouble:
				_, err = cast.ToFloat64E(s)
			case record.TypeBoolean:
				_, err = cast.ToBoolE(s)
			}
			if err != nil {
				ok = false
				break
			}
		}
		if ok && seen {
			return record.NewType(id)
		}
	}
	return record.NewType(record.TypeVarchar)
}
