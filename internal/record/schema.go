package record

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeID is the logical type tag of a column or value.
type TypeID uint8

const (
	TypeInvalid TypeID = iota
	TypeBoolean
	TypeTinyInt
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeUTinyInt
	TypeUSmallInt
	TypeUInteger
	TypeUBigInt
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeVarchar
	TypeBlob
	TypeDate
	TypeTime
	TypeTimestamp
	TypeInterval
	TypeUUID
)

var typeNames = map[TypeID]string{
	TypeInvalid:   "INVALID",
	TypeBoolean:   "BOOLEAN",
	TypeTinyInt:   "TINYINT",
	TypeSmallInt:  "SMALLINT",
	TypeInteger:   "INTEGER",
	TypeBigInt:    "BIGINT",
	TypeUTinyInt:  "UTINYINT",
	TypeUSmallInt: "USMALLINT",
	TypeUInteger:  "UINTEGER",
	TypeUBigInt:   "UBIGINT",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
	TypeDecimal:   "DECIMAL",
	TypeVarchar:   "VARCHAR",
	TypeBlob:      "BLOB",
	TypeDate:      "DATE",
	TypeTime:      "TIME",
	TypeTimestamp: "TIMESTAMP",
	TypeInterval:  "INTERVAL",
	TypeUUID:      "UUID",
}

// aliases accepted by ParseType besides the canonical names.
var typeAliases = map[string]TypeID{
	"BOOL":     TypeBoolean,
	"INT1":     TypeTinyInt,
	"INT2":     TypeSmallInt,
	"INT4":     TypeInteger,
	"INT":      TypeInteger,
	"INT8":     TypeBigInt,
	"LONG":     TypeBigInt,
	"REAL":     TypeFloat,
	"FLOAT4":   TypeFloat,
	"FLOAT8":   TypeDouble,
	"NUMERIC":  TypeDecimal,
	"TEXT":     TypeVarchar,
	"STRING":   TypeVarchar,
	"BYTEA":    TypeBlob,
	"DATETIME": TypeTimestamp,
}

func (id TypeID) String() string {
	if s, ok := typeNames[id]; ok {
		return s
	}
	return fmt.Sprintf("TYPE(%d)", uint8(id))
}

// IsInteger reports whether id is one of the fixed-width integer tags.
func (id TypeID) IsInteger() bool {
	switch id {
	case TypeTinyInt, TypeSmallInt, TypeInteger, TypeBigInt,
		TypeUTinyInt, TypeUSmallInt, TypeUInteger, TypeUBigInt:
		return true
	}
	return false
}

// IsUnsigned reports whether id is an unsigned integer tag.
func (id TypeID) IsUnsigned() bool {
	switch id {
	case TypeUTinyInt, TypeUSmallInt, TypeUInteger, TypeUBigInt:
		return true
	}
	return false
}

// IsNumeric covers integers, floating point and decimal.
func (id TypeID) IsNumeric() bool {
	return id.IsInteger() || id == TypeFloat || id == TypeDouble || id == TypeDecimal
}

// LogicalType is a TypeID plus the modifiers some types carry (DECIMAL width/scale).
type LogicalType struct {
	ID    TypeID
	Width uint8
	Scale uint8
}

const (
	DefaultDecimalWidth = 18
	DefaultDecimalScale = 3
	MaxDecimalWidth     = 38
)

func NewType(id TypeID) LogicalType {
	if id == TypeDecimal {
		return Decimal(DefaultDecimalWidth, DefaultDecimalScale)
	}
	return LogicalType{ID: id}
}

func Decimal(width, scale uint8) LogicalType {
	return LogicalType{ID: TypeDecimal, Width: width, Scale: scale}
}

func (t LogicalType) String() string {
	if t.ID == TypeDecimal {
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Width, t.Scale)
	}
	return t.ID.String()
}

// ParseType parses names such as "BIGINT", "text" or "DECIMAL(10,2)".
func ParseType(s string) (LogicalType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return LogicalType{}, fmt.Errorf("record: empty type name")
	}

	if strings.HasPrefix(name, "DECIMAL") || strings.HasPrefix(name, "NUMERIC") {
		open := strings.IndexByte(name, '(')
		if open < 0 {
			return NewType(TypeDecimal), nil
		}
		if !strings.HasSuffix(name, ")") {
			return LogicalType{}, fmt.Errorf("record: malformed decimal type %q", s)
		}
		parts := strings.Split(name[open+1:len(name)-1], ",")
		if len(parts) != 2 {
			return LogicalType{}, fmt.Errorf("record: malformed decimal type %q", s)
		}
		w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return LogicalType{}, fmt.Errorf("record: decimal width: %w", err)
		}
		sc, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return LogicalType{}, fmt.Errorf("record: decimal scale: %w", err)
		}
		if w < 1 || w > MaxDecimalWidth || sc < 0 || sc > w {
			return LogicalType{}, fmt.Errorf("record: invalid decimal(%d,%d)", w, sc)
		}
		return Decimal(uint8(w), uint8(sc)), nil
	}

	for id, n := range typeNames {
		if n == name && id != TypeInvalid {
			return NewType(id), nil
		}
	}
	if id, ok := typeAliases[name]; ok {
		return NewType(id), nil
	}
	return LogicalType{}, fmt.Errorf("record: unknown type %q", s)
}

type Column struct {
	Name string
	Type LogicalType
}

type Schema struct {
	Cols []Column
}

func (s Schema) NumCols() int { return len(s.Cols) }

func (s Schema) Names() []string {
	out := make([]string, len(s.Cols))
	for i, c := range s.Cols {
		out[i] = c.Name
	}
	return out
}

func (s Schema) Types() []LogicalType {
	out := make([]LogicalType, len(s.Cols))
	for i, c := range s.Cols {
		out[i] = c.Type
	}
	return out
}
