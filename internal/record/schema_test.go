package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want LogicalType
	}{
		{"BIGINT", LogicalType{ID: TypeBigInt}},
		{"bigint", LogicalType{ID: TypeBigInt}},
		{" text ", LogicalType{ID: TypeVarchar}},
		{"BOOL", LogicalType{ID: TypeBoolean}},
		{"UINTEGER", LogicalType{ID: TypeUInteger}},
		{"decimal", Decimal(DefaultDecimalWidth, DefaultDecimalScale)},
		{"DECIMAL(10,2)", Decimal(10, 2)},
		{"numeric( 4 , 0 )", Decimal(4, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseType(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseType_Errors(t *testing.T) {
	for _, in := range []string{"", "WHATEVER", "DECIMAL(10", "DECIMAL(2,5)", "DECIMAL(x,1)", "INVALID"} {
		_, err := ParseType(in)
		require.Error(t, err, in)
	}
}

func TestLogicalType_String(t *testing.T) {
	require.Equal(t, "INTEGER", NewType(TypeInteger).String())
	require.Equal(t, "DECIMAL(10,2)", Decimal(10, 2).String())
	require.Equal(t, "TYPE(200)", TypeID(200).String())
}

func TestTypeID_Classes(t *testing.T) {
	require.True(t, TypeUTinyInt.IsInteger())
	require.True(t, TypeUTinyInt.IsUnsigned())
	require.False(t, TypeBigInt.IsUnsigned())
	require.True(t, TypeDecimal.IsNumeric())
	require.False(t, TypeVarchar.IsNumeric())
	require.False(t, TypeBoolean.IsInteger())
}

func TestSchema_NamesTypes(t *testing.T) {
	s := Schema{Cols: []Column{
		{Name: "id", Type: NewType(TypeBigInt)},
		{Name: "name", Type: NewType(TypeVarchar)},
	}}
	require.Equal(t, 2, s.NumCols())
	require.Equal(t, []string{"id", "name"}, s.Names())
	require.Equal(t, []LogicalType{{ID: TypeBigInt}, {ID: TypeVarchar}}, s.Types())
}
