package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/result"
	"github.com/tuannm99/novaresult/internal/variant"
)

func TestReadCSV_Declared(t *testing.T) {
	src := "id:INTEGER,name:VARCHAR,price:DECIMAL(10,2)\n" +
		"1,alice,1.5\n" +
		"2,,NULL\n"
	tbl, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name", "price"}, tbl.Names)
	require.Equal(t, []record.LogicalType{
		record.NewType(record.TypeInteger),
		record.NewType(record.TypeVarchar),
		record.Decimal(10, 2),
	}, tbl.Collection.Types())
	require.Equal(t, 2, tbl.Collection.Count())

	rows := tbl.Collection.Rows()
	require.Equal(t, "1.50", rows.Row(0).Value(2).String())
	require.True(t, rows.Row(1).Value(1).IsNull())
	require.True(t, rows.Row(1).Value(2).IsNull())
}

func TestReadCSV_Inferred(t *testing.T) {
	src := "a,b,c,d,e\n" +
		"1,2.5,true,x,\n" +
		"-4,3,false,7,\n"
	tbl, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, []record.LogicalType{
		record.NewType(record.TypeBigInt),
		record.NewType(record.TypeDouble),
		record.NewType(record.TypeBoolean),
		record.NewType(record.TypeVarchar),
		record.NewType(record.TypeVarchar),
	}, tbl.Collection.Types())
}

func TestReadCSV_Delimiter(t *testing.T) {
	tbl, err := Read(strings.NewReader("a;b\n1;2\n"), WithDelimiter(';'), WithChunkCapacity(1))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, tbl.Names)
	require.Equal(t, 1, tbl.Collection.ChunkCapacity())
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.ErrorIs(t, err, ErrBadHeader)

	_, err = Read(strings.NewReader("a:NOPE\n1\n"))
	require.ErrorIs(t, err, ErrBadHeader)

	_, err = Read(strings.NewReader("a:TINYINT\n300\n"))
	require.ErrorIs(t, err, ErrBadCell)

	_, err = Read(strings.NewReader("a:BIGINT\nabc\n"))
	require.ErrorIs(t, err, ErrBadCell)
}

func TestParseCell(t *testing.T) {
	cases := []struct {
		text string
		typ  record.LogicalType
		want string
	}{
		{"true", record.NewType(record.TypeBoolean), "true"},
		{"-12", record.NewType(record.TypeSmallInt), "-12"},
		{"200", record.NewType(record.TypeUTinyInt), "200"},
		{"010", record.NewType(record.TypeBigInt), "10"},
		{"010", record.NewType(record.TypeUInteger), "10"},
		{"0.25", record.NewType(record.TypeDouble), "0.25"},
		{"2024-03-05", record.NewType(record.TypeDate), "2024-03-05"},
		{"12:30:05", record.NewType(record.TypeTime), "12:30:05"},
		{"  keep  ", record.NewType(record.TypeVarchar), "  keep  "},
	}
	for _, tc := range cases {
		t.Run(tc.typ.String()+"/"+tc.text, func(t *testing.T) {
			v, err := ParseCell(tc.text, tc.typ)
			require.NoError(t, err)
			require.Equal(t, tc.typ, v.Type())
			require.Equal(t, tc.want, v.String())
		})
	}

	_, err := ParseCell("-1", record.NewType(record.TypeUInteger))
	require.ErrorIs(t, err, ErrBadCell)
	_, err = ParseCell("1 day", record.NewType(record.TypeInterval))
	require.ErrorIs(t, err, ErrBadCell)
	_, err = ParseCell("0x10", record.NewType(record.TypeBigInt))
	require.ErrorIs(t, err, ErrBadCell)
	_, err = ParseCell("0x10", record.NewType(record.TypeUBigInt))
	require.ErrorIs(t, err, ErrBadCell)
}

func TestReadCSV_InferDecimalIntegers(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b\n010,0x1F\n7,0x10\n"))
	require.NoError(t, err)
	require.Equal(t, []record.LogicalType{
		record.NewType(record.TypeBigInt),
		record.NewType(record.TypeVarchar),
	}, tbl.Collection.Types())

	rows := tbl.Collection.Rows()
	require.Equal(t, "10", rows.Row(0).Value(0).String())
	require.Equal(t, "0x1F", rows.Row(0).Value(1).String())
}

func TestReadJSONL(t *testing.T) {
	src := `{"id": 1, "name": "a", "score": 1}
{"id": 2, "score": 2.5, "tags": ["x"]}

{"id": 3, "name": null, "ok": true}
`
	tbl, err := Read(strings.NewReader(src), WithFormat(FormatJSONL))
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name", "score", "tags", "ok"}, tbl.Names)
	require.Equal(t, []record.LogicalType{
		record.NewType(record.TypeBigInt),
		record.NewType(record.TypeVarchar),
		record.NewType(record.TypeDouble),
		record.NewType(record.TypeVarchar),
		record.NewType(record.TypeBoolean),
	}, tbl.Collection.Types())
	require.Equal(t, 3, tbl.Collection.Count())

	rows := tbl.Collection.Rows()
	require.Equal(t, `["x"]`, rows.Row(1).Value(3).String())
	require.True(t, rows.Row(1).Value(1).IsNull())
	require.True(t, rows.Row(0).Value(4).IsNull())
	require.Equal(t, "1.0", rows.Row(0).Value(2).String())
}

func TestReadJSONL_Errors(t *testing.T) {
	_, err := Read(strings.NewReader("[1,2]\n"), WithFormat(FormatJSONL))
	require.ErrorIs(t, err, ErrBadCell)

	_, err = Read(strings.NewReader("\n\n"), WithFormat(FormatJSONL))
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "users.csv")
	require.NoError(t, os.WriteFile(p, []byte("id:BIGINT,name\n1,alice\n2,bob\n"), 0o644))

	res := Open(p)
	require.True(t, res.Success(), res.ErrorMessage())
	require.Equal(t, result.StatementSelect, res.StatementType())
	require.True(t, res.Properties().ReadOnly)
	require.Equal(t, 2, res.RowCount())

	m, err := res.ExtractAll()
	require.NoError(t, err)
	require.Equal(t, variant.Matrix{
		{variant.BigInt(1), variant.String("alice")},
		{variant.BigInt(2), variant.String("bob")},
	}, m)

	jp := filepath.Join(dir, "events.jsonl")
	require.NoError(t, os.WriteFile(jp, []byte(`{"n": 5}`+"\n"), 0o644))
	res = Open(jp)
	require.True(t, res.Success(), res.ErrorMessage())
	require.Equal(t, []string{"n"}, res.Names())
}

func TestOpen_Failures(t *testing.T) {
	res := Open(filepath.Join(t.TempDir(), "missing.csv"))
	require.True(t, res.HasError())
	require.Contains(t, res.ErrorMessage(), "missing.csv")

	p := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(p, []byte("a:BIGINT\nxyz\n"), 0o644))
	res = Open(p)
	require.True(t, res.HasError())
	m, err := res.ExtractAll()
	require.NoError(t, err)
	require.Empty(t, m)
}
