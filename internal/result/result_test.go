package result

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novaresult/internal/collection"
	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/render"
	"github.com/tuannm99/novaresult/internal/value"
	"github.com/tuannm99/novaresult/internal/variant"
)

func bigintColl(t *testing.T, n, chunkCap int) *collection.Collection {
	t.Helper()
	c := collection.New([]record.LogicalType{record.NewType(record.TypeBigInt)}, collection.WithChunkCapacity(chunkCap))
	for i := 0; i < n; i++ {
		require.NoError(t, c.AppendRow(value.BigInt(int64(i))))
	}
	return c
}

func newSelect(t *testing.T, names []string, c *collection.Collection) *MaterializedResult {
	t.Helper()
	r, err := New(StatementSelect, StatementProperties{ReadOnly: true}, names, c, ClientProperties{TimeZone: "UTC"})
	require.NoError(t, err)
	return r
}

func mixedResult(t *testing.T) *MaterializedResult {
	t.Helper()
	c := collection.New([]record.LogicalType{
		record.NewType(record.TypeInteger),
		record.NewType(record.TypeVarchar),
		record.Decimal(10, 2),
	})
	require.NoError(t, c.AppendRow(value.Integer(1), value.Varchar("a"), value.Decimal(decimal.RequireFromString("1.25"), 10, 2)))
	require.NoError(t, c.AppendRow(value.Integer(2), value.Null(record.NewType(record.TypeVarchar)), value.Decimal(decimal.RequireFromString("-3.50"), 10, 2)))
	return newSelect(t, []string{"id", "name", "price"}, c)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(StatementSelect, StatementProperties{}, nil, nil, ClientProperties{})
	require.ErrorIs(t, err, ErrInternal)

	_, err = New(StatementSelect, StatementProperties{}, []string{"a", "b"}, bigintColl(t, 1, 0), ClientProperties{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAccessors(t *testing.T) {
	r := mixedResult(t)
	require.True(t, r.Success())
	require.False(t, r.HasError())
	require.NoError(t, r.Err())
	require.Equal(t, "", r.ErrorMessage())
	require.Equal(t, StatementSelect, r.StatementType())
	require.True(t, r.Properties().ReadOnly)
	require.Equal(t, "UTC", r.ClientProperties().TimeZone)
	require.Equal(t, 3, r.ColumnCount())
	require.Equal(t, []string{"id", "name", "price"}, r.Names())
	require.Equal(t, record.Decimal(10, 2), r.Types()[2])
	require.Equal(t, 2, r.RowCount())

	names := r.Names()
	names[0] = "changed"
	require.Equal(t, "id", r.Names()[0])
}

func TestErrorResult(t *testing.T) {
	r := NewError(errors.New("division by zero"))

	require.False(t, r.Success())
	require.True(t, r.HasError())
	require.Equal(t, "division by zero", r.ErrorMessage())
	require.Equal(t, 0, r.RowCount())
	require.Equal(t, "division by zero\n", r.String())
	require.Equal(t, "division by zero\n", r.ToBox(render.DefaultConfig()))

	m, err := r.ExtractAll()
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Equal(t, 0, m.Len())

	_, err = r.Fetch()
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "attempting to fetch from an unsuccessful query result")
	require.Contains(t, err.Error(), "division by zero")

	_, err = r.GetValue(0, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = r.Collection()
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = r.TakeCollection()
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewError_Nil(t *testing.T) {
	r := NewError(nil)
	require.True(t, r.HasError())
	require.Equal(t, "unknown error", r.ErrorMessage())
}

func TestFetch_StreamsEveryRowOnce(t *testing.T) {
	c := bigintColl(t, 10, 4)
	r := newSelect(t, []string{"i"}, c)
	require.Equal(t, ScanNotStarted, r.ScanStatus())

	var sizes []int
	var got []int64
	for {
		chunk, err := r.Fetch()
		require.NoError(t, err)
		if chunk == nil {
			break
		}
		require.Equal(t, ScanInProgress, r.ScanStatus())
		sizes = append(sizes, chunk.Size())
		for i := 0; i < chunk.Size(); i++ {
			n, err := chunk.Value(0, i).GetInt64()
			require.NoError(t, err)
			got = append(got, n)
		}
	}
	require.Equal(t, []int{4, 4, 2}, sizes)
	require.Len(t, got, 10)
	for i, n := range got {
		require.Equal(t, int64(i), n)
	}
	require.Equal(t, ScanDone, r.ScanStatus())

	for i := 0; i < 3; i++ {
		chunk, err := r.Fetch()
		require.NoError(t, err)
		require.Nil(t, chunk)
	}

	// Row access is independent of the cursor.
	v, err := r.GetValue(0, 7)
	require.NoError(t, err)
	require.Equal(t, "7", v.String())
}

func TestFetch_Empty(t *testing.T) {
	r := newSelect(t, []string{"i"}, bigintColl(t, 0, 0))
	chunk, err := r.Fetch()
	require.NoError(t, err)
	require.Nil(t, chunk)
	require.Equal(t, ScanDone, r.ScanStatus())
}

func TestFetch_ChunksOutliveClose(t *testing.T) {
	r := newSelect(t, []string{"i"}, bigintColl(t, 3, 0))
	chunk, err := r.FetchRaw()
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.Equal(t, 3, chunk.Size())
	require.Equal(t, "2", chunk.Value(0, 2).String())
}

func TestFetch_AfterTake(t *testing.T) {
	r := newSelect(t, []string{"i"}, bigintColl(t, 2, 0))
	_, err := r.TakeCollection()
	require.NoError(t, err)
	_, err = r.Fetch()
	require.ErrorIs(t, err, ErrInternal)
}

func TestGetValue(t *testing.T) {
	r := mixedResult(t)

	v, err := r.GetValue(0, 1)
	require.NoError(t, err)
	require.Equal(t, record.TypeInteger, v.Type().ID)
	require.Equal(t, "2", v.String())

	v, err = r.GetValue(1, 1)
	require.NoError(t, err)
	require.True(t, v.IsNull())

	_, err = r.GetValue(3, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, collection.ErrOutOfRange)
	_, err = r.GetValue(0, 2)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetValue_MatchesScan(t *testing.T) {
	c := bigintColl(t, 9, 4)
	r := newSelect(t, []string{"i"}, c)

	var state collection.ScanState
	c.InitializeScan(&state, collection.AllowZeroCopy)
	chunk := &collection.DataChunk{}
	c.InitializeScanChunk(chunk)
	idx := 0
	for c.Scan(&state, chunk) {
		for i := 0; i < chunk.Size(); i++ {
			v, err := r.GetValue(0, idx)
			require.NoError(t, err)
			require.True(t, v.Equal(chunk.Value(0, i)), "row %d", idx)
			idx++
		}
	}
	require.Equal(t, 9, idx)
}

func TestGetValueAs(t *testing.T) {
	r := mixedResult(t)

	n, err := GetValueAs[int32](r, 0, 1)
	require.NoError(t, err)
	require.Equal(t, int32(2), n)

	u, err := GetValueAs[uint8](r, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(1), u)

	_, err = GetValueAs[int](r, 1, 1)
	require.Error(t, err)

	// UBIGINT above MaxInt64 fails instead of wrapping.
	c := collection.New([]record.LogicalType{record.NewType(record.TypeUBigInt)})
	require.NoError(t, c.AppendRow(value.UBigInt(math.MaxUint64)))
	_, err = GetValueAs[uint64](newSelect(t, []string{"u"}, c), 0, 0)
	require.ErrorIs(t, err, value.ErrCast)

	// Narrow targets truncate.
	c = collection.New([]record.LogicalType{record.NewType(record.TypeBigInt)})
	require.NoError(t, c.AppendRow(value.BigInt(300)))
	b, err := GetValueAs[uint8](newSelect(t, []string{"b"}, c), 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(44), b)
}

func TestTakeCollection(t *testing.T) {
	r := newSelect(t, []string{"i"}, bigintColl(t, 5, 0))
	_, err := r.GetValue(0, 0)
	require.NoError(t, err)

	c, err := r.TakeCollection()
	require.NoError(t, err)
	require.Equal(t, 5, c.Count())
	require.True(t, r.Taken())
	require.Equal(t, 0, r.RowCount())

	_, err = r.TakeCollection()
	require.ErrorIs(t, err, ErrInternal)
	_, err = r.GetValue(0, 0)
	require.ErrorIs(t, err, ErrInternal)
	_, err = r.ExtractAll()
	require.ErrorIs(t, err, ErrInternal)
	require.Equal(t, "Internal error - result was successful but there was no collection", r.ToBox(render.DefaultConfig()))

	// Closing the result leaves the taken collection alone.
	require.NoError(t, r.Close())
	require.Equal(t, 5, c.Count())
}

func TestExtractAll(t *testing.T) {
	m, err := mixedResult(t).ExtractAll()
	require.NoError(t, err)
	require.Equal(t, variant.Matrix{
		{variant.Int(1), variant.String("a"), variant.Double(1.25)},
		{variant.Int(2), variant.Absent(), variant.Double(-3.5)},
	}, m)
}

func TestExtractAll_Kinds(t *testing.T) {
	types := []record.LogicalType{
		record.NewType(record.TypeBoolean),
		record.NewType(record.TypeTinyInt),
		record.NewType(record.TypeSmallInt),
		record.NewType(record.TypeUTinyInt),
		record.NewType(record.TypeUSmallInt),
		record.NewType(record.TypeUInteger),
		record.NewType(record.TypeBigInt),
		record.NewType(record.TypeUBigInt),
		record.NewType(record.TypeFloat),
		record.NewType(record.TypeBlob),
	}
	c := collection.New(types)
	require.NoError(t, c.AppendRow(
		value.Boolean(true),
		value.TinyInt(-3),
		value.SmallInt(300),
		value.UTinyInt(200),
		value.USmallInt(60000),
		value.UInteger(4000000000),
		value.BigInt(-1<<40),
		value.UBigInt(1<<63),
		value.Float(0.5),
		value.Blob([]byte{'a', 0}),
	))
	names := make([]string, len(types))
	for i := range names {
		names[i] = fmt.Sprintf("c%d", i)
	}

	m, err := newSelect(t, names, c).ExtractAll()
	require.NoError(t, err)
	require.Len(t, m, 1)
	require.Equal(t, variant.Row{
		variant.Bool(true),
		variant.Int(-3),
		variant.Int(300),
		variant.Int(200),
		variant.Int(60000),
		variant.UInt(4000000000),
		variant.BigInt(-1 << 40),
		variant.UBigInt(1 << 63),
		variant.Double(0.5),
		variant.String(`a\x00`),
	}, m[0])
}

func TestExtractRows(t *testing.T) {
	r := newSelect(t, []string{"i"}, bigintColl(t, 10, 3))

	m, err := r.ExtractRows(4, 3)
	require.NoError(t, err)
	require.Equal(t, variant.Matrix{{variant.BigInt(4)}, {variant.BigInt(5)}, {variant.BigInt(6)}}, m)

	m, err = r.ExtractRows(8, -1)
	require.NoError(t, err)
	require.Len(t, m, 2)

	m, err = r.ExtractRows(20, 5)
	require.NoError(t, err)
	require.Empty(t, m)

	// A huge limit must not overflow offset+limit.
	m, err = r.ExtractRows(1, math.MaxInt)
	require.NoError(t, err)
	require.Len(t, m, 9)
	require.Equal(t, variant.BigInt(9), m[8][0])

	_, err = r.ExtractRows(-1, 1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExtractAll_DoesNotMoveCursor(t *testing.T) {
	r := newSelect(t, []string{"i"}, bigintColl(t, 3, 0))
	_, err := r.ExtractAll()
	require.NoError(t, err)
	require.Equal(t, ScanNotStarted, r.ScanStatus())
	chunk, err := r.Fetch()
	require.NoError(t, err)
	require.Equal(t, 3, chunk.Size())
}

func TestNarrowChunk(t *testing.T) {
	chunk := collection.NewDataChunk([]record.LogicalType{record.NewType(record.TypeDouble)}, 4)
	require.NoError(t, chunk.AppendRow(value.Double(1.5)))
	require.NoError(t, chunk.AppendRow(value.Null(record.NewType(record.TypeDouble))))

	m, err := NarrowChunk(chunk)
	require.NoError(t, err)
	require.Equal(t, variant.Matrix{{variant.Double(1.5)}, {variant.Absent()}}, m)
}

func TestString(t *testing.T) {
	want := "id\tname\tprice\t\n" +
		"INTEGER\tVARCHAR\tDECIMAL(10,2)\t\n" +
		"[ Rows: 2]\n" +
		"1\ta\t1.25\n" +
		"2\tNULL\t-3.50\n" +
		"\n"
	require.Equal(t, want, mixedResult(t).String())
}

func TestString_EscapesNUL(t *testing.T) {
	c := collection.New([]record.LogicalType{record.NewType(record.TypeVarchar)})
	require.NoError(t, c.AppendRow(value.Varchar("a\x00b")))
	r := newSelect(t, []string{"s"}, c)
	require.Contains(t, r.String(), "a\\0b\n")
}

func TestToBox(t *testing.T) {
	out := newSelect(t, []string{"i"}, bigintColl(t, 2, 0)).ToBox(render.DefaultConfig())
	require.Contains(t, out, "bigint")
	require.Contains(t, out, "2 rows")
}

func TestStatementType_String(t *testing.T) {
	require.Equal(t, "SELECT", StatementSelect.String())
	require.Equal(t, "done", ScanDone.String())
}
