package collection

import (
	"fmt"

	"github.com/tuannm99/novaresult/internal/value"
)

// Row is one row of a RowCollection.
type Row struct {
	chunk  *DataChunk
	offset int
	index  int
}

// Index is the zero-based position of the row in the collection.
func (r Row) Index() int { return r.index }

func (r Row) Value(col int) value.Value { return r.chunk.Value(col, r.offset) }

func (r Row) Values() []value.Value { return r.chunk.Row(r.offset) }

// RowCollection is a read-only row view built by Collection.Rows. It aliases
// the collection's chunks; building it costs one pass over the data and one
// index entry per row.
type RowCollection struct {
	rows        []Row
	columnCount int
}

func (rc *RowCollection) Len() int         { return len(rc.rows) }
func (rc *RowCollection) ColumnCount() int { return rc.columnCount }
func (rc *RowCollection) Row(i int) Row    { return rc.rows[i] }

// All returns the rows in collection order.
func (rc *RowCollection) All() []Row { return rc.rows }

func (rc *RowCollection) GetValue(column, index int) (value.Value, error) {
	if index < 0 || index >= len(rc.rows) {
		return value.Value{}, fmt.Errorf("%w: row %d of %d", ErrOutOfRange, index, len(rc.rows))
	}
	if column < 0 || column >= rc.columnCount {
		return value.Value{}, fmt.Errorf("%w: column %d of %d", ErrOutOfRange, column, rc.columnCount)
	}
	return rc.rows[index].Value(column), nil
}
