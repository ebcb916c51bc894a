package collection

import (
	"fmt"

	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/value"
)

// Vector is one column of a DataChunk.
type Vector struct {
	typ  record.LogicalType
	data []value.Value
}

func (v *Vector) Type() record.LogicalType { return v.typ }
func (v *Vector) Len() int                 { return len(v.data) }

func (v *Vector) Value(i int) value.Value {
	if i < 0 || i >= len(v.data) {
		return value.Null(v.typ)
	}
	return v.data[i]
}

// DataChunk is a batch of up to Capacity rows stored column by column.
type DataChunk struct {
	vectors  []Vector
	size     int
	capacity int

	// shared is set when the vectors alias collection storage (zero-copy scan);
	// the first write copies them out.
	shared bool
}

// NewDataChunk allocates an empty chunk. capacity <= 0 uses DefaultChunkCapacity.
func NewDataChunk(types []record.LogicalType, capacity int) *DataChunk {
	c := &DataChunk{}
	c.Initialize(types, capacity)
	return c
}

func (c *DataChunk) Initialize(types []record.LogicalType, capacity int) {
	if capacity <= 0 {
		capacity = DefaultChunkCapacity
	}
	c.vectors = make([]Vector, len(types))
	for i, t := range types {
		c.vectors[i] = Vector{typ: t, data: make([]value.Value, 0, capacity)}
	}
	c.size = 0
	c.capacity = capacity
	c.shared = false
}

func (c *DataChunk) Size() int        { return c.size }
func (c *DataChunk) Capacity() int    { return c.capacity }
func (c *DataChunk) ColumnCount() int { return len(c.vectors) }
func (c *DataChunk) Full() bool       { return c.size >= c.capacity }

func (c *DataChunk) Types() []record.LogicalType {
	out := make([]record.LogicalType, len(c.vectors))
	for i := range c.vectors {
		out[i] = c.vectors[i].typ
	}
	return out
}

func (c *DataChunk) Column(i int) *Vector { return &c.vectors[i] }

// Value returns the cell at (col, row); out-of-range positions read as NULL.
func (c *DataChunk) Value(col, row int) value.Value {
	if col < 0 || col >= len(c.vectors) {
		return value.Value{}
	}
	return c.vectors[col].Value(row)
}

// Row returns a copy of one row's cells.
func (c *DataChunk) Row(row int) []value.Value {
	out := make([]value.Value, len(c.vectors))
	for i := range c.vectors {
		out[i] = c.vectors[i].Value(row)
	}
	return out
}

// AppendRow adds one row. Values must match the column types or be NULL.
func (c *DataChunk) AppendRow(vals ...value.Value) error {
	if len(vals) != len(c.vectors) {
		return fmt.Errorf("%w: got %d values for %d columns", ErrColumnCount, len(vals), len(c.vectors))
	}
	if c.Full() {
		return ErrChunkFull
	}
	for i, v := range vals {
		if err := checkType(c.vectors[i].typ, v, i); err != nil {
			return err
		}
	}
	c.unshare()
	for i, v := range vals {
		if v.IsNull() {
			v = value.Null(c.vectors[i].typ)
		}
		c.vectors[i].data = append(c.vectors[i].data, v)
	}
	c.size++
	return nil
}

// SetValue overwrites an existing cell.
func (c *DataChunk) SetValue(col, row int, v value.Value) error {
	if col < 0 || col >= len(c.vectors) || row < 0 || row >= c.size {
		return fmt.Errorf("%w: cell (%d, %d) of %dx%d chunk", ErrOutOfRange, col, row, len(c.vectors), c.size)
	}
	if err := checkType(c.vectors[col].typ, v, col); err != nil {
		return err
	}
	c.unshare()
	if v.IsNull() {
		v = value.Null(c.vectors[col].typ)
	}
	c.vectors[col].data[row] = v
	return nil
}

// Reset empties the chunk while keeping its types and capacity.
func (c *DataChunk) Reset() {
	for i := range c.vectors {
		if c.shared {
			c.vectors[i].data = make([]value.Value, 0, c.capacity)
		} else {
			c.vectors[i].data = c.vectors[i].data[:0]
		}
	}
	c.size = 0
	c.shared = false
}

func (c *DataChunk) unshare() {
	if !c.shared {
		return
	}
	for i := range c.vectors {
		cp := make([]value.Value, len(c.vectors[i].data), c.capacity)
		copy(cp, c.vectors[i].data)
		c.vectors[i].data = cp
	}
	c.shared = false
}

func checkType(want record.LogicalType, v value.Value, col int) error {
	if v.IsNull() || v.Type() == want {
		return nil
	}
	return fmt.Errorf("%w: column %d is %s, got %s", ErrTypeMismatch, col, want, v.Type())
}
