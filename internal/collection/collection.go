// Package collection holds a fully buffered query result in memory as a list
// of fixed-capacity column chunks, with a chunked scan cursor and an on-demand
// row view for random access.
package collection

import (
	"errors"
	"fmt"

	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/value"
)

// DefaultChunkCapacity is the number of rows per chunk unless configured otherwise.
const DefaultChunkCapacity = 2048

var (
	ErrTypeMismatch = errors.New("collection: value type does not match column type")
	ErrColumnCount  = errors.New("collection: column count mismatch")
	ErrChunkFull    = errors.New("collection: chunk is full")
	ErrOutOfRange   = errors.New("collection: index out of range")
)

// ScanProperties controls whether scanned chunks may alias collection memory.
type ScanProperties uint8

const (
	// AllowZeroCopy lets scanned chunks reference collection storage; they are
	// only valid as long as the collection is alive and unmodified.
	AllowZeroCopy ScanProperties = iota
	// DisallowZeroCopy makes every scanned chunk own a deep copy of its data.
	DisallowZeroCopy
)

func (p ScanProperties) String() string {
	switch p {
	case AllowZeroCopy:
		return "allow_zero_copy"
	case DisallowZeroCopy:
		return "disallow_zero_copy"
	}
	return fmt.Sprintf("ScanProperties(%d)", uint8(p))
}

// ScanState is the cursor of one sequential pass over a Collection.
type ScanState struct {
	chunkIndex  int
	props       ScanProperties
	initialized bool
}

func (s *ScanState) Initialized() bool          { return s.initialized }
func (s *ScanState) Properties() ScanProperties { return s.props }

type Option func(*Collection)

// WithChunkCapacity sets rows per chunk; values <= 0 are ignored.
func WithChunkCapacity(n int) Option {
	return func(c *Collection) {
		if n > 0 {
			c.chunkCapacity = n
		}
	}
}

// Collection is an append-only, in-memory columnar row store.
type Collection struct {
	types         []record.LogicalType
	chunks        []*DataChunk
	count         int
	chunkCapacity int
}

func New(types []record.LogicalType, opts ...Option) *Collection {
	ts := make([]record.LogicalType, len(types))
	copy(ts, types)
	c := &Collection{
		types:         ts,
		chunkCapacity: DefaultChunkCapacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collection) Types() []record.LogicalType {
	out := make([]record.LogicalType, len(c.types))
	copy(out, c.types)
	return out
}

func (c *Collection) ColumnCount() int   { return len(c.types) }
func (c *Collection) Count() int         { return c.count }
func (c *Collection) ChunkCount() int    { return len(c.chunks) }
func (c *Collection) ChunkCapacity() int { return c.chunkCapacity }

// AppendRow appends a single row, opening a new chunk when the last one is full.
func (c *Collection) AppendRow(vals ...value.Value) error {
	if len(vals) != len(c.types) {
		return fmt.Errorf("%w: got %d values for %d columns", ErrColumnCount, len(vals), len(c.types))
	}
	last := c.lastChunk()
	if last == nil || last.Full() {
		last = NewDataChunk(c.types, c.chunkCapacity)
		c.chunks = append(c.chunks, last)
	}
	if err := last.AppendRow(vals...); err != nil {
		if last.Size() == 0 {
			c.chunks = c.chunks[:len(c.chunks)-1]
		}
		return err
	}
	c.count++
	return nil
}

// Append copies every row of chunk into the collection.
func (c *Collection) Append(chunk *DataChunk) error {
	if chunk.ColumnCount() != len(c.types) {
		return fmt.Errorf("%w: chunk has %d columns, collection %d", ErrColumnCount, chunk.ColumnCount(), len(c.types))
	}
	for i, t := range chunk.Types() {
		if t != c.types[i] {
			return fmt.Errorf("%w: column %d is %s, chunk has %s", ErrTypeMismatch, i, c.types[i], t)
		}
	}
	for r := 0; r < chunk.Size(); r++ {
		vals := chunk.Row(r)
		for i := range vals {
			vals[i] = vals[i].Copy()
		}
		if err := c.AppendRow(vals...); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) lastChunk() *DataChunk {
	if len(c.chunks) == 0 {
		return nil
	}
	return c.chunks[len(c.chunks)-1]
}

// InitializeScanChunk prepares chunk to receive Scan output.
func (c *Collection) InitializeScanChunk(chunk *DataChunk) {
	chunk.Initialize(c.types, c.chunkCapacity)
}

// InitializeScan positions state before the first chunk.
func (c *Collection) InitializeScan(state *ScanState, props ScanProperties) {
	*state = ScanState{props: props, initialized: true}
}

// Scan fills chunk with the next batch. It returns false, leaving chunk empty,
// once every row has been produced.
func (c *Collection) Scan(state *ScanState, chunk *DataChunk) bool {
	if !state.initialized {
		c.InitializeScan(state, AllowZeroCopy)
	}
	if len(chunk.vectors) != len(c.types) {
		c.InitializeScanChunk(chunk)
	}
	chunk.Reset()

	for state.chunkIndex < len(c.chunks) && c.chunks[state.chunkIndex].Size() == 0 {
		state.chunkIndex++
	}
	if state.chunkIndex >= len(c.chunks) {
		return false
	}

	src := c.chunks[state.chunkIndex]
	state.chunkIndex++

	switch state.props {
	case DisallowZeroCopy:
		for i := range src.vectors {
			dst := chunk.vectors[i].data[:0]
			for _, v := range src.vectors[i].data {
				dst = append(dst, v.Copy())
			}
			chunk.vectors[i].data = dst
		}
	default:
		for i := range src.vectors {
			chunk.vectors[i].data = src.vectors[i].data[:src.size:src.size]
		}
		chunk.shared = true
	}
	chunk.size = src.size
	return true
}

// Rows builds a random-access view over every row currently in the collection.
func (c *Collection) Rows() *RowCollection {
	rc := &RowCollection{
		rows:        make([]Row, 0, c.count),
		columnCount: len(c.types),
	}
	for _, chunk := range c.chunks {
		for r := 0; r < chunk.Size(); r++ {
			rc.rows = append(rc.rows, Row{chunk: chunk, offset: r, index: len(rc.rows)})
		}
	}
	return rc
}

// Reset drops all rows; the types and chunk capacity are kept.
func (c *Collection) Reset() {
	c.chunks = nil
	c.count = 0
}
