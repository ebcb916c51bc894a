// Package loader builds materialized results from CSV and JSON-lines files,
// standing in for a query engine.
package loader

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuannm99/novaresult/internal/collection"
	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/result"
	"github.com/tuannm99/novaresult/internal/value"
)

type Format uint8

const (
	FormatAuto Format = iota
	FormatCSV
	FormatJSONL
)

type loader struct {
	format        Format
	delimiter     rune
	nullValue     string
	chunkCapacity int
}

type Option func(*loader)

func WithFormat(f Format) Option {
	return func(l *loader) { l.format = f }
}

func WithDelimiter(d rune) Option {
	return func(l *loader) { l.delimiter = d }
}

// WithNullValue sets the CSV cell text read as NULL. Empty cells are always NULL.
func WithNullValue(s string) Option {
	return func(l *loader) { l.nullValue = s }
}

func WithChunkCapacity(n int) Option {
	return func(l *loader) { l.chunkCapacity = n }
}

func newLoader(opts []Option) *loader {
	l := &loader{
		delimiter:     ',',
		nullValue:     "NULL",
		chunkCapacity: collection.DefaultChunkCapacity,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Table is a loaded source before it is wrapped in a result.
type Table struct {
	Names      []string
	Collection *collection.Collection
}

// Read parses r in the configured format. FormatAuto reads CSV.
func Read(r io.Reader, opts ...Option) (*Table, error) {
	l := newLoader(opts)
	if l.format == FormatJSONL {
		return l.readJSONL(r)
	}
	return l.readCSV(r)
}

// Open loads path and wraps it as a SELECT result. It never returns nil: read
// and parse failures come back as an unsuccessful result.
func Open(path string, opts ...Option) *result.MaterializedResult {
	l := newLoader(opts)
	if l.format == FormatAuto {
		l.format = formatFromPath(path)
	}
	opts = append(opts, WithFormat(l.format))

	f, err := os.Open(path)
	if err != nil {
		return result.NewError(fmt.Errorf("open %s: %w", path, err))
	}
	defer func() { _ = f.Close() }()

	t, err := Read(f, opts...)
	if err != nil {
		slog.Warn("loader: read failed", "path", path, "err", err)
		return result.NewError(err)
	}
	res, err := result.New(
		result.StatementSelect,
		result.StatementProperties{ReadOnly: true, ReturnType: result.ReturnQueryResult},
		t.Names,
		t.Collection,
		result.ClientProperties{TimeZone: "UTC"},
	)
	if err != nil {
		return result.NewError(err)
	}
	slog.Debug("loader: opened", "path", path, "rows", res.RowCount(), "cols", res.ColumnCount())
	return res
}

func formatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson", ".json":
		return FormatJSONL
	}
	return FormatCSV
}

func (l *loader) build(names []string, types []record.LogicalType, rows [][]value.Value) (*Table, error) {
	coll := collection.New(types, collection.WithChunkCapacity(l.chunkCapacity))
	for i, row := range rows {
		if err := coll.AppendRow(row...); err != nil {
			return nil, fmt.Errorf("loader: row %d: %w", i+1, err)
		}
	}
	return &Table{Names: names, Collection: coll}, nil
}
