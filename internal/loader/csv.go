package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/value"
)

// readCSV expects a header row. A header cell "name:TYPE" declares the column
// type; columns without one are inferred from their cells.
func (l *loader) readCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.delimiter

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", ErrBadHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("loader: csv header: %w", err)
	}

	names := make([]string, len(header))
	declared := make([]*record.LogicalType, len(header))
	for i, h := range header {
		name, typ, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrBadHeader, i)
		}
		names[i] = name
		if ok {
			t, err := record.ParseType(typ)
			if err != nil {
				return nil, fmt.Errorf("%w: column %q: %w", ErrBadHeader, name, err)
			}
			declared[i] = &t
		}
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: csv: %w", err)
		}
		records = append(records, rec)
	}

	types := make([]record.LogicalType, len(names))
	for i := range names {
		if declared[i] != nil {
			types[i] = *declared[i]
			continue
		}
		cells := make([]string, 0, len(records))
		for _, rec := range records {
			if !l.isNull(rec[i]) {
				cells = append(cells, rec[i])
			}
		}
		types[i] = inferType(cells)
	}

	rows := make([][]value.Value, 0, len(records))
	for n, rec := range records {
		row := make([]value.Value, len(names))
		for i, cell := range rec {
			if l.isNull(cell) {
				row[i] = value.Null(types[i])
				continue
			}
			v, err := ParseCell(cell, types[i])
			if err != nil {
				return nil, fmt.Errorf("loader: line %d column %q: %w", n+2, names[i], err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return l.build(names, types, rows)
}

func (l *loader) isNull(cell string) bool {
	s := strings.TrimSpace(cell)
	return s == "" || (l.nullValue != "" && s == l.nullValue)
}
