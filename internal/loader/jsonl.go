package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"

	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/value"
)

const maxLineSize = 8 << 20

type jsonField struct {
	key string
	val any
}

// readJSONL reads one JSON object per line. Columns are ordered by first
// appearance; a key missing from a line is NULL.
func (l *loader) readJSONL(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	var (
		names   []string
		index   = map[string]int{}
		objects []map[string]any
	)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields, err := decodeObject(text)
		if err != nil {
			return nil, fmt.Errorf("loader: jsonl line %d: %w", line, err)
		}
		obj := make(map[string]any, len(fields))
		for _, f := range fields {
			if _, ok := index[f.key]; !ok {
				index[f.key] = len(names)
				names = append(names, f.key)
			}
			obj[f.key] = f.val
		}
		objects = append(objects, obj)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("loader: jsonl: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no keys found", ErrBadHeader)
	}

	types := make([]record.LogicalType, len(names))
	for i, name := range names {
		id := record.TypeInvalid
		for _, obj := range objects {
			id = unifyJSON(id, jsonType(obj[name]))
		}
		if id == record.TypeInvalid {
			id = record.TypeVarchar
		}
		types[i] = record.NewType(id)
	}

	rows := make([][]value.Value, 0, len(objects))
	for n, obj := range objects {
		row := make([]value.Value, len(names))
		for i, name := range names {
			v, err := jsonValue(obj[name], types[i])
			if err != nil {
				return nil, fmt.Errorf("loader: object %d key %q: %w", n+1, name, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return l.build(names, types, rows)
}

func decodeObject(text string) ([]jsonField, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected object", ErrBadCell)
	}
	var fields []jsonField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected key", ErrBadCell)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		fields = append(fields, jsonField{key: key, val: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

func jsonType(v any) record.TypeID {
	switch x := v.(type) {
	case nil:
		return record.TypeInvalid
	case bool:
		return record.TypeBoolean
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return record.TypeBigInt
		}
		return record.TypeDouble
	}
	return record.TypeVarchar
}

func unifyJSON(a, b record.TypeID) record.TypeID {
	switch {
	case a == record.TypeInvalid:
		return b
	case b == record.TypeInvalid || a == b:
		return a
	case (a == record.TypeBigInt && b == record.TypeDouble) || (a == record.TypeDouble && b == record.TypeBigInt):
		return record.TypeDouble
	}
	return record.TypeVarchar
}

func jsonValue(v any, t record.LogicalType) (value.Value, error) {
	if v == nil {
		return value.Null(t), nil
	}
	switch t.ID {
	case record.TypeBoolean:
		return value.Boolean(v.(bool)), nil
	case record.TypeBigInt:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: %v", ErrBadCell, err)
		}
		return value.BigInt(n), nil
	case record.TypeDouble:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: %v", ErrBadCell, err)
		}
		return value.Double(f), nil
	}
	switch x := v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: %v", ErrBadCell, err)
		}
		return value.Varchar(string(b)), nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %v", ErrBadCell, err)
	}
	return value.Varchar(s), nil
}
