package result

import (
	"fmt"

	"github.com/tuannm99/novaresult/internal/collection"
	"github.com/tuannm99/novaresult/internal/record"
	"github.com/tuannm99/novaresult/internal/value"
	"github.com/tuannm99/novaresult/internal/variant"
)

// ExtractAll exports every row as tagged variants. An unsuccessful result
// yields an empty matrix and no error. DECIMAL is converted to a best-effort
// double.
func (r *MaterializedResult) ExtractAll() (variant.Matrix, error) {
	if r.HasError() {
		return variant.NewMatrix(0), nil
	}
	return r.ExtractRows(0, -1)
}

// ExtractRows exports up to limit rows starting at offset; limit < 0 means
// all remaining rows.
func (r *MaterializedResult) ExtractRows(offset, limit int) (variant.Matrix, error) {
	if r.HasError() {
		return variant.NewMatrix(0), nil
	}
	coll, err := r.Collection()
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: negative offset %d", ErrInvalidInput, offset)
	}

	rows := coll.Rows()
	end := rows.Len()
	if offset > end {
		offset = end
	}
	if limit >= 0 && limit < end-offset {
		end = offset + limit
	}

	ncols := coll.ColumnCount()
	out := variant.NewMatrix(end - offset)
	for _, row := range rows.All()[offset:end] {
		vr := variant.NewRow(ncols)
		for col := 0; col < ncols; col++ {
			v, err := Narrow(row.Value(col))
			if err != nil {
				return nil, fmt.Errorf("result: row %d column %d: %w", row.Index(), col, err)
			}
			vr = append(vr, v)
		}
		out = append(out, vr)
	}
	return out, nil
}

// Narrow maps a dynamic value onto the closed variant set. NULL becomes an
// absent slot; types without a dedicated kind are exported as their text.
func Narrow(v value.Value) (variant.Variant, error) {
	if v.IsNull() {
		return variant.Absent(), nil
	}
	switch v.Type().ID {
	case record.TypeBoolean:
		b, err := v.GetBool()
		return variant.Bool(b), err
	case record.TypeBigInt:
		n, err := v.GetInt64()
		return variant.BigInt(n), err
	case record.TypeUBigInt:
		n, err := v.GetUint64()
		return variant.UBigInt(n), err
	case record.TypeInteger, record.TypeSmallInt, record.TypeTinyInt,
		record.TypeUSmallInt, record.TypeUTinyInt:
		n, err := v.GetInt()
		return variant.Int(n), err
	case record.TypeUInteger:
		n, err := v.GetUint32()
		return variant.UInt(n), err
	case record.TypeDouble, record.TypeFloat, record.TypeDecimal:
		f, err := v.GetFloat64()
		return variant.Double(f), err
	case record.TypeVarchar:
		s, err := v.GetString()
		return variant.String(s), err
	default:
		return variant.String(v.String()), nil
	}
}

// NarrowChunk exports one fetched chunk; used by streaming consumers that want
// variants batch by batch.
func NarrowChunk(chunk *collection.DataChunk) (variant.Matrix, error) {
	out := variant.NewMatrix(chunk.Size())
	for r := 0; r < chunk.Size(); r++ {
		vr := variant.NewRow(chunk.ColumnCount())
		for c := 0; c < chunk.ColumnCount(); c++ {
			v, err := Narrow(chunk.Value(c, r))
			if err != nil {
				return nil, fmt.Errorf("result: row %d column %d: %w", r, c, err)
			}
			vr = append(vr, v)
		}
		out = append(out, vr)
	}
	return out, nil
}
