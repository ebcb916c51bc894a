package result

import (
	"fmt"

	"github.com/tuannm99/novaresult/internal/value"
)

// GetValue returns the cell at (column, index). The first call builds a row
// index over the whole collection; prefer Fetch for bulk reads.
func (r *MaterializedResult) GetValue(column, index int) (value.Value, error) {
	coll, err := r.Collection()
	if err != nil {
		return value.Value{}, err
	}
	if r.rows == nil {
		r.rows = coll.Rows()
	}
	v, err := r.rows.GetValue(column, index)
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return v, nil
}

// Integer is the set of native types GetValueAs narrows to.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// GetValueAs reads a cell through a BIGINT intermediate and converts it to T.
// Values that do not fit a BIGINT (UBIGINT above MaxInt64) return ErrCast;
// values that fit a BIGINT but not T wrap, so only use it on columns known to
// fit.
func GetValueAs[T Integer](r *MaterializedResult, column, index int) (T, error) {
	v, err := r.GetValue(column, index)
	if err != nil {
		return 0, err
	}
	x, err := v.GetInt64()
	if err != nil {
		return 0, err
	}
	return T(x), nil
}
