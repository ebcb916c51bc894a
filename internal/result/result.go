// Package result implements the materialized query result: a fully buffered
// collection that can be streamed once chunk by chunk, read cell by cell, or
// exported whole as tagged variants.
//
// A MaterializedResult is not safe for concurrent use.
package result

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuannm99/novaresult/internal/collection"
	"github.com/tuannm99/novaresult/internal/record"
)

var (
	// ErrInvalidInput is returned when data is requested from an unsuccessful result.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal means a successful result is missing its collection.
	ErrInternal = errors.New("internal error")

	errUnknown = errors.New("unknown error")
)

type MaterializedResult struct {
	success bool
	err     error

	statementType    StatementType
	properties       StatementProperties
	clientProperties ClientProperties
	names            []string
	types            []record.LogicalType

	coll *collection.Collection
	// taken is set once TakeCollection hands the collection to the caller.
	taken bool
	// rows is built by the first GetValue.
	rows *collection.RowCollection

	scan       collection.ScanState
	scanStatus ScanStatus
}

// New wraps a populated collection. Column types are taken from coll.
func New(
	statementType StatementType,
	properties StatementProperties,
	names []string,
	coll *collection.Collection,
	clientProperties ClientProperties,
) (*MaterializedResult, error) {
	if coll == nil {
		return nil, fmt.Errorf("%w: materialized query result requires a collection", ErrInternal)
	}
	if len(names) != coll.ColumnCount() {
		return nil, fmt.Errorf("%w: %d column names for %d columns", ErrInvalidInput, len(names), coll.ColumnCount())
	}
	ns := make([]string, len(names))
	copy(ns, names)
	return &MaterializedResult{
		success:          true,
		statementType:    statementType,
		properties:       properties,
		clientProperties: clientProperties,
		names:            ns,
		types:            coll.Types(),
		coll:             coll,
	}, nil
}

// NewError builds an unsuccessful result carrying err.
func NewError(err error) *MaterializedResult {
	if err == nil {
		err = errUnknown
	}
	slog.Debug("result: constructed error result", "err", err)
	return &MaterializedResult{err: err}
}

func (r *MaterializedResult) Success() bool  { return r.success }
func (r *MaterializedResult) HasError() bool { return !r.success }

// Err returns the error of an unsuccessful result, nil otherwise.
func (r *MaterializedResult) Err() error { return r.err }

func (r *MaterializedResult) ErrorMessage() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}

func (r *MaterializedResult) StatementType() StatementType       { return r.statementType }
func (r *MaterializedResult) Properties() StatementProperties    { return r.properties }
func (r *MaterializedResult) ClientProperties() ClientProperties { return r.clientProperties }
func (r *MaterializedResult) ColumnCount() int                   { return len(r.names) }

func (r *MaterializedResult) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *MaterializedResult) Types() []record.LogicalType {
	out := make([]record.LogicalType, len(r.types))
	copy(out, r.types)
	return out
}

// RowCount is 0 for error results and after the collection was taken.
func (r *MaterializedResult) RowCount() int {
	if r.coll == nil {
		return 0
	}
	return r.coll.Count()
}

// Collection returns the owned collection without giving it up.
func (r *MaterializedResult) Collection() (*collection.Collection, error) {
	if err := r.checkCollection("get collection from"); err != nil {
		return nil, err
	}
	return r.coll, nil
}

// TakeCollection transfers the collection to the caller. Every later data
// access on r fails.
func (r *MaterializedResult) TakeCollection() (*collection.Collection, error) {
	if err := r.checkCollection("get collection from"); err != nil {
		return nil, err
	}
	coll := r.coll
	r.coll = nil
	r.rows = nil
	r.taken = true
	slog.Debug("result: collection taken", "rows", coll.Count())
	return coll, nil
}

// Taken reports whether TakeCollection already succeeded.
func (r *MaterializedResult) Taken() bool { return r.taken }

// Close releases the collection unless it was taken.
func (r *MaterializedResult) Close() error {
	if r.coll != nil {
		r.coll.Reset()
		r.coll = nil
	}
	r.rows = nil
	return nil
}

func (r *MaterializedResult) checkCollection(action string) error {
	if r.HasError() {
		return fmt.Errorf("%w: attempting to %s an unsuccessful query result: %s", ErrInvalidInput, action, r.ErrorMessage())
	}
	if r.coll == nil {
		return fmt.Errorf("%w: missing collection from materialized query result", ErrInternal)
	}
	return nil
}
