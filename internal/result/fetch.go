package result

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/novaresult/internal/collection"
)

// ScanStatus is the position of the single streaming pass.
type ScanStatus uint8

const (
	ScanNotStarted ScanStatus = iota
	ScanInProgress
	ScanDone
)

func (s ScanStatus) String() string {
	switch s {
	case ScanNotStarted:
		return "not_started"
	case ScanInProgress:
		return "in_progress"
	case ScanDone:
		return "done"
	}
	return fmt.Sprintf("ScanStatus(%d)", uint8(s))
}

func (r *MaterializedResult) ScanStatus() ScanStatus { return r.scanStatus }

// Fetch returns the next chunk of the result, or nil once every row has been
// returned. The result can be streamed only once.
func (r *MaterializedResult) Fetch() (*collection.DataChunk, error) {
	return r.FetchRaw()
}

// FetchRaw is Fetch. Returned chunks own their data and stay valid after the
// result is closed.
func (r *MaterializedResult) FetchRaw() (*collection.DataChunk, error) {
	if r.HasError() {
		return nil, fmt.Errorf("%w: attempting to fetch from an unsuccessful query result: %s", ErrInvalidInput, r.ErrorMessage())
	}
	if r.coll == nil {
		return nil, fmt.Errorf("%w: missing collection from materialized query result", ErrInternal)
	}
	if r.scanStatus == ScanDone {
		return nil, nil
	}

	chunk := &collection.DataChunk{}
	r.coll.InitializeScanChunk(chunk)
	if r.scanStatus == ScanNotStarted {
		r.coll.InitializeScan(&r.scan, collection.DisallowZeroCopy)
		r.scanStatus = ScanInProgress
	}

	r.coll.Scan(&r.scan, chunk)
	if chunk.Size() == 0 {
		r.scanStatus = ScanDone
		slog.Debug("result: scan exhausted", "rows", r.coll.Count())
		return nil, nil
	}
	return chunk, nil
}
