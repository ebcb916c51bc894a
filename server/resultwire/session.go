package resultwire

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"go.uber.org/multierr"

	"github.com/tuannm99/novaresult/internal/loader"
	"github.com/tuannm99/novaresult/internal/result"
	"github.com/tuannm99/novaresult/pkg/cache"
)

var (
	ErrUnknownOp      = errors.New("resultwire: unknown op")
	ErrUnknownHandle  = errors.New("resultwire: unknown handle")
	ErrUnknownDataset = errors.New("resultwire: unknown dataset")
)

// session owns the results one connection opened. Requests on a session are
// handled one at a time.
type session struct {
	cfg     Config
	next    uint64
	results *cache.LRU[uint64, *result.MaterializedResult]
}

func newSession(cfg Config) *session {
	s := &session{cfg: cfg}
	s.results = cache.NewLRU(cfg.MaxOpenResults, func(h uint64, r *result.MaterializedResult) {
		slog.Info("resultwire: evicting open result", "handle", h, "rows", r.RowCount())
		_ = r.Close()
	})
	return s
}

func (s *session) handle(req Request) Response {
	resp := Response{ID: req.ID}
	var err error
	switch req.Op {
	case OpDatasets:
		resp.Datasets = s.datasets()
	case OpOpen:
		err = s.open(req, &resp)
	case OpFetch:
		err = s.fetch(req, &resp)
	case OpValue:
		err = s.value(req, &resp)
	case OpExtract:
		err = s.extract(req, &resp)
	case OpRender:
		err = s.render(req, &resp)
	case OpClose:
		err = s.closeResult(req)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownOp, req.Op)
	}
	if err != nil {
		if s.cfg.Debug {
			slog.Debug("resultwire: request failed", "op", req.Op, "id", req.ID, "err", err)
		}
		resp = Response{ID: req.ID, Error: err.Error()}
	}
	return resp
}

func (s *session) datasets() []string {
	names := make([]string, 0, len(s.cfg.Datasets))
	for name := range s.cfg.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *session) open(req Request, resp *Response) error {
	path, ok := s.cfg.Datasets[req.Dataset]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDataset, req.Dataset)
	}
	res := loader.Open(path, loader.WithChunkCapacity(s.cfg.ChunkCapacity))

	s.next++
	h := s.next
	s.results.Add(h, res)

	resp.Handle = h
	if res.HasError() {
		resp.ResultError = res.ErrorMessage()
		return nil
	}
	names, types := res.Names(), res.Types()
	resp.Columns = make([]Column, len(names))
	for i := range names {
		resp.Columns[i] = Column{Name: names[i], Type: types[i].String()}
	}
	resp.RowCount = res.RowCount()
	return nil
}

func (s *session) lookup(h uint64) (*result.MaterializedResult, error) {
	res, ok := s.results.Get(h)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return res, nil
}

func (s *session) fetch(req Request, resp *Response) error {
	res, err := s.lookup(req.Handle)
	if err != nil {
		return err
	}
	chunk, err := res.Fetch()
	if err != nil {
		return err
	}
	resp.Handle = req.Handle
	if chunk == nil {
		resp.Done = true
		return nil
	}
	rows, err := result.NarrowChunk(chunk)
	if err != nil {
		return err
	}
	resp.Rows = rows
	return nil
}

func (s *session) value(req Request, resp *Response) error {
	res, err := s.lookup(req.Handle)
	if err != nil {
		return err
	}
	v, err := res.GetValue(req.Column, req.Row)
	if err != nil {
		return err
	}
	nv, err := result.Narrow(v)
	if err != nil {
		return err
	}
	resp.Handle = req.Handle
	resp.Cell = &Cell{Type: v.Type().String(), Null: v.IsNull(), Text: v.String(), Variant: nv}
	return nil
}

func (s *session) extract(req Request, resp *Response) error {
	res, err := s.lookup(req.Handle)
	if err != nil {
		return err
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.cfg.BatchRows
	}
	rows, err := res.ExtractRows(req.Offset, limit)
	if err != nil {
		return err
	}
	resp.Handle = req.Handle
	resp.Rows = rows
	resp.RowCount = res.RowCount()
	return nil
}

func (s *session) render(req Request, resp *Response) error {
	res, err := s.lookup(req.Handle)
	if err != nil {
		return err
	}
	resp.Handle = req.Handle
	switch req.Format {
	case "", "box":
		cfg := s.cfg.Render
		if req.MaxRows > 0 {
			cfg.MaxRows = req.MaxRows
		}
		resp.Text = res.ToBox(cfg)
	case "text":
		resp.Text = res.String()
	default:
		return fmt.Errorf("%w: render format %q", result.ErrInvalidInput, req.Format)
	}
	return nil
}

func (s *session) closeResult(req Request) error {
	res, ok := s.results.Remove(req.Handle)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, req.Handle)
	}
	return res.Close()
}

// close releases every result still open on the session.
func (s *session) close() error {
	var err error
	for _, res := range s.results.Drain() {
		err = multierr.Append(err, res.Close())
	}
	return err
}
