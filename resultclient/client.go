// Package resultclient talks to a resultwire server.
package resultclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tuannm99/novaresult/internal/variant"
	"github.com/tuannm99/novaresult/server/resultwire"
)

var ErrNilClient = errors.New("resultclient: nil client")

// Client is a simple synchronous client.
// Calls may come from several goroutines; they serialize on the connection.
type Client struct {
	conn net.Conn
	mu   sync.Mutex
	id   atomic.Uint64

	// Optional per-request timeout (0 = no timeout).
	rwTimeout time.Duration
}

func Dial(addr string, timeout time.Duration) (*Client, error) {
	return DialContext(context.Background(), addr, timeout)
}

func DialContext(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(c), nil
}

// New wraps an established connection.
func New(conn net.Conn) *Client {
	return &Client{conn: conn}
}

// SetRWTimeout sets a per-request read/write deadline.
func (c *Client) SetRWTimeout(d time.Duration) {
	if c == nil {
		return
	}
	c.rwTimeout = d
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Do sends req and waits for its response. A response carrying Error is
// returned as an error.
func (c *Client) Do(ctx context.Context, req resultwire.Request) (*resultwire.Response, error) {
	if c == nil || c.conn == nil {
		return nil, ErrNilClient
	}

	req.ID = c.id.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.applyDeadline(ctx); err != nil {
		return nil, err
	}
	defer func() {
		// Clear deadline after request so idle connection doesn't expire.
		_ = c.conn.SetDeadline(time.Time{})
	}()

	if err := resultwire.WriteFrame(c.conn, req); err != nil {
		return nil, err
	}
	var resp resultwire.Response
	if err := resultwire.ReadFrame(c.conn, &resp); err != nil {
		return nil, err
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("resultclient: response id mismatch: got=%d want=%d", resp.ID, req.ID)
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	return &resp, nil
}

func (c *Client) applyDeadline(ctx context.Context) error {
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(dl)
	}
	if c.rwTimeout > 0 {
		return c.conn.SetDeadline(time.Now().Add(c.rwTimeout))
	}
	return nil
}

func (c *Client) Datasets(ctx context.Context) ([]string, error) {
	resp, err := c.Do(ctx, resultwire.Request{Op: resultwire.OpDatasets})
	if err != nil {
		return nil, err
	}
	return resp.Datasets, nil
}

// Opened describes a result the server holds for this connection.
type Opened struct {
	Handle   uint64
	Columns  []resultwire.Column
	RowCount int
	// Err is set when the result itself is unsuccessful; the handle is still
	// open and must be closed.
	Err error
}

func (c *Client) Open(ctx context.Context, dataset string) (*Opened, error) {
	resp, err := c.Do(ctx, resultwire.Request{Op: resultwire.OpOpen, Dataset: dataset})
	if err != nil {
		return nil, err
	}
	o := &Opened{Handle: resp.Handle, Columns: resp.Columns, RowCount: resp.RowCount}
	if resp.ResultError != "" {
		o.Err = errors.New(resp.ResultError)
	}
	return o, nil
}

// Fetch returns the next chunk of rows; done is true once the scan is exhausted.
func (c *Client) Fetch(ctx context.Context, handle uint64) (rows variant.Matrix, done bool, err error) {
	resp, err := c.Do(ctx, resultwire.Request{Op: resultwire.OpFetch, Handle: handle})
	if err != nil {
		return nil, false, err
	}
	return resp.Rows, resp.Done, nil
}

func (c *Client) Value(ctx context.Context, handle uint64, column, row int) (*resultwire.Cell, error) {
	resp, err := c.Do(ctx, resultwire.Request{Op: resultwire.OpValue, Handle: handle, Column: column, Row: row})
	if err != nil {
		return nil, err
	}
	return resp.Cell, nil
}

// Extract pages through the result. limit 0 uses the server batch size.
func (c *Client) Extract(ctx context.Context, handle uint64, offset, limit int) (variant.Matrix, error) {
	resp, err := c.Do(ctx, resultwire.Request{Op: resultwire.OpExtract, Handle: handle, Offset: offset, Limit: limit})
	if err != nil {
		return nil, err
	}
	if resp.Rows == nil {
		return variant.NewMatrix(0), nil
	}
	return resp.Rows, nil
}

func (c *Client) Render(ctx context.Context, handle uint64, format string, maxRows int) (string, error) {
	resp, err := c.Do(ctx, resultwire.Request{Op: resultwire.OpRender, Handle: handle, Format: format, MaxRows: maxRows})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) CloseResult(ctx context.Context, handle uint64) error {
	_, err := c.Do(ctx, resultwire.Request{Op: resultwire.OpClose, Handle: handle})
	return err
}
