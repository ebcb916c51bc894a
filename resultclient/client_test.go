package resultclient

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novaresult/internal/variant"
	"github.com/tuannm99/novaresult/server/resultwire"
)

func startServer(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(p, []byte("sku:VARCHAR,qty:INTEGER,price:DECIMAL(8,2)\na,1,2.50\nb,,3\nc,7,0.10\n"), 0o644))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := resultwire.NewServer(resultwire.Config{
		Datasets:      map[string]string{"items": p},
		ChunkCapacity: 2,
	})
	go func() { _ = srv.Serve(context.Background(), ln) }()
	t.Cleanup(func() { _ = srv.Close() })
	return ln.Addr().String()
}

func TestClient_EndToEnd(t *testing.T) {
	addr := startServer(t)
	c, err := Dial(addr, time.Second)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	c.SetRWTimeout(5 * time.Second)

	ctx := context.Background()
	names, err := c.Datasets(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"items"}, names)

	o, err := c.Open(ctx, "items")
	require.NoError(t, err)
	require.NoError(t, o.Err)
	require.Equal(t, 3, o.RowCount)
	require.Equal(t, "DECIMAL(8,2)", o.Columns[2].Type)

	rows, done, err := c.Fetch(ctx, o.Handle)
	require.NoError(t, err)
	require.False(t, done)
	require.Len(t, rows, 2)
	require.Equal(t, variant.Row{variant.String("a"), variant.Int(1), variant.Double(2.5)}, rows[0])
	require.True(t, rows[1][1].IsAbsent())

	rows, done, err = c.Fetch(ctx, o.Handle)
	require.NoError(t, err)
	require.False(t, done)
	require.Len(t, rows, 1)

	_, done, err = c.Fetch(ctx, o.Handle)
	require.NoError(t, err)
	require.True(t, done)

	cell, err := c.Value(ctx, o.Handle, 2, 2)
	require.NoError(t, err)
	require.Equal(t, "0.10", cell.Text)
	require.Equal(t, "DECIMAL(8,2)", cell.Type)

	all, err := c.Extract(ctx, o.Handle, 0, -1)
	require.NoError(t, err)
	require.Len(t, all, 3)

	box, err := c.Render(ctx, o.Handle, "box", 0)
	require.NoError(t, err)
	require.Contains(t, box, "3 rows")

	require.NoError(t, c.CloseResult(ctx, o.Handle))
	_, err = c.Value(ctx, o.Handle, 0, 0)
	require.ErrorContains(t, err, "unknown handle")
}

func TestClient_Nil(t *testing.T) {
	var c *Client
	_, err := c.Do(context.Background(), resultwire.Request{Op: resultwire.OpDatasets})
	require.ErrorIs(t, err, ErrNilClient)
	require.NoError(t, c.Close())
}

func TestClient_IDMismatch(t *testing.T) {
	client, server := net.Pipe()
	defer func() { _ = client.Close() }()
	defer func() { _ = server.Close() }()

	go func() {
		var req resultwire.Request
		if err := resultwire.ReadFrame(server, &req); err != nil {
			return
		}
		_ = resultwire.WriteFrame(server, resultwire.Response{ID: req.ID + 100})
	}()

	c := New(client)
	_, err := c.Datasets(context.Background())
	require.ErrorContains(t, err, "response id mismatch")
}
