package resultwire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/sourcegraph/conc"
	"go.uber.org/multierr"

	"github.com/tuannm99/novaresult/internal/collection"
	"github.com/tuannm99/novaresult/internal/render"
)

type Config struct {
	Addr string
	// Datasets maps the names clients may open to files on the server.
	Datasets       map[string]string
	MaxOpenResults int
	BatchRows      int
	ChunkCapacity  int
	Render         render.Config
	Debug          bool
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8866"
	}
	if c.MaxOpenResults <= 0 {
		c.MaxOpenResults = 16
	}
	if c.BatchRows <= 0 {
		c.BatchRows = 1024
	}
	if c.ChunkCapacity <= 0 {
		c.ChunkCapacity = collection.DefaultChunkCapacity
	}
	return c
}

type Server struct {
	cfg Config
	wg  conc.WaitGroup

	mu     sync.Mutex
	ln     net.Listener
	conns  map[net.Conn]struct{}
	closed bool
}

func NewServer(cfg Config) *Server {
	return &Server{cfg: cfg.withDefaults(), conns: make(map[net.Conn]struct{})}
}

// ListenAndServe listens on the configured address and serves until ctx is
// done or Close is called.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and takes ownership of it.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return net.ErrClosed
	}
	s.ln = ln
	s.mu.Unlock()

	slog.Info("resultwire: listening", "addr", ln.Addr().String(), "datasets", len(s.cfg.Datasets))

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Warn("resultwire: accept", "err", err)
			continue
		}
		if !s.track(conn) {
			_ = conn.Close()
			return nil
		}
		s.wg.Go(func() { s.handleConn(conn) })
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.untrack(conn)
	defer func() { _ = conn.Close() }()

	remote := conn.RemoteAddr().String()
	slog.Debug("resultwire: session open", "remote", remote)

	sess := newSession(s.cfg)
	defer func() {
		if err := sess.close(); err != nil {
			slog.Warn("resultwire: session close", "remote", remote, "err", err)
		}
	}()

	for {
		var req Request
		if err := ReadFrame(conn, &req); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				slog.Debug("resultwire: read frame", "remote", remote, "err", err)
			}
			return
		}
		resp := sess.handle(req)
		if err := WriteFrame(conn, resp); err != nil {
			slog.Debug("resultwire: write frame", "remote", remote, "err", err)
			return
		}
	}
}

// Close stops accepting, closes every connection and waits for their
// sessions to finish.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	var err error
	if s.ln != nil {
		if cerr := s.ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
	}
	for conn := range s.conns {
		if cerr := conn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = multierr.Append(err, cerr)
		}
	}
	s.mu.Unlock()

	if r := s.wg.WaitAndRecover(); r != nil {
		slog.Error("resultwire: session panicked", "panic", r.Value)
		err = multierr.Append(err, r.AsError())
	}
	return err
}
