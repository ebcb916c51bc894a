package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/tuannm99/novaresult/internal/variant"
	"github.com/tuannm99/novaresult/resultclient"
	"github.com/tuannm99/novaresult/server/resultwire"
)

// ---- History (own file) ----

type History struct {
	path  string
	lines []string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

func (h *History) Load(max int) error {
	if h.path == "" {
		return nil
	}
	f, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		h.lines = append(h.lines, s)
		if max > 0 && len(h.lines) > max {
			h.lines = h.lines[len(h.lines)-max:]
		}
	}
	return sc.Err()
}

func (h *History) Append(cmd string) error {
	cmd = compactOneLine(cmd)
	if cmd == "" || h.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintln(f, cmd); err != nil {
		return err
	}
	h.lines = append(h.lines, cmd)
	return nil
}

func (h *History) Print(w io.Writer, last int) {
	if last <= 0 || last > len(h.lines) {
		last = len(h.lines)
	}
	for i := len(h.lines) - last; i < len(h.lines); i++ {
		fmt.Fprintf(w, "%5d  %s\n", i+1, h.lines[i])
	}
}

// compactOneLine collapses whitespace runs into single spaces.
func compactOneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ---- commands ----

const helpText = `commands:
  datasets                       list datasets the server can open
  open <dataset>                 open a dataset, prints its handle
  fetch <h>                      next chunk of the single-pass scan
  value <h> <column> <row>       one cell
  extract <h> [offset] [limit]   rows as typed variants (limit -1 = all)
  box <h> [max-rows]             box-drawn table
  text <h>                       tab-separated text
  close <h>                      release a result
meta:
  \q | quit | exit               quit
  \history                       print history
  \help                          show help`

type session struct {
	cli     *resultclient.Client
	columns map[uint64][]resultwire.Column
}

func newSession(cli *resultclient.Client) *session {
	return &session{cli: cli, columns: make(map[uint64][]resultwire.Column)}
}

func argInt(args []string, i int, name string, def int) (int, error) {
	if i >= len(args) {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, args[i])
	}
	return n, nil
}

func argHandle(args []string) (uint64, error) {
	if len(args) < 2 {
		return 0, errors.New("missing handle")
	}
	h, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("handle: %q is not a number", args[1])
	}
	return h, nil
}

func (s *session) exec(ctx context.Context, line string, w io.Writer) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	cmd := strings.ToLower(args[0])

	if cmd == "datasets" {
		names, err := s.cli.Datasets(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(w, n)
		}
		return nil
	}
	if cmd == "open" {
		if len(args) != 2 {
			return errors.New("usage: open <dataset>")
		}
		o, err := s.cli.Open(ctx, args[1])
		if err != nil {
			return err
		}
		s.columns[o.Handle] = o.Columns
		if o.Err != nil {
			fmt.Fprintf(w, "handle %d (error result: %v)\n", o.Handle, o.Err)
			return nil
		}
		fmt.Fprintf(w, "handle %d: %d rows, %d columns\n", o.Handle, o.RowCount, len(o.Columns))
		return nil
	}

	h, err := argHandle(args)
	if err != nil {
		return err
	}
	switch cmd {
	case "fetch":
		rows, done, err := s.cli.Fetch(ctx, h)
		if err != nil {
			return err
		}
		if done {
			fmt.Fprintln(w, "(done)")
			return nil
		}
		printRows(w, s.columns[h], rows)
	case "value":
		col, err := argInt(args, 2, "column", 0)
		if err != nil {
			return err
		}
		row, err := argInt(args, 3, "row", 0)
		if err != nil {
			return err
		}
		cell, err := s.cli.Value(ctx, h, col, row)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", cell.Type, cell.Text)
	case "extract":
		offset, err := argInt(args, 2, "offset", 0)
		if err != nil {
			return err
		}
		limit, err := argInt(args, 3, "limit", 0)
		if err != nil {
			return err
		}
		rows, err := s.cli.Extract(ctx, h, offset, limit)
		if err != nil {
			return err
		}
		printRows(w, s.columns[h], rows)
	case "box", "text":
		maxRows, err := argInt(args, 2, "max-rows", 0)
		if err != nil {
			return err
		}
		text, err := s.cli.Render(ctx, h, cmd, maxRows)
		if err != nil {
			return err
		}
		fmt.Fprint(w, text)
	case "close":
		if err := s.cli.CloseResult(ctx, h); err != nil {
			return err
		}
		delete(s.columns, h)
		fmt.Fprintln(w, "OK")
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
	return nil
}

func printRows(w io.Writer, cols []resultwire.Column, rows variant.Matrix) {
	ncols := len(cols)
	for _, r := range rows {
		ncols = max(ncols, len(r))
	}
	header := make([]string, ncols)
	for i := range header {
		if i < len(cols) {
			header[i] = cols[i].Name
		} else {
			header[i] = fmt.Sprintf("#%d", i)
		}
	}

	cells := make([][]string, len(rows))
	widths := make([]int, ncols)
	for i, h := range header {
		widths[i] = len(h)
	}
	for r, row := range rows {
		cells[r] = make([]string, ncols)
		for i := range header {
			s := "NULL"
			if i < len(row) && !row[i].IsAbsent() {
				s = row[i].String()
			}
			cells[r][i] = s
			widths[i] = max(widths[i], len(s))
		}
	}

	printRow := func(values []string) {
		for i := range values {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprint(w, padRight(values[i], widths[i]))
		}
		fmt.Fprintln(w)
	}
	printRow(header)
	for i := range header {
		if i > 0 {
			fmt.Fprint(w, "-+-")
		}
		fmt.Fprint(w, strings.Repeat("-", widths[i]))
	}
	fmt.Fprintln(w)
	for _, c := range cells {
		printRow(c)
	}
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func isMetaCommand(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "\\") || line == "quit" || line == "exit"
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".novaresult_history"
	}
	return filepath.Join(home, ".novaresult_history")
}

func main() {
	var (
		addr     = flag.String("addr", "127.0.0.1:8866", "server address")
		timeout  = flag.Duration("timeout", 3*time.Second, "dial timeout")
		rwTime   = flag.Duration("rw-timeout", 30*time.Second, "per-request timeout")
		histPath = flag.String("history", defaultHistoryPath(), "history file path")
		histMax  = flag.Int("history-max", 2000, "max history lines loaded into memory")
		oneShot  = flag.String("c", "", "execute one command and exit")
	)
	flag.Parse()

	cli, err := resultclient.Dial(*addr, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cli.Close() }()
	cli.SetRWTimeout(*rwTime)

	sess := newSession(cli)
	ctx := context.Background()

	if strings.TrimSpace(*oneShot) != "" {
		if err := sess.exec(ctx, *oneShot, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	h := NewHistory(*histPath)
	_ = h.Load(*histMax)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "novaresult> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	for _, line := range h.lines {
		_ = rl.SaveHistory(line)
	}

	fmt.Printf("connected to %s\n", *addr)
	fmt.Println("type \\help for help")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println("^C")
			continue
		}
		if err != nil {
			// EOF
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if isMetaCommand(line) {
			switch line {
			case "\\q", "quit", "exit":
				return
			case "\\help":
				fmt.Println(helpText)
			case "\\history":
				h.Print(os.Stdout, 50)
			default:
				fmt.Printf("unknown command: %s\n", line)
			}
			continue
		}

		_ = h.Append(line)
		_ = rl.SaveHistory(compactOneLine(line))

		if err := sess.exec(ctx, line, os.Stdout); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}
