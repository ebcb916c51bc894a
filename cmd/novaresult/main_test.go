package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novaresult/internal/variant"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func usersFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(p, []byte("id:BIGINT,name:VARCHAR\n1,ann\n2,\n3,cy\n"), 0o644))
	return p
}

func TestShow(t *testing.T) {
	out, err := run(t, "show", usersFile(t))
	require.NoError(t, err)
	require.Equal(t, "id\tname\t\nBIGINT\tVARCHAR\t\n[ Rows: 3]\n1\tann\n2\tNULL\n3\tcy\n\n", out)
}

func TestShow_ErrorResult(t *testing.T) {
	out, err := run(t, "show", filepath.Join(t.TempDir(), "missing.csv"))
	require.NoError(t, err)
	require.Contains(t, out, "missing.csv")
	require.True(t, strings.HasSuffix(out, "\n"))
}

func TestBox(t *testing.T) {
	out, err := run(t, "box", usersFile(t), "--max-rows", "2")
	require.NoError(t, err)
	require.Contains(t, out, "3 rows (2 shown)")
}

func TestExtract_JSON(t *testing.T) {
	out, err := run(t, "extract", usersFile(t), "--format", "json", "--offset", "1", "--limit", "-1")
	require.NoError(t, err)

	var m variant.Matrix
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	require.Equal(t, variant.Matrix{
		{variant.BigInt(2), variant.Absent()},
		{variant.BigInt(3), variant.String("cy")},
	}, m)
}

func TestExtract_Binary(t *testing.T) {
	out, err := run(t, "extract", usersFile(t), "--format", "binary", "--offset", "0", "--limit", "1")
	require.NoError(t, err)

	m, err := variant.DecodeMatrix([]byte(out))
	require.NoError(t, err)
	require.Equal(t, variant.Matrix{{variant.BigInt(1), variant.String("ann")}}, m)
}

func TestExtract_Failures(t *testing.T) {
	_, err := run(t, "extract", usersFile(t), "--format", "xml", "--offset", "0", "--limit", "-1")
	require.ErrorContains(t, err, "unknown format")

	_, err = run(t, "extract", filepath.Join(t.TempDir(), "missing.csv"), "--format", "json")
	require.Error(t, err)
}

func TestFetch(t *testing.T) {
	out, err := run(t, "fetch", usersFile(t))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)

	var m variant.Matrix
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &m))
	require.Len(t, m, 3)
}

func TestValue(t *testing.T) {
	out, err := run(t, "value", usersFile(t), "1", "2")
	require.NoError(t, err)
	require.Equal(t, "VARCHAR\tcy\n", out)

	_, err = run(t, "value", usersFile(t), "5", "0")
	require.ErrorContains(t, err, "invalid input")

	_, err = run(t, "value", usersFile(t), "x", "0")
	require.ErrorContains(t, err, "column")
}

func TestDatasetName(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "novaresult.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("datasets:\n  users: "+usersFile(t)+"\n"), 0o644))

	out, err := run(t, "--config", cfgPath, "value", "users", "0", "0")
	require.NoError(t, err)
	require.Equal(t, "BIGINT\t1\n", out)
	configPath = ""
}
