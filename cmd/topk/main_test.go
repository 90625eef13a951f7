package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLinesFromStdin(t *testing.T) {
	out, err := execute(t, "pear\napple\n\nplum\nfig\n", "-k", "2")
	require.NoError(t, err)
	assert.Equal(t, "plum\npear\n", out)
}

func TestNumeric(t *testing.T) {
	out, err := execute(t, "5\n1\n4\n 2\n8\n3\n", "--numeric", "-k", "3")
	require.NoError(t, err)
	assert.Equal(t, "8\n5\n4\n", out)
}

func TestNumericDuplicates(t *testing.T) {
	out, err := execute(t, "-3\n0\n-1\n9\n2\n9\n", "-n", "-k", "4")
	require.NoError(t, err)
	assert.Equal(t, "9\n9\n2\n0\n", out)
}

func TestNumericInvalid(t *testing.T) {
	_, err := execute(t, "1\n\nabc\n", "-n")
	require.Error(t, err)
	assert.Equal(t, `topk: stdin:3: invalid number "abc"`, err.Error())
}

func TestZeroK(t *testing.T) {
	out, err := execute(t, "1\n2\n", "-k", "0")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCount(t *testing.T) {
	out, err := execute(t, "a\nb\na\nc\na\nb\n", "--count", "-k", "2")
	require.NoError(t, err)
	assert.Equal(t, "a\t3\nb\t2\n", out)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	require.NoError(t, os.WriteFile(first, []byte("10\n30"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("20\n40\n"), 0o644))

	out, err := execute(t, "", "-n", "-k", "3", first, second)
	require.NoError(t, err)
	assert.Equal(t, "40\n30\n20\n", out)
}

func TestMissingFile(t *testing.T) {
	_, err := execute(t, "", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBadFlags(t *testing.T) {
	_, err := execute(t, "", "-k", "-1")
	assert.EqualError(t, err, "topk: k must not be negative, got -1")

	_, err = execute(t, "", "-n", "-c")
	assert.Error(t, err)

	out, err := execute(t, "a\nb\na\n", "--count", "-k", "4294967296")
	assert.EqualError(t, err, "topk: k too large for --count, got 4294967296")
	assert.Empty(t, out)
}

func TestCountFewerKeysThanK(t *testing.T) {
	out, err := execute(t, "a\nb\na\n", "--count", "-k", "3")
	require.NoError(t, err)
	assert.Equal(t, "a\t2\nb\t1\n", out)
}

func TestFilesInTurn(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	require.NoError(t, os.WriteFile(first, []byte("b\na\n"), 0o644))

	_, err := execute(t, "", first, filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	out, err := execute(t, "", "-k", "1", first, first)
	require.NoError(t, err)
	assert.Equal(t, "b\n", out)
}
