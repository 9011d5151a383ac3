package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadSplitsLinesKeepingNewlines(t *testing.T) {
	path := writeTemp(t, "a\nb\nc\n")
	f, err := Read(path)
	require.NoError(t, err)
	require.Len(t, f.Lines, 3)
	assert.Equal(t, []byte("a\n"), f.Lines[0])
	assert.Equal(t, []byte("c\n"), f.Lines[2])
	assert.True(t, f.FinalHasNL)
}

func TestReadDetectsMissingFinalNewline(t *testing.T) {
	path := writeTemp(t, "a\nb")
	f, err := Read(path)
	require.NoError(t, err)
	require.Len(t, f.Lines, 2)
	assert.Equal(t, []byte("b"), f.Lines[1])
	assert.False(t, f.FinalHasNL)
}

func TestReadEmptyFile(t *testing.T) {
	path := writeTemp(t, "")
	f, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, f.Lines)
	assert.True(t, f.FinalHasNL)
}

func TestReadMissingFileIsIOError(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
