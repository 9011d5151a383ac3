package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcherFiresOnWriteToWatchedFile(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte("b\n"), 0o644))

	fired := make(chan struct{}, 1)
	w, err := New(oldPath, newPath, zap.NewNop(), func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(newPath, []byte("c\n"), 0o644))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("rerun callback was not invoked after a watched write")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	unrelated := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte("b\n"), 0o644))

	fired := make(chan struct{}, 1)
	w, err := New(oldPath, newPath, zap.NewNop(), func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(unrelated, []byte("x\n"), 0o644))

	select {
	case <-fired:
		t.Fatal("rerun callback fired for a write to an unwatched file")
	case <-time.After(300 * time.Millisecond):
	}
}
