package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "preset: http\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(dir, 20*time.Millisecond)
	changes := make(chan struct{}, 1)
	require.NoError(t, w.Start(ctx, changes))
	defer w.Stop()

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case <-changes:
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(100 * time.Millisecond):
	}

	writeConfig(t, dir, "preset: test\n")
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(t.TempDir(), 0)
	changes := make(chan struct{}, 1)
	require.NoError(t, w.Start(context.Background(), changes))
	w.Stop()
	w.Stop()
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), 0)
	require.Error(t, w.Start(context.Background(), make(chan struct{})))
}
