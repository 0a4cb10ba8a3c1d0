package themepack

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ocean.yaml", oceanYAML)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reloads := make(chan []*Pack, 4)
	w := NewWatcher([]string{dir}, WithDebounce(20*time.Millisecond))

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(packs []*Pack, err error) {
			if err == nil {
				reloads <- packs
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	updated := "name: ocean\nversion: 1.1.0\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case packs := <-reloads:
		require.Len(t, packs, 1)
		require.Equal(t, "1.1.0", packs[0].Version)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reloaded := make(chan struct{}, 1)
	w := NewWatcher([]string{dir, filepath.Join(dir, "missing")}, WithDebounce(10*time.Millisecond))
	go func() {
		_ = w.Run(ctx, func([]*Pack, error) { reloaded <- struct{}{} })
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("reload triggered by a non-pack file")
	case <-time.After(200 * time.Millisecond):
	}
}
