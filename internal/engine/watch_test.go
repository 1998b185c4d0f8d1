package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_FormatsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.nix")
	writeFile(t, path, formatted)

	e := newTestEngine(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan *Report, 4)
	done := make(chan error, 1)
	go func() {
		done <- e.Watch(ctx, []string{dir}, WatchOptions{
			Debounce: 20 * time.Millisecond,
			OnReport: func(r *Report) {
				select {
				case reports <- r:
				default:
				}
			},
		})
	}()

	// Rewrite until the watcher is registered and picks the change up.
	var report *Report
	require.Eventually(t, func() bool {
		select {
		case report = <-reports:
			return true
		default:
			writeFile(t, path, unformatted)
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	require.Len(t, report.Results, 1)
	assert.Equal(t, path, report.Results[0].Path)
	assert.Eventually(t, func() bool { return readFile(t, path) == formatted }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatch_MissingPath(t *testing.T) {
	e := newTestEngine(t, Config{})
	err := e.Watch(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, WatchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}
