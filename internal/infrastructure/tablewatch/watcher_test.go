package tablewatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "yaml write", event: fsnotify.Event{Name: "inns.yaml", Op: fsnotify.Write}, want: true},
		{name: "csv create", event: fsnotify.Event{Name: "signs.csv", Op: fsnotify.Create}, want: true},
		{name: "json chmod", event: fsnotify.Event{Name: "loot.json", Op: fsnotify.Chmod}, want: false},
		{name: "yaml remove", event: fsnotify.Event{Name: "inns.yaml", Op: fsnotify.Remove}, want: false},
		{name: "text write", event: fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.event))
		})
	}
}

func TestWatcher_ReloadsChangedTableFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	reloaded := make(chan string, 4)
	w := New(dir, func(_ context.Context, path string) error {
		reloaded <- filepath.Base(path)
		return nil
	}, nil)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inns.yaml"), []byte("tables: []\n"), 0644))

	select {
	case name := <-reloaded:
		assert.Equal(t, "inns.yaml", name)
	case <-time.After(5 * time.Second):
		t.Fatal("table file was not reloaded")
	}

	cancel()
	require.NoError(t, <-done)

	select {
	case name := <-reloaded:
		t.Fatalf("unexpected reload of %s", name)
	default:
	}
}

func TestWatcher_ReloadErrorKeepsWatching(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	calls := make(chan string, 4)
	w := New(dir, func(_ context.Context, path string) error {
		calls <- filepath.Base(path)
		return errors.New("bad table")
	}, nil)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("table,text\n"), 0644))
	require.Equal(t, "a.csv", waitFor(t, calls))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{"tables":[]}`), 0644))
	require.Equal(t, "b.json", waitFor(t, calls))

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := New(filepath.Join(t.TempDir(), "missing"), func(context.Context, string) error { return nil }, nil)
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}

func TestWatcher_SetDebounceIgnoresTinyValues(t *testing.T) {
	w := New(t.TempDir(), nil, nil)
	w.SetDebounce(0)
	assert.Equal(t, DefaultDebounce, w.debounce)
	w.SetDebounce(time.Second)
	assert.Equal(t, time.Second, w.debounce)
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return ""
	}
}
