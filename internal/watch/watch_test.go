package watch

// Test Plan for Directory Watching:
// - A dropped PDF triggers one debounced callback with the file path
// - Several files written in a burst arrive as one batch
// - Non-PDF and temporary files are ignored
// - Run returns when the context is cancelled

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchCollector struct {
	mu      sync.Mutex
	batches [][]string
	got     chan struct{}
}

func newBatchCollector() *batchCollector {
	return &batchCollector{got: make(chan struct{}, 16)}
}

func (c *batchCollector) callback(files []string) {
	c.mu.Lock()
	c.batches = append(c.batches, files)
	c.mu.Unlock()
	c.got <- struct{}{}
}

func (c *batchCollector) all() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.batches...)
}

func startWatcher(t *testing.T, dir string) (*Watcher, *batchCollector, context.CancelFunc) {
	t.Helper()
	w, err := New(dir, 100*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	c := newBatchCollector()
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, c.callback)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w, c, cancel
}

func TestWatch_SinglePDF(t *testing.T) {
	dir := t.TempDir()
	_, c, _ := startWatcher(t, dir)

	path := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))

	select {
	case <-c.got:
	case <-time.After(5 * time.Second):
		t.Fatal("no callback for dropped PDF")
	}

	batches := c.all()
	require.NotEmpty(t, batches)
	assert.Contains(t, batches[0], path)
}

func TestWatch_BurstIsOneBatch(t *testing.T) {
	dir := t.TempDir()
	_, c, _ := startWatcher(t, dir)

	var want []string
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4"), 0644))
		want = append(want, p)
	}

	select {
	case <-c.got:
	case <-time.After(5 * time.Second):
		t.Fatal("no callback for burst")
	}
	// The debounce window should have folded the burst together.
	batches := c.all()
	assert.ElementsMatch(t, want, batches[0])
}

func TestWatch_IgnoresNonPDF(t *testing.T) {
	dir := t.TempDir()
	_, c, _ := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$lock.pdf"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".partial.pdf"), []byte("x"), 0644))

	select {
	case <-c.got:
		t.Fatal("callback fired for ignored files")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, func([]string) {})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
