package watcher

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

func newTestWatcher(t *testing.T, debounce time.Duration) *FileWatcher {
	t.Helper()
	fw, err := NewFileWatcher(debounce, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fw.Stop() })
	return fw
}

func TestFileWatcherDeliversDebouncedBatch(t *testing.T) {
	dir := t.TempDir()
	fw := newTestWatcher(t, 50*time.Millisecond)
	require.NoError(t, fw.AddPath(dir))

	var mu sync.Mutex
	var batches [][]ChangeEvent
	fw.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, events)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	path := filepath.Join(dir, "greeting.template.md")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	// Multiple writes within the window collapse to one event for the path.
	require.Len(t, batches[0], 1)
	assert.Equal(t, path, batches[0][0].Path)
}

func TestFileWatcherAppliesFilters(t *testing.T) {
	dir := t.TempDir()
	fw := newTestWatcher(t, 20*time.Millisecond)
	require.NoError(t, fw.AddPath(dir))
	fw.AddFilter(TemplateFilter(".template"))

	var mu sync.Mutex
	var seen []string
	fw.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			seen = append(seen, filepath.Base(e.Path))
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.template.md"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"keep.template.md"}, seen)
}

func TestAddRecursiveWatchesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	fw := newTestWatcher(t, 20*time.Millisecond)
	require.NoError(t, fw.AddRecursive(dir))

	var mu sync.Mutex
	got := false
	fw.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		got = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(sub, "deep.template.md"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCleanWatchPathRejectsTraversal(t *testing.T) {
	_, err := cleanWatchPath("../outside")
	require.Error(t, err)

	clean, err := cleanWatchPath("./templates")
	require.NoError(t, err)
	assert.Equal(t, "templates", clean)
}

func TestDebouncerDeduplicatesByPath(t *testing.T) {
	d := &Debouncer{
		delay:  time.Millisecond,
		events: make(chan ChangeEvent, 10),
		output: make(chan []ChangeEvent, 1),
	}

	d.pending = []ChangeEvent{
		{Type: EventTypeCreated, Path: "a"},
		{Type: EventTypeModified, Path: "a"},
		{Type: EventTypeModified, Path: "b"},
	}
	d.flush()

	batch := <-d.output
	require.Len(t, batch, 2)

	byPath := map[string]ChangeEvent{}
	for _, e := range batch {
		byPath[e.Path] = e
	}
	// Last event for a path wins.
	assert.Equal(t, EventTypeModified, byPath["a"].Type)
	assert.Equal(t, EventTypeModified, byPath["b"].Type)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
	assert.Equal(t, "unknown", EventType(42).String())
}

func TestFilters(t *testing.T) {
	tmplFilter := TemplateFilter(".template")
	assert.True(t, tmplFilter("dir/copilot-instructions.template.md"))
	assert.False(t, tmplFilter("dir/readme.md"))

	cfgFilter := ProjectConfigFilter(".template")
	assert.True(t, cfgFilter("project-config.yml"))
	assert.True(t, cfgFilter("dir/steps.template.yml"))
	assert.False(t, cfgFilter("notes.md"))

	assert.False(t, NoTempFilter("file.md~"))
	assert.False(t, NoTempFilter(".#file.md"))
	assert.False(t, NoTempFilter("file.swp"))
	assert.True(t, NoTempFilter("file.md"))

	assert.False(t, NoGitFilter(".git/config"))
	assert.False(t, NoGitFilter("repo/.git/HEAD"))
	assert.True(t, NoGitFilter("templates/x.template.md"))
}
