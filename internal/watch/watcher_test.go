package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockIngester struct {
	mu     sync.Mutex
	calls  []string
	owners []string
	err    error
}

func (m *mockIngester) Ingest(_ context.Context, path, ownerID string) (*driving.IngestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, path)
	m.owners = append(m.owners, ownerID)
	if m.err != nil {
		return nil, m.err
	}
	return &driving.IngestResult{
		Document: &domain.Document{
			ID:       "doc-1",
			OwnerID:  ownerID,
			Filename: filepath.Base(path),
		},
		ChunkCount: 1,
		Indexed:    true,
	}, nil
}

func (m *mockIngester) IngestDir(context.Context, string, string) ([]driving.IngestResult, error) {
	return nil, nil
}

func (m *mockIngester) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// --- Test helpers ---

func awaitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for watch event")
		return Event{}
	}
}

// --- Tests ---

func TestWatcher_Watch(t *testing.T) {
	t.Run("ingests a created file", func(t *testing.T) {
		dir := t.TempDir()
		ingester := &mockIngester{}
		w := New(ingester, "alice", WithDebounce(10*time.Millisecond))
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := w.Watch(ctx, dir)
		require.NoError(t, err)

		path := filepath.Join(dir, "notes.txt")
		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(path, []byte("mitosis"), 0o600)
		}()

		ev := awaitEvent(t, events)
		require.NoError(t, ev.Err)
		assert.Equal(t, path, ev.Path)
		require.NotNil(t, ev.Result)
		assert.True(t, ev.Result.Indexed)
		assert.Equal(t, []string{"alice"}, ingester.owners)
	})

	t.Run("debounces rapid writes into one ingest", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "draft.md")
		require.NoError(t, os.WriteFile(path, []byte("v0"), 0o600))

		ingester := &mockIngester{}
		w := New(ingester, "alice", WithDebounce(80*time.Millisecond))
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := w.Watch(ctx, dir)
		require.NoError(t, err)

		go func() {
			time.Sleep(30 * time.Millisecond)
			for i := 0; i < 4; i++ {
				os.WriteFile(path, []byte("revision"), 0o600)
				time.Sleep(15 * time.Millisecond)
			}
		}()

		ev := awaitEvent(t, events)
		require.NoError(t, ev.Err)
		assert.Equal(t, path, ev.Path)

		// The burst collapsed into a single ingest.
		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, 1, ingester.callCount())
	})

	t.Run("ignores hidden files and unsupported formats", func(t *testing.T) {
		dir := t.TempDir()
		ingester := &mockIngester{}
		w := New(ingester, "alice", WithDebounce(10*time.Millisecond))
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := w.Watch(ctx, dir)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("x"), 0o600))

		select {
		case ev := <-events:
			t.Fatalf("unexpected event for %s", ev.Path)
		case <-time.After(200 * time.Millisecond):
		}
		assert.Zero(t, ingester.callCount())
	})

	t.Run("surfaces excluded files on the event", func(t *testing.T) {
		dir := t.TempDir()
		ingester := &mockIngester{err: domain.ErrExcluded}
		w := New(ingester, "alice", WithDebounce(10*time.Millisecond))
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := w.Watch(ctx, dir)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(filepath.Join(dir, "removed.txt"), []byte("back"), 0o600)
		}()

		ev := awaitEvent(t, events)
		assert.ErrorIs(t, ev.Err, domain.ErrExcluded)
		assert.Nil(t, ev.Result)
	})

	t.Run("rejects a missing directory", func(t *testing.T) {
		w := New(&mockIngester{}, "alice")
		defer w.Close()

		events, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "nope"))

		require.Error(t, err)
		assert.Nil(t, events)
		assert.Contains(t, err.Error(), "watching")
	})

	t.Run("rejects a file path", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

		w := New(&mockIngester{}, "alice")
		defer w.Close()

		events, err := w.Watch(context.Background(), path)

		require.Error(t, err)
		assert.Nil(t, events)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("rejects a closed watcher", func(t *testing.T) {
		w := New(&mockIngester{}, "alice")
		require.NoError(t, w.Close())

		events, err := w.Watch(context.Background(), t.TempDir())

		require.Error(t, err)
		assert.Nil(t, events)
		assert.Contains(t, err.Error(), "closed")
	})

	t.Run("rejects a nil ingestion service", func(t *testing.T) {
		w := New(nil, "alice")
		defer w.Close()

		events, err := w.Watch(context.Background(), t.TempDir())

		require.ErrorIs(t, err, domain.ErrNotImplemented)
		assert.Nil(t, events)
	})

	t.Run("closes the channel when the context is cancelled", func(t *testing.T) {
		w := New(&mockIngester{}, "alice")
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		events, err := w.Watch(ctx, t.TempDir())
		require.NoError(t, err)

		cancel()

		select {
		case _, open := <-events:
			assert.False(t, open)
		case <-time.After(2 * time.Second):
			t.Fatal("channel did not close after cancellation")
		}
	})
}

func TestWatcher_Close(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		w := New(&mockIngester{}, "alice")

		require.NoError(t, w.Close())
		require.NoError(t, w.Close())
	})
}

func TestIngestable(t *testing.T) {
	dir := t.TempDir()
	note := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(note, []byte("x"), 0o600))
	sub := filepath.Join(dir, "sub.txt")
	require.NoError(t, os.Mkdir(sub, 0o750))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"supported file", note, true},
		{"hidden file", filepath.Join(dir, ".env.txt"), false},
		{"unsupported extension", filepath.Join(dir, "photo.png"), false},
		{"no extension", filepath.Join(dir, "README"), false},
		{"missing file", filepath.Join(dir, "gone.txt"), false},
		{"directory with supported extension", sub, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ingestable(tt.path))
		})
	}
}
