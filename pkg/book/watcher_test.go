package book_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/macropower/flip/pkg/book"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startWatcher(t *testing.T, path string, opts ...book.Opt) *book.Watcher {
	t.Helper()

	w, err := book.NewWatcher(path, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())

	var wg sync.WaitGroup
	wg.Go(func() {
		w.Run(ctx)
	})

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, w.Close())
		wg.Wait()
	})

	return w
}

func TestWatcher_Reload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "book.md")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o600))

	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("one\n---\ntwo"), 0o600))

	timeout := time.After(5 * time.Second)

	// Truncation may be observed before the write, so loads can fail or
	// see partial content until the final write lands.
	for {
		select {
		case b := <-w.Events():
			if b.Len() != 2 {
				continue
			}

			assert.Equal(t, "book.md", b.Name)

			return
		case <-w.Errors():
		case <-timeout:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatcher_LoadError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "book.md")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o600))

	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0o600))

	select {
	case err := <-w.Errors():
		require.ErrorIs(t, err, book.ErrEmptyBook)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := book.NewWatcher(filepath.Join(t.TempDir(), "missing", "book.md"))
	require.Error(t, err)
}
