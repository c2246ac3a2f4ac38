// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestHolder(t *testing.T, source string) *Holder {
	t.Helper()
	c := newTestConfig()
	require.NoError(t, c.Load(source))
	return NewHolder(c, source)
}

func TestHolder_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	writeFile(t, path, `{"version": 1}`)
	h := newTestHolder(t, path)

	before := h.Current()
	assert.Equal(t, int64(1), before.Get("version", nil))

	writeFile(t, path, `{"version": 2}`)
	require.NoError(t, h.Reload(context.Background()))

	assert.Equal(t, int64(2), h.Current().Get("version", nil))
	// snapshots handed out earlier are not touched
	assert.Equal(t, int64(1), before.Get("version", nil))
}

func TestHolder_SnapshotDetachedFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	writeFile(t, path, `{"version": 1, "db": {"port": 5432}}`)
	c := newTestConfig()
	require.NoError(t, c.Load(path))
	h := NewHolder(c, path)

	require.NoError(t, c.Set("version", 2))
	db, err := c.Section("db")
	require.NoError(t, err)
	require.NoError(t, db.Set("port", 6543))

	assert.Equal(t, int64(1), h.Current().Get("version", nil))
	assert.True(t, h.Current().Equal(map[string]any{"version": 1, "db": map[string]any{"port": 5432}}))
}

func TestHolder_ReloadFailureKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	writeFile(t, path, `{"version": 1}`)
	h := newTestHolder(t, path)

	writeFile(t, path, `{"version": `)
	err := h.Reload(context.Background())
	require.ErrorIs(t, err, ErrLoad)
	assert.Equal(t, int64(1), h.Current().Get("version", nil))
}

func TestHolder_ReloadDirectoryIsAtomic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"v": 1}`)
	h := newTestHolder(t, dir)

	writeFile(t, filepath.Join(dir, "b.json"), `{"v": `)
	require.Error(t, h.Reload(context.Background()))

	keys, err := h.Current().Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys)
}

func TestHolder_Listeners(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	writeFile(t, path, `{"version": 1}`)
	h := newTestHolder(t, path)

	ch := make(chan *Data, 1)
	full := make(chan *Data)
	h.RegisterListener(ch)
	h.RegisterListener(full)

	writeFile(t, path, `{"version": 2}`)
	require.NoError(t, h.Reload(context.Background()))

	select {
	case got := <-ch:
		assert.Same(t, h.Current(), got)
	default:
		t.Fatal("listener was not notified")
	}
}

func TestHolder_ConcurrentReaders(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "app.json")
	writeFile(t, path, `{"version": 0}`)
	h := newTestHolder(t, path)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_, _ = h.Current().Keys()
				}
			}
		}()
	}

	for i := 1; i <= 5; i++ {
		require.NoError(t, h.Reload(context.Background()))
	}
	close(stop)
	wg.Wait()
}

func TestHolder_Watcher(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "app.json")
	writeFile(t, path, `{"version": 1}`)
	h := newTestHolder(t, path)
	h.SetDebounce(20 * time.Millisecond)

	updates := make(chan *Data, 4)
	h.RegisterListener(updates)

	require.NoError(t, h.StartWatcher(context.Background()))
	writeFile(t, path, `{"version": 2}`)

	select {
	case got := <-updates:
		assert.Equal(t, int64(2), got.Get("version", nil))
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload the config")
	}

	h.Stop()
	h.Stop()
}

func TestHolder_WatcherAlreadyRunning(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "app.json")
	writeFile(t, path, `{"version": 1}`)
	h := newTestHolder(t, path)

	require.NoError(t, h.StartWatcher(context.Background()))
	err := h.StartWatcher(context.Background())
	require.ErrorIs(t, err, ErrConfig)
	assert.NotErrorIs(t, err, ErrLoad)

	h.Stop()
	require.NoError(t, h.StartWatcher(context.Background()))
	h.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.StartWatcher(ctx))
	cancel()
	require.Eventually(t, func() bool {
		return h.StartWatcher(context.Background()) == nil
	}, 5*time.Second, 10*time.Millisecond)
	h.Stop()
}

func TestHolder_WatcherDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{}`)
	h := newTestHolder(t, dir)
	h.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.StartWatcher(ctx))
	defer h.Stop()

	writeFile(t, filepath.Join(dir, "b.json"), `{"x": 1}`)
	require.Eventually(t, func() bool {
		return h.Current().Has("b")
	}, 5*time.Second, 10*time.Millisecond)
}

func TestHolder_WatcherMissingSource(t *testing.T) {
	h := NewHolder(newTestConfig(), filepath.Join(t.TempDir(), "gone.json"))
	err := h.StartWatcher(context.Background())
	assert.ErrorIs(t, err, ErrLoad)

	h = NewHolder(newTestConfig(), "")
	assert.ErrorIs(t, h.StartWatcher(context.Background()), ErrConfig)
}
