package bridge

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wallhub/internal/wallpaper"
)

func startServer(t *testing.T, target wallpaper.Listener) *Server {
	t.Helper()
	srv := NewServer(filepath.Join(t.TempDir(), "bridge.sock"), target)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)
	return srv
}

func TestServerStartStop(t *testing.T) {
	srv := startServer(t, &recordingListener{})

	info, err := os.Stat(srv.SocketPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Starting twice is harmless
	require.NoError(t, srv.Start())

	srv.Stop()
	_, err = os.Stat(srv.SocketPath())
	assert.True(t, os.IsNotExist(err), "socket removed on stop")

	// Stopping twice is harmless
	srv.Stop()
}

func TestServerRequiresTarget(t *testing.T) {
	srv := NewServer(filepath.Join(t.TempDir(), "bridge.sock"), nil)
	assert.Error(t, srv.Start())
}

func TestServerKeepsNonSocketPaths(t *testing.T) {
	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		notes := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(notes, []byte("keep me"), 0600))

		srv := NewServer(dir, &recordingListener{})
		err := srv.Start()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refusing to replace non-socket")

		data, err := os.ReadFile(notes)
		require.NoError(t, err)
		assert.Equal(t, "keep me", string(data))
	})

	t.Run("regular file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bridge.sock")
		require.NoError(t, os.WriteFile(path, []byte("data"), 0600))

		srv := NewServer(path, &recordingListener{})
		require.Error(t, srv.Start())
		srv.Stop()

		_, err := os.Stat(path)
		assert.NoError(t, err, "file left in place")
	})
}

func TestServerReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.sock")

	stale, err := net.Listen("unix", path)
	require.NoError(t, err)
	stale.(*net.UnixListener).SetUnlinkOnClose(false)
	require.NoError(t, stale.Close())

	info, err := os.Lstat(path)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&os.ModeSocket)

	srv := NewServer(path, &recordingListener{})
	require.NoError(t, srv.Start())
	defer srv.Stop()

	assert.True(t, NewClient(path, time.Second).Ping())
}

func TestClientRoundTrip(t *testing.T) {
	l := &recordingListener{}
	srv := startServer(t, l)
	client := NewClient(srv.SocketPath(), time.Second)

	require.True(t, client.Ping())
	require.NoError(t, client.Send("DesiredSizeChanged", 1080, 2340))
	require.NoError(t, client.Send("OffsetsChanged", 0.25, 0.0, 0.25, 0.0, -270, 0))

	err := client.Send("DesiredSizeChanged", 1080)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "takes 2 arguments")

	assert.Equal(t, []string{
		"DesiredSizeChanged(1080, 2340)",
		"OffsetsChanged(0.25, 0, 0.25, 0, -270, 0)",
	}, l.Calls())
}

func TestClientNotRunning(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "missing.sock"), 100*time.Millisecond)

	assert.False(t, client.Ping())
	assert.ErrorIs(t, client.Send("VisibilityChanged", true), ErrNotRunning)
}

func TestServerFeedsDeferredQueue(t *testing.T) {
	hub := wallpaper.NewHub(nil)
	queue := wallpaper.NewDeferredQueue(0)
	hub.AttachSource(queue)

	srv := startServer(t, queue)
	client := NewClient(srv.SocketPath(), time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, client.Send("PreferenceChanged", "key"))
		}()
	}
	wg.Wait()

	var keys []string
	hub.OnPreferenceChanged(func(key string) { keys = append(keys, key) })

	// Nothing reaches the hub before the main loop ticks
	assert.Empty(t, keys)
	hub.Tick(0)
	assert.Len(t, keys, 4)
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := NewServer(filepath.Join(t.TempDir(), "bridge.sock"), &recordingListener{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	client := NewClient(srv.SocketPath(), time.Second)
	require.Eventually(t, client.Ping, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
