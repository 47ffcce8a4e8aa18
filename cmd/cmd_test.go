package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wallhub/internal/bridge"
	"github.com/bnema/wallhub/internal/config"
	"github.com/bnema/wallhub/internal/emulator"
	"github.com/bnema/wallhub/internal/wallpaper"
)

// executeCommand runs root with args
func executeCommand(root *cobra.Command, args ...string) error {
	return executeCommandContext(context.Background(), root, args...)
}

func executeCommandContext(ctx context.Context, root *cobra.Command, args ...string) error {
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// writeTestConfig writes a config file with a private bridge socket and returns
// both paths
func writeTestConfig(t *testing.T, extra string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	socket := filepath.Join(dir, "wallhub.sock")
	path := filepath.Join(dir, "wallhub.toml")

	content := fmt.Sprintf(`
[bridge]
socket_path = %q
timeout = "1s"

[serve]
tick_rate = 200
%s`, socket, extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Cleanup(func() { config.Set(nil) })
	return path, socket
}

func TestNewHub(t *testing.T) {
	t.Run("applies tap settings and emulator", func(t *testing.T) {
		cfg := config.DefaultConfig
		cfg.Tap.NumberOfTaps = 3
		cfg.Tap.MaxTimeBetweenTaps = time.Second
		cfg.Tap.TapZoneRadiusRelative = 0.5
		cfg.Emulator.Kind = emulator.KindPaging

		hub, uninstall, err := newHub(&cfg, nil)
		require.NoError(t, err)

		assert.Equal(t, 3, hub.Taps().NumberOfTaps())
		assert.Equal(t, time.Second, hub.Taps().MaxTimeBetweenTaps())
		assert.Equal(t, 0.5, hub.Taps().TapZoneRadiusRelative())
		assert.IsType(t, &emulator.Paging{}, hub.Emulator())

		uninstall()
		assert.Nil(t, hub.Emulator())
	})

	t.Run("no emulator by default", func(t *testing.T) {
		cfg := config.DefaultConfig
		hub, _, err := newHub(&cfg, nil)
		require.NoError(t, err)
		assert.Nil(t, hub.Emulator())
	})

	t.Run("rejects unknown emulator", func(t *testing.T) {
		cfg := config.DefaultConfig
		cfg.Emulator.Kind = "wobbly"
		_, _, err := newHub(&cfg, nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid tap settings", func(t *testing.T) {
		cfg := config.DefaultConfig
		cfg.Tap.TapZoneRadiusRelative = 5
		_, _, err := newHub(&cfg, nil)
		require.ErrorIs(t, err, wallpaper.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "tap.tap_zone_radius_relative")
	})
}

func TestRunTicksDispatchesQueuedEvents(t *testing.T) {
	hub := wallpaper.NewHub(nil)
	queue := wallpaper.NewDeferredQueue(0)
	hub.AttachSource(queue)

	got := make(chan string, 1)
	hub.OnPreferenceChanged(func(key string) { got <- key })
	queue.PreferenceChanged("wallpaper_color")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runTicks(ctx, hub, time.Millisecond)
	}()

	select {
	case key := <-got:
		assert.Equal(t, "wallpaper_color", key)
	case <-time.After(2 * time.Second):
		t.Fatal("queued event was not dispatched")
	}

	cancel()
	<-done
}

func TestSendCommand(t *testing.T) {
	path, socket := writeTestConfig(t, "")

	hub := wallpaper.NewHub(nil)
	queue := wallpaper.NewDeferredQueue(0)
	hub.AttachSource(queue)

	srv := bridge.NewServer(socket, queue)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	require.NoError(t, executeCommand(rootCmd, "--config", path, "send", "DesiredSizeChanged", "1080", "2340"))
	require.NoError(t, executeCommand(rootCmd, "--config", path, "send", "visibilitychanged", "true"))

	hub.Tick(0)
	assert.Equal(t, wallpaper.Size{Width: 1080, Height: 2340}, hub.DesiredSize())
	assert.True(t, hub.IsVisible())
}

func TestSendCommandErrors(t *testing.T) {
	path, _ := writeTestConfig(t, "")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "unknown method", args: []string{"Teleport"}, wantErr: bridge.ErrUnknownMethod},
		{name: "wrong arity", args: []string{"MultiTapDetected", "1"}, wantErr: bridge.ErrBadArguments},
		{name: "bad value", args: []string{"VisibilityChanged", "maybe"}, wantErr: bridge.ErrBadArguments},
		{name: "server not running", args: []string{"PreferencesActivityTriggered"}, wantErr: bridge.ErrNotRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", path, "send"}, tt.args...)
			assert.ErrorIs(t, executeCommand(rootCmd, args...), tt.wantErr)
		})
	}
}

func TestServeCommand(t *testing.T) {
	path, socket := writeTestConfig(t, `
[emulator]
kind = "static"
static_offset_x = 0.25
`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- executeCommandContext(ctx, rootCmd, "--config", path, "serve")
	}()

	client := bridge.NewClient(socket, time.Second)
	require.Eventually(t, client.Ping, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, client.Send("OffsetsChanged", 0.5, 0.0, 0.25, 0.0, -540, 0))
	assert.Error(t, client.Send("OffsetsChanged", 0.5), "bad arity reported by the server")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not stop")
	}

	_, err := os.Stat(socket)
	assert.True(t, os.IsNotExist(err), "socket removed")
}

func TestTapFormParse(t *testing.T) {
	tests := []struct {
		name    string
		form    tapForm
		want    config.TapConfig
		wantErr bool
	}{
		{
			name: "valid",
			form: tapForm{taps: "3", window: "400ms", radius: "0.2"},
			want: config.TapConfig{NumberOfTaps: 3, MaxTimeBetweenTaps: 400 * time.Millisecond, TapZoneRadiusRelative: 0.2},
		},
		{
			name: "surrounding spaces",
			form: tapForm{taps: " 2 ", window: " 1s", radius: "1 "},
			want: config.TapConfig{NumberOfTaps: 2, MaxTimeBetweenTaps: time.Second, TapZoneRadiusRelative: 1},
		},
		{name: "zero taps", form: tapForm{taps: "0", window: "1s", radius: "0.2"}, wantErr: true},
		{name: "not a number", form: tapForm{taps: "two", window: "1s", radius: "0.2"}, wantErr: true},
		{name: "bad duration", form: tapForm{taps: "2", window: "soon", radius: "0.2"}, wantErr: true},
		{name: "negative duration", form: tapForm{taps: "2", window: "-1s", radius: "0.2"}, wantErr: true},
		{name: "radius too small", form: tapForm{taps: "2", window: "1s", radius: "0.001"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.form.parse()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTapFormRoundTrips(t *testing.T) {
	got, err := newTapForm(config.DefaultConfig.Tap).parse()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig.Tap, got)
}
