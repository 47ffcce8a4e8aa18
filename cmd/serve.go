package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/wallhub/internal/bridge"
	"github.com/bnema/wallhub/internal/config"
	"github.com/bnema/wallhub/internal/logger"
	"github.com/bnema/wallhub/internal/wallpaper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hub behind the native event bridge",
	Long: `Run the wallpaper hub in native mode. A native adapter delivers launcher
events through the bridge socket; they are queued and applied on every tick.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("tick-rate", 0, "Ticks per second")
	_ = viper.BindPFlag("serve.tick_rate", serveCmd.Flags().Lookup("tick-rate"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	hub, uninstall, err := newHub(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to create hub: %w", err)
	}
	defer uninstall()

	stopLogging := logNotifications(hub, logger.WithPrefix("hub"))
	defer stopLogging()

	queue := wallpaper.NewDeferredQueue(cfg.Bridge.QueueCapacity)
	hub.AttachSource(queue)

	srv := bridge.NewServer(cfg.Bridge.SocketPath, queue)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting wallhub",
		"socket", cfg.Bridge.SocketPath,
		"tick_rate", cfg.Serve.TickRate,
		"emulator", cfg.Emulator.Kind)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(ctx)
	})
	g.Go(func() error {
		runTicks(ctx, hub, time.Second/time.Duration(cfg.Serve.TickRate))
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if dropped := queue.Dropped(); dropped > 0 {
		logger.Warn("Events were dropped", "count", dropped)
	}
	logger.Info("wallhub stopped")
	return nil
}

// runTicks drives the hub at a fixed interval until ctx is done. It is the
// only goroutine touching the hub while it runs.
func runTicks(ctx context.Context, hub *wallpaper.Hub, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			hub.Tick(now.Sub(last))
			last = now
		}
	}
}
