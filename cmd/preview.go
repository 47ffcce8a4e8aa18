package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/wallhub/internal/config"
	"github.com/bnema/wallhub/internal/ui"
)

var previewLogFile string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Simulate a launcher in the terminal",
	Long: `Run the hub in simulated mode. The terminal window is the wallpaper surface,
mouse clicks are taps and the arrow keys page between home screens.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Int("fps", 0, "Ticks per second")
	previewCmd.Flags().StringVar(&previewLogFile, "log-file", "", "Write logs to this file while the preview runs")

	_ = viper.BindPFlag("preview.fps", previewCmd.Flags().Lookup("fps"))

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	restoreLogs, err := ui.RedirectLogs(previewLogFile)
	if err != nil {
		return err
	}
	defer restoreLogs()

	surface := ui.NewTerminalSurface(cfg.Preview.CellWidth, cfg.Preview.CellHeight)
	hub, uninstall, err := newHub(cfg, surface)
	if err != nil {
		return fmt.Errorf("failed to create hub: %w", err)
	}
	defer uninstall()

	model := ui.NewPreviewModel(hub, surface, ui.PreviewOptions{
		FPS:     cfg.Preview.FPS,
		Screens: cfg.Emulator.PagingScreens,
	})
	defer model.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ui.Run(ctx, model, ui.DefaultProgramConfig())
}
