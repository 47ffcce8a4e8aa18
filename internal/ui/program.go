package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/wallhub/internal/logger"
)

// ProgramConfig holds configuration for running a UI program
type ProgramConfig struct {
	GracePeriod time.Duration
	Options     []tea.ProgramOption
}

// DefaultProgramConfig returns default configuration
func DefaultProgramConfig() ProgramConfig {
	return ProgramConfig{
		GracePeriod: 2 * time.Second,
	}
}

// Run runs model full screen with mouse support until it quits or ctx is
// cancelled
func Run(ctx context.Context, model tea.Model, cfg ProgramConfig) error {
	opts := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, cfg.Options...)

	program := tea.NewProgram(model, opts...)

	errCh := make(chan error, 1)
	go func() {
		_, err := program.Run()
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return ignoreCancel(ctx, err)
	case <-ctx.Done():
		program.Quit()

		grace := cfg.GracePeriod
		if grace <= 0 {
			grace = DefaultProgramConfig().GracePeriod
		}

		select {
		case err := <-errCh:
			return ignoreCancel(ctx, err)
		case <-time.After(grace):
			program.Kill()
			<-errCh
			return nil
		}
	}
}

// RedirectLogs sends the shared logger to path, or discards it when path is
// empty, so log lines do not tear the alt screen. Call it before creating
// components that derive their own logger. The returned function restores stderr.
func RedirectLogs(path string) (func(), error) {
	if path == "" {
		logger.Logger.SetOutput(io.Discard)
		return func() { logger.Logger.SetOutput(os.Stderr) }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.Logger.SetOutput(f)

	return func() {
		logger.Logger.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

// ignoreCancel drops the error bubbletea reports when its context ends
func ignoreCancel(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
