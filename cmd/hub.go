package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bnema/wallhub/internal/config"
	"github.com/bnema/wallhub/internal/emulator"
	"github.com/bnema/wallhub/internal/wallpaper"
)

// newHub creates a hub configured from cfg. The returned function removes the
// configured emulator again.
func newHub(cfg *config.Config, surface wallpaper.Surface) (*wallpaper.Hub, func(), error) {
	hub := wallpaper.NewHub(surface)

	if err := applyTapConfig(hub, cfg.Tap); err != nil {
		return nil, nil, err
	}

	e, err := emulator.New(cfg.Emulator)
	if err != nil {
		return nil, nil, err
	}

	return hub, emulator.Install(hub, e), nil
}

func applyTapConfig(hub *wallpaper.Hub, tap config.TapConfig) error {
	if err := hub.SetNumberOfTaps(tap.NumberOfTaps); err != nil {
		return fmt.Errorf("tap.number_of_taps: %w", err)
	}
	if err := hub.SetMaxTimeBetweenTaps(tap.MaxTimeBetweenTaps); err != nil {
		return fmt.Errorf("tap.max_time_between_taps: %w", err)
	}
	if err := hub.SetTapZoneRadiusRelative(tap.TapZoneRadiusRelative); err != nil {
		return fmt.Errorf("tap.tap_zone_radius_relative: %w", err)
	}
	return nil
}

// logNotifications logs every hub notification and returns a function removing
// the subscriptions
func logNotifications(hub *wallpaper.Hub, l *log.Logger) func() {
	unsubscribe := []func(){
		hub.OnVisibilityChanged(func(visible bool) {
			l.Info("Visibility changed", "visible", visible)
		}),
		hub.OnPreviewChanged(func(preview bool) {
			l.Info("Preview mode changed", "preview", preview)
		}),
		hub.OnDesiredSizeChanged(func(size wallpaper.Size) {
			l.Info("Desired size changed", "width", size.Width, "height", size.Height)
		}),
		hub.OnOffsetsChanged(func(state wallpaper.OffsetState) {
			l.Debug("Offsets changed",
				"offset_x", state.Offset.X, "offset_y", state.Offset.Y,
				"step_x", state.OffsetStep.X, "step_y", state.OffsetStep.Y,
				"pixel_x", state.PixelOffset.X, "pixel_y", state.PixelOffset.Y,
				"home_screen", state.CurrentHomeScreen(), "home_screens", state.HomeScreenCount())
		}),
		hub.OnPreferenceChanged(func(key string) {
			l.Info("Preference changed", "key", key)
		}),
		hub.OnPreferencesActivityTriggered(func() {
			l.Info("Preferences activity triggered")
		}),
		hub.OnMultiTapDetected(func(pos wallpaper.Vector2) {
			l.Info("Multi-tap detected", "x", pos.X, "y", pos.Y)
		}),
		hub.OnCustomEvent(func(ev wallpaper.CustomEvent) {
			l.Info("Custom event", "name", ev.Name, "data", ev.Data)
		}),
	}

	return func() {
		for _, fn := range unsubscribe {
			fn()
		}
	}
}
