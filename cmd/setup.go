package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bnema/wallhub/internal/config"
	"github.com/bnema/wallhub/internal/emulator"
	"github.com/bnema/wallhub/internal/ui"
	"github.com/bnema/wallhub/internal/wallpaper"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively configure tap detection and the offset emulator",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// tapForm holds the text fields of the setup form
type tapForm struct {
	taps   string
	window string
	radius string
}

func newTapForm(tap config.TapConfig) tapForm {
	return tapForm{
		taps:   strconv.Itoa(tap.NumberOfTaps),
		window: tap.MaxTimeBetweenTaps.String(),
		radius: strconv.FormatFloat(tap.TapZoneRadiusRelative, 'f', -1, 64),
	}
}

// parse converts the form fields, applying the detector's own validation
func (f tapForm) parse() (config.TapConfig, error) {
	var tap config.TapConfig
	var err error

	if tap.NumberOfTaps, err = parseTaps(f.taps); err != nil {
		return tap, err
	}
	if tap.MaxTimeBetweenTaps, err = parseTapWindow(f.window); err != nil {
		return tap, err
	}
	if tap.TapZoneRadiusRelative, err = parseTapRadius(f.radius); err != nil {
		return tap, err
	}
	return tap, nil
}

func parseTaps(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("enter a whole number")
	}
	return n, wallpaper.NewMultiTapDetector().SetNumberOfTaps(n)
}

func parseTapWindow(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("enter a duration such as 250ms")
	}
	return d, wallpaper.NewMultiTapDetector().SetMaxTimeBetweenTaps(d)
}

func parseTapRadius(s string) (float64, error) {
	r, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("enter a number between 0.01 and 1")
	}
	return r, wallpaper.NewMultiTapDetector().SetTapZoneRadiusRelative(r)
}

func validateWith[T any](parse func(string) (T, error)) func(string) error {
	return func(s string) error {
		_, err := parse(s)
		return err
	}
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fields := newTapForm(cfg.Tap)
	emu := cfg.Emulator
	save := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Taps per gesture").
				Description("How many taps make a multi-tap").
				Value(&fields.taps).
				Validate(validateWith(parseTaps)),
			huh.NewInput().
				Title("Max time between taps").
				Description("A duration such as 250ms").
				Value(&fields.window).
				Validate(validateWith(parseTapWindow)),
			huh.NewInput().
				Title("Tap zone radius").
				Description("Fraction of the screen diagonal, 0.01 to 1").
				Value(&fields.radius).
				Validate(validateWith(parseTapRadius)),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Offset emulator").
				Description("Use one when the launcher reports offsets badly or not at all").
				Options(huh.NewOptions(emulator.Kinds...)...).
				Value(&emu.Kind),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save configuration?").
				Value(&save),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	if !save {
		fmt.Println(ui.SubtleStyle.Render("Nothing saved"))
		return nil
	}

	tap, err := fields.parse()
	if err != nil {
		return err
	}

	config.UpdateTap(tap)
	config.UpdateEmulator(emu)

	fmt.Println(ui.FormatSetupHeader("wallhub setup"))
	if err := config.Save(); err != nil {
		fmt.Println(ui.FormatSetupResult(false, "Save configuration", err.Error()))
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println(ui.FormatSetupResult(true, "Tap detector",
		fmt.Sprintf("%d taps within %s, radius %.2f", tap.NumberOfTaps, tap.MaxTimeBetweenTaps, tap.TapZoneRadiusRelative)))
	fmt.Println(ui.FormatSetupResult(true, "Emulator", emu.Kind))
	fmt.Println(ui.FormatSetupResult(true, "Config file", config.GetConfigPath()))
	return nil
}
