// Package emulator provides offset emulators for launchers that report wallpaper
// offsets badly or not at all.
package emulator

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/wallhub/internal/config"
	"github.com/bnema/wallhub/internal/wallpaper"
)

// Kinds accepted by New
const (
	KindNone   = "none"
	KindSmooth = "smooth"
	KindPaging = "paging"
	KindStatic = "static"
)

// Kinds lists every emulator kind, in display order
var Kinds = []string{KindNone, KindSmooth, KindPaging, KindStatic}

// New builds the emulator selected by cfg. KindNone yields a nil emulator.
func New(cfg config.EmulatorConfig) (wallpaper.Emulator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindNone:
		return nil, nil
	case KindSmooth:
		return NewSmooth(cfg.SmoothSpeed), nil
	case KindPaging:
		return NewPaging(cfg.PagingScreens, cfg.PagingSpeed), nil
	case KindStatic:
		return NewStatic(wallpaper.Vector2{X: cfg.StaticOffsetX, Y: cfg.StaticOffsetY}), nil
	default:
		return nil, fmt.Errorf("unknown emulator kind: %s (must be one of %s)", cfg.Kind, strings.Join(Kinds, ", "))
	}
}

// Install registers e on hub and keeps size dependent emulators in sync with the
// hub's desired size. The returned function unregisters e again.
func Install(hub *wallpaper.Hub, e wallpaper.Emulator) func() {
	if e == nil {
		hub.UnregisterEmulator()
		return func() {}
	}

	unsubscribe := func() {}
	if p, ok := e.(*Paging); ok {
		p.SetPixelRange(hub.DesiredSize().Width)
		unsubscribe = hub.OnDesiredSizeChanged(func(size wallpaper.Size) {
			p.SetPixelRange(size.Width)
		})
	}

	hub.RegisterEmulator(e)

	return func() {
		unsubscribe()
		if hub.Emulator() == e {
			hub.UnregisterEmulator()
		}
	}
}

// moveTowards moves current toward target by at most maxDelta
func moveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
