package emulator

import (
	"math"
	"time"

	"github.com/bnema/wallhub/internal/wallpaper"
)

// Smooth eases the published offset toward the launcher's offset instead of
// jumping, for launchers that report offsets in coarse steps.
type Smooth struct {
	speed float64 // offset units per second
	push  wallpaper.SetOffsetFunc

	started  bool
	from     wallpaper.OffsetState
	current  wallpaper.OffsetState
	target   wallpaper.OffsetState
	progress float64
}

// NewSmooth creates a smoothing emulator. A speed <= 0 disables easing.
func NewSmooth(speed float64) *Smooth {
	return &Smooth{speed: speed}
}

// OffsetReportingWorks implements wallpaper.Emulator
func (s *Smooth) OffsetReportingWorks() bool {
	return true
}

// OnRegister implements wallpaper.Emulator
func (s *Smooth) OnRegister(setOffset wallpaper.SetOffsetFunc) {
	s.push = setOffset
	s.started = false
}

// OnUnregister implements wallpaper.Emulator
func (s *Smooth) OnUnregister() {
	s.push = nil
}

// Animating reports whether the published offset still trails the launcher's
func (s *Smooth) Animating() bool {
	return s.started && s.progress < 1
}

// HandleOffsetChange records the launcher offset as the new target and publishes
// the current eased offset in its place
func (s *Smooth) HandleOffsetChange(state *wallpaper.OffsetState) {
	if !s.started || s.speed <= 0 {
		s.started = true
		s.from, s.current, s.target = *state, *state, *state
		s.progress = 1
		return
	}

	s.from = s.current
	s.from.OffsetStep = state.OffsetStep
	s.target = *state
	s.progress = 0

	if s.duration() <= 0 {
		s.current = s.target
		s.progress = 1
		return
	}

	s.current = s.from
	*state = s.current
}

// UpdateState advances the easing and publishes the intermediate offset
func (s *Smooth) UpdateState(dt time.Duration) {
	if s.push == nil || !s.Animating() {
		return
	}

	s.progress = math.Min(1, s.progress+dt.Seconds()/s.duration())
	s.current = interpolate(s.from, s.target, s.progress)
	s.push(s.current)
}

// duration returns the easing time in seconds for the current segment
func (s *Smooth) duration() float64 {
	dx := s.target.Offset.X - s.from.Offset.X
	dy := s.target.Offset.Y - s.from.Offset.Y
	return math.Hypot(dx, dy) / s.speed
}

func interpolate(from, to wallpaper.OffsetState, t float64) wallpaper.OffsetState {
	return wallpaper.OffsetState{
		Offset: wallpaper.Vector2{
			X: lerp(from.Offset.X, to.Offset.X, t),
			Y: lerp(from.Offset.Y, to.Offset.Y, t),
		},
		OffsetStep: to.OffsetStep,
		PixelOffset: wallpaper.Point{
			X: int(math.Round(lerp(float64(from.PixelOffset.X), float64(to.PixelOffset.X), t))),
			Y: int(math.Round(lerp(float64(from.PixelOffset.Y), float64(to.PixelOffset.Y), t))),
		},
	}
}
