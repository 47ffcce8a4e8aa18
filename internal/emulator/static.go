package emulator

import (
	"time"

	"github.com/bnema/wallhub/internal/wallpaper"
)

// Static pins the wallpaper offset, ignoring the launcher
type Static struct {
	offset wallpaper.Vector2
}

// NewStatic creates an emulator that always reports offset
func NewStatic(offset wallpaper.Vector2) *Static {
	return &Static{offset: offset}
}

func (s *Static) OffsetReportingWorks() bool {
	return false
}

func (s *Static) OnRegister(setOffset wallpaper.SetOffsetFunc) {
	setOffset(wallpaper.OffsetState{Offset: s.offset})
}

func (s *Static) OnUnregister() {}

func (s *Static) UpdateState(time.Duration) {}

func (s *Static) HandleOffsetChange(state *wallpaper.OffsetState) {
	state.Offset = s.offset
	state.PixelOffset = wallpaper.Point{}
}
