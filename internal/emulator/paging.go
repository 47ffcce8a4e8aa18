package emulator

import (
	"math"
	"time"

	"github.com/bnema/wallhub/internal/wallpaper"
)

// Paging emulates home-screen paging for launchers that never report offsets.
// The host moves between screens with Next, Previous or GoTo and the emulator
// animates the offset there.
type Paging struct {
	screens    int
	speed      float64 // offset units per second
	pixelRange int
	push       wallpaper.SetOffsetFunc

	current float64
	target  float64
}

// NewPaging creates a paging emulator over the given number of home screens,
// starting on the middle one
func NewPaging(screens int, speed float64) *Paging {
	if screens < 1 {
		screens = 1
	}

	return &Paging{
		screens: screens,
		speed:   speed,
		current: 0.5,
		target:  0.5,
	}
}

// OffsetReportingWorks implements wallpaper.Emulator
func (p *Paging) OffsetReportingWorks() bool {
	return false
}

// OnRegister implements wallpaper.Emulator and publishes the starting offset
func (p *Paging) OnRegister(setOffset wallpaper.SetOffsetFunc) {
	p.push = setOffset
	p.publish()
}

// OnUnregister implements wallpaper.Emulator
func (p *Paging) OnUnregister() {
	p.push = nil
}

// HandleOffsetChange replaces whatever the launcher sent with the emulated offset
func (p *Paging) HandleOffsetChange(state *wallpaper.OffsetState) {
	*state = p.state()
}

// UpdateState animates toward the target screen
func (p *Paging) UpdateState(dt time.Duration) {
	if p.current == p.target {
		return
	}

	if p.speed <= 0 {
		p.current = p.target
	} else {
		p.current = moveTowards(p.current, p.target, p.speed*dt.Seconds())
	}
	p.publish()
}

// SetPixelRange sets the pixel distance between the first and last screen,
// usually the surface width
func (p *Paging) SetPixelRange(width int) {
	p.pixelRange = width
}

// Screens returns the number of emulated home screens
func (p *Paging) Screens() int {
	return p.screens
}

// Screen returns the home screen the emulator is moving to
func (p *Paging) Screen() int {
	if p.screens <= 1 {
		return 0
	}
	return int(math.Round(p.target / p.step()))
}

// Next moves to the next home screen, if any
func (p *Paging) Next() {
	p.GoTo(p.Screen() + 1)
}

// Previous moves to the previous home screen, if any
func (p *Paging) Previous() {
	p.GoTo(p.Screen() - 1)
}

// GoTo moves to home screen i, clamped to the valid range
func (p *Paging) GoTo(i int) {
	if p.screens <= 1 {
		return
	}
	i = max(0, min(i, p.screens-1))
	p.target = float64(i) * p.step()
}

func (p *Paging) step() float64 {
	if p.screens <= 1 {
		return 1
	}
	return 1 / float64(p.screens-1)
}

func (p *Paging) state() wallpaper.OffsetState {
	var step float64
	if p.screens > 1 {
		step = p.step()
	}

	return wallpaper.OffsetState{
		Offset:      wallpaper.Vector2{X: p.current},
		OffsetStep:  wallpaper.Vector2{X: step},
		PixelOffset: wallpaper.Point{X: -int(math.Round(p.current * float64(p.pixelRange)))},
	}
}

func (p *Paging) publish() {
	if p.push != nil {
		p.push(p.state())
	}
}
