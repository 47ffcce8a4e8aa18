package wallpaper

import "math"

// Vector2 is a 2D float vector
type Vector2 struct {
	X float64
	Y float64
}

// Point is a 2D integer vector
type Point struct {
	X int
	Y int
}

// Size is a surface size in pixels
type Size struct {
	Width  int
	Height int
}

// Diagonal returns the average of width and height, used to scale tap distances
func (s Size) Diagonal() float64 {
	return float64(s.Width+s.Height) / 2
}

// OffsetState is the wallpaper offset as reported by the launcher.
//
// Offset and OffsetStep are normalized to [0, 1], with an offset of 0.5 being the
// center. An OffsetStep.X of 0.25 means the launcher pages across five home screens
// (0, 0.25, 0.5, 0.75, 1). PixelOffset is how far, in pixels, the launcher wants the
// imagery shifted for the current screen.
type OffsetState struct {
	Offset      Vector2
	OffsetStep  Vector2
	PixelOffset Point
}

// MaxHomeScreens caps HomeScreenCount for degenerate steps
const MaxHomeScreens = math.MaxInt32

// HomeScreenCount returns the number of launcher home screens, from 1 to
// MaxHomeScreens. A launcher with a single screen reports an OffsetStep.X of 0.
func (s OffsetState) HomeScreenCount() int {
	if !(s.OffsetStep.X > 0) {
		return 1
	}
	n := math.RoundToEven(1/s.OffsetStep.X) + 1
	if n > MaxHomeScreens {
		return MaxHomeScreens
	}
	return int(n)
}

// CurrentHomeScreen returns the current home screen, from 0 to HomeScreenCount()-1
func (s OffsetState) CurrentHomeScreen() int {
	return int(math.RoundToEven(s.Offset.X * float64(s.HomeScreenCount()-1)))
}

// normalized clamps Offset and OffsetStep into [0, 1]
func (s OffsetState) normalized() OffsetState {
	s.Offset = Vector2{X: clamp01(s.Offset.X), Y: clamp01(s.Offset.Y)}
	s.OffsetStep = Vector2{X: clamp01(s.OffsetStep.X), Y: clamp01(s.OffsetStep.Y)}
	return s
}

// DefaultOffsetState is a centered offset on a single home screen
func DefaultOffsetState() OffsetState {
	return OffsetState{
		Offset: Vector2{X: 0.5, Y: 0},
	}
}

// CustomEvent is an opaque event forwarded from the native side
type CustomEvent struct {
	Name string
	Data string
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func distance(a, b Vector2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
