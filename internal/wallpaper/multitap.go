package wallpaper

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when a tunable is set outside its valid range
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultNumberOfTaps          = 2
	DefaultMaxTimeBetweenTaps    = 250 * time.Millisecond
	DefaultTapZoneRadiusRelative = 0.15

	MinTapZoneRadiusRelative = 0.01
	MaxTapZoneRadiusRelative = 1.0
)

// Tap is a single tap-down event
type Tap struct {
	Position Vector2
	At       time.Time
}

// MultiTapDetector recognizes a quick sequence of taps close to each other.
//
// Each tap either extends the current streak or, when it lands too far from the
// previous tap or too late after it, starts a new streak of one. Reaching
// NumberOfTaps reports a detection and resets the streak to zero.
type MultiTapDetector struct {
	numberOfTaps          int
	maxTimeBetweenTaps    time.Duration
	tapZoneRadiusRelative float64

	streak int
	recent []Tap
}

// NewMultiTapDetector creates a detector with the default settings
func NewMultiTapDetector() *MultiTapDetector {
	return &MultiTapDetector{
		numberOfTaps:          DefaultNumberOfTaps,
		maxTimeBetweenTaps:    DefaultMaxTimeBetweenTaps,
		tapZoneRadiusRelative: DefaultTapZoneRadiusRelative,
	}
}

// NumberOfTaps returns the number of consecutive taps required for a detection
func (d *MultiTapDetector) NumberOfTaps() int {
	return d.numberOfTaps
}

// SetNumberOfTaps sets the number of consecutive taps required, n >= 1
func (d *MultiTapDetector) SetNumberOfTaps(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: number of taps must be >= 1, got %d", ErrInvalidConfig, n)
	}
	d.numberOfTaps = n
	d.trim()
	return nil
}

// MaxTimeBetweenTaps returns the longest gap allowed between taps of one sequence
func (d *MultiTapDetector) MaxTimeBetweenTaps() time.Duration {
	return d.maxTimeBetweenTaps
}

// SetMaxTimeBetweenTaps sets the longest gap allowed between taps, limit > 0
func (d *MultiTapDetector) SetMaxTimeBetweenTaps(limit time.Duration) error {
	if limit <= 0 {
		return fmt.Errorf("%w: max time between taps must be > 0, got %s", ErrInvalidConfig, limit)
	}
	d.maxTimeBetweenTaps = limit
	return nil
}

// TapZoneRadiusRelative returns the maximum distance between sequential taps,
// relative to the average of screen width and height
func (d *MultiTapDetector) TapZoneRadiusRelative() float64 {
	return d.tapZoneRadiusRelative
}

// SetTapZoneRadiusRelative sets the relative tap zone radius, in [0.01, 1].
// A value of 0.5 allows sequential taps to be half a screen apart.
func (d *MultiTapDetector) SetTapZoneRadiusRelative(r float64) error {
	if !(r >= MinTapZoneRadiusRelative && r <= MaxTapZoneRadiusRelative) {
		return fmt.Errorf("%w: tap zone radius must be in range [%.2f, %.2f], got %v",
			ErrInvalidConfig, MinTapZoneRadiusRelative, MaxTapZoneRadiusRelative, r)
	}
	d.tapZoneRadiusRelative = r
	return nil
}

// TapZoneRadius returns the tap zone radius in pixels for the given screen
func (d *MultiTapDetector) TapZoneRadius(screen Size) float64 {
	return screen.Diagonal() * d.tapZoneRadiusRelative
}

// Streak returns the number of taps in the current sequence
func (d *MultiTapDetector) Streak() int {
	return d.streak
}

// Recent returns up to NumberOfTaps most recent taps, oldest first
func (d *MultiTapDetector) Recent() []Tap {
	out := make([]Tap, len(d.recent))
	copy(out, d.recent)
	return out
}

// Reset drops the current streak and tap history
func (d *MultiTapDetector) Reset() {
	d.streak = 0
	d.recent = nil
}

// Detect records a tap-down at pos and reports whether it completes a multi-tap
func (d *MultiTapDetector) Detect(pos Vector2, screen Size, now time.Time) bool {
	if d.streak > 0 && len(d.recent) > 0 {
		last := d.recent[len(d.recent)-1]

		if distance(pos, last.Position) > d.TapZoneRadius(screen) {
			d.streak = 0
		}
		if now.Sub(last.At) > d.maxTimeBetweenTaps {
			d.streak = 0
		}
	}

	d.recent = append(d.recent, Tap{Position: pos, At: now})
	d.trim()
	d.streak++

	if d.streak >= d.numberOfTaps {
		d.streak = 0
		return true
	}
	return false
}

func (d *MultiTapDetector) trim() {
	if extra := len(d.recent) - d.numberOfTaps; extra > 0 {
		d.recent = append(d.recent[:0:0], d.recent[extra:]...)
	}
}
