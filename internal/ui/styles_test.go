package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestFormatControl(t *testing.T) {
	got := FormatControl("q", "quit")
	assert.Contains(t, got, "q")
	assert.Contains(t, got, "quit")
}

func TestFormatFlag(t *testing.T) {
	assert.Contains(t, FormatFlag(true, "visible"), "●")
	assert.Contains(t, FormatFlag(false, "visible"), "○")
	assert.Contains(t, FormatFlag(false, "visible"), "visible")
}

func TestFormatHomeScreens(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		current int
		filled  int
		empty   int
	}{
		{name: "single screen", count: 1, current: 0, filled: 1, empty: 0},
		{name: "middle of five", count: 5, current: 2, filled: 1, empty: 4},
		{name: "current out of range", count: 3, current: 7, filled: 0, empty: 3},
		{name: "non-positive count shows one screen", count: -5, current: 0, filled: 1, empty: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatHomeScreens(tt.count, tt.current)
			assert.Equal(t, tt.filled, strings.Count(got, "●"))
			assert.Equal(t, tt.empty, strings.Count(got, "○"))
		})
	}

	t.Run("large counts are numeric", func(t *testing.T) {
		assert.Equal(t, "4 / 100", FormatHomeScreens(100, 3))
	})

	t.Run("maximum count is numeric", func(t *testing.T) {
		assert.Equal(t, "2147483647 / 2147483647", FormatHomeScreens(math.MaxInt32, math.MaxInt32-1))
	})
}

func TestFormatSetupResult(t *testing.T) {
	ok := FormatSetupResult(true, "Tap detector", "saved")
	assert.Contains(t, ok, IconSuccess)
	assert.Contains(t, ok, "Tap detector")
	assert.Contains(t, ok, "saved")

	failed := FormatSetupResult(false, "Emulator", "")
	assert.Contains(t, failed, IconError)
	assert.NotContains(t, failed, " - ")
}

func TestCreateSeparator(t *testing.T) {
	tests := []struct {
		name  string
		width int
		char  string
		want  int
	}{
		{name: "explicit width", width: 10, char: "=", want: 10},
		{name: "default width", width: 0, char: "-", want: 50},
		{name: "default char", width: 5, char: "", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateSeparator(tt.width, tt.char)
			assert.Equal(t, tt.want, lipgloss.Width(got))
		})
	}
}
