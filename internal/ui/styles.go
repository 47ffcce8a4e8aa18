// Package ui provides the terminal preview and shared styling for the wallhub CLI
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary = lipgloss.Color("39")  // Bright blue
	ColorSuccess = lipgloss.Color("82")  // Green
	ColorError   = lipgloss.Color("196") // Red
	ColorInfo    = lipgloss.Color("86")  // Cyan

	ColorText      = lipgloss.Color("252") // Light gray
	ColorSubtle    = lipgloss.Color("241") // Medium gray
	ColorHighlight = lipgloss.Color("255") // White
)

// Base styles
var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	ControlKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	ControlDescStyle = lipgloss.NewStyle().
				Foreground(ColorText)
)

// Preview styles
var (
	TitleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(14)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	OnIndicator = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Render("●")

	OffIndicator = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Render("○")
)

// Icons
var (
	IconSuccess = "✓"
	IconError   = "✗"
	IconSetup   = "»"
	IconTap     = "◎"
)

// FormatControl renders a key binding hint
func FormatControl(key, desc string) string {
	return ControlKeyStyle.Render(key) + " " + ControlDescStyle.Render(desc)
}

// FormatFlag renders a boolean as an indicator followed by a label
func FormatFlag(on bool, label string) string {
	if on {
		return OnIndicator + " " + label
	}
	return OffIndicator + " " + label
}

// FormatField renders one "label value" row of a panel
func FormatField(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

// FormatHomeScreens renders one dot per home screen, highlighting current.
// Very large counts collapse to a numeric form.
func FormatHomeScreens(count, current int) string {
	if count < 1 {
		count = 1
	}
	if count > 24 {
		return fmt.Sprintf("%d / %d", current+1, count)
	}

	dots := make([]string, count)
	for i := range dots {
		if i == current {
			dots[i] = OnIndicator
		} else {
			dots[i] = OffIndicator
		}
	}
	return strings.Join(dots, " ")
}

// FormatSetupHeader renders a section header followed by a separator
func FormatSetupHeader(title string) string {
	coloredIcon := InfoStyle.Render(IconSetup)
	header := HeaderStyle.MarginBottom(0).Render(coloredIcon + " " + title)
	return header + "\n" + CreateSeparator(50, "─")
}

// FormatSetupResult renders the outcome of a setup step
func FormatSetupResult(success bool, step, message string) string {
	icon := SuccessStyle.Render(IconSuccess)
	style := SuccessStyle
	if !success {
		icon = ErrorStyle.Render(IconError)
		style = ErrorStyle
	}

	result := "   " + icon + " " + step
	if message != "" {
		result += " - " + style.Render(message)
	}
	return result
}

// CreateSeparator creates a horizontal line separator
func CreateSeparator(width int, char string) string {
	if width <= 0 {
		width = 50
	}
	if char == "" {
		char = "─"
	}

	return lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Render(strings.Repeat(char, width))
}
