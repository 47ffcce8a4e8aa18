package ui

import (
	"github.com/bnema/wallhub/internal/wallpaper"
)

// TerminalSurface maps the terminal window to a pixel surface, one cell being
// CellWidth by CellHeight pixels
type TerminalSurface struct {
	cellWidth  int
	cellHeight int
	cols       int
	rows       int
}

// NewTerminalSurface creates a surface with the given cell size in pixels
func NewTerminalSurface(cellWidth, cellHeight int) *TerminalSurface {
	return &TerminalSurface{
		cellWidth:  max(1, cellWidth),
		cellHeight: max(1, cellHeight),
	}
}

// Resize sets the terminal size in cells
func (s *TerminalSurface) Resize(cols, rows int) {
	s.cols = max(0, cols)
	s.rows = max(0, rows)
}

// Size implements wallpaper.Surface
func (s *TerminalSurface) Size() wallpaper.Size {
	return wallpaper.Size{
		Width:  s.cols * s.cellWidth,
		Height: s.rows * s.cellHeight,
	}
}

// CellCenter returns the pixel position at the center of a terminal cell
func (s *TerminalSurface) CellCenter(col, row int) wallpaper.Vector2 {
	return wallpaper.Vector2{
		X: float64(col*s.cellWidth) + float64(s.cellWidth)/2,
		Y: float64(row*s.cellHeight) + float64(s.cellHeight)/2,
	}
}

var _ wallpaper.Surface = (*TerminalSurface)(nil)
