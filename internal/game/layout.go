package game

import (
	"math"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
)

// Layout maps axial coordinates of a flat-topped hex grid to display anchors.
// Origin is where (0,0) is drawn.
type Layout struct {
	Radius float64
	Origin core.Point
}

// DefaultLayout centres a radius-50 grid on an 800x600 surface
func DefaultLayout() Layout {
	return Layout{Radius: 50, Origin: core.Point{X: 400, Y: 300}}
}

func (l Layout) spacing() (float64, float64) {
	return l.Radius * 2 * 3 / 4, math.Sqrt(3) / 2 * l.Radius * 2
}

// Anchor returns the centre of coord
func (l Layout) Anchor(coord core.Axial) core.Point {
	dx, dy := l.spacing()
	col, row := float64(coord.Col), float64(coord.Row)
	return core.Point{
		X: col*dx + l.Origin.X,
		Y: row*dy + l.Origin.Y + col*dy/2,
	}
}

// Nearest returns the coordinate whose centre is roughly closest to p
func (l Layout) Nearest(p core.Point) core.Axial {
	dx, dy := l.spacing()
	colF := (p.X - (l.Origin.X - dx/2)) / dx
	col := math.Floor(colF)
	row := math.Round((p.Y - l.Origin.Y - col*dy/2) / dy)
	return core.Axial{Col: int(col), Row: int(row)}
}
