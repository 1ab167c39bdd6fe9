package core

import "fmt"

// CellID is a stable index into the Grid's cell arena
type CellID int

// NoCell marks an unset cell reference
const NoCell CellID = -1

// Point is a display anchor. The core passes it through without interpreting it.
type Point struct {
	X, Y float64
}

// Add returns the sum of two points
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Cell is a hex location. Cells placed in the Grid carry a coordinate;
// detached cells (staging area, stack badges) do not and never expand.
type Cell struct {
	ID        CellID
	Coord     Axial
	OnGrid    bool
	Anchor    Point
	Neighbors [DirectionCount]CellID
}

func newCell(id CellID, anchor Point) Cell {
	c := Cell{ID: id, Anchor: anchor}
	for d := range c.Neighbors {
		c.Neighbors[d] = NoCell
	}
	return c
}

// Coordinate returns the cell's axial coordinate, or false for detached cells
func (c Cell) Coordinate() (Axial, bool) {
	return c.Coord, c.OnGrid
}

// Neighbor returns the linked cell in direction d, if any
func (c Cell) Neighbor(d Direction) (CellID, bool) {
	if !d.Valid() || c.Neighbors[d] == NoCell {
		return NoCell, false
	}
	return c.Neighbors[d], true
}

// LinkCount returns how many of the six neighbor slots are resolved
func (c Cell) LinkCount() int {
	n := 0
	for _, id := range c.Neighbors {
		if id != NoCell {
			n++
		}
	}
	return n
}

func (c Cell) String() string {
	if !c.OnGrid {
		return fmt.Sprintf("Cell %d: detached, Pos: (%g, %g)", c.ID, c.Anchor.X, c.Anchor.Y)
	}
	return fmt.Sprintf("Cell %d: %s, Pos: (%g, %g)", c.ID, c.Coord, c.Anchor.X, c.Anchor.Y)
}
