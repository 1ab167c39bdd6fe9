package core

import "fmt"

// Axial represents a position on the hex grid using axial (column, row) coordinates
type Axial struct {
	Col, Row int
}

// NewAxial creates a new axial coordinate with the given column and row
func NewAxial(col, row int) Axial {
	return Axial{Col: col, Row: row}
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (a Axial) Add(other Axial) Axial {
	return Axial{
		Col: a.Col + other.Col,
		Row: a.Row + other.Row,
	}
}

// Sub returns a new coordinate that is the difference between this coordinate and another
func (a Axial) Sub(other Axial) Axial {
	return Axial{
		Col: a.Col - other.Col,
		Row: a.Row - other.Row,
	}
}

// Neg returns the coordinate mirrored through the origin
func (a Axial) Neg() Axial {
	return Axial{Col: -a.Col, Row: -a.Row}
}

// DistanceTo returns the hex distance to another coordinate
func (a Axial) DistanceTo(other Axial) int {
	dc := abs(a.Col - other.Col)
	dr := abs(a.Row - other.Row)
	ds := abs((a.Col + a.Row) - (other.Col + other.Row))
	max := dc
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// IsAdjacentTo checks if this coordinate shares an edge with another
func (a Axial) IsAdjacentTo(other Axial) bool {
	return a.DistanceTo(other) == 1
}

// Neighbors returns the six adjacent coordinates in direction order
func (a Axial) Neighbors() [DirectionCount]Axial {
	var result [DirectionCount]Axial
	for d := North; d < DirectionCount; d++ {
		result[d] = a.Move(d)
	}
	return result
}

// String returns a string representation of the coordinate
func (a Axial) String() string {
	return fmt.Sprintf("(%d,%d)", a.Col, a.Row)
}

// Direction names one of the six edges of a hex cell.
// Directions are ordered so that consecutive values are adjacent on the ring.
type Direction int

const (
	North Direction = iota
	NorthEast
	SouthEast
	South
	SouthWest
	NorthWest

	DirectionCount = 6
)

// NoDirection is returned by DirectionTo for coordinates that are not adjacent
const NoDirection Direction = -1

// DirectionVectors provides coordinate offsets for each direction
var DirectionVectors = [DirectionCount]Axial{
	North:     {Col: 0, Row: -1},
	NorthEast: {Col: 1, Row: -1},
	SouthEast: {Col: 1, Row: 0},
	South:     {Col: 0, Row: 1},
	SouthWest: {Col: -1, Row: 1},
	NorthWest: {Col: -1, Row: 0},
}

// RingDirections maps a ring position around a center to the direction leading
// from the neighbor at that position to the neighbor at the next position.
var RingDirections = [DirectionCount]Direction{
	North:     SouthEast,
	NorthEast: South,
	SouthEast: SouthWest,
	South:     NorthWest,
	SouthWest: North,
	NorthWest: NorthEast,
}

var directionNames = [DirectionCount]string{"N", "NE", "SE", "S", "SW", "NW"}

// String returns the compass abbreviation of the direction
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Valid reports whether d is one of the six directions
func (d Direction) Valid() bool {
	return d >= North && d < DirectionCount
}

// Opposite returns the direction pointing back along the same edge
func (d Direction) Opposite() Direction {
	return (d + DirectionCount/2) % DirectionCount
}

// Next returns the following direction clockwise around the ring
func (d Direction) Next() Direction {
	return (d + 1) % DirectionCount
}

// Vector returns the coordinate offset for the direction
func (d Direction) Vector() Axial {
	return DirectionVectors[d]
}

// Move returns a new coordinate moved one step in the given direction
func (a Axial) Move(d Direction) Axial {
	if !d.Valid() {
		return a
	}
	return a.Add(DirectionVectors[d])
}

// DirectionTo returns the direction from this coordinate to an adjacent coordinate.
// Returns NoDirection if the coordinates are not adjacent.
func (a Axial) DirectionTo(other Axial) Direction {
	delta := other.Sub(a)
	for d, v := range DirectionVectors {
		if v == delta {
			return Direction(d)
		}
	}
	return NoDirection
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
