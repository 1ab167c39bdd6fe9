package core

// AnchorFunc maps an axial coordinate to its display anchor.
// It is supplied by the rendering side; the grid only stores the result.
type AnchorFunc func(Axial) Point

// Grid is the lazily expanding hex lattice. Cells live in an arena and are
// never removed; neighbor links are always set in both directions.
type Grid struct {
	cells  []Cell
	index  map[Axial]CellID
	anchor AnchorFunc
}

// NewGrid creates a grid holding only the origin cell
func NewGrid(anchor AnchorFunc) *Grid {
	if anchor == nil {
		anchor = func(Axial) Point { return Point{} }
	}
	g := &Grid{
		cells:  make([]Cell, 0, 64),
		index:  make(map[Axial]CellID),
		anchor: anchor,
	}
	g.materialize(Axial{})
	return g
}

// Origin returns the cell at (0,0)
func (g *Grid) Origin() CellID {
	return g.index[Axial{}]
}

// CellAt looks up the cell at coord. Unmaterialized coordinates report false.
func (g *Grid) CellAt(coord Axial) (CellID, bool) {
	id, ok := g.index[coord]
	if !ok {
		return NoCell, false
	}
	return id, true
}

// Cell returns a copy of the cell with the given id
func (g *Grid) Cell(id CellID) (Cell, bool) {
	if !g.valid(id) {
		return Cell{}, false
	}
	return g.cells[id], true
}

// Cells returns copies of every cell in allocation order, detached cells included
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// GridCells returns copies of the cells that carry coordinates
func (g *Grid) GridCells() []Cell {
	out := make([]Cell, 0, len(g.index))
	for _, c := range g.cells {
		if c.OnGrid {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of materialized grid cells
func (g *Grid) Len() int {
	return len(g.index)
}

// AddDetached allocates a cell with no coordinate. It is never indexed or expanded.
func (g *Grid) AddDetached(anchor Point) CellID {
	id := CellID(len(g.cells))
	g.cells = append(g.cells, newCell(id, anchor))
	return id
}

// MoveDetached repositions a detached cell
func (g *Grid) MoveDetached(id CellID, anchor Point) error {
	if !g.valid(id) {
		return ErrUnknownCell
	}
	if g.cells[id].OnGrid {
		return ErrCellOnGrid
	}
	g.cells[id].Anchor = anchor
	return nil
}

// EnsureExpanded guarantees all six neighbors of a grid cell exist and that
// consecutive neighbors around it are linked to each other. It returns the
// cells created by this call. Detached cells are left untouched.
func (g *Grid) EnsureExpanded(id CellID) ([]CellID, error) {
	if !g.valid(id) {
		return nil, ErrUnknownCell
	}
	center := g.cells[id]
	if !center.OnGrid {
		return nil, nil
	}

	var created []CellID
	var ring [DirectionCount]CellID
	for d := North; d < DirectionCount; d++ {
		coord := center.Coord.Move(d)
		n, ok := g.index[coord]
		if !ok {
			n = g.materialize(coord)
			created = append(created, n)
		}
		g.link(id, n, d)
		ring[d] = n
	}

	// A neighbor created while expanding some other center only knows that
	// center; walk the ring so each neighbor learns the next one.
	for d := North; d < DirectionCount; d++ {
		g.link(ring[d], ring[d.Next()], RingDirections[d])
	}

	return created, nil
}

// IsExpanded reports whether all six neighbor slots of the cell are linked
func (g *Grid) IsExpanded(id CellID) bool {
	if !g.valid(id) {
		return false
	}
	return g.cells[id].LinkCount() == DirectionCount
}

// link sets a→b in direction d and b→a in the opposite direction
func (g *Grid) link(a, b CellID, d Direction) {
	g.cells[a].Neighbors[d] = b
	g.cells[b].Neighbors[d.Opposite()] = a
}

func (g *Grid) materialize(coord Axial) CellID {
	id := CellID(len(g.cells))
	c := newCell(id, g.anchor(coord))
	c.Coord = coord
	c.OnGrid = true
	g.cells = append(g.cells, c)
	g.index[coord] = id
	return id
}

func (g *Grid) valid(id CellID) bool {
	return id >= 0 && int(id) < len(g.cells)
}
