package core

// Table holds every piece created during a session and enforces the
// stacking rules against a Grid. A grid cell holds at most one tower; the
// tower itself is a singly linked chain through Covers/CoveredBy.
type Table struct {
	grid        *Grid
	pieces      []Piece
	occupant    map[CellID]PieceID
	stackOffset Point
}

// Placement reports what a successful placement changed
type Placement struct {
	Piece     PieceID
	From      CellID
	To        CellID
	Uncovered PieceID
	Expanded  []CellID
}

// NewTable creates an empty table over grid. stackOffset is the nudge applied
// to a piece's cell anchor to position its badge.
func NewTable(grid *Grid, stackOffset Point) *Table {
	return &Table{
		grid:        grid,
		pieces:      make([]Piece, 0, 16),
		occupant:    make(map[CellID]PieceID),
		stackOffset: stackOffset,
	}
}

// Grid returns the grid the table places pieces on
func (t *Table) Grid() *Grid {
	return t.grid
}

// NewPiece creates an unplaced piece of the given kind
func (t *Table) NewPiece(kind Kind) (PieceID, error) {
	if !kind.Valid() {
		return NoPiece, ErrInvalidKind
	}
	id := PieceID(len(t.pieces))
	t.pieces = append(t.pieces, Piece{
		ID:        id,
		Kind:      kind,
		Cell:      NoCell,
		Badge:     NoCell,
		Covers:    NoPiece,
		CoveredBy: NoPiece,
		badgeSlot: NoCell,
	})
	return id, nil
}

// Piece returns a copy of the piece with the given id
func (t *Table) Piece(id PieceID) (Piece, bool) {
	if !t.valid(id) {
		return Piece{}, false
	}
	return t.pieces[id], true
}

// Pieces returns copies of all pieces in creation order
func (t *Table) Pieces() []Piece {
	out := make([]Piece, len(t.pieces))
	copy(out, t.pieces)
	return out
}

// Len returns the number of pieces created so far
func (t *Table) Len() int {
	return len(t.pieces)
}

// OccupantOf returns the bottom piece standing on a grid cell
func (t *Table) OccupantOf(cell CellID) (PieceID, bool) {
	id, ok := t.occupant[cell]
	return id, ok
}

// Unstack detaches a piece from whatever it covers and clears its badge.
// A covered piece cannot be detached; the call fails before touching any link.
func (t *Table) Unstack(id PieceID) error {
	if !t.valid(id) {
		return ErrUnknownPiece
	}
	if t.pieces[id].IsCovered() {
		return ErrStackViolation
	}
	t.unstack(id)
	return nil
}

func (t *Table) unstack(id PieceID) PieceID {
	p := &t.pieces[id]
	below := p.Covers
	if below != NoPiece {
		t.pieces[below].CoveredBy = NoPiece
		p.Covers = NoPiece
	}
	p.Badge = NoCell
	return below
}

// PlaceOnCell moves a piece onto cell, growing the grid around it when the
// cell has a coordinate. The piece is unstacked first, so a covered piece
// can never move.
func (t *Table) PlaceOnCell(id PieceID, cell CellID) (Placement, error) {
	if !t.valid(id) {
		return Placement{}, ErrUnknownPiece
	}
	target, ok := t.grid.Cell(cell)
	if !ok {
		return Placement{}, ErrUnknownCell
	}
	if t.pieces[id].IsCovered() {
		return Placement{}, ErrStackViolation
	}
	if target.OnGrid {
		if other, taken := t.occupant[cell]; taken && other != id {
			return Placement{}, ErrCellOccupied
		}
	}
	return t.place(id, target)
}

func (t *Table) place(id PieceID, target Cell) (Placement, error) {
	res := Placement{Piece: id, From: t.pieces[id].Cell, To: target.ID}
	res.Uncovered = t.unstack(id)

	p := &t.pieces[id]
	if p.Cell != NoCell && t.occupant[p.Cell] == id {
		delete(t.occupant, p.Cell)
	}
	p.Cell = target.ID
	if target.OnGrid {
		t.occupant[target.ID] = id
	}

	badgeAnchor := target.Anchor.Add(t.stackOffset)
	if p.badgeSlot == NoCell {
		p.badgeSlot = t.grid.AddDetached(badgeAnchor)
	} else if err := t.grid.MoveDetached(p.badgeSlot, badgeAnchor); err != nil {
		return res, err
	}
	p.Badge = p.badgeSlot

	if target.OnGrid {
		created, err := t.grid.EnsureExpanded(target.ID)
		if err != nil {
			return res, err
		}
		res.Expanded = created
	}
	return res, nil
}

// StackOn places top onto bottom's badge cell and links the pair.
// Stacking a piece onto itself is a no-op.
func (t *Table) StackOn(top, bottom PieceID) (Placement, error) {
	if !t.valid(top) || !t.valid(bottom) {
		return Placement{}, ErrUnknownPiece
	}
	if top == bottom {
		return Placement{Piece: top, From: t.pieces[top].Cell, To: t.pieces[top].Cell, Uncovered: NoPiece}, nil
	}
	if t.pieces[top].IsCovered() {
		return Placement{}, ErrStackViolation
	}
	under := t.pieces[bottom]
	if under.IsCovered() {
		return Placement{}, ErrTargetCovered
	}
	if under.Badge == NoCell {
		return Placement{}, ErrPieceNotPlaced
	}
	badge, ok := t.grid.Cell(under.Badge)
	if !ok {
		return Placement{}, ErrUnknownCell
	}

	res, err := t.place(top, badge)
	if err != nil {
		return res, err
	}
	t.pieces[bottom].CoveredBy = top
	t.pieces[top].Covers = bottom
	return res, nil
}

// TopOfStack follows CoveredBy links to the outermost piece of the tower
func (t *Table) TopOfStack(id PieceID) PieceID {
	if !t.valid(id) {
		return NoPiece
	}
	for steps := 0; t.pieces[id].CoveredBy != NoPiece && steps < len(t.pieces); steps++ {
		id = t.pieces[id].CoveredBy
	}
	return id
}

// BottomOfStack follows Covers links to the piece standing on the cell
func (t *Table) BottomOfStack(id PieceID) PieceID {
	if !t.valid(id) {
		return NoPiece
	}
	for steps := 0; t.pieces[id].Covers != NoPiece && steps < len(t.pieces); steps++ {
		id = t.pieces[id].Covers
	}
	return id
}

// Tower lists the stack containing id from bottom to top
func (t *Table) Tower(id PieceID) []PieceID {
	if !t.valid(id) {
		return nil
	}
	var tower []PieceID
	for cur := t.BottomOfStack(id); cur != NoPiece && len(tower) < len(t.pieces); cur = t.pieces[cur].CoveredBy {
		tower = append(tower, cur)
	}
	return tower
}

func (t *Table) valid(id PieceID) bool {
	return id >= 0 && int(id) < len(t.pieces)
}
