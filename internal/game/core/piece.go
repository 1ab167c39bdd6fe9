package core

import (
	"fmt"
	"strings"
)

// Kind is the closed set of piece types. The core treats kinds as opaque
// tags; per-kind appearance belongs to the renderer.
type Kind int

const (
	KindQueen Kind = iota
	KindSpider
	KindBeetle
	KindGrasshopper
	KindAnt

	kindCount
)

var kindNames = [kindCount]string{"Queen", "Spider", "Beetle", "Grasshopper", "Ant"}
var kindSymbols = [kindCount]string{"Q", "S", "B", "G", "A"}

// AllKinds returns every kind in declaration order
func AllKinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Symbol returns the one-letter notation for the kind
func (k Kind) Symbol() string {
	if !k.Valid() {
		return "?"
	}
	return kindSymbols[k]
}

// ParseKind accepts a kind symbol ("Q") or name ("queen", "bee" for the queen)
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for k := Kind(0); k < kindCount; k++ {
		if strings.EqualFold(s, kindSymbols[k]) || strings.EqualFold(s, kindNames[k]) {
			return k, nil
		}
	}
	if strings.EqualFold(s, "bee") {
		return KindQueen, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// PieceID is a stable index into the Table's piece arena
type PieceID int

// NoPiece marks an unset piece reference
const NoPiece PieceID = -1

// Piece is a stackable token. Covers is the piece directly beneath it,
// CoveredBy the piece directly on top.
type Piece struct {
	ID        PieceID
	Kind      Kind
	Cell      CellID
	Badge     CellID
	Covers    PieceID
	CoveredBy PieceID

	// badge slot allocated on first placement and reused afterwards
	badgeSlot CellID
}

// IsPlaced reports whether the piece occupies a cell
func (p Piece) IsPlaced() bool {
	return p.Cell != NoCell
}

// IsCovered reports whether another piece sits on top of this one
func (p Piece) IsCovered() bool {
	return p.CoveredBy != NoPiece
}

func (p Piece) String() string {
	on := "none"
	if p.Covers != NoPiece {
		on = fmt.Sprintf("piece %d", p.Covers)
	}
	return fmt.Sprintf("%s %d - cell %d, on: %s", p.Kind, p.ID, p.Cell, on)
}
