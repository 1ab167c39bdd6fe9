// Package pool models a player's supply of unplayed pieces: an ordered list
// of (kind, remaining) groups and a cursor naming the group drawn from next.
package pool

import (
	"fmt"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
)

// Group is one kind in the pool and how many of it remain
type Group struct {
	Kind  core.Kind
	Count int
}

// StandardInventory returns the base-game set: one queen, two spiders,
// two beetles, three grasshoppers and three ants.
func StandardInventory() []Group {
	return []Group{
		{Kind: core.KindQueen, Count: 1},
		{Kind: core.KindSpider, Count: 2},
		{Kind: core.KindBeetle, Count: 2},
		{Kind: core.KindGrasshopper, Count: 3},
		{Kind: core.KindAnt, Count: 3},
	}
}

// Pool tracks kinds and counts only; piece instances are created by the caller.
// The cursor always indexes a non-empty group unless the pool is exhausted.
type Pool struct {
	groups []Group
	cursor int
}

// New builds a pool from an inventory. Groups with a zero count are skipped.
func New(inventory []Group) (*Pool, error) {
	p := &Pool{groups: make([]Group, 0, len(inventory))}
	for i, g := range inventory {
		if !g.Kind.Valid() {
			return nil, fmt.Errorf("%w: group %d has kind %d", core.ErrInvalidInventory, i, int(g.Kind))
		}
		if g.Count < 0 {
			return nil, fmt.Errorf("%w: group %d (%s) has negative count %d", core.ErrInvalidInventory, i, g.Kind, g.Count)
		}
		if g.Count == 0 {
			continue
		}
		p.groups = append(p.groups, g)
	}
	return p, nil
}

// Peek returns the kind at the cursor, or false when the pool is exhausted
func (p *Pool) Peek() (core.Kind, bool) {
	if len(p.groups) == 0 {
		return 0, false
	}
	return p.groups[p.cursor].Kind, true
}

// Draw removes one unit from the cursor group. An emptied group is deleted
// and the cursor wraps to stay in range.
func (p *Pool) Draw() (core.Kind, error) {
	if len(p.groups) == 0 {
		return 0, core.ErrOutOfPieces
	}
	g := &p.groups[p.cursor]
	kind := g.Kind
	g.Count--
	if g.Count == 0 {
		p.groups = append(p.groups[:p.cursor], p.groups[p.cursor+1:]...)
		if len(p.groups) == 0 {
			p.cursor = 0
		} else {
			p.cursor %= len(p.groups)
		}
	}
	return kind, nil
}

// Advance moves the cursor to the next group without drawing and returns the new peek
func (p *Pool) Advance() (core.Kind, bool) {
	if len(p.groups) == 0 {
		p.cursor = 0
		return 0, false
	}
	p.cursor = (p.cursor + 1) % len(p.groups)
	return p.Peek()
}

// Cursor returns the index of the current group
func (p *Pool) Cursor() int {
	return p.cursor
}

// Groups returns a copy of the remaining groups in order
func (p *Pool) Groups() []Group {
	out := make([]Group, len(p.groups))
	copy(out, p.groups)
	return out
}

// Remaining returns the total number of undrawn pieces
func (p *Pool) Remaining() int {
	total := 0
	for _, g := range p.groups {
		total += g.Count
	}
	return total
}

// Exhausted reports whether nothing is left to draw
func (p *Pool) Exhausted() bool {
	return len(p.groups) == 0
}
