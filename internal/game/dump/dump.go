// Package dump prints a board snapshot for debugging, either as an aligned
// text report or as YAML.
package dump

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/HiveBoard/internal/game"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
)

// Format selects the dump output
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "text" or "yaml"; empty means text
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown dump format %q", s)
	}
}

// Write dumps snap in the given format
func Write(w io.Writer, snap game.Snapshot, format Format) error {
	if format == FormatYAML {
		return YAML(w, snap)
	}
	return Text(w, snap)
}

// Text writes a "Grid debug" section listing every cell and its links, then
// a "Piece debug" section listing every piece and its stack position.
func Text(w io.Writer, snap game.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Grid debug: %s cells\n", humanize.Comma(int64(len(snap.Cells))))
	fmt.Fprintln(tw, "id\tcoord\tanchor\tlinks\t")
	for _, c := range snap.Cells {
		fmt.Fprintf(tw, "%d\t%s\t(%.1f, %.1f)\t%s\t\n",
			c.ID, cellLabel(c, snap.StagingCell), c.Anchor.X, c.Anchor.Y, links(c))
	}

	fmt.Fprintf(tw, "\nPiece debug: %s pieces, %s left in pool\n",
		humanize.Comma(int64(len(snap.Pieces))), humanize.Comma(int64(snap.Remaining)))
	fmt.Fprintln(tw, "id\tkind\tcell\tlayer\tcovers\tcovered by\tbadge\t")
	for _, p := range snap.Pieces {
		layer := "-"
		if p.IsPlaced() {
			layer = humanize.Ordinal(Layer(snap.Pieces, p.ID))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			p.ID, p.Kind, cellRef(p.Cell), layer, pieceRef(p.Covers), pieceRef(p.CoveredBy), cellRef(p.Badge))
	}

	if held := snap.Held; held != core.NoPiece {
		fmt.Fprintf(tw, "\nHolding piece %d from %s\n", held, snap.Origin)
	}
	return tw.Flush()
}

// Layer returns the 1-based stack height of id within pieces
func Layer(pieces []core.Piece, id core.PieceID) int {
	layer := 0
	for cur := id; cur >= 0 && int(cur) < len(pieces); cur = pieces[cur].Covers {
		layer++
	}
	return layer
}

func cellLabel(c core.Cell, staging core.CellID) string {
	switch {
	case c.OnGrid:
		return c.Coord.String()
	case c.ID == staging:
		return "staging"
	default:
		return "badge"
	}
}

func links(c core.Cell) string {
	var parts []string
	for d, n := range c.Neighbors {
		if n != core.NoCell {
			parts = append(parts, fmt.Sprintf("%s:%d", core.Direction(d), n))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func cellRef(id core.CellID) string {
	if id == core.NoCell {
		return "-"
	}
	return fmt.Sprint(int(id))
}

func pieceRef(id core.PieceID) string {
	if id == core.NoPiece {
		return "-"
	}
	return fmt.Sprint(int(id))
}

type yamlSnapshot struct {
	Session string      `yaml:"session"`
	Phase   string      `yaml:"phase"`
	Held    *int        `yaml:"held,omitempty"`
	Origin  string      `yaml:"origin,omitempty"`
	Applied int         `yaml:"applied"`
	Pool    yamlPool    `yaml:"pool"`
	Cells   []yamlCell  `yaml:"cells"`
	Pieces  []yamlPiece `yaml:"pieces"`
}

type yamlPool struct {
	Cursor    int             `yaml:"cursor"`
	Remaining int             `yaml:"remaining"`
	Groups    []yamlPoolGroup `yaml:"groups"`
}

type yamlPoolGroup struct {
	Kind  string `yaml:"kind"`
	Count int    `yaml:"count"`
}

type yamlCell struct {
	ID        int            `yaml:"id"`
	Label     string         `yaml:"label"`
	Col       *int           `yaml:"col,omitempty"`
	Row       *int           `yaml:"row,omitempty"`
	Anchor    [2]float64     `yaml:"anchor,flow"`
	Neighbors map[string]int `yaml:"neighbors,omitempty"`
}

type yamlPiece struct {
	ID        int    `yaml:"id"`
	Kind      string `yaml:"kind"`
	Cell      int    `yaml:"cell"`
	Layer     int    `yaml:"layer,omitempty"`
	Covers    int    `yaml:"covers"`
	CoveredBy int    `yaml:"covered_by"`
	Badge     int    `yaml:"badge"`
}

// YAML writes the snapshot as a YAML document. Unset references are -1.
func YAML(w io.Writer, snap game.Snapshot) error {
	out := yamlSnapshot{
		Session: snap.Session,
		Phase:   snap.Phase.String(),
		Applied: snap.Applied,
		Pool: yamlPool{
			Cursor:    snap.Cursor,
			Remaining: snap.Remaining,
			Groups:    make([]yamlPoolGroup, 0, len(snap.Pool)),
		},
		Cells:  make([]yamlCell, 0, len(snap.Cells)),
		Pieces: make([]yamlPiece, 0, len(snap.Pieces)),
	}
	if snap.Held != core.NoPiece {
		held := int(snap.Held)
		out.Held = &held
		out.Origin = snap.Origin.String()
	}
	for _, g := range snap.Pool {
		out.Pool.Groups = append(out.Pool.Groups, yamlPoolGroup{Kind: g.Kind.String(), Count: g.Count})
	}
	for _, c := range snap.Cells {
		yc := yamlCell{
			ID:     int(c.ID),
			Label:  cellLabel(c, snap.StagingCell),
			Anchor: [2]float64{c.Anchor.X, c.Anchor.Y},
		}
		if c.OnGrid {
			col, row := c.Coord.Col, c.Coord.Row
			yc.Col, yc.Row = &col, &row
		}
		for d, n := range c.Neighbors {
			if n == core.NoCell {
				continue
			}
			if yc.Neighbors == nil {
				yc.Neighbors = make(map[string]int, core.DirectionCount)
			}
			yc.Neighbors[core.Direction(d).String()] = int(n)
		}
		out.Cells = append(out.Cells, yc)
	}
	for _, p := range snap.Pieces {
		yp := yamlPiece{
			ID:        int(p.ID),
			Kind:      p.Kind.String(),
			Cell:      int(p.Cell),
			Covers:    int(p.Covers),
			CoveredBy: int(p.CoveredBy),
			Badge:     int(p.Badge),
		}
		if p.IsPlaced() {
			yp.Layer = Layer(snap.Pieces, p.ID)
		}
		out.Pieces = append(out.Pieces, yp)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return enc.Close()
}
