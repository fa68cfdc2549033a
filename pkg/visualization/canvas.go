package visualization

import (
	"math"
	"strings"

	"github.com/dd0wney/cluso-vaxsim/pkg/contact"
)

// Glyphs used when rasterizing a scene
const (
	GlyphEdge        = '·'
	GlyphSusceptible = 'o'
	GlyphVaccinated  = 'V'
	GlyphInfected    = '*'
	GlyphSeed        = '@'
)

// Cell is one character of a rasterized scene
type Cell struct {
	Glyph  rune
	Status Status
	Node   bool
}

// Canvas is a fixed-size character grid
type Canvas struct {
	Cols  int
	Rows  int
	Cells []Cell
}

// NewCanvas creates a blank canvas
func NewCanvas(cols, rows int) *Canvas {
	cols, rows = max(cols, 1), max(rows, 1)
	cells := make([]Cell, cols*rows)
	for i := range cells {
		cells[i].Glyph = ' '
	}
	return &Canvas{Cols: cols, Rows: rows, Cells: cells}
}

// At returns the cell at column x, row y
func (c *Canvas) At(x, y int) Cell {
	return c.Cells[y*c.Cols+x]
}

func (c *Canvas) set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.Cols || y >= c.Rows {
		return
	}
	cur := &c.Cells[y*c.Cols+x]
	// Nodes always win over edges; among nodes the more severe status wins
	if cur.Node && (!cell.Node || cell.Status < cur.Status) {
		return
	}
	*cur = cell
}

// Rasterize draws one frame of the scene onto a cols x rows canvas. Layout
// coordinates are scaled from the bounding box of the positions.
func Rasterize(s *Scene, frame, cols, rows int, edges bool) *Canvas {
	c := NewCanvas(cols, rows)
	if len(s.Positions) == 0 {
		return c
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, p := range s.Positions {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	spanX := math.Max(maxX-minX, 1e-9)
	spanY := math.Max(maxY-minY, 1e-9)

	cell := func(p Position) (int, int) {
		x := int(math.Round((p.X - minX) / spanX * float64(c.Cols-1)))
		y := int(math.Round((p.Y - minY) / spanY * float64(c.Rows-1)))
		return x, y
	}

	if edges {
		for i, p := range s.Positions {
			x0, y0 := cell(p)
			for _, nb := range s.Graph.Neighbors(contact.NodeID(i)) {
				if int(nb) <= i {
					continue
				}
				x1, y1 := cell(s.Positions[nb])
				c.line(x0, y0, x1, y1)
			}
		}
	}

	for i, st := range s.StatusAt(frame) {
		x, y := cell(s.Positions[i])
		c.set(x, y, Cell{Glyph: glyphFor(st), Status: st, Node: true})
	}
	return c
}

// line draws an edge with Bresenham's algorithm
func (c *Canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, Cell{Glyph: GlyphEdge})
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// String renders the canvas without styling, one line per row
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.Rows; y++ {
		for x := 0; x < c.Cols; x++ {
			b.WriteRune(c.At(x, y).Glyph)
		}
		if y < c.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func glyphFor(s Status) rune {
	switch s {
	case Vaccinated:
		return GlyphVaccinated
	case Infected:
		return GlyphInfected
	case Seeded:
		return GlyphSeed
	default:
		return GlyphSusceptible
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
