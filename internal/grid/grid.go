// Package grid holds the label matrix that is the authority for cell
// occupancy. Each cell stores at most one label; an empty string means the
// cell is empty.
package grid

import (
	"fmt"
	"strings"
)

// Grid is an R×C matrix of labels addressed by column x and row y.
type Grid struct {
	rows  int
	cols  int
	cells []string
}

// New returns an empty grid.
func New(rows, cols int) *Grid {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("grid: negative dimensions %dx%d", rows, cols))
	}
	return &Grid{rows: rows, cols: cols, cells: make([]string, rows*cols)}
}

// FromRows builds a grid from row-major labels. Short rows are padded with
// empty cells up to the longest row.
func FromRows(rows [][]string) *Grid {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	g := New(len(rows), cols)
	for y, r := range rows {
		copy(g.cells[y*cols:], r)
	}
	return g
}

func (g *Grid) Dimensions() (rows, cols int) {
	return g.rows, g.cols
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.cols && y < g.rows
}

func (g *Grid) index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("grid: cell (%d,%d) outside %dx%d grid", x, y, g.rows, g.cols))
	}
	return y*g.cols + x
}

func (g *Grid) Get(x, y int) string {
	return g.cells[g.index(x, y)]
}

func (g *Grid) Set(x, y int, label string) {
	g.cells[g.index(x, y)] = label
}

func (g *Grid) IsEmpty(x, y int) bool {
	return g.Get(x, y) == ""
}

// Clone returns a deep copy that shares nothing with g.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, cells: make([]string, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a row-major copy of the labels.
func (g *Grid) Rows() [][]string {
	out := make([][]string, g.rows)
	for y := range out {
		out[y] = make([]string, g.cols)
		copy(out[y], g.cells[y*g.cols:(y+1)*g.cols])
	}
	return out
}

// Each visits every cell in row-major order.
func (g *Grid) Each(fn func(x, y int, label string)) {
	for i, label := range g.cells {
		fn(i%g.cols, i/g.cols, label)
	}
}

// String renders one line per row with cells separated by spaces and empty
// cells shown as ".".
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			label := g.cells[y*g.cols+x]
			if label == "" {
				label = "."
			}
			sb.WriteString(label)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
