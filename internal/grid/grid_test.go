package grid

import (
	"strings"
	"testing"
)

func sample() *Grid {
	return FromRows([][]string{
		{"wall", "wall", "wall"},
		{"wall", "", "rock"},
		{"wall", "wall", "wall"},
	})
}

func TestGetSet(t *testing.T) {
	g := sample()
	if got := g.Get(2, 1); got != "rock" {
		t.Fatalf("Get(2,1) = %q, want rock", got)
	}
	if !g.IsEmpty(1, 1) {
		t.Errorf("cell (1,1) should be empty")
	}
	g.Set(1, 1, "BigBlue")
	if got := g.Get(1, 1); got != "BigBlue" {
		t.Errorf("after Set, Get(1,1) = %q", got)
	}
	rows, cols := g.Dimensions()
	if rows != 3 || cols != 3 {
		t.Errorf("Dimensions() = %d,%d", rows, cols)
	}
}

func TestOutOfBoundsPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(g *Grid)
	}{
		{"get negative", func(g *Grid) { g.Get(-1, 0) }},
		{"get past cols", func(g *Grid) { g.Get(3, 0) }},
		{"set past rows", func(g *Grid) { g.Set(0, 3, "rock") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic")
				}
			}()
			tt.fn(sample())
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := sample()
	c := g.Clone()
	if !c.Equal(g) {
		t.Fatalf("clone differs from source")
	}
	c.Set(1, 1, "flag")
	if g.Get(1, 1) != "" {
		t.Errorf("mutating clone changed source")
	}
	if c.Equal(g) {
		t.Errorf("Equal should report the difference")
	}
	rows := g.Rows()
	rows[0][0] = "x"
	if g.Get(0, 0) != "wall" {
		t.Errorf("Rows() leaked internal storage")
	}
}

func TestFromRowsPadsShortRows(t *testing.T) {
	g := FromRows([][]string{{"a"}, {"b", "c", "d"}})
	if _, cols := g.Dimensions(); cols != 3 {
		t.Fatalf("cols = %d, want 3", cols)
	}
	if !g.IsEmpty(2, 0) {
		t.Errorf("padded cell not empty")
	}
}

func TestString(t *testing.T) {
	got := sample().String()
	want := "wall wall wall\nwall . rock\nwall wall wall\n"
	if got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestDigest(t *testing.T) {
	a, b := sample(), sample()
	if a.Digest() != b.Digest() {
		t.Fatalf("equal grids produced different digests")
	}
	if len(a.Digest()) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a.Digest()))
	}
	b.Set(1, 1, "rock")
	if a.Digest() == b.Digest() {
		t.Errorf("different grids share a digest")
	}
	// Label boundaries are part of the hash.
	c := FromRows([][]string{{"ab", ""}})
	d := FromRows([][]string{{"a", "b"}})
	if c.Digest() == d.Digest() {
		t.Errorf("label boundary collision")
	}
	if strings.ToLower(a.Digest()) != a.Digest() {
		t.Errorf("digest should be lowercase hex")
	}
}
