package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/babago/babago/internal/grid"
)

var (
	ErrLevelNotFound  = errors.New("level not found")
	ErrMalformedLevel = errors.New("malformed level")
)

// MaxLevelSide caps each level dimension.
const MaxLevelSide = 1024

// Level is one parsed puzzle. Grid holds objects and word tiles; Background
// holds decoration that never takes part in the simulation.
type Level struct {
	Name       string
	Grid       *grid.Grid
	Background *grid.Grid
}

// Pack is an ordered collection of levels read from a .bbiy file.
type Pack struct {
	levels []*Level
}

var dimLine = regexp.MustCompile(`^\s*(\d+)\s*[xX]\s*(\d+)\s*$`)

// LoadPack reads a level pack from disk. encoding names a legacy code page
// ("" or "utf-8" for none).
func LoadPack(path, encoding string, tiles *TileTable) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level pack: %w", err)
	}
	defer f.Close()
	r, err := NewDecodingReader(f, encoding)
	if err != nil {
		return nil, fmt.Errorf("level pack %s: %w", path, err)
	}
	p, err := ParsePack(r, tiles)
	if err != nil {
		return nil, fmt.Errorf("level pack %s: %w", path, err)
	}
	return p, nil
}

// ParsePack parses consecutive level blocks: a header line holding the level
// name, an "R x C" line and two layers of R lines each. The second layer
// overrides the first wherever it holds a known character.
func ParsePack(r io.Reader, tiles *TileTable) (*Pack, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineNo++
		return strings.TrimRight(sc.Text(), "\r"), true
	}

	p := &Pack{}
	for {
		header, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(header) == "" {
			continue
		}
		dims, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: %q: missing dimensions", ErrMalformedLevel, header)
		}
		m := dimLine.FindStringSubmatch(dims)
		if m == nil {
			return nil, fmt.Errorf("%w: line %d: bad dimensions %q", ErrMalformedLevel, lineNo, dims)
		}
		rows, rerr := strconv.Atoi(m[1])
		cols, cerr := strconv.Atoi(m[2])
		if rerr != nil || cerr != nil {
			return nil, fmt.Errorf("%w: line %d: bad dimensions %q", ErrMalformedLevel, lineNo, dims)
		}
		if rows == 0 || cols == 0 {
			return nil, fmt.Errorf("%w: line %d: empty level %dx%d", ErrMalformedLevel, lineNo, rows, cols)
		}
		if rows > MaxLevelSide || cols > MaxLevelSide {
			return nil, fmt.Errorf("%w: line %d: level %dx%d exceeds %d per side",
				ErrMalformedLevel, lineNo, rows, cols, MaxLevelSide)
		}

		lvl := &Level{
			Name:       strings.TrimSpace(header),
			Grid:       grid.New(rows, cols),
			Background: grid.New(rows, cols),
		}
		for layer := 0; layer < 2; layer++ {
			for y := 0; y < rows; y++ {
				line, ok := next()
				if !ok {
					return nil, fmt.Errorf("%w: %q: layer %d ends after %d of %d rows",
						ErrMalformedLevel, lvl.Name, layer+1, y, rows)
				}
				x := 0
				for _, ch := range line {
					if x >= cols {
						return nil, fmt.Errorf("%w: line %d: row wider than %d columns",
							ErrMalformedLevel, lineNo, cols)
					}
					switch label, where := tiles.Decode(ch); where {
					case LayerObject:
						lvl.Grid.Set(x, y, label)
					case LayerBackground:
						lvl.Background.Set(x, y, label)
					}
					x++
				}
			}
		}
		p.levels = append(p.levels, lvl)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read level pack: %w", err)
	}
	return p, nil
}

// Level returns the first level whose header contains name.
func (p *Pack) Level(name string) (*Level, error) {
	for _, l := range p.levels {
		if l.Name == name {
			return l, nil
		}
	}
	for _, l := range p.levels {
		if strings.Contains(l.Name, name) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrLevelNotFound, name)
}

// Index returns the i-th level in file order.
func (p *Pack) Index(i int) (*Level, error) {
	if i < 0 || i >= len(p.levels) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrLevelNotFound, i, len(p.levels))
	}
	return p.levels[i], nil
}

// Names lists level names in file order.
func (p *Pack) Names() []string {
	out := make([]string, len(p.levels))
	for i, l := range p.levels {
		out[i] = l.Name
	}
	return out
}

func (p *Pack) Count() int {
	return len(p.levels)
}

// WriteLevel serialises a level in the pack format: objects in the first
// layer, background in the second. Unknown labels are written as spaces.
func WriteLevel(w io.Writer, l *Level, tiles *TileTable) error {
	rows, cols := l.Grid.Dimensions()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n%d x %d\n", l.Name, rows, cols)
	for _, layer := range []*grid.Grid{l.Grid, l.Background} {
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				ch := ' '
				if layer != nil {
					if label := layer.Get(x, y); label != "" {
						if r, ok := tiles.Encode(label); ok {
							ch = r
						}
					}
				}
				bw.WriteRune(ch)
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
