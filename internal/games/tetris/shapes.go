package tetris

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRotation is returned for malformed rotation strings.
var ErrInvalidRotation = errors.New("invalid rotation")

// ErrInvalidDefinitions is returned when a definitions file cannot be used.
var ErrInvalidDefinitions = errors.New("invalid block definitions")

// Cell is a position inside a rotation matrix.
type Cell struct {
	X, Y int
}

// Rotation is one orientation of a block: a binary matrix plus the lowest
// filled cell of every column.
type Rotation struct {
	width  int
	height int
	cells  [][]uint8 // cells[y][x]
	bottom []Cell
}

// ParseRotation parses whitespace-separated rows of 0 and 1 digits, e.g. "010 111".
func ParseRotation(def string) (*Rotation, error) {
	rows := strings.Fields(def)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty definition", ErrInvalidRotation)
	}

	r := &Rotation{width: len(rows[0]), height: len(rows)}
	r.cells = make([][]uint8, r.height)
	for y, row := range rows {
		if len(row) != r.width {
			return nil, fmt.Errorf("%w: %q: row %d has %d cells, expected %d", ErrInvalidRotation, def, y, len(row), r.width)
		}
		r.cells[y] = make([]uint8, r.width)
		for x, ch := range []byte(row) {
			switch ch {
			case '0':
			case '1':
				r.cells[y][x] = 1
			default:
				return nil, fmt.Errorf("%w: %q: unexpected %q", ErrInvalidRotation, def, ch)
			}
		}
	}
	r.bottom = r.computeBottomEdge()
	if len(r.bottom) == 0 {
		return nil, fmt.Errorf("%w: %q: no filled cells", ErrInvalidRotation, def)
	}
	return r, nil
}

// MustParseRotation is like ParseRotation but panics on error.
func MustParseRotation(def string) *Rotation {
	r, err := ParseRotation(def)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Rotation) computeBottomEdge() []Cell {
	var edge []Cell
	for x := 0; x < r.width; x++ {
		for y := r.height - 1; y >= 0; y-- {
			if r.cells[y][x] == 1 {
				edge = append(edge, Cell{X: x, Y: y})
				break
			}
		}
	}
	return edge
}

// Width returns the number of columns.
func (r *Rotation) Width() int { return r.width }

// Height returns the number of rows.
func (r *Rotation) Height() int { return r.height }

// Filled reports whether the matrix cell at (x, y) is set.
func (r *Rotation) Filled(x, y int) bool {
	return r.cells[y][x] == 1
}

// BottomEdge returns, for every column with a filled cell, its lowest one.
func (r *Rotation) BottomEdge() []Cell {
	return r.bottom
}

// String returns the definition form, rows separated by single spaces.
func (r *Rotation) String() string {
	rows := make([]string, r.height)
	for y, row := range r.cells {
		var sb strings.Builder
		for _, c := range row {
			sb.WriteByte('0' + c)
		}
		rows[y] = sb.String()
	}
	return strings.Join(rows, " ")
}

// MarshalYAML encodes the rotation as its definition string.
func (r *Rotation) MarshalYAML() (any, error) {
	return r.String(), nil
}

// UnmarshalYAML decodes a definition string.
func (r *Rotation) UnmarshalYAML(node *yaml.Node) error {
	var def string
	if err := node.Decode(&def); err != nil {
		return err
	}
	parsed, err := ParseRotation(def)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = *parsed
	return nil
}

// Definition is a named block shape with its rotations in cycling order.
type Definition struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Rotations   []*Rotation `yaml:"rotations"`
}

// Definitions is the root of a block definitions file.
type Definitions struct {
	Blocks []*Definition `yaml:"blocks"`
}

// ParseDefinitions decodes a definitions file.
func ParseDefinitions(data []byte) (*Definitions, error) {
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("tetris: parse blocks: %w", err)
	}
	return &defs, nil
}

// Validate checks that there is at least one block, that names are unique
// and that every rotation fits a width×height board.
func (d *Definitions) Validate(width, height int) error {
	if len(d.Blocks) == 0 {
		return fmt.Errorf("tetris: %w: no blocks", ErrInvalidDefinitions)
	}
	seen := make(map[string]bool, len(d.Blocks))
	for i, def := range d.Blocks {
		if def == nil || def.Name == "" {
			return fmt.Errorf("tetris: %w: block %d has no name", ErrInvalidDefinitions, i)
		}
		if seen[def.Name] {
			return fmt.Errorf("tetris: %w: duplicate block %q", ErrInvalidDefinitions, def.Name)
		}
		seen[def.Name] = true
		if len(def.Rotations) == 0 {
			return fmt.Errorf("tetris: %w: block %q has no rotations", ErrInvalidDefinitions, def.Name)
		}
		for j, rot := range def.Rotations {
			if rot == nil {
				return fmt.Errorf("tetris: %w: block %q rotation %d is empty", ErrInvalidDefinitions, def.Name, j)
			}
			if rot.Width() > width || rot.Height() > height {
				return fmt.Errorf("tetris: %w: block %q rotation %d is %dx%d, board is %dx%d",
					ErrInvalidDefinitions, def.Name, j, rot.Width(), rot.Height(), width, height)
			}
		}
	}
	return nil
}

// Marshal encodes the definitions back to YAML.
func (d *Definitions) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("tetris: encode blocks: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("tetris: encode blocks: %w", err)
	}
	return buf.Bytes(), nil
}

// Find returns the block with the given name.
func (d *Definitions) Find(name string) (*Definition, bool) {
	for _, def := range d.Blocks {
		if def.Name == name {
			return def, true
		}
	}
	return nil, false
}
