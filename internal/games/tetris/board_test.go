package tetris

import (
	"reflect"
	"strings"
	"testing"
)

// boardFrom builds a board from rows of 0 and 1 digits, top row first.
func boardFrom(rows ...string) *Board {
	b := NewBoard(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			if ch == '1' {
				b.cells[y][x] = 1
			}
		}
	}
	return b
}

func TestCleanupFilledRows(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		want    []string
		removed int
		calls   []int
	}{
		{
			name:    "no full rows",
			rows:    []string{"0000", "1000", "0110", "1110"},
			want:    []string{"0000", "1000", "0110", "1110"},
			removed: 0,
		},
		{
			name:    "bottom row",
			rows:    []string{"1000", "0100", "0010", "1111"},
			want:    []string{"1000", "0100", "0100", "0010"},
			removed: 1,
			calls:   []int{3},
		},
		{
			name:    "two bottom rows",
			rows:    []string{"1000", "0100", "1111", "1111"},
			want:    []string{"1000", "0100", "0100", "0100"},
			removed: 2,
			calls:   []int{2, 3},
		},
		{
			name:    "top row is counted but not copied",
			rows:    []string{"1111", "0000", "0000", "0000"},
			want:    []string{"1111", "0000", "0000", "0000"},
			removed: 1,
			calls:   []int{0},
		},
		{
			name:    "second row has nothing to copy above it",
			rows:    []string{"0000", "1111", "0000", "0000"},
			want:    []string{"0000", "1111", "0000", "0000"},
			removed: 1,
			calls:   []int{1},
		},
		{
			name:    "gap between full rows",
			rows:    []string{"0000", "1111", "0110", "1111"},
			want:    []string{"0000", "1111", "1111", "0110"},
			removed: 2,
			calls:   []int{1, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(tt.rows...)
			var calls []int
			got := b.CleanupFilledRows(func(row int) { calls = append(calls, row) })

			if got != tt.removed {
				t.Errorf("CleanupFilledRows() = %d, expected %d", got, tt.removed)
			}
			if !reflect.DeepEqual(calls, tt.calls) {
				t.Errorf("beforeRemove rows = %v, expected %v", calls, tt.calls)
			}
			if want := strings.Join(tt.want, "\n"); b.String() != want {
				t.Errorf("board =\n%s\nexpected\n%s", b.String(), want)
			}
		})
	}
}

func TestCleanupFilledRowsNilCallback(t *testing.T) {
	b := boardFrom("0000", "0000", "0000", "1111")
	if got := b.CleanupFilledRows(nil); got != 1 {
		t.Errorf("CleanupFilledRows(nil) = %d, expected 1", got)
	}
}

func TestMerge(t *testing.T) {
	b := boardFrom("0000", "0100", "0000", "0000")
	rot := MustParseRotation("010 111")

	merged := 0
	b.Merge(rot, 0, 0, func() { merged++ })

	want := "0100\n1110\n0000\n0000"
	if b.String() != want {
		t.Errorf("board after Merge =\n%s\nexpected\n%s", b.String(), want)
	}
	if merged != 1 {
		t.Errorf("onMerged called %d times, expected 1", merged)
	}

	// Empty rotation cells never clear the board.
	b.Merge(MustParseRotation("10 00"), 1, 0, nil)
	if !b.Filled(1, 0) || !b.Filled(1, 1) {
		t.Error("Merge cleared filled cells")
	}
}

func TestFilledOutOfRangePanics(t *testing.T) {
	b := NewBoard(4, 4)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Filled(%d, %d) did not panic", p[0], p[1])
				}
			}()
			b.Filled(p[0], p[1])
		}()
	}
}

func TestRowsIsACopy(t *testing.T) {
	b := boardFrom("10", "01")
	rows := b.Rows()
	rows[0][0] = 0
	if !b.Filled(0, 0) {
		t.Error("modifying Rows() result changed the board")
	}
}
