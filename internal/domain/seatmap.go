package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SeatState is the state code stored in a seat-layout cell.
type SeatState int

const (
	SeatNone      SeatState = 0 // not a seat (aisle, gap)
	SeatAvailable SeatState = 1
	SeatBooked    SeatState = 2
)

// SeatLayout maps a deck name to a 2-D grid of seat-state codes.
// Row index maps to a letter starting at 'A', column index to a
// 1-based number, so row 0 / col 0 is seat "A1".
type SeatLayout map[string][][]SeatState

func ParseSeatLayout(b []byte) (SeatLayout, error) {
	var l SeatLayout
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("parse seat layout: %w", err)
	}
	return l, nil
}

func (l SeatLayout) Marshal() ([]byte, error) {
	return json.Marshal(l)
}

// CountAvailable returns the number of cells in the available state
// across all decks.
func (l SeatLayout) CountAvailable() int {
	n := 0
	for _, grid := range l {
		for _, row := range grid {
			for _, cell := range row {
				if cell == SeatAvailable {
					n++
				}
			}
		}
	}
	return n
}

// Set overwrites the state of a single cell. It fails when the deck does
// not exist or the row/col fall outside the grid; it does NOT check the
// cell's prior state.
func (l SeatLayout) Set(ref SeatRef, st SeatState) error {
	grid, ok := l[ref.Deck]
	if !ok {
		return fmt.Errorf("%w: unknown deck %q", ErrSeatOutOfRange, ref.Deck)
	}
	if ref.Row < 0 || ref.Row >= len(grid) {
		return fmt.Errorf("%w: row %d on deck %q", ErrSeatOutOfRange, ref.Row, ref.Deck)
	}
	if ref.Col < 0 || ref.Col >= len(grid[ref.Row]) {
		return fmt.Errorf("%w: col %d on deck %q", ErrSeatOutOfRange, ref.Col, ref.Deck)
	}
	grid[ref.Row][ref.Col] = st
	return nil
}

// Clone returns a deep copy of the layout.
func (l SeatLayout) Clone() SeatLayout {
	cp := make(SeatLayout, len(l))
	for deck, grid := range l {
		g := make([][]SeatState, len(grid))
		for i, row := range grid {
			g[i] = append([]SeatState(nil), row...)
		}
		cp[deck] = g
	}
	return cp
}

// SeatRef identifies one cell of a seat layout.
type SeatRef struct {
	Deck string
	Row  int
	Col  int
}

// ParseSeatRef parses the wire encoding "deck-row-col", e.g. "lower-0-2".
func ParseSeatRef(s string) (SeatRef, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return SeatRef{}, fmt.Errorf("%w: %q", ErrBadSeatRef, s)
	}

	row, err := strconv.Atoi(parts[1])
	if err != nil {
		return SeatRef{}, fmt.Errorf("%w: %q", ErrBadSeatRef, s)
	}

	col, err := strconv.Atoi(parts[2])
	if err != nil {
		return SeatRef{}, fmt.Errorf("%w: %q", ErrBadSeatRef, s)
	}

	if parts[0] == "" || row < 0 || col < 0 {
		return SeatRef{}, fmt.Errorf("%w: %q", ErrBadSeatRef, s)
	}

	return SeatRef{Deck: parts[0], Row: row, Col: col}, nil
}

func (r SeatRef) String() string {
	return fmt.Sprintf("%s-%d-%d", r.Deck, r.Row, r.Col)
}

// Label returns the human-readable seat name for the cell, "A1" for
// row 0 / col 0. The mapping is pure and stable.
func (r SeatRef) Label() string {
	return SeatLabel(r.Row, r.Col)
}

func SeatLabel(row, col int) string {
	return string(rune('A'+row)) + strconv.Itoa(col+1)
}
