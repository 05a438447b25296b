package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Move is a cell coordinate, row-major: index = Size*Row + Col.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func moveAt(index int) Move {
	return Move{Row: index / Size, Col: index % Size}
}

func (m Move) Index() int {
	return Size*m.Row + m.Col
}

func (m Move) InBounds() bool {
	return m.Row >= 0 && m.Row < Size && m.Col >= 0 && m.Col < Size
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// ParseMove reads "row col", "row,col" or "(row,col)".
func ParseMove(s string) (Move, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '(' || r == ')' || r == '\t'
	})
	if len(fields) != 2 {
		return Move{}, fmt.Errorf("expected two coordinates, got %q", s)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return Move{}, fmt.Errorf("bad row %q: %w", fields[0], err)
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return Move{}, fmt.Errorf("bad column %q: %w", fields[1], err)
	}

	m := Move{Row: row, Col: col}
	if !m.InBounds() {
		return Move{}, fmt.Errorf("move %v out of range: %w", m, ErrIllegalMove)
	}
	return m, nil
}
