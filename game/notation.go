package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse builds a state from three rows of three characters, e.g.
// ["XX ", "   ", "O  "]. Empty cells may be ' ', '.', '_' or '-'.
func Parse(rows []string, toMove Player) (State, error) {
	if toMove != X && toMove != O {
		return State{}, fmt.Errorf("player to move must be X or O: %w", ErrBadBoard)
	}
	if len(rows) != Size {
		return State{}, fmt.Errorf("expected %d rows, got %d: %w", Size, len(rows), ErrBadBoard)
	}

	s := State{oToMove: toMove == O}
	for r, row := range rows {
		cells := []rune(row)
		if len(cells) != Size {
			return State{}, fmt.Errorf("row %d has %d cells: %w", r, len(cells), ErrBadBoard)
		}
		for c, cell := range cells {
			bit := uint16(1) << Move{Row: r, Col: c}.Index()
			switch cell {
			case 'X', 'x':
				s.x |= bit
			case 'O', 'o':
				s.o |= bit
			case ' ', '.', '_', '-':
			default:
				return State{}, fmt.Errorf("row %d col %d: unexpected %q: %w", r, c, cell, ErrBadBoard)
			}
		}
	}
	if err := s.validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// validate rejects lines no game can produce. Mark counts are left free so
// that study positions, such as two X marks against an empty side, parse.
func (s State) validate() error {
	var xLine, oLine bool
	for _, line := range lines {
		xLine = xLine || s.x&line == line
		oLine = oLine || s.o&line == line
	}
	switch {
	case xLine && oLine:
		return fmt.Errorf("both players have a line: %w", ErrBadBoard)
	case xLine && !s.oToMove, oLine && s.oToMove:
		return fmt.Errorf("%v has a line but is to move: %w", s.ToMove(), ErrBadBoard)
	}
	return nil
}

// MustParse is Parse for fixed boards; it panics on error.
func MustParse(rows []string, toMove Player) State {
	s, err := Parse(rows, toMove)
	if err != nil {
		panic(err)
	}
	return s
}

func (s State) Rows() []string {
	rows := make([]string, Size)
	for r := range Size {
		var b strings.Builder
		for c := range Size {
			b.WriteString(s.At(Move{Row: r, Col: c}).String())
		}
		rows[r] = b.String()
	}
	return rows
}

func (s State) String() string {
	return fmt.Sprintf("%s (%v to move)", strings.Join(s.Rows(), "|"), s.ToMove())
}

type stateJSON struct {
	Board  []string `json:"board"`
	ToMove Player   `json:"to_move"`
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{Board: s.Rows(), ToMove: s.ToMove()})
}

func (s *State) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ToMove == None {
		raw.ToMove = X
	}
	parsed, err := Parse(raw.Board, raw.ToMove)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
