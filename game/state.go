package game

import "math/bits"

const (
	Size  = 3
	Cells = Size * Size

	fullBoard uint16 = 1<<Cells - 1
)

// rows, columns, diagonals
var lines = [8]uint16{
	0b000000111, 0b000111000, 0b111000000,
	0b001001001, 0b010010010, 0b100100100,
	0b100010001, 0b001010100,
}

// State is an immutable 3x3 position: one bit set per player and the side to
// move. The zero value is the empty board with X to move.
type State struct {
	x, o    uint16
	oToMove bool
}

func NewState() State {
	return State{}
}

func (s State) ToMove() Player {
	if s.oToMove {
		return O
	}
	return X
}

func (s State) At(m Move) Player {
	bit := uint16(1) << m.Index()
	switch {
	case s.x&bit != 0:
		return X
	case s.o&bit != 0:
		return O
	}
	return None
}

func (s State) Occupied() int {
	return bits.OnesCount16(s.x | s.o)
}

// LegalMoves returns the empty cells in row-major order.
func (s State) LegalMoves() []Move {
	free := fullBoard &^ (s.x | s.o)
	moves := make([]Move, 0, bits.OnesCount16(free))
	for free != 0 {
		moves = append(moves, moveAt(bits.TrailingZeros16(free)))
		free &= free - 1
	}
	return moves
}

func (s State) IsLegal(m Move) bool {
	return m.InBounds() && s.At(m) == None
}

// Play returns the state after the side to move marks m. m must be legal;
// callers outside the search validate with IsLegal first.
func (s State) Play(m Move) State {
	bit := uint16(1) << m.Index()
	if s.oToMove {
		s.o |= bit
	} else {
		s.x |= bit
	}
	s.oToMove = !s.oToMove
	return s
}

func (s State) Winner() Player {
	for _, line := range lines {
		if s.x&line == line {
			return X
		}
		if s.o&line == line {
			return O
		}
	}
	return None
}

func (s State) IsTerminal() bool {
	return s.Winner() != None || s.x|s.o == fullBoard
}

// Reward is +1 if X has completed a line, -1 if O has, 0 otherwise.
func (s State) Reward() int {
	return int(s.Winner())
}
