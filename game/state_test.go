package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// reachable enumerates every state reachable from the empty board, stopping
// at terminal states.
func reachable() []State {
	seen := map[State]bool{}
	var walk func(State)
	walk = func(s State) {
		if seen[s] {
			return
		}
		seen[s] = true
		if s.IsTerminal() {
			return
		}
		for _, m := range s.LegalMoves() {
			walk(s.Play(m))
		}
	}
	walk(NewState())

	states := make([]State, 0, len(seen))
	for s := range seen {
		states = append(states, s)
	}
	return states
}

func TestLegalMoves(t *testing.T) {
	t.Run("empty board lists every cell in row-major order", func(t *testing.T) {
		moves := NewState().LegalMoves()

		require.Len(t, moves, Cells)
		for i, m := range moves {
			require.Equal(t, i, m.Index(), "Moves should be ordered row-major")
		}
	})

	t.Run("exactly the empty cells for every reachable state", func(t *testing.T) {
		for _, s := range reachable() {
			moves := s.LegalMoves()
			require.Len(t, moves, Cells-s.Occupied(), "Move count should equal empty cells for %v", s)
			for _, m := range moves {
				require.Equal(t, None, s.At(m), "Move %v should target an empty cell", m)
			}
			require.Zero(t, s.x&s.o, "Players should never share a cell")
		}
	})

	t.Run("restartable derivation", func(t *testing.T) {
		s := MustParse([]string{"X O", " X ", "O  "}, X)

		require.Equal(t, s.LegalMoves(), s.LegalMoves())
		require.Equal(t, []Move{{0, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 2}}, s.LegalMoves())
	})
}

func TestPlay(t *testing.T) {
	t.Run("does not mutate the receiver", func(t *testing.T) {
		s := MustParse([]string{"X  ", " O ", "   "}, X)
		before := s

		next := s.Play(Move{Row: 2, Col: 2})

		require.Equal(t, before, s, "Receiver should not change")
		require.Equal(t, X, next.At(Move{Row: 2, Col: 2}))
		require.Equal(t, O, next.ToMove(), "Turn should flip")
	})

	t.Run("changes only the target cell and the turn", func(t *testing.T) {
		for _, s := range reachable() {
			if s.IsTerminal() {
				continue
			}
			for _, m := range s.LegalMoves() {
				next := s.Play(m)
				require.Equal(t, s.ToMove(), next.At(m))
				require.Equal(t, s.ToMove().Other(), next.ToMove())
				require.Equal(t, s.Occupied()+1, next.Occupied())
				for _, other := range NewState().LegalMoves() {
					if other != m {
						require.Equal(t, s.At(other), next.At(other))
					}
				}
			}
		}
	})
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		winner   Player
		terminal bool
	}{
		{"empty board", []string{"   ", "   ", "   "}, None, false},
		{"row", []string{"XXX", "OO ", "   "}, X, true},
		{"column", []string{"OX ", "OX ", "O X"}, O, true},
		{"diagonal", []string{"X O", " XO", "  X"}, X, true},
		{"anti-diagonal", []string{"X O", "XO ", "O X"}, O, true},
		{"full board draw", []string{"XOX", "XOO", "OXX"}, None, true},
		{"two in a row is not a win", []string{"XX ", "   ", "O  "}, None, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toMove := X
			if tt.winner == X {
				toMove = O
			}
			s := MustParse(tt.rows, toMove)

			require.Equal(t, tt.winner, s.Winner())
			require.Equal(t, tt.terminal, s.IsTerminal())
			require.Equal(t, int(tt.winner), s.Reward(), "Reward should be from X's perspective")
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("round trips through rows", func(t *testing.T) {
		rows := []string{"XX ", "   ", "O  "}
		s, err := Parse(rows, O)

		require.NoError(t, err)
		require.Equal(t, rows, s.Rows())
		require.Equal(t, O, s.ToMove())
	})

	t.Run("rejects malformed boards", func(t *testing.T) {
		for _, rows := range [][]string{
			{"XX ", "   "},
			{"XX  ", "   ", "   "},
			{"XZ ", "   ", "   "},
		} {
			_, err := Parse(rows, X)
			require.ErrorIs(t, err, ErrBadBoard, "Rows %q should be rejected", rows)
		}
	})

	t.Run("rejects unreachable lines", func(t *testing.T) {
		for _, tt := range []struct {
			rows   []string
			toMove Player
		}{
			{[]string{"XXX", "OOO", "   "}, O},
			{[]string{"XXX", "OOO", "   "}, X},
			{[]string{"XXX", "OO ", "   "}, X},
			{[]string{"OOO", "XX ", "X  "}, O},
		} {
			_, err := Parse(tt.rows, tt.toMove)
			require.ErrorIs(t, err, ErrBadBoard, "Rows %q with %v to move should be rejected", tt.rows, tt.toMove)
		}

		_, err := Parse([]string{"XX ", "   ", "   "}, X)
		require.NoError(t, err, "Uneven mark counts are allowed")
	})

	t.Run("rejects a missing side to move", func(t *testing.T) {
		_, err := Parse([]string{"   ", "   ", "   "}, None)
		require.ErrorIs(t, err, ErrBadBoard)
	})
}

func TestParseMove(t *testing.T) {
	for _, input := range []string{"1 2", "1,2", "(1,2)", " 1  2 "} {
		m, err := ParseMove(input)
		require.NoError(t, err, "Input %q should parse", input)
		require.Equal(t, Move{Row: 1, Col: 2}, m)
	}

	for _, input := range []string{"", "1", "a b", "3 0", "1 2 3"} {
		_, err := ParseMove(input)
		require.Error(t, err, "Input %q should be rejected", input)
	}
}

func TestStateJSON(t *testing.T) {
	s := MustParse([]string{"XX ", "   ", "O  "}, O)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `{"board":["XX ","   ","O  "],"to_move":"O"}`, string(data))

	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, s, decoded)

	require.Error(t, json.Unmarshal([]byte(`{"board":["XX"],"to_move":"O"}`), &decoded))
	require.ErrorIs(t, json.Unmarshal([]byte(`{"board":["XXX","OOO","   "],"to_move":"O"}`), &decoded), ErrBadBoard)
}
