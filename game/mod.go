package game

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrBadBoard    = errors.New("bad board")
)

// Player is a mark on the board. X and O carry the sign of the fixed
// reference perspective, X being the reference player.
type Player int8

const (
	None Player = 0
	X    Player = 1
	O    Player = -1
)

func (p Player) Other() Player {
	return -p
}

func (p Player) String() string {
	switch p {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

func (p Player) MarshalText() ([]byte, error) {
	if p == None {
		return []byte(""), nil
	}
	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	player, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}
	*p = player
	return nil
}

// ParsePlayer accepts "X", "x", "O", "o" and the empty string for None.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "X", "x":
		return X, nil
	case "O", "o":
		return O, nil
	case "":
		return None, nil
	}
	return None, fmt.Errorf("unknown player %q", s)
}
