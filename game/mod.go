package game

import (
	"fmt"
	"strings"
)

// Side identifies a player from our own perspective. The board is always held
// with Self at the bottom half of the arena.
type Side int

const (
	Self Side = iota
	Opponent
)

func (s Side) Other() Side {
	if s == Self {
		return Opponent
	}
	return Self
}

func (s Side) String() string {
	if s == Self {
		return "self"
	}
	return "opponent"
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "self", "p1":
		return Self, nil
	case "opponent", "p2":
		return Opponent, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// Currency is one of the two per-side resource pools.
type Currency int

const (
	SP Currency = iota // Structure points, spent on stationary units
	MP                 // Mobile points, spent on mobile units
)

// Many asks the boundary to place as many units as the budget allows.
const Many = -1

// Evaluates the board to a score between -1 and 1 indicating how favorable
// the position is for Self.
type Evaluate func(*Board) float64
