package game

import "math"

const (
	ArenaSize = 28
	HalfArena = ArenaSize / 2
)

type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

func (c Cell) Distance(other Cell) float64 {
	return math.Hypot(float64(c.X-other.X), float64(c.Y-other.Y))
}

// Less orders cells by row, then column.
func (c Cell) Less(other Cell) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}

// Edge is one of the four diagonal borders of the diamond arena.
type Edge int

const (
	TopRight Edge = iota
	TopLeft
	BottomLeft
	BottomRight
)

func (e Edge) String() string {
	return [...]string{"top_right", "top_left", "bottom_left", "bottom_right"}[e]
}

// InBounds reports whether the cell lies inside the diamond arena.
func InBounds(c Cell) bool {
	if c.X < 0 || c.Y < 0 || c.X >= ArenaSize || c.Y >= ArenaSize {
		return false
	}
	var rowSize int
	if c.Y < HalfArena {
		rowSize = c.Y + 1
	} else {
		rowSize = ArenaSize - c.Y
	}
	start := HalfArena - rowSize
	end := start + 2*rowSize - 1
	return c.X >= start && c.X <= end
}

// EdgeCells lists the cells of an edge, ordered from the arena corner inwards.
func EdgeCells(e Edge) []Cell {
	cells := make([]Cell, 0, HalfArena)
	for i := 0; i < HalfArena; i++ {
		switch e {
		case TopRight:
			cells = append(cells, Cell{X: HalfArena + i, Y: ArenaSize - 1 - i})
		case TopLeft:
			cells = append(cells, Cell{X: HalfArena - 1 - i, Y: ArenaSize - 1 - i})
		case BottomLeft:
			cells = append(cells, Cell{X: HalfArena - 1 - i, Y: i})
		case BottomRight:
			cells = append(cells, Cell{X: HalfArena + i, Y: i})
		}
	}
	return cells
}

func OnEdge(c Cell, e Edge) bool {
	if !InBounds(c) {
		return false
	}
	switch e {
	case TopRight:
		return c.X >= HalfArena && c.X+c.Y == ArenaSize-1+HalfArena
	case TopLeft:
		return c.X < HalfArena && c.Y-c.X == HalfArena
	case BottomLeft:
		return c.X < HalfArena && c.X+c.Y == HalfArena-1
	case BottomRight:
		return c.X >= HalfArena && c.X-c.Y == HalfArena
	}
	return false
}

// TargetEdge returns the edge a unit launched from start walks towards. Self
// launches from the left half head top right, everything else top left.
// Opponent launches mirror this towards the bottom.
func TargetEdge(start Cell) Edge {
	if start.Y < HalfArena {
		if start.X < HalfArena {
			return TopRight
		}
		return TopLeft
	}
	if start.X < HalfArena {
		return BottomRight
	}
	return BottomLeft
}
