package game

import "fmt"

// StandardRules approximates the game server's physics closely enough to
// rank and rehearse attacks locally.
type StandardRules struct {
	catalog map[UnitKind]UnitStats
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		catalog: map[UnitKind]UnitStats{
			Wall:        {Cost: [2]float64{1, 0}, UpgradeCost: [2]float64{1, 0}, Health: 60},
			Support:     {Cost: [2]float64{4, 0}, UpgradeCost: [2]float64{2, 0}, Health: 30, Range: 3.5},
			Turret:      {Cost: [2]float64{2, 0}, UpgradeCost: [2]float64{4, 0}, Health: 75, MobileDamage: 5, Range: 2.5},
			Scout:       {Cost: [2]float64{0, 1}, Health: 12, StructureDamage: 2, MobileDamage: 2, Range: 3.5},
			Demolisher:  {Cost: [2]float64{0, 3}, Health: 5, StructureDamage: 8, MobileDamage: 8, Range: 4.5},
			Interceptor: {Cost: [2]float64{0, 1}, Health: 40, MobileDamage: 20, Range: 4.5},
		},
	}
}

// WithStats overrides the catalog entry of a unit kind.
func (sr *StandardRules) WithStats(kind UnitKind, stats UnitStats) *StandardRules {
	sr.catalog[kind] = stats
	return sr
}

func (sr *StandardRules) Stats(kind UnitKind) UnitStats {
	return sr.catalog[kind]
}

func (sr *StandardRules) InBounds(c Cell) bool {
	return InBounds(c)
}

func (sr *StandardRules) TargetEdge(start Cell) Edge {
	return TargetEdge(start)
}

func (sr *StandardRules) OnEdge(c Cell, e Edge) bool {
	return OnEdge(c, e)
}

// PathToEdge runs a breadth-first search over free cells. When the target
// edge is unreachable the unit walks to the reachable cell closest to it and
// self-destructs there.
func (sr *StandardRules) PathToEdge(b *Board, start Cell) ([]Cell, error) {
	if !InBounds(start) {
		return nil, fmt.Errorf("launch at %v outside arena: %w", start, ErrNoPath)
	}
	if b.Occupied(start) {
		return nil, fmt.Errorf("launch at %v blocked: %w", start, ErrNoPath)
	}

	edge := TargetEdge(start)
	dirs := neighbourOrder(edge)

	queue := []Cell{start}
	previous := map[Cell]Cell{}
	visited := map[Cell]bool{start: true}
	best := start

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if OnEdge(current, edge) {
			best = current
			break
		}
		if edgeDistance(current, edge) < edgeDistance(best, edge) {
			best = current
		}

		for _, d := range dirs {
			next := current.Add(d.X, d.Y)
			if visited[next] || !InBounds(next) || b.Occupied(next) {
				continue
			}
			visited[next] = true
			previous[next] = current
			queue = append(queue, next)
		}
	}

	return reconstructPath(previous, start, best), nil
}

// Attackers returns the turrets hostile to side in range of c.
func (sr *StandardRules) Attackers(b *Board, c Cell, side Side) []Unit {
	var attackers []Unit
	for _, u := range b.Stationary(side.Other()) {
		if !u.Kind.TurretLike() {
			continue
		}
		if u.Cell.Distance(c) <= sr.catalog[u.Kind].Range {
			attackers = append(attackers, u)
		}
	}
	return attackers
}

// Target picks the nearest hostile structure in range, breaking ties by
// lowest health, then lowest row, then lowest column.
func (sr *StandardRules) Target(b *Board, c Cell, side Side, kind UnitKind) (Unit, bool) {
	reach := sr.catalog[kind].Range
	var best Unit
	found := false
	for _, u := range b.Stationary(side.Other()) {
		d := u.Cell.Distance(c)
		if d > reach {
			continue
		}
		if !found || preferTarget(u, best, c) {
			best = u
			found = true
		}
	}
	return best, found
}

func preferTarget(u, current Unit, from Cell) bool {
	du, dc := u.Cell.Distance(from), current.Cell.Distance(from)
	if du != dc {
		return du < dc
	}
	if u.Health != current.Health {
		return u.Health < current.Health
	}
	return u.Cell.Less(current.Cell)
}

func neighbourOrder(e Edge) []Cell {
	dx, dy := 1, 1
	if e == TopLeft || e == BottomLeft {
		dx = -1
	}
	if e == BottomLeft || e == BottomRight {
		dy = -1
	}
	return []Cell{{X: 0, Y: dy}, {X: dx, Y: 0}, {X: -dx, Y: 0}, {X: 0, Y: -dy}}
}

// edgeDistance measures how many diagonal steps separate c from the edge.
func edgeDistance(c Cell, e Edge) int {
	switch e {
	case TopRight:
		return (ArenaSize - 1 + HalfArena) - (c.X + c.Y)
	case TopLeft:
		return HalfArena - (c.Y - c.X)
	case BottomLeft:
		return (c.X + c.Y) - (HalfArena - 1)
	default:
		return HalfArena - (c.X - c.Y)
	}
}

func reconstructPath(previous map[Cell]Cell, start, end Cell) []Cell {
	path := []Cell{end}
	for current := end; current != start; {
		current = previous[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

var _ Rules = (*StandardRules)(nil)
