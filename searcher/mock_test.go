package searcher

import (
	"slices"

	"github.com/xpbowler/climbe-terminal/game"
)

// mockRules serves fixed paths and resolves attackers and targets from the
// board by plain distance.
type mockRules struct {
	paths map[game.Cell][]game.Cell
	errs  map[game.Cell]error
	edge  map[game.Cell]bool
	reach float64
	stats map[game.UnitKind]game.UnitStats
}

func newMockRules(reach float64) *mockRules {
	return &mockRules{
		paths: map[game.Cell][]game.Cell{},
		errs:  map[game.Cell]error{},
		edge:  map[game.Cell]bool{},
		reach: reach,
		stats: map[game.UnitKind]game.UnitStats{
			game.Turret: {Health: 75, MobileDamage: 6},
			game.Scout:  {Health: 12, StructureDamage: 2},
		},
	}
}

// withPath registers a path whose last cell counts as the target edge.
func (m *mockRules) withPath(cells ...game.Cell) *mockRules {
	m.paths[cells[0]] = cells
	m.edge[cells[len(cells)-1]] = true
	return m
}

func (m *mockRules) PathToEdge(b *game.Board, start game.Cell) ([]game.Cell, error) {
	if err := m.errs[start]; err != nil {
		return nil, err
	}
	path, ok := m.paths[start]
	if !ok {
		return nil, game.ErrNoPath
	}
	return slices.Clone(path), nil
}

func (m *mockRules) Attackers(b *game.Board, c game.Cell, side game.Side) []game.Unit {
	var attackers []game.Unit
	for _, u := range b.Stationary(side.Other()) {
		if u.Kind.TurretLike() && u.Cell.Distance(c) <= m.reach {
			attackers = append(attackers, u)
		}
	}
	return attackers
}

func (m *mockRules) Target(b *game.Board, c game.Cell, side game.Side, kind game.UnitKind) (game.Unit, bool) {
	var best game.Unit
	found := false
	for _, u := range b.Stationary(side.Other()) {
		if u.Cell.Distance(c) > m.reach {
			continue
		}
		if !found || u.Cell.Distance(c) < best.Cell.Distance(c) {
			best = u
			found = true
		}
	}
	return best, found
}

func (m *mockRules) Stats(kind game.UnitKind) game.UnitStats {
	return m.stats[kind]
}

func (m *mockRules) InBounds(c game.Cell) bool {
	return true
}

func (m *mockRules) TargetEdge(start game.Cell) game.Edge {
	return game.TopRight
}

func (m *mockRules) OnEdge(c game.Cell, e game.Edge) bool {
	return m.edge[c]
}
