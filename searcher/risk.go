package searcher

import (
	"cmp"
	"slices"

	"github.com/xpbowler/climbe-terminal/game"
)

// Candidate is a launch cell with its estimated risk.
type Candidate struct {
	Cell game.Cell
	Risk float64
	Path []game.Cell
	Err  error // Set when the engine reported no path
}

// Usable reports whether the engine produced a path for the candidate.
func (c Candidate) Usable() bool {
	return c.Err == nil && len(c.Path) > 0
}

// RiskEstimator scores launch cells by the damage their units would take
// walking to the opponent's edge. It only reads the board.
type RiskEstimator struct {
	rules game.Rules
	settings
}

func NewRiskEstimator(rules game.Rules, options ...Option) *RiskEstimator {
	return &RiskEstimator{
		rules:    rules,
		settings: newSettings(rules, options),
	}
}

// Estimate sums, over every cell of the launch's path, the number of hostile
// turrets able to fire on the cell times the per-shot damage. Launches with
// no path, or whose path stops short of the target edge, score Unreachable.
func (e *RiskEstimator) Estimate(b *game.Board, launch game.Cell) (float64, error) {
	c := e.estimate(b, launch)
	return c.Risk, c.Err
}

func (e *RiskEstimator) estimate(b *game.Board, launch game.Cell) Candidate {
	e.metrics.AddEstimate()

	path, err := e.rules.PathToEdge(b, launch)
	if err != nil {
		e.metrics.AddNoPath()
		return Candidate{Cell: launch, Risk: Unreachable, Err: err}
	}
	if len(path) == 0 || !e.rules.OnEdge(path[len(path)-1], e.rules.TargetEdge(launch)) {
		return Candidate{Cell: launch, Risk: Unreachable, Path: path}
	}

	risk := 0.0
	for _, c := range path {
		risk += float64(len(e.rules.Attackers(b, c, game.Self))) * e.shotDamage
	}
	return Candidate{Cell: launch, Risk: risk, Path: path}
}

// Rank orders candidates by ascending risk, then by key, then by their input
// order. A nil key ranks by column.
func (e *RiskEstimator) Rank(b *game.Board, candidates []game.Cell, key func(game.Cell) float64) []Candidate {
	if key == nil {
		key = func(c game.Cell) float64 { return float64(c.X) }
	}

	ranked := make([]Candidate, 0, len(candidates))
	keys := make(map[game.Cell]float64, len(candidates))
	for _, cell := range candidates {
		ranked = append(ranked, e.estimate(b, cell))
		keys[cell] = key(cell)
	}

	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		if c := cmp.Compare(a.Risk, b.Risk); c != 0 {
			return c
		}
		return cmp.Compare(keys[a.Cell], keys[b.Cell])
	})
	return ranked
}
