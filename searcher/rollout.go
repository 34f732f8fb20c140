package searcher

import (
	"errors"
	"fmt"
	"math"

	"github.com/xpbowler/climbe-terminal/game"
)

var ErrEmptyForce = errors.New("empty attacking force")

// Result is the predicted outcome of a launch. It is only meaningful for the
// turn it was computed in.
type Result struct {
	Breach    bool
	Destroyed []game.Unit // In destruction order, as they were before the hit
	Remaining float64     // Aggregate health of the force at the end
	Steps     int         // Path cells walked before the force died or arrived
	Path      []game.Cell
}

// Target returns the most valuable structure destroyed: the first turret,
// otherwise the first structure.
func (r Result) Target() (game.Unit, bool) {
	for _, u := range r.Destroyed {
		if u.Kind.TurretLike() {
			return u, true
		}
	}
	if len(r.Destroyed) > 0 {
		return r.Destroyed[0], true
	}
	return game.Unit{}, false
}

// Rollout rehearses a launch on a private copy of the board. It is fully
// deterministic.
type Rollout struct {
	rules game.Rules
	settings
}

func NewRollout(rules game.Rules, options ...Option) *Rollout {
	return &Rollout{
		rules:    rules,
		settings: newSettings(rules, options),
	}
}

// Simulate walks count units of kind from launch along their path. At every
// step the force first takes fire from the hostile turrets in range, then the
// survivors hit the structure the engine would target. Destroyed structures
// are removed from the copy so later steps see them gone.
func (r *Rollout) Simulate(b *game.Board, launch game.Cell, kind game.UnitKind, count int) (Result, error) {
	if count <= 0 {
		return Result{}, fmt.Errorf("%d %s: %w", count, kind, ErrEmptyForce)
	}
	stats := r.rules.Stats(kind)
	if stats.Health <= 0 {
		return Result{}, fmt.Errorf("%s has no health: %w", kind, ErrEmptyForce)
	}
	r.metrics.AddRollout()

	clone := b.Copy()
	path, err := r.rules.PathToEdge(clone, launch)
	if err != nil {
		r.metrics.AddNoPath()
		return Result{}, err
	}
	if len(path) == 0 {
		r.metrics.AddNoPath()
		return Result{}, fmt.Errorf("empty path from %v: %w", launch, game.ErrNoPath)
	}

	result := Result{Path: path}
	health := float64(count) * stats.Health
	for _, c := range path {
		result.Steps++

		health -= float64(len(r.rules.Attackers(clone, c, game.Self))) * r.shotDamage
		if health <= 0 {
			return result, nil
		}

		target, ok := r.rules.Target(clone, c, game.Self, kind)
		if !ok {
			continue
		}
		alive := math.Ceil(health / stats.Health)
		if _, destroyed := clone.Damage(target.Cell, target.ID, alive*stats.StructureDamage); destroyed {
			result.Destroyed = append(result.Destroyed, target)
		}
	}

	result.Remaining = health
	result.Breach = r.rules.OnEdge(path[len(path)-1], r.rules.TargetEdge(launch))
	return result, nil
}
