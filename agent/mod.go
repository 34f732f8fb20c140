package agent

import (
	"github.com/xpbowler/climbe-terminal/experiments/metrics"
	"github.com/xpbowler/climbe-terminal/game"
	"github.com/xpbowler/climbe-terminal/searcher"
)

// Agent decides a turn's intents from the board and learns from the frames
// the engine reports back.
type Agent interface {
	PlanTurn(b *game.Board) Plan
	Observe(f game.Frame)
}

// Phase of the offensive cycle.
type Phase int

const (
	Idle      Phase = iota // Eligible to attack, nothing launched
	Scouting               // Waiting out the cooldown
	Committed              // Launched this turn
)

func (p Phase) String() string {
	return [...]string{"idle", "scouting", "committed"}[p]
}

// AttackPlan is the launch chosen for a turn.
type AttackPlan struct {
	Launch  game.Cell
	Kind    game.UnitKind
	Count   int // Units launched, the volley the reserve leaves room for
	Volley  int
	Support *game.Cell
	Risk    float64
	Result  searcher.Result
}

type Plan struct {
	Turn      int
	Defense   []game.Intent
	Reinforce []game.Intent
	Offense   []game.Intent
	Attack    *AttackPlan
	Phase     Phase
	Metric    metrics.DecisionMetric
}

// Intents returns every intent in the order they should be submitted.
func (p Plan) Intents() []game.Intent {
	intents := make([]game.Intent, 0, len(p.Defense)+len(p.Reinforce)+len(p.Offense))
	intents = append(intents, p.Defense...)
	intents = append(intents, p.Reinforce...)
	return append(intents, p.Offense...)
}
