package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xpbowler/climbe-terminal/agent"
	"github.com/xpbowler/climbe-terminal/experiments/metrics"
	"github.com/xpbowler/climbe-terminal/game"
)

type Option func(r *Replay)

// WithEvaluation scores the board after each turn's intents were applied.
func WithEvaluation(evaluate game.Evaluate) Option {
	return func(r *Replay) {
		r.evaluate = evaluate
	}
}

// WithAgentName labels the session metrics.
func WithAgentName(name string) Option {
	return func(r *Replay) {
		r.agentName = name
	}
}

// Replay drives one agent through a recorded scenario. Our structures carry
// over from turn to turn, the opponent's are taken from the scenario, and the
// recorded events are applied to our structures before they are reported
// back to the agent.
type Replay struct {
	scenario  Scenario
	agent     agent.Agent
	rules     game.Rules
	evaluate  game.Evaluate
	agentName string
}

func NewReplay(scenario Scenario, a agent.Agent, rules game.Rules, options ...Option) *Replay {
	r := &Replay{ // Default values
		scenario:  scenario,
		agent:     a,
		rules:     rules,
		evaluate:  game.EvaluateStructures,
		agentName: "agent",
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *Replay) Run(ctx context.Context) (metrics.SessionMetric, []metrics.TurnMetric, error) {
	session := metrics.SessionMetric{
		Agent:     r.agentName,
		Scenario:  r.scenario.Name,
		StartTime: time.Now(),
	}
	finish := func() metrics.SessionMetric {
		session.EndTime = time.Now()
		session.Duration = session.EndTime.Sub(session.StartTime)
		return session
	}

	log.Info().Msgf("replaying scenario %q with %s", r.scenario.Name, r.agentName)

	var turnMetrics []metrics.TurnMetric
	carried := game.NewBoard(0)
	for turn, spec := range r.scenario.Turns {
		if turn >= MaxTurns {
			log.Info().Msgf("stopped after %d turns", MaxTurns)
			break
		}
		if err := ctx.Err(); err != nil {
			return finish(), turnMetrics, err
		}

		board, err := r.board(carried, turn, spec)
		if err != nil {
			return finish(), turnMetrics, err
		}

		plan := r.agent.PlanTurn(board)
		after, rejected := r.apply(board, plan)

		events, err := spec.events()
		if err != nil {
			return finish(), turnMetrics, err
		}
		resolve(after, events)
		r.agent.Observe(frame(after, turn, spec, events))
		carried = ownStructures(after)

		m := turnMetric(plan, rejected, r.evaluate(after))
		turnMetrics = append(turnMetrics, m)
		session.Turns++
		session.Rejected += rejected
		if m.Launched {
			session.Launches++
		}
		log.Debug().Int("turn", turn).Msgf("phase=%s intents=%d rejected=%d score=%.3f", m.Phase, m.Intents, m.Rejected, m.Score)
	}

	log.Info().Msgf("completed scenario %q: %d turns, %d launches, %d rejected intents",
		r.scenario.Name, session.Turns, session.Launches, session.Rejected)
	return finish(), turnMetrics, nil
}

// board lays the scenario's units for the turn over the structures we carry.
// A listed unit replaces whatever we had on its cell.
func (r *Replay) board(carried *game.Board, turn int, spec TurnSpec) (*game.Board, error) {
	units, err := spec.units()
	if err != nil {
		return nil, err
	}

	b := carried.Copy()
	b.SetTurn(turn)
	for _, u := range units {
		for _, old := range b.UnitsAt(u.Cell) {
			b.Remove(u.Cell, old.ID)
		}
		if u.Health <= 0 {
			u.Health = r.rules.Stats(u.Kind).Health
		}
		b.Place(u)
	}
	b.SetResource(game.Self, game.SP, spec.Self.SP)
	b.SetResource(game.Self, game.MP, spec.Self.MP)
	b.SetResource(game.Opponent, game.SP, spec.Opponent.SP)
	b.SetResource(game.Opponent, game.MP, spec.Opponent.MP)
	return b, nil
}

// apply submits the plan best-effort, the way the game server does. It
// returns the resulting board and the number of intents that were at least
// partly rejected.
func (r *Replay) apply(b *game.Board, plan agent.Plan) (*game.Board, int) {
	after := b.Copy()
	rejected := 0
	for _, intent := range plan.Intents() {
		if err := after.Apply(r.rules, intent); err != nil {
			rejected++
			log.Debug().Int("turn", b.Turn()).Err(err).Msgf("rejected %s", intent)
		}
	}
	return after, rejected
}

// resolve applies reported damage to the structures on the board.
func resolve(b *game.Board, events []game.Event) {
	for _, e := range events {
		if e.Type != game.Damage || !e.Kind.Stationary() {
			continue
		}
		u, ok := b.StationaryAt(e.Cell)
		if !ok || u.Side != e.Side {
			continue
		}
		if _, destroyed := b.Damage(e.Cell, u.ID, e.Amount); destroyed {
			log.Debug().Int("turn", b.Turn()).Msgf("%s %s at %v destroyed", u.Side, u.Kind, u.Cell)
		}
	}
}

func frame(b *game.Board, turn int, spec TurnSpec, events []game.Event) game.Frame {
	f := game.Frame{
		Turn:   turn,
		Events: events,
		Units:  append(b.Stationary(game.Self), b.Stationary(game.Opponent)...),
		Health: [2]float64{spec.Self.Health, spec.Opponent.Health},
	}
	for _, side := range []game.Side{game.Self, game.Opponent} {
		for _, currency := range []game.Currency{game.SP, game.MP} {
			f.Resources[side][currency] = b.Resource(side, currency)
		}
	}
	return f
}

// ownStructures strips everything but our surviving structures.
func ownStructures(b *game.Board) *game.Board {
	own := b.Copy()
	for _, c := range b.Cells() {
		for _, u := range b.UnitsAt(c) {
			if u.Side != game.Self || !u.Kind.Stationary() {
				own.Remove(c, u.ID)
			}
		}
	}
	return own
}

func turnMetric(plan agent.Plan, rejected int, score float64) metrics.TurnMetric {
	m := metrics.TurnMetric{
		Phase:          plan.Phase.String(),
		Intents:        len(plan.Intents()),
		Rejected:       rejected,
		Score:          score,
		DecisionMetric: plan.Metric,
	}
	m.Turn = plan.Turn
	if a := plan.Attack; a != nil {
		m.Launched = true
		m.LaunchX = a.Launch.X
		m.LaunchY = a.Launch.Y
		m.Risk = a.Risk
		m.PredictedBreach = a.Result.Breach
	}
	return m
}

var _ Engine = (*Replay)(nil)
