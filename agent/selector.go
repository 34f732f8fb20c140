package agent

import (
	"math"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/xpbowler/climbe-terminal/experiments/metrics"
	"github.com/xpbowler/climbe-terminal/game"
	"github.com/xpbowler/climbe-terminal/searcher"
)

type Option func(s *Selector)

// WithRand enables cooldown jitter drawn from r. Without it the cooldown is
// exact.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) {
		s.rand = r
	}
}

func WithMetrics() Option {
	return func(s *Selector) {
		s.metrics = metrics.NewCollector()
	}
}

// Selector plans each turn in a fixed order: baseline defense, adaptive
// reinforcement, then offense. It owns the state carried across turns of one
// match and must not be shared between matches.
type Selector struct {
	config    Config
	rules     game.Rules
	estimator *searcher.RiskEstimator
	rollout   *searcher.Rollout
	region    *RegionTracker
	quadrants *RegionTracker
	spam      *SpamDetector
	metrics   metrics.Collector
	rand      *rand.Rand

	phase      Phase
	nextAttack int
	breaches   []game.Cell // Newest first
}

func NewSelector(rules game.Rules, config Config, options ...Option) *Selector {
	s := &Selector{ // Default values
		config:    config,
		rules:     rules,
		region:    NewRegionTracker(config.Region),
		quadrants: NewRegionTracker(config.Quadrants),
		spam:      NewSpamDetector(config.Spam),
		metrics:   metrics.NewDummyCollector(),
		phase:     Idle,
	}
	for _, option := range options {
		option(s)
	}
	s.estimator = searcher.NewRiskEstimator(rules, searcher.WithCollector(s.metrics))
	s.rollout = searcher.NewRollout(rules, searcher.WithCollector(s.metrics))
	return s
}

func (s *Selector) Phase() Phase {
	return s.phase
}

func (s *Selector) NextAttack() int {
	return s.nextAttack
}

func (s *Selector) Spam() SpamCounters {
	return s.spam.Counters()
}

// Zones is our zone health as of the last planned turn.
func (s *Selector) Zones() ZoneHealth {
	return s.region.Health()
}

// Observe feeds a resolved frame to the trackers and remembers where the
// opponent scored.
func (s *Selector) Observe(f game.Frame) {
	counters := s.spam.Observe(f.Events)
	health := s.region.Observe(f)

	for _, e := range f.EventsOf(game.Breach) {
		if e.Side != game.Opponent {
			continue
		}
		s.breaches = slices.Insert(s.breaches, 0, e.Cell)
	}
	if limit := s.config.Defense.ReactiveLimit; len(s.breaches) > limit {
		s.breaches = s.breaches[:max(limit, 0)]
	}

	log.Debug().Int("turn", f.Turn).Msgf("observed spam=%+v health=%v damage=%v", counters, health.Health, health.Damage)
}

// PlanTurn never fails: whatever goes wrong in the optional steps, the
// baseline defense is still returned.
func (s *Selector) PlanTurn(b *game.Board) Plan {
	s.metrics.Start(b.Turn())

	plan := Plan{Turn: b.Turn()}
	plan.Defense = s.baseline(b)
	plan.Reinforce = s.reinforce(b)
	plan.Offense, plan.Attack = s.offense(b)
	plan.Phase = s.phase
	plan.Metric = s.metrics.Complete()
	return plan
}

func (s *Selector) baseline(b *game.Board) []game.Intent {
	var builds orderedCells
	var upgrades orderedCells
	for _, p := range s.config.Defense.Baseline {
		u, ok := b.StationaryAt(p.Cell)
		switch {
		case !ok:
			builds.add(p.Kind, p.Cell)
			if p.Upgrade {
				upgrades.add(p.Kind, p.Cell)
			}
		case u.Side != game.Self || u.Kind != p.Kind:
			log.Debug().Int("turn", b.Turn()).Msgf("baseline %s at %v blocked by %s", p.Kind, p.Cell, u.Kind)
		case p.Upgrade && !u.Upgraded:
			upgrades.add(p.Kind, p.Cell)
		}
	}
	return append(builds.intents(game.Place), upgrades.intents(game.Upgrade)...)
}

func (s *Selector) reinforce(b *game.Board) []game.Intent {
	s.region.Refresh(b)
	s.spam.ScanBoard(b)

	var cells []game.Cell
	defense := s.config.Defense
	order := newBuildOrder(b)
	// Baseline cells belong to the baseline step
	for _, p := range defense.Baseline {
		order.seen[p.Cell] = true
	}

	level := s.spam.Level()
	var fired *Tier
	if s.spam.ShouldEscalate(defense.Tier1.Threshold) {
		fired = &defense.Tier1
		zone := s.region.WeakestZone(s.bias())
		cells = append(cells, defense.Tier1.Cells[zone]...)
		s.metrics.AddEscalation()
		if s.spam.ShouldEscalate(defense.Tier2.Threshold) {
			fired = &defense.Tier2
			cells = append(cells, defense.Tier2.Cells[zone]...)
			s.metrics.AddEscalation()
		}
		log.Info().Int("turn", b.Turn()).Msgf("escalating %s zone at level %.2f", zone, level)
	}
	if fired != nil {
		consume := fired.Consume
		if consume <= 0 {
			consume = level
		}
		s.spam.ConsumeEscalation(consume)
	}

	if defense.MidRush.Threshold > 0 && s.spam.Counters().Mid >= defense.MidRush.Threshold {
		cells = append(cells, defense.MidRush.Cells[ZoneMiddle]...)
		s.spam.ConsumeMid(defense.MidRush.Consume)
		log.Info().Int("turn", b.Turn()).Msg("reinforcing middle against rush")
	}

	order.fortify(defense.ReinforceKind, cells)
	order.flush()
	if defense.Stage2.Enabled {
		s.stage2(b, order)
	}
	intents := order.intents()
	if defense.Reactive {
		intents = append(intents, s.reactive(b, order)...)
	}
	return intents
}

// stage2 strengthens the weakest zone after the stage multipliers, then
// fills in the fixed turrets, the edge walls and the final line of the
// zone that is weakest as it stands.
func (s *Selector) stage2(b *game.Board, order *buildOrder) {
	stage := s.config.Defense.Stage2
	kind := s.config.Defense.ReinforceKind

	zone := s.region.WeakestZone(stage.Multipliers)
	order.fortify(kind, stage.Cells[zone])
	order.fortify(kind, stage.Turrets)
	for _, c := range stage.EdgeWalls {
		order.add(game.Wall, c)
	}
	final := s.region.WeakestZone(nil)
	order.fortify(kind, stage.Final[final])
	log.Debug().Int("turn", b.Turn()).Msgf("stage two strengthens %s, final line %s", zone, final)
}

// bias favours the zone facing the edge the opponent rushes. A rush from
// their left lands on our right.
func (s *Selector) bias() map[Zone]float64 {
	bias := s.config.Defense.OppositeBias
	if bias <= 0 {
		return nil
	}
	switch s.spam.Direction() {
	case DirectionLeft:
		return map[Zone]float64{ZoneRight: bias}
	case DirectionRight:
		return map[Zone]float64{ZoneLeft: bias}
	}
	return nil
}

// reactive puts a turret one row above each recent breach so that our own
// launch cells stay free.
func (s *Selector) reactive(b *game.Board, order *buildOrder) []game.Intent {
	var cells []game.Cell
	for _, breach := range s.breaches {
		c := breach.Add(0, 1)
		if !s.rules.InBounds(c) || c.Y >= game.HalfArena || b.Occupied(c) || order.has(c) || slices.Contains(cells, c) {
			continue
		}
		cells = append(cells, c)
	}
	if len(cells) == 0 {
		return nil
	}
	return []game.Intent{game.PlaceIntent(s.config.Defense.ReinforceKind, cells...)}
}

func (s *Selector) offense(b *game.Board) ([]game.Intent, *AttackPlan) {
	turn := b.Turn()
	cfg := s.config.Offense

	if turn < s.nextAttack {
		s.phase = Scouting
		return nil, nil
	}
	s.phase = Idle
	if turn < cfg.MinAttackTurn || len(cfg.Options) == 0 {
		return nil, nil
	}

	volley := s.volley(b)
	if volley < max(cfg.MinVolley, 1) {
		log.Debug().Int("turn", turn).Msgf("holding offense: volley of %d below %d", volley, cfg.MinVolley)
		return nil, nil
	}

	plan, ok := s.chooseAttack(b, volley)
	if !ok {
		log.Info().Int("turn", turn).Msg("no usable launch, defending only")
		return nil, nil
	}

	var intents []game.Intent
	if cfg.Support {
		if c, ok := s.supportCell(b, plan); ok {
			plan.Support = &c
			intents = append(intents, game.PlaceIntent(game.Support, c))
		}
	}
	intents = append(intents, game.LaunchIntent(plan.Kind, plan.Launch, plan.Count))
	if plan.Support != nil {
		intents = append(intents, game.RemoveIntent(*plan.Support))
	}

	s.nextAttack = turn + cfg.Cooldown + s.jitter()
	s.phase = Committed
	log.Info().Int("turn", turn).Msgf("launching %d %s from %v (risk %.1f, breach %t), next attack on turn %d",
		plan.Volley, plan.Kind, plan.Launch, plan.Risk, plan.Result.Breach, s.nextAttack)
	return intents, &plan
}

// volley is the number of offensive units the mobile budget buys.
func (s *Selector) volley(b *game.Board) int {
	cfg := s.config.Offense
	cost := s.rules.Stats(cfg.Kind).Cost[game.MP]
	budget := b.Resource(game.Self, game.MP) - cfg.Reserve
	if cost <= 0 || budget <= 0 {
		return 0
	}
	return int(math.Floor(budget / cost))
}

// chooseAttack ranks the attack options by path risk, rehearses the best
// usable ones and keeps the launch with the best outcome.
func (s *Selector) chooseAttack(b *game.Board, volley int) (AttackPlan, bool) {
	cfg := s.config.Offense
	quadrants := s.quadrants.Refresh(b)

	zones := make(map[game.Cell]Zone, len(cfg.Options))
	launches := make([]game.Cell, 0, len(cfg.Options))
	for _, option := range cfg.Options {
		zones[option.Launch] = option.Zone
		launches = append(launches, option.Launch)
	}
	key := func(c game.Cell) float64 {
		return quadrants.Health[zones[c]]
	}

	var best AttackPlan
	found := false
	tried := 0
	for _, candidate := range s.estimator.Rank(b, launches, key) {
		if tried >= max(cfg.Shortlist, 1) {
			break
		}
		if !candidate.Usable() {
			log.Debug().Int("turn", b.Turn()).Msgf("skipping launch %v: %v", candidate.Cell, candidate.Err)
			continue
		}
		tried++

		result, err := s.rollout.Simulate(b, candidate.Cell, cfg.Kind, volley)
		if err != nil {
			log.Debug().Int("turn", b.Turn()).Msgf("rollout from %v failed: %v", candidate.Cell, err)
			continue
		}
		plan := AttackPlan{
			Launch: candidate.Cell,
			Kind:   cfg.Kind,
			Count:  volley,
			Volley: volley,
			Risk:   candidate.Risk,
			Result: result,
		}
		if !found || better(plan, best) {
			best = plan
			found = true
		}
	}
	return best, found
}

// better prefers a breach, then a destroyed turret, then any destroyed
// structure, then lower risk. Equal plans keep the earlier ranked one.
func better(a, b AttackPlan) bool {
	if a.Result.Breach != b.Result.Breach {
		return a.Result.Breach
	}
	at, aok := a.Result.Target()
	bt, bok := b.Result.Target()
	aTurret := aok && at.Kind.TurretLike()
	bTurret := bok && bt.Kind.TurretLike()
	if aTurret != bTurret {
		return aTurret
	}
	if aok != bok {
		return aok
	}
	return a.Risk < b.Risk
}

// supportCell finds a free cell near the launch, off the launch path, for the
// companion support.
func (s *Selector) supportCell(b *game.Board, plan AttackPlan) (game.Cell, bool) {
	mirror := 1
	if plan.Launch.X >= game.HalfArena {
		mirror = -1
	}
	for _, offset := range s.config.Offense.SupportOffsets {
		c := plan.Launch.Add(offset.X*mirror, offset.Y)
		if !s.rules.InBounds(c) || c.Y >= game.HalfArena || b.Occupied(c) || slices.Contains(plan.Result.Path, c) {
			continue
		}
		return c, true
	}
	return game.Cell{}, false
}

func (s *Selector) jitter() int {
	if s.rand == nil || s.config.Offense.Jitter <= 0 {
		return 0
	}
	return s.rand.Intn(s.config.Offense.Jitter + 1)
}

// buildOrder queues structures for our half of a board. Each flush emits
// the places, then the upgrades, queued since the previous flush, grouped by
// kind. A cell is queued at most once per order.
type buildOrder struct {
	board    *game.Board
	seen     map[game.Cell]bool
	builds   orderedCells
	upgrades orderedCells
	out      []game.Intent
}

func newBuildOrder(b *game.Board) *buildOrder {
	return &buildOrder{board: b, seen: map[game.Cell]bool{}}
}

func (o *buildOrder) has(c game.Cell) bool {
	return o.seen[c]
}

// add builds and upgrades kind on c when the cell is free, or only upgrades
// a structure of ours of the same kind.
func (o *buildOrder) add(kind game.UnitKind, c game.Cell) {
	if o.seen[c] || !game.InBounds(c) || c.Y >= game.HalfArena {
		return
	}
	o.seen[c] = true
	u, ok := o.board.StationaryAt(c)
	switch {
	case !ok:
		o.builds.add(kind, c)
		o.upgrades.add(kind, c)
	case u.Side == game.Self && u.Kind == kind && !u.Upgraded:
		o.upgrades.add(kind, c)
	}
}

// fortify puts kind on each cell with an upgraded wall in front of it.
func (o *buildOrder) fortify(kind game.UnitKind, cells []game.Cell) {
	for _, c := range cells {
		o.add(kind, c)
		o.add(game.Wall, c.Add(0, 1))
	}
}

func (o *buildOrder) flush() {
	o.out = append(o.out, o.builds.intents(game.Place)...)
	o.out = append(o.out, o.upgrades.intents(game.Upgrade)...)
	o.builds = orderedCells{}
	o.upgrades = orderedCells{}
}

func (o *buildOrder) intents() []game.Intent {
	o.flush()
	return o.out
}

// orderedCells groups cells by unit kind, keeping first-seen order.
type orderedCells struct {
	kinds  []game.UnitKind
	byKind map[game.UnitKind][]game.Cell
}

func (o *orderedCells) add(kind game.UnitKind, c game.Cell) {
	if o.byKind == nil {
		o.byKind = map[game.UnitKind][]game.Cell{}
	}
	if _, ok := o.byKind[kind]; !ok {
		o.kinds = append(o.kinds, kind)
	}
	o.byKind[kind] = append(o.byKind[kind], c)
}

func (o *orderedCells) intents(op game.Op) []game.Intent {
	intents := make([]game.Intent, 0, len(o.kinds))
	for _, kind := range o.kinds {
		cells := o.byKind[kind]
		if op == game.Upgrade {
			intents = append(intents, game.UpgradeIntent(kind, cells...))
		} else {
			intents = append(intents, game.PlaceIntent(kind, cells...))
		}
	}
	return intents
}

var _ Agent = (*Selector)(nil)
