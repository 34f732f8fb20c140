package agent

import "github.com/xpbowler/climbe-terminal/game"

// Placement is a structure the baseline defense keeps in place.
type Placement struct {
	Kind    game.UnitKind
	Cell    game.Cell
	Upgrade bool
}

// Tier is one level of reinforcement. Consume is the amount of escalation
// evidence spent when the tier fires; zero spends all of it.
type Tier struct {
	Threshold float64
	Consume   float64
	Cells     map[Zone][]game.Cell
}

// Stage is the progressive defense built every turn after the tiers. Cells
// go to the zone that is weakest once its health is scaled by Multipliers,
// Final to the zone that is weakest unscaled.
type Stage struct {
	Enabled     bool
	Cells       map[Zone][]game.Cell
	Multipliers map[Zone]float64
	Turrets     []game.Cell
	EdgeWalls   []game.Cell
	Final       map[Zone][]game.Cell
}

type DefenseConfig struct {
	Baseline      []Placement
	ReinforceKind game.UnitKind
	Tier1         Tier
	Tier2         Tier
	MidRush       Tier
	Stage2        Stage
	OppositeBias  float64 // Multiplier on the zone facing the rushed edge
	Reactive      bool
	ReactiveLimit int // Breach locations remembered for reactive turrets
}

// AttackOption is a launch cell paired with the enemy zone it is meant to
// punish.
type AttackOption struct {
	Launch game.Cell
	Zone   Zone
}

type OffenseConfig struct {
	Kind           game.UnitKind
	Options        []AttackOption
	Shortlist      int // Ranked candidates rehearsed per attack
	MinAttackTurn  int
	Cooldown       int
	Jitter         int     // Extra cooldown turns drawn uniformly from [0, Jitter]
	Reserve        float64 // Mobile points held back
	MinVolley      int
	Support        bool
	SupportOffsets []game.Cell // Tried in order, mirrored for right side launches
}

// Config is immutable once handed to a Selector.
type Config struct {
	Name      string
	Defense   DefenseConfig
	Offense   OffenseConfig
	Region    RegionConfig
	Quadrants RegionConfig
	Spam      SpamConfig
}

func DefaultConfig() Config {
	return Config{
		Name: "default",
		Defense: DefenseConfig{
			Baseline: []Placement{
				{Kind: game.Turret, Cell: game.Cell{X: 10, Y: 11}, Upgrade: true},
				{Kind: game.Turret, Cell: game.Cell{X: 17, Y: 11}, Upgrade: true},
				{Kind: game.Turret, Cell: game.Cell{X: 3, Y: 12}, Upgrade: true},
				{Kind: game.Turret, Cell: game.Cell{X: 24, Y: 12}, Upgrade: true},
				{Kind: game.Turret, Cell: game.Cell{X: 9, Y: 11}},
				{Kind: game.Turret, Cell: game.Cell{X: 18, Y: 11}},
				{Kind: game.Wall, Cell: game.Cell{X: 3, Y: 13}, Upgrade: true},
				{Kind: game.Wall, Cell: game.Cell{X: 24, Y: 13}, Upgrade: true},
				{Kind: game.Wall, Cell: game.Cell{X: 10, Y: 12}, Upgrade: true},
				{Kind: game.Wall, Cell: game.Cell{X: 17, Y: 12}, Upgrade: true},
			},
			ReinforceKind: game.Turret,
			Tier1: Tier{
				Threshold: 2,
				Cells: map[Zone][]game.Cell{
					ZoneLeft:   {{X: 4, Y: 12}, {X: 3, Y: 12}},
					ZoneMiddle: {{X: 11, Y: 12}, {X: 16, Y: 12}},
					ZoneRight:  {{X: 23, Y: 12}, {X: 24, Y: 12}},
				},
			},
			Tier2: Tier{
				Threshold: 2.75,
				Cells: map[Zone][]game.Cell{
					ZoneLeft:   {{X: 5, Y: 12}},
					ZoneMiddle: {{X: 13, Y: 12}},
					ZoneRight:  {{X: 22, Y: 12}},
				},
			},
			MidRush: Tier{
				Threshold: 2,
				Consume:   1,
				Cells: map[Zone][]game.Cell{
					ZoneMiddle: {{X: 12, Y: 12}, {X: 15, Y: 12}},
				},
			},
			Stage2: Stage{
				Enabled: true,
				Cells: map[Zone][]game.Cell{
					ZoneLeft:   {{X: 3, Y: 12}, {X: 4, Y: 12}, {X: 5, Y: 12}},
					ZoneMiddle: {{X: 13, Y: 12}, {X: 11, Y: 12}, {X: 16, Y: 12}, {X: 9, Y: 12}, {X: 18, Y: 12}},
					ZoneRight:  {{X: 24, Y: 12}, {X: 23, Y: 12}, {X: 22, Y: 12}},
				},
				Multipliers: map[Zone]float64{ZoneLeft: 1.4, ZoneMiddle: 1, ZoneRight: 1.4},
				Turrets: []game.Cell{
					{X: 9, Y: 12}, {X: 16, Y: 12}, {X: 3, Y: 12}, {X: 24, Y: 12}, {X: 18, Y: 12}, {X: 5, Y: 12},
					{X: 22, Y: 12}, {X: 2, Y: 12}, {X: 25, Y: 12},
				},
				// (0, 13) and (27, 13) stay free for launches
				EdgeWalls: []game.Cell{{X: 1, Y: 13}, {X: 26, Y: 13}, {X: 2, Y: 13}, {X: 25, Y: 13}},
				Final: map[Zone][]game.Cell{
					ZoneLeft:   row(12, 1, 8),
					ZoneMiddle: row(12, 8, 18),
					ZoneRight:  row(12, 18, 26),
				},
			},
			OppositeBias:  0.5,
			Reactive:      true,
			ReactiveLimit: 4,
		},
		Offense: OffenseConfig{
			Kind: game.Scout,
			Options: []AttackOption{
				{Launch: game.Cell{X: 0, Y: 13}, Zone: "q0"},
				{Launch: game.Cell{X: 5, Y: 8}, Zone: "q1"},
				{Launch: game.Cell{X: 22, Y: 8}, Zone: "q2"},
				{Launch: game.Cell{X: 27, Y: 13}, Zone: "q3"},
			},
			Shortlist:      3,
			MinAttackTurn:  2,
			Cooldown:       2,
			Jitter:         1,
			MinVolley:      5,
			Support:        true,
			SupportOffsets: []game.Cell{{X: 2, Y: 0}, {X: 1, Y: -1}, {X: 1, Y: 1}},
		},
		Region: RegionConfig{
			Side: game.Self,
			Zones: []ZoneSpan{
				{Zone: ZoneLeft, MinX: 0, MaxX: 7},
				{Zone: ZoneMiddle, MinX: 8, MaxX: 18},
				{Zone: ZoneRight, MinX: 19, MaxX: 27},
			},
			Kinds: []KindWeight{
				{Kind: game.Wall, Weight: 1, Rows: []int{12, 13}},
				{Kind: game.Turret, Weight: 3, Rows: []int{11, 12, 13}},
			},
			UpgradedMultiplier: 1,
		},
		Quadrants: RegionConfig{
			Side: game.Opponent,
			Zones: []ZoneSpan{
				{Zone: "q0", MinX: 0, MaxX: 6},
				{Zone: "q1", MinX: 7, MaxX: 13},
				{Zone: "q2", MinX: 14, MaxX: 20},
				{Zone: "q3", MinX: 21, MaxX: 27},
			},
			Kinds:              []KindWeight{{Kind: game.Turret, Weight: 0.5 / 75}},
			UpgradedMultiplier: 2,
		},
		Spam: SpamConfig{
			Side:      game.Opponent,
			Kinds:     []game.UnitKind{game.Scout},
			EdgeDepth: 6,
			MidDepth:  8,
			SplitX:    13,
			Burst:     5,
			BackZone:  backZone(5),
			Weights:   SpamWeights{EdgeLeft: 1, EdgeRight: 1, BackSupport: 1},
		},
	}
}

func row(y, from, to int) []game.Cell {
	cells := make([]game.Cell, 0, to-from+1)
	for x := from; x <= to; x++ {
		cells = append(cells, game.Cell{X: x, Y: y})
	}
	return cells
}

// backZone is the wedge of the opponent's last rows behind the centre.
func backZone(rows int) []game.Cell {
	var cells []game.Cell
	for i := 0; i < rows; i++ {
		y := game.ArenaSize - 1 - i
		for x := game.HalfArena - 1 - i; x <= game.HalfArena+i; x++ {
			cells = append(cells, game.Cell{X: x, Y: y})
		}
	}
	return cells
}
