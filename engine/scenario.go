package engine

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xpbowler/climbe-terminal/game"
)

var ErrEmptyScenario = errors.New("scenario has no turns")

// Scenario is a recorded match from our side: what the opponent had on the
// board each turn and what happened when the turn resolved. Our own
// structures come from the agent being replayed.
type Scenario struct {
	Name  string     `yaml:"name"`
	Turns []TurnSpec `yaml:"turns"`
}

// TurnSpec describes one turn. Turns are numbered by their position.
type TurnSpec struct {
	Self     Resources  `yaml:"self"`
	Opponent Resources  `yaml:"opponent"`
	Units    []UnitSpec `yaml:"units"`
	// Events reported once the turn resolved, after any from Frame.
	Events []EventSpec `yaml:"events"`
	// Frame is an optional raw action frame whose events are replayed.
	Frame string `yaml:"frame"`
}

type Resources struct {
	SP     float64 `yaml:"sp"`
	MP     float64 `yaml:"mp"`
	Health float64 `yaml:"health"`
}

type UnitSpec struct {
	Kind     game.UnitKind `yaml:"kind"`
	Side     game.Side     `yaml:"side"`
	At       point         `yaml:"at"`
	Health   float64       `yaml:"health"` // Zero means full health
	Upgraded bool          `yaml:"upgraded"`
}

type EventSpec struct {
	Type   game.EventType `yaml:"type"`
	Kind   game.UnitKind  `yaml:"kind"`
	Side   game.Side      `yaml:"side"`
	At     point          `yaml:"at"`
	Amount float64        `yaml:"amount"`
	Count  int            `yaml:"count"` // Repeats, at least one
}

// point is a cell written as [x, y].
type point []int

func (p point) cell() (game.Cell, error) {
	if len(p) != 2 {
		return game.Cell{}, fmt.Errorf("%w: need [x, y], got %v", game.ErrInvalidCell, []int(p))
	}
	c := game.Cell{X: p[0], Y: p[1]}
	if !game.InBounds(c) {
		return game.Cell{}, fmt.Errorf("%w: %v", game.ErrInvalidCell, c)
	}
	return c, nil
}

func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes a YAML scenario and checks every cell and frame in it
// up front, so that a replay never stops half way.
func ParseScenario(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, err
	}
	if len(s.Turns) == 0 {
		return Scenario{}, ErrEmptyScenario
	}
	for i, turn := range s.Turns {
		if _, err := turn.units(); err != nil {
			return Scenario{}, fmt.Errorf("turn %d: %w", i, err)
		}
		if _, err := turn.events(); err != nil {
			return Scenario{}, fmt.Errorf("turn %d: %w", i, err)
		}
	}
	return s, nil
}

func (t TurnSpec) units() ([]game.Unit, error) {
	units := make([]game.Unit, 0, len(t.Units))
	for _, spec := range t.Units {
		c, err := spec.At.cell()
		if err != nil {
			return nil, err
		}
		if !spec.Kind.Stationary() {
			return nil, fmt.Errorf("%w: %s at %v is not a structure", game.ErrInvalidCell, spec.Kind, c)
		}
		units = append(units, game.Unit{Kind: spec.Kind, Side: spec.Side, Cell: c, Health: spec.Health, Upgraded: spec.Upgraded})
	}
	return units, nil
}

func (t TurnSpec) events() ([]game.Event, error) {
	var events []game.Event
	if t.Frame != "" {
		frame, err := game.ParseFrame([]byte(t.Frame))
		if err != nil {
			return nil, err
		}
		events = append(events, frame.Events...)
	}
	for _, spec := range t.Events {
		c, err := spec.At.cell()
		if err != nil {
			return nil, err
		}
		for n := 0; n < max(spec.Count, 1); n++ {
			events = append(events, game.Event{Type: spec.Type, Cell: c, Kind: spec.Kind, Amount: spec.Amount, Side: spec.Side})
		}
	}
	return events, nil
}
