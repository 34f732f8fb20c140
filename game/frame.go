package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

type EventType int

const (
	Breach EventType = iota
	Damage
	Spawn
	Death
)

func (t EventType) String() string {
	return eventNames[t]
}

var eventNames = [...]string{"breach", "damage", "spawn", "death"}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(text []byte) error {
	for i, name := range eventNames {
		if strings.EqualFold(string(text), name) {
			*t = EventType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", text)
}

// Event is one entry of the telemetry the engine reports after resolving a
// turn. Side is the owner of the unit the event is about.
type Event struct {
	Type   EventType
	Cell   Cell
	Kind   UnitKind
	Amount float64
	Side   Side
	UnitID string
}

// Frame is the resolved outcome of a turn.
type Frame struct {
	Turn      int
	Events    []Event
	Units     []Unit        // Structures alive after resolution
	Resources [2][2]float64 // [Side][Currency]
	Health    [2]float64
}

// Board rebuilds a snapshot from the frame.
func (f Frame) Board() *Board {
	b := NewBoard(f.Turn)
	b.resources = f.Resources
	for _, u := range f.Units {
		b.Place(u)
	}
	return b
}

func (f Frame) EventsOf(t EventType) []Event {
	var events []Event
	for _, e := range f.Events {
		if e.Type == t {
			events = append(events, e)
		}
	}
	return events
}

type rawFrame struct {
	TurnInfo []float64          `json:"turnInfo"`
	P1Units  [][][]any          `json:"p1Units"`
	P2Units  [][][]any          `json:"p2Units"`
	P1Stats  []float64          `json:"p1Stats"`
	P2Stats  []float64          `json:"p2Stats"`
	Events   map[string][][]any `json:"events"`
}

// Index of upgrade markers in the per-player unit lists.
const upgradeList = 7

// ParseFrame decodes an action or deploy frame as sent by the game server.
// Owner 1 in the frame is Self and owner 2 the opponent.
func ParseFrame(data []byte) (Frame, error) {
	var raw rawFrame
	if err := json.Unmarshal(data, &raw); err != nil {
		return Frame{}, fmt.Errorf("failed to decode frame: %w", err)
	}

	f := Frame{}
	if len(raw.TurnInfo) > 1 {
		f.Turn = int(raw.TurnInfo[1])
	}
	for side, stats := range [][]float64{raw.P1Stats, raw.P2Stats} {
		if len(stats) >= 3 {
			f.Health[side] = stats[0]
			f.Resources[side][SP] = stats[1]
			f.Resources[side][MP] = stats[2]
		}
	}

	for side, lists := range [][][][]any{raw.P1Units, raw.P2Units} {
		units, err := parseUnits(lists, Side(side))
		if err != nil {
			return Frame{}, err
		}
		f.Units = append(f.Units, units...)
	}

	for _, name := range []string{"spawn", "breach", "damage", "death"} {
		for _, entry := range raw.Events[name] {
			e, err := parseEvent(name, entry)
			if err != nil {
				return Frame{}, err
			}
			f.Events = append(f.Events, e)
		}
	}
	return f, nil
}

func parseUnits(lists [][][]any, side Side) ([]Unit, error) {
	upgraded := map[Cell]bool{}
	if len(lists) > upgradeList {
		for _, entry := range lists[upgradeList] {
			c, err := cellAt(entry, 0, 1)
			if err != nil {
				return nil, err
			}
			upgraded[c] = true
		}
	}

	var units []Unit
	for kind := Wall; kind <= Turret && int(kind) < len(lists); kind++ {
		for _, entry := range lists[kind] {
			c, err := cellAt(entry, 0, 1)
			if err != nil {
				return nil, err
			}
			health, err := numberAt(entry, 2)
			if err != nil {
				return nil, err
			}
			units = append(units, Unit{
				ID:       idAt(entry, 3),
				Kind:     kind,
				Side:     side,
				Cell:     c,
				Health:   health,
				Upgraded: upgraded[c],
			})
		}
	}
	return units, nil
}

// Event layouts:
//
//	spawn:  [[x, y], type, id, owner]
//	death:  [[x, y], type, id, owner, removedByOwner]
//	breach: [[x, y], damage, type, id, owner]
//	damage: [[x, y], damage, type, id, owner]
func parseEvent(name string, entry []any) (Event, error) {
	if len(entry) < 4 {
		return Event{}, fmt.Errorf("malformed %s event %v", name, entry)
	}
	loc, ok := entry[0].([]any)
	if !ok {
		return Event{}, fmt.Errorf("malformed %s event location %v", name, entry[0])
	}
	c, err := cellAt(loc, 0, 1)
	if err != nil {
		return Event{}, err
	}

	e := Event{Cell: c}
	var kind, owner float64
	switch name {
	case "spawn", "death":
		e.Type = Spawn
		if name == "death" {
			e.Type = Death
		}
		kind, err = numberAt(entry, 1)
		if err == nil {
			e.UnitID = idAt(entry, 2)
			owner, err = numberAt(entry, 3)
		}
	default:
		e.Type = Breach
		if name == "damage" {
			e.Type = Damage
		}
		if len(entry) < 5 {
			return Event{}, fmt.Errorf("malformed %s event %v", name, entry)
		}
		e.Amount, err = numberAt(entry, 1)
		if err == nil {
			kind, err = numberAt(entry, 2)
		}
		if err == nil {
			e.UnitID = idAt(entry, 3)
			owner, err = numberAt(entry, 4)
		}
	}
	if err != nil {
		return Event{}, fmt.Errorf("malformed %s event: %w", name, err)
	}

	e.Kind = UnitKind(int(kind))
	e.Side = Self
	if int(owner) == 2 {
		e.Side = Opponent
	}
	return e, nil
}

func cellAt(entry []any, xi, yi int) (Cell, error) {
	x, err := numberAt(entry, xi)
	if err != nil {
		return Cell{}, err
	}
	y, err := numberAt(entry, yi)
	if err != nil {
		return Cell{}, err
	}
	return Cell{X: int(x), Y: int(y)}, nil
}

func numberAt(entry []any, i int) (float64, error) {
	if i >= len(entry) {
		return 0, fmt.Errorf("missing field %d in %v", i, entry)
	}
	n, ok := entry[i].(float64)
	if !ok {
		return 0, fmt.Errorf("field %d of %v is not a number", i, entry)
	}
	return n, nil
}

func idAt(entry []any, i int) string {
	if i >= len(entry) {
		return ""
	}
	switch v := entry[i].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%d", int(v))
	}
	return ""
}
