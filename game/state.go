package game

import (
	"slices"
	"strconv"
)

// Board is a snapshot of the arena at the start of a turn: every unit by
// cell, both sides' resource pools and the turn number. A Board is owned by
// the turn that captured it; speculative work must operate on a Copy.
type Board struct {
	units     map[Cell][]Unit
	resources [2][2]float64 // [Side][Currency]
	turn      int
	nextID    int
}

func NewBoard(turn int) *Board {
	return &Board{
		units: make(map[Cell][]Unit),
		turn:  turn,
	}
}

func (b *Board) Turn() int {
	return b.turn
}

func (b *Board) SetTurn(turn int) {
	b.turn = turn
}

func (b *Board) Resource(side Side, currency Currency) float64 {
	return b.resources[side][currency]
}

func (b *Board) SetResource(side Side, currency Currency, value float64) {
	b.resources[side][currency] = value
}

// Place adds a unit to the board and returns it, assigning an ID when the
// unit has none.
func (b *Board) Place(u Unit) Unit {
	if u.ID == "" {
		b.nextID++
		u.ID = "b" + strconv.Itoa(b.nextID)
	}
	b.units[u.Cell] = append(b.units[u.Cell], u)
	return u
}

// UnitsAt returns a copy of the units on a cell.
func (b *Board) UnitsAt(c Cell) []Unit {
	return slices.Clone(b.units[c])
}

// StationaryAt returns the structure occupying a cell, if any.
func (b *Board) StationaryAt(c Cell) (Unit, bool) {
	for _, u := range b.units[c] {
		if u.Kind.Stationary() {
			return u, true
		}
	}
	return Unit{}, false
}

func (b *Board) Occupied(c Cell) bool {
	_, ok := b.StationaryAt(c)
	return ok
}

// Cells returns every occupied cell ordered by row, then column.
func (b *Board) Cells() []Cell {
	cells := make([]Cell, 0, len(b.units))
	for c, units := range b.units {
		if len(units) > 0 {
			cells = append(cells, c)
		}
	}
	slices.SortFunc(cells, func(a, b Cell) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	return cells
}

// Stationary returns the side's structures in cell order.
func (b *Board) Stationary(side Side) []Unit {
	var units []Unit
	for _, c := range b.Cells() {
		for _, u := range b.units[c] {
			if u.Side == side && u.Kind.Stationary() {
				units = append(units, u)
			}
		}
	}
	return units
}

// Damage reduces the health of a unit and removes it once its health drops
// to zero. It returns the unit after the hit and whether it was destroyed.
func (b *Board) Damage(c Cell, id string, amount float64) (Unit, bool) {
	units := b.units[c]
	for i := range units {
		if units[i].ID != id {
			continue
		}
		units[i].Health -= amount
		u := units[i]
		if u.Health <= 0 {
			b.Remove(c, id)
			return u, true
		}
		return u, false
	}
	return Unit{}, false
}

// Remove deletes a unit from a cell, reporting whether it was present.
func (b *Board) Remove(c Cell, id string) bool {
	units := b.units[c]
	for i := range units {
		if units[i].ID == id {
			b.units[c] = slices.Delete(slices.Clone(units), i, i+1)
			if len(b.units[c]) == 0 {
				delete(b.units, c)
			}
			return true
		}
	}
	return false
}

func (b *Board) upgrade(c Cell, id string) {
	units := b.units[c]
	for i := range units {
		if units[i].ID == id {
			units[i].Upgraded = true
		}
	}
}

// Copy returns an independent board. Mutating the copy never affects the
// original.
func (b *Board) Copy() *Board {
	units := make(map[Cell][]Unit, len(b.units))
	for c, us := range b.units {
		units[c] = slices.Clone(us)
	}
	return &Board{
		units:     units,
		resources: b.resources,
		turn:      b.turn,
		nextID:    b.nextID,
	}
}
