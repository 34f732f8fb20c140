package game

import (
	"errors"
	"fmt"
	"math"
)

type Op int

const (
	Place Op = iota
	Remove
	Upgrade
)

func (o Op) String() string {
	return [...]string{"place", "remove", "upgrade"}[o]
}

// Intent is a single request to the simulation engine. Intents are applied
// best-effort: a rejected cell never undoes the others.
type Intent struct {
	Op    Op
	Kind  UnitKind
	Cells []Cell
	Count int // Units per cell for mobile placements; Many places all affordable
}

func PlaceIntent(kind UnitKind, cells ...Cell) Intent {
	return Intent{Op: Place, Kind: kind, Cells: cells, Count: 1}
}

func LaunchIntent(kind UnitKind, cell Cell, count int) Intent {
	return Intent{Op: Place, Kind: kind, Cells: []Cell{cell}, Count: count}
}

func RemoveIntent(cells ...Cell) Intent {
	return Intent{Op: Remove, Cells: cells}
}

func UpgradeIntent(kind UnitKind, cells ...Cell) Intent {
	return Intent{Op: Upgrade, Kind: kind, Cells: cells}
}

func (i Intent) String() string {
	if i.Op == Remove {
		return fmt.Sprintf("%s %v", i.Op, i.Cells)
	}
	return fmt.Sprintf("%s %s x%d %v", i.Op, i.Kind, i.Count, i.Cells)
}

// Apply applies an intent for Self the way the game server does. Every cell
// is attempted; the failures are joined into the returned error.
func (b *Board) Apply(r Rules, intent Intent) error {
	var errs []error
	for _, c := range intent.Cells {
		var err error
		switch intent.Op {
		case Place:
			err = b.place(r, intent.Kind, c, intent.Count)
		case Remove:
			err = b.remove(c)
		case Upgrade:
			err = b.upgradeAt(r, c)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %v: %w", intent.Op, c, err))
		}
	}
	return errors.Join(errs...)
}

func (b *Board) place(r Rules, kind UnitKind, c Cell, count int) error {
	if !r.InBounds(c) || c.Y >= HalfArena {
		return ErrInvalidCell
	}
	stats := r.Stats(kind)
	if kind.Stationary() {
		if b.Occupied(c) {
			return ErrInvalidCell
		}
		if !b.afford(stats.Cost, 1) {
			return ErrInsufficientResources
		}
		b.spend(stats.Cost, 1)
		b.Place(Unit{Kind: kind, Side: Self, Cell: c, Health: stats.Health})
		return nil
	}

	if b.Occupied(c) || !onBackEdge(c) {
		return ErrInvalidCell
	}
	n := count
	if n == Many {
		n = b.affordable(stats.Cost)
	}
	if n <= 0 || !b.afford(stats.Cost, n) {
		return ErrInsufficientResources
	}
	b.spend(stats.Cost, n)
	for i := 0; i < n; i++ {
		b.Place(Unit{Kind: kind, Side: Self, Cell: c, Health: stats.Health})
	}
	return nil
}

func (b *Board) remove(c Cell) error {
	u, ok := b.StationaryAt(c)
	if !ok || u.Side != Self {
		return ErrInvalidCell
	}
	b.Remove(c, u.ID)
	return nil
}

func (b *Board) upgradeAt(r Rules, c Cell) error {
	u, ok := b.StationaryAt(c)
	if !ok || u.Side != Self || u.Upgraded {
		return ErrInvalidCell
	}
	cost := r.Stats(u.Kind).UpgradeCost
	if !b.afford(cost, 1) {
		return ErrInsufficientResources
	}
	b.spend(cost, 1)
	b.upgrade(c, u.ID)
	return nil
}

func (b *Board) afford(cost [2]float64, n int) bool {
	for cur, price := range cost {
		if price*float64(n) > b.resources[Self][cur] {
			return false
		}
	}
	return true
}

func (b *Board) affordable(cost [2]float64) int {
	n := math.MaxInt
	for cur, price := range cost {
		if price > 0 {
			n = min(n, int(math.Floor(b.resources[Self][cur]/price)))
		}
	}
	if n == math.MaxInt {
		return 0
	}
	return n
}

func (b *Board) spend(cost [2]float64, n int) {
	for cur, price := range cost {
		b.resources[Self][cur] -= price * float64(n)
	}
}

func onBackEdge(c Cell) bool {
	return OnEdge(c, BottomLeft) || OnEdge(c, BottomRight)
}
