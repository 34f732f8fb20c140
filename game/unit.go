package game

import (
	"fmt"
	"strings"
)

// UnitKind values match the unit type indices used in action frames.
type UnitKind int

const (
	Wall UnitKind = iota
	Support
	Turret
	Scout
	Demolisher
	Interceptor
)

var unitNames = [...]string{"wall", "support", "turret", "scout", "demolisher", "interceptor"}

// Shorthands used by the game server config.
var unitShorthands = [...]string{"FF", "EF", "DF", "PI", "EI", "SI"}

func (k UnitKind) String() string {
	if k < 0 || int(k) >= len(unitNames) {
		return fmt.Sprintf("unit(%d)", int(k))
	}
	return unitNames[k]
}

func (k UnitKind) Stationary() bool {
	return k >= Wall && k <= Turret
}

func (k UnitKind) Mobile() bool {
	return k >= Scout && k <= Interceptor
}

func (k UnitKind) TurretLike() bool {
	return k == Turret
}

func ParseUnitKind(s string) (UnitKind, error) {
	for i := range unitNames {
		if strings.EqualFold(s, unitNames[i]) || strings.EqualFold(s, unitShorthands[i]) {
			return UnitKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown unit kind %q", s)
}

func (k UnitKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *UnitKind) UnmarshalText(text []byte) error {
	kind, err := ParseUnitKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Unit is a unit on the board. Units are values; boards hold copies.
type Unit struct {
	ID       string
	Kind     UnitKind
	Side     Side
	Cell     Cell
	Health   float64
	Upgraded bool
}

type UnitStats struct {
	Cost            [2]float64 // Indexed by Currency
	UpgradeCost     [2]float64
	Health          float64
	StructureDamage float64 // Per unit per step against structures
	MobileDamage    float64 // Per shot against mobile units
	Range           float64
}
