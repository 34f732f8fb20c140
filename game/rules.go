package game

// Rules is the simulation engine's physics as seen by the decision layer:
// pathing, targeting and the unit catalog.
type Rules interface {
	// PathToEdge returns the path a mobile unit launched from start walks,
	// starting with start itself. It fails with ErrNoPath when the start is
	// outside the arena or blocked.
	PathToEdge(b *Board, start Cell) ([]Cell, error)
	// Attackers returns the structures hostile to side that can fire on c.
	Attackers(b *Board, c Cell, side Side) []Unit
	// Target returns the structure a unit of the given kind owned by side
	// standing on c would hit.
	Target(b *Board, c Cell, side Side, kind UnitKind) (Unit, bool)
	Stats(kind UnitKind) UnitStats
	InBounds(c Cell) bool
	TargetEdge(start Cell) Edge
	OnEdge(c Cell, e Edge) bool
}
