package game

import (
	"fmt"
	"strings"
)

// ParseEvaluate looks up a board evaluation by name: structures, resources
// or balanced.
func ParseEvaluate(name string) (Evaluate, error) {
	switch strings.ToLower(name) {
	case "structures", "":
		return EvaluateStructures, nil
	case "resources":
		return EvaluateResources, nil
	case "balanced":
		return EvaluateBalanced, nil
	}
	return nil, fmt.Errorf("unknown evaluation %q", name)
}

// EvaluateStructures compares the total structure health of both sides to
// produce a score between -1 and 1 from Self's perspective.
func EvaluateStructures(b *Board) float64 {
	var health [2]float64
	for _, side := range []Side{Self, Opponent} {
		for _, u := range b.Stationary(side) {
			health[side] += u.Health
		}
	}
	return normalize(health[Self], health[Opponent])
}

// EvaluateResources compares the resources both sides hold.
func EvaluateResources(b *Board) float64 {
	self := b.Resource(Self, SP) + b.Resource(Self, MP)
	other := b.Resource(Opponent, SP) + b.Resource(Opponent, MP)
	return normalize(self, other)
}

// EvaluateBalanced averages the structure and resource scores.
func EvaluateBalanced(b *Board) float64 {
	return (EvaluateStructures(b) + EvaluateResources(b)) / 2
}

// normalize returns a score between -1 and 1 comparing value to otherValue
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
