package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaGeometry(t *testing.T) {
	t.Run("diamond bounds", func(t *testing.T) {
		require.True(t, InBounds(Cell{X: 13, Y: 0}))
		require.True(t, InBounds(Cell{X: 14, Y: 0}))
		require.False(t, InBounds(Cell{X: 12, Y: 0}))
		require.True(t, InBounds(Cell{X: 0, Y: 13}))
		require.True(t, InBounds(Cell{X: 0, Y: 14}))
		require.False(t, InBounds(Cell{X: 0, Y: 15}))
		require.True(t, InBounds(Cell{X: 27, Y: 14}))
		require.False(t, InBounds(Cell{X: 28, Y: 14}))
	})

	t.Run("edge cells lie on their edge", func(t *testing.T) {
		for _, e := range []Edge{TopRight, TopLeft, BottomLeft, BottomRight} {
			cells := EdgeCells(e)
			require.Len(t, cells, HalfArena)
			for _, c := range cells {
				require.True(t, InBounds(c), "%v on %s", c, e)
				require.True(t, OnEdge(c, e), "%v on %s", c, e)
			}
		}
		require.False(t, OnEdge(Cell{X: 13, Y: 13}, TopRight))
	})

	t.Run("launches head to the opposite edge", func(t *testing.T) {
		require.Equal(t, TopRight, TargetEdge(Cell{X: 0, Y: 13}))
		require.Equal(t, TopLeft, TargetEdge(Cell{X: 27, Y: 13}))
		require.Equal(t, BottomRight, TargetEdge(Cell{X: 5, Y: 22}))
		require.Equal(t, BottomLeft, TargetEdge(Cell{X: 20, Y: 20}))
	})
}

func TestStandardRulesPathToEdge(t *testing.T) {
	rules := NewStandardRules()

	t.Run("open board reaches the target edge", func(t *testing.T) {
		b := NewBoard(1)
		start := Cell{X: 13, Y: 0}

		path, err := rules.PathToEdge(b, start)

		require.NoError(t, err)
		require.Equal(t, start, path[0])
		require.True(t, OnEdge(path[len(path)-1], TopRight))
		for i := 1; i < len(path); i++ {
			require.Equal(t, 1.0, path[i].Distance(path[i-1]), "Path steps must be adjacent")
		}
	})

	t.Run("blocked launch cell has no path", func(t *testing.T) {
		b := NewBoard(1)
		b.Place(Unit{Kind: Wall, Side: Self, Cell: Cell{X: 13, Y: 0}, Health: 60})

		_, err := rules.PathToEdge(b, Cell{X: 13, Y: 0})

		require.ErrorIs(t, err, ErrNoPath)
	})

	t.Run("launch outside the arena has no path", func(t *testing.T) {
		_, err := rules.PathToEdge(NewBoard(1), Cell{X: 0, Y: 0})

		require.ErrorIs(t, err, ErrNoPath)
	})

	t.Run("enclosed launch stops short of the edge", func(t *testing.T) {
		b := NewBoard(1)
		b.Place(Unit{Kind: Wall, Side: Self, Cell: Cell{X: 13, Y: 1}, Health: 60})
		b.Place(Unit{Kind: Wall, Side: Self, Cell: Cell{X: 14, Y: 0}, Health: 60})

		path, err := rules.PathToEdge(b, Cell{X: 13, Y: 0})

		require.NoError(t, err)
		require.Equal(t, []Cell{{X: 13, Y: 0}}, path)
	})
}

func TestStandardRulesTargeting(t *testing.T) {
	rules := NewStandardRules()
	b := NewBoard(1)
	near := b.Place(Unit{Kind: Turret, Side: Opponent, Cell: Cell{X: 13, Y: 15}, Health: 75})
	b.Place(Unit{Kind: Wall, Side: Opponent, Cell: Cell{X: 13, Y: 17}, Health: 10})
	b.Place(Unit{Kind: Turret, Side: Self, Cell: Cell{X: 13, Y: 12}, Health: 75})

	t.Run("turrets in range attack", func(t *testing.T) {
		require.Equal(t, []Unit{near}, rules.Attackers(b, Cell{X: 13, Y: 13}, Self))
		require.Empty(t, rules.Attackers(b, Cell{X: 13, Y: 11}, Self), "Own turrets never attack Self")
	})

	t.Run("nearest structure is targeted first", func(t *testing.T) {
		target, ok := rules.Target(b, Cell{X: 13, Y: 14}, Self, Scout)

		require.True(t, ok)
		require.Equal(t, near.ID, target.ID)
	})

	t.Run("nothing in range", func(t *testing.T) {
		_, ok := rules.Target(b, Cell{X: 3, Y: 10}, Self, Scout)

		require.False(t, ok)
	})
}
