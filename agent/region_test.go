package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xpbowler/climbe-terminal/game"
)

func wall(side game.Side, x, y int, health float64) game.Unit {
	return game.Unit{Kind: game.Wall, Side: side, Cell: game.Cell{X: x, Y: y}, Health: health}
}

func turret(side game.Side, x, y int, health float64) game.Unit {
	return game.Unit{Kind: game.Turret, Side: side, Cell: game.Cell{X: x, Y: y}, Health: health}
}

func TestRegionTrackerRefresh(t *testing.T) {
	t.Run("weakest zone by weighted health", func(t *testing.T) {
		tracker := NewRegionTracker(DefaultConfig().Region)
		b := game.NewBoard(1)
		b.Place(wall(game.Self, 3, 13, 10))
		b.Place(wall(game.Self, 12, 13, 50))
		b.Place(wall(game.Self, 22, 13, 30))

		health := tracker.Refresh(b)

		require.Equal(t, map[Zone]float64{ZoneLeft: 10, ZoneMiddle: 50, ZoneRight: 30}, health.Health)
		require.Equal(t, ZoneLeft, tracker.WeakestZone(nil))
		require.Equal(t, ZoneRight, tracker.WeakestZone(map[Zone]float64{ZoneLeft: 10}))
	})

	t.Run("ties go to the first zone", func(t *testing.T) {
		tracker := NewRegionTracker(DefaultConfig().Region)
		b := game.NewBoard(1)
		b.Place(wall(game.Self, 12, 13, 20))

		tracker.Refresh(b)

		require.Equal(t, ZoneLeft, tracker.WeakestZone(nil), "Left and right are both empty")
	})

	t.Run("refreshing an unchanged board is idempotent", func(t *testing.T) {
		tracker := NewRegionTracker(DefaultConfig().Region)
		b := game.NewBoard(1)
		b.Place(turret(game.Self, 3, 12, 75))
		b.Place(wall(game.Self, 20, 13, 60))

		first := tracker.Refresh(b)
		second := tracker.Refresh(b)

		require.Equal(t, first, second)
	})

	t.Run("walls count less than turrets of equal health", func(t *testing.T) {
		tracker := NewRegionTracker(DefaultConfig().Region)
		b := game.NewBoard(1)
		b.Place(wall(game.Self, 2, 13, 60))
		b.Place(wall(game.Self, 4, 13, 60))
		b.Place(turret(game.Self, 21, 13, 60))
		b.Place(turret(game.Self, 23, 13, 60))

		health := tracker.Refresh(b)

		require.Less(t, health.Health[ZoneLeft], health.Health[ZoneRight])
		require.Equal(t, 3*health.Health[ZoneLeft], health.Health[ZoneRight])
	})

	t.Run("only the front rows and the watched side count", func(t *testing.T) {
		tracker := NewRegionTracker(DefaultConfig().Region)
		b := game.NewBoard(1)
		b.Place(wall(game.Self, 10, 5, 60))
		b.Place(wall(game.Opponent, 10, 14, 60))
		b.Place(game.Unit{Kind: game.Support, Side: game.Self, Cell: game.Cell{X: 11, Y: 13}, Health: 30})

		health := tracker.Refresh(b)

		require.Equal(t, 0.0, health.Health[ZoneMiddle])
	})

	t.Run("upgraded structures are scaled", func(t *testing.T) {
		config := DefaultConfig().Quadrants
		tracker := NewRegionTracker(config)
		b := game.NewBoard(1)
		upgraded := turret(game.Opponent, 6, 20, 75)
		upgraded.Upgraded = true
		b.Place(upgraded)
		b.Place(turret(game.Opponent, 10, 20, 75))

		health := tracker.Refresh(b)

		require.InDelta(t, 1.0, health.Health["q0"], 1e-9)
		require.InDelta(t, 0.5, health.Health["q1"], 1e-9)
		require.Equal(t, Zone("q2"), tracker.WeakestZone(nil))
	})
}

func TestRegionTrackerObserve(t *testing.T) {
	tracker := NewRegionTracker(DefaultConfig().Region)
	frame := game.Frame{
		Turn: 3,
		Units: []game.Unit{
			turret(game.Self, 24, 12, 40),
		},
		Events: []game.Event{
			{Type: game.Damage, Cell: game.Cell{X: 24, Y: 12}, Kind: game.Turret, Amount: 35, Side: game.Self},
			{Type: game.Damage, Cell: game.Cell{X: 25, Y: 13}, Kind: game.Wall, Amount: 10, Side: game.Self},
			{Type: game.Damage, Cell: game.Cell{X: 3, Y: 15}, Kind: game.Scout, Amount: 20, Side: game.Self},
			{Type: game.Damage, Cell: game.Cell{X: 3, Y: 20}, Kind: game.Wall, Amount: 5, Side: game.Opponent},
		},
	}

	health := tracker.Observe(frame)

	require.Equal(t, 120.0, health.Health[ZoneRight])
	require.Equal(t, map[Zone]float64{ZoneLeft: 0, ZoneMiddle: 0, ZoneRight: 45}, health.Damage)

	health = tracker.Observe(game.Frame{Turn: 4})
	require.Equal(t, 0.0, health.Damage[ZoneRight], "Damage is replaced by each frame")
}
