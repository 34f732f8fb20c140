package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xpbowler/climbe-terminal/game"
)

func spawns(n int, side game.Side, kind game.UnitKind, c game.Cell) []game.Event {
	events := make([]game.Event, n)
	for i := range events {
		events[i] = game.Event{Type: game.Spawn, Cell: c, Kind: kind, Side: side}
	}
	return events
}

func TestSpamDetectorObserve(t *testing.T) {
	t.Run("a left burst counts once", func(t *testing.T) {
		d := NewSpamDetector(DefaultConfig().Spam)

		counters := d.Observe(spawns(5, game.Opponent, game.Scout, game.Cell{X: 10, Y: 24}))

		require.Equal(t, SpamCounters{EdgeLeft: 1}, counters)
	})

	t.Run("below the burst size nothing counts", func(t *testing.T) {
		d := NewSpamDetector(DefaultConfig().Spam)

		counters := d.Observe(spawns(4, game.Opponent, game.Scout, game.Cell{X: 10, Y: 24}))

		require.Equal(t, SpamCounters{}, counters)
	})

	t.Run("lanes are classified by row and column", func(t *testing.T) {
		d := NewSpamDetector(DefaultConfig().Spam)
		var events []game.Event
		events = append(events, spawns(6, game.Opponent, game.Scout, game.Cell{X: 20, Y: 22})...)
		events = append(events, spawns(5, game.Opponent, game.Scout, game.Cell{X: 12, Y: 21})...)
		events = append(events, spawns(3, game.Opponent, game.Scout, game.Cell{X: 5, Y: 22})...)
		events = append(events, spawns(8, game.Opponent, game.Scout, game.Cell{X: 13, Y: 19})...)

		counters := d.Observe(events)

		require.Equal(t, SpamCounters{EdgeRight: 1, Mid: 1}, counters)
		require.Equal(t, DirectionRight, d.Direction())
	})

	t.Run("own launches and other kinds are ignored", func(t *testing.T) {
		d := NewSpamDetector(DefaultConfig().Spam)
		var events []game.Event
		events = append(events, spawns(5, game.Self, game.Scout, game.Cell{X: 10, Y: 3})...)
		events = append(events, spawns(5, game.Opponent, game.Demolisher, game.Cell{X: 10, Y: 24})...)
		events = append(events, game.Event{Type: game.Breach, Cell: game.Cell{X: 10, Y: 24}, Kind: game.Scout, Side: game.Opponent})

		counters := d.Observe(events)

		require.Equal(t, SpamCounters{}, counters)
	})

	t.Run("counters accumulate across turns", func(t *testing.T) {
		d := NewSpamDetector(DefaultConfig().Spam)

		d.Observe(spawns(5, game.Opponent, game.Scout, game.Cell{X: 10, Y: 24}))
		d.Observe(nil)
		counters := d.Observe(spawns(7, game.Opponent, game.Scout, game.Cell{X: 10, Y: 25}))

		require.Equal(t, 2.0, counters.EdgeLeft)
		require.Equal(t, DirectionLeft, d.Direction())
	})
}

func TestSpamDetectorScanBoard(t *testing.T) {
	d := NewSpamDetector(DefaultConfig().Spam)
	b := game.NewBoard(1)
	b.Place(game.Unit{Kind: game.Support, Side: game.Opponent, Cell: game.Cell{X: 13, Y: 27}, Health: 30})
	b.Place(game.Unit{Kind: game.Support, Side: game.Opponent, Cell: game.Cell{X: 12, Y: 25}, Health: 30})
	b.Place(game.Unit{Kind: game.Turret, Side: game.Opponent, Cell: game.Cell{X: 14, Y: 26}, Health: 75})

	require.True(t, d.ScanBoard(b))
	require.Equal(t, 1.0, d.Counters().BackSupport, "Several supports still count once per scan")

	require.False(t, NewSpamDetector(DefaultConfig().Spam).ScanBoard(game.NewBoard(1)))
}

func TestSpamDetectorEscalation(t *testing.T) {
	t.Run("consuming after escalating stops the next escalation", func(t *testing.T) {
		d := NewSpamDetector(DefaultConfig().Spam)
		d.Observe(spawns(5, game.Opponent, game.Scout, game.Cell{X: 10, Y: 24}))
		d.Observe(spawns(5, game.Opponent, game.Scout, game.Cell{X: 20, Y: 24}))

		require.True(t, d.ShouldEscalate(2))
		d.ConsumeEscalation(2)

		require.False(t, d.ShouldEscalate(2))
		require.Equal(t, 0.0, d.Level())
	})

	t.Run("back support drains first and counters never go negative", func(t *testing.T) {
		d := NewSpamDetector(DefaultConfig().Spam)
		b := game.NewBoard(1)
		b.Place(game.Unit{Kind: game.Support, Side: game.Opponent, Cell: game.Cell{X: 13, Y: 27}, Health: 30})
		d.ScanBoard(b)
		d.Observe(spawns(5, game.Opponent, game.Scout, game.Cell{X: 10, Y: 24}))
		d.Observe(spawns(5, game.Opponent, game.Scout, game.Cell{X: 10, Y: 24}))

		d.ConsumeEscalation(2)
		require.Equal(t, SpamCounters{EdgeLeft: 1}, d.Counters())

		d.ConsumeEscalation(10)
		require.Equal(t, SpamCounters{}, d.Counters())
	})

	t.Run("middle rush is not part of the escalation level", func(t *testing.T) {
		d := NewSpamDetector(DefaultConfig().Spam)
		d.Observe(spawns(5, game.Opponent, game.Scout, game.Cell{X: 13, Y: 20}))
		d.Observe(spawns(5, game.Opponent, game.Scout, game.Cell{X: 13, Y: 20}))

		require.Equal(t, 0.0, d.Level())
		require.Equal(t, 2.0, d.Counters().Mid)

		d.ConsumeMid(1)
		d.ConsumeMid(5)
		require.Equal(t, 0.0, d.Counters().Mid)
	})
}
