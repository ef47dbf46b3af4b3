package searcher

import (
	"testing"
	"time"

	"gridiron/game"
	"gridiron/rules"

	"github.com/stretchr/testify/require"
)

func TestSearchActivatesTheCarrier(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 2, 8)}
	away := []*game.Player{fixturePlayer(21, 24, 8)}
	s := fixtureState(home, away)
	giveBall(s, home[0])

	m := NewMCTS(newTestAdapter(), WithIterations(300), WithSeed(9), WithMetrics())
	action, metric, err := m.Search(s)
	require.NoError(t, err, "A playable turn should search")
	require.Equal(t, 11, action.PlayerID, "The side to move should activate its carrier")
	require.Equal(t, 300, metric.Iterations, "Every budgeted iteration should run")
	require.GreaterOrEqual(t, metric.MaxDepth, 2, "The tree should grow past the root")

	for _, child := range metric.Children {
		if child.Action.Type == game.ActEndTurn {
			require.Equal(t, 1, child.Visits, "Ending the turn gets its expansion visit and nothing more")
		}
	}
}

func TestSearchScoresTheOpenTouchdown(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 2, 8)}
	away := []*game.Player{fixturePlayer(21, 24, 8)}
	s := fixtureState(home, away)
	giveBall(s, home[0])
	s.Procedure = game.ProcMoveAction
	s.ParentProcedure = game.ProcTurn
	s.ActivePlayerID = 11

	m := NewMCTS(newTestAdapter(), WithIterations(200), WithSeed(2), WithMetrics())
	action, _, err := m.Search(s)
	require.NoError(t, err, "A move action should search")
	require.Equal(t, game.ActMove, action.Type, "The carrier one step out should keep moving")
	require.NotNil(t, action.Position, "Moves carry their destination")
	require.Equal(t, 1, action.Position.X, "The full-value touchdown should beat every positional step")
}

func TestSearchForcedEndTurn(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 20, 8), fixturePlayer(12, 18, 6)}
	away := []*game.Player{fixturePlayer(21, 8, 8)}
	s := fixtureState(home, away)
	giveBall(s, home[0])
	for _, p := range home {
		p.State.Used = true
	}

	m := NewMCTS(newTestAdapter(), WithIterations(40), WithSeed(3), WithMetrics())
	action, metric, err := m.Search(s)
	require.NoError(t, err, "A forced end turn should still search")
	require.Equal(t, game.ActEndTurn, action.Type, "The only legal action wins")
	require.Len(t, metric.Children, 1, "The root has a single child")
	require.Equal(t, 40, metric.Children[0].Visits, "Every iteration passes through the only child")
	require.Equal(t, 0, metric.FullPlayouts, "A turn boundary is not a finished game")
}

func TestSearchSeedsAreReproducible(t *testing.T) {
	build := func() *game.State {
		home := []*game.Player{fixturePlayer(11, 20, 8), fixturePlayer(12, 18, 6)}
		away := []*game.Player{fixturePlayer(21, 19, 8), fixturePlayer(22, 10, 8)}
		s := fixtureState(home, away)
		giveBall(s, home[0])
		return s
	}

	first := NewMCTS(newTestAdapter(), WithIterations(120), WithSeed(5), WithMetrics())
	a1, m1, err := first.Search(build())
	require.NoError(t, err, "The search should finish")

	second := NewMCTS(newTestAdapter(), WithIterations(120), WithSeed(5), WithMetrics())
	a2, m2, err := second.Search(build())
	require.NoError(t, err, "The search should finish")

	require.Equal(t, a1, a2, "Equal seeds should pick the same action")
	require.Equal(t, m1.Children, m2.Children, "Equal seeds should grow the same root table")
}

func TestSearchRejectsUnsearchableStates(t *testing.T) {
	m := NewMCTS(newTestAdapter(), WithIterations(10))

	t.Run("scripted states are not searched", func(t *testing.T) {
		s := rules.NewGame(rules.DefaultTeam(1), rules.DefaultTeam(2))
		_, _, err := m.Search(s)
		var unsupported *game.UnsupportedDecisionError
		require.ErrorAs(t, err, &unsupported, "The coin toss belongs to the scripted policy")
	})

	t.Run("finished games are not searched", func(t *testing.T) {
		s := fixtureState(
			[]*game.Player{fixturePlayer(11, 20, 8)},
			[]*game.Player{fixturePlayer(21, 8, 8)},
		)
		s.GameOver = true
		_, _, err := m.Search(s)
		var unsupported *game.UnsupportedDecisionError
		require.ErrorAs(t, err, &unsupported, "A finished game offers nothing to decide")
	})
}

func TestSearchSpentBudgetFallsBack(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 20, 8), fixturePlayer(12, 18, 6)}
	away := []*game.Player{fixturePlayer(21, 8, 8)}
	s := fixtureState(home, away)
	giveBall(s, home[0])

	m := NewMCTS(newTestAdapter(), WithDuration(time.Nanosecond), WithSeed(1), WithMetrics())
	action, metric, err := m.Search(s)
	require.NoError(t, err, "An exhausted budget still produces an action")
	require.Equal(t, 0, metric.Iterations, "The budget expired before the first iteration")
	require.Equal(t, game.ActEndTurn, action.Type, "Best effort falls back to the first legal action")
}
