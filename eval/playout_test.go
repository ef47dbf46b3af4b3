package eval

import (
	"testing"

	"gridiron/game"
	"gridiron/rules"
	"gridiron/scripted"

	"github.com/stretchr/testify/require"
)

func TestPlayoutStopsAtTurnBoundary(t *testing.T) {
	home := []*game.Player{pitchPlayer(11, 20, 8), pitchPlayer(12, 18, 6)}
	away := []*game.Player{pitchPlayer(21, 8, 8)}
	s := matchState(home, away)
	carryBall(s, home[0])
	for _, p := range home {
		p.State.Used = true
	}

	p := NewPlayout(rules.NewLocalEngine(), scripted.NewPolicy(), 7)
	hv, av, err := p.Evaluate(s)
	require.NoError(t, err, "A forced end turn should play out")
	require.InDelta(t, 0, hv+av, 1e-12, "The two values should describe one zero-sum position")
	require.Equal(t, game.ProcTurn, s.Procedure, "The input state should be untouched")

	// With every player used the only step is END_TURN, so the frontier is
	// the boundary state itself.
	boundary := s.Clone()
	boundary.Procedure = game.ProcEndTurn
	wantHome, wantAway, err := Heuristic{}.Evaluate(boundary)
	require.NoError(t, err, "The boundary state should evaluate")
	require.Equal(t, wantHome, hv, "The playout should score the boundary state")
	require.Equal(t, wantAway, av, "The playout should score the boundary state")
}

func TestPlayoutSeedsAreReproducible(t *testing.T) {
	build := func() *game.State {
		home := []*game.Player{pitchPlayer(11, 20, 8), pitchPlayer(12, 18, 6), pitchPlayer(13, 16, 10)}
		away := []*game.Player{pitchPlayer(21, 19, 8), pitchPlayer(22, 10, 8)}
		s := matchState(home, away)
		carryBall(s, home[0])
		return s
	}

	first := NewPlayout(rules.NewLocalEngine(), scripted.NewPolicy(), 42)
	second := NewPlayout(rules.NewLocalEngine(), scripted.NewPolicy(), 42)

	h1, a1, err := first.Evaluate(build())
	require.NoError(t, err, "The playout should finish")
	h2, a2, err := second.Evaluate(build())
	require.NoError(t, err, "The playout should finish")

	require.Equal(t, h1, h2, "Equal seeds should replay the same rollout")
	require.Equal(t, a1, a2, "Equal seeds should replay the same rollout")
	require.GreaterOrEqual(t, h1, -1.0, "Values should stay in range")
	require.LessOrEqual(t, h1, 1.0, "Values should stay in range")
}

func TestPlayoutMoveCap(t *testing.T) {
	home := []*game.Player{pitchPlayer(11, 20, 8), pitchPlayer(12, 18, 6)}
	away := []*game.Player{pitchPlayer(21, 8, 8)}
	s := matchState(home, away)
	carryBall(s, home[0])

	p := NewPlayout(rules.NewLocalEngine(), scripted.NewPolicy(), 3, WithMaxMoves(1))
	hv, av, err := p.Evaluate(s)
	require.NoError(t, err, "A capped playout should still evaluate its frontier")
	require.InDelta(t, 0, hv+av, 1e-12, "The frontier scores should stay zero sum")
}
