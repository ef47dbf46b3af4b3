package searcher

import (
	"testing"

	"gridiron/game"
	"gridiron/rules"
	"gridiron/scripted"

	"github.com/stretchr/testify/require"
)

func newTestAdapter() *Adapter {
	return NewAdapter(rules.NewLocalEngine(), scripted.NewPolicy())
}

// fixturePlayer builds a standing player for hand-assembled states.
func fixturePlayer(id, x, y int, skills ...game.Skill) *game.Player {
	sq := game.Sq(x, y)
	return &game.Player{
		ID:       id,
		Role:     "Lineman",
		Skills:   skills,
		MA:       6,
		ST:       3,
		AG:       3,
		AV:       8,
		Position: &sq,
		State:    game.NewPlayerState(),
	}
}

// fixtureState builds a mid-drive state with home team 1 acting.
func fixtureState(home, away []*game.Player) *game.State {
	homeTeam := &game.Team{ID: 1, Players: map[int]*game.Player{}}
	for _, p := range home {
		homeTeam.Players[p.ID] = p
	}
	awayTeam := &game.Team{ID: 2, Players: map[int]*game.Player{}}
	for _, p := range away {
		awayTeam.Players[p.ID] = p
	}
	return &game.State{
		Half:               1,
		Round:              3,
		Weather:            game.WeatherNice,
		HomeTeam:           homeTeam,
		AwayTeam:           awayTeam,
		HomeDugout:         &game.Dugout{TeamID: 1},
		AwayDugout:         &game.Dugout{TeamID: 2},
		KickingFirstHalf:   2,
		ReceivingFirstHalf: 1,
		KickingThisDrive:   2,
		ReceivingThisDrive: 1,
		Procedure:          game.ProcTurn,
		CurrentTeamID:      1,
		TurnState:          game.NewTurnState(),
	}
}

func giveBall(s *game.State, p *game.Player) {
	pos := *p.Position
	s.Balls = []game.Ball{{Position: &pos, Carried: true}}
}

func TestLegalActionsDeterministicOrder(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 20, 8), fixturePlayer(12, 18, 6)}
	away := []*game.Player{fixturePlayer(21, 8, 8)}
	s := fixtureState(home, away)
	giveBall(s, home[0])

	actions := newTestAdapter().LegalActions(s)
	require.NotEmpty(t, actions, "A turn state should offer actions")
	require.Equal(t, game.ActEndTurn, actions[0].Type, "End turn sorts first in the action order")

	for i := 1; i < len(actions); i++ {
		require.False(t, actions[i].Less(actions[i-1]), "Actions should come out sorted")
	}
	for i := range actions {
		for j := i + 1; j < len(actions); j++ {
			require.False(t, actions[i].Equal(actions[j]), "Actions should come out deduplicated")
		}
	}
}

func TestLegalActionsSkipPlacement(t *testing.T) {
	e := rules.NewLocalEngine()
	p := scripted.NewPolicy()
	s := rules.NewGame(rules.DefaultTeam(1), rules.DefaultTeam(2))

	// Walk the coin toss so the kicking side is setting up.
	for i := 0; i < 2; i++ {
		a, err := p.Action(s, e.AvailableActions(s))
		require.NoError(t, err, "The scripted policy should answer the toss")
		s, err = e.Apply(s, a)
		require.NoError(t, err, "The toss answer should apply")
	}
	require.Equal(t, game.ProcSetup, s.Procedure, "The toss should end at the setup phase")

	actions := NewAdapter(e, p).LegalActions(s)
	require.NotEmpty(t, actions, "Setup should still offer the formations")
	for _, a := range actions {
		require.NotEqual(t, game.ActPlacePlayer, a.Type, "Square by square placement is not searchable")
	}
}

func TestLegalActionsMatchTheEngine(t *testing.T) {
	e := rules.NewLocalEngine()
	a := NewAdapter(e, scripted.NewPolicy())

	turn := func() *game.State {
		home := []*game.Player{fixturePlayer(11, 20, 8), fixturePlayer(12, 18, 6)}
		away := []*game.Player{fixturePlayer(21, 19, 8)}
		s := fixtureState(home, away)
		giveBall(s, home[0])
		return s
	}
	moving := func() *game.State {
		s := turn()
		s.Procedure = game.ProcMoveAction
		s.ParentProcedure = game.ProcTurn
		s.ActivePlayerID = 12
		return s
	}

	cases := []struct {
		name  string
		build func() *game.State
	}{
		{"turn", turn},
		{"move action", moving},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.build()
			legal := a.LegalActions(s)
			require.NotEmpty(t, legal, "The fixture should offer actions")

			// Zero extras: the engine accepts every enumerated action.
			for _, action := range legal {
				_, err := e.Apply(s, action)
				require.NoError(t, err, "The engine should accept %s", action)
			}

			// Zero omissions: every expanded menu entry is listed.
			for _, want := range game.Expand(e.AvailableActions(s)) {
				if want.Type == game.ActPlacePlayer {
					continue
				}
				found := false
				for _, got := range legal {
					if got.Equal(want) {
						found = true
						break
					}
				}
				require.True(t, found, "The enumerator should list %s", want)
			}
		})
	}
}

func TestStepRejectsUnlistedAction(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 20, 8)}
	away := []*game.Player{fixturePlayer(21, 8, 8)}
	s := fixtureState(home, away)
	giveBall(s, home[0])

	_, err := newTestAdapter().Step(s, game.Action{Type: game.ActMove})
	var mismatch *game.EnumerationMismatchError
	require.ErrorAs(t, err, &mismatch, "A move outside the menu should be rejected")
}

func TestForwardResolvesPreDrive(t *testing.T) {
	a := newTestAdapter()
	s := rules.NewGame(rules.DefaultTeam(1), rules.DefaultTeam(2))

	out, err := a.forward(s)
	require.NoError(t, err, "The whole pre-drive ceremony should be scripted")
	require.Equal(t, game.ProcKickoff, out.Procedure, "The ceremony should stop at the kickoff roll")
	require.Equal(t, game.KindChance, game.Classify(out), "The kickoff is a dice point")
	require.Equal(t, game.ProcCoinTossFlip, s.Procedure, "The input state should be untouched")
}

func TestOutcomesFastForward(t *testing.T) {
	a := newTestAdapter()
	s := rules.NewGame(rules.DefaultTeam(1), rules.DefaultTeam(2))

	kickoff, err := a.forward(s)
	require.NoError(t, err, "The pre-drive ceremony should resolve")

	outcomes, err := a.Outcomes(kickoff)
	require.NoError(t, err, "The kickoff should enumerate")
	require.NotEmpty(t, outcomes, "The kickoff should branch")

	total := 0.0
	for _, o := range outcomes {
		total += o.Probability
		require.Equal(t, game.KindPlayerTurn, game.Classify(o.State),
			"Every branch should fast-forward to a playable turn")
		require.Equal(t, kickoff.ReceivingThisDrive, o.State.CurrentTeamID,
			"The receiving side opens the drive")
	}
	require.InDelta(t, 1.0, total, 1e-9, "The outcome distribution should be complete")
}
