package bot

import (
	"testing"
	"time"

	"gridiron/game"
	"gridiron/rules"
	"gridiron/scripted"
	"gridiron/searcher"

	"github.com/stretchr/testify/require"
)

// fixturePlayer builds a standing player for hand-assembled states.
func fixturePlayer(id, x, y int) *game.Player {
	sq := game.Sq(x, y)
	return &game.Player{
		ID:       id,
		Role:     "Lineman",
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

func TestChooseActionScriptedCeremony(t *testing.T) {
	b := New(rules.NewLocalEngine(), scripted.NewPolicy(), searcher.WithIterations(10))
	s := rules.NewGame(rules.DefaultTeam(1), rules.DefaultTeam(2))

	action, err := b.ChooseAction(s, 0)
	require.NoError(t, err, "The coin toss is answered from the table")
	require.Equal(t, game.ActTails, action.Type, "The table calls tails")
	require.Zero(t, b.LastMetric().Iterations, "Scripted answers never search")
}

func TestChooseActionBlockDiceShortcut(t *testing.T) {
	attacker := fixturePlayer(11, 10, 8)
	defender := fixturePlayer(21, 11, 8)
	s := fixtureState([]*game.Player{attacker}, []*game.Player{defender})
	s.Procedure = game.ProcBlock
	s.ParentProcedure = game.ProcBlockAction
	s.CurrentTeamID = 2
	s.ActivePlayerID = 11
	s.BlockContext = &game.BlockContext{Attacker: 11, Defender: 21, Position: game.Sq(11, 8)}
	s.Rolls = []game.ActionType{game.ActSelectPush, game.ActSelectAttackerDown}

	b := New(rules.NewLocalEngine(), scripted.NewPolicy(), searcher.WithIterations(10))
	action, err := b.ChooseAction(s, 0)
	require.NoError(t, err, "A pending die pick is answered from the table")
	require.Equal(t, game.ActSelectAttackerDown, action.Type, "The defending chooser floors the attacker")
	require.Zero(t, b.LastMetric().Iterations, "Die picks never search")
}

func TestChooseActionForcedEndTurn(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 20, 8)}
	away := []*game.Player{fixturePlayer(21, 8, 8)}
	home[0].State.Used = true
	s := fixtureState(home, away)
	giveBall(s, home[0])

	b := New(rules.NewLocalEngine(), scripted.NewPolicy(), searcher.WithIterations(10))
	action, err := b.ChooseAction(s, 0)
	require.NoError(t, err, "A forced action needs no search")
	require.Equal(t, game.ActEndTurn, action.Type, "Every player used leaves only ending the turn")
	require.Zero(t, b.LastMetric().Iterations, "The single-action shortcut skips the search")
}

func TestChooseActionSearchesPlayerTurns(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 5, 8)}
	away := []*game.Player{fixturePlayer(21, 24, 8)}
	s := fixtureState(home, away)
	giveBall(s, home[0])

	b := New(rules.NewLocalEngine(), scripted.NewPolicy(), searcher.WithIterations(60), searcher.WithSeed(3), searcher.WithMetrics())
	action, err := b.ChooseAction(s, 0)
	require.NoError(t, err, "An open turn searches and answers")
	require.NotEqual(t, game.ActNone, action.Type, "The search returns a concrete action")
	require.Equal(t, 60, b.LastMetric().Iterations, "The search metric survives on the bot")
}

func TestChooseActionRejectsChanceAndTerminal(t *testing.T) {
	b := New(rules.NewLocalEngine(), scripted.NewPolicy(), searcher.WithIterations(10))

	t.Run("a dice state is not the bot's decision", func(t *testing.T) {
		s := fixtureState([]*game.Player{fixturePlayer(11, 20, 8)}, []*game.Player{fixturePlayer(21, 8, 8)})
		s.Procedure = game.ProcKickoff
		_, err := b.ChooseAction(s, 0)
		var unsupported *game.UnsupportedDecisionError
		require.ErrorAs(t, err, &unsupported, "Chance states are resolved by the engine, not the bot")
	})

	t.Run("a finished game has nothing to decide", func(t *testing.T) {
		s := fixtureState([]*game.Player{fixturePlayer(11, 20, 8)}, []*game.Player{fixturePlayer(21, 8, 8)})
		s.GameOver = true
		s.Procedure = game.ProcEndTurn
		_, err := b.ChooseAction(s, 0)
		var unsupported *game.UnsupportedDecisionError
		require.ErrorAs(t, err, &unsupported, "Terminal states are rejected")
	})
}

func TestBaselineCarrierAdvance(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 9, 8)}
	away := []*game.Player{fixturePlayer(21, 24, 2)}
	s := fixtureState(home, away)
	giveBall(s, home[0])

	engine := rules.NewLocalEngine()
	b := NewBaseline(engine, scripted.NewPolicy())

	action, err := b.ChooseAction(s, 0)
	require.NoError(t, err, "The baseline plans without a budget")
	require.Equal(t, game.ActStartMove, action.Type, "The carrier is activated first")
	require.Equal(t, 11, action.PlayerID, "The carrier is the chosen mover")
	require.Len(t, b.queue, 7, "Six steps inside the allowance plus the close-out are queued")

	next, err := engine.Apply(s, action)
	require.NoError(t, err, "The planned activation is legal")

	step, err := b.ChooseAction(next, 0)
	require.NoError(t, err, "The queued step replays")
	require.Equal(t, game.ActMove, step.Type, "The plan continues with a move step")
	require.Equal(t, game.Sq(8, 8), *step.Position, "The carrier runs at the home endzone")
	require.Len(t, b.queue, 6, "Replaying consumes the queue head")
}

func TestBaselineChasesLooseBall(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 20, 8), fixturePlayer(12, 12, 8)}
	away := []*game.Player{fixturePlayer(21, 5, 2)}
	s := fixtureState(home, away)
	loose := game.Sq(10, 8)
	s.Balls = []game.Ball{{Position: &loose}}

	b := NewBaseline(rules.NewLocalEngine(), scripted.NewPolicy())
	action, err := b.ChooseAction(s, 0)
	require.NoError(t, err, "A loose ball still yields a plan")
	require.Equal(t, game.ActStartMove, action.Type, "Chasing starts with a move activation")
	require.Equal(t, 12, action.PlayerID, "The closest fresh player chases")
}

func TestReplayFlushesWhenActionVanishes(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 9, 8)}
	away := []*game.Player{fixturePlayer(21, 24, 2)}
	s := fixtureState(home, away)
	giveBall(s, home[0])

	b := NewBaseline(rules.NewLocalEngine(), scripted.NewPolicy())
	b.queue = []game.Action{{Type: game.ActStartMove, PlayerID: 99}}
	b.turn = keyOf(s)

	action, err := b.ChooseAction(s, 0)
	require.NoError(t, err, "A stale head replans instead of failing")
	require.Equal(t, game.ActStartMove, action.Type, "The fresh plan activates a real player")
	require.Equal(t, 11, action.PlayerID, "The replanned mover is the carrier")
	for _, queued := range b.queue {
		require.NotEqual(t, 99, queued.PlayerID, "The stale plan is gone")
	}
}

func TestReplayFlushesOnNewTurn(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 9, 8)}
	away := []*game.Player{fixturePlayer(21, 24, 2)}
	s := fixtureState(home, away)
	giveBall(s, home[0])

	b := NewBaseline(rules.NewLocalEngine(), scripted.NewPolicy())
	b.queue = []game.Action{{Type: game.ActEndTurn}}
	b.turn = turnKey{half: 1, round: 2, team: 1}

	action, err := b.ChooseAction(s, 0)
	require.NoError(t, err, "A queue from an earlier turn replans")
	require.Equal(t, game.ActStartMove, action.Type, "The stale end turn is not replayed")
}

func TestSearchBudgetCapsTheCall(t *testing.T) {
	home := []*game.Player{fixturePlayer(11, 5, 8)}
	away := []*game.Player{fixturePlayer(21, 24, 8)}
	s := fixtureState(home, away)
	giveBall(s, home[0])

	b := New(rules.NewLocalEngine(), scripted.NewPolicy(), searcher.WithSeed(1), searcher.WithMetrics())
	start := time.Now()
	_, err := b.ChooseAction(s, 50*time.Millisecond)
	require.NoError(t, err, "A duration budget runs the countdown search")
	require.Less(t, time.Since(start), 5*time.Second, "The call respects the budget order of magnitude")
	require.Positive(t, b.LastMetric().Duration, "The search reports its spent time")
}