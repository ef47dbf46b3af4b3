package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// twoTeamState builds a minimal mid-turn state: home team 1 with players 1-3,
// away team 2 with players 21-22, ball carried by home player 1.
func twoTeamState() *State {
	home := &Team{ID: 1, Rerolls: 2, Players: map[int]*Player{
		1: {ID: 1, Role: "Blitzer", MA: 7, ST: 3, AG: 3, AV: 8,
			Skills: []Skill{SkillBlock}, Position: &Square{X: 10, Y: 8}, State: NewPlayerState()},
		2: {ID: 2, Role: "Lineman", MA: 6, ST: 3, AG: 3, AV: 8,
			Position: &Square{X: 11, Y: 8}, State: NewPlayerState()},
		3: {ID: 3, Role: "Thrower", MA: 6, ST: 3, AG: 3, AV: 8,
			Skills: []Skill{SkillPass, SkillSureHands}, State: NewPlayerState()},
	}}
	away := &Team{ID: 2, Rerolls: 2, Players: map[int]*Player{
		21: {ID: 21, Role: "Lineman", MA: 6, ST: 3, AG: 3, AV: 8,
			Position: &Square{X: 9, Y: 8}, State: NewPlayerState()},
		22: {ID: 22, Role: "Blitzer", MA: 7, ST: 3, AG: 3, AV: 8,
			Position: &Square{X: 9, Y: 7}, State: NewPlayerState()},
	}}
	ball := Square{X: 10, Y: 8}
	return &State{
		Half:               1,
		Round:              3,
		Weather:            WeatherNice,
		Balls:              []Ball{{Position: &ball, Carried: true}},
		HomeTeam:           home,
		AwayTeam:           away,
		HomeDugout:         &Dugout{TeamID: 1},
		AwayDugout:         &Dugout{TeamID: 2},
		KickingFirstHalf:   2,
		ReceivingFirstHalf: 1,
		KickingThisDrive:   2,
		ReceivingThisDrive: 1,
		Procedure:          ProcTurn,
		CurrentTeamID:      1,
		TurnState:          NewTurnState(),
	}
}

func TestStateClone(t *testing.T) {
	t.Run("clone shares nothing with the original", func(t *testing.T) {
		s := twoTeamState()
		c := s.Clone()

		c.HomeTeam.Players[1].Position.X = 5
		c.HomeTeam.Players[1].State.Used = true
		c.Balls[0].Position.Y = 2
		c.TurnState.BlitzAvailable = false
		c.Round = 7

		require.Equal(t, 10, s.HomeTeam.Players[1].Position.X, "Player positions should not leak between clones")
		require.False(t, s.HomeTeam.Players[1].State.Used, "Player state should not leak between clones")
		require.Equal(t, 8, s.Balls[0].Position.Y, "Ball position should not leak between clones")
		require.True(t, s.TurnState.BlitzAvailable, "Turn state should not leak between clones")
		require.Equal(t, 3, s.Round, "Scalar fields should not leak between clones")
	})

	t.Run("clone copies the push chain", func(t *testing.T) {
		s := twoTeamState()
		to := Sq(8, 8)
		s.BlockContext = &BlockContext{
			Attacker:  1,
			Defender:  21,
			Position:  Sq(9, 8),
			PushChain: []PushLink{{Attacker: 1, Defender: 21, To: &to}},
		}
		c := s.Clone()
		c.BlockContext.PushChain[0].To.X = 0

		require.Equal(t, 8, s.BlockContext.PushChain[0].To.X, "Push targets should not leak between clones")
	})
}

func TestStateLookups(t *testing.T) {
	s := twoTeamState()

	t.Run("player by id finds both rosters", func(t *testing.T) {
		p, err := s.PlayerByID(21)
		require.NoError(t, err, "Away player should be found")
		require.Equal(t, 21, p.ID, "Lookup should return the requested player")
	})

	t.Run("unknown player id errors", func(t *testing.T) {
		_, err := s.PlayerByID(99)
		require.Error(t, err, "Unknown ids should be rejected")
		var unknownErr *UnknownPlayerIDError
		require.ErrorAs(t, err, &unknownErr, "Error should identify the unknown id")
		require.Equal(t, 99, unknownErr.ID, "Error should carry the offending id")
	})

	t.Run("player at square", func(t *testing.T) {
		require.Equal(t, 2, s.PlayerAt(Sq(11, 8)).ID, "Occupied square should return its player")
		require.Nil(t, s.PlayerAt(Sq(3, 3)), "Empty square should return nil")
	})

	t.Run("team of player", func(t *testing.T) {
		team, err := s.TeamOf(22)
		require.NoError(t, err, "Rostered player should resolve to a team")
		require.Equal(t, 2, team.ID, "Player 22 belongs to the away team")
	})

	t.Run("reserves have no pitch presence", func(t *testing.T) {
		onPitch := s.OnPitch(1)
		require.Len(t, onPitch, 2, "Only positioned players count as on pitch")
		require.Equal(t, 1, onPitch[0].ID, "On-pitch listing should be ordered by id")
	})
}

func TestStateTackleZones(t *testing.T) {
	s := twoTeamState()

	t.Run("standing opponents project zones", func(t *testing.T) {
		require.Equal(t, 2, s.TackleZonesAt(1, Sq(10, 8)), "Both away players cover the carrier's square")
		require.Equal(t, 0, s.TackleZonesAt(1, Sq(13, 8)), "Distant squares should be unmarked")
	})

	t.Run("prone opponents project none", func(t *testing.T) {
		s := twoTeamState()
		s.AwayTeam.Players[22].State.Up = false
		require.Equal(t, 1, s.TackleZonesAt(1, Sq(10, 8)), "Prone players should lose their tackle zone")
	})
}

func TestStateBall(t *testing.T) {
	t.Run("carried ball resolves to its carrier", func(t *testing.T) {
		s := twoTeamState()
		carrier := s.BallCarrier()
		require.NotNil(t, carrier, "Carried ball should have a carrier")
		require.Equal(t, 1, carrier.ID, "Player 1 stands on the ball square")
	})

	t.Run("loose ball has no carrier", func(t *testing.T) {
		s := twoTeamState()
		s.Balls[0].Carried = false
		require.Nil(t, s.BallCarrier(), "Loose balls should have no carrier")
		pos, ok := s.BallPosition()
		require.True(t, ok, "Loose ball still occupies a square")
		require.Equal(t, Sq(10, 8), pos, "Ball position should be reported")
	})

	t.Run("no ball on the board", func(t *testing.T) {
		s := twoTeamState()
		s.Balls = nil
		_, ok := s.BallPosition()
		require.False(t, ok, "Missing ball should report not ok")
	})
}

func TestStateSides(t *testing.T) {
	s := twoTeamState()

	t.Run("target endzones", func(t *testing.T) {
		require.Equal(t, HomeTargetX, s.TargetX(1), "Home attacks the left endzone")
		require.Equal(t, AwayTargetX, s.TargetX(2), "Away attacks the right endzone")
	})

	t.Run("half ownership", func(t *testing.T) {
		require.True(t, s.TeamSide(Sq(20, 8), 1), "Right half belongs to home")
		require.False(t, s.TeamSide(Sq(5, 8), 1), "Left half does not belong to home")
		require.True(t, s.TeamSide(Sq(5, 8), 2), "Left half belongs to away")
	})

	t.Run("receiving side squares stay on the receiving half", func(t *testing.T) {
		squares := s.ReceivingSideSquares()
		require.NotEmpty(t, squares, "Receiving half should have placeable squares")
		for _, sq := range squares {
			require.False(t, sq.OutOfBounds(), "Placeable squares should be in bounds")
			require.True(t, s.TeamSide(sq, 1), "Placeable squares should be on the receiving half")
		}
	})
}
