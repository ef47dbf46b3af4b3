package rules

import (
	"sort"

	"gridiron/game"

	"golang.org/x/exp/slices"
)

// Formation grids for the home side of the pitch (the right half); away
// placements mirror across the halfway line. Slots are filled in order until
// the team runs out of reserves or pitch spots.
var formations = map[game.ActionType][]game.Square{
	game.ActSetupFormationWedge: {
		{X: 14, Y: 7}, {X: 14, Y: 8}, {X: 14, Y: 9},
		{X: 15, Y: 5}, {X: 15, Y: 11},
		{X: 16, Y: 7}, {X: 16, Y: 9},
		{X: 17, Y: 8},
		{X: 18, Y: 4}, {X: 18, Y: 12},
		{X: 20, Y: 8},
	},
	game.ActSetupFormationLine: {
		{X: 14, Y: 7}, {X: 14, Y: 8}, {X: 14, Y: 9},
		{X: 15, Y: 5}, {X: 15, Y: 6}, {X: 15, Y: 10}, {X: 15, Y: 11},
		{X: 16, Y: 7}, {X: 16, Y: 8}, {X: 16, Y: 9},
		{X: 17, Y: 8},
	},
	game.ActSetupFormationZone: {
		{X: 14, Y: 7}, {X: 14, Y: 8}, {X: 14, Y: 9},
		{X: 15, Y: 3}, {X: 15, Y: 13},
		{X: 16, Y: 5}, {X: 16, Y: 11},
		{X: 17, Y: 7}, {X: 17, Y: 9},
		{X: 19, Y: 6}, {X: 19, Y: 10},
	},
	game.ActSetupFormationSpread: {
		{X: 14, Y: 7}, {X: 14, Y: 8}, {X: 14, Y: 9},
		{X: 15, Y: 4}, {X: 15, Y: 12},
		{X: 16, Y: 6}, {X: 16, Y: 10},
		{X: 17, Y: 8},
		{X: 18, Y: 5}, {X: 18, Y: 11},
		{X: 20, Y: 8},
	},
}

const maxOnPitch = 11

func discoverCoinTossFlip() []game.ActionChoice {
	return []game.ActionChoice{
		{Type: game.ActHeads},
		{Type: game.ActTails},
	}
}

// applyCoinTossFlip awards the toss to the calling team. Self-play keeps
// fairness by alternating which side calls across games.
func applyCoinTossFlip(s *game.State, _ game.Action) error {
	s.Procedure = game.ProcCoinTossKickReceive
	return nil
}

func discoverCoinTossKickReceive() []game.ActionChoice {
	return []game.ActionChoice{
		{Type: game.ActKick},
		{Type: game.ActReceive},
	}
}

func applyCoinTossKickReceive(s *game.State, a game.Action) error {
	winner := s.CurrentTeam()
	other := s.Opponent(winner.ID)

	if a.Type == game.ActReceive {
		s.ReceivingFirstHalf = winner.ID
		s.KickingFirstHalf = other.ID
	} else {
		s.KickingFirstHalf = winner.ID
		s.ReceivingFirstHalf = other.ID
	}
	s.KickingThisDrive = s.KickingFirstHalf
	s.ReceivingThisDrive = s.ReceivingFirstHalf
	setupDrive(s)
	return nil
}

// setupDrive clears the pitch back into the dugouts and starts the setup
// phase, kicking team first.
func setupDrive(s *game.State) {
	for _, team := range []*game.Team{s.HomeTeam, s.AwayTeam} {
		dugout := s.Dugout(team.ID)
		for _, id := range team.PlayerIDs() {
			p := team.Players[id]
			if p.Position == nil {
				continue
			}
			p.Position = nil
			p.State = game.NewPlayerState()
			dugout.Reserves = append(dugout.Reserves, p.ID)
		}
		slices.Sort(dugout.Reserves)
	}
	s.Balls = nil
	s.TurnState = nil
	s.Procedure = game.ProcSetup
	s.ParentProcedure = game.ProcNone
	s.CurrentTeamID = s.KickingThisDrive
	s.ActivePlayerID = 0
	s.TargetSquare = nil
	s.BlockContext = nil
	s.Rolls = nil
}

// discoverSetup lists the setup options: a formation while the side is still
// empty, free player placement, and closing the setup once someone stands on
// the pitch or nobody is left to place.
func discoverSetup(s *game.State) []game.ActionChoice {
	team := s.CurrentTeam()
	dugout := s.Dugout(team.ID)
	placed := len(s.OnPitch(team.ID))

	var choices []game.ActionChoice
	if placed == 0 && len(dugout.Reserves) > 0 {
		for _, f := range formationOrder {
			choices = append(choices, game.ActionChoice{Type: f})
		}
	}

	var placeable []int
	placeable = append(placeable, dugout.Reserves...)
	for _, p := range s.OnPitch(team.ID) {
		placeable = append(placeable, p.ID)
	}
	slices.Sort(placeable)
	if len(placeable) > 0 {
		choices = append(choices, game.ActionChoice{Type: game.ActPlacePlayer, Players: placeable})
	}

	if placed > 0 || len(dugout.Reserves) == 0 {
		choices = append(choices, game.ActionChoice{Type: game.ActEndSetup})
	}
	return choices
}

var formationOrder = []game.ActionType{
	game.ActSetupFormationLine,
	game.ActSetupFormationSpread,
	game.ActSetupFormationWedge,
	game.ActSetupFormationZone,
}

func applySetup(s *game.State, a game.Action) error {
	team := s.CurrentTeam()

	switch a.Type {
	case game.ActSetupFormationWedge, game.ActSetupFormationLine,
		game.ActSetupFormationZone, game.ActSetupFormationSpread:
		applyFormation(s, team, formations[a.Type])
		return nil
	case game.ActPlacePlayer:
		return placePlayer(s, team, a)
	case game.ActEndSetup:
		if s.CurrentTeamID == s.KickingThisDrive {
			s.CurrentTeamID = s.ReceivingThisDrive
			return nil
		}
		s.Procedure = game.ProcPlaceBall
		s.CurrentTeamID = s.KickingThisDrive
		return nil
	default:
		return &game.EnumerationMismatchError{Procedure: s.Procedure, Action: a, Detail: "not a setup action"}
	}
}

// applyFormation fills the grid from the reserves in id order.
func applyFormation(s *game.State, team *game.Team, slots []game.Square) {
	dugout := s.Dugout(team.ID)
	for _, slot := range slots {
		if len(dugout.Reserves) == 0 {
			return
		}
		sq := slot
		if !s.IsHome(team.ID) {
			sq.X = game.PitchWidth - 1 - slot.X
		}
		if s.PlayerAt(sq) != nil {
			continue
		}
		id := dugout.Reserves[0]
		dugout.Reserves = dugout.Reserves[1:]
		p := team.Players[id]
		pos := sq
		p.Position = &pos
		p.State = game.NewPlayerState()
	}
}

func placePlayer(s *game.State, team *game.Team, a game.Action) error {
	if a.Position == nil {
		return &game.EnumerationMismatchError{Procedure: s.Procedure, Action: a, Detail: "placement needs a square"}
	}
	sq := *a.Position
	if sq.OutOfBounds() || !s.TeamSide(sq, team.ID) {
		return &game.EnumerationMismatchError{Procedure: s.Procedure, Action: a, Detail: "square not on own half"}
	}
	if s.PlayerAt(sq) != nil {
		return &game.EnumerationMismatchError{Procedure: s.Procedure, Action: a, Detail: "square occupied"}
	}

	p := team.Players[a.PlayerID]
	dugout := s.Dugout(team.ID)
	if p.Position == nil {
		if len(s.OnPitch(team.ID)) >= maxOnPitch {
			return &game.EnumerationMismatchError{Procedure: s.Procedure, Action: a, Detail: "eleven players already placed"}
		}
		dugout.Remove(p.ID)
	}
	pos := sq
	p.Position = &pos
	p.State = game.NewPlayerState()
	return nil
}

func discoverPlaceBall(s *game.State) []game.ActionChoice {
	return []game.ActionChoice{{Type: game.ActPlaceBall, Positions: s.ReceivingSideSquares()}}
}

func applyPlaceBall(s *game.State, a game.Action) error {
	pos := *a.Position
	s.Balls = []game.Ball{{Position: &pos}}
	s.Procedure = game.ProcKickoff
	s.ParentProcedure = game.ProcNone
	return nil
}

// kickoffOutcomes resolves where the kicked ball comes down: straight into
// the receiving backfield, short enough for a touchback, or hanging for a
// catch under it.
func kickoffOutcomes(s *game.State) ([]Outcome, error) {
	if len(s.Balls) == 0 || s.Balls[0].Position == nil {
		return nil, &game.EnumerationMismatchError{Procedure: s.Procedure, Detail: "no ball in the air"}
	}
	ballSq := *s.Balls[0].Position
	receiving := s.ReceivingThisDrive

	canTouchback := len(s.OnPitch(receiving)) > 0
	canHighKick := s.PlayerAt(ballSq) == nil && len(standingPlayers(s, receiving)) > 0

	var outcomes []Outcome
	clean := 1.0

	if canTouchback {
		c := s.Clone()
		c.Procedure = game.ProcTouchback
		c.CurrentTeamID = receiving
		outcomes = append(outcomes, Outcome{Probability: 1.0 / 6.0, State: c, Label: "kick-touchback"})
		clean -= 1.0 / 6.0
	}
	if canHighKick {
		c := s.Clone()
		c.Procedure = game.ProcHighKick
		c.CurrentTeamID = receiving
		outcomes = append(outcomes, Outcome{Probability: 1.0 / 6.0, State: c, Label: "kick-high"})
		clean -= 1.0 / 6.0
	}

	c := s.Clone()
	if p := c.PlayerAt(ballSq); p != nil && p.Standing() {
		c.Balls[0].Carried = true
	}
	startDriveTurn(c)
	outcomes = append(outcomes, Outcome{Probability: clean, State: c, Label: "kick-clean"})
	return outcomes, nil
}

func standingPlayers(s *game.State, teamID int) []*game.Player {
	var players []*game.Player
	for _, p := range s.OnPitch(teamID) {
		if p.Standing() {
			players = append(players, p)
		}
	}
	return players
}

// discoverTouchback lets the receiving side hand the ball to any player on
// the pitch.
func discoverTouchback(s *game.State) []game.ActionChoice {
	var ids []int
	for _, p := range s.OnPitch(s.ReceivingThisDrive) {
		ids = append(ids, p.ID)
	}
	return []game.ActionChoice{{Type: game.ActSelectPlayer, Players: ids}}
}

func applyTouchback(s *game.State, a game.Action) error {
	p, err := s.PlayerByID(a.PlayerID)
	if err != nil {
		return err
	}
	moveBallTo(s, *p.Position, true)
	startDriveTurn(s)
	return nil
}

// discoverHighKick lets the receiving side run a catcher under the hanging
// ball, or leave it to bounce.
func discoverHighKick(s *game.State) []game.ActionChoice {
	var ids []int
	for _, p := range standingPlayers(s, s.ReceivingThisDrive) {
		ids = append(ids, p.ID)
	}
	choices := make([]game.ActionChoice, 0, 2)
	if len(ids) > 0 {
		choices = append(choices, game.ActionChoice{Type: game.ActSelectPlayer, Players: ids})
	}
	return append(choices, game.ActionChoice{Type: game.ActSelectNone})
}

func applyHighKick(s *game.State, a game.Action) error {
	if a.Type == game.ActSelectPlayer {
		p, err := s.PlayerByID(a.PlayerID)
		if err != nil {
			return err
		}
		ballSq := *s.Balls[0].Position
		pos := ballSq
		p.Position = &pos
		s.Balls[0].Carried = true
	}
	startDriveTurn(s)
	return nil
}

// startDriveTurn opens the drive's first turn for the receiving team.
func startDriveTurn(s *game.State) {
	beginTeamTurn(s, s.ReceivingThisDrive)
}

// sortSquares orders squares in scan order, row first.
func sortSquares(squares []game.Square) {
	sort.Slice(squares, func(i, j int) bool {
		if squares[i].Y != squares[j].Y {
			return squares[i].Y < squares[j].Y
		}
		return squares[i].X < squares[j].X
	})
}
