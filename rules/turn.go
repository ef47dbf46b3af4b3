package rules

import "gridiron/game"

// discoverTurn lists the player activations of the team currently acting.
// Every unused on-pitch player can start a move; the once-per-turn specials
// are gated by the turn state; ending the turn is always legal.
func discoverTurn(s *game.State) []game.ActionChoice {
	var moveIDs, blitzIDs, blockIDs, passIDs, handoffIDs, foulIDs []int

	team := s.CurrentTeam()
	ts := s.TurnState
	if ts == nil {
		ts = game.NewTurnState()
	}

	for _, p := range s.OnPitch(team.ID) {
		if p.State.Used || p.State.Stunned {
			continue
		}
		// A blitz kickoff turn only activates players out of reach.
		if ts.Blitz && s.TackleZonesAt(team.ID, *p.Position) > 0 {
			continue
		}
		moveIDs = append(moveIDs, p.ID)
		if ts.BlitzAvailable && !ts.QuickSnap {
			blitzIDs = append(blitzIDs, p.ID)
		}
		if ts.PassAvailable && !ts.QuickSnap {
			passIDs = append(passIDs, p.ID)
		}
		if ts.HandoffAvailable && !ts.QuickSnap {
			handoffIDs = append(handoffIDs, p.ID)
		}
		if ts.FoulAvailable && !ts.QuickSnap {
			foulIDs = append(foulIDs, p.ID)
		}
		if p.Standing() && !ts.QuickSnap && !ts.Blitz && canBlockSomeone(s, team.ID, p) {
			blockIDs = append(blockIDs, p.ID)
		}
	}

	var choices []game.ActionChoice
	if len(moveIDs) > 0 {
		choices = append(choices, game.ActionChoice{Type: game.ActStartMove, Players: moveIDs})
	}
	if len(blitzIDs) > 0 {
		choices = append(choices, game.ActionChoice{Type: game.ActStartBlitz, Players: blitzIDs})
	}
	if len(blockIDs) > 0 {
		choices = append(choices, game.ActionChoice{Type: game.ActStartBlock, Players: blockIDs})
	}
	if len(passIDs) > 0 {
		choices = append(choices, game.ActionChoice{Type: game.ActStartPass, Players: passIDs})
	}
	if len(handoffIDs) > 0 {
		choices = append(choices, game.ActionChoice{Type: game.ActStartHandoff, Players: handoffIDs})
	}
	if len(foulIDs) > 0 {
		choices = append(choices, game.ActionChoice{Type: game.ActStartFoul, Players: foulIDs})
	}
	choices = append(choices, game.ActionChoice{Type: game.ActEndTurn})
	return choices
}

func canBlockSomeone(s *game.State, teamID int, p *game.Player) bool {
	for _, opp := range s.AdjacentOpponents(teamID, *p.Position) {
		if opp.Standing() {
			return true
		}
	}
	return false
}

func applyTurn(s *game.State, a game.Action) error {
	if a.Type == game.ActEndTurn {
		endTurn(s)
		return nil
	}

	s.ActivePlayerID = a.PlayerID
	s.ParentProcedure = game.ProcTurn
	ts := s.TurnState
	if ts == nil {
		ts = game.NewTurnState()
		s.TurnState = ts
	}

	switch a.Type {
	case game.ActStartMove:
		s.Procedure = game.ProcMoveAction
	case game.ActStartBlitz:
		s.Procedure = game.ProcBlitzAction
		ts.BlitzAvailable = false
	case game.ActStartBlock:
		s.Procedure = game.ProcBlockAction
	case game.ActStartPass:
		s.Procedure = game.ProcPassAction
		ts.PassAvailable = false
	case game.ActStartHandoff:
		s.Procedure = game.ProcHandoffAction
		ts.HandoffAvailable = false
	case game.ActStartFoul:
		s.Procedure = game.ProcFoulAction
		ts.FoulAvailable = false
	default:
		return &game.EnumerationMismatchError{Procedure: s.Procedure, Action: a, Detail: "not a turn action"}
	}
	return nil
}

// endPlayerTurn closes the active player's action and returns control to the
// team turn.
func endPlayerTurn(s *game.State) {
	if p, err := s.ActivePlayer(); err == nil {
		p.State.Used = true
		p.State.Moves = 0
		p.State.SquaresMoved = nil
		p.State.HasBlocked = false
	}
	s.ActivePlayerID = 0
	s.Procedure = game.ProcTurn
	s.ParentProcedure = game.ProcNone
	s.TargetSquare = nil
	s.BlockContext = nil
	s.Rolls = nil
}

func endTurn(s *game.State) {
	s.Procedure = game.ProcEndTurn
	s.ParentProcedure = game.ProcNone
	s.ActivePlayerID = 0
	s.TargetSquare = nil
	s.BlockContext = nil
	s.Rolls = nil
}

// turnover ends the team turn immediately; the failing player's action is
// already resolved by the caller.
func turnover(s *game.State) {
	s.Procedure = game.ProcTurnover
	s.ParentProcedure = game.ProcNone
	s.ActivePlayerID = 0
	s.TargetSquare = nil
	s.BlockContext = nil
	s.Rolls = nil
}

// touchdown credits the carrier's team and rests the state at the score.
// Continue restarts the drive with the scorer kicking.
func touchdown(s *game.State, scorer *game.Player) {
	team, err := s.TeamOf(scorer.ID)
	if err != nil {
		return
	}
	team.Score++
	s.Procedure = game.ProcTouchdown
	s.ParentProcedure = game.ProcNone
	s.ActivePlayerID = scorer.ID
	s.TargetSquare = nil
	s.BlockContext = nil
	s.Rolls = nil
}

func endGame(s *game.State) {
	s.GameOver = true
	s.Procedure = game.ProcEndGame
	s.ParentProcedure = game.ProcNone
	s.ActivePlayerID = 0
	s.CurrentTeamID = 0
	s.TurnState = nil
	s.TargetSquare = nil
	s.BlockContext = nil
	s.Rolls = nil
}

// beginTeamTurn hands the turn to the given team: their players refresh,
// their stunned players roll face up, and a fresh turn state is issued.
func beginTeamTurn(s *game.State, teamID int) {
	team := s.Team(teamID)
	for _, p := range team.Players {
		p.State.Used = false
		p.State.Moves = 0
		p.State.SquaresMoved = nil
		p.State.HasBlocked = false
		p.State.Stunned = false
	}
	s.CurrentTeamID = teamID
	s.TurnState = game.NewTurnState()
	s.Procedure = game.ProcTurn
	s.ParentProcedure = game.ProcNone
	s.ActivePlayerID = 0
	s.TargetSquare = nil
	s.BlockContext = nil
	s.Rolls = nil
}

// knockOut removes a player to the knocked-out box. A carried ball drops
// loose on the vacated square.
func knockOut(s *game.State, p *game.Player) {
	if p.Position != nil {
		dropBallAt(s, p, *p.Position)
		p.Position = nil
	}
	p.State = game.PlayerState{KnockedOut: true}
	if team, err := s.TeamOf(p.ID); err == nil {
		s.Dugout(team.ID).KnockedOut = append(s.Dugout(team.ID).KnockedOut, p.ID)
	}
}

// sendOff removes a player to the dungeon for the rest of the game.
func sendOff(s *game.State, p *game.Player) {
	if p.Position != nil {
		dropBallAt(s, p, *p.Position)
		p.Position = nil
	}
	p.State = game.PlayerState{}
	if team, err := s.TeamOf(p.ID); err == nil {
		s.Dugout(team.ID).Dungeon = append(s.Dugout(team.ID).Dungeon, p.ID)
	}
}

// dropBallAt makes the ball loose at the square if the player carries it.
func dropBallAt(s *game.State, p *game.Player, at game.Square) {
	if p.Position == nil {
		return
	}
	for i := range s.Balls {
		b := &s.Balls[i]
		if b.Carried && b.Position != nil && *b.Position == *p.Position {
			pos := at
			b.Position = &pos
			b.Carried = false
		}
	}
}

// carryBallWith moves any ball held by the player along with them.
func carryBallWith(s *game.State, from, to game.Square) {
	for i := range s.Balls {
		b := &s.Balls[i]
		if b.Carried && b.Position != nil && *b.Position == from {
			pos := to
			b.Position = &pos
		}
	}
}
