package rules

import "gridiron/game"

// foulChoices lists the adjacent floored opponents a standing player can put
// the boot to.
func foulChoices(s *game.State, teamID int, p *game.Player) []game.ActionChoice {
	if !p.Standing() {
		return nil
	}
	var ids []int
	for _, opp := range s.AdjacentOpponents(teamID, *p.Position) {
		if !opp.State.Up || opp.State.Stunned {
			ids = append(ids, opp.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return []game.ActionChoice{{Type: game.ActFoul, Players: ids}}
}

func applyFoul(s *game.State, p *game.Player, defenderID int) error {
	defender, err := s.PlayerByID(defenderID)
	if err != nil {
		return err
	}
	s.ParentProcedure = s.Procedure
	t := *defender.Position
	s.TargetSquare = &t
	s.Procedure = game.ProcFoulRoll
	return nil
}

// foulRollOutcomes resolves the armour roll on the floored victim. A break
// knocks them out; one break in six draws the referee's eye and puts the
// fouler's spot in the squad at risk.
func foulRollOutcomes(s *game.State) ([]Outcome, error) {
	if _, err := s.ActivePlayer(); err != nil {
		return nil, err
	}
	victim := s.PlayerAt(*s.TargetSquare)
	if victim == nil {
		return nil, &game.EnumerationMismatchError{Procedure: s.Procedure, Detail: "no victim at the foul square"}
	}

	breakProb := twoDiceOver(victim.Armor())

	held := s.Clone()
	resumeAction(held)
	endPlayerTurn(held)

	hurt := s.Clone()
	hv, _ := hurt.PlayerByID(victim.ID)
	knockOut(hurt, hv)
	resumeAction(hurt)
	endPlayerTurn(hurt)

	spotted := s.Clone()
	sv, _ := spotted.PlayerByID(victim.ID)
	knockOut(spotted, sv)
	spotted.TargetSquare = nil
	spotted.Procedure = game.ProcEjection

	return []Outcome{
		{Probability: 1 - breakProb, State: held, Label: "foul-held"},
		{Probability: breakProb * 5.0 / 6.0, State: hurt, Label: "foul-injury"},
		{Probability: breakProb * 1.0 / 6.0, State: spotted, Label: "foul-spotted"},
	}, nil
}

// discoverEjection offers the fouling side a bribe when it has one.
func discoverEjection(s *game.State) []game.ActionChoice {
	team := s.CurrentTeam()
	if team != nil && team.Bribes > 0 {
		return []game.ActionChoice{
			{Type: game.ActUseBribe},
			{Type: game.ActDontUseBribe},
		}
	}
	return []game.ActionChoice{{Type: game.ActDontUseBribe}}
}

func applyEjection(s *game.State, a game.Action) error {
	p, err := s.ActivePlayer()
	if err != nil {
		return err
	}
	team, err := s.TeamOf(p.ID)
	if err != nil {
		return err
	}

	switch a.Type {
	case game.ActUseBribe:
		if team.Bribes <= 0 {
			return &game.EnumerationMismatchError{Procedure: s.Procedure, Action: a, Detail: "no bribes left"}
		}
		team.Bribes--
		resumeAction(s)
		endPlayerTurn(s)
		return nil
	case game.ActDontUseBribe:
		sendOff(s, p)
		turnover(s)
		return nil
	default:
		return &game.EnumerationMismatchError{Procedure: s.Procedure, Action: a, Detail: "not an ejection choice"}
	}
}
