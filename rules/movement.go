package rules

import (
	"gridiron/game"
)

// agilityTarget is the unmodified d6 roll needed per agility point.
var agilityTarget = [...]int{6, 6, 5, 4, 3, 2}

func minRequired(ag int) int {
	if ag >= len(agilityTarget) {
		return 1
	}
	return agilityTarget[ag]
}

func clampRoll(t int) int {
	if t < 2 {
		return 2
	}
	if t > 6 {
		return 6
	}
	return t
}

// discoverPlayerAction lists the options of an in-progress player action:
// standing up, stepping to adjacent free squares, the action's specialty, and
// ending the activation.
func discoverPlayerAction(s *game.State) []game.ActionChoice {
	p, err := s.ActivePlayer()
	if err != nil {
		return []game.ActionChoice{{Type: game.ActEndPlayerTurn}}
	}
	team, _ := s.TeamOf(p.ID)

	var choices []game.ActionChoice
	if !p.State.Up {
		if p.State.Moves+3 <= p.Movement()+2 {
			choices = append(choices, game.ActionChoice{Type: game.ActStandUp, Players: []int{p.ID}})
		}
	} else if p.State.Moves < p.Movement()+2 {
		targets := freeAdjacentSquares(s, *p.Position)
		if len(targets) > 0 {
			choices = append(choices, game.ActionChoice{Type: game.ActMove, Positions: targets})
		}
	}

	switch s.Procedure {
	case game.ProcBlitzAction:
		choices = append(choices, blitzBlockChoices(s, team.ID, p)...)
	case game.ProcPassAction:
		choices = append(choices, passChoices(s, team.ID, p)...)
	case game.ProcHandoffAction:
		choices = append(choices, handoffChoices(s, team.ID, p)...)
	case game.ProcFoulAction:
		choices = append(choices, foulChoices(s, team.ID, p)...)
	}

	choices = append(choices, game.ActionChoice{Type: game.ActEndPlayerTurn, Players: []int{p.ID}})
	return choices
}

func applyPlayerAction(s *game.State, a game.Action) error {
	if a.Type == game.ActEndPlayerTurn {
		endPlayerTurn(s)
		return nil
	}
	p, err := s.ActivePlayer()
	if err != nil {
		return err
	}

	switch a.Type {
	case game.ActStandUp:
		p.State.Up = true
		p.State.Moves += 3
		return nil
	case game.ActMove:
		return moveStep(s, p, *a.Position)
	case game.ActBlock:
		return applyBlitzBlock(s, p, a.PlayerID)
	case game.ActPass:
		return applyPass(s, p, a.PlayerID)
	case game.ActHandoff:
		return applyHandoff(s, p, a.PlayerID)
	case game.ActFoul:
		return applyFoul(s, p, a.PlayerID)
	default:
		return &game.EnumerationMismatchError{Procedure: s.Procedure, Action: a, Detail: "not a player action"}
	}
}

// freeAdjacentSquares returns the empty in-bounds neighbours in scan order.
func freeAdjacentSquares(s *game.State, from game.Square) []game.Square {
	var targets []game.Square
	for _, sq := range from.AdjacentSquares() {
		if sq.OutOfBounds() || s.PlayerAt(sq) != nil {
			continue
		}
		targets = append(targets, sq)
	}
	sortSquares(targets)
	return targets
}

// moveStep advances the active player one square. Going beyond the movement
// allowance requires a go-for-it roll; stepping into a marked square requires
// a dodge; otherwise the step resolves immediately.
func moveStep(s *game.State, p *game.Player, target game.Square) error {
	team, err := s.TeamOf(p.ID)
	if err != nil {
		return err
	}
	if p.State.Moves+1 > p.Movement() {
		toChance(s, game.ProcGFI, target)
		return nil
	}
	if s.TackleZonesAt(team.ID, target) > 0 {
		toChance(s, game.ProcDodge, target)
		return nil
	}
	resolveMovement(s, p, target)
	return nil
}

// toChance suspends the running action procedure behind a dice roll.
func toChance(s *game.State, proc game.Procedure, target game.Square) {
	s.ParentProcedure = s.Procedure
	s.Procedure = proc
	t := target
	s.TargetSquare = &t
}

// resumeAction returns from a resolved roll to the suspended action
// procedure.
func resumeAction(s *game.State) {
	s.Procedure = s.ParentProcedure
	s.ParentProcedure = game.ProcTurn
	s.TargetSquare = nil
}

// resolveMovement finishes a successful step: the player advances, a carried
// ball moves along, a loose ball is scooped up, and reaching the endzone with
// the ball scores.
func resolveMovement(s *game.State, p *game.Player, target game.Square) {
	team, err := s.TeamOf(p.ID)
	if err != nil {
		return
	}
	from := *p.Position
	p.State.Moves++
	p.State.SquaresMoved = append(p.State.SquaresMoved, target)
	t := target
	p.Position = &t
	carryBallWith(s, from, target)

	for i := range s.Balls {
		b := &s.Balls[i]
		if !b.Carried && b.Position != nil && *b.Position == target {
			b.Carried = true
		}
	}

	if s.BallCarrier() == p && target.X == s.TargetX(team.ID) {
		touchdown(s, p)
	}
}

// trip puts the player prone on the target square, dropping any carried
// ball, and turns the ball over.
func trip(s *game.State, p *game.Player, target game.Square) {
	from := *p.Position
	p.State.Moves++
	p.State.SquaresMoved = append(p.State.SquaresMoved, target)
	t := target
	p.Position = &t
	carryBallWith(s, from, target)
	dropBallAt(s, p, target)
	p.State.Up = false
	turnover(s)
}

// gfiOutcomes resolves a pending go-for-it roll. Success continues the step
// (possibly into a dodge); failure trips the player at the target. A team
// reroll, when held, is spent on the first failure, folding the retry into
// the distribution.
func gfiOutcomes(s *game.State) ([]Outcome, error) {
	p, err := s.ActivePlayer()
	if err != nil {
		return nil, err
	}
	target := *s.TargetSquare

	success := 5.0 / 6.0
	if s.Weather == game.WeatherBlizzard {
		success = 4.0 / 6.0
	}

	succeed := func(c *game.State) {
		cp, _ := c.ActivePlayer()
		resumeAction(c)
		team, _ := c.TeamOf(cp.ID)
		if c.TackleZonesAt(team.ID, target) > 0 {
			toChance(c, game.ProcDodge, target)
			return
		}
		resolveMovement(c, cp, target)
	}
	fail := func(c *game.State) {
		cp, _ := c.ActivePlayer()
		trip(c, cp, target)
	}
	return rollWithReroll(s, p, success, succeed, fail, "gfi")
}

// dodgeOutcomes resolves a pending dodge roll against the tackle zones on
// the target square.
func dodgeOutcomes(s *game.State) ([]Outcome, error) {
	p, err := s.ActivePlayer()
	if err != nil {
		return nil, err
	}
	team, err := s.TeamOf(p.ID)
	if err != nil {
		return nil, err
	}
	target := *s.TargetSquare

	zones := s.TackleZonesAt(team.ID, target)
	required := minRequired(p.Agility())
	if p.HasSkill(game.SkillDodge) {
		required--
	}
	failures := 1
	for roll := 2; roll <= 5; roll++ {
		if roll+1-zones < required {
			failures++
		}
	}
	success := float64(6-failures) / 6.0

	succeed := func(c *game.State) {
		cp, _ := c.ActivePlayer()
		resumeAction(c)
		resolveMovement(c, cp, target)
	}
	fail := func(c *game.State) {
		cp, _ := c.ActivePlayer()
		trip(c, cp, target)
	}
	return rollWithReroll(s, p, success, succeed, fail, "dodge")
}

// rollWithReroll builds the outcome distribution of a binary roll, spending
// one team reroll on the first failure when the acting team still holds one.
// Keeping the retry inside the distribution keeps the procedure chain flat.
func rollWithReroll(s *game.State, p *game.Player, success float64,
	succeed, fail func(*game.State), label string) ([]Outcome, error) {

	team, err := s.TeamOf(p.ID)
	if err != nil {
		return nil, err
	}

	plain := s.Clone()
	succeed(plain)

	if team.Rerolls <= 0 {
		failed := s.Clone()
		fail(failed)
		return []Outcome{
			{Probability: success, State: plain, Label: label},
			{Probability: 1 - success, State: failed, Label: label + "-fail"},
		}, nil
	}

	retried := s.Clone()
	retried.Team(team.ID).Rerolls--
	succeed(retried)

	failed := s.Clone()
	failed.Team(team.ID).Rerolls--
	fail(failed)

	return []Outcome{
		{Probability: success, State: plain, Label: label},
		{Probability: (1 - success) * success, State: retried, Label: label + "-reroll"},
		{Probability: (1 - success) * (1 - success), State: failed, Label: label + "-fail"},
	}, nil
}
