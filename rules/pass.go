package rules

import (
	"gridiron/game"

	"golang.org/x/exp/slices"
)

// Pass range bands by distance, with the throwing modifier each carries.
const (
	quickRange = 3
	shortRange = 7
	longRange  = 10
	bombRange  = 13
)

// passModifier returns the band modifier, and whether the target is in range
// at all.
func passModifier(distance int) (int, bool) {
	switch {
	case distance <= quickRange:
		return 1, true
	case distance <= shortRange:
		return 0, true
	case distance <= longRange:
		return -1, true
	case distance <= bombRange:
		return -2, true
	default:
		return 0, false
	}
}

// passChoices lists the reachable receivers of a carrying, standing passer.
func passChoices(s *game.State, teamID int, p *game.Player) []game.ActionChoice {
	if !p.Standing() || s.BallCarrier() != p {
		return nil
	}
	team := s.Team(teamID)
	var ids []int
	for _, id := range team.PlayerIDs() {
		mate := team.Players[id]
		if mate.ID == p.ID || !mate.OnPitch() || !mate.Standing() {
			continue
		}
		if _, ok := passModifier(p.Position.Distance(*mate.Position)); ok {
			ids = append(ids, mate.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return []game.ActionChoice{{Type: game.ActPass, Players: ids}}
}

// applyPass aims the ball at the receiver. Opponents standing on the flight
// path get an interception chance first.
func applyPass(s *game.State, p *game.Player, receiverID int) error {
	receiver, err := s.PlayerByID(receiverID)
	if err != nil {
		return err
	}
	target := *receiver.Position
	s.ParentProcedure = s.Procedure
	t := target
	s.TargetSquare = &t

	team, err := s.TeamOf(p.ID)
	if err != nil {
		return err
	}
	if len(interceptors(s, team.ID, *p.Position, target)) > 0 {
		s.Procedure = game.ProcInterception
		s.CurrentTeamID = s.Opponent(team.ID).ID
		return nil
	}
	s.Procedure = game.ProcPassAttempt
	return nil
}

// interceptors returns the standing opponents on the interior of the pass
// path, ordered by id.
func interceptors(s *game.State, teamID int, from, to game.Square) []int {
	path := from.PassPath(to)
	var ids []int
	for _, opp := range s.Opponent(teamID).Players {
		if opp.Position == nil || !opp.Standing() {
			continue
		}
		for _, sq := range path[1 : len(path)-1] {
			if *opp.Position == sq {
				ids = append(ids, opp.ID)
				break
			}
		}
	}
	slices.Sort(ids)
	return ids
}

// discoverInterception lets the defence nominate one candidate or wave the
// pass through.
func discoverInterception(s *game.State) []game.ActionChoice {
	passer := s.BallCarrier()
	if passer == nil || s.TargetSquare == nil {
		return []game.ActionChoice{{Type: game.ActSelectNone}}
	}
	team, err := s.TeamOf(passer.ID)
	if err != nil {
		return []game.ActionChoice{{Type: game.ActSelectNone}}
	}
	ids := interceptors(s, team.ID, *passer.Position, *s.TargetSquare)
	choices := make([]game.ActionChoice, 0, 2)
	if len(ids) > 0 {
		choices = append(choices, game.ActionChoice{Type: game.ActSelectPlayer, Players: ids})
	}
	return append(choices, game.ActionChoice{Type: game.ActSelectNone})
}

func applyInterception(s *game.State, a game.Action) error {
	passer := s.BallCarrier()
	if passer == nil {
		return &game.EnumerationMismatchError{Procedure: s.Procedure, Action: a, Detail: "no passer holds the ball"}
	}
	team, err := s.TeamOf(passer.ID)
	if err != nil {
		return err
	}

	if a.Type == game.ActSelectNone {
		s.CurrentTeamID = team.ID
		s.Procedure = game.ProcPassAttempt
		return nil
	}
	// The passer stays recoverable through the ball while the interceptor
	// borrows the active slot for the roll.
	s.ActivePlayerID = a.PlayerID
	s.Procedure = game.ProcInterceptRoll
	return nil
}

// interceptRollOutcomes resolves the nominated defender's grab at the ball.
func interceptRollOutcomes(s *game.State) ([]Outcome, error) {
	interceptor, err := s.ActivePlayer()
	if err != nil {
		return nil, err
	}
	passer := s.BallCarrier()
	if passer == nil {
		return nil, &game.EnumerationMismatchError{Procedure: s.Procedure, Detail: "no passer holds the ball"}
	}
	passerTeam, err := s.TeamOf(passer.ID)
	if err != nil {
		return nil, err
	}

	target := minRequired(interceptor.Agility()) + 2
	if interceptor.HasSkill(game.SkillCatch) {
		target--
	}
	target = clampRoll(target)
	success := float64(7-target) / 6.0

	caught := s.Clone()
	ci, _ := caught.PlayerByID(interceptor.ID)
	moveBallTo(caught, *ci.Position, true)
	caught.CurrentTeamID = passerTeam.ID
	turnover(caught)

	missed := s.Clone()
	missed.CurrentTeamID = passerTeam.ID
	missed.ActivePlayerID = passer.ID
	missed.Procedure = game.ProcPassAttempt

	return []Outcome{
		{Probability: success, State: caught, Label: "interception"},
		{Probability: 1 - success, State: missed, Label: "interception-miss"},
	}, nil
}

// passAttemptOutcomes resolves the throw itself. A completion lands in the
// receiver's hands; anything else drops the ball at the target square and
// ends the turn.
func passAttemptOutcomes(s *game.State) ([]Outcome, error) {
	passer, err := s.ActivePlayer()
	if err != nil {
		return nil, err
	}
	target := *s.TargetSquare

	mod, ok := passModifier(passer.Position.Distance(target))
	if !ok {
		return nil, &game.EnumerationMismatchError{Procedure: s.Procedure, Detail: "receiver out of range"}
	}
	need := 7 - passer.Agility() - mod
	if passer.HasSkill(game.SkillPass) {
		need--
	}
	need = clampRoll(need)
	success := float64(7-need) / 6.0

	succeed := func(c *game.State) {
		moveBallTo(c, target, true)
		receiver := c.PlayerAt(target)
		resumeAction(c)
		if receiver != nil && receiver.Standing() && c.BallCarrier() == receiver {
			team, err := c.TeamOf(receiver.ID)
			if err == nil && receiver.Position.X == c.TargetX(team.ID) {
				touchdown(c, receiver)
				return
			}
		}
		endPlayerTurn(c)
	}
	fail := func(c *game.State) {
		moveBallTo(c, target, false)
		turnover(c)
	}
	return rollWithReroll(s, passer, success, succeed, fail, "pass")
}

// handoffChoices lists the adjacent standing teammates a carrier can hand
// the ball to.
func handoffChoices(s *game.State, teamID int, p *game.Player) []game.ActionChoice {
	if !p.Standing() || s.BallCarrier() != p {
		return nil
	}
	var ids []int
	for _, mate := range s.AdjacentTeammates(teamID, *p.Position) {
		if mate.ID != p.ID && mate.Standing() {
			ids = append(ids, mate.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return []game.ActionChoice{{Type: game.ActHandoff, Players: ids}}
}

func applyHandoff(s *game.State, p *game.Player, receiverID int) error {
	receiver, err := s.PlayerByID(receiverID)
	if err != nil {
		return err
	}
	s.ParentProcedure = s.Procedure
	t := *receiver.Position
	s.TargetSquare = &t
	s.Procedure = game.ProcCatch
	return nil
}

// catchOutcomes resolves the handoff receiver's catch.
func catchOutcomes(s *game.State) ([]Outcome, error) {
	passer, err := s.ActivePlayer()
	if err != nil {
		return nil, err
	}
	target := *s.TargetSquare
	receiver := s.PlayerAt(target)
	if receiver == nil {
		return nil, &game.EnumerationMismatchError{Procedure: s.Procedure, Detail: "no receiver at the handoff square"}
	}

	need := minRequired(receiver.Agility()) - 1
	if receiver.HasSkill(game.SkillCatch) {
		need--
	}
	need = clampRoll(need)
	success := float64(7-need) / 6.0

	succeed := func(c *game.State) {
		moveBallTo(c, target, true)
		cr := c.PlayerAt(target)
		resumeAction(c)
		if cr != nil {
			team, err := c.TeamOf(cr.ID)
			if err == nil && cr.Position.X == c.TargetX(team.ID) {
				touchdown(c, cr)
				return
			}
		}
		endPlayerTurn(c)
	}
	fail := func(c *game.State) {
		moveBallTo(c, target, false)
		turnover(c)
	}
	return rollWithReroll(s, passer, success, succeed, fail, "catch")
}

// moveBallTo relocates the first ball, carried or loose.
func moveBallTo(s *game.State, to game.Square, carried bool) {
	if len(s.Balls) == 0 {
		return
	}
	t := to
	s.Balls[0].Position = &t
	s.Balls[0].Carried = carried
}
