package rules

import "gridiron/game"

// canonical face order for deterministic outcome listings
var blockFaces = []game.ActionType{
	game.ActSelectAttackerDown,
	game.ActSelectBothDown,
	game.ActSelectPush,
	game.ActSelectDefenderStumbles,
	game.ActSelectDefenderDown,
}

var blockFaceLabels = map[game.ActionType]string{
	game.ActSelectAttackerDown:     "block-attacker-down",
	game.ActSelectBothDown:         "block-both-down",
	game.ActSelectPush:             "block-push",
	game.ActSelectDefenderStumbles: "block-stumble",
	game.ActSelectDefenderDown:     "block-defender-down",
}

// discoverBlockAction lists the targets of a standing block: adjacent
// standing opponents, one block per activation.
func discoverBlockAction(s *game.State) []game.ActionChoice {
	p, err := s.ActivePlayer()
	if err != nil {
		return []game.ActionChoice{{Type: game.ActEndPlayerTurn}}
	}
	team, _ := s.TeamOf(p.ID)

	var choices []game.ActionChoice
	if p.Standing() && !p.State.HasBlocked {
		if targets := blockTargets(s, team.ID, p); len(targets) > 0 {
			choices = append(choices, game.ActionChoice{Type: game.ActBlock, Players: targets})
		}
	}
	return append(choices, game.ActionChoice{Type: game.ActEndPlayerTurn, Players: []int{p.ID}})
}

func applyBlockAction(s *game.State, a game.Action) error {
	if a.Type == game.ActEndPlayerTurn {
		endPlayerTurn(s)
		return nil
	}
	p, err := s.ActivePlayer()
	if err != nil {
		return err
	}
	defender, err := s.PlayerByID(a.PlayerID)
	if err != nil {
		return err
	}
	startBlock(s, p, defender)
	return nil
}

// blitzBlockChoices adds the blitz's block to a movement action. A standing
// blitzer pays one square of movement for the hit; a prone one pays four,
// standing up into it.
func blitzBlockChoices(s *game.State, teamID int, p *game.Player) []game.ActionChoice {
	if p.State.HasBlocked {
		return nil
	}
	cost := 1
	if !p.State.Up {
		cost = 4
	}
	if p.State.Moves+cost > p.Movement()+2 {
		return nil
	}
	targets := blockTargets(s, teamID, p)
	if len(targets) == 0 {
		return nil
	}
	return []game.ActionChoice{{Type: game.ActBlock, Players: targets}}
}

func applyBlitzBlock(s *game.State, p *game.Player, defenderID int) error {
	defender, err := s.PlayerByID(defenderID)
	if err != nil {
		return err
	}
	cost := 1
	if !p.State.Up {
		cost = 4
		p.State.Up = true
	}
	p.State.Moves += cost
	startBlock(s, p, defender)
	return nil
}

// blockTargets returns the adjacent standing opponents, ordered by id.
func blockTargets(s *game.State, teamID int, p *game.Player) []int {
	var ids []int
	for _, opp := range s.AdjacentOpponents(teamID, *p.Position) {
		if opp.Standing() {
			ids = append(ids, opp.ID)
		}
	}
	return ids
}

// startBlock records who blocks whom and hands the state to the dice.
func startBlock(s *game.State, attacker, defender *game.Player) {
	s.BlockContext = &game.BlockContext{
		Attacker: attacker.ID,
		Defender: defender.ID,
		Position: *defender.Position,
	}
	s.ParentProcedure = s.Procedure
	s.Procedure = game.ProcBlockRoll
}

// blockRollOutcomes folds the roll and the face pick into one distribution:
// the stronger side picks by its configured preference, so each face's
// probability is the chance it ends up the chosen one among the dice rolled.
func (e *LocalEngine) blockRollOutcomes(s *game.State) ([]Outcome, error) {
	ctx := s.BlockContext
	attacker, err := s.PlayerByID(ctx.Attacker)
	if err != nil {
		return nil, err
	}
	defender, err := s.PlayerByID(ctx.Defender)
	if err != nil {
		return nil, err
	}

	n, attackerChooses := blockDice(attacker, defender)
	pref := e.defenderDice
	hasBlock := defender.HasSkill(game.SkillBlock)
	if attackerChooses {
		pref = e.attackerDice
		hasBlock = attacker.HasSkill(game.SkillBlock)
	}
	dist := pref.Distribution(n, hasBlock)

	outcomes := make([]Outcome, 0, len(blockFaces))
	for _, face := range blockFaces {
		prob := dist[face]
		if prob <= 0 {
			continue
		}
		c := s.Clone()
		if err := applyBlockFace(c, face); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, Outcome{Probability: prob, State: c, Label: blockFaceLabels[face]})
	}
	return outcomes, nil
}

// discoverBlockSelect lists the faces of an externally rolled block, one
// choice per distinct face.
func discoverBlockSelect(s *game.State) []game.ActionChoice {
	seen := make(map[game.ActionType]bool)
	var choices []game.ActionChoice
	for _, face := range s.Rolls {
		if seen[face] {
			continue
		}
		seen[face] = true
		choices = append(choices, game.ActionChoice{Type: face})
	}
	return choices
}

func applyBlockSelect(s *game.State, a game.Action) error {
	s.Rolls = nil
	return applyBlockFace(s, a.Type)
}

// applyBlockFace enacts one block die face. Knocked-down players leave the
// pitch in this ruleset; the Block skill keeps its owner standing through a
// both-down.
func applyBlockFace(s *game.State, face game.ActionType) error {
	ctx := s.BlockContext
	if ctx == nil {
		return &game.EnumerationMismatchError{Procedure: s.Procedure, Detail: "no block in progress"}
	}
	attacker, err := s.PlayerByID(ctx.Attacker)
	if err != nil {
		return err
	}
	defender, err := s.PlayerByID(ctx.Defender)
	if err != nil {
		return err
	}

	switch face {
	case game.ActSelectAttackerDown:
		knockOut(s, attacker)
		turnover(s)
		return nil
	case game.ActSelectBothDown:
		attackerDown := !attacker.HasSkill(game.SkillBlock)
		if !defender.HasSkill(game.SkillBlock) {
			knockOut(s, defender)
		}
		if attackerDown {
			knockOut(s, attacker)
			turnover(s)
			return nil
		}
		finishBlock(s, attacker)
		return nil
	case game.ActSelectPush:
		beginPush(s, false)
		return nil
	case game.ActSelectDefenderStumbles:
		beginPush(s, !defender.HasSkill(game.SkillDodge))
		return nil
	case game.ActSelectDefenderDown:
		beginPush(s, true)
		return nil
	default:
		return &game.EnumerationMismatchError{Procedure: s.Procedure, Detail: "not a block die face"}
	}
}

// finishBlock closes out a resolved block: a blitz continues moving, a plain
// block action ends the activation.
func finishBlock(s *game.State, attacker *game.Player) {
	attacker.State.HasBlocked = true
	s.BlockContext = nil
	if s.ParentProcedure == game.ProcBlitzAction {
		s.Procedure = game.ProcBlitzAction
		s.ParentProcedure = game.ProcTurn
		return
	}
	endPlayerTurn(s)
}
