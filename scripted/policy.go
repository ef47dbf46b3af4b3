// Package scripted answers the decisions not worth searching over: the
// pre-drive ceremony, interruptions like rerolls and ejections, and block
// die picks. Every answer is a fixed table over the state, so replaying a
// game with the same seeds replays the same calls.
package scripted

import (
	"gridiron/game"
	"gridiron/rules"
)

// Policy is the fixed decision table. Build it with NewPolicy so the die
// preferences are wired.
type Policy struct {
	attackerDice rules.DicePreference
	defenderDice rules.DicePreference
}

// Option configures a Policy.
type Option func(*Policy)

// WithAttackerDice overrides the face order used when this side threw the
// block.
func WithAttackerDice(p rules.DicePreference) Option {
	return func(pol *Policy) { pol.attackerDice = p }
}

// WithDefenderDice overrides the face order used when this side is being
// blocked and picks the die.
func WithDefenderDice(p rules.DicePreference) Option {
	return func(pol *Policy) { pol.defenderDice = p }
}

// NewPolicy returns the default table with the standard die preferences.
func NewPolicy(opts ...Option) *Policy {
	pol := &Policy{
		attackerDice: rules.AttackerFavor(),
		defenderDice: rules.DefenderFavor(),
	}
	for _, opt := range opts {
		opt(pol)
	}
	return pol
}

// Action answers the pending decision from the table. choices is the
// enumerated action set for the state; reroll decisions arrive only from the
// wire and are answered without one. Decisions the table has no row for
// return an UnsupportedDecisionError, which marks a driver defect.
func (pol *Policy) Action(s *game.State, choices []game.ActionChoice) (game.Action, error) {
	switch s.Procedure {
	case game.ProcCoinTossFlip:
		return firstOffered(s, choices, game.ActTails, game.ActHeads)
	case game.ProcCoinTossKickReceive:
		return firstOffered(s, choices, game.ActReceive, game.ActKick)
	case game.ProcSetup:
		return setup(s, choices)
	case game.ProcPlaceBall:
		return placeBall(s, choices)
	case game.ProcTouchback:
		return touchback(s, choices)
	case game.ProcHighKick:
		return highKick(s, choices)
	case game.ProcInterception:
		return interception(s, choices)
	case game.ProcReroll:
		return reroll(s), nil
	case game.ProcEjection:
		return firstOffered(s, choices, game.ActUseBribe, game.ActDontUseBribe)
	case game.ProcBlock:
		return pol.blockFace(s)
	default:
		return game.Action{}, &game.UnsupportedDecisionError{
			Procedure: s.Procedure,
			Kind:      game.Classify(s),
		}
	}
}

// setup answers the whole setup phase: the receiver lines up in the wedge to
// screen the runner, the kicker zones the backfield, and once a grid is down
// the phase is closed. The secondary grids cover menus that lack the first
// pick.
func setup(s *game.State, choices []game.ActionChoice) (game.Action, error) {
	prefs := []game.ActionType{
		game.ActSetupFormationWedge,
		game.ActSetupFormationLine,
		game.ActSetupFormationSpread,
		game.ActSetupFormationZone,
		game.ActEndSetup,
	}
	if s.CurrentTeamID == s.KickingThisDrive {
		prefs = []game.ActionType{
			game.ActSetupFormationZone,
			game.ActSetupFormationSpread,
			game.ActSetupFormationLine,
			game.ActSetupFormationWedge,
			game.ActEndSetup,
		}
	}
	return firstOffered(s, choices, prefs...)
}

// placeBall kicks to the middle of the receiving backfield: deep enough to
// cost the return most of a drive, central so neither sideline is conceded.
func placeBall(s *game.State, choices []game.ActionChoice) (game.Action, error) {
	target := game.Sq(6, game.PitchHeight/2)
	if s.IsHome(s.ReceivingThisDrive) {
		target = game.Sq(game.PitchWidth-1-6, game.PitchHeight/2)
	}
	for _, c := range choices {
		if c.Type != game.ActPlaceBall || len(c.Positions) == 0 {
			continue
		}
		pos := c.Positions[0]
		if containsSquare(c.Positions, target) {
			pos = target
		}
		return game.Action{Type: game.ActPlaceBall, Position: &pos}, nil
	}
	return game.Action{}, &game.EnumerationMismatchError{
		Procedure: s.Procedure,
		Detail:    "no ball placement offered",
	}
}

// touchback hands the free ball to a dedicated retriever: sure hands first,
// then a catcher, then the lowest-numbered standing player.
func touchback(s *game.State, choices []game.ActionChoice) (game.Action, error) {
	best, bestRank := 0, 4
	for _, id := range offeredPlayers(choices) {
		p, err := s.PlayerByID(id)
		if err != nil {
			continue
		}
		rank := 3
		if p.Standing() {
			switch {
			case p.HasSkill(game.SkillSureHands):
				rank = 0
			case p.HasSkill(game.SkillCatch):
				rank = 1
			default:
				rank = 2
			}
		}
		if rank < bestRank {
			best, bestRank = id, rank
		}
	}
	if best == 0 {
		return game.Action{}, &game.EnumerationMismatchError{
			Procedure: s.Procedure,
			Detail:    "no touchback candidates offered",
		}
	}
	return game.Action{Type: game.ActSelectPlayer, PlayerID: best}, nil
}

// highKick moves a catcher under the ball, but only when the landing square
// is clear of tackle zones. Anything else lets the kick bounce.
func highKick(s *game.State, choices []game.ActionChoice) (game.Action, error) {
	ballSq, ok := s.BallPosition()
	if ok && s.TackleZonesAt(s.CurrentTeamID, ballSq) == 0 {
		for _, id := range offeredPlayers(choices) {
			p, err := s.PlayerByID(id)
			if err != nil {
				continue
			}
			if p.HasSkill(game.SkillCatch) {
				return game.Action{Type: game.ActSelectPlayer, PlayerID: id}, nil
			}
		}
	}
	return firstOffered(s, choices, game.ActSelectNone)
}

// interception always sends a candidate, the one closest to the ball.
func interception(s *game.State, choices []game.ActionChoice) (game.Action, error) {
	if ballSq, ok := s.BallPosition(); ok {
		best, bestDist := 0, 0
		for _, id := range offeredPlayers(choices) {
			p, err := s.PlayerByID(id)
			if err != nil || p.Position == nil {
				continue
			}
			if d := p.Position.Distance(ballSq); best == 0 || d < bestDist {
				best, bestDist = id, d
			}
		}
		if best != 0 {
			return game.Action{Type: game.ActSelectPlayer, PlayerID: best}, nil
		}
	}
	return firstOffered(s, choices, game.ActSelectNone)
}

// reroll burns a team reroll whenever one is left. The local engine folds
// rerolls into its chance distributions, so only wire states land here.
func reroll(s *game.State) game.Action {
	if team := s.CurrentTeam(); team != nil && team.Rerolls > 0 {
		return game.Action{Type: game.ActUseReroll}
	}
	return game.Action{Type: game.ActDontUseReroll}
}

// blockFace picks among externally rolled block dice with the same
// preferences the engine folds into its own roll distributions.
func (pol *Policy) blockFace(s *game.State) (game.Action, error) {
	ctx := s.BlockContext
	if ctx == nil || len(s.Rolls) == 0 {
		return game.Action{}, &game.EnumerationMismatchError{
			Procedure: s.Procedure,
			Detail:    "no block dice to choose from",
		}
	}
	attacker, err := s.PlayerByID(ctx.Attacker)
	if err != nil {
		return game.Action{}, err
	}
	defender, err := s.PlayerByID(ctx.Defender)
	if err != nil {
		return game.Action{}, err
	}
	attackerTeam, err := s.TeamOf(attacker.ID)
	if err != nil {
		return game.Action{}, err
	}

	pref, hasBlock := pol.defenderDice, defender.HasSkill(game.SkillBlock)
	if attackerTeam.ID == s.CurrentTeamID {
		pref, hasBlock = pol.attackerDice, attacker.HasSkill(game.SkillBlock)
	}
	return game.Action{Type: pref.Pick(s.Rolls, hasBlock)}, nil
}

// firstOffered returns the most preferred of the plain action types present
// in the choice list.
func firstOffered(s *game.State, choices []game.ActionChoice, prefs ...game.ActionType) (game.Action, error) {
	for _, want := range prefs {
		for _, c := range choices {
			if c.Type == want {
				return game.Action{Type: want}, nil
			}
		}
	}
	return game.Action{}, &game.EnumerationMismatchError{
		Procedure: s.Procedure,
		Detail:    "none of the expected actions offered",
	}
}

// offeredPlayers returns the player ids of the first select-player choice.
func offeredPlayers(choices []game.ActionChoice) []int {
	for _, c := range choices {
		if c.Type == game.ActSelectPlayer {
			return c.Players
		}
	}
	return nil
}

func containsSquare(squares []game.Square, sq game.Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}
