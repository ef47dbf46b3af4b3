// Package rules implements the simplified gridiron ruleset: action discovery,
// action application, and the probability distribution over dice resolutions.
// States are never mutated in place; every transition works on a clone.
package rules

import (
	"fmt"

	"gridiron/game"
)

// Outcome is one way a pending dice roll can resolve: the probability of the
// resolution and the state it leads to.
type Outcome struct {
	Probability float64
	State       *game.State
	Label       string
}

// Engine is the rules surface the search and the driver consume. Decision
// states answer AvailableActions/Apply; chance states answer Outcomes.
type Engine interface {
	AvailableActions(s *game.State) []game.ActionChoice
	Apply(s *game.State, a game.Action) (*game.State, error)
	Outcomes(s *game.State) ([]Outcome, error)
}

// LocalEngine is the in-process rules implementation.
type LocalEngine struct {
	attackerDice DicePreference
	defenderDice DicePreference
}

// Option configures a LocalEngine.
type Option func(*LocalEngine)

// WithAttackerDice overrides the die preference used when the blocking side
// picks the result.
func WithAttackerDice(p DicePreference) Option {
	return func(e *LocalEngine) { e.attackerDice = p }
}

// WithDefenderDice overrides the die preference used when the blocked side
// picks the result.
func WithDefenderDice(p DicePreference) Option {
	return func(e *LocalEngine) { e.defenderDice = p }
}

func NewLocalEngine(opts ...Option) *LocalEngine {
	e := &LocalEngine{
		attackerDice: AttackerFavor(),
		defenderDice: DefenderFavor(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AvailableActions lists the legal actions of the pending decision. Chance
// and terminal states have none.
func (e *LocalEngine) AvailableActions(s *game.State) []game.ActionChoice {
	if s.GameOver {
		return nil
	}
	switch s.Procedure {
	case game.ProcCoinTossFlip:
		return discoverCoinTossFlip()
	case game.ProcCoinTossKickReceive:
		return discoverCoinTossKickReceive()
	case game.ProcSetup:
		return discoverSetup(s)
	case game.ProcPlaceBall:
		return discoverPlaceBall(s)
	case game.ProcTouchback:
		return discoverTouchback(s)
	case game.ProcHighKick:
		return discoverHighKick(s)
	case game.ProcTurn:
		return discoverTurn(s)
	case game.ProcMoveAction, game.ProcBlitzAction, game.ProcPassAction,
		game.ProcHandoffAction, game.ProcFoulAction:
		return discoverPlayerAction(s)
	case game.ProcBlockAction:
		return discoverBlockAction(s)
	case game.ProcBlock:
		return discoverBlockSelect(s)
	case game.ProcPush:
		return discoverPush(s)
	case game.ProcFollowUp:
		return discoverFollowUp(s)
	case game.ProcInterception:
		return discoverInterception(s)
	case game.ProcEjection:
		return discoverEjection(s)
	default:
		return nil
	}
}

// Apply enacts one action on a clone of the state. Actions outside the
// available set are rejected with an EnumerationMismatchError.
func (e *LocalEngine) Apply(s *game.State, a game.Action) (*game.State, error) {
	if s.GameOver {
		return nil, &game.UnsupportedDecisionError{Procedure: s.Procedure, Kind: game.KindTerminal}
	}
	if !choiceAllows(e.AvailableActions(s), a) {
		return nil, &game.EnumerationMismatchError{
			Procedure: s.Procedure,
			Action:    a,
			Detail:    "action not in the available set",
		}
	}

	c := s.Clone()
	var err error
	switch c.Procedure {
	case game.ProcCoinTossFlip:
		err = applyCoinTossFlip(c, a)
	case game.ProcCoinTossKickReceive:
		err = applyCoinTossKickReceive(c, a)
	case game.ProcSetup:
		err = applySetup(c, a)
	case game.ProcPlaceBall:
		err = applyPlaceBall(c, a)
	case game.ProcTouchback:
		err = applyTouchback(c, a)
	case game.ProcHighKick:
		err = applyHighKick(c, a)
	case game.ProcTurn:
		err = applyTurn(c, a)
	case game.ProcMoveAction, game.ProcBlitzAction, game.ProcPassAction,
		game.ProcHandoffAction, game.ProcFoulAction:
		err = applyPlayerAction(c, a)
	case game.ProcBlockAction:
		err = applyBlockAction(c, a)
	case game.ProcBlock:
		err = applyBlockSelect(c, a)
	case game.ProcPush:
		err = applyPush(c, a)
	case game.ProcFollowUp:
		err = applyFollowUp(c, a)
	case game.ProcInterception:
		err = applyInterception(c, a)
	case game.ProcEjection:
		err = applyEjection(c, a)
	default:
		err = &game.UnsupportedDecisionError{Procedure: c.Procedure, Kind: game.Classify(c)}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Outcomes returns the resolution distribution of a pending dice roll. Only
// chance states have outcomes.
func (e *LocalEngine) Outcomes(s *game.State) ([]Outcome, error) {
	if game.Classify(s) != game.KindChance {
		return nil, &game.UnsupportedDecisionError{Procedure: s.Procedure, Kind: game.Classify(s)}
	}
	switch s.Procedure {
	case game.ProcGFI:
		return gfiOutcomes(s)
	case game.ProcDodge:
		return dodgeOutcomes(s)
	case game.ProcBlockRoll:
		return e.blockRollOutcomes(s)
	case game.ProcPassAttempt:
		return passAttemptOutcomes(s)
	case game.ProcInterceptRoll:
		return interceptRollOutcomes(s)
	case game.ProcCatch:
		return catchOutcomes(s)
	case game.ProcFoulRoll:
		return foulRollOutcomes(s)
	case game.ProcKickoff:
		return kickoffOutcomes(s)
	default:
		return nil, &game.UnsupportedDecisionError{Procedure: s.Procedure, Kind: game.KindChance}
	}
}

// Continue advances a state resting at a turn boundary (end of turn,
// turnover, or touchdown) into the next turn, drive, or half.
func (e *LocalEngine) Continue(s *game.State) (*game.State, error) {
	if !game.TurnBoundary(s) {
		return nil, fmt.Errorf("continue at %s: not a turn boundary", s.Procedure)
	}
	c := s.Clone()

	scorer := 0
	if c.Procedure == game.ProcTouchdown && c.ActivePlayerID != 0 {
		team, err := c.TeamOf(c.ActivePlayerID)
		if err != nil {
			return nil, err
		}
		scorer = team.ID
	}

	// The next actor is normally the opponent of the team whose turn ended.
	// After a touchdown the receiver of the new drive acts next, which is the
	// same team unless the score happened on the opponent's turn.
	next := c.Opponent(c.CurrentTeamID).ID
	if scorer != 0 {
		next = c.Opponent(scorer).ID
	}
	if next == halfFirstActor(c) {
		c.Round++
	}

	if c.Round > game.RoundsPerHalf {
		if c.Half >= game.Halves {
			endGame(c)
			return c, nil
		}
		c.Half++
		c.Round = 1
		c.KickingThisDrive = c.ReceivingFirstHalf
		c.ReceivingThisDrive = c.KickingFirstHalf
		setupDrive(c)
		return c, nil
	}

	if scorer != 0 {
		c.KickingThisDrive = scorer
		c.ReceivingThisDrive = c.Opponent(scorer).ID
		setupDrive(c)
		return c, nil
	}

	beginTeamTurn(c, next)
	return c, nil
}

// halfFirstActor returns the team that takes the first turn of the current
// half: the first-half receiver in half one, the first-half kicker in half
// two. Round numbers advance when the turn comes back around to them.
func halfFirstActor(s *game.State) int {
	if s.Half <= 1 {
		return s.ReceivingFirstHalf
	}
	return s.KickingFirstHalf
}

// choiceAllows reports whether the action matches one of the choices. A
// choice with players but no positions leaves the position free-form for the
// applier to validate (player placement during setup).
func choiceAllows(choices []game.ActionChoice, a game.Action) bool {
	for _, c := range choices {
		if c.Type != a.Type {
			continue
		}
		if len(c.Players) == 0 && len(c.Positions) == 0 {
			return true
		}
		if len(c.Players) > 0 && !containsInt(c.Players, a.PlayerID) {
			continue
		}
		if len(c.Positions) > 0 {
			if a.Position == nil || !containsSquare(c.Positions, *a.Position) {
				continue
			}
		}
		return true
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsSquare(list []game.Square, v game.Square) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
