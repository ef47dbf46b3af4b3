// Package searcher picks actions by Monte Carlo tree search over the local
// rules engine. The tree mixes decision nodes, where a side picks an action,
// with chance nodes, where the dice pick an outcome; leaves are scored by a
// pluggable evaluator.
package searcher

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"gridiron/game"
	"gridiron/rules"
	"gridiron/scripted"
)

// Adapter narrows a full game state to the three kinds of points the search
// tree is built from. Scripted decisions and block-die picks are answered by
// the policy on the way through, so the tree never branches on them.
type Adapter struct {
	engine rules.Engine
	policy *scripted.Policy
}

func NewAdapter(engine rules.Engine, policy *scripted.Policy) *Adapter {
	return &Adapter{engine: engine, policy: policy}
}

// Classify reports what kind of point the state is for the search.
func (a *Adapter) Classify(s *game.State) game.DecisionKind {
	return game.Classify(s)
}

// LegalActions flattens the enumerated choices into concrete actions in a
// deterministic order. Setup placement moves are dropped: formations are
// scripted, square-by-square placement is not worth a tree branch.
func (a *Adapter) LegalActions(s *game.State) []game.Action {
	expanded := game.Expand(a.engine.AvailableActions(s))

	actions := make([]game.Action, 0, len(expanded))
	for _, action := range expanded {
		if action.Type == game.ActPlacePlayer {
			continue
		}
		duplicate := false
		for _, seen := range actions {
			if seen.Equal(action) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			actions = append(actions, action)
		}
	}

	slices.SortFunc(actions, func(x, y game.Action) int {
		if x.Less(y) {
			return -1
		}
		if y.Less(x) {
			return 1
		}
		return 0
	})
	return actions
}

// Step applies one action and fast-forwards the result until a state the
// tree branches on: a player decision, a dice roll, or the end of the line.
func (a *Adapter) Step(s *game.State, action game.Action) (*game.State, error) {
	next, err := a.engine.Apply(s, action)
	if err != nil {
		log.Error().
			Err(err).
			Stringer("procedure", s.Procedure).
			Stringer("action", action).
			Msg("engine rejected an enumerated action")
		return nil, err
	}
	return a.forward(next)
}

// Outcomes lists the dice resolutions of a chance state, each fast-forwarded
// the same way Step is.
func (a *Adapter) Outcomes(s *game.State) ([]rules.Outcome, error) {
	outcomes, err := a.engine.Outcomes(s)
	if err != nil {
		return nil, err
	}
	for i := range outcomes {
		next, err := a.forward(outcomes[i].State)
		if err != nil {
			return nil, err
		}
		outcomes[i].State = next
	}
	return outcomes, nil
}

func (a *Adapter) forward(s *game.State) (*game.State, error) {
	for {
		switch game.Classify(s) {
		case game.KindScripted, game.KindBlockDice:
			action, err := a.policy.Action(s, a.engine.AvailableActions(s))
			if err != nil {
				return nil, err
			}
			next, err := a.engine.Apply(s, action)
			if err != nil {
				return nil, err
			}
			s = next
		default:
			return s, nil
		}
	}
}
