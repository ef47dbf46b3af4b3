// Package eval scores game states for the search. All evaluators speak the
// same contract: a pair of values in [-1, 1], one per side, describing the
// same position seen from opposite benches.
package eval

import "gridiron/game"

// Evaluator estimates how good a state is for each side. Implementations
// must be safe for concurrent use; search workers share one instance.
type Evaluator interface {
	Evaluate(s *game.State) (home, away float64, err error)
}
