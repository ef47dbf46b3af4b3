package eval

import (
	"sync"

	"golang.org/x/exp/rand"

	"gridiron/game"
	"gridiron/rules"
	"gridiron/scripted"
)

// defaultPlayoutMoves bounds a playout that never reaches a turn boundary.
const defaultPlayoutMoves = 120

// Playout estimates a state by rolling it forward: random legal actions for
// the side to move, scripted answers for ceremony decisions, dice sampled by
// their distribution. The roll stops at a turn boundary or the move cap and
// the frontier state is scored by a plain evaluator.
type Playout struct {
	engine   rules.Engine
	policy   *scripted.Policy
	frontier Evaluator
	maxMoves int

	mu  sync.Mutex
	rng *rand.Rand
}

// PlayoutOption configures a Playout.
type PlayoutOption func(*Playout)

// WithMaxMoves caps how many steps a single playout may take.
func WithMaxMoves(n int) PlayoutOption {
	return func(p *Playout) {
		if n > 0 {
			p.maxMoves = n
		}
	}
}

// WithFrontier replaces the evaluator applied at the playout frontier.
func WithFrontier(e Evaluator) PlayoutOption {
	return func(p *Playout) {
		if e != nil {
			p.frontier = e
		}
	}
}

// NewPlayout builds a playout evaluator over the given engine and scripted
// policy, seeded for reproducible runs.
func NewPlayout(engine rules.Engine, policy *scripted.Policy, seed uint64, opts ...PlayoutOption) *Playout {
	p := &Playout{
		engine:   engine,
		policy:   policy,
		frontier: Heuristic{},
		maxMoves: defaultPlayoutMoves,
		rng:      rand.New(rand.NewSource(seed)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Playout) Evaluate(s *game.State) (float64, float64, error) {
	r := p.stream()
	cur := s
	for i := 0; i < p.maxMoves; i++ {
		switch game.Classify(cur) {
		case game.KindTerminal:
			return p.frontier.Evaluate(cur)

		case game.KindScripted, game.KindBlockDice:
			a, err := p.policy.Action(cur, p.engine.AvailableActions(cur))
			if err != nil {
				return 0, 0, err
			}
			next, err := p.engine.Apply(cur, a)
			if err != nil {
				return 0, 0, err
			}
			cur = next

		case game.KindChance:
			outcomes, err := p.engine.Outcomes(cur)
			if err != nil {
				return 0, 0, err
			}
			cur = sampleOutcome(r, outcomes)

		default:
			actions := game.Expand(p.engine.AvailableActions(cur))
			if len(actions) == 0 {
				return 0, 0, &game.UnsupportedDecisionError{
					Procedure: cur.Procedure,
					Kind:      game.Classify(cur),
				}
			}
			next, err := p.engine.Apply(cur, actions[r.Intn(len(actions))])
			if err != nil {
				return 0, 0, err
			}
			cur = next
		}
	}
	return p.frontier.Evaluate(cur)
}

// stream hands each playout its own random stream. Search workers evaluate
// concurrently, so the shared source is touched once per call under a lock.
func (p *Playout) stream() *rand.Rand {
	p.mu.Lock()
	seed := p.rng.Uint64()
	p.mu.Unlock()
	return rand.New(rand.NewSource(seed))
}

// sampleOutcome draws one resolution proportionally to its probability.
func sampleOutcome(r *rand.Rand, outcomes []rules.Outcome) *game.State {
	roll := r.Float64()
	acc := 0.0
	for _, o := range outcomes {
		acc += o.Probability
		if roll < acc {
			return o.State
		}
	}
	return outcomes[len(outcomes)-1].State
}
