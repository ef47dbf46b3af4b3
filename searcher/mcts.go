package searcher

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"gridiron/eval"
	"gridiron/experiments/metrics"
	"gridiron/game"
	"gridiron/rules"
)

// ErrNoLegalActions is returned when a search is asked for a move in a state
// that offers nothing to pick.
var ErrNoLegalActions = errors.New("no legal actions at the search root")

type Option func(m *MCTS)

type MCTS struct {
	adapter    *Adapter
	goroutines int
	iterations int
	duration   time.Duration
	checkEvery int
	c          float64
	seed       uint64
	evaluate   eval.Evaluator
	collector  metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.iterations = iterations
		}
	}
}

// WithExploration sets the UCB1 exploration constant.
func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.c = c
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

// WithGoroutines turns on tree parallelization. Anything above one worker
// trades fixed-seed reproducibility for throughput.
func WithGoroutines(goroutines int) Option {
	return func(m *MCTS) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

func WithEvaluator(evaluate eval.Evaluator) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.collector = metrics.NewCollector()
	}
}

// WithCheckEvery sets how many iterations a time-budgeted worker runs
// between clock checks. The default of one keeps the overrun to a single
// iteration.
func WithCheckEvery(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.checkEvery = iterations
		}
	}
}

func NewMCTS(adapter *Adapter, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		adapter:    adapter,
		goroutines: 1,
		checkEvery: 1,
		c:          math.Sqrt2,
		seed:       1,
		evaluate:   eval.Heuristic{},
		collector:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.iterations <= 0 && m.duration <= 0 {
		panic("Must specify search iterations or duration")
	}
	return m
}

// Search builds a tree from the state and returns the most robust root
// action. If the budget expires before a single iteration completes, the
// first legal action is returned best-effort.
func (m *MCTS) Search(s *game.State) (game.Action, metrics.SearchMetric, error) {
	if kind := game.Classify(s); kind != game.KindPlayerTurn {
		return game.Action{}, metrics.SearchMetric{}, &game.UnsupportedDecisionError{
			Procedure: s.Procedure,
			Kind:      kind,
		}
	}
	legal := m.adapter.LegalActions(s)
	if len(legal) == 0 {
		return game.Action{}, metrics.SearchMetric{}, ErrNoLegalActions
	}

	t := newTree()
	t.add(node{
		kind:    nodeDecision,
		parent:  noChild,
		state:   s,
		side:    rewardIndex(s),
		actions: legal,
	})

	m.collector.Start(m.goroutines)
	run := &search{m: m, tree: t}
	if m.iterations > 0 {
		run.iterate()
	} else {
		run.countdown()
	}
	m.collector.SetChildren(run.childStats())
	metric := m.collector.Complete()

	action, ok := t.bestAction()
	if !ok {
		log.Error().
			Err(game.ErrNoIterations).
			Stringer("procedure", s.Procedure).
			Dur("budget", m.duration).
			Msg("returning the first legal action unsearched")
		return legal[0], metric, nil
	}
	return action, metric, nil
}

// search is the per-call state: one tree, one lock. Workers hold the lock
// while walking or growing the tree and release it to evaluate, leaving
// their incremented visit counts behind as virtual losses.
type search struct {
	m    *MCTS
	tree *tree
	mu   sync.Mutex
}

func (r *search) iterate() {
	task := make(chan struct{}, r.m.iterations)
	for i := 0; i < r.m.iterations; i++ {
		task <- struct{}{}
	}
	close(task)

	var wg sync.WaitGroup
	for w := 0; w < r.m.goroutines; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(r.m.seed + uint64(worker)))

			for range task {
				if err := r.simulate(rng); err != nil {
					log.Error().Err(err).Msg("search iteration failed")
					return
				}
				r.m.collector.AddIteration()
			}
		}(w)
	}
	wg.Wait()
}

func (r *search) countdown() {
	deadline := time.Now().Add(r.m.duration)

	var wg sync.WaitGroup
	for w := 0; w < r.m.goroutines; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(r.m.seed + uint64(worker)))

			for i := 0; ; i++ {
				if i%r.m.checkEvery == 0 && !time.Now().Before(deadline) {
					return
				}
				if err := r.simulate(rng); err != nil {
					log.Error().Err(err).Msg("search iteration failed")
					return
				}
				r.m.collector.AddIteration()
			}
		}(w)
	}
	wg.Wait()
}

// simulate runs one iteration: descend to a leaf, evaluate it, push the
// reward pair back up the path.
func (r *search) simulate(rng *rand.Rand) error {
	r.mu.Lock()
	path, leaf, err := r.descend(rng)
	if err != nil {
		r.unvisit(path)
		r.mu.Unlock()
		return err
	}
	leafState := r.tree.nodes[leaf].state
	kind := r.tree.nodes[leaf].kind
	valued := r.tree.nodes[leaf].valued
	value := r.tree.nodes[leaf].value
	r.mu.Unlock()

	var home, away float64
	switch {
	case valued:
		home, away = value[0], value[1]
	case kind == nodeTerminal && leafState.GameOver:
		home, away = finalValues(leafState)
	default:
		home, away, err = r.m.evaluate.Evaluate(leafState)
		if err != nil {
			log.Warn().Err(err).Msg("evaluator failed, falling back to the bench heuristic")
			home, away, _ = eval.Heuristic{}.Evaluate(leafState)
		}
	}

	r.mu.Lock()
	for _, idx := range path {
		r.tree.nodes[idx].rewards[0] += home
		r.tree.nodes[idx].rewards[1] += away
	}
	if kind == nodeTerminal && !valued {
		r.tree.nodes[leaf].valued = true
		r.tree.nodes[leaf].value = [2]float64{home, away}
	}
	r.mu.Unlock()

	if kind == nodeTerminal && leafState.GameOver {
		r.m.collector.AddFullPlayout()
	}
	r.m.collector.ObserveDepth(len(path) - 1)
	return nil
}

// descend walks from the root to the leaf of this iteration: the first node
// created on the way down, or an existing terminal. Chance nodes are passed
// through by sampling, even freshly created ones, so the leaf always carries
// a state worth evaluating. Visit counts are incremented on the way down.
func (r *search) descend(rng *rand.Rand) ([]int, int, error) {
	t := r.tree
	path := make([]int, 0, 32)
	idx := 0
	fresh := false
	for {
		path = append(path, idx)
		t.nodes[idx].visits++

		if t.nodes[idx].kind == nodeTerminal || (fresh && t.nodes[idx].kind == nodeDecision) {
			return path, idx, nil
		}

		var next int
		var err error
		switch t.nodes[idx].kind {
		case nodeDecision:
			if t.nodes[idx].expandable() {
				next, err = r.expand(idx)
				fresh = true
			} else {
				pick := t.pickChild(idx, r.m.c)
				next = t.nodes[idx].children[pick]
				fresh = false
			}
		case nodeChance:
			i := sampleIndex(rng, t.nodes[idx].outcomes)
			if t.nodes[idx].children[i] == noChild {
				next, err = r.materialize(idx, i)
				fresh = true
			} else {
				next = t.nodes[idx].children[i]
				fresh = false
			}
		}
		if err != nil {
			return path, noChild, err
		}
		idx = next
	}
}

// expand tries the next untried action of a decision node.
func (r *search) expand(idx int) (int, error) {
	t := r.tree
	action := t.nodes[idx].actions[len(t.nodes[idx].children)]
	childState, err := r.m.adapter.Step(t.nodes[idx].state, action)
	if err != nil {
		return noChild, err
	}
	ci, err := r.place(idx, childState)
	if err != nil {
		return noChild, err
	}
	t.nodes[idx].children = append(t.nodes[idx].children, ci)
	return ci, nil
}

// materialize creates the node for one sampled outcome of a chance node.
func (r *search) materialize(idx, i int) (int, error) {
	t := r.tree
	ci, err := r.place(idx, t.nodes[idx].outcomes[i].State)
	if err != nil {
		return noChild, err
	}
	t.nodes[idx].children[i] = ci
	return ci, nil
}

// place adds a node for a fast-forwarded state. The adapter has already
// skipped scripted points, so the state is a decision, a roll, or the end.
func (r *search) place(parent int, s *game.State) (int, error) {
	n := node{parent: parent, state: s}
	switch game.Classify(s) {
	case game.KindPlayerTurn:
		n.kind = nodeDecision
		n.side = rewardIndex(s)
		n.actions = r.m.adapter.LegalActions(s)
		if len(n.actions) == 0 {
			n.kind = nodeTerminal
		}
	case game.KindChance:
		n.kind = nodeChance
		outcomes, err := r.m.adapter.Outcomes(s)
		if err != nil {
			return noChild, err
		}
		n.outcomes = outcomes
		n.children = make([]int, len(outcomes))
		for i := range n.children {
			n.children[i] = noChild
		}
	default:
		n.kind = nodeTerminal
	}
	return r.tree.add(n), nil
}

func (r *search) unvisit(path []int) {
	for _, idx := range path {
		r.tree.nodes[idx].visits--
	}
}

func (r *search) childStats() []metrics.ChildStat {
	root := &r.tree.nodes[0]
	stats := make([]metrics.ChildStat, 0, len(root.children))
	for i, ci := range root.children {
		child := &r.tree.nodes[ci]
		stats = append(stats, metrics.ChildStat{
			Action: root.actions[i],
			Visits: child.visits,
			Mean:   child.mean(root.side),
		})
	}
	return stats
}

func sampleIndex(rng *rand.Rand, outcomes []rules.Outcome) int {
	roll := rng.Float64()
	acc := 0.0
	for i, o := range outcomes {
		acc += o.Probability
		if roll < acc {
			return i
		}
	}
	return len(outcomes) - 1
}

// finalValues maps a finished game onto exact rewards from the score line.
func finalValues(s *game.State) (float64, float64) {
	switch {
	case s.HomeTeam.Score > s.AwayTeam.Score:
		return 1, -1
	case s.AwayTeam.Score > s.HomeTeam.Score:
		return -1, 1
	}
	return 0, 0
}
