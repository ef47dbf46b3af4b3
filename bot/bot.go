// Package bot drives one seat of a game. Scripted tables answer the
// pre-drive ceremony and die picks, player turns go through a planner, and
// a small action queue carries multi-step plans across calls. A queued
// action replays only while the engine still lists it; anything stale
// flushes the queue and the decision is planned afresh, never substituted.
package bot

import (
	"time"

	"github.com/rs/zerolog/log"

	"gridiron/experiments/metrics"
	"gridiron/game"
	"gridiron/rules"
	"gridiron/scripted"
	"gridiron/searcher"
)

// Planner decides a player-turn action. It returns the action to play now
// plus any follow-up actions to queue for the coming calls.
type Planner interface {
	Plan(s *game.State, legal []game.Action, budget time.Duration) ([]game.Action, metrics.SearchMetric, error)
}

// Bot answers every decision of one seat. Between calls it keeps only its
// configuration and the pending plan queue.
type Bot struct {
	engine  rules.Engine
	policy  *scripted.Policy
	adapter *searcher.Adapter
	planner Planner

	queue  []game.Action
	turn   turnKey
	metric metrics.SearchMetric
}

// turnKey identifies the turn a plan was made in. A queued action from an
// earlier turn is stale even when the engine would still accept it.
type turnKey struct {
	half  int
	round int
	team  int
}

func keyOf(s *game.State) turnKey {
	return turnKey{half: s.Half, round: s.Round, team: s.CurrentTeamID}
}

// New returns a bot that searches its player-turn decisions. The policy
// answers the scripted states and die picks; the options configure every
// search, and the per-call budget caps each one unless the options pin an
// iteration count.
func New(engine rules.Engine, policy *scripted.Policy, options ...searcher.Option) *Bot {
	adapter := searcher.NewAdapter(engine, policy)
	return &Bot{
		engine:  engine,
		policy:  policy,
		adapter: adapter,
		planner: &searchPlanner{adapter: adapter, options: options},
	}
}

// NewBaseline returns the scripted opponent: the same fixed tables plus a
// greedy carrier advance instead of a search.
func NewBaseline(engine rules.Engine, policy *scripted.Policy) *Bot {
	return &Bot{
		engine:  engine,
		policy:  policy,
		adapter: searcher.NewAdapter(engine, policy),
		planner: &baselinePlanner{},
	}
}

// ChooseAction answers the pending decision. budget caps search time on
// decisions that search; scripted answers ignore it. Terminal and chance
// states are not the bot's to answer and come back as an
// UnsupportedDecisionError.
func (b *Bot) ChooseAction(s *game.State, budget time.Duration) (game.Action, error) {
	b.metric = metrics.SearchMetric{}
	switch kind := game.Classify(s); kind {
	case game.KindScripted, game.KindBlockDice:
		return b.policy.Action(s, b.engine.AvailableActions(s))
	case game.KindPlayerTurn:
		return b.playerTurn(s, budget)
	default:
		return game.Action{}, &game.UnsupportedDecisionError{
			Procedure: s.Procedure,
			Kind:      kind,
		}
	}
}

// LastMetric reports the search diagnostics of the most recent call. Calls
// that answered without searching leave it zero.
func (b *Bot) LastMetric() metrics.SearchMetric { return b.metric }

func (b *Bot) playerTurn(s *game.State, budget time.Duration) (game.Action, error) {
	legal := b.adapter.LegalActions(s)
	if len(legal) == 0 {
		return game.Action{}, searcher.ErrNoLegalActions
	}
	if next, ok := b.replay(s, legal); ok {
		return next, nil
	}
	if len(legal) == 1 {
		return legal[0], nil
	}

	plan, metric, err := b.planner.Plan(s, legal, budget)
	b.metric = metric
	if err != nil {
		return game.Action{}, err
	}
	if len(plan) == 0 {
		log.Warn().Stringer("procedure", s.Procedure).Msg("planner returned an empty plan, falling back to the first legal action")
		return legal[0], nil
	}
	b.queue = append(b.queue[:0], plan[1:]...)
	b.turn = keyOf(s)
	return plan[0], nil
}

// replay pops the plan queue while it stays valid: same turn, and the head
// still in the enumerated set. A miss flushes the whole queue, so a plan
// whose premise vanished is rebuilt rather than continued mid-sequence.
func (b *Bot) replay(s *game.State, legal []game.Action) (game.Action, bool) {
	if len(b.queue) == 0 {
		return game.Action{}, false
	}
	if keyOf(s) != b.turn {
		b.queue = b.queue[:0]
		return game.Action{}, false
	}
	head := b.queue[0]
	for _, a := range legal {
		if head.Equal(a) {
			b.queue = b.queue[1:]
			return head, true
		}
	}
	log.Debug().
		Stringer("action", head).
		Stringer("procedure", s.Procedure).
		Msg("queued action no longer offered, replanning")
	b.queue = b.queue[:0]
	return game.Action{}, false
}

// searchPlanner answers with one searched action per decision and queues
// nothing. Search trees are per call, so nothing leaks between decisions.
type searchPlanner struct {
	adapter *searcher.Adapter
	options []searcher.Option
}

func (p *searchPlanner) Plan(s *game.State, legal []game.Action, budget time.Duration) ([]game.Action, metrics.SearchMetric, error) {
	options := make([]searcher.Option, 0, len(p.options)+1)
	options = append(options, p.options...)
	if budget > 0 {
		options = append(options, searcher.WithDuration(budget))
	}
	m := searcher.NewMCTS(p.adapter, options...)
	action, metric, err := m.Search(s)
	if err != nil {
		return nil, metric, err
	}
	return []game.Action{action}, metric, nil
}
