package searcher

import (
	"math"

	"gridiron/game"
	"gridiron/rules"
)

type nodeKind uint8

const (
	nodeDecision nodeKind = iota
	nodeChance
	nodeTerminal
)

const noChild = -1

// node is one arena entry. All links are arena indices, so the tree is a
// flat slice with no pointer cycles.
//
// Decision nodes pair actions[i] with children[i]; children grows as actions
// are tried, so len(children) < len(actions) means untried actions remain.
// Chance nodes know their full outcome distribution up front and fill
// children lazily as the dice land on them.
type node struct {
	kind   nodeKind
	parent int
	state  *game.State
	side   int // reward index of the side to move at a decision node

	actions  []game.Action
	outcomes []rules.Outcome
	children []int

	visits  int
	rewards [2]float64

	valued bool // terminal nodes cache their evaluation
	value  [2]float64
}

type tree struct {
	nodes []node
}

func newTree() *tree {
	return &tree{nodes: make([]node, 0, 1024)}
}

// add appends a node and returns its handle. Appending may move the backing
// array, so callers must not hold node pointers across it.
func (t *tree) add(n node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// expandable reports whether the decision node still has untried actions.
func (n *node) expandable() bool {
	return len(n.children) < len(n.actions)
}

// mean is the node's average reward for one side.
func (n *node) mean(side int) float64 {
	if n.visits == 0 {
		return 0
	}
	return n.rewards[side] / float64(n.visits)
}

// rewardIndex maps the side to move to its slot in the reward pair.
func rewardIndex(s *game.State) int {
	if s.IsHome(s.CurrentTeamID) {
		return 0
	}
	return 1
}

// ucb1 scores a child from its parent's perspective: exploitation plus the
// exploration bonus sqrt(c^2 * ln(N) / n). Unvisited children outrank
// everything.
func ucb1(rewards float64, visits int, cSquaredLnN float64) float64 {
	if visits == 0 {
		return math.Inf(1)
	}
	return rewards/float64(visits) + math.Sqrt(cSquaredLnN/float64(visits))
}

// pickChild returns the index of the child to descend into from a fully
// expanded decision node. Ending the turn is never re-explored while a
// sibling exists; its first visit from expansion is all it gets.
func (t *tree) pickChild(idx int, c float64) int {
	n := &t.nodes[idx]
	if n.visits == 0 {
		panic("node has children but no visits")
	}
	cSquaredLnN := c * c * math.Log(float64(n.visits))

	best := -1
	bestScore := math.Inf(-1)
	for i, ci := range n.children {
		if len(n.children) > 1 && n.actions[i].Type == game.ActEndTurn {
			continue
		}
		child := &t.nodes[ci]
		score := ucb1(child.rewards[n.side], child.visits, cSquaredLnN)
		if score == math.Inf(1) {
			return i
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// bestAction extracts the root move: most visits, then mean reward for the
// side to move, then enumeration order.
func (t *tree) bestAction() (game.Action, bool) {
	root := &t.nodes[0]
	best := -1
	for i, ci := range root.children {
		if best == -1 {
			best = i
			continue
		}
		child := &t.nodes[ci]
		incumbent := &t.nodes[root.children[best]]
		if child.visits > incumbent.visits ||
			(child.visits == incumbent.visits && child.mean(root.side) > incumbent.mean(root.side)) {
			best = i
		}
	}
	if best == -1 {
		return game.Action{}, false
	}
	return root.actions[best], true
}
