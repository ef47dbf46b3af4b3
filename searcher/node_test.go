package searcher

import (
	"math"
	"testing"

	"gridiron/game"

	"github.com/stretchr/testify/require"
)

func TestUCB1(t *testing.T) {
	require.True(t, math.IsInf(ucb1(0, 0, 1.0), 1), "Unvisited children outrank everything")
	require.InDelta(t, 0.5+math.Sqrt(2.0/4.0), ucb1(2, 4, 2.0), 1e-12,
		"The score is the mean plus the exploration bonus")
	require.Greater(t, ucb1(3, 4, 2.0), ucb1(2, 4, 2.0), "At equal visits the better mean wins")
	require.Greater(t, ucb1(2, 4, 2.0), ucb1(4, 8, 2.0), "At equal means the rarer child wins")
}

func TestPickChildSkipsEndTurn(t *testing.T) {
	endTurn := game.Action{Type: game.ActEndTurn}
	move := game.Action{Type: game.ActStartMove, PlayerID: 11}

	tr := newTree()
	ri := tr.add(node{
		kind:    nodeDecision,
		parent:  noChild,
		side:    0,
		actions: []game.Action{endTurn, move},
		visits:  10,
	})
	// The end turn child leads, by the numbers.
	ei := tr.add(node{kind: nodeTerminal, parent: ri, visits: 5, rewards: [2]float64{5, -5}})
	mi := tr.add(node{kind: nodeDecision, parent: ri, visits: 4, rewards: [2]float64{1.2, -1.2}})
	tr.nodes[ri].children = []int{ei, mi}

	pick := tr.pickChild(ri, math.Sqrt2)
	require.Equal(t, 1, pick, "Ending the turn is not re-explored while a sibling exists")

	t.Run("the only child is never skipped", func(t *testing.T) {
		tr := newTree()
		ri := tr.add(node{
			kind:    nodeDecision,
			parent:  noChild,
			side:    0,
			actions: []game.Action{endTurn},
			visits:  3,
		})
		ei := tr.add(node{kind: nodeTerminal, parent: ri, visits: 3, rewards: [2]float64{1, -1}})
		tr.nodes[ri].children = []int{ei}

		require.Equal(t, 0, tr.pickChild(ri, math.Sqrt2), "A forced end turn stays pickable")
	})
}

func TestBestActionTieBreaks(t *testing.T) {
	a := game.Action{Type: game.ActStartMove, PlayerID: 11}
	b := game.Action{Type: game.ActStartMove, PlayerID: 12}
	c := game.Action{Type: game.ActEndTurn}

	tr := newTree()
	ri := tr.add(node{
		kind:    nodeDecision,
		parent:  noChild,
		side:    0,
		actions: []game.Action{a, b, c},
		visits:  22,
	})
	ai := tr.add(node{kind: nodeDecision, parent: ri, visits: 10, rewards: [2]float64{5, -5}})
	bi := tr.add(node{kind: nodeDecision, parent: ri, visits: 10, rewards: [2]float64{7, -7}})
	ci := tr.add(node{kind: nodeTerminal, parent: ri, visits: 2, rewards: [2]float64{1.8, -1.8}})
	tr.nodes[ri].children = []int{ai, bi, ci}

	best, ok := tr.bestAction()
	require.True(t, ok, "An expanded root has a best action")
	require.Equal(t, b, best, "Visit ties break by the mover's mean reward")

	t.Run("full ties keep the enumeration order", func(t *testing.T) {
		tr := newTree()
		ri := tr.add(node{
			kind:    nodeDecision,
			parent:  noChild,
			side:    0,
			actions: []game.Action{a, b},
			visits:  20,
		})
		ai := tr.add(node{kind: nodeDecision, parent: ri, visits: 10, rewards: [2]float64{5, -5}})
		bi := tr.add(node{kind: nodeDecision, parent: ri, visits: 10, rewards: [2]float64{5, -5}})
		tr.nodes[ri].children = []int{ai, bi}

		best, ok := tr.bestAction()
		require.True(t, ok, "An expanded root has a best action")
		require.Equal(t, a, best, "Full ties keep the first enumerated action")
	})

	t.Run("an unexpanded root has no best action", func(t *testing.T) {
		tr := newTree()
		tr.add(node{kind: nodeDecision, parent: noChild, actions: []game.Action{a}})

		_, ok := tr.bestAction()
		require.False(t, ok, "No iterations means no answer")
	})
}
