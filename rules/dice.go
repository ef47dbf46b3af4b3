package rules

import "gridiron/game"

// A block die has six faces: attacker down, both down, push (twice), defender
// stumbles, defender down.
var blockFaceWeights = map[game.ActionType]int{
	game.ActSelectAttackerDown:     1,
	game.ActSelectBothDown:         1,
	game.ActSelectPush:             2,
	game.ActSelectDefenderStumbles: 1,
	game.ActSelectDefenderDown:     1,
}

// DicePreference ranks block die faces from most to least wanted. Primary is
// the everyday order; WithBlock applies when the chooser's own blocker has
// the Block skill, which turns both-down from a trade into a free hit.
type DicePreference struct {
	Primary   []game.ActionType
	WithBlock []game.ActionType
}

// AttackerFavor is the order for the side that threw the block.
func AttackerFavor() DicePreference {
	return DicePreference{
		Primary: []game.ActionType{
			game.ActSelectDefenderDown,
			game.ActSelectDefenderStumbles,
			game.ActSelectPush,
			game.ActSelectBothDown,
			game.ActSelectAttackerDown,
		},
		WithBlock: []game.ActionType{
			game.ActSelectDefenderDown,
			game.ActSelectDefenderStumbles,
			game.ActSelectBothDown,
			game.ActSelectPush,
			game.ActSelectAttackerDown,
		},
	}
}

// DefenderFavor is the order for the side being blocked, used when the
// attacker is the weaker player and the defence picks the die.
func DefenderFavor() DicePreference {
	order := []game.ActionType{
		game.ActSelectAttackerDown,
		game.ActSelectBothDown,
		game.ActSelectPush,
		game.ActSelectDefenderStumbles,
		game.ActSelectDefenderDown,
	}
	return DicePreference{Primary: order, WithBlock: order}
}

func (p DicePreference) order(hasBlock bool) []game.ActionType {
	if hasBlock && len(p.WithBlock) > 0 {
		return p.WithBlock
	}
	return p.Primary
}

// Pick returns the most preferred face among the rolled ones.
func (p DicePreference) Pick(faces []game.ActionType, hasBlock bool) game.ActionType {
	for _, want := range p.order(hasBlock) {
		for _, face := range faces {
			if face == want {
				return face
			}
		}
	}
	if len(faces) > 0 {
		return faces[0]
	}
	return game.ActNone
}

// Distribution returns, for each face, the probability that Pick selects it
// from n freshly rolled dice. For a preference order o1 > o2 > ... the pick
// is oi exactly when every die lands in {oi, ..., o5} and at least one lands
// on oi.
func (p DicePreference) Distribution(n int, hasBlock bool) map[game.ActionType]float64 {
	order := p.order(hasBlock)
	dist := make(map[game.ActionType]float64, len(order))

	remaining := 0
	for _, face := range order {
		remaining += blockFaceWeights[face]
	}
	total := pow(6, n)
	for _, face := range order {
		with := pow(remaining, n)
		without := pow(remaining-blockFaceWeights[face], n)
		dist[face] = float64(with-without) / float64(total)
		remaining -= blockFaceWeights[face]
	}
	return dist
}

// blockDice returns how many block dice are rolled and whether the attacking
// side picks the result. Equal strength rolls one die; a stronger side rolls
// two, or three at double strength, and the stronger side always chooses.
func blockDice(attacker, defender *game.Player) (n int, attackerChooses bool) {
	att, def := attacker.Strength(), defender.Strength()
	switch {
	case att == def:
		return 1, true
	case att > def:
		if att >= 2*def {
			return 3, true
		}
		return 2, true
	default:
		if def >= 2*att {
			return 3, false
		}
		return 2, false
	}
}

// twoDiceOver returns the probability that 2d6 exceeds the target.
func twoDiceOver(target int) float64 {
	count := 0
	for i := 1; i <= 6; i++ {
		for j := 1; j <= 6; j++ {
			if i+j > target {
				count++
			}
		}
	}
	return float64(count) / 36
}

func pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
