package game

// DecisionKind buckets procedures by who resolves them: the acting team's
// search, a scripted table, a die-face pick, the dice themselves, or nobody.
type DecisionKind int

const (
	// KindPlayerTurn decisions are worth searching over.
	KindPlayerTurn DecisionKind = iota
	// KindScripted decisions are answered by fixed tables without search.
	KindScripted
	// KindBlockDice decisions pick one face of a thrown block roll.
	KindBlockDice
	// KindChance procedures resolve by dice, not by either side.
	KindChance
	// KindTerminal states accept no action: turn boundaries and game end.
	KindTerminal
)

var decisionKindNames = map[DecisionKind]string{
	KindPlayerTurn: "player-turn",
	KindScripted:   "scripted",
	KindBlockDice:  "block-dice",
	KindChance:     "chance",
	KindTerminal:   "terminal",
}

func (k DecisionKind) String() string {
	if name, ok := decisionKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Classify maps a state to the kind of decision it is waiting on.
func Classify(s *State) DecisionKind {
	if s.GameOver {
		return KindTerminal
	}
	switch s.Procedure {
	case ProcTurn, ProcMoveAction, ProcBlockAction, ProcBlitzAction,
		ProcPassAction, ProcHandoffAction, ProcFoulAction, ProcPush, ProcFollowUp:
		return KindPlayerTurn
	case ProcCoinTossFlip, ProcCoinTossKickReceive, ProcSetup, ProcPlaceBall,
		ProcTouchback, ProcHighKick, ProcInterception, ProcReroll, ProcEjection:
		return KindScripted
	case ProcBlock:
		return KindBlockDice
	case ProcBlockRoll, ProcGFI, ProcDodge, ProcKickoff, ProcPassAttempt,
		ProcCatch, ProcFoulRoll, ProcInterceptRoll:
		return KindChance
	default:
		return KindTerminal
	}
}

// TurnBoundary reports whether the state rests at the end of a team turn
// without the game itself being over.
func TurnBoundary(s *State) bool {
	if s.GameOver {
		return false
	}
	switch s.Procedure {
	case ProcEndTurn, ProcTurnover, ProcTouchdown:
		return true
	}
	return false
}
