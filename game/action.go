package game

import "fmt"

// Action is one concrete move a side can submit: an action type plus the
// player and square it applies to, either of which may be unset.
type Action struct {
	Type     ActionType
	PlayerID int // 0 = no player
	Position *Square
}

// ActionChoice is the engine's compact form of the legal actions: one entry
// per action type, with the player ids and squares it can be combined with.
type ActionChoice struct {
	Type      ActionType
	Players   []int
	Positions []Square
}

// Equal reports structural equality, comparing positions by value.
func (a Action) Equal(b Action) bool {
	if a.Type != b.Type || a.PlayerID != b.PlayerID {
		return false
	}
	if (a.Position == nil) != (b.Position == nil) {
		return false
	}
	return a.Position == nil || *a.Position == *b.Position
}

// Less orders actions by type, then player id, then position in scan order.
// Enumeration output is sorted with it so equal states always list their
// actions identically.
func (a Action) Less(b Action) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.PlayerID != b.PlayerID {
		return a.PlayerID < b.PlayerID
	}
	ax, ay := positionKey(a.Position)
	bx, by := positionKey(b.Position)
	if ay != by {
		return ay < by
	}
	return ax < bx
}

func positionKey(sq *Square) (int, int) {
	if sq == nil {
		return -1, -1
	}
	return sq.X, sq.Y
}

func (a Action) String() string {
	switch {
	case a.PlayerID != 0 && a.Position != nil:
		return fmt.Sprintf("%s player=%d to=(%d,%d)", a.Type, a.PlayerID, a.Position.X, a.Position.Y)
	case a.PlayerID != 0:
		return fmt.Sprintf("%s player=%d", a.Type, a.PlayerID)
	case a.Position != nil:
		return fmt.Sprintf("%s to=(%d,%d)", a.Type, a.Position.X, a.Position.Y)
	default:
		return a.Type.String()
	}
}

// Expand flattens a choice list into concrete actions, preserving choice
// order and combining each type with its players and positions the way the
// choice was built.
func Expand(choices []ActionChoice) []Action {
	var actions []Action
	for _, c := range choices {
		switch {
		case len(c.Players) == 0 && len(c.Positions) == 0:
			actions = append(actions, Action{Type: c.Type})
		case len(c.Players) > 0 && len(c.Positions) == 0:
			for _, id := range c.Players {
				actions = append(actions, Action{Type: c.Type, PlayerID: id})
			}
		case len(c.Players) == 0 && len(c.Positions) > 0:
			for i := range c.Positions {
				pos := c.Positions[i]
				actions = append(actions, Action{Type: c.Type, Position: &pos})
			}
		default:
			// Paired lists: players[i] goes with positions[i].
			for i, id := range c.Players {
				pos := c.Positions[i]
				actions = append(actions, Action{Type: c.Type, PlayerID: id, Position: &pos})
			}
		}
	}
	return actions
}
