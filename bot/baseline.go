package bot

import (
	"time"

	"gridiron/experiments/metrics"
	"gridiron/game"
)

// baselinePlanner is the greedy carrier advance. With the ball it runs the
// carrier straight at the endzone; without it the closest fresh player
// chases the ball. Plans stay inside the movement allowance, so a baseline
// turn never rolls a go-for-it.
type baselinePlanner struct{}

func (p *baselinePlanner) Plan(s *game.State, legal []game.Action, budget time.Duration) ([]game.Action, metrics.SearchMetric, error) {
	var none metrics.SearchMetric
	switch s.Procedure {
	case game.ProcTurn:
		return p.activation(s, legal), none, nil
	case game.ProcMoveAction:
		return p.continuation(s, legal), none, nil
	default:
		return []game.Action{closeOut(legal)}, none, nil
	}
}

// activation picks the player to move this activation and plans their whole
// path up front. The replay check prunes the plan if the board disagrees by
// the time a step comes up.
func (p *baselinePlanner) activation(s *game.State, legal []game.Action) []game.Action {
	mover, target, ok := pickMover(s)
	if !ok {
		return []game.Action{closeOut(legal)}
	}
	start, ok := offered(legal, game.Action{Type: game.ActStartMove, PlayerID: mover.ID})
	if !ok {
		return []game.Action{closeOut(legal)}
	}
	plan := []game.Action{start}
	plan = append(plan, advance(s, mover, *mover.Position, target)...)
	plan = append(plan, game.Action{Type: game.ActEndPlayerTurn, PlayerID: mover.ID})
	return plan
}

// continuation resumes a move action already in progress, usually after a
// stale plan was flushed mid-path.
func (p *baselinePlanner) continuation(s *game.State, legal []game.Action) []game.Action {
	mover, err := s.ActivePlayer()
	if err != nil {
		return []game.Action{closeOut(legal)}
	}
	done := game.Action{Type: game.ActEndPlayerTurn, PlayerID: mover.ID}
	if !mover.State.Up {
		if up, ok := offered(legal, game.Action{Type: game.ActStandUp, PlayerID: mover.ID}); ok {
			return []game.Action{up}
		}
		return []game.Action{done}
	}
	target, ok := targetOf(s, mover)
	if !ok {
		return []game.Action{done}
	}
	plan := advance(s, mover, *mover.Position, target)
	return append(plan, done)
}

// pickMover returns the player to activate and the square they run for.
func pickMover(s *game.State) (*game.Player, game.Square, bool) {
	team := s.CurrentTeam()
	if team == nil {
		return nil, game.Square{}, false
	}
	ball, onBoard := s.BallPosition()
	if !onBoard {
		return nil, game.Square{}, false
	}
	if carrier := s.BallCarrier(); carrier != nil {
		if owner, err := s.TeamOf(carrier.ID); err == nil && owner.ID == team.ID {
			if carrier.State.Used || !carrier.Standing() {
				return nil, game.Square{}, false
			}
			return carrier, game.Sq(s.TargetX(team.ID), carrier.Position.Y), true
		}
	}
	// Ball loose or held by the other side: send the closest fresh player.
	var chaser *game.Player
	best := 0
	for _, pl := range s.OnPitch(team.ID) {
		if pl.State.Used || !pl.Standing() {
			continue
		}
		if d := pl.Position.Distance(ball); chaser == nil || d < best {
			chaser, best = pl, d
		}
	}
	if chaser == nil {
		return nil, game.Square{}, false
	}
	return chaser, ball, true
}

// targetOf rederives the mover's destination mid-action.
func targetOf(s *game.State, mover *game.Player) (game.Square, bool) {
	ball, onBoard := s.BallPosition()
	if !onBoard {
		return game.Square{}, false
	}
	if carrier := s.BallCarrier(); carrier != nil && carrier.ID == mover.ID {
		if team, err := s.TeamOf(mover.ID); err == nil {
			return game.Sq(s.TargetX(team.ID), mover.Position.Y), true
		}
	}
	return ball, true
}

// advance plans single-square steps from sq toward target against the
// plan-time board: free squares only, unmarked ones preferred, never past
// the movement allowance.
func advance(s *game.State, mover *game.Player, from game.Square, target game.Square) []game.Action {
	team, err := s.TeamOf(mover.ID)
	if err != nil {
		return nil
	}
	allowance := mover.Movement() - mover.State.Moves
	var steps []game.Action
	at := from
	for i := 0; i < allowance && at != target; i++ {
		next, ok := nextStep(s, team.ID, at, target)
		if !ok {
			break
		}
		sq := next
		steps = append(steps, game.Action{Type: game.ActMove, Position: &sq})
		at = next
	}
	return steps
}

// nextStep picks the step toward target: the straight approach first, then
// the two sidesteps. Of the free candidates an unmarked one wins.
func nextStep(s *game.State, teamID int, from, target game.Square) (game.Square, bool) {
	dx := sign(target.X - from.X)
	dy := sign(target.Y - from.Y)
	var deltas [][2]int
	switch {
	case dx == 0 && dy == 0:
		return game.Square{}, false
	case dx == 0:
		deltas = [][2]int{{0, dy}, {1, dy}, {-1, dy}}
	case dy == 0:
		deltas = [][2]int{{dx, 0}, {dx, 1}, {dx, -1}}
	default:
		deltas = [][2]int{{dx, dy}, {dx, 0}, {0, dy}}
	}
	var free []game.Square
	for _, d := range deltas {
		sq := game.Sq(from.X+d[0], from.Y+d[1])
		if sq.OutOfBounds() || s.PlayerAt(sq) != nil {
			continue
		}
		free = append(free, sq)
	}
	for _, sq := range free {
		if s.TackleZonesAt(teamID, sq) == 0 {
			return sq, true
		}
	}
	if len(free) > 0 {
		return free[0], true
	}
	return game.Square{}, false
}

// offered returns the matching enumerated action, so plans only ever carry
// actions the engine listed at plan time.
func offered(legal []game.Action, want game.Action) (game.Action, bool) {
	for _, a := range legal {
		if a.Equal(want) {
			return a, true
		}
	}
	return game.Action{}, false
}

// closeOut ends the activation or the turn, whichever the state offers.
func closeOut(legal []game.Action) game.Action {
	for _, a := range legal {
		if a.Type == game.ActEndPlayerTurn || a.Type == game.ActEndTurn {
			return a
		}
	}
	return legal[0]
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
