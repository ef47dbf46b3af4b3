package rules

import (
	"gridiron/game"
)

// beginPush opens the push chain for the blocked defender. knockOut marks
// whether the defender leaves the pitch once the chain resolves.
func beginPush(s *game.State, knockOut bool) {
	ctx := s.BlockContext
	ctx.KnockOut = knockOut
	ctx.PushChain = []game.PushLink{{Attacker: ctx.Attacker, Defender: ctx.Defender}}
	s.Procedure = game.ProcPush
}

// pushSquares returns the squares a defender can be shoved to: the neighbours
// directly away from the pusher. For a straight shove that is the far rank
// (two king moves from the pusher); for a diagonal one, the three squares
// three street moves away.
func pushSquares(pusher, defender game.Square) []game.Square {
	straight := pusher.X == defender.X || pusher.Y == defender.Y
	var squares []game.Square
	for _, sq := range defender.AdjacentSquares() {
		if straight {
			if pusher.Distance(sq) >= 2 {
				squares = append(squares, sq)
			}
		} else if pusher.ManhattanDistance(sq) >= 3 {
			squares = append(squares, sq)
		}
	}
	return squares
}

// discoverPush lists the targets of the pending link. Free squares beat the
// crowd, the crowd beats chaining into an occupied square.
func discoverPush(s *game.State) []game.ActionChoice {
	ctx := s.BlockContext
	if ctx == nil || len(ctx.PushChain) == 0 {
		return nil
	}
	link := ctx.PushChain[len(ctx.PushChain)-1]
	pusher, err := s.PlayerByID(link.Attacker)
	if err != nil {
		return nil
	}
	defender, err := s.PlayerByID(link.Defender)
	if err != nil {
		return nil
	}

	var free, crowd, occupied []game.Square
	for _, sq := range pushSquares(*pusher.Position, *defender.Position) {
		switch {
		case sq.OutOfBounds():
			crowd = append(crowd, sq)
		case s.PlayerAt(sq) == nil:
			free = append(free, sq)
		default:
			occupied = append(occupied, sq)
		}
	}

	targets := free
	if len(targets) == 0 {
		targets = crowd
	}
	if len(targets) == 0 {
		targets = occupied
	}
	sortSquares(targets)
	return []game.ActionChoice{{Type: game.ActPush, Positions: targets}}
}

// applyPush fixes the pending link's target. Shoving into an occupied square
// extends the chain; anything else resolves the whole chain.
func applyPush(s *game.State, a game.Action) error {
	ctx := s.BlockContext
	link := &ctx.PushChain[len(ctx.PushChain)-1]
	target := *a.Position
	link.To = &target

	if !target.OutOfBounds() {
		if occupant := s.PlayerAt(target); occupant != nil {
			ctx.PushChain = append(ctx.PushChain, game.PushLink{
				Attacker: link.Defender,
				Defender: occupant.ID,
			})
			return nil
		}
	}
	return resolvePushChain(s)
}

// resolvePushChain moves every pushed player, last link first, so each square
// is vacated before its occupant-to-be arrives. Crowd targets knock the
// player out with the ball dropping on the boundary square they left.
func resolvePushChain(s *game.State) error {
	ctx := s.BlockContext
	for i := len(ctx.PushChain) - 1; i >= 0; i-- {
		link := ctx.PushChain[i]
		d, err := s.PlayerByID(link.Defender)
		if err != nil {
			return err
		}
		from := *d.Position
		to := *link.To
		if to.OutOfBounds() {
			knockOut(s, d)
			continue
		}
		t := to
		d.Position = &t
		carryBallWith(s, from, to)
	}

	if ctx.KnockOut {
		d, err := s.PlayerByID(ctx.PushChain[0].Defender)
		if err != nil {
			return err
		}
		if d.Position != nil {
			knockOut(s, d)
		}
	}

	// A shove can carry someone over their own goal line.
	for _, link := range ctx.PushChain {
		d, err := s.PlayerByID(link.Defender)
		if err != nil {
			return err
		}
		if d.Position == nil || !d.Standing() || s.BallCarrier() != d {
			continue
		}
		team, err := s.TeamOf(d.ID)
		if err != nil {
			return err
		}
		if d.Position.X == s.TargetX(team.ID) {
			touchdown(s, d)
			return nil
		}
	}

	s.Procedure = game.ProcFollowUp
	return nil
}

// discoverFollowUp offers the attacker the vacated square or staying put.
func discoverFollowUp(s *game.State) []game.ActionChoice {
	ctx := s.BlockContext
	if ctx == nil {
		return nil
	}
	attacker, err := s.PlayerByID(ctx.Attacker)
	if err != nil || attacker.Position == nil {
		return nil
	}
	positions := []game.Square{*attacker.Position, ctx.Position}
	sortSquares(positions)
	return []game.ActionChoice{{Type: game.ActFollowUp, Positions: positions}}
}

func applyFollowUp(s *game.State, a game.Action) error {
	ctx := s.BlockContext
	attacker, err := s.PlayerByID(ctx.Attacker)
	if err != nil {
		return err
	}

	target := *a.Position
	if target != *attacker.Position {
		from := *attacker.Position
		t := target
		attacker.Position = &t
		carryBallWith(s, from, target)

		team, err := s.TeamOf(attacker.ID)
		if err != nil {
			return err
		}
		if s.BallCarrier() == attacker && target.X == s.TargetX(team.ID) {
			attacker.State.HasBlocked = true
			touchdown(s, attacker)
			return nil
		}
	}
	finishBlock(s, attacker)
	return nil
}
