package eval

import "gridiron/game"

// maxFieldDistance normalizes distance terms. Nothing on the board is ever
// this far from anything else.
const maxFieldDistance = float64(game.PitchWidth + game.PitchHeight)

// Heuristic scores a state from hand-tuned positional terms: the carrier's
// distance to the endzone dominates, with small shaping for support around
// the carrier, marking of an opposing carrier, and proximity to a loose
// ball. A touchdown scores 1 for the scorer; a finished game scores by the
// final score line.
type Heuristic struct{}

func (Heuristic) Evaluate(s *game.State) (float64, float64, error) {
	if s.GameOver {
		home, away := finalScore(s)
		return home, away, nil
	}
	if s.Procedure == game.ProcTouchdown {
		scorer := s.CurrentTeamID
		if team, err := s.TeamOf(s.ActivePlayerID); err == nil {
			scorer = team.ID
		}
		home, away := oriented(s, scorer, 1)
		return home, away, nil
	}

	team := s.CurrentTeam()
	if team == nil || len(s.OnPitch(team.ID)) == 0 {
		return 0, 0, nil
	}
	ballSq, ok := s.BallPosition()
	if !ok {
		// Mid-kick states have no ball on the board. Neutral.
		return 0, 0, nil
	}

	var v float64
	carrier := s.BallCarrier()
	switch {
	case carrier == nil:
		v = looseBallScore(s, team.ID, ballSq)
	case carriedBy(s, carrier, team.ID):
		v = offensiveScore(s, team.ID, carrier)
	default:
		v = defensiveScore(s, team.ID, carrier)
	}
	home, away := oriented(s, team.ID, clamp(v))
	return home, away, nil
}

// offensiveScore rates the carrying team. The carrier term peaks at 0.985 on
// the endzone and loses 0.03 per column; teammates add up to 0.01 averaged
// support, best at three to five squares out.
func offensiveScore(s *game.State, teamID int, carrier *game.Player) float64 {
	carrierSq := *carrier.Position
	score := 0.985 - 0.03*float64(abs(carrierSq.X-s.TargetX(teamID)))

	support := 0.0
	teammates := 0
	for _, p := range s.OnPitch(teamID) {
		if p.ID == carrier.ID {
			continue
		}
		d := float64(p.Position.Distance(carrierSq))
		if d <= 5 {
			support += 0.1 * (1 - d/5)
		} else {
			support += 0.05 * (1 - d/maxFieldDistance)
		}
		teammates++
	}
	if teammates > 0 {
		score += support / float64(teammates) * 0.01
	}
	return score
}

// defensiveScore rates the team facing an opposing carrier: heavily negative
// as the carrier nears the defended endzone, softened a little by how
// closely the defenders mark.
func defensiveScore(s *game.State, teamID int, carrier *game.Player) float64 {
	carrierSq := *carrier.Position
	ownEndzone := s.TargetX(s.Opponent(teamID).ID)
	score := -(0.99 - 0.03*float64(abs(carrierSq.X-ownEndzone)))

	marking := 0.0
	players := s.OnPitch(teamID)
	for _, p := range players {
		d := float64(p.Position.Distance(carrierSq))
		marking += 0.4 * (1 - d/maxFieldDistance)
	}
	return score + marking/float64(len(players))*0.1
}

// looseBallScore rewards the team whose players crowd a ball on the ground.
func looseBallScore(s *game.State, teamID int, ballSq game.Square) float64 {
	total := 0.0
	players := s.OnPitch(teamID)
	for _, p := range players {
		d := float64(p.Position.Distance(ballSq))
		total += 0.3 * (1 - d/maxFieldDistance)
	}
	return total / float64(len(players))
}

// finalScore maps a finished game to full-value results by the score line.
func finalScore(s *game.State) (float64, float64) {
	var home, away int
	if s.HomeTeam != nil {
		home = s.HomeTeam.Score
	}
	if s.AwayTeam != nil {
		away = s.AwayTeam.Score
	}
	switch {
	case home > away:
		return 1, -1
	case away > home:
		return -1, 1
	default:
		return 0, 0
	}
}

// oriented maps a value from teamID's perspective onto the (home, away)
// pair. The position is zero sum between the benches.
func oriented(s *game.State, teamID int, v float64) (float64, float64) {
	if s.IsHome(teamID) {
		return v, -v
	}
	return -v, v
}

func carriedBy(s *game.State, carrier *game.Player, teamID int) bool {
	team, err := s.TeamOf(carrier.ID)
	return err == nil && team.ID == teamID
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
