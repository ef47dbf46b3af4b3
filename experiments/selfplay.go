// Package experiments runs self-play series between configured bots and
// writes the results as CSV for offline analysis.
package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"gridiron/bot"
	"gridiron/experiments/metrics"
	"gridiron/game"
	"gridiron/rules"
)

// Agent pairs a bot with the configuration row written next to its results.
// Config.Duration is the per-decision budget handed to the bot.
type Agent struct {
	Config metrics.AgentConfig
	Bot    *bot.Bot
}

// maxGameSteps caps the state transitions of one game so a drifting matchup
// cannot spin forever.
const maxGameSteps = 20000

// Run plays games between the home and away agents and writes the agent,
// game and move records under the experiment's timestamped directory. Game
// seeds derive from seed, so a run replays exactly when the bots do.
func Run(name string, home, away Agent, games int, seed uint64) error {
	if games < 1 {
		return fmt.Errorf("run %s: need at least one game", name)
	}
	writer, err := metrics.NewWriter(name)
	if err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	if err := writer.WriteAgentConfigs([]metrics.AgentConfig{home.Config, away.Config}); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	log.Info().Str("experiment", name).Int("games", games).Str("dir", writer.BaseDir()).Msg("starting self-play")

	engine := rules.NewLocalEngine()
	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	for i := 0; i < games; i++ {
		id := i + 1
		gm, moves, err := playGame(engine, home, away, seed+uint64(i))
		if err != nil {
			return fmt.Errorf("run %s game %d: %w", name, id, err)
		}
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         id,
			Agent1:     home.Config.ID,
			Agent2:     away.Config.ID,
			GameMetric: gm,
		})
		for _, mm := range moves {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: id, MoveMetric: mm})
		}
		log.Info().
			Int("game", id).
			Int("of", games).
			Str("winner", gm.Winner).
			Int("home", gm.HomeScore).
			Int("away", gm.AwayScore).
			Int("moves", gm.TotalMoves).
			Msg("game finished")
	}

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	log.Info().Str("experiment", name).Str("dir", writer.BaseDir()).Msg("records stored")
	return nil
}

// playGame drives one full game: the seats answer the decisions, the
// engine's distributions are sampled for the dice, and turn boundaries roll
// forward. Home always plays team 1.
func playGame(engine *rules.LocalEngine, home, away Agent, seed uint64) (metrics.GameMetric, []metrics.MoveMetric, error) {
	seats := map[int]*Agent{1: &home, 2: &away}
	s := rules.NewGame(rules.DefaultTeam(1), rules.DefaultTeam(2))
	rng := rand.New(rand.NewSource(seed))
	start := time.Now()

	var moves []metrics.MoveMetric
	for steps := 0; !s.GameOver; steps++ {
		if steps >= maxGameSteps {
			return metrics.GameMetric{}, nil, fmt.Errorf("no result after %d steps", maxGameSteps)
		}
		switch game.Classify(s) {
		case game.KindTerminal:
			if !game.TurnBoundary(s) {
				return metrics.GameMetric{}, nil, fmt.Errorf("stuck at %s", s.Procedure)
			}
			next, err := engine.Continue(s)
			if err != nil {
				return metrics.GameMetric{}, nil, err
			}
			s = next
		case game.KindChance:
			outcomes, err := engine.Outcomes(s)
			if err != nil {
				return metrics.GameMetric{}, nil, err
			}
			if len(outcomes) == 0 {
				return metrics.GameMetric{}, nil, fmt.Errorf("no outcomes at %s", s.Procedure)
			}
			s = sample(rng, outcomes)
		default:
			seat, ok := seats[s.CurrentTeamID]
			if !ok {
				return metrics.GameMetric{}, nil, fmt.Errorf("no seat for team %d", s.CurrentTeamID)
			}
			action, err := seat.Bot.ChooseAction(s, seat.Config.Duration)
			if err != nil {
				return metrics.GameMetric{}, nil, err
			}
			moves = append(moves, metrics.MoveMetric{
				Step:         len(moves) + 1,
				TeamID:       s.CurrentTeamID,
				Action:       action.String(),
				SearchMetric: seat.Bot.LastMetric(),
			})
			next, err := engine.Apply(s, action)
			if err != nil {
				return metrics.GameMetric{}, nil, err
			}
			s = next
		}
	}

	end := time.Now()
	gm := metrics.GameMetric{
		HomeScore:  s.HomeTeam.Score,
		AwayScore:  s.AwayTeam.Score,
		Winner:     winnerOf(s),
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
		TotalMoves: len(moves),
	}
	return gm, moves, nil
}

func winnerOf(s *game.State) string {
	switch {
	case s.HomeTeam.Score > s.AwayTeam.Score:
		return "home"
	case s.AwayTeam.Score > s.HomeTeam.Score:
		return "away"
	default:
		return "draw"
	}
}

func sample(rng *rand.Rand, outcomes []rules.Outcome) *game.State {
	roll := rng.Float64()
	acc := 0.0
	for _, o := range outcomes {
		acc += o.Probability
		if roll < acc {
			return o.State
		}
	}
	return outcomes[len(outcomes)-1].State
}
