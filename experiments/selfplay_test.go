package experiments

import (
	"os"
	"path/filepath"
	"testing"

	"gridiron/bot"
	"gridiron/experiments/metrics"
	"gridiron/rules"
	"gridiron/scripted"

	"github.com/stretchr/testify/require"
)

func baselineAgent(id int) Agent {
	return Agent{
		Config: metrics.AgentConfig{ID: id, Name: "baseline", Evaluator: "none"},
		Bot:    bot.NewBaseline(rules.NewLocalEngine(), scripted.NewPolicy()),
	}
}

// chdirTemp parks the test in a scratch directory so the writer's relative
// output lands there.
func chdirTemp(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err, "The working directory is readable")
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir), "The test moves into its scratch directory")
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(wd), "The test returns to the package directory")
	})
	return dir
}

func TestPlayGameFinishes(t *testing.T) {
	engine := rules.NewLocalEngine()
	gm, moves, err := playGame(engine, baselineAgent(1), baselineAgent(2), 11)
	require.NoError(t, err, "Two baselines finish a whole game")
	require.Contains(t, []string{"home", "away", "draw"}, gm.Winner, "The result names a side or a draw")
	require.Equal(t, len(moves), gm.TotalMoves, "Every recorded move counts")
	require.NotEmpty(t, moves, "A game has decisions to record")
	require.False(t, gm.EndTime.Before(gm.StartTime), "The clock runs forward")

	for i, mm := range moves {
		require.Equal(t, i+1, mm.Step, "Steps number the moves in order")
		require.Contains(t, []int{1, 2}, mm.TeamID, "Every move belongs to a seat")
		require.NotEmpty(t, mm.Action, "The move names its action")
	}
}

func TestPlayGameSeedsReplay(t *testing.T) {
	engine := rules.NewLocalEngine()
	first, firstMoves, err := playGame(engine, baselineAgent(1), baselineAgent(2), 29)
	require.NoError(t, err, "The first run finishes")
	second, secondMoves, err := playGame(engine, baselineAgent(1), baselineAgent(2), 29)
	require.NoError(t, err, "The second run finishes")

	require.Equal(t, first.Winner, second.Winner, "Equal seeds replay the result")
	require.Equal(t, first.HomeScore, second.HomeScore, "Equal seeds replay the score")
	require.Equal(t, first.AwayScore, second.AwayScore, "Equal seeds replay the score")
	require.Equal(t, len(firstMoves), len(secondMoves), "Equal seeds replay the move count")
	for i := range firstMoves {
		require.Equal(t, firstMoves[i].Action, secondMoves[i].Action, "Equal seeds replay every action")
	}
}

func TestRunWritesRecords(t *testing.T) {
	chdirTemp(t)

	err := Run("smoke", baselineAgent(1), baselineAgent(2), 1, 7)
	require.NoError(t, err, "A one-game series runs end to end")

	dirs, err := filepath.Glob(filepath.Join("experiments", "smoke", "*"))
	require.NoError(t, err, "The output directory is listable")
	require.Len(t, dirs, 1, "One run makes one timestamped directory")

	for _, file := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
		info, err := os.Stat(filepath.Join(dirs[0], file))
		require.NoError(t, err, "Each record file exists")
		require.Positive(t, info.Size(), "Each record file has content")
	}
}

func TestRunRejectsEmptySeries(t *testing.T) {
	err := Run("empty", baselineAgent(1), baselineAgent(2), 0, 1)
	require.Error(t, err, "Zero games is a misconfiguration")
}
