package eval

import (
	"testing"

	"gridiron/game"

	"github.com/stretchr/testify/require"
)

// layerIndex addresses one cell of the flattened (layer, x, y) tensor.
func layerIndex(layer, x, y int) int {
	return layer*game.PitchWidth*game.PitchHeight + x*game.PitchHeight + y
}

func TestSpatialFeatures(t *testing.T) {
	blocker := pitchPlayer(11, 5, 8, game.SkillBlock, game.SkillSureHands)
	opponent := pitchPlayer(21, 20, 4)
	opponent.State.Used = true
	s := matchState([]*game.Player{blocker}, []*game.Player{opponent})
	carryBall(s, blocker)

	data := SpatialFeatures(s)
	require.Len(t, data, SpatialSize, "The tensor should cover all 27 pitch planes")

	t.Run("ball plane marks the carried square", func(t *testing.T) {
		require.Equal(t, float32(1), data[layerIndex(0, 5, 8)], "The ball should light its square on layer 0")
	})

	t.Run("home planes carry attributes and skills", func(t *testing.T) {
		require.Equal(t, float32(1), data[layerIndex(1, 5, 8)], "Occupancy should be set")
		require.Equal(t, float32(6), data[layerIndex(2, 5, 8)], "Movement should be the raw attribute")
		require.Equal(t, float32(3), data[layerIndex(3, 5, 8)], "Strength should be the raw attribute")
		require.Equal(t, float32(3), data[layerIndex(4, 5, 8)], "Agility should be the raw attribute")
		require.Equal(t, float32(8), data[layerIndex(5, 5, 8)], "Armour should be the raw attribute")
		require.Equal(t, float32(1), data[layerIndex(6, 5, 8)], "A standing player reads as up")
		require.Equal(t, float32(0), data[layerIndex(7, 5, 8)], "An unused player leaves the used plane clear")
		require.Equal(t, float32(1), data[layerIndex(9, 5, 8)], "Block should sit on its skill plane")
		require.Equal(t, float32(0), data[layerIndex(10, 5, 8)], "Dodge is not held")
		require.Equal(t, float32(1), data[layerIndex(11, 5, 8)], "Sure Hands should sit on its skill plane")
	})

	t.Run("away planes start at the second block", func(t *testing.T) {
		require.Equal(t, float32(1), data[layerIndex(14, 20, 4)], "Away occupancy lives on layer 14")
		require.Equal(t, float32(1), data[layerIndex(19, 20, 4)], "The opponent stands")
		require.Equal(t, float32(1), data[layerIndex(20, 20, 4)], "The opponent has acted this turn")
		require.Equal(t, float32(0), data[layerIndex(1, 20, 4)], "Home planes stay clear of away players")
	})

	t.Run("a prone player clears the up plane", func(t *testing.T) {
		opponent.State.Up = false
		data := SpatialFeatures(s)
		require.Equal(t, float32(0), data[layerIndex(19, 20, 4)], "Prone should read as zero")
		require.Equal(t, float32(1), data[layerIndex(14, 20, 4)], "Occupancy does not depend on posture")
	})
}

func TestNonSpatialFeatures(t *testing.T) {
	s := matchState(
		[]*game.Player{pitchPlayer(11, 5, 8)},
		[]*game.Player{pitchPlayer(21, 20, 4)},
	)
	s.Half = 2
	s.Round = 5
	s.HomeTeam.Rerolls = 2
	s.HomeTeam.Score = 1
	s.AwayTeam.Rerolls = 0
	s.AwayTeam.Score = 2
	s.Weather = game.WeatherBlizzard
	s.TurnState = &game.TurnState{BlitzAvailable: true, HandoffAvailable: true}

	want := []float32{2, 5, 2, 1, 0, 2, 1, 0, 1, 0, 0, 0, 0, 1, 0}
	require.Equal(t, want, NonSpatialFeatures(s), "The vector should read clock, counters, availabilities and weather in order")

	t.Run("missing turn state zeroes the availabilities", func(t *testing.T) {
		s.TurnState = nil
		want := []float32{2, 5, 2, 1, 0, 2, 0, 0, 0, 0, 0, 0, 0, 1, 0}
		require.Equal(t, want, NonSpatialFeatures(s), "Outside a turn the special actions should read as unavailable")
	})
}
