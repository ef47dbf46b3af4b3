package eval

import "gridiron/game"

// Tensor geometry of the value network. The spatial input is laid out
// (layer, x, y): index = layer*(W*H) + x*H + y.
const (
	NumSpatialLayers = 27
	SpatialSize      = NumSpatialLayers * game.PitchWidth * game.PitchHeight
	NumNonSpatial    = 15
)

// SpatialFeatures encodes the board. Layer 0 marks the ball; layers 1-13
// describe the home side and 14-26 the away side, one plane each for
// occupancy, the four attributes, up/used/stunned, and five skills.
func SpatialFeatures(s *game.State) []float32 {
	data := make([]float32, SpatialSize)
	if pos, ok := s.BallPosition(); ok {
		data[pos.X*game.PitchHeight+pos.Y] = 1
	}
	teamSpatial(s.HomeTeam, data, 1)
	teamSpatial(s.AwayTeam, data, 14)
	return data
}

func teamSpatial(team *game.Team, data []float32, offset int) {
	if team == nil {
		return
	}
	const layerSize = game.PitchWidth * game.PitchHeight
	for _, p := range team.Players {
		if p.Position == nil {
			continue
		}
		base := p.Position.X*game.PitchHeight + p.Position.Y
		set := func(layer int, v float32) {
			data[(offset+layer)*layerSize+base] = v
		}
		set(0, 1)
		set(1, float32(p.MA))
		set(2, float32(p.ST))
		set(3, float32(p.AG))
		set(4, float32(p.AV))
		set(5, boolFeature(p.State.Up))
		set(6, boolFeature(p.State.Used))
		set(7, boolFeature(p.State.Stunned))
		set(8, boolFeature(p.HasSkill(game.SkillBlock)))
		set(9, boolFeature(p.HasSkill(game.SkillDodge)))
		set(10, boolFeature(p.HasSkill(game.SkillSureHands)))
		set(11, boolFeature(p.HasSkill(game.SkillCatch)))
		set(12, boolFeature(p.HasSkill(game.SkillPass)))
	}
}

// NonSpatialFeatures encodes the game clock, both score lines and reroll
// pools, the turn's special-action availabilities, and the weather one-hot.
func NonSpatialFeatures(s *game.State) []float32 {
	features := make([]float32, 0, NumNonSpatial)
	features = append(features, float32(s.Half), float32(s.Round))
	features = teamCounters(features, s.HomeTeam)
	features = teamCounters(features, s.AwayTeam)
	if ts := s.TurnState; ts != nil {
		features = append(features,
			boolFeature(ts.BlitzAvailable),
			boolFeature(ts.PassAvailable),
			boolFeature(ts.HandoffAvailable),
			boolFeature(ts.FoulAvailable),
		)
	} else {
		features = append(features, 0, 0, 0, 0)
	}
	for _, w := range []game.Weather{
		game.WeatherNice,
		game.WeatherVerySunny,
		game.WeatherPouringRain,
		game.WeatherBlizzard,
		game.WeatherSwelteringHeat,
	} {
		features = append(features, boolFeature(s.Weather == w))
	}
	return features
}

func teamCounters(features []float32, team *game.Team) []float32 {
	if team == nil {
		return append(features, 0, 0)
	}
	return append(features, float32(team.Rerolls), float32(team.Score))
}

func boolFeature(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
