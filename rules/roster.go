package rules

import (
	"gridiron/game"
)

// DefaultTeam builds the standard thirteen-player roster. Player ids are
// teamID*100 plus the roster slot, which keeps ids unique across both teams
// as long as the team ids differ. Linemen occupy the low slots so formations
// fill the line of scrimmage with them first.
func DefaultTeam(teamID int) *game.Team {
	team := &game.Team{
		ID:      teamID,
		Rerolls: 3,
		Bribes:  1,
		Players: make(map[int]*game.Player),
	}

	add := func(slot int, role string, ma, st, ag, av int, skills ...game.Skill) {
		id := teamID*100 + slot
		team.Players[id] = &game.Player{
			ID:     id,
			Role:   role,
			Skills: skills,
			MA:     ma,
			ST:     st,
			AG:     ag,
			AV:     av,
			State:  game.NewPlayerState(),
		}
	}

	for slot := 1; slot <= 7; slot++ {
		add(slot, "Lineman", 6, 3, 3, 8)
	}
	add(8, "Blitzer", 7, 3, 3, 8, game.SkillBlock)
	add(9, "Blitzer", 7, 3, 3, 8, game.SkillBlock)
	add(10, "Thrower", 6, 3, 3, 8, game.SkillPass, game.SkillSureHands)
	add(11, "Thrower", 6, 3, 3, 8, game.SkillPass, game.SkillSureHands)
	add(12, "Catcher", 8, 2, 4, 7, game.SkillCatch, game.SkillDodge)
	add(13, "Catcher", 8, 2, 4, 7, game.SkillCatch, game.SkillDodge)
	return team
}

// NewGame assembles a fresh pre-kickoff state with every player in reserve.
// The away side calls the coin toss.
func NewGame(home, away *game.Team) *game.State {
	s := &game.State{
		Half:          1,
		Round:         1,
		Weather:       game.WeatherNice,
		HomeTeam:      home,
		AwayTeam:      away,
		HomeDugout:    &game.Dugout{TeamID: home.ID},
		AwayDugout:    &game.Dugout{TeamID: away.ID},
		Procedure:     game.ProcCoinTossFlip,
		CurrentTeamID: away.ID,
	}
	s.HomeDugout.Reserves = append(s.HomeDugout.Reserves, home.PlayerIDs()...)
	s.AwayDugout.Reserves = append(s.AwayDugout.Reserves, away.PlayerIDs()...)
	return s
}
