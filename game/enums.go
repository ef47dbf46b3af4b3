package game

import "fmt"

// Skill is a player ability relevant to the simplified ruleset.
type Skill int

const (
	SkillBlock Skill = iota
	SkillCatch
	SkillDodge
	SkillPass
	SkillSureHands
)

var skillNames = map[Skill]string{
	SkillBlock:     "BLOCK",
	SkillCatch:     "CATCH",
	SkillDodge:     "DODGE",
	SkillPass:      "PASS",
	SkillSureHands: "SURE_HANDS",
}

func (s Skill) String() string {
	if name, ok := skillNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Skill(%d)", int(s))
}

// ParseSkill maps a wire skill name to its Skill value.
func ParseSkill(name string) (Skill, error) {
	for skill, n := range skillNames {
		if n == name {
			return skill, nil
		}
	}
	return 0, fmt.Errorf("unknown skill %q", name)
}

// Weather affects a handful of roll targets (blizzard worsens go-for-it).
type Weather int

const (
	WeatherNice Weather = iota
	WeatherVerySunny
	WeatherPouringRain
	WeatherBlizzard
	WeatherSwelteringHeat
)

var weatherNames = map[Weather]string{
	WeatherNice:           "NICE",
	WeatherVerySunny:      "VERY_SUNNY",
	WeatherPouringRain:    "POURING_RAIN",
	WeatherBlizzard:       "BLIZZARD",
	WeatherSwelteringHeat: "SWELTERING_HEAT",
}

func (w Weather) String() string {
	if name, ok := weatherNames[w]; ok {
		return name
	}
	return fmt.Sprintf("Weather(%d)", int(w))
}

// ParseWeather maps a wire weather name to its Weather value.
func ParseWeather(name string) (Weather, error) {
	for weather, n := range weatherNames {
		if n == name {
			return weather, nil
		}
	}
	return 0, fmt.Errorf("unknown weather %q", name)
}

// Procedure identifies the pending step of the rules engine awaiting either a
// decision or a dice resolution. Exactly one procedure is current per state.
type Procedure int

const (
	ProcNone Procedure = iota
	// Pre-drive sequence.
	ProcCoinTossFlip
	ProcCoinTossKickReceive
	ProcSetup
	ProcPlaceBall
	ProcKickoff
	ProcTouchback
	ProcHighKick
	// Team turn and player actions.
	ProcTurn
	ProcMoveAction
	ProcBlockAction
	ProcBlitzAction
	ProcPassAction
	ProcHandoffAction
	ProcFoulAction
	ProcPush
	ProcFollowUp
	// Pending dice choices and chance resolutions.
	ProcBlock
	ProcBlockRoll
	ProcGFI
	ProcDodge
	ProcPassAttempt
	ProcInterception
	ProcInterceptRoll
	ProcCatch
	ProcFoulRoll
	// Interrupting decisions.
	ProcReroll
	ProcEjection
	// Drive and game boundaries.
	ProcEndTurn
	ProcTurnover
	ProcTouchdown
	ProcEndGame
)

var procedureNames = map[Procedure]string{
	ProcCoinTossFlip:        "CoinTossFlip",
	ProcCoinTossKickReceive: "CoinTossKickReceive",
	ProcSetup:               "Setup",
	ProcPlaceBall:           "PlaceBall",
	ProcKickoff:             "Kickoff",
	ProcTouchback:           "Touchback",
	ProcHighKick:            "HighKick",
	ProcTurn:                "Turn",
	ProcMoveAction:          "MoveAction",
	ProcBlockAction:         "BlockAction",
	ProcBlitzAction:         "BlitzAction",
	ProcPassAction:          "PassAction",
	ProcHandoffAction:       "HandoffAction",
	ProcFoulAction:          "FoulAction",
	ProcPush:                "Push",
	ProcFollowUp:            "FollowUp",
	ProcBlock:               "Block",
	ProcBlockRoll:           "BlockRoll",
	ProcGFI:                 "GFI",
	ProcDodge:               "Dodge",
	ProcPassAttempt:         "PassAttempt",
	ProcInterception:        "Interception",
	ProcInterceptRoll:       "InterceptRoll",
	ProcCatch:               "Catch",
	ProcFoulRoll:            "FoulRoll",
	ProcReroll:              "Reroll",
	ProcEjection:            "Ejection",
	ProcEndTurn:             "EndTurn",
	ProcTurnover:            "Turnover",
	ProcTouchdown:           "Touchdown",
	ProcEndGame:             "EndGame",
}

func (p Procedure) String() string {
	if p == ProcNone {
		return "None"
	}
	if name, ok := procedureNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Procedure(%d)", int(p))
}

// ParseProcedure maps a wire procedure name to its Procedure value.
func ParseProcedure(name string) (Procedure, error) {
	for proc, n := range procedureNames {
		if n == name {
			return proc, nil
		}
	}
	return ProcNone, fmt.Errorf("unknown procedure %q", name)
}

// ActionType is the closed set of action variants the engine understands.
type ActionType int

const (
	ActNone ActionType = iota
	ActBlock
	ActDontUseBribe
	ActDontUseReroll
	ActEndPlayerTurn
	ActEndSetup
	ActEndTurn
	ActFollowUp
	ActFoul
	ActHandoff
	ActHeads
	ActKick
	ActMove
	ActPass
	ActPlaceBall
	ActPlacePlayer
	ActPush
	ActReceive
	ActSelectAttackerDown
	ActSelectBothDown
	ActSelectDefenderDown
	ActSelectDefenderStumbles
	ActSelectNone
	ActSelectPlayer
	ActSelectPush
	ActSetupFormationLine
	ActSetupFormationSpread
	ActSetupFormationWedge
	ActSetupFormationZone
	ActStandUp
	ActStartBlitz
	ActStartBlock
	ActStartFoul
	ActStartHandoff
	ActStartMove
	ActStartPass
	ActTails
	ActUseBribe
	ActUseReroll
)

var actionTypeNames = map[ActionType]string{
	ActBlock:                  "BLOCK",
	ActDontUseBribe:           "DONT_USE_BRIBE",
	ActDontUseReroll:          "DONT_USE_REROLL",
	ActEndPlayerTurn:          "END_PLAYER_TURN",
	ActEndSetup:               "END_SETUP",
	ActEndTurn:                "END_TURN",
	ActFollowUp:               "FOLLOW_UP",
	ActFoul:                   "FOUL",
	ActHandoff:                "HANDOFF",
	ActHeads:                  "HEADS",
	ActKick:                   "KICK",
	ActMove:                   "MOVE",
	ActPass:                   "PASS",
	ActPlaceBall:              "PLACE_BALL",
	ActPlacePlayer:            "PLACE_PLAYER",
	ActPush:                   "PUSH",
	ActReceive:                "RECEIVE",
	ActSelectAttackerDown:     "SELECT_ATTACKER_DOWN",
	ActSelectBothDown:         "SELECT_BOTH_DOWN",
	ActSelectDefenderDown:     "SELECT_DEFENDER_DOWN",
	ActSelectDefenderStumbles: "SELECT_DEFENDER_STUMBLES",
	ActSelectNone:             "SELECT_NONE",
	ActSelectPlayer:           "SELECT_PLAYER",
	ActSelectPush:             "SELECT_PUSH",
	ActSetupFormationLine:     "SETUP_FORMATION_LINE",
	ActSetupFormationSpread:   "SETUP_FORMATION_SPREAD",
	ActSetupFormationWedge:    "SETUP_FORMATION_WEDGE",
	ActSetupFormationZone:     "SETUP_FORMATION_ZONE",
	ActStandUp:                "STAND_UP",
	ActStartBlitz:             "START_BLITZ",
	ActStartBlock:             "START_BLOCK",
	ActStartFoul:              "START_FOUL",
	ActStartHandoff:           "START_HANDOFF",
	ActStartMove:              "START_MOVE",
	ActStartPass:              "START_PASS",
	ActTails:                  "TAILS",
	ActUseBribe:               "USE_BRIBE",
	ActUseReroll:              "USE_REROLL",
}

func (a ActionType) String() string {
	if name, ok := actionTypeNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ActionType(%d)", int(a))
}

// ParseActionType maps a wire action-type name to its ActionType value.
func ParseActionType(name string) (ActionType, error) {
	for act, n := range actionTypeNames {
		if n == name {
			return act, nil
		}
	}
	return ActNone, fmt.Errorf("unknown action type %q", name)
}
