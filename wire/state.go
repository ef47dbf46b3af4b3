// Package wire converts game states and actions to and from the JSON format
// spoken at the environment boundary.
package wire

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gridiron/game"

	"golang.org/x/exp/slices"
)

type wireSquare struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type wireBall struct {
	Position  *wireSquare `json:"position"`
	IsCarried bool        `json:"is_carried"`
}

type wirePlayerState struct {
	Up           bool         `json:"up"`
	Used         bool         `json:"used"`
	Moves        int          `json:"moves"`
	Stunned      bool         `json:"stunned"`
	KnockedOut   bool         `json:"knocked_out"`
	SquaresMoved []wireSquare `json:"squares_moved"`
	HasBlocked   bool         `json:"has_blocked"`
}

type wirePlayer struct {
	Role     string          `json:"role"`
	Skills   []string        `json:"skills"`
	MA       int             `json:"ma"`
	ST       int             `json:"st"`
	AG       int             `json:"ag"`
	AV       int             `json:"av"`
	Position *wireSquare     `json:"position"`
	State    wirePlayerState `json:"state"`
}

type wireTeam struct {
	TeamID      int                    `json:"team_id"`
	Score       int                    `json:"score"`
	Rerolls     int                    `json:"rerolls"`
	Bribes      int                    `json:"bribes"`
	PlayersByID map[string]*wirePlayer `json:"players_by_id"`
}

type wireDugout struct {
	TeamID   int   `json:"team_id"`
	Reserves []int `json:"reserves"`
	KOd      []int `json:"kod"`
	Dungeon  []int `json:"dungeon"`
}

type wirePushLink struct {
	Attacker int         `json:"attacker"`
	Defender int         `json:"defender"`
	To       *wireSquare `json:"to"`
}

type wireBlockContext struct {
	Attacker  int            `json:"attacker"`
	Defender  int            `json:"defender"`
	Position  wireSquare     `json:"position"`
	KnockOut  bool           `json:"knock_out"`
	PushChain []wirePushLink `json:"push_chain"`
}

type wireTurnState struct {
	Blitz            bool `json:"blitz"`
	QuickSnap        bool `json:"quick_snap"`
	BlitzAvailable   bool `json:"blitz_available"`
	PassAvailable    bool `json:"pass_available"`
	FoulAvailable    bool `json:"foul_available"`
	HandoffAvailable bool `json:"handoff_available"`
}

type wireState struct {
	Half               int               `json:"half"`
	Round              int               `json:"round"`
	GameOver           bool              `json:"game_over"`
	Weather            string            `json:"weather"`
	Balls              []wireBall        `json:"balls"`
	HomeTeam           *wireTeam         `json:"home_team"`
	AwayTeam           *wireTeam         `json:"away_team"`
	HomeDugout         *wireDugout       `json:"home_dugout"`
	AwayDugout         *wireDugout       `json:"away_dugout"`
	KickingFirstHalf   int               `json:"kicking_first_half"`
	ReceivingFirstHalf int               `json:"receiving_first_half"`
	KickingThisDrive   int               `json:"kicking_this_drive"`
	ReceivingThisDrive int               `json:"receiving_this_drive"`
	Procedure          string            `json:"procedure"`
	ParentProcedure    string            `json:"parent_procedure"`
	CurrentTeamID      int               `json:"current_team_id"`
	ActivePlayerID     int               `json:"active_player_id"`
	Rolls              []string          `json:"rolls"`
	Position           *wireSquare       `json:"position"`
	BlockContext       *wireBlockContext `json:"block_context"`
	TurnState          *wireTurnState    `json:"turn_state"`
}

// Decode parses a wire JSON document into a game state.
func Decode(data []byte) (*game.State, error) {
	var ws wireState
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return fromWire(&ws)
}

// Encode renders a game state as its wire JSON document.
func Encode(s *game.State) ([]byte, error) {
	ws, err := toWire(s)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

func fromWire(ws *wireState) (*game.State, error) {
	s := &game.State{
		Half:               ws.Half,
		Round:              ws.Round,
		GameOver:           ws.GameOver,
		KickingFirstHalf:   ws.KickingFirstHalf,
		ReceivingFirstHalf: ws.ReceivingFirstHalf,
		KickingThisDrive:   ws.KickingThisDrive,
		ReceivingThisDrive: ws.ReceivingThisDrive,
		CurrentTeamID:      ws.CurrentTeamID,
		ActivePlayerID:     ws.ActivePlayerID,
	}

	weather, err := game.ParseWeather(ws.Weather)
	if err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	s.Weather = weather

	if ws.Procedure != "" {
		proc, err := game.ParseProcedure(ws.Procedure)
		if err != nil {
			return nil, fmt.Errorf("decode state: %w", err)
		}
		s.Procedure = proc
	}
	if ws.ParentProcedure != "" {
		proc, err := game.ParseProcedure(ws.ParentProcedure)
		if err != nil {
			return nil, fmt.Errorf("decode state: %w", err)
		}
		s.ParentProcedure = proc
	}

	s.Balls = make([]game.Ball, len(ws.Balls))
	for i, wb := range ws.Balls {
		s.Balls[i] = game.Ball{Position: squareFromWire(wb.Position), Carried: wb.IsCarried}
	}

	if s.HomeTeam, err = teamFromWire(ws.HomeTeam); err != nil {
		return nil, fmt.Errorf("decode home team: %w", err)
	}
	if s.AwayTeam, err = teamFromWire(ws.AwayTeam); err != nil {
		return nil, fmt.Errorf("decode away team: %w", err)
	}
	s.HomeDugout = dugoutFromWire(ws.HomeDugout)
	s.AwayDugout = dugoutFromWire(ws.AwayDugout)

	s.Rolls = make([]game.ActionType, len(ws.Rolls))
	for i, name := range ws.Rolls {
		at, err := game.ParseActionType(name)
		if err != nil {
			return nil, fmt.Errorf("decode rolls: %w", err)
		}
		s.Rolls[i] = at
	}

	s.TargetSquare = squareFromWire(ws.Position)

	if ws.BlockContext != nil {
		bc := &game.BlockContext{
			Attacker: ws.BlockContext.Attacker,
			Defender: ws.BlockContext.Defender,
			Position: game.Sq(ws.BlockContext.Position.X, ws.BlockContext.Position.Y),
			KnockOut: ws.BlockContext.KnockOut,
		}
		bc.PushChain = make([]game.PushLink, len(ws.BlockContext.PushChain))
		for i, link := range ws.BlockContext.PushChain {
			bc.PushChain[i] = game.PushLink{
				Attacker: link.Attacker,
				Defender: link.Defender,
				To:       squareFromWire(link.To),
			}
		}
		s.BlockContext = bc
	}

	if ws.TurnState != nil {
		s.TurnState = &game.TurnState{
			Blitz:            ws.TurnState.Blitz,
			QuickSnap:        ws.TurnState.QuickSnap,
			BlitzAvailable:   ws.TurnState.BlitzAvailable,
			PassAvailable:    ws.TurnState.PassAvailable,
			FoulAvailable:    ws.TurnState.FoulAvailable,
			HandoffAvailable: ws.TurnState.HandoffAvailable,
		}
	}
	return s, nil
}

func toWire(s *game.State) (*wireState, error) {
	ws := &wireState{
		Half:               s.Half,
		Round:              s.Round,
		GameOver:           s.GameOver,
		Weather:            s.Weather.String(),
		KickingFirstHalf:   s.KickingFirstHalf,
		ReceivingFirstHalf: s.ReceivingFirstHalf,
		KickingThisDrive:   s.KickingThisDrive,
		ReceivingThisDrive: s.ReceivingThisDrive,
		CurrentTeamID:      s.CurrentTeamID,
		ActivePlayerID:     s.ActivePlayerID,
	}

	if s.Procedure != game.ProcNone {
		ws.Procedure = s.Procedure.String()
	}
	if s.ParentProcedure != game.ProcNone {
		ws.ParentProcedure = s.ParentProcedure.String()
	}

	ws.Balls = make([]wireBall, len(s.Balls))
	for i, b := range s.Balls {
		ws.Balls[i] = wireBall{Position: squareToWire(b.Position), IsCarried: b.Carried}
	}

	ws.HomeTeam = teamToWire(s.HomeTeam)
	ws.AwayTeam = teamToWire(s.AwayTeam)
	ws.HomeDugout = dugoutToWire(s.HomeDugout)
	ws.AwayDugout = dugoutToWire(s.AwayDugout)

	ws.Rolls = make([]string, len(s.Rolls))
	for i, at := range s.Rolls {
		ws.Rolls[i] = at.String()
	}

	ws.Position = squareToWire(s.TargetSquare)

	if s.BlockContext != nil {
		wbc := &wireBlockContext{
			Attacker: s.BlockContext.Attacker,
			Defender: s.BlockContext.Defender,
			Position: wireSquare{X: s.BlockContext.Position.X, Y: s.BlockContext.Position.Y},
			KnockOut: s.BlockContext.KnockOut,
		}
		wbc.PushChain = make([]wirePushLink, len(s.BlockContext.PushChain))
		for i, link := range s.BlockContext.PushChain {
			wbc.PushChain[i] = wirePushLink{
				Attacker: link.Attacker,
				Defender: link.Defender,
				To:       squareToWire(link.To),
			}
		}
		ws.BlockContext = wbc
	}

	if s.TurnState != nil {
		ws.TurnState = &wireTurnState{
			Blitz:            s.TurnState.Blitz,
			QuickSnap:        s.TurnState.QuickSnap,
			BlitzAvailable:   s.TurnState.BlitzAvailable,
			PassAvailable:    s.TurnState.PassAvailable,
			FoulAvailable:    s.TurnState.FoulAvailable,
			HandoffAvailable: s.TurnState.HandoffAvailable,
		}
	}
	return ws, nil
}

func teamFromWire(wt *wireTeam) (*game.Team, error) {
	if wt == nil {
		return nil, nil
	}
	team := &game.Team{
		ID:      wt.TeamID,
		Score:   wt.Score,
		Rerolls: wt.Rerolls,
		Bribes:  wt.Bribes,
		Players: make(map[int]*game.Player, len(wt.PlayersByID)),
	}
	for key, wp := range wt.PlayersByID {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("player id %q: %w", key, err)
		}
		player, err := playerFromWire(id, wp)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", id, err)
		}
		team.Players[id] = player
	}
	return team, nil
}

func teamToWire(team *game.Team) *wireTeam {
	if team == nil {
		return nil
	}
	wt := &wireTeam{
		TeamID:      team.ID,
		Score:       team.Score,
		Rerolls:     team.Rerolls,
		Bribes:      team.Bribes,
		PlayersByID: make(map[string]*wirePlayer, len(team.Players)),
	}
	for _, id := range team.PlayerIDs() {
		wt.PlayersByID[strconv.Itoa(id)] = playerToWire(team.Players[id])
	}
	return wt
}

func playerFromWire(id int, wp *wirePlayer) (*game.Player, error) {
	p := &game.Player{
		ID:       id,
		Role:     wp.Role,
		MA:       wp.MA,
		ST:       wp.ST,
		AG:       wp.AG,
		AV:       wp.AV,
		Position: squareFromWire(wp.Position),
	}
	p.Skills = make([]game.Skill, len(wp.Skills))
	for i, name := range wp.Skills {
		skill, err := game.ParseSkill(name)
		if err != nil {
			return nil, err
		}
		p.Skills[i] = skill
	}
	p.State = game.PlayerState{
		Up:         wp.State.Up,
		Used:       wp.State.Used,
		Moves:      wp.State.Moves,
		Stunned:    wp.State.Stunned,
		KnockedOut: wp.State.KnockedOut,
		HasBlocked: wp.State.HasBlocked,
	}
	p.State.SquaresMoved = make([]game.Square, len(wp.State.SquaresMoved))
	for i, sq := range wp.State.SquaresMoved {
		p.State.SquaresMoved[i] = game.Sq(sq.X, sq.Y)
	}
	return p, nil
}

func playerToWire(p *game.Player) *wirePlayer {
	wp := &wirePlayer{
		Role:     p.Role,
		MA:       p.MA,
		ST:       p.ST,
		AG:       p.AG,
		AV:       p.AV,
		Position: squareToWire(p.Position),
	}
	wp.Skills = make([]string, len(p.Skills))
	for i, skill := range p.Skills {
		wp.Skills[i] = skill.String()
	}
	wp.State = wirePlayerState{
		Up:         p.State.Up,
		Used:       p.State.Used,
		Moves:      p.State.Moves,
		Stunned:    p.State.Stunned,
		KnockedOut: p.State.KnockedOut,
		HasBlocked: p.State.HasBlocked,
	}
	wp.State.SquaresMoved = make([]wireSquare, len(p.State.SquaresMoved))
	for i, sq := range p.State.SquaresMoved {
		wp.State.SquaresMoved[i] = wireSquare{X: sq.X, Y: sq.Y}
	}
	return wp
}

func dugoutFromWire(wd *wireDugout) *game.Dugout {
	if wd == nil {
		return nil
	}
	d := &game.Dugout{TeamID: wd.TeamID}
	d.Reserves = append(d.Reserves, wd.Reserves...)
	d.KnockedOut = append(d.KnockedOut, wd.KOd...)
	d.Dungeon = append(d.Dungeon, wd.Dungeon...)
	return d
}

func dugoutToWire(d *game.Dugout) *wireDugout {
	if d == nil {
		return nil
	}
	wd := &wireDugout{
		TeamID:   d.TeamID,
		Reserves: make([]int, len(d.Reserves)),
		KOd:      make([]int, len(d.KnockedOut)),
		Dungeon:  make([]int, len(d.Dungeon)),
	}
	copy(wd.Reserves, d.Reserves)
	copy(wd.KOd, d.KnockedOut)
	copy(wd.Dungeon, d.Dungeon)
	slices.Sort(wd.Reserves)
	slices.Sort(wd.KOd)
	slices.Sort(wd.Dungeon)
	return wd
}

func squareFromWire(sq *wireSquare) *game.Square {
	if sq == nil {
		return nil
	}
	s := game.Sq(sq.X, sq.Y)
	return &s
}

func squareToWire(sq *game.Square) *wireSquare {
	if sq == nil {
		return nil
	}
	return &wireSquare{X: sq.X, Y: sq.Y}
}
