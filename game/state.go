package game

// RoundsPerHalf is the number of team-turn rounds in each half.
const RoundsPerHalf = 8

// Halves played before the game ends.
const Halves = 2

// Ball is a ball on the pitch. Position is nil while the ball is off the
// board (mid-kick). Carried means the player standing on Position holds it.
type Ball struct {
	Position *Square
	Carried  bool
}

func (b Ball) copy() Ball {
	if b.Position != nil {
		pos := *b.Position
		b.Position = &pos
	}
	return b
}

// TurnState carries the once-per-turn special action availabilities of the
// team currently acting. Present only while a Turn-scoped procedure runs.
type TurnState struct {
	Blitz            bool
	QuickSnap        bool
	BlitzAvailable   bool
	PassAvailable    bool
	FoulAvailable    bool
	HandoffAvailable bool
}

// NewTurnState returns the turn state at the start of a regular team turn.
func NewTurnState() *TurnState {
	return &TurnState{
		BlitzAvailable:   true,
		PassAvailable:    true,
		FoulAvailable:    true,
		HandoffAvailable: true,
	}
}

func (ts *TurnState) copy() *TurnState {
	c := *ts
	return &c
}

// PushLink is one step of a push chain: Attacker shoves Defender toward To.
// To stays nil until the pushing side picks the square.
type PushLink struct {
	Attacker int
	Defender int
	To       *Square
}

func (l PushLink) copy() PushLink {
	if l.To != nil {
		to := *l.To
		l.To = &to
	}
	return l
}

// BlockContext tracks an in-flight block from the die selection through the
// push chain and follow-up. Position is the square the defender occupied when
// the block was thrown.
type BlockContext struct {
	Attacker  int
	Defender  int
	Position  Square
	KnockOut  bool
	PushChain []PushLink
}

func (bc *BlockContext) copy() *BlockContext {
	c := *bc
	c.PushChain = make([]PushLink, len(bc.PushChain))
	for i, link := range bc.PushChain {
		c.PushChain[i] = link.copy()
	}
	return &c
}

// State is one snapshot of the game. Snapshots are immutable by convention:
// every transition clones first, so no search branch ever observes another
// branch's mutations.
type State struct {
	Half     int
	Round    int
	GameOver bool
	Weather  Weather
	Balls    []Ball

	HomeTeam   *Team
	AwayTeam   *Team
	HomeDugout *Dugout
	AwayDugout *Dugout

	// Drive bookkeeping, team ids (0 = not decided yet).
	KickingFirstHalf   int
	ReceivingFirstHalf int
	KickingThisDrive   int
	ReceivingThisDrive int

	Procedure       Procedure
	ParentProcedure Procedure
	CurrentTeamID   int
	ActivePlayerID  int // 0 = none

	// Rolls holds the selectable die faces while a Block procedure waits for
	// a pick. TargetSquare is the pending destination of a GFI, dodge, or
	// pass resolution.
	Rolls        []ActionType
	TargetSquare *Square
	BlockContext *BlockContext
	TurnState    *TurnState
}

// Clone returns a deep copy sharing nothing with the receiver.
func (s *State) Clone() *State {
	c := *s

	c.Balls = make([]Ball, len(s.Balls))
	for i, b := range s.Balls {
		c.Balls[i] = b.copy()
	}
	if s.HomeTeam != nil {
		c.HomeTeam = s.HomeTeam.copy()
	}
	if s.AwayTeam != nil {
		c.AwayTeam = s.AwayTeam.copy()
	}
	if s.HomeDugout != nil {
		c.HomeDugout = s.HomeDugout.copy()
	}
	if s.AwayDugout != nil {
		c.AwayDugout = s.AwayDugout.copy()
	}
	c.Rolls = make([]ActionType, len(s.Rolls))
	copy(c.Rolls, s.Rolls)
	if s.TargetSquare != nil {
		sq := *s.TargetSquare
		c.TargetSquare = &sq
	}
	if s.BlockContext != nil {
		c.BlockContext = s.BlockContext.copy()
	}
	if s.TurnState != nil {
		c.TurnState = s.TurnState.copy()
	}
	return &c
}

// IsHome reports whether the team id is the home team's.
func (s *State) IsHome(teamID int) bool {
	return s.HomeTeam != nil && s.HomeTeam.ID == teamID
}

// Team returns the team with the given id, nil if absent.
func (s *State) Team(teamID int) *Team {
	if s.HomeTeam != nil && s.HomeTeam.ID == teamID {
		return s.HomeTeam
	}
	if s.AwayTeam != nil && s.AwayTeam.ID == teamID {
		return s.AwayTeam
	}
	return nil
}

// Opponent returns the other side's team.
func (s *State) Opponent(teamID int) *Team {
	if s.IsHome(teamID) {
		return s.AwayTeam
	}
	return s.HomeTeam
}

// CurrentTeam returns the team whose decision is pending, nil if none.
func (s *State) CurrentTeam() *Team {
	return s.Team(s.CurrentTeamID)
}

// Dugout returns the dugout belonging to the team id.
func (s *State) Dugout(teamID int) *Dugout {
	if s.IsHome(teamID) {
		return s.HomeDugout
	}
	return s.AwayDugout
}

// PlayerByID finds a player on either roster.
func (s *State) PlayerByID(id int) (*Player, error) {
	for _, team := range []*Team{s.HomeTeam, s.AwayTeam} {
		if team == nil {
			continue
		}
		if p, ok := team.Players[id]; ok {
			return p, nil
		}
	}
	return nil, &UnknownPlayerIDError{ID: id}
}

// TeamOf returns the team owning the player id.
func (s *State) TeamOf(playerID int) (*Team, error) {
	for _, team := range []*Team{s.HomeTeam, s.AwayTeam} {
		if team == nil {
			continue
		}
		if _, ok := team.Players[playerID]; ok {
			return team, nil
		}
	}
	return nil, &UnknownPlayerIDError{ID: playerID}
}

// PlayerAt returns the player occupying the square, nil when it is empty.
func (s *State) PlayerAt(sq Square) *Player {
	for _, team := range []*Team{s.HomeTeam, s.AwayTeam} {
		if team == nil {
			continue
		}
		for _, p := range team.Players {
			if p.Position != nil && *p.Position == sq {
				return p
			}
		}
	}
	return nil
}

// ActivePlayer returns the player a sub-decision is pending for.
func (s *State) ActivePlayer() (*Player, error) {
	if s.ActivePlayerID == 0 {
		return nil, &UnknownPlayerIDError{ID: 0}
	}
	return s.PlayerByID(s.ActivePlayerID)
}

// OnPitch returns the team's players with positions, ordered by id.
func (s *State) OnPitch(teamID int) []*Player {
	team := s.Team(teamID)
	if team == nil {
		return nil
	}
	players := make([]*Player, 0, len(team.Players))
	for _, id := range team.PlayerIDs() {
		if p := team.Players[id]; p.OnPitch() {
			players = append(players, p)
		}
	}
	return players
}

// AdjacentOpponents returns the opposing players on squares adjacent to sq,
// ordered by id.
func (s *State) AdjacentOpponents(teamID int, sq Square) []*Player {
	opp := s.Opponent(teamID)
	if opp == nil {
		return nil
	}
	var players []*Player
	for _, id := range opp.PlayerIDs() {
		p := opp.Players[id]
		if p.Position != nil && p.Position.Adjacent(sq) {
			players = append(players, p)
		}
	}
	return players
}

// AdjacentTeammates returns the same-team players adjacent to sq, ordered by
// id, excluding any player standing on sq itself.
func (s *State) AdjacentTeammates(teamID int, sq Square) []*Player {
	team := s.Team(teamID)
	if team == nil {
		return nil
	}
	var players []*Player
	for _, id := range team.PlayerIDs() {
		p := team.Players[id]
		if p.Position != nil && p.Position.Adjacent(sq) {
			players = append(players, p)
		}
	}
	return players
}

// TackleZonesAt counts the opposing standing players whose tackle zones cover
// the square.
func (s *State) TackleZonesAt(teamID int, sq Square) int {
	opp := s.Opponent(teamID)
	if opp == nil {
		return 0
	}
	zones := 0
	for _, p := range opp.Players {
		if p.Position != nil && p.Position.Adjacent(sq) && p.Standing() {
			zones++
		}
	}
	return zones
}

// BallPosition returns the first ball's square. ok is false when no ball is
// on the board.
func (s *State) BallPosition() (Square, bool) {
	if len(s.Balls) == 0 || s.Balls[0].Position == nil {
		return Square{}, false
	}
	return *s.Balls[0].Position, true
}

// BallCarrier returns the player holding the ball, nil when it is loose or
// off the board.
func (s *State) BallCarrier() *Player {
	if len(s.Balls) == 0 || !s.Balls[0].Carried || s.Balls[0].Position == nil {
		return nil
	}
	return s.PlayerAt(*s.Balls[0].Position)
}

// TeamSide reports whether the square lies on the team's own half.
func (s *State) TeamSide(sq Square, teamID int) bool {
	if s.IsHome(teamID) {
		return sq.X >= PitchWidth/2
	}
	return sq.X < PitchWidth/2
}

// TargetX returns the endzone column the team attacks.
func (s *State) TargetX(teamID int) int {
	if s.IsHome(teamID) {
		return HomeTargetX
	}
	return AwayTargetX
}

// ReceivingSideSquares returns the playable squares on the receiving team's
// half, in scan order. Used by ball placement.
func (s *State) ReceivingSideSquares() []Square {
	if s.ReceivingThisDrive == 0 {
		return nil
	}
	xStart, xEnd := 1, PitchWidth/2-1
	if s.IsHome(s.ReceivingThisDrive) {
		xStart, xEnd = PitchWidth/2, PitchWidth-2
	}
	var squares []Square
	for y := 1; y < PitchHeight-1; y++ {
		for x := xStart; x <= xEnd; x++ {
			squares = append(squares, Sq(x, y))
		}
	}
	return squares
}
