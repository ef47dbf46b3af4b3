package game

// PlayerState is the per-drive mutable part of a player.
type PlayerState struct {
	Up           bool
	Used         bool
	Moves        int
	Stunned      bool
	KnockedOut   bool
	SquaresMoved []Square
	HasBlocked   bool
}

// NewPlayerState returns the state of a fresh, standing, unused player.
func NewPlayerState() PlayerState {
	return PlayerState{Up: true}
}

func (ps PlayerState) copy() PlayerState {
	moved := make([]Square, len(ps.SquaresMoved))
	copy(moved, ps.SquaresMoved)
	ps.SquaresMoved = moved
	return ps
}

// Player is a single roster entry. Position is nil while the player is off
// the pitch (reserves, knocked out, or removed).
type Player struct {
	ID       int
	Role     string
	Skills   []Skill
	MA       int
	ST       int
	AG       int
	AV       int
	Position *Square
	State    PlayerState
}

func (p *Player) copy() *Player {
	c := *p
	c.Skills = make([]Skill, len(p.Skills))
	copy(c.Skills, p.Skills)
	if p.Position != nil {
		pos := *p.Position
		c.Position = &pos
	}
	c.State = p.State.copy()
	return &c
}

// HasSkill reports whether the player's role carries the given skill.
func (p *Player) HasSkill(s Skill) bool {
	for _, skill := range p.Skills {
		if skill == s {
			return true
		}
	}
	return false
}

// Movement returns the movement allowance clamped to the legal range.
func (p *Player) Movement() int { return clampAttr(p.MA) }

// Strength returns the strength attribute clamped to the legal range.
func (p *Player) Strength() int { return clampAttr(p.ST) }

// Agility returns the agility attribute clamped to the legal range.
func (p *Player) Agility() int { return clampAttr(p.AG) }

// Armor returns the armor value clamped to the legal range.
func (p *Player) Armor() int { return clampAttr(p.AV) }

// OnPitch reports whether the player occupies a square.
func (p *Player) OnPitch() bool { return p.Position != nil }

// Standing reports whether the player is up and able to act or exert a
// tackle zone.
func (p *Player) Standing() bool {
	return p.State.Up && !p.State.Stunned && !p.State.KnockedOut
}

func clampAttr(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
