package game

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Team is one side's roster and drive-level resources.
type Team struct {
	ID      int
	Score   int
	Rerolls int
	Bribes  int
	Players map[int]*Player
}

func (t *Team) copy() *Team {
	c := *t
	c.Players = make(map[int]*Player, len(t.Players))
	for id, p := range t.Players {
		c.Players[id] = p.copy()
	}
	return &c
}

// PlayerIDs returns the roster ids in ascending order. Map iteration order is
// not deterministic, and discovery output must be.
func (t *Team) PlayerIDs() []int {
	ids := maps.Keys(t.Players)
	slices.Sort(ids)
	return ids
}

// Dugout tracks the off-pitch zones of one team by player id.
type Dugout struct {
	TeamID     int
	Reserves   []int
	KnockedOut []int
	Dungeon    []int
}

func (d *Dugout) copy() *Dugout {
	c := Dugout{TeamID: d.TeamID}
	c.Reserves = append(c.Reserves, d.Reserves...)
	c.KnockedOut = append(c.KnockedOut, d.KnockedOut...)
	c.Dungeon = append(c.Dungeon, d.Dungeon...)
	return &c
}

// Remove drops the player id from whichever zone holds it.
func (d *Dugout) Remove(id int) {
	d.Reserves = removeID(d.Reserves, id)
	d.KnockedOut = removeID(d.KnockedOut, id)
	d.Dungeon = removeID(d.Dungeon, id)
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
