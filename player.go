package main

import (
	"fmt"
	"strings"
)

// DeathCause records how a seat died.
type DeathCause string

const (
	CauseNone     DeathCause = ""
	CauseWolfKill DeathCause = "wolf_kill"
	CausePoison   DeathCause = "poison"
	CauseShoot    DeathCause = "shoot"
	CauseVote     DeathCause = "vote"
)

// Player is one of the nine seats. ID is the seat number (1..9) and is never reused.
type Player struct {
	ID         int
	Name       string // never encodes the role
	Role       Role
	IsAlive    bool
	DeathCause DeathCause
	IsHuman    bool

	decider Decider
	memory  []string
}

func newPlayer(id int, name string, human bool, decider Decider) *Player {
	return &Player{ID: id, Name: name, IsAlive: true, IsHuman: human, decider: decider}
}

func (p *Player) IsWerewolf() bool {
	return p.Role.Type == RoleWerewolf
}

func (p *Player) Team() Camp {
	return p.Role.Camp()
}

// AddMemory appends to the seat's private log.
func (p *Player) AddMemory(entry string) {
	p.memory = append(p.memory, entry)
}

// Memory returns a copy of the seat's private log.
func (p *Player) Memory() []string {
	out := make([]string, len(p.memory))
	copy(out, p.memory)
	return out
}

func (p *Player) die(cause DeathCause) {
	p.IsAlive = false
	p.DeathCause = cause
}

func (p *Player) label() string {
	return seatLabel(p.ID)
}

// ============================================================================
// Seat list helpers
// ============================================================================

func filterPlayers(players []*Player, keep func(*Player) bool) []*Player {
	var out []*Player
	for _, p := range players {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func alivePlayers(players []*Player) []*Player {
	return filterPlayers(players, func(p *Player) bool { return p.IsAlive })
}

func aliveExcept(players []*Player, exclude *Player) []*Player {
	return filterPlayers(players, func(p *Player) bool { return p.IsAlive && p != exclude })
}

func seatIDs(players []*Player) []int {
	ids := make([]int, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

// seatList renders "Player 1, Player 4, Player 7".
func seatList(players []*Player) string {
	labels := make([]string, len(players))
	for i, p := range players {
		labels[i] = p.label()
	}
	return strings.Join(labels, ", ")
}

// seatLines renders one "  Player N - Name" line per seat.
func seatLines(players []*Player) string {
	lines := make([]string, len(players))
	for i, p := range players {
		lines[i] = fmt.Sprintf("  %s - %s", p.label(), p.Name)
	}
	return strings.Join(lines, "\n")
}

func containsPlayer(players []*Player, target *Player) bool {
	for _, p := range players {
		if p == target {
			return true
		}
	}
	return false
}

func findPlayer(players []*Player, id int) *Player {
	for _, p := range players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
