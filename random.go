package main

import (
	"time"

	"golang.org/x/exp/rand"
)

// Rand is the only source of randomness the engine draws from: role deal,
// tie-breaks, nomination order and the mandatory wolf-kill fallback.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// newRand returns a seeded source; seed 0 means seed from the clock.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// pickPlayer returns a uniformly random element, or nil for an empty slice.
func pickPlayer(rng Rand, players []*Player) *Player {
	if len(players) == 0 {
		return nil
	}
	return players[rng.Intn(len(players))]
}

// shufflePlayers returns a shuffled copy.
func shufflePlayers(rng Rand, players []*Player) []*Player {
	out := make([]*Player, len(players))
	copy(out, players)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// shuffleRoles shuffles the role pool in place
func shuffleRoles(rng Rand, roles []RoleType) {
	rng.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })
}
