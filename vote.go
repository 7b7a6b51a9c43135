package main

import (
	"fmt"
	"sort"
	"strings"
)

// Vote is one secret ballot. TargetID 0 marks an invalid ballot.
type Vote struct {
	VoterID  int
	TargetID int
}

const sheriffVoteWeight = 1.5

// voteWeight is 1.5 for the sheriff's ballot and 1 for everyone else's.
func voteWeight(voterID int, sheriff *Player) float64 {
	if sheriff != nil && sheriff.ID == voterID {
		return sheriffVoteWeight
	}
	return 1
}

// tallyVotes sums the weighted ballots per target. Invalid ballots are ignored.
func tallyVotes(votes []Vote, sheriff *Player) map[int]float64 {
	tally := make(map[int]float64)
	for _, v := range votes {
		if v.TargetID == 0 {
			continue
		}
		tally[v.TargetID] += voteWeight(v.VoterID, sheriff)
	}
	return tally
}

// votePhase runs the daily exile. Every ballot is collected before any is revealed.
func (g *Game) votePhase() {
	alive := alivePlayers(g.Players)
	if len(alive) < 2 {
		return
	}
	g.record(nil, nil, "day", ActionAnnouncement, VisibilityPublic, "Everyone votes in secret.")

	votes := make([]Vote, 0, len(alive))
	for _, voter := range alive {
		votable := filterPlayers(alive, func(p *Player) bool { return p != voter })
		prompt := fmt.Sprintf("Exile vote. This is a secret ballot: you do not know how others vote.\n\n"+
			"Living players: %s\nYou may vote for: %s\n\n"+
			"Vote for the outcome that helps your camp win, and stay consistent with what you said unless "+
			"this vote wins the game. Answer with the seat number only.", seatList(alive), seatList(votable))

		target := parseSeat(g.ask(voter, ActionDayVote, prompt, false, options(votable)), votable)
		v := Vote{VoterID: voter.ID}
		if target != nil {
			v.TargetID = target.ID
		}
		votes = append(votes, v)
	}

	g.revealVotes(votes)

	tally := tallyVotes(votes, g.State.Sheriff)
	if len(tally) == 0 {
		g.record(nil, nil, "day", ActionElimination, VisibilityPublic, "No valid ballot. Nobody is exiled today.")
		return
	}
	g.record(nil, nil, "day", ActionAnnouncement, VisibilityPublic, "Totals:\n%s", formatTally(tally, votes, g.State.Sheriff))

	top := leaders(tally)
	if len(top) > 1 {
		g.record(nil, nil, "day", ActionAnnouncement, VisibilityPublic, "Tie between %v. Chance decides.", top)
	}
	exiled := findPlayer(g.Players, breakTie(g.rng, top))

	g.kill(exiled, CauseVote)
	g.State.LastWordsQueue = append(g.State.LastWordsQueue, exiled)
	g.record(nil, exiled, "day", ActionElimination, VisibilityPublic, "%s is exiled by the village.", exiled.label())
	g.tellAlive(fmt.Sprintf("Day %d: %s was exiled", g.State.DayCount, exiled.label()), nil)
	if g.checkGameOver() {
		return
	}
	g.tellStory()
	g.lastWords()
}

// revealVotes publishes every ballot once all are in.
func (g *Game) revealVotes(votes []Vote) {
	for _, v := range votes {
		voter := findPlayer(g.Players, v.VoterID)
		if v.TargetID == 0 {
			g.record(voter, nil, "day", ActionDayVote, VisibilityPublic, "%s cast an invalid ballot.", voter.label())
			continue
		}
		target := findPlayer(g.Players, v.TargetID)
		g.record(voter, target, "day", ActionDayVote, VisibilityPublic, "%s votes for %s.", voter.label(), target.label())
	}
}

// formatTally renders "Player 4: 2.5 (from [1 3]) incl. sheriff" lines in seat order.
func formatTally(tally map[int]float64, votes []Vote, sheriff *Player) string {
	ids := make([]int, 0, len(tally))
	for id := range tally {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	lines := make([]string, len(ids))
	for i, id := range ids {
		var from []int
		withSheriff := false
		for _, v := range votes {
			if v.TargetID != id {
				continue
			}
			from = append(from, v.VoterID)
			if voteWeight(v.VoterID, sheriff) != 1 {
				withSheriff = true
			}
		}
		lines[i] = fmt.Sprintf("  %s: %g (from %v)", seatLabel(id), tally[id], from)
		if withSheriff {
			lines[i] += " incl. the sheriff's 1.5"
		}
	}
	return strings.Join(lines, "\n")
}
