package main

import (
	"fmt"
	"strings"
)

// sheriffElection runs once, on day 1: nomination, campaign speeches, withdrawal and the
// vote of the seats that did not run. All of its state lives in this call.
func (g *Game) sheriffElection() {
	defer func() { g.State.SheriffElectionDone = true }()
	g.narrator.Banner("Sheriff election")

	alive := alivePlayers(g.Players)

	// Nomination, in random order.
	var candidates []*Player
	for _, p := range shufflePlayers(g.rng, alive) {
		answer := g.ask(p, ActionCandidacy, candidacyPrompt(p, len(candidates)), false,
			map[string]any{"sheriff_election": true})
		if decides(answer, candidacyWords, candidacyRefusals) {
			candidates = append(candidates, p)
			g.record(p, nil, "day", ActionCandidacy, VisibilityPublic, "%s runs for sheriff.", p.label())
		} else {
			g.record(p, nil, "day", ActionCandidacy, VisibilityPublic, "%s does not run.", p.label())
		}
	}

	switch len(candidates) {
	case 0:
		g.record(nil, nil, "day", ActionSheriffElected, VisibilityPublic, "Nobody runs. There is no sheriff this game.")
		return
	case 1:
		g.announceSheriff(candidates[0], "is the only candidate")
		return
	}

	// Campaign speeches.
	for _, c := range candidates {
		prompt := fmt.Sprintf("You are running for sheriff. Give your campaign speech (100 to 150 words).\n\n"+
			"Candidates: %s\n\n"+
			"Say why you should be sheriff. You may hint at or claim a role.", seatList(candidates))
		speech := g.ask(c, ActionCampaignSpeech, prompt, true, map[string]any{"sheriff_campaign": true})
		if speech == "" {
			speech = "(says nothing)"
		}
		g.record(c, nil, "day", ActionCampaignSpeech, VisibilityPublic, "Campaign speech of %s: %s", c.label(), speech)
		g.tellAlive(fmt.Sprintf("Sheriff campaign, %s said: %s", c.label(), truncate(speech, 80)), c)
	}

	// Withdrawal.
	var withdrawn []*Player
	for _, c := range candidates {
		prompt := fmt.Sprintf("Campaign speeches are over. You may withdraw from the sheriff race.\n\n"+
			"Candidates: %s (%d)\nWithdrawn so far: %d\n\n"+
			"Withdrawing can look suspicious; a real Seer rarely withdraws.\n"+
			"Answer withdraw or stay.", seatList(candidates), len(candidates), len(withdrawn))
		answer := g.ask(c, ActionWithdraw, prompt, false, map[string]any{"withdraw_decision": true})
		if decides(answer, withdrawWords, stayWords) {
			withdrawn = append(withdrawn, c)
			g.record(c, nil, "day", ActionWithdraw, VisibilityPublic, "%s withdraws from the race.", c.label())
			g.tellAlive(fmt.Sprintf("Sheriff campaign: %s withdrew", c.label()), nil)
		}
	}
	remaining := filterPlayers(candidates, func(p *Player) bool { return !containsPlayer(withdrawn, p) })

	switch len(remaining) {
	case 0:
		g.record(nil, nil, "day", ActionSheriffElected, VisibilityPublic, "Every candidate withdrew. There is no sheriff this game.")
		return
	case 1:
		g.announceSheriff(remaining[0], "is the last candidate standing")
		return
	}

	// Election vote by everyone not running.
	voters := filterPlayers(alive, func(p *Player) bool { return !containsPlayer(remaining, p) })
	if len(voters) == 0 {
		g.record(nil, nil, "day", ActionSheriffElected, VisibilityPublic, "Nobody is left to vote. The badge is lost.")
		return
	}

	tally := make(map[int]float64, len(remaining))
	for _, c := range remaining {
		tally[c.ID] = 0
	}
	for _, voter := range voters {
		prompt := fmt.Sprintf("Sheriff vote. You are not running, so you choose the sheriff.\n\n"+
			"Candidates: %s\n\nBased on the campaign speeches, answer with the seat number of your choice.", seatList(remaining))
		target := parseSeat(g.ask(voter, ActionSheriffVote, prompt, false, options(remaining)), remaining)
		if target == nil {
			g.record(voter, nil, "day", ActionSheriffVote, VisibilityPublic, "%s cast an invalid sheriff ballot.", voter.label())
			continue
		}
		tally[target.ID]++
		g.record(voter, target, "day", ActionSheriffVote, VisibilityPublic, "%s votes for %s as sheriff.", voter.label(), target.label())
	}

	lines := make([]string, len(remaining))
	for i, c := range remaining {
		lines[i] = fmt.Sprintf("  %s: %g", c.label(), tally[c.ID])
	}
	g.record(nil, nil, "day", ActionAnnouncement, VisibilityPublic, "Sheriff vote:\n%s", strings.Join(lines, "\n"))

	top := leaders(tally)
	reason := "wins the vote"
	if len(top) > 1 {
		reason = fmt.Sprintf("wins the tie between %v by lot", top)
	}
	g.announceSheriff(findPlayer(remaining, breakTie(g.rng, top)), reason)
}

func candidacyPrompt(p *Player, running int) string {
	var b strings.Builder
	b.WriteString("Sheriff election. ")
	if running == 0 {
		b.WriteString("Nobody has decided to run yet.\n")
	} else {
		fmt.Fprintf(&b, "%d player(s) already run.\n", running)
	}
	b.WriteString("\nThe sheriff's vote counts 1.5, the sheriff speaks last, and passes the badge on death. " +
		"The sheriff is also the werewolves' favorite target.\n")

	switch {
	case p.IsWerewolf():
		b.WriteString("As a werewolf: run if you plan to claim Seer. Avoid the whole pack running, or none of it.\n")
	case p.Role.Type == RoleSeer:
		b.WriteString("As the Seer: running lets you lead the village, unless the race is already crowded.\n")
	case p.Role.IsGod():
		b.WriteString("As a god role: running exposes you. Consider it only if few players run.\n")
	default:
		b.WriteString("As a villager: running can confuse the werewolves if few players run.\n")
	}
	b.WriteString("\nThree or four candidates is usual. Do you run for sheriff? Answer yes or no.")
	return b.String()
}

// announceSheriff hands the badge to p.
func (g *Game) announceSheriff(p *Player, reason string) {
	g.State.Sheriff = p
	g.record(p, p, "day", ActionSheriffElected, VisibilityPublic, "%s %s and becomes sheriff!", p.label(), reason)
	g.tellAlive(fmt.Sprintf("%s became sheriff", p.label()), nil)
}
