package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// dayPhase announces the night, runs last words, the sheriff election on day 1, the
// speeches and the exile vote. It stops as soon as the game is decided.
func (g *Game) dayPhase() {
	g.pauseFor("day")
	g.narrator.Banner(fmt.Sprintf("Day %d - the sun rises", g.State.DayCount))
	g.setStatus("day")

	g.announceDeaths()
	g.nightDeathAbilities()
	if g.checkGameOver() {
		return
	}
	g.lastWords()
	if g.checkGameOver() {
		return
	}

	if len(alivePlayers(g.Players)) < 2 {
		log.Warn().Int("day", g.State.DayCount).Msg("fewer than 2 seats alive, skipping the day")
		return
	}

	if g.State.DayCount == 1 && !g.State.SheriffElectionDone {
		g.pauseFor("sheriff election")
		g.sheriffElection()
	}

	g.speechPhase()

	g.pauseFor("vote")
	g.votePhase()
}

// announceDeaths reports last night's deaths and tells every living seat.
func (g *Game) announceDeaths() {
	deaths := g.State.LastNightDeaths
	if len(deaths) == 0 {
		g.record(nil, nil, "day", ActionNightDeath, VisibilityPublic, "Last night was peaceful. Nobody died.")
		g.tellAlive(fmt.Sprintf("Day %d: last night was peaceful", g.State.DayCount), nil)
		return
	}

	lines := make([]string, len(deaths))
	for i, p := range deaths {
		lines[i] = fmt.Sprintf("  %s - %s", p.label(), p.Name)
		if !containsPlayer(g.State.LastWordsQueue, p) {
			lines[i] += " (no last words)"
		}
	}
	g.record(nil, nil, "day", ActionNightDeath, VisibilityPublic, "Died last night:\n%s", strings.Join(lines, "\n"))
	g.tellAlive(fmt.Sprintf("Day %d: died last night: %s", g.State.DayCount, seatList(deaths)), nil)

	g.tellStory()
}

// nightDeathAbilities gives seats that died at night without last words their death
// abilities: the sheriff passes the badge, the Hunter shoots (unless poisoned).
func (g *Game) nightDeathAbilities() {
	for _, p := range g.State.LastNightDeaths {
		if containsPlayer(g.State.LastWordsQueue, p) {
			continue
		}
		if g.State.Sheriff == p {
			g.passBadge(p)
		}
		if p.Role.CanShoot() {
			g.hunterShoot(p)
			if g.checkGameOver() {
				return
			}
		}
	}
}

// lastWords drains the last-words queue in order. A Hunter shot that decides the game
// stops the queue.
func (g *Game) lastWords() {
	for len(g.State.LastWordsQueue) > 0 {
		p := g.State.LastWordsQueue[0]
		g.State.LastWordsQueue = g.State.LastWordsQueue[1:]

		speech := g.ask(p, ActionLastWords, lastWordsPrompt(p, alivePlayers(g.Players)), true,
			map[string]any{"last_words": true})
		if speech == "" {
			speech = "(silence)"
		}
		g.record(p, nil, "day", ActionLastWords, VisibilityPublic, "Last words of %s: %s", p.label(), speech)
		g.tellAlive(fmt.Sprintf("Last words of %s: %s", p.label(), truncate(speech, 100)), nil)

		if g.State.Sheriff == p {
			g.passBadge(p)
		}
		if p.Role.Type == RoleHunter && p.Role.CanShoot() {
			g.hunterShoot(p)
			if g.checkGameOver() {
				return
			}
		}
	}
}

func lastWordsPrompt(p *Player, alive []*Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s and you are dead. Give your last words.\n\nLiving players: %s\n\n", p.label(), seatList(alive))
	if p.IsWerewolf() {
		b.WriteString("You are a werewolf: these words are your last service to the pack.\n" +
			"- Never admit being a werewolf and never hint at your teammates.\n" +
			"- Keep the role you claimed until the end and mislead the village.\n")
	} else {
		b.WriteString("You may reveal your role and what you know, share your suspicions and suggest whom to exile.\n")
	}
	b.WriteString("Only living players can be voted for. Do not ask anyone to vote for you.")
	return b.String()
}

// hunterShoot lets the Hunter take one living seat along. The gun fires at most once;
// the shot seat dies during the day and gets last words.
func (g *Game) hunterShoot(hunter *Player) {
	targets := alivePlayers(g.Players)
	if len(targets) == 0 {
		return
	}
	hunter.Role.DisableShoot()

	prompt := fmt.Sprintf("You are the Hunter and may shoot one player now.\n\nLiving players:\n%s\n\n"+
		"Which player do you shoot? Answer with the seat number only.", seatLines(targets))
	target := parseSeat(g.ask(hunter, ActionHunterShoot, prompt, false, options(targets)), targets)
	if target == nil {
		g.record(hunter, nil, "day", ActionHunterShoot, VisibilityPublic, "The Hunter %s holds fire.", hunter.label())
		return
	}

	g.kill(target, CauseShoot)
	g.State.LastWordsQueue = append(g.State.LastWordsQueue, target)
	g.record(hunter, target, "day", ActionHunterShoot, VisibilityPublic, "The Hunter %s shoots %s!", hunter.label(), target.label())
	g.tellAlive(fmt.Sprintf("The Hunter %s shot %s", hunter.label(), target.label()), nil)
	g.tellStory()
}

// passBadge lets a dead sheriff hand the badge to a living seat or tear it up.
// A valid living heir always wins; any answer without one tears the badge up.
func (g *Game) passBadge(sheriff *Player) {
	heirs := alivePlayers(g.Players)
	if len(heirs) == 0 {
		g.State.Sheriff = nil
		return
	}

	prompt := fmt.Sprintf("You were the sheriff and you are dead. You may pass the badge to a living player.\n\n"+
		"Living players: %s\n\n"+
		"Answer with the seat number of your heir, or \"tear\" to tear up the badge.", seatList(heirs))
	answer := g.ask(sheriff, ActionBadgePass, prompt, false, options(heirs))
	heir := parseSeat(answer, heirs)

	if heir == nil {
		g.State.Sheriff = nil
		if mentions(answer, tearBadgeWords...) {
			g.record(sheriff, nil, "day", ActionBadgeTear, VisibilityPublic, "Sheriff %s tears up the badge. There is no sheriff anymore.", sheriff.label())
		} else {
			g.record(sheriff, nil, "day", ActionBadgeTear, VisibilityPublic, "Sheriff %s names no living heir, so the badge is torn up. There is no sheriff anymore.", sheriff.label())
		}
		g.tellAlive(fmt.Sprintf("Sheriff %s tore up the badge", sheriff.label()), nil)
		return
	}

	g.State.Sheriff = heir
	g.record(sheriff, heir, "day", ActionBadgePass, VisibilityPublic, "Sheriff %s passes the badge to %s.", sheriff.label(), heir.label())
	g.tellAlive(fmt.Sprintf("The badge passed from %s to %s", sheriff.label(), heir.label()), nil)
}

// ============================================================================
// Speeches
// ============================================================================

// speakingOrder lists the living seats clockwise starting after the first seat that died
// last night (seat order when nobody died). A living sheriff always speaks last.
func speakingOrder(players []*Player, firstDeath, sheriff *Player) []*Player {
	start := 0
	if firstDeath != nil {
		for i, p := range players {
			if p == firstDeath {
				start = i + 1
				break
			}
		}
	}

	var order []*Player
	for i := range players {
		p := players[(start+i)%len(players)]
		if p.IsAlive && p != sheriff {
			order = append(order, p)
		}
	}
	if sheriff != nil && sheriff.IsAlive {
		order = append(order, sheriff)
	}
	return order
}

// speechPhase gives every living seat one speech. Each speaker knows who already spoke
// and who is still to speak.
func (g *Game) speechPhase() {
	order := speakingOrder(g.Players, g.State.LastNightFirstDeath, g.State.Sheriff)
	if len(order) == 0 {
		return
	}

	intro := "Open discussion, in seat order."
	if first := g.State.LastNightFirstDeath; first != nil {
		intro = fmt.Sprintf("Open discussion, starting to the right of %s.", first.label())
	}
	if s := g.State.Sheriff; s != nil && s.IsAlive {
		intro += fmt.Sprintf(" Sheriff %s speaks last.", s.label())
	}
	g.record(nil, nil, "day", ActionAnnouncement, VisibilityPublic, "%s", intro)

	alive := alivePlayers(g.Players)
	for i, p := range order {
		var b strings.Builder
		fmt.Fprintf(&b, "Day %d discussion. Living players: %s\n", g.State.DayCount, seatList(alive))
		fmt.Fprintf(&b, "You speak in position %d of %d.\n", i+1, len(order))
		if i == 0 {
			b.WriteString("You are the first to speak.\n")
		} else {
			fmt.Fprintf(&b, "Already spoke: %s\n", seatList(order[:i]))
		}
		if i == len(order)-1 {
			b.WriteString("You are the last to speak.\n")
		} else {
			fmt.Fprintf(&b, "Still to speak: %s\n", seatList(order[i+1:]))
		}
		b.WriteString("\nYou only know what earlier speakers said. Share your reasoning, name your suspects, " +
			"defend yourself if needed and answer earlier speakers.")

		speech := g.ask(p, ActionSpeech, b.String(), true, map[string]any{
			"day":      g.State.DayCount,
			"position": i + 1,
			"total":    len(order),
		})
		if speech == "" {
			speech = "(passes)"
		}
		g.record(p, nil, "day", ActionSpeech, VisibilityPublic, "%s: %s", p.label(), speech)
		g.tellAlive(fmt.Sprintf("Day %d, %s said: %s", g.State.DayCount, p.label(), truncate(speech, 100)), p)
	}
}
