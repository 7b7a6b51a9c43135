package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// witchNight is what the Witch knew and did tonight. The engine always knows the
// kill target; ToldKillTarget records whether the Witch was shown it.
type witchNight struct {
	KillTarget     *Player // nil once the antidote was used
	PoisonTarget   *Player
	ToldKillTarget bool
	UsedAntidote   bool
}

// nightPhase runs the werewolves, the Seer and the Witch in that order, then applies
// the night's deaths.
func (g *Game) nightPhase() {
	g.pauseFor("night")
	g.narrator.Banner(fmt.Sprintf("Night %d - everyone closes their eyes", g.State.DayCount))
	g.setStatus("night")

	kill := g.werewolvesAction()
	g.seerAction()
	w := g.witchAction(kill)
	g.processNightDeaths(w.KillTarget, w.PoisonTarget)
}

// ============================================================================
// Werewolves
// ============================================================================

// werewolvesAction returns tonight's victim. Each living werewolf names one target
// (one vote each); the most named target wins and ties are broken at random. When no
// werewolf produced a usable target a random one is chosen: the pack always kills.
func (g *Game) werewolvesAction() *Player {
	alive := alivePlayers(g.Players)
	wolves := filterPlayers(alive, (*Player).IsWerewolf)
	if len(wolves) == 0 {
		return nil
	}
	targets := filterPlayers(alive, func(p *Player) bool { return !p.IsWerewolf() })
	if len(targets) == 0 {
		log.Warn().Int("day", g.State.DayCount).Msg("no werewolf target left, skipping kill")
		return nil
	}

	g.record(nil, nil, "night", ActionAnnouncement, VisibilityTeamWerewolf,
		"The werewolves (%s) open their eyes.", seatList(wolves))

	info := options(targets)
	info["werewolves"] = seatIDs(wolves)
	info["alive"] = seatIDs(alive)

	tally := make(map[int]float64)
	for _, wolf := range wolves {
		answer := g.ask(wolf, ActionWerewolfVote, wolfTargetPrompt(wolf, wolves, targets), false, info)
		target := parseSeat(answer, targets)
		if target == nil {
			g.record(wolf, nil, "night", ActionWerewolfVote, VisibilityTeamWerewolf,
				"%s did not name a valid target.", wolf.label())
			continue
		}
		tally[target.ID]++
		g.record(wolf, target, "night", ActionWerewolfVote, VisibilityTeamWerewolf,
			"%s wants to kill %s: %s", wolf.label(), target.label(), truncate(answer, 150))
	}

	var victim *Player
	if len(tally) > 0 {
		victim = findPlayer(targets, breakTie(g.rng, leaders(tally)))
	} else {
		victim = pickPlayer(g.rng, targets)
		log.Warn().Int("victim", victim.ID).Msg("no usable werewolf vote, choosing a random victim")
	}

	g.record(nil, victim, "night", ActionWerewolfKill, VisibilityTeamWerewolf,
		"The werewolves decide to kill %s.", victim.label())
	for _, wolf := range wolves {
		wolf.AddMemory(fmt.Sprintf("Night %d: we killed %s", g.State.DayCount, victim.label()))
	}

	if len(wolves) > 1 {
		g.werewolfPlans(wolves, victim)
	}
	return victim
}

func wolfTargetPrompt(wolf *Player, wolves, targets []*Player) string {
	var b strings.Builder
	b.WriteString("It is the werewolves' turn.")
	if len(wolves) == 1 {
		b.WriteString(" You are the only werewolf left alive.")
	} else {
		teammates := filterPlayers(wolves, func(w *Player) bool { return w != wolf })
		fmt.Fprintf(&b, "\nYour fellow werewolves: %s", seatList(teammates))
	}
	fmt.Fprintf(&b, "\n\nLiving players who are not werewolves:\n%s\n", seatLines(targets))
	b.WriteString("\nThe werewolves must kill one of them tonight. Explain your tactic in one short sentence, " +
		"then name the target seat (example: \"Tactic: go for the gods first. Target: 4\").")
	return b.String()
}

// werewolfPlans asks every werewolf for tomorrow's plan and shares each answer with the
// pack. It changes nothing in the game state.
func (g *Game) werewolfPlans(wolves []*Player, victim *Player) {
	survivors := filterPlayers(alivePlayers(g.Players), func(p *Player) bool { return p != victim })
	good := filterPlayers(survivors, func(p *Player) bool { return !p.IsWerewolf() })

	for _, wolf := range wolves {
		teammates := filterPlayers(wolves, func(w *Player) bool { return w != wolf })
		var b strings.Builder
		fmt.Fprintf(&b, "You just decided to kill %s. Plan tomorrow (day %d).\n", victim.label(), g.State.DayCount)
		fmt.Fprintf(&b, "Your fellow werewolves: %s\n", seatList(teammates))
		fmt.Fprintf(&b, "Expected survivors: %s\n", seatList(survivors))
		fmt.Fprintf(&b, "Expected balance: %d werewolves vs %d villagers\n", len(wolves), len(good))
		if g.State.night() == 0 {
			b.WriteString("\nTomorrow starts with the sheriff election. Decide who of the pack runs for sheriff, " +
				"who claims a role and who stays quiet. Do not all run, and do not all stay out.\n")
		}
		b.WriteString("\nIn at most 150 words: your claim (if any), who to push for exile and why, " +
			"and whether to keep hiding or push openly.")

		plan := g.ask(wolf, ActionWerewolfPlan, b.String(), true, map[string]any{
			"werewolves": seatIDs(wolves),
			"alive":      seatIDs(survivors),
			"killed":     victim.ID,
			"next_day":   g.State.DayCount,
		})
		if plan == "" {
			continue
		}
		g.record(wolf, nil, "night", ActionWerewolfPlan, VisibilityTeamWerewolf, "%s's plan: %s", wolf.label(), plan)
		for _, w := range wolves {
			w.AddMemory(fmt.Sprintf("Night %d pack plan from %s: %s", g.State.DayCount, wolf.label(), truncate(plan, 150)))
		}
	}
}

// ============================================================================
// Seer
// ============================================================================

// seerAction lets the living Seer inspect one other living seat.
func (g *Game) seerAction() {
	seer := g.aliveRole(RoleSeer)
	if seer == nil {
		return
	}
	others := aliveExcept(g.Players, seer)
	if len(others) == 0 {
		return
	}

	prompt := fmt.Sprintf("It is the Seer's turn.\n\nOther living players:\n%s\n\n"+
		"Which player do you inspect? Answer with the seat number only.", seatLines(others))
	target := parseSeat(g.ask(seer, ActionSeerInspect, prompt, false, options(others)), others)
	if target == nil {
		g.record(seer, nil, "night", ActionSeerInspect, VisibilityActor, "The Seer inspects nobody tonight.")
		return
	}

	result := "a villager"
	if target.IsWerewolf() {
		result = "a werewolf"
	}
	seer.AddMemory(fmt.Sprintf("Night %d: I inspected %s, who is %s", g.State.DayCount, target.label(), result))
	g.record(seer, target, "night", ActionSeerInspect, VisibilityActor, "Inspection result: %s is %s.", target.label(), result)
}

// ============================================================================
// Witch
// ============================================================================

// witchAction offers the antidote (only when the Witch may save the victim) and then,
// if no potion was used tonight, the poison.
func (g *Game) witchAction(kill *Player) witchNight {
	w := witchNight{KillTarget: kill}
	witch := g.aliveRole(RoleWitch)
	if witch == nil {
		return w
	}
	potions := witch.Role.Witch

	if potions.HasAntidote && kill != nil {
		if kill == witch && potions.CannotSaveSelf {
			DebugLog("witchAction", "%s is the victim and may not self-save", witch.label())
		} else {
			w.ToldKillTarget = true
			prompt := fmt.Sprintf("%s was attacked by the werewolves tonight.\n"+
				"You still have your antidote. Do you use it to save them? (answer yes or no)", kill.label())
			answer := g.ask(witch, ActionWitchHeal, prompt, false, map[string]any{"attacked": kill.ID})

			if decides(answer, antidoteWords, antidoteRefusals) && witch.Role.UseAntidote() {
				w.UsedAntidote = true
				w.KillTarget = nil
				witch.AddMemory(fmt.Sprintf("Night %d: I used the antidote to save %s", g.State.DayCount, kill.label()))
				g.record(witch, kill, "night", ActionWitchHeal, VisibilityActor, "You save %s with the antidote.", kill.label())
			} else {
				witch.AddMemory(fmt.Sprintf("Night %d: %s was attacked and I did not use the antidote", g.State.DayCount, kill.label()))
				g.record(witch, nil, "night", ActionWitchPass, VisibilityActor, "You keep the antidote.")
			}
		}
	}

	if !potions.HasPoison || w.UsedAntidote {
		return w
	}

	others := aliveExcept(g.Players, witch)
	if len(others) == 0 {
		return w
	}
	var b strings.Builder
	if w.ToldKillTarget {
		fmt.Fprintf(&b, "%s was attacked by the werewolves tonight.\n", kill.label())
	} else {
		b.WriteString("You do not know who was attacked tonight.\n")
	}
	fmt.Fprintf(&b, "You still have your poison. Do you poison someone? Answer with a seat number, or no.\n\n"+
		"Other living players:\n%s", seatLines(others))

	answer := g.ask(witch, ActionWitchPoison, b.String(), false, options(others))
	target := parseSeat(answer, others)
	if target == nil || mentions(answer, "no", "decline", "否") {
		return w
	}
	if witch.Role.UsePoison() {
		w.PoisonTarget = target
		witch.AddMemory(fmt.Sprintf("Night %d: I poisoned %s", g.State.DayCount, target.label()))
		g.record(witch, target, "night", ActionWitchPoison, VisibilityActor, "You poison %s.", target.label())
	}
	return w
}

// aliveRole returns the first living seat holding the role.
func (g *Game) aliveRole(t RoleType) *Player {
	for _, p := range g.Players {
		if p.IsAlive && p.Role.Type == t {
			return p
		}
	}
	return nil
}
