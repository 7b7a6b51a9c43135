package main

import (
	"fmt"
	"io"
	"strings"
)

// Narrator renders game text for whoever sits at the console. With no human seats
// everything is shown (spectator mode); otherwise an action is printed when at least
// one human seat is allowed to see it.
type Narrator struct {
	out    io.Writer
	humans []*Player
}

func newNarrator(out io.Writer, players []*Player) *Narrator {
	return &Narrator{out: out, humans: filterPlayers(players, func(p *Player) bool { return p.IsHuman })}
}

func (n *Narrator) spectator() bool {
	return len(n.humans) == 0
}

func (n *Narrator) visible(a GameAction) bool {
	if n.spectator() {
		return true
	}
	for _, h := range n.humans {
		if canSeeAction(a, h) {
			return true
		}
	}
	return false
}

// Show prints an action's description if the audience may see it.
func (n *Narrator) Show(a GameAction) {
	if n == nil || a.Description == "" || !n.visible(a) {
		return
	}
	prefix := ""
	switch a.Visibility {
	case VisibilityTeamWerewolf:
		prefix = "[wolves] "
	case VisibilityActor:
		prefix = fmt.Sprintf("[%s only] ", seatLabel(a.ActorSeat))
	}
	for i, line := range strings.Split(a.Description, "\n") {
		if i == 0 {
			fmt.Fprintf(n.out, "%s%s\n", prefix, line)
		} else {
			fmt.Fprintf(n.out, "    %s\n", line)
		}
	}
}

// Banner prints a public section header.
func (n *Narrator) Banner(title string) {
	if n == nil {
		return
	}
	line := strings.Repeat("=", 60)
	fmt.Fprintf(n.out, "\n%s\n%s\n%s\n", line, title, line)
}

// Stream writes raw text as it arrives (storyteller output).
func (n *Narrator) Stream(chunk string) {
	if n == nil {
		return
	}
	io.WriteString(n.out, chunk)
}
