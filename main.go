package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const welcome = `
============================================================
  Werewolf - 9 seats
  3 Werewolves, Seer, Witch, Hunter, 3 Villagers
============================================================`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole CLI: it returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("werewolf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fv := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	setupLogging(stderr, false)
	cfg := loadConfig(*fv.configPath)
	fv.applyTo(fs, &cfg)
	setupLogging(stderr, cfg.LogDebug || cfg.Dev)

	if err := InitAppLogger(cfg.toLogConfig()); err != nil {
		logError("init app logger", err)
		return 1
	}
	defer CloseAppLogger()
	if appLogger.IsEnabled() {
		log.Info().Msg("extended logging enabled")
	}

	in := bufio.NewReader(stdin)
	fmt.Fprintln(stdout, welcome)

	humans := cfg.Humans
	if humans < 0 || humans > seatCount {
		if humans != -1 {
			log.Warn().Int("humans", humans).Msg("human seat count must be 0-9")
		}
		humans = askHumans(in, stdout)
	}

	journal, err := openJournal(cfg.DB)
	if err != nil {
		logError("open journal", err)
		return 1
	}
	defer journal.Close()

	rng := newRand(cfg.Seed)
	agents := newAgentFactory(cfg, rng)
	players, err := createPlayers(humans, newConsoleDecider(in, stdout), agents.forSeat)
	if err != nil {
		logError("create players", err)
		return 1
	}

	opts := GameOptions{
		Rand:        rng,
		Narrator:    newNarrator(stdout, players),
		Journal:     journal,
		Storyteller: initStoryteller(cfg),
	}
	if cfg.Confirm {
		opts.Pause = func(phase string) {
			fmt.Fprintf(stdout, "\n[Enter to start the %s] ", phase)
			in.ReadString('\n')
		}
	}

	game, err := newGame(players, opts)
	if err != nil {
		logError("new game", err)
		return 1
	}
	log.Info().Str("game", game.ID).Int("humans", humans).Str("agents", cfg.AgentProvider).Msg("game starting")

	if err := game.Run(context.Background()); err != nil {
		logError("run game", err)
		return 1
	}

	printReveal(stdout, game)
	return 0
}

// askHumans reads the number of human seats. End of input means no humans.
func askHumans(in *bufio.Reader, out io.Writer) int {
	for {
		fmt.Fprint(out, "\nHow many human players (0-9)? ")
		line, err := in.ReadString('\n')
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil && n >= 0 && n <= seatCount {
			return n
		}
		if err != nil {
			fmt.Fprintln(out, "\nNo answer, all seats are agents.")
			return 0
		}
		fmt.Fprintln(out, "Please enter a number between 0 and 9.")
	}
}

// printReveal prints every seat's role, camp and fate, and the winner.
func printReveal(out io.Writer, g *Game) {
	votes, err := g.journal.VoteCounts(g.ID, ActionDayVote)
	if err != nil {
		logError("printReveal: vote counts", err)
	}

	fmt.Fprintln(out, "\nRole reveal:")
	for _, s := range g.revealRecords() {
		status := "alive"
		if !s.IsAlive {
			status = "dead (" + s.DeathCause + ")"
		}
		line := fmt.Sprintf("  %s - %s: %s [%s camp] %s", seatLabel(s.Seat), s.Name, s.Role, s.Team, status)
		if n := votes[s.Seat]; n > 0 {
			line += fmt.Sprintf(", %d exile vote(s) received", n)
		}
		fmt.Fprintln(out, line)
	}

	switch g.State.Winner {
	case CampVillager:
		fmt.Fprintln(out, "\nThe villagers win!")
	case CampWerewolf:
		fmt.Fprintln(out, "\nThe werewolves win!")
	}
}
