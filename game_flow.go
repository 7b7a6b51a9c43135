package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrSeatCount is returned when a game is not set up with exactly nine seats.
var ErrSeatCount = errors.New("a game needs exactly 9 seats")

// GameState is everything the engine tracks between phases.
type GameState struct {
	DayCount            int     // incremented at the top of every night/day cycle; the first night is night 0
	Sheriff             *Player // may point at a dead seat until the badge is passed or torn
	SheriffElectionDone bool
	LastWordsQueue      []*Player // FIFO
	LastNightFirstDeath *Player
	LastNightDeaths     []*Player
	Winner              Camp
	GameOver            bool
}

// night returns the index of the current night, 0 for the first.
func (s GameState) night() int {
	return s.DayCount - 1
}

// Game owns one run: the seats, the state and the collaborators phases talk to.
type Game struct {
	ID      string
	Players []*Player // seat order
	State   GameState

	rng         Rand
	narrator    *Narrator
	journal     *Journal
	storyteller Storyteller
	pause       func(phase string)
	ctx         context.Context
}

// GameOptions are the collaborators of a game. Only Rand is required.
type GameOptions struct {
	Rand        Rand
	Narrator    *Narrator
	Journal     *Journal
	Storyteller Storyteller
	Pause       func(phase string) // called before each major phase
}

// createPlayers builds the nine seats: humans first, then agents.
func createPlayers(humans int, human Decider, agentFor func(seat int) (Decider, error)) ([]*Player, error) {
	if humans < 0 || humans > seatCount {
		return nil, fmt.Errorf("%w: %d human seats requested", ErrSeatCount, humans)
	}
	players := make([]*Player, 0, seatCount)
	for id := 1; id <= seatCount; id++ {
		if id <= humans {
			players = append(players, newPlayer(id, fmt.Sprintf("Human %d", id), true, human))
			continue
		}
		d, err := agentFor(id)
		if err != nil {
			return nil, fmt.Errorf("agent for seat %d: %w", id, err)
		}
		players = append(players, newPlayer(id, fmt.Sprintf("Agent %d", id), false, d))
	}
	return players, nil
}

// newGame deals the standard roles over the seats with a uniform random permutation.
func newGame(players []*Player, opts GameOptions) (*Game, error) {
	if len(players) != seatCount {
		return nil, fmt.Errorf("%w: got %d", ErrSeatCount, len(players))
	}
	if opts.Rand == nil {
		opts.Rand = newRand(0)
	}

	pool := make([]RoleType, len(standardRoles))
	copy(pool, standardRoles)
	shuffleRoles(opts.Rand, pool)
	for i, p := range players {
		p.Role = newRole(pool[i])
	}

	g := &Game{
		ID:          uuid.NewString(),
		Players:     players,
		rng:         opts.Rand,
		narrator:    opts.Narrator,
		journal:     opts.Journal,
		storyteller: opts.Storyteller,
		pause:       opts.Pause,
		ctx:         context.Background(),
	}
	log.Info().Str("game", g.ID).Msg("roles dealt")
	return g, nil
}

// Run plays the game to the end. A panic inside the loop is reported and returned
// as an error; there is no resume.
func (g *Game) Run(ctx context.Context) (err error) {
	g.ctx = ctx
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("game %s aborted on day %d: %v", g.ID, g.State.DayCount, r)
			logError("Run", err)
			LogJournalState(g.journal, "after fault")
		}
	}()

	if err := g.journal.StartGame(g.ID, g.Players); err != nil {
		return fmt.Errorf("journal start: %w", err)
	}
	g.introduce()

	for !g.State.GameOver {
		g.State.DayCount++
		log.Info().Int("day", g.State.DayCount).Msg("cycle started")

		g.nightPhase()
		if g.checkGameOver() {
			break
		}

		g.dayPhase()
		if g.checkGameOver() {
			break
		}
	}

	g.endGame()
	return nil
}

// introduce shows every seat its own role card; werewolves also learn their pack.
func (g *Game) introduce() {
	g.narrator.Banner("Werewolf - 9 seats")
	lines := make([]string, len(g.Players))
	for i, p := range g.Players {
		kind := "agent"
		if p.IsHuman {
			kind = "human"
		}
		lines[i] = fmt.Sprintf("%s - %s (%s)", p.label(), p.Name, kind)
	}
	g.record(nil, nil, "setup", ActionAnnouncement, VisibilityPublic, "Seats:\n%s", strings.Join(lines, "\n"))

	wolves := filterPlayers(g.Players, (*Player).IsWerewolf)
	for _, p := range g.Players {
		card := fmt.Sprintf("Your role:\n%s\nYou sit in seat %d.", p.Role.Description(), p.ID)
		if p.IsWerewolf() {
			card += "\nYour fellow werewolves: " + seatList(filterPlayers(wolves, func(w *Player) bool { return w != p }))
		}
		g.record(p, nil, "setup", ActionAnnouncement, VisibilityActor, "%s", card)
		if p.IsWerewolf() {
			p.AddMemory("My fellow werewolves: " + seatList(filterPlayers(wolves, func(w *Player) bool { return w != p })))
		}
	}
}

// ============================================================================
// Win evaluation
// ============================================================================

// evaluateWinner is a pure function of the living seats: villagers win when no
// werewolf is left, werewolves win when every god or every plain villager is dead.
func evaluateWinner(players []*Player) (Camp, bool) {
	var wolves, gods, villagers int
	for _, p := range players {
		if !p.IsAlive {
			continue
		}
		switch {
		case p.IsWerewolf():
			wolves++
		case p.Role.IsGod():
			gods++
		case p.Role.Type == RoleVillager:
			villagers++
		}
	}

	if wolves == 0 {
		return CampVillager, true
	}
	if gods == 0 || villagers == 0 {
		return CampWerewolf, true
	}
	return CampNone, false
}

// checkGameOver evaluates the winner and records it once decided.
func (g *Game) checkGameOver() bool {
	if g.State.GameOver {
		return true
	}
	winner, over := evaluateWinner(g.Players)
	if !over {
		return false
	}
	g.State.GameOver = true
	g.State.Winner = winner
	log.Info().Str("winner", string(winner)).Int("day", g.State.DayCount).Msg("game decided")
	return true
}

// endGame marks the game as finished with a winner
func (g *Game) endGame() {
	g.narrator.Banner("Game over")
	winner := "The villagers win!"
	if g.State.Winner == CampWerewolf {
		winner = "The werewolves win!"
	}
	g.record(nil, nil, "end", ActionGameOver, VisibilityPublic, "%s", winner)

	if err := g.journal.SetStatus(g.ID, "finished", g.State.DayCount, g.State.Winner); err != nil {
		logError("endGame: set status", err)
	}
	DebugLog("endGame", "Game %s finished, winner: %s", g.ID, g.State.Winner)
	LogJournalState(g.journal, "after game end")
}

// revealRecords returns every seat's final role and status, from the journal when one is kept.
func (g *Game) revealRecords() []SeatRecord {
	if g.journal != nil {
		seats, err := g.journal.Reveal(g.ID)
		if err == nil {
			return seats
		}
		logError("revealRecords", err)
	}
	seats := make([]SeatRecord, len(g.Players))
	for i, p := range g.Players {
		seats[i] = SeatRecord{
			Seat:       p.ID,
			Name:       p.Name,
			Role:       string(p.Role.Type),
			Team:       string(p.Team()),
			IsHuman:    p.IsHuman,
			IsAlive:    p.IsAlive,
			DeathCause: string(p.DeathCause),
		}
	}
	return seats
}

// ============================================================================
// Shared phase helpers
// ============================================================================

// ask consults a seat's controller. Failures are logged and read as "no decision".
func (g *Game) ask(p *Player, action, prompt string, speech bool, info map[string]any) string {
	if p.decider == nil {
		return ""
	}
	req := DecisionRequest{
		Seat:            p.ID,
		Name:            p.Name,
		Action:          action,
		RoleDescription: p.Role.Description(),
		Memory:          p.Memory(),
		Prompt:          prompt,
		Speech:          speech,
		Context:         info,
	}
	answer, err := p.decider.Decide(g.ctx, req)
	if err != nil {
		log.Warn().Err(err).Int("seat", p.ID).Str("action", action).Msg("decision failed, using fallback")
		return ""
	}
	answer = strings.TrimSpace(answer)
	DebugLog("ask", "%s %s -> %q", p.label(), action, truncate(answer, 80))
	return answer
}

// options is the decision context for picking one of the given seats.
func options(players []*Player) map[string]any {
	return map[string]any{"options": seatIDs(players)}
}

// record narrates an action and stores it in the journal.
func (g *Game) record(actor, target *Player, phase, actionType, visibility, format string, args ...any) {
	a := GameAction{
		GameID:      g.ID,
		Day:         g.State.DayCount,
		Phase:       phase,
		ActionType:  actionType,
		Visibility:  visibility,
		Description: fmt.Sprintf(format, args...),
	}
	if actor != nil {
		a.ActorSeat = actor.ID
	}
	if target != nil {
		id := target.ID
		a.TargetSeat = &id
	}
	g.narrator.Show(a)
	if err := g.journal.Record(a); err != nil {
		logError("record "+actionType, err)
	}
}

// kill marks a seat dead.
func (g *Game) kill(p *Player, cause DeathCause) {
	p.die(cause)
	if err := g.journal.UpdateSeat(g.ID, p); err != nil {
		logError("kill: update seat", err)
	}
	DebugLog("kill", "%s died (%s)", p.label(), cause)
}

// tellAlive appends an entry to the memory of every living seat except one.
func (g *Game) tellAlive(entry string, except *Player) {
	for _, p := range g.Players {
		if p.IsAlive && p != except {
			p.AddMemory(entry)
		}
	}
}

func (g *Game) setStatus(status string) {
	if err := g.journal.SetStatus(g.ID, status, g.State.DayCount, g.State.Winner); err != nil {
		logError("setStatus "+status, err)
	}
}

func (g *Game) pauseFor(phase string) {
	if g.pause != nil {
		g.pause(phase)
	}
}

// leaders returns the ids with the highest total, in ascending order.
func leaders(tally map[int]float64) []int {
	var best []int
	max := 0.0
	for id, total := range tally {
		switch {
		case len(best) == 0 || total > max:
			best = []int{id}
			max = total
		case total == max:
			best = append(best, id)
		}
	}
	sort.Ints(best)
	return best
}

// breakTie picks uniformly among tied ids.
func breakTie(rng Rand, ids []int) int {
	if len(ids) == 1 {
		return ids[0]
	}
	return ids[rng.Intn(len(ids))]
}
