package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test context
// ============================================================================

type testContext struct {
	t      *testing.T
	logger *TestLogger
}

// newTestContext sets up logging for one test. TEST_DEBUG=1 shows engine debug output.
func newTestContext(t *testing.T) *testContext {
	t.Helper()
	debug := os.Getenv("TEST_DEBUG") == "1"
	setupLogging(&testWriter{t: t}, debug)
	appLogger = &AppLogger{debug: debug}
	ctx := &testContext{t: t, logger: NewTestLogger(t)}
	t.Cleanup(ctx.cleanup)
	return ctx
}

// cleanup detaches the global loggers from t. Safe to call twice.
func (ctx *testContext) cleanup() {
	log.Logger = zerolog.Nop()
	appLogger = nil
}

// testWriter routes zerolog output through t.Log.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// ============================================================================
// Scripted seats
// ============================================================================

// scriptedDecider answers with a script function and remembers every request.
type scriptedDecider struct {
	script   func(req DecisionRequest) string
	err      error
	requests []DecisionRequest
}

func (d *scriptedDecider) Decide(_ context.Context, req DecisionRequest) (string, error) {
	d.requests = append(d.requests, req)
	if d.err != nil {
		return "", d.err
	}
	if d.script == nil {
		return "", nil
	}
	return d.script(req), nil
}

// asked returns the requests made for one action type.
func (d *scriptedDecider) asked(action string) []DecisionRequest {
	var out []DecisionRequest
	for _, r := range d.requests {
		if r.Action == action {
			out = append(out, r)
		}
	}
	return out
}

// byAction scripts fixed answers per action type; unknown actions get "".
func byAction(answers map[string]string) func(DecisionRequest) string {
	return func(req DecisionRequest) string {
		return answers[req.Action]
	}
}

// ============================================================================
// Test games
// ============================================================================

// seatingStandard puts the roles in seat order 1..9: wolves 1-3, Seer 4, Witch 5,
// Hunter 6, villagers 7-9.
var seatingStandard = []RoleType{
	RoleWerewolf, RoleWerewolf, RoleWerewolf,
	RoleSeer, RoleWitch, RoleHunter,
	RoleVillager, RoleVillager, RoleVillager,
}

type testGame struct {
	*Game
	ctx      *testContext
	deciders []*scriptedDecider // index seat-1
	out      *bytes.Buffer
}

// newTestGame seats nine scripted agents with the given roles in seat order and a
// fixed random seed. Nothing is journaled unless withJournal is called.
func newTestGame(ctx *testContext, roles []RoleType) *testGame {
	ctx.t.Helper()
	require.Len(ctx.t, roles, seatCount)

	tg := &testGame{ctx: ctx, out: &bytes.Buffer{}}
	players := make([]*Player, seatCount)
	for i, rt := range roles {
		d := &scriptedDecider{}
		tg.deciders = append(tg.deciders, d)
		players[i] = newPlayer(i+1, fmt.Sprintf("Agent %d", i+1), false, d)
		players[i].Role = newRole(rt)
	}

	tg.Game = &Game{
		ID:       "test-game",
		Players:  players,
		rng:      newRand(42),
		narrator: newNarrator(tg.out, players),
		ctx:      context.Background(),
	}
	return tg
}

// withJournal attaches an in-memory journal and stores the seats.
func (tg *testGame) withJournal() *testGame {
	tg.ctx.t.Helper()
	j := openTestJournal(tg.ctx.t)
	require.NoError(tg.ctx.t, j.StartGame(tg.ID, tg.Players))
	tg.journal = j
	return tg
}

func (tg *testGame) seat(id int) *Player {
	return tg.Players[id-1]
}

func (tg *testGame) decider(id int) *scriptedDecider {
	return tg.deciders[id-1]
}

// script sets the answers of one seat.
func (tg *testGame) script(id int, fn func(DecisionRequest) string) {
	tg.deciders[id-1].script = fn
}

// scriptAll sets the same answers for every seat.
func (tg *testGame) scriptAll(fn func(DecisionRequest) string) {
	for _, d := range tg.deciders {
		d.script = fn
	}
}

// killSeat marks a seat dead without running any phase logic.
func (tg *testGame) killSeat(id int, cause DeathCause) {
	tg.seat(id).die(cause)
}

func (tg *testGame) output() string {
	return tg.out.String()
}

// openTestJournal opens a private in-memory journal closed at the end of the test.
func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := openJournal(fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}
