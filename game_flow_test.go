package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestEvaluateWinner(t *testing.T) {
	cases := []struct {
		name   string
		dead   []int
		winner Camp
		over   bool
	}{
		{"everyone alive", nil, CampNone, false},
		{"all werewolves dead", []int{1, 2, 3}, CampVillager, true},
		{"all gods dead", []int{4, 5, 6}, CampWerewolf, true},
		{"all villagers dead", []int{7, 8, 9}, CampWerewolf, true},
		{"one of each left", []int{2, 3, 5, 6, 8, 9}, CampNone, false},
		{"werewolves checked first", []int{1, 2, 3, 4, 5, 6}, CampVillager, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			players := make([]*Player, seatCount)
			for i, rt := range seatingStandard {
				players[i] = newPlayer(i+1, "", false, nil)
				players[i].Role = newRole(rt)
			}
			for _, id := range c.dead {
				players[id-1].die(CauseVote)
			}
			winner, over := evaluateWinner(players)
			require.Equal(t, c.over, over)
			require.Equal(t, c.winner, winner)
		})
	}
}

func TestCreatePlayers(t *testing.T) {
	human := &scriptedDecider{}
	players, err := createPlayers(2, human, func(int) (Decider, error) { return &scriptedDecider{}, nil })
	require.NoError(t, err)
	require.Len(t, players, seatCount)

	require.Equal(t, "Human 1", players[0].Name)
	require.True(t, players[1].IsHuman)
	require.Equal(t, "Agent 3", players[2].Name)
	require.False(t, players[8].IsHuman)
	for i, p := range players {
		require.Equal(t, i+1, p.ID)
		require.True(t, p.IsAlive)
	}

	_, err = createPlayers(10, human, nil)
	require.ErrorIs(t, err, ErrSeatCount)

	boom := errors.New("no backend")
	_, err = createPlayers(0, nil, func(seat int) (Decider, error) {
		if seat == 4 {
			return nil, boom
		}
		return &scriptedDecider{}, nil
	})
	require.ErrorIs(t, err, boom)
}

func TestNewGameRejectsWrongSeatCount(t *testing.T) {
	_, err := newGame(seats(1, 2, 3), GameOptions{Rand: newRand(1)})
	require.ErrorIs(t, err, ErrSeatCount)
}

func TestIntroduceTellsWerewolvesTheirPack(t *testing.T) {
	ctx := newTestContext(t)
	tg := newTestGame(ctx, seatingStandard)

	tg.introduce()

	require.Contains(t, tg.seat(1).Memory(), "My fellow werewolves: Player 2, Player 3")
	require.Empty(t, tg.seat(4).Memory())
	require.Contains(t, tg.output(), "[Player 5 only] Your role:")
	require.Contains(t, tg.output(), "Player 9 - Agent 9 (agent)")
}

func TestAskFallsBackOnDecisionError(t *testing.T) {
	ctx := newTestContext(t)
	tg := newTestGame(ctx, seatingStandard)
	tg.decider(3).err = errors.New("timeout")

	require.Equal(t, "", tg.ask(tg.seat(3), ActionDayVote, "vote", false, nil))

	tg.script(4, func(DecisionRequest) string { return "  7 \n" })
	require.Equal(t, "7", tg.ask(tg.seat(4), ActionDayVote, "vote", false, nil))

	req := tg.decider(4).requests[0]
	require.Equal(t, 4, req.Seat)
	require.Equal(t, ActionDayVote, req.Action)
	require.Equal(t, tg.seat(4).Role.Description(), req.RoleDescription)
}

// randomGame builds a game of nine offline agents sharing one seeded source.
func randomGame(t *testing.T, seed uint64, journal *Journal) (*Game, *bytes.Buffer) {
	t.Helper()
	rng := newRand(seed)
	players, err := createPlayers(0, nil, func(int) (Decider, error) { return &randomDecider{rng: rng}, nil })
	require.NoError(t, err)

	out := &bytes.Buffer{}
	g, err := newGame(players, GameOptions{
		Rand:     rng,
		Narrator: newNarrator(out, players),
		Journal:  journal,
	})
	require.NoError(t, err)
	return g, out
}

func TestRunPlaysToTheEnd(t *testing.T) {
	ctx := newTestContext(t)
	journal := openTestJournal(t)
	g, out := randomGame(t, 7, journal)

	require.NoError(t, g.Run(context.Background()))

	require.True(t, g.State.GameOver)
	winner, over := evaluateWinner(g.Players)
	require.True(t, over)
	require.Equal(t, winner, g.State.Winner)
	require.Contains(t, out.String(), "Game over")
	ctx.logger.Debug("game %s ended on day %d, winner %s", g.ID, g.State.DayCount, g.State.Winner)

	seats, err := journal.Reveal(g.ID)
	require.NoError(t, err)
	require.Len(t, seats, seatCount)
	for i, s := range seats {
		require.Equal(t, g.Players[i].IsAlive, s.IsAlive)
		require.Equal(t, string(g.Players[i].DeathCause), s.DeathCause)
	}
	require.Equal(t, seats, g.revealRecords())

	history, err := journal.PublicHistory(g.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
}

func TestRunAlwaysTerminates(t *testing.T) {
	ctx := newTestContext(t)

	f := func(seed uint64) bool {
		g, _ := randomGame(t, seed|1, nil)
		if err := g.Run(context.Background()); err != nil {
			return false
		}
		winner, over := evaluateWinner(g.Players)
		ctx.logger.Debug("seed %d: %s after day %d", seed|1, winner, g.State.DayCount)
		return over && g.State.GameOver && winner == g.State.Winner && g.State.DayCount <= seatCount
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 25}); err != nil {
		t.Error(err)
	}
}

func TestSameSeedReplaysTheSameGame(t *testing.T) {
	newTestContext(t)

	g1, out1 := randomGame(t, 99, nil)
	require.NoError(t, g1.Run(context.Background()))
	g2, out2 := randomGame(t, 99, nil)
	require.NoError(t, g2.Run(context.Background()))

	require.Equal(t, out1.String(), out2.String())
}

func TestRunRecoversFromPanic(t *testing.T) {
	ctx := newTestContext(t)
	tg := newTestGame(ctx, seatingStandard)
	tg.scriptAll(func(DecisionRequest) string { panic("controller crashed") })

	err := tg.Run(context.Background())

	require.Error(t, err)
	require.Contains(t, err.Error(), "controller crashed")
}

func TestRevealWithoutJournal(t *testing.T) {
	ctx := newTestContext(t)
	tg := newTestGame(ctx, seatingStandard)
	tg.killSeat(2, CausePoison)

	seats := tg.revealRecords()

	require.Len(t, seats, seatCount)
	require.Equal(t, "werewolf", seats[1].Role)
	require.Equal(t, "werewolf", seats[1].Team)
	require.False(t, seats[1].IsAlive)
	require.Equal(t, "poison", seats[1].DeathCause)
}
