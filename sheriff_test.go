package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// electionScript answers the candidacy and withdrawal questions per seat and the
// sheriff ballot for everyone.
func electionScript(tg *testGame, run map[int]bool, withdraw map[int]bool, ballots map[int]string) {
	for _, p := range tg.Players {
		id := p.ID
		tg.script(id, func(req DecisionRequest) string {
			switch req.Action {
			case ActionCandidacy:
				if run[id] {
					return "yes, I run"
				}
				return "no"
			case ActionCampaignSpeech:
				return "Trust me, I am the Seer."
			case ActionWithdraw:
				if withdraw[id] {
					return "withdraw"
				}
				return "stay"
			case ActionSheriffVote:
				return ballots[id]
			}
			return ""
		})
	}
}

func firstDay(tg *testGame) *testGame {
	tg.State.DayCount = 1
	return tg
}

func TestSheriffNobodyRuns(t *testing.T) {
	ctx := newTestContext(t)
	tg := firstDay(newTestGame(ctx, seatingStandard))
	electionScript(tg, nil, nil, nil)

	tg.sheriffElection()

	require.True(t, tg.State.SheriffElectionDone)
	require.Nil(t, tg.State.Sheriff)
	require.Contains(t, tg.output(), "Nobody runs. There is no sheriff this game.")
}

func TestSheriffSingleCandidateWinsUnopposed(t *testing.T) {
	ctx := newTestContext(t)
	tg := firstDay(newTestGame(ctx, seatingStandard))
	electionScript(tg, map[int]bool{4: true}, nil, nil)

	tg.sheriffElection()

	require.Equal(t, tg.seat(4), tg.State.Sheriff)
	require.Empty(t, tg.decider(4).asked(ActionCampaignSpeech))
	require.Contains(t, tg.seat(1).Memory(), "Player 4 became sheriff")
}

func TestCandidacyReadsPlainAnswers(t *testing.T) {
	ctx := newTestContext(t)
	tg := firstDay(newTestGame(ctx, seatingStandard))
	tg.scriptAll(byAction(map[string]string{ActionCandidacy: "I won't run this time."}))
	tg.script(2, byAction(map[string]string{ActionCandidacy: "不上警"}))
	tg.script(6, byAction(map[string]string{ActionCandidacy: "Yes, I run. Not all of us should stay out."}))

	tg.sheriffElection()

	require.Equal(t, tg.seat(6), tg.State.Sheriff)
	require.Contains(t, tg.output(), "Player 2 does not run.")
}

func TestSheriffEveryCandidateWithdraws(t *testing.T) {
	ctx := newTestContext(t)
	tg := firstDay(newTestGame(ctx, seatingStandard))
	electionScript(tg, map[int]bool{4: true, 5: true}, map[int]bool{4: true, 5: true}, nil)

	tg.sheriffElection()

	require.Nil(t, tg.State.Sheriff)
	require.True(t, tg.State.SheriffElectionDone)
	for _, d := range tg.deciders {
		require.Empty(t, d.asked(ActionSheriffVote))
	}
}

func TestSheriffLastCandidateStanding(t *testing.T) {
	ctx := newTestContext(t)
	tg := firstDay(newTestGame(ctx, seatingStandard))
	electionScript(tg, map[int]bool{4: true, 5: true}, map[int]bool{5: true}, nil)

	tg.sheriffElection()

	require.Equal(t, tg.seat(4), tg.State.Sheriff)
	require.Contains(t, tg.output(), "Player 4 is the last candidate standing and becomes sheriff!")
}

func TestSheriffEveryoneRunsBadgeIsLost(t *testing.T) {
	ctx := newTestContext(t)
	tg := firstDay(newTestGame(ctx, seatingStandard))
	all := make(map[int]bool)
	for id := 1; id <= seatCount; id++ {
		all[id] = true
	}
	electionScript(tg, all, nil, nil)

	tg.sheriffElection()

	require.Nil(t, tg.State.Sheriff)
	require.Contains(t, tg.output(), "Nobody is left to vote. The badge is lost.")
}

func TestSheriffVoteByNonCandidates(t *testing.T) {
	ctx := newTestContext(t)
	tg := firstDay(newTestGame(ctx, seatingStandard))
	ballots := map[int]string{1: "5", 2: "5", 3: "5", 6: "4", 7: "4", 8: "4", 9: "Player 4"}
	electionScript(tg, map[int]bool{4: true, 5: true, 6: true}, map[int]bool{6: true}, ballots)

	tg.sheriffElection()

	require.Equal(t, tg.seat(4), tg.State.Sheriff)
	require.Len(t, tg.decider(6).asked(ActionSheriffVote), 1, "withdrawn candidates vote")
	require.Empty(t, tg.decider(4).asked(ActionSheriffVote))
	require.Empty(t, tg.decider(5).asked(ActionSheriffVote))
	require.Contains(t, tg.output(), "Player 4: 4")
	require.Contains(t, tg.output(), "Player 5: 3")

	// campaign speeches reach the other living seats
	require.Contains(t, tg.seat(1).Memory(), "Sheriff campaign, Player 5 said: Trust me, I am the Seer.")
	require.NotContains(t, tg.seat(5).Memory(), "Sheriff campaign, Player 5 said: Trust me, I am the Seer.")
}

func TestSheriffTieWithoutBallotsIsDrawn(t *testing.T) {
	ctx := newTestContext(t)
	tg := firstDay(newTestGame(ctx, seatingStandard))
	electionScript(tg, map[int]bool{4: true, 5: true}, nil, map[int]string{})

	tg.sheriffElection()

	require.NotNil(t, tg.State.Sheriff)
	require.Contains(t, []int{4, 5}, tg.State.Sheriff.ID)
	require.Contains(t, tg.output(), "wins the tie between [4 5] by lot")
}

func TestNominationOrderIsShuffled(t *testing.T) {
	ctx := newTestContext(t)

	firstAsked := make(map[int]bool)
	for seed := uint64(1); seed <= 20; seed++ {
		tg := firstDay(newTestGame(ctx, seatingStandard))
		tg.rng = newRand(seed)
		var order []int
		tg.scriptAll(func(req DecisionRequest) string {
			order = append(order, req.Seat)
			return "no"
		})

		tg.sheriffElection()
		require.Len(t, order, seatCount)
		firstAsked[order[0]] = true
	}
	require.Greater(t, len(firstAsked), 1)
}

func TestCandidacyPromptAdvice(t *testing.T) {
	require.Contains(t, candidacyPrompt(&Player{Role: newRole(RoleWerewolf)}, 0), "claim Seer")
	require.Contains(t, candidacyPrompt(&Player{Role: newRole(RoleSeer)}, 2), "2 player(s) already run")
	require.Contains(t, candidacyPrompt(&Player{Role: newRole(RoleWitch)}, 0), "running exposes you")
	require.Contains(t, candidacyPrompt(&Player{Role: newRole(RoleVillager)}, 0), "Nobody has decided to run yet")
}
