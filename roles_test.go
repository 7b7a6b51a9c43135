package main

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestNewRoleAbilityState(t *testing.T) {
	witch := newRole(RoleWitch)
	require.NotNil(t, witch.Witch)
	require.True(t, witch.Witch.HasAntidote)
	require.True(t, witch.Witch.HasPoison)
	require.True(t, witch.Witch.CannotSaveSelf)
	require.Nil(t, witch.Hunter)

	hunter := newRole(RoleHunter)
	require.NotNil(t, hunter.Hunter)
	require.True(t, hunter.CanShoot())
	require.Nil(t, hunter.Witch)

	villager := newRole(RoleVillager)
	require.Nil(t, villager.Witch)
	require.Nil(t, villager.Hunter)
	require.False(t, villager.CanShoot())
	require.False(t, villager.UseAntidote())
	require.False(t, villager.UsePoison())
}

func TestPotionsAreConsumedOnce(t *testing.T) {
	r := newRole(RoleWitch)

	require.True(t, r.UseAntidote())
	require.False(t, r.UseAntidote(), "antidote can only be used once")
	require.True(t, r.Witch.HasPoison, "using the antidote leaves the poison")

	require.True(t, r.UsePoison())
	require.False(t, r.UsePoison())
	require.False(t, r.Witch.HasAntidote)
	require.False(t, r.Witch.HasPoison)
}

func TestHunterShotCannotBeRestored(t *testing.T) {
	r := newRole(RoleHunter)
	r.DisableShoot()
	require.False(t, r.CanShoot())

	// a copy of the role shares the ability state
	p := &Player{Role: r}
	require.False(t, p.Role.CanShoot())
}

func TestRoleCampsAndGods(t *testing.T) {
	cases := []struct {
		role RoleType
		camp Camp
		god  bool
	}{
		{RoleWerewolf, CampWerewolf, false},
		{RoleSeer, CampVillager, true},
		{RoleWitch, CampVillager, true},
		{RoleHunter, CampVillager, true},
		{RoleVillager, CampVillager, false},
	}
	for _, c := range cases {
		r := newRole(c.role)
		require.Equal(t, c.camp, r.Camp(), c.role)
		require.Equal(t, c.god, r.IsGod(), c.role)
		require.NotEmpty(t, r.Name())
		require.NotEmpty(t, r.Description())
	}
}

func TestDealAlwaysUsesStandardComposition(t *testing.T) {
	f := func(seed uint64) bool {
		players, err := createPlayers(0, nil, func(int) (Decider, error) { return &scriptedDecider{}, nil })
		if err != nil {
			return false
		}
		g, err := newGame(players, GameOptions{Rand: newRand(seed | 1)})
		if err != nil {
			return false
		}

		counts := make(map[RoleType]int)
		for _, p := range g.Players {
			counts[p.Role.Type]++
			if p.Team() != roleInfo[p.Role.Type].Camp {
				return false
			}
		}
		return counts[RoleWerewolf] == 3 && counts[RoleSeer] == 1 && counts[RoleWitch] == 1 &&
			counts[RoleHunter] == 1 && counts[RoleVillager] == 3
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 50}); err != nil {
		t.Error(err)
	}
}

func TestDealIsNotFixed(t *testing.T) {
	seen := make(map[RoleType]bool)
	for seed := uint64(1); seed <= 200; seed++ {
		players, err := createPlayers(0, nil, func(int) (Decider, error) { return &scriptedDecider{}, nil })
		require.NoError(t, err)
		g, err := newGame(players, GameOptions{Rand: newRand(seed)})
		require.NoError(t, err)
		seen[g.Players[0].Role.Type] = true
	}
	require.Len(t, seen, 5, "seat 1 should receive every role kind across seeds")
}
