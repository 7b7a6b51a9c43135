package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seats(ids ...int) []*Player {
	out := make([]*Player, len(ids))
	for i, id := range ids {
		out[i] = newPlayer(id, "", false, nil)
	}
	return out
}

func TestParseSeat(t *testing.T) {
	all := seats(1, 2, 3, 4, 5, 6, 7, 8, 9)
	cases := []struct {
		name     string
		text     string
		eligible []*Player
		want     int // 0 = no selection
	}{
		{"bare number", "4", all, 4},
		{"number in sentence", "Tactic: go for the gods. Target: 7", all, 7},
		{"first eligible run wins", "12 or 3", all, 3},
		{"ineligible only", "Player 10", all, 0},
		{"skips ineligible run", "2, no wait, 5", seats(5, 6), 5},
		{"chinese digit", "我选五号", all, 5},
		{"chinese digits scanned in numeric order", "七或者三", all, 3},
		{"chinese digit ineligible", "七或者三", seats(7, 8), 7},
		{"digits before chinese", "三号 or 8", all, 8},
		{"full-width digit", "我投玩家４", all, 4},
		{"arabic-indic digit", "٧", all, 7},
		{"overlong run", "99999999999999999999999 then 2", all, 2},
		{"nothing", "I have no idea", all, 0},
		{"empty", "", all, 0},
		{"no eligible seats", "4", nil, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := parseSeat(c.text, c.eligible)
			if c.want == 0 {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, c.want, got.ID)
		})
	}
}

func TestMentions(t *testing.T) {
	require.True(t, mentions("No.", "no"))
	require.True(t, mentions("  YES please", "yes"))
	require.False(t, mentions("I know who it is", "no"))
	require.True(t, mentions("I don't think so", "don't"))
	require.True(t, mentions("我不退", "不退"))
	require.False(t, mentions("", "yes"))
}

func TestDecides(t *testing.T) {
	cases := []struct {
		text           string
		accept, refuse []string
		want           bool
	}{
		{"yes", antidoteWords, antidoteRefusals, true},
		{"是", antidoteWords, antidoteRefusals, true},
		{"否", antidoteWords, antidoteRefusals, false},
		{"no", antidoteWords, antidoteRefusals, false},
		{"不是", antidoteWords, antidoteRefusals, false},
		{"I won't use the antidote tonight.", antidoteWords, antidoteRefusals, false},
		{"Yes, save them, they are not a werewolf.", antidoteWords, antidoteRefusals, true},
		{"是，救他，不能让好人倒下", antidoteWords, antidoteRefusals, true},
		{"我要上警", candidacyWords, candidacyRefusals, true},
		{"不上警", candidacyWords, candidacyRefusals, false},
		{"否", candidacyWords, candidacyRefusals, false},
		{"I won't run this time.", candidacyWords, candidacyRefusals, false},
		{"Yes, I run. Not all of us should stay out.", candidacyWords, candidacyRefusals, true},
		{"退水", withdrawWords, stayWords, true},
		{"不退", withdrawWords, stayWords, false},
		{"I withdraw", withdrawWords, stayWords, true},
		{"I don't withdraw", withdrawWords, stayWords, false},
		{"stay", withdrawWords, stayWords, false},
		{"", antidoteWords, antidoteRefusals, false},
		{"maybe", antidoteWords, antidoteRefusals, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, decides(c.text, c.accept, c.refuse), "%q", c.text)
	}
}
