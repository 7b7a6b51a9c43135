package main

import (
	"regexp"
	"strings"
	"unicode"
)

// digitRuns matches any decimal digits, so full-width "４" reads as 4.
var digitRuns = regexp.MustCompile(`\p{Nd}+`)

// chineseDigits is scanned in numeric order, not in order of appearance.
var chineseDigits = []struct {
	char string
	seat int
}{
	{"一", 1}, {"二", 2}, {"三", 3}, {"四", 4}, {"五", 5},
	{"六", 6}, {"七", 7}, {"八", 8}, {"九", 9},
}

// parseSeat extracts a seat from free-text agent output.
//
// Pass one tries every run of decimal digits in order of appearance and returns the
// first that names an eligible seat. Pass two looks for the Chinese digits 一..九.
// Anything else is unparseable and yields nil.
func parseSeat(text string, eligible []*Player) *Player {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" || len(eligible) == 0 {
		return nil
	}

	for _, run := range digitRuns.FindAllString(text, -1) {
		id, ok := runNumber(run)
		if !ok {
			continue
		}
		if p := findPlayer(eligible, id); p != nil {
			return p
		}
	}

	for _, d := range chineseDigits {
		if !strings.Contains(text, d.char) {
			continue
		}
		if p := findPlayer(eligible, d.seat); p != nil {
			return p
		}
	}

	return nil
}

// runNumber converts a run of decimal digits from any script. Runs too long to be a seat
// are rejected.
func runNumber(run string) (int, bool) {
	n := 0
	for _, r := range run {
		d, ok := digitValue(r)
		if !ok || n > 1000 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// digitValue returns the value of a decimal digit. Every Nd range in the Unicode tables starts
// at a zero and holds whole blocks of ten.
func digitValue(r rune) (int, bool) {
	for _, rg := range unicode.Nd.R16 {
		if rg.Stride == 1 && r >= rune(rg.Lo) && r <= rune(rg.Hi) {
			return int(r-rune(rg.Lo)) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if rg.Stride == 1 && r >= rune(rg.Lo) && r <= rune(rg.Hi) {
			return int(r-rune(rg.Lo)) % 10, true
		}
	}
	return 0, false
}

// mentions reports whether text contains one of the keywords. ASCII keywords must match
// whole words ("no" does not match "know"); other keywords match as substrings.
func mentions(text string, keywords ...string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r == '\'')
	}) {
		words[w] = true
	}
	for _, k := range keywords {
		if isASCIIWord(k) {
			if words[k] {
				return true
			}
		} else if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func isASCIIWord(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r == '\'') {
			return false
		}
	}
	return s != ""
}

// Keyword sets for yes/no style decisions. Refusal sets are checked first and hold only
// explicit refusals, so "不上警" or "不退" never reads as agreement.
var (
	antidoteWords     = []string{"yes", "是"}
	antidoteRefusals  = []string{"不是"}
	candidacyWords    = []string{"yes", "是", "上警", "参与", "竞选"}
	candidacyRefusals = []string{"不是", "不上警", "不参与", "不竞选"}
	withdrawWords     = []string{"withdraw", "quit", "退水", "退出", "退"}
	stayWords         = []string{"stay", "不退", "don't withdraw", "not withdraw", "won't withdraw"}
	tearBadgeWords    = []string{"tear", "none", "nobody", "no", "不传", "撕"}
)

// decides reads a free-text answer: refusal keywords win, then acceptance keywords.
// Text matching neither is a refusal.
func decides(text string, accept, refuse []string) bool {
	if mentions(text, refuse...) {
		return false
	}
	return mentions(text, accept...)
}
