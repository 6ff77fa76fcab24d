package quiz

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Combining marks left by NFD decomposition of tone-marked pinyin
const (
	markMacron    = '\u0304' // tone 1
	markAcute     = '\u0301' // tone 2
	markCaron     = '\u030c' // tone 3
	markGrave     = '\u0300' // tone 4
	markDiaeresis = '\u0308' // ü
)

// PhoneticSimilarity scores how alike two pinyin spellings sound, from 0 to 2.
// Each of these adds 0.5: same tone pattern, same initial letter, lengths
// within one letter, same final two letters.
func PhoneticSimilarity(a, b string) float64 {
	baseA, tonesA := splitTones(a)
	baseB, tonesB := splitTones(b)
	if baseA == "" || baseB == "" {
		return 0
	}
	ra, rb := []rune(baseA), []rune(baseB)

	var score float64
	if slices.Equal(tonesA, tonesB) {
		score += 0.5
	}
	if ra[0] == rb[0] {
		score += 0.5
	}
	if abs(len(ra)-len(rb)) <= 1 {
		score += 0.5
	}
	if len(ra) >= 2 && len(rb) >= 2 && string(ra[len(ra)-2:]) == string(rb[len(rb)-2:]) {
		score += 0.5
	}
	return score
}

// splitTones lower-cases pinyin and separates the letters from the tone
// sequence. Both tone marks (nǐ hǎo) and tone numbers (ni3 hao3) are
// understood; spaces and apostrophes are dropped.
func splitTones(pinyin string) (string, []int) {
	var b strings.Builder
	var tones []int
	for _, r := range norm.NFD.String(strings.ToLower(pinyin)) {
		switch {
		case r == markMacron:
			tones = append(tones, 1)
		case r == markAcute:
			tones = append(tones, 2)
		case r == markCaron:
			tones = append(tones, 3)
		case r == markGrave:
			tones = append(tones, 4)
		case r == markDiaeresis:
			s := b.String()
			if strings.HasSuffix(s, "u") {
				b.Reset()
				b.WriteString(strings.TrimSuffix(s, "u") + "ü")
			}
		case r >= '1' && r <= '5':
			tones = append(tones, int(r-'0'))
		case unicode.IsLetter(r):
			b.WriteRune(r)
		}
	}
	return b.String(), tones
}
