package quiz

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/example/langseed/pkg/models"
)

// DistractorJitter bounds the random bonus added to each candidate score
const DistractorJitter = 0.5

// SelectDistractors picks up to count wrong options for a question about
// target. A candidate is rejected when its question-modality value equals the
// target's, since it would also be a correct answer, or when its
// answer-modality value equals the target's or an already accepted
// distractor's. Candidates are tried in descending score order, so the result
// is shorter than count when the pool runs out of non-colliding candidates.
func SelectDistractors(target models.Concept, pool []models.Concept, question, answer models.Modality, count int, mode models.OptionMode, rng Rand) []models.Concept {
	if count <= 0 {
		return []models.Concept{}
	}

	seenIDs := map[string]bool{target.ID: true}
	candidates := make([]scored, 0, len(pool))
	for _, c := range pool {
		if seenIDs[c.ID] {
			continue
		}
		seenIDs[c.ID] = true
		candidates = append(candidates, scored{
			concept: c,
			score:   distractorScore(target, c, mode) + rng.Float64()*DistractorJitter,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	targetQuestion := target.DisplayValue(question)
	usedAnswers := map[string]bool{target.DisplayValue(answer): true}
	accepted := make([]models.Concept, 0, count)
	for _, cand := range candidates {
		if len(accepted) == count {
			break
		}
		c := cand.concept
		if c.DisplayValue(question) == targetQuestion {
			continue
		}
		a := c.DisplayValue(answer)
		if usedAnswers[a] {
			continue
		}
		usedAnswers[a] = true
		accepted = append(accepted, c)
	}

	rng.Shuffle(len(accepted), func(i, j int) { accepted[i], accepted[j] = accepted[j], accepted[i] })
	return accepted
}

// distractorScore ranks how suitable c is as a wrong option for target.
// Hard mode prefers look-alikes: same part of speech, nearby chapter, same
// word length, similar pinyin. Easy mode prefers the opposite.
func distractorScore(target, c models.Concept, mode models.OptionMode) float64 {
	var score float64
	hard := mode == models.OptionHard

	samePOS := strings.EqualFold(strings.TrimSpace(target.PartOfSpeech), strings.TrimSpace(c.PartOfSpeech))
	switch {
	case hard && samePOS:
		score += 3
	case !hard && samePOS:
		score--
	case !hard:
		score += 2
	}

	chapterDiff := abs(target.Chapter - c.Chapter)
	lengthDiff := abs(utf8.RuneCountInString(target.Word) - utf8.RuneCountInString(c.Word))
	if hard {
		switch {
		case chapterDiff <= 2:
			score += 2
		case chapterDiff <= 5:
			score++
		}
		switch lengthDiff {
		case 0:
			score += 2
		case 1:
			score++
		}
		score += PhoneticSimilarity(target.Pinyin, c.Pinyin)
	} else {
		switch {
		case chapterDiff >= 5:
			score += 2
		case chapterDiff >= 3:
			score++
		}
		switch {
		case lengthDiff >= 2:
			score += 2
		case lengthDiff >= 1:
			score++
		}
	}
	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
