package quiz

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/example/langseed/internal/knowledge"
	"github.com/example/langseed/pkg/models"
)

const (
	// Jitter is the upper bound of the random perturbation added to every
	// selection score so equal scores do not always produce the same session.
	Jitter = 0.5
	// LeastTestedBase keeps least-tested scores positive
	LeastTestedBase = 10000
)

// Active drops paused concepts
func Active(concepts []models.Concept) []models.Concept {
	return lo.Filter(concepts, func(c models.Concept, _ int) bool { return !c.Paused })
}

// SelectConcepts picks exactly count concepts from the non-paused pool
// according to strategy, repeating concepts when count exceeds the pool.
// An empty pool yields an empty result.
func SelectConcepts(concepts []models.Concept, count int, strategy models.SelectionStrategy, focus models.FocusWeights, now time.Time, rng Rand) []models.Concept {
	pool := Active(concepts)
	if len(pool) == 0 || count <= 0 {
		return []models.Concept{}
	}

	switch strategy {
	case models.StrategyWeak:
		return topN(pool, count, rng, func(c models.Concept) float64 {
			return float64(knowledge.MaxKnowledge - knowledge.Overall(c, focus))
		})
	case models.StrategyLeastTested:
		return topN(pool, count, rng, func(c models.Concept) float64 {
			return float64(LeastTestedBase - c.TotalAttempts())
		})
	case models.StrategyDueReview:
		return topN(pool, count, rng, func(c models.Concept) float64 {
			return daysSince(c, now)
		})
	default:
		return shuffled(pool, count, rng)
	}
}

// shuffled draws sequentially from a Fisher-Yates shuffle of pool,
// reshuffling whenever the pool is exhausted.
func shuffled(pool []models.Concept, count int, rng Rand) []models.Concept {
	deck := make([]models.Concept, len(pool))
	copy(deck, pool)
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	out := make([]models.Concept, 0, count)
	next := 0
	for len(out) < count {
		if next == len(deck) {
			rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
			next = 0
		}
		out = append(out, deck[next])
		next++
	}
	return out
}

type scored struct {
	concept models.Concept
	score   float64
}

// topN ranks pool by descending score plus jitter and takes the first count,
// wrapping around when count exceeds the pool. The pool is shuffled first so
// infinite scores, which jitter cannot separate, are still ordered randomly.
func topN(pool []models.Concept, count int, rng Rand, score func(models.Concept) float64) []models.Concept {
	ranked := make([]scored, len(pool))
	for i, c := range pool {
		ranked[i] = scored{concept: c}
	}
	rng.Shuffle(len(ranked), func(i, j int) { ranked[i], ranked[j] = ranked[j], ranked[i] })
	for i := range ranked {
		ranked[i].score = score(ranked[i].concept) + rng.Float64()*Jitter
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]models.Concept, count)
	for i := range out {
		out[i] = ranked[i%len(ranked)].concept
	}
	return out
}

// daysSince is the number of days since the concept was last tested in any
// modality. Never-tested concepts are always due.
func daysSince(c models.Concept, now time.Time) float64 {
	last := c.LastAttempt()
	if last == nil {
		return math.Inf(1)
	}
	return now.Sub(*last).Hours() / 24
}
