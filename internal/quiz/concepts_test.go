package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/langseed/pkg/models"
)

var strategies = []models.SelectionStrategy{
	models.StrategyRandom,
	models.StrategyWeak,
	models.StrategyLeastTested,
	models.StrategyDueReview,
}

func TestSelectConcepts_ExactCount(t *testing.T) {
	pool := vocabulary()
	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			rng := NewRand(7)
			for _, n := range []int{1, 5, len(pool), 40} {
				got := SelectConcepts(pool, n, s, allFocus, fixedNow, rng)
				assert.Len(t, got, n)
			}
		})
	}
}

func TestSelectConcepts_EmptyAndPaused(t *testing.T) {
	rng := NewRand(8)
	assert.Empty(t, SelectConcepts(nil, 5, models.StrategyRandom, allFocus, fixedNow, rng))

	pool := vocabulary()[:3]
	for i := range pool {
		pool[i].Paused = true
	}
	assert.Empty(t, SelectConcepts(pool, 5, models.StrategyWeak, allFocus, fixedNow, rng))

	pool[1].Paused = false
	got := SelectConcepts(pool, 4, models.StrategyWeak, allFocus, fixedNow, rng)
	require.Len(t, got, 4)
	for _, c := range got {
		assert.Equal(t, pool[1].ID, c.ID)
	}
}

func TestSelectConcepts_RandomCoversPoolBeforeRepeating(t *testing.T) {
	pool := vocabulary()
	got := SelectConcepts(pool, len(pool), models.StrategyRandom, allFocus, fixedNow, NewRand(9))
	ids := map[string]bool{}
	for _, c := range got {
		ids[c.ID] = true
	}
	assert.Len(t, ids, len(pool))
}

func TestSelectConcepts_WeakPrefersLowKnowledge(t *testing.T) {
	pool := vocabulary()
	for i := range pool {
		for _, m := range models.AllModalities {
			pool[i].SetScore(m, models.ModalityScore{Knowledge: 90})
		}
	}
	for _, m := range models.AllModalities {
		pool[4].SetScore(m, models.ModalityScore{Knowledge: 5})
		pool[9].SetScore(m, models.ModalityScore{Knowledge: 20})
	}

	got := SelectConcepts(pool, 2, models.StrategyWeak, allFocus, fixedNow, NewRand(10))
	require.Len(t, got, 2)
	assert.Equal(t, pool[4].ID, got[0].ID)
	assert.Equal(t, pool[9].ID, got[1].ID)
}

func TestSelectConcepts_WeakWrapsAround(t *testing.T) {
	pool := vocabulary()[:3]
	got := SelectConcepts(pool, 7, models.StrategyWeak, allFocus, fixedNow, NewRand(11))
	require.Len(t, got, 7)
	for i := 3; i < 7; i++ {
		assert.Equal(t, got[i-3].ID, got[i].ID)
	}
}

func TestSelectConcepts_LeastTested(t *testing.T) {
	pool := vocabulary()[:4]
	for i := range pool {
		s := pool[i].Score(models.Meaning)
		s.Attempts = 10 * (i + 1)
		pool[i].SetScore(models.Meaning, s)
	}
	got := SelectConcepts(pool, 4, models.StrategyLeastTested, allFocus, fixedNow, NewRand(12))
	ids := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestSelectConcepts_DueReviewPrefersNeverTestedThenOldest(t *testing.T) {
	pool := vocabulary()[:3]
	recent := fixedNow.Add(-2 * time.Hour)
	old := fixedNow.Add(-10 * 24 * time.Hour)
	s := pool[0].Score(models.Pinyin)
	s.LastAttempt = &recent
	pool[0].SetScore(models.Pinyin, s)
	s = pool[1].Score(models.Character)
	s.LastAttempt = &old
	pool[1].SetScore(models.Character, s)

	got := SelectConcepts(pool, 3, models.StrategyDueReview, allFocus, fixedNow, NewRand(13))
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
	assert.Equal(t, "1", got[2].ID)
}

func TestSelectConcepts_JitterVariesTies(t *testing.T) {
	pool := largePool(30)
	first := map[string]bool{}
	for seed := int64(0); seed < 20; seed++ {
		got := SelectConcepts(pool, 1, models.StrategyLeastTested, allFocus, fixedNow, NewRand(seed))
		first[got[0].ID] = true
	}
	assert.Greater(t, len(first), 1)
}
