package knowledge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/langseed/pkg/models"
)

func TestUpdate_Scenarios(t *testing.T) {
	assert.Equal(t, 63, Update(50, true, true))
	assert.Equal(t, 41, Update(50, false, true))
	assert.Equal(t, 56, Update(50, true, false))
	assert.Equal(t, 46, Update(50, false, false))
}

func TestUpdate_Boundaries(t *testing.T) {
	for _, isAnswer := range []bool{true, false} {
		assert.Equal(t, 100, Update(100, true, isAnswer))
		assert.Equal(t, 0, Update(0, false, isAnswer))
	}
}

func TestUpdate_Direction(t *testing.T) {
	for k := 0; k <= 100; k++ {
		for _, isAnswer := range []bool{true, false} {
			up := Update(k, true, isAnswer)
			down := Update(k, false, isAnswer)
			assert.GreaterOrEqual(t, up, k, "correct k=%d", k)
			assert.LessOrEqual(t, down, k, "incorrect k=%d", k)
			assert.True(t, up >= 0 && up <= 100)
			assert.True(t, down >= 0 && down <= 100)
		}
	}
}

func TestUpdate_Converges(t *testing.T) {
	k := 10
	for i := 0; i < 200; i++ {
		next := Update(k, true, true)
		require.GreaterOrEqual(t, next, k)
		require.LessOrEqual(t, next, 100)
		k = next
	}
	assert.GreaterOrEqual(t, k, 95)

	k = 90
	for i := 0; i < 200; i++ {
		next := Update(k, false, true)
		require.LessOrEqual(t, next, k)
		require.GreaterOrEqual(t, next, 0)
		k = next
	}
	assert.LessOrEqual(t, k, 5)
}

func TestApply_UpdatesBothModalities(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := models.Concept{ID: "1", Word: "你"}
	for _, m := range models.AllModalities {
		c.SetScore(m, models.ModalityScore{Knowledge: 50})
	}
	focus := models.FocusWeights{Character: 1, Pinyin: 1, Meaning: 1, Audio: 1}
	task := models.TaskType{Question: models.Character, Answer: models.Meaning}

	got := Apply(c, task, true, focus, now)

	assert.Equal(t, 63, got.Score(models.Meaning).Knowledge)
	assert.Equal(t, 56, got.Score(models.Character).Knowledge)
	assert.Equal(t, 50, got.Score(models.Pinyin).Knowledge)
	assert.Equal(t, 1, got.Score(models.Meaning).Attempts)
	assert.Equal(t, 1, got.Score(models.Meaning).Successes)
	assert.Equal(t, 1, got.Score(models.Character).Attempts)
	assert.Equal(t, 0, got.Score(models.Pinyin).Attempts)
	require.NotNil(t, got.Score(models.Character).LastAttempt)
	assert.True(t, got.Score(models.Character).LastAttempt.Equal(now))
	assert.Nil(t, got.Score(models.Audio).LastAttempt)
	// (56 + 50 + 63 + 50) / 4 = 54.75
	assert.Equal(t, 55, got.Knowledge)

	// The input value is untouched.
	assert.Equal(t, 50, c.Score(models.Meaning).Knowledge)
}

func TestApply_Incorrect(t *testing.T) {
	c := models.Concept{ID: "1"}
	for _, m := range models.AllModalities {
		c.SetScore(m, models.ModalityScore{Knowledge: 50, Attempts: 2, Successes: 1})
	}
	task := models.TaskType{Question: models.Audio, Answer: models.Pinyin}

	got := Apply(c, task, false, models.DefaultSettings().Focus, time.Now())

	assert.Equal(t, 41, got.Score(models.Pinyin).Knowledge)
	assert.Equal(t, 46, got.Score(models.Audio).Knowledge)
	assert.Equal(t, 3, got.Score(models.Pinyin).Attempts)
	assert.Equal(t, 1, got.Score(models.Pinyin).Successes)
}

func TestOverall(t *testing.T) {
	c := models.Concept{}
	c.SetScore(models.Character, models.ModalityScore{Knowledge: 80})
	c.SetScore(models.Pinyin, models.ModalityScore{Knowledge: 40})
	c.SetScore(models.Meaning, models.ModalityScore{Knowledge: 60})
	c.SetScore(models.Audio, models.ModalityScore{Knowledge: 0})

	tests := []struct {
		name  string
		focus models.FocusWeights
		want  int
	}{
		{"equal weights", models.FocusWeights{Character: 1, Pinyin: 1, Meaning: 1, Audio: 1}, 45},
		{"audio excluded", models.FocusWeights{Character: 3, Pinyin: 3, Meaning: 3}, 60},
		{"weighted", models.FocusWeights{Character: 3, Pinyin: 1}, 70},
		{"all zero falls back to plain mean", models.FocusWeights{}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overall(c, tt.focus))
		})
	}
}

func TestInitialPrior(t *testing.T) {
	assert.Equal(t, MaxPrior, InitialPrior(0))
	assert.Equal(t, MaxPrior, InitialPrior(1))
	assert.Equal(t, MinPrior, InitialPrior(15))
	assert.Equal(t, MinPrior, InitialPrior(40))
	// chapter 8 is halfway between 1 and 15
	assert.Equal(t, 30, InitialPrior(8))

	prev := InitialPrior(1)
	for ch := 2; ch <= 15; ch++ {
		p := InitialPrior(ch)
		assert.LessOrEqual(t, p, prev)
		prev = p
	}
}

func TestSeed(t *testing.T) {
	c := models.Concept{Chapter: 1}
	c.SetScore(models.Pinyin, models.ModalityScore{Knowledge: 99, Attempts: 4})
	Seed(&c, models.DefaultSettings().Focus)

	for _, m := range models.AllModalities {
		assert.Equal(t, MaxPrior, c.Score(m).Knowledge)
		assert.Zero(t, c.Score(m).Attempts)
	}
	assert.Equal(t, MaxPrior, c.Knowledge)
}

func TestAverages(t *testing.T) {
	a := models.Concept{Knowledge: 40}
	b := models.Concept{Knowledge: 80}
	p := models.Concept{Knowledge: 100, Paused: true}
	for _, m := range models.AllModalities {
		a.SetScore(m, models.ModalityScore{Knowledge: 40})
		b.SetScore(m, models.ModalityScore{Knowledge: 80})
		p.SetScore(m, models.ModalityScore{Knowledge: 100})
	}

	avg := Averages([]models.Concept{a, b, p})
	for _, m := range models.AllModalities {
		assert.InDelta(t, 60.0, avg[m], 0.001)
	}
	assert.InDelta(t, 60.0, OverallAverage([]models.Concept{a, b, p}), 0.001)
	assert.Equal(t, [models.ModalityCount]float64{}, Averages(nil))
}

func TestPredictCorrect(t *testing.T) {
	assert.Equal(t, 25, PredictCorrect(0, 4))
	assert.Equal(t, 100, PredictCorrect(100, 4))
	assert.Equal(t, 63, PredictCorrect(50, 4))
	assert.Equal(t, 100, PredictCorrect(0, 1))
}
