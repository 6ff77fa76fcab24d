package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/langseed/pkg/models"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testConcept(id, word string) models.Concept {
	c := models.Concept{
		ID:           id,
		Word:         word,
		Pinyin:       "pinyin-" + id,
		PartOfSpeech: "noun",
		Meaning:      "meaning-" + id,
		Chapter:      2,
		Source:       "hsk1",
		Knowledge:    45,
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	for _, m := range models.AllModalities {
		c.SetScore(m, models.ModalityScore{Knowledge: 45})
	}
	return c
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	v, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), v)

	require.NoError(t, Migrate(db))
	v, err = SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), v)
}

func TestMigrate_BackfillsLegacyKnowledge(t *testing.T) {
	db, err := sqlx.Connect(DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	db.MustExec(`CREATE TABLE schema_migrations (version INTEGER PRIMARY KEY, applied_at TIMESTAMP NOT NULL)`)
	require.NoError(t, apply(db, migrations[0]))
	db.MustExec(`INSERT INTO concepts (id, word, pinyin, meaning, chapter, knowledge) VALUES ('old', '你', 'nǐ', 'you', 1, 40)`)

	require.NoError(t, Migrate(db))

	c, err := NewConceptRepository(db).GetByID(context.Background(), "old")
	require.NoError(t, err)
	assert.False(t, c.Paused)
	assert.Equal(t, "other", c.PartOfSpeech)
	for _, m := range models.AllModalities {
		assert.Equal(t, 40, c.Score(m).Knowledge, m.String())
		assert.Zero(t, c.Score(m).Attempts)
		assert.Nil(t, c.Score(m).LastAttempt)
	}
}

func TestConceptRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewConceptRepository(openTestDB(t))

	c := testConcept("a", "你")
	last := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	c.SetScore(models.Pinyin, models.ModalityScore{Knowledge: 70, Attempts: 3, Successes: 2, LastAttempt: &last})
	c.Paused = true
	require.NoError(t, repo.Upsert(ctx, c))
	require.NoError(t, repo.Upsert(ctx, testConcept("b", "好")))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "你", got.Word)
	assert.True(t, got.Paused)
	assert.Equal(t, "hsk1", got.Source)
	p := got.Score(models.Pinyin)
	assert.Equal(t, 70, p.Knowledge)
	assert.Equal(t, 3, p.Attempts)
	assert.Equal(t, 2, p.Successes)
	require.NotNil(t, p.LastAttempt)
	assert.True(t, p.LastAttempt.Equal(last))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// update in place
	c.Meaning = "you (singular)"
	c.Paused = false
	require.NoError(t, repo.Upsert(ctx, c))
	got, err = repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "you (singular)", got.Meaning)
	assert.False(t, got.Paused)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestConceptRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewConceptRepository(openTestDB(t))
	require.NoError(t, repo.Upsert(ctx, testConcept("a", "你")))

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err := repo.GetByID(ctx, "a")
	assert.ErrorIs(t, err, models.ErrConceptNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "a"), models.ErrConceptNotFound)
}

func TestSettingsRepository_DefaultsThenSave(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(openTestDB(t))

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)

	s.Focus = models.FocusWeights{Character: 3, Pinyin: 0, Meaning: 1, Audio: 2}
	s.Strategy = models.StrategyDueReview
	s.OptionMode = models.OptionEasy
	s.Reminder = models.Reminder{Enabled: true, Hour: 20, Minute: 15, Timezone: "Asia/Shanghai"}
	require.NoError(t, repo.Save(ctx, s))
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestAttemptRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAttemptRepository(openTestDB(t))
	base := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	days := 2.5

	attempts := []models.QuizAttempt{
		{ID: "1", SessionID: "s", ConceptID: "a", QuestionModality: models.Character, AnswerModality: models.Meaning, Correct: true, OptionCount: 4, AnsweredAt: base},
		{ID: "2", SessionID: "s", ConceptID: "b", QuestionModality: models.Character, AnswerModality: models.Meaning, Correct: false, OptionCount: 4, AnsweredAt: base.Add(time.Minute)},
		{ID: "3", SessionID: "s", ConceptID: "a", QuestionModality: models.Audio, AnswerModality: models.Pinyin, Correct: true, OptionCount: 4, AnsweredAt: base.Add(2 * time.Minute),
			Context: models.AttemptContext{AnswerKnowledge: 60, DaysSinceLastAttempt: &days, Distractors: []models.DistractorInfo{{ConceptID: "b", Knowledge: 30}}}},
	}
	for _, a := range attempts {
		require.NoError(t, repo.Create(ctx, a))
	}
	require.NoError(t, repo.Create(ctx, attempts[0]))

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "3", recent[0].ID)
	assert.Equal(t, models.Audio, recent[0].QuestionModality)
	assert.Equal(t, 60, recent[0].Context.AnswerKnowledge)
	require.NotNil(t, recent[0].Context.DaysSinceLastAttempt)
	assert.InDelta(t, 2.5, *recent[0].Context.DaysSinceLastAttempt, 1e-9)

	acc, err := repo.AccuracyByTask(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, acc, 2)
	assert.Equal(t, models.TaskType{Question: models.Character, Answer: models.Meaning}, acc[0].Task)
	assert.Equal(t, 2, acc[0].Attempts)
	assert.Equal(t, 1, acc[0].Correct)
	assert.InDelta(t, 0.5, acc[0].Accuracy(), 1e-9)
}

func TestProgressRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(openTestDB(t))
	base := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	first := models.ProgressSnapshot{ID: "p1", SessionID: "s1", RecordedAt: base, Questions: 10, Correct: 7, Accuracy: 0.7,
		ModalityAverages: [models.ModalityCount]float64{50, 40, 60, 30}, OverallAverage: 45, ConceptCount: 20}
	second := first
	second.ID, second.SessionID, second.RecordedAt = "p2", "s2", base.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, first.ModalityAverages, got[1].ModalityAverages)
	assert.Equal(t, 7, got[1].Correct)
}

func TestPersister(t *testing.T) {
	ctx := context.Background()
	p := NewPersister(openTestDB(t))

	require.NoError(t, p.SaveConcepts(ctx, []models.Concept{testConcept("a", "你"), testConcept("b", "好")}))
	require.NoError(t, p.DeleteConcept(ctx, "a"))
	concepts, err := p.LoadConcepts(ctx)
	require.NoError(t, err)
	require.Len(t, concepts, 1)
	assert.Equal(t, "b", concepts[0].ID)

	s := models.DefaultSettings()
	s.QuestionCount = 25
	require.NoError(t, p.SaveSettings(ctx, s))
	got, err := p.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, got.QuestionCount)
}
