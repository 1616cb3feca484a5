package itembank

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/logger"
)

type stubRepo struct {
	records []Record
	err     error
}

func (s stubRepo) AllItems(context.Context) ([]Record, error) {
	return s.records, s.err
}

func TestRecordToItem(t *testing.T) {
	it, err := Record{
		ID:            "q1",
		Text:          "2+2?",
		Subject:       "mathematical_reasoning",
		Difficulty:    3,
		CorrectAnswer: "4",
	}.ToItem()
	require.NoError(t, err)
	assert.Equal(t, SectionCoreMath, it.Section)
	assert.Equal(t, IRTParams{Discrimination: 1.2, Difficulty: 0.5, Guessing: 0.1}, it.Params)
	assert.Equal(t, 1.0, it.Weight)
}

func TestRecordToItemExplicitParams(t *testing.T) {
	it, err := Record{
		ID:            "q2",
		Subject:       "unknown",
		Params:        &IRTParams{Discrimination: 2, Difficulty: -1, Guessing: 0},
		CorrectAnswer: "x",
	}.ToItem()
	require.NoError(t, err)
	assert.Equal(t, SectionAppliedReasoning, it.Section)
	assert.Equal(t, -1.0, it.Params.Difficulty)
}

func TestRecordCarriesPrerequisites(t *testing.T) {
	it, err := Record{
		ID:            "q3",
		Subject:       "ml_theory",
		Difficulty:    4,
		CorrectAnswer: "x",
		Prerequisites: []string{"linear_algebra", "probability"},
	}.ToItem()
	require.NoError(t, err)
	assert.Equal(t, []string{"linear_algebra", "probability"}, it.Prerequisites)
	assert.Equal(t, it.Prerequisites, RecordFromItem(it).Prerequisites)
}

func TestRecordRoundTripKeepsSection(t *testing.T) {
	for _, it := range SeedBank() {
		got, err := RecordFromItem(it).ToItem()
		require.NoError(t, err)
		assert.Equal(t, it, got)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	log := logger.Nop()

	t.Run("repository error falls back to seed", func(t *testing.T) {
		b := Load(ctx, stubRepo{err: errors.New("db down")}, log)
		assert.Equal(t, 7, b.Len())
	})

	t.Run("empty repository falls back to seed", func(t *testing.T) {
		b := Load(ctx, stubRepo{}, log)
		assert.Equal(t, 7, b.Len())
	})

	t.Run("nil repository", func(t *testing.T) {
		assert.Equal(t, 7, Load(ctx, nil, nil).Len())
	})

	t.Run("invalid records skipped", func(t *testing.T) {
		b := Load(ctx, stubRepo{records: []Record{
			{ID: "ok", Subject: "ml_theory", Difficulty: 2, CorrectAnswer: "a"},
			{ID: "bad", Subject: "ml_theory", Difficulty: 9, CorrectAnswer: "a"},
			{ID: "noanswer", Subject: "ml_theory", Difficulty: 2},
			{ID: "ok", Subject: "ml_theory", Difficulty: 1, CorrectAnswer: "b"},
		}}, log)
		require.Equal(t, 1, b.Len())
		_, ok := b.Item("ok")
		assert.True(t, ok)
		assert.Equal(t, []Section{SectionAIConceptual}, b.Sections())
	})

	t.Run("all invalid falls back to seed", func(t *testing.T) {
		b := Load(ctx, stubRepo{records: []Record{{ID: "bad", Difficulty: 10, CorrectAnswer: "a"}}}, log)
		assert.Equal(t, 7, b.Len())
	})
}

func TestBankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, WriteBankFile(path, SeedBank()))

	records, err := FileRepository{Path: path}.AllItems(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 7)

	b := Load(context.Background(), FileRepository{Path: path}, logger.Nop())
	it, ok := b.Item("ai_ethics_1")
	require.True(t, ok)
	assert.Equal(t, SectionAIConceptual, it.Section)
	assert.Len(t, it.ThinkAloudPrompts, 3)
}

func TestParseBankFilePlainRecords(t *testing.T) {
	data := []byte(`
calibration_version: 1.2.0
items:
  - id: r1
    text: What is 7 x 8?
    subject: algebra_foundations
    difficulty: 2
    correct_answer: "56"
    options: ["54", "56", "58"]
`)
	f, err := ParseBankFile(data)
	require.NoError(t, err)
	recs := f.AllRecords()
	require.Len(t, recs, 1)
	it, err := recs[0].ToItem()
	require.NoError(t, err)
	assert.Equal(t, SectionCoreMath, it.Section)
	assert.InDelta(t, -0.5, it.Params.Difficulty, 1e-9)
}

func TestParseBankFileVersion(t *testing.T) {
	for _, v := range []string{"", "2.0.0", "v0.9.0", "banana"} {
		_, err := ParseBankFile([]byte("calibration_version: \"" + v + "\"\n"))
		assert.ErrorIs(t, err, ErrIncompatibleCalibration, "version %q", v)
	}
	_, err := ParseBankFile([]byte("calibration_version: v1.4.2\n"))
	assert.NoError(t, err)
}

func TestReadBankFileMissing(t *testing.T) {
	_, err := ReadBankFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
