package hints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptiq/internal/engine"
	"github.com/abhisek/adaptiq/internal/itembank"
	"github.com/abhisek/adaptiq/internal/llm"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/store"
)

func newTestItems(t *testing.T) *engine.Engine {
	t.Helper()
	bank, err := itembank.NewBank(itembank.SeedBank())
	require.NoError(t, err)
	return engine.New(bank, session.NewMemoryStore(0), engine.DefaultConfig(), nil)
}

type brokenItems struct{}

func (brokenItems) Item(string) (itembank.Item, bool) { return itembank.Item{}, false }

func (brokenItems) GenerateAIHint(context.Context, string, float64, int, string) (string, error) {
	return "", errors.New("bank offline")
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"struggling low ability", Request{AttemptCount: 3, Theta: -1.5, TimeSpent: 300 * time.Second}, "struggling_student"},
		{"struggle needs low theta", Request{AttemptCount: 3, Theta: -1}, ""},
		{"time beats attempt count", Request{AttemptCount: 2, TimeSpent: 181 * time.Second}, "time_pressure"},
		{"time threshold exclusive", Request{AttemptCount: 2, TimeSpent: 180 * time.Second}, "conceptual_gap"},
		{"first attempt", Request{AttemptCount: 1}, "strategic_guidance"},
		{"many attempts", Request{AttemptCount: 4, Theta: 0.5}, "encouragement"},
		{"many attempts low ability", Request{AttemptCount: 6, Theta: -2}, "struggling_student"},
		{"third attempt average ability", Request{AttemptCount: 3, Theta: 0}, ""},
		{"no attempts", Request{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectStrategy(DefaultStrategies(), &tt.req)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name())
		})
	}
}

func TestGenerateHint(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestItems(t), nil)

	t.Run("struggle wraps tiered hint", func(t *testing.T) {
		h := svc.GenerateHint(ctx, Request{
			SessionID: "s1", QuestionID: "math_foundation_1",
			AttemptCount: 3, Theta: -3, PreviousIncorrect: []string{"7"},
		})
		assert.Equal(t, TypeConceptual, h.Type)
		assert.Equal(t, AdjustSimplify, h.Adjustment)
		assert.Contains(t, h.Content, "Let's break this down step by step. Subtract 7 from both sides first")
		assert.Contains(t, h.Content, `I notice you tried "7".`)
		assert.Equal(t, 0.9, h.Confidence)
		assert.Contains(t, h.RelatedConcepts, "algebra_foundations")
	})

	t.Run("default is procedural", func(t *testing.T) {
		h := svc.GenerateHint(ctx, Request{SessionID: "s1", QuestionID: "math_foundation_1", AttemptCount: 3, Theta: 0})
		assert.Equal(t, TypeProcedural, h.Type)
		assert.Equal(t, "procedural", h.Strategy)
		assert.Equal(t, "Divide both sides by the coefficient of x", h.Content)
	})

	t.Run("ids and metadata", func(t *testing.T) {
		h := svc.GenerateHint(ctx, Request{SessionID: "s2", QuestionID: "ai_ethics_1", AttemptCount: 1})
		assert.Regexp(t, `^hint_[0-9a-f-]{36}$`, h.ID)
		assert.Equal(t, "s2", h.SessionID)
		assert.Equal(t, "ai_ethics_1", h.QuestionID)
		assert.Equal(t, StyleAnalytical, h.LearningStyle)
		assert.True(t, h.Type.Valid())
		assert.False(t, h.CreatedAt.IsZero())
	})
}

func TestGenerateHint_FailureFallsBack(t *testing.T) {
	ctx := context.Background()
	svc := NewService(brokenItems{}, nil)

	h := svc.GenerateHint(ctx, Request{SessionID: "s1", QuestionID: "q", AttemptCount: 2})
	assert.Equal(t, TypeStrategic, h.Type)
	assert.Equal(t, FallbackName, h.Strategy)
	assert.NotEmpty(t, h.Content)
	assert.Len(t, svc.History("s1"), 1)

	withBank := NewService(newTestItems(t), nil)
	h = withBank.GenerateHint(ctx, Request{SessionID: "s1", QuestionID: "missing", AttemptCount: 2})
	assert.Equal(t, FallbackName, h.Strategy)
}

func TestEncouragementPhrases(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestItems(t), nil)
	req := Request{SessionID: "s1", QuestionID: "math_advanced_1", AttemptCount: 5}

	first := svc.GenerateHint(ctx, req)
	second := svc.GenerateHint(ctx, req)
	assert.Equal(t, TypeEncouragement, first.Type)
	assert.Contains(t, EncouragementPhrases, first.Content)
	assert.Equal(t, first.Content, second.Content, "hash chooser is a pure function of the request")
}

func TestPhraseChoosers(t *testing.T) {
	req := &Request{SessionID: "s", QuestionID: "q", AttemptCount: 4}
	assert.Equal(t, HashChooser{}.Choose(req, 4), HashChooser{}.Choose(req, 4))
	assert.Equal(t, 0, HashChooser{}.Choose(req, 1))

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		r := &Request{SessionID: fmt.Sprintf("s%d", i), QuestionID: "q", AttemptCount: 4}
		n := HashChooser{}.Choose(r, 4)
		require.True(t, n >= 0 && n < 4)
		seen[n] = true
	}
	assert.Len(t, seen, 4)

	a, b := NewSeededChooser(42), NewSeededChooser(42)
	for i := 0; i < 20; i++ {
		x := a.Choose(nil, 4)
		assert.Equal(t, x, b.Choose(nil, 4))
		assert.True(t, x >= 0 && x < 4)
	}
}

func TestGeneratePersonalizedHints(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestItems(t), nil)

	t.Run("never empty", func(t *testing.T) {
		hs := svc.GeneratePersonalizedHints(ctx, Request{SessionID: "p1", QuestionID: "math_foundation_1", AttemptCount: 1})
		require.Len(t, hs, 1)
		assert.Equal(t, TypePersonalized, hs[0].Type)
	})

	t.Run("capped at three in priority order", func(t *testing.T) {
		hs := svc.GeneratePersonalizedHints(ctx, Request{
			SessionID: "p2", QuestionID: "math_foundation_1",
			AttemptCount: 3, TimeSpent: 150 * time.Second, Theta: -2,
			LearningStyle: StyleVisual,
		})
		require.Len(t, hs, MaxPersonalizedHints)
		assert.Equal(t, TypePersonalized, hs[0].Type)
		assert.Equal(t, "Try drawing a diagram or creating a visual representation of the problem.", hs[0].Content)
		assert.Equal(t, TypeConceptual, hs[1].Type)
		assert.Equal(t, TypeStrategic, hs[2].Type)
	})

	t.Run("encouragement fills the last slot", func(t *testing.T) {
		hs := svc.GeneratePersonalizedHints(ctx, Request{SessionID: "p3", QuestionID: "math_foundation_1", AttemptCount: 3})
		require.Len(t, hs, 2)
		assert.Equal(t, TypeConceptual, hs[0].Type)
		assert.Equal(t, TypeEncouragement, hs[1].Type)
	})

	t.Run("recorded in history", func(t *testing.T) {
		assert.Len(t, svc.History("p2"), 3)
	})
}

func TestPersonalizedContext(t *testing.T) {
	assert.Equal(t, "This hint is tailored to help you understand the core concepts better.", personalizedContext(&Request{}))
	got := personalizedContext(&Request{
		LearningStyle: StyleVerbal,
		Profile:       &Profile{StrugglingAreas: []string{"fractions", "ratios", "limits"}},
	})
	assert.Equal(t, "Based on your previous challenges with fractions and ratios, this approach should help. Try explaining this concept out loud to yourself.", got)
	assert.Equal(t, "This personalized hint is designed to match your learning preferences.", personalizedContext(&Request{Profile: &Profile{}}))
}

func TestAnalyticsAndSuggestions(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestItems(t), nil)

	empty := svc.Analytics("none")
	assert.Equal(t, 0, empty.TotalHints)
	assert.Equal(t, 0.0, empty.HintsPerQuestion)
	assert.Equal(t, []string{
		"Continue practicing to build proficiency",
		"Explore related topics to deepen understanding",
	}, svc.LearningSuggestions("none"))

	for _, q := range []string{"math_foundation_1", "math_intermediate_1"} {
		for i := 0; i < 2; i++ {
			svc.GenerateHint(ctx, Request{SessionID: "s", QuestionID: q, AttemptCount: 2})
		}
	}
	a := svc.Analytics("s")
	assert.Equal(t, 4, a.TotalHints)
	assert.Equal(t, 4, a.ByType[TypeConceptual])
	assert.InDelta(t, 0.85, a.AverageConfidence, 1e-9)
	assert.InDelta(t, 2.0, a.HintsPerQuestion, 1e-9)
	// Four conceptual hints is the threshold for the review suggestion.
	assert.Contains(t, svc.LearningSuggestions("s"), "Review prerequisite materials before attempting advanced problems")

	svc.Forget("s")
	assert.Empty(t, svc.History("s"))
}

func TestHistoryIsACopy(t *testing.T) {
	svc := NewService(newTestItems(t), nil)
	svc.GenerateHint(context.Background(), Request{SessionID: "s", QuestionID: "math_foundation_1", AttemptCount: 1})
	h := svc.History("s")
	h[0].Content = "mutated"
	assert.NotEqual(t, "mutated", svc.History("s")[0].Content)
}

func TestRefiner(t *testing.T) {
	ctx := context.Background()
	items := newTestItems(t)
	req := Request{SessionID: "s", QuestionID: "math_foundation_1", AttemptCount: 1, LearningStyle: StyleVisual}

	t.Run("rewrites content", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
			`{"content":"Picture a balance scale with 3x + 7 on one side.","reasoning":"visual learner","related_concepts":["equations"]}`)})
		svc := NewService(items, nil, WithRefiner(NewRefiner(mock, DefaultRefinerConfig())))

		h := svc.GenerateHint(ctx, req)
		assert.Equal(t, "Picture a balance scale with 3x + 7 on one side.", h.Content)
		assert.Equal(t, TypeStrategic, h.Type)
		assert.Equal(t, []string{"equations"}, h.RelatedConcepts)

		require.Equal(t, 1, mock.CallCount())
		call := mock.Calls[0]
		assert.Equal(t, RefinementSchema, call.Schema)
		assert.Contains(t, call.Messages[0].Content, "Solve for x: 3x + 7 = 22")
		assert.Contains(t, call.Messages[0].Content, "Learning style: visual")
	})

	t.Run("schema violation keeps rule hint", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"content":"x"}`)})
		svc := NewService(items, nil, WithRefiner(NewRefiner(mock, DefaultRefinerConfig())))
		h := svc.GenerateHint(ctx, req)
		assert.Equal(t, strategicHint().Content, h.Content)
	})

	t.Run("answer leak keeps rule hint", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"content":"The answer is 5.","reasoning":"r"}`)})
		r := NewRefiner(mock, DefaultRefinerConfig())
		_, err := r.Refine(ctx, &Env{Items: items, Phrases: HashChooser{}}, &req, *strategicHint())
		assert.ErrorIs(t, err, ErrAnswerLeak)
	})

	t.Run("provider error keeps rule hint", func(t *testing.T) {
		mock := llm.NewMockProvider()
		svc := NewService(items, nil, WithRefiner(NewRefiner(mock, DefaultRefinerConfig())))
		h := svc.GenerateHint(ctx, req)
		assert.Equal(t, strategicHint().Content, h.Content)
	})

	t.Run("encouragement is not refined", func(t *testing.T) {
		mock := llm.NewMockProvider()
		svc := NewService(items, nil, WithRefiner(NewRefiner(mock, DefaultRefinerConfig())))
		svc.GenerateHint(ctx, Request{SessionID: "s", QuestionID: "math_foundation_1", AttemptCount: 4})
		assert.Equal(t, 0, mock.CallCount())
	})
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "hints.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(newTestItems(t), nil, WithRecorder(db.EventRepo()))
	svc.GenerateHint(ctx, Request{SessionID: "s", QuestionID: "math_foundation_1", AttemptCount: 2})

	var n int
	require.NoError(t, db.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM hint_events WHERE session_id = ? AND hint_type = ?`, "s", "conceptual").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestConcurrentSessions(t *testing.T) {
	svc := NewService(newTestItems(t), nil, WithPhraseChooser(NewSeededChooser(7)))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid := fmt.Sprintf("s%d", i)
			for attempt := 1; attempt <= 5; attempt++ {
				svc.GenerateHint(context.Background(), Request{SessionID: sid, QuestionID: "math_intermediate_1", AttemptCount: attempt})
			}
		}(i)
	}
	wg.Wait()
	for i := 0; i < 16; i++ {
		assert.Len(t, svc.History(fmt.Sprintf("s%d", i)), 5)
	}
}
