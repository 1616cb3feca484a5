package hints

import (
	"context"
	"time"

	"github.com/abhisek/adaptiq/internal/itembank"
)

// Thresholds that select a strategy.
const (
	StruggleAttempts      = 3
	StruggleTheta         = -1.0
	TimePressureThreshold = 180 * time.Second
	EncouragementAttempts = 4

	// Thresholds used by GeneratePersonalizedHints.
	PersonalStruggleAttempts      = 2
	PersonalTimeThreshold         = 120 * time.Second
	PersonalEncouragementAttempts = 3
)

// ItemSource supplies item details and difficulty-tiered hint text.
// *engine.Engine satisfies it.
type ItemSource interface {
	Item(id string) (itembank.Item, bool)
	GenerateAIHint(ctx context.Context, questionID string, theta float64, attemptCount int, previousIncorrect string) (string, error)
}

// Env is what a strategy may draw on while building a hint.
type Env struct {
	Items   ItemSource
	Phrases PhraseChooser
}

// Strategy is one rule of the hint table.
type Strategy interface {
	Name() string
	Matches(req *Request) bool
	Generate(ctx context.Context, env *Env, req *Request) (*Hint, error)
}

// DefaultStrategies returns the rule table in priority order. The first
// matching rule wins.
func DefaultStrategies() []Strategy {
	return []Strategy{
		&StruggleStrategy{},
		&TimePressureStrategy{},
		&ConceptualGapStrategy{},
		&FirstAttemptStrategy{},
		&EncouragementStrategy{},
	}
}

// SelectStrategy returns the first strategy that matches req, or nil.
func SelectStrategy(strategies []Strategy, req *Request) Strategy {
	for _, s := range strategies {
		if s.Matches(req) {
			return s
		}
	}
	return nil
}

// StruggleStrategy simplifies for repeated misses by a low-ability examinee.
type StruggleStrategy struct{}

func (s *StruggleStrategy) Name() string { return "struggling_student" }

func (s *StruggleStrategy) Matches(req *Request) bool {
	return req.AttemptCount >= StruggleAttempts && req.Theta < StruggleTheta
}

func (s *StruggleStrategy) Generate(ctx context.Context, env *Env, req *Request) (*Hint, error) {
	base, err := env.Items.GenerateAIHint(ctx, req.QuestionID, req.Theta, req.AttemptCount, req.lastIncorrect())
	if err != nil {
		return nil, err
	}
	return &Hint{
		Type:              TypeConceptual,
		Content:           "Let's break this down step by step. " + base + " Remember, it's okay to take your time with challenging problems.",
		Confidence:        0.9,
		Reasoning:         "Several attempts at a low ability estimate; giving foundational support and encouragement.",
		SuggestedNextStep: "Focus on understanding the core concept before attempting calculation",
		RelatedConcepts:   relatedConcepts(env.Items, req.QuestionID),
		Adjustment:        AdjustSimplify,
	}, nil
}

// TimePressureStrategy nudges toward elimination after a long stall.
type TimePressureStrategy struct{}

func (s *TimePressureStrategy) Name() string { return "time_pressure" }

func (s *TimePressureStrategy) Matches(req *Request) bool {
	return req.TimeSpent > TimePressureThreshold
}

func (s *TimePressureStrategy) Generate(_ context.Context, _ *Env, _ *Request) (*Hint, error) {
	return timeHint(), nil
}

func timeHint() *Hint {
	return &Hint{
		Type:              TypeStrategic,
		Content:           "You've been working on this for a while. Try focusing on the key information given and eliminate obviously wrong answers first.",
		Confidence:        0.8,
		Reasoning:         "Time on task is high; a strategy for narrowing options should help.",
		SuggestedNextStep: "Use process of elimination to narrow down options",
		RelatedConcepts:   []string{"problem_solving_strategies", "time_management"},
		Adjustment:        AdjustMaintain,
	}
}

// ConceptualGapStrategy points at the governing principle on a second try.
type ConceptualGapStrategy struct{}

func (s *ConceptualGapStrategy) Name() string { return "conceptual_gap" }

func (s *ConceptualGapStrategy) Matches(req *Request) bool {
	return req.AttemptCount == 2
}

func (s *ConceptualGapStrategy) Generate(ctx context.Context, env *Env, req *Request) (*Hint, error) {
	base, err := env.Items.GenerateAIHint(ctx, req.QuestionID, req.Theta, req.AttemptCount, "")
	if err != nil {
		return nil, err
	}
	return &Hint{
		Type:              TypeConceptual,
		Content:           "Think about the underlying concept here. " + base + " What principle or formula applies to this type of problem?",
		Confidence:        0.85,
		Reasoning:         "A second attempt suggests the underlying concept needs clarifying.",
		SuggestedNextStep: "Identify the relevant mathematical or logical principle",
		RelatedConcepts:   relatedConcepts(env.Items, req.QuestionID),
		Adjustment:        AdjustSimplify,
	}, nil
}

// FirstAttemptStrategy frames the problem before any specific help.
type FirstAttemptStrategy struct{}

func (s *FirstAttemptStrategy) Name() string { return "strategic_guidance" }

func (s *FirstAttemptStrategy) Matches(req *Request) bool {
	return req.AttemptCount == 1
}

func (s *FirstAttemptStrategy) Generate(_ context.Context, _ *Env, _ *Request) (*Hint, error) {
	return strategicHint(), nil
}

func strategicHint() *Hint {
	return &Hint{
		Type:              TypeStrategic,
		Content:           "Take a moment to analyze what the question is really asking. What information do you have, and what do you need to find?",
		Confidence:        0.75,
		Reasoning:         "First attempt; guiding how to read the problem.",
		SuggestedNextStep: "Clearly identify given information and what needs to be solved",
		RelatedConcepts:   []string{"problem_analysis", "strategic_thinking"},
		Adjustment:        AdjustMaintain,
	}
}

// EncouragementPhrases are chosen from by EncouragementStrategy.
var EncouragementPhrases = []string{
	"You're putting in great effort! Learning happens through practice and persistence.",
	"Each attempt is bringing you closer to understanding. Keep thinking it through!",
	"Remember, challenging problems help you grow. You've got the skills to figure this out.",
	"Take a deep breath. You've solved similar problems before - trust your knowledge.",
}

// EncouragementStrategy offers motivation only.
type EncouragementStrategy struct{}

func (s *EncouragementStrategy) Name() string { return "encouragement" }

func (s *EncouragementStrategy) Matches(req *Request) bool {
	return req.AttemptCount >= EncouragementAttempts
}

func (s *EncouragementStrategy) Generate(_ context.Context, env *Env, req *Request) (*Hint, error) {
	return encouragementHint(env, req), nil
}

func encouragementHint(env *Env, req *Request) *Hint {
	return &Hint{
		Type:              TypeEncouragement,
		Content:           EncouragementPhrases[env.Phrases.Choose(req, len(EncouragementPhrases))],
		Confidence:        1.0,
		Reasoning:         "Many attempts; offering motivation rather than more content.",
		SuggestedNextStep: "Take a moment to reset, then approach the problem with fresh perspective",
		Adjustment:        AdjustMaintain,
	}
}

// ProceduralStrategy is used when no rule matches: the item's own tiered
// hint, unembellished.
type ProceduralStrategy struct{}

func (s *ProceduralStrategy) Name() string { return "procedural" }

func (s *ProceduralStrategy) Matches(*Request) bool { return true }

func (s *ProceduralStrategy) Generate(ctx context.Context, env *Env, req *Request) (*Hint, error) {
	base, err := env.Items.GenerateAIHint(ctx, req.QuestionID, req.Theta, req.AttemptCount, "")
	if err != nil {
		return nil, err
	}
	return &Hint{
		Type:              TypeProcedural,
		Content:           base,
		Confidence:        0.7,
		Reasoning:         "Standard hint from the item's own hint list.",
		SuggestedNextStep: "Apply the suggested approach to solve the problem",
		Adjustment:        AdjustMaintain,
	}, nil
}

// FallbackName labels hints produced after a strategy failed.
const FallbackName = "fallback"

func fallbackHint() *Hint {
	h := strategicHint()
	h.Confidence = 0.5
	h.Reasoning = "Hint generation failed; falling back to general problem-solving guidance."
	return h
}

var sectionConcepts = map[itembank.Section][]string{
	itembank.SectionCoreMath:         {"algebra", "arithmetic", "problem_solving"},
	itembank.SectionAppliedReasoning: {"logical_thinking", "analysis", "pattern_recognition"},
	itembank.SectionAIConceptual:     {"machine_learning", "data_analysis", "algorithmic_thinking"},
}

func relatedConcepts(items ItemSource, questionID string) []string {
	item, ok := items.Item(questionID)
	if !ok {
		return []string{"critical_thinking", "problem_solving"}
	}
	out := append([]string(nil), sectionConcepts[item.Section]...)
	if item.Domain != "" {
		out = append(out, item.Domain)
	}
	return out
}
