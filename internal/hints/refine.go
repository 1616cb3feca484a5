package hints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/adaptiq/internal/llm"
)

// RefinementSchema is the structured output expected from the model.
var RefinementSchema = &llm.Schema{
	Name:        llm.PurposeHintRefinement,
	Description: "A hint rewritten for a specific learner without revealing the answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The rewritten hint, at most three sentences",
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "One sentence on why this phrasing suits the learner",
			},
			"related_concepts": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Short snake_case concept names the hint touches",
			},
		},
		"required":             []any{"content", "reasoning"},
		"additionalProperties": false,
	},
}

// ErrAnswerLeak is returned when a rewritten hint contains the answer.
var ErrAnswerLeak = errors.New("refined hint reveals the answer")

// RefinerConfig holds generation settings for hint rewriting.
type RefinerConfig struct {
	MaxTokens   int
	Temperature float64
}

func DefaultRefinerConfig() RefinerConfig {
	return RefinerConfig{
		MaxTokens:   256,
		Temperature: 0.4,
	}
}

// Refiner rewrites rule-based hints with an LLM.
type Refiner struct {
	provider llm.Provider
	cfg      RefinerConfig
}

func NewRefiner(provider llm.Provider, cfg RefinerConfig) *Refiner {
	return &Refiner{provider: provider, cfg: cfg}
}

type refinementOutput struct {
	Content         string   `json:"content"`
	Reasoning       string   `json:"reasoning"`
	RelatedConcepts []string `json:"related_concepts"`
}

type refinementPrompt struct {
	QuestionText  string
	CorrectAnswer string
	HintType      Type
	Hint          string
	Attempt       int
	Style         LearningStyle
	LastAnswer    string
	Struggling    string
}

// Refine returns a copy of h with model-written content. The hint type,
// confidence and adjustment are kept.
func (r *Refiner) Refine(ctx context.Context, env *Env, req *Request, h Hint) (Hint, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeHintRefinement)

	p := refinementPrompt{
		HintType:   h.Type,
		Hint:       h.Content,
		Attempt:    req.AttemptCount,
		Style:      req.LearningStyle.orDefault(),
		LastAnswer: req.lastIncorrect(),
	}
	if item, ok := env.Items.Item(req.QuestionID); ok {
		p.QuestionText = item.Text
		p.CorrectAnswer = item.CorrectAnswer
	}
	if req.Profile != nil {
		p.Struggling = strings.Join(req.Profile.StrugglingAreas, ", ")
	}

	var buf bytes.Buffer
	if err := refinementUserTemplate.Execute(&buf, p); err != nil {
		return h, fmt.Errorf("build refinement prompt: %w", err)
	}

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      refinementSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buf.String()}},
		Schema:      RefinementSchema,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return h, fmt.Errorf("LLM refinement failed: %w", err)
	}

	var out refinementOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return h, fmt.Errorf("failed to parse refinement response: %w", err)
	}
	if p.CorrectAnswer != "" && strings.Contains(strings.ToLower(out.Content), strings.ToLower(p.CorrectAnswer)) {
		return h, ErrAnswerLeak
	}

	h.Content = out.Content
	h.Reasoning = out.Reasoning
	if len(out.RelatedConcepts) > 0 {
		h.RelatedConcepts = out.RelatedConcepts
	}
	return h, nil
}

const refinementSystemPrompt = `You are a patient tutor helping a learner during an adaptive assessment. You are given a hint written by a rule engine. Rewrite it for this learner.

Instructions:
- Keep the intent and the hint type of the original.
- Never state or imply the correct answer.
- At most three sentences, plain language.
- Keep reasoning to one sentence.`

var refinementUserTemplate = template.Must(template.New("refinement").Parse(`{{if .QuestionText}}Question: {{.QuestionText}}
Correct answer (do not reveal): {{.CorrectAnswer}}
{{end}}Hint type: {{.HintType}}
Original hint: {{.Hint}}
Attempt: {{.Attempt}}
Learning style: {{.Style}}
{{if .LastAnswer}}Last wrong answer: {{.LastAnswer}}
{{end}}{{if .Struggling}}Known weak areas: {{.Struggling}}
{{end}}`))
