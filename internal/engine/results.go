package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/abhisek/adaptiq/internal/itembank"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/store"
)

// Placement is the course level implied by an ability estimate.
type Placement string

const (
	PlacementFoundation Placement = "foundation"
	PlacementImmersion  Placement = "immersion"
	PlacementMastery    Placement = "mastery"
)

// PlacementFor maps theta to a level: below -1 is foundation, below 1 is
// immersion, anything else mastery.
func PlacementFor(theta float64) Placement {
	switch {
	case theta < -1:
		return PlacementFoundation
	case theta < 1:
		return PlacementImmersion
	default:
		return PlacementMastery
	}
}

// EIQScore maps theta onto the 0–1000 reporting scale.
func EIQScore(theta float64) int {
	return int(math.Round(500 + theta*100))
}

const (
	minDomainResponses = 2
	strengthAccuracy   = 0.75
	weakAccuracy       = 0.50
)

// Results summarizes a finished session.
type Results struct {
	SessionID      string `json:"session_id"`
	UserID         string `json:"user_id"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`

	// OverallScore is the percentage of correct answers, rounded.
	OverallScore int `json:"overall_score"`

	// SectionScores holds a rounded percentage per requested section.
	SectionScores map[itembank.Section]int `json:"section_scores"`

	// WeightedScore combines section accuracies with the session weights,
	// on a 0–100 scale.
	WeightedScore float64 `json:"weighted_score"`

	EIQScore      int       `json:"eiq_score"`
	Placement     Placement `json:"placement_level"`
	Theta         float64   `json:"theta"`
	StandardError float64   `json:"standard_error"`
	Confidence    float64   `json:"confidence"`
	HintsUsed     int       `json:"hints_used"`

	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completed_at"`

	Strengths        []string `json:"strengths"`
	ImprovementAreas []string `json:"improvement_areas"`
}

// Results aggregates a session. The first call closes the session; later
// calls return the same values.
func (e *Engine) Results(ctx context.Context, sessionID string) (*Results, error) {
	s, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !s.Closed() {
		now := e.now()
		s.CompletedAt = &now
		if err := e.sessions.Save(ctx, s); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		res := e.summarize(s)
		e.recordSession(ctx, store.SessionEventData{
			SessionID: s.ID,
			UserID:    s.UserID,
			Action:    store.SessionCompleted,
			Theta:     s.CurrentTheta,
			Questions: res.TotalQuestions,
			Correct:   res.CorrectAnswers,
		})
		return res, nil
	}
	return e.summarize(s), nil
}

type tally struct{ correct, total int }

func (t tally) accuracy() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.correct) / float64(t.total)
}

func (e *Engine) summarize(s *session.Session) *Results {
	bySection := make(map[itembank.Section]*tally, len(s.Sections))
	for _, sec := range s.Sections {
		bySection[sec] = &tally{}
	}
	byDomain := make(map[string]*tally)

	res := &Results{
		SessionID:      s.ID,
		UserID:         s.UserID,
		TotalQuestions: len(s.Responses),
		Theta:          s.CurrentTheta,
		EIQScore:       EIQScore(s.CurrentTheta),
		Placement:      PlacementFor(s.CurrentTheta),
		CompletedAt:    *s.CompletedAt,
		Duration:       s.CompletedAt.Sub(s.StartTime),
	}

	for _, r := range s.Responses {
		if r.Correct {
			res.CorrectAnswers++
		}
		if r.HintUsed {
			res.HintsUsed++
		}
		item, ok := e.bank.Item(r.QuestionID)
		if !ok {
			continue
		}
		sec := bySection[item.Section]
		if sec == nil {
			sec = &tally{}
			bySection[item.Section] = sec
		}
		domain := item.Domain
		if domain == "" {
			domain = string(item.Section)
		}
		dom := byDomain[domain]
		if dom == nil {
			dom = &tally{}
			byDomain[domain] = dom
		}
		for _, t := range []*tally{sec, dom} {
			t.total++
			if r.Correct {
				t.correct++
			}
		}
	}

	if res.TotalQuestions > 0 {
		res.OverallScore = int(math.Round(100 * float64(res.CorrectAnswers) / float64(res.TotalQuestions)))
	}

	res.SectionScores = make(map[itembank.Section]int, len(bySection))
	for _, sec := range itembank.AllSections() {
		t, ok := bySection[sec]
		if !ok {
			continue
		}
		res.SectionScores[sec] = int(math.Round(100 * t.accuracy()))
		res.WeightedScore += 100 * t.accuracy() * s.SectionWeights[sec]
	}

	obs := e.observations(s)
	res.StandardError = e.standardError(s.CurrentTheta, obs)
	res.Confidence = confidence(res.StandardError)

	res.Strengths, res.ImprovementAreas = classifyDomains(byDomain)
	return res
}

func classifyDomains(byDomain map[string]*tally) (strengths, improvements []string) {
	strengths, improvements = []string{}, []string{}
	for domain, t := range byDomain {
		if t.total < minDomainResponses {
			continue
		}
		switch acc := t.accuracy(); {
		case acc >= strengthAccuracy:
			strengths = append(strengths, domain)
		case acc < weakAccuracy:
			improvements = append(improvements, domain)
		}
	}
	sort.Strings(strengths)
	sort.Strings(improvements)
	return strengths, improvements
}
