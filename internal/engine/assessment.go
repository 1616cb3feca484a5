package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/adaptiq/internal/irt"
	"github.com/abhisek/adaptiq/internal/itembank"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/store"
)

// Submission is an examinee's answer to one item.
type Submission struct {
	QuestionID   string
	Answer       string
	ResponseTime time.Duration
	HintUsed     bool
	Rationale    string
}

// Update is the engine's state after scoring a submission.
type Update struct {
	Correct       bool
	PreviousTheta float64
	Theta         float64
	StandardError float64
	Confidence    float64
	Signal        Signal

	// Converged and Iterations describe the Newton–Raphson search. A
	// non-converged estimate is still the best value reached.
	Converged  bool
	Iterations int
}

// StartAssessment opens a session at average ability. An empty sections
// list selects every section.
func (e *Engine) StartAssessment(ctx context.Context, userID string, sections []itembank.Section) (string, error) {
	sections, err := normalizeSections(sections)
	if err != nil {
		return "", err
	}

	now := e.now()
	s := session.New(e.newID(), userID, sections, e.sectionWeights(sections), now)
	if err := e.sessions.Create(ctx, s); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	e.log.Debug("assessment started", "session_id", s.ID, "user_id", userID, "sections", len(sections))
	e.recordSession(ctx, store.SessionEventData{
		SessionID: s.ID,
		UserID:    userID,
		Action:    store.SessionStarted,
		Sections:  joinSections(sections),
	})
	return s.ID, nil
}

func normalizeSections(in []itembank.Section) ([]itembank.Section, error) {
	if len(in) == 0 {
		return itembank.AllSections(), nil
	}
	seen := make(map[itembank.Section]bool, len(in))
	out := make([]itembank.Section, 0, len(in))
	for _, s := range in {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, s)
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// sectionWeights restricts the configured weights to sections and rescales
// them to sum to 1. Sections without a configured weight share equally.
func (e *Engine) sectionWeights(sections []itembank.Section) map[itembank.Section]float64 {
	weights := make(map[itembank.Section]float64, len(sections))
	total := 0.0
	for _, s := range sections {
		w := e.cfg.SectionWeights[s]
		weights[s] = w
		total += w
	}
	if total <= 0 {
		for _, s := range sections {
			weights[s] = 1 / float64(len(sections))
		}
		return weights
	}
	for s, w := range weights {
		weights[s] = w / total
	}
	return weights
}

func joinSections(sections []itembank.Section) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

// SelectNextQuestion returns the unasked item in section with the highest
// Fisher information at the session's current ability. Ties go to the item
// listed first in the bank. A nil item with a nil error means the section
// is exhausted. The session is not modified.
func (e *Engine) SelectNextQuestion(ctx context.Context, sessionID string, section itembank.Section) (*itembank.Item, error) {
	if !section.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	s, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrSessionClosed, sessionID)
	}

	bestID := ""
	bestInfo := -1.0
	for _, id := range e.bank.SectionIDs(section) {
		if s.Asked[id] {
			continue
		}
		p, _ := e.bank.Params(id)
		if info := irt.Information(s.CurrentTheta, p.Model()); info > bestInfo {
			bestID, bestInfo = id, info
		}
	}
	if bestID == "" {
		return nil, nil
	}
	it, _ := e.bank.Item(bestID)
	return &it, nil
}

// ProcessResponse scores sub, re-estimates ability from every response in
// the session and stores the result.
func (e *Engine) ProcessResponse(ctx context.Context, sessionID string, sub Submission) (*Update, error) {
	s, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrSessionClosed, sessionID)
	}
	item, ok := e.bank.Item(sub.QuestionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, sub.QuestionID)
	}
	if s.Asked[sub.QuestionID] {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAnswered, sub.QuestionID)
	}

	now := e.now()
	correct := AnswersMatch(sub.Answer, item.CorrectAnswer)
	s.Responses = append(s.Responses, session.Response{
		QuestionID:   sub.QuestionID,
		Answer:       sub.Answer,
		Correct:      correct,
		ResponseTime: sub.ResponseTime,
		HintUsed:     sub.HintUsed,
		Rationale:    sub.Rationale,
		AnsweredAt:   now,
	})
	s.Asked[sub.QuestionID] = true

	obs := e.observations(s)
	est := irt.EstimateTheta(s.CurrentTheta, obs, e.cfg.Estimator)
	if !est.Converged {
		e.log.Debug("ability estimate did not converge", "session_id", s.ID, "iterations", est.Iterations, "theta", est.Theta)
	}

	prev := s.CurrentTheta
	s.CurrentTheta = est.Theta
	s.LastActivity = now

	se := e.standardError(s.CurrentTheta, obs)
	conf := confidence(se)
	up := &Update{
		Correct:       correct,
		PreviousTheta: prev,
		Theta:         s.CurrentTheta,
		StandardError: se,
		Confidence:    conf,
		Signal:        adaptationSignal(s.Responses, e.cfg.SignalWindow, conf, e.cfg.ConfidenceThreshold),
		Converged:     est.Converged,
		Iterations:    est.Iterations,
	}

	if err := e.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	e.recordAnswer(ctx, store.AnswerEventData{
		SessionID:      s.ID,
		QuestionID:     item.ID,
		Section:        string(item.Section),
		Answer:         sub.Answer,
		Correct:        correct,
		ResponseTimeMs: sub.ResponseTime.Milliseconds(),
		HintUsed:       sub.HintUsed,
		ThetaBefore:    prev,
		ThetaAfter:     up.Theta,
		StandardError:  se,
	})
	return up, nil
}

// AnswersMatch compares answers ignoring case, surrounding whitespace and
// runs of inner whitespace.
func AnswersMatch(given, expected string) bool {
	return normalizeAnswer(given) == normalizeAnswer(expected)
}

func normalizeAnswer(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func (e *Engine) observations(s *session.Session) []irt.Observation {
	obs := make([]irt.Observation, 0, len(s.Responses))
	for _, r := range s.Responses {
		p, ok := e.bank.Params(r.QuestionID)
		if !ok {
			continue
		}
		obs = append(obs, irt.Observation{Params: p.Model(), Correct: r.Correct})
	}
	return obs
}

// standardError is evaluated at θ=0 unless SEAtCurrentTheta is set.
func (e *Engine) standardError(theta float64, obs []irt.Observation) float64 {
	at := 0.0
	if e.cfg.SEAtCurrentTheta {
		at = theta
	}
	params := make([]irt.Params, len(obs))
	for i, o := range obs {
		params[i] = o.Params
	}
	return irt.StandardError(at, params)
}

func confidence(se float64) float64 {
	return irt.Clamp(1-se/2, 0, 1)
}

// EndSession removes a session from the store.
func (e *Engine) EndSession(ctx context.Context, sessionID string) error {
	s, err := e.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	e.recordSession(ctx, store.SessionEventData{
		SessionID: s.ID,
		UserID:    s.UserID,
		Action:    store.SessionEnded,
		Theta:     s.CurrentTheta,
		Questions: len(s.Responses),
		Correct:   countCorrect(s.Responses),
	})
	return nil
}

func countCorrect(rs []session.Response) int {
	n := 0
	for _, r := range rs {
		if r.Correct {
			n++
		}
	}
	return n
}
