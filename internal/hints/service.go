package hints

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/adaptiq/internal/logger"
	"github.com/abhisek/adaptiq/internal/store"
)

// MaxPersonalizedHints caps GeneratePersonalizedHints.
const MaxPersonalizedHints = 3

// Recorder receives generated hints. store.EventRepo satisfies it.
type Recorder interface {
	AppendHintEvent(ctx context.Context, data store.HintEventData) error
}

// Option configures a Service.
type Option func(*Service)

// WithStrategies replaces the default rule table.
func WithStrategies(strategies ...Strategy) Option {
	return func(s *Service) { s.strategies = strategies }
}

// WithPhraseChooser replaces HashChooser.
func WithPhraseChooser(c PhraseChooser) Option {
	return func(s *Service) { s.env.Phrases = c }
}

// WithRefiner rewrites every rule-based hint through r.
func WithRefiner(r *Refiner) Option {
	return func(s *Service) { s.refiner = r }
}

// WithRecorder sends each generated hint to r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service generates hints and keeps a per-session history. It is safe for
// concurrent use.
type Service struct {
	strategies []Strategy
	fallback   Strategy
	env        *Env
	refiner    *Refiner
	recorder   Recorder
	log        *logger.Logger
	now        func() time.Time

	mu      sync.RWMutex
	history map[string][]Hint
}

// NewService creates a hint service over items.
func NewService(items ItemSource, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		strategies: DefaultStrategies(),
		fallback:   &ProceduralStrategy{},
		env:        &Env{Items: items, Phrases: HashChooser{}},
		log:        log,
		now:        time.Now,
		history:    make(map[string][]Hint),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateHint applies the first matching rule, or the procedural default
// when none matches. Failures never reach the caller: a generic strategic
// hint is returned instead.
func (s *Service) GenerateHint(ctx context.Context, req Request) Hint {
	strategy := SelectStrategy(s.strategies, &req)
	if strategy == nil {
		strategy = s.fallback
	}

	name := strategy.Name()
	h, err := strategy.Generate(ctx, s.env, &req)
	if err != nil || h == nil {
		s.log.Warn("hint strategy failed", "strategy", name, "question_id", req.QuestionID, "error", err)
		h, name = fallbackHint(), FallbackName
	} else {
		s.refine(ctx, &req, h)
	}

	hint := s.finish(&req, h, name)
	s.record(ctx, hint, req.AttemptCount)
	return hint
}

// GeneratePersonalizedHints composes up to three hints: one for the
// learning style, one for repeated attempts, one for time on task and one
// of encouragement, in that order. At least one hint is always returned.
func (s *Service) GeneratePersonalizedHints(ctx context.Context, req Request) []Hint {
	type built struct {
		name string
		h    *Hint
	}
	var out []built

	if req.LearningStyle.Valid() {
		out = append(out, built{"learning_style", learningStyleHint(&req)})
	}
	if req.AttemptCount >= PersonalStruggleAttempts {
		h, err := (&StruggleStrategy{}).Generate(ctx, s.env, &req)
		if err != nil {
			s.log.Warn("struggle hint failed", "question_id", req.QuestionID, "error", err)
			out = append(out, built{FallbackName, fallbackHint()})
		} else {
			out = append(out, built{"struggling_student", h})
		}
	}
	if req.TimeSpent > PersonalTimeThreshold {
		out = append(out, built{"time_pressure", timeHint()})
	}
	if req.AttemptCount >= PersonalEncouragementAttempts {
		out = append(out, built{"encouragement", encouragementHint(s.env, &req)})
	}
	if len(out) == 0 {
		out = append(out, built{"personalized", profileHint(s.env, &req)})
	}
	if len(out) > MaxPersonalizedHints {
		out = out[:MaxPersonalizedHints]
	}

	hints := make([]Hint, len(out))
	for i, b := range out {
		hints[i] = s.finish(&req, b.h, b.name)
		s.record(ctx, hints[i], req.AttemptCount)
	}
	return hints
}

func (s *Service) refine(ctx context.Context, req *Request, h *Hint) {
	if s.refiner == nil || h.Type == TypeEncouragement {
		return
	}
	refined, err := s.refiner.Refine(ctx, s.env, req, *h)
	if err != nil {
		s.log.Debug("hint refinement skipped", "question_id", req.QuestionID, "error", err)
		return
	}
	*h = refined
}

func (s *Service) finish(req *Request, h *Hint, strategy string) Hint {
	out := *h
	out.ID = "hint_" + uuid.NewString()
	out.SessionID = req.SessionID
	out.QuestionID = req.QuestionID
	out.Strategy = strategy
	out.LearningStyle = req.LearningStyle.orDefault()
	out.PersonalizedContext = personalizedContext(req)
	out.CreatedAt = s.now()
	out.RelatedConcepts = append([]string(nil), h.RelatedConcepts...)
	return out
}

func (s *Service) record(ctx context.Context, h Hint, attempt int) {
	s.mu.Lock()
	s.history[h.SessionID] = append(s.history[h.SessionID], h)
	s.mu.Unlock()

	if s.recorder == nil {
		return
	}
	err := s.recorder.AppendHintEvent(ctx, store.HintEventData{
		SessionID:  h.SessionID,
		QuestionID: h.QuestionID,
		HintType:   string(h.Type),
		Content:    h.Content,
		Confidence: h.Confidence,
		Attempt:    attempt,
	})
	if err != nil {
		s.log.Warn("failed to record hint event", "session_id", h.SessionID, "error", err)
	}
}

// History returns the hints generated for a session, oldest first.
func (s *Service) History(sessionID string) []Hint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Hint(nil), s.history[sessionID]...)
}

// Forget drops a session's history.
func (s *Service) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.history, sessionID)
	s.mu.Unlock()
}
