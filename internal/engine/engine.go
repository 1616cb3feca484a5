// Package engine implements the computerized adaptive test: item selection
// by maximum Fisher information, response scoring, maximum-likelihood
// ability updates, tiered hints, and aggregated results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/adaptiq/internal/irt"
	"github.com/abhisek/adaptiq/internal/itembank"
	"github.com/abhisek/adaptiq/internal/logger"
	"github.com/abhisek/adaptiq/internal/session"
	"github.com/abhisek/adaptiq/internal/store"
)

var (
	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrItemNotFound is returned for question ids missing from the bank.
	ErrItemNotFound = errors.New("item not found")

	// ErrSessionClosed is returned when a session's results were already
	// requested.
	ErrSessionClosed = errors.New("session closed")

	// ErrAlreadyAnswered is returned when a question is submitted twice.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrUnknownSection is returned when a section name is not recognized.
	ErrUnknownSection = errors.New("unknown section")
)

// Config tunes the engine.
type Config struct {
	Estimator irt.EstimatorConfig

	// SignalWindow is the number of trailing responses inspected for the
	// adaptation signal.
	SignalWindow int

	// ConfidenceThreshold below which more evidence is requested.
	ConfidenceThreshold float64

	// SectionWeights are the default weights, renormalized over the
	// sections requested at start.
	SectionWeights map[itembank.Section]float64

	// SEAtCurrentTheta evaluates the standard error at the session's
	// current ability instead of at 0.
	SEAtCurrentTheta bool
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		Estimator:           irt.DefaultEstimatorConfig(),
		SignalWindow:        3,
		ConfidenceThreshold: 0.5,
		SectionWeights: map[itembank.Section]float64{
			itembank.SectionCoreMath:         0.25,
			itembank.SectionAppliedReasoning: 0.40,
			itembank.SectionAIConceptual:     0.35,
		},
	}
}

// Recorder receives the engine's audit events. store.EventRepo satisfies it.
type Recorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder sends session and answer events to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the random session id source.
func WithIDGenerator(next func() string) Option {
	return func(e *Engine) { e.newID = next }
}

// Engine is safe for concurrent use across different sessions. Calls
// against the same session must be serialized by the caller.
type Engine struct {
	bank     *itembank.Bank
	sessions session.Store
	cfg      Config
	log      *logger.Logger
	recorder Recorder
	now      func() time.Time
	newID    func() string
}

// New creates an engine over bank and sessions.
func New(bank *itembank.Bank, sessions session.Store, cfg Config, log *logger.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.SignalWindow <= 0 {
		cfg.SignalWindow = DefaultConfig().SignalWindow
	}
	if cfg.Estimator.MaxIterations <= 0 {
		cfg.Estimator = irt.DefaultEstimatorConfig()
	}
	if len(cfg.SectionWeights) == 0 {
		cfg.SectionWeights = DefaultConfig().SectionWeights
	}
	e := &Engine{
		bank:     bank,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		newID:    newSessionID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bank returns the item bank the engine selects from.
func (e *Engine) Bank() *itembank.Bank {
	return e.bank
}

// Item returns a copy of a bank item.
func (e *Engine) Item(id string) (itembank.Item, bool) {
	return e.bank.Item(id)
}

// Session returns a snapshot of a session.
func (e *Engine) Session(ctx context.Context, id string) (*session.Session, error) {
	return e.load(ctx, id)
}

func (e *Engine) load(ctx context.Context, id string) (*session.Session, error) {
	s, err := e.sessions.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return s, nil
}

func (e *Engine) recordSession(ctx context.Context, data store.SessionEventData) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.AppendSessionEvent(ctx, data); err != nil {
		e.log.Warn("failed to record session event", "session_id", data.SessionID, "action", data.Action, "error", err)
	}
}

func (e *Engine) recordAnswer(ctx context.Context, data store.AnswerEventData) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.AppendAnswerEvent(ctx, data); err != nil {
		e.log.Warn("failed to record answer event", "session_id", data.SessionID, "question_id", data.QuestionID, "error", err)
	}
}
