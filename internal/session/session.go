// Package session holds in-progress assessment state and the stores that
// keep it between calls.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/adaptiq/internal/itembank"
)

// ErrNotFound is returned when no session exists for an id.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the idle time after which a session is evicted.
const DefaultTTL = 6 * time.Hour

// Response is a single answered item.
type Response struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`

	// ResponseTime is the time taken to answer.
	ResponseTime time.Duration `json:"response_time"`

	// HintUsed is true when the examinee requested a hint for this item.
	HintUsed bool `json:"hint_used"`

	// Rationale is optional think-aloud text.
	Rationale string `json:"rationale,omitempty"`

	AnsweredAt time.Time `json:"answered_at"`
}

// Session is one examinee's assessment.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// CurrentTheta is the ability estimate after the latest response,
	// always within the engine's theta bounds.
	CurrentTheta float64 `json:"current_theta"`

	// Asked holds every item id already answered in this session.
	Asked map[string]bool `json:"asked"`

	// Responses in answer order.
	Responses []Response `json:"responses"`

	// Sections requested at start, in presentation order.
	Sections []itembank.Section `json:"sections"`

	// SectionWeights sum to 1.0 across Sections.
	SectionWeights map[itembank.Section]float64 `json:"section_weights"`

	StartTime    time.Time `json:"start_time"`
	LastActivity time.Time `json:"last_activity"`

	// CompletedAt is set by the first results request; the session is
	// read-only afterwards.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// New creates an empty session at average ability.
func New(id, userID string, sections []itembank.Section, weights map[itembank.Section]float64, now time.Time) *Session {
	return &Session{
		ID:             id,
		UserID:         userID,
		Asked:          make(map[string]bool),
		Sections:       append([]itembank.Section(nil), sections...),
		SectionWeights: weights,
		StartTime:      now,
		LastActivity:   now,
	}
}

// Closed reports whether results have been requested.
func (s *Session) Closed() bool {
	return s.CompletedAt != nil
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Asked = make(map[string]bool, len(s.Asked))
	for k, v := range s.Asked {
		out.Asked[k] = v
	}
	out.Responses = append([]Response(nil), s.Responses...)
	out.Sections = append([]itembank.Section(nil), s.Sections...)
	if s.SectionWeights != nil {
		out.SectionWeights = make(map[itembank.Section]float64, len(s.SectionWeights))
		for k, v := range s.SectionWeights {
			out.SectionWeights[k] = v
		}
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

// Store persists sessions keyed by id. Implementations must be safe for
// concurrent use across different session ids.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Len(ctx context.Context) (int, error)
}
