package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose filters LLM events by purpose label.
	Purpose string
}

// Session lifecycle actions.
const (
	SessionStarted   = "started"
	SessionCompleted = "completed"
	SessionEnded     = "ended"
)

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	SessionID string
	UserID    string
	Action    string
	Sections  string
	Theta     float64
	Questions int
	Correct   int
}

// AnswerEventData captures a scored response.
type AnswerEventData struct {
	SessionID      string
	QuestionID     string
	Section        string
	Answer         string
	Correct        bool
	ResponseTimeMs int64
	HintUsed       bool
	ThetaBefore    float64
	ThetaAfter     float64
	StandardError  float64
}

// AnswerEventRecord is a stored answer event.
type AnswerEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// HintEventData captures a generated hint.
type HintEventData struct {
	SessionID  string
	QuestionID string
	HintType   string
	Content    string
	Confidence float64
	Attempt    int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle transition.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records a scored response.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendHintEvent records a generated hint.
	AppendHintEvent(ctx context.Context, data HintEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// SessionAnswers returns a session's answer events in sequence order.
	SessionAnswers(ctx context.Context, sessionID string) ([]AnswerEventRecord, error)
}
