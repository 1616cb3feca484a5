package store

import "context"

func (r *eventRepo) AppendHintEvent(ctx context.Context, data HintEventData) error {
	return r.insert(ctx, "hint_events",
		[]string{"session_id", "question_id", "hint_type", "content", "confidence", "attempt"},
		data.SessionID, data.QuestionID, data.HintType, data.Content, data.Confidence, data.Attempt,
	)
}
