package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.insert(ctx, "session_events",
		[]string{"session_id", "user_id", "action", "sections", "theta", "questions", "correct"},
		data.SessionID, data.UserID, data.Action, data.Sections, data.Theta, data.Questions, data.Correct,
	)
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.insert(ctx, "answer_events",
		[]string{"session_id", "question_id", "section", "answer", "correct", "response_time_ms",
			"hint_used", "theta_before", "theta_after", "standard_error"},
		data.SessionID, data.QuestionID, data.Section, data.Answer, boolInt(data.Correct), data.ResponseTimeMs,
		boolInt(data.HintUsed), data.ThetaBefore, data.ThetaAfter, data.StandardError,
	)
}

func (r *eventRepo) SessionAnswers(ctx context.Context, sessionID string) ([]AnswerEventRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, sequence, timestamp, session_id, question_id, section,
		answer, correct, response_time_ms, hint_used, theta_before, theta_after, standard_error
		FROM answer_events WHERE session_id = ? ORDER BY sequence`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEventRecord
	for rows.Next() {
		var rec AnswerEventRecord
		var ts int64
		var correct, hint int
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.SessionID, &rec.QuestionID, &rec.Section,
			&rec.Answer, &correct, &rec.ResponseTimeMs, &hint, &rec.ThetaBefore, &rec.ThetaAfter,
			&rec.StandardError); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.Correct = correct != 0
		rec.HintUsed = hint != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}
