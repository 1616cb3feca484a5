package engine

import (
	"context"
	"fmt"
)

// FallbackHint is returned for items that carry no hints of their own.
const FallbackHint = "Think about the fundamental concepts involved."

// GenerateAIHint picks a hint from the item's list by how far the item's
// difficulty sits above theta: more than one logit above gets the first,
// most basic hint; up to one logit above gets the second; at or below theta
// gets the third. Indices are clamped to the hints available. On a repeat
// attempt with a known wrong answer a reflective prompt is appended.
func (e *Engine) GenerateAIHint(ctx context.Context, questionID string, theta float64, attemptCount int, previousIncorrect string) (string, error) {
	item, ok := e.bank.Item(questionID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrItemNotFound, questionID)
	}
	if len(item.Hints) == 0 {
		return FallbackHint, nil
	}

	gap := item.Params.Difficulty - theta
	var idx int
	switch {
	case gap > 1.0:
		idx = 0
	case gap > 0:
		idx = min(1, len(item.Hints)-1)
	default:
		idx = min(2, len(item.Hints)-1)
	}

	hint := item.Hints[idx]
	if attemptCount > 1 && previousIncorrect != "" {
		hint += fmt.Sprintf("\n\nI notice you tried %q. Consider why that approach might not work here.", previousIncorrect)
	}
	e.log.Debug("tiered hint", "question_id", questionID, "tier", idx, "attempt", attemptCount)
	return hint, nil
}
