package llm

import (
	"context"
	"slices"
)

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels recorded with each LLM event.
const (
	PurposeHintRefinement = "hint-refinement"
	PurposePing           = "ping"
)

// Purposes lists the labels the application sends requests under.
func Purposes() []string {
	return []string{PurposeHintRefinement, PurposePing}
}

// KnownPurpose reports whether p is one of Purposes.
func KnownPurpose(p string) bool {
	return slices.Contains(Purposes(), p)
}

// WithPurpose labels requests made with ctx. The label selects the event
// log purpose and, for the mock provider, which canned replies apply.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
