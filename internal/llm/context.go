package llm

import "context"

// Purpose labels why a request was made. It is recorded with each LLM
// event and grouped on by `llm stats`.
type Purpose string

const (
	PurposeLesson      Purpose = "lesson"
	PurposeTranslation Purpose = "translation"
	PurposeUnknown     Purpose = "unknown"
)

type contextKey string

const purposeKey contextKey = "llm_purpose"

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose Purpose) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(Purpose); ok && v != "" {
		return string(v)
	}
	return string(PurposeUnknown)
}
