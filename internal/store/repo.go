package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
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
	CostUSD      float64
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// SynthesisEventData captures one lesson request served by the service.
type SynthesisEventData struct {
	LessonID     int
	CacheKey     string
	SourceKind   string
	Generator    string
	GenerationID string
	FromCache    bool
	UsedFallback bool
	LatencyMs    int64
	ErrorMessage string
}

// SynthesisEvent is a stored synthesis event.
type SynthesisEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SynthesisEventData
}

// SynthesisSummary aggregates synthesis events.
type SynthesisSummary struct {
	Requests     int
	CacheHits    int
	Fallbacks    int
	Failures     int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates all recorded usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage per model since the given time. A
	// zero time covers all events.
	LLMUsageByModel(ctx context.Context, since time.Time) ([]ModelUsage, error)

	// AppendSynthesis records a served lesson request.
	AppendSynthesis(ctx context.Context, data SynthesisEventData) error

	// QuerySynthesisEvents returns synthesis events newest first.
	QuerySynthesisEvents(ctx context.Context, opts QueryOpts) ([]SynthesisEvent, error)

	// SynthesisSummary aggregates synthesis events since the given time.
	SynthesisSummary(ctx context.Context, since time.Time) (SynthesisSummary, error)
}

// eventRepo implements EventRepo with ent SQL builders and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
	now func() time.Time
}
