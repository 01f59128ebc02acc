package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions in the layout ent's migrate package uses. Timestamps
// are stored as Unix milliseconds.

var (
	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "cost_usd", Type: field.TypeFloat64, Default: 0},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LLMRequestEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
			{Name: "llmrequestevent_model", Columns: []*schema.Column{LLMRequestEventsColumns[4]}},
		},
	}

	// SynthesisEventsColumns holds the columns for the "synthesis_events" table.
	SynthesisEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "lesson_id", Type: field.TypeInt},
		{Name: "cache_key", Type: field.TypeString},
		{Name: "source_kind", Type: field.TypeString, Default: ""},
		{Name: "generator", Type: field.TypeString, Default: ""},
		{Name: "generation_id", Type: field.TypeString, Default: ""},
		{Name: "from_cache", Type: field.TypeBool},
		{Name: "used_fallback", Type: field.TypeBool},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	// SynthesisEventsTable holds the schema information for the "synthesis_events" table.
	SynthesisEventsTable = &schema.Table{
		Name:       "synthesis_events",
		Columns:    SynthesisEventsColumns,
		PrimaryKey: []*schema.Column{SynthesisEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "synthesisevent_timestamp", Columns: []*schema.Column{SynthesisEventsColumns[2]}},
			{Name: "synthesisevent_lesson_id", Columns: []*schema.Column{SynthesisEventsColumns[3]}},
		},
	}

	// LessonsColumns holds the columns for the "lessons" table.
	LessonsColumns = []*schema.Column{
		{Name: "cache_key", Type: field.TypeString},
		{Name: "lesson_id", Type: field.TypeInt},
		{Name: "title", Type: field.TypeString},
		{Name: "language", Type: field.TypeString},
		{Name: "body", Type: field.TypeBytes},
		{Name: "created_at", Type: field.TypeInt64},
	}
	// LessonsTable holds the schema information for the "lessons" table.
	LessonsTable = &schema.Table{
		Name:       "lessons",
		Columns:    LessonsColumns,
		PrimaryKey: []*schema.Column{LessonsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "lesson_lesson_id", Columns: []*schema.Column{LessonsColumns[1]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LLMRequestEventsTable,
		SynthesisEventsTable,
		LessonsTable,
	}
)
