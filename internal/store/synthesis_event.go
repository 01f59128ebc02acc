package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var synthesisEventColumns = []string{
	"id", "sequence", "timestamp", "lesson_id", "cache_key", "source_kind",
	"generator", "generation_id", "from_cache", "used_fallback",
	"latency_ms", "error_message",
}

func (r *eventRepo) AppendSynthesis(ctx context.Context, data SynthesisEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(SynthesisEventsTable.Name).
		Columns(synthesisEventColumns[1:]...).
		Values(
			seqNum, toMillis(r.now()), data.LessonID, data.CacheKey, data.SourceKind,
			data.Generator, data.GenerationID, data.FromCache, data.UsedFallback,
			data.LatencyMs, data.ErrorMessage,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save synthesis event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySynthesisEvents(ctx context.Context, opts QueryOpts) ([]SynthesisEvent, error) {
	b := builder()
	query, args := applyOpts(b.Select(synthesisEventColumns...).From(b.Table(SynthesisEventsTable.Name)), opts).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query synthesis events: %w", err)
	}
	defer rows.Close()

	var events []SynthesisEvent
	for rows.Next() {
		var e SynthesisEvent
		var ts int64
		if err := rows.Scan(
			&e.ID, &e.Sequence, &ts, &e.LessonID, &e.CacheKey, &e.SourceKind,
			&e.Generator, &e.GenerationID, &e.FromCache, &e.UsedFallback,
			&e.LatencyMs, &e.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan synthesis event: %w", err)
		}
		e.Timestamp = fromMillis(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}

// SynthesisSummary aggregates the matching events in Go.
func (r *eventRepo) SynthesisSummary(ctx context.Context, since time.Time) (SynthesisSummary, error) {
	events, err := r.QuerySynthesisEvents(ctx, QueryOpts{From: since})
	if err != nil {
		return SynthesisSummary{}, err
	}

	var s SynthesisSummary
	var totalLatency int64
	for _, e := range events {
		s.Requests++
		if e.FromCache {
			s.CacheHits++
		}
		if e.UsedFallback {
			s.Fallbacks++
		}
		if e.ErrorMessage != "" {
			s.Failures++
		}
		totalLatency += e.LatencyMs
	}
	if s.Requests > 0 {
		s.AvgLatencyMs = totalLatency / int64(s.Requests)
	}
	return s, nil
}
