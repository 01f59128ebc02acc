package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
)

// LessonRepo persists synthesized lessons by cache key so they survive
// restarts. It satisfies the synthesis cache's Backend interface.
type LessonRepo struct {
	drv *entsql.Driver
	now func() time.Time
}

// StoredLesson is a row summary for listings.
type StoredLesson struct {
	CacheKey  string
	LessonID  int
	Title     string
	Language  string
	CreatedAt time.Time
}

// Load returns the lesson stored under key.
func (r *LessonRepo) Load(ctx context.Context, key string) (*lesson.Lesson, bool, error) {
	b := builder()
	query, args := b.Select("body").
		From(b.Table(LessonsTable.Name)).
		Where(entsql.EQ("cache_key", key)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, false, fmt.Errorf("query lesson %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}
	var body []byte
	if err := rows.Scan(&body); err != nil {
		return nil, false, fmt.Errorf("scan lesson %q: %w", key, err)
	}

	var l lesson.Lesson
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, false, fmt.Errorf("decode lesson %q: %w", key, err)
	}
	return &l, true, nil
}

// Save stores l under key, replacing any previous lesson.
func (r *LessonRepo) Save(ctx context.Context, key string, l *lesson.Lesson) error {
	body, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode lesson %q: %w", key, err)
	}

	query, args := builder().Insert(LessonsTable.Name).
		Columns("cache_key", "lesson_id", "title", "language", "body", "created_at").
		Values(key, l.Metadata.LessonID, l.Title, string(l.Metadata.Language), body, toMillis(r.now())).
		OnConflict(
			entsql.ConflictColumns("cache_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save lesson %q: %w", key, err)
	}
	return nil
}

// List returns stored lessons, optionally filtered to one day (0 = all),
// ordered by day then key.
func (r *LessonRepo) List(ctx context.Context, lessonID int) ([]StoredLesson, error) {
	b := builder()
	sel := b.Select("cache_key", "lesson_id", "title", "language", "created_at").
		From(b.Table(LessonsTable.Name)).
		OrderBy("lesson_id", "cache_key")
	if lessonID > 0 {
		sel.Where(entsql.EQ("lesson_id", lessonID))
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var out []StoredLesson
	for rows.Next() {
		var s StoredLesson
		var created int64
		if err := rows.Scan(&s.CacheKey, &s.LessonID, &s.Title, &s.Language, &created); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		s.CreatedAt = fromMillis(created)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes every stored variant of a day and returns the count.
func (r *LessonRepo) Delete(ctx context.Context, lessonID int) (int64, error) {
	query, args := builder().Delete(LessonsTable.Name).
		Where(entsql.EQ("lesson_id", lessonID)).
		Query()
	return r.exec(ctx, query, args)
}

// Clear removes all stored lessons and returns the count.
func (r *LessonRepo) Clear(ctx context.Context) (int64, error) {
	query, args := builder().Delete(LessonsTable.Name).Query()
	return r.exec(ctx, query, args)
}

func (r *LessonRepo) exec(ctx context.Context, query string, args []any) (int64, error) {
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("delete lessons: %w", err)
	}
	return res.RowsAffected()
}
