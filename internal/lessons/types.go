package lessons

import (
	"github.com/ilearnhow/lessonsynth/internal/lesson"
	"github.com/ilearnhow/lessonsynth/internal/params"
)

// Request is a raw lesson request. Parameters are normalized by the
// service; no value is rejected.
type Request struct {
	Day      int    `json:"day"`
	Age      int    `json:"age"`
	Tone     string `json:"tone"`
	Language string `json:"language"`
	Avatar   string `json:"avatar,omitempty"`
}

// Response carries a served lesson and how it was obtained.
type Response struct {
	Lesson    *lesson.Lesson `json:"lesson"`
	FromCache bool           `json:"fromCache"`
	Key       string         `json:"cacheKey"`
	Params    params.Params  `json:"params"`
}

// WarmRequest describes a pre-generation grid. Every combination of day,
// age, tone and language is synthesized once.
type WarmRequest struct {
	Days        []int
	Ages        []int
	Tones       []string
	Languages   []string
	Concurrency int
}

// Size is the number of combinations in the grid.
func (w WarmRequest) Size() int {
	return len(w.Days) * len(w.Ages) * len(w.Tones) * len(w.Languages)
}

// WarmReport summarizes a warm run.
type WarmReport struct {
	Requested   int `json:"requested"`
	Synthesized int `json:"synthesized"`
	Cached      int `json:"cached"`
	Skipped     int `json:"skipped"`
}
