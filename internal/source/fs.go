package source

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
)

//go:embed builtin
var builtinFS embed.FS

// FSLoader reads sources from a filesystem laid out as
//
//	dna/NNN_<topic>.json|yaml
//	curriculum/<month>_curriculum.json|yaml
//
// A DNA document for a day takes precedence over its curriculum entry.
// Monthly curriculum files are parsed once and memoized.
type FSLoader struct {
	fsys fs.FS
	log  *zap.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	months map[int]map[int]curriculumDay
}

// Option configures an FSLoader.
type Option func(*FSLoader)

// WithLogger sets the logger used for malformed-document warnings.
func WithLogger(l *zap.Logger) Option {
	return func(f *FSLoader) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFSLoader reads from fsys.
func NewFSLoader(fsys fs.FS, opts ...Option) *FSLoader {
	f := &FSLoader{
		fsys:   fsys,
		log:    zap.NewNop(),
		months: make(map[int]map[int]curriculumDay),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// NewDirLoader reads from a directory on disk.
func NewDirLoader(dir string, opts ...Option) *FSLoader {
	return NewFSLoader(os.DirFS(dir), opts...)
}

// Builtin serves the curriculum compiled into the binary.
func Builtin(opts ...Option) *FSLoader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err)
	}
	return NewFSLoader(sub, opts...)
}

type curriculumFile struct {
	Month string          `json:"month" yaml:"month"`
	Days  []curriculumDay `json:"days" yaml:"days"`
}

type curriculumDay struct {
	Day               int      `json:"day" yaml:"day"`
	Date              string   `json:"date" yaml:"date"`
	Title             string   `json:"title" yaml:"title"`
	LearningObjective string   `json:"learning_objective" yaml:"learning_objective"`
	Concept           string   `json:"concept" yaml:"concept"`
	Examples          []string `json:"examples" yaml:"examples"`
	Reflection        string   `json:"reflection" yaml:"reflection"`
}

func (f *FSLoader) Load(ctx context.Context, day int) (*lesson.Source, error) {
	if day < 1 || day > MaxDay {
		return nil, lesson.NotFound(day, fmt.Errorf("day out of range 1-%d", MaxDay))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := f.loadDNA(day)
	if err != nil || src != nil {
		return src, err
	}
	return f.loadCurriculum(day)
}

var extensions = []string{".json", ".yaml", ".yml"}

func (f *FSLoader) loadDNA(day int) (*lesson.Source, error) {
	matches, err := fs.Glob(f.fsys, fmt.Sprintf("dna/%03d_*", day))
	if err != nil {
		return nil, fmt.Errorf("glob dna files: %w", err)
	}
	sort.Strings(matches)

	for _, name := range matches {
		if !hasExt(name) {
			continue
		}
		var dna lesson.DNA
		if err := decodeFile(f.fsys, name, &dna); err != nil {
			// A broken DNA file falls through to the curriculum entry.
			f.log.Warn("skipping unreadable DNA file", zap.String("file", name), zap.Error(err))
			continue
		}
		if missing := dna.MissingFields(); len(missing) > 0 {
			f.log.Warn("DNA file missing required fields",
				zap.String("file", name),
				zap.Strings("fields", missing),
			)
		}
		return &lesson.Source{
			ID:                day,
			Title:             dna.Title,
			LearningObjective: firstNonEmpty(dna.LearningEssence, dna.CorePrinciple),
			DNA:               &dna,
		}, nil
	}
	return nil, nil
}

func (f *FSLoader) loadCurriculum(day int) (*lesson.Source, error) {
	m, err := MonthOf(day)
	if err != nil {
		return nil, lesson.NotFound(day, err)
	}

	days, err := f.month(m)
	if err != nil {
		return nil, err
	}
	entry, ok := days[day]
	if !ok {
		return nil, lesson.NotFound(day, nil)
	}

	return &lesson.Source{
		ID:                day,
		Title:             entry.Title,
		LearningObjective: entry.LearningObjective,
		Curriculum: &lesson.Curriculum{
			Date:       entry.Date,
			Topic:      entry.Title,
			Objective:  entry.LearningObjective,
			Concept:    entry.Concept,
			Examples:   entry.Examples,
			Reflection: entry.Reflection,
		},
	}, nil
}

// month returns the parsed curriculum for month m. Concurrent first loads
// share one read.
func (f *FSLoader) month(m int) (map[int]curriculumDay, error) {
	f.mu.RLock()
	days, ok := f.months[m]
	f.mu.RUnlock()
	if ok {
		return days, nil
	}

	v, err, _ := f.group.Do(MonthName(m), func() (any, error) {
		days, err := f.readMonth(m)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.months[m] = days
		f.mu.Unlock()
		return days, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int]curriculumDay), nil
}

func (f *FSLoader) readMonth(m int) (map[int]curriculumDay, error) {
	base := "curriculum/" + MonthName(m) + "_curriculum"
	for _, ext := range extensions {
		name := base + ext
		var file curriculumFile
		err := decodeFile(f.fsys, name, &file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		days := make(map[int]curriculumDay, len(file.Days))
		for _, d := range file.Days {
			days[d.Day] = d
		}
		return days, nil
	}
	// A missing month is remembered as empty.
	return map[int]curriculumDay{}, nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	switch path.Ext(name) {
	case ".json":
		return json.Unmarshal(data, v)
	default:
		return yaml.Unmarshal(data, v)
	}
}

func hasExt(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
