// Package source loads per-day lesson sources: rich DNA documents and
// monthly curriculum files, from a directory or the built-in curriculum.
package source

import (
	"context"
	"errors"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
)

// MaxDay is the last day of a leap year.
const MaxDay = 366

// Loader resolves a day number to its lesson source. A day without content
// yields an error matching lesson.ErrSourceNotFound.
type Loader interface {
	Load(ctx context.Context, day int) (*lesson.Source, error)
}

// ChainLoader tries loaders in order and returns the first source found.
// Errors other than not-found stop the chain.
type ChainLoader []Loader

// Chain builds a ChainLoader, skipping nil loaders.
func Chain(loaders ...Loader) ChainLoader {
	var c ChainLoader
	for _, l := range loaders {
		if l != nil {
			c = append(c, l)
		}
	}
	return c
}

func (c ChainLoader) Load(ctx context.Context, day int) (*lesson.Source, error) {
	var last error
	for _, l := range c {
		src, err := l.Load(ctx, day)
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, lesson.ErrSourceNotFound) {
			return nil, err
		}
		last = err
	}
	if last == nil {
		last = lesson.NotFound(day, nil)
	}
	return nil, last
}
