package synthcache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ilearnhow/lessonsynth/internal/params"
)

const keySep = "|"

// Key identifies one synthesized lesson variant.
type Key struct {
	LessonID int
	AgeKey   string
	Tone     params.Tone
	Language params.Language
	Avatar   params.Avatar // optional
}

// NewKey builds the key for a lesson and normalized parameters. The age
// segment follows the granularity of the lesson's source.
func NewKey(lessonID int, p params.Params, g params.Granularity, withAvatar bool) Key {
	k := Key{
		LessonID: lessonID,
		AgeKey:   p.AgeKey(g),
		Tone:     p.Tone,
		Language: p.Language,
	}
	if withAvatar {
		k.Avatar = p.Avatar
	}
	return k
}

// String joins the key segments in a stable order. The avatar segment is
// omitted when unset.
func (k Key) String() string {
	parts := []string{strconv.Itoa(k.LessonID), k.AgeKey, string(k.Tone), string(k.Language)}
	if k.Avatar != "" {
		parts = append(parts, string(k.Avatar))
	}
	return strings.Join(parts, keySep)
}

// ParseKey reverses Key.String.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, keySep)
	if len(parts) != 4 && len(parts) != 5 {
		return Key{}, fmt.Errorf("malformed cache key %q", s)
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return Key{}, fmt.Errorf("malformed cache key %q: %w", s, err)
	}
	k := Key{
		LessonID: id,
		AgeKey:   parts[1],
		Tone:     params.Tone(parts[2]),
		Language: params.Language(parts[3]),
	}
	if len(parts) == 5 {
		k.Avatar = params.Avatar(parts[4])
	}
	return k, nil
}
