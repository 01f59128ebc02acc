// Package params normalizes raw lesson request parameters into the
// canonical keys used for fragment lookup and cache keying. Every function
// here is pure and total: unknown input maps to a default, never an error.
package params

// Params is a normalized synthesis request.
type Params struct {
	Age      int       `json:"age"`
	Bucket   AgeBucket `json:"ageBucket"`
	FineAge  int       `json:"fineAge"`
	Tone     Tone      `json:"tone"`
	Language Language  `json:"language"`
	Avatar   Avatar    `json:"avatar"`
}

// Normalize builds Params from raw request values.
func Normalize(age int, tone, language, avatar string) Params {
	t := NormalizeTone(tone)
	return Params{
		Age:      age,
		Bucket:   BucketAge(age),
		FineAge:  FineAge(age),
		Tone:     t,
		Language: NormalizeLanguage(language),
		Avatar:   NormalizeAvatar(avatar, t),
	}
}

// AgeKey returns the age lookup key under g.
func (p Params) AgeKey(g Granularity) string {
	return AgeKey(p.Age, g)
}
