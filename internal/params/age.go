package params

import "strconv"

// AgeBucket is the coarse age category used for fragment lookup.
type AgeBucket string

const (
	EarlyChildhood AgeBucket = "early_childhood"
	Youth          AgeBucket = "youth"
	YoungAdult     AgeBucket = "young_adult"
	Midlife        AgeBucket = "midlife"
	WisdomYears    AgeBucket = "wisdom_years"
)

// AgeBuckets lists every bucket in ascending age order.
var AgeBuckets = []AgeBucket{EarlyChildhood, Youth, YoungAdult, Midlife, WisdomYears}

// bucketBounds are the inclusive upper ages of each bucket except the last.
var bucketBounds = []struct {
	max    int
	bucket AgeBucket
}{
	{5, EarlyChildhood},
	{12, Youth},
	{25, YoungAdult},
	{60, Midlife},
}

// BucketAge maps any integer age to its coarse bucket. First match wins.
func BucketAge(age int) AgeBucket {
	for _, b := range bucketBounds {
		if age <= b.max {
			return b.bucket
		}
	}
	return WisdomYears
}

// Valid reports whether b is one of the defined buckets.
func (b AgeBucket) Valid() bool {
	for _, v := range AgeBuckets {
		if v == b {
			return true
		}
	}
	return false
}

// fineAnchors are the canonical ages of the ten-point age expression table.
var fineAnchors = []int{2, 5, 8, 12, 16, 25, 40, 60, 80, 102}

// FineAnchors returns a copy of the fine-grained anchor ages.
func FineAnchors() []int {
	out := make([]int, len(fineAnchors))
	copy(out, fineAnchors)
	return out
}

// FineAge maps age to the nearest anchor at or below it. Ages under the
// smallest anchor map to that anchor.
func FineAge(age int) int {
	anchor := fineAnchors[0]
	for _, a := range fineAnchors {
		if a > age {
			break
		}
		anchor = a
	}
	return anchor
}

// Granularity selects which age bucketing applies to a lesson source.
type Granularity int

const (
	// Coarse keys by AgeBucket name.
	Coarse Granularity = iota
	// Fine keys by the anchor age from the ten-point table.
	Fine
)

func (g Granularity) String() string {
	if g == Fine {
		return "fine"
	}
	return "coarse"
}

// AgeKey returns the cache key segment for age under the given
// granularity. A fine key pairs the anchor with the bucket ("12/youth")
// because anchor ranges straddle bucket boundaries at 6, 13, 26 and 61.
func AgeKey(age int, g Granularity) string {
	if g == Fine {
		return strconv.Itoa(FineAge(age)) + "/" + string(BucketAge(age))
	}
	return string(BucketAge(age))
}

// AgeRangeDescription is the human-readable audience for a bucket, used
// when prompting a generator.
func AgeRangeDescription(b AgeBucket) string {
	switch b {
	case EarlyChildhood:
		return "young children (ages 2-5)"
	case Youth:
		return "children (ages 6-12)"
	case YoungAdult:
		return "young adults (ages 13-25)"
	case Midlife:
		return "adults (ages 26-60)"
	default:
		return "older adults (ages 60+)"
	}
}
