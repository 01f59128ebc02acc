package params

import "testing"

func TestBucketAge(t *testing.T) {
	tests := []struct {
		age  int
		want AgeBucket
	}{
		{-3, EarlyChildhood},
		{0, EarlyChildhood},
		{5, EarlyChildhood},
		{6, Youth},
		{12, Youth},
		{13, YoungAdult},
		{25, YoungAdult},
		{26, Midlife},
		{60, Midlife},
		{61, WisdomYears},
		{150, WisdomYears},
	}
	for _, tt := range tests {
		if got := BucketAge(tt.age); got != tt.want {
			t.Errorf("BucketAge(%d) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestFineAge(t *testing.T) {
	tests := []struct {
		age  int
		want int
	}{
		{0, 2},
		{1, 2},
		{2, 2},
		{4, 2},
		{5, 5},
		{7, 5},
		{12, 12},
		{15, 12},
		{30, 25},
		{61, 60},
		{101, 80},
		{102, 102},
		{150, 102},
	}
	for _, tt := range tests {
		if got := FineAge(tt.age); got != tt.want {
			t.Errorf("FineAge(%d) = %d, want %d", tt.age, got, tt.want)
		}
	}
}

func TestFineAnchorsMapToThemselves(t *testing.T) {
	for _, a := range FineAnchors() {
		if got := FineAge(a); got != a {
			t.Errorf("FineAge(%d) = %d", a, got)
		}
	}
}

func TestAgeKey(t *testing.T) {
	if got := AgeKey(4, Coarse); got != "early_childhood" {
		t.Errorf("coarse key = %q", got)
	}
	if got := AgeKey(4, Fine); got != "2/early_childhood" {
		t.Errorf("fine key = %q", got)
	}
}

func TestAgeKey_FineSplitsAnchorAcrossBuckets(t *testing.T) {
	tests := []struct {
		below, above int
	}{
		{5, 6},
		{12, 13},
		{25, 26},
		{60, 61},
	}
	for _, tt := range tests {
		if FineAge(tt.below) != FineAge(tt.above) {
			t.Fatalf("ages %d and %d should share an anchor", tt.below, tt.above)
		}
		lo, hi := AgeKey(tt.below, Fine), AgeKey(tt.above, Fine)
		if lo == hi {
			t.Errorf("ages %d and %d share fine key %q across buckets", tt.below, tt.above, lo)
		}
	}
	if AgeKey(13, Fine) != AgeKey(15, Fine) {
		t.Error("ages in the same anchor and bucket should share a key")
	}
}

func TestTotalityOverAgesAndTones(t *testing.T) {
	tones := []string{"", "xyz", "GRANDMOTHER", " fun ", "neutral", "🙂", "grand mother"}
	for age := 0; age <= 150; age++ {
		if !BucketAge(age).Valid() {
			t.Fatalf("BucketAge(%d) returned invalid bucket", age)
		}
		found := false
		for _, a := range fineAnchors {
			if FineAge(age) == a {
				found = true
			}
		}
		if !found {
			t.Fatalf("FineAge(%d) = %d is not an anchor", age, FineAge(age))
		}
		for _, s := range tones {
			tone := NormalizeTone(s)
			if tone != Grandmother && tone != Fun && tone != Neutral {
				t.Fatalf("NormalizeTone(%q) = %q", s, tone)
			}
			p := Normalize(age, s, "xx", "??")
			if p.Avatar != Kelly && p.Avatar != Ken {
				t.Fatalf("avatar %q", p.Avatar)
			}
		}
	}
}

func TestNormalizeTone(t *testing.T) {
	tests := map[string]Tone{
		"grandmother":  Grandmother,
		" Grandmother": Grandmother,
		"FUN":          Fun,
		"neutral":      Neutral,
		"xyz":          Neutral,
		"":             Neutral,
	}
	for in, want := range tests {
		if got := NormalizeTone(in); got != want {
			t.Errorf("NormalizeTone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := map[string]Language{
		"english": English,
		"en":      English,
		"es":      Spanish,
		"Spanish": Spanish,
		"pt-BR":   Portuguese,
		"zh":      Mandarin,
		"chinese": Mandarin,
		"nl":      Dutch,
		"klingon": English,
		"":        English,
	}
	for in, want := range tests {
		if got := NormalizeLanguage(in); got != want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", in, got, want)
		}
	}
	if n := len(Languages()); n != 12 {
		t.Errorf("expected 12 languages, got %d", n)
	}
	if Japanese.Code() != "ja" {
		t.Errorf("japanese code = %q", Japanese.Code())
	}
	if English.Phrases().Greeting != "Welcome back!" {
		t.Errorf("english greeting = %q", English.Phrases().Greeting)
	}
}

func TestNormalizeAvatar(t *testing.T) {
	if got := NormalizeAvatar("", Grandmother); got != Kelly {
		t.Errorf("grandmother default = %q", got)
	}
	if got := NormalizeAvatar("", Fun); got != Ken {
		t.Errorf("fun default = %q", got)
	}
	if got := NormalizeAvatar("KELLY", Fun); got != Kelly {
		t.Errorf("explicit kelly = %q", got)
	}
	info := InfoFor(Grandmother, Kelly)
	if info.Name != "Kelly" || info.VoiceID == "" || info.Expression != ExpressionWarm {
		t.Errorf("unexpected avatar info %+v", info)
	}
}

func TestPhaseDuration(t *testing.T) {
	tests := []struct {
		phase Phase
		age   int
		want  int
	}{
		{PhaseOpening, 4, 45},
		{PhaseQuestion, 4, 68}, // 67.5 rounds up
		{PhaseQuestion, 10, 54},
		{PhaseClosing, 20, 25},
		{PhaseClosing, 40, 23},
		{PhaseFortune, 40, 14},
		{PhaseOpening, 90, 24},
	}
	for _, tt := range tests {
		if got := PhaseDuration(tt.phase, tt.age); got != tt.want {
			t.Errorf("PhaseDuration(%s, %d) = %d, want %d", tt.phase, tt.age, got, tt.want)
		}
	}
}

func TestComplexityAndEngagement(t *testing.T) {
	if got := ComplexityLabel(3); got != "very_simple" {
		t.Errorf("ComplexityLabel(3) = %q", got)
	}
	if got := ComplexityLabel(70); got != "very_complex" {
		t.Errorf("ComplexityLabel(70) = %q", got)
	}
	if got := EngagementScore(4, Grandmother); got != 88 {
		t.Errorf("EngagementScore(4, grandmother) = %d, want 88", got)
	}
	if got := EngagementScore(30, Neutral); got != 68 {
		t.Errorf("EngagementScore(30, neutral) = %d, want 68", got)
	}
	if got := EngagementScore(70, Fun); got != 73 {
		t.Errorf("EngagementScore(70, fun) = %d, want 73", got)
	}
}
