package similarity

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRatio(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "apple", b: "apple", want: 1.0},
		{name: "shifted", a: "abcd", b: "bcde", want: 0.75},
		{name: "prefix", a: "apple", b: "apply", want: 0.8},
		{name: "split blocks", a: "apple", b: "ape", want: 0.75},
		{name: "question variant", a: "what is the capital of france?", b: "what's the capital of france", want: 54.0 / 58.0},
		{name: "empty query", a: "", b: "apple", want: 0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "multibyte runes", a: "café", b: "cafe", want: 0.75},
	}

	for _, tc := range cases {
		if got := Ratio(tc.a, tc.b); !almostEqual(got, tc.want) {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"abd", "abc"},
		{"xab", "abx"},
		{"how do i reset my password", "how can i reset my password"},
		{"aaab", "abaa"},
		{"", "nonempty"},
		{"the cat sat", "a cat sat on the mat"},
	}
	for _, p := range pairs {
		left, right := Ratio(p[0], p[1]), Ratio(p[1], p[0])
		if left != right {
			t.Fatalf("ratio not symmetric for %q/%q: %v vs %v", p[0], p[1], left, right)
		}
	}
}

func TestRatioSelfIsOne(t *testing.T) {
	for _, s := range []string{"a", "hello world", "What's up?", "重复的问题"} {
		if got := Ratio(s, s); got != 1.0 {
			t.Fatalf("expected 1.0 for %q got %v", s, got)
		}
	}
}

func TestBestMatchesRanksAndFilters(t *testing.T) {
	candidates := []string{"ape", "banana", "apply", "apple", "grape"}

	got := BestMatches("apple", candidates, DefaultThreshold, DefaultMaxResults)
	if len(got) != 3 {
		t.Fatalf("expected 3 matches got %d: %+v", len(got), got)
	}
	wantOrder := []string{"apple", "apply", "ape"}
	for i, m := range got {
		if m.Candidate != wantOrder[i] {
			t.Fatalf("position %d: expected %q got %q", i, wantOrder[i], m.Candidate)
		}
		if m.Score < DefaultThreshold {
			t.Fatalf("score %v below threshold for %q", m.Score, m.Candidate)
		}
		if candidates[m.Index] != m.Candidate {
			t.Fatalf("index %d does not point at %q", m.Index, m.Candidate)
		}
	}
}

func TestBestMatchesStableOnTies(t *testing.T) {
	got := BestMatches("abc", []string{"abd", "abx", "abc"}, 0.5, 5)
	want := []int{2, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d matches got %+v", len(want), got)
	}
	for i := range want {
		if got[i].Index != want[i] {
			t.Fatalf("position %d: expected index %d got %d", i, want[i], got[i].Index)
		}
	}
}

func TestBestMatchesKeepsDuplicates(t *testing.T) {
	got := BestMatches("apple", []string{"apply", "apple", "apply"}, DefaultThreshold, 3)
	if len(got) != 3 {
		t.Fatalf("expected duplicates to be kept, got %+v", got)
	}
	if got[1].Index != 0 || got[2].Index != 2 {
		t.Fatalf("expected tied duplicates in input order, got %+v", got)
	}
}

func TestBestMatchesEmpty(t *testing.T) {
	if got := BestMatches("apple", nil, DefaultThreshold, 3); len(got) != 0 {
		t.Fatalf("expected no matches for empty candidates, got %+v", got)
	}
	if got := BestMatches("", []string{"apple"}, DefaultThreshold, 3); len(got) != 0 {
		t.Fatalf("expected no matches for empty query, got %+v", got)
	}
	if got := BestMatches("apple", []string{"apple"}, DefaultThreshold, 0); len(got) != 0 {
		t.Fatalf("expected no matches when maxResults is zero, got %+v", got)
	}
	if got := BestMatches("zzz", []string{"apple"}, DefaultThreshold, 3); got == nil {
		t.Fatalf("expected empty slice, not nil")
	}
}

func TestBestMatchesRespectsLimitAndOrder(t *testing.T) {
	candidates := []string{"a", "ab", "abc", "abcd", "abcde"}
	for limit := 1; limit <= 5; limit++ {
		got := BestMatches("abcd", candidates, 0, limit)
		if len(got) > limit {
			t.Fatalf("limit %d exceeded: %+v", limit, got)
		}
		for i := 1; i < len(got); i++ {
			if got[i].Score > got[i-1].Score {
				t.Fatalf("results not sorted descending: %+v", got)
			}
		}
	}
}
