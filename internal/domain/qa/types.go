package qa

// Pair is one stored question and its answer.
type Pair struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Match is a stored question ranked against a lookup.
type Match struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
}

// LookupKind identifies the outcome of a lookup.
type LookupKind string

const (
	// LookupExact means the normalized question is stored.
	LookupExact LookupKind = "exact"
	// LookupSuggestions means one or more stored questions are close enough.
	LookupSuggestions LookupKind = "suggestions"
	// LookupNoMatch means nothing cleared the similarity threshold.
	LookupNoMatch LookupKind = "no_match"
)

// LookupResult is returned to the interactive loop.
type LookupResult struct {
	Kind LookupKind `json:"kind"`
	// Question and Answer are set for exact matches.
	Question    string  `json:"question,omitempty"`
	Answer      string  `json:"answer,omitempty"`
	Suggestions []Match `json:"suggestions,omitempty"`
}

// Best returns the top suggestion, if any.
func (r LookupResult) Best() (Match, bool) {
	if len(r.Suggestions) == 0 {
		return Match{}, false
	}
	return r.Suggestions[0], true
}
