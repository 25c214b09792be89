// Package similarity scores how alike two strings are using Ratcliff/Obershelp
// gestalt pattern matching and ranks candidate strings against a query.
package similarity

import "sort"

const (
	// DefaultThreshold is the minimum score a candidate needs to count as a match.
	DefaultThreshold = 0.6
	// DefaultMaxResults caps how many ranked candidates are returned.
	DefaultMaxResults = 3
)

// Match is one ranked candidate.
type Match struct {
	Candidate string
	Index     int
	Score     float64
}

// Ratio returns 2*M/T where T is the combined rune length of a and b and M the
// number of runes covered by matching blocks. The result lies in [0, 1].
func Ratio(a, b string) float64 {
	// operands are ordered so ties between equally long blocks resolve the
	// same way whichever side the caller passes first
	if a > b {
		a, b = b, a
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

// BestMatches scores every candidate against query and returns those scoring at
// least threshold, best first. Equal scores keep their input order.
func BestMatches(query string, candidates []string, threshold float64, maxResults int) []Match {
	if len(candidates) == 0 || maxResults <= 0 {
		return []Match{}
	}
	matches := make([]Match, 0, len(candidates))
	for i, candidate := range candidates {
		score := Ratio(query, candidate)
		if score >= threshold {
			matches = append(matches, Match{Candidate: candidate, Index: i, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

type span struct {
	alo, ahi, blo, bhi int
}

func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	total := 0
	stack := []span{{0, len(a), 0, len(b)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i, j, size := longestMatch(a, b, s, prev, cur)
		if size == 0 {
			continue
		}
		total += size
		if s.alo < i && s.blo < j {
			stack = append(stack, span{s.alo, i, s.blo, j})
		}
		if i+size < s.ahi && j+size < s.bhi {
			stack = append(stack, span{i + size, s.ahi, j + size, s.bhi})
		}
	}
	return total
}

// longestMatch finds the longest block a[i:i+size] == b[j:j+size] inside s.
// Among equally long blocks the one starting earliest in a wins, then earliest
// in b. prev and cur are scratch rows of len(b)+1.
func longestMatch(a, b []rune, s span, prev, cur []int) (besti, bestj, bestSize int) {
	besti, bestj = s.alo, s.blo
	for j := s.blo; j <= s.bhi; j++ {
		prev[j] = 0
	}
	for i := s.alo; i < s.ahi; i++ {
		cur[s.blo] = 0
		for j := s.blo; j < s.bhi; j++ {
			if a[i] != b[j] {
				cur[j+1] = 0
				continue
			}
			k := prev[j] + 1
			cur[j+1] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		prev, cur = cur, prev
	}
	return besti, bestj, bestSize
}
