package qa

import "strings"

// NormalizeKey maps a question to its uniqueness key: surrounding whitespace
// trimmed, inner whitespace runs collapsed to one space, lowercased.
func NormalizeKey(question string) string {
	return strings.ToLower(strings.Join(strings.Fields(question), " "))
}
