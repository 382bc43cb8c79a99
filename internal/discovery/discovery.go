// internal/discovery/discovery.go
//
// Word discovery for a round's letter set.
//
// Discover enumerates every permutation of L distinct tile positions for
// L = minLength..len(letters), keeps the candidates the dictionary accepts and
// returns them ordered by (length, lexicographic).
//
// Notes:
//   - Tiles are tracked by position, so repeated letters generate the same
//     string more than once. Identical strings are collapsed before sorting.
//   - Results use the dictionary's lowercase spelling.
//   - A 7-letter set is at most 13,699 candidates, so discovery runs
//     synchronously.

package discovery

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// DefaultMinLength is the shortest word a round accepts.
const DefaultMinLength = 3

// Lookup answers dictionary membership. *dictionary.Dictionary satisfies it.
type Lookup interface {
	Contains(word string) bool
}

// Discover returns every dictionary word constructible from letters, each at
// least minLength long, deduplicated and sorted by SortWords.
func Discover(letters []string, dict Lookup, minLength int) []string {
	if minLength < 1 {
		minLength = 1
	}
	found := []string{}
	for n := minLength; n <= len(letters); n++ {
		permute("", letters, n, func(candidate string) {
			if IsValid(candidate, dict, minLength) {
				found = append(found, strings.ToLower(candidate))
			}
		})
	}
	found = lo.Uniq(found)
	SortWords(found)
	return found
}

// permute emits every concatenation of n distinct positions of remaining,
// prefixed by prefix. Each call gets its own copy of the remaining letters.
func permute(prefix string, remaining []string, n int, emit func(string)) {
	if n == 0 {
		emit(prefix)
		return
	}
	for i, letter := range remaining {
		rest := make([]string, 0, len(remaining)-1)
		rest = append(rest, remaining[:i]...)
		rest = append(rest, remaining[i+1:]...)
		permute(prefix+letter, rest, n-1, emit)
	}
}

// IsValid reports whether word is a dictionary entry of at least minLength
// letters. It backs both discovery and live submission checks.
func IsValid(word string, dict Lookup, minLength int) bool {
	return dict.Contains(strings.ToLower(word)) && utf8.RuneCountInString(word) >= minLength
}

// SortWords orders words by length ascending, then by direct string
// comparison.
func SortWords(words []string) {
	sort.Slice(words, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(words[i]), utf8.RuneCountInString(words[j])
		if li != lj {
			return li < lj
		}
		return words[i] < words[j]
	})
}

// Placeholder returns the masked form of word shown on the progress ladder,
// e.g. "_ _ _" for a three-letter word.
func Placeholder(word string) string {
	return strings.TrimSpace(strings.Repeat("_ ", utf8.RuneCountInString(word)))
}

// Placeholders masks every word, preserving order.
func Placeholders(words []string) []string {
	return lo.Map(words, func(w string, _ int) string { return Placeholder(w) })
}

// Ladder masks the possible words the player has not found yet. found is
// matched case-insensitively.
func Ladder(possible, found []string) []string {
	seen := make(map[string]struct{}, len(found))
	for _, w := range found {
		seen[strings.ToLower(w)] = struct{}{}
	}
	return lo.Map(possible, func(w string, _ int) string {
		if _, ok := seen[w]; ok {
			return w
		}
		return Placeholder(w)
	})
}
