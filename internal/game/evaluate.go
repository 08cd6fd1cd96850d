// internal/game/evaluate.go
//
// Guess evaluation for Termo: the classic two-pass scoring algorithm,
// duplicate-letter-correct.
//
// Both inputs must already be validated, canonically accented forms of the
// same length; the dictionary service resolves accent folding upstream so
// this function compares like-for-like strings.
//
// Pass 1 (exact position):
//   - Mark every exact match green and consume both letters, by nulling the
//     positions in working copies.
//
// Pass 2 (displaced letters):
//   - For each remaining guess position, scan the remaining secret positions
//     left to right; the first match is marked yellow and consumes that
//     secret letter, otherwise the position is gray.
//
// Consequences: a letter occurring k times in the secret is non-gray at most
// k times across the guess, and earlier guess positions win when duplicates
// compete for the same secret letter.

package game

import "strings"

// Evaluate scores guess against secret, returning one Color per position.
// Comparison is case-insensitive on canonical forms. The result depends only
// on the inputs.
func Evaluate(secret, guess string) []Color {
	s := []rune(strings.ToUpper(secret))
	g := []rune(strings.ToUpper(guess))

	colors := make([]Color, len(g))

	// First pass: exact positions.
	for i := range g {
		if i < len(s) && g[i] == s[i] {
			colors[i] = Green
			s[i] = 0
			g[i] = 0
		}
	}

	// Second pass: displaced letters against the unconsumed remainder.
	for i := range g {
		if g[i] == 0 {
			continue
		}
		colors[i] = Gray
		for j := range s {
			if s[j] != 0 && s[j] == g[i] {
				colors[i] = Yellow
				s[j] = 0
				break
			}
		}
	}
	return colors
}

// Solved reports whether every position is green.
func Solved(colors []Color) bool {
	for _, c := range colors {
		if c != Green {
			return false
		}
	}
	return len(colors) > 0
}
