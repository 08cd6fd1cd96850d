// internal/game/types.go
//
// Core type definitions for the guess evaluator.
// Defines:
//   - Color: per-letter result of a guess (green/yellow/gray).
//   - Guess: one evaluated guess as stored in a player's round history.

package game

// Color represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "green":  letter is correct and in the correct position.
//   - "yellow": letter exists in the secret but in a different position.
//   - "gray":   letter has no remaining occurrence in the secret.
type Color string

const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Gray   Color = "gray"
)

// Guess records one accepted submission: the canonical accented form the
// player guessed and its per-position feedback.
type Guess struct {
	Word   string  `json:"word"`
	Colors []Color `json:"colors"`
}
