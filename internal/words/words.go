// internal/words/words.go
//
// Dictionary service for the multiplayer Termo server.
//
// Responsibilities:
//   - Load the answer pool and the validation word list from a SQLite
//     dictionary, plain-text files, or embedded defaults.
//   - Maintain two immutable structures: the answer pool (candidate secret
//     words) and the validation index (accent-folded uppercase key →
//     canonically accented display form).
//   - Supply Pick (random answer, excluding the previous one), Validate
//     (guess → canonical form), Normalize, and Stats.
//
// Word lists:
//   - "answers": curated common words, eligible to be drawn as secrets.
//   - "words":   the broad set of legal guesses (always includes answers).
//
// Load order:
//   1. If TERMO_DICT_DB is set, read both lists from that SQLite file
//      (built offline by the dictionary tooling).
//   2. If TERMO_ANSWERS_FILE and TERMO_WORDS_FILE are set, load answers
//      from the first and legal guesses from the second.
//   3. Otherwise fall back to the embedded defaults, so the server always
//      starts with a usable dictionary.
//
// Constraints:
//   • Canonical forms are uppercase, accents preserved (e.g. "AVIÃO").
//   • Only words whose folded key is exactly 5 letters A–Z are kept.
//   • Both structures are read-only after Load and safe to share.

package words

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"math/big"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Length is the fixed word length for the whole game.
const Length = 5

// fallbackWord is returned when picking from an empty pool. Load refuses an
// empty pool, so this only guards misuse of a zero-value List.
const fallbackWord = "TERMO"

// --- embedded defaults (ensure the server runs with no dictionary configured) ---

//go:embed palavras_respostas.txt
var embeddedAnswers string

//go:embed palavras_completo.txt
var embeddedWords string

// List holds the two immutable dictionary structures.
type List struct {
	answers []string          // canonical answer pool
	index   map[string]string // folded key → canonical display form
}

// Load builds the dictionary from the configured source.
// Returns an error if the answer pool ends up empty.
func Load() (*List, error) {
	var ansList, wordList []string

	dbPath := os.Getenv("TERMO_DICT_DB")
	answersPath := os.Getenv("TERMO_ANSWERS_FILE")
	wordsPath := os.Getenv("TERMO_WORDS_FILE")

	switch {
	// Case 1: offline-built SQLite dictionary
	case dbPath != "":
		var err error
		ansList, wordList, err = readDictDB(dbPath)
		if err != nil {
			return nil, err
		}

	// Case 2: plain-text lists, one word per line
	case answersPath != "" && wordsPath != "":
		var err error
		ansList, err = readWordFile(answersPath)
		if err != nil {
			return nil, err
		}
		wordList, err = readWordFile(wordsPath)
		if err != nil {
			return nil, err
		}

	// Case 3: embedded defaults
	default:
		ansList = splitLines(embeddedAnswers)
		wordList = splitLines(embeddedWords)
	}

	return build(ansList, wordList)
}

// build assembles a List from raw word slices, dropping anything that does
// not fold to exactly 5 letters A–Z.
func build(ansList, wordList []string) (*List, error) {
	l := &List{index: make(map[string]string, len(ansList)+len(wordList))}

	// Validation index first: the broad list, then answers on top so an
	// answer's canonical form always wins a key collision with a variant.
	for _, w := range wordList {
		l.add(w)
	}
	for _, w := range ansList {
		if key, ok := l.add(w); ok {
			l.answers = append(l.answers, l.index[key])
		}
	}

	if len(l.answers) == 0 {
		return nil, errors.New("words: answer pool is empty")
	}
	return l, nil
}

// add canonicalizes w and inserts it into the validation index.
func (l *List) add(w string) (key string, ok bool) {
	canonical := strings.ToUpper(strings.TrimSpace(w))
	key = Normalize(canonical)
	if !isFiveLetters(key) {
		return "", false
	}
	l.index[key] = canonical
	return key, true
}

// readWordFile loads one word per line, skipping blanks and comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" && !strings.HasPrefix(w, "#") {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// splitLines processes an embedded multiline string into a word slice.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w := strings.TrimSpace(line); w != "" && !strings.HasPrefix(w, "#") {
			out = append(out, w)
		}
	}
	return out
}

// isFiveLetters reports whether key is exactly 5 uppercase ASCII letters.
func isFiveLetters(key string) bool {
	if len(key) != Length {
		return false
	}
	for _, r := range key {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Normalize folds raw to its validation-index key: Unicode NFD, combining
// marks stripped, uppercased. "avião" → "AVIAO".
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(raw) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(strings.TrimSpace(b.String()))
}

// Pick returns a uniformly random answer. While the pool has more than one
// entry it never returns excluding, so consecutive rounds get fresh words.
func (l *List) Pick(excluding string) string {
	if len(l.answers) == 0 {
		return fallbackWord
	}
	for {
		nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
		w := l.answers[nBig.Int64()]
		if w != excluding || len(l.answers) == 1 {
			return w
		}
	}
}

// Validate normalizes raw and looks it up in the validation index.
// On a hit it returns the canonical accented form.
func (l *List) Validate(raw string) (string, bool) {
	canonical, ok := l.index[Normalize(raw)]
	return canonical, ok
}

// IsAnswer reports whether raw folds to a member of the answer pool.
func (l *List) IsAnswer(raw string) bool {
	key := Normalize(raw)
	for _, w := range l.answers {
		if Normalize(w) == key {
			return true
		}
	}
	return false
}

// Stats returns counts of loaded words: (answers, validation index).
func (l *List) Stats() (answersCount int, indexCount int) {
	return len(l.answers), len(l.index)
}
