// internal/words/sqlite.go
//
// SQLite loader for offline-built dictionary databases.
// The dictionary tooling normalizes a raw lexicon and emits a small SQLite
// file with two tables:
//
//   answers(word TEXT PRIMARY KEY)  -- curated answer pool
//   words(word TEXT PRIMARY KEY)    -- broad validation list
//
// The database is opened read-only at startup and never touched again.

package words

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// readDictDB loads both word lists from a SQLite dictionary file.
func readDictDB(path string) (answers []string, words []string, err error) {
	db, err := sql.Open("sqlite3", path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer db.Close()

	answers, err = readWordTable(db, "answers")
	if err != nil {
		return nil, nil, err
	}
	words, err = readWordTable(db, "words")
	if err != nil {
		return nil, nil, err
	}
	return answers, words, nil
}

// readWordTable scans a single-column word table into a slice.
func readWordTable(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(`SELECT word FROM ` + table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
