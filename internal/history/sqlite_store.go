package history

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/brainventure/neuroleader/internal/scoring"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// SQLiteStore keeps the test history in a local SQLite database. It serves
// the same single-user contract as FileStore; results are stored as JSON
// payloads so the record shape stays identical across backends.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore applies pragmas and migrations and returns the store.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	if err := runMigrations(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func runMigrations(db *sql.DB) error {
	entries, err := embeddedMigrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := embeddedMigrations.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

// SaveResult inserts the stamped record. Returns false on failure.
func (s *SQLiteStore) SaveResult(rec *scoring.Result) bool {
	if rec == nil {
		return false
	}
	stamped := *rec
	if stamped.ID == "" {
		stamped.ID = uuid.NewString()
	}
	stamped.Date = s.now().Format(scoring.DateLayout)
	payload, err := json.Marshal(&stamped)
	if err != nil {
		s.logErr("encode result", err)
		return false
	}
	_, err = s.db.Exec(
		`INSERT INTO neuroleader_results (id, payload, created_at) VALUES (?, ?, ?)`,
		stamped.ID, string(payload), stamped.Date,
	)
	s.logErr("SaveResult", err)
	return err == nil
}

// History returns all results, most recent first. Rows that fail to decode
// are skipped with a logged warning.
func (s *SQLiteStore) History() []*scoring.Result {
	rows, err := s.db.Query(
		`SELECT payload FROM neuroleader_results ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		s.logErr("History", err)
		return []*scoring.Result{}
	}
	defer rows.Close()

	out := []*scoring.Result{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			s.logErr("scan result", err)
			continue
		}
		var rec scoring.Result
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			s.logErr("decode result", err)
			continue
		}
		out = append(out, &rec)
	}
	s.logErr("iterate results", rows.Err())
	return out
}

var _ Store = (*FileStore)(nil)
var _ Store = (*SQLiteStore)(nil)
