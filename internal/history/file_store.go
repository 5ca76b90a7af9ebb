package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/brainventure/neuroleader/internal/scoring"
)

// historyKey is the top-level key holding test results in the user data file.
const historyKey = "neuroleader_tests"

// FileStore keeps the test history inside a single user data JSON document.
// It owns only the neuroleader_tests key; unrelated top-level keys written
// by other parts of the application are preserved verbatim.
//
// Saving is a read-modify-write of the whole file without locking, which is
// safe only under the app's single-active-session assumption.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore returns a store backed by the user data file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (s *FileStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("file store: %s: %v", prefix, err)
	}
}

// SaveResult prepends rec to the persisted history. It returns false on any
// I/O or serialization failure and never raises.
func (s *FileStore) SaveResult(rec *scoring.Result) bool {
	if rec == nil {
		return false
	}
	userData := s.loadUserData()

	var tests []json.RawMessage
	if raw, ok := userData[historyKey]; ok {
		if err := json.Unmarshal(raw, &tests); err != nil {
			s.logErr("decode history", err)
			tests = nil
		}
	}

	stamped := *rec
	if stamped.ID == "" {
		stamped.ID = uuid.NewString()
	}
	stamped.Date = s.now().Format(scoring.DateLayout)
	encoded, err := marshalUTF8(&stamped)
	if err != nil {
		s.logErr("encode result", err)
		return false
	}
	tests = append([]json.RawMessage{encoded}, tests...)

	raw, err := marshalUTF8(tests)
	if err != nil {
		s.logErr("encode history", err)
		return false
	}
	userData[historyKey] = raw

	return s.writeUserData(userData)
}

// History returns the persisted results, most recent first, or an empty
// slice when the file is missing or unreadable.
func (s *FileStore) History() []*scoring.Result {
	userData := s.loadUserData()
	raw, ok := userData[historyKey]
	if !ok {
		return []*scoring.Result{}
	}
	var tests []*scoring.Result
	if err := json.Unmarshal(raw, &tests); err != nil {
		s.logErr("decode history", err)
		return []*scoring.Result{}
	}
	return tests
}

func (s *FileStore) loadUserData() map[string]json.RawMessage {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logErr("read user data", err)
		}
		return map[string]json.RawMessage{}
	}
	var userData map[string]json.RawMessage
	if err := json.Unmarshal(data, &userData); err != nil {
		s.logErr("decode user data", err)
		return map[string]json.RawMessage{}
	}
	if userData == nil {
		userData = map[string]json.RawMessage{}
	}
	return userData
}

func (s *FileStore) writeUserData(userData map[string]json.RawMessage) bool {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logErr("create data dir", err)
			return false
		}
	}
	encoded, err := marshalUTF8(userData)
	if err != nil {
		s.logErr("encode user data", err)
		return false
	}
	if err := os.WriteFile(s.path, append(encoded, '\n'), 0o644); err != nil {
		s.logErr("write user data", err)
		return false
	}
	return true
}

// marshalUTF8 renders v as human-diffable JSON: 2-space indent, non-ASCII
// characters kept as-is instead of HTML-escaped.
func marshalUTF8(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
