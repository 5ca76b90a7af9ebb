package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brainventure/neuroleader/internal/scoring"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s := NewFileStore(filepath.Join(t.TempDir(), "user_data.json"))
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return s
}

func record(dominant string, scoreA float64) *scoring.Result {
	return &scoring.Result{
		Scores:          map[string]float64{"A": scoreA, "B": 1.0},
		DominantType:    dominant,
		SecondaryType:   "B",
		Interpretations: map[string]string{"A": "Wysoki wynik", "B": "Niski wynik"},
	}
}

func TestFileStoreRoundTripPrepend(t *testing.T) {
	s := newTestStore(t)
	for i, rec := range []*scoring.Result{record("A", 4.0), record("B", 2.0), record("A", 3.5)} {
		if !s.SaveResult(rec) {
			t.Fatalf("save %d failed", i)
		}
		got := s.History()
		if len(got) != i+1 {
			t.Fatalf("history length = %d, want %d", len(got), i+1)
		}
		if got[0].DominantType != rec.DominantType || got[0].Scores["A"] != rec.Scores["A"] {
			t.Fatalf("newest record mismatch: got %+v, want %+v", got[0], rec)
		}
	}
	got := s.History()
	if got[0].Date != "2025-06-01 10:03:00" || got[2].Date != "2025-06-01 10:01:00" {
		t.Fatalf("dates = %q / %q, want stamped newest-first", got[0].Date, got[2].Date)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Fatalf("records should get distinct ids, got %q and %q", got[0].ID, got[1].ID)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope", "user_data.json"))
	if got := s.History(); len(got) != 0 {
		t.Fatalf("expected empty history for missing file, got %d", len(got))
	}
}

func TestFileStoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if got := s.History(); len(got) != 0 {
		t.Fatalf("expected empty history for malformed file, got %d", len(got))
	}
}

func TestFileStorePreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	seed := `{"profile": {"theme": "dark"}}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if !s.SaveResult(record("A", 4.0)) {
		t.Fatalf("save failed")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
	if _, ok := doc["profile"]; !ok {
		t.Fatalf("unrelated key dropped: %s", data)
	}
	if _, ok := doc[historyKey]; !ok {
		t.Fatalf("history key missing: %s", data)
	}
}

func TestFileStoreHumanDiffableOutput(t *testing.T) {
	s := newTestStore(t)
	rec := record("A", 4.0)
	rec.Interpretations["A"] = "Średni wynik"
	if !s.SaveResult(rec) {
		t.Fatalf("save failed")
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "Średni wynik") {
		t.Fatalf("non-ASCII text was escaped:\n%s", text)
	}
	if !strings.Contains(text, "\n  ") {
		t.Fatalf("output not indented:\n%s", text)
	}
}

func TestFileStoreNilRecord(t *testing.T) {
	s := newTestStore(t)
	if s.SaveResult(nil) {
		t.Fatalf("saving nil record should fail")
	}
}
