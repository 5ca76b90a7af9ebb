package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brainventure/neuroleader/internal/api"
	"github.com/brainventure/neuroleader/internal/catalog"
	"github.com/brainventure/neuroleader/internal/history"
	"github.com/brainventure/neuroleader/internal/middleware"
	"github.com/brainventure/neuroleader/internal/utils"
)

func main() {
	addr := utils.SafeEnv("BRAINVENTURE_ADDR", ":8080")
	commit := os.Getenv("BRAINVENTURE_COMMIT")
	buildTime := os.Getenv("BRAINVENTURE_BUILD_TIME")

	cat := catalog.Load(os.Getenv("BRAINVENTURE_CONTENT_DIR"))
	if cat.Err() != nil {
		log.Printf("catalog loaded with warnings: %v", cat.Err())
	}

	store := openStore()

	mux := http.NewServeMux()
	api.NewRouter(cat, store).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "BrainVenture API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	// Serve the built frontend when BRAINVENTURE_STATIC_DIR is set.
	if staticDir := os.Getenv("BRAINVENTURE_STATIC_DIR"); staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	handler := middleware.NoStore(middleware.LocaleMiddleware(mux))

	log.Printf("BrainVenture server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore picks the results backend: SQLite when BRAINVENTURE_SQLITE_PATH
// is set, otherwise the user data JSON file. Any SQLite setup failure logs
// a warning and falls back to the file store rather than aborting.
func openStore() history.Store {
	dataPath := utils.SafeEnv("BRAINVENTURE_USER_DATA_PATH",
		filepath.Join("data", "content", "user_data.json"))
	var store history.Store = history.NewFileStore(dataPath)

	sqlitePath := os.Getenv("BRAINVENTURE_SQLITE_PATH")
	if sqlitePath == "" {
		return store
	}
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		log.Printf("create sqlite dir: %v; using file store at %s", err, dataPath)
		return store
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(sqlitePath))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Printf("open sqlite: %v; using file store at %s", err, dataPath)
		return store
	}
	st, err := history.NewSQLiteStore(db)
	if err != nil {
		log.Printf("init sqlite store: %v; using file store at %s", err, dataPath)
		return store
	}
	log.Printf("results store: sqlite at %s", sqlitePath)
	return st
}
