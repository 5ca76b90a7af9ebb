package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/brainventure/neuroleader/internal/catalog"
	"github.com/brainventure/neuroleader/internal/history"
	"github.com/brainventure/neuroleader/internal/middleware"
	"github.com/brainventure/neuroleader/internal/scoring"
	"github.com/brainventure/neuroleader/internal/utils"
)

// Router is the thin HTTP adapter between the presentation layer and the
// scoring core. It carries no sessions and no auth; the app serves a single
// local user.
type Router struct {
	catalog *catalog.Catalog
	engine  *scoring.Engine
	store   history.Store
}

func NewRouter(cat *catalog.Catalog, store history.Store) *Router {
	return &Router{
		catalog: cat,
		engine:  scoring.NewEngine(cat),
		store:   store,
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/types", rt.handleTypes)          // GET
	mux.HandleFunc("/api/types/", rt.handleTypeScoped)    // GET /api/types/{id}[/resources]
	mux.HandleFunc("/api/test", rt.handleTest)            // GET
	mux.HandleFunc("/api/test/results", rt.handleResults) // POST
	mux.HandleFunc("/api/test/history", rt.handleHistory) // GET
	mux.HandleFunc("/api/test/summary", rt.handleSummary) // GET
}

// GET /api/types
func (rt *Router) handleTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"types": rt.catalog.Types()})
}

// GET /api/types/{id}?full=1
// GET /api/types/{id}/resources
func (rt *Router) handleTypeScoped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/types/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	def := rt.catalog.TypeByID(id)
	if def == nil {
		http.Error(w, fmt.Sprintf("unknown type %q", id), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if len(parts) > 1 {
		if parts[1] != "resources" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type_id":   id,
			"resources": rt.catalog.ResourcesForType(id),
		})
		return
	}
	out := map[string]any{"type": def}
	if r.URL.Query().Get("full") == "1" {
		out["description"] = rt.catalog.TypeDescription(id)
	}
	_ = json.NewEncoder(w).Encode(out)
}

// GET /api/test — test metadata, questions and localized band labels
func (rt *Router) handleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"info":      rt.catalog.TestInfo(),
		"questions": rt.catalog.Questions(),
		"band_labels": map[string]string{
			"low":    utils.T(locale, "band.low"),
			"medium": utils.T(locale, "band.medium"),
			"high":   utils.T(locale, "band.high"),
		},
	})
}

// POST /api/test/results
// { user_id?: string, answers: {question_id: 1..5} }
func (rt *Router) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		// user_id is accepted for forward compatibility and unused: the
		// store is scoped to the single local user.
		UserID  string         `json:"user_id"`
		Answers map[string]int `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for qid, v := range req.Answers {
		if v < 1 || v > scoring.MaxScore {
			http.Error(w, fmt.Sprintf("answer %s out of range: %d", qid, v), http.StatusBadRequest)
			return
		}
	}
	result := rt.engine.Calculate(req.Answers, rt.catalog.Questions(), rt.catalog.Types())
	saved := rt.store.SaveResult(result)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"result": result, "saved": saved})
}

// GET /api/test/history
func (rt *Router) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"tests": rt.store.History()})
}

// GET /api/test/summary
func (rt *Router) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	types := rt.catalog.Types()
	hist := rt.store.History()
	out := map[string]any{"summary": scoring.Summarize(hist, types)}
	if len(hist) > 0 {
		out["latest_profile"] = scoring.ProfileSeries(hist[0], types)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
