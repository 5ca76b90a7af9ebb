package scoring

import (
	"sort"

	"github.com/brainventure/neuroleader/internal/catalog"
)

// MaxScore is the maximum Likert value per question.
const MaxScore = 5

// Band is the interpretation band a normalized score falls into.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Interpret maps a normalized score to its band. Thresholds operate on
// score/maxScore: below 0.4 is low, below 0.7 is medium, else high. The
// low boundary is exclusive, so a score of exactly 2.0 on a 5-point scale
// lands in medium.
func Interpret(score, maxScore float64) Band {
	if maxScore <= 0 {
		return BandLow
	}
	p := score / maxScore
	if p < 0.4 {
		return BandLow
	}
	if p < 0.7 {
		return BandMedium
	}
	return BandHigh
}

// Result is the outcome of one test attempt. Scores hold the average Likert
// value per type; types without any contributing answer are included at 0.
// Date is stamped by the results store at save time, not here.
type Result struct {
	ID              string             `json:"id,omitempty"`
	Scores          map[string]float64 `json:"scores"`
	DominantType    string             `json:"dominant_type"`
	SecondaryType   string             `json:"secondary_type,omitempty"`
	TertiaryType    string             `json:"tertiary_type,omitempty"`
	Interpretations map[string]string  `json:"interpretations"`
	Date            string             `json:"date,omitempty"`
}

// InterpretationSource resolves the display text for a type's score band.
// An empty return falls back to a generic band label.
type InterpretationSource interface {
	InterpretationText(typeID, band string) string
}

var fallbackTexts = map[Band]string{
	BandLow:    "Niski wynik",
	BandMedium: "Średni wynik",
	BandHigh:   "Wysoki wynik",
}

// Engine converts completed answer sets into results. It is stateless; the
// catalog is passed per call so the engine holds no globals.
type Engine struct {
	texts InterpretationSource
}

// NewEngine returns an engine using texts for interpretation lookup.
// A nil source falls back to generic band labels.
func NewEngine(texts InterpretationSource) *Engine {
	return &Engine{texts: texts}
}

// Calculate scores an answer set against the question catalog.
//
// Answers map question ids to Likert values (1–5). Answers referencing
// unknown question ids are ignored, as are questions whose type is not in
// the type catalog. Every catalog type appears in Scores: the average of
// its answered questions, or 0 when none were answered. Ranking is by
// score descending with ties broken by catalog declaration order.
//
// An empty answer set yields all-zero scores and the first catalog type as
// dominant; there is no division by zero.
func (e *Engine) Calculate(answers map[string]int, questions []catalog.Question, types []catalog.TypeDefinition) *Result {
	known := make(map[string]bool, len(types))
	for _, t := range types {
		known[t.ID] = true
	}

	sums := map[string]int{}
	counts := map[string]int{}
	for _, q := range questions {
		v, ok := answers[q.ID]
		if !ok || !known[q.Type] {
			continue
		}
		sums[q.Type] += v
		counts[q.Type]++
	}

	scores := make(map[string]float64, len(types))
	for _, t := range types {
		if counts[t.ID] > 0 {
			scores[t.ID] = float64(sums[t.ID]) / float64(counts[t.ID])
		} else {
			scores[t.ID] = 0
		}
	}

	ranked := make([]string, 0, len(types))
	for _, t := range types {
		ranked = append(ranked, t.ID)
	}
	// Stable sort keeps catalog declaration order on equal scores.
	sort.SliceStable(ranked, func(i, j int) bool { return scores[ranked[i]] > scores[ranked[j]] })

	res := &Result{
		Scores:          scores,
		Interpretations: make(map[string]string, len(types)),
	}
	if len(ranked) > 0 {
		res.DominantType = ranked[0]
	}
	if len(ranked) > 1 {
		res.SecondaryType = ranked[1]
	}
	if len(ranked) > 2 {
		res.TertiaryType = ranked[2]
	}

	for id, score := range scores {
		res.Interpretations[id] = e.interpretationFor(id, score)
	}
	return res
}

func (e *Engine) interpretationFor(typeID string, score float64) string {
	band := Interpret(score, MaxScore)
	if e.texts != nil {
		if text := e.texts.InterpretationText(typeID, string(band)); text != "" {
			return text
		}
	}
	return fallbackTexts[band]
}
