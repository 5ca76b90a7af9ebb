package scoring

import (
	"sort"
	"time"

	"github.com/brainventure/neuroleader/internal/catalog"
)

// DateLayout is the timestamp format stamped on saved results.
const DateLayout = "2006-01-02 15:04:05"

// AttemptsByDay counts test attempts on one calendar day.
type AttemptsByDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary aggregates a user's test history for the profile page.
type Summary struct {
	Attempts       int                `json:"attempts"`
	TypeMeans      map[string]float64 `json:"type_means"`
	DominantCounts map[string]int     `json:"dominant_counts"`
	Timeseries     []AttemptsByDay    `json:"timeseries"`
}

// Summarize folds a result history into per-type means, dominant-type
// frequencies and an attempts-per-day series. Records with unparseable
// dates still count toward means but are left out of the timeseries.
func Summarize(history []*Result, types []catalog.TypeDefinition) *Summary {
	s := &Summary{
		TypeMeans:      map[string]float64{},
		DominantCounts: map[string]int{},
		Timeseries:     []AttemptsByDay{},
	}
	if len(history) == 0 {
		return s
	}

	sums := map[string]float64{}
	nums := map[string]int{}
	countsByDay := map[string]int{}
	for _, rec := range history {
		if rec == nil {
			continue
		}
		s.Attempts++
		for id, score := range rec.Scores {
			sums[id] += score
			nums[id]++
		}
		if rec.DominantType != "" {
			s.DominantCounts[rec.DominantType]++
		}
		if t, err := time.Parse(DateLayout, rec.Date); err == nil {
			countsByDay[t.Format("2006-01-02")]++
		}
	}

	for _, t := range types {
		if nums[t.ID] > 0 {
			s.TypeMeans[t.ID] = sums[t.ID] / float64(nums[t.ID])
		} else {
			s.TypeMeans[t.ID] = 0
		}
	}

	days := make([]string, 0, len(countsByDay))
	for day := range countsByDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		s.Timeseries = append(s.Timeseries, AttemptsByDay{Date: day, Count: countsByDay[day]})
	}
	return s
}

// ProfileSeries returns a result's scores in catalog declaration order,
// the axis order the radar chart renders in. Missing types read as 0.
func ProfileSeries(rec *Result, types []catalog.TypeDefinition) []float64 {
	out := make([]float64, 0, len(types))
	for _, t := range types {
		var v float64
		if rec != nil {
			v = rec.Scores[t.ID]
		}
		out = append(out, v)
	}
	return out
}
