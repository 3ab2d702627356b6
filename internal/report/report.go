// Package report summarises a batch of score results and renders it as a
// table, Markdown, CSV or JSON.
package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"caseeval/internal/rubric"
	"caseeval/internal/scoring"
)

// Summary aggregates a batch.
type Summary struct {
	Records     int                   `json:"records"`
	ByRubric    map[rubric.Rubric]int `json:"by_rubric"`
	ByGrade     map[string]int        `json:"by_grade"`
	MeanPercent float64               `json:"mean_percent"`
	MinPercent  float64               `json:"min_percent"`
	MaxPercent  float64               `json:"max_percent"`
}

// Report is one scored batch.
type Report struct {
	RunID       string           `json:"run_id"`
	Source      string           `json:"source"`
	Rules       string           `json:"rules"`
	GeneratedAt time.Time        `json:"generated_at"`
	Sampled     int              `json:"sampled,omitempty"`
	Seed        uint64           `json:"seed,omitempty"`
	Results     []scoring.Result `json:"results"`
	Summary     Summary          `json:"summary"`
}

// New builds a report with a fresh run ID.
func New(source, rules string, results []scoring.Result) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		Source:      source,
		Rules:       rules,
		GeneratedAt: time.Now().UTC(),
		Results:     results,
		Summary:     Summarize(results),
	}
}

// Summarize counts rubrics and grades and computes percentage statistics.
func Summarize(results []scoring.Result) Summary {
	s := Summary{
		Records:  len(results),
		ByRubric: make(map[rubric.Rubric]int),
		ByGrade:  make(map[string]int),
	}
	if len(results) == 0 {
		return s
	}
	s.MinPercent = results[0].Percentage
	sum := 0.0
	for _, r := range results {
		s.ByRubric[r.Rubric()]++
		s.ByGrade[r.Grade]++
		sum += r.Percentage
		s.MinPercent = min(s.MinPercent, r.Percentage)
		s.MaxPercent = max(s.MaxPercent, r.Percentage)
	}
	s.MeanPercent = sum / float64(len(results))
	return s
}

// JSON renders the whole report, indented.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
