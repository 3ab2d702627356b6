package scoring

import (
	"fmt"

	"caseeval/internal/rubric"
	"caseeval/internal/signals"
)

// Verdict summarises one criterion score.
type Verdict string

const (
	Pass    Verdict = "pass"
	Partial Verdict = "partial"
	Fail    Verdict = "fail"
)

func verdictFor(score, limit int) Verdict {
	switch {
	case score >= limit:
		return Pass
	case score <= 0:
		return Fail
	default:
		return Partial
	}
}

// Note explains one scored criterion.
type Note struct {
	Criterion rubric.Criterion `json:"criterion"`
	Score     int              `json:"score"`
	Max       int              `json:"max"`
	Verdict   Verdict          `json:"verdict"`
	Reason    string           `json:"reason"`
}

func (n Note) String() string {
	return fmt.Sprintf("%s: %s %d/%d (%s)", n.Criterion, n.Verdict, n.Score, n.Max, n.Reason)
}

// Classification is the rubric decision and the evidence behind it.
type Classification struct {
	rubric.Decision
	Evidence         rubric.Evidence `json:"evidence"`
	DataNeed         signals.Need    `json:"data_need"`
	PreconditionNeed signals.Need    `json:"precondition_need"`
}

// StepsInfo describes what the field extractor found.
type StepsInfo struct {
	Parser  string `json:"parser,omitempty"`
	Blocks  int    `json:"blocks"`
	Actions int    `json:"actions"`
}

// Result is the score of one test case.
type Result struct {
	Key            string                   `json:"key"`
	Classification Classification           `json:"classification"`
	Scores         map[rubric.Criterion]int `json:"scores"`
	Total          int                      `json:"total"`
	Max            int                      `json:"max"`
	Percentage     float64                  `json:"percentage"`
	Grade          string                   `json:"grade"`
	Trail          []Note                   `json:"trail"`
	Steps          StepsInfo                `json:"steps"`
}

// Rubric is a shorthand for Classification.Rubric.
func (r Result) Rubric() rubric.Rubric { return r.Classification.Rubric }

// Score returns the score of c and whether c was scored.
func (r Result) Score(c rubric.Criterion) (int, bool) {
	s, ok := r.Scores[c]
	return s, ok
}
