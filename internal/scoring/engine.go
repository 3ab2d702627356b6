// Package scoring classifies a test case into a rubric and scores it
// against the rubric's active criteria.
//
// An Engine is built once from a rule set and is then a pure function of
// its input: it keeps no per-record state and is safe to share between
// goroutines.
package scoring

import (
	"fmt"
	"strings"

	"caseeval/internal/config"
	"caseeval/internal/record"
	"caseeval/internal/rubric"
	"caseeval/internal/signals"
	"caseeval/internal/steps"
	"caseeval/internal/style"
	"caseeval/internal/textnorm"
)

// Engine scores test cases.
type Engine struct {
	th        config.Thresholds
	vocab     config.Vocabulary
	grades    []config.GradeBand
	chain     *steps.Chain
	scanner   *signals.Scanner
	style     *style.Evaluator
	meaning   textnorm.Meaning
	decisions []rubric.Rule
}

// New validates r and compiles it into an Engine.
func New(r config.Rules) (*Engine, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	scanner, err := signals.NewScanner(r)
	if err != nil {
		return nil, fmt.Errorf("build signal scanner: %w", err)
	}
	ev, err := style.New(r.Style)
	if err != nil {
		return nil, fmt.Errorf("build style evaluator: %w", err)
	}
	return &Engine{
		th:        r.Thresholds,
		vocab:     r.Vocabulary,
		grades:    append([]config.GradeBand(nil), r.Grades...),
		chain:     steps.NewChain(r.Vocabulary.MeaninglessValues),
		scanner:   scanner,
		style:     ev,
		meaning:   textnorm.NewMeaning(r.Vocabulary.MeaninglessValues),
		decisions: rubric.DefaultRules(),
	}, nil
}

// Default builds an Engine from the embedded rule set.
func Default() *Engine {
	e, err := New(config.Default())
	if err != nil {
		panic(fmt.Sprintf("build engine from embedded rules: %v", err))
	}
	return e
}

// facts is everything derived from one record before scoring.
type facts struct {
	tc         record.TestCase
	extraction steps.Extraction
	actions    []string
	data       []string
	expected   []string
	provided   bool
}

func (e *Engine) gather(tc record.TestCase) *facts {
	f := &facts{tc: tc, extraction: e.chain.Extract(tc.StepsRaw)}
	for _, b := range f.extraction.Blocks {
		if b.Action != "" {
			f.actions = append(f.actions, b.Action)
		}
		if b.Data != "" {
			f.data = append(f.data, b.Data)
		}
		if b.Expected != "" {
			f.expected = append(f.expected, b.Expected)
		}
	}
	f.provided = e.scanner.PreconditionProvided(tc.PreconditionAssoc1, tc.PreconditionAssoc2)
	return f
}

// corpus is the text the need scanners read: the summary plus every
// extracted step field, or the raw steps when nothing was extracted.
func (f *facts) corpus() string {
	parts := []string{f.tc.Summary}
	if len(f.extraction.Blocks) == 0 {
		parts = append(parts, f.tc.StepsRaw)
	}
	for _, b := range f.extraction.Blocks {
		parts = append(parts, b.Text())
	}
	return strings.Join(parts, "\n")
}

// Classify selects the rubric for tc.
func (e *Engine) Classify(tc record.TestCase) Classification {
	return e.classify(e.gather(tc))
}

func (e *Engine) classify(f *facts) Classification {
	text := f.corpus()
	dn := e.scanner.DataNeed(text, len(f.data) > 0)
	pn := e.scanner.PreconditionNeed(text)
	ev := rubric.Evidence{
		ExplicitData:         len(f.data) > 0,
		PreconditionProvided: f.provided,
		DataNeeded:           dn.Needed,
		PreconditionNeeded:   pn.Needed,
	}
	return Classification{
		Decision:         rubric.ClassifyWith(e.decisions, ev),
		Evidence:         ev,
		DataNeed:         dn,
		PreconditionNeed: pn,
	}
}

// Evaluate classifies and scores tc.
func (e *Engine) Evaluate(tc record.TestCase) Result {
	f := e.gather(tc)
	cls := e.classify(f)
	table := rubric.TableFor(cls.Rubric)

	res := Result{
		Key:            tc.Key,
		Classification: cls,
		Scores:         make(map[rubric.Criterion]int, len(table.Active)),
		Max:            table.Max(),
		Steps: StepsInfo{
			Parser:  f.extraction.Parser,
			Blocks:  len(f.extraction.Blocks),
			Actions: len(f.actions),
		},
	}
	for _, c := range rubric.Order {
		if !table.IsActive(c) {
			continue
		}
		score, reason := scorers[c](e, f, table.BaseWeight)
		score = min(max(score, 0), table.BaseWeight)
		res.Scores[c] = score
		res.Total += score
		res.Trail = append(res.Trail, Note{
			Criterion: c,
			Score:     score,
			Max:       table.BaseWeight,
			Verdict:   verdictFor(score, table.BaseWeight),
			Reason:    reason,
		})
	}
	if res.Max > 0 {
		res.Percentage = min(max(float64(res.Total)/float64(res.Max), 0), 1) * 100
	}
	res.Grade = e.Grade(res.Percentage)
	return res
}

// Grade maps a percentage to the first grade band it reaches.
func (e *Engine) Grade(pct float64) string {
	for _, g := range e.grades {
		if pct >= g.MinPercent {
			return g.Name
		}
	}
	if len(e.grades) == 0 {
		return ""
	}
	return e.grades[len(e.grades)-1].Name
}
