// Package style detects expected results written as a narration of what
// already happened ("the order was created", "sipariş oluşturuldu")
// instead of a prospective expectation, and maps the number of such
// phrasings to a score deduction.
package style

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"caseeval/internal/config"
	"caseeval/internal/textnorm"
)

// Penalty is the outcome of one evaluation.
type Penalty struct {
	Hits      int      `json:"hits"`
	Deduction int      `json:"deduction"`
	Matches   []string `json:"matches,omitempty"`
}

// Evaluator is read-only after construction and safe for concurrent use.
type Evaluator struct {
	phrases  []*regexp.Regexp
	suffixes []string
	words    map[string]bool
	stop     map[string]bool
	minStem  int
	steps    []config.PenaltyStep
}

// New compiles the style rules.
func New(r config.StyleRules) (*Evaluator, error) {
	phrases, err := config.CompilePatterns(r.Phrases)
	if err != nil {
		return nil, fmt.Errorf("style phrases: %w", err)
	}
	e := &Evaluator{
		phrases: phrases,
		words:   foldSet(r.Words),
		stop:    foldSet(r.StopWords),
		minStem: r.MinStemLength,
		steps:   append([]config.PenaltyStep(nil), r.Penalty...),
	}
	for _, s := range r.Suffixes {
		if s = textnorm.Fold(strings.TrimSpace(s)); s != "" {
			e.suffixes = append(e.suffixes, s)
		}
	}
	sort.Slice(e.steps, func(i, j int) bool { return e.steps[i].MinHits < e.steps[j].MinHits })
	return e, nil
}

func foldSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[textnorm.Fold(strings.TrimSpace(w))] = true
	}
	return m
}

// Evaluate counts completed-action phrasings in text and returns the
// matching deduction.
func (e *Evaluator) Evaluate(text string) Penalty {
	matches := e.scan(text)
	return Penalty{
		Hits:      len(matches),
		Deduction: e.Deduction(len(matches)),
		Matches:   matches,
	}
}

// Hits counts completed-action phrasings in text.
func (e *Evaluator) Hits(text string) int {
	return len(e.scan(text))
}

// Deduction maps a hit count to points using the configured breakpoints:
// the deduction of the highest breakpoint whose MinHits is reached.
func (e *Evaluator) Deduction(hits int) int {
	d := 0
	for _, s := range e.steps {
		if hits < s.MinHits {
			break
		}
		d = s.Deduction
	}
	return d
}

func (e *Evaluator) scan(text string) []string {
	norm := textnorm.Normalize(text)
	if norm == "" {
		return nil
	}
	var out []string
	for _, re := range e.phrases {
		out = append(out, re.FindAllString(norm, -1)...)
	}
	for _, w := range textnorm.Words(norm) {
		if e.completed(w) {
			out = append(out, w)
		}
	}
	return out
}

func (e *Evaluator) completed(w string) bool {
	if e.stop[w] {
		return false
	}
	if e.words[w] {
		return true
	}
	n := textnorm.RuneLen(w)
	for _, s := range e.suffixes {
		if strings.HasSuffix(w, s) && n-textnorm.RuneLen(s) >= e.minStem {
			return true
		}
	}
	return false
}
