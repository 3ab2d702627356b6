package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"caseeval/internal/rubric"
	"caseeval/internal/textnorm"
)

// scorerFunc scores one criterion out of weight and says why.
type scorerFunc func(e *Engine, f *facts, weight int) (int, string)

var scorers = map[rubric.Criterion]scorerFunc{
	rubric.Title:        scoreTitle,
	rubric.Priority:     scorePriority,
	rubric.Data:         scoreData,
	rubric.Precondition: scorePrecondition,
	rubric.Steps:        scoreSteps,
	rubric.Client:       scoreClient,
	rubric.Expected:     scoreExpected,
}

func scoreTitle(e *Engine, f *facts, weight int) (int, string) {
	title := e.meaning.Clean(textnorm.Collapse(textnorm.StripMarkup(f.tc.Summary)))
	if title == "" {
		return 0, "summary is blank"
	}
	if n := textnorm.RuneLen(title); n < e.th.TitleMinLength {
		return 0, fmt.Sprintf("summary has %d characters, fewer than %d", n, e.th.TitleMinLength)
	}
	wt := textnorm.WordText(title)
	for _, p := range e.vocab.WeakTitlePhrases {
		if textnorm.HasTerm(wt, p) {
			return max(weight-e.th.TitleWeakDeduction, 1), fmt.Sprintf("summary uses weak phrasing %q", p)
		}
	}
	return weight, "summary is clear"
}

func scorePriority(e *Engine, f *facts, weight int) (int, string) {
	p := e.meaning.Clean(f.tc.Priority)
	if p == "" {
		return 0, "priority is not set"
	}
	return weight, fmt.Sprintf("priority %q", p)
}

func scoreData(_ *Engine, f *facts, weight int) (int, string) {
	if len(f.data) == 0 {
		return 0, "no step carries test data"
	}
	return weight, fmt.Sprintf("%d step(s) carry test data", len(f.data))
}

func scorePrecondition(_ *Engine, f *facts, weight int) (int, string) {
	if !f.provided {
		return 0, "no precondition is associated"
	}
	return weight, "precondition is associated"
}

func scoreSteps(e *Engine, f *facts, weight int) (int, string) {
	if len(f.actions) == 0 {
		return 0, "no action steps"
	}
	distinct := map[string]bool{}
	for _, a := range f.actions {
		distinct[textnorm.Normalize(a)] = true
	}
	if len(distinct) >= 2 {
		return weight, fmt.Sprintf("%d distinct action steps", len(distinct))
	}
	if why := e.compound(f.actions[0]); why != "" {
		return 1, "single step bundles several actions: " + why
	}
	return weight, "single atomic step"
}

func scoreClient(e *Engine, f *facts, weight int) (int, string) {
	text := strings.Join(append([]string{f.tc.Summary, f.tc.Labels}, f.actions...), "\n")
	wt := textnorm.WordText(textnorm.StripMarkup(text))
	for _, k := range e.vocab.PlatformKeywords {
		if textnorm.HasTerm(wt, k) {
			return weight, fmt.Sprintf("mentions platform %q", k)
		}
	}
	return 0, "no client or platform mentioned"
}

func scoreExpected(e *Engine, f *facts, weight int) (int, string) {
	if len(f.expected) == 0 {
		return 0, "no expected result"
	}
	p := e.style.Evaluate(strings.Join(f.expected, "\n"))
	if p.Hits == 0 {
		return weight, fmt.Sprintf("%d expected result(s), prospective phrasing", len(f.expected))
	}
	return max(weight-p.Deduction, 0), fmt.Sprintf("%d completed-action phrasing(s), -%d", p.Hits, p.Deduction)
}

var listLine = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+`)

// compound reports why a single action looks like several steps glued
// together, or "" when it reads as one instruction.
func (e *Engine) compound(action string) string {
	plain := textnorm.StripMarkup(action)
	var lines []string
	for _, l := range strings.Split(plain, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	listed := 0
	for _, l := range lines {
		if listLine.MatchString(l) {
			listed++
		}
	}
	joiners := listCommas(plain)
	wt := textnorm.WordText(plain)
	for _, j := range e.vocab.StepJoiners {
		joiners += textnorm.CountTerm(wt, j)
	}

	switch {
	case listed >= e.th.StepsNumberedLines:
		return fmt.Sprintf("%d numbered or bulleted lines", listed)
	case len(lines) >= e.th.StepsSemanticLines:
		return fmt.Sprintf("%d lines", len(lines))
	case strings.Count(plain, ";") >= e.th.StepsSemicolons:
		return fmt.Sprintf("%d semicolons", strings.Count(plain, ";"))
	case joiners >= e.th.StepsJoiners:
		return fmt.Sprintf("%d joiners", joiners)
	case e.style.Hits(plain) > 0:
		return "completed-action phrasing"
	}
	return ""
}

// listCommas counts commas that separate words. A comma between two digits
// is a thousands or decimal separator and is skipped.
func listCommas(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		if i > 0 && i+1 < len(s) && isDigit(s[i-1]) && isDigit(s[i+1]) {
			continue
		}
		n++
	}
	return n
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
