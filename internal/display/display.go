// Package display provides human-readable names for machine codes.
//
// Code is for machines, words are for humans: use these in CLI output,
// Markdown reports and logs. Keep the raw codes in JSON fields, map keys
// and comparisons.
package display

import "strings"

var criteria = map[string]string{
	"title":        "Title clarity",
	"priority":     "Priority",
	"data":         "Test data",
	"precondition": "Precondition",
	"steps":        "Steps structure",
	"client":       "Client/platform",
	"expected":     "Expected result",
}

// Reviewer checklist wording used by the QA team that defined the rubrics.
var questions = map[string]string{
	"title":        "Test başlığı anlaşılır mı?",
	"priority":     "Öncelik bilgisi girilmiş mi?",
	"data":         "Test datası eklenmiş mi?",
	"precondition": "Test ön koşul eklenmiş mi?",
	"steps":        "Test stepleri var ve doğru ayrıştırılmış mı?",
	"client":       "Senaryonun hangi clientta koşulacağı belli mi?",
	"expected":     "Expected result bulunuyor mu?",
}

// Criterion returns the name of a criterion code. Unknown codes are
// returned as-is.
func Criterion(code string) string {
	if name, ok := criteria[code]; ok {
		return name
	}
	return code
}

// Question returns the checklist question for a criterion code, or "".
func Question(code string) string {
	return questions[code]
}

var rubrics = map[string]string{
	"A": "Basic",
	"B": "Precondition",
	"C": "Test data",
	"D": "Data + precondition",
}

// Rubric returns "D (Data + precondition)" for a rubric code.
func Rubric(code string) string {
	if name, ok := rubrics[strings.ToUpper(code)]; ok {
		return strings.ToUpper(code) + " (" + name + ")"
	}
	return code
}

// Verdict returns a short mark for pass/partial/fail.
func Verdict(v string) string {
	switch v {
	case "pass":
		return "✓ pass"
	case "partial":
		return "~ partial"
	case "fail":
		return "✗ fail"
	}
	return v
}

// Grade title-cases a grade name ("good" → "Good").
func Grade(g string) string {
	if g == "" {
		return ""
	}
	return strings.ToUpper(g[:1]) + g[1:]
}

// List joins names with ", ", or returns "none" when empty.
func List(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
