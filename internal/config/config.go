// Package config holds the tunable rule set used to classify and score
// test cases: thresholds, vocabularies, signal patterns, style patterns,
// grade bands and input column aliases.
//
// Defaults ship embedded as rules.yaml. A user rule file (YAML or JSON) is
// overlaid on top: keys it sets replace the default value, lists are
// replaced wholesale, and omitted keys keep their defaults.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// EnvRulesPath names the environment variable consulted for a rule file
// when none is given on the command line.
const EnvRulesPath = "CASEEVAL_RULES"

// Thresholds are the numeric cut-offs of the heuristics.
type Thresholds struct {
	DataNeedMinCategories         int `yaml:"data_need_min_categories" json:"data_need_min_categories"`
	PreconditionNeedMinCategories int `yaml:"precondition_need_min_categories" json:"precondition_need_min_categories"`
	TitleMinLength                int `yaml:"title_min_length" json:"title_min_length"`
	TitleWeakDeduction            int `yaml:"title_weak_deduction" json:"title_weak_deduction"`
	StepsNumberedLines            int `yaml:"steps_numbered_lines" json:"steps_numbered_lines"`
	StepsSemanticLines            int `yaml:"steps_semantic_lines" json:"steps_semantic_lines"`
	StepsSemicolons               int `yaml:"steps_semicolons" json:"steps_semicolons"`
	StepsJoiners                  int `yaml:"steps_joiners" json:"steps_joiners"`
}

// Vocabulary holds plain term lists. Terms are matched on word boundaries
// against folded text.
type Vocabulary struct {
	MeaninglessValues []string `yaml:"meaningless_values" json:"meaningless_values"`
	PlatformKeywords  []string `yaml:"platform_keywords" json:"platform_keywords"`
	WeakTitlePhrases  []string `yaml:"weak_title_phrases" json:"weak_title_phrases"`
	StepJoiners       []string `yaml:"step_joiners" json:"step_joiners"`
}

// PenaltyStep maps a minimum hit count to a deduction.
type PenaltyStep struct {
	MinHits   int `yaml:"min_hits" json:"min_hits"`
	Deduction int `yaml:"deduction" json:"deduction"`
}

// StyleRules configure completed-action phrasing detection.
type StyleRules struct {
	Phrases       []string      `yaml:"phrases" json:"phrases"`
	Suffixes      []string      `yaml:"suffixes" json:"suffixes"`
	Words         []string      `yaml:"words" json:"words"`
	StopWords     []string      `yaml:"stop_words" json:"stop_words"`
	MinStemLength int           `yaml:"min_stem_length" json:"min_stem_length"`
	Penalty       []PenaltyStep `yaml:"penalty" json:"penalty"`
}

// GradeBand names the lowest percentage that earns a grade.
type GradeBand struct {
	Name       string  `yaml:"name" json:"name"`
	MinPercent float64 `yaml:"min_percent" json:"min_percent"`
}

// Columns lists accepted header aliases per input field. Matching is
// case-insensitive and ignores surrounding whitespace.
type Columns struct {
	Key          []string `yaml:"key" json:"key"`
	Summary      []string `yaml:"summary" json:"summary"`
	Priority     []string `yaml:"priority" json:"priority"`
	Labels       []string `yaml:"labels" json:"labels"`
	Steps        []string `yaml:"steps" json:"steps"`
	Precondition []string `yaml:"precondition" json:"precondition"`
}

// Rules is the complete rule set.
type Rules struct {
	Thresholds   Thresholds          `yaml:"thresholds" json:"thresholds"`
	Vocabulary   Vocabulary          `yaml:"vocabulary" json:"vocabulary"`
	Signals      map[string][]string `yaml:"signals" json:"signals"`
	JSONKeyValue []string            `yaml:"json_key_value" json:"json_key_value"`
	Style        StyleRules          `yaml:"style" json:"style"`
	Grades       []GradeBand         `yaml:"grades" json:"grades"`
	Columns      Columns             `yaml:"columns" json:"columns"`
}

// Default returns a fresh copy of the embedded rule set.
func Default() Rules {
	var r Rules
	if err := yaml.Unmarshal(defaultRulesYAML, &r); err != nil {
		panic(fmt.Sprintf("load embedded rules.yaml: %v", err))
	}
	return r
}

// LoadFile reads a rule file and overlays it on the defaults. Format is
// detected by extension (.yaml/.yml, .json) or, failing that, by content.
func LoadFile(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load overlays data on the defaults and validates the result.
// ext is a format hint (".yaml", ".json"); empty = detect from content.
func Load(data []byte, ext string) (Rules, error) {
	r := Default()
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" && strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		ext = ".json"
	}
	if ext == ".json" {
		if err := json.Unmarshal(data, &r); err != nil {
			return Rules{}, fmt.Errorf("parse rules json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &r); err != nil {
			return Rules{}, fmt.Errorf("parse rules yaml: %w", err)
		}
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// Resolve picks the rule source: explicit path, then $CASEEVAL_RULES,
// then the embedded defaults.
func Resolve(path string) (Rules, string, error) {
	if path == "" {
		path = os.Getenv(EnvRulesPath)
	}
	if path == "" {
		return Default(), "embedded", nil
	}
	r, err := LoadFile(path)
	if err != nil {
		return Rules{}, path, err
	}
	return r, path, nil
}

// Marshal renders the rule set as YAML.
func (r Rules) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

// ValidationError collects every problem found in a rule set.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid rules: %s", strings.Join(e.Errors, "; "))
}

// Validate checks thresholds, breakpoint ordering, grade ordering and that
// every pattern compiles.
func (r Rules) Validate() error {
	var errs []string
	positive := []struct {
		name string
		v    int
	}{
		{"thresholds.data_need_min_categories", r.Thresholds.DataNeedMinCategories},
		{"thresholds.precondition_need_min_categories", r.Thresholds.PreconditionNeedMinCategories},
		{"thresholds.steps_numbered_lines", r.Thresholds.StepsNumberedLines},
		{"thresholds.steps_semantic_lines", r.Thresholds.StepsSemanticLines},
		{"thresholds.steps_semicolons", r.Thresholds.StepsSemicolons},
		{"thresholds.steps_joiners", r.Thresholds.StepsJoiners},
	}
	for _, p := range positive {
		if p.v < 1 {
			errs = append(errs, fmt.Sprintf("%s must be >= 1, got %d", p.name, p.v))
		}
	}
	if r.Thresholds.TitleMinLength < 0 {
		errs = append(errs, fmt.Sprintf("thresholds.title_min_length must be >= 0, got %d", r.Thresholds.TitleMinLength))
	}
	if r.Thresholds.TitleWeakDeduction < 0 {
		errs = append(errs, fmt.Sprintf("thresholds.title_weak_deduction must be >= 0, got %d", r.Thresholds.TitleWeakDeduction))
	}
	if r.Style.MinStemLength < 0 {
		errs = append(errs, fmt.Sprintf("style.min_stem_length must be >= 0, got %d", r.Style.MinStemLength))
	}

	for i, p := range r.Style.Penalty {
		if p.MinHits < 1 || p.Deduction < 0 {
			errs = append(errs, fmt.Sprintf("style.penalty[%d]: min_hits must be >= 1 and deduction >= 0", i))
		}
		if i > 0 {
			prev := r.Style.Penalty[i-1]
			if p.MinHits <= prev.MinHits {
				errs = append(errs, fmt.Sprintf("style.penalty[%d]: min_hits %d not greater than %d", i, p.MinHits, prev.MinHits))
			}
			if p.Deduction < prev.Deduction {
				errs = append(errs, fmt.Sprintf("style.penalty[%d]: deduction %d lower than %d", i, p.Deduction, prev.Deduction))
			}
		}
	}

	if len(r.Grades) == 0 {
		errs = append(errs, "grades: at least one band required")
	}
	for i := 1; i < len(r.Grades); i++ {
		if r.Grades[i].MinPercent >= r.Grades[i-1].MinPercent {
			errs = append(errs, fmt.Sprintf("grades[%d]: min_percent must decrease", i))
		}
	}

	if len(r.Columns.Key) == 0 || len(r.Columns.Summary) == 0 || len(r.Columns.Steps) == 0 {
		errs = append(errs, "columns: key, summary and steps need at least one alias")
	}

	errs = append(errs, compileAll("json_key_value", r.JSONKeyValue)...)
	errs = append(errs, compileAll("style.phrases", r.Style.Phrases)...)
	names := make([]string, 0, len(r.Signals))
	for name := range r.Signals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		errs = append(errs, compileAll("signals."+name, r.Signals[name])...)
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func compileAll(field string, patterns []string) []string {
	var errs []string
	for i, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Sprintf("%s[%d]: %v", field, i, err))
		}
	}
	return errs
}

// CompilePatterns compiles a validated pattern list.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
