// Package signals scans free text for evidence that a test case needs
// supporting test data or a precondition, and checks whether a
// precondition was actually provided.
package signals

import (
	"fmt"
	"regexp"

	"caseeval/internal/config"
	"caseeval/internal/textnorm"
)

// Match is the first piece of text that produced a category.
type Match struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Need is the outcome of one need scan.
type Need struct {
	Signals  Set     `json:"signals"`
	Matches  []Match `json:"matches,omitempty"`
	Explicit bool    `json:"explicit,omitempty"`
	Needed   bool    `json:"needed"`
}

// Scanner holds compiled signal patterns. It is read-only after
// construction and safe for concurrent use.
type Scanner struct {
	patterns   map[Category][]*regexp.Regexp
	keyValue   []*regexp.Regexp
	dataMin    int
	precondMin int
	meaning    textnorm.Meaning
}

// NewScanner compiles the signal patterns of r. Signal names that are not
// known categories are rejected.
func NewScanner(r config.Rules) (*Scanner, error) {
	s := &Scanner{
		patterns:   make(map[Category][]*regexp.Regexp, len(r.Signals)),
		dataMin:    r.Thresholds.DataNeedMinCategories,
		precondMin: r.Thresholds.PreconditionNeedMinCategories,
		meaning:    textnorm.NewMeaning(r.Vocabulary.MeaninglessValues),
	}
	for name, pats := range r.Signals {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		res, err := config.CompilePatterns(pats)
		if err != nil {
			return nil, fmt.Errorf("signals.%s: %w", name, err)
		}
		s.patterns[c] = res
	}
	kv, err := config.CompilePatterns(r.JSONKeyValue)
	if err != nil {
		return nil, fmt.Errorf("json_key_value: %w", err)
	}
	s.keyValue = kv
	return s, nil
}

// Scan reports which of cats occur in text. text is normalized first.
func (s *Scanner) Scan(text string, cats []Category) (Set, []Match) {
	norm := textnorm.Normalize(text)
	var (
		found   []Category
		matches []Match
	)
	for _, c := range cats {
		hit, ok := s.first(c, norm)
		if !ok {
			continue
		}
		if c == JSONBody && !s.hasKeyValue(norm) {
			continue
		}
		found = append(found, c)
		matches = append(matches, Match{Category: c, Text: hit})
	}
	return NewSet(found...), matches
}

func (s *Scanner) first(c Category, norm string) (string, bool) {
	for _, re := range s.patterns[c] {
		if loc := re.FindStringIndex(norm); loc != nil {
			return norm[loc[0]:loc[1]], true
		}
	}
	return "", false
}

func (s *Scanner) hasKeyValue(norm string) bool {
	for _, re := range s.keyValue {
		if re.MatchString(norm) {
			return true
		}
	}
	return false
}

// DataNeed scans text for data categories. explicit reports that a step
// already carries a meaningful data field, which satisfies the need on
// its own.
func (s *Scanner) DataNeed(text string, explicit bool) Need {
	set, matches := s.Scan(text, DataCategories)
	return Need{
		Signals:  set,
		Matches:  matches,
		Explicit: explicit,
		Needed:   explicit || len(set) >= s.dataMin,
	}
}

// PreconditionNeed scans text for precondition categories.
func (s *Scanner) PreconditionNeed(text string) Need {
	set, matches := s.Scan(text, PreconditionCategories)
	return Need{
		Signals: set,
		Matches: matches,
		Needed:  len(set) >= s.precondMin,
	}
}

// PreconditionProvided reports whether any association field carries
// content once markup, punctuation and null markers are discarded.
func (s *Scanner) PreconditionProvided(assoc ...string) bool {
	for _, a := range assoc {
		if s.meaning.Meaningful(textnorm.StripMarkup(a)) {
			return true
		}
	}
	return false
}
