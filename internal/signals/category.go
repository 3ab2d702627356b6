package signals

import (
	"fmt"
	"sort"
	"strings"
)

// Category is a kind of textual evidence that a test case needs supporting
// test data or a precondition.
type Category int

const (
	SQL Category = iota + 1
	JSONBody
	Identifier
	HTTPCall
	Placeholder
	LongNumber
	PreconditionPhrase
	Login
	ExistingEntity
	Environment
)

var categoryNames = map[Category]string{
	SQL:                "sql",
	JSONBody:           "json_body",
	Identifier:         "identifier",
	HTTPCall:           "http_call",
	Placeholder:        "placeholder",
	LongNumber:         "long_number",
	PreconditionPhrase: "precondition_phrase",
	Login:              "login",
	ExistingEntity:     "existing_entity",
	Environment:        "environment",
}

var categoryLabels = map[Category]string{
	SQL:                "SQL",
	JSONBody:           "JSON body",
	Identifier:         "identifier field",
	HTTPCall:           "HTTP call",
	Placeholder:        "placeholder",
	LongNumber:         "long number",
	PreconditionPhrase: "precondition phrasing",
	Login:              "login/auth",
	ExistingEntity:     "existing entity",
	Environment:        "environment/setup",
}

// DataCategories feed the data-need scan.
var DataCategories = []Category{SQL, JSONBody, Identifier, HTTPCall, Placeholder, LongNumber}

// PreconditionCategories feed the precondition-need scan.
var PreconditionCategories = []Category{PreconditionPhrase, Login, ExistingEntity, Environment}

// String returns the rule-file name of the category ("json_body").
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Label returns a short human-readable name ("JSON body").
func (c Category) Label() string {
	if s, ok := categoryLabels[c]; ok {
		return s
	}
	return c.String()
}

func (c Category) MarshalText() ([]byte, error) {
	if _, ok := categoryNames[c]; !ok {
		return nil, fmt.Errorf("unknown signal category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory resolves a rule-file name.
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown signal category %q", name)
}

// Set is a sorted, duplicate-free list of categories.
type Set []Category

// NewSet builds a Set from cs.
func NewSet(cs ...Category) Set {
	seen := make(map[Category]bool, len(cs))
	out := make(Set, 0, len(cs))
	for _, c := range cs {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether c is in the set.
func (s Set) Has(c Category) bool {
	for _, x := range s {
		if x == c {
			return true
		}
	}
	return false
}

// Labels returns the human-readable names in set order.
func (s Set) Labels() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Label()
	}
	return out
}

// Names returns the rule-file names in set order.
func (s Set) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.String()
	}
	return out
}
