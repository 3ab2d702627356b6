// Package rubric defines the four scoring tables and the flat decision
// table that selects one of them for a test case.
package rubric

import (
	"fmt"
	"strings"
)

// Rubric names a scoring table.
type Rubric string

const (
	A Rubric = "A"
	B Rubric = "B"
	C Rubric = "C"
	D Rubric = "D"
)

// Criterion is one scored aspect of a test case.
type Criterion string

const (
	Title        Criterion = "title"
	Priority     Criterion = "priority"
	Data         Criterion = "data"
	Precondition Criterion = "precondition"
	Steps        Criterion = "steps"
	Client       Criterion = "client"
	Expected     Criterion = "expected"
)

// Order is the fixed evaluation order of criteria.
var Order = []Criterion{Title, Priority, Data, Precondition, Steps, Client, Expected}

// Table is the weight and active criterion set of a rubric. Every active
// criterion is scored out of BaseWeight.
type Table struct {
	Rubric     Rubric      `json:"rubric" yaml:"rubric"`
	BaseWeight int         `json:"base_weight" yaml:"base_weight"`
	Active     []Criterion `json:"active" yaml:"active"`
}

// Max is the highest reachable total.
func (t Table) Max() int { return t.BaseWeight * len(t.Active) }

// IsActive reports whether c is scored under this table.
func (t Table) IsActive(c Criterion) bool {
	for _, a := range t.Active {
		if a == c {
			return true
		}
	}
	return false
}

var tables = map[Rubric]Table{
	A: {A, 20, []Criterion{Title, Priority, Steps, Client, Expected}},
	B: {B, 17, []Criterion{Title, Priority, Precondition, Steps, Client, Expected}},
	C: {C, 17, []Criterion{Title, Priority, Data, Steps, Client, Expected}},
	D: {D, 14, []Criterion{Title, Priority, Data, Precondition, Steps, Client, Expected}},
}

// TableFor returns the table of r. Unknown rubrics fall back to A.
func TableFor(r Rubric) Table {
	t, ok := tables[r]
	if !ok {
		t = tables[A]
	}
	t.Active = append([]Criterion(nil), t.Active...)
	return t
}

// All returns the four tables in A..D order.
func All() []Table {
	return []Table{TableFor(A), TableFor(B), TableFor(C), TableFor(D)}
}

// Parse resolves "a", "B", ... to a rubric.
func Parse(s string) (Rubric, error) {
	r := Rubric(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := tables[r]; !ok {
		return "", fmt.Errorf("unknown rubric %q", s)
	}
	return r, nil
}
