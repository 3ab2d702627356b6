// Package record holds the test case record as read from an export.
package record

import (
	"strconv"
	"strings"
)

// TestCase is one exported test case. Every field may be blank.
type TestCase struct {
	Key                string `json:"key" yaml:"key"`
	Summary            string `json:"summary" yaml:"summary"`
	Priority           string `json:"priority,omitempty" yaml:"priority,omitempty"`
	Labels             string `json:"labels,omitempty" yaml:"labels,omitempty"`
	StepsRaw           string `json:"steps,omitempty" yaml:"steps,omitempty"`
	PreconditionAssoc1 string `json:"precondition_1,omitempty" yaml:"precondition_1,omitempty"`
	PreconditionAssoc2 string `json:"precondition_2,omitempty" yaml:"precondition_2,omitempty"`

	// Row is the 1-based position of the record in its export, 0 when the
	// record did not come from one.
	Row int `json:"-" yaml:"-"`
}

// DisplayKey returns Key, or "row N" (1-based) when the key is blank.
func (tc TestCase) DisplayKey(row int) string {
	if k := strings.TrimSpace(tc.Key); k != "" {
		return k
	}
	return "row " + strconv.Itoa(row)
}
