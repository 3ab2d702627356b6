package rubric

// Evidence is everything the decision table looks at.
type Evidence struct {
	ExplicitData         bool `json:"explicit_data"`
	PreconditionProvided bool `json:"precondition_provided"`
	DataNeeded           bool `json:"data_needed"`
	PreconditionNeeded   bool `json:"precondition_needed"`
}

// Rule is one row of the decision table.
type Rule struct {
	ID          string
	Name        string
	Rubric      Rubric
	Explanation string
	Match       func(Evidence) bool
}

// Decision is the selected rubric and the rule that selected it.
type Decision struct {
	Rubric Rubric `json:"rubric"`
	RuleID string `json:"rule_id"`
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

// DefaultRules returns the decision table. The first matching rule wins.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID: "R1", Name: "explicit-override", Rubric: D,
			Explanation: "a step carries explicit test data and a precondition is associated",
			Match:       func(e Evidence) bool { return e.ExplicitData && e.PreconditionProvided },
		},
		{
			ID: "R2", Name: "data-and-precondition-needed", Rubric: D,
			Explanation: "text signals call for both test data and a precondition",
			Match:       func(e Evidence) bool { return e.DataNeeded && e.PreconditionNeeded },
		},
		{
			ID: "R3", Name: "data-needed", Rubric: C,
			Explanation: "text signals call for test data",
			Match:       func(e Evidence) bool { return e.DataNeeded },
		},
		{
			ID: "R4", Name: "precondition-needed", Rubric: B,
			Explanation: "text signals call for a precondition",
			Match:       func(e Evidence) bool { return e.PreconditionNeeded },
		},
		{
			ID: "R5", Name: "baseline", Rubric: A,
			Explanation: "neither test data nor a precondition is called for",
			Match:       func(Evidence) bool { return true },
		},
	}
}

var defaultRules = DefaultRules()

// Classify runs the default decision table.
func Classify(e Evidence) Decision {
	return ClassifyWith(defaultRules, e)
}

// ClassifyWith runs rules in order and returns the first match. With no
// match the result is rubric A with an empty rule ID.
func ClassifyWith(rules []Rule, e Evidence) Decision {
	for _, r := range rules {
		if r.Match != nil && r.Match(e) {
			return Decision{Rubric: r.Rubric, RuleID: r.ID, Rule: r.Name, Reason: r.Explanation}
		}
	}
	return Decision{Rubric: A, Reason: "no rule matched"}
}
