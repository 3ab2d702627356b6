package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"caseeval/internal/display"
	"caseeval/internal/format"
	"caseeval/internal/rubric"
	"caseeval/internal/scoring"
)

// Options control Write.
type Options struct {
	// Format is table, markdown, csv or json.
	Format string
	// Details appends every record's explanation trail.
	Details bool
	// Color styles the headline; only meaningful on a terminal.
	Color bool
}

// Write renders r to w.
func Write(w io.Writer, r *Report, opts Options) error {
	if strings.EqualFold(opts.Format, "json") {
		data, err := r.JSON()
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	mode, err := format.ParseMode(opts.Format)
	if err != nil {
		return err
	}
	if mode == format.CSV {
		_, err = fmt.Fprintln(w, r.Table(mode))
		return err
	}

	var b strings.Builder
	if mode == format.Markdown {
		fmt.Fprintf(&b, "# Test case quality: %s\n\n", r.Source)
		fmt.Fprintf(&b, "Run `%s`, rules: %s, generated %s\n\n", r.RunID, r.Rules, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	} else {
		b.WriteString(r.Headline(opts.Color))
		b.WriteString("\n\n")
	}
	b.WriteString(r.Table(mode))
	b.WriteString("\n\n")
	b.WriteString(r.SummaryTable(mode))
	b.WriteString("\n")
	if opts.Details {
		b.WriteString("\n")
		b.WriteString(r.Details())
	}
	_, err = io.WriteString(w, b.String())
	return err
}

const keyWidth = 24

// Table renders one row per result with every criterion score. A "-"
// marks a criterion the record's rubric does not score.
func (r *Report) Table(mode format.Mode) string {
	tb := format.NewTable(mode)
	header := []string{"Key", "Rubric"}
	for _, c := range rubric.Order {
		header = append(header, display.Criterion(string(c)))
	}
	header = append(header, "Total", "Percent", "Grade")
	tb.Header(header...)

	for _, res := range r.Results {
		key := res.Key
		if mode != format.CSV {
			key = format.Truncate(key, keyWidth)
		}
		row := []any{key, string(res.Rubric())}
		for _, c := range rubric.Order {
			if s, ok := res.Score(c); ok {
				row = append(row, s)
			} else {
				row = append(row, "-")
			}
		}
		row = append(row, format.Ratio(res.Total, res.Max), format.Percent(res.Percentage), res.Grade)
		tb.Row(row...)
	}
	var cfgs []format.ColumnConfig
	for i := range rubric.Order {
		cfgs = append(cfgs, format.ColumnConfig{Number: i + 3, Align: format.AlignRight})
	}
	tb.Columns(cfgs...)
	return tb.String()
}

// SummaryTable renders the batch statistics.
func (r *Report) SummaryTable(mode format.Mode) string {
	s := r.Summary
	tb := format.NewTable(mode)
	tb.Header("Metric", "Value")
	tb.Row("Records", s.Records)
	for _, t := range rubric.All() {
		tb.Row("Rubric "+display.Rubric(string(t.Rubric)), s.ByRubric[t.Rubric])
	}
	for _, g := range sortedKeys(s.ByGrade) {
		tb.Row("Grade "+display.Grade(g), s.ByGrade[g])
	}
	tb.Row("Mean", format.Percent(s.MeanPercent))
	tb.Row("Min", format.Percent(s.MinPercent))
	tb.Row("Max", format.Percent(s.MaxPercent))
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	return tb.String()
}

// Details renders each record's classification and explanation trail.
func (r *Report) Details() string {
	var b strings.Builder
	for i, res := range r.Results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Explain(res))
	}
	return b.String()
}

// Explain renders one result for humans.
func Explain(res scoring.Result) string {
	var b strings.Builder
	cls := res.Classification
	fmt.Fprintf(&b, "%s  %s  %s %s %s\n", res.Key, display.Rubric(string(cls.Rubric)),
		format.Ratio(res.Total, res.Max), format.Percent(res.Percentage), display.Grade(res.Grade))
	fmt.Fprintf(&b, "  rule:          %s %s: %s\n", cls.RuleID, cls.Rule, cls.Reason)
	fmt.Fprintf(&b, "  data need:     %s (signals: %s, explicit data: %s)\n",
		format.BoolMark(cls.DataNeed.Needed), display.List(cls.DataNeed.Signals.Labels()), format.BoolMark(cls.Evidence.ExplicitData))
	fmt.Fprintf(&b, "  precondition:  %s (signals: %s, provided: %s)\n",
		format.BoolMark(cls.PreconditionNeed.Needed), display.List(cls.PreconditionNeed.Signals.Labels()), format.BoolMark(cls.Evidence.PreconditionProvided))
	parser := res.Steps.Parser
	if parser == "" {
		parser = "none"
	}
	fmt.Fprintf(&b, "  steps:         %d block(s), %d action(s), parser %s\n", res.Steps.Blocks, res.Steps.Actions, parser)
	for _, n := range res.Trail {
		fmt.Fprintf(&b, "  %-10s %-16s %5s  %s\n", display.Verdict(string(n.Verdict)),
			display.Criterion(string(n.Criterion)), format.Ratio(n.Score, n.Max), n.Reason)
		if n.Verdict == scoring.Fail {
			fmt.Fprintf(&b, "  %-10s %s\n", "", display.Question(string(n.Criterion)))
		}
	}
	return b.String()
}

var headStyle = lipgloss.NewStyle().Bold(true)

var gradeStyles = map[string]lipgloss.Style{
	"good": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"fair": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	"poor": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

// Headline is a one-line batch summary, coloured by grade when color is
// set.
func (r *Report) Headline(color bool) string {
	s := r.Summary
	parts := []string{fmt.Sprintf("%d case(s), mean %s", s.Records, format.Percent(s.MeanPercent))}
	for _, g := range sortedKeys(s.ByGrade) {
		part := fmt.Sprintf("%s %d", g, s.ByGrade[g])
		if st, ok := gradeStyles[g]; ok && color {
			part = st.Render(part)
		}
		parts = append(parts, part)
	}
	line := strings.Join(parts, " · ")
	if color {
		return headStyle.Render(r.Source) + "  " + line
	}
	return r.Source + "  " + line
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
