package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"caseeval/internal/record"
	"caseeval/internal/report"
)

var explainFlags struct {
	file          string
	key           string
	summary       string
	priority      string
	labels        string
	steps         string
	precondition1 string
	precondition2 string
	json          bool
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Score one test case and show how the score was reached",
	Long: `Score a single test case given by flags or a JSON file and print the
selected rubric, the rule and signals behind it and the per-criterion trail.

Usage:
  caseeval explain --summary "Login on iOS" --steps "Action: open app"
  caseeval explain -f case.json      # {"key": ..., "summary": ..., "steps": ...}
  cat case.json | caseeval explain -f -

Flags given alongside -f override the fields read from the file.`,
	Args: cobra.NoArgs,
	RunE: runExplain,
}

func init() {
	f := explainCmd.Flags()
	f.StringVarP(&explainFlags.file, "file", "f", "", "Read the test case from a JSON file (- for stdin)")
	f.StringVar(&explainFlags.key, "key", "", "Issue key")
	f.StringVar(&explainFlags.summary, "summary", "", "Test case title")
	f.StringVar(&explainFlags.priority, "priority", "", "Priority")
	f.StringVar(&explainFlags.labels, "labels", "", "Labels")
	f.StringVar(&explainFlags.steps, "steps", "", "Raw step content (JSON or labelled text)")
	f.StringVar(&explainFlags.precondition1, "precondition-1", "", "First precondition association")
	f.StringVar(&explainFlags.precondition2, "precondition-2", "", "Second precondition association")
	f.BoolVar(&explainFlags.json, "json", false, "Print the full result as JSON")
}

func runExplain(cmd *cobra.Command, _ []string) error {
	engine, _, _, err := loadEngine()
	if err != nil {
		return err
	}
	tc, err := explainCase(cmd)
	if err != nil {
		return err
	}

	res := engine.Evaluate(tc)
	res.Key = tc.DisplayKey(1)
	out := cmd.OutOrStdout()
	if explainFlags.json {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintf(out, "%s\n", data)
		return nil
	}
	fmt.Fprint(out, report.Explain(res))
	return nil
}

// explainCase reads the -f file, if any, then applies the field flags
// that were set.
func explainCase(cmd *cobra.Command) (record.TestCase, error) {
	var tc record.TestCase
	if explainFlags.file != "" {
		var (
			data []byte
			err  error
		)
		if explainFlags.file == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(explainFlags.file)
		}
		if err != nil {
			return tc, fmt.Errorf("read test case: %w", err)
		}
		if err := json.Unmarshal(data, &tc); err != nil {
			return tc, fmt.Errorf("parse test case %s: %w", explainFlags.file, err)
		}
	}

	fields := []struct {
		flag string
		dst  *string
		val  string
	}{
		{"key", &tc.Key, explainFlags.key},
		{"summary", &tc.Summary, explainFlags.summary},
		{"priority", &tc.Priority, explainFlags.priority},
		{"labels", &tc.Labels, explainFlags.labels},
		{"steps", &tc.StepsRaw, explainFlags.steps},
		{"precondition-1", &tc.PreconditionAssoc1, explainFlags.precondition1},
		{"precondition-2", &tc.PreconditionAssoc2, explainFlags.precondition2},
	}
	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			*f.dst = f.val
		}
	}
	return tc, nil
}
