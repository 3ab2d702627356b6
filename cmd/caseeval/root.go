package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"caseeval/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
	rules     string
}

var rootCmd = &cobra.Command{
	Use:   "caseeval",
	Short: "Score the quality of manual test cases",
	Long: `caseeval inspects test case exports (Jira/Xray CSV and similar), picks a
rubric per record from the evidence in its text and scores title, priority,
test data, precondition, steps, client and expected result.

Rules are read from --rules, then $CASEEVAL_RULES, then the built-in set.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat, cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&rootFlags.rules, "rules", "", "Rule file (YAML or JSON) overlaid on the built-in rules (default: $CASEEVAL_RULES)")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
