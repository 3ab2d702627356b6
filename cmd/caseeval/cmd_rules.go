package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rule set as YAML",
	Long: `Print the rule set in effect after --rules or $CASEEVAL_RULES has been
overlaid on the built-in rules. The output is a valid rule file.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func runRules(cmd *cobra.Command, _ []string) error {
	_, rules, source, err := loadEngine()
	if err != nil {
		return err
	}
	data, err := rules.Marshal()
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# source: %s\n", source)
	_, err = out.Write(data)
	return err
}
