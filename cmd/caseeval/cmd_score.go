package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"caseeval/internal/batch"
	"caseeval/internal/caseio"
	"caseeval/internal/format"
	"caseeval/internal/logging"
	"caseeval/internal/report"
)

var scoreFlags struct {
	delimiter string
	sample    int
	seed      uint64
	parallel  int
	format    string
	output    string
	details   bool
}

var scoreCmd = &cobra.Command{
	Use:   "score FILE",
	Short: "Score every test case in a delimited export",
	Long: `Read a delimited test case export, score each record and print a report.

Usage:
  caseeval score export.csv                          # all records, ASCII table
  caseeval score export.csv --sample 5 --seed 42     # reproducible sample
  caseeval score export.csv --delimiter auto -f json -o report.json
  caseeval score export.csv --details                # include per-record trails

Required columns are the issue key, the summary and the steps blob; column
names are matched against the aliases in the rule set.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringVarP(&scoreFlags.delimiter, "delimiter", "d", ";", "Column delimiter: a single character, tab, or auto to sniff ; , and tab")
	f.IntVar(&scoreFlags.sample, "sample", 0, "Score a seeded random sample of N records (0 = all)")
	f.Uint64Var(&scoreFlags.seed, "seed", batch.DefaultSeed, "Sampling seed")
	f.IntVarP(&scoreFlags.parallel, "parallel", "p", 1, "Number of parallel workers")
	f.StringVarP(&scoreFlags.format, "format", "f", "table", "Output format: table, markdown, csv, json")
	f.StringVarP(&scoreFlags.output, "output", "o", "", "Write the report to this file instead of stdout")
	f.BoolVar(&scoreFlags.details, "details", false, "Append each record's classification and explanation trail")
}

func runScore(cmd *cobra.Command, args []string) error {
	logger := logging.New("cli")
	start := time.Now()
	engine, rules, source, err := loadEngine()
	if err != nil {
		return err
	}
	delim, err := caseio.ParseDelimiter(scoreFlags.delimiter)
	if err != nil {
		return err
	}

	path := args[0]
	file, err := caseio.ReadFile(path, caseio.Options{Delimiter: delim, Columns: rules.Columns})
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	logger.Info("export read", "path", path, "records", len(file.Records), "delimiter", string(file.Delimiter))

	records, err := batch.Sample(file.Records, scoreFlags.sample, scoreFlags.seed)
	if err != nil {
		return err
	}
	results, err := batch.Run(cmd.Context(), engine, records, scoreFlags.parallel)
	if err != nil {
		return err
	}

	rep := report.New(filepath.Base(path), source, results)
	if scoreFlags.sample > 0 {
		rep.Sampled = scoreFlags.sample
		rep.Seed = scoreFlags.seed
	}

	w, closeOut, err := openOutput(scoreFlags.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	opts := report.Options{
		Format:  scoreFlags.format,
		Details: scoreFlags.details,
		Color:   scoreFlags.output == "" && isTerminal(cmd.OutOrStdout()),
	}
	if err := report.Write(w, rep, opts); err != nil {
		closeOut()
		return fmt.Errorf("write report: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if scoreFlags.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s (%d records in %s, run %s)\n",
			scoreFlags.output, len(results), format.Duration(time.Since(start)), rep.RunID)
	}
	return nil
}
