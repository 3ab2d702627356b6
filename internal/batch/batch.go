// Package batch scores many records with a bounded worker pool and draws
// reproducible samples of records.
package batch

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"caseeval/internal/logging"
	"caseeval/internal/record"
	"caseeval/internal/scoring"
)

// ErrNotEnoughRecords is returned by Sample when fewer records exist than
// were requested.
var ErrNotEnoughRecords = errors.New("not enough records to sample")

// DefaultSeed is the sampling seed used when none is given.
const DefaultSeed = 42

// Evaluator scores one record. *scoring.Engine satisfies it.
type Evaluator interface {
	Evaluate(tc record.TestCase) scoring.Result
}

// Run evaluates records with at most parallel workers. Results keep the
// input order. Records without a key are reported as "row N", where N is
// the record's Row, or its position in records when Row is unset.
func Run(ctx context.Context, ev Evaluator, records []record.TestCase, parallel int) ([]scoring.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.New("batch")
	parallel = max(parallel, 1)
	start := time.Now()

	results := make([]scoring.Result, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, tc := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := ev.Evaluate(tc)
			row := tc.Row
			if row == 0 {
				row = i + 1
			}
			res.Key = tc.DisplayKey(row)
			results[i] = res
			logger.Debug("scored", "key", res.Key, "rubric", res.Rubric(), "total", res.Total, "max", res.Max)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score batch: %w", err)
	}
	logger.Info("batch scored", "records", len(records), "workers", parallel, "elapsed", time.Since(start))
	return results, nil
}

// Sample picks n records using a PCG source seeded with seed, so the
// same seed over the same input always yields the same sample. The
// picked records keep their input order. n <= 0 returns every record.
func Sample(records []record.TestCase, n int, seed uint64) ([]record.TestCase, error) {
	if n <= 0 {
		return append([]record.TestCase(nil), records...), nil
	}
	if len(records) < n {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrNotEnoughRecords, len(records), n)
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	idx := rng.Perm(len(records))[:n]
	sort.Ints(idx)

	out := make([]record.TestCase, n)
	for i, j := range idx {
		out[i] = records[j]
	}
	return out, nil
}
