package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"caseeval/internal/record"
	"caseeval/internal/scoring"
)

type countingEvaluator struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (c *countingEvaluator) Evaluate(tc record.TestCase) scoring.Result {
	n := c.inFlight.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	c.inFlight.Add(-1)
	return scoring.Result{Key: "ignored", Total: len(tc.Summary)}
}

func makeRecords(n int) []record.TestCase {
	out := make([]record.TestCase, n)
	for i := range out {
		out[i] = record.TestCase{Key: fmt.Sprintf("QA-%d", i+1), Summary: string(make([]byte, i))}
	}
	return out
}

func TestRun_PreservesOrderAndBoundsWorkers(t *testing.T) {
	records := makeRecords(20)
	records[3].Key = ""
	ev := &countingEvaluator{}

	results, err := Run(context.Background(), ev, records, 4)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(records) {
		t.Fatalf("got %d results, want %d", len(results), len(records))
	}
	for i, r := range results {
		if r.Total != i {
			t.Errorf("result %d has total %d; order not preserved", i, r.Total)
		}
	}
	if results[0].Key != "QA-1" || results[3].Key != "row 4" {
		t.Errorf("keys = %q, %q", results[0].Key, results[3].Key)
	}
	if p := ev.peak.Load(); p > 4 {
		t.Errorf("peak concurrency %d exceeds 4", p)
	}
}

func TestRun_ZeroParallelRunsSequentially(t *testing.T) {
	ev := &countingEvaluator{}
	if _, err := Run(context.Background(), ev, makeRecords(5), 0); err != nil {
		t.Fatal(err)
	}
	if p := ev.peak.Load(); p != 1 {
		t.Errorf("peak concurrency = %d, want 1", p)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, &countingEvaluator{}, makeRecords(3), 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRun_Empty(t *testing.T) {
	results, err := Run(context.Background(), &countingEvaluator{}, nil, 3)
	if err != nil || len(results) != 0 {
		t.Errorf("Run(nil) = %v, %v", results, err)
	}
}

func TestRun_KeylessRecordsKeepFileRow(t *testing.T) {
	records := []record.TestCase{
		{Key: "QA-1", Row: 1},
		{Row: 2},
		{Key: "QA-3", Row: 3},
		{Row: 4},
		{},
	}
	sampled := []record.TestCase{records[1], records[3], records[4]}
	results, err := Run(context.Background(), &countingEvaluator{}, sampled, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var keys []string
	for _, r := range results {
		keys = append(keys, r.Key)
	}
	if diff := cmp.Diff([]string{"row 2", "row 4", "row 3"}, keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestSample(t *testing.T) {
	records := makeRecords(12)

	a, err := Sample(records, 5, 42)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	b, _ := Sample(records, 5, 42)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed gave different samples (-a +b):\n%s", diff)
	}
	if len(a) != 5 {
		t.Fatalf("got %d records", len(a))
	}
	pos := map[string]int{}
	for i, r := range records {
		pos[r.Key] = i
	}
	seen := map[string]bool{}
	for i, r := range a {
		if seen[r.Key] {
			t.Errorf("duplicate %s", r.Key)
		}
		seen[r.Key] = true
		if i > 0 && pos[r.Key] <= pos[a[i-1].Key] {
			t.Errorf("sample not in input order: %s after %s", r.Key, a[i-1].Key)
		}
	}
}

func TestSample_AllAndTooFew(t *testing.T) {
	records := makeRecords(3)
	all, err := Sample(records, 0, 1)
	if err != nil || len(all) != 3 {
		t.Errorf("Sample(0) = %d records, %v", len(all), err)
	}
	if _, err := Sample(records, 5, 42); !errors.Is(err, ErrNotEnoughRecords) {
		t.Errorf("err = %v, want ErrNotEnoughRecords", err)
	}
	exact, err := Sample(records, 3, 7)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(records, exact); diff != "" {
		t.Errorf("sampling every record should keep input order (-want +got):\n%s", diff)
	}
}
