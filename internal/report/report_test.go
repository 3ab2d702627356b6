package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"caseeval/internal/format"
	"caseeval/internal/record"
	"caseeval/internal/rubric"
	"caseeval/internal/scoring"
)

func sampleResults() []scoring.Result {
	e := scoring.Default()
	cases := []record.TestCase{
		{Key: "QA-1", Summary: "Verify home page opens on Android", Priority: "High",
			StepsRaw: `[{"Action": "Open the app", "Expected Result": "Home page is shown"}, {"Action": "Tap the menu", "Expected Result": "Menu is listed"}]`},
		{Key: "QA-2", Summary: "Verify database query returns balance for msisdn"},
		{Key: "QA-3"},
	}
	out := make([]scoring.Result, len(cases))
	for i, tc := range cases {
		out[i] = e.Evaluate(tc)
	}
	return out
}

func TestSummarize(t *testing.T) {
	results := sampleResults()
	got := Summarize(results)
	if got.Records != 3 {
		t.Errorf("Records = %d", got.Records)
	}
	if diff := cmp.Diff(map[rubric.Rubric]int{rubric.A: 2, rubric.C: 1}, got.ByRubric); diff != "" {
		t.Errorf("ByRubric (-want +got):\n%s", diff)
	}
	if got.MaxPercent != 100 || got.MinPercent != 0 {
		t.Errorf("min/max = %v/%v", got.MinPercent, got.MaxPercent)
	}
	want := (results[0].Percentage + results[1].Percentage + results[2].Percentage) / 3
	if got.MeanPercent != want {
		t.Errorf("mean = %v, want %v", got.MeanPercent, want)
	}
	if got.ByGrade["good"] != 1 || got.ByGrade["poor"] < 1 {
		t.Errorf("ByGrade = %v", got.ByGrade)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	if got.Records != 0 || got.MeanPercent != 0 || got.ByRubric == nil {
		t.Errorf("Summarize(nil) = %+v", got)
	}
}

func TestNew_RunID(t *testing.T) {
	a := New("cases.csv", "embedded", nil)
	b := New("cases.csv", "embedded", nil)
	if a.RunID == "" || a.RunID == b.RunID {
		t.Errorf("run IDs %q and %q should be distinct and non-empty", a.RunID, b.RunID)
	}
}

func TestWrite_Table(t *testing.T) {
	r := New("cases.csv", "embedded", sampleResults())
	var buf bytes.Buffer
	if err := Write(&buf, r, Options{Format: "table", Details: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"cases.csv  3 case(s)",
		"QA-1", "100/100", "100.0%",
		"Title clarity", "Rubric C (Test data)",
		"rule:          R3 data-needed",
		"signals: SQL, identifier field",
		"✓ pass",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWrite_Markdown(t *testing.T) {
	r := New("cases.csv", "rules.yaml", sampleResults())
	var buf bytes.Buffer
	if err := Write(&buf, r, Options{Format: "markdown"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "# Test case quality: cases.csv") || !strings.Contains(out, "| Key") {
		t.Errorf("unexpected markdown:\n%s", out)
	}
}

func TestWrite_CSV(t *testing.T) {
	r := New("cases.csv", "embedded", sampleResults())
	var buf bytes.Buffer
	if err := Write(&buf, r, Options{Format: "csv"}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d CSV lines, want header + 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Key,Rubric,Title clarity,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "QA-2,C,") || !strings.Contains(lines[1], ",-,") {
		t.Errorf("rows = %q / %q", lines[1], lines[2])
	}
}

func TestWrite_JSON(t *testing.T) {
	r := New("cases.csv", "embedded", sampleResults())
	var buf bytes.Buffer
	if err := Write(&buf, r, Options{Format: "json"}); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		RunID   string `json:"run_id"`
		Results []struct {
			Key    string         `json:"key"`
			Scores map[string]int `json:"scores"`
		} `json:"results"`
		Summary struct {
			ByRubric map[string]int `json:"by_rubric"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if decoded.RunID != r.RunID || len(decoded.Results) != 3 || decoded.Summary.ByRubric["C"] != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Results[0].Scores["title"] != 20 {
		t.Errorf("scores = %v", decoded.Results[0].Scores)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, New("x", "y", nil), Options{Format: "pdf"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestHeadline_Color(t *testing.T) {
	r := New("cases.csv", "embedded", sampleResults())
	plain := r.Headline(false)
	if !strings.Contains(plain, "good 1") {
		t.Errorf("headline = %q", plain)
	}
	if colored := r.Headline(true); !strings.Contains(colored, "cases.csv") {
		t.Errorf("colored headline = %q", colored)
	}
}

func TestExplain_FailedCriterionShowsQuestion(t *testing.T) {
	res := scoring.Default().Evaluate(record.TestCase{Key: "QA-9"})
	out := Explain(res)
	if !strings.HasPrefix(out, "QA-9  A (Basic)  0/100 0.0%") {
		t.Errorf("first line = %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "Öncelik bilgisi girilmiş mi?") {
		t.Errorf("missing checklist question for failed priority:\n%s", out)
	}
}

func TestTable_TruncatesLongKeys(t *testing.T) {
	long := strings.Repeat("K", 40)
	r := New("cases.csv", "embedded", []scoring.Result{scoring.Default().Evaluate(record.TestCase{Key: long})})
	if table := r.Table(format.ASCII); strings.Contains(table, long) || !strings.Contains(table, "KKK...") {
		t.Errorf("ASCII table should truncate the key:\n%s", table)
	}
	if csvOut := r.Table(format.CSV); !strings.Contains(csvOut, long) {
		t.Errorf("CSV should keep the full key:\n%s", csvOut)
	}
}
