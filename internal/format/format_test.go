package format_test

import (
	"strings"
	"testing"
	"time"

	"caseeval/internal/format"
)

func TestASCII_Table(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Key", "Rubric", "Score")
	tb.Row("QA-1", "D", "84/98")
	tb.Row("QA-2", "A", "100/100")
	out := tb.String()

	for _, want := range []string{"Key", "QA-1", "84/98", "───"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in ASCII output:\n%s", want, out)
		}
	}
}

func TestMarkdown_TableWithFooter(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Rubric", "Cases")
	tb.Row("A", 3)
	tb.Row("D", 2)
	tb.Footer("TOTAL", 5)
	out := tb.String()

	for _, want := range []string{"| Rubric", "---", "TOTAL", "5"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in Markdown output:\n%s", want, out)
		}
	}
}

func TestCSV_Table(t *testing.T) {
	tb := format.NewTable(format.CSV)
	tb.Header("Key", "Summary")
	tb.Row("QA-1", "Login, then pay")
	tb.Columns(format.ColumnConfig{Number: 2, MaxWidth: 3})
	out := tb.String()

	if !strings.HasPrefix(out, "Key,Summary\n") {
		t.Errorf("unexpected CSV header:\n%s", out)
	}
	if !strings.Contains(out, `"Login, then pay"`) {
		t.Errorf("CSV value should be quoted and not truncated:\n%s", out)
	}
}

func TestModes_Differ(t *testing.T) {
	build := func(m format.Mode) string {
		tb := format.NewTable(m)
		tb.Header("A", "B")
		tb.Row("x", "y")
		return tb.String()
	}
	ascii, md, csv := build(format.ASCII), build(format.Markdown), build(format.CSV)
	if ascii == md || md == csv || ascii == csv {
		t.Error("each mode should render differently")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    format.Mode
		wantErr bool
	}{
		{"", format.ASCII, false},
		{"table", format.ASCII, false},
		{"MD", format.Markdown, false},
		{"markdown", format.Markdown, false},
		{"csv", format.CSV, false},
		{"html", format.ASCII, true},
	}
	for _, tt := range tests {
		got, err := format.ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
	if format.CSV.String() != "csv" || format.ASCII.String() != "table" {
		t.Error("Mode.String mismatch")
	}
}

func TestPercentAndRatio(t *testing.T) {
	if got := format.Percent(87.5); got != "87.5%" {
		t.Errorf("Percent = %q", got)
	}
	if got := format.Percent(100); got != "100.0%" {
		t.Errorf("Percent = %q", got)
	}
	if got := format.Ratio(84, 98); got != "84/98" {
		t.Errorf("Ratio = %q", got)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0ms"},
		{250 * time.Millisecond, "250ms"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
	}
	for _, tt := range tests {
		if got := format.Duration(tt.in); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abcdef", 3, "abc"},
		{"Giriş ekranı açılır", 8, "Giriş..."},
	}
	for _, tt := range tests {
		if got := format.Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestBoolMark(t *testing.T) {
	if format.BoolMark(true) != "✓" || format.BoolMark(false) != "✗" {
		t.Error("BoolMark mismatch")
	}
}
