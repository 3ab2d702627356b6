// Package caseio reads delimited test case exports (Jira/Xray CSV and
// similar) into records.
package caseio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"caseeval/internal/config"
	"caseeval/internal/record"
)

var (
	ErrEmpty         = errors.New("input has no header row")
	ErrMissingColumn = errors.New("missing required column")
	ErrTooFewColumns = errors.New("too few columns")
	ErrDelimiter     = errors.New("cannot detect delimiter")
)

// Candidate delimiters in sniffing preference order.
var delimiters = []rune{';', ',', '\t'}

// Options control reading. A zero Delimiter means sniff it from the
// header line.
type Options struct {
	Delimiter rune
	Columns   config.Columns
}

// File is a parsed export.
type File struct {
	Delimiter rune
	Header    []string
	Records   []record.TestCase
}

// ReadFile opens path and reads it with opts.
func ReadFile(path string, opts Options) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}
	return ReadBytes(data, opts)
}

// Read reads all of r with opts.
func Read(r io.Reader, opts Options) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}
	return ReadBytes(data, opts)
}

// ReadBytes parses a whole export. Structural problems (no header, a
// required column missing, a header with fewer than two columns, a
// malformed row) fail the whole read.
func ReadBytes(data []byte, opts Options) (*File, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	delim := opts.Delimiter
	if delim == 0 {
		d, err := Sniff(data)
		if err != nil {
			return nil, err
		}
		delim = d
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: header has %d column(s) with delimiter %q; check the delimiter",
			ErrTooFewColumns, len(header), delim)
	}
	cols, err := mapColumns(header, opts.Columns)
	if err != nil {
		return nil, err
	}

	f := &File{Delimiter: delim, Header: header}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if blankRow(row) {
			continue
		}
		tc := cols.record(row)
		tc.Row = len(f.Records) + 1
		f.Records = append(f.Records, tc)
	}
	return f, nil
}

// ParseDelimiter reads a delimiter flag value. "auto" or "" means sniff
// (returned as 0). "tab" names a tab, as does an escaped or literal \t.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\n' || r[0] == '\r' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}

// Sniff picks the candidate delimiter that occurs most often outside
// quotes on the header line.
func Sniff(data []byte) (rune, error) {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	counts := make(map[rune]int, len(delimiters))
	inQuotes := false
	for _, r := range string(line) {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}
	best, n := rune(0), 0
	for _, d := range delimiters {
		if counts[d] > n {
			best, n = d, counts[d]
		}
	}
	if n == 0 {
		return 0, ErrDelimiter
	}
	return best, nil
}

// columns holds header positions; -1 means absent.
type columns struct {
	key, summary, priority, steps int
	labels                        []int
	precondition                  []int
}

func mapColumns(header []string, c config.Columns) (*columns, error) {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = normalizeHeader(h)
	}
	cols := &columns{
		key:          first(norm, c.Key),
		summary:      first(norm, c.Summary),
		priority:     first(norm, c.Priority),
		steps:        first(norm, c.Steps),
		labels:       all(norm, c.Labels),
		precondition: all(norm, c.Precondition),
	}
	var missing []string
	for _, req := range []struct {
		name    string
		idx     int
		aliases []string
	}{
		{"key", cols.key, c.Key},
		{"summary", cols.summary, c.Summary},
		{"steps", cols.steps, c.Steps},
	} {
		if req.idx < 0 {
			missing = append(missing, fmt.Sprintf("%s (one of %q)", req.name, req.aliases))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// first returns the position of the earliest alias found, trying aliases
// in order.
func first(header, aliases []string) int {
	for _, a := range aliases {
		a = normalizeHeader(a)
		for i, h := range header {
			if h == a {
				return i
			}
		}
	}
	return -1
}

// all returns every position whose header matches any alias, in header
// order. Exports repeat multi-value fields ("Labels", "Labels", ...).
func all(header, aliases []string) []int {
	want := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		want[normalizeHeader(a)] = true
	}
	var out []int
	for i, h := range header {
		if want[h] {
			out = append(out, i)
		}
	}
	return out
}

func (c *columns) record(row []string) record.TestCase {
	tc := record.TestCase{
		Key:      cell(row, c.key),
		Summary:  cell(row, c.summary),
		Priority: cell(row, c.priority),
		StepsRaw: cell(row, c.steps),
	}
	var labels []string
	for _, i := range c.labels {
		if v := cell(row, i); v != "" {
			labels = append(labels, v)
		}
	}
	tc.Labels = strings.Join(labels, " ")
	if len(c.precondition) > 0 {
		tc.PreconditionAssoc1 = cell(row, c.precondition[0])
	}
	if len(c.precondition) > 1 {
		tc.PreconditionAssoc2 = cell(row, c.precondition[1])
	}
	return tc
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
