package steps

import (
	"regexp"
	"strings"

	"caseeval/internal/textnorm"
)

var (
	// A recognised label at the start of a line, optionally bulleted or
	// numbered: "Action:", "1. Expected Result:", "- Beklenen Sonuç:".
	labelLine = regexp.MustCompile(`(?im)^[ \t>*•\-]*(?:\d+[.)][ \t]*)?(action|test step|step|adım|adim|aksiyon|test data|data|veri|expected results?|expected|beklenen sonuç|beklenen sonuc|beklenen)[ \t]*[:：][ \t]*`)

	// "Step 1:", "Adım 2 -", "step 3)" at the start of a line.
	stepSeparator = regexp.MustCompile(`(?im)^[ \t*•\-]*(?:step|adım|adim)[ \t]*\d+[ \t]*[:.)\-]`)
)

// LabelParser scans line-oriented labelled blocks. A label's value runs to
// the next recognised label or the end of text. A new block starts at an
// action label once the current block has an expected result, or whenever
// a label repeats inside the current block. Unlabelled text ahead of the
// first label is taken as an action.
type LabelParser struct{}

func (LabelParser) Name() string { return "labels" }

func (LabelParser) Parse(raw string) []Block {
	text := plainLines(raw)
	locs := labelLine.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var (
		out  []Block
		cur  Block
		seen = map[Field]bool{}
	)
	if pre := strings.TrimSpace(text[:locs[0][0]]); pre != "" {
		cur.Action = pre
		seen[FieldAction] = true
	}
	flush := func() {
		if !cur.Empty() || len(seen) > 0 {
			out = append(out, cur)
		}
		cur = Block{}
		seen = map[Field]bool{}
	}

	for i, loc := range locs {
		f := FieldFor(text[loc[2]:loc[3]])
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		value := strings.TrimSpace(text[loc[1]:end])

		if seen[f] || (f == FieldAction && seen[FieldExpected]) {
			flush()
		}
		seen[f] = true
		switch f {
		case FieldAction:
			cur.Action = value
		case FieldData:
			cur.Data = value
		case FieldExpected:
			cur.Expected = value
		}
	}
	flush()
	return out
}

// SeparatorParser decorates a parser: when the text carries two or more
// "Step N:" separators it is re-split on them, since a label value never
// spans a separator. Each segment is parsed by Inner; a segment without
// labels becomes an action. Labelled text ahead of the first separator is
// kept. The re-split wins unless Inner alone found more blocks.
type SeparatorParser struct {
	Inner Parser
}

func (p SeparatorParser) Name() string { return p.Inner.Name() + "+separators" }

func (p SeparatorParser) Parse(raw string) []Block {
	blocks := p.Inner.Parse(raw)
	text := plainLines(raw)
	locs := stepSeparator.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return blocks
	}

	var out []Block
	if pre := strings.TrimSpace(text[:locs[0][0]]); pre != "" {
		out = append(out, p.Inner.Parse(pre)...)
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		seg := strings.TrimSpace(text[loc[1]:end])
		if seg == "" {
			continue
		}
		if sub := p.Inner.Parse(seg); len(sub) > 0 {
			out = append(out, sub...)
			continue
		}
		out = append(out, Block{Action: seg})
	}
	if len(out) >= len(blocks) {
		return out
	}
	return blocks
}

// plainLines strips markup and, for single-line content that carries
// literal "\n" escapes, turns those into real line breaks.
func plainLines(raw string) string {
	text := textnorm.StripMarkup(raw)
	if !strings.Contains(text, "\n") && strings.Contains(text, `\n`) {
		text = strings.ReplaceAll(text, `\n`, "\n")
	}
	return text
}
