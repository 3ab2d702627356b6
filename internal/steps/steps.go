// Package steps extracts ordered step blocks (action, data, expected
// result) from the raw step content of a test case.
//
// Raw content arrives in several shapes: a JSON array of step objects, the
// same array double-encoded by a spreadsheet export, or free text with
// "Action:"/"Expected Result:" style labels and optional "Step N:"
// separators. Extraction runs an ordered chain of parsers and keeps the
// first non-empty result. It never fails: unparseable content yields no
// blocks.
package steps

import (
	"strings"

	"caseeval/internal/textnorm"
)

// Block is one step of a test case. An empty field means absent.
type Block struct {
	Action   string `json:"action,omitempty"`
	Data     string `json:"data,omitempty"`
	Expected string `json:"expected,omitempty"`
}

// Empty reports whether no field is present.
func (b Block) Empty() bool {
	return b.Action == "" && b.Data == "" && b.Expected == ""
}

// Text joins the present fields with newlines.
func (b Block) Text() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{b.Action, b.Data, b.Expected} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// Field identifies a block field.
type Field int

const (
	FieldNone Field = iota
	FieldAction
	FieldData
	FieldExpected
)

func (f Field) String() string {
	switch f {
	case FieldAction:
		return "action"
	case FieldData:
		return "data"
	case FieldExpected:
		return "expected"
	default:
		return "none"
	}
}

// fieldAliases maps folded key/label names to fields.
var fieldAliases = map[string]Field{
	"action":           FieldAction,
	"step":             FieldAction,
	"test step":        FieldAction,
	"step action":      FieldAction,
	"adım":             FieldAction,
	"adim":             FieldAction,
	"aksiyon":          FieldAction,
	"işlem":            FieldAction,
	"islem":            FieldAction,
	"data":             FieldData,
	"test data":        FieldData,
	"testdata":         FieldData,
	"input":            FieldData,
	"veri":             FieldData,
	"test verisi":      FieldData,
	"expected result":  FieldExpected,
	"expected results": FieldExpected,
	"expectedresult":   FieldExpected,
	"expected":         FieldExpected,
	"result":           FieldExpected,
	"beklenen sonuç":   FieldExpected,
	"beklenen sonuc":   FieldExpected,
	"beklenen":         FieldExpected,
}

// FieldFor resolves a key or label name ("Expected Result", "expected_result",
// "Beklenen Sonuç") to a field.
func FieldFor(name string) Field {
	key := strings.NewReplacer("_", " ", "-", " ").Replace(textnorm.Fold(name))
	return fieldAliases[textnorm.Collapse(key)]
}

// Parser turns raw step content into blocks. A parser that does not
// recognise the content returns nil.
type Parser interface {
	Name() string
	Parse(raw string) []Block
}

// Extraction is the outcome of running a Chain.
type Extraction struct {
	Blocks []Block `json:"blocks"`
	Parser string  `json:"parser,omitempty"`
}

// Chain tries parsers in order and keeps the first result that still has
// blocks after meaningless values are cleared.
type Chain struct {
	Parsers []Parser
	Meaning textnorm.Meaning
}

// DefaultParsers returns strict JSON, unescaped JSON, then labelled text
// with step-separator re-splitting.
func DefaultParsers() []Parser {
	return []Parser{
		JSONParser{},
		UnescapeParser{Inner: JSONParser{}},
		SeparatorParser{Inner: LabelParser{}},
	}
}

// NewChain builds the default chain. markers are the null markers treated
// as absent values.
func NewChain(markers []string) *Chain {
	return &Chain{Parsers: DefaultParsers(), Meaning: textnorm.NewMeaning(markers)}
}

// Extract runs the chain over raw.
func (c *Chain) Extract(raw string) Extraction {
	if strings.TrimSpace(raw) == "" {
		return Extraction{}
	}
	for _, p := range c.Parsers {
		if blocks := c.tidy(p.Parse(raw)); len(blocks) > 0 {
			return Extraction{Blocks: blocks, Parser: p.Name()}
		}
	}
	return Extraction{}
}

func (c *Chain) tidy(blocks []Block) []Block {
	var out []Block
	for _, b := range blocks {
		b = Block{
			Action:   c.Meaning.Clean(b.Action),
			Data:     c.Meaning.Clean(b.Data),
			Expected: c.Meaning.Clean(b.Expected),
		}
		if !b.Empty() {
			out = append(out, b)
		}
	}
	return out
}
