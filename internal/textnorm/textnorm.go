// Package textnorm turns loosely formatted, possibly HTML-embedded and
// badly encoded free text into forms the scanners can match reliably.
package textnorm

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	// Tags that end a visual line.
	breakTag = regexp.MustCompile(`(?i)<\s*(br|hr|li|/li|/p|/div|/tr|/h[1-6])\b[^>]*>`)
	// Remaining known markup. Unknown <words> are kept because test data
	// uses them as placeholders (<msisdn>).
	markupTag = regexp.MustCompile(`(?i)</?\s*(p|div|span|b|i|u|s|em|strong|ul|ol|li|table|thead|tbody|tr|td|th|a|h[1-6]|pre|code|font|blockquote|sup|sub|img|br|hr)\b[^>]*>`)
)

// StripMarkup converts block-level tags to line breaks, removes other
// known tags, decodes HTML entities and unifies line endings. Invalid
// UTF-8 sequences are dropped.
func StripMarkup(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = breakTag.ReplaceAllString(s, "\n")
	s = markupTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return s
}

// Fold returns the NFC, lower-cased form of s. The combining dot left
// behind by lower-casing a Turkish dotted capital İ is removed so that
// "İptal" and "iptal" fold alike.
func Fold(s string) string {
	s = norm.NFC.String(strings.ToValidUTF8(s, ""))
	s = cases.Lower(language.Und).String(s)
	return strings.ReplaceAll(s, "\u0307", "")
}

// Collapse trims s and squeezes every whitespace run to one space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize is StripMarkup, Fold and Collapse in sequence.
func Normalize(s string) string {
	return Collapse(Fold(StripMarkup(s)))
}

// Words splits folded text into letter/digit runs.
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// WordText folds s and returns its words joined by single spaces, framed
// by a leading and trailing space, ready for HasTerm.
func WordText(s string) string {
	return " " + strings.Join(Words(Fold(s)), " ") + " "
}

// HasTerm reports whether a single- or multi-word term occurs in wordText
// on word boundaries.
func HasTerm(wordText, term string) bool {
	t := WordText(term)
	if t == "  " {
		return false
	}
	return strings.Contains(wordText, t)
}

// CountTerm counts non-overlapping word-boundary occurrences of term.
func CountTerm(wordText, term string) int {
	t := WordText(term)
	if t == "  " {
		return 0
	}
	// Adjacent matches share a framing space; count on the inner form.
	inner := strings.TrimSuffix(t, " ")
	n := 0
	for rest := wordText; ; {
		i := strings.Index(rest, inner)
		if i < 0 {
			return n
		}
		tail := rest[i+len(inner):]
		if strings.HasPrefix(tail, " ") {
			n++
		}
		rest = tail
	}
}

// RuneLen counts runes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Meaning decides whether a field value carries content.
type Meaning struct {
	markers map[string]struct{}
}

// NewMeaning builds a Meaning treating the given markers ("-", "n/a",
// "none", ...) as absent values.
func NewMeaning(markers []string) Meaning {
	m := Meaning{markers: make(map[string]struct{}, len(markers))}
	for _, mk := range markers {
		m.markers[Collapse(Fold(mk))] = struct{}{}
	}
	return m
}

// Clean returns s trimmed, or "" when s is blank, consists only of
// punctuation/symbols, or is a null marker.
func (m Meaning) Clean(s string) string {
	s = strings.TrimSpace(strings.ToValidUTF8(s, ""))
	if s == "" {
		return ""
	}
	if !hasContent(s) {
		return ""
	}
	folded := Collapse(Fold(s))
	if _, ok := m.markers[folded]; ok {
		return ""
	}
	bare := strings.TrimFunc(folded, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	})
	if _, ok := m.markers[bare]; ok {
		return ""
	}
	return s
}

// Meaningful reports whether Clean(s) is non-empty.
func (m Meaning) Meaningful(s string) bool {
	return m.Clean(s) != ""
}

func hasContent(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
