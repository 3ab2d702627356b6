package steps

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"caseeval/internal/textnorm"
)

// JSONParser reads a JSON array of step objects. Objects may carry their
// fields directly or under a "fields" key; a top-level object holding a
// "steps" array is unwrapped.
type JSONParser struct{}

func (JSONParser) Name() string { return "json" }

func (JSONParser) Parse(raw string) []Block {
	raw = strings.TrimSpace(raw)
	if raw == "" || (raw[0] != '[' && raw[0] != '{') {
		return nil
	}
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}
	return blocksFromJSON(doc, 0)
}

func blocksFromJSON(doc any, depth int) []Block {
	if depth > 3 {
		return nil
	}
	switch v := doc.(type) {
	case []any:
		var out []Block
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if b, ok := blockFromObject(obj); ok {
				out = append(out, b)
			}
		}
		return out
	case map[string]any:
		for _, k := range sortedKeys(v) {
			switch textnorm.Fold(strings.TrimSpace(k)) {
			case "steps", "teststeps", "test steps", "manual test steps":
				return blocksFromJSON(v[k], depth+1)
			}
		}
		if b, ok := blockFromObject(v); ok {
			return []Block{b}
		}
	}
	return nil
}

func blockFromObject(obj map[string]any) (Block, bool) {
	if fields, ok := obj["fields"].(map[string]any); ok {
		obj = fields
	}
	// Sorted keys keep the pick deterministic when aliases collide
	// ("Action" and "Step" in one object); the first non-empty value wins.
	var b Block
	found := false
	for _, k := range sortedKeys(obj) {
		f := FieldFor(k)
		if f == FieldNone {
			continue
		}
		found = true
		s := strings.TrimSpace(stringify(obj[k]))
		switch {
		case f == FieldAction && b.Action == "":
			b.Action = s
		case f == FieldData && b.Data == "":
			b.Data = s
		case f == FieldExpected && b.Expected == "":
			b.Expected = s
		}
	}
	return b, found
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// UnescapeParser undoes a layer of quoting added by exports that store
// JSON inside a quoted cell, then hands the result to Inner. Up to three
// layers are peeled.
type UnescapeParser struct {
	Inner Parser
}

func (p UnescapeParser) Name() string { return "unescaped-" + p.Inner.Name() }

func (p UnescapeParser) Parse(raw string) []Block {
	s := strings.TrimSpace(raw)
	for range 3 {
		u, ok := unescape(s)
		if !ok || u == s {
			return nil
		}
		if blocks := p.Inner.Parse(u); len(blocks) > 0 {
			return blocks
		}
		s = u
	}
	return nil
}

func unescape(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var out string
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return strings.TrimSpace(out), true
		}
		inner := s[1 : len(s)-1]
		return strings.TrimSpace(strings.ReplaceAll(inner, `""`, `"`)), true
	}
	if strings.Contains(s, `\"`) {
		return strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, "\n", `\t`, "\t").Replace(s), true
	}
	if strings.Contains(s, `""`) {
		return strings.ReplaceAll(s, `""`, `"`), true
	}
	return "", false
}
