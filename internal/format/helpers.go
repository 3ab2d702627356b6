package format

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Percent formats a 0..100 value with one decimal: "87.5%".
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Ratio formats a score out of a maximum: "85/100".
func Ratio(score, limit int) string {
	return fmt.Sprintf("%d/%d", score, limit)
}

// Duration formats d as "Xm Ys", "Ys" or "Nms" below one second.
func Duration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	s := int(d.Seconds())
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}

// Truncate shortens s to at most n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 3 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-3]) + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
