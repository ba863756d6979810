package services

import "strings"

const (
	// firstPartRunes is the capacity of a single, unconcatenated SMS.
	firstPartRunes = 160
	// nextPartRunes is the capacity of each further part; carriers reserve
	// room for the concatenation header.
	nextPartRunes = 153
)

// Segment splits text into carrier-sized parts: at most 160 runes for the
// first part and 153 for every later one. Slicing is fixed-width with no
// word-boundary awareness. Blank input yields exactly one empty part so callers
// always have something to send and log; otherwise the parts concatenate back
// to the input.
func Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{""}
	}

	runes := []rune(text)
	parts := make([]string, 0, 1+len(runes)/nextPartRunes)
	limit := firstPartRunes
	for len(runes) > 0 {
		n := min(limit, len(runes))
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
		limit = nextPartRunes
	}
	return parts
}

// truncateRunes returns at most max runes of s.
func truncateRunes(s string, max int) string {
	if max < 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// clipWithEllipsis limits s to max runes, replacing the tail with "..." when
// it had to cut.
func clipWithEllipsis(s string, max int) string {
	const ellipsis = "..."
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	keep := max - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string(r[:keep]) + ellipsis
}
