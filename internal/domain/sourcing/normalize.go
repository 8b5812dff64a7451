package sourcing

import (
	"regexp"
	"strconv"
	"strings"
)

// Option text arrives from at least three hands: the person pasting order
// lines, the marketplace export, and the logistics sheet. The normalizer
// collapses the vocabulary differences that are known to be pure notation
// (weight annotations, FREE vs 均码, 2XL vs XXL) while leaving everything
// else untouched. All transforms are total and idempotent.

var (
	// Bracketed qualifier segments are weight/fit annotations, not size
	// identity: 均码【85-120斤】 and 均码 are the same size.
	bracketRe = regexp.MustCompile(`【[^】]*】|\[[^\]]*\]|（[^）]*）|\([^)]*\)`)

	// FREE (any case) is the marketplace spelling of 均码.
	freeSizeRe = regexp.MustCompile(`(?i)\bfree\b`)

	// 2XL/3XL style sizes; the digit is the repeat count of X.
	numericXLRe = regexp.MustCompile(`(?i)\b([2-9])xl\b`)

	optionSplitRe = regexp.MustCompile(`[;；]`)
)

// NormalizeOption canonicalizes a free-text option/size description into a
// comparable key. Each rule is a no-op when its pattern is absent; unmatched
// input passes through trimmed but otherwise unchanged.
func NormalizeOption(raw string) string {
	s := bracketRe.ReplaceAllString(raw, "")
	s = freeSizeRe.ReplaceAllString(s, "均码")
	s = numericXLRe.ReplaceAllStringFunc(s, func(tok string) string {
		n, err := strconv.Atoi(tok[:1])
		if err != nil {
			return tok
		}
		return strings.Repeat("X", n) + "L"
	})
	return strings.TrimSpace(s)
}

// NormalizeForMatching is the stricter transform layered on top of
// NormalizeOption for the loose cascade tiers: it strips a trailing unit
// suffix (cm or 码) and re-applies the bracket rule. Idempotent.
func NormalizeForMatching(raw string) string {
	s := strings.TrimSpace(bracketRe.ReplaceAllString(raw, ""))
	switch {
	case strings.HasSuffix(s, "cm"), strings.HasSuffix(s, "CM"):
		s = strings.TrimSpace(s[:len(s)-2])
	case strings.HasSuffix(s, "码"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "码"))
	}
	return strings.TrimSpace(bracketRe.ReplaceAllString(s, ""))
}

// ReverseOption swaps the two semicolon-delimited halves of an option string
// ("130cm; 粉色" -> "粉色; 130cm"). Color/size order is not standardized
// between data entry and the marketplace export, so the cascade tries both.
// Strings that do not split into exactly two non-empty parts are returned
// unchanged.
func ReverseOption(raw string) string {
	parts := splitOptionParts(raw)
	if len(parts) != 2 {
		return raw
	}
	return parts[1] + "; " + parts[0]
}

// optionKey renders an option string with a canonical "; " separator so
// that "粉色;130cm" and "粉色; 130cm" compare equal. Used for every tier
// comparison and for quantity grouping.
func optionKey(raw string) string {
	parts := splitOptionParts(raw)
	if len(parts) == 0 {
		return strings.TrimSpace(raw)
	}
	return strings.Join(parts, "; ")
}

// splitOptionParts splits on ASCII or full-width semicolons and drops
// empty segments.
func splitOptionParts(raw string) []string {
	segs := optionSplitRe.Split(raw, -1)
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		if t := strings.TrimSpace(seg); t != "" {
			parts = append(parts, t)
		}
	}
	return parts
}
