package sourcing

import (
	"regexp"
	"strings"
)

// Order numbers are entered by hand as composites: the stable number plus a
// parcel suffix ("#1"), a claim suffix ("C2"), or pasted sheet context
// separated by "//". The extractors below recover the stable part and are
// the only join-key logic shared by the delivery joiner and the importers.

var trailingClaimRe = regexp.MustCompile(`C[0-9]*$`)

// ExtractOrderNumber canonicalizes a composite order-line identifier into
// the stable order number used for cross-system joins. Two independent
// rules produce candidates and the shorter (more specific) non-empty one
// wins:
//
//   - text before the first '#'
//   - text before a trailing claim suffix 'C' + optional digits
//
// If neither rule applies the trimmed input is returned unchanged. Total,
// never fails.
func ExtractOrderNumber(composite string) string {
	s := strings.TrimSpace(composite)
	if s == "" {
		return s
	}

	var candidates []string
	if i := strings.Index(s, "#"); i >= 0 {
		candidates = append(candidates, strings.TrimSpace(s[:i]))
	}
	if loc := trailingClaimRe.FindStringIndex(s); loc != nil {
		candidates = append(candidates, strings.TrimSpace(s[:loc[0]]))
	}

	best := ""
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if best == "" || len(c) < len(best) {
			best = c
		}
	}
	if best == "" {
		return s
	}
	return best
}

// ExtractSheetNumber returns the first "//"-separated segment of a pasted
// composite line, trimmed. Without the separator the whole trimmed string
// comes back.
func ExtractSheetNumber(composite string) string {
	s := strings.TrimSpace(composite)
	if i := strings.Index(s, "//"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// BaseOrderNumber truncates a composite identifier after its third
// hyphen-delimited segment ("BZ-250925-0039#1-A" -> "BZ-250925-0039#1").
// Logistics registries key their rows on this base form. Identifiers with
// three or fewer segments are returned trimmed.
func BaseOrderNumber(composite string) string {
	s := strings.TrimSpace(composite)
	segs := strings.Split(s, "-")
	if len(segs) <= 3 {
		return s
	}
	return strings.Join(segs[:3], "-")
}
