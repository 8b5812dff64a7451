package sourcing

// MatchTier identifies which step of the fallback cascade produced a hit.
type MatchTier int

const (
	// TierNone means no tier matched.
	TierNone MatchTier = iota
	// TierExact compares normalized option text as-is.
	TierExact
	// TierReversed compares with the color/size halves swapped.
	TierReversed
	// TierLoose additionally strips unit suffixes and re-strips brackets.
	TierLoose
	// TierReversedLoose combines the swap with the loose transform.
	TierReversedLoose
)

// String returns a short name for the tier.
func (t MatchTier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierReversed:
		return "reversed"
	case TierLoose:
		return "loose"
	case TierReversedLoose:
		return "reversed-loose"
	default:
		return "none"
	}
}

// FindMatch searches the verification set for the record corresponding to a
// local (offerID, option) pair. Matching is always scoped by exact offerID
// equality first; option text is only compared within that scope, through
// four ordered tiers, stopping at the first hit. When a tier has several
// candidates under one offerID, the first in target iteration order wins:
// stable and deterministic, but not globally unique (duplicate groups are
// surfaced by CountAmbiguousGroups, not resolved here).
//
// A miss is an expected outcome, not an error: the result is nil.
func FindMatch(offerID, optionRaw string, targets []VerificationLine) *VerificationLine {
	line, _ := FindMatchTier(offerID, optionRaw, targets)
	return line
}

// FindMatchTier is FindMatch plus the tier that produced the hit.
func FindMatchTier(offerID, optionRaw string, targets []VerificationLine) (*VerificationLine, MatchTier) {
	if offerID == "" {
		return nil, TierNone
	}

	norm := NormalizeOption(optionRaw)
	queries := [4]string{
		optionKey(norm),
		optionKey(ReverseOption(norm)),
		NormalizeForMatching(optionKey(norm)),
		NormalizeForMatching(optionKey(ReverseOption(norm))),
	}

	for tier, q := range queries {
		for i := range targets {
			if targets[i].OfferID != offerID {
				continue
			}
			target := optionKey(NormalizeOption(targets[i].OptionRaw))
			if tier >= 2 {
				target = NormalizeForMatching(target)
			}
			if q == target {
				return &targets[i], MatchTier(tier + 1)
			}
		}
	}
	return nil, TierNone
}

// CountAmbiguousGroups reports how many (offerID, normalized option) groups
// in the verification set contain more than one entry. The cascade silently
// picks the first entry of such a group; the count lets the operator see
// that it happened.
func CountAmbiguousGroups(targets []VerificationLine) int {
	type groupKey struct {
		offerID string
		option  string
	}
	seen := make(map[groupKey]int, len(targets))
	for _, t := range targets {
		k := groupKey{t.OfferID, optionKey(NormalizeOption(t.OptionRaw))}
		seen[k]++
	}
	ambiguous := 0
	for _, n := range seen {
		if n > 1 {
			ambiguous++
		}
	}
	return ambiguous
}
