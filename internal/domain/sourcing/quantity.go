package sourcing

// TotalQuantity sums the quantities of every order line sharing the query's
// offerID and option group. Two options belong to the same group when their
// normalized keys are equal as-is or with their halves swapped, the same
// lines the exact and reversed cascade tiers treat as one option. Zero and
// negative quantities are summed as-is; source data is not validated here.
func TotalQuantity(offerID, optionRaw string, lines []*OrderLine) int {
	if offerID == "" {
		return 0
	}
	key := optionKey(NormalizeOption(optionRaw))
	total := 0
	for _, l := range lines {
		if l.OfferID != offerID {
			continue
		}
		if sameOptionGroup(key, optionKey(NormalizeOption(l.Option()))) {
			total += l.Quantity
		}
	}
	return total
}

// VerifiedQuantity resolves the query against the verification set through
// the full cascade and returns the matched record's reported quantity, or 0
// when every tier misses.
func VerifiedQuantity(offerID, optionRaw string, targets []VerificationLine) int {
	match := FindMatch(offerID, optionRaw, targets)
	if match == nil {
		return 0
	}
	return match.Quantity
}

// sameOptionGroup reports whether two already-canonicalized option keys name
// the same option, ignoring half order.
func sameOptionGroup(a, b string) bool {
	return a == b || optionKey(ReverseOption(a)) == b
}
