package sourcing

// QuantityStatus classifies a line's aggregated local quantity against the
// marketplace-reported quantity for its option group.
type QuantityStatus string

const (
	// QuantityMatched means local total equals the verified quantity.
	QuantityMatched QuantityStatus = "MATCHED"
	// QuantityInsufficient means more was recorded locally than verified,
	// a shortage signal on the marketplace side.
	QuantityInsufficient QuantityStatus = "INSUFFICIENT"
	// QuantityExcess means more was verified than recorded locally, a
	// surplus signal.
	QuantityExcess QuantityStatus = "EXCESS"
	// QuantityNotVerified means no tier matched, or the matched record
	// reports a zero quantity.
	QuantityNotVerified QuantityStatus = "NOT_VERIFIED"
)

// IdentityStatus classifies whether a line's option text could be tied to a
// verification record at all.
type IdentityStatus string

const (
	// IdentityMatched means some cascade tier matched the option text.
	IdentityMatched IdentityStatus = "MATCHED"
	// IdentityOfferOnly means the offerID exists in the verification set
	// but no tier matched the option text.
	IdentityOfferOnly IdentityStatus = "OFFER_ONLY"
	// IdentityNotMatched means no verification line shares the offerID.
	IdentityNotMatched IdentityStatus = "NOT_MATCHED"
)

// DisplayState is the single per-line state downstream consumers color and
// split on. Values are ordered by display priority, highest first.
type DisplayState string

const (
	DisplayCancelled        DisplayState = "CANCELLED"
	DisplayQuantityMismatch DisplayState = "QUANTITY_MISMATCH"
	DisplayIdentityMismatch DisplayState = "IDENTITY_MISMATCH"
	DisplayMatched          DisplayState = "MATCHED"
	DisplayUnclassified     DisplayState = "UNCLASSIFIED"
)

// Assessment is the full classification of one order line. It is a pure
// function of the current line set and verification set and carries no
// state of its own; callers re-derive it after every edit.
type Assessment struct {
	LineID string

	Quantity QuantityStatus
	Identity IdentityStatus
	Display  DisplayState

	// MatchedTier records which cascade tier resolved the line, TierNone
	// when unmatched.
	MatchedTier MatchTier

	// LocalQuantity is the aggregated quantity of the line's option group;
	// VerifiedQty is the marketplace-reported quantity for that group.
	LocalQuantity int
	VerifiedQty   int
}

// Classify assesses one line against the verification snapshot. allLines
// must contain every line of the sheet (including the one under
// assessment) so the group aggregation sees the full picture.
func Classify(line *OrderLine, allLines []*OrderLine, targets []VerificationLine) Assessment {
	a := Assessment{
		LineID:   line.ID.String(),
		Quantity: QuantityNotVerified,
		Identity: IdentityNotMatched,
	}

	if line.HasOfferLink() {
		option := line.Option()
		match, tier := FindMatchTier(line.OfferID, option, targets)
		a.MatchedTier = tier

		switch {
		case match != nil:
			a.Identity = IdentityMatched
		case offerIDPresent(line.OfferID, targets):
			a.Identity = IdentityOfferOnly
		default:
			a.Identity = IdentityNotMatched
		}

		a.LocalQuantity = TotalQuantity(line.OfferID, option, allLines)
		a.VerifiedQty = VerifiedQuantity(line.OfferID, option, targets)

		switch {
		case a.VerifiedQty == 0:
			a.Quantity = QuantityNotVerified
		case a.LocalQuantity == a.VerifiedQty:
			a.Quantity = QuantityMatched
		case a.LocalQuantity < a.VerifiedQty:
			a.Quantity = QuantityExcess
		default:
			a.Quantity = QuantityInsufficient
		}
	}

	a.Display = displayState(line, a)
	return a
}

// displayState folds the two classifications and the external cancel flag
// into one state. Priority, highest first: cancelled, quantity mismatch,
// identity mismatch, fully matched, unclassified.
func displayState(line *OrderLine, a Assessment) DisplayState {
	switch {
	case line.IsCancelled():
		return DisplayCancelled
	case !line.HasOfferLink():
		return DisplayUnclassified
	case a.Quantity == QuantityInsufficient || a.Quantity == QuantityExcess:
		return DisplayQuantityMismatch
	case a.Identity == IdentityOfferOnly || a.Identity == IdentityNotMatched:
		return DisplayIdentityMismatch
	case a.Quantity == QuantityMatched && a.Identity == IdentityMatched:
		return DisplayMatched
	default:
		return DisplayUnclassified
	}
}

func offerIDPresent(offerID string, targets []VerificationLine) bool {
	for i := range targets {
		if targets[i].OfferID == offerID {
			return true
		}
	}
	return false
}
