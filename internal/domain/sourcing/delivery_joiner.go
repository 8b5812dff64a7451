package sourcing

// UnmatchedSampleSize bounds how many unmatched canonical keys a join
// report carries for diagnosis.
const UnmatchedSampleSize = 10

// JoinReport summarizes a delivery join. Unmatched lines are the expected,
// common case (a sheet is joined long before most parcels ship), so the
// report counts them and keeps a bounded sample of the keys instead of
// treating them as failures.
type JoinReport struct {
	Matched         int
	Unmatched       int
	UnmatchedSample []string
}

// JoinDeliveries enriches a copy of the order lines with logistics fields
// from the registry. The join is exact: the canonical order number of each
// line (via ExtractOrderNumber) must equal a record's canonical number,
// with no cascade and no fuzzy fallback at this layer. When the registry holds
// duplicate canonical numbers the first record wins. Lines without a
// registry hit pass through with delivery fields left empty.
func JoinDeliveries(lines []*OrderLine, records []DeliveryRecord) ([]*OrderLine, JoinReport) {
	byNumber := make(map[string]DeliveryRecord, len(records))
	for _, rec := range records {
		if rec.CanonicalOrderNumber == "" {
			continue
		}
		if _, dup := byNumber[rec.CanonicalOrderNumber]; !dup {
			byNumber[rec.CanonicalOrderNumber] = rec
		}
	}

	var report JoinReport
	joined := make([]*OrderLine, 0, len(lines))
	sampled := make(map[string]struct{}, UnmatchedSampleSize)

	for _, line := range lines {
		cp := *line
		canonical := ExtractOrderNumber(cp.OrderNumber)
		if rec, ok := byNumber[canonical]; ok && canonical != "" {
			cp.AttachDelivery(rec)
			report.Matched++
		} else {
			report.Unmatched++
			if canonical != "" && len(report.UnmatchedSample) < UnmatchedSampleSize {
				if _, seen := sampled[canonical]; !seen {
					sampled[canonical] = struct{}{}
					report.UnmatchedSample = append(report.UnmatchedSample, canonical)
				}
			}
		}
		joined = append(joined, &cp)
	}
	return joined, report
}
