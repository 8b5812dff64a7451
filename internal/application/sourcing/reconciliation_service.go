package sourcing

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sourcingops/backend/internal/domain/shared"
	"github.com/sourcingops/backend/internal/domain/sourcing"
)

// ReconciliationService runs full reconciliation passes over a sheet. The
// pass is a pure re-derivation: it loads the current lines and the
// verification snapshot, classifies every line through the matching core
// and aggregates the report. It holds no state between calls, so the
// enclosing application can re-run it after every edit.
type ReconciliationService struct {
	lineRepo sourcing.OrderLineRepository
	snapRepo sourcing.VerificationSnapshotRepository
	cache    SnapshotCache
	tracer   trace.Tracer
}

// ReconciliationOption configures a ReconciliationService.
type ReconciliationOption func(*ReconciliationService)

// WithSnapshotCache makes passes consult the cache before the repository.
func WithSnapshotCache(cache SnapshotCache) ReconciliationOption {
	return func(s *ReconciliationService) {
		s.cache = cache
	}
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(lineRepo sourcing.OrderLineRepository, snapRepo sourcing.VerificationSnapshotRepository, opts ...ReconciliationOption) *ReconciliationService {
	s := &ReconciliationService{
		lineRepo: lineRepo,
		snapRepo: snapRepo,
		tracer:   otel.Tracer("application/sourcing"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loadSnapshot fetches the sheet's verification snapshot, serving from the
// cache when one is configured. A sheet without a snapshot maps to
// ErrSnapshotMissing.
func (s *ReconciliationService) loadSnapshot(ctx context.Context, sheetID string) (*sourcing.VerificationSnapshot, error) {
	if s.cache != nil {
		if snapshot, ok := s.cache.Get(ctx, sheetID); ok {
			return snapshot, nil
		}
	}

	snapshot, err := s.snapRepo.FindBySheet(ctx, sheetID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrSnapshotMissing
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.Put(ctx, snapshot)
	}
	return snapshot, nil
}

// RunPass classifies every line of the sheet against the current
// verification snapshot. A sheet without a snapshot is a domain error, not
// a crash: the operator simply has not uploaded the export yet.
func (s *ReconciliationService) RunPass(ctx context.Context, sheetID string) (*PassResult, error) {
	ctx, span := s.tracer.Start(ctx, "ReconciliationService.RunPass",
		trace.WithAttributes(attribute.String("sheet_id", sheetID)))
	defer span.End()

	lines, err := s.lineRepo.FindBySheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.loadSnapshot(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	result := &PassResult{
		Report: PassReport{
			SheetID:         sheetID,
			TotalLines:      len(lines),
			RanAt:           time.Now(),
			AmbiguousGroups: sourcing.CountAmbiguousGroups(snapshot.Lines),
		},
		Assessments: make([]sourcing.Assessment, 0, len(lines)),
	}

	for _, line := range lines {
		a := sourcing.Classify(line, lines, snapshot.Lines)
		result.Assessments = append(result.Assessments, a)

		switch a.Display {
		case sourcing.DisplayCancelled:
			result.Report.Cancelled++
		case sourcing.DisplayQuantityMismatch:
			result.Report.QuantityMismatch++
		case sourcing.DisplayIdentityMismatch:
			result.Report.IdentityMismatch++
		case sourcing.DisplayMatched:
			result.Report.Matched++
		default:
			result.Report.Unclassified++
		}
	}

	span.SetAttributes(
		attribute.Int("lines", len(lines)),
		attribute.Int("ambiguous_groups", result.Report.AmbiguousGroups),
	)
	return result, nil
}

// ApplyEnrichment copies the snapshot's auxiliary fields onto matched
// lines: an image URL fills an empty image cell, and a differing unit
// price replaces the local one. Every change is explicit and reported;
// nothing is overwritten silently. The shared cascade is the single source
// of truth for "is this line matched"; no ad-hoc re-matching here.
func (s *ReconciliationService) ApplyEnrichment(ctx context.Context, sheetID string) (*EnrichmentResult, error) {
	ctx, span := s.tracer.Start(ctx, "ReconciliationService.ApplyEnrichment",
		trace.WithAttributes(attribute.String("sheet_id", sheetID)))
	defer span.End()

	lines, err := s.lineRepo.FindBySheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.loadSnapshot(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	result := &EnrichmentResult{SheetID: sheetID}
	var dirty []*sourcing.OrderLine

	for _, line := range lines {
		match := sourcing.FindMatch(line.OfferID, line.Option(), snapshot.Lines)
		if match == nil {
			continue
		}

		changed := false
		if line.ImageURL == "" && match.ImageURL != "" {
			result.Changes = append(result.Changes, EnrichmentChange{
				LineID:   line.ID.String(),
				Field:    "image_url",
				NewValue: match.ImageURL,
			})
			line.ImageURL = match.ImageURL
			changed = true
		}
		if !match.UnitPrice.IsZero() && !line.UnitCost.Equal(match.UnitPrice) {
			result.Changes = append(result.Changes, EnrichmentChange{
				LineID:   line.ID.String(),
				Field:    "unit_cost",
				OldValue: line.UnitCost.String(),
				NewValue: match.UnitPrice.String(),
			})
			line.UnitCost = match.UnitPrice
			changed = true
		}
		if changed {
			dirty = append(dirty, line)
		}
	}

	if len(dirty) > 0 {
		if err := s.lineRepo.SaveAll(ctx, dirty); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int("changes", len(result.Changes)))
	return result, nil
}
