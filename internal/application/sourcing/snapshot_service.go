package sourcing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sourcingops/backend/internal/domain/sourcing"
)

// SnapshotCache caches parsed verification snapshots per sheet so repeated
// passes over an unchanged upload skip the database. Implementations are
// explicit objects owned by the caller, with TTL eviction; there is no
// process-wide singleton.
type SnapshotCache interface {
	Get(ctx context.Context, sheetID string) (*sourcing.VerificationSnapshot, bool)
	Put(ctx context.Context, snapshot *sourcing.VerificationSnapshot)
	Invalidate(ctx context.Context, sheetID string)
}

// SnapshotService loads and replaces the two external datasets: the
// marketplace verification export (per sheet) and the logistics delivery
// registry (global). Both are bulk snapshot swaps; there is no incremental
// update path.
type SnapshotService struct {
	snapRepo     sourcing.VerificationSnapshotRepository
	deliveryRepo sourcing.DeliveryRecordRepository
	lineRepo     sourcing.OrderLineRepository
	cache        SnapshotCache
	logger       *zap.Logger
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	snapRepo sourcing.VerificationSnapshotRepository,
	deliveryRepo sourcing.DeliveryRecordRepository,
	lineRepo sourcing.OrderLineRepository,
	cache SnapshotCache,
	logger *zap.Logger,
) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{
		snapRepo:     snapRepo,
		deliveryRepo: deliveryRepo,
		lineRepo:     lineRepo,
		cache:        cache,
		logger:       logger,
	}
}

// ReplaceVerification swaps the sheet's verification snapshot wholesale
// and invalidates the cached copy.
func (s *SnapshotService) ReplaceVerification(ctx context.Context, sheetID string, rows []VerificationRow) (*sourcing.VerificationSnapshot, error) {
	snapshot := &sourcing.VerificationSnapshot{
		SheetID:  sheetID,
		Lines:    make([]sourcing.VerificationLine, 0, len(rows)),
		LoadedAt: time.Now(),
	}
	for _, row := range rows {
		snapshot.Lines = append(snapshot.Lines, sourcing.VerificationLine{
			OfferID:   row.OfferID,
			OptionRaw: row.OptionRaw,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
			ImageURL:  row.ImageURL,
		})
	}

	if err := s.snapRepo.Replace(ctx, snapshot); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, sheetID)
		s.cache.Put(ctx, snapshot)
	}

	s.logger.Info("verification snapshot replaced",
		zap.String("sheet_id", sheetID),
		zap.Int("lines", len(snapshot.Lines)),
		zap.Int("ambiguous_groups", sourcing.CountAmbiguousGroups(snapshot.Lines)))
	return snapshot, nil
}

// GetVerification returns the sheet's snapshot, from cache when fresh.
func (s *SnapshotService) GetVerification(ctx context.Context, sheetID string) (*sourcing.VerificationSnapshot, error) {
	if s.cache != nil {
		if snapshot, ok := s.cache.Get(ctx, sheetID); ok {
			return snapshot, nil
		}
	}
	snapshot, err := s.snapRepo.FindBySheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Put(ctx, snapshot)
	}
	return snapshot, nil
}

// ReplaceDeliveryRegistry swaps the logistics registry wholesale. Rows
// without a pre-extracted canonical number get one derived from the raw
// composite identifier.
func (s *SnapshotService) ReplaceDeliveryRegistry(ctx context.Context, rows []DeliveryRow) (int, error) {
	records := make([]sourcing.DeliveryRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, sourcing.DeliveryRecord{
			CanonicalOrderNumber: sourcing.ExtractOrderNumber(row.RawOrderNumber),
			StatusCode:           row.StatusCode,
			Carrier:              row.Carrier,
			TrackingNo:           row.TrackingNo,
			DeliveredAt:          row.DeliveredAt,
		})
	}

	if err := s.deliveryRepo.ReplaceAll(ctx, records); err != nil {
		return 0, err
	}
	s.logger.Info("delivery registry replaced", zap.Int("records", len(records)))
	return len(records), nil
}

// JoinDeliveries runs the exact-key delivery join over a sheet, persists
// the enriched lines and returns the join report. Unmatched lines are the
// common case and are only counted, never treated as failures.
func (s *SnapshotService) JoinDeliveries(ctx context.Context, sheetID string) (sourcing.JoinReport, error) {
	lines, err := s.lineRepo.FindBySheet(ctx, sheetID)
	if err != nil {
		return sourcing.JoinReport{}, err
	}
	records, err := s.deliveryRepo.FindAll(ctx)
	if err != nil {
		return sourcing.JoinReport{}, err
	}

	joined, report := sourcing.JoinDeliveries(lines, records)
	if err := s.lineRepo.SaveAll(ctx, joined); err != nil {
		return sourcing.JoinReport{}, err
	}

	s.logger.Info("delivery join finished",
		zap.String("sheet_id", sheetID),
		zap.Int("matched", report.Matched),
		zap.Int("unmatched", report.Unmatched),
		zap.Strings("unmatched_sample", report.UnmatchedSample))
	return report, nil
}
