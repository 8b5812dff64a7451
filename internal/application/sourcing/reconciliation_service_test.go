package sourcing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcingops/backend/internal/domain/shared"
	"github.com/sourcingops/backend/internal/domain/sourcing"
)

// In-memory repositories for service tests.

type memLineRepo struct {
	lines map[string][]*sourcing.OrderLine
}

func newMemLineRepo() *memLineRepo {
	return &memLineRepo{lines: make(map[string][]*sourcing.OrderLine)}
}

func (r *memLineRepo) FindByID(_ context.Context, id uuid.UUID) (*sourcing.OrderLine, error) {
	for _, sheet := range r.lines {
		for _, l := range sheet {
			if l.ID == id {
				return l, nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLineRepo) FindBySheet(_ context.Context, sheetID string) ([]*sourcing.OrderLine, error) {
	return r.lines[sheetID], nil
}

func (r *memLineRepo) Save(_ context.Context, line *sourcing.OrderLine) error {
	return nil
}

func (r *memLineRepo) SaveAll(_ context.Context, lines []*sourcing.OrderLine) error {
	for _, l := range lines {
		sheet := r.lines[l.SheetID]
		for i := range sheet {
			if sheet[i].ID == l.ID {
				sheet[i] = l
			}
		}
	}
	return nil
}

func (r *memLineRepo) ReplaceSheet(_ context.Context, sheetID string, lines []*sourcing.OrderLine) error {
	r.lines[sheetID] = lines
	return nil
}

func (r *memLineRepo) CountBySheet(_ context.Context, sheetID string) (int64, error) {
	return int64(len(r.lines[sheetID])), nil
}

type memSnapRepo struct {
	snapshots map[string]*sourcing.VerificationSnapshot
}

func newMemSnapRepo() *memSnapRepo {
	return &memSnapRepo{snapshots: make(map[string]*sourcing.VerificationSnapshot)}
}

func (r *memSnapRepo) FindBySheet(_ context.Context, sheetID string) (*sourcing.VerificationSnapshot, error) {
	if s, ok := r.snapshots[sheetID]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSnapRepo) Replace(_ context.Context, snapshot *sourcing.VerificationSnapshot) error {
	r.snapshots[snapshot.SheetID] = snapshot
	return nil
}

func seedSheet(t *testing.T, lineRepo *memLineRepo, snapRepo *memSnapRepo) []*sourcing.OrderLine {
	t.Helper()

	l1 := sourcing.NewOrderLine("s1", "A", "130cm", "粉色", 3)
	l2 := sourcing.NewOrderLine("s1", "A", "粉色", "130cm", 2)
	l3 := sourcing.NewOrderLine("s1", "B", "黑色", "XXL", 1)
	l4 := sourcing.NewOrderLine("s1", "", "未知", "", 1)
	l5 := sourcing.NewOrderLine("s1", "A", "紫色", "90cm", 1)
	l5.CancelMark = "买家取消"
	lines := []*sourcing.OrderLine{l1, l2, l3, l4, l5}
	require.NoError(t, lineRepo.ReplaceSheet(context.Background(), "s1", lines))

	require.NoError(t, snapRepo.Replace(context.Background(), &sourcing.VerificationSnapshot{
		SheetID: "s1",
		Lines: []sourcing.VerificationLine{
			{OfferID: "A", OptionRaw: "粉色;130cm", Quantity: 5, UnitPrice: decimal.NewFromFloat(19.9), ImageURL: "https://img/a.jpg"},
		},
	}))
	return lines
}

func TestReconciliationService_RunPass(t *testing.T) {
	lineRepo := newMemLineRepo()
	snapRepo := newMemSnapRepo()
	seedSheet(t, lineRepo, snapRepo)

	svc := NewReconciliationService(lineRepo, snapRepo)
	result, err := svc.RunPass(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 5, result.Report.TotalLines)
	assert.Equal(t, 2, result.Report.Matched)          // the reversed pair
	assert.Equal(t, 1, result.Report.IdentityMismatch) // offer B is absent
	assert.Equal(t, 1, result.Report.Unclassified)     // no offer link
	assert.Equal(t, 1, result.Report.Cancelled)
	assert.Equal(t, 0, result.Report.QuantityMismatch)
	assert.Equal(t, 0, result.Report.AmbiguousGroups)
	assert.Len(t, result.Assessments, 5)
}

func TestReconciliationService_RunPass_RederivesAfterEdit(t *testing.T) {
	lineRepo := newMemLineRepo()
	snapRepo := newMemSnapRepo()
	lines := seedSheet(t, lineRepo, snapRepo)

	svc := NewReconciliationService(lineRepo, snapRepo)

	first, err := svc.RunPass(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Report.Matched)

	// Edit a quantity; the next pass reflects it with no stale state.
	lines[0].Quantity = 4
	second, err := svc.RunPass(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Report.Matched)
	assert.Equal(t, 2, second.Report.QuantityMismatch)
}

type countingCache struct {
	snapshots map[string]*sourcing.VerificationSnapshot
	hits      int
	puts      int
}

func newCountingCache() *countingCache {
	return &countingCache{snapshots: make(map[string]*sourcing.VerificationSnapshot)}
}

func (c *countingCache) Get(_ context.Context, sheetID string) (*sourcing.VerificationSnapshot, bool) {
	s, ok := c.snapshots[sheetID]
	if ok {
		c.hits++
	}
	return s, ok
}

func (c *countingCache) Put(_ context.Context, snapshot *sourcing.VerificationSnapshot) {
	c.puts++
	c.snapshots[snapshot.SheetID] = snapshot
}

func (c *countingCache) Invalidate(_ context.Context, sheetID string) {
	delete(c.snapshots, sheetID)
}

func TestReconciliationService_RunPass_UsesSnapshotCache(t *testing.T) {
	lineRepo := newMemLineRepo()
	snapRepo := newMemSnapRepo()
	seedSheet(t, lineRepo, snapRepo)

	cache := newCountingCache()
	svc := NewReconciliationService(lineRepo, snapRepo, WithSnapshotCache(cache))

	_, err := svc.RunPass(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, cache.hits)
	assert.Equal(t, 1, cache.puts)

	// Second pass is served from the cache.
	_, err = svc.RunPass(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.puts)

	// Snapshot replacement invalidates; the repo is consulted again.
	cache.Invalidate(context.Background(), "s1")
	_, err = svc.RunPass(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.puts)
}

func TestReconciliationService_RunPass_SnapshotMissing(t *testing.T) {
	svc := NewReconciliationService(newMemLineRepo(), newMemSnapRepo())

	_, err := svc.RunPass(context.Background(), "nope")
	assert.ErrorIs(t, err, shared.ErrSnapshotMissing)
}

func TestReconciliationService_ApplyEnrichment(t *testing.T) {
	lineRepo := newMemLineRepo()
	snapRepo := newMemSnapRepo()
	lines := seedSheet(t, lineRepo, snapRepo)

	svc := NewReconciliationService(lineRepo, snapRepo)
	result, err := svc.ApplyEnrichment(context.Background(), "s1")
	require.NoError(t, err)

	// The two matched lines each get an image and a price update; every
	// change is reported explicitly.
	assert.Len(t, result.Changes, 4)
	assert.Equal(t, "https://img/a.jpg", lines[0].ImageURL)
	assert.True(t, lines[0].UnitCost.Equal(decimal.NewFromFloat(19.9)))

	// Second run is a no-op: prices equal, images filled.
	again, err := svc.ApplyEnrichment(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Changes)
}
