package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcingops/backend/internal/domain/shared"
	"github.com/sourcingops/backend/internal/domain/sourcing"
)

func TestVerificationRepositoryReplaceAndFind(t *testing.T) {
	repo := NewGormVerificationRepository(setupTestDB(t))
	ctx := context.Background()

	loadedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	snapshot := &sourcing.VerificationSnapshot{
		SheetID: "S-1",
		Lines: []sourcing.VerificationLine{
			{OfferID: "A", OptionRaw: "粉色; 130cm", Quantity: 5, UnitPrice: decimal.RequireFromString("19.90")},
			{OfferID: "B", OptionRaw: "白色; 均码", Quantity: 2},
		},
		LoadedAt: loadedAt,
	}
	require.NoError(t, repo.Replace(ctx, snapshot))

	got, err := repo.FindBySheet(ctx, "S-1")
	require.NoError(t, err)
	assert.Equal(t, "S-1", got.SheetID)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "A", got.Lines[0].OfferID)
	assert.Equal(t, "粉色; 130cm", got.Lines[0].OptionRaw)
	assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("19.90")))
	assert.True(t, got.LoadedAt.Equal(loadedAt))
}

func TestVerificationRepositoryFindBySheetNotLoaded(t *testing.T) {
	repo := NewGormVerificationRepository(setupTestDB(t))

	_, err := repo.FindBySheet(context.Background(), "S-missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestVerificationRepositoryReplaceIsWholesale(t *testing.T) {
	repo := NewGormVerificationRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, &sourcing.VerificationSnapshot{
		SheetID: "S-1",
		Lines: []sourcing.VerificationLine{
			{OfferID: "A", OptionRaw: "粉色; 130cm", Quantity: 5},
			{OfferID: "B", OptionRaw: "白色; 均码", Quantity: 2},
		},
		LoadedAt: time.Now(),
	}))
	require.NoError(t, repo.Replace(ctx, &sourcing.VerificationSnapshot{
		SheetID: "S-1",
		Lines: []sourcing.VerificationLine{
			{OfferID: "C", OptionRaw: "黑色; XL", Quantity: 1},
		},
		LoadedAt: time.Now(),
	}))

	got, err := repo.FindBySheet(ctx, "S-1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "C", got.Lines[0].OfferID)
}

func TestDeliveryRepositoryReplaceAllAndFindAll(t *testing.T) {
	repo := NewGormDeliveryRepository(setupTestDB(t))
	ctx := context.Background()

	deliveredAt := time.Date(2026, 3, 8, 14, 30, 0, 0, time.UTC)
	records := []sourcing.DeliveryRecord{
		{CanonicalOrderNumber: "BZ-250925-0039", StatusCode: "DELIVERED", Carrier: "SF", TrackingNo: "SF123", DeliveredAt: &deliveredAt},
		{CanonicalOrderNumber: "HI-250918-0039", StatusCode: "IN_TRANSIT", Carrier: "YTO"},
	}
	require.NoError(t, repo.ReplaceAll(ctx, records))

	got, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "BZ-250925-0039", got[0].CanonicalOrderNumber)
	require.NotNil(t, got[0].DeliveredAt)
	assert.True(t, got[0].DeliveredAt.Equal(deliveredAt))
	assert.Nil(t, got[1].DeliveredAt)

	// Wholesale replace drops the previous registry
	require.NoError(t, repo.ReplaceAll(ctx, []sourcing.DeliveryRecord{
		{CanonicalOrderNumber: "XX-000000-0001", StatusCode: "DELIVERED"},
	}))
	got, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "XX-000000-0001", got[0].CanonicalOrderNumber)
}

func TestDeliveryRepositoryReplaceAllEmpty(t *testing.T) {
	repo := NewGormDeliveryRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []sourcing.DeliveryRecord{
		{CanonicalOrderNumber: "BZ-250925-0039"},
	}))
	require.NoError(t, repo.ReplaceAll(ctx, nil))

	got, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
