package sourcing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveredAt() *time.Time {
	ts := time.Date(2025, 9, 26, 14, 0, 0, 0, time.UTC)
	return &ts
}

func TestJoinDeliveries_ExactKeyOnly(t *testing.T) {
	lineHit := NewOrderLine("s1", "A", "粉色", "130cm", 1)
	lineHit.OrderNumber = "BZ-250925-0039#1"
	lineMiss := NewOrderLine("s1", "B", "红色", "M", 1)
	lineMiss.OrderNumber = "HI-250918-0044"

	records := []DeliveryRecord{
		{
			CanonicalOrderNumber: "BZ-250925-0039",
			StatusCode:           "DELIVERED",
			Carrier:              "SF",
			TrackingNo:           "SF123",
			DeliveredAt:          deliveredAt(),
		},
	}

	joined, report := JoinDeliveries([]*OrderLine{lineHit, lineMiss}, records)
	require.Len(t, joined, 2)

	assert.Equal(t, "DELIVERED", joined[0].DeliveryStatus)
	assert.Equal(t, "SF", joined[0].Carrier)
	assert.Equal(t, "SF123", joined[0].TrackingNo)
	require.NotNil(t, joined[0].DeliveredAt)

	// The miss is left empty, not errored.
	assert.Empty(t, joined[1].DeliveryStatus)

	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 1, report.Unmatched)
	assert.Equal(t, []string{"HI-250918-0044"}, report.UnmatchedSample)
}

func TestJoinDeliveries_DoesNotMutateInput(t *testing.T) {
	line := NewOrderLine("s1", "A", "粉色", "130cm", 1)
	line.OrderNumber = "BZ-250925-0039"

	records := []DeliveryRecord{
		{CanonicalOrderNumber: "BZ-250925-0039", StatusCode: "IN_TRANSIT"},
	}

	joined, _ := JoinDeliveries([]*OrderLine{line}, records)
	assert.Equal(t, "IN_TRANSIT", joined[0].DeliveryStatus)
	assert.Empty(t, line.DeliveryStatus)
}

func TestJoinDeliveries_FirstRegistryRecordWins(t *testing.T) {
	line := NewOrderLine("s1", "A", "粉色", "130cm", 1)
	line.OrderNumber = "BZ-250925-0039"

	records := []DeliveryRecord{
		{CanonicalOrderNumber: "BZ-250925-0039", StatusCode: "FIRST"},
		{CanonicalOrderNumber: "BZ-250925-0039", StatusCode: "SECOND"},
	}

	joined, report := JoinDeliveries([]*OrderLine{line}, records)
	assert.Equal(t, "FIRST", joined[0].DeliveryStatus)
	assert.Equal(t, 1, report.Matched)
}

func TestJoinDeliveries_UnmatchedSampleIsBounded(t *testing.T) {
	lines := make([]*OrderLine, 0, 25)
	for i := 0; i < 25; i++ {
		l := NewOrderLine("s1", "A", "粉色", "130cm", 1)
		l.OrderNumber = fmt.Sprintf("XX-000000-%04d", i)
		lines = append(lines, l)
	}

	_, report := JoinDeliveries(lines, nil)
	assert.Equal(t, 25, report.Unmatched)
	assert.Len(t, report.UnmatchedSample, UnmatchedSampleSize)
}

func TestJoinDeliveries_EmptyOrderNumberNeverMatches(t *testing.T) {
	line := NewOrderLine("s1", "A", "粉色", "130cm", 1)

	records := []DeliveryRecord{{CanonicalOrderNumber: "", StatusCode: "X"}}

	joined, report := JoinDeliveries([]*OrderLine{line}, records)
	assert.Empty(t, joined[0].DeliveryStatus)
	assert.Equal(t, 1, report.Unmatched)
	assert.Empty(t, report.UnmatchedSample)
}
