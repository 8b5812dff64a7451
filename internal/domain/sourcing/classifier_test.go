package sourcing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func classifySingle(t *testing.T, line *OrderLine, targets []VerificationLine) Assessment {
	t.Helper()
	return Classify(line, []*OrderLine{line}, targets)
}

func TestClassify_QuantityStatuses(t *testing.T) {
	targets := []VerificationLine{
		{OfferID: "A", OptionRaw: "粉色;130cm", Quantity: 5},
	}

	tests := []struct {
		name     string
		quantity int
		want     QuantityStatus
	}{
		{"equal is matched", 5, QuantityMatched},
		{"local below verified is excess", 3, QuantityExcess},
		{"local above verified is insufficient", 7, QuantityInsufficient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := NewOrderLine("s1", "A", "粉色", "130cm", tt.quantity)
			a := classifySingle(t, line, targets)
			assert.Equal(t, tt.want, a.Quantity)
			assert.Equal(t, IdentityMatched, a.Identity)
			assert.Equal(t, 5, a.VerifiedQty)
			assert.Equal(t, tt.quantity, a.LocalQuantity)
		})
	}
}

func TestClassify_ReversedGroupAggregation(t *testing.T) {
	// Spec scenario: two lines with swapped halves, one verification row.
	// Both resolve to the same group; the group total matches.
	lines := []*OrderLine{
		NewOrderLine("s1", "A", "130cm", "粉色", 3),
		NewOrderLine("s1", "A", "粉色", "130cm", 2),
	}
	targets := []VerificationLine{
		{OfferID: "A", OptionRaw: "粉色;130cm", Quantity: 5},
	}

	for _, line := range lines {
		a := Classify(line, lines, targets)
		assert.Equal(t, QuantityMatched, a.Quantity, "line %s", line.Option())
		assert.Equal(t, IdentityMatched, a.Identity)
		assert.Equal(t, 5, a.LocalQuantity)
		assert.Equal(t, 5, a.VerifiedQty)
		assert.Equal(t, DisplayMatched, a.Display)
	}
}

func TestClassify_ZeroVerifiedQuantityIsNotVerified(t *testing.T) {
	// A verification row reporting zero always yields NOT_VERIFIED, no
	// matter the local total.
	targets := []VerificationLine{
		{OfferID: "A", OptionRaw: "粉色;130cm", Quantity: 0},
	}

	for _, qty := range []int{0, 1, 10} {
		line := NewOrderLine("s1", "A", "粉色", "130cm", qty)
		a := classifySingle(t, line, targets)
		assert.Equal(t, QuantityNotVerified, a.Quantity, "local qty %d", qty)
		// Option text still matched, so identity is fine.
		assert.Equal(t, IdentityMatched, a.Identity)
	}
}

func TestClassify_IdentityStatuses(t *testing.T) {
	targets := []VerificationLine{
		{OfferID: "A", OptionRaw: "粉色;130cm", Quantity: 5},
	}

	t.Run("offer present but option miss", func(t *testing.T) {
		line := NewOrderLine("s1", "A", "紫色", "90cm", 1)
		a := classifySingle(t, line, targets)
		assert.Equal(t, IdentityOfferOnly, a.Identity)
		assert.Equal(t, QuantityNotVerified, a.Quantity)
		assert.Equal(t, DisplayIdentityMismatch, a.Display)
	})

	t.Run("offer absent entirely", func(t *testing.T) {
		line := NewOrderLine("s1", "Z", "粉色", "130cm", 1)
		a := classifySingle(t, line, targets)
		assert.Equal(t, IdentityNotMatched, a.Identity)
		assert.Equal(t, DisplayIdentityMismatch, a.Display)
	})

	t.Run("no offer link is unclassified", func(t *testing.T) {
		line := NewOrderLine("s1", "", "粉色", "130cm", 1)
		a := classifySingle(t, line, targets)
		assert.Equal(t, IdentityNotMatched, a.Identity)
		assert.Equal(t, QuantityNotVerified, a.Quantity)
		assert.Equal(t, DisplayUnclassified, a.Display)
	})
}

func TestClassify_DisplayPrecedence(t *testing.T) {
	targets := []VerificationLine{
		{OfferID: "A", OptionRaw: "粉色;130cm", Quantity: 5},
	}

	t.Run("cancel outranks everything", func(t *testing.T) {
		line := NewOrderLine("s1", "A", "紫色", "90cm", 7)
		line.CancelMark = "买家取消"
		a := classifySingle(t, line, targets)
		assert.Equal(t, DisplayCancelled, a.Display)
	})

	t.Run("quantity mismatch outranks identity match", func(t *testing.T) {
		line := NewOrderLine("s1", "A", "粉色", "130cm", 7)
		a := classifySingle(t, line, targets)
		assert.Equal(t, IdentityMatched, a.Identity)
		assert.Equal(t, DisplayQuantityMismatch, a.Display)
	})

	t.Run("fully matched", func(t *testing.T) {
		line := NewOrderLine("s1", "A", "粉色", "130cm", 5)
		a := classifySingle(t, line, targets)
		assert.Equal(t, DisplayMatched, a.Display)
	})
}

func TestClassify_IsPureAndRederivable(t *testing.T) {
	lines := []*OrderLine{
		NewOrderLine("s1", "A", "粉色", "130cm", 3),
		NewOrderLine("s1", "A", "130cm", "粉色", 2),
	}
	targets := []VerificationLine{
		{OfferID: "A", OptionRaw: "粉色;130cm", Quantity: 5},
	}

	first := Classify(lines[0], lines, targets)
	second := Classify(lines[0], lines, targets)
	assert.Equal(t, first, second)

	// An edit changes the outcome on the next derivation, with no stale
	// state in between.
	lines[1].Quantity = 4
	third := Classify(lines[0], lines, targets)
	assert.Equal(t, QuantityInsufficient, third.Quantity)
}
