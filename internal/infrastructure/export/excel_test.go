package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sourcingops/backend/internal/domain/sourcing"
)

func TestExcelExporterSplitsCancelledLines(t *testing.T) {
	active := sourcing.NewOrderLine("S-1", "A", "粉色", "130cm", 5)
	active.OrderNumber = "BZ-250925-0039#1"
	cancelled := sourcing.NewOrderLine("S-1", "B", "白色", "均码", 2)
	cancelled.CancelMark = "退"

	assessments := []sourcing.Assessment{
		{LineID: active.ID.String(), Display: sourcing.DisplayMatched},
		{LineID: cancelled.ID.String(), Display: sourcing.DisplayCancelled},
	}

	var buf bytes.Buffer
	require.NoError(t, NewExcelExporter().Write(&buf, []*sourcing.OrderLine{active, cancelled}, assessments))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Orders", "Cancelled"}, f.GetSheetList())

	orders, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, orders, 2) // header + one line
	assert.Equal(t, "A", orders[1][0])
	assert.Equal(t, "MATCHED", orders[1][7])

	cancelledRows, err := f.GetRows("Cancelled")
	require.NoError(t, err)
	require.Len(t, cancelledRows, 2)
	assert.Equal(t, "B", cancelledRows[1][0])
	assert.Equal(t, "CANCELLED", cancelledRows[1][7])
}

func TestExcelExporterKeepsImportOrder(t *testing.T) {
	lines := []*sourcing.OrderLine{
		sourcing.NewOrderLine("S-1", "A", "红色", "M", 1),
		sourcing.NewOrderLine("S-1", "B", "白色", "L", 2),
		sourcing.NewOrderLine("S-1", "C", "黑色", "XL", 3),
	}

	var buf bytes.Buffer
	require.NoError(t, NewExcelExporter().Write(&buf, lines, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "B", rows[2][0])
	assert.Equal(t, "C", rows[3][0])
}

func TestExcelExporterEmptySheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExcelExporter().Write(&buf, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	assert.Len(t, rows, 1) // header only
}
