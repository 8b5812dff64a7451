package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/sourcingops/backend/internal/domain/sourcing"
)

const (
	activeSheetName    = "Orders"
	cancelledSheetName = "Cancelled"
)

var exportHeader = []string{
	"商品ID", "颜色", "尺码", "数量", "单价", "订单号", "备注",
	"状态", "物流状态", "快递公司", "运单号", "签收时间",
}

// ExcelExporter writes a sheet's lines back out as a workbook. Cancelled
// lines go to their own worksheet so the remaining order book stays clean;
// everything else keeps import order on the main worksheet.
type ExcelExporter struct{}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Write renders the lines and their assessments to w as an xlsx workbook.
// Lines missing from assessments export with an empty status column.
func (e *ExcelExporter) Write(w io.Writer, lines []*sourcing.OrderLine, assessments []sourcing.Assessment) error {
	states := make(map[string]sourcing.DisplayState, len(assessments))
	for _, a := range assessments {
		states[a.LineID] = a.Display
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", activeSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(cancelledSheetName); err != nil {
		return fmt.Errorf("failed to create cancelled sheet: %w", err)
	}

	if err := writeHeader(f, activeSheetName); err != nil {
		return err
	}
	if err := writeHeader(f, cancelledSheetName); err != nil {
		return err
	}

	activeRow, cancelledRow := 2, 2
	for _, line := range lines {
		state := states[line.ID.String()]

		sheet := activeSheetName
		row := &activeRow
		if state == sourcing.DisplayCancelled {
			sheet = cancelledSheetName
			row = &cancelledRow
		}

		if err := writeLine(f, sheet, *row, line, state); err != nil {
			return err
		}
		*row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string) error {
	for i, h := range exportHeader {
		cellRef, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellRef, h); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(f *excelize.File, sheet string, row int, line *sourcing.OrderLine, state sourcing.DisplayState) error {
	deliveredAt := ""
	if line.DeliveredAt != nil {
		deliveredAt = line.DeliveredAt.Format("2006-01-02 15:04:05")
	}

	values := []any{
		line.OfferID,
		line.OptionColor,
		line.OptionSize,
		line.Quantity,
		line.UnitCost.String(),
		line.OrderNumber,
		line.Note,
		string(state),
		line.DeliveryStatus,
		line.Carrier,
		line.TrackingNo,
		deliveredAt,
	}

	for i, v := range values {
		cellRef, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellRef, v); err != nil {
			return err
		}
	}
	return nil
}
