package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	appsourcing "github.com/sourcingops/backend/internal/application/sourcing"
)

// Header aliases accepted for each logical column. Uploads come from
// several hands: the operator's own sheet uses Chinese headers, the
// marketplace export mixes Chinese and English, and test fixtures use
// English.
var (
	orderLineColumns = map[string][]string{
		"offer_id":     {"offer_id", "offerid", "商品id", "链接id", "货号"},
		"option_color": {"option_color", "color", "颜色"},
		"option_size":  {"option_size", "size", "尺码", "尺寸"},
		"quantity":     {"quantity", "qty", "数量"},
		"unit_cost":    {"unit_cost", "price", "单价", "采购价"},
		"order_number": {"order_number", "订单号", "订单编号"},
		"note":         {"note", "remark", "备注"},
		"cancel_mark":  {"cancel_mark", "cancel", "取消", "退款标记"},
		"image_url":    {"image_url", "image", "图片"},
	}

	verificationColumns = map[string][]string{
		"offer_id":   {"offer_id", "offerid", "商品id", "链接id"},
		"option_raw": {"option", "option_raw", "sku", "规格", "颜色规格", "颜色及规格"},
		"quantity":   {"quantity", "qty", "数量"},
		"unit_price": {"unit_price", "price", "单价"},
		"image_url":  {"image_url", "image", "图片"},
	}

	deliveryColumns = map[string][]string{
		"order_number": {"order_number", "订单号", "订单编号"},
		"status":       {"status", "状态", "物流状态"},
		"carrier":      {"carrier", "快递公司", "物流公司"},
		"tracking_no":  {"tracking_no", "运单号", "快递单号"},
		"delivered_at": {"delivered_at", "签收时间", "送达时间"},
	}
)

// ExcelImporter parses the three spreadsheet uploads: the local order
// sheet, the marketplace verification export, and the logistics delivery
// registry. Parsing is header-driven; column order does not matter.
type ExcelImporter struct{}

// NewExcelImporter creates a new ExcelImporter
func NewExcelImporter() *ExcelImporter {
	return &ExcelImporter{}
}

// ParseOrderLines reads an order sheet upload from the first worksheet.
func (p *ExcelImporter) ParseOrderLines(r io.Reader) ([]appsourcing.OrderLineRow, error) {
	rows, cols, err := readFirstSheet(r, orderLineColumns, "offer_id", "quantity")
	if err != nil {
		return nil, err
	}

	out := make([]appsourcing.OrderLineRow, 0, len(rows))
	for _, row := range rows {
		if rowIsEmpty(row) {
			continue
		}
		out = append(out, appsourcing.OrderLineRow{
			OfferID:     cell(row, cols["offer_id"]),
			OptionColor: cell(row, cols["option_color"]),
			OptionSize:  cell(row, cols["option_size"]),
			Quantity:    coerceInt(cell(row, cols["quantity"])),
			UnitCost:    coerceDecimal(cell(row, cols["unit_cost"])),
			OrderNumber: cell(row, cols["order_number"]),
			Note:        cell(row, cols["note"]),
			CancelMark:  cell(row, cols["cancel_mark"]),
			ImageURL:    cell(row, cols["image_url"]),
		})
	}
	return out, nil
}

// ParseVerificationRows reads a marketplace verification export.
func (p *ExcelImporter) ParseVerificationRows(r io.Reader) ([]appsourcing.VerificationRow, error) {
	rows, cols, err := readFirstSheet(r, verificationColumns, "offer_id", "option_raw")
	if err != nil {
		return nil, err
	}

	out := make([]appsourcing.VerificationRow, 0, len(rows))
	for _, row := range rows {
		if rowIsEmpty(row) {
			continue
		}
		out = append(out, appsourcing.VerificationRow{
			OfferID:   cell(row, cols["offer_id"]),
			OptionRaw: cell(row, cols["option_raw"]),
			Quantity:  coerceInt(cell(row, cols["quantity"])),
			UnitPrice: coerceDecimal(cell(row, cols["unit_price"])),
			ImageURL:  cell(row, cols["image_url"]),
		})
	}
	return out, nil
}

// ParseDeliveryRows reads a logistics delivery registry upload.
func (p *ExcelImporter) ParseDeliveryRows(r io.Reader) ([]appsourcing.DeliveryRow, error) {
	rows, cols, err := readFirstSheet(r, deliveryColumns, "order_number")
	if err != nil {
		return nil, err
	}

	out := make([]appsourcing.DeliveryRow, 0, len(rows))
	for _, row := range rows {
		if rowIsEmpty(row) {
			continue
		}
		out = append(out, appsourcing.DeliveryRow{
			RawOrderNumber: cell(row, cols["order_number"]),
			StatusCode:     cell(row, cols["status"]),
			Carrier:        cell(row, cols["carrier"]),
			TrackingNo:     cell(row, cols["tracking_no"]),
			DeliveredAt:    coerceTime(cell(row, cols["delivered_at"])),
		})
	}
	return out, nil
}

// readFirstSheet opens the workbook, locates the header row on the first
// worksheet and returns the data rows plus the resolved column indexes.
// Columns without a recognized header map to -1 and read as empty.
func readFirstSheet(r io.Reader, aliases map[string][]string, required ...string) ([][]string, map[string]int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	cols := resolveColumns(rows[0], aliases)
	for _, name := range required {
		if cols[name] < 0 {
			return nil, nil, fmt.Errorf("missing required column %q", name)
		}
	}

	return rows[1:], cols, nil
}

func resolveColumns(header []string, aliases map[string][]string) map[string]int {
	cols := make(map[string]int, len(aliases))
	for name := range aliases {
		cols[name] = -1
	}

	for idx, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		if normalized == "" {
			continue
		}
		for name, names := range aliases {
			if cols[name] >= 0 {
				continue
			}
			for _, alias := range names {
				if normalized == alias {
					cols[name] = idx
					break
				}
			}
		}
	}
	return cols
}
