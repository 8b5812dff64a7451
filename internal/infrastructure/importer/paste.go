package importer

import (
	"strings"

	appsourcing "github.com/sourcingops/backend/internal/application/sourcing"
)

// Column orders assumed when a pasted block has no header row. They match
// the operator's working sheet layout and the marketplace export layout.
var (
	defaultPasteOrder = []string{
		"offer_id", "option_color", "option_size", "quantity",
		"unit_cost", "order_number", "note", "cancel_mark",
	}
	defaultVerificationPasteOrder = []string{
		"offer_id", "option_raw", "quantity", "unit_price", "image_url",
	}
)

// splitPastedRows breaks a pasted spreadsheet block into cell rows: rows
// separated by newlines, cells by tabs. Blank lines are skipped.
func splitPastedRows(text string) [][]string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var rows [][]string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	return rows
}

// ParsePastedOrderLines parses an order-line block pasted straight from a
// spreadsheet: rows separated by newlines, cells by tabs. A first row whose
// cells look like known headers is consumed as a header row; otherwise
// columns are read positionally.
func ParsePastedOrderLines(text string) []appsourcing.OrderLineRow {
	rows := splitPastedRows(text)
	if len(rows) == 0 {
		return nil
	}

	cols := resolveColumns(rows[0], orderLineColumns)
	if cols["offer_id"] >= 0 || cols["quantity"] >= 0 {
		rows = rows[1:]
	} else {
		cols = positionalColumns(orderLineColumns, defaultPasteOrder)
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
	return out
}

// ParsePastedVerificationRows parses a verification block pasted straight
// from the marketplace export, with the same header-or-positional handling
// as ParsePastedOrderLines.
func ParsePastedVerificationRows(text string) []appsourcing.VerificationRow {
	rows := splitPastedRows(text)
	if len(rows) == 0 {
		return nil
	}

	cols := resolveColumns(rows[0], verificationColumns)
	if cols["offer_id"] >= 0 || cols["option_raw"] >= 0 {
		rows = rows[1:]
	} else {
		cols = positionalColumns(verificationColumns, defaultVerificationPasteOrder)
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
	return out
}

func positionalColumns(aliases map[string][]string, order []string) map[string]int {
	cols := make(map[string]int, len(aliases))
	for name := range aliases {
		cols[name] = -1
	}
	for idx, name := range order {
		cols[name] = idx
	}
	return cols
}
