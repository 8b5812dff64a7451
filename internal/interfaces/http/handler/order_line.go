package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sourcingops/backend/internal/application/sourcing"
	domainsourcing "github.com/sourcingops/backend/internal/domain/sourcing"
	"github.com/sourcingops/backend/internal/domain/shared"
	"github.com/sourcingops/backend/internal/infrastructure/export"
	"github.com/sourcingops/backend/internal/infrastructure/importer"
	"github.com/sourcingops/backend/internal/interfaces/http/dto"
)

// OrderLineView is the JSON representation of an order line
type OrderLineView struct {
	ID          string          `json:"id"`
	SheetID     string          `json:"sheet_id"`
	OfferID     string          `json:"offer_id"`
	OptionColor string          `json:"option_color"`
	OptionSize  string          `json:"option_size"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	OrderNumber string          `json:"order_number"`
	Note        string          `json:"note"`
	CancelMark  string          `json:"cancel_mark,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`

	DeliveryStatus string     `json:"delivery_status,omitempty"`
	Carrier        string     `json:"carrier,omitempty"`
	TrackingNo     string     `json:"tracking_no,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

func toOrderLineView(line *domainsourcing.OrderLine) OrderLineView {
	return OrderLineView{
		ID:             line.ID.String(),
		SheetID:        line.SheetID,
		OfferID:        line.OfferID,
		OptionColor:    line.OptionColor,
		OptionSize:     line.OptionSize,
		Quantity:       line.Quantity,
		UnitCost:       line.UnitCost,
		OrderNumber:    line.OrderNumber,
		Note:           line.Note,
		CancelMark:     line.CancelMark,
		ImageURL:       line.ImageURL,
		DeliveryStatus: line.DeliveryStatus,
		Carrier:        line.Carrier,
		TrackingNo:     line.TrackingNo,
		DeliveredAt:    line.DeliveredAt,
		UpdatedAt:      line.UpdatedAt,
	}
}

func toOrderLineViews(lines []*domainsourcing.OrderLine) []OrderLineView {
	views := make([]OrderLineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, toOrderLineView(line))
	}
	return views
}

// UpdateOrderLineBody is the cell-edit payload. Absent fields stay untouched.
type UpdateOrderLineBody struct {
	OfferID     *string          `json:"offer_id"`
	OptionColor *string          `json:"option_color"`
	OptionSize  *string          `json:"option_size"`
	Quantity    *int             `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	OrderNumber *string          `json:"order_number"`
	Note        *string          `json:"note"`
	CancelMark  *string          `json:"cancel_mark"`
}

// ReplaceSheetBody carries imported rows as JSON
type ReplaceSheetBody struct {
	Rows []OrderLineRowBody `json:"rows" binding:"required"`
}

// OrderLineRowBody is one row of a JSON sheet replace
type OrderLineRowBody struct {
	OfferID     string          `json:"offer_id"`
	OptionColor string          `json:"option_color"`
	OptionSize  string          `json:"option_size"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	OrderNumber string          `json:"order_number"`
	Note        string          `json:"note"`
	CancelMark  string          `json:"cancel_mark"`
	ImageURL    string          `json:"image_url"`
}

// PasteBody carries clipboard text pasted from a spreadsheet
type PasteBody struct {
	Text string `json:"text" binding:"required"`
}

// OrderLineHandler serves the order-line sheet: listing, cell edits, full
// replacement by upload or paste, and the annotated export.
type OrderLineHandler struct {
	BaseHandler
	lines          *sourcing.OrderLineService
	reconciliation *sourcing.ReconciliationService
	importer       *importer.ExcelImporter
	exporter       *export.ExcelExporter
}

// NewOrderLineHandler creates a new OrderLineHandler
func NewOrderLineHandler(
	lines *sourcing.OrderLineService,
	reconciliation *sourcing.ReconciliationService,
	imp *importer.ExcelImporter,
	exp *export.ExcelExporter,
) *OrderLineHandler {
	return &OrderLineHandler{
		lines:          lines,
		reconciliation: reconciliation,
		importer:       imp,
		exporter:       exp,
	}
}

// RegisterRoutes registers order-line routes
func (h *OrderLineHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sheets/:sheetID/lines", h.List)
	rg.PUT("/sheets/:sheetID/lines", h.Replace)
	rg.POST("/sheets/:sheetID/lines/import", h.Import)
	rg.POST("/sheets/:sheetID/lines/paste", h.Paste)
	rg.GET("/sheets/:sheetID/export", h.Export)
	rg.GET("/lines/:id", h.Get)
	rg.PATCH("/lines/:id", h.Update)
}

// List returns all lines of a sheet in import order
func (h *OrderLineHandler) List(c *gin.Context) {
	lines, err := h.lines.List(c.Request.Context(), c.Param("sheetID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderLineViews(lines))
}

// Get returns a single line
func (h *OrderLineHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	line, err := h.lines.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderLineView(line))
}

// Update applies a cell edit
func (h *OrderLineHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	var body UpdateOrderLineBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Error(c, dto.ErrCodeInvalidJSON, "Invalid update payload")
		return
	}

	line, err := h.lines.Update(c.Request.Context(), id, sourcing.UpdateOrderLineRequest{
		OfferID:     body.OfferID,
		OptionColor: body.OptionColor,
		OptionSize:  body.OptionSize,
		Quantity:    body.Quantity,
		UnitCost:    body.UnitCost,
		OrderNumber: body.OrderNumber,
		Note:        body.Note,
		CancelMark:  body.CancelMark,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderLineView(line))
}

// Replace swaps the whole sheet for the posted rows
func (h *OrderLineHandler) Replace(c *gin.Context) {
	var body ReplaceSheetBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Error(c, dto.ErrCodeInvalidJSON, "Invalid rows payload")
		return
	}

	rows := make([]sourcing.OrderLineRow, 0, len(body.Rows))
	for _, r := range body.Rows {
		rows = append(rows, sourcing.OrderLineRow{
			OfferID:     r.OfferID,
			OptionColor: r.OptionColor,
			OptionSize:  r.OptionSize,
			Quantity:    r.Quantity,
			UnitCost:    r.UnitCost,
			OrderNumber: r.OrderNumber,
			Note:        r.Note,
			CancelMark:  r.CancelMark,
			ImageURL:    r.ImageURL,
		})
	}

	lines, err := h.lines.ReplaceSheet(c.Request.Context(), c.Param("sheetID"), rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderLineViews(lines))
}

// Import replaces the sheet from an uploaded spreadsheet file
func (h *OrderLineHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	defer file.Close()

	rows, err := h.importer.ParseOrderLines(file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	lines, err := h.lines.ReplaceSheet(c.Request.Context(), c.Param("sheetID"), rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.log(c).Info("Sheet imported",
		zap.String("sheet_id", c.Param("sheetID")),
		zap.Int("lines", len(lines)))
	h.Success(c, toOrderLineViews(lines))
}

// Paste replaces the sheet from tab-separated clipboard text
func (h *OrderLineHandler) Paste(c *gin.Context) {
	var body PasteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Error(c, dto.ErrCodeInvalidJSON, "Invalid paste payload")
		return
	}

	rows := importer.ParsePastedOrderLines(body.Text)
	if len(rows) == 0 {
		h.BadRequest(c, "Pasted text contains no rows")
		return
	}

	lines, err := h.lines.ReplaceSheet(c.Request.Context(), c.Param("sheetID"), rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderLineViews(lines))
}

// Export streams the sheet as a workbook with status annotations and
// cancelled lines split onto their own tab. A sheet without a verification
// snapshot still exports, just without status annotations.
func (h *OrderLineHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	sheetID := c.Param("sheetID")

	lines, err := h.lines.List(ctx, sheetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var assessments []domainsourcing.Assessment
	pass, err := h.reconciliation.RunPass(ctx, sheetID)
	switch {
	case err == nil:
		assessments = pass.Assessments
	case errors.Is(err, shared.ErrSnapshotMissing):
		// export without annotations
	default:
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", sheetID, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exporter.Write(c.Writer, lines, assessments); err != nil {
		h.log(c).Error("Export write failed", zap.Error(err))
	}
}
