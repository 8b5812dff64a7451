package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sourcingops/backend/internal/application/sourcing"
	domainsourcing "github.com/sourcingops/backend/internal/domain/sourcing"
	"github.com/sourcingops/backend/internal/infrastructure/importer"
	"github.com/sourcingops/backend/internal/interfaces/http/dto"
)

// SnapshotSummary describes a loaded verification snapshot without its rows
type SnapshotSummary struct {
	SheetID         string    `json:"sheet_id"`
	Lines           int       `json:"lines"`
	AmbiguousGroups int       `json:"ambiguous_groups"`
	LoadedAt        time.Time `json:"loaded_at"`
}

// JoinReportView is the JSON shape of a delivery join report
type JoinReportView struct {
	Matched         int      `json:"matched"`
	Unmatched       int      `json:"unmatched"`
	UnmatchedSample []string `json:"unmatched_sample,omitempty"`
}

// SnapshotHandler manages the two external datasets: per-sheet verification
// snapshots and the global delivery registry.
type SnapshotHandler struct {
	BaseHandler
	snapshots *sourcing.SnapshotService
	importer  *importer.ExcelImporter
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(snapshots *sourcing.SnapshotService, imp *importer.ExcelImporter) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots, importer: imp}
}

// RegisterRoutes registers snapshot and delivery routes
func (h *SnapshotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/sheets/:sheetID/verification", h.ReplaceVerification)
	rg.GET("/sheets/:sheetID/verification", h.GetVerification)
	rg.PUT("/deliveries", h.ReplaceDeliveries)
	rg.POST("/sheets/:sheetID/deliveries/join", h.JoinDeliveries)
}

func toSnapshotSummary(snapshot *domainsourcing.VerificationSnapshot) SnapshotSummary {
	return SnapshotSummary{
		SheetID:         snapshot.SheetID,
		Lines:           len(snapshot.Lines),
		AmbiguousGroups: domainsourcing.CountAmbiguousGroups(snapshot.Lines),
		LoadedAt:        snapshot.LoadedAt,
	}
}

// VerificationPasteBody carries verification rows pasted as tab-separated
// text, the alternative to a workbook upload.
type VerificationPasteBody struct {
	Text string `json:"text" binding:"required"`
}

// ReplaceVerification swaps the sheet's verification snapshot from an
// uploaded marketplace export, or from pasted rows when the request body
// is JSON instead of a multipart form.
func (h *SnapshotHandler) ReplaceVerification(c *gin.Context) {
	rows, ok := h.verificationRows(c)
	if !ok {
		return
	}

	snapshot, err := h.snapshots.ReplaceVerification(c.Request.Context(), c.Param("sheetID"), rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSnapshotSummary(snapshot))
}

// verificationRows extracts snapshot rows from either request shape. On
// failure it writes the error response and reports false.
func (h *SnapshotHandler) verificationRows(c *gin.Context) ([]sourcing.VerificationRow, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			h.BadRequest(c, "Missing file upload")
			return nil, false
		}
		defer file.Close()

		rows, err := h.importer.ParseVerificationRows(file)
		if err != nil {
			h.HandleError(c, err)
			return nil, false
		}
		return rows, true
	}

	var body VerificationPasteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Error(c, dto.ErrCodeInvalidJSON, "Request body must be a workbook upload or pasted rows")
		return nil, false
	}
	rows := importer.ParsePastedVerificationRows(body.Text)
	if len(rows) == 0 {
		h.BadRequest(c, "Pasted text contained no rows")
		return nil, false
	}
	return rows, true
}

// GetVerification returns a summary of the sheet's current snapshot
func (h *SnapshotHandler) GetVerification(c *gin.Context) {
	snapshot, err := h.snapshots.GetVerification(c.Request.Context(), c.Param("sheetID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSnapshotSummary(snapshot))
}

// ReplaceDeliveries swaps the global delivery registry from an uploaded
// logistics export
func (h *SnapshotHandler) ReplaceDeliveries(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	defer file.Close()

	rows, err := h.importer.ParseDeliveryRows(file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	count, err := h.snapshots.ReplaceDeliveryRegistry(c.Request.Context(), rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"records": count})
}

// JoinDeliveries runs the exact-key delivery join over a sheet
func (h *SnapshotHandler) JoinDeliveries(c *gin.Context) {
	report, err := h.snapshots.JoinDeliveries(c.Request.Context(), c.Param("sheetID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.log(c).Info("Delivery join requested",
		zap.String("sheet_id", c.Param("sheetID")),
		zap.Int("matched", report.Matched),
		zap.Int("unmatched", report.Unmatched))

	h.Success(c, JoinReportView{
		Matched:         report.Matched,
		Unmatched:       report.Unmatched,
		UnmatchedSample: report.UnmatchedSample,
	})
}
