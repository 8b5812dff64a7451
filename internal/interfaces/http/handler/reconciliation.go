package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sourcingops/backend/internal/application/sourcing"
	domainsourcing "github.com/sourcingops/backend/internal/domain/sourcing"
)

// AssessmentView is the JSON representation of one line assessment
type AssessmentView struct {
	LineID        string `json:"line_id"`
	Quantity      string `json:"quantity_status"`
	Identity      string `json:"identity_status"`
	Display       string `json:"display_state"`
	MatchedTier   string `json:"matched_tier"`
	LocalQuantity int    `json:"local_quantity"`
	VerifiedQty   int    `json:"verified_quantity"`
}

// PassResultView is the JSON shape of a reconciliation pass
type PassResultView struct {
	Report      sourcing.PassReport `json:"report"`
	Assessments []AssessmentView    `json:"assessments"`
}

func toAssessmentViews(assessments []domainsourcing.Assessment) []AssessmentView {
	views := make([]AssessmentView, 0, len(assessments))
	for _, a := range assessments {
		views = append(views, AssessmentView{
			LineID:        a.LineID,
			Quantity:      string(a.Quantity),
			Identity:      string(a.Identity),
			Display:       string(a.Display),
			MatchedTier:   a.MatchedTier.String(),
			LocalQuantity: a.LocalQuantity,
			VerifiedQty:   a.VerifiedQty,
		})
	}
	return views
}

// ReconciliationHandler runs verification passes and explicit enrichment
type ReconciliationHandler struct {
	BaseHandler
	reconciliation *sourcing.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(reconciliation *sourcing.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliation: reconciliation}
}

// RegisterRoutes registers reconciliation routes
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sheets/:sheetID/reconciliation/run", h.Run)
	rg.POST("/sheets/:sheetID/reconciliation/enrich", h.Enrich)
}

// Run classifies every line of the sheet against the verification snapshot
func (h *ReconciliationHandler) Run(c *gin.Context) {
	result, err := h.reconciliation.RunPass(c.Request.Context(), c.Param("sheetID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.log(c).Info("Reconciliation pass finished",
		zap.String("sheet_id", result.Report.SheetID),
		zap.Int("total", result.Report.TotalLines),
		zap.Int("matched", result.Report.Matched),
		zap.Int("ambiguous_groups", result.Report.AmbiguousGroups))

	h.Success(c, PassResultView{
		Report:      result.Report,
		Assessments: toAssessmentViews(result.Assessments),
	})
}

// Enrich copies snapshot auxiliary fields onto matched lines and reports
// every change made
func (h *ReconciliationHandler) Enrich(c *gin.Context) {
	result, err := h.reconciliation.ApplyEnrichment(c.Request.Context(), c.Param("sheetID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.log(c).Info("Enrichment applied",
		zap.String("sheet_id", result.SheetID),
		zap.Int("changes", len(result.Changes)))
	h.Success(c, result)
}
