package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appledger "github.com/sourcingops/backend/internal/application/ledger"
	"github.com/sourcingops/backend/internal/domain/ledger"
	"github.com/sourcingops/backend/internal/interfaces/http/dto"
)

// RecordTransactionBody is the payload for recording a ledger movement
type RecordTransactionBody struct {
	Kind   string          `json:"kind" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Memo   string          `json:"memo"`
}

// TransactionView is the JSON representation of a ledger transaction
type TransactionView struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Memo         string          `json:"memo,omitempty"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toTransactionView(tx *ledger.Transaction) TransactionView {
	return TransactionView{
		ID:           tx.ID.String(),
		Kind:         string(tx.Kind),
		Amount:       tx.Amount,
		Memo:         tx.Memo,
		BalanceAfter: tx.BalanceAfter,
		CreatedAt:    tx.CreatedAt,
	}
}

// LedgerHandler serves the operations account: balance, statement and
// receipt attachments.
type LedgerHandler struct {
	BaseHandler
	ledger   *appledger.Service
	receipts *appledger.ReceiptService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(service *appledger.Service, receipts *appledger.ReceiptService) *LedgerHandler {
	return &LedgerHandler{ledger: service, receipts: receipts}
}

// RegisterRoutes registers ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ledger/balance", h.Balance)
	rg.GET("/ledger/transactions", h.Transactions)
	rg.POST("/ledger/transactions", h.Record)
	rg.POST("/ledger/transactions/:id/receipt-upload", h.RequestReceiptUpload)
	rg.GET("/ledger/receipts/download", h.RequestReceiptDownload)
	rg.DELETE("/ledger/receipts", h.DeleteReceipt)
}

// Balance returns the current balance of the operations account
func (h *LedgerHandler) Balance(c *gin.Context) {
	balance, err := h.ledger.Balance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// Record books a ledger movement
func (h *LedgerHandler) Record(c *gin.Context) {
	var body RecordTransactionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Error(c, dto.ErrCodeInvalidJSON, "Invalid transaction payload")
		return
	}

	tx, err := h.ledger.Record(c.Request.Context(), appledger.RecordTransactionRequest{
		Kind:   ledger.TransactionKind(body.Kind),
		Amount: body.Amount,
		Memo:   body.Memo,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.log(c).Info("Transaction recorded",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("kind", string(tx.Kind)))
	h.Created(c, toTransactionView(tx))
}

// Transactions returns the statement, newest first
func (h *LedgerHandler) Transactions(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	txs, total, err := h.ledger.Transactions(c.Request.Context(), req.Limit(), req.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	views := make([]TransactionView, 0, len(txs))
	for i := range txs {
		views = append(views, toTransactionView(&txs[i]))
	}
	h.SuccessWithMeta(c, views, dto.NewPaginationMeta(req.Page, req.Limit(), total))
}

// RequestReceiptUpload issues a presigned upload URL for a receipt image
func (h *LedgerHandler) RequestReceiptUpload(c *gin.Context) {
	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var body struct {
		ContentType string `json:"content_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Error(c, dto.ErrCodeInvalidJSON, "Invalid receipt payload")
		return
	}

	url, err := h.receipts.RequestUpload(c.Request.Context(), txID, body.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, url)
}

// RequestReceiptDownload issues a presigned download URL for a stored receipt
func (h *LedgerHandler) RequestReceiptDownload(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "Missing storage key")
		return
	}

	url, err := h.receipts.RequestDownload(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, url)
}

// DeleteReceipt removes a stored receipt object
func (h *LedgerHandler) DeleteReceipt(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "Missing storage key")
		return
	}

	if err := h.receipts.Delete(c.Request.Context(), key); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
