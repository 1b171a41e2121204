package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	portssvc "github.com/immoplus-app/immoplus-backend/internal/core/ports/services"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
	"github.com/immoplus-app/immoplus-backend/internal/middleware"
	"github.com/immoplus-app/immoplus-backend/internal/platform/storage"
	"github.com/immoplus-app/immoplus-backend/internal/utils/pagination"
)

const proofFileField = "proofFile"

// TransactionHandler handles the ledger endpoints.
type TransactionHandler struct {
	txnService portssvc.TransactionSvcFacade
	files      storage.FileStore
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ts portssvc.TransactionSvcFacade, files storage.FileStore) *TransactionHandler {
	return &TransactionHandler{txnService: ts, files: files}
}

// registerTransactionRoutes sets up the ledger routes.
func registerTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade, files storage.FileStore) {
	h := NewTransactionHandler(ts, files)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.CreateTransaction)
		txns.GET("", h.ListTransactions)
		txns.GET("/summary", h.SummarizeTransactions)
		txns.GET("/:transactionID", h.GetTransaction)
		txns.PUT("/:transactionID", h.UpdateTransaction)
		txns.DELETE("/:transactionID", h.DeleteTransaction)
	}
}

// CreateTransaction godoc
// @Summary Create a ledger entry
// @Description Creates a transaction attributed to the caller. Accepts JSON or multipart form data with an optional proof file. At most one of serviceId, taskId, projectId, orderId may be set; status is only honored for admins.
// @Tags transactions
// @Accept json
// @Accept mpfd
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction to create"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	isMultipart := strings.HasPrefix(c.ContentType(), "multipart/form-data")
	if isMultipart {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	}

	// The proof file is stored before the ledger write so the entry never
	// references a path that does not exist.
	var storedPath string
	if isMultipart {
		if file, err := c.FormFile(proofFileField); err == nil {
			path, err := h.files.SaveProof(file, uuid.NewString())
			if err != nil {
				middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to store proof file", "error", err.Error())
				c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store proof file"})
				return
			}
			storedPath = path
			req.ProofFilePath = &storedPath
		}
	}

	txn, err := h.txnService.CreateTransaction(c.Request.Context(), principal, req)
	if err != nil {
		if storedPath != "" {
			if rmErr := h.files.Remove(storedPath); rmErr != nil {
				middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to remove orphaned proof file", "path", storedPath, "error", rmErr.Error())
			}
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// ListTransactions godoc
// @Summary List ledger entries
// @Description Lists the caller's visible transactions newest first, with date/type/linked filters and keyset pagination.
// @Tags transactions
// @Produce json
// @Param fromDate query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param toDate query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Param type query string false "Transaction type"
// @Param linked query bool false "Only linked (true) or standalone (false) entries"
// @Param limit query int false "Page size (max 100)"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req dto.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	filter := req.ToFilter()
	if req.NextToken != "" {
		createdAt, id, err := pagination.DecodeToken(req.NextToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination token"})
			return
		}
		filter.AfterCreatedAt = &createdAt
		filter.AfterID = id
	}

	txns, err := h.txnService.ListTransactions(c.Request.Context(), principal, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns)}
	if limit := filter.Limit; limit > 0 && len(txns) == limit {
		last := txns[len(txns)-1]
		resp.NextToken = pagination.EncodeToken(last.CreatedAt, last.TransactionID)
	}
	c.JSON(http.StatusOK, resp)
}

// SummarizeTransactions godoc
// @Summary Summarize ledger entries
// @Description Aggregates the caller's visible transactions into per-type totals and a balance. Admin callers additionally receive a per-role breakdown.
// @Tags transactions
// @Produce json
// @Param fromDate query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param toDate query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Param type query string false "Transaction type"
// @Param linked query bool false "Only linked (true) or standalone (false) entries"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/summary [get]
func (h *TransactionHandler) SummarizeTransactions(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req dto.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.txnService.SummarizeTransactions(c.Request.Context(), principal, req.ToFilter())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// GetTransaction godoc
// @Summary Get a ledger entry
// @Description Fetches one transaction. Entries outside the caller's visibility scope return 404.
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	txn, err := h.txnService.GetTransactionByID(c.Request.Context(), principal, c.Param("transactionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// UpdateTransaction godoc
// @Summary Update a ledger entry
// @Description Updates the mutable fields of a transaction. The type is immutable; status changes obey the transition rules and terminal entries reject further transitions with 409.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transactionID} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	txn, err := h.txnService.UpdateTransaction(c.Request.Context(), principal, c.Param("transactionID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// DeleteTransaction godoc
// @Summary Delete a ledger entry
// @Description Deletes a transaction. Agents can never delete; clients only within the mutation window.
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 204 {object} nil
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transactionID} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.txnService.DeleteTransaction(c.Request.Context(), principal, c.Param("transactionID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
