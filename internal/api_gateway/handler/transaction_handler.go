package handler

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momo-sms-pipeline/internal/api_gateway/service"
	"github.com/momo-sms-pipeline/internal/domain/transaction"
)

// dateLayout is the format accepted for start_date / end_date query params.
const dateLayout = "2006-01-02"

// searchLimit caps search endpoint result sets.
const searchLimit = 50

// TransactionHandler handles HTTP requests for transaction read operations
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// List retrieves a filtered, paginated list of transactions
func (h *TransactionHandler) List(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	transactions, err := h.transactionService.ListTransactions(c.Request.Context(), filter, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, mapTransactionToResponse(tx))
	}

	RespondOK(c, TransactionListResponse{
		Transactions: responses,
		Page:         pagination.Page,
		PerPage:      pagination.PerPage,
		Count:        len(responses),
	})
}

// GetByID retrieves a transaction by its provider-assigned ID, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	transactionID := c.Param("id")
	if transactionID == "" {
		RespondBadRequest(c, "Missing transaction ID")
		return
	}

	tx, err := h.transactionService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		h.logger.Error("Failed to get transaction", "transaction_id", transactionID, "error", err)
		RespondInternalError(c)
		return
	}

	if tx == nil {
		RespondNotFound(c, "Transaction not found")
		return
	}

	RespondOK(c, mapTransactionToResponse(tx))
}

// Search retrieves transactions matching a free-text query
func (h *TransactionHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondBadRequest(c, "Missing search query parameter 'q'")
		return
	}

	transactions, err := h.transactionService.SearchTransactions(c.Request.Context(), query, searchLimit)
	if err != nil {
		h.logger.Error("Failed to search transactions", "query", query, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, mapTransactionToResponse(tx))
	}

	RespondOK(c, TransactionListResponse{
		Transactions: responses,
		Count:        len(responses),
	})
}

// Export streams the filtered transaction set as CSV or JSON
func (h *TransactionHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "csv" && format != "json" {
		RespondBadRequest(c, "Invalid export format, expected 'csv' or 'json'")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	transactions, err := h.transactionService.ExportTransactions(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to export transactions", "error", err)
		RespondInternalError(c)
		return
	}

	if format == "json" {
		responses := make([]TransactionResponse, 0, len(transactions))
		for _, tx := range transactions {
			responses = append(responses, mapTransactionToResponse(tx))
		}
		RespondOK(c, TransactionListResponse{
			Transactions: responses,
			Count:        len(responses),
		})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	header := []string{"transaction_id", "category", "amount", "fee", "sender", "receiver", "occurred_at", "status", "description"}
	if err := writer.Write(header); err != nil {
		h.logger.Error("Failed to write CSV header", "error", err)
		return
	}
	for _, tx := range transactions {
		row := []string{
			tx.TransactionID,
			string(tx.Category),
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			strconv.FormatFloat(tx.Fee, 'f', 2, 64),
			tx.Sender,
			tx.Receiver,
			tx.OccurredAt.Format(transaction.TimeLayout),
			string(tx.Status),
			tx.Description,
		}
		if err := writer.Write(row); err != nil {
			h.logger.Error("Failed to write CSV row", "transaction_id", tx.TransactionID, "error", err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Error("Failed to flush CSV export", "error", err)
	}
}

// bindFilter parses the shared filter query parameters. On a bad parameter it
// writes the 400 response itself and returns ok=false.
func (h *TransactionHandler) bindFilter(c *gin.Context) (transaction.Filter, bool) {
	var params TransactionFilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid filter parameters", "error", err)
		RespondBadRequest(c, "Invalid filter parameters: "+err.Error())
		return transaction.Filter{}, false
	}

	filter := transaction.Filter{
		Category:  transaction.Category(params.Category),
		Status:    transaction.Status(params.Status),
		MinAmount: params.MinAmount,
		MaxAmount: params.MaxAmount,
	}

	if params.StartDate != "" {
		start, err := time.Parse(dateLayout, params.StartDate)
		if err != nil {
			RespondBadRequest(c, fmt.Sprintf("Invalid start_date %q, expected YYYY-MM-DD", params.StartDate))
			return transaction.Filter{}, false
		}
		filter.StartDate = start
	}
	if params.EndDate != "" {
		end, err := time.Parse(dateLayout, params.EndDate)
		if err != nil {
			RespondBadRequest(c, fmt.Sprintf("Invalid end_date %q, expected YYYY-MM-DD", params.EndDate))
			return transaction.Filter{}, false
		}
		// Inclusive end of day
		filter.EndDate = end.Add(24*time.Hour - time.Second)
	}

	return filter, true
}

// mapTransactionToResponse maps a domain transaction to a response DTO
func mapTransactionToResponse(tx *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     tx.TransactionID,
		Category:          string(tx.Category),
		Amount:            tx.Amount,
		Fee:               tx.Fee,
		Sender:            tx.Sender,
		Receiver:          tx.Receiver,
		OccurredAt:        tx.OccurredAt.Format(transaction.TimeLayout),
		Status:            string(tx.Status),
		Description:       tx.Description,
		TimestampInferred: tx.TimestampInferred,
	}
}
