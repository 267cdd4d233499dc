package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momo-sms-pipeline/internal/api_gateway/service"
	"github.com/momo-sms-pipeline/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, filter transaction.Filter, page, perPage int) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) SearchTransactions(ctx context.Context, query string, limit int) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) ExportTransactions(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func sampleStoredTransaction() *transaction.Transaction {
	return &transaction.Transaction{
		TransactionID: "76662021700",
		Category:      transaction.CategoryIncomingMoney,
		Amount:        2000,
		Sender:        "Jane Smith",
		Receiver:      transaction.SelfParty,
		OccurredAt:    time.Date(2024, 5, 10, 16, 30, 51, 0, time.UTC),
		Status:        transaction.StatusCompleted,
		Description:   "You have received 2000 RWF from Jane Smith",
		RawBody:       "You have received 2000 RWF from Jane Smith",
	}
}

func decodeListResponse(t *testing.T, body []byte) TransactionListResponse {
	t.Helper()
	var topLevelResponse Response
	require.NoError(t, json.Unmarshal(body, &topLevelResponse))
	require.NotNil(t, topLevelResponse.Data)

	dataBytes, err := json.Marshal(topLevelResponse.Data)
	require.NoError(t, err)

	var listResponse TransactionListResponse
	require.NoError(t, json.Unmarshal(dataBytes, &listResponse))
	return listResponse
}

func TestTransactionHandler_List(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		expected := []*transaction.Transaction{sampleStoredTransaction()}
		mockService.On("ListTransactions", mock.Anything, mock.MatchedBy(func(filter transaction.Filter) bool {
			return filter.Category == transaction.CategoryIncomingMoney && filter.Status == transaction.StatusCompleted
		}), 1, 20).Return(expected, nil)

		router := gin.Default()
		router.GET("/transactions", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/transactions?category=INCOMING_MONEY&status=COMPLETED", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		listResponse := decodeListResponse(t, rr.Body.Bytes())
		assert.Equal(t, 1, listResponse.Count)
		assert.Equal(t, "76662021700", listResponse.Transactions[0].TransactionID)
		assert.Equal(t, "2024-05-10 16:30:51", listResponse.Transactions[0].OccurredAt)
		mockService.AssertExpectations(t)
	})

	t.Run("DateRangeFilter", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		mockService.On("ListTransactions", mock.Anything, mock.MatchedBy(func(filter transaction.Filter) bool {
			return filter.StartDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) &&
				filter.EndDate.Equal(time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC))
		}), 1, 20).Return([]*transaction.Transaction{}, nil)

		router := gin.Default()
		router.GET("/transactions", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/transactions?start_date=2024-05-01&end_date=2024-05-31", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidStartDate", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)
		router := gin.Default()
		router.GET("/transactions", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/transactions?start_date=05-01-2024", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidPaginationParams", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)
		router := gin.Default()
		router.GET("/transactions", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/transactions?page=invalid", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)
		mockService.On("ListTransactions", mock.Anything, mock.Anything, 1, 20).Return(nil, errors.New("db error"))

		router := gin.Default()
		router.GET("/transactions", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/transactions", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestTransactionHandler_GetByID(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		expected := sampleStoredTransaction()
		mockService.On("GetTransactionByID", mock.Anything, "76662021700").Return(expected, nil)

		router := gin.Default()
		router.GET("/transactions/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/76662021700", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		require.NotNil(t, topLevelResponse.Data)

		dataBytes, err := json.Marshal(topLevelResponse.Data)
		require.NoError(t, err)
		var respBody TransactionResponse
		require.NoError(t, json.Unmarshal(dataBytes, &respBody))

		assert.Equal(t, expected.TransactionID, respBody.TransactionID)
		assert.Equal(t, string(expected.Category), respBody.Category)
		assert.Equal(t, expected.Amount, respBody.Amount)
		assert.Equal(t, expected.Sender, respBody.Sender)
		assert.Equal(t, expected.OccurredAt.Format(transaction.TimeLayout), respBody.OccurredAt)
		mockService.AssertExpectations(t)
	})

	t.Run("TransactionNotFound", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)
		mockService.On("GetTransactionByID", mock.Anything, "00000000000").Return(nil, nil)

		router := gin.Default()
		router.GET("/transactions/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/00000000000", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)
		mockService.On("GetTransactionByID", mock.Anything, "76662021700").Return(nil, errors.New("db error"))

		router := gin.Default()
		router.GET("/transactions/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/76662021700", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestTransactionHandler_Search(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		expected := []*transaction.Transaction{sampleStoredTransaction()}
		mockService.On("SearchTransactions", mock.Anything, "Jane", searchLimit).Return(expected, nil)

		router := gin.Default()
		router.GET("/transactions/search", handler.Search)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/search?q=Jane", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		listResponse := decodeListResponse(t, rr.Body.Bytes())
		assert.Equal(t, 1, listResponse.Count)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingQuery", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)
		router := gin.Default()
		router.GET("/transactions/search", handler.Search)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/search", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestTransactionHandler_Export(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("CSV", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		expected := []*transaction.Transaction{sampleStoredTransaction()}
		mockService.On("ExportTransactions", mock.Anything, mock.Anything).Return(expected, nil)

		router := gin.Default()
		router.GET("/transactions/export", handler.Export)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/export?format=csv", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")

		lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "transaction_id,category,amount,fee,sender,receiver,occurred_at,status,description", lines[0])
		assert.Contains(t, lines[1], "76662021700")
		assert.Contains(t, lines[1], "INCOMING_MONEY")
		assert.Contains(t, lines[1], "2024-05-10 16:30:51")
		mockService.AssertExpectations(t)
	})

	t.Run("JSONDefault", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		expected := []*transaction.Transaction{sampleStoredTransaction()}
		mockService.On("ExportTransactions", mock.Anything, mock.Anything).Return(expected, nil)

		router := gin.Default()
		router.GET("/transactions/export", handler.Export)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/export", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		listResponse := decodeListResponse(t, rr.Body.Bytes())
		assert.Equal(t, 1, listResponse.Count)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)
		router := gin.Default()
		router.GET("/transactions/export", handler.Export)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/export?format=xlsx", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})
}

var _ service.TransactionService = (*MockTransactionService)(nil)
