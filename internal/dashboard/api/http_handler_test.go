package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-pos/internal/dashboard/domain"
	"github.com/ridloal/retail-pos/internal/dashboard/service/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *mocks.MockDashboardService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewDashboardHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGetStats(t *testing.T) {
	svc := new(mocks.MockDashboardService)
	r := newTestRouter(svc)

	svc.On("GetStats", mock.Anything).Return(&domain.Stats{
		DailySales:       decimal.RequireFromString("122.85"),
		TotalProducts:    12,
		LowStockProducts: 3,
		RecentInvoices:   []domain.InvoiceSummary{{ID: 1, InvoiceNumber: "KPS-20250307-001"}},
	}, nil).Once()

	w := get(r, "/api/v1/dashboard/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.DailySales.Equal(decimal.RequireFromString("122.85")))
	assert.Equal(t, int64(12), got.TotalProducts)
	assert.Equal(t, int64(3), got.LowStockProducts)
	require.Len(t, got.RecentInvoices, 1)
	assert.Equal(t, "KPS-20250307-001", got.RecentInvoices[0].InvoiceNumber)
	svc.AssertExpectations(t)
}

func TestGetAnalytics(t *testing.T) {
	svc := new(mocks.MockDashboardService)
	r := newTestRouter(svc)

	svc.On("GetAnalytics", mock.Anything).Return(&domain.Analytics{
		DailySales:      []domain.DailySales{{Date: "2025-03-07", Sales: decimal.Zero}},
		SalesByCategory: []domain.CategorySales{},
		TopProducts:     []domain.ProductRevenue{},
	}, nil).Once()
	svc.On("GetAnalytics", mock.Anything).Return(nil, errors.New("db down")).Once()

	w := get(r, "/api/v1/dashboard/analytics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"salesByCategory":[]`)
	assert.Contains(t, w.Body.String(), `"date":"2025-03-07"`)

	w = get(r, "/api/v1/dashboard/analytics")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error","code":"INTERNAL_ERROR"}`, w.Body.String())
	svc.AssertExpectations(t)
}
