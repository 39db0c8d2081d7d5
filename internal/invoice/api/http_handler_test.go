package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-pos/internal/invoice/domain"
	"github.com/ridloal/retail-pos/internal/invoice/service/mocks"
	"github.com/ridloal/retail-pos/internal/platform/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *mocks.MockInvoiceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewInvoiceHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestListInvoices(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	r := newTestRouter(svc)

	t.Run("query is passed through with paging defaults", func(t *testing.T) {
		svc.On("ListInvoices", mock.Anything, domain.ListQuery{
			StartDate: "2025-03-01", EndDate: "2025-03-07", CustomerPhone: "98765", Limit: 20,
		}).Return([]domain.Invoice{{ID: 1, InvoiceNumber: "KPS-20250307-001", GrandTotal: decimal.RequireFromString("122.85")}}, nil).Once()

		w := serve(r, http.MethodGet, "/api/v1/invoices?startDate=2025-03-01&endDate=2025-03-07&customerPhone=98765", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"grandTotal":122.85`)
		assert.NotContains(t, w.Body.String(), `"items"`)
	})

	t.Run("limit is capped", func(t *testing.T) {
		svc.On("ListInvoices", mock.Anything, domain.ListQuery{Limit: 100, Offset: 40}).Return([]domain.Invoice{}, nil).Once()

		w := serve(r, http.MethodGet, "/api/v1/invoices?limit=500&offset=40", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("bad date", func(t *testing.T) {
		svc.On("ListInvoices", mock.Anything, domain.ListQuery{StartDate: "yesterday", Limit: 20}).
			Return(nil, apperror.Validation(domain.CodeInvalidDate, "startDate must be YYYY-MM-DD")).Once()

		w := serve(r, http.MethodGet, "/api/v1/invoices?startDate=yesterday", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.CodeInvalidDate, errorCode(t, w))
	})

	t.Run("bad offset", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/v1/invoices?offset=x", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidQuery, errorCode(t, w))
	})

	svc.AssertExpectations(t)
}

func TestCreateInvoice(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	r := newTestRouter(svc)
	body := `{"items":[{"productId":1,"productName":"Basmati Rice","quantity":2,"price":50,"lineTotal":100}],"subtotal":100,"grandTotal":100}`

	t.Run("created", func(t *testing.T) {
		svc.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(req domain.CreateInvoiceRequest) bool {
			return len(req.Items) == 1 && req.Items[0].ProductName == "Basmati Rice"
		}), (*int64)(nil)).Return(&domain.Invoice{
			ID: 7, InvoiceNumber: "KPS-20250307-001",
			Items: []domain.InvoiceItem{{ID: 1, InvoiceID: 7, ProductName: "Basmati Rice"}},
		}, nil).Once()

		w := serve(r, http.MethodPost, "/api/v1/invoices", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		var got domain.Invoice
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "KPS-20250307-001", got.InvoiceNumber)
		assert.Len(t, got.Items, 1)
	})

	t.Run("validation error keeps its code", func(t *testing.T) {
		svc.On("CreateInvoice", mock.Anything, mock.Anything, (*int64)(nil)).
			Return(nil, apperror.Validation(domain.CodeEmptyItems, "Items array cannot be empty")).Once()

		w := serve(r, http.MethodPost, "/api/v1/invoices", `{"items":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.CodeEmptyItems, errorCode(t, w))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/api/v1/invoices", `{"items":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidRequest, errorCode(t, w))
	})

	t.Run("storage failure is generic", func(t *testing.T) {
		svc.On("CreateInvoice", mock.Anything, mock.Anything, (*int64)(nil)).Return(nil, errors.New("tx aborted")).Once()

		w := serve(r, http.MethodPost, "/api/v1/invoices", body)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apperror.CodeInternal, errorCode(t, w))
		assert.NotContains(t, w.Body.String(), "tx aborted")
	})

	svc.AssertExpectations(t)
}

func TestGetInvoice(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	r := newTestRouter(svc)

	svc.On("GetInvoice", mock.Anything, int64(7)).Return(&domain.Invoice{ID: 7, Items: []domain.InvoiceItem{}}, nil).Once()
	svc.On("GetInvoice", mock.Anything, int64(8)).Return(nil, apperror.NotFound(domain.CodeInvoiceNotFound, "Invoice not found")).Once()

	w := serve(r, http.MethodGet, "/api/v1/invoices/7", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/invoices/8", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, domain.CodeInvoiceNotFound, errorCode(t, w))

	for _, id := range []string{"abc", "0", "-3"} {
		w = serve(r, http.MethodGet, "/api/v1/invoices/"+id, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, apperror.CodeInvalidID, errorCode(t, w))
	}
	svc.AssertExpectations(t)
}
