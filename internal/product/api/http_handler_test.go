package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-pos/internal/platform/apperror"
	"github.com/ridloal/retail-pos/internal/product/domain"
	"github.com/ridloal/retail-pos/internal/product/service/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *mocks.MockProductService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewProductHandler(svc).RegisterRoutes(r.Group("/api/v1"))
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

func TestListProducts(t *testing.T) {
	svc := new(mocks.MockProductService)
	r := newTestRouter(svc)

	t.Run("query parameters become a filter", func(t *testing.T) {
		active := false
		svc.On("ListProducts", mock.Anything, domain.ListFilter{
			Search: "rice", Category: "Grocery", IsActive: &active, Limit: 100, Offset: 10,
		}).Return([]domain.Product{{ID: 1, Name: "Rice", MRP: decimal.NewFromInt(60)}}, nil).Once()

		w := serve(r, http.MethodGet, "/api/v1/products?search=%20rice%20&category=Grocery&isActive=false&limit=250&offset=10", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"mrp":60`)
	})

	t.Run("bad isActive", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/v1/products?isActive=maybe", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidQuery, errorCode(t, w))
	})

	t.Run("bad limit", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/v1/products?limit=-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidQuery, errorCode(t, w))
	})

	t.Run("unexpected failure is generic", func(t *testing.T) {
		svc.On("ListProducts", mock.Anything, domain.ListFilter{Limit: 50}).Return(nil, errors.New("pool exhausted")).Once()

		w := serve(r, http.MethodGet, "/api/v1/products", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Internal server error","code":"INTERNAL_ERROR"}`, w.Body.String())
	})
	svc.AssertExpectations(t)
}

func TestCreateProduct(t *testing.T) {
	svc := new(mocks.MockProductService)
	r := newTestRouter(svc)

	t.Run("created", func(t *testing.T) {
		svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(req domain.CreateProductRequest) bool {
			return req.Name == "Rice" && string(req.MRP) == "60"
		}), (*int64)(nil)).Return(&domain.Product{ID: 101, Name: "Rice"}, nil).Once()

		w := serve(r, http.MethodPost, "/api/v1/products", `{"name":"Rice","category":"Grocery","mrp":60,"sellingPrice":55}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":101`)
	})

	t.Run("validation error keeps its code", func(t *testing.T) {
		svc.On("CreateProduct", mock.Anything, mock.Anything, (*int64)(nil)).
			Return(nil, apperror.Validation(domain.CodeMissingName, "Product name is required")).Once()

		w := serve(r, http.MethodPost, "/api/v1/products", `{"category":"Grocery"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.CodeMissingName, errorCode(t, w))
	})

	t.Run("malformed json", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/api/v1/products", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidRequest, errorCode(t, w))
	})
	svc.AssertExpectations(t)
}

func TestGetUpdateDeleteProduct(t *testing.T) {
	svc := new(mocks.MockProductService)
	r := newTestRouter(svc)
	notFound := apperror.NotFound(domain.CodeProductNotFound, "Product not found")

	t.Run("invalid id", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := serve(r, method, "/api/v1/products/abc", `{}`)
			assert.Equal(t, http.StatusBadRequest, w.Code, method)
			assert.Equal(t, apperror.CodeInvalidID, errorCode(t, w))
		}
	})

	t.Run("get not found", func(t *testing.T) {
		svc.On("GetProduct", mock.Anything, int64(9)).Return(nil, notFound).Once()

		w := serve(r, http.MethodGet, "/api/v1/products/9", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, domain.CodeProductNotFound, errorCode(t, w))
	})

	t.Run("update", func(t *testing.T) {
		svc.On("UpdateProduct", mock.Anything, int64(3), mock.MatchedBy(func(req domain.UpdateProductRequest) bool {
			return req.Name != nil && *req.Name == "Brown Rice"
		}), (*int64)(nil)).Return(&domain.Product{ID: 3, Name: "Brown Rice"}, nil).Once()

		w := serve(r, http.MethodPut, "/api/v1/products/3", `{"name":"Brown Rice"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Brown Rice"`)
	})

	t.Run("delete returns message and product", func(t *testing.T) {
		svc.On("DeleteProduct", mock.Anything, int64(3)).Return(&domain.Product{ID: 3, Name: "Brown Rice"}, nil).Once()

		w := serve(r, http.MethodDelete, "/api/v1/products/3", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Message string         `json:"message"`
			Product domain.Product `json:"product"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Product deleted successfully", resp.Message)
		assert.Equal(t, int64(3), resp.Product.ID)
	})

	t.Run("delete not found", func(t *testing.T) {
		svc.On("DeleteProduct", mock.Anything, int64(4)).Return(nil, notFound).Once()

		w := serve(r, http.MethodDelete, "/api/v1/products/4", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
	svc.AssertExpectations(t)
}

func TestListStockMovements(t *testing.T) {
	svc := new(mocks.MockProductService)
	r := newTestRouter(svc)

	svc.On("ListStockMovements", mock.Anything, int64(7), 5, 0).
		Return([]domain.StockMovement{{ID: 1, ProductID: 7, MovementType: domain.MovementSale, Quantity: decimal.NewFromInt(-2)}}, nil).Once()

	w := serve(r, http.MethodGet, "/api/v1/products/7/stock-movements?limit=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"movementType":"sale"`)
	assert.Contains(t, w.Body.String(), `"quantity":-2`)
	svc.AssertExpectations(t)
}
