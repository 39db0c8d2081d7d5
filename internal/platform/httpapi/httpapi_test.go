package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-pos/internal/platform/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", apperror.Validation("MISSING_NAME", "Product name is required"), http.StatusBadRequest, "MISSING_NAME", "Product name is required"},
		{"not found", apperror.NotFound("PRODUCT_NOT_FOUND", "Product not found"), http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found"},
		{"unauthorized", apperror.Unauthorized("Missing bearer token"), http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token"},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodGet, "/", "")
			WriteError(c, "TestOp", tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMsg, resp.Error)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestParseID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3", "1.5", ""} {
		c, _ := newContext(http.MethodGet, "/", "")
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, err := ParseID(c, "id")
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidID), "raw=%q", raw)
	}

	c, _ := newContext(http.MethodGet, "/", "")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, err := ParseID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParsePage(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, _ := newContext(http.MethodGet, "/products", "")
		limit, offset, err := ParsePage(c, 50, 100)
		require.NoError(t, err)
		assert.Equal(t, 50, limit)
		assert.Equal(t, 0, offset)
	})

	t.Run("capped", func(t *testing.T) {
		c, _ := newContext(http.MethodGet, "/products?limit=500&offset=20", "")
		limit, offset, err := ParsePage(c, 50, 100)
		require.NoError(t, err)
		assert.Equal(t, 100, limit)
		assert.Equal(t, 20, offset)
	})

	for _, q := range []string{"limit=0", "limit=abc", "offset=-1", "offset=x"} {
		t.Run("invalid "+q, func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "/products?"+q, "")
			_, _, err := ParsePage(c, 50, 100)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuery))
		})
	}
}

func TestBindJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	c, _ := newContext(http.MethodPost, "/", `{"name":"Rice"}`)
	require.NoError(t, BindJSON(c, &dst))
	assert.Equal(t, "Rice", dst.Name)

	c, _ = newContext(http.MethodPost, "/", `{"name":`)
	assert.True(t, apperror.HasCode(BindJSON(c, &dst), apperror.CodeInvalidRequest))
}
