// Package httpapi holds the request parsing and error response helpers shared by
// the gin handlers.
package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-pos/internal/platform/apperror"
	"github.com/ridloal/retail-pos/internal/platform/logger"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteError renders err. Classified errors keep their code and message;
// anything else is logged under op and reported as a generic 500.
func WriteError(c *gin.Context, op string, err error) {
	if appErr, ok := apperror.As(err); ok {
		status := http.StatusBadRequest
		switch appErr.Kind {
		case apperror.KindNotFound:
			status = http.StatusNotFound
		case apperror.KindUnauthorized:
			status = http.StatusUnauthorized
		}
		c.AbortWithStatusJSON(status, ErrorResponse{Error: appErr.Message, Code: appErr.Code})
		return
	}

	logger.Error(op+": unexpected error", err, "request_id", c.GetString(RequestIDKey))
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: "Internal server error",
		Code:  apperror.CodeInternal,
	})
}

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation(apperror.CodeInvalidID, "Invalid %s", name)
	}
	return id, nil
}

// ParsePage reads limit and offset query parameters. An absent limit means
// defaultLimit and larger values are capped at maxLimit.
func ParsePage(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int, err error) {
	limit = defaultLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, apperror.Validation(apperror.CodeInvalidQuery, "limit must be a positive integer")
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, apperror.Validation(apperror.CodeInvalidQuery, "offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

// BindJSON decodes the request body into dst.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation(apperror.CodeInvalidRequest, "Request body is required")
		}
		return apperror.Validation(apperror.CodeInvalidRequest, "Malformed JSON body")
	}
	return nil
}
