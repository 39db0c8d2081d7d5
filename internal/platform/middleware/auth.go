package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ridloal/retail-pos/internal/platform/apperror"
	"github.com/ridloal/retail-pos/internal/platform/httpapi"
)

const userIDKey = "user_id"

// BearerAuth verifies HS256 tokens issued by the external identity provider.
// A numeric user_id claim is stored on the context for UserIDFrom.
func BearerAuth(secret string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	key := []byte(secret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			httpapi.WriteError(c, "BearerAuth", apperror.Unauthorized("Missing bearer token"))
			return
		}

		claims := jwt.MapClaims{}
		_, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil {
			httpapi.WriteError(c, "BearerAuth", apperror.Unauthorized("Invalid or expired token"))
			return
		}

		if id, err := userIDClaim(claims); err == nil {
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

func userIDClaim(claims jwt.MapClaims) (int64, error) {
	switch v := claims["user_id"].(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("user_id %v is not an integer", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("user_id claim missing")
	}
}

// UserIDFrom returns the authenticated user id, or nil when the request is
// anonymous or the token carried no numeric user_id.
func UserIDFrom(c *gin.Context) *int64 {
	v, ok := c.Get(userIDKey)
	if !ok {
		return nil
	}
	id, ok := v.(int64)
	if !ok {
		return nil
	}
	return &id
}
