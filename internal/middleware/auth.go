package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
)

const userIDKey = "user_id"

// Authenticate resolves the caller from "Authorization: Bearer <jwt>" (the
// "Token" scheme is accepted too). Requests without the header pass through
// anonymously; a malformed or invalid header is rejected.
func Authenticate(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		authenticate(c, tokens, header)
	}
}

// RequireAuth rejects anonymous callers. It runs after Authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == 0 {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or 0 for anonymous callers.
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func authenticate(c *gin.Context, tokens *jwt.Service, header string) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
		return
	}
	scheme := strings.ToLower(parts[0])
	if scheme != "bearer" && scheme != "token" {
		response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
		return
	}

	tokenStr := strings.TrimSpace(parts[1])
	if tokenStr == "" {
		response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Empty token")
		return
	}

	claims, err := tokens.ValidateToken(tokenStr)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
		return
	}

	c.Set(userIDKey, claims.UserID)
	c.Next()
}
