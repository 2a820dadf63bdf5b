package httpHandler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"financehub/auth"
	"financehub/usecases"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// RequireAPIKey checks the apikey header against the configured public key.
// An empty key disables the check.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader("apikey")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			abortWith(c, http.StatusUnauthorized, CodeUnauthorized, "invalid API key")
			return
		}
		c.Next()
	}
}

// RequireSession resolves the bearer token and stores its claims on the
// context.
func RequireSession(uc *usecases.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortWith(c, http.StatusUnauthorized, CodeUnauthorized, "missing bearer token")
			return
		}
		claims, err := uc.Authenticate(c.Request.Context(), token)
		if err != nil {
			fail(c, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// claimsFrom must only be used behind RequireSession.
func claimsFrom(c *gin.Context) *auth.Claims {
	v, _ := c.Get(claimsKey)
	claims, _ := v.(*auth.Claims)
	return claims
}
