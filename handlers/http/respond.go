package httpHandler

import (
	"errors"
	"log/slog"
	"net/http"

	"financehub/usecases"

	"github.com/gin-gonic/gin"
)

// Error codes carried in the "error" field of failed responses.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeAlreadyReacted     = "already_reacted"
	CodeInternal           = "internal"
)

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   code,
		"message": message,
	})
}

func badRequest(c *gin.Context, err error) {
	abortWith(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
}

// fail maps a use case error onto a status and code.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecases.ErrValidation):
		abortWith(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	case errors.Is(err, usecases.ErrInvalidCredentials):
		abortWith(c, http.StatusUnauthorized, CodeInvalidCredentials, err.Error())
	case errors.Is(err, usecases.ErrUnauthorized):
		abortWith(c, http.StatusUnauthorized, CodeUnauthorized, err.Error())
	case errors.Is(err, usecases.ErrForbidden):
		abortWith(c, http.StatusForbidden, CodeForbidden, err.Error())
	case errors.Is(err, usecases.ErrNotFound):
		abortWith(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, usecases.ErrConflict):
		abortWith(c, http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, usecases.ErrAlreadyReacted):
		abortWith(c, http.StatusConflict, CodeAlreadyReacted, err.Error())
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		abortWith(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}
