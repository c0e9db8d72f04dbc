package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unowned-ai/devlog/pkg/logs"
)

type errorBody struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{Error: message, StatusCode: status})
}

// abortWithStoreError maps store errors: missing logs are 404, bad input is 422 and
// anything else is logged and reported as 500.
func abortWithStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, logs.ErrLogNotFound):
		abortWithError(c, http.StatusNotFound, "Log not found")
	case logs.IsValidation(err):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		_ = c.Error(err)
		slog.Error("request failed",
			slog.String("request_id", c.GetString(RequestIDKey)),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
