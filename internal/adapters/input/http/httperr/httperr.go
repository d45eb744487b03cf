// Package httperr renders domain errors as HttpErrorInfo responses, with
// the HTTP status mapped 1:1 from the error kind.
package httperr

import (
	"log/slog"
	"net/http"

	"product-composite/pkg/api"
	"product-composite/pkg/apierrors"
	"product-composite/pkg/logattr"

	"github.com/gin-gonic/gin"
)

func WriteError(c *gin.Context, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	switch {
	case apierrors.IsNotFound(err):
		status = http.StatusNotFound
	case apierrors.IsInvalidInput(err):
		status = http.StatusUnprocessableEntity
	default:
		logger.Error("request failed with unexpected error", logattr.Error(err.Error()), logattr.URL(c.Request.URL.Path))
	}
	logger.Debug("returning error response", logattr.Status(status), logattr.URL(c.Request.URL.Path), logattr.Error(err.Error()))
	c.AbortWithStatusJSON(status, api.NewHttpErrorInfo(status, c.Request.URL.Path, err.Error()))
}

// WriteBadRequest reports a malformed request (for example a non-numeric
// path parameter) before any domain logic runs.
func WriteBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, api.NewHttpErrorInfo(http.StatusBadRequest, c.Request.URL.Path, message))
}
