// Package api implements the HTTP API surface (§6): thin gin handler
// structs constructed with the services they call, grounded on the
// teacher's internal/handlers package (NewAccountHandler(commonServices),
// CommonServices, sendError/sendSuccess) generalized to this core's
// order/payment/automation domain.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/logger"
)

// ErrorDetail is the error body shape §7 specifies: {detail: <string>}.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// respondError type-switches a tagged error kind from internal/errors
// into the HTTP status §7 assigns it, logging along the way.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	switch apierrors.Cause(err).(type) {
	case *apierrors.ValidationError:
		status = http.StatusBadRequest
	case *apierrors.NotFoundError:
		status = http.StatusNotFound
	case *apierrors.AuthError:
		status = http.StatusUnauthorized
	case *apierrors.ConflictError:
		status = http.StatusConflict
	}

	logger.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", status),
		zap.String("correlation_id", CorrelationIDFromContext(c.Request.Context())),
		zap.Error(err),
	)
	c.JSON(status, ErrorDetail{Detail: err.Error()})
}

func sendSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
