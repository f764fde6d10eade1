package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDHeader carries a caller-supplied or server-generated
// request id across the request/response boundary, adapted from the
// teacher's libs/go/middleware.CorrelationIDMiddleware.
const CorrelationIDHeader = "X-Correlation-ID"

type correlationIDKey struct{}

// CorrelationID stamps every request and response with a correlation
// id and attaches it to the request context so handler-level errors
// logged via respondError can be traced back to the originating call.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(CorrelationIDHeader, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), correlationIDKey{}, id))
		c.Next()
	}
}

// CorrelationIDFromContext retrieves the id CorrelationID attached, or
// "" outside a request carrying one.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}
