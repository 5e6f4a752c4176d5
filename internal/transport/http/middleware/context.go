package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceIDHeader carries the request trace ID in and out.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the gin context key holding the trace ID.
	TraceIDKey = "trace_id"
	// UserIDKey is the gin context key holding the authenticated user ID.
	UserIDKey = "user_id"

	requestContextKey = "request_context"
)

// RequestContext bundles the per-request metadata the access log and audit
// trail read back later.
type RequestContext struct {
	TraceID   string
	UserID    string
	IP        string
	UserAgent string
}

// EnrichContext stamps every request with a trace ID, honoring one supplied
// by the caller, and stores the request metadata for downstream middleware.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		c.Set(requestContextKey, &RequestContext{
			TraceID:   traceID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})

		c.Next()
	}
}

// GetTraceID returns the request's trace ID, or "" outside EnrichContext.
func GetTraceID(c *gin.Context) string {
	if traceID, exists := c.Get(TraceIDKey); exists {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return ""
}

// GetRequestContext returns the stored request metadata. Never nil.
func GetRequestContext(c *gin.Context) *RequestContext {
	if ctx, exists := c.Get(requestContextKey); exists {
		if reqCtx, ok := ctx.(*RequestContext); ok {
			return reqCtx
		}
	}
	return &RequestContext{}
}
