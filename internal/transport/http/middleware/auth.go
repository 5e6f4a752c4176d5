package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/levidang306/training-be/internal/infra/security"
	"github.com/levidang306/training-be/internal/usecase"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// TokenParser validates bearer tokens and returns the established claims.
type TokenParser interface {
	ParseAccessToken(token string) (*security.AccessTokenClaims, error)
}

// RequireAuth validates the Authorization header and stores the
// authenticated user id on the request context.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing access token"))
			return
		}

		claims, err := parser.ParseAccessToken(token)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrExpiredAccessToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "access token expired"))
			case errors.Is(err, security.ErrInvalidAccessToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "invalid access token"))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed"))
			}
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set("claims", claims)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = claims.UserID
		}

		c.Next()
	}
}

// AccessPolicy configures the per-route authorization gate. Clauses compose
// with OR semantics; OwnerParam names the route parameter whose value is
// compared against the authenticated user for the ownership short-circuit.
type AccessPolicy struct {
	Roles       []string
	Permissions []string
	MinimumRole string
	OwnerParam  string
}

// RequireAccess gates a route with the provided policy. Engine errors fail
// closed: the request is rejected with 503 and the error is logged, never
// treated as an allow.
func RequireAccess(engine *usecase.AccessService, log *zap.Logger, policy AccessPolicy) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		userID, ok := GetAuthenticatedUserID(c)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		req := usecase.AccessRequest{
			UserID:      userID,
			Roles:       policy.Roles,
			Permissions: policy.Permissions,
			MinimumRole: policy.MinimumRole,
		}

		if policy.OwnerParam != "" {
			req.ResourceOwnerID = c.Param(policy.OwnerParam)
		}

		decision, err := engine.Authorize(c.Request.Context(), req)
		if err != nil {
			log.Error("authorization check failed",
				zap.String("user_id", userID),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				newErrorResponse(c, "authorization unavailable"))
			return
		}

		if !decision.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, decision.Reason))
			return
		}

		c.Next()
	}
}

// GetAuthenticatedUserID retrieves the user ID from context (helper for handlers)
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}

	if id, ok := userID.(string); ok {
		return id, true
	}

	return "", false
}
