package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID  = "userID"
	ContextEmail   = "email"
	ContextIsAdmin = "isAdmin"
)

// ReporterKeyHeader carries the shared secret of telemetry reporters
const ReporterKeyHeader = "X-Reporter-Key"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService  *auth.JWTService
	reporterKey string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, reporterKey string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		reporterKey: reporterKey,
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
					WithDetails("Authorization header missing"),
			))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
					WithDetails("Invalid token format"),
			))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(details),
			))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextIsAdmin, claims.IsAdmin)

		c.Next()
	}
}

// AdminRequired rejects callers whose token lacks the admin claim. Must run after JWTAuth.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
					WithDetails("Administrator rights required"),
			))
			return
		}
		c.Next()
	}
}

// ReporterAuth accepts telemetry reporters presenting the shared key.
// With no key configured every report is rejected.
func (m *AuthMiddleware) ReporterAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader(ReporterKeyHeader)
		if m.reporterKey == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(m.reporterKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInvalidReporterKey, "Invalid reporter key"),
			))
			return
		}
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user id set by JWTAuth
func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}
