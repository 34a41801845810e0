package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/services"
)

// Context keys set by the middleware for downstream handlers.
const (
	ContextClaims    = "claims"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// RoleDoctor is the role the doctor views require. Kept separate from the
// signup default so changing one never silently changes the other.
const RoleDoctor = "Doctor"

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*services.Claims, error)
}

type JWTMiddleware struct {
	jwtService TokenValidator
}

func NewJWTMiddleware(jwtService TokenValidator) *JWTMiddleware {
	return &JWTMiddleware{jwtService: jwtService}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Msg: "Authorization header missing"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("Invalid token", "error", err)
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Msg: "Invalid token", Error: err.Error()})
			c.Abort()
			return
		}

		m.setIdentity(c, claims)
		c.Next()
	}
}

// RequireDoctor rejects requests unless the token carries the Doctor role.
// The role is checked before the handler chain runs, so a non-doctor token
// never reaches the protected endpoint.
func (m *JWTMiddleware) RequireDoctor() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Msg: "Authorization header missing"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("Invalid token", "error", err)
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Msg: "Invalid token", Error: err.Error()})
			c.Abort()
			return
		}

		if claims.Role != RoleDoctor {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Msg: "Forbidden"})
			c.Abort()
			return
		}

		m.setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets the request through either way. Used by /predict: an invalid
// token only drops the ownership tagging, never the prediction.
func (m *JWTMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := m.extractToken(c); token != "" {
			if claims, err := m.jwtService.ValidateToken(token); err == nil {
				m.setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func (m *JWTMiddleware) setIdentity(c *gin.Context, claims *services.Claims) {
	c.Set(ContextClaims, claims)
	c.Set(ContextUserEmail, claims.Email)
	c.Set(ContextUserRole, claims.Role)
}

func (m *JWTMiddleware) extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if bearerToken != "" {
		tokenParts := strings.Split(bearerToken, " ")
		if len(tokenParts) == 2 && strings.ToLower(tokenParts[0]) == "bearer" {
			return strings.TrimSpace(tokenParts[1])
		}
	}
	return ""
}
