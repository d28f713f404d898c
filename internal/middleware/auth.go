// ===============================
// internal/middleware/auth.go - Firebase Auth Middleware
// ===============================

package middleware

import (
	"context"
	"net/http"
	"strings"

	"gaddiyalibe/internal/logging"
	"gaddiyalibe/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by FirebaseAuth.
const (
	ContextUserID   = "userID"
	ContextIdentity = "identity"
)

// Authenticator turns a bearer token into the signed-in identity.
type Authenticator interface {
	Authenticate(ctx context.Context, idToken string) (*models.Identity, error)
}

// FirebaseAuth rejects requests without a valid bearer token and stores the
// verified identity on the context.
func FirebaseAuth(authenticator Authenticator, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if authenticator == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication is not configured"})
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			return
		}

		identity, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil || identity.IsZero() {
			logging.WithContext(c.Request.Context(), logger).Debug("token rejected", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, identity.UID)
		c.Set(ContextIdentity, identity)
		c.Request = c.Request.WithContext(logging.WithUserID(c.Request.Context(), identity.UID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		c.Abort()
		return "", false
	}

	// Extract token from "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		c.Abort()
		return "", false
	}
	return tokenParts[1], true
}

// CurrentIdentity returns the identity set by FirebaseAuth, or nil.
func CurrentIdentity(c *gin.Context) *models.Identity {
	value, ok := c.Get(ContextIdentity)
	if !ok {
		return nil
	}
	identity, _ := value.(*models.Identity)
	return identity
}
