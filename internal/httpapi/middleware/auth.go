package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/loggpt/components-room/internal/auth"
	"github.com/loggpt/components-room/internal/common"
	"github.com/loggpt/components-room/internal/models"
)

const (
	userKey   = "current_user"
	claimsKey = "token_claims"
)

// TokenRevoker checks whether a token id was revoked at logout. A nil
// revoker (redis disabled) skips the check.
type TokenRevoker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func resolveUser(c *gin.Context, db *gorm.DB, secret string, revoker TokenRevoker) (*models.User, *auth.Claims, int, string) {
	token := bearerToken(c)
	if token == "" {
		return nil, nil, 40100, "missing bearer token"
	}

	claims, err := auth.ParseTokenOfType(token, secret, auth.TokenTypeAccess)
	if err != nil {
		return nil, nil, 40101, "invalid or expired token"
	}

	if revoker != nil {
		revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			return nil, nil, 50001, "token store error"
		}
		if revoked {
			return nil, nil, 40102, "token has been revoked"
		}
	}

	var user models.User
	if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
		return nil, nil, 40103, "user not found"
	}
	if !user.IsActive {
		return nil, nil, 40301, "account is disabled"
	}
	return &user, claims, 0, ""
}

func AuthRequired(db *gorm.DB, secret string, revoker TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, code, msg := resolveUser(c, db, secret, revoker)
		if code != 0 {
			status := http.StatusUnauthorized
			switch {
			case code == 40301:
				status = http.StatusForbidden
			case code >= 50000:
				status = http.StatusInternalServerError
			}
			common.Fail(c, status, code, msg)
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is presented and lets the
// request through anonymously otherwise. Chat uses it so the kiosk can talk
// to the assistant without an account.
func OptionalAuth(db *gorm.DB, secret string, revoker TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, claims, code, _ := resolveUser(c, db, secret, revoker); code == 0 {
			c.Set(userKey, user)
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			common.Fail(c, http.StatusForbidden, 40302, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
