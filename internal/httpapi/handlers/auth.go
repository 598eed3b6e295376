package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loggpt/components-room/internal/auth"
	"github.com/loggpt/components-room/internal/common"
	"github.com/loggpt/components-room/internal/httpapi/middleware"
	"github.com/loggpt/components-room/internal/models"
)

type registerReq struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
	StudentID  *string `json:"student_id"`
}

type tokenPairResp struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	User         *models.User `json:"user"`
}

func (h *Handler) tokenPair(user *models.User) (*tokenPairResp, error) {
	access, refresh, err := auth.NewTokenPair(
		user.ID, user.Email, user.Role,
		h.Cfg.JWTSecret, h.Cfg.AccessTokenTTL, h.Cfg.RefreshTokenTTL,
	)
	if err != nil {
		return nil, err
	}
	return &tokenPairResp{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		User:         user,
	}, nil
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "email, password and name required")
		return
	}
	if len(req.Password) < 6 {
		common.Fail(c, http.StatusBadRequest, 10003, "password must be at least 6 characters")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		common.Fail(c, http.StatusBadRequest, 10004, "role must be admin or student")
		return
	}

	var cnt int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&cnt).Error; err != nil {
		failErr(c, err)
		return
	}
	if cnt > 0 {
		common.Fail(c, http.StatusConflict, 10005, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         role,
		Department:   req.Department,
		StudentID:    req.StudentID,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		common.Fail(c, http.StatusConflict, 10005, "email already registered")
		return
	}

	resp, err := h.tokenPair(&user)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to sign token")
		return
	}
	common.Created(c, resp)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		common.Fail(c, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}
	if !user.IsActive {
		common.Fail(c, http.StatusForbidden, 40301, "account is disabled")
		return
	}

	resp, err := h.tokenPair(&user)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to sign token")
		return
	}
	common.OK(c, resp)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		common.Fail(c, http.StatusBadRequest, 10001, "refresh_token required")
		return
	}

	claims, err := auth.ParseTokenOfType(req.RefreshToken, h.Cfg.JWTSecret, auth.TokenTypeRefresh)
	if err != nil {
		common.Fail(c, http.StatusUnauthorized, 40111, "invalid or expired refresh token")
		return
	}

	if h.Redis != nil {
		revoked, err := h.Redis.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			common.Fail(c, http.StatusInternalServerError, 50003, "token store error")
			return
		}
		if revoked {
			common.Fail(c, http.StatusUnauthorized, 40112, "token has been revoked")
			return
		}
	}

	var user models.User
	if err := h.DB.First(&user, claims.UserID).Error; err != nil {
		common.Fail(c, http.StatusUnauthorized, 40113, "user not found")
		return
	}
	if !user.IsActive {
		common.Fail(c, http.StatusForbidden, 40301, "account is disabled")
		return
	}

	resp, err := h.tokenPair(&user)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to sign token")
		return
	}
	common.OK(c, resp)
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "not authenticated")
		return
	}
	common.OK(c, user)
}

// Logout revokes the presented access token until its natural expiry. Without
// redis the token simply ages out.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40100, "not authenticated")
		return
	}

	if h.Redis != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := h.Redis.RevokeToken(c.Request.Context(), claims.ID, ttl); err != nil {
			common.Fail(c, http.StatusInternalServerError, 50003, "token store error")
			return
		}
	}
	common.OK(c, gin.H{"message": "logged out"})
}
