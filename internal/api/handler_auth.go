package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"asset-tracking-backend/internal/apperr"
	"asset-tracking-backend/internal/auth"
	"asset-tracking-backend/internal/metrics"
	"asset-tracking-backend/internal/model"
	"asset-tracking-backend/internal/mw"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authenticate returns the active user owning the credentials, or nil.
func (h *Handler) authenticate(c *gin.Context, req credentialsRequest) (*model.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, nil
	}
	u, err := h.store.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	if !u.IsActive || !h.passwords.Verify(u.Password, req.Password) {
		return nil, nil
	}
	if err := h.store.TouchLastLogin(c.Request.Context(), u.ID, h.now()); err != nil {
		h.log.Warn("failed to record last login", zap.Int64("user_id", u.ID), zap.Error(err))
	}
	return u, nil
}

// Login handles POST /api/login/. Tokens carry the stored role and the username.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if !h.bind(c, &req) {
		return
	}

	u, err := h.authenticate(c, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if u == nil {
		metrics.LoginAttempts.WithLabelValues("login", "failure").Inc()
		h.fail(c, apperr.Unauthorized("Invalid credentials"))
		return
	}

	pair, err := h.tokens.IssuePair(u, auth.Extra{Role: string(u.Role), Username: u.Username})
	if err != nil {
		h.fail(c, err)
		return
	}
	metrics.LoginAttempts.WithLabelValues("login", "success").Inc()
	c.JSON(http.StatusOK, pair)
}

// ObtainToken handles POST /api/token/. Tokens carry the capitalized role.
func (h *Handler) ObtainToken(c *gin.Context) {
	var req credentialsRequest
	if !h.bind(c, &req) {
		return
	}

	fe := fieldErrors{}
	if req.Username == "" {
		fe.required("username")
	}
	if req.Password == "" {
		fe.required("password")
	}
	if err := fe.err(); err != nil {
		h.fail(c, err)
		return
	}

	u, err := h.authenticate(c, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if u == nil {
		metrics.LoginAttempts.WithLabelValues("token", "failure").Inc()
		h.fail(c, apperr.Unauthorized("No active account found with the given credentials"))
		return
	}

	pair, err := h.tokens.IssuePair(u, auth.Extra{Role: u.Role.Capitalized()})
	if err != nil {
		h.fail(c, err)
		return
	}
	metrics.LoginAttempts.WithLabelValues("token", "success").Inc()
	c.JSON(http.StatusOK, pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// RefreshToken handles POST /api/token/refresh/.
func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if !h.bind(c, &req) {
		return
	}

	access, err := h.tokens.Refresh(req.Refresh)
	if err != nil {
		h.fail(c, apperr.Unauthorized("Token is invalid or expired"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// Logout handles POST /api/logout/ by revoking the refresh token.
func (h *Handler) Logout(c *gin.Context) {
	var req refreshRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.tokens.Revoke(req.Refresh); err != nil {
		h.fail(c, apperr.Unauthorized("Token is invalid or expired"))
		return
	}
	c.Status(http.StatusResetContent)
}

// Profile handles GET /api/profile/.
func (h *Handler) Profile(c *gin.Context) {
	u := mw.Caller(c)
	c.JSON(http.StatusOK, gin.H{
		"username": u.Username,
		"email":    u.Email,
		"role":     u.Role,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles POST /api/change-password/.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !h.bind(c, &req) {
		return
	}

	u := mw.Caller(c)
	if !h.passwords.Verify(u.Password, req.CurrentPassword) {
		h.fail(c, apperr.Validation("Current password is incorrect"))
		return
	}
	if req.NewPassword == "" {
		h.fail(c, apperr.Validation("New password is required"))
		return
	}

	hash, err := h.passwords.Hash(req.NewPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.SetPassword(c.Request.Context(), u.ID, hash); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "Password changed successfully"})
}
