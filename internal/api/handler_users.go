package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"asset-tracking-backend/internal/accounts"
	"asset-tracking-backend/internal/model"
)

// ListUsers handles GET /api/users/.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, newUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

type createUserRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN EMPLOYEE TECHNICIAN"`
}

// CreateUser handles POST /api/users/.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if !h.bind(c, &req) {
		return
	}

	u, err := h.accounts.CreateUser(c.Request.Context(), accounts.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(u))
}
