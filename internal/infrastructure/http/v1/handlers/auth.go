package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain"
	"stockpilot/internal/domain/auth"
	"stockpilot/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves authentication and profile endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := h.ActingUserID(c)
	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, user)
}

// ChangePassword handles POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID := h.ActingUserID(c)
	if err := h.service.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "password changed")
}

// Register handles POST /profiles
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.ToAuthRequest())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, user.ID)
}

// GetProfile handles GET /profiles/:id
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, user)
}

// UpdateProfile handles PUT /profiles/:id
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(user)
	if err := h.service.UpdateProfile(c.Request.Context(), user); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, user)
}

// DeleteProfile handles DELETE /profiles/:id
func (h *AuthHandler) DeleteProfile(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProfile(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ListProfiles handles GET /profiles
func (h *AuthHandler) ListProfiles(c *gin.Context) {
	filter := domain.ListFilter{
		Search:  c.Query("search"),
		OrderBy: c.Query("orderBy"),
		Limit:   h.ParseIntQuery(c, "limit", 50),
		Offset:  h.ParseIntQuery(c, "offset", 0),
	}

	result, err := h.service.ListProfiles(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Paginated(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}
