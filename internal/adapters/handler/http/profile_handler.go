package http

import (
	"net/http"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/services"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type profileRequest struct {
	Username    string       `json:"username"`
	DateOfBirth *domain.Date `json:"date_of_birth"`
}

type changeEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.Get)
	router.PUT("/profile", h.Update)

	account := router.Group("/account")
	{
		account.PUT("/email", h.ChangeEmail)
		account.PUT("/password", h.ChangePassword)
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), services.UpdateProfileInput{
		UserID:      userID,
		Username:    req.Username,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) ChangeEmail(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req changeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.ChangeEmail(c.Request.Context(), userID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.svc.ChangePassword(c.Request.Context(), services.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
