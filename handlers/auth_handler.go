package handlers

import (
	"context"
	"net/http"

	"numberhunt/models"
	"numberhunt/services"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error)
	Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error)
	Profile(ctx context.Context, userID uint) (*services.Profile, error)
	UpdateProfile(ctx context.Context, userID uint, req *services.UpdateProfileRequest) (*models.User, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
