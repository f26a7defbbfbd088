package handlers

import (
	"context"
	"net/http"
	"strconv"

	"numberhunt/models"
	"numberhunt/services"

	"github.com/gin-gonic/gin"
)

type LeaderboardService interface {
	Get(ctx context.Context, period string, limit int) (*services.Leaderboard, error)
	Recompute(ctx context.Context) error
	ReconcileUser(ctx context.Context, userID uint) (*models.User, error)
	ResetUser(ctx context.Context, userID uint) error
	History(ctx context.Context, userID uint, limit int) (*services.History, error)
	DetailedStats(ctx context.Context, userID uint) (*services.DetailedStats, error)
	GlobalStats(ctx context.Context) (*services.GlobalStats, error)
}

type LeaderboardHandler struct {
	leaderboardService LeaderboardService
}

func NewLeaderboardHandler(leaderboardService LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	period := c.DefaultQuery("period", models.PeriodAllTime)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultLeaderboardLimit)))

	board, err := h.leaderboardService.Get(c.Request.Context(), period, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

func (h *LeaderboardHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultHistoryLimit)))

	history, err := h.leaderboardService.History(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *LeaderboardHandler) DetailedStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.leaderboardService.DetailedStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *LeaderboardHandler) GlobalStats(c *gin.Context) {
	stats, err := h.leaderboardService.GlobalStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *LeaderboardHandler) Recompute(c *gin.Context) {
	if err := h.leaderboardService.Recompute(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *LeaderboardHandler) ReconcileUser(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}

	user, err := h.leaderboardService.ReconcileUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *LeaderboardHandler) ResetUser(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}

	if err := h.leaderboardService.ResetUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func userParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, services.ErrUserNotFound)
		return 0, false
	}
	return uint(id), true
}
