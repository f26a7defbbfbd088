package handlers

import (
	"context"
	"net/http"
	"strconv"

	"numberhunt/models"
	"numberhunt/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GameService interface {
	StartGame(ctx context.Context, roomID uuid.UUID, userID uint) (*models.Round, error)
	CurrentRound(ctx context.Context, roomID uuid.UUID, userID uint) (*services.RoundView, error)
	SubmitAnswer(ctx context.Context, roomID uuid.UUID, userID uint, value int) (*services.AnswerReceipt, error)
	StartVoting(ctx context.Context, roomID uuid.UUID, userID uint) error
	SubmitVote(ctx context.Context, roomID uuid.UUID, userID uint, accusedID uint) (*services.VoteReceipt, error)
	RoundResults(ctx context.Context, roomID uuid.UUID, userID uint, roundNumber int) (*services.RoundResults, error)
	Advance(ctx context.Context, roomID uuid.UUID, userID uint) (*services.AdvanceResult, error)
	RecentEvents(ctx context.Context, roomID uuid.UUID, userID uint, limit int) ([]models.Event, error)
}

type GameHandler struct {
	gameService GameService
}

func NewGameHandler(gameService GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) StartGame(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	round, err := h.gameService.StartGame(c.Request.Context(), roomID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "round_number": round.Number})
}

func (h *GameHandler) CurrentRound(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	view, err := h.gameService.CurrentRound(c.Request.Context(), roomID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	receipt, err := h.gameService.SubmitAnswer(c.Request.Context(), roomID, userID, *req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

func (h *GameHandler) StartVoting(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	if err := h.gameService.StartVoting(c.Request.Context(), roomID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *GameHandler) SubmitVote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	var req services.SubmitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	receipt, err := h.gameService.SubmitVote(c.Request.Context(), roomID, userID, req.AccusedID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

func (h *GameHandler) RoundResults(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	roundNumber := 0
	if raw := c.Query("round"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c)
			return
		}
		roundNumber = n
	}

	results, err := h.gameService.RoundResults(c.Request.Context(), roomID, userID, roundNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *GameHandler) Continue(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	result, err := h.gameService.Advance(c.Request.Context(), roomID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) RecentEvents(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultEventLimit)))

	events, err := h.gameService.RecentEvents(c.Request.Context(), roomID, userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}
