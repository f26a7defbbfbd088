package handlers

import (
	"context"
	"net/http"
	"strconv"

	"numberhunt/services"

	"github.com/gin-gonic/gin"
)

type QuestionService interface {
	ListPool(ctx context.Context, includeInactive bool) (*services.Pool, error)
	CreateQuestion(ctx context.Context, req *services.CreateQuestionRequest) (interface{}, error)
	SetActive(ctx context.Context, id uint, decoy, active bool) error
}

type QuestionHandler struct {
	questionService QuestionService
}

func NewQuestionHandler(questionService QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (h *QuestionHandler) ListPool(c *gin.Context) {
	pool, err := h.questionService.ListPool(c.Request.Context(), c.Query("all") == "true")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pool)
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	created, err := h.questionService.CreateQuestion(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
	Decoy    bool  `json:"decoy"`
}

func (h *QuestionHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, services.ErrQuestionNotFound)
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.questionService.SetActive(c.Request.Context(), uint(id), req.Decoy, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
