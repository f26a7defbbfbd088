package handlers

import (
	"context"
	"net/http"

	"numberhunt/middleware"
	"numberhunt/models"
	"numberhunt/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoomService interface {
	CreateRoom(ctx context.Context, userID uint, req *services.CreateRoomRequest) (*services.RoomDetail, error)
	GetRoom(ctx context.Context, roomID uuid.UUID, userID uint) (*services.RoomDetail, error)
	ListRooms(ctx context.Context, userID uint) ([]services.RoomDetail, error)
	UserRooms(ctx context.Context, userID uint) (*services.UserRooms, error)
	CheckReconnection(ctx context.Context, userID uint) (*services.Reconnection, error)
	Join(ctx context.Context, roomID uuid.UUID, userID uint, nickname string) (*models.Player, bool, error)
	JoinByCode(ctx context.Context, code string, userID uint, nickname string) (*models.Player, bool, error)
	Leave(ctx context.Context, roomID uuid.UUID, userID uint) error
	TouchActivity(ctx context.Context, roomID uuid.UUID, userID uint) error
	CloseRoom(ctx context.Context, roomID uuid.UUID, userID uint, isAdmin bool) error
	DeleteRoom(ctx context.Context, roomID uuid.UUID, isAdmin bool) error
}

type RoomHandler struct {
	roomService RoomService
}

func NewRoomHandler(roomService RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	rooms, err := h.roomService.ListRooms(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) MyRooms(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	rooms, err := h.roomService.UserRooms(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) CheckReconnection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	reconnect, err := h.roomService.CheckReconnection(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reconnect)
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), roomID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	// The body is optional; a missing nickname falls back to the username.
	var req services.JoinRoomRequest
	_ = c.ShouldBindJSON(&req)

	player, created, err := h.roomService.Join(c.Request.Context(), roomID, userID, req.Nickname)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"player": player, "reconnected": !created})
}

func (h *RoomHandler) JoinByCode(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.JoinByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	player, created, err := h.roomService.JoinByCode(c.Request.Context(), req.RoomCode, userID, req.Nickname)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"player": player, "room_id": player.RoomID, "reconnected": !created})
}

func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	if err := h.roomService.Leave(c.Request.Context(), roomID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *RoomHandler) UpdateActivity(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	if err := h.roomService.TouchActivity(c.Request.Context(), roomID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *RoomHandler) CloseRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	if err := h.roomService.CloseRoom(c.Request.Context(), roomID, userID, c.GetBool(middleware.ContextIsAdmin)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := roomParam(c)
	if !ok {
		return
	}

	if err := h.roomService.DeleteRoom(c.Request.Context(), roomID, c.GetBool(middleware.ContextIsAdmin)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
