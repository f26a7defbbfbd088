package handlers

import (
	"context"

	"numberhunt/models"
	"numberhunt/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*services.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*services.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Profile(ctx context.Context, userID uint) (*services.Profile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*services.Profile)
	return profile, args.Error(1)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID uint, req *services.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type mockRoomService struct{ mock.Mock }

func (m *mockRoomService) CreateRoom(ctx context.Context, userID uint, req *services.CreateRoomRequest) (*services.RoomDetail, error) {
	args := m.Called(ctx, userID, req)
	room, _ := args.Get(0).(*services.RoomDetail)
	return room, args.Error(1)
}

func (m *mockRoomService) GetRoom(ctx context.Context, roomID uuid.UUID, userID uint) (*services.RoomDetail, error) {
	args := m.Called(ctx, roomID, userID)
	room, _ := args.Get(0).(*services.RoomDetail)
	return room, args.Error(1)
}

func (m *mockRoomService) ListRooms(ctx context.Context, userID uint) ([]services.RoomDetail, error) {
	args := m.Called(ctx, userID)
	rooms, _ := args.Get(0).([]services.RoomDetail)
	return rooms, args.Error(1)
}

func (m *mockRoomService) UserRooms(ctx context.Context, userID uint) (*services.UserRooms, error) {
	args := m.Called(ctx, userID)
	rooms, _ := args.Get(0).(*services.UserRooms)
	return rooms, args.Error(1)
}

func (m *mockRoomService) CheckReconnection(ctx context.Context, userID uint) (*services.Reconnection, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).(*services.Reconnection)
	return r, args.Error(1)
}

func (m *mockRoomService) Join(ctx context.Context, roomID uuid.UUID, userID uint, nickname string) (*models.Player, bool, error) {
	args := m.Called(ctx, roomID, userID, nickname)
	player, _ := args.Get(0).(*models.Player)
	return player, args.Bool(1), args.Error(2)
}

func (m *mockRoomService) JoinByCode(ctx context.Context, code string, userID uint, nickname string) (*models.Player, bool, error) {
	args := m.Called(ctx, code, userID, nickname)
	player, _ := args.Get(0).(*models.Player)
	return player, args.Bool(1), args.Error(2)
}

func (m *mockRoomService) Leave(ctx context.Context, roomID uuid.UUID, userID uint) error {
	return m.Called(ctx, roomID, userID).Error(0)
}

func (m *mockRoomService) TouchActivity(ctx context.Context, roomID uuid.UUID, userID uint) error {
	return m.Called(ctx, roomID, userID).Error(0)
}

func (m *mockRoomService) CloseRoom(ctx context.Context, roomID uuid.UUID, userID uint, isAdmin bool) error {
	return m.Called(ctx, roomID, userID, isAdmin).Error(0)
}

func (m *mockRoomService) DeleteRoom(ctx context.Context, roomID uuid.UUID, isAdmin bool) error {
	return m.Called(ctx, roomID, isAdmin).Error(0)
}

type mockGameService struct{ mock.Mock }

func (m *mockGameService) StartGame(ctx context.Context, roomID uuid.UUID, userID uint) (*models.Round, error) {
	args := m.Called(ctx, roomID, userID)
	round, _ := args.Get(0).(*models.Round)
	return round, args.Error(1)
}

func (m *mockGameService) CurrentRound(ctx context.Context, roomID uuid.UUID, userID uint) (*services.RoundView, error) {
	args := m.Called(ctx, roomID, userID)
	view, _ := args.Get(0).(*services.RoundView)
	return view, args.Error(1)
}

func (m *mockGameService) SubmitAnswer(ctx context.Context, roomID uuid.UUID, userID uint, value int) (*services.AnswerReceipt, error) {
	args := m.Called(ctx, roomID, userID, value)
	receipt, _ := args.Get(0).(*services.AnswerReceipt)
	return receipt, args.Error(1)
}

func (m *mockGameService) StartVoting(ctx context.Context, roomID uuid.UUID, userID uint) error {
	return m.Called(ctx, roomID, userID).Error(0)
}

func (m *mockGameService) SubmitVote(ctx context.Context, roomID uuid.UUID, userID uint, accusedID uint) (*services.VoteReceipt, error) {
	args := m.Called(ctx, roomID, userID, accusedID)
	receipt, _ := args.Get(0).(*services.VoteReceipt)
	return receipt, args.Error(1)
}

func (m *mockGameService) RoundResults(ctx context.Context, roomID uuid.UUID, userID uint, roundNumber int) (*services.RoundResults, error) {
	args := m.Called(ctx, roomID, userID, roundNumber)
	results, _ := args.Get(0).(*services.RoundResults)
	return results, args.Error(1)
}

func (m *mockGameService) Advance(ctx context.Context, roomID uuid.UUID, userID uint) (*services.AdvanceResult, error) {
	args := m.Called(ctx, roomID, userID)
	result, _ := args.Get(0).(*services.AdvanceResult)
	return result, args.Error(1)
}

func (m *mockGameService) RecentEvents(ctx context.Context, roomID uuid.UUID, userID uint, limit int) ([]models.Event, error) {
	args := m.Called(ctx, roomID, userID, limit)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

type mockLeaderboardService struct{ mock.Mock }

func (m *mockLeaderboardService) Get(ctx context.Context, period string, limit int) (*services.Leaderboard, error) {
	args := m.Called(ctx, period, limit)
	board, _ := args.Get(0).(*services.Leaderboard)
	return board, args.Error(1)
}

func (m *mockLeaderboardService) Recompute(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockLeaderboardService) ReconcileUser(ctx context.Context, userID uint) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockLeaderboardService) ResetUser(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockLeaderboardService) History(ctx context.Context, userID uint, limit int) (*services.History, error) {
	args := m.Called(ctx, userID, limit)
	history, _ := args.Get(0).(*services.History)
	return history, args.Error(1)
}

func (m *mockLeaderboardService) DetailedStats(ctx context.Context, userID uint) (*services.DetailedStats, error) {
	args := m.Called(ctx, userID)
	stats, _ := args.Get(0).(*services.DetailedStats)
	return stats, args.Error(1)
}

func (m *mockLeaderboardService) GlobalStats(ctx context.Context) (*services.GlobalStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*services.GlobalStats)
	return stats, args.Error(1)
}
