package services

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"numberhunt/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultMaxPlayers  = 8
	DefaultTotalRounds = 5

	roomCodeLength     = 6
	roomCodeLongLength = 8
	roomCodeAttempts   = 100
	recentRoomsLimit   = 10
)

// 32 symbols without 0/O and 1/I, so a random byte maps onto it without bias.
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	ErrInvalidRoomName    = precondition("room-name-must-be-1-100-characters")
	ErrInvalidMaxPlayers  = precondition("max-players-must-be-3-20")
	ErrInvalidTotalRounds = precondition("total-rounds-must-be-1-20")
	ErrInvalidNickname    = precondition("nickname-must-be-1-50-characters")
	ErrRoomCodeRequired   = precondition("room-code-required")
)

type RoomService struct {
	db *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{db: db}
}

type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	MaxPlayers  int    `json:"max_players"`
	TotalRounds int    `json:"total_rounds"`
	IsPrivate   bool   `json:"is_private"`
	Nickname    string `json:"nickname"`
}

type JoinRoomRequest struct {
	Nickname string `json:"nickname"`
}

type JoinByCodeRequest struct {
	RoomCode string `json:"room_code" binding:"required"`
	Nickname string `json:"nickname"`
}

// RoomDetail is a room as seen by one caller.
type RoomDetail struct {
	models.Room
	PlayerCount    int  `json:"player_count"`
	ConnectedCount int  `json:"connected_count"`
	IsMember       bool `json:"is_member"`
	IsHost         bool `json:"is_host"`
	CanJoin        bool `json:"can_join"`
	CanStart       bool `json:"can_start"`
}

type UserRooms struct {
	Current *RoomDetail   `json:"current_room"`
	Recent  []models.Room `json:"recent_rooms"`
}

type Reconnection struct {
	CanReconnect bool        `json:"can_reconnect"`
	Room         *RoomDetail `json:"room,omitempty"`
}

func (s *RoomService) CreateRoom(ctx context.Context, userID uint, req *CreateRoomRequest) (*RoomDetail, error) {
	name := strings.TrimSpace(req.Name)
	if n := utf8.RuneCountInString(name); n < 1 || n > 100 {
		return nil, ErrInvalidRoomName
	}
	if req.MaxPlayers == 0 {
		req.MaxPlayers = DefaultMaxPlayers
	}
	if req.MaxPlayers < MinPlayers || req.MaxPlayers > 20 {
		return nil, ErrInvalidMaxPlayers
	}
	if req.TotalRounds == 0 {
		req.TotalRounds = DefaultTotalRounds
	}
	if req.TotalRounds < 1 || req.TotalRounds > 20 {
		return nil, ErrInvalidTotalRounds
	}

	room := models.Room{
		Name:        name,
		HostID:      userID,
		Status:      models.RoomWaiting,
		MaxPlayers:  req.MaxPlayers,
		TotalRounds: req.TotalRounds,
		IsPrivate:   req.IsPrivate,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if room.IsPrivate {
			code, err := uniqueRoomCode(tx)
			if err != nil {
				return err
			}
			room.RoomCode = &code
		}
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		_, _, err := joinLocked(tx, &room, userID, req.Nickname)
		return err
	})
	if err != nil {
		return nil, dbError(err, ErrUserNotFound)
	}

	log.Info().Str("room", room.ID.String()).Uint("host", userID).Bool("private", room.IsPrivate).Msg("room created")
	return s.GetRoom(ctx, room.ID, userID)
}

func uniqueRoomCode(tx *gorm.DB) (string, error) {
	for i := 0; i < roomCodeAttempts; i++ {
		code, err := randomRoomCode(roomCodeLength)
		if err != nil {
			return "", err
		}
		var n int64
		if err := tx.Model(&models.Room{}).Where("room_code = ?", code).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return code, nil
		}
	}
	log.Warn().Msg("short room codes exhausted, falling back to long code")
	return randomRoomCode(roomCodeLongLength)
}

func randomRoomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return string(buf), nil
}

func (s *RoomService) GetRoom(ctx context.Context, roomID uuid.UUID, userID uint) (*RoomDetail, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).
		Preload("Host").
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at") }).
		First(&room, "id = ?", roomID).Error; err != nil {
		return nil, dbError(err, ErrRoomNotFound)
	}
	return describeRoom(&room, userID), nil
}

// describeRoom derives caller-specific flags from a room with preloaded players. Private
// room codes are only shown to members.
func describeRoom(room *models.Room, userID uint) *RoomDetail {
	d := &RoomDetail{Room: *room, PlayerCount: len(room.Players), IsHost: room.HostID == userID}
	for _, p := range room.Players {
		if p.IsConnected {
			d.ConnectedCount++
		}
		if p.UserID == userID {
			d.IsMember = true
		}
	}
	if !d.IsMember {
		d.RoomCode = nil
	}
	d.CanJoin = CanJoin(room, d.IsMember, d.PlayerCount)
	d.CanStart = CanStart(room, d.ConnectedCount)
	return d
}

// ListRooms returns public waiting rooms plus every unfinished room the caller belongs to,
// newest first.
func (s *RoomService) ListRooms(ctx context.Context, userID uint) ([]RoomDetail, error) {
	member := s.db.Model(&models.Player{}).Select("room_id").Where("user_id = ?", userID)

	var rooms []models.Room
	if err := s.db.WithContext(ctx).
		Preload("Host").
		Preload("Players").
		Where("(status = ? AND is_private = ?) OR (status <> ? AND id IN (?))",
			models.RoomWaiting, false, models.RoomFinished, member).
		Order("created_at DESC").
		Find(&rooms).Error; err != nil {
		return nil, dbError(err, nil)
	}

	out := make([]RoomDetail, 0, len(rooms))
	for i := range rooms {
		out = append(out, *describeRoom(&rooms[i], userID))
	}
	return out, nil
}

func (s *RoomService) UserRooms(ctx context.Context, userID uint) (*UserRooms, error) {
	result := &UserRooms{Recent: []models.Room{}}

	reconnect, err := s.CheckReconnection(ctx, userID)
	if err != nil {
		return nil, err
	}
	result.Current = reconnect.Room

	member := s.db.Model(&models.Player{}).Select("room_id").Where("user_id = ?", userID)
	if err := s.db.WithContext(ctx).
		Where("status = ? AND id IN (?)", models.RoomFinished, member).
		Order("finished_at DESC NULLS LAST").
		Limit(recentRoomsLimit).
		Find(&result.Recent).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return result, nil
}

// CheckReconnection finds the newest unfinished room the user has a seat in.
func (s *RoomService) CheckReconnection(ctx context.Context, userID uint) (*Reconnection, error) {
	member := s.db.Model(&models.Player{}).Select("room_id").Where("user_id = ?", userID)

	var room models.Room
	err := s.db.WithContext(ctx).
		Preload("Host").
		Preload("Players").
		Where("status IN ? AND id IN (?)", []string{models.RoomWaiting, models.RoomInProgress}, member).
		Order("created_at DESC").
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Reconnection{}, nil
	}
	if err != nil {
		return nil, dbError(err, nil)
	}
	return &Reconnection{CanReconnect: true, Room: describeRoom(&room, userID)}, nil
}

// Join seats the user in the room, or reconnects their existing seat. created reports
// whether a new player row was inserted.
func (s *RoomService) Join(ctx context.Context, roomID uuid.UUID, userID uint, nickname string) (*models.Player, bool, error) {
	var (
		player  *models.Player
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, roomID)
		if err != nil {
			return err
		}
		player, created, err = joinLocked(tx, room, userID, nickname)
		return err
	})
	if err != nil {
		return nil, false, dbError(err, ErrRoomNotFound)
	}
	return player, created, nil
}

func (s *RoomService) JoinByCode(ctx context.Context, code string, userID uint, nickname string) (*models.Player, bool, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, false, ErrRoomCodeRequired
	}

	var room models.Room
	if err := s.db.WithContext(ctx).Select("id").
		Where("room_code = ? AND is_private = ?", code, true).
		First(&room).Error; err != nil {
		return nil, false, dbError(err, ErrInvalidRoomCode)
	}
	return s.Join(ctx, room.ID, userID, nickname)
}

// joinLocked runs with the room row locked, so the capacity check cannot race.
func joinLocked(tx *gorm.DB, room *models.Room, userID uint, nickname string) (*models.Player, bool, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		var user models.User
		if err := tx.Select("username").First(&user, userID).Error; err != nil {
			return nil, false, err
		}
		nickname = user.Username
	}
	if utf8.RuneCountInString(nickname) > 50 {
		return nil, false, ErrInvalidNickname
	}

	var existing models.Player
	err := tx.Where("room_id = ? AND user_id = ?", room.ID, userID).First(&existing).Error
	isMember := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	var count int64
	if err := tx.Model(&models.Player{}).Where("room_id = ?", room.ID).Count(&count).Error; err != nil {
		return nil, false, err
	}
	if !CanJoin(room, isMember, int(count)) {
		return nil, false, joinRejection(room)
	}

	now := time.Now()
	if isMember {
		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"is_connected": true,
			"nickname":     nickname,
			"last_active":  now,
		}).Error; err != nil {
			return nil, false, err
		}
		if err := recordEvent(tx, room.ID, models.EventPlayerReconnected, &existing.ID, nil, gin.H{
			"nickname": nickname,
		}); err != nil {
			return nil, false, err
		}
		log.Info().Str("room", room.ID.String()).Uint("player", existing.ID).Msg("player reconnected")
		return &existing, false, nil
	}

	player := models.Player{
		UserID:      userID,
		RoomID:      room.ID,
		Nickname:    nickname,
		IsConnected: true,
		JoinedAt:    now,
		LastActive:  now,
	}
	if err := tx.Create(&player).Error; err != nil {
		return nil, false, err
	}
	if err := recordEvent(tx, room.ID, models.EventPlayerJoined, &player.ID, nil, gin.H{
		"nickname": nickname,
		"user_id":  userID,
		"is_host":  room.HostID == userID,
	}); err != nil {
		return nil, false, err
	}

	log.Info().Str("room", room.ID.String()).Uint("player", player.ID).Str("nickname", nickname).Msg("player joined")
	return &player, true, nil
}

// Leave marks the caller's seat disconnected. The row stays for scoring and reconnection.
func (s *RoomService) Leave(ctx context.Context, roomID uuid.UUID, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockRoom(tx, roomID); err != nil {
			return err
		}
		player, err := findMember(tx, roomID, userID)
		if err != nil {
			return err
		}
		if err := tx.Model(player).Updates(map[string]interface{}{
			"is_connected": false,
			"last_active":  time.Now(),
		}).Error; err != nil {
			return err
		}
		return recordEvent(tx, roomID, models.EventPlayerLeft, &player.ID, nil, gin.H{
			"nickname": player.Nickname,
		})
	})
	if err != nil {
		return dbError(err, ErrRoomNotFound)
	}

	log.Info().Str("room", roomID.String()).Uint("user", userID).Msg("player left")
	return nil
}

func (s *RoomService) TouchActivity(ctx context.Context, roomID uuid.UUID, userID uint) error {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Player{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("last_active", now)
	if res.Error != nil {
		return dbError(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrNotAMember
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("last_active", now).Error; err != nil {
		return dbError(err, nil)
	}
	return nil
}

// CloseRoom finishes a room early. Scores already awarded stay in the ledger.
func (s *RoomService) CloseRoom(ctx context.Context, roomID uuid.UUID, userID uint, isAdmin bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, roomID)
		if err != nil {
			return err
		}
		if room.HostID != userID && !isAdmin {
			return ErrNotHostOrAdmin
		}
		if room.Status == models.RoomFinished {
			return ErrRoomFinished
		}

		now := time.Now()
		if err := tx.Model(room).Updates(map[string]interface{}{
			"status":      models.RoomFinished,
			"finished_at": now,
		}).Error; err != nil {
			return err
		}
		return recordEvent(tx, roomID, models.EventRoomClosed, nil, nil, gin.H{
			"closed_by": userID,
			"by_admin":  isAdmin && room.HostID != userID,
		})
	})
	if err != nil {
		return dbError(err, ErrRoomNotFound)
	}

	log.Info().Str("room", roomID.String()).Uint("user", userID).Msg("room closed")
	return nil
}

// DeleteRoom purges a room with its players, rounds and events. Outcomes, game records
// and leaderboard entries carry no foreign keys to it and survive.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID uuid.UUID, isAdmin bool) error {
	if !isAdmin {
		return ErrAdminRequired
	}
	res := s.db.WithContext(ctx).Delete(&models.Room{}, "id = ?", roomID)
	if res.Error != nil {
		return dbError(res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}

	log.Info().Str("room", roomID.String()).Msg("room deleted")
	return nil
}

func lockRoom(tx *gorm.DB, roomID uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, "id = ?", roomID).Error; err != nil {
		return nil, dbError(err, ErrRoomNotFound)
	}
	return &room, nil
}

func findMember(tx *gorm.DB, roomID uuid.UUID, userID uint) (*models.Player, error) {
	var player models.Player
	if err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).First(&player).Error; err != nil {
		return nil, dbError(err, ErrNotAMember)
	}
	return &player, nil
}

func connectedPlayers(tx *gorm.DB, roomID uuid.UUID) ([]models.Player, error) {
	var players []models.Player
	if err := tx.Where("room_id = ? AND is_connected = ?", roomID, true).Order("id").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}
