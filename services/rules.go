package services

import "numberhunt/models"

// MinPlayers is the connected-player floor for starting a game; with two players no
// plurality is possible.
const MinPlayers = 3

// CanJoin reports whether a user may join. Existing members may always reconnect unless
// the room has finished.
func CanJoin(room *models.Room, isMember bool, playerCount int) bool {
	if room.Status == models.RoomFinished {
		return false
	}
	if isMember {
		return true
	}
	if room.Status == models.RoomInProgress {
		return false
	}
	return playerCount < room.MaxPlayers
}

// joinRejection explains a false CanJoin.
func joinRejection(room *models.Room) error {
	switch room.Status {
	case models.RoomFinished:
		return ErrRoomFinished
	case models.RoomInProgress:
		return ErrGameInProgress
	default:
		return ErrRoomFull
	}
}

func CanStart(room *models.Room, connectedCount int) bool {
	return connectedCount >= MinPlayers && room.Status == models.RoomWaiting
}
