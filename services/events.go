package services

import (
	"encoding/json"
	"fmt"

	"numberhunt/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// recordEvent appends one entry to the room's event log inside tx. payload is any value
// that marshals to a JSON object.
func recordEvent(tx *gorm.DB, roomID uuid.UUID, eventType string, playerID *uint, roundNumber *int, payload interface{}) error {
	if !models.ValidEventType(eventType) {
		return fmt.Errorf("unknown event type %q", eventType)
	}
	if payload == nil {
		payload = gin.H{}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	event := models.Event{
		RoomID:      roomID,
		PlayerID:    playerID,
		RoundNumber: roundNumber,
		Type:        eventType,
		Payload:     datatypes.JSON(data),
	}
	if err := tx.Create(&event).Error; err != nil {
		return err
	}

	log.Debug().Str("room", roomID.String()).Str("event", eventType).Msg("event recorded")
	return nil
}

func intPtr(v int) *int { return &v }
