package handlers

import (
	"errors"
	"net/http"
	"strings"

	"numberhunt/middleware"
	"numberhunt/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const errUnknown = "unknown-error"

var kinds = []struct {
	kind   error
	status int
}{
	{services.ErrInvalidToken, http.StatusUnauthorized},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{services.ErrDuplicateUser, http.StatusConflict},
	{services.ErrPrecondition, http.StatusBadRequest},
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrNoContentAvailable, http.StatusServiceUnavailable},
	{services.ErrNoPlayersAvailable, http.StatusServiceUnavailable},
}

// respondError writes {"error": reason} with the status of the error's kind. Anything
// unclassified is logged and reported as unknown-error.
func respondError(c *gin.Context, err error) {
	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			c.JSON(k.status, gin.H{"error": reason(err)})
			return
		}
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": errUnknown})
}

var categories = []error{services.ErrPrecondition, services.ErrNotFound, services.ErrForbidden}

// reason strips the "<category>: " prefix from a wrapped error.
func reason(err error) string {
	msg := err.Error()
	for _, category := range categories {
		if trimmed, ok := strings.CutPrefix(msg, category.Error()+": "); ok {
			return trimmed
		}
	}
	return msg
}

func currentUser(c *gin.Context) (uint, bool) {
	id := c.GetUint(middleware.ContextUserID)
	if id == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication-required"})
		return 0, false
	}
	return id, true
}

func roomParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, services.ErrRoomNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
}
