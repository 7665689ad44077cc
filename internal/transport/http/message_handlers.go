package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatbase/chatbase-server/internal/store"
)

// MessageHandlers provides HTTP handlers for message history.
type MessageHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(st store.Store, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		store: st,
		log:   logger,
	}
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Text     string `json:"text"`
	TS       int64  `json:"ts"`
	FromSelf bool   `json:"from_self"`
}

// History returns messages exchanged between the requester and another
// user, oldest first. History is the only record of messages sent while
// the recipient was offline.
// GET /api/messages/:userID?limit=50&before=<messageID>
func (h *MessageHandlers) History(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	other := c.Param("userID")
	if other == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user id is required"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	var beforeID *string
	if raw := c.Query("before"); raw != "" {
		beforeID = &raw
	}

	messages, err := h.store.ListBetween(c.Request.Context(), uid, other, limit, beforeID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Str("other", other).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, MessageResponse{
			ID:       msg.ID,
			From:     msg.FromID,
			To:       msg.ToID,
			Text:     msg.Body,
			TS:       msg.CreatedAt.Unix(),
			FromSelf: msg.FromID == uid,
		})
	}

	c.JSON(http.StatusOK, response)
}
