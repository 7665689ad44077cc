package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatbase/chatbase-server/internal/core"
	"github.com/chatbase/chatbase-server/internal/store"
)

// UserHandlers provides HTTP handlers for user operations.
type UserHandlers struct {
	store    store.Store
	presence *core.Presence
	log      *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(st store.Store, presence *core.Presence, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		store:    st,
		presence: presence,
		log:      logger,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AvatarImage string `json:"avatar_image,omitempty"`
	AvatarSet   bool   `json:"avatar_set"`
	IsOnline    bool   `json:"is_online"`
}

func userResponse(u *store.User, online bool) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		AvatarImage: u.AvatarImage,
		AvatarSet:   u.AvatarSet,
		IsOnline:    online,
	}
}

// ListUsers returns every user except the requester, the contact list.
// GET /api/users
func (h *UserHandlers) ListUsers(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	users, err := h.store.ListUsersExcept(c.Request.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("failed to list users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		// The live table overrides the durable flag; a crashed relay
		// leaves stale durable flags behind.
		response = append(response, userResponse(u, h.presence.IsOnline(u.ID)))
	}

	c.JSON(http.StatusOK, response)
}

// SetAvatarRequest represents the set avatar request body.
type SetAvatarRequest struct {
	Image string `json:"image" binding:"required"`
}

// SetAvatar stores the requester's avatar image.
// POST /api/users/avatar
func (h *UserHandlers) SetAvatar(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req SetAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid set avatar request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.store.SetAvatar(c.Request.Context(), uid, req.Image); err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("failed to set avatar")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_set": true, "image": req.Image})
}
