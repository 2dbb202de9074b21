package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grandplaza/roomvoice/internal/models"
	"github.com/grandplaza/roomvoice/pkg/response"
)

// ListSessions returns session records newest first, optionally filtered by
// room number and status.
func (h *Handlers) ListSessions(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			response.Fail(c, "invalid limit", nil)
			return
		}
		limit = n
	}

	status := models.VoiceSessionStatus(c.Query("status"))
	switch status {
	case "", models.VoiceSessionStatusActive, models.VoiceSessionStatusCompleted,
		models.VoiceSessionStatusAbandoned, models.VoiceSessionStatusError:
	default:
		response.Fail(c, "invalid status", nil)
		return
	}

	sessions, err := models.ListVoiceSessions(h.db, c.Query("room"), status, limit)
	if err != nil {
		response.Error(c, "failed to list sessions")
		return
	}
	response.Success(c, "ok", sessions)
}

// GetSession returns one session record by internal id.
func (h *Handlers) GetSession(c *gin.Context) {
	session, err := models.GetVoiceSessionByID(h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		response.Error(c, "failed to load session")
		return
	}
	response.Success(c, "ok", session)
}

// GetSessionBySessionID returns one session record by its external id.
func (h *Handlers) GetSessionBySessionID(c *gin.Context) {
	session, err := models.GetVoiceSessionBySessionID(h.db, c.Param("sessionId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		response.Error(c, "failed to load session")
		return
	}
	response.Success(c, "ok", session)
}

type createSessionRequest struct {
	SessionID  string `json:"sessionId" binding:"required"`
	RoomNumber string `json:"roomNumber"`
}

// CreateSession opens a session record out of band, for callers that manage
// the call loop themselves.
func (h *Handlers) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request: "+err.Error(), nil)
		return
	}

	session := &models.VoiceSession{
		ID:         uuid.NewString(),
		SessionID:  req.SessionID,
		RoomNumber: req.RoomNumber,
	}
	if err := models.CreateVoiceSession(h.db, session); err != nil {
		response.Fail(c, "failed to create session (duplicate sessionId?)", nil)
		return
	}
	response.Success(c, "session created", session)
}

type updateStatusRequest struct {
	Status models.VoiceSessionStatus `json:"status" binding:"required"`
}

// UpdateSessionStatus sets the status of a record from the admin side.
func (h *Handlers) UpdateSessionStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request: "+err.Error(), nil)
		return
	}
	switch req.Status {
	case models.VoiceSessionStatusActive, models.VoiceSessionStatusCompleted,
		models.VoiceSessionStatusAbandoned, models.VoiceSessionStatusError:
	default:
		response.Fail(c, "invalid status", nil)
		return
	}

	if err := models.UpdateVoiceSessionStatus(h.db, c.Param("id"), req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		response.Error(c, "failed to update session")
		return
	}
	response.Success(c, "status updated", nil)
}
