package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// VoiceSessionStatus is the lifecycle status of a recorded call.
type VoiceSessionStatus string

const (
	VoiceSessionStatusActive    VoiceSessionStatus = "ACTIVE"
	VoiceSessionStatusCompleted VoiceSessionStatus = "COMPLETED"
	VoiceSessionStatusAbandoned VoiceSessionStatus = "ABANDONED"
	VoiceSessionStatusError     VoiceSessionStatus = "ERROR"
)

// VoiceSession is the persistent record of one room-service call.
type VoiceSession struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// SessionID is the external identifier handed to the telephony side.
	SessionID  string             `json:"sessionId" gorm:"size:64;uniqueIndex;not null"`
	RoomNumber string             `json:"roomNumber" gorm:"size:20;index"`
	GuestID    string             `json:"guestId,omitempty" gorm:"size:36"`
	Status     VoiceSessionStatus `json:"status" gorm:"size:20;index;default:'ACTIVE'"`

	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`

	// Transcript holds the accumulated guest/assistant turns.
	Transcript string `json:"transcript,omitempty" gorm:"type:text"`

	// OrderID links the placed order, when the call produced one.
	OrderID string `json:"orderId,omitempty" gorm:"size:64"`

	// FinalState is the conversational state the call ended in.
	FinalState string `json:"finalState,omitempty" gorm:"size:40"`

	ErrorMessage string `json:"errorMessage,omitempty" gorm:"size:500"`
}

func (VoiceSession) TableName() string {
	return "voice_sessions"
}

// CreateVoiceSession inserts a new ACTIVE session record.
func CreateVoiceSession(db *gorm.DB, session *VoiceSession) error {
	if session.Status == "" {
		session.Status = VoiceSessionStatusActive
	}
	if session.StartTime.IsZero() {
		session.StartTime = time.Now()
	}
	return db.Create(session).Error
}

// GetVoiceSessionByID fetches a session by its internal id.
func GetVoiceSessionByID(db *gorm.DB, id string) (*VoiceSession, error) {
	var session VoiceSession
	err := db.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetVoiceSessionBySessionID fetches a session by its external identifier.
func GetVoiceSessionBySessionID(db *gorm.DB, sessionID string) (*VoiceSession, error) {
	var session VoiceSession
	err := db.Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListVoiceSessions returns sessions newest first, optionally filtered by
// room number and status.
func ListVoiceSessions(db *gorm.DB, roomNumber string, status VoiceSessionStatus, limit int) ([]VoiceSession, error) {
	var sessions []VoiceSession
	query := db.Order("start_time DESC")
	if roomNumber != "" {
		query = query.Where("room_number = ?", roomNumber)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&sessions).Error
	return sessions, err
}

// SessionFinal carries the values written when a session is closed.
type SessionFinal struct {
	Status       VoiceSessionStatus
	EndTime      time.Time
	RoomNumber   string
	GuestID      string
	Transcript   string
	OrderID      string
	FinalState   string
	ErrorMessage string
}

// FinalizeVoiceSession closes a session exactly once. The update is guarded
// on the ACTIVE status, so a second finalization attempt affects no rows and
// returns false. Lookup prefers the internal id, falling back to the newest
// ACTIVE session for the room.
func FinalizeVoiceSession(db *gorm.DB, id, roomNumber string, final SessionFinal) (bool, error) {
	target := id
	if target == "" {
		var session VoiceSession
		err := db.Where("room_number = ? AND status = ?", roomNumber, VoiceSessionStatusActive).
			Order("start_time DESC").First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		target = session.ID
	}

	updates := map[string]interface{}{
		"status":        final.Status,
		"end_time":      final.EndTime,
		"transcript":    final.Transcript,
		"order_id":      final.OrderID,
		"final_state":   final.FinalState,
		"error_message": final.ErrorMessage,
	}
	if final.RoomNumber != "" {
		updates["room_number"] = final.RoomNumber
	}
	if final.GuestID != "" {
		updates["guest_id"] = final.GuestID
	}
	tx := db.Model(&VoiceSession{}).
		Where("id = ? AND status = ?", target, VoiceSessionStatusActive).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// UpdateVoiceSessionStatus sets the status of a still-open session, used by
// the admin surface.
func UpdateVoiceSessionStatus(db *gorm.DB, id string, status VoiceSessionStatus) error {
	tx := db.Model(&VoiceSession{}).Where("id = ?", id).Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
