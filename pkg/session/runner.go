package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/grandplaza/roomvoice/internal/models"
	"github.com/grandplaza/roomvoice/pkg/config"
	"github.com/grandplaza/roomvoice/pkg/errhandler"
	"github.com/grandplaza/roomvoice/pkg/events"
	"github.com/grandplaza/roomvoice/pkg/flow"
	"github.com/grandplaza/roomvoice/pkg/logger"
	"github.com/grandplaza/roomvoice/pkg/order"
)

// Runner records one call's lifecycle: it opens the ACTIVE session record,
// accumulates the transcript, and closes the record exactly once no matter
// how the call ends.
type Runner struct {
	db      *gorm.DB
	manager *flow.Manager
	gateway *order.Gateway

	id        string
	sessionID string

	mu         sync.Mutex
	transcript []string
	crash      string

	once      sync.Once
	finalonce models.VoiceSessionStatus
}

// Start opens the session record. An empty externalID gets a generated one.
func Start(db *gorm.DB, manager *flow.Manager, gateway *order.Gateway, externalID string) (*Runner, error) {
	if externalID == "" {
		nano, err := gonanoid.Nanoid(12)
		if err != nil {
			return nil, err
		}
		externalID = "call_" + nano
	}

	record := &models.VoiceSession{
		ID:        uuid.NewString(),
		SessionID: externalID,
		StartTime: time.Now(),
	}
	ctx, cancel := persistContext()
	defer cancel()
	if err := models.CreateVoiceSession(db.WithContext(ctx), record); err != nil {
		return nil, fmt.Errorf("create session record: %w", err)
	}

	r := &Runner{
		db:        db,
		manager:   manager,
		gateway:   gateway,
		id:        record.ID,
		sessionID: externalID,
	}

	logger.Info("session started",
		zap.String("id", r.id), zap.String("sessionId", externalID))
	events.GetEventBus().Publish(events.Event{
		Type:   events.SessionStarted,
		Source: "session.runner",
		Data:   map[string]interface{}{"id": r.id, "sessionId": externalID},
	})
	return r, nil
}

// ID is the internal session record id.
func (r *Runner) ID() string { return r.id }

// SessionID is the external identifier shared with the telephony side.
func (r *Runner) SessionID() string { return r.sessionID }

// AppendTurn adds one line of conversation to the transcript.
func (r *Runner) AppendTurn(role, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcript = append(r.transcript, role+": "+text)
}

// Recover is meant to run deferred around the call loop. A panic finalizes
// the session as ERROR and is not re-raised; the call is already lost.
func (r *Runner) Recover() {
	if v := recover(); v != nil {
		r.mu.Lock()
		r.crash = fmt.Sprintf("panic: %v", v)
		r.mu.Unlock()
		logger.Error("call loop panicked",
			zap.String("id", r.id), zap.Any("panic", v))
		r.Finalize(nil)
	}
}

// Finalize closes the session record exactly once and returns the terminal
// status. Later calls return the first outcome without touching the store.
//
// Status decision: a crash or a non-cancellation error is ERROR; a terminal
// conversational state is COMPLETED; anything else is ABANDONED, unless the
// one in-flight order submission turns out to have succeeded, in which case
// the guest's order is real and the session is COMPLETED with it.
func (r *Runner) Finalize(callErr error) models.VoiceSessionStatus {
	r.once.Do(func() {
		cc := r.manager.Context()

		r.mu.Lock()
		crash := r.crash
		transcript := strings.Join(r.transcript, "\n")
		r.mu.Unlock()

		status := models.VoiceSessionStatusAbandoned
		errMsg := ""
		orderID := cc.OrderID

		switch {
		case crash != "":
			status = models.VoiceSessionStatusError
			errMsg = crash
		case callErr != nil && !errhandler.IsCancellation(callErr):
			status = models.VoiceSessionStatusError
			errMsg = callErr.Error()
		case cc.State.Terminal():
			status = models.VoiceSessionStatusCompleted
		default:
			if outcome := r.gateway.LastOutcome(); outcome != nil &&
				outcome.Settled && outcome.Err == nil && outcome.Receipt != nil {
				status = models.VoiceSessionStatusCompleted
				orderID = outcome.Receipt.OrderID
			}
		}

		ctx, cancel := persistContext()
		defer cancel()
		done, err := models.FinalizeVoiceSession(r.db.WithContext(ctx), r.id, cc.RoomNumber, models.SessionFinal{
			Status:       status,
			EndTime:      time.Now(),
			RoomNumber:   cc.RoomNumber,
			GuestID:      cc.GuestID,
			Transcript:   transcript,
			OrderID:      orderID,
			FinalState:   string(cc.State),
			ErrorMessage: errMsg,
		})
		if err != nil {
			logger.Error("session finalization failed",
				zap.String("id", r.id), zap.Error(err))
		} else if !done {
			logger.Warn("session record already closed", zap.String("id", r.id))
		}

		logger.Info("session finalized",
			zap.String("id", r.id),
			zap.String("status", string(status)),
			zap.String("state", string(cc.State)),
			zap.String("orderId", orderID))
		events.GetEventBus().Publish(events.Event{
			Type:   events.SessionFinalized,
			Source: "session.runner",
			Data: map[string]interface{}{
				"id":        r.id,
				"sessionId": r.sessionID,
				"status":    string(status),
				"orderId":   orderID,
			},
		})
		r.finalonce = status
	})
	return r.finalonce
}

// persistContext bounds one session record write. A hung store must not keep
// a finished call open.
func persistContext() (context.Context, context.CancelFunc) {
	timeout := 5 * time.Second
	if config.GlobalConfig != nil && config.GlobalConfig.PersistTimeout > 0 {
		timeout = config.GlobalConfig.PersistTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}
