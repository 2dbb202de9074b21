package session

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"

	"github.com/grandplaza/roomvoice/internal/models"
	"github.com/grandplaza/roomvoice/pkg/flow"
	"github.com/grandplaza/roomvoice/pkg/guest"
	"github.com/grandplaza/roomvoice/pkg/menu"
	"github.com/grandplaza/roomvoice/pkg/order"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	silent := glog.New(
		log.New(io.Discard, "", log.LstdFlags),
		glog.Config{LogLevel: glog.Silent, IgnoreRecordNotFoundError: true},
	)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: silent})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.VoiceSession{}))
	return db
}

type stubDirectory struct{}

func (stubDirectory) LookupRoom(ctx context.Context, roomNumber string) (*guest.GuestRef, error) {
	if roomNumber == "412" {
		return &guest.GuestRef{ID: "guest-1", FirstName: "Maria", RoomNumber: "412", Active: true}, nil
	}
	return nil, guest.ErrRoomNotFound
}

type stubSubmitter struct {
	err error
}

func (s *stubSubmitter) Submit(ctx context.Context, guestID string, cart *order.Cart) (*order.Receipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &order.Receipt{OrderID: "order-1", ReferenceID: "RS-1001"}, nil
}

func newCall(t *testing.T, db *gorm.DB) (*Runner, *flow.Manager, *order.Gateway) {
	t.Helper()
	catalog := menu.NewCatalog(menu.DefaultStaticSource(), time.Minute)
	gateway := order.NewGateway(&stubSubmitter{})
	manager := flow.NewManager(catalog, stubDirectory{}, gateway, 3)
	runner, err := Start(db, manager, gateway, "")
	require.NoError(t, err)
	return runner, manager, gateway
}

func dispatch(t *testing.T, m *flow.Manager, fn, args string) string {
	t.Helper()
	reply, err := m.Dispatch(context.Background(), fn, args)
	require.NoError(t, err)
	return reply
}

func TestStartCreatesActiveRecord(t *testing.T) {
	db := setupTestDB(t)
	runner, _, _ := newCall(t, db)

	record, err := models.GetVoiceSessionByID(db, runner.ID())
	require.NoError(t, err)
	assert.Equal(t, models.VoiceSessionStatusActive, record.Status)
	assert.NotEmpty(t, record.SessionID)
	assert.Equal(t, record.SessionID, runner.SessionID())
}

func TestFinalizeCompletedOrder(t *testing.T) {
	db := setupTestDB(t)
	runner, manager, _ := newCall(t, db)

	dispatch(t, manager, flow.FuncProvideRoomNumber, `{"room_number":"412"}`)
	dispatch(t, manager, flow.FuncAddItem, `{"item_name":"pancakes","quantity":"two"}`)
	dispatch(t, manager, flow.FuncReviewOrder, `{}`)
	dispatch(t, manager, flow.FuncConfirmOrder, `{}`)

	runner.AppendTurn("guest", "two pancakes please")
	runner.AppendTurn("assistant", "placed")

	status := runner.Finalize(nil)
	assert.Equal(t, models.VoiceSessionStatusCompleted, status)

	record, err := models.GetVoiceSessionByID(db, runner.ID())
	require.NoError(t, err)
	assert.Equal(t, models.VoiceSessionStatusCompleted, record.Status)
	assert.Equal(t, "order-1", record.OrderID)
	assert.Equal(t, "412", record.RoomNumber)
	assert.Equal(t, "guest-1", record.GuestID)
	assert.Equal(t, string(flow.StateOrderPlaced), record.FinalState)
	assert.Contains(t, record.Transcript, "guest: two pancakes please")
	assert.NotNil(t, record.EndTime)
}

func TestFinalizeCancelledCallIsCompleted(t *testing.T) {
	db := setupTestDB(t)
	runner, manager, _ := newCall(t, db)

	dispatch(t, manager, flow.FuncProvideRoomNumber, `{"room_number":"412"}`)
	dispatch(t, manager, flow.FuncCancelOrder, `{}`)

	status := runner.Finalize(nil)
	assert.Equal(t, models.VoiceSessionStatusCompleted, status)
}

func TestFinalizeHangupMidCallIsAbandoned(t *testing.T) {
	db := setupTestDB(t)
	runner, manager, _ := newCall(t, db)

	dispatch(t, manager, flow.FuncProvideRoomNumber, `{"room_number":"412"}`)
	dispatch(t, manager, flow.FuncAddItem, `{"item_name":"pancakes"}`)

	status := runner.Finalize(context.Canceled)
	assert.Equal(t, models.VoiceSessionStatusAbandoned, status)

	record, err := models.GetVoiceSessionByID(db, runner.ID())
	require.NoError(t, err)
	assert.Equal(t, models.VoiceSessionStatusAbandoned, record.Status)
	assert.Empty(t, record.OrderID)
}

func TestFinalizeHangupAfterSubmissionSucceededIsCompleted(t *testing.T) {
	db := setupTestDB(t)
	runner, manager, gateway := newCall(t, db)

	dispatch(t, manager, flow.FuncProvideRoomNumber, `{"room_number":"412"}`)
	dispatch(t, manager, flow.FuncAddItem, `{"item_name":"pancakes"}`)

	// The submission settled successfully but the state machine never saw
	// the confirmation reply.
	_, err := gateway.Submit(context.Background(), "guest-1", manager.Cart())
	require.NoError(t, err)

	status := runner.Finalize(context.Canceled)
	assert.Equal(t, models.VoiceSessionStatusCompleted, status)

	record, err := models.GetVoiceSessionByID(db, runner.ID())
	require.NoError(t, err)
	assert.Equal(t, "order-1", record.OrderID)
}

func TestFinalizeErrorStatus(t *testing.T) {
	db := setupTestDB(t)
	runner, manager, _ := newCall(t, db)

	dispatch(t, manager, flow.FuncProvideRoomNumber, `{"room_number":"412"}`)

	status := runner.Finalize(errors.New("transport exploded"))
	assert.Equal(t, models.VoiceSessionStatusError, status)

	record, err := models.GetVoiceSessionByID(db, runner.ID())
	require.NoError(t, err)
	assert.Equal(t, "transport exploded", record.ErrorMessage)
}

func TestRecoverFinalizesError(t *testing.T) {
	db := setupTestDB(t)
	runner, _, _ := newCall(t, db)

	func() {
		defer runner.Recover()
		panic("boom")
	}()

	record, err := models.GetVoiceSessionByID(db, runner.ID())
	require.NoError(t, err)
	assert.Equal(t, models.VoiceSessionStatusError, record.Status)
	assert.Contains(t, record.ErrorMessage, "boom")
}

func TestFinalizeExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	runner, manager, _ := newCall(t, db)

	dispatch(t, manager, flow.FuncProvideRoomNumber, `{"room_number":"412"}`)
	dispatch(t, manager, flow.FuncCancelOrder, `{}`)

	first := runner.Finalize(nil)
	assert.Equal(t, models.VoiceSessionStatusCompleted, first)

	// A later attempt with a different reason does not change the record.
	second := runner.Finalize(errors.New("late error"))
	assert.Equal(t, first, second)

	record, err := models.GetVoiceSessionByID(db, runner.ID())
	require.NoError(t, err)
	assert.Equal(t, models.VoiceSessionStatusCompleted, record.Status)
	assert.Empty(t, record.ErrorMessage)
}

func TestRecordWritesCarryDeadline(t *testing.T) {
	db := setupTestDB(t)

	var createDeadline, updateDeadline bool
	require.NoError(t, db.Callback().Create().Before("gorm:create").
		Register("deadline_check", func(tx *gorm.DB) {
			if _, ok := tx.Statement.Context.Deadline(); ok {
				createDeadline = true
			}
		}))
	require.NoError(t, db.Callback().Update().Before("gorm:update").
		Register("deadline_check", func(tx *gorm.DB) {
			if _, ok := tx.Statement.Context.Deadline(); ok {
				updateDeadline = true
			}
		}))

	runner, manager, _ := newCall(t, db)
	dispatch(t, manager, flow.FuncProvideRoomNumber, `{"room_number":"412"}`)
	runner.Finalize(context.Canceled)

	assert.True(t, createDeadline, "session create should be bounded")
	assert.True(t, updateDeadline, "session finalize should be bounded")
}

func TestExternalSessionIDReusableAcrossCalls(t *testing.T) {
	db := setupTestDB(t)

	catalog := menu.NewCatalog(menu.DefaultStaticSource(), time.Minute)
	gateway := order.NewGateway(&stubSubmitter{})
	manager := flow.NewManager(catalog, stubDirectory{}, gateway, 3)

	first, err := Start(db, manager, gateway, "ext-1")
	require.NoError(t, err)
	first.Finalize(context.Canceled)

	// The external id is unique per record, so a retry needs a fresh one.
	_, err = Start(db, manager, gateway, "ext-1")
	assert.Error(t, err)

	second, err := Start(db, manager, gateway, "ext-2")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
}
