package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/dbtest"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/db/models"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/outbox/payloads"
)

func emitTestEvent(t *testing.T, conn *gorm.DB, svc *Service, aggregateID uuid.UUID) {
	t.Helper()
	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventRepairOrderCreated,
			AggregateType: enums.AggregateRepairOrder,
			AggregateID:   aggregateID,
			Actor:         &ActorRef{PersonID: uuid.New(), Role: string(enums.PersonRoleShop)},
			Version:       1,
			Data:          payloads.RepairOrderCreatedEvent{RepairOrderID: aggregateID, RoNumber: "RO-9"},
		})
	})
	require.NoError(t, err)
}

func TestEmitWritesEnvelope(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc := NewService(repo, nil)
	aggregateID := uuid.New()

	emitTestEvent(t, conn, svc, aggregateID)

	var rows []models.OutboxEvent
	require.NoError(t, conn.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, aggregateID, rows[0].AggregateID)
	assert.Nil(t, rows[0].PublishedAt)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &envelope))
	assert.NotEmpty(t, envelope.EventID)
	assert.Equal(t, 1, envelope.Version)
	assert.Equal(t, enums.EventRepairOrderCreated, envelope.EventType)
	require.NotNil(t, envelope.AggregateID)
	assert.Equal(t, aggregateID, *envelope.AggregateID)
	require.NotNil(t, envelope.Actor)
	assert.Equal(t, "shop", envelope.Actor.Role)

	var data payloads.RepairOrderCreatedEvent
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "RO-9", data.RoNumber)
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	require.Error(t, svc.Emit(context.Background(), nil, DomainEvent{}))
}

func TestEmitIfNotExistsSkipsDuplicates(t *testing.T) {
	conn := dbtest.Open(t)
	svc := NewService(NewRepository(conn), nil)
	aggregateID := uuid.New()
	event := DomainEvent{
		EventType:     enums.EventRepairOrderCompleted,
		AggregateType: enums.AggregateRepairOrder,
		AggregateID:   aggregateID,
		Data:          payloads.RepairOrderCompletedEvent{RepairOrderID: aggregateID},
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
			return svc.EmitIfNotExists(context.Background(), tx, event)
		}))
	}

	var count int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPublishBookkeeping(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc := NewService(repo, nil)
	emitTestEvent(t, conn, svc, uuid.New())
	emitTestEvent(t, conn, svc, uuid.New())

	var fetched []models.OutboxEvent
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		var err error
		fetched, err = repo.FetchUnpublishedForPublish(tx, 10, 3)
		return err
	}))
	require.Len(t, fetched, 2)
	published, failing := fetched[0], fetched[1]

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		if err := repo.MarkPublishedTx(tx, published.ID); err != nil {
			return err
		}
		return repo.MarkFailedTx(tx, failing.ID, errors.New("deadline exceeded"))
	}))

	var reloaded models.OutboxEvent
	require.NoError(t, conn.First(&reloaded, "id = ?", failing.ID).Error)
	assert.Equal(t, 1, reloaded.AttemptCount)
	require.NotNil(t, reloaded.LastError)
	assert.Equal(t, "deadline exceeded", *reloaded.LastError)

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		rows, err := repo.FetchUnpublishedForPublish(tx, 10, 3)
		require.Len(t, rows, 1)
		assert.Equal(t, failing.ID, rows[0].ID)
		return err
	}))

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return repo.MarkTerminalTx(tx, failing.ID, errors.New("bad payload"), 3)
	}))
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		rows, err := repo.FetchUnpublishedForPublish(tx, 10, 3)
		assert.Empty(t, rows)
		return err
	}))

	require.NoError(t, conn.First(&reloaded, "id = ?", published.ID).Error)
	require.NotNil(t, reloaded.PublishedAt)
	assert.WithinDuration(t, time.Now().UTC(), *reloaded.PublishedAt, time.Minute)
}

func TestDLQRepository(t *testing.T) {
	conn := dbtest.Open(t)
	dlq := NewDLQRepository(conn)
	eventID := uuid.New()
	long := make([]byte, maxDLQErrorLen+50)
	for i := range long {
		long[i] = 'x'
	}
	msg := string(long)

	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return dlq.InsertTx(tx, models.OutboxDLQ{
			EventID:       eventID,
			EventType:     enums.EventPartsOrderTransitioned,
			AggregateType: enums.AggregatePartsOrder,
			AggregateID:   uuid.New(),
			Payload:       json.RawMessage(`{"data":{}}`),
			ErrorReason:   enums.OutboxDLQReasonMaxAttempts,
			ErrorMessage:  &msg,
			AttemptCount:  10,
		})
	}))

	entry, err := dlq.FindByEventID(context.Background(), eventID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Len(t, *entry.ErrorMessage, maxDLQErrorLen)

	missing, err := dlq.FindByEventID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	rows, err := dlq.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
