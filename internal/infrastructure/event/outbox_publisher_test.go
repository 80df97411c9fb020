package event

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/consignmentgenie/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOutboxPublisherPublishWithTx(t *testing.T) {
	db, mock := setupMockDB(t)
	serializer := NewEventSerializer()
	serializer.Register("OrderCreated", &testutil.TestEvent{})
	publisher := NewOutboxPublisher(serializer)
	ctx := context.Background()

	tenantID := uuid.New()
	event := testutil.NewTestEvent("OrderCreated", tenantID)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(event.OccurredAt(), event.OccurredAt()))
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return publisher.PublishWithTx(ctx, tx, event)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxPublisherPublishesBatchInOneInsert(t *testing.T) {
	db, mock := setupMockDB(t)
	serializer := NewEventSerializer()
	serializer.Register("TransactionRecorded", &testutil.TestEvent{})
	publisher := NewOutboxPublisher(serializer)
	ctx := context.Background()

	// A POS sale emits several events in one transaction; all of them must
	// land in the outbox atomically.
	tenantID := uuid.New()
	events := []shared.DomainEvent{
		testutil.NewTestEvent("TransactionRecorded", tenantID),
		testutil.NewTestEvent("TransactionRecorded", tenantID),
		testutil.NewTestEvent("TransactionRecorded", tenantID),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(events[0].OccurredAt(), events[0].OccurredAt()).
			AddRow(events[1].OccurredAt(), events[1].OccurredAt()).
			AddRow(events[2].OccurredAt(), events[2].OccurredAt()))
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return publisher.PublishWithTx(ctx, tx, events...)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxPublisherNoEventsNoInsert(t *testing.T) {
	db, mock := setupMockDB(t)
	publisher := NewOutboxPublisher(NewEventSerializer())
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return publisher.PublishWithTx(ctx, tx)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxPublisherRollbackDiscardsEntries(t *testing.T) {
	db, mock := setupMockDB(t)
	serializer := NewEventSerializer()
	serializer.Register("OrderCreated", &testutil.TestEvent{})
	publisher := NewOutboxPublisher(serializer)
	ctx := context.Background()

	tenantID := uuid.New()
	event := testutil.NewTestEvent("OrderCreated", tenantID)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(event.OccurredAt(), event.OccurredAt()))
	mock.ExpectRollback()

	checkoutErr := errors.New("card declined")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := publisher.PublishWithTx(ctx, tx, event); err != nil {
			return err
		}
		return checkoutErr
	})

	require.Error(t, err)
	assert.Equal(t, checkoutErr, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
