package repository_test

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/followback/followback-backend/internal/model"
	"github.com/followback/followback-backend/internal/repository"
)

func newMessageRepo(t *testing.T) (*repository.MessageRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &repository.MessageRepository{DB: db}, mock
}

func TestCreateMessageDefaultsToPending(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(sqlmock.AnyArg(), "cust-1", "camp-1", model.ChannelEmail, model.StatusPending, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	msg := &model.Message{CustomerID: "cust-1", CampaignID: "camp-1", Channel: model.ChannelEmail}
	require.NoError(t, repo.Create(context.Background(), msg))

	assert.NotEmpty(t, msg.ID, "id must be assigned so the pixel URL can use it")
	assert.Equal(t, model.StatusPending, msg.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessagedCustomerIDs(t *testing.T) {
	repo, mock := newMessageRepo(t)
	candidates := []string{"cust-1", "cust-2", "cust-3"}

	mock.ExpectQuery(`SELECT DISTINCT customer_id\s+FROM messages\s+WHERE campaign_id=\$1 AND customer_id = ANY\(\$2\)`).
		WithArgs("camp-1", pq.Array(candidates)).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow("cust-2"))

	messaged, err := repo.MessagedCustomerIDs(context.Background(), "camp-1", candidates)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"cust-2": true}, messaged)
}

func TestMessagedCustomerIDsSkipsQueryForNoCandidates(t *testing.T) {
	repo, mock := newMessageRepo(t)

	messaged, err := repo.MessagedCustomerIDs(context.Background(), "camp-1", nil)
	require.NoError(t, err)
	assert.Empty(t, messaged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSentStampsProviderIDAndSentAt(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectExec(`UPDATE messages\s+SET status=\$1, provider_message_id=\$2, delivery_status=\$3, sent_at=NOW\(\)\s+WHERE id=\$4`).
		WithArgs(model.StatusSent, "SM123", "queued", "msg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkSent(context.Background(), "msg-1", "SM123", "queued"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryStatusKeyedByProviderID(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectExec(`UPDATE messages SET delivery_status=\$1, status=\$2 WHERE provider_message_id=\$3`).
		WithArgs("delivered", model.StatusDelivered, "SM123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateDeliveryStatus(context.Background(), "SM123", "delivered", model.StatusDelivered))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordOpenOnlyStampsFirstOpen(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectExec(`UPDATE messages SET opened_at=NOW\(\) WHERE id=\$1 AND opened_at IS NULL`).
		WithArgs("msg-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.RecordOpen(context.Background(), "msg-1"),
		"a repeat open matches no rows but is not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}
