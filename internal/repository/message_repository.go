package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/followback/followback-backend/internal/model"
)

type MessageRepositoryInterface interface {
	Create(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	MessagedCustomerIDs(ctx context.Context, campaignID string, customerIDs []string) (map[string]bool, error)
	MarkSent(ctx context.Context, id, providerMessageID, deliveryStatus string) error
	MarkFailed(ctx context.Context, id, deliveryStatus string) error
	UpdateDeliveryStatus(ctx context.Context, providerMessageID, deliveryStatus, status string) error
	RecordOpen(ctx context.Context, id string) error
}

type MessageRepository struct {
	DB *sql.DB
}

const messageColumns = `id, customer_id, campaign_id, channel, status, provider_message_id, delivery_status, sent_at, opened_at, created_at`

func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	m.ID = uuid.NewString()
	if m.Status == "" {
		m.Status = model.StatusPending
	}
	m.CreatedAt = time.Now()
	query := `
        INSERT INTO messages (id, customer_id, campaign_id, channel, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.DB.ExecContext(ctx, query,
		m.ID, m.CustomerID, m.CampaignID, m.Channel, m.Status, m.CreatedAt,
	)
	return err
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id=$1`
	var m model.Message
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.CustomerID, &m.CampaignID, &m.Channel, &m.Status,
		&m.ProviderMessageID, &m.DeliveryStatus, &m.SentAt, &m.OpenedAt, &m.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &m, nil
}

// MessagedCustomerIDs returns, out of the given candidates, the ids that
// already have a message row for the campaign. Any row counts, whatever its
// channel or status: a failed attempt blocks re-sends the same way a
// successful one does.
func (r *MessageRepository) MessagedCustomerIDs(ctx context.Context, campaignID string, customerIDs []string) (map[string]bool, error) {
	messaged := map[string]bool{}
	if len(customerIDs) == 0 {
		return messaged, nil
	}

	query := `
        SELECT DISTINCT customer_id
        FROM messages
        WHERE campaign_id=$1 AND customer_id = ANY($2)
    `
	rows, err := r.DB.QueryContext(ctx, query, campaignID, pq.Array(customerIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		messaged[id] = true
	}
	return messaged, rows.Err()
}

func (r *MessageRepository) MarkSent(ctx context.Context, id, providerMessageID, deliveryStatus string) error {
	query := `
        UPDATE messages
        SET status=$1, provider_message_id=$2, delivery_status=$3, sent_at=NOW()
        WHERE id=$4
    `
	_, err := r.DB.ExecContext(ctx, query, model.StatusSent, providerMessageID, deliveryStatus, id)
	return err
}

func (r *MessageRepository) MarkFailed(ctx context.Context, id, deliveryStatus string) error {
	query := `UPDATE messages SET status=$1, delivery_status=$2 WHERE id=$3`
	_, err := r.DB.ExecContext(ctx, query, model.StatusFailed, deliveryStatus, id)
	return err
}

// UpdateDeliveryStatus is keyed by the provider's message id, which is how
// delivery callbacks identify the message.
func (r *MessageRepository) UpdateDeliveryStatus(ctx context.Context, providerMessageID, deliveryStatus, status string) error {
	query := `UPDATE messages SET delivery_status=$1, status=$2 WHERE provider_message_id=$3`
	_, err := r.DB.ExecContext(ctx, query, deliveryStatus, status, providerMessageID)
	return err
}

// RecordOpen stamps opened_at on the first pixel hit only; later hits match
// zero rows and are no-ops.
func (r *MessageRepository) RecordOpen(ctx context.Context, id string) error {
	query := `UPDATE messages SET opened_at=NOW() WHERE id=$1 AND opened_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
