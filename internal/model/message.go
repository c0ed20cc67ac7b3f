package model

import "time"

// Message statuses
const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusDelivered = "delivered"
)

// Message is one send attempt for a (customer, campaign, channel). The row is
// created before the provider call so the id can be embedded in tracking URLs,
// then updated with the outcome.
type Message struct {
	ID                string     `db:"id" json:"id"`
	CustomerID        string     `db:"customer_id" json:"customer_id"`
	CampaignID        string     `db:"campaign_id" json:"campaign_id"`
	Channel           string     `db:"channel" json:"channel"`
	Status            string     `db:"status" json:"status"`
	ProviderMessageID string     `db:"provider_message_id" json:"provider_message_id,omitempty"`
	DeliveryStatus    string     `db:"delivery_status" json:"delivery_status,omitempty"`
	SentAt            *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	OpenedAt          *time.Time `db:"opened_at" json:"opened_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}
