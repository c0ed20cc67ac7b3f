package model

import "time"

// Campaign channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelBoth  = "both"
)

type Campaign struct {
	ID              string    `db:"id" json:"id"`
	BusinessID      string    `db:"business_id" json:"business_id"`
	Name            string    `db:"name" json:"name"`
	TriggerDays     int       `db:"trigger_days" json:"trigger_days"`
	Channel         string    `db:"channel" json:"channel"`
	Template        string    `db:"template" json:"template"`
	DiscountPercent int       `db:"discount_percent" json:"discount_percent"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
