package model

import "time"

// Plan limits applied by the billing webhook when a subscription changes.
// Mirrored here so create endpoints can enforce quotas without calling out.
const (
	FreeCustomerLimit     = 50
	FreeCampaignLimit     = 3
	ProCustomerLimit      = 500
	ProCampaignLimit      = 20
	BusinessCustomerLimit = 2000
	BusinessCampaignLimit = 100
)

type Business struct {
	ID                 string    `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	PlanType           string    `db:"plan_type" json:"plan_type"` // free, pro, business
	SubscriptionStatus string    `db:"subscription_status" json:"subscription_status"`
	CustomerLimit      int       `db:"customer_limit" json:"customer_limit"`
	CampaignLimit      int       `db:"campaign_limit" json:"campaign_limit"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}
