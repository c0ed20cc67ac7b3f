package model

import "time"

type Customer struct {
	ID         string     `db:"id" json:"id"`
	BusinessID string     `db:"business_id" json:"business_id"`
	Name       string     `db:"name" json:"name"`
	Email      *string    `db:"email" json:"email,omitempty"`
	Phone      *string    `db:"phone" json:"phone,omitempty"`
	LastVisit  *time.Time `db:"last_visit" json:"last_visit,omitempty"`
	OptOut     bool       `db:"opt_out" json:"opt_out"`
	VisitCount int        `db:"visit_count" json:"visit_count"`
	TotalSpent float64    `db:"total_spent" json:"total_spent"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
