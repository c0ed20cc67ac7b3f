package repository

import (
	"context"
	"database/sql"

	appErrors "github.com/followback/followback-backend/internal/errors"
	"github.com/followback/followback-backend/internal/model"
)

type BusinessRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*model.Business, error)
}

type BusinessRepository struct {
	DB *sql.DB
}

func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*model.Business, error) {
	query := `
        SELECT id, name, plan_type, subscription_status, customer_limit, campaign_limit, created_at
        FROM businesses WHERE id=$1
    `
	var b model.Business
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.PlanType, &b.SubscriptionStatus,
		&b.CustomerLimit, &b.CampaignLimit, &b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewBusinessNotFound(id)
		}
		return nil, err
	}
	return &b, nil
}

var _ BusinessRepositoryInterface = (*BusinessRepository)(nil)
