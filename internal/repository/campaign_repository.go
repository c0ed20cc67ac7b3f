package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/followback/followback-backend/internal/errors"
	"github.com/followback/followback-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	ListByBusiness(ctx context.Context, businessID string) ([]model.Campaign, error)
	ListActive(ctx context.Context) ([]model.Campaign, error)
	SetActive(ctx context.Context, id string, active bool) error
	CountByBusiness(ctx context.Context, businessID string) (int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO campaigns (id, business_id, name, trigger_days, channel, template, discount_percent, active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.BusinessID, c.Name, c.TriggerDays, c.Channel,
		c.Template, c.DiscountPercent, c.Active, c.CreatedAt,
	)
	return err
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	query := `
        SELECT id, business_id, name, trigger_days, channel, template, discount_percent, active, created_at
        FROM campaigns WHERE id=$1
    `
	var c model.Campaign
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.BusinessID, &c.Name, &c.TriggerDays, &c.Channel,
		&c.Template, &c.DiscountPercent, &c.Active, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) ListByBusiness(ctx context.Context, businessID string) ([]model.Campaign, error) {
	query := `
        SELECT id, business_id, name, trigger_days, channel, template, discount_percent, active, created_at
        FROM campaigns
        WHERE business_id=$1
        ORDER BY created_at DESC
    `
	return r.queryCampaigns(ctx, query, businessID)
}

// ListActive returns active campaigns across all businesses; this is the
// dispatch run's working set.
func (r *CampaignRepository) ListActive(ctx context.Context) ([]model.Campaign, error) {
	query := `
        SELECT id, business_id, name, trigger_days, channel, template, discount_percent, active, created_at
        FROM campaigns
        WHERE active=true
        ORDER BY created_at
    `
	return r.queryCampaigns(ctx, query)
}

func (r *CampaignRepository) queryCampaigns(ctx context.Context, query string, args ...interface{}) ([]model.Campaign, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		var c model.Campaign
		if err := rows.Scan(
			&c.ID, &c.BusinessID, &c.Name, &c.TriggerDays, &c.Channel,
			&c.Template, &c.DiscountPercent, &c.Active, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE campaigns SET active=$1 WHERE id=$2`
	res, err := r.DB.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewCampaignNotFound(id)
	}
	return nil
}

func (r *CampaignRepository) CountByBusiness(ctx context.Context, businessID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaigns WHERE business_id=$1`, businessID,
	).Scan(&count)
	return count, err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
