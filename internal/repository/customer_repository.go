package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/followback/followback-backend/internal/model"
)

type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *model.Customer) error
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	ListByBusiness(ctx context.Context, businessID string) ([]model.Customer, error)
	ListEligible(ctx context.Context, businessID string, lastVisitBefore time.Time, limit int) ([]model.Customer, error)
	IsOptedOut(ctx context.Context, id string) (bool, error)
	OptOutByPhone(ctx context.Context, phone string) (int64, error)
	CountByBusiness(ctx context.Context, businessID string) (int, error)
}

type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = `id, business_id, name, email, phone, last_visit, opt_out, visit_count, total_spent, created_at`

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO customers (id, business_id, name, email, phone, last_visit, opt_out, visit_count, total_spent, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.BusinessID, c.Name, c.Email, c.Phone, c.LastVisit,
		c.OptOut, c.VisitCount, c.TotalSpent, c.CreatedAt,
	)
	return err
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	var c model.Customer
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.BusinessID, &c.Name, &c.Email, &c.Phone, &c.LastVisit,
		&c.OptOut, &c.VisitCount, &c.TotalSpent, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) ListByBusiness(ctx context.Context, businessID string) ([]model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE business_id=$1 ORDER BY created_at DESC`
	return r.queryCustomers(ctx, query, businessID)
}

// ListEligible returns customers of a business who have not opted out and
// whose last visit is strictly before the cutoff. A visit exactly at the
// cutoff does not qualify. The limit caps per-run volume; customers beyond it
// are picked up on a later run since the filter is re-evaluated each time.
func (r *CustomerRepository) ListEligible(ctx context.Context, businessID string, lastVisitBefore time.Time, limit int) ([]model.Customer, error) {
	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE business_id=$1
          AND opt_out=false
          AND last_visit IS NOT NULL
          AND last_visit < $2
        ORDER BY id
        LIMIT $3
    `
	return r.queryCustomers(ctx, query, businessID, lastVisitBefore, limit)
}

func (r *CustomerRepository) queryCustomers(ctx context.Context, query string, args ...interface{}) ([]model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(
			&c.ID, &c.BusinessID, &c.Name, &c.Email, &c.Phone, &c.LastVisit,
			&c.OptOut, &c.VisitCount, &c.TotalSpent, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) IsOptedOut(ctx context.Context, id string) (bool, error) {
	var optOut bool
	err := r.DB.QueryRowContext(ctx, `SELECT opt_out FROM customers WHERE id=$1`, id).Scan(&optOut)
	if err != nil {
		return false, err
	}
	return optOut, nil
}

// OptOutByPhone flags every customer sharing the phone number; duplicates
// across businesses are all opted out, matching the inbound STOP semantics.
func (r *CustomerRepository) OptOutByPhone(ctx context.Context, phone string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE customers SET opt_out=true WHERE phone=$1`, phone)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *CustomerRepository) CountByBusiness(ctx context.Context, businessID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE business_id=$1`, businessID,
	).Scan(&count)
	return count, err
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
