package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	appErrors "github.com/followback/followback-backend/internal/errors"
	"github.com/followback/followback-backend/internal/model"
)

type WaitlistRepositoryInterface interface {
	Add(ctx context.Context, email string) (*model.WaitlistEntry, error)
}

type WaitlistRepository struct {
	DB *sql.DB
}

// Add inserts the email, relying on the unique constraint for duplicates.
func (r *WaitlistRepository) Add(ctx context.Context, email string) (*model.WaitlistEntry, error) {
	entry := &model.WaitlistEntry{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	query := `INSERT INTO waitlist (id, email, created_at) VALUES ($1, $2, $3)`
	_, err := r.DB.ExecContext(ctx, query, entry.ID, entry.Email, entry.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, appErrors.ErrDuplicateWaitlistEmail
		}
		return nil, err
	}
	return entry, nil
}

var _ WaitlistRepositoryInterface = (*WaitlistRepository)(nil)
