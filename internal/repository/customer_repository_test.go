package repository_test

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/followback/followback-backend/internal/repository"
)

func newCustomerRepo(t *testing.T) (*repository.CustomerRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &repository.CustomerRepository{DB: db}, mock
}

func TestListEligibleFiltersOnCutoffAndLimit(t *testing.T) {
	repo, mock := newCustomerRepo(t)
	cutoff := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	lastVisit := cutoff.Add(-10 * 24 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "business_id", "name", "email", "phone", "last_visit",
		"opt_out", "visit_count", "total_spent", "created_at",
	}).AddRow(
		"cust-1", "biz-1", "Ana", "ana@example.com", "+15550000001", lastVisit,
		false, 8, 320.0, time.Now(),
	)

	mock.ExpectQuery(`opt_out=false\s+AND last_visit IS NOT NULL\s+AND last_visit < \$2\s+ORDER BY id\s+LIMIT \$3`).
		WithArgs("biz-1", cutoff, 100).
		WillReturnRows(rows)

	customers, err := repo.ListEligible(context.Background(), "biz-1", cutoff, 100)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "cust-1", customers[0].ID)
	assert.Equal(t, "Ana", customers[0].Name)
	require.NotNil(t, customers[0].Email)
	assert.Equal(t, "ana@example.com", *customers[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEligibleReturnsEmptySliceNotNil(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectQuery(`FROM customers`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "business_id", "name", "email", "phone", "last_visit",
			"opt_out", "visit_count", "total_spent", "created_at",
		}))

	customers, err := repo.ListEligible(context.Background(), "biz-1", time.Now(), 100)
	require.NoError(t, err)
	assert.NotNil(t, customers)
	assert.Empty(t, customers)
}

func TestGetCustomerByIDReturnsNilWhenMissing(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectQuery(`FROM customers WHERE id=\$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	customer, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestOptOutByPhoneReportsAffectedRows(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectExec(`UPDATE customers SET opt_out=true WHERE phone=\$1`).
		WithArgs("+15550000001").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.OptOutByPhone(context.Background(), "+15550000001")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsOptedOut(t *testing.T) {
	repo, mock := newCustomerRepo(t)

	mock.ExpectQuery(`SELECT opt_out FROM customers WHERE id=\$1`).
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows([]string{"opt_out"}).AddRow(true))

	optedOut, err := repo.IsOptedOut(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.True(t, optedOut)
}
