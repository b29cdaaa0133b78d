// internal/workers/dashboard/get-dashboard-stats/handler_test.go
package getdashboardstats

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"equityai-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func newHandler(t *testing.T, db *sql.DB) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, db, logger.NewTestLogger(t))
}

func TestHandler_Execute_FounderWithCompany(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM companies").
		WithArgs("founder-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))
	mock.ExpectQuery("FROM offerings WHERE company_id").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "live"}).AddRow(4, 2))
	mock.ExpectQuery("FROM interests i").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "pending"}).
			AddRow(7, int64(3500000), 3))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "founder-1",
		Role:   "founder",
	})

	require.NoError(t, err)
	require.NotNil(t, output.Founder)
	assert.True(t, output.Founder.HasCompany)
	assert.Equal(t, 4, output.Founder.TotalOfferings)
	assert.Equal(t, 2, output.Founder.LiveOfferings)
	assert.Equal(t, int64(3500000), output.Founder.TotalAmount)
	assert.Equal(t, 3, output.Founder.PendingInterests)
}

func TestHandler_Execute_FounderWithoutCompany(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM companies").
		WithArgs("founder-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "founder-1",
		Role:   "founder",
	})

	require.NoError(t, err)
	require.NotNil(t, output.Founder)
	assert.False(t, output.Founder.HasCompany)
	assert.Zero(t, output.Founder.TotalOfferings)
}

func TestHandler_Execute_InvestorStats(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("FROM interests WHERE investor_id").
		WithArgs("inv-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "pending", "accepted"}).AddRow(5, 2, 1))
	mock.ExpectQuery("FROM saved_offerings").
		WithArgs("inv-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("FROM offerings WHERE status = 'live'").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "inv-1",
		Role:   "investor",
	})

	require.NoError(t, err)
	require.NotNil(t, output.Investor)
	assert.Equal(t, 5, output.Investor.TotalInterests)
	assert.Equal(t, 1, output.Investor.AcceptedInterests)
	assert.Equal(t, 3, output.Investor.SavedCount)
	assert.Equal(t, 12, output.Investor.LiveOfferings)
}

func TestHandler_Execute_AdminStats(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("FROM profiles").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(100))
	mock.ExpectQuery("FROM offerings").
		WillReturnRows(sqlmock.NewRows([]string{"count", "review", "live"}).AddRow(20, 4, 9))
	mock.ExpectQuery("FROM interests").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(55))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "admin-1",
		Role:   "admin",
	})

	require.NoError(t, err)
	require.NotNil(t, output.Admin)
	assert.Equal(t, 100, output.Admin.TotalUsers)
	assert.Equal(t, 4, output.Admin.PendingReview)
	assert.Equal(t, 55, output.Admin.TotalInterests)
}

func TestHandler_Execute_UnknownRole(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "user-1",
		Role:   "guest",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "FORBIDDEN")
}
