// internal/workers/company/update-company/handler_test.go
package updatecompany

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

func strPtr(s string) *string { return &s }

func TestBuildUpdate(t *testing.T) {
	t.Run("no fields", func(t *testing.T) {
		query, args := buildUpdate(&Input{CompanyID: "c-1"})
		assert.Empty(t, query)
		assert.Nil(t, args)
	})

	t.Run("partial fields", func(t *testing.T) {
		query, args := buildUpdate(&Input{
			CompanyID: "c-1",
			Name:      strPtr("New Name"),
			Sector:    strPtr("fintech"),
		})
		assert.Equal(t, "UPDATE companies SET name = $1, sector = $2, updated_at = $3 WHERE id = $4", query)
		require.Len(t, args, 4)
		assert.Equal(t, "New Name", args[0])
		assert.Equal(t, "c-1", args[3])
	})
}

func TestHandler_Execute_FounderUpdates(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT founder_id FROM companies").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"founder_id"}).AddRow("founder-1"))
	mock.ExpectExec("UPDATE companies SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID:    "founder-1",
		CompanyID: "c-1",
		Name:      strPtr("Renamed"),
	})

	require.NoError(t, err)
	assert.True(t, output.Updated)
}

func TestHandler_Execute_NonFounderForbidden(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT founder_id FROM companies").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"founder_id"}).AddRow("founder-1"))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID:    "someone-else",
		CompanyID: "c-1",
		Name:      strPtr("Hijacked"),
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "FORBIDDEN")
}

func TestHandler_Execute_CompanyMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT founder_id FROM companies").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"founder_id"}))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID:    "founder-1",
		CompanyID: "missing",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "COMPANY_NOT_FOUND")
}

func TestHandler_Execute_NoChangesIsNoOp(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT founder_id FROM companies").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"founder_id"}).AddRow("founder-1"))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID:    "founder-1",
		CompanyID: "c-1",
	})

	require.NoError(t, err)
	assert.False(t, output.Updated)
}
