// internal/workers/offering/list-offerings/handler_test.go
package listofferings

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

var listColumns = []string{
	"id", "company_id", "title", "description", "offering_type",
	"target_raise", "minimum_investment", "status", "created_at",
	"c_id", "name", "sector", "stage", "logo_url",
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func newHandler(t *testing.T, db *sql.DB) *Handler {
	return NewHandler(&Config{DefaultLimit: 50, Timeout: 5 * time.Second}, db, logger.NewTestLogger(t))
}

func TestHandler_BuildQuery_Defaults(t *testing.T) {
	handler := newHandler(t, nil)

	query, args := handler.buildQuery(&Input{})

	assert.Contains(t, query, "o.status = $1")
	assert.Contains(t, query, "ORDER BY o.created_at DESC")
	require.Len(t, args, 3)
	assert.Equal(t, "live", args[0])
	assert.Equal(t, 50, args[1])
	assert.Equal(t, 0, args[2])
}

func TestHandler_BuildQuery_AllStatusSkipsFilter(t *testing.T) {
	handler := newHandler(t, nil)

	query, args := handler.buildQuery(&Input{Status: "all"})

	assert.NotContains(t, query, "o.status =")
	require.Len(t, args, 2) // limit + offset only
}

func TestHandler_BuildQuery_AllFilters(t *testing.T) {
	handler := newHandler(t, nil)

	query, args := handler.buildQuery(&Input{
		Status:       "draft",
		Search:       "payments",
		OfferingType: "safe",
		Sector:       "Fintech",
		Stage:        "seed",
		Limit:        10,
		Offset:       20,
	})

	assert.Contains(t, query, "o.title ILIKE $2")
	assert.Contains(t, query, "o.offering_type = $3")
	assert.Contains(t, query, "c.sector = $4")
	assert.Contains(t, query, "c.stage = $5")
	require.Len(t, args, 7)
	assert.Equal(t, "%payments%", args[1])
	assert.Equal(t, 10, args[5])
	assert.Equal(t, 20, args[6])
}

func TestHandler_Execute_ReturnsOfferings(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows(listColumns).
		AddRow("off-1", "company-1", "Payments API", "desc", "safe",
			int64(50000000), int64(1000000), "live", "2025-06-01T00:00:00Z",
			"company-1", "PayCo", "Fintech", "seed", nil)
	mock.ExpectQuery("SELECT o.id, o.company_id").WillReturnRows(rows)

	output, err := newHandler(t, db).Execute(context.Background(), &Input{})

	require.NoError(t, err)
	require.Len(t, output.Data, 1)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, "PayCo", output.Data[0].Company.Name)
	assert.Nil(t, output.Data[0].Company.LogoURL)
}

func TestHandler_Execute_EmptyResultIsNotNil(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT o.id, o.company_id").
		WillReturnRows(sqlmock.NewRows(listColumns))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.NotNil(t, output.Data)
	assert.Empty(t, output.Data)
	assert.Equal(t, 0, output.Count)
}
