// internal/workers/company/create-company/handler_test.go
package createcompany

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"equityai-workers/internal/common/logger"
	"equityai-workers/internal/common/validation"
	"equityai-workers/pkg/registry"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
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

func TestHandler_Execute_CreatesCompany(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO companies").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO activity_log").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "founder-1",
		Role:   "founder",
		Name:   "Acme Robotics",
		Sector: "robotics",
		Stage:  "seed",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, output.CompanyID)
	assert.Equal(t, "Acme Robotics", output.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SecondCompanyRejected(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO companies").
		WillReturnError(&pq.Error{Code: "23505"})

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "founder-1",
		Role:   "founder",
		Name:   "Acme Two",
		Sector: "robotics",
		Stage:  "seed",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "already has a company")
}

func TestHandler_Execute_InvestorForbidden(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "inv-1",
		Role:   "investor",
		Name:   "Acme",
		Sector: "robotics",
		Stage:  "seed",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "FORBIDDEN")
}

func TestRegistrySchemaValidatesInput(t *testing.T) {
	reg, err := registry.LoadRegistry("../../../../configs/activity-registry.json")
	require.NoError(t, err)
	activity, err := reg.FindByTaskType(TaskType)
	require.NoError(t, err)
	require.NotEmpty(t, activity.InputSchema)

	result, err := validation.ValidateInput(map[string]interface{}{
		"userId": "founder-1",
		"stage":  "ipo",
	}, activity.InputSchema)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	result, err = validation.ValidateInput(map[string]interface{}{
		"userId": "founder-1",
		"name":   "PayCo",
		"sector": "Fintech",
		"stage":  "seed",
	}, activity.InputSchema)
	require.NoError(t, err)
	assert.True(t, result.Valid, "%v", result.GetErrorMessages())
}
