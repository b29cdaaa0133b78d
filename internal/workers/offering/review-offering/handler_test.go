// internal/workers/offering/review-offering/handler_test.go
package reviewoffering

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"equityai-workers/internal/common/auth"
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
	return NewHandler(&Config{Timeout: 5 * time.Second}, db, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_ApprovesOffering(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE offerings SET status").
		WithArgs("live", sqlmock.AnyArg(), "off-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO activity_log").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID:     "admin-1",
		Role:       "admin",
		OfferingID: "off-1",
		Status:     "live",
	})

	require.NoError(t, err)
	assert.Equal(t, "offering_approved", output.Action)
	assert.Equal(t, "live", output.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_RejectionLogsRejectedAction(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE offerings SET status").
		WithArgs("draft", sqlmock.AnyArg(), "off-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO activity_log").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID:     "admin-1",
		Role:       "admin",
		OfferingID: "off-1",
		Status:     "draft",
	})

	require.NoError(t, err)
	assert.Equal(t, "offering_rejected", output.Action)
}

func TestHandler_Execute_NonAdminForbidden(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID:     "founder-1",
		Role:       "founder",
		OfferingID: "off-1",
		Status:     "live",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "FORBIDDEN")
}

func TestHandler_Execute_InvalidStatus(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID:     "admin-1",
		Role:       "admin",
		OfferingID: "off-1",
		Status:     "funded",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "INVALID_STATUS")
}

func TestHandler_Execute_OfferingNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE offerings SET status").
		WithArgs("live", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID:     "admin-1",
		Role:       "admin",
		OfferingID: "missing",
		Status:     "live",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "OFFERING_NOT_FOUND")
}

type stubSessions struct {
	session *auth.Session
	err     error
}

func (s *stubSessions) Resolve(ctx context.Context, token string) (*auth.Session, error) {
	return s.session, s.err
}

func TestHandler_Execute_TokenOverridesRoleVariables(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE offerings SET status").
		WithArgs("live", sqlmock.AnyArg(), "off-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO activity_log").
		WillReturnResult(sqlmock.NewResult(0, 1))

	sessions := &stubSessions{session: &auth.Session{UserID: "admin-9", Role: "admin"}}
	handler := NewHandler(&Config{Timeout: 5 * time.Second}, db, sessions, logger.NewTestLogger(t))

	// The payload claims admin but the token resolves the caller; a forged
	// role variable alone must not be enough when a token is present.
	output, err := handler.Execute(context.Background(), &Input{
		UserID:      "someone-else",
		Role:        "investor",
		OfferingID:  "off-1",
		Status:      "live",
		AccessToken: "token-123",
	})

	require.NoError(t, err)
	assert.Equal(t, "offering_approved", output.Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_TokenResolvesNonAdmin(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	sessions := &stubSessions{session: &auth.Session{UserID: "inv-1", Role: "investor"}}
	handler := NewHandler(&Config{Timeout: 5 * time.Second}, db, sessions, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		Role:        "admin",
		OfferingID:  "off-1",
		Status:      "live",
		AccessToken: "token-123",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORBIDDEN")
}
