// internal/workers/activity/get-activity-feed/handler_test.go
package getactivityfeed

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

var feedColumns = []string{
	"id", "user_id", "action", "entity_type", "entity_id", "metadata", "created_at",
	"display_name", "avatar_url", "role",
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func newHandler(t *testing.T, db *sql.DB) *Handler {
	return NewHandler(&Config{DefaultLimit: 20, Timeout: 5 * time.Second}, db, logger.NewTestLogger(t))
}

func TestHandler_Execute_FormatsFeedItems(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	created := time.Now().UTC().Add(-5 * time.Minute).Format(time.RFC3339)
	entityType := "offering"
	entityID := "off-1"
	name := "Jane Doe"
	role := "investor"

	mock.ExpectQuery("SELECT a.id, a.user_id, a.action").
		WithArgs("founder-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(feedColumns).AddRow(
			"act-1", "inv-1", "interest_submitted", &entityType, &entityID,
			[]byte(`{"interest_id":"int-1"}`), created, &name, nil, &role))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "founder-1",
		Role:   "founder",
	})

	require.NoError(t, err)
	require.Len(t, output.Data, 1)
	item := output.Data[0]
	assert.Equal(t, "Jane Doe expressed interest in your offering", item.FormattedMessage)
	assert.Equal(t, "5m ago", item.TimeAgo)
	assert.Equal(t, "investor", item.ActorRole)
	assert.False(t, output.HasMore)
}

func TestHandler_Execute_MissingActorDefaultsToSomeone(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	created := time.Now().UTC().Format(time.RFC3339)

	mock.ExpectQuery("SELECT a.id, a.user_id, a.action").
		WithArgs("inv-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(feedColumns).AddRow(
			"act-1", "gone-user", "offering_created", nil, nil,
			[]byte(`{}`), created, nil, nil, nil))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "inv-1",
		Role:   "investor",
	})

	require.NoError(t, err)
	assert.Equal(t, "Someone created a new offering", output.Data[0].FormattedMessage)
}

func TestHandler_Execute_HasMoreWhenPageFull(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	created := time.Now().UTC().Format(time.RFC3339)
	rows := sqlmock.NewRows(feedColumns)
	for i := 0; i < 2; i++ {
		rows.AddRow("act", "u", "profile_updated", nil, nil, []byte(`{}`), created, nil, nil, nil)
	}
	mock.ExpectQuery("SELECT a.id, a.user_id, a.action").
		WithArgs("inv-1", 2, 0).
		WillReturnRows(rows)

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "inv-1",
		Role:   "investor",
		Limit:  2,
	})

	require.NoError(t, err)
	assert.True(t, output.HasMore)
	assert.Equal(t, 2, output.Count)
}

func TestHandler_Execute_EmptyFeed(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT a.id, a.user_id, a.action").
		WithArgs("admin-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(feedColumns))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "admin-1",
		Role:   "admin",
	})

	require.NoError(t, err)
	assert.NotNil(t, output.Data)
	assert.Equal(t, 0, output.Count)
	assert.False(t, output.HasMore)
}

func TestHandler_Execute_MissingUserID(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	output, err := newHandler(t, db).Execute(context.Background(), &Input{Role: "investor"})

	assert.Error(t, err)
	assert.Nil(t, output)
}

func TestHandler_Execute_AdminSeesAllActivity(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	created := time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339)
	nameA := "Jane Doe"
	nameB := "John Roe"

	mock.ExpectQuery(`IS NOT NULL`).
		WithArgs("admin-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(feedColumns).
			AddRow("act-1", "founder-1", "offering_created", nil, nil, []byte(`{}`), created, &nameA, nil, nil).
			AddRow("act-2", "inv-1", "profile_updated", nil, nil, []byte(`{}`), created, &nameB, nil, nil))

	output, err := newHandler(t, db).Execute(context.Background(), &Input{
		UserID: "admin-1",
		Role:   "admin",
	})

	require.NoError(t, err)
	require.Len(t, output.Data, 2)
	assert.Equal(t, "founder-1", output.Data[0].UserID)
	assert.Equal(t, "inv-1", output.Data[1].UserID)
}
