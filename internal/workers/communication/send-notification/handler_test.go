// internal/workers/communication/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"equityai-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	sent   int
	lastTo string
	fail   bool
}

func (m *mockSES) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	if m.fail {
		return nil, errors.New("ses unavailable")
	}
	m.sent++
	if len(input.Destination.ToAddresses) > 0 {
		m.lastTo = input.Destination.ToAddresses[0]
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	published int
}

func (m *mockSNS) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	m.published++
	return &sns.PublishOutput{}, nil
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func newHandler(t *testing.T, db *sql.DB, sesSvc SESService, snsSvc SNSService, smsEnabled bool) *Handler {
	cfg := &Config{SenderEmail: "noreply@test", SMSEnabled: smsEnabled, Timeout: 5 * time.Second}
	return NewHandler(cfg, db, sesSvc, snsSvc, logger.NewTestLogger(t))
}

func TestHandler_Execute_EmailDelivered(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	sesSvc := &mockSES{}

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newHandler(t, db, sesSvc, &mockSNS{}, false).Execute(context.Background(), &Input{
		UserID:  "user-1",
		Type:    "interest_received",
		Title:   "New interest",
		Body:    "Jane expressed interest in your offering",
		Channel: "email",
		Email:   "founder@test",
	})

	require.NoError(t, err)
	assert.True(t, output.Delivered)
	assert.Equal(t, 1, sesSvc.sent)
	assert.Equal(t, "founder@test", sesSvc.lastTo)
}

func TestHandler_Execute_MissingRecipientSkipsDelivery(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	sesSvc := &mockSES{}

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newHandler(t, db, sesSvc, &mockSNS{}, false).Execute(context.Background(), &Input{
		UserID:  "user-1",
		Type:    "interest_received",
		Title:   "New interest",
		Channel: "email",
	})

	require.NoError(t, err)
	assert.True(t, output.Skipped)
	assert.False(t, output.Delivered)
	assert.Equal(t, 0, sesSvc.sent)
	assert.NotEmpty(t, output.NotificationID)
}

func TestHandler_Execute_SESFailureFailsJob(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newHandler(t, db, &mockSES{fail: true}, &mockSNS{}, false).Execute(context.Background(), &Input{
		UserID:  "user-1",
		Type:    "interest_received",
		Title:   "New interest",
		Channel: "email",
		Email:   "founder@test",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "NOTIFICATION_SEND_FAILED")
}

func TestHandler_Execute_SMSDisabledSkips(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	snsSvc := &mockSNS{}

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newHandler(t, db, &mockSES{}, snsSvc, false).Execute(context.Background(), &Input{
		UserID:  "user-1",
		Type:    "offering_reviewed",
		Title:   "Offering approved",
		Channel: "sms",
		Phone:   "+15550100",
	})

	require.NoError(t, err)
	assert.True(t, output.Skipped)
	assert.Equal(t, 0, snsSvc.published)
}

func TestHandler_Execute_SMSDelivered(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	snsSvc := &mockSNS{}

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newHandler(t, db, &mockSES{}, snsSvc, true).Execute(context.Background(), &Input{
		UserID:  "user-1",
		Type:    "offering_reviewed",
		Title:   "Offering approved",
		Channel: "sms",
		Phone:   "+15550100",
	})

	require.NoError(t, err)
	assert.True(t, output.Delivered)
	assert.Equal(t, 1, snsSvc.published)
}

func TestHandler_Execute_InAppOnly(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	output, err := newHandler(t, db, &mockSES{}, &mockSNS{}, false).Execute(context.Background(), &Input{
		UserID: "user-1",
		Type:   "welcome",
		Title:  "Welcome",
	})

	require.NoError(t, err)
	assert.True(t, output.Delivered)
	assert.Equal(t, "in-app", output.Channel)
}
