// internal/workers/communication/send-notification/handler.go
package sendnotification

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "equityai-workers/internal/common/errors"
	"equityai-workers/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

// SESService and SNSService wrap the AWS clients so tests can substitute mocks.
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config     *Config
	db         *sql.DB
	ses        SESService
	sns        SNSService
	logger     logger.Logger
	errHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, sesSvc SESService, snsSvc SNSService, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		ses:        sesSvc,
		sns:        snsSvc,
		logger:     scoped,
		errHandler: commonerrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		// Provider outages are transient; let the error handler decide
		// between a retry and a BPMN error.
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, commonerrors.NewAuthenticationError("missing user id")
	}
	if input.Title == "" || input.Type == "" {
		return nil, commonerrors.NewValidationFailedError("type and title are required")
	}

	notificationID, err := h.persist(ctx, input)
	if err != nil {
		return nil, err
	}

	channel := input.Channel
	if channel == "" {
		channel = "in-app"
	}

	switch channel {
	case "email":
		// A missing recipient downgrades to a stored notification only.
		if input.Email == "" {
			h.logger.Warn("no email on file, skipping delivery", map[string]interface{}{
				"userId": input.UserID,
			})
			return &Output{NotificationID: notificationID, Skipped: true, Channel: channel}, nil
		}
		if err := h.sendEmail(ctx, input); err != nil {
			return nil, commonerrors.NewNotificationSendFailedError("email", err)
		}
	case "sms":
		if !h.config.SMSEnabled || input.Phone == "" {
			h.logger.Warn("sms delivery unavailable, skipping", map[string]interface{}{
				"userId":  input.UserID,
				"enabled": h.config.SMSEnabled,
			})
			return &Output{NotificationID: notificationID, Skipped: true, Channel: channel}, nil
		}
		if err := h.sendSMS(ctx, input); err != nil {
			return nil, commonerrors.NewNotificationSendFailedError("sms", err)
		}
	case "in-app":
		// Already persisted.
	default:
		return nil, commonerrors.NewValidationFailedError(fmt.Sprintf("unknown channel %q", channel))
	}

	h.logger.Info("notification sent", map[string]interface{}{
		"notificationId": notificationID,
		"channel":        channel,
		"type":           input.Type,
	})

	return &Output{NotificationID: notificationID, Delivered: true, Channel: channel}, nil
}

func (h *Handler) persist(ctx context.Context, input *Input) (string, error) {
	metadata := input.Meta
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	meta, _ := json.Marshal(metadata)

	notificationID := uuid.NewString()
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, body, read, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6, $7)`,
		notificationID, input.UserID, input.Type, input.Title, input.Body,
		meta, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", commonerrors.NewNotificationWriteFailedError(err)
	}
	return notificationID, nil
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) error {
	_, err := h.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.SenderEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{input.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(input.Title)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(input.Body)},
			},
		},
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, input *Input) error {
	_, err := h.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(input.Phone),
		Message:     aws.String(input.Title + ": " + input.Body),
	})
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
