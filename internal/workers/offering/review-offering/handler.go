// internal/workers/offering/review-offering/handler.go
package reviewoffering

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"equityai-workers/internal/common/auth"
	commonerrors "equityai-workers/internal/common/errors"
	"equityai-workers/internal/common/logger"
	"equityai-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "review-offering"
)

// Statuses an admin review may set.
var allowedStatuses = map[string]bool{
	"live":   true,
	"draft":  true,
	"closed": true,
}

// SessionService resolves an access token to a verified user and role.
type SessionService interface {
	Resolve(ctx context.Context, token string) (*auth.Session, error)
}

type Handler struct {
	config   *Config
	db       *sql.DB
	sessions SessionService
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, sessions SessionService, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		db:       db,
		sessions: sessions,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		code := "OFFERING_WRITE_FAILED"
		var stdErr *commonerrors.StandardError
		if errors.As(err, &stdErr) {
			code = string(stdErr.Code)
		}
		h.failJob(client, job, code, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// A token takes precedence over role variables from the process payload.
	if input.AccessToken != "" && h.sessions != nil {
		session, err := h.sessions.Resolve(ctx, input.AccessToken)
		if err != nil {
			return nil, err
		}
		input.UserID = session.UserID
		input.Role = session.Role
	}

	if input.Role != string(models.RoleAdmin) {
		return nil, commonerrors.NewForbiddenError(fmt.Sprintf("role %q cannot review offerings", input.Role))
	}
	if !allowedStatuses[input.Status] {
		return nil, commonerrors.NewInvalidStatusError(input.Status)
	}

	result, err := h.db.ExecContext(ctx, `
		UPDATE offerings SET status = $1, updated_at = $2 WHERE id = $3`,
		input.Status, time.Now().UTC().Format(time.RFC3339), input.OfferingID)
	if err != nil {
		return nil, commonerrors.NewOfferingWriteFailedError(err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, commonerrors.NewOfferingNotFoundError(input.OfferingID)
	}

	action := models.ActionOfferingRejected
	if input.Status == "live" {
		action = models.ActionOfferingApproved
	}
	h.logActivity(ctx, input.UserID, action, input.OfferingID, map[string]interface{}{
		"status": input.Status,
	})

	h.logger.Info("offering reviewed", map[string]interface{}{
		"offeringId": input.OfferingID,
		"status":     input.Status,
		"reviewerId": input.UserID,
	})

	return &Output{
		OfferingID: input.OfferingID,
		Status:     input.Status,
		Action:     action,
	}, nil
}

func (h *Handler) logActivity(ctx context.Context, userID, action, entityID string, metadata map[string]interface{}) {
	meta, _ := json.Marshal(metadata)
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, user_id, action, entity_type, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, 'offering', $4, $5, $6)`,
		uuid.NewString(), userID, action, entityID, meta, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		h.logger.Warn("failed to log activity", map[string]interface{}{
			"action": action,
			"error":  err,
		})
	}
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
