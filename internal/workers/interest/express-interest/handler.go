// internal/workers/interest/express-interest/handler.go
package expressinterest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "equityai-workers/internal/common/errors"
	"equityai-workers/internal/common/logger"
	"equityai-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TaskType = "express-interest"

	uniqueViolation = "23505"
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		code := "INTEREST_WRITE_FAILED"
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
	if input.Role != string(models.RoleInvestor) {
		return nil, commonerrors.NewForbiddenError(fmt.Sprintf("role %q cannot express interest", input.Role))
	}

	var status string
	var minimumInvestment int64
	err := h.db.QueryRowContext(ctx, `
		SELECT status, minimum_investment FROM offerings WHERE id = $1`,
		input.OfferingID).Scan(&status, &minimumInvestment)
	if err == sql.ErrNoRows {
		return nil, commonerrors.NewOfferingNotFoundError(input.OfferingID)
	}
	if err != nil {
		return nil, commonerrors.NewOfferingReadFailedError(err)
	}
	if status != string(models.StatusLive) {
		return nil, commonerrors.NewOfferingNotAvailableError(input.OfferingID, status)
	}
	if input.Amount != nil && *input.Amount < minimumInvestment {
		return nil, commonerrors.NewAmountBelowMinimumError(*input.Amount, minimumInvestment)
	}

	interestID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO interests (id, offering_id, investor_id, amount, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		interestID, input.OfferingID, input.UserID, input.Amount, input.Message,
		models.InterestPending, now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, commonerrors.NewDuplicateInterestError(input.OfferingID)
		}
		return nil, commonerrors.NewInterestWriteFailedError(err)
	}

	h.logActivity(ctx, input.UserID, models.ActionInterestSubmitted, input.OfferingID, map[string]interface{}{
		"interest_id": interestID,
	})

	h.logger.Info("interest expressed", map[string]interface{}{
		"interestId": interestID,
		"offeringId": input.OfferingID,
		"investorId": input.UserID,
	})

	return &Output{
		InterestID: interestID,
		OfferingID: input.OfferingID,
		Status:     string(models.InterestPending),
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
