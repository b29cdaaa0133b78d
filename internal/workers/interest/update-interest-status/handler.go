// internal/workers/interest/update-interest-status/handler.go
package updateintereststatus

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
)

const (
	TaskType = "update-interest-status"
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
	status := models.InterestStatus(input.Status)
	switch status {
	case models.InterestAccepted, models.InterestDeclined, models.InterestWithdrawn:
	default:
		return nil, commonerrors.NewInvalidStatusError(input.Status)
	}

	var investorID, offeringID, founderID string
	err := h.db.QueryRowContext(ctx, `
		SELECT i.investor_id, i.offering_id, c.founder_id
		FROM interests i
		JOIN offerings o ON o.id = i.offering_id
		JOIN companies c ON c.id = o.company_id
		WHERE i.id = $1`,
		input.InterestID).Scan(&investorID, &offeringID, &founderID)
	if err == sql.ErrNoRows {
		return nil, commonerrors.NewInterestNotFoundError(input.InterestID)
	}
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("interest lookup", err)
	}

	// Withdrawal belongs to the investor; accept/decline to the founder.
	if status == models.InterestWithdrawn {
		if input.UserID != investorID {
			return nil, commonerrors.NewForbiddenError("only the interest owner can withdraw")
		}
	} else {
		if input.UserID != founderID {
			return nil, commonerrors.NewForbiddenError("only the offering founder can accept or decline")
		}
	}

	_, err = h.db.ExecContext(ctx, `
		UPDATE interests SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC().Format(time.RFC3339), input.InterestID)
	if err != nil {
		return nil, commonerrors.NewInterestWriteFailedError(err)
	}

	action := map[models.InterestStatus]string{
		models.InterestAccepted:  models.ActionInterestAccepted,
		models.InterestDeclined:  models.ActionInterestDeclined,
		models.InterestWithdrawn: models.ActionInterestWithdrawn,
	}[status]
	h.logActivity(ctx, input.UserID, action, offeringID, map[string]interface{}{
		"interest_id": input.InterestID,
	})

	h.logger.Info("interest status updated", map[string]interface{}{
		"interestId": input.InterestID,
		"status":     input.Status,
	})

	return &Output{
		InterestID: input.InterestID,
		OfferingID: offeringID,
		Status:     input.Status,
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
