// internal/workers/investor/save-offering/handler.go
package saveoffering

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
	TaskType = "save-offering"

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
		code := "DATABASE_QUERY_FAILED"
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
		return nil, commonerrors.NewForbiddenError(fmt.Sprintf("role %q cannot manage a watchlist", input.Role))
	}

	switch input.Action {
	case "save":
		return h.save(ctx, input.UserID, input.OfferingID)
	case "unsave":
		return h.unsave(ctx, input.UserID, input.OfferingID)
	case "list", "":
		return h.list(ctx, input.UserID)
	default:
		return nil, commonerrors.NewValidationFailedError(fmt.Sprintf("unknown action %q", input.Action))
	}
}

func (h *Handler) save(ctx context.Context, userID, offeringID string) (*Output, error) {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO saved_offerings (investor_id, offering_id, created_at)
		VALUES ($1, $2, $3)`,
		userID, offeringID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, commonerrors.NewAlreadySavedError(offeringID)
		}
		return nil, commonerrors.NewQueryExecutionFailedError("save offering", err)
	}

	h.logActivity(ctx, userID, models.ActionOfferingSaved, offeringID)

	return &Output{Saved: true, Count: 1}, nil
}

func (h *Handler) unsave(ctx context.Context, userID, offeringID string) (*Output, error) {
	_, err := h.db.ExecContext(ctx, `
		DELETE FROM saved_offerings WHERE investor_id = $1 AND offering_id = $2`,
		userID, offeringID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("unsave offering", err)
	}
	return &Output{Saved: false, Count: 0}, nil
}

func (h *Handler) list(ctx context.Context, userID string) (*Output, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT s.offering_id, s.created_at, o.title, o.status, o.minimum_investment
		FROM saved_offerings s
		JOIN offerings o ON o.id = s.offering_id
		WHERE s.investor_id = $1
		ORDER BY s.created_at DESC`, userID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("list saved offerings", err)
	}
	defer rows.Close()

	saved := []models.SavedOffering{}
	for rows.Next() {
		var s models.SavedOffering
		var o models.Offering
		if err := rows.Scan(&s.OfferingID, &s.CreatedAt, &o.Title, &o.Status, &o.MinimumInvestment); err != nil {
			return nil, commonerrors.NewQueryExecutionFailedError("scan saved offering", err)
		}
		s.InvestorID = userID
		o.ID = s.OfferingID
		s.Offering = &o
		saved = append(saved, s)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("list saved offerings", err)
	}

	return &Output{Saved: len(saved) > 0, Data: saved, Count: len(saved)}, nil
}

func (h *Handler) logActivity(ctx context.Context, userID, action, entityID string) {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, user_id, action, entity_type, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, 'offering', $4, '{}', $5)`,
		uuid.NewString(), userID, action, entityID, time.Now().UTC().Format(time.RFC3339))
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
