// internal/workers/company/create-company/handler.go
package createcompany

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	commonerrors "equityai-workers/internal/common/errors"
	"equityai-workers/internal/common/logger"
	"equityai-workers/internal/common/validation"
	"equityai-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TaskType = "create-company"

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

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &raw); err == nil && h.config.InputSchema != nil {
		result, err := validation.ValidateInput(raw, h.config.InputSchema)
		if err == nil && !result.Valid {
			h.failJob(client, job, string(commonerrors.ErrCodeValidationFailed), strings.Join(result.GetErrorMessages(), "; "))
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code := "COMPANY_WRITE_FAILED"
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
	if input.Role != string(models.RoleFounder) {
		return nil, commonerrors.NewForbiddenError(fmt.Sprintf("role %q cannot create a company", input.Role))
	}

	companyID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO companies
			(id, founder_id, name, description, sector, stage, website, logo_url,
			 founded_year, team_size, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		companyID, input.UserID, input.Name, input.Description, input.Sector, input.Stage,
		input.Website, input.LogoURL, input.FoundedYear, input.TeamSize, input.Location, now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			// One company per founder.
			return nil, commonerrors.NewBusinessRuleError("founder already has a company", input.UserID)
		}
		return nil, commonerrors.NewCompanyWriteFailedError(err)
	}

	h.logActivity(ctx, input.UserID, models.ActionCompanyCreated, companyID, map[string]interface{}{
		"name": input.Name,
	})

	h.logger.Info("company created", map[string]interface{}{
		"companyId": companyID,
		"founderId": input.UserID,
	})

	return &Output{CompanyID: companyID, Name: input.Name}, nil
}

func (h *Handler) logActivity(ctx context.Context, userID, action, entityID string, metadata map[string]interface{}) {
	meta, _ := json.Marshal(metadata)
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, user_id, action, entity_type, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, 'company', $4, $5, $6)`,
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
