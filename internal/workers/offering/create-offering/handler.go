// internal/workers/offering/create-offering/handler.go
package createoffering

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
)

const (
	TaskType = "create-offering"
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
	var companyID string
	err := h.db.QueryRowContext(ctx, `
		SELECT id FROM companies WHERE founder_id = $1`, input.UserID).Scan(&companyID)
	if err == sql.ErrNoRows {
		return nil, commonerrors.NewCompanyRequiredError(input.UserID)
	}
	if err != nil {
		return nil, commonerrors.NewOfferingWriteFailedError(err)
	}

	offering := &models.Offering{
		ID:                uuid.NewString(),
		CompanyID:         companyID,
		Title:             input.Title,
		Description:       input.Description,
		OfferingType:      models.OfferingType(input.OfferingType),
		TargetRaise:       input.TargetRaise,
		MinimumInvestment: input.MinimumInvestment,
		ValuationCap:      input.ValuationCap,
		EquityPercentage:  input.EquityPercentage,
		Status:            models.StatusDraft,
		Deadline:          input.Deadline,
		Highlights:        input.Highlights,
		Risks:             input.Risks,
		UseOfFunds:        input.UseOfFunds,
	}
	if offering.Highlights == nil {
		offering.Highlights = []string{}
	}
	if offering.Risks == nil {
		offering.Risks = []string{}
	}
	if offering.UseOfFunds == nil {
		offering.UseOfFunds = []models.UseOfFunds{}
	}

	highlights, _ := json.Marshal(offering.Highlights)
	risks, _ := json.Marshal(offering.Risks)
	useOfFunds, _ := json.Marshal(offering.UseOfFunds)

	now := time.Now().UTC().Format(time.RFC3339)
	offering.CreatedAt = now
	offering.UpdatedAt = now

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO offerings (
			id, company_id, title, description, offering_type, target_raise,
			minimum_investment, valuation_cap, equity_percentage, status,
			deadline, highlights, risks, use_of_funds, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		offering.ID, offering.CompanyID, offering.Title, offering.Description,
		offering.OfferingType, offering.TargetRaise, offering.MinimumInvestment,
		offering.ValuationCap, offering.EquityPercentage, offering.Status,
		offering.Deadline, highlights, risks, useOfFunds,
		offering.CreatedAt, offering.UpdatedAt,
	)
	if err != nil {
		return nil, commonerrors.NewOfferingWriteFailedError(err)
	}

	h.logActivity(ctx, input.UserID, models.ActionOfferingCreated, offering.ID, map[string]interface{}{
		"title": input.Title,
	})

	h.logger.Info("offering created", map[string]interface{}{
		"offeringId": offering.ID,
		"companyId":  companyID,
		"founderId":  input.UserID,
	})

	return &Output{Data: offering}, nil
}

// logActivity records the audit trail entry; a failed write is logged but
// never fails the offering creation itself.
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
