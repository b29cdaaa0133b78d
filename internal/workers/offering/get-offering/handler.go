// internal/workers/offering/get-offering/handler.go
package getoffering

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	commonerrors "equityai-workers/internal/common/errors"
	"equityai-workers/internal/common/logger"
	"equityai-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-offering"
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
		code := "OFFERING_READ_FAILED"
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
	row := h.db.QueryRowContext(ctx, `
		SELECT o.id, o.company_id, o.title, o.description, o.offering_type,
		       o.target_raise, o.minimum_investment, o.valuation_cap,
		       o.equity_percentage, o.status, o.deadline, o.highlights, o.risks,
		       o.use_of_funds, o.created_at, o.updated_at,
		       c.id, c.name, c.sector, c.stage, c.logo_url,
		       c.description, c.founder_id
		FROM offerings o
		JOIN companies c ON c.id = o.company_id
		WHERE o.id = $1`, input.OfferingID)

	var o models.Offering
	var company models.Company
	var highlights, risks, useOfFunds []byte
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.Title, &o.Description, &o.OfferingType,
		&o.TargetRaise, &o.MinimumInvestment, &o.ValuationCap,
		&o.EquityPercentage, &o.Status, &o.Deadline, &highlights, &risks,
		&useOfFunds, &o.CreatedAt, &o.UpdatedAt,
		&company.ID, &company.Name, &company.Sector, &company.Stage, &company.LogoURL,
		&company.Description, &company.FounderID,
	)
	if err == sql.ErrNoRows {
		return nil, commonerrors.NewOfferingNotFoundError(input.OfferingID)
	}
	if err != nil {
		return nil, commonerrors.NewOfferingReadFailedError(err)
	}

	if err := json.Unmarshal(highlights, &o.Highlights); err != nil {
		o.Highlights = []string{}
	}
	if err := json.Unmarshal(risks, &o.Risks); err != nil {
		o.Risks = []string{}
	}
	if err := json.Unmarshal(useOfFunds, &o.UseOfFunds); err != nil {
		o.UseOfFunds = []models.UseOfFunds{}
	}
	o.Company = &company

	err = h.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM interests WHERE offering_id = $1`, input.OfferingID).
		Scan(&o.InterestCount, &o.TotalInterestAmount)
	if err != nil {
		return nil, commonerrors.NewOfferingReadFailedError(err)
	}

	return &Output{Data: &o}, nil
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
