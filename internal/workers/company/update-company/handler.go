// internal/workers/company/update-company/handler.go
package updatecompany

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "equityai-workers/internal/common/errors"
	"equityai-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-company"
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
	var founderID string
	err := h.db.QueryRowContext(ctx, `
		SELECT founder_id FROM companies WHERE id = $1`, input.CompanyID).Scan(&founderID)
	if err == sql.ErrNoRows {
		return nil, commonerrors.NewCompanyNotFoundError(input.CompanyID)
	}
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("company lookup", err)
	}
	if founderID != input.UserID {
		return nil, commonerrors.NewForbiddenError("only the founder can update the company")
	}

	query, args := buildUpdate(input)
	if query == "" {
		return &Output{CompanyID: input.CompanyID, Updated: false}, nil
	}

	if _, err := h.db.ExecContext(ctx, query, args...); err != nil {
		return nil, commonerrors.NewCompanyWriteFailedError(err)
	}

	h.logger.Info("company updated", map[string]interface{}{
		"companyId": input.CompanyID,
	})

	return &Output{CompanyID: input.CompanyID, Updated: true}, nil
}

// buildUpdate assembles a partial UPDATE from the fields actually present.
// Returns an empty query when nothing changed.
func buildUpdate(input *Input) (string, []interface{}) {
	sets := []string{}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Name != nil {
		add("name", *input.Name)
	}
	if input.Description != nil {
		add("description", *input.Description)
	}
	if input.Sector != nil {
		add("sector", *input.Sector)
	}
	if input.Stage != nil {
		add("stage", *input.Stage)
	}
	if input.Website != nil {
		add("website", *input.Website)
	}
	if input.LogoURL != nil {
		add("logo_url", *input.LogoURL)
	}
	if input.FoundedYear != nil {
		add("founded_year", *input.FoundedYear)
	}
	if input.TeamSize != nil {
		add("team_size", *input.TeamSize)
	}
	if input.Location != nil {
		add("location", *input.Location)
	}

	if len(sets) == 0 {
		return "", nil
	}

	add("updated_at", time.Now().UTC().Format(time.RFC3339))
	args = append(args, input.CompanyID)

	query := "UPDATE companies SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	return query, args
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
