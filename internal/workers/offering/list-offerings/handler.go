// internal/workers/offering/list-offerings/handler.go
package listofferings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	commonerrors "equityai-workers/internal/common/errors"
	"equityai-workers/internal/common/logger"
	"equityai-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-offerings"
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

// buildQuery assembles the filtered listing query. "all" skips the status
// filter; everything else filters on it ("live" by default).
func (h *Handler) buildQuery(input *Input) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	status := input.Status
	if status == "" {
		status = "live"
	}
	if status != "all" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if input.Search != "" {
		args = append(args, "%"+input.Search+"%")
		conditions = append(conditions, fmt.Sprintf("o.title ILIKE $%d", len(args)))
	}
	if input.OfferingType != "" {
		args = append(args, input.OfferingType)
		conditions = append(conditions, fmt.Sprintf("o.offering_type = $%d", len(args)))
	}
	if input.Sector != "" {
		args = append(args, input.Sector)
		conditions = append(conditions, fmt.Sprintf("c.sector = $%d", len(args)))
	}
	if input.Stage != "" {
		args = append(args, input.Stage)
		conditions = append(conditions, fmt.Sprintf("c.stage = $%d", len(args)))
	}

	query := `
		SELECT o.id, o.company_id, o.title, o.description, o.offering_type,
		       o.target_raise, o.minimum_investment, o.status, o.created_at,
		       c.id, c.name, c.sector, c.stage, c.logo_url
		FROM offerings o
		JOIN companies c ON c.id = o.company_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d", len(args))
	args = append(args, input.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return query, args
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	query, args := h.buildQuery(input)

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, commonerrors.NewOfferingReadFailedError(err)
	}
	defer rows.Close()

	offerings := []models.Offering{}
	for rows.Next() {
		var o models.Offering
		var company models.Company
		err := rows.Scan(
			&o.ID, &o.CompanyID, &o.Title, &o.Description, &o.OfferingType,
			&o.TargetRaise, &o.MinimumInvestment, &o.Status, &o.CreatedAt,
			&company.ID, &company.Name, &company.Sector, &company.Stage, &company.LogoURL,
		)
		if err != nil {
			return nil, commonerrors.NewOfferingReadFailedError(err)
		}
		o.Company = &company
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewOfferingReadFailedError(err)
	}

	return &Output{Data: offerings, Count: len(offerings)}, nil
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
