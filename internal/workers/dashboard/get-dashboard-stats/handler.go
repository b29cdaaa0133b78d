// internal/workers/dashboard/get-dashboard-stats/handler.go
package getdashboardstats

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
	TaskType = "get-dashboard-stats"
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
		code := "DASHBOARD_READ_FAILED"
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
	if input.UserID == "" {
		return nil, commonerrors.NewAuthenticationError("missing user id")
	}

	switch input.Role {
	case string(models.RoleFounder):
		stats, err := h.founderStats(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		return &Output{Founder: stats}, nil
	case string(models.RoleInvestor):
		stats, err := h.investorStats(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		return &Output{Investor: stats}, nil
	case string(models.RoleAdmin):
		stats, err := h.adminStats(ctx)
		if err != nil {
			return nil, err
		}
		return &Output{Admin: stats}, nil
	default:
		return nil, commonerrors.NewForbiddenError(fmt.Sprintf("unknown role %q", input.Role))
	}
}

func (h *Handler) founderStats(ctx context.Context, userID string) (*FounderStats, error) {
	var companyID string
	err := h.db.QueryRowContext(ctx, `
		SELECT id FROM companies WHERE founder_id = $1`, userID).Scan(&companyID)
	if err == sql.ErrNoRows {
		return &FounderStats{HasCompany: false}, nil
	}
	if err != nil {
		return nil, commonerrors.NewDashboardReadFailedError(err)
	}

	stats := &FounderStats{HasCompany: true}
	err = h.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'live')
		FROM offerings WHERE company_id = $1`, companyID).
		Scan(&stats.TotalOfferings, &stats.LiveOfferings)
	if err != nil {
		return nil, commonerrors.NewDashboardReadFailedError(err)
	}

	err = h.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(i.amount), 0),
		       COUNT(*) FILTER (WHERE i.status = 'pending')
		FROM interests i
		JOIN offerings o ON o.id = i.offering_id
		WHERE o.company_id = $1`, companyID).
		Scan(&stats.TotalInterests, &stats.TotalAmount, &stats.PendingInterests)
	if err != nil {
		return nil, commonerrors.NewDashboardReadFailedError(err)
	}

	return stats, nil
}

func (h *Handler) investorStats(ctx context.Context, userID string) (*InvestorStats, error) {
	stats := &InvestorStats{}
	err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'accepted')
		FROM interests WHERE investor_id = $1`, userID).
		Scan(&stats.TotalInterests, &stats.PendingInterests, &stats.AcceptedInterests)
	if err != nil {
		return nil, commonerrors.NewDashboardReadFailedError(err)
	}

	err = h.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM saved_offerings WHERE investor_id = $1`, userID).
		Scan(&stats.SavedCount)
	if err != nil {
		return nil, commonerrors.NewDashboardReadFailedError(err)
	}

	err = h.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM offerings WHERE status = 'live'`).
		Scan(&stats.LiveOfferings)
	if err != nil {
		return nil, commonerrors.NewDashboardReadFailedError(err)
	}

	return stats, nil
}

func (h *Handler) adminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}
	err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM profiles`).Scan(&stats.TotalUsers)
	if err != nil {
		return nil, commonerrors.NewDashboardReadFailedError(err)
	}

	err = h.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'under-review'),
		       COUNT(*) FILTER (WHERE status = 'live')
		FROM offerings`).
		Scan(&stats.TotalOfferings, &stats.PendingReview, &stats.LiveOfferings)
	if err != nil {
		return nil, commonerrors.NewDashboardReadFailedError(err)
	}

	err = h.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM interests`).Scan(&stats.TotalInterests)
	if err != nil {
		return nil, commonerrors.NewDashboardReadFailedError(err)
	}

	return stats, nil
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
