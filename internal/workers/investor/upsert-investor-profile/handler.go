// internal/workers/investor/upsert-investor-profile/handler.go
package upsertinvestorprofile

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
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "upsert-investor-profile"

	prefsCacheKeyPrefix = "investor:prefs:"
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redisClient,
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
		code := "PROFILE_UPSERT_FAILED"
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

	switch input.Action {
	case "get", "":
		return h.getProfile(ctx, input.UserID)
	case "upsert":
		return h.upsertProfile(ctx, input)
	default:
		return nil, commonerrors.NewValidationFailedError(fmt.Sprintf("unknown action %q", input.Action))
	}
}

func (h *Handler) getProfile(ctx context.Context, userID string) (*Output, error) {
	profile, err := h.readProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Output{Profile: profile, Found: profile != nil}, nil
}

func (h *Handler) upsertProfile(ctx context.Context, input *Input) (*Output, error) {
	sectors := input.SectorsOfInterest
	if sectors == nil {
		sectors = []string{}
	}
	stages := input.StagesOfInterest
	if stages == nil {
		stages = []string{}
	}
	sectorsJSON, _ := json.Marshal(sectors)
	stagesJSON, _ := json.Marshal(stages)

	accredited := false
	if input.Accredited != nil {
		accredited = *input.Accredited
	}
	portfolioSize := 0
	if input.PortfolioSize != nil {
		portfolioSize = *input.PortfolioSize
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO investor_profiles
			(id, user_id, accredited, investment_min, investment_max,
			 sectors_of_interest, stages_of_interest, portfolio_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			accredited = EXCLUDED.accredited,
			investment_min = EXCLUDED.investment_min,
			investment_max = EXCLUDED.investment_max,
			sectors_of_interest = EXCLUDED.sectors_of_interest,
			stages_of_interest = EXCLUDED.stages_of_interest,
			portfolio_size = EXCLUDED.portfolio_size,
			updated_at = EXCLUDED.updated_at`,
		uuid.NewString(), input.UserID, accredited, input.InvestmentMin, input.InvestmentMax,
		sectorsJSON, stagesJSON, portfolioSize, now)
	if err != nil {
		return nil, commonerrors.NewProfileUpsertFailedError(err)
	}

	// Stale preferences must not feed the match engine.
	if err := h.redis.Del(ctx, prefsCacheKeyPrefix+input.UserID).Err(); err != nil {
		h.logger.Warn("failed to invalidate preference cache", map[string]interface{}{
			"userId": input.UserID,
			"error":  err,
		})
	}

	h.logActivity(ctx, input.UserID, models.ActionProfileUpdated)

	profile, err := h.readProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("investor profile upserted", map[string]interface{}{
		"userId": input.UserID,
	})

	return &Output{Profile: profile, Found: true}, nil
}

func (h *Handler) readProfile(ctx context.Context, userID string) (*models.InvestorProfile, error) {
	row := h.db.QueryRowContext(ctx, `
		SELECT id, user_id, accredited, investment_min, investment_max,
		       sectors_of_interest, stages_of_interest, portfolio_size, created_at, updated_at
		FROM investor_profiles WHERE user_id = $1`, userID)

	var profile models.InvestorProfile
	var sectors, stages []byte
	err := row.Scan(&profile.ID, &profile.UserID, &profile.Accredited,
		&profile.InvestmentMin, &profile.InvestmentMax,
		&sectors, &stages, &profile.PortfolioSize,
		&profile.CreatedAt, &profile.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, commonerrors.NewProfileReadFailedError(err)
	}

	if err := json.Unmarshal(sectors, &profile.SectorsOfInterest); err != nil {
		profile.SectorsOfInterest = []string{}
	}
	if err := json.Unmarshal(stages, &profile.StagesOfInterest); err != nil {
		profile.StagesOfInterest = []string{}
	}

	return &profile, nil
}

func (h *Handler) logActivity(ctx context.Context, userID, action string) {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, user_id, action, entity_type, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, NULL, NULL, '{}', $4)`,
		uuid.NewString(), userID, action, time.Now().UTC().Format(time.RFC3339))
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
