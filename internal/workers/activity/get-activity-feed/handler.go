// internal/workers/activity/get-activity-feed/handler.go
package getactivityfeed

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
)

const (
	TaskType = "get-activity-feed"
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
	if input.UserID == "" {
		return nil, commonerrors.NewAuthenticationError("missing user id")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}

	query, args := h.buildQuery(input, limit)

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("activity feed", err)
	}
	defer rows.Close()

	now := time.Now().UTC()
	items := []FeedItem{}
	for rows.Next() {
		var item FeedItem
		var meta []byte
		var actorName, actorRole *string
		if err := rows.Scan(&item.ID, &item.UserID, &item.Action, &item.EntityType,
			&item.EntityID, &meta, &item.CreatedAt,
			&actorName, &item.ActorAvatar, &actorRole); err != nil {
			return nil, commonerrors.NewQueryExecutionFailedError("scan activity row", err)
		}
		if err := json.Unmarshal(meta, &item.Metadata); err != nil {
			item.Metadata = map[string]interface{}{}
		}
		item.ActorName = "Someone"
		if actorName != nil && *actorName != "" {
			item.ActorName = *actorName
		}
		if actorRole != nil {
			item.ActorRole = *actorRole
		}
		item.FormattedMessage = formatMessage(item.Action, item.ActorName)
		if created, err := time.Parse(time.RFC3339, item.CreatedAt); err == nil {
			item.TimeAgo = timeAgo(created, now)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("activity feed", err)
	}

	return &Output{
		Data:    items,
		Count:   len(items),
		HasMore: len(items) >= limit,
	}, nil
}

// buildQuery scopes the feed by role. Founders see their own activity plus
// interest submissions on their offerings; investors see their own activity
// plus accept/decline decisions on their interests; admins see everything.
func (h *Handler) buildQuery(input *Input, limit int) (string, []interface{}) {
	base := `
		SELECT a.id, a.user_id, a.action, a.entity_type, a.entity_id, a.metadata, a.created_at,
		       p.display_name, p.avatar_url, p.role
		FROM activity_log a
		LEFT JOIN profiles p ON p.id = a.user_id
		WHERE `

	var where string
	switch input.Role {
	case string(models.RoleFounder):
		where = `(a.user_id = $1
			OR (a.entity_type = 'offering' AND a.entity_id IN (
				SELECT o.id FROM offerings o
				JOIN companies c ON c.id = o.company_id
				WHERE c.founder_id = $1)
				AND a.action = 'interest_submitted'))`
	case string(models.RoleInvestor):
		where = `(a.user_id = $1
			OR (a.action IN ('interest_accepted', 'interest_declined')
				AND a.entity_id IN (
					SELECT i.offering_id FROM interests i WHERE i.investor_id = $1)))`
	case string(models.RoleAdmin):
		// Admins audit the whole marketplace.
		where = `($1::text IS NOT NULL)`
	default:
		where = `a.user_id = $1`
	}

	query := base + where + `
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3`

	return query, []interface{}{input.UserID, limit, input.Offset}
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
