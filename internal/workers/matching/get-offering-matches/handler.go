// internal/workers/matching/get-offering-matches/handler.go
package getofferingmatches

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	commonerrors "equityai-workers/internal/common/errors"
	"equityai-workers/internal/common/logger"
	"equityai-workers/internal/common/metrics"
	"equityai-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "get-offering-matches"

	prefsCacheKeyPrefix = "investor:prefs:"
)

var (
	ErrUnauthenticated = errors.New("UNAUTHENTICATED")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
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
		code := "MATCH_FAILED"
		var stdErr *commonerrors.StandardError
		if errors.As(err, &stdErr) {
			code = string(stdErr.Code)
		} else if errors.Is(err, ErrUnauthenticated) {
			code = "UNAUTHENTICATED"
		}
		h.failJob(client, job, code, err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, ErrUnauthenticated
	}

	prefs, err := h.getPreferences(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	// The candidate set and the investor's prior interests are independent
	// reads; fetch both at once.
	var (
		wg          sync.WaitGroup
		rows        []candidateRow
		rowsErr     error
		excluded    map[string]bool
		excludedErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rows, rowsErr = h.getLiveOfferings(ctx)
	}()
	go func() {
		defer wg.Done()
		excluded, excludedErr = h.getInterestedOfferingIDs(ctx, input.UserID)
	}()
	wg.Wait()

	if rowsErr != nil {
		return nil, commonerrors.NewOfferingReadFailedError(rowsErr)
	}
	if excludedErr != nil {
		return nil, commonerrors.NewOfferingReadFailedError(excludedErr)
	}

	// One clock read per request so every candidate sees the same "now".
	now := time.Now().UTC()

	candidates := make([]matching.Candidate, len(rows))
	byID := make(map[string]candidateRow, len(rows))
	for i, r := range rows {
		candidates[i] = matching.Candidate{
			OfferingID:        r.match.ID,
			Sector:            r.match.Company.Sector,
			Stage:             r.match.Company.Stage,
			MinimumInvestment: r.match.MinimumInvestment,
			InterestCount:     r.match.InterestCount,
			CreatedAt:         r.match.CreatedAt,
		}
		byID[r.match.ID] = r
	}

	ranked := matching.Rank(toMatchingPrefs(prefs), candidates, excluded, now)
	metrics.MatchCandidatesScored.Observe(float64(len(ranked)))

	if h.config.MaxResults > 0 && len(ranked) > h.config.MaxResults {
		ranked = ranked[:h.config.MaxResults]
	}

	data := make([]OfferingMatch, 0, len(ranked))
	for _, m := range ranked {
		row := byID[m.Candidate.OfferingID]
		om := row.match
		om.MatchScore = m.Score
		om.MatchReasons = m.Reasons
		data = append(data, om)
	}

	hasPrefs := matching.HasPreferences(toMatchingPrefs(prefs))
	metrics.MatchRequestsTotal.WithLabelValues(strconv.FormatBool(hasPrefs)).Inc()

	h.logger.Info("matches computed", map[string]interface{}{
		"userId":         input.UserID,
		"total":          len(data),
		"hasPreferences": hasPrefs,
	})

	return &Output{
		Data:           data,
		Total:          len(data),
		HasPreferences: hasPrefs,
	}, nil
}

type candidateRow struct {
	match OfferingMatch
}

// getPreferences loads the investor preference record, read-through cached
// in Redis. A missing record is a normal outcome and returns (nil, nil);
// only a real read failure returns an error.
func (h *Handler) getPreferences(ctx context.Context, userID string) (*Preferences, error) {
	cacheKey := prefsCacheKeyPrefix + userID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var prefs Preferences
		if err := json.Unmarshal([]byte(val), &prefs); err == nil {
			metrics.PreferenceCacheHits.WithLabelValues("hit").Inc()
			return &prefs, nil
		}
	}
	metrics.PreferenceCacheHits.WithLabelValues("miss").Inc()

	row := h.db.QueryRowContext(ctx, `
		SELECT sectors_of_interest, stages_of_interest, investment_min, investment_max
		FROM investor_profiles WHERE user_id = $1`, userID)

	var prefs Preferences
	var sectors, stages []byte
	err := row.Scan(&sectors, &stages, &prefs.InvestmentMin, &prefs.InvestmentMax)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, commonerrors.NewProfileReadFailedError(err)
	}

	if err := json.Unmarshal(sectors, &prefs.SectorsOfInterest); err != nil {
		prefs.SectorsOfInterest = []string{}
	}
	if err := json.Unmarshal(stages, &prefs.StagesOfInterest); err != nil {
		prefs.StagesOfInterest = []string{}
	}

	data, _ := json.Marshal(prefs)
	h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)

	return &prefs, nil
}

func (h *Handler) getLiveOfferings(ctx context.Context) ([]candidateRow, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT o.id, o.title, o.description, o.offering_type, o.target_raise,
		       o.minimum_investment, o.status, o.created_at,
		       c.id, c.name, c.sector, c.stage, COALESCE(c.logo_url, ''),
		       COUNT(i.id)
		FROM offerings o
		JOIN companies c ON c.id = o.company_id
		LEFT JOIN interests i ON i.offering_id = o.id
		WHERE o.status = 'live'
		GROUP BY o.id, c.id
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []candidateRow
	for rows.Next() {
		var m OfferingMatch
		var createdAt string
		err := rows.Scan(
			&m.ID, &m.Title, &m.Description, &m.OfferingType, &m.TargetRaise,
			&m.MinimumInvestment, &m.Status, &createdAt,
			&m.Company.ID, &m.Company.Name, &m.Company.Sector, &m.Company.Stage, &m.Company.LogoURL,
			&m.InterestCount,
		)
		if err != nil {
			return nil, err
		}
		// Timestamps are stored as RFC3339 strings. An unparseable value
		// zeroes CreatedAt, which forfeits the recency bonus only.
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		result = append(result, candidateRow{match: m})
	}
	return result, rows.Err()
}

func (h *Handler) getInterestedOfferingIDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT offering_id FROM interests WHERE investor_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func toMatchingPrefs(p *Preferences) *matching.Preferences {
	if p == nil {
		return nil
	}
	return &matching.Preferences{
		Sectors:       p.SectorsOfInterest,
		Stages:        p.StagesOfInterest,
		InvestmentMin: p.InvestmentMin,
		InvestmentMax: p.InvestmentMax,
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
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
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
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
