// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"equityai-workers/internal/common/auth"
	"equityai-workers/internal/common/aws"
	"equityai-workers/internal/common/camunda"
	"equityai-workers/internal/common/config"
	"equityai-workers/internal/common/database"
	"equityai-workers/internal/common/logger"
	"equityai-workers/internal/common/observability"
	"equityai-workers/pkg/registry"

	// Matching
	gom "equityai-workers/internal/workers/matching/get-offering-matches"

	// Offerings
	co "equityai-workers/internal/workers/offering/create-offering"
	gof "equityai-workers/internal/workers/offering/get-offering"
	lo "equityai-workers/internal/workers/offering/list-offerings"
	ro "equityai-workers/internal/workers/offering/review-offering"

	// Interests
	ei "equityai-workers/internal/workers/interest/express-interest"
	uis "equityai-workers/internal/workers/interest/update-interest-status"

	// Investor
	so "equityai-workers/internal/workers/investor/save-offering"
	uip "equityai-workers/internal/workers/investor/upsert-investor-profile"

	// Companies
	cc "equityai-workers/internal/workers/company/create-company"
	gc "equityai-workers/internal/workers/company/get-company"
	uc "equityai-workers/internal/workers/company/update-company"

	// Activity
	gaf "equityai-workers/internal/workers/activity/get-activity-feed"
	ra "equityai-workers/internal/workers/activity/record-activity"

	// Notifications
	ln "equityai-workers/internal/workers/notification/list-notifications"
	mnr "equityai-workers/internal/workers/notification/mark-notifications-read"

	sn "equityai-workers/internal/workers/communication/send-notification"

	// Dashboard & Search
	gds "equityai-workers/internal/workers/dashboard/get-dashboard-stats"
	sof "equityai-workers/internal/workers/search/search-offerings"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs = observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init External Service Clients ---
	sessionResolver := auth.NewSessionResolver(
		cfg.Auth.IdentityProvider.URL,
		cfg.Auth.IdentityProvider.Realm,
		cfg.Auth.IdentityProvider.ClientID,
		cfg.Auth.IdentityProvider.ClientSecret,
	)

	sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client failed", zap.Error(err))
	}
	snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client failed", zap.Error(err))
	}

	activityRegistry, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	zapLog.Info("Activity registry loaded",
		zap.Int("activities", len(activityRegistry.TaskTypes())))

	// Workers that validate raw job variables take their schema from the
	// registry, so the published contract and the enforced one never drift.
	inputSchemaFor := func(taskType string) map[string]interface{} {
		activity, err := activityRegistry.FindByTaskType(taskType)
		if err != nil {
			zapLog.Fatal("activity registry lookup failed",
				zap.String("taskType", taskType), zap.Error(err))
		}
		return activity.InputSchema
	}

	zapLog.Info("All external service clients initialized")

	// --- Register Workers ---

	// --- 1. Matching ---
	if cfg.Workers[gom.TaskType].Enabled {
		handler := gom.NewHandler(
			&gom.Config{
				CacheTTL:   time.Duration(cfg.Matching.PreferenceCacheTTL) * time.Second,
				MaxResults: cfg.Matching.MaxResults,
				Timeout:    time.Duration(cfg.Workers[gom.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, gom.TaskType, cfg.Workers[gom.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Offering Workers ---
	if cfg.Workers[co.TaskType].Enabled {
		handler := co.NewHandler(
			&co.Config{
				Timeout:     time.Duration(cfg.Workers[co.TaskType].Timeout) * time.Millisecond,
				InputSchema: inputSchemaFor(co.TaskType),
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, co.TaskType, cfg.Workers[co.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[gof.TaskType].Enabled {
		handler := gof.NewHandler(
			&gof.Config{
				Timeout: time.Duration(cfg.Workers[gof.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, gof.TaskType, cfg.Workers[gof.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[lo.TaskType].Enabled {
		handler := lo.NewHandler(
			&lo.Config{
				DefaultLimit: 20,
				Timeout:      time.Duration(cfg.Workers[lo.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, lo.TaskType, cfg.Workers[lo.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ro.TaskType].Enabled {
		handler := ro.NewHandler(
			&ro.Config{
				Timeout: time.Duration(cfg.Workers[ro.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, sessionResolver, log,
		)
		startWorker(zeebeClient, ro.TaskType, cfg.Workers[ro.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Interest Workers ---
	if cfg.Workers[ei.TaskType].Enabled {
		handler := ei.NewHandler(
			&ei.Config{
				Timeout: time.Duration(cfg.Workers[ei.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, ei.TaskType, cfg.Workers[ei.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[uis.TaskType].Enabled {
		handler := uis.NewHandler(
			&uis.Config{
				Timeout: time.Duration(cfg.Workers[uis.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, uis.TaskType, cfg.Workers[uis.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Investor Workers ---
	if cfg.Workers[uip.TaskType].Enabled {
		handler := uip.NewHandler(
			&uip.Config{
				Timeout: time.Duration(cfg.Workers[uip.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, uip.TaskType, cfg.Workers[uip.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[so.TaskType].Enabled {
		handler := so.NewHandler(
			&so.Config{
				Timeout: time.Duration(cfg.Workers[so.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, so.TaskType, cfg.Workers[so.TaskType], handler.Handle, zapLog)
	}

	// --- 5. Company Workers ---
	if cfg.Workers[cc.TaskType].Enabled {
		handler := cc.NewHandler(
			&cc.Config{
				Timeout:     time.Duration(cfg.Workers[cc.TaskType].Timeout) * time.Millisecond,
				InputSchema: inputSchemaFor(cc.TaskType),
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, cc.TaskType, cfg.Workers[cc.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[gc.TaskType].Enabled {
		handler := gc.NewHandler(
			&gc.Config{
				Timeout: time.Duration(cfg.Workers[gc.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, gc.TaskType, cfg.Workers[gc.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[uc.TaskType].Enabled {
		handler := uc.NewHandler(
			&uc.Config{
				Timeout: time.Duration(cfg.Workers[uc.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, uc.TaskType, cfg.Workers[uc.TaskType], handler.Handle, zapLog)
	}

	// --- 6. Activity Workers ---
	if cfg.Workers[ra.TaskType].Enabled {
		handler := ra.NewHandler(
			&ra.Config{
				Timeout: time.Duration(cfg.Workers[ra.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, ra.TaskType, cfg.Workers[ra.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[gaf.TaskType].Enabled {
		handler := gaf.NewHandler(
			&gaf.Config{
				DefaultLimit: 20,
				Timeout:      time.Duration(cfg.Workers[gaf.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, gaf.TaskType, cfg.Workers[gaf.TaskType], handler.Handle, zapLog)
	}

	// --- 7. Notification Workers ---
	if cfg.Workers[ln.TaskType].Enabled {
		handler := ln.NewHandler(
			&ln.Config{
				DefaultLimit: 20,
				Timeout:      time.Duration(cfg.Workers[ln.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, ln.TaskType, cfg.Workers[ln.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[mnr.TaskType].Enabled {
		handler := mnr.NewHandler(
			&mnr.Config{
				Timeout: time.Duration(cfg.Workers[mnr.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, mnr.TaskType, cfg.Workers[mnr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sn.TaskType].Enabled {
		handler := sn.NewHandler(
			&sn.Config{
				SenderEmail: cfg.Notifications.Email.FromEmail,
				SMSEnabled:  cfg.Notifications.SMS.Enabled,
				Timeout:     time.Duration(cfg.Workers[sn.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, sesClient, snsClient, log,
		)
		startWorker(zeebeClient, sn.TaskType, cfg.Workers[sn.TaskType], handler.Handle, zapLog)
	}

	// --- 8. Dashboard & Search Workers ---
	if cfg.Workers[gds.TaskType].Enabled {
		handler := gds.NewHandler(
			&gds.Config{
				Timeout: time.Duration(cfg.Workers[gds.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, gds.TaskType, cfg.Workers[gds.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sof.TaskType].Enabled {
		handler := sof.NewHandler(
			&sof.Config{
				Index:        cfg.Search.OfferingsIndex,
				DefaultLimit: cfg.Search.MaxHits,
				Timeout:      time.Duration(cfg.Workers[sof.TaskType].Timeout) * time.Millisecond,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, sof.TaskType, cfg.Workers[sof.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range activeWorkers {
		w.Close()
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// activeWorkers tracks every opened job worker for graceful shutdown.
var activeWorkers []*camunda.Worker

var obs *observability.Observability

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	w := camunda.StartWorker(
		client,
		taskType,
		wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond,
		handlerFunc,
		log,
		obs,
	)
	activeWorkers = append(activeWorkers, w)
}
