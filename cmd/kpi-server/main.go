// cmd/kpi-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"kpi-prediction-service/internal/api"
	"kpi-prediction-service/internal/catalog"
	"kpi-prediction-service/internal/common/config"
	"kpi-prediction-service/internal/common/database"
	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/common/logger"
	"kpi-prediction-service/internal/engine"
	"kpi-prediction-service/internal/model"
	"kpi-prediction-service/internal/scenario"
	"kpi-prediction-service/internal/session"
	predictkpis "kpi-prediction-service/internal/workers/simulation/predict-kpis"
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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting KPI prediction service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Reference tables: Postgres when configured, CSV otherwise ---
	tables := loadReferenceTables(ctx, cfg, log, zapLog)

	// --- Model lifecycle: cached artifacts or degraded mode ---
	manager := model.NewManager(cfg.Data.Dir, cfg.Artifacts.Dir, cfg.Data.Files, log)
	if err := manager.Initialize(); err != nil {
		if apperrors.IsTrainingUnavailable(err) {
			zapLog.Warn("No usable model artifacts; serving baseline-only predictions",
				zap.Error(err),
			)
		} else {
			zapLog.Fatal("model initialization failed", zap.Error(err))
		}
	}

	// --- Session store ---
	store := newSessionStore(ctx, cfg, log, zapLog)
	defer store.Close()

	generator := scenario.NewGenerator(tables, log)
	eng := engine.New(manager, generator, store, log)

	// --- Zeebe worker (optional) ---
	var zeebeClient zbc.Client
	if cfg.Camunda.BrokerAddress != "" && config.IsWorkerEnabled(cfg, predictkpis.TaskType) {
		err = retryWithBackoff(func() error {
			var err error
			zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}

		wcfg := config.GetWorkerConfig(cfg, predictkpis.TaskType)
		workerCfg := predictkpis.LoadConfig()
		workerCfg.Timeout = config.GetDuration(wcfg.Timeout)
		handler := predictkpis.NewHandler(workerCfg, eng, log)
		startWorker(zeebeClient, predictkpis.TaskType, wcfg, handler.Handle, zapLog)
	} else {
		zapLog.Info("Zeebe worker disabled")
	}

	// --- HTTP server ---
	server := api.NewServer(cfg.Server, eng, store, log)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("KPI prediction service stopped gracefully")
}

// loadReferenceTables prefers the Postgres tables and falls back to the CSV
// loader, which itself falls back to synthetic data. The service always
// comes up with some reference tables.
func loadReferenceTables(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) *catalog.ReferenceTables {
	if cfg.Database.Postgres.Enabled() {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")
		if err == nil {
			defer pg.Close()
			tables, err := catalog.LoadReferenceFromDB(ctx, pg.DB)
			if err == nil {
				zapLog.Info("Reference tables loaded from PostgreSQL")
				return tables
			}
			zapLog.Warn("PostgreSQL reference load failed, falling back to CSV", zap.Error(err))
		} else {
			zapLog.Warn("PostgreSQL unavailable, falling back to CSV", zap.Error(err))
		}
	}
	return catalog.NewLoader(log).Load(cfg.Data.Dir)
}

// newSessionStore builds the configured session backend. Redis failures fall
// back to the in-memory store rather than refusing to start.
func newSessionStore(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) session.Store {
	timeout := time.Duration(cfg.Session.Timeout) * time.Second

	if cfg.Session.Backend == "redis" {
		var rc *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err == nil {
			zapLog.Info("Session store: redis")
			return session.NewRedisStore(rc.GetClient(), timeout, log)
		}
		zapLog.Warn("Redis unavailable, using in-memory session store", zap.Error(err))
	}

	store := session.NewMemoryStore(timeout, log)
	store.StartReaper(ctx, time.Minute)
	zapLog.Info("Session store: memory")
	return store
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
