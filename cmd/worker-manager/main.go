// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"business-health-workers/internal/analysis"
	"business-health-workers/internal/common/aws"
	"business-health-workers/internal/common/camunda"
	"business-health-workers/internal/common/config"
	"business-health-workers/internal/common/database"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/common/observability"
	"business-health-workers/internal/conversation"
	"business-health-workers/internal/extraction"
	"business-health-workers/internal/presentation"
	"business-health-workers/internal/repository"
	"business-health-workers/pkg/registry"

	// Conversation workers
	pbm "business-health-workers/internal/workers/conversation/process-business-message"
	sbs "business-health-workers/internal/workers/conversation/start-business-session"

	// Analysis workers
	bbr "business-health-workers/internal/workers/analysis/build-business-report"
	cbm "business-health-workers/internal/workers/analysis/calculate-business-metrics"
	cb "business-health-workers/internal/workers/analysis/compare-benchmarks"
	sbh "business-health-workers/internal/workers/analysis/score-business-health"

	// AI workers
	ebf "business-health-workers/internal/workers/ai-conversation/extract-business-fields"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	if err := config.ValidateWorkerRuntime(cfg); err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("worker runtime config invalid", zap.Error(err))
	}

	zapLog := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
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

	// --- Init Redis with retry ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Engine wiring ---
	pgRepo := repository.NewPostgresRepository(pg.DB, log)
	if err := pgRepo.Migrate(ctx); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}
	repo := repository.NewCachedRepository(pgRepo, redis.Client,
		time.Duration(cfg.Conversation.HistoryCacheTTL)*time.Second, log)

	sessions := conversation.NewRedisStore(redis.Client, time.Duration(cfg.Conversation.SessionTTL)*time.Minute)

	backend, err := extraction.NewFromConfig(cfg, log)
	if err != nil {
		zapLog.Fatal("extraction backend init failed", zap.Error(err))
	}

	var presenter analysis.Presenter = presentation.NewLogPresenter(log)
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		presenter = presentation.NewSNSPresenter(snsClient, cfg.Integrations.AWS.SNS.TopicARN, log)
	}

	analyzer := analysis.NewAnalyzer(repo, presenter, cfg.Conversation.BenchmarkCategory, log)
	gate := conversation.NewGate(backend, log)
	machine := conversation.NewMachine(sessions, backend, gate, analyzer, log)

	zapLog.Info("Engine initialized",
		zap.String("extractionProvider", cfg.Extraction.Provider),
		zap.Bool("snsEnabled", cfg.Integrations.AWS.SNS.Enabled),
		zap.String("benchmarkCategory", cfg.Conversation.BenchmarkCategory),
	)

	// --- Register workers ---
	activities := registry.Default()
	for taskType := range cfg.Workers {
		if _, ok := activities.Find(taskType); !ok {
			zapLog.Warn("unknown worker in config, ignored", zap.String("taskType", taskType))
		}
	}

	var workers []worker.JobWorker
	register := func(taskType string, handler camunda.JobHandler) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		wcfg := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), taskType, wcfg, handler, obs, log))
	}
	timeoutOf := func(taskType string, fallback time.Duration) time.Duration {
		if w, ok := cfg.Workers[taskType]; ok && w.Timeout > 0 {
			return config.GetDuration(w.Timeout)
		}
		return fallback
	}

	// --- 1. Conversation Workers ---
	{
		c := pbm.LoadConfig()
		c.Timeout = timeoutOf(pbm.TaskType, c.Timeout)
		register(pbm.TaskType, pbm.NewHandler(c, machine, log).WithObservability(obs))
	}
	{
		c := sbs.LoadConfig()
		c.Timeout = timeoutOf(sbs.TaskType, c.Timeout)
		register(sbs.TaskType, sbs.NewHandler(c, machine, log))
	}

	// --- 2. Analysis Workers ---
	{
		c := cbm.LoadConfig()
		c.Timeout = timeoutOf(cbm.TaskType, c.Timeout)
		register(cbm.TaskType, cbm.NewHandler(c, log))
	}
	{
		c := sbh.LoadConfig()
		c.Timeout = timeoutOf(sbh.TaskType, c.Timeout)
		c.DefaultCategory = cfg.Conversation.BenchmarkCategory
		register(sbh.TaskType, sbh.NewHandler(c, log))
	}
	{
		c := cb.LoadConfig()
		c.Timeout = timeoutOf(cb.TaskType, c.Timeout)
		c.DefaultCategory = cfg.Conversation.BenchmarkCategory
		register(cb.TaskType, cb.NewHandler(c, log))
	}
	{
		c := bbr.LoadConfig()
		c.Timeout = timeoutOf(bbr.TaskType, c.Timeout)
		c.DefaultHistory = cfg.Conversation.HistoryLimit
		c.Category = cfg.Conversation.BenchmarkCategory
		register(bbr.TaskType, bbr.NewHandler(c, repo, log))
	}

	// --- 3. AI Workers ---
	{
		c := ebf.LoadConfig()
		c.Timeout = timeoutOf(ebf.TaskType, c.Timeout)
		register(ebf.TaskType, ebf.NewHandler(c, backend, log))
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pg.Ping(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "postgres unavailable")
			return
		}
		if err := redis.Ping(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	for _, w := range workers {
		w.AwaitClose()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
