package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	reputationservice "quad/contexts/community-experience/reputation-service"
	moderationservice "quad/contexts/moderation-safety/moderation-service"
	postgresadapter "quad/contexts/moderation-safety/moderation-service/adapters/postgres"
	redisadapter "quad/contexts/moderation-safety/moderation-service/adapters/redis"
	reputationadapter "quad/contexts/moderation-safety/moderation-service/adapters/reputation"
	"quad/contexts/moderation-safety/moderation-service/ports"
	"quad/internal/platform/config"
	"quad/internal/platform/db"
	"quad/internal/platform/httpserver"
	"quad/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server  *httpserver.Server
	runtime *runtime
	// embedded is set when no database is configured; the background jobs
	// then share the API process memory.
	embedded *WorkerApp
	logger   *slog.Logger
}

type WorkerApp struct {
	runtime      *runtime
	pollInterval time.Duration
	logger       *slog.Logger
}

// runtime holds the adapters shared by the API and worker processes.
type runtime struct {
	moderation moderationservice.Module
	reputation reputationservice.Module
	postgres   *db.Postgres
	broker     broker
	redis      *redis.Client
	filterBus  *redisadapter.FilterInvalidation
	// inProcess reports that events never leave this process, so the
	// enqueue consumer has to run next to the publisher.
	inProcess bool
}

type broker interface {
	ports.EventPublisher
	ports.EventSubscriber
	Close() error
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	rt, err := buildRuntime(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &APIApp{
		server:  httpserver.New(rt.moderation, rt.reputation, logger, normalizeAddr(cfg.HTTPPort)),
		runtime: rt,
		logger:  logger,
	}
	if rt.postgres == nil {
		app.embedded = &WorkerApp{runtime: rt, pollInterval: cfg.WorkerPollInterval, logger: logger}
	}
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	rt, err := buildRuntime(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		runtime:      rt,
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

func buildRuntime(cfg config.Config, logger *slog.Logger) (_ *runtime, err error) {
	rt := &runtime{}
	defer func() {
		if err != nil {
			_ = rt.close()
		}
	}()

	switch cfg.MessagingDriver {
	case config.MessagingKafka:
		kafka, kafkaErr := messaging.NewKafka(cfg.KafkaBrokers, logger)
		if kafkaErr != nil {
			return nil, kafkaErr
		}
		rt.broker = kafka
	default:
		rt.broker = messaging.NewBus(logger)
		rt.inProcess = true
	}

	if cfg.RedisURL != "" {
		options, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", parseErr)
		}
		rt.redis = redis.NewClient(options)
		rt.filterBus = redisadapter.NewFilterInvalidation(rt.redis, redisadapter.DefaultInvalidationChannel, cfg.ServiceName, logger)
	}

	rt.reputation = reputationservice.NewInMemoryModule(logger)
	var reputationClient ports.ReputationClient = reputationadapter.InProcess{Ledger: rt.reputation.Service}
	if cfg.ReputationBaseURL != "" {
		reputationClient = reputationadapter.NewHTTPClient(cfg.ReputationBaseURL, logger)
	}

	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, using in-memory moderation store",
			"event", "bootstrap_memory_store_selected",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		rt.moderation = moderationservice.NewInMemoryModule(reputationClient, logger)
		return rt, nil
	}

	if cfg.RunMigrations {
		if err := db.Migrate(cfg.PostgresDSN, logger); err != nil {
			return nil, err
		}
	}
	pg, err := db.ConnectWithOptions(cfg.PostgresDSN, db.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	rt.postgres = pg

	repo := postgresadapter.NewRepository(pg.DB, logger)
	deps := moderationservice.Dependencies{
		Filters:            repo,
		Queue:              repo,
		Actions:            repo,
		Appeals:            repo,
		Penalties:          repo,
		Outbox:             repo,
		Idempotency:        repo,
		EventDedup:         repo,
		Publisher:          rt.broker,
		Subscriber:         rt.broker,
		Reputation:         reputationClient,
		Clock:              postgresadapter.SystemClock{},
		IDGenerator:        postgresadapter.UUIDGenerator{},
		RuleCacheTTL:       cfg.RuleCacheTTL,
		MaxContentRunes:    cfg.MaxContentRunes,
		BulkConcurrency:    cfg.BulkActionConcurrency,
		PenaltyMaxAttempts: cfg.PenaltyMaxAttempts,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Logger:             logger,
	}
	if rt.filterBus != nil {
		deps.FilterNotifier = rt.filterBus
	}
	rt.moderation = moderationservice.NewModule(deps)
	return rt, nil
}

func (r *runtime) close() error {
	var errs []error
	if r.broker != nil {
		errs = append(errs, r.broker.Close())
	}
	if r.redis != nil {
		errs = append(errs, r.redis.Close())
	}
	if r.postgres != nil {
		errs = append(errs, r.postgres.Close())
	}
	return errors.Join(errs...)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
// Filter invalidations from other instances are applied while serving.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"embedded_workers", a.embedded != nil,
	)

	module := a.runtime.moderation
	if a.runtime.inProcess && a.embedded == nil {
		if err := module.EnqueueConsumer.Start(ctx); err != nil {
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	if a.runtime.filterBus != nil {
		group.Go(func() error {
			// Without the listener the rule cache still converges on its TTL.
			if err := a.runtime.filterBus.Listen(groupCtx, module.RuleCache); err != nil {
				a.logger.Warn("filter invalidation listener stopped",
					"event", "bootstrap_filter_listener_stopped",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
			return nil
		})
	}
	if a.embedded != nil {
		group.Go(func() error { return a.embedded.poll(groupCtx) })
	}
	return group.Wait()
}

func (a *APIApp) Close() error {
	return a.runtime.close()
}

// Run starts the broker consumer, then drives the polling jobs until ctx is
// cancelled.
func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.runtime.inProcess {
		if err := w.runtime.moderation.EnqueueConsumer.Start(ctx); err != nil {
			return err
		}
	}
	return w.poll(ctx)
}

func (w *WorkerApp) poll(ctx context.Context) error {
	interval := w.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", interval.String(),
	)

	module := w.runtime.moderation
	jobs := []struct {
		name string
		run  func(context.Context) error
	}{
		{name: "penalty_dispatcher", run: module.PenaltyDispatcher.RunOnce},
		{name: "action_expiry", run: module.ActionExpiry.RunOnce},
	}
	if module.OutboxRelay.Publisher != nil {
		jobs = append(jobs, struct {
			name string
			run  func(context.Context) error
		}{name: "outbox_relay", run: module.OutboxRelay.RunOnce})
	}

	for {
		for _, job := range jobs {
			if err := job.run(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Warn("worker job failed",
					"event", "bootstrap_worker_job_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"job", job.name,
					"error", err.Error(),
				)
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	return w.runtime.close()
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
