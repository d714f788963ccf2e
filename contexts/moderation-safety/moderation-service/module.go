package moderationservice

import (
	"log/slog"
	"time"

	eventsadapter "quad/contexts/moderation-safety/moderation-service/adapters/events"
	httpadapter "quad/contexts/moderation-safety/moderation-service/adapters/http"
	"quad/contexts/moderation-safety/moderation-service/adapters/memory"
	"quad/contexts/moderation-safety/moderation-service/application/analysis"
	"quad/contexts/moderation-safety/moderation-service/application/commands"
	"quad/contexts/moderation-safety/moderation-service/application/queries"
	"quad/contexts/moderation-safety/moderation-service/application/workers"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

type Module struct {
	Handler           httpadapter.Handler
	RuleCache         *analysis.RuleCache
	PenaltyDispatcher workers.PenaltyDispatcher
	OutboxRelay       workers.OutboxRelay
	EnqueueConsumer   workers.EnqueueConsumer
	ActionExpiry      workers.ActionExpirySweep
	Store             *memory.Store
}

type Dependencies struct {
	Filters     ports.FilterRepository
	Queue       ports.QueueRepository
	Actions     ports.ActionRepository
	Appeals     ports.AppealRepository
	Penalties   ports.PenaltyQueue
	Outbox      ports.OutboxRepository
	Idempotency ports.IdempotencyStore
	EventDedup  ports.EventDedupStore

	// Publisher and Subscriber are optional. Without a publisher the ingestion
	// gate enqueues in-process.
	Publisher      ports.EventPublisher
	Subscriber     ports.EventSubscriber
	Reputation     ports.ReputationClient
	FilterNotifier ports.FilterChangeNotifier

	Clock       ports.Clock
	IDGenerator ports.IDGenerator

	RuleCacheTTL       time.Duration
	MaxContentRunes    int
	BulkConcurrency    int
	PenaltyMaxAttempts int
	IdempotencyTTL     time.Duration
	Logger             *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ruleCache := analysis.NewRuleCache(deps.Filters, deps.RuleCacheTTL, deps.Clock, deps.Logger)
	analyzer := analysis.NewAnalyzer(ruleCache, deps.Filters, analysis.Options{
		MaxContentRunes: deps.MaxContentRunes,
		Clock:           deps.Clock,
		Logger:          deps.Logger,
	})

	enqueue := commands.EnqueueAnalyzedUseCase{
		Queue:       deps.Queue,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	var dispatcher ports.EnqueueDispatcher = eventsadapter.Direct{Enqueue: enqueue}
	if deps.Publisher != nil {
		dispatcher = eventsadapter.EnqueuePublisher{
			Publisher:   deps.Publisher,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
		}
	}

	takeAction := commands.TakeActionUseCase{
		Queue:          deps.Queue,
		Actions:        deps.Actions,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Analyze: queries.AnalyzeContentUseCase{Analyzer: analyzer},
			Screen: commands.ScreenSubmissionUseCase{
				Analyzer:   analyzer,
				Dispatcher: dispatcher,
				Logger:     deps.Logger,
			},
			Submit: commands.SubmitForModerationUseCase{
				Analyzer:    analyzer,
				Queue:       deps.Queue,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Queue:    queries.QueueQueryUseCase{Queue: deps.Queue},
			Claim:    commands.ClaimItemUseCase{Queue: deps.Queue, Clock: deps.Clock, Logger: deps.Logger},
			Escalate: commands.EscalateItemUseCase{Queue: deps.Queue, Clock: deps.Clock, Logger: deps.Logger},
			Report:   commands.ReportContentUseCase{Queue: deps.Queue, Clock: deps.Clock, Logger: deps.Logger},

			TakeAction: takeAction,
			BulkAction: commands.BulkActionUseCase{
				TakeAction:  takeAction,
				Concurrency: deps.BulkConcurrency,
				Logger:      deps.Logger,
			},
			Reverse: commands.ReverseActionUseCase{
				Actions:     deps.Actions,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},

			SubmitAppeal: commands.SubmitAppealUseCase{
				Appeals:     deps.Appeals,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			ReviewAppeal: commands.AppealReviewUseCase{
				Appeals:     deps.Appeals,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			Appeals: queries.AppealQueryUseCase{Appeals: deps.Appeals},

			Statistics: queries.StatisticsUseCase{Queue: deps.Queue, Actions: deps.Actions, Appeals: deps.Appeals},
			UserHistory: queries.UserHistoryUseCase{
				Actions: deps.Actions,
				Appeals: deps.Appeals,
				Clock:   deps.Clock,
			},

			CreateFilter: commands.CreateFilterUseCase{
				Filters:  deps.Filters,
				Cache:    ruleCache,
				Notifier: deps.FilterNotifier,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			UpdateFilter: commands.UpdateFilterUseCase{
				Filters:  deps.Filters,
				Cache:    ruleCache,
				Notifier: deps.FilterNotifier,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			Filters: queries.FilterQueryUseCase{Filters: deps.Filters},
			Logger:  deps.Logger,
		},
		RuleCache: ruleCache,
		PenaltyDispatcher: workers.PenaltyDispatcher{
			Penalties:   deps.Penalties,
			Reputation:  deps.Reputation,
			Clock:       deps.Clock,
			MaxAttempts: deps.PenaltyMaxAttempts,
			Logger:      deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		EnqueueConsumer: workers.EnqueueConsumer{
			Subscriber: deps.Subscriber,
			Dedup:      deps.EventDedup,
			Enqueue:    enqueue,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
		ActionExpiry: workers.ActionExpirySweep{
			Actions:     deps.Actions,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
	}
}

// NewInMemoryModule wires every store to one memory.Store. Penalties reach
// the reputation ledger through reputation.
func NewInMemoryModule(reputation ports.ReputationClient, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Filters:        store,
		Queue:          store,
		Actions:        store,
		Appeals:        store,
		Penalties:      store,
		Outbox:         store,
		Idempotency:    store,
		EventDedup:     store,
		Reputation:     reputation,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
