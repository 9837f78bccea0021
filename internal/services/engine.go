package services

import (
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/metrics"
	"github.com/localnerve/resonance/internal/realtime"
	"gorm.io/gorm"
)

// Engine bundles the resonance services wired to one database
type Engine struct {
	Registry    *CategoryRegistry
	Events      *EventLog
	Aggregator  *Aggregator
	Query       *QueryService
	Completions *CompletionService
	Dispatcher  *Dispatcher
}

// EngineOptions are the collaborators of NewEngine; nil fields get
// no-op defaults.
type EngineOptions struct {
	Log       *logger.Logger
	Metrics   *metrics.Resonance
	Publisher realtime.Publisher
	Clock     Clock
}

// NewEngine wires the services and subscribes the event log to
// completion inserts.
func NewEngine(db *gorm.DB, opts EngineOptions) *Engine {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}

	registry := &CategoryRegistry{DB: db}
	dispatcher := &Dispatcher{
		Log:     log.With("component", "dispatcher"),
		Metrics: opts.Metrics,
	}
	events := &EventLog{
		DB:        db,
		Registry:  registry,
		Publisher: publisher,
		Log:       log.With("component", "event_log"),
		Metrics:   opts.Metrics,
		Clock:     opts.Clock,
	}
	dispatcher.Subscribe("resonance", events)

	return &Engine{
		Registry: registry,
		Events:   events,
		Aggregator: &Aggregator{
			DB:    db,
			Log:   log.With("component", "aggregator"),
			Clock: opts.Clock,
		},
		Query: &QueryService{
			DB:       db,
			Registry: registry,
			Log:      log.With("component", "query"),
			Metrics:  opts.Metrics,
			Clock:    opts.Clock,
		},
		Completions: &CompletionService{
			DB:         db,
			Dispatcher: dispatcher,
			Log:        log.With("component", "completions"),
			Metrics:    opts.Metrics,
			Clock:      opts.Clock,
		},
		Dispatcher: dispatcher,
	}
}
