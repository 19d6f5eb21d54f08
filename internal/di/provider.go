package di

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/LeJamon/goHederad/internal/config"
	"github.com/LeJamon/goHederad/internal/core/marshal"
	"github.com/LeJamon/goHederad/internal/observability"
	"github.com/LeJamon/goHederad/internal/storage"
	"github.com/LeJamon/goHederad/internal/storage/aliases"
	"github.com/LeJamon/goHederad/internal/storage/database"
	"github.com/LeJamon/goHederad/internal/storage/feeschedules"
)

// Provider configures and registers services in the container.
type Provider struct {
	container *Container
	config    *config.Config
	registry  prometheus.Registerer
}

// NewProvider creates a new service provider. Metrics register with reg,
// or with the default Prometheus registry when reg is nil.
func NewProvider(container *Container, cfg *config.Config, reg prometheus.Registerer) *Provider {
	return &Provider{
		container: container,
		config:    cfg,
		registry:  reg,
	}
}

// RegisterAll registers all services.
func (p *Provider) RegisterAll() error {
	p.container.Register(ServiceConfig, p.config)

	p.registerObservabilityBuilders()
	p.registerStorageBuilders()
	p.registerCoreBuilders()

	return nil
}

func (p *Provider) registerObservabilityBuilders() {
	p.container.RegisterBuilder(ServiceLogger, func(c *Container) (interface{}, error) {
		return observability.NewLoggerFromConfig("hederad", p.config.Log.Level), nil
	})

	p.container.RegisterBuilder(ServiceMetrics, func(c *Container) (interface{}, error) {
		return observability.NewMetrics(p.registry), nil
	})

	p.container.RegisterBuilder(ServiceHealth, func(c *Container) (interface{}, error) {
		return observability.NewHealthChecker(), nil
	})
}

// registerStorageBuilders registers storage service builders.
func (p *Provider) registerStorageBuilders() {
	p.container.RegisterBuilder(ServiceStorage, func(c *Container) (interface{}, error) {
		return storage.NewManager(p.config.Storage.Backend, p.config.StoragePath(), p.config.Storage.CacheSize)
	})

	p.container.RegisterBuilder(ServiceSchedules, func(c *Container) (interface{}, error) {
		db, err := p.openDB(feeschedules.DBName)
		if err != nil {
			return nil, err
		}
		metrics, err := p.Metrics()
		if err != nil {
			return nil, err
		}
		return feeschedules.NewStore(db,
			feeschedules.WithCacheSize(p.config.Storage.ScheduleCacheEntries),
			feeschedules.WithCompression(p.config.Storage.Compression),
			feeschedules.WithLogger(p.Logger().With().Str("component", "feeschedules").Logger()),
			feeschedules.WithCacheObserver(metrics),
		)
	})

	p.container.RegisterBuilder(ServiceAliases, func(c *Container) (interface{}, error) {
		db, err := p.openDB(aliases.DBName)
		if err != nil {
			return nil, err
		}
		metrics, err := p.Metrics()
		if err != nil {
			return nil, err
		}
		return aliases.NewIndex(db, p.config.Storage.AliasCacheEntries,
			aliases.WithLogger(p.Logger().With().Str("component", "aliases").Logger()),
			aliases.WithCacheObserver(metrics),
		)
	})
}

func (p *Provider) registerCoreBuilders() {
	p.container.RegisterBuilder(ServiceMarshal, func(c *Container) (interface{}, error) {
		schedules, err := p.Schedules()
		if err != nil {
			return nil, err
		}
		index, err := p.Aliases()
		if err != nil {
			return nil, err
		}
		metrics, err := p.Metrics()
		if err != nil {
			return nil, err
		}
		return marshal.NewMarshal(index, schedules, p.config.ToValidationProps(),
			marshal.WithLogger(p.Logger().With().Str("component", "marshal").Logger()),
			marshal.WithObserver(metrics),
		), nil
	})
}

func (p *Provider) openDB(name string) (database.DB, error) {
	manager, err := p.Storage()
	if err != nil {
		return nil, err
	}
	db, err := manager.OpenDB(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return db, nil
}

// GetConfig returns the configuration from the container.
func (p *Provider) GetConfig() *config.Config {
	return p.config
}

// Logger returns the root logger
func (p *Provider) Logger() zerolog.Logger {
	return p.container.MustGet(ServiceLogger).(zerolog.Logger)
}

func (p *Provider) Metrics() (*observability.Metrics, error) {
	svc, err := p.container.Get(ServiceMetrics)
	if err != nil {
		return nil, err
	}
	return svc.(*observability.Metrics), nil
}

func (p *Provider) Health() *observability.HealthChecker {
	return p.container.MustGet(ServiceHealth).(*observability.HealthChecker)
}

func (p *Provider) Storage() (database.Manager, error) {
	svc, err := p.container.Get(ServiceStorage)
	if err != nil {
		return nil, err
	}
	return svc.(database.Manager), nil
}

func (p *Provider) Schedules() (*feeschedules.Store, error) {
	svc, err := p.container.Get(ServiceSchedules)
	if err != nil {
		return nil, err
	}
	return svc.(*feeschedules.Store), nil
}

func (p *Provider) Aliases() (*aliases.Index, error) {
	svc, err := p.container.Get(ServiceAliases)
	if err != nil {
		return nil, err
	}
	return svc.(*aliases.Index), nil
}

func (p *Provider) Marshal() (*marshal.Marshal, error) {
	svc, err := p.container.Get(ServiceMarshal)
	if err != nil {
		return nil, err
	}
	return svc.(*marshal.Marshal), nil
}

// Close releases the storage opened by the container, if any
func (p *Provider) Close() error {
	if !p.container.Built(ServiceStorage) {
		return nil
	}
	manager, err := p.Storage()
	if err != nil {
		return err
	}
	return manager.Close()
}
