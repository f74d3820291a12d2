package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/upb/association-hub/backend/auth"
	"github.com/upb/association-hub/backend/config"
	"github.com/upb/association-hub/backend/internal/observability"
	"github.com/upb/association-hub/backend/middleware"
	"github.com/upb/association-hub/backend/repositories"
	"github.com/upb/association-hub/backend/repositories/postgres"
	"github.com/upb/association-hub/backend/services"
	"github.com/upb/association-hub/backend/services/audit"
	"github.com/upb/association-hub/backend/services/events"
	"github.com/upb/association-hub/backend/services/forum"
	"github.com/upb/association-hub/backend/services/projects"
	"github.com/upb/association-hub/backend/services/users"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users     repositories.UserRepository
	Events    repositories.EventRepository
	Projects  repositories.ProjectRepository
	Forum     repositories.ForumRepository
	AuditLogs repositories.AuditRepository
	TxManager repositories.TransactionManager

	// Observability
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	// Services
	Audit          *audit.AuditService
	Guard          *services.Guard
	Tokens         *auth.TokenIssuer
	AuthService    *services.AuthService
	UserService    *users.Service
	EventService   *events.Service
	ProjectService *projects.Service
	ForumService   *forum.Service

	// Auth
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies connects to the database and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := factory.GetDB().PingContext(ctx); err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to initialize database: database ping failed: %w", err)
	}

	return NewDependenciesFromFactory(cfg, factory, logger)
}

// NewDependenciesFromFactory wires dependencies around an already opened pool
func NewDependenciesFromFactory(cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	deps.initRepositories()
	deps.initObservability()

	if err := deps.initAudit(); err != nil {
		return nil, fmt.Errorf("failed to initialize audit trail: %w", err)
	}

	deps.initServices()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Users = repos.Users
	d.Events = repos.Events
	d.Projects = repos.Projects
	d.Forum = repos.Forum
	d.AuditLogs = repos.AuditLogs
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initObservability creates the metrics registry. The registry exists even
// when metrics are disabled so collectors never need nil checks.
func (d *Dependencies) initObservability() {
	d.Registry = prometheus.NewRegistry()
	d.Metrics = observability.NewMetrics(d.Registry)
	if d.Config.Observability.MetricsEnabled {
		observability.RegisterDBStats(d.Registry, d.DB.DB)
	}
}

// initAudit starts the asynchronous audit trail writer
func (d *Dependencies) initAudit() error {
	if !d.Config.Audit.Enabled {
		d.Logger.Warn("audit trail disabled")
		return nil
	}

	d.Audit = audit.NewAuditService(d.AuditLogs, d.Logger, audit.Config{
		BufferSize:  d.Config.Audit.BufferSize,
		WorkerCount: d.Config.Audit.WorkerCount,
	}).WithDropObserver(d.Metrics)

	return d.Audit.Start()
}

// initServices builds the domain services around a single policy guard
func (d *Dependencies) initServices() {
	recorders := []services.DecisionRecorder{d.Metrics}
	var recorder services.AuditRecorder
	if d.Audit != nil {
		recorders = append(recorders, d.Audit)
		recorder = d.Audit
	}
	d.Guard = services.NewGuard(recorders...)

	d.Tokens = auth.NewTokenIssuer(d.Config.JWT)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Tokens, d.Logger)

	d.AuthService = services.NewAuthService(d.Users, d.Tokens, recorder, d.Logger)
	d.UserService = users.NewService(d.Users, d.Guard, d.Logger)
	d.EventService = events.NewService(d.Events, d.Guard, d.Logger)
	d.ProjectService = projects.NewService(d.Projects, d.TxManager, d.Guard, d.Logger)
	d.ForumService = forum.NewService(d.Forum, d.TxManager, d.Guard, d.Logger)

	d.Logger.Info("services initialized")
}

// Close gracefully shuts down all dependencies. The audit trail is drained
// before the pool it writes to is closed.
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Audit != nil {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := d.Audit.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit trail: %w", err))
		}
		d.Audit = nil
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	_ = d.Logger.Sync()

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
