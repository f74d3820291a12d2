package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/upb/association-hub/backend/app"
	"github.com/upb/association-hub/backend/auth"
	"github.com/upb/association-hub/backend/config"
	"github.com/upb/association-hub/backend/internal/observability"
	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"github.com/upb/association-hub/backend/repositories/postgres"
	"github.com/upb/association-hub/backend/routes"
	"github.com/upb/association-hub/backend/utils"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "association-api",
		Short:        "Association management API",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateAdminCmd())
	return root
}

// bootstrap loads configuration and builds the logger shared by every command
func bootstrap(ctx context.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, logger, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, logger, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", zap.Error(err))
		return err
	}

	if cfg.Server.AutoMigrate {
		if err := deps.DB.RunMigrations(); err != nil {
			_ = deps.Close(context.Background())
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           routes.SetupRoutes(deps),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", zap.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := deps.Close(shutdownCtx); err != nil {
		logger.Error("dependency shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
	return serveErr
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	run := func(name string, fn func(*postgres.DB) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: "Run " + name + " migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd.Context(), func(db *postgres.DB, _ *zap.Logger) error {
					return fn(db)
				})
			},
		}
	}

	up := run("up", func(db *postgres.DB) error { return db.RunMigrations() })
	up.Short = "Apply all pending migrations"
	down := run("down", func(db *postgres.DB) error { return postgres.MigrateDown(db.DB) })
	down.Short = "Roll back the most recent migration"
	status := run("status", func(db *postgres.DB) error { return postgres.MigrationStatus(db.DB) })
	status.Short = "Print the migration status"

	cmd.AddCommand(up, down, status)
	return cmd
}

func newCreateAdminCmd() *cobra.Command {
	var in adminInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account, or promote an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := in.validate(); err != nil {
				return err
			}

			return withDB(cmd.Context(), func(db *postgres.DB, logger *zap.Logger) error {
				users := postgres.NewUserRepository(db, logger)
				user, created, err := ensureAdmin(cmd.Context(), users, in)
				if err != nil {
					return err
				}

				verb := "promoted"
				if created {
					verb = "created"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "admin %s: %s (id %d)\n", verb, user.Email, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password (required for new accounts)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// withDB opens the pool described by the environment for one-off commands
func withDB(ctx context.Context, fn func(*postgres.DB, *zap.Logger) error) error {
	cfg, logger, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := postgres.NewDB(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(db, logger)
}

type adminInput struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

func (in *adminInput) validate() error {
	in.Email = strings.TrimSpace(in.Email)
	if err := utils.ValidateStruct(in); err != nil {
		var fields []string
		for field, msg := range utils.GetValidationFields(err) {
			fields = append(fields, field+" "+msg)
		}
		return fmt.Errorf("invalid admin input: %s", strings.Join(fields, "; "))
	}
	return nil
}

// ensureAdmin promotes an existing account to admin or creates a new one.
// It reports whether a new account was created.
func ensureAdmin(ctx context.Context, users repositories.UserRepository, in adminInput) (*models.User, bool, error) {
	admin := policy.RoleAdmin

	existing, err := users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if existing.Role == policy.RoleAdmin {
			return existing, false, nil
		}
		user, err := users.Update(ctx, existing.ID, models.UserPatchRecord{Role: &admin})
		if err != nil {
			return nil, false, fmt.Errorf("promote user: %w", err)
		}
		return user, false, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, false, fmt.Errorf("look up user: %w", err)
	}

	if in.Password == "" {
		return nil, false, errors.New("password is required to create a new admin")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         admin,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}
