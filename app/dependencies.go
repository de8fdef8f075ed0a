package app

import (
	"context"
	"fmt"

	"github.com/upb/record-gate/auth"
	"github.com/upb/record-gate/config"
	"github.com/upb/record-gate/internal/rbac"
	"github.com/upb/record-gate/middleware"
	"github.com/upb/record-gate/repositories"
	"github.com/upb/record-gate/repositories/memory"
	"github.com/upb/record-gate/repositories/postgres"
	"github.com/upb/record-gate/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB // nil when records are kept in memory
	Logger *zap.Logger

	// Access control
	Catalog        *rbac.Catalog
	Gate           *middleware.PermissionGate
	AuthMiddleware *middleware.AuthMiddleware

	// Records
	Records       repositories.RecordRepository
	RecordService *services.RecordService
}

// NewDependencies creates and wires up all application dependencies.
// A role catalog that cannot be loaded aborts startup; the returned error
// wraps the *rbac.ConfigLoadError.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initCatalog(cfg); err != nil {
		return nil, fmt.Errorf("failed to load role catalog: %w", err)
	}

	if err := deps.initStore(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initAuth(cfg)
	deps.RecordService = services.NewRecordService(deps.Records, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initCatalog loads the role catalog and builds the permission gate around it
func (d *Dependencies) initCatalog(cfg *config.Config) error {
	catalog, err := rbac.LoadCatalog(cfg.RBAC.RolesFile)
	if err != nil {
		return err
	}

	if dups := catalog.Duplicates(); len(dups) > 0 {
		d.Logger.Warn("duplicate role definitions ignored, first occurrence wins",
			zap.Strings("roles", dups))
	}

	d.Catalog = catalog
	d.Gate = middleware.NewPermissionGate(catalog, cfg.RBAC.AnonymousRole, d.Logger)

	d.Logger.Info("role catalog loaded",
		zap.String("source", cfg.RBAC.RolesFile),
		zap.Int("roles", catalog.Len()),
		zap.String("anonymous_role", d.Gate.AnonymousRole()))
	return nil
}

// initStore connects to PostgreSQL when configured, otherwise falls back to memory
func (d *Dependencies) initStore(ctx context.Context, cfg *config.Config) error {
	if !cfg.Database.IsConfigured() {
		d.Logger.Warn("no database configured, records are kept in memory")
		d.Records = memory.NewRecordRepository()
		return nil
	}

	db, err := postgres.NewDB(ctx, cfg.Database, d.Logger)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if err := db.InitSchema(ctx); err != nil {
			_ = db.Close()
			return err
		}
	}

	d.DB = db
	d.Records = postgres.NewRecordRepository(db, d.Logger)
	return nil
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if cfg.Auth.JWTSecret == "" {
		d.Logger.Warn("JWT secret not configured, all requests are anonymous")
		// Tokens get 401; tokenless requests continue as the anonymous role
		d.AuthMiddleware = middleware.NewAuthMiddleware(auth.RejectAllValidator{}, d.Logger)
		return
	}

	validator := auth.NewJWTValidator(auth.Config{
		Secret:    cfg.Auth.JWTSecret,
		Issuer:    cfg.Auth.JWTIssuer,
		RoleClaim: cfg.Auth.RoleClaim,
	})
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Logger)
	d.Logger.Info("JWT authentication enabled", zap.String("role_claim", cfg.Auth.RoleClaim))
}

// StorageBackend names the record store in use
func (d *Dependencies) StorageBackend() string {
	if d.DB != nil {
		return "postgres"
	}
	return "memory"
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
