// Package app wires configuration into storage, locks and services for the
// server and cronjob binaries.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"rental-tracker-backend/internal/config"
	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/locks"
	"rental-tracker-backend/internal/logger"
	"rental-tracker-backend/internal/repository"
	"rental-tracker-backend/internal/repository/memory"
	"rental-tracker-backend/internal/repository/postgres"
	"rental-tracker-backend/internal/service"
)

// App holds the assembled services and the resources that need closing.
type App struct {
	Location      *time.Location
	Clock         service.Clock
	Store         *repository.Store
	Rentals       *service.RentalService
	Substitutions *service.SubstitutionService
	Suppliers     *service.SupplierService
	Inventory     *service.InventoryService
	Dashboard     *service.DashboardService

	closers []func() error
}

// New opens storage and the locker selected by cfg and builds every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a := &App{
		Location: loc,
		Clock:    service.SystemClock{Location: loc},
	}

	if err := a.openStore(ctx, cfg); err != nil {
		_ = a.Close()
		return nil, err
	}

	locker, err := a.openLocker(ctx, cfg.Locks)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Rentals = service.NewRentalService(a.Store.Rentals, a.Store.Suppliers, domain.PolicyFor(cfg.Rentals.StrictTransitions), a.Clock)
	a.Substitutions = service.NewSubstitutionService(a.Store.Rentals, a.Store.Substitutions, locker, a.Clock)
	a.Suppliers = service.NewSupplierService(a.Store.Suppliers, a.Clock)
	a.Inventory = service.NewInventoryService(a.Store.Products, a.Store.Categories, a.Clock)
	a.Dashboard = service.NewDashboardService(a.Rentals, a.Inventory)

	logger.Info("Services initialized",
		"storage", cfg.Storage.Type,
		"locks", cfg.Locks.Type,
		"strict_transitions", cfg.Rentals.StrictTransitions,
		"timezone", loc.String(),
	)
	return a, nil
}

// Today is the current calendar day in the configured time zone.
func (a *App) Today() domain.Date {
	return service.Today(a.Clock)
}

// Close releases database and Redis connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) error {
	if cfg.Storage.Type == config.StorageMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		a.Store = memory.NewStore()
		return nil
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Name, "user", cfg.Database.User)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	a.Store = postgres.NewStore(db)
	return nil
}

func (a *App) openLocker(ctx context.Context, cfg config.LocksConfig) (locks.Locker, error) {
	if cfg.Type != config.LocksRedis {
		return locks.NewKeyedMutex(), nil
	}

	client, err := locks.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	logger.Info("Redis lock backend connected", "addr", cfg.RedisAddr)

	return locks.NewRedisLocker(client, cfg.Prefix, cfg.TTL, cfg.RetryInterval), nil
}
