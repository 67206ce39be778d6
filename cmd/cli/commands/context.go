package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/workshop/internal/config"
	"github.com/jakechorley/workshop/pkg/calendar"
	"github.com/jakechorley/workshop/pkg/core/booking"
	"github.com/jakechorley/workshop/pkg/db"
	"github.com/jakechorley/workshop/pkg/familydata"
	"github.com/jakechorley/workshop/pkg/metrics"
	"github.com/jakechorley/workshop/pkg/postgres"
	"github.com/jakechorley/workshop/pkg/sqlite"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Recorder metrics.Recorder
	Logger   *zap.Logger
	Ctx      context.Context

	// Database is opened on first use by commands that store or read runs
	Database db.Database
}

// Store returns the run database, opening it on first use
func (app *AppContext) Store() (db.Database, error) {
	if app.Database != nil {
		return app.Database, nil
	}

	app.Logger.Debug("Opening database", zap.String("driver", app.Cfg.Database.Driver))

	var (
		database db.Database
		err      error
	)
	switch app.Cfg.Database.Driver {
	case "postgres":
		database, err = postgres.Open(app.Ctx, app.Cfg.Database.DSN)
	case "sqlite":
		database, err = sqlite.Open(app.Cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", app.Cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	app.Database = database
	return database, nil
}

// Close releases the database if it was opened
func (app *AppContext) Close() error {
	if app.Database == nil {
		return nil
	}
	return app.Database.Close()
}

// LoadFamilies reads the configured family data
func (app *AppContext) LoadFamilies() ([]*booking.Group, error) {
	families, err := familydata.LoadFamiliesFromPath(app.Cfg.DataPath, app.Cfg.Calendar.Days)
	if err != nil {
		return nil, fmt.Errorf("failed to load families: %w", err)
	}

	app.Logger.Debug("Families loaded",
		zap.String("path", app.Cfg.DataPath),
		zap.Int("count", len(families)))

	return families, nil
}

// VisitDates returns the configured visit dates, nil when no rule is set
func (app *AppContext) VisitDates() (*calendar.VisitDates, error) {
	dates, err := app.Cfg.VisitDates()
	if err != nil {
		return nil, fmt.Errorf("failed to expand visit dates: %w", err)
	}
	return dates, nil
}
