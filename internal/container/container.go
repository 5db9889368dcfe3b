// Package container wires application dependencies and manages their
// lifecycle.
package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"statviz/adapters/excel"
	"statviz/adapters/postgres"
	"statviz/app"
	"statviz/domain/dataset"
	internal "statviz/internal"
	"statviz/internal/config"
	"statviz/internal/migration"
	"statviz/internal/testkit"
	"statviz/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Data access
	AnalysisRepo ports.AnalysisRepository

	// Services
	Service *app.AnalysisService

	// Loaded data
	Table *dataset.Table
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{
		Config: cfg,
		Logger: internal.NewDefaultLogger(),
	}, nil
}

// Init wires repositories and services. When no database is configured the
// analysis store falls back to memory.
func (c *Container) Init(ctx context.Context, db *sqlx.DB) error {
	if db != nil {
		c.DB = db
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("database connection test failed: %w", err)
		}
		migrator := migration.NewRunner()
		if err := migrator.Run(ctx, db); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
		c.AnalysisRepo = postgres.NewAnalysisRepository(db)
		c.Logger.Info("analysis store: postgres")
	} else {
		c.AnalysisRepo = postgres.NewMemoryRepository()
		c.Logger.Info("analysis store: memory")
	}

	c.Service = app.NewAnalysisService(c.AnalysisRepo)

	if err := c.loadTable(); err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	return nil
}

// loadTable reads the configured data file, or generates a synthetic table
// when none is configured.
func (c *Container) loadTable() error {
	if c.Config.Data.DataFile != "" {
		reader := excel.NewDataReader(c.Config.Data.DataFile).WithSheet(c.Config.Data.Sheet)
		table, err := reader.Read()
		if err != nil {
			return err
		}
		c.Table = table
		c.Logger.Info("loaded dataset %s: %d rows, %d columns",
			table.Name, table.Rows(), len(table.Keys()))
		return nil
	}

	gen := testkit.NewDataGenerator(testkit.DefaultConfig())
	table, err := gen.Generate()
	if err != nil {
		return err
	}
	c.Table = table
	c.Logger.Info("no DATA_FILE configured, using synthetic dataset (%d rows)", table.Rows())
	return nil
}

// Shutdown releases container resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
