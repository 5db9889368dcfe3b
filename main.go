package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"statviz/internal/config"
	"statviz/internal/container"
	"statviz/internal/errors"
	"statviz/ui"
)

// initDatabase connects to PostgreSQL when DATABASE_URL is set. A nil return
// with nil error means persistence falls back to memory.
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if !appConfig.Database.Enabled {
		return nil, nil
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	ctx := context.Background()
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Init(ctx, db); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer appContainer.Shutdown(ctx)

	apiServer := ui.NewServer(appContainer.Service, appContainer.Table, appContainer.Logger)
	reportApp := ui.NewApp(appContainer.Service, appContainer.Logger)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.Run(":" + appConfig.Server.Port)
	})
	g.Go(func() error {
		return reportApp.Run(":" + appConfig.Server.ReportPort)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
