// Package bootstrap assembles the application's dependency graph.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"crm-backend/internal/customers"
	"crm-backend/internal/documents"
	"crm-backend/internal/drive"
	"crm-backend/internal/reconcile"
	"crm-backend/internal/server"
	"crm-backend/internal/shared/config"
	"crm-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Drive         *drive.Client
	CustomersRepo customers.Repo
	DocumentsRepo documents.Repo

	CustomersService *customers.Service
	Engine           *reconcile.Engine
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var (
		custRepo customers.Repo
		docRepo  documents.Repo
	)
	if sqlDB != nil {
		custRepo = &customers.PGRepo{DB: sqlDB}
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		custRepo = customers.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
	}

	driveClient := drive.NewClient(cfg.DrivePageSize)

	custSvc := &customers.Service{
		Repo:         custRepo,
		Drive:        driveClient,
		Counts:       docRepo,
		RootFolderID: cfg.DriveRootFolderID,
	}
	engine := &reconcile.Engine{
		Drive:        driveClient,
		Customers:    custRepo,
		Documents:    docRepo,
		RootFolderID: cfg.DriveRootFolderID,
	}

	app := &App{
		Config:           cfg,
		DB:               sqlDB,
		Drive:            driveClient,
		CustomersRepo:    custRepo,
		DocumentsRepo:    docRepo,
		CustomersService: custSvc,
		Engine:           engine,
	}
	app.Router = server.NewRouter(server.Deps{
		Config:    cfg,
		Customers: customers.NewHandler(custSvc, docRepo, driveClient),
		Documents: documents.NewHandler(docRepo),
		Reconcile: reconcile.NewHandler(engine),
	})
	return app, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local", "":
		return true
	default:
		return false
	}
}
