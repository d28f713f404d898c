// ===============================
// internal/app/app.go - Service wiring shared by the server and podcastctl
// ===============================

package app

import (
	"context"
	"fmt"

	"gaddiyalibe/internal/config"
	"gaddiyalibe/internal/database"
	"gaddiyalibe/internal/services"
	"gaddiyalibe/internal/storage"
	"gaddiyalibe/internal/store"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// App holds the store and every service built on it.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    store.Store
	DB       *sqlx.DB // nil for the firestore backend
	Firebase *services.FirebaseService

	Catalog  *services.CatalogService
	Comments *services.CommentService
	Watch    *services.WatchService
	Users    *services.UserService
	Uploads  *services.UploadService
}

// New connects the configured backend and builds the services. SQL backends
// are migrated before use.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	if cfg.AuthEnabled() {
		firebaseService, err := services.NewFirebaseService(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Firebase service: %w", err)
		}
		a.Firebase = firebaseService
	}

	switch {
	case cfg.StoreBackend == config.BackendFirestore:
		if a.Firebase == nil {
			return nil, config.ErrMissingFirebaseConfig
		}
		client, err := a.Firebase.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to open Firestore: %w", err)
		}
		a.Store = store.NewFirestoreStore(client)
	case cfg.UsesSQL():
		db, err := database.Connect(cfg.StoreBackend, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(db, logger); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.DB = db
		a.Store = store.NewSQLStore(db)
	default:
		return nil, cfg.Validate()
	}

	var objects storage.ObjectStore
	if cfg.R2Config.Enabled() {
		r2Client, err := storage.NewR2Client(cfg.R2Config)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize R2 client: %w", err)
		}
		objects = r2Client
	} else {
		logger.Info("R2 not configured, profile picture uploads disabled")
	}

	a.wire(objects)
	return a, nil
}

// NewWithStore builds the services over an existing store.
func NewWithStore(cfg *config.Config, st store.Store, objects storage.ObjectStore, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Store: st}
	a.wire(objects)
	return a
}

func (a *App) wire(objects storage.ObjectStore) {
	relatedLimit := services.DefaultRelatedLimit
	if a.Config != nil && a.Config.RelatedLimit > 0 {
		relatedLimit = a.Config.RelatedLimit
	}

	a.Catalog = services.NewCatalogService(a.Store, a.Logger)
	a.Comments = services.NewCommentService(a.Store, a.Logger)
	a.Watch = services.NewWatchService(a.Store, a.Comments, a.Logger, relatedLimit)
	a.Users = services.NewUserService(a.Store, a.Watch, a.Logger)

	var photos services.PhotoUpdater
	if a.Firebase != nil {
		photos = a.Firebase
	}
	a.Uploads = services.NewUploadService(objects, a.Users, photos, a.Logger)
}

// Health reports whether the backing store answers.
func (a *App) Health(ctx context.Context) error {
	if a.DB != nil {
		return database.Health(ctx, a.DB)
	}
	_, err := a.Store.Query(ctx, store.CollectionEpisodes, nil, 1)
	return err
}

func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
