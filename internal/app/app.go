package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/data/db"
	"github.com/yungbote/reviewloop-backend/internal/data/repos"
	server "github.com/yungbote/reviewloop-backend/internal/http"
	"github.com/yungbote/reviewloop-backend/internal/observability"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    repos.Set
	Services Services

	store        *db.Service
	otelShutdown func(context.Context) error
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenStore opens the configured database and applies migrations.
func OpenStore(log *logger.Logger, cfg Config) (*db.Service, error) {
	var (
		store *db.Service
		err   error
	)
	if cfg.DBDriver == db.DriverPostgres {
		store, err = db.NewPostgresService(log, cfg.Postgres)
	} else {
		store, err = db.Open(log, cfg.DBDriver, cfg.SQLitePath)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", cfg.DBDriver, err)
	}
	if err := db.Migrate(store.DB()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s migrate: %w", cfg.DBDriver, err)
	}
	return store, nil
}

func New(ctx context.Context) (*App, error) {
	log, err := NewLogger()
	if err != nil {
		return nil, err
	}

	LoadDotEnv(log)
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.NewMetrics(cfg.Metrics)
	if metrics != nil {
		log.Info("Metrics enabled", "path", metrics.Path())
	}

	store, err := OpenStore(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	theDB := store.DB()

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, metrics)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(theDB, log, serviceset)
	router := wireRouter(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and drains notifications until ctx is done or either fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	if m := a.Services.Metrics; m != nil {
		m.StartDBCollector(gctx, a.Log, a.DB)
		if a.Cfg.NotifyQueue == QueueRedis {
			m.StartRedisCollector(gctx, a.Log, a.Cfg.RedisAddr)
		}
	}
	g.Go(func() error {
		a.Services.Dispatcher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		addr := ":" + a.Cfg.Port
		a.Log.Info("HTTP server listening", "addr", addr)
		return (&server.Server{Engine: a.Router}).Serve(gctx, addr)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.Dispatcher != nil {
		a.Services.Dispatcher.Flush()
	}
	if a.Services.Queue != nil {
		_ = a.Services.Queue.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
