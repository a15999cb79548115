package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"adminschema/internal/api"
	"adminschema/internal/catalog"
	"adminschema/internal/config"
	"adminschema/internal/logger"
	"adminschema/internal/pg"
	"adminschema/internal/sink"
	"adminschema/internal/sqlite"
	"adminschema/internal/store"
)

// repository реализует и хранение, и генерацию экспорта.
type repository interface {
	store.Repository
	store.Generator
}

func openRepository(ctx context.Context, cfg config.Config) (repository, error) {
	switch cfg.StorageDriver {
	case "", "memory":
		return store.NewMemoryRepository(), nil
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewModelRepository(ctx, db)
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("storage=postgres requires dbUrl")
		}
		db, err := pg.Open(cfg.DBURL)
		if err != nil {
			return nil, err
		}
		return pg.NewModelRepository(db)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func openSink(cfg config.Config) (store.Sink, error) {
	switch cfg.SinkDriver {
	case "", "local":
		return &sink.LocalSink{Root: cfg.SinkRoot}, nil
	case "s3":
		return sink.NewS3Sink(cfg.S3)
	}
	return nil, fmt.Errorf("unknown sink driver %q", cfg.SinkDriver)
}

func main() {
	// 1. Конфиг и логгер
	cfg := config.LoadWithPath("config.yaml")
	logger.Init(&cfg.Log)
	defer logger.Sync()
	lg := logger.L()

	// 2. Каталог меню родителей
	menus, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		lg.Fatal("catalog load failed", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}
	lg.Info("catalog loaded", zap.Int("menus", len(menus)))

	// 3. Репозиторий и приёмник синхронизации
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repo, err := openRepository(ctx, cfg)
	if err != nil {
		cancel()
		lg.Fatal("repository init failed", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	out, err := openSink(cfg)
	if err != nil {
		cancel()
		lg.Fatal("sink init failed", zap.String("driver", cfg.SinkDriver), zap.Error(err))
	}

	// 4. Стор
	st := store.New(
		store.WithRepository(repo),
		store.WithGenerator(repo),
		store.WithSink(out),
		store.WithLogger(lg),
		store.WithRenderCache(cfg.RenderCacheSize),
		store.WithParentMenus(menus),
	)
	if models, err := st.LoadAll(ctx); err != nil {
		lg.Error("initial load failed", zap.Error(err))
	} else {
		lg.Info("models loaded", zap.Int("count", len(models)))
	}
	cancel()

	// 5. REST API
	lg.Info("starting server", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageDriver))
	if err := api.RunServer(":"+cfg.Port, st, api.Options{CatalogPath: cfg.CatalogPath, Logger: lg}); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}
