package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/searchapi/prodsearch/internal/ai"
	"github.com/searchapi/prodsearch/internal/catalog"
	"github.com/searchapi/prodsearch/internal/config"
	"github.com/searchapi/prodsearch/internal/embedcache"
	"github.com/searchapi/prodsearch/internal/handler"
	"github.com/searchapi/prodsearch/internal/job"
	"github.com/searchapi/prodsearch/internal/middleware"
	"github.com/searchapi/prodsearch/internal/schedule"
	"github.com/searchapi/prodsearch/internal/service"
	"github.com/searchapi/prodsearch/internal/snapstore"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "prodsearch",
		Short: "semantic product search server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run prodsearch server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := logutil.GetLogger(ctx)
	logger.Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("catalog", cfg.Catalog.Source),
		zap.String("snapshot", cfg.Snapshot.Type),
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", cfg.AI.Model),
	)

	store, err := snapstore.New(cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("init snapshot store: %w", err)
	}
	cache := embedcache.New(cfg.AI.Dimension, store, cfg.Snapshot.SeedURL)

	provider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedder := ai.NewEmbedder(provider, cfg.AI.Model)

	loader := catalog.NewLoader(cfg.Catalog.Source)
	embedService := service.NewEmbedService(cache, embedder, cfg.AI.Dimension, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	preloader := service.NewPreloader(cache, embedService, loader, cfg.Preload.Workers)
	searchService := service.NewSearchService(embedService, cache, loader)

	// Preload failure is fatal only on a fully cold start: with a warmed
	// cache the service can still rank whatever is embedded.
	if err := preloader.Run(ctx); err != nil {
		if cache.Len() == 0 {
			return fmt.Errorf("preload: %w", err)
		}
		logger.Warn("preload failed, serving from warmed cache", zap.Error(err))
	}

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewCachePersistJob(cache), cfg.PersistCron); err != nil {
		return fmt.Errorf("schedule persist job: %w", err)
	}
	scheduler.Start(ctx)

	deps := handler.RouterDeps{
		Search:         handler.NewSearchHandler(searchService),
		Demo:           handler.NewDemoHandler(cfg.Catalog.Source, cfg.Snapshot.Type, cache, loader),
		SearchRateWait: time.Duration(cfg.SearchRateMS) * time.Millisecond,
	}
	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logger.Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("server stopping...")
	scheduler.Stop()
	if cache.Dirty() {
		if err := cache.Persist(context.Background()); err != nil {
			logger.Warn("final cache persist failed", zap.Error(err))
		}
	}
	return nil
}
