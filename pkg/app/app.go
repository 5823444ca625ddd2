// Package app assembles the HTTP application: configuration, storage,
// metrics, middleware, routes and scheduled jobs.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/geovault/pkg/configs"
	"github.com/yeisme/geovault/pkg/internal/jobs"
	"github.com/yeisme/geovault/pkg/internal/router"
	"github.com/yeisme/geovault/pkg/internal/storage"
	"github.com/yeisme/geovault/pkg/log"
	"github.com/yeisme/geovault/pkg/metrics"
	"github.com/yeisme/geovault/pkg/middleware"
	"github.com/yeisme/geovault/pkg/scheduler"
)

type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	scheduler *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		middleware.PrometheusMiddleware(),
		middleware.StorageMiddleware(manager),
		gzip.Gzip(gzip.DefaultCompression),
	)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	router.RegisterRoutes(engine.Group("/api/v1"))

	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error creating scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		fmt.Printf("Error registering cron jobs: %v\n", err)
		os.Exit(1)
	}

	return &App{
		Engine:    engine,
		config:    config,
		scheduler: sched,
	}
}

func (a *App) Run() error {
	a.scheduler.Start()
	defer func() { _ = a.scheduler.Stop() }()

	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}
