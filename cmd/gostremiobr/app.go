package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/gostremiobr/gostremiobr/internal/config"
	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/internal/database"
	"github.com/gostremiobr/gostremiobr/internal/handlers"
	"github.com/gostremiobr/gostremiobr/internal/middleware"
	"github.com/gostremiobr/gostremiobr/internal/services"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
)

type app struct {
	router    *gin.Engine
	container *services.Container
	db        database.Database
	logger    logger.Logger
	cancel    context.CancelFunc
}

func newApp(log logger.Logger) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.NewBoltDB(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	log.Infof("[App] database open at %s", cfg.DatabasePath)

	container := services.NewContainer(cfg, db, log)

	ctx, cancel := context.WithCancel(context.Background())
	container.Cache.StartCleanup(ctx, constants.CacheSweepInterval)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Gzip())

	handlers.New(container, cfg).RegisterRoutes(router)

	return &app{
		router:    router,
		container: container,
		db:        db,
		logger:    log,
		cancel:    cancel,
	}, nil
}

func (a *app) Run() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = constants.DefaultPort
	}
	a.logger.Infof("[App] %s listening on port %s", constants.AddonName, port)
	return a.router.Run(":" + port)
}

func (a *app) Close() {
	a.cancel()
	if err := a.db.Close(); err != nil {
		a.logger.Errorf("[App] closing database: %v", err)
	}
}
