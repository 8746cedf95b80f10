// Package server wires the HTTP surface: middleware, routes, the story
// pipeline behind them, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fable/internal/ai"
	"fable/internal/config"
	"fable/internal/handler"
	storyHandler "fable/internal/handler/story"
	"fable/internal/pkg/artifact"
	"fable/internal/pkg/instagram"
	"fable/internal/pkg/mailer"
	"fable/internal/render"
	"fable/internal/server/middleware"
	"fable/internal/service"
)

// Server is the HTTP server plus the long-lived resources behind it.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	pool   *render.EnginePool
}

// New builds the full pipeline and registers the routes.
func New(cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	artifacts, err := artifact.NewManager(cfg.Render.ArtifactDir)
	if err != nil {
		return nil, err
	}

	generator, err := ai.NewGenerator(context.Background(), &cfg.AI)
	if err != nil {
		return nil, err
	}

	// The browser launches lazily on the first render, so startup stays
	// cheap on hosts without Chromium until the pipeline is actually used.
	pool := render.NewEnginePool()
	renderer := render.NewRenderer(pool, cfg.Render.SettleDelay)

	storySvc := service.NewStoryService(
		generator,
		renderer,
		artifacts,
		mailer.New(&cfg.Mail),
		instagram.New(),
		&cfg.Render,
	)

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		pool:   pool,
	}
	srv.setupRoutes(storySvc)

	return srv, nil
}

func (s *Server) setupRoutes(storySvc service.StoryService) {
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Rendered pages are served straight from the artifact directory under
	// the same public prefix the API reports in imagePaths.
	publicPath := s.cfg.Render.PublicPath
	if publicPath == "" {
		publicPath = "/images"
	}
	s.engine.Static(publicPath, s.cfg.Render.ArtifactDir)

	storyHdl := storyHandler.NewHandler(storySvc)

	api := s.engine.Group("/api")
	{
		api.POST("/story", storyHdl.GenerateStory)
		api.POST("/rerender-images", storyHdl.RerenderImages)
		api.GET("/download-images", storyHdl.DownloadImages)
		api.POST("/send-images-email", storyHdl.SendImagesEmail)
		api.POST("/instagram", storyHdl.InstagramPost)
	}
}

// Run serves until ctx is cancelled, then shuts down and tears the browser
// pool down.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")
		s.pool.Close()
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		s.pool.Close()
		return err
	}
}

// Engine exposes the gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
