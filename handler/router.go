package handler

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crosti/buyerform/config"
	"github.com/crosti/buyerform/middleware"
)

// Deps are the services the HTTP layer calls into.
type Deps struct {
	Config    *config.Config
	Submitter ProfileSubmitter
	Processor FileProcessor
}

// NewRouter builds the engine with middleware and every route mounted.
func NewRouter(deps Deps) *gin.Engine {
	cfg := deps.Config

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.NoCache())
	router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))

	if cfg.Server.StaticDir != "" {
		mountStatic(router, cfg.Server.StaticDir)
	}

	router.GET("/health", Health)

	authHandler := NewAuthHandler(cfg)
	submitHandler := NewSubmitHandler(deps.Submitter)
	uploadHandler := NewUploadHandler(deps.Processor, cfg.Server.MaxUploadBytes)

	api := router.Group("/api")
	{
		api.POST("/submit-form", submitHandler.Submit)
		api.POST("/auth/login", authHandler.Login)
	}

	protected := api.Group("/")
	protected.Use(middleware.OptionalAuth(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.POST("/upload", uploadHandler.Upload)
	}

	return router
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// mountStatic serves a built front end: index.html at / and its assets.
func mountStatic(router *gin.Engine, dir string) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		slog.Warn("static dir has no index.html, not serving it", "directory", dir)
		return
	}

	slog.Info("serving static files", "directory", dir)
	router.StaticFile("/", index)
	router.StaticFile("/index.html", index)
	router.Static("/assets", filepath.Join(dir, "assets"))
}
