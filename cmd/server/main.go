package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ajharbinger/seo-lead-qualifier/internal/api"
	"github.com/ajharbinger/seo-lead-qualifier/internal/logger"
	"github.com/ajharbinger/seo-lead-qualifier/internal/middleware"
	"github.com/ajharbinger/seo-lead-qualifier/internal/services"
	"github.com/ajharbinger/seo-lead-qualifier/pkg/config"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration
	cfg := config.New()
	log := logger.NewLogger(os.Stdout, os.Stderr, logger.ParseLevel(cfg.LogLevel))
	if envErr != nil {
		log.Debug("No .env file found")
	}

	scoringCfg, err := config.LoadScoringFile(cfg.ScoringConfigPath)
	if err != nil {
		log.Fatal("Failed to load scoring config", err, "path", cfg.ScoringConfigPath)
	}

	svcs := services.NewServices(cfg, scoringCfg, log)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg.MaxRequestSize))

	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware(cfg.RateLimitRPM, log))
	}

	r.Use(gin.Recovery())

	if err := r.SetTrustedProxies(cfg.GetTrustedProxies()); err != nil {
		log.Fatal("Invalid trusted proxies", err)
	}

	api.SetupRoutes(r, svcs, log)

	log.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"hot_threshold", scoringCfg.Thresholds.Hot,
		"workers", cfg.ScoreWorkers,
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", err)
	}
}
