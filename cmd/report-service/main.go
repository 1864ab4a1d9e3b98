package main

import (
	"fmt"
	"os"

	"report-service/internal/auth"
	"report-service/internal/config"
	"report-service/internal/db"
	httphandler "report-service/internal/http"
	"report-service/internal/http/middleware"
	"report-service/internal/logger"
	"report-service/internal/render"
	"report-service/internal/repository"
	"report-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	scopeRepo := repository.NewScopeRepository(database)
	recordRepo := repository.NewRecordRepository(database)
	reportRepo := repository.NewReportRepository(database)

	reportService, err := service.NewReportService(
		recordRepo,
		reportRepo,
		scopeRepo,
		render.DefaultRegistry(),
		cfg.Reports.Dir,
		cfg.Reports.DefaultRangeDays,
		cfg.Reports.MaxRangeDays,
		appLogger,
	)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialise report service")
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(reportService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting report service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
