package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthfinder-go/internal/workflow"
	"healthfinder-go/pkg/config"
	"healthfinder-go/pkg/handlers"
	"healthfinder-go/pkg/llm"
	"healthfinder-go/pkg/metrics"
	"healthfinder-go/pkg/nppes"
	"healthfinder-go/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logrus.New()
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logger.Info("Starting HealthFinder concierge service")

	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.GinMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// The composer stays nil unless an LLM is configured; synthesis then
	// returns its deterministic template output.
	var composer workflow.Composer
	if cfg.LLM.Enabled {
		composer = llm.NewClient(&cfg.LLM, logger)
		logger.WithField("provider", cfg.LLM.Provider).Info("Narrative composition enabled")
	}

	conciergeWorkflow := workflow.NewConciergeWorkflow(cfg, composer, logger)

	if err := conciergeWorkflow.ValidateWorkflow(context.Background()); err != nil {
		logger.WithError(err).Warn("Workflow validation failed, but continuing startup")
	}

	queueManager := queue.NewQueueManager(&queue.QueueConfig{
		MaxWorkers:     cfg.Queue.MaxWorkers,
		QueueSize:      cfg.Queue.QueueSize,
		RequestTimeout: time.Duration(cfg.Queue.RequestTimeout) * time.Second,
		QueueTimeout:   time.Duration(cfg.Queue.QueueTimeout) * time.Second,
	}, conciergeWorkflow, logger)
	if err := queueManager.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start queue manager")
	}

	metrics.RegisterQueueGauges(
		func() float64 { return float64(queueManager.QueueLength()) },
		func() float64 { return float64(queueManager.AvailableWorkers()) },
	)

	nppesClient := nppes.NewClient(&cfg.NPPES, logger)
	if err := nppesClient.HealthCheck(context.Background()); err != nil {
		logger.WithError(err).Warn("Provider registry validation failed, but continuing startup")
	}

	router := gin.Default()
	apiHandler := handlers.NewHandler(queueManager, conciergeWorkflow, nppesClient, cfg.LLM.Enabled, logger)
	apiHandler.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	queueManager.Stop()
	logger.Info("Server exited")
}
