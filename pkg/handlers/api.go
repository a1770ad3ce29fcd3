package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"healthfinder-go/internal/workflow"
	"healthfinder-go/pkg/metrics"
	"healthfinder-go/pkg/models"
	"healthfinder-go/pkg/nppes"
)

// CompletionSubmitter queues chat completion requests for processing.
type CompletionSubmitter interface {
	SubmitRequest(ctx context.Context, req *models.ChatCompletionRequest) (*models.ChatCompletionResponse, error)
	GetStats() map[string]interface{}
	IsHealthy() bool
}

// WorkflowController exposes workflow introspection and configuration.
type WorkflowController interface {
	ID() string
	Config() models.WorkflowConfig
	UpdateConfig(cfg models.WorkflowConfig)
	WorkflowInfo() map[string]interface{}
	AgentStatus() map[string]interface{}
	ExecutionStats() map[string]interface{}
	PerformanceStats() map[string]interface{}
}

// ProviderDirectory looks up healthcare providers in the NPI registry.
type ProviderDirectory interface {
	SearchProviders(ctx context.Context, req *nppes.SearchRequest) (*nppes.SearchResponse, error)
	GetProviderByNPI(ctx context.Context, npi string) (*nppes.Provider, error)
}

// Handler serves the HTTP API.
type Handler struct {
	queue      CompletionSubmitter
	workflow   WorkflowController
	directory  ProviderDirectory
	llmEnabled bool
	logger     *logrus.Logger
}

// NewHandler creates the API handler.
func NewHandler(queue CompletionSubmitter, wf WorkflowController, directory ProviderDirectory, llmEnabled bool, logger *logrus.Logger) *Handler {
	return &Handler{
		queue:      queue,
		workflow:   wf,
		directory:  directory,
		llmEnabled: llmEnabled,
		logger:     logger,
	}
}

// SetupRoutes registers all API routes.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(h.metricsMiddleware())

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	chat := router.Group("/chat")
	{
		chat.POST("/completions", h.CreateChatCompletion)
		chat.GET("/status", h.ChatStatus)
		chat.GET("/metrics", h.ChatMetrics)
		chat.POST("/config", h.UpdateChatConfig)
		chat.GET("/config/presets", h.ConfigPresets)
		chat.GET("/health", h.ChatHealth)
	}

	providers := router.Group("/providers")
	{
		providers.GET("/search", h.SearchProviders)
		providers.GET("/types", h.ProviderTypes)
		providers.GET("/npi/:npi", h.ProviderByNPI)
	}
}

// metricsMiddleware records request counts and latency per route.
func (h *Handler) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordRequest(endpoint, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// HealthCheck reports service liveness and component health.
func (h *Handler) HealthCheck(c *gin.Context) {
	status := "healthy"
	if !h.queue.IsHealthy() {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"version": "0.1.0",
		"components": gin.H{
			"queue":           h.queue.IsHealthy(),
			"search_provider": h.workflow.Config().SearchEngine,
			"llm_configured":  h.llmEnabled,
		},
	})
}

// CreateChatCompletion runs one request through the research pipeline.
func (h *Handler) CreateChatCompletion(c *gin.Context) {
	var req models.ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if req.Stream {
		h.logger.Warn("Streaming completions not yet implemented")
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Streaming completions not yet implemented",
		})
		return
	}

	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.logger.WithField("message_count", len(req.Messages)).Info("Received chat completion request")

	resp, err := h.queue.SubmitRequest(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to process chat completion")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error occurred",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChatStatus reports workflow, agent, and capability information.
func (h *Handler) ChatStatus(c *gin.Context) {
	cfg := h.workflow.Config()

	c.JSON(http.StatusOK, gin.H{
		"status":          "operational",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"workflow_info":   h.workflow.WorkflowInfo(),
		"agent_status":    h.workflow.AgentStatus(),
		"execution_stats": h.workflow.ExecutionStats(),
		"capabilities": gin.H{
			"research":       cfg.EnableResearch,
			"deep_research":  cfg.EnableResearch,
			"web_search":     cfg.EnableWebSearch,
			"synthesis":      true,
			"streaming":      false,
			"context_memory": true,
		},
		"configuration": cfg,
	})
}

// ChatMetrics reports a JSON metrics snapshot of the chat system.
func (h *Handler) ChatMetrics(c *gin.Context) {
	cfg := h.workflow.Config()
	executionStats := h.workflow.ExecutionStats()

	c.JSON(http.StatusOK, gin.H{
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"workflow_id":       h.workflow.ID(),
		"workflow_metrics":  executionStats,
		"execution_metrics": executionStats,
		"agent_metrics": gin.H{
			"total_agents":       3,
			"enabled_agents":     []string{"ResearchAgent", "WebSearchAgent", "SynthesisAgent"},
			"agent_capabilities": h.workflow.AgentStatus(),
		},
		"performance_metrics": h.workflow.PerformanceStats(),
		"queue_metrics":       h.queue.GetStats(),
		"system_metrics": gin.H{
			"memory_usage":         "N/A",
			"cpu_usage":            "N/A",
			"uptime":               "N/A",
			"active_connections":   1,
			"success_rate":         statOrZero(executionStats, "success_rate"),
			"total_steps_executed": statOrZero(executionStats, "total_steps_executed"),
			"average_step_time":    statOrZero(executionStats, "average_step_time"),
		},
		"configuration_metrics": gin.H{
			"research_enabled":   cfg.EnableResearch,
			"web_search_enabled": cfg.EnableWebSearch,
			"research_depth":     cfg.ResearchDepth,
			"max_search_results": cfg.MaxSearchResults,
		},
	})
}

// UpdateChatConfig replaces the active workflow configuration.
func (h *Handler) UpdateChatConfig(c *gin.Context) {
	var cfg models.WorkflowConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.logger.Info("Updating chat configuration via API")
	h.workflow.UpdateConfig(cfg)

	c.JSON(http.StatusOK, gin.H{
		"status":          "configuration_updated",
		"message":         "Configuration updated successfully",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"new_config":      cfg,
		"applied_updates": cfg,
	})
}

// ConfigPresets lists the predefined workflow configurations.
func (h *Handler) ConfigPresets(c *gin.Context) {
	c.JSON(http.StatusOK, workflow.ConfigPresets())
}

// ChatHealth reports chat service health.
func (h *Handler) ChatHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "HealthFinder Chat API",
		"version":   "2.0.0",
	})
}

// statOrZero reads a stats key that is absent before the first request.
func statOrZero(stats map[string]interface{}, key string) interface{} {
	if value, ok := stats[key]; ok {
		return value
	}
	return 0
}
