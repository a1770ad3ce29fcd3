package main

import (
	"log"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/config"
	"healthfinder-go/pkg/nppes"
	"healthfinder-go/pkg/research"
	"healthfinder-go/pkg/search"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logrus.New()
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	var provider search.Provider
	switch cfg.Search.Provider {
	case "tavily":
		provider = search.NewTavilyClient(&cfg.Search, logger)
	default:
		provider = search.NewDuckDuckGoClient(&cfg.Search, logger)
	}
	rateLimit := time.Duration(cfg.Search.RateLimitMS) * time.Millisecond
	searchAgent := search.NewWebSearchAgent(provider, cfg.Search.FallbackEnabled, rateLimit, logger)

	healthcareTool := research.NewHealthcareResearchTool(logger)
	generalTool := research.NewGeneralResearchTool(logger)
	nppesClient := nppes.NewClient(&cfg.NPPES, logger)

	mcpServer := server.NewMCPServer("healthfinder-tools", "0.1.0")

	research.RegisterMCPTools(mcpServer, healthcareTool, generalTool, logger)
	search.RegisterMCPTools(mcpServer, searchAgent, logger)
	nppes.RegisterMCPTools(mcpServer, nppesClient, logger)

	logger.Info("Starting MCP server with research, search, and provider registry tools...")
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("Failed to start MCP server: %v", err)
	}
}
