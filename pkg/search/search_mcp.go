package search

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// RegisterMCPTools exposes the web search agent as an MCP tool.
func RegisterMCPTools(mcpServer *server.MCPServer, agent *WebSearchAgent, logger *logrus.Logger) {
	searchTool := mcp.NewTool("web_search",
		mcp.WithDescription("Searches the web for current information, returning ranked results with source attribution"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return, default 10"),
		),
		mcp.WithString("search_type",
			mcp.Description("Search strategy: healthcare, news, academic, or general (default)"),
		),
	)

	mcpServer.AddTool(searchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleWebSearch(ctx, request, agent, logger)
	})
}

// handleWebSearch runs the search agent for an MCP tool call.
func handleWebSearch(ctx context.Context, request mcp.CallToolRequest, agent *WebSearchAgent, logger *logrus.Logger) (*mcp.CallToolResult, error) {
	logger.WithFields(logrus.Fields{
		"tool": "web_search",
	}).Debug("Processing web_search request")

	query, err := request.RequireString("query")
	if err != nil {
		logger.WithError(err).Error("Failed to parse query parameter")
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse parameters: %v", err)), nil
	}
	if query == "" {
		return mcp.NewToolResultError("search query must not be empty"), nil
	}

	maxResults := request.GetInt("max_results", 10)
	if maxResults < 1 || maxResults > 50 {
		maxResults = 10
	}

	searchType := request.GetString("search_type", "general")

	results := agent.Execute(ctx, query, maxResults, searchType)

	resultText := fmt.Sprintf("🔍 Search results for \"%s\":\n\n", query)
	for i, result := range results {
		resultText += fmt.Sprintf("%d. **%s** (%s, relevance %.3f)\n", i+1, result.Title, result.SourceType, result.RelevanceScore)
		resultText += fmt.Sprintf("   📄 %s\n", result.Snippet)
		resultText += fmt.Sprintf("   🔗 %s\n", result.URL)
		if i < len(results)-1 {
			resultText += "\n"
		}
	}
	if len(results) == 0 {
		resultText += "No results found."
	}

	return mcp.NewToolResultText(resultText), nil
}
