package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/models"
)

// RegisterMCPTools exposes the research tools over MCP.
func RegisterMCPTools(mcpServer *server.MCPServer, healthcare *HealthcareResearchTool, general *GeneralResearchTool, logger *logrus.Logger) {
	healthcareTool := mcp.NewTool("healthcare_research",
		mcp.WithDescription("Conducts comprehensive healthcare and medical research including treatments, clinical evidence, and practice guidelines"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Research question or medical topic"),
		),
		mcp.WithNumber("depth",
			mcp.Description("Research depth from 1 to 5, default 3"),
		),
		mcp.WithString("focus_areas",
			mcp.Description("Comma-separated focus areas"),
		),
	)
	mcpServer.AddTool(healthcareTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleResearch(ctx, request, healthcare, logger)
	})

	generalTool := mcp.NewTool("general_research",
		mcp.WithDescription("Conducts research on general topics including technology, science, business, and education"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Research question or topic"),
		),
		mcp.WithNumber("depth",
			mcp.Description("Research depth from 1 to 5, default 3"),
		),
		mcp.WithString("focus_areas",
			mcp.Description("Comma-separated focus areas"),
		),
	)
	mcpServer.AddTool(generalTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleResearch(ctx, request, general, logger)
	})
}

// handleResearch runs a research tool for an MCP tool call.
func handleResearch(ctx context.Context, request mcp.CallToolRequest, tool Tool, logger *logrus.Logger) (*mcp.CallToolResult, error) {
	logger.WithFields(logrus.Fields{
		"tool": tool.Name(),
	}).Debug("Processing research request")

	query, err := request.RequireString("query")
	if err != nil {
		logger.WithError(err).Error("Failed to parse query parameter")
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse parameters: %v", err)), nil
	}
	if query == "" {
		return mcp.NewToolResultError("research query must not be empty"), nil
	}

	depth := request.GetInt("depth", 3)

	var focusAreas []string
	if raw := request.GetString("focus_areas", ""); raw != "" {
		for _, area := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(area); trimmed != "" {
				focusAreas = append(focusAreas, trimmed)
			}
		}
	}

	finding := tool.Research(ctx, query, depth, focusAreas)

	return mcp.NewToolResultText(formatFinding(finding)), nil
}

// formatFinding renders a research finding as readable tool output.
func formatFinding(finding models.ResearchFinding) string {
	text := fmt.Sprintf("📚 Research findings for \"%s\" (confidence %.3f):\n\n", finding.Query, finding.Confidence)
	text += finding.Findings
	if len(finding.Sources) > 0 {
		text += "\n\nSources:\n"
		for _, source := range finding.Sources {
			text += fmt.Sprintf("- %s\n", source)
		}
	}
	return text
}
