package nppes

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// RegisterMCPTools exposes NPI registry lookups over MCP.
func RegisterMCPTools(mcpServer *server.MCPServer, client *Client, logger *logrus.Logger) {
	searchTool := mcp.NewTool("provider_search",
		mcp.WithDescription("Searches the NPI registry for healthcare providers by name, location, or specialty"),
		mcp.WithString("first_name",
			mcp.Description("Provider first name"),
		),
		mcp.WithString("last_name",
			mcp.Description("Provider last name"),
		),
		mcp.WithString("organization",
			mcp.Description("Organization name"),
		),
		mcp.WithString("city",
			mcp.Description("City"),
		),
		mcp.WithString("state",
			mcp.Description("Two-letter state code"),
		),
		mcp.WithString("postal_code",
			mcp.Description("Postal code"),
		),
		mcp.WithString("specialty",
			mcp.Description("Specialty or taxonomy description, for example cardiology"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum providers to return, default 10"),
		),
	)
	mcpServer.AddTool(searchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleProviderSearch(ctx, request, client, logger)
	})

	lookupTool := mcp.NewTool("provider_lookup",
		mcp.WithDescription("Retrieves a healthcare provider from the NPI registry by NPI number"),
		mcp.WithString("npi",
			mcp.Required(),
			mcp.Description("10-digit NPI number"),
		),
	)
	mcpServer.AddTool(lookupTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleProviderLookup(ctx, request, client, logger)
	})
}

// handleProviderSearch runs a registry search for an MCP tool call.
func handleProviderSearch(ctx context.Context, request mcp.CallToolRequest, client *Client, logger *logrus.Logger) (*mcp.CallToolResult, error) {
	logger.WithFields(logrus.Fields{
		"tool": "provider_search",
	}).Debug("Processing provider_search request")

	req := &SearchRequest{
		FirstName:           request.GetString("first_name", ""),
		LastName:            request.GetString("last_name", ""),
		OrganizationName:    request.GetString("organization", ""),
		City:                request.GetString("city", ""),
		State:               request.GetString("state", ""),
		PostalCode:          request.GetString("postal_code", ""),
		TaxonomyDescription: request.GetString("specialty", ""),
		Limit:               request.GetInt("limit", 10),
	}
	if !req.HasCriteria() {
		return mcp.NewToolResultError("at least one search criterion is required"), nil
	}

	resp, err := client.SearchProviders(ctx, req)
	if err != nil {
		logger.WithError(err).Error("Provider search failed")
		return mcp.NewToolResultError(fmt.Sprintf("provider search failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatProviders(resp)), nil
}

// handleProviderLookup retrieves one provider for an MCP tool call.
func handleProviderLookup(ctx context.Context, request mcp.CallToolRequest, client *Client, logger *logrus.Logger) (*mcp.CallToolResult, error) {
	logger.WithFields(logrus.Fields{
		"tool": "provider_lookup",
	}).Debug("Processing provider_lookup request")

	npi, err := request.RequireString("npi")
	if err != nil {
		logger.WithError(err).Error("Failed to parse npi parameter")
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse parameters: %v", err)), nil
	}
	if !ValidNPI(npi) {
		return mcp.NewToolResultError("NPI must be a 10-digit number"), nil
	}

	provider, err := client.GetProviderByNPI(ctx, npi)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no provider found for NPI %s", npi)), nil
		}
		logger.WithError(err).Error("Provider lookup failed")
		return mcp.NewToolResultError(fmt.Sprintf("provider lookup failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatProvider(provider)), nil
}

// formatProviders renders one result page as readable tool output.
func formatProviders(resp *SearchResponse) string {
	if len(resp.Providers) == 0 {
		return "No providers matched the search criteria."
	}

	text := fmt.Sprintf("🏥 Found %d providers:\n\n", resp.Total)
	for i, provider := range resp.Providers {
		text += fmt.Sprintf("%d. %s\n", i+1, providerSummary(&provider))
		if i < len(resp.Providers)-1 {
			text += "\n"
		}
	}
	return text
}

// formatProvider renders a single provider as readable tool output.
func formatProvider(provider *Provider) string {
	return "🏥 " + providerSummary(provider)
}

func providerSummary(provider *Provider) string {
	text := fmt.Sprintf("**%s** (NPI %s, %s)", provider.Name, provider.NPI, provider.ProviderType)
	if location := formatLocation(provider.Location); location != "" {
		text += fmt.Sprintf("\n   📍 %s", location)
	}
	for _, specialty := range provider.Specialties {
		if specialty.Primary {
			text += fmt.Sprintf("\n   🩺 %s", specialty.Name)
			break
		}
	}
	if provider.Phone != "" {
		text += fmt.Sprintf("\n   📞 %s", provider.Phone)
	}
	return text
}

func formatLocation(location Location) string {
	switch {
	case location.City != "" && location.State != "":
		return location.City + ", " + location.State
	case location.City != "":
		return location.City
	default:
		return location.State
	}
}
