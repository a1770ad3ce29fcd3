package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/config"
	"healthfinder-go/pkg/models"
)

const tavilyAgentName = "TavilySearchTool"

// TavilyClient Tavily REST search provider
type TavilyClient struct {
	config     *config.SearchConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// TavilySearchRequest Tavily API request body
type TavilySearchRequest struct {
	APIKey            string   `json:"api_key"`
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth,omitempty"`
	IncludeAnswer     bool     `json:"include_answer,omitempty"`
	IncludeImages     bool     `json:"include_images,omitempty"`
	IncludeRawContent bool     `json:"include_raw_content,omitempty"`
	MaxResults        int      `json:"max_results,omitempty"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
	ExcludeDomains    []string `json:"exclude_domains,omitempty"`
}

// TavilySearchResponse Tavily API response body
type TavilySearchResponse struct {
	Answer            string         `json:"answer"`
	Query             string         `json:"query"`
	ResponseTime      float64        `json:"response_time"`
	Results           []TavilyResult `json:"results"`
	FollowUpQuestions []string       `json:"follow_up_questions"`
}

// TavilyResult single Tavily search hit
type TavilyResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	RawContent    string  `json:"raw_content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date"`
}

// NewTavilyClient creates a Tavily search provider.
func NewTavilyClient(cfg *config.SearchConfig, logger *logrus.Logger) *TavilyClient {
	return &TavilyClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

// Name returns the provider identifier used in result attribution.
func (c *TavilyClient) Name() string {
	return tavilyAgentName
}

// Search runs one Tavily query and maps the response to search results.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int, searchType string) ([]models.SearchResult, error) {
	if maxResults > perProviderCap {
		maxResults = perProviderCap
	}

	enhanced := enhanceQueryForType(query, searchType)

	req := TavilySearchRequest{
		APIKey:            c.config.TavilyAPIKey,
		Query:             enhanced,
		SearchDepth:       c.config.TavilyDepth,
		IncludeAnswer:     false,
		IncludeImages:     false,
		IncludeRawContent: false,
		MaxResults:        maxResults,
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"query":        query,
		"search_depth": c.config.TavilyDepth,
		"max_results":  maxResults,
	}).Debug("Sending Tavily search request")

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.config.TavilyURL+"/search", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(respBody),
		}).Error("Tavily API returned error")
		return nil, fmt.Errorf("Tavily API error: status %d", resp.StatusCode)
	}

	var tavilyResp TavilySearchResponse
	if err := json.Unmarshal(respBody, &tavilyResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	results := c.mapResponse(query, &tavilyResp)

	c.logger.WithFields(logrus.Fields{
		"query":         query,
		"results_count": len(results),
		"response_time": tavilyResp.ResponseTime,
	}).Debug("Tavily search completed")

	return results, nil
}

// mapResponse converts Tavily hits into search results, dropping empty or
// near-zero-score entries and truncating long snippets.
func (c *TavilyClient) mapResponse(query string, resp *TavilySearchResponse) []models.SearchResult {
	now := time.Now().UTC()
	results := make([]models.SearchResult, 0, len(resp.Results))

	for _, hit := range resp.Results {
		if hit.Content == "" || hit.Score < 0.1 {
			continue
		}

		snippet := hit.Content
		if len(snippet) > 1000 {
			snippet = snippet[:1000] + "..."
		}

		score := hit.Score
		if score > 1 {
			score = 1
		}

		results = append(results, models.SearchResult{
			Query:          query,
			Title:          hit.Title,
			URL:            hit.URL,
			Snippet:        snippet,
			RelevanceScore: score,
			Timestamp:      now,
			SourceType:     ClassifySourceType(hit.URL),
			AgentName:      tavilyAgentName,
		})
	}

	return results
}

// HealthCheck verifies the Tavily API key is set and the endpoint responds.
func (c *TavilyClient) HealthCheck(ctx context.Context) error {
	if c.config.TavilyAPIKey == "" {
		return fmt.Errorf("tavily api key not configured")
	}
	_, err := c.Search(ctx, "health check", 1, "general")
	return err
}
