package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/config"
	"healthfinder-go/pkg/models"
)

// duckduckgoAgentName tags results produced by this provider.
const duckduckgoAgentName = "DuckDuckGoSearchTool"

// perProviderCap hard limit on results requested from a backend per call.
const perProviderCap = 20

// DuckDuckGoClient queries the DuckDuckGo instant answer API.
type DuckDuckGoClient struct {
	config     *config.SearchConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// ddgResponse instant answer API response
type ddgResponse struct {
	Heading        string     `json:"Heading"`
	AbstractText   string     `json:"AbstractText"`
	AbstractURL    string     `json:"AbstractURL"`
	AbstractSource string     `json:"AbstractSource"`
	Answer         string     `json:"Answer"`
	Definition     string     `json:"Definition"`
	DefinitionURL  string     `json:"DefinitionURL"`
	Results        []ddgTopic `json:"Results"`
	RelatedTopics  []ddgTopic `json:"RelatedTopics"`
}

// ddgTopic single topic entry; grouped entries nest under Topics
type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Name     string     `json:"Name"`
	Topics   []ddgTopic `json:"Topics"`
}

// NewDuckDuckGoClient creates a DuckDuckGo search provider.
func NewDuckDuckGoClient(cfg *config.SearchConfig, logger *logrus.Logger) *DuckDuckGoClient {
	return &DuckDuckGoClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

// Name returns the provider identifier used in result attribution.
func (c *DuckDuckGoClient) Name() string {
	return duckduckgoAgentName
}

// Search runs one instant answer query and maps the response to search results.
func (c *DuckDuckGoClient) Search(ctx context.Context, query string, maxResults int, searchType string) ([]models.SearchResult, error) {
	if maxResults > perProviderCap {
		maxResults = perProviderCap
	}

	enhanced := enhanceQueryForType(query, searchType)

	params := url.Values{}
	params.Set("q", enhanced)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	requestURL := fmt.Sprintf("%s/?%s", strings.TrimRight(c.config.DuckDuckGoURL, "/"), params.Encode())

	c.logger.WithFields(logrus.Fields{
		"query":       query,
		"enhanced":    enhanced,
		"max_results": maxResults,
		"search_type": searchType,
	}).Debug("Sending DuckDuckGo search request")

	httpReq, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

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
		}).Error("DuckDuckGo API returned error")
		return nil, fmt.Errorf("DuckDuckGo API error: status %d", resp.StatusCode)
	}

	var ddgResp ddgResponse
	if err := json.Unmarshal(respBody, &ddgResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	results := c.mapResponse(query, &ddgResp, maxResults)

	c.logger.WithFields(logrus.Fields{
		"query":         query,
		"results_count": len(results),
	}).Debug("DuckDuckGo search completed")

	return results, nil
}

// mapResponse converts an instant answer payload into ranked search results.
func (c *DuckDuckGoClient) mapResponse(query string, resp *ddgResponse, maxResults int) []models.SearchResult {
	now := time.Now().UTC()
	results := make([]models.SearchResult, 0, maxResults)

	appendResult := func(title, link, snippet string) {
		if len(results) >= maxResults || link == "" {
			return
		}
		if title == "" {
			title = "No title"
		}
		if snippet == "" {
			snippet = "No description"
		}
		position := len(results)
		results = append(results, models.SearchResult{
			Query:          query,
			Title:          title,
			URL:            link,
			Snippet:        snippet,
			RelevanceScore: provisionalScore(position),
			Timestamp:      now,
			SourceType:     ClassifySourceType(link),
			AgentName:      duckduckgoAgentName,
		})
	}

	if resp.AbstractText != "" && resp.AbstractURL != "" {
		appendResult(resp.Heading, resp.AbstractURL, resp.AbstractText)
	}
	if resp.Definition != "" && resp.DefinitionURL != "" {
		appendResult(resp.Heading, resp.DefinitionURL, resp.Definition)
	}

	for _, topic := range flattenTopics(resp.Results) {
		appendResult(topicTitle(topic.Text), topic.FirstURL, topic.Text)
	}
	for _, topic := range flattenTopics(resp.RelatedTopics) {
		appendResult(topicTitle(topic.Text), topic.FirstURL, topic.Text)
	}

	return results
}

// HealthCheck verifies the instant answer API is reachable.
func (c *DuckDuckGoClient) HealthCheck(ctx context.Context) error {
	params := url.Values{}
	params.Set("q", "health check")
	params.Set("format", "json")

	requestURL := fmt.Sprintf("%s/?%s", strings.TrimRight(c.config.DuckDuckGoURL, "/"), params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("DuckDuckGo health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("DuckDuckGo health check failed: status %d", resp.StatusCode)
	}
	return nil
}

// flattenTopics expands grouped topics into a flat list of linkable entries.
func flattenTopics(topics []ddgTopic) []ddgTopic {
	flat := make([]ddgTopic, 0, len(topics))
	for _, topic := range topics {
		if topic.FirstURL != "" {
			flat = append(flat, topic)
		}
		if len(topic.Topics) > 0 {
			flat = append(flat, flattenTopics(topic.Topics)...)
		}
	}
	return flat
}

// topicTitle derives a short title from instant answer topic text.
func topicTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 {
		return text[:idx]
	}
	return text
}

// provisionalScore seeds position-based relevance before re-scoring.
func provisionalScore(position int) float64 {
	score := 0.9 - float64(position)*0.05
	if score < 0.3 {
		return 0.3
	}
	return score
}
