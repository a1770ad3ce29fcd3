package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/metrics"
	"healthfinder-go/pkg/models"
)

// maxSearchQueries caps variant expansion per request, original query included.
const maxSearchQueries = 3

// perQueryCap caps results requested from the provider per variant.
const perQueryCap = 10

// WebSearchAgent expands a query into type-specific variants, runs them
// sequentially against the provider, and dedupes, re-scores, and ranks the
// merged results.
type WebSearchAgent struct {
	provider        Provider
	fallbackEnabled bool
	limiter         *rateLimiter
	logger          *logrus.Logger
}

// NewWebSearchAgent creates a web search agent. fallbackEnabled must be set
// explicitly from configuration: enabled substitutes simulated results on
// provider failure, disabled (strict) yields an empty result set instead.
func NewWebSearchAgent(provider Provider, fallbackEnabled bool, rateLimit time.Duration, logger *logrus.Logger) *WebSearchAgent {
	return &WebSearchAgent{
		provider:        provider,
		fallbackEnabled: fallbackEnabled,
		limiter:         &rateLimiter{interval: rateLimit},
		logger:          logger,
	}
}

// Execute runs the full search stage for one query. Failures degrade into an
// error result or an empty set; the pipeline is never aborted from here.
func (a *WebSearchAgent) Execute(ctx context.Context, query string, maxResults int, searchType string) []models.SearchResult {
	start := time.Now()

	a.logger.WithFields(logrus.Fields{
		"query":       query,
		"max_results": maxResults,
		"search_type": searchType,
	}).Info("Web search agent starting search")

	if err := ctx.Err(); err != nil {
		return a.errorResult(query, err)
	}
	if maxResults < 1 {
		maxResults = 1
	}

	queries := GenerateSearchQueries(query, searchType)

	var allResults []models.SearchResult
	for _, searchQuery := range queries {
		results := a.singleSearch(ctx, searchQuery, maxResults, searchType)
		allResults = append(allResults, results...)
	}

	processed := a.processResults(allResults, query, maxResults)

	a.logger.WithFields(logrus.Fields{
		"query":          query,
		"queries_run":    len(queries),
		"raw_results":    len(allResults),
		"ranked_results": len(processed),
		"duration":       time.Since(start).String(),
	}).Info("Web search agent completed")

	return processed
}

// singleSearch runs one variant with rate limiting and fallback handling.
func (a *WebSearchAgent) singleSearch(ctx context.Context, query string, maxResults int, searchType string) []models.SearchResult {
	if err := a.limiter.wait(ctx); err != nil {
		a.logger.WithError(err).WithField("query", query).Warn("Search cancelled while rate limited")
		return nil
	}

	perQuery := min(maxResults, perQueryCap)

	results, err := a.provider.Search(ctx, query, perQuery, searchType)
	if err != nil {
		a.logger.WithError(err).WithFields(logrus.Fields{
			"query":    query,
			"provider": a.provider.Name(),
			"fallback": a.fallbackEnabled,
		}).Warn("Search provider failed")

		if !a.fallbackEnabled {
			return nil
		}
		metrics.RecordSearchFallback()
		return simulatedResults(query, perQuery, searchType, a.provider.Name())
	}

	return results
}

// processResults dedupes by URL (first seen wins), re-scores against the
// original query, ranks descending, and truncates to maxResults.
func (a *WebSearchAgent) processResults(results []models.SearchResult, originalQuery string, maxResults int) []models.SearchResult {
	if len(results) == 0 {
		return []models.SearchResult{}
	}

	unique := dedupeByURL(results)

	for i := range unique {
		unique[i].RelevanceScore = ScoreRelevance(originalQuery, unique[i].Title, unique[i].Snippet, unique[i].URL)
	}

	rankByRelevance(unique)

	if len(unique) > maxResults {
		unique = unique[:maxResults]
	}
	return unique
}

// errorResult is the stage-level failure shape: a single zero-relevance entry.
func (a *WebSearchAgent) errorResult(query string, err error) []models.SearchResult {
	a.logger.WithError(err).Error("Web search agent error")
	return []models.SearchResult{
		{
			Query:          query,
			Title:          "Search Error",
			URL:            "",
			Snippet:        fmt.Sprintf("Web search failed: %v", err),
			RelevanceScore: 0.0,
			Timestamp:      time.Now().UTC(),
			SourceType:     "general",
			AgentName:      "WebSearchTool",
		},
	}
}

// Capabilities reports what this agent can do, for the status endpoint.
func (a *WebSearchAgent) Capabilities() map[string]interface{} {
	return map[string]interface{}{
		"search_engines":    []string{a.provider.Name()},
		"search_strategies": []string{"healthcare", "news", "academic", "general"},
		"features": []string{
			"Real-time web search",
			"Multi-query strategies",
			"Source credibility assessment",
			"Relevance scoring",
			"Duplicate removal",
			"Result ranking",
		},
		"fallback_enabled": a.fallbackEnabled,
	}
}

// HealthCheck reports provider reachability.
func (a *WebSearchAgent) HealthCheck(ctx context.Context) error {
	return a.provider.HealthCheck(ctx)
}

// GenerateSearchQueries expands a query into at most maxSearchQueries variants,
// the original always first.
func GenerateSearchQueries(query, searchType string) []string {
	queries := []string{query}

	var modifiers []string
	switch searchType {
	case "healthcare":
		modifiers = []string{
			query + " clinical guidelines",
			query + " recent research 2024",
			query + " FDA approved treatment",
		}
	case "news":
		modifiers = []string{
			query + " news today",
			"recent " + query + " developments",
			query + " latest updates",
		}
	case "academic":
		modifiers = []string{
			query + " research paper",
			query + " academic study",
			query + " scholarly article",
		}
	default:
		modifiers = []string{
			query + " overview",
			query + " comprehensive guide",
			"what is " + query,
		}
	}

	queries = append(queries, modifiers...)
	if len(queries) > maxSearchQueries {
		queries = queries[:maxSearchQueries]
	}
	return queries
}

// rateLimiter enforces a minimum interval between provider calls. Shared by
// every request using this agent, so slots are reserved under a lock.
type rateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// wait blocks until the caller's reserved slot arrives or the context ends.
func (l *rateLimiter) wait(ctx context.Context) error {
	if l.interval <= 0 {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	var sleep time.Duration
	if !l.last.IsZero() {
		next := l.last.Add(l.interval)
		if now.Before(next) {
			sleep = next.Sub(now)
		}
	}
	l.last = now.Add(sleep)
	l.mu.Unlock()

	if sleep > 0 {
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
