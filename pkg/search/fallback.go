package search

import (
	"fmt"
	"strings"
	"time"

	"healthfinder-go/pkg/models"
)

// fallbackEntry template for one simulated result
type fallbackEntry struct {
	title      string
	url        string
	snippet    string
	sourceType string
}

// simulatedResults builds placeholder results when the provider is unavailable
// and fallback is enabled. Relevance decreases by position: 0.95, 0.85, ...
// with a 0.3 floor.
func simulatedResults(query string, maxResults int, searchType, agentName string) []models.SearchResult {
	dashed := strings.ReplaceAll(strings.ToLower(query), " ", "-")
	plussed := strings.ReplaceAll(query, " ", "+")
	underscored := strings.ReplaceAll(query, " ", "_")

	var base []fallbackEntry
	switch searchType {
	case "healthcare":
		base = []fallbackEntry{
			{
				title:      fmt.Sprintf("Medical Information: %s - Mayo Clinic", query),
				url:        fmt.Sprintf("https://mayoclinic.org/conditions/%s", dashed),
				snippet:    fmt.Sprintf("Comprehensive medical information about %s, including symptoms, causes, and treatments from Mayo Clinic medical experts.", query),
				sourceType: "medical",
			},
			{
				title:      fmt.Sprintf("%s Research - PubMed Central", query),
				url:        fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/search/%s", plussed),
				snippet:    fmt.Sprintf("Latest research papers and clinical studies related to %s from peer-reviewed medical journals.", query),
				sourceType: "academic",
			},
			{
				title:      fmt.Sprintf("CDC Guidelines: %s", query),
				url:        fmt.Sprintf("https://cdc.gov/health-topics/%s", dashed),
				snippet:    fmt.Sprintf("Official health guidelines and recommendations from the Centers for Disease Control and Prevention regarding %s.", query),
				sourceType: "government",
			},
		}
	case "news":
		base = []fallbackEntry{
			{
				title:      fmt.Sprintf("Latest News: %s - Reuters", query),
				url:        fmt.Sprintf("https://reuters.com/search/news?query=%s", plussed),
				snippet:    fmt.Sprintf("Recent news and developments related to %s from Reuters news service.", query),
				sourceType: "news",
			},
			{
				title:      fmt.Sprintf("%s Updates - Associated Press", query),
				url:        fmt.Sprintf("https://apnews.com/search/%s", plussed),
				snippet:    fmt.Sprintf("Current events and breaking news coverage of %s from AP News.", query),
				sourceType: "news",
			},
		}
	default:
		base = []fallbackEntry{
			{
				title:      fmt.Sprintf("%s - Wikipedia", query),
				url:        fmt.Sprintf("https://en.wikipedia.org/wiki/%s", underscored),
				snippet:    fmt.Sprintf("Comprehensive overview of %s from Wikipedia, the free encyclopedia.", query),
				sourceType: "reference",
			},
			{
				title:      fmt.Sprintf("What is %s? - Britannica", query),
				url:        fmt.Sprintf("https://britannica.com/search?query=%s", plussed),
				snippet:    fmt.Sprintf("Detailed information and analysis of %s from Encyclopedia Britannica.", query),
				sourceType: "reference",
			},
			{
				title:      fmt.Sprintf("%s Guide - Expert Analysis", query),
				url:        fmt.Sprintf("https://expertanalysis.com/topics/%s", dashed),
				snippet:    fmt.Sprintf("Expert analysis and comprehensive guide to understanding %s and its implications.", query),
				sourceType: "analysis",
			},
		}
	}

	numResults := min(maxResults, len(base)+3)
	now := time.Now().UTC()

	results := make([]models.SearchResult, 0, numResults)
	for i := 0; i < numResults; i++ {
		var entry fallbackEntry
		if i < len(base) {
			entry = base[i]
		} else {
			entry = fallbackEntry{
				title:      fmt.Sprintf("%s - Additional Resource %d", query, i+1),
				url:        fmt.Sprintf("https://example-source-%d.com/%s", i+1, dashed),
				snippet:    fmt.Sprintf("Additional information and resources related to %s from authoritative sources.", query),
				sourceType: "general",
			}
		}

		relevance := 0.95 - float64(i)*0.1
		if relevance < 0.3 {
			relevance = 0.3
		}

		results = append(results, models.SearchResult{
			Query:          query,
			Title:          entry.title,
			URL:            entry.url,
			Snippet:        entry.snippet,
			RelevanceScore: relevance,
			Timestamp:      now,
			SourceType:     entry.sourceType,
			AgentName:      agentName,
		})
	}

	return results
}
